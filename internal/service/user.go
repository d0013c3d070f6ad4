package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reviewdbapp/reviewdb-server/internal/domain"
	"github.com/reviewdbapp/reviewdb-server/internal/errors"
	"github.com/reviewdbapp/reviewdb-server/internal/id"
	"github.com/reviewdbapp/reviewdb-server/internal/store"
)

// UserService handles account administration and self-service profiles.
// Admin-only access is enforced in the HTTP layer; methods here assume the
// caller already passed the policy check, except where noted.
type UserService struct {
	store  store.Store
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(st store.Store, logger *slog.Logger) *UserService {
	return &UserService{store: st, logger: logger}
}

// UserView is the user representation returned by the API.
type UserView struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

func newUserView(u *domain.User) *UserView {
	return &UserView{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		Role:      string(u.Role),
	}
}

// CreateUserRequest is the admin user-creation payload.
type CreateUserRequest struct {
	Username  string `json:"username" validate:"required,max=150,username"`
	Email     string `json:"email" validate:"required,email,max=254"`
	FirstName string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName  string `json:"last_name,omitempty" validate:"omitempty,max=150"`
	Bio       string `json:"bio,omitempty"`
	Role      string `json:"role,omitempty" validate:"omitempty,oneof=user moderator admin"`
}

// UpdateUserRequest is a partial profile update. Nil fields stay unchanged.
type UpdateUserRequest struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=150"`
	Bio       *string `json:"bio,omitempty"`
	Role      *string `json:"role,omitempty" validate:"omitempty,oneof=user moderator admin"`
}

// List returns a page of users, optionally filtered by username substring.
func (s *UserService) List(ctx context.Context, search string, page store.Page) (*store.PagedResult[*UserView], error) {
	result, err := s.store.ListUsers(ctx, search, page)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	views := make([]*UserView, 0, len(result.Items))
	for _, u := range result.Items {
		views = append(views, newUserView(u))
	}
	return &store.PagedResult[*UserView]{Items: views, Total: result.Total}, nil
}

// Create adds a user account on behalf of an admin.
// Accounts created this way are active immediately and skip confirmation.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserView, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	role := domain.Role(req.Role)
	if req.Role == "" {
		role = domain.RoleUser
	}

	user := &domain.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
		IsActive:  true,
	}
	var err error
	user.ID, err = id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.Conflict("a user with this username or email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user created", slog.String("username", user.Username), slog.String("role", string(user.Role)))

	return newUserView(user), nil
}

// Get returns a user by username.
func (s *UserService) Get(ctx context.Context, username string) (*UserView, error) {
	user, err := s.getByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return newUserView(user), nil
}

// Update applies a partial update to a user identified by username.
func (s *UserService) Update(ctx context.Context, username string, req UpdateUserRequest) (*UserView, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.getByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	applyUserPatch(user, req)
	user.Touch()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.Conflict("a user with this email already exists")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	return newUserView(user), nil
}

// Delete removes a user by username. Their reviews and comments go with them.
func (s *UserService) Delete(ctx context.Context, username string) error {
	user, err := s.getByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := s.store.DeleteUser(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.Info("user deleted", slog.String("username", username))
	return nil
}

// Me returns the profile of the authenticated user.
func (s *UserService) Me(actor *domain.User) *UserView {
	return newUserView(actor)
}

// UpdateMe applies a partial update to the authenticated user's own profile.
// Plain users cannot change their role; the field is silently pinned so the
// rest of the patch still applies.
func (s *UserService) UpdateMe(ctx context.Context, actor *domain.User, req UpdateUserRequest) (*UserView, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if req.Role != nil && !actor.IsAdmin() && !actor.IsModerator() {
		req.Role = nil
	}

	applyUserPatch(actor, req)
	actor.Touch()

	if err := s.store.UpdateUser(ctx, actor); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.Conflict("a user with this email already exists")
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return newUserView(actor), nil
}

func applyUserPatch(user *domain.User, req UpdateUserRequest) {
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Role != nil {
		user.Role = domain.Role(*req.Role)
	}
}

func (s *UserService) getByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("user %q not found", username)
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}
