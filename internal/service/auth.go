// Package service implements the application logic between the HTTP layer
// and the store.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/reviewdbapp/reviewdb-server/internal/auth"
	"github.com/reviewdbapp/reviewdb-server/internal/domain"
	"github.com/reviewdbapp/reviewdb-server/internal/errors"
	"github.com/reviewdbapp/reviewdb-server/internal/id"
	"github.com/reviewdbapp/reviewdb-server/internal/mail"
	"github.com/reviewdbapp/reviewdb-server/internal/store"
	"github.com/reviewdbapp/reviewdb-server/internal/validation"
)

// validate is the shared validator instance for request validation.
var validate = validation.New()

// AuthService handles signup, confirmation codes and token issuance.
type AuthService struct {
	store        store.Store
	tokenService *auth.TokenService
	mailer       mail.Mailer
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(st store.Store, tokenService *auth.TokenService, mailer mail.Mailer, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:        st,
		tokenService: tokenService,
		mailer:       mailer,
		logger:       logger,
	}
}

// SignupRequest contains the data needed to register or re-request a code.
type SignupRequest struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Email    string `json:"email" validate:"required,email,max=254"`
}

// SignupResponse echoes the registered identity back to the caller.
type SignupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenRequest exchanges a confirmation code for an access token.
type TokenRequest struct {
	Username         string `json:"username" validate:"required"`
	ConfirmationCode string `json:"confirmation_code" validate:"required"`
}

// TokenResponse carries the issued access token.
type TokenResponse struct {
	Token string `json:"token"`
}

// Signup registers a user, or re-issues a confirmation code for an existing
// (username, email) pair. A fresh code is generated and mailed on every call;
// earlier codes stop working.
//
// Requests where the username or the email is already taken by a different
// account fail with a validation error rather than a conflict, so the
// endpoint stays idempotent for the legitimate owner.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByUsername(ctx, req.Username)
	switch {
	case err == nil:
		if user.Email != req.Email {
			return nil, errors.Validation("a user with this username already exists")
		}
	case errors.Is(err, store.ErrNotFound):
		// Username free; make sure the email isn't claimed by someone else.
		if _, emailErr := s.store.GetUserByEmail(ctx, req.Email); emailErr == nil {
			return nil, errors.Validation("a user with this email already exists")
		}

		user = &domain.User{
			Username: req.Username,
			Email:    req.Email,
			Role:     domain.RoleUser,
		}
		user.ID, err = id.Generate("user")
		if err != nil {
			return nil, fmt.Errorf("generate user ID: %w", err)
		}
		user.InitTimestamps()

		if err := s.store.CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				// Lost the race against a concurrent signup claiming the
				// same username or email.
				return nil, errors.Validation("a user with this username or email already exists")
			}
			return nil, fmt.Errorf("create user: %w", err)
		}
	default:
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	code := auth.NewConfirmationCode()
	codeHash, err := auth.HashConfirmationCode(code)
	if err != nil {
		return nil, fmt.Errorf("hash confirmation code: %w", err)
	}

	user.ConfirmationCodeHash = codeHash
	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("store confirmation code: %w", err)
	}

	// Mail failures must not fail the signup; the user can always re-request.
	msg := mail.Message{
		To:      user.Email,
		Subject: "Your confirmation code",
		Body:    fmt.Sprintf("Hello %s,\n\nYour confirmation code: %s\n", user.Username, code),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Warn("failed to send confirmation code",
			slog.String("username", user.Username),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("confirmation code issued", slog.String("username", user.Username))

	return &SignupResponse{Username: user.Username, Email: user.Email}, nil
}

// IssueToken validates a confirmation code and returns an access token.
// The first successful exchange activates the account. Codes stay valid
// until the next signup for the same user rotates them.
func (s *AuthService) IssueToken(ctx context.Context, req TokenRequest) (*TokenResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	invalidCode := errors.FieldValidation("confirmation_code", "invalid confirmation code")

	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Don't reveal whether the username exists.
			return nil, invalidCode
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if user.ConfirmationCodeHash == "" {
		return nil, invalidCode
	}

	ok, err := auth.VerifyConfirmationCode(user.ConfirmationCodeHash, req.ConfirmationCode)
	if err != nil {
		return nil, fmt.Errorf("verify confirmation code: %w", err)
	}
	if !ok {
		return nil, invalidCode
	}

	if !user.IsActive {
		user.IsActive = true
		user.Touch()
		if err := s.store.UpdateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("activate user: %w", err)
		}
	}

	token, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.Info("access token issued", slog.String("username", user.Username))

	return &TokenResponse{Token: token}, nil
}

// Authenticate resolves a bearer token to its user.
// Returns an unauthorized error for invalid, expired or orphaned tokens.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokenService.VerifyAccessToken(token)
	if err != nil {
		return nil, errors.Unauthorized("invalid or expired token")
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.Unauthorized("token user no longer exists")
		}
		return nil, fmt.Errorf("lookup token user: %w", err)
	}

	return user, nil
}

// TokenDuration exposes the configured token lifetime, used by handlers for
// documentation metadata.
func (s *AuthService) TokenDuration() time.Duration {
	return s.tokenService.AccessTokenDuration()
}
