package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/reviewdbapp/reviewdb-server/internal/policy"
	"github.com/reviewdbapp/reviewdb-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listUsers",
		Method:      http.MethodGet,
		Path:        "/api/v1/users",
		Summary:     "List users",
		Description: "Returns users ordered by username, optionally filtered by a username search (admin only)",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "createUser",
		Method:      http.MethodPost,
		Path:        "/api/v1/users",
		Summary:     "Create user",
		Description: "Creates an active user with an optional role, skipping email confirmation (admin only)",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateUser)

	// The "me" routes are registered before the {username} ones so the
	// static segment wins over the wildcard.
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get own profile",
		Description: "Returns the authenticated user's profile",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCurrentUser",
		Method:      http.MethodPatch,
		Path:        "/api/v1/users/me",
		Summary:     "Update own profile",
		Description: "Partially updates the authenticated user's profile. Plain users cannot change their own role.",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{username}",
		Summary:     "Get user",
		Description: "Returns a user by username (admin only)",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateUser",
		Method:      http.MethodPatch,
		Path:        "/api/v1/users/{username}",
		Summary:     "Update user",
		Description: "Partially updates a user, including role changes (admin only)",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteUser",
		Method:      http.MethodDelete,
		Path:        "/api/v1/users/{username}",
		Summary:     "Delete user",
		Description: "Deletes a user and their reviews and comments (admin only)",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteUser)
}

type ListUsersInput struct {
	Authorization string `header:"Authorization"`
	Search        string `query:"search" doc:"Filter by username substring"`
	Page          int    `query:"page" doc:"Page number, 1-based"`
	PageSize      int    `query:"page_size" doc:"Page size, max 100"`
}

type UserListOutput struct {
	Body ListResponse[*service.UserView]
}

type CreateUserInput struct {
	Authorization string `header:"Authorization"`
	Body          service.CreateUserRequest
}

type UserOutput struct {
	Body service.UserView
}

type GetUserInput struct {
	Authorization string `header:"Authorization"`
	Username      string `path:"username" doc:"Username"`
}

type UpdateUserInput struct {
	Authorization string `header:"Authorization"`
	Username      string `path:"username" doc:"Username"`
	Body          service.UpdateUserRequest
}

type DeleteUserInput struct {
	Authorization string `header:"Authorization"`
	Username      string `path:"username" doc:"Username"`
}

type CurrentUserInput struct {
	Authorization string `header:"Authorization"`
}

type UpdateCurrentUserInput struct {
	Authorization string `header:"Authorization"`
	Body          service.UpdateUserRequest
}

func (s *Server) handleListUsers(ctx context.Context, input *ListUsersInput) (*UserListOutput, error) {
	if _, err := s.authorize(ctx, policy.AdminOnly, policy.ActionList); err != nil {
		return nil, err
	}

	result, err := s.services.Users.List(ctx, input.Search, newPage(input.Page, input.PageSize))
	if err != nil {
		return nil, err
	}
	return &UserListOutput{Body: newListResponse(result)}, nil
}

func (s *Server) handleCreateUser(ctx context.Context, input *CreateUserInput) (*UserOutput, error) {
	if _, err := s.authorize(ctx, policy.AdminOnly, policy.ActionCreate); err != nil {
		return nil, err
	}

	user, err := s.services.Users.Create(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: *user}, nil
}

func (s *Server) handleGetUser(ctx context.Context, input *GetUserInput) (*UserOutput, error) {
	if _, err := s.authorize(ctx, policy.AdminOnly, policy.ActionRetrieve); err != nil {
		return nil, err
	}

	user, err := s.services.Users.Get(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: *user}, nil
}

func (s *Server) handleUpdateUser(ctx context.Context, input *UpdateUserInput) (*UserOutput, error) {
	if _, err := s.authorize(ctx, policy.AdminOnly, policy.ActionUpdate); err != nil {
		return nil, err
	}

	user, err := s.services.Users.Update(ctx, input.Username, input.Body)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: *user}, nil
}

func (s *Server) handleDeleteUser(ctx context.Context, input *DeleteUserInput) (*MessageOutput, error) {
	if _, err := s.authorize(ctx, policy.AdminOnly, policy.ActionDelete); err != nil {
		return nil, err
	}

	if err := s.services.Users.Delete(ctx, input.Username); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "user deleted"}}, nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, _ *CurrentUserInput) (*UserOutput, error) {
	actor, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: *s.services.Users.Me(actor)}, nil
}

func (s *Server) handleUpdateCurrentUser(ctx context.Context, input *UpdateCurrentUserInput) (*UserOutput, error) {
	actor, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Users.UpdateMe(ctx, actor, input.Body)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: *user}, nil
}
