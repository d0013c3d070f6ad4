package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/reviewdbapp/reviewdb-server/internal/policy"
	"github.com/reviewdbapp/reviewdb-server/internal/service"
	"github.com/reviewdbapp/reviewdb-server/internal/store"
)

func (s *Server) registerTitleRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTitles",
		Method:      http.MethodGet,
		Path:        "/api/v1/titles",
		Summary:     "List titles",
		Description: "Returns titles newest first, filterable by category, genre, name, and year",
		Tags:        []string{"Titles"},
	}, s.handleListTitles)

	huma.Register(s.api, huma.Operation{
		OperationID: "createTitle",
		Method:      http.MethodPost,
		Path:        "/api/v1/titles",
		Summary:     "Create title",
		Description: "Creates a new title with category and genres referenced by slug (admin only)",
		Tags:        []string{"Titles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateTitle)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTitle",
		Method:      http.MethodGet,
		Path:        "/api/v1/titles/{title_id}",
		Summary:     "Get title",
		Description: "Returns a title with its average review score",
		Tags:        []string{"Titles"},
	}, s.handleGetTitle)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTitle",
		Method:      http.MethodPatch,
		Path:        "/api/v1/titles/{title_id}",
		Summary:     "Update title",
		Description: "Partially updates a title (admin only)",
		Tags:        []string{"Titles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateTitle)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTitle",
		Method:      http.MethodDelete,
		Path:        "/api/v1/titles/{title_id}",
		Summary:     "Delete title",
		Description: "Deletes a title and its reviews (admin only)",
		Tags:        []string{"Titles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteTitle)
}

type ListTitlesInput struct {
	Category string `query:"category" doc:"Filter by category slug"`
	Genre    string `query:"genre" doc:"Filter by genre slug"`
	Name     string `query:"name" doc:"Filter by name substring"`
	Year     int    `query:"year" doc:"Filter by release year"`
	Page     int    `query:"page" doc:"Page number, 1-based"`
	PageSize int    `query:"page_size" doc:"Page size, max 100"`
}

type TitleListOutput struct {
	Body ListResponse[*service.TitleView]
}

type CreateTitleInput struct {
	Authorization string `header:"Authorization"`
	Body          service.CreateTitleRequest
}

type TitleOutput struct {
	Body service.TitleView
}

type GetTitleInput struct {
	TitleID string `path:"title_id" doc:"Title ID"`
}

type UpdateTitleInput struct {
	Authorization string `header:"Authorization"`
	TitleID       string `path:"title_id" doc:"Title ID"`
	Body          service.UpdateTitleRequest
}

type DeleteTitleInput struct {
	Authorization string `header:"Authorization"`
	TitleID       string `path:"title_id" doc:"Title ID"`
}

func (s *Server) handleListTitles(ctx context.Context, input *ListTitlesInput) (*TitleListOutput, error) {
	filter := store.TitleFilter{
		CategorySlug: input.Category,
		GenreSlug:    input.Genre,
		Name:         input.Name,
		Year:         input.Year,
	}

	result, err := s.services.Catalog.ListTitles(ctx, filter, newPage(input.Page, input.PageSize))
	if err != nil {
		return nil, err
	}
	return &TitleListOutput{Body: newListResponse(result)}, nil
}

func (s *Server) handleCreateTitle(ctx context.Context, input *CreateTitleInput) (*TitleOutput, error) {
	if _, err := s.authorize(ctx, catalogPolicy, policy.ActionCreate); err != nil {
		return nil, err
	}

	title, err := s.services.Catalog.CreateTitle(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &TitleOutput{Body: *title}, nil
}

func (s *Server) handleGetTitle(ctx context.Context, input *GetTitleInput) (*TitleOutput, error) {
	title, err := s.services.Catalog.GetTitle(ctx, input.TitleID)
	if err != nil {
		return nil, err
	}
	return &TitleOutput{Body: *title}, nil
}

func (s *Server) handleUpdateTitle(ctx context.Context, input *UpdateTitleInput) (*TitleOutput, error) {
	if _, err := s.authorize(ctx, catalogPolicy, policy.ActionUpdate); err != nil {
		return nil, err
	}

	title, err := s.services.Catalog.UpdateTitle(ctx, input.TitleID, input.Body)
	if err != nil {
		return nil, err
	}
	return &TitleOutput{Body: *title}, nil
}

func (s *Server) handleDeleteTitle(ctx context.Context, input *DeleteTitleInput) (*MessageOutput, error) {
	if _, err := s.authorize(ctx, catalogPolicy, policy.ActionDelete); err != nil {
		return nil, err
	}

	if err := s.services.Catalog.DeleteTitle(ctx, input.TitleID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "title deleted"}}, nil
}
