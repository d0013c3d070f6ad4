package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/reviewdbapp/reviewdb-server/internal/policy"
	"github.com/reviewdbapp/reviewdb-server/internal/service"
)

func (s *Server) registerGenreRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listGenres",
		Method:      http.MethodGet,
		Path:        "/api/v1/genres",
		Summary:     "List genres",
		Description: "Returns genres ordered by name, optionally filtered by a name search",
		Tags:        []string{"Genres"},
	}, s.handleListGenres)

	huma.Register(s.api, huma.Operation{
		OperationID: "createGenre",
		Method:      http.MethodPost,
		Path:        "/api/v1/genres",
		Summary:     "Create genre",
		Description: "Creates a new genre (admin only)",
		Tags:        []string{"Genres"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateGenre)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteGenre",
		Method:      http.MethodDelete,
		Path:        "/api/v1/genres/{slug}",
		Summary:     "Delete genre",
		Description: "Deletes a genre by slug (admin only). Titles keep their other genres.",
		Tags:        []string{"Genres"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteGenre)
}

type ListGenresInput struct {
	Search   string `query:"search" doc:"Filter by name substring"`
	Page     int    `query:"page" doc:"Page number, 1-based"`
	PageSize int    `query:"page_size" doc:"Page size, max 100"`
}

type GenreListOutput struct {
	Body ListResponse[*service.GenreView]
}

type CreateGenreInput struct {
	Authorization string `header:"Authorization"`
	Body          service.CreateGenreRequest
}

type GenreOutput struct {
	Body service.GenreView
}

type DeleteGenreInput struct {
	Authorization string `header:"Authorization"`
	Slug          string `path:"slug" doc:"Genre slug"`
}

func (s *Server) handleListGenres(ctx context.Context, input *ListGenresInput) (*GenreListOutput, error) {
	result, err := s.services.Catalog.ListGenres(ctx, input.Search, newPage(input.Page, input.PageSize))
	if err != nil {
		return nil, err
	}
	return &GenreListOutput{Body: newListResponse(result)}, nil
}

func (s *Server) handleCreateGenre(ctx context.Context, input *CreateGenreInput) (*GenreOutput, error) {
	if _, err := s.authorize(ctx, catalogPolicy, policy.ActionCreate); err != nil {
		return nil, err
	}

	genre, err := s.services.Catalog.CreateGenre(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &GenreOutput{Body: *genre}, nil
}

func (s *Server) handleDeleteGenre(ctx context.Context, input *DeleteGenreInput) (*MessageOutput, error) {
	if _, err := s.authorize(ctx, catalogPolicy, policy.ActionDelete); err != nil {
		return nil, err
	}

	if err := s.services.Catalog.DeleteGenre(ctx, input.Slug); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "genre deleted"}}, nil
}
