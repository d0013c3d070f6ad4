package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/reviewdbapp/reviewdb-server/internal/policy"
	"github.com/reviewdbapp/reviewdb-server/internal/service"
)

// catalogPolicy guards category, genre, and title writes: anyone may read,
// only admins may change the catalog.
var catalogPolicy = policy.AnyOf(policy.AnonymousRead, policy.AdminOrReadOnly)

func (s *Server) registerCategoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List categories",
		Description: "Returns categories ordered by name, optionally filtered by a name search",
		Tags:        []string{"Categories"},
	}, s.handleListCategories)

	huma.Register(s.api, huma.Operation{
		OperationID: "createCategory",
		Method:      http.MethodPost,
		Path:        "/api/v1/categories",
		Summary:     "Create category",
		Description: "Creates a new category (admin only)",
		Tags:        []string{"Categories"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCategory",
		Method:      http.MethodDelete,
		Path:        "/api/v1/categories/{slug}",
		Summary:     "Delete category",
		Description: "Deletes a category by slug (admin only). Titles keep existing without a category.",
		Tags:        []string{"Categories"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteCategory)
}

type ListCategoriesInput struct {
	Search   string `query:"search" doc:"Filter by name substring"`
	Page     int    `query:"page" doc:"Page number, 1-based"`
	PageSize int    `query:"page_size" doc:"Page size, max 100"`
}

type CategoryListOutput struct {
	Body ListResponse[*service.CategoryView]
}

type CreateCategoryInput struct {
	Authorization string `header:"Authorization"`
	Body          service.CreateCategoryRequest
}

type CategoryOutput struct {
	Body service.CategoryView
}

type DeleteCategoryInput struct {
	Authorization string `header:"Authorization"`
	Slug          string `path:"slug" doc:"Category slug"`
}

func (s *Server) handleListCategories(ctx context.Context, input *ListCategoriesInput) (*CategoryListOutput, error) {
	result, err := s.services.Catalog.ListCategories(ctx, input.Search, newPage(input.Page, input.PageSize))
	if err != nil {
		return nil, err
	}
	return &CategoryListOutput{Body: newListResponse(result)}, nil
}

func (s *Server) handleCreateCategory(ctx context.Context, input *CreateCategoryInput) (*CategoryOutput, error) {
	if _, err := s.authorize(ctx, catalogPolicy, policy.ActionCreate); err != nil {
		return nil, err
	}

	category, err := s.services.Catalog.CreateCategory(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &CategoryOutput{Body: *category}, nil
}

func (s *Server) handleDeleteCategory(ctx context.Context, input *DeleteCategoryInput) (*MessageOutput, error) {
	if _, err := s.authorize(ctx, catalogPolicy, policy.ActionDelete); err != nil {
		return nil, err
	}

	if err := s.services.Catalog.DeleteCategory(ctx, input.Slug); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "category deleted"}}, nil
}
