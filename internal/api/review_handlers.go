package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/reviewdbapp/reviewdb-server/internal/service"
)

func (s *Server) registerReviewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listReviews",
		Method:      http.MethodGet,
		Path:        "/api/v1/titles/{title_id}/reviews",
		Summary:     "List reviews",
		Description: "Returns a title's reviews, oldest first",
		Tags:        []string{"Reviews"},
	}, s.handleListReviews)

	huma.Register(s.api, huma.Operation{
		OperationID: "createReview",
		Method:      http.MethodPost,
		Path:        "/api/v1/titles/{title_id}/reviews",
		Summary:     "Create review",
		Description: "Creates a review for a title. Each user may review a title once.",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "getReview",
		Method:      http.MethodGet,
		Path:        "/api/v1/titles/{title_id}/reviews/{review_id}",
		Summary:     "Get review",
		Description: "Returns a single review scoped to its title",
		Tags:        []string{"Reviews"},
	}, s.handleGetReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateReview",
		Method:      http.MethodPatch,
		Path:        "/api/v1/titles/{title_id}/reviews/{review_id}",
		Summary:     "Update review",
		Description: "Partially updates a review. Allowed for the author, moderators, and admins.",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteReview",
		Method:      http.MethodDelete,
		Path:        "/api/v1/titles/{title_id}/reviews/{review_id}",
		Summary:     "Delete review",
		Description: "Deletes a review and its comments. Allowed for the author, moderators, and admins.",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteReview)
}

type ListReviewsInput struct {
	TitleID  string `path:"title_id" doc:"Title ID"`
	Page     int    `query:"page" doc:"Page number, 1-based"`
	PageSize int    `query:"page_size" doc:"Page size, max 100"`
}

type ReviewListOutput struct {
	Body ListResponse[*service.ReviewView]
}

type CreateReviewInput struct {
	Authorization string `header:"Authorization"`
	TitleID       string `path:"title_id" doc:"Title ID"`
	Body          service.CreateReviewRequest
}

type ReviewOutput struct {
	Body service.ReviewView
}

type GetReviewInput struct {
	TitleID  string `path:"title_id" doc:"Title ID"`
	ReviewID string `path:"review_id" doc:"Review ID"`
}

type UpdateReviewInput struct {
	Authorization string `header:"Authorization"`
	TitleID       string `path:"title_id" doc:"Title ID"`
	ReviewID      string `path:"review_id" doc:"Review ID"`
	Body          service.UpdateReviewRequest
}

type DeleteReviewInput struct {
	Authorization string `header:"Authorization"`
	TitleID       string `path:"title_id" doc:"Title ID"`
	ReviewID      string `path:"review_id" doc:"Review ID"`
}

func (s *Server) handleListReviews(ctx context.Context, input *ListReviewsInput) (*ReviewListOutput, error) {
	result, err := s.services.Reviews.ListReviews(ctx, input.TitleID, newPage(input.Page, input.PageSize))
	if err != nil {
		return nil, err
	}
	return &ReviewListOutput{Body: newListResponse(result)}, nil
}

func (s *Server) handleCreateReview(ctx context.Context, input *CreateReviewInput) (*ReviewOutput, error) {
	review, err := s.services.Reviews.CreateReview(ctx, s.currentUser(ctx), input.TitleID, input.Body)
	if err != nil {
		return nil, err
	}
	return &ReviewOutput{Body: *review}, nil
}

func (s *Server) handleGetReview(ctx context.Context, input *GetReviewInput) (*ReviewOutput, error) {
	review, err := s.services.Reviews.GetReview(ctx, input.TitleID, input.ReviewID)
	if err != nil {
		return nil, err
	}
	return &ReviewOutput{Body: *review}, nil
}

func (s *Server) handleUpdateReview(ctx context.Context, input *UpdateReviewInput) (*ReviewOutput, error) {
	review, err := s.services.Reviews.UpdateReview(ctx, s.currentUser(ctx), input.TitleID, input.ReviewID, input.Body)
	if err != nil {
		return nil, err
	}
	return &ReviewOutput{Body: *review}, nil
}

func (s *Server) handleDeleteReview(ctx context.Context, input *DeleteReviewInput) (*MessageOutput, error) {
	if err := s.services.Reviews.DeleteReview(ctx, s.currentUser(ctx), input.TitleID, input.ReviewID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "review deleted"}}, nil
}
