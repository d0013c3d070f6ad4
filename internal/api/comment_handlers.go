package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/reviewdbapp/reviewdb-server/internal/service"
)

func (s *Server) registerCommentRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listComments",
		Method:      http.MethodGet,
		Path:        "/api/v1/titles/{title_id}/reviews/{review_id}/comments",
		Summary:     "List comments",
		Description: "Returns a review's comments, oldest first",
		Tags:        []string{"Comments"},
	}, s.handleListComments)

	huma.Register(s.api, huma.Operation{
		OperationID: "createComment",
		Method:      http.MethodPost,
		Path:        "/api/v1/titles/{title_id}/reviews/{review_id}/comments",
		Summary:     "Create comment",
		Description: "Adds a comment to a review",
		Tags:        []string{"Comments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "getComment",
		Method:      http.MethodGet,
		Path:        "/api/v1/titles/{title_id}/reviews/{review_id}/comments/{comment_id}",
		Summary:     "Get comment",
		Description: "Returns a single comment scoped to its review and title",
		Tags:        []string{"Comments"},
	}, s.handleGetComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateComment",
		Method:      http.MethodPatch,
		Path:        "/api/v1/titles/{title_id}/reviews/{review_id}/comments/{comment_id}",
		Summary:     "Update comment",
		Description: "Partially updates a comment. Allowed for the author, moderators, and admins.",
		Tags:        []string{"Comments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteComment",
		Method:      http.MethodDelete,
		Path:        "/api/v1/titles/{title_id}/reviews/{review_id}/comments/{comment_id}",
		Summary:     "Delete comment",
		Description: "Deletes a comment. Allowed for the author, moderators, and admins.",
		Tags:        []string{"Comments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteComment)
}

type ListCommentsInput struct {
	TitleID  string `path:"title_id" doc:"Title ID"`
	ReviewID string `path:"review_id" doc:"Review ID"`
	Page     int    `query:"page" doc:"Page number, 1-based"`
	PageSize int    `query:"page_size" doc:"Page size, max 100"`
}

type CommentListOutput struct {
	Body ListResponse[*service.CommentView]
}

type CreateCommentInput struct {
	Authorization string `header:"Authorization"`
	TitleID       string `path:"title_id" doc:"Title ID"`
	ReviewID      string `path:"review_id" doc:"Review ID"`
	Body          service.CreateCommentRequest
}

type CommentOutput struct {
	Body service.CommentView
}

type GetCommentInput struct {
	TitleID   string `path:"title_id" doc:"Title ID"`
	ReviewID  string `path:"review_id" doc:"Review ID"`
	CommentID string `path:"comment_id" doc:"Comment ID"`
}

type UpdateCommentInput struct {
	Authorization string `header:"Authorization"`
	TitleID       string `path:"title_id" doc:"Title ID"`
	ReviewID      string `path:"review_id" doc:"Review ID"`
	CommentID     string `path:"comment_id" doc:"Comment ID"`
	Body          service.UpdateCommentRequest
}

type DeleteCommentInput struct {
	Authorization string `header:"Authorization"`
	TitleID       string `path:"title_id" doc:"Title ID"`
	ReviewID      string `path:"review_id" doc:"Review ID"`
	CommentID     string `path:"comment_id" doc:"Comment ID"`
}

func (s *Server) handleListComments(ctx context.Context, input *ListCommentsInput) (*CommentListOutput, error) {
	result, err := s.services.Reviews.ListComments(ctx, input.TitleID, input.ReviewID, newPage(input.Page, input.PageSize))
	if err != nil {
		return nil, err
	}
	return &CommentListOutput{Body: newListResponse(result)}, nil
}

func (s *Server) handleCreateComment(ctx context.Context, input *CreateCommentInput) (*CommentOutput, error) {
	comment, err := s.services.Reviews.CreateComment(ctx, s.currentUser(ctx), input.TitleID, input.ReviewID, input.Body)
	if err != nil {
		return nil, err
	}
	return &CommentOutput{Body: *comment}, nil
}

func (s *Server) handleGetComment(ctx context.Context, input *GetCommentInput) (*CommentOutput, error) {
	comment, err := s.services.Reviews.GetComment(ctx, input.TitleID, input.ReviewID, input.CommentID)
	if err != nil {
		return nil, err
	}
	return &CommentOutput{Body: *comment}, nil
}

func (s *Server) handleUpdateComment(ctx context.Context, input *UpdateCommentInput) (*CommentOutput, error) {
	comment, err := s.services.Reviews.UpdateComment(ctx, s.currentUser(ctx), input.TitleID, input.ReviewID, input.CommentID, input.Body)
	if err != nil {
		return nil, err
	}
	return &CommentOutput{Body: *comment}, nil
}

func (s *Server) handleDeleteComment(ctx context.Context, input *DeleteCommentInput) (*MessageOutput, error) {
	if err := s.services.Reviews.DeleteComment(ctx, s.currentUser(ctx), input.TitleID, input.ReviewID, input.CommentID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "comment deleted"}}, nil
}
