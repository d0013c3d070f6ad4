package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/reviewdbapp/reviewdb-server/internal/domain"
	"github.com/reviewdbapp/reviewdb-server/internal/errors"
	"github.com/reviewdbapp/reviewdb-server/internal/id"
	"github.com/reviewdbapp/reviewdb-server/internal/policy"
	"github.com/reviewdbapp/reviewdb-server/internal/store"
)

// ReviewService manages reviews and their comments. All content is scoped:
// reviews live under a title, comments under a review. Lookups through the
// wrong parent 404 even when the child exists elsewhere.
type ReviewService struct {
	store  store.Store
	logger *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(st store.Store, logger *slog.Logger) *ReviewService {
	return &ReviewService{store: st, logger: logger}
}

// contentPolicy governs writes to reviews and comments.
var contentPolicy = policy.AdminModeratorAuthorOrReadOnly

// ReviewView is the public review representation.
type ReviewView struct {
	ID      string    `json:"id"`
	Author  string    `json:"author"`
	Text    string    `json:"text"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

// CommentView is the public comment representation.
type CommentView struct {
	ID      string    `json:"id"`
	Author  string    `json:"author"`
	Text    string    `json:"text"`
	PubDate time.Time `json:"pub_date"`
}

// CreateReviewRequest is the payload for a new review.
type CreateReviewRequest struct {
	Text  string `json:"text" validate:"required"`
	Score int    `json:"score" validate:"gte=0,lte=10"`
}

// UpdateReviewRequest is a partial review update. Nil fields stay unchanged.
type UpdateReviewRequest struct {
	Text  *string `json:"text,omitempty" validate:"omitempty,min=1"`
	Score *int    `json:"score,omitempty" validate:"omitempty,gte=0,lte=10"`
}

// CreateCommentRequest is the payload for a new comment.
type CreateCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// UpdateCommentRequest is a partial comment update.
type UpdateCommentRequest struct {
	Text *string `json:"text,omitempty" validate:"omitempty,min=1"`
}

// ListReviews returns a page of a title's reviews, oldest first.
func (s *ReviewService) ListReviews(ctx context.Context, titleID string, page store.Page) (*store.PagedResult[*ReviewView], error) {
	if err := s.ensureTitle(ctx, titleID); err != nil {
		return nil, err
	}

	result, err := s.store.ListReviewsByTitle(ctx, titleID, page)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	views := make([]*ReviewView, 0, len(result.Items))
	for _, r := range result.Items {
		view, err := s.buildReviewView(ctx, r)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return &store.PagedResult[*ReviewView]{Items: views, Total: result.Total}, nil
}

// CreateReview adds the actor's review of a title.
// A second review of the same title by the same author fails validation.
func (s *ReviewService) CreateReview(ctx context.Context, actor *domain.User, titleID string, req CreateReviewRequest) (*ReviewView, error) {
	if err := s.authorize(actor, policy.ActionCreate, ""); err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if err := s.ensureTitle(ctx, titleID); err != nil {
		return nil, err
	}

	if _, err := s.store.GetReviewByTitleAndAuthor(ctx, titleID, actor.ID); err == nil {
		return nil, errors.Validation("you have already reviewed this title")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check existing review: %w", err)
	}

	review := &domain.Review{
		TitleID:  titleID,
		AuthorID: actor.ID,
		Text:     req.Text,
		Score:    req.Score,
	}
	var err error
	review.ID, err = id.Generate("review")
	if err != nil {
		return nil, fmt.Errorf("generate review ID: %w", err)
	}
	review.InitTimestamps()

	if err := s.store.CreateReview(ctx, review); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost the race against a concurrent create by the same author.
			return nil, errors.Validation("you have already reviewed this title")
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.logger.Info("review created",
		slog.String("review_id", review.ID),
		slog.String("title_id", titleID),
		slog.String("author", actor.Username),
	)

	return s.buildReviewView(ctx, review)
}

// GetReview returns a review scoped to its title.
func (s *ReviewService) GetReview(ctx context.Context, titleID, reviewID string) (*ReviewView, error) {
	review, err := s.getScopedReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	return s.buildReviewView(ctx, review)
}

// UpdateReview applies a partial update to a review.
// Only the author, a moderator or an admin may update.
func (s *ReviewService) UpdateReview(ctx context.Context, actor *domain.User, titleID, reviewID string, req UpdateReviewRequest) (*ReviewView, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	review, err := s.getScopedReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor, policy.ActionUpdate, review.AuthorID); err != nil {
		return nil, err
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		review.Score = *req.Score
	}
	review.Touch()

	if err := s.store.UpdateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	return s.buildReviewView(ctx, review)
}

// DeleteReview removes a review and its comments.
// Only the author, a moderator or an admin may delete.
func (s *ReviewService) DeleteReview(ctx context.Context, actor *domain.User, titleID, reviewID string) error {
	review, err := s.getScopedReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := s.authorize(actor, policy.ActionDelete, review.AuthorID); err != nil {
		return err
	}

	if err := s.store.DeleteReview(ctx, review.ID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	s.logger.Info("review deleted",
		slog.String("review_id", reviewID),
		slog.String("by", actor.Username),
	)
	return nil
}

// ListComments returns a page of a review's comments, oldest first.
func (s *ReviewService) ListComments(ctx context.Context, titleID, reviewID string, page store.Page) (*store.PagedResult[*CommentView], error) {
	if _, err := s.getScopedReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	result, err := s.store.ListCommentsByReview(ctx, reviewID, page)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	views := make([]*CommentView, 0, len(result.Items))
	for _, c := range result.Items {
		view, err := s.buildCommentView(ctx, c)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return &store.PagedResult[*CommentView]{Items: views, Total: result.Total}, nil
}

// CreateComment adds a comment to a review. Any authenticated user may comment.
func (s *ReviewService) CreateComment(ctx context.Context, actor *domain.User, titleID, reviewID string, req CreateCommentRequest) (*CommentView, error) {
	if err := s.authorize(actor, policy.ActionCreate, ""); err != nil {
		return nil, err
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.getScopedReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ReviewID: reviewID,
		AuthorID: actor.ID,
		Text:     req.Text,
	}
	var err error
	comment.ID, err = id.Generate("comment")
	if err != nil {
		return nil, fmt.Errorf("generate comment ID: %w", err)
	}
	comment.InitTimestamps()

	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	return s.buildCommentView(ctx, comment)
}

// GetComment returns a comment scoped to its review and title.
func (s *ReviewService) GetComment(ctx context.Context, titleID, reviewID, commentID string) (*CommentView, error) {
	comment, err := s.getScopedComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	return s.buildCommentView(ctx, comment)
}

// UpdateComment applies a partial update to a comment.
// Only the author, a moderator or an admin may update.
func (s *ReviewService) UpdateComment(ctx context.Context, actor *domain.User, titleID, reviewID, commentID string, req UpdateCommentRequest) (*CommentView, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	comment, err := s.getScopedComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor, policy.ActionUpdate, comment.AuthorID); err != nil {
		return nil, err
	}

	if req.Text != nil {
		comment.Text = *req.Text
	}
	comment.Touch()

	if err := s.store.UpdateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}

	return s.buildCommentView(ctx, comment)
}

// DeleteComment removes a comment.
// Only the author, a moderator or an admin may delete.
func (s *ReviewService) DeleteComment(ctx context.Context, actor *domain.User, titleID, reviewID, commentID string) error {
	comment, err := s.getScopedComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := s.authorize(actor, policy.ActionDelete, comment.AuthorID); err != nil {
		return err
	}

	if err := s.store.DeleteComment(ctx, comment.ID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	s.logger.Info("comment deleted",
		slog.String("comment_id", commentID),
		slog.String("by", actor.Username),
	)
	return nil
}

// authorize runs the content policy for a write action.
func (s *ReviewService) authorize(actor *domain.User, action policy.Action, authorID string) error {
	if actor == nil {
		return errors.Unauthorized("authentication required")
	}
	if !contentPolicy.Allows(policy.Request{Actor: actor, Action: action, AuthorID: authorID}) {
		return errors.Forbidden("you do not have permission to perform this action")
	}
	return nil
}

// ensureTitle verifies the parent title exists.
func (s *ReviewService) ensureTitle(ctx context.Context, titleID string) error {
	if _, err := s.store.GetTitle(ctx, titleID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.NotFoundf("title %q not found", titleID)
		}
		return fmt.Errorf("get title: %w", err)
	}
	return nil
}

// getScopedReview loads a review and verifies it belongs to the title.
func (s *ReviewService) getScopedReview(ctx context.Context, titleID, reviewID string) (*domain.Review, error) {
	if err := s.ensureTitle(ctx, titleID); err != nil {
		return nil, err
	}

	review, err := s.store.GetReview(ctx, reviewID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("review %q not found", reviewID)
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	if review.TitleID != titleID {
		return nil, errors.NotFoundf("review %q not found", reviewID)
	}
	return review, nil
}

// getScopedComment loads a comment and verifies its full parent chain.
func (s *ReviewService) getScopedComment(ctx context.Context, titleID, reviewID, commentID string) (*domain.Comment, error) {
	if _, err := s.getScopedReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("comment %q not found", commentID)
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	if comment.ReviewID != reviewID {
		return nil, errors.NotFoundf("comment %q not found", commentID)
	}
	return comment, nil
}

func (s *ReviewService) buildReviewView(ctx context.Context, review *domain.Review) (*ReviewView, error) {
	author, err := s.store.GetUser(ctx, review.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("resolve review author: %w", err)
	}
	return &ReviewView{
		ID:      review.ID,
		Author:  author.Username,
		Text:    review.Text,
		Score:   review.Score,
		PubDate: review.CreatedAt,
	}, nil
}

func (s *ReviewService) buildCommentView(ctx context.Context, comment *domain.Comment) (*CommentView, error) {
	author, err := s.store.GetUser(ctx, comment.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("resolve comment author: %w", err)
	}
	return &CommentView{
		ID:      comment.ID,
		Author:  author.Username,
		Text:    comment.Text,
		PubDate: comment.CreatedAt,
	}, nil
}
