package service

import (
	"context"
	"testing"

	"github.com/reviewdbapp/reviewdb-server/internal/domain"
	"github.com/reviewdbapp/reviewdb-server/internal/errors"
	"github.com/reviewdbapp/reviewdb-server/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReview_OnePerTitle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	title := env.createTitle(t, "Heavy Rain")
	alice := env.createUser(t, "alice", domain.RoleUser)

	review, err := env.reviews.CreateReview(ctx, alice, title.ID, CreateReviewRequest{Text: "great", Score: 9})
	require.NoError(t, err)
	assert.Equal(t, "alice", review.Author)

	_, err = env.reviews.CreateReview(ctx, alice, title.ID, CreateReviewRequest{Text: "again", Score: 2})
	assert.True(t, errors.Is(err, errors.ErrValidation), "second review should fail validation, got %v", err)

	// Another title is fine.
	other := env.createTitle(t, "Light Breeze")
	_, err = env.reviews.CreateReview(ctx, alice, other.ID, CreateReviewRequest{Text: "ok", Score: 5})
	assert.NoError(t, err)
}

func TestCreateReview_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	title := env.createTitle(t, "Heavy Rain")

	_, err := env.reviews.CreateReview(context.Background(), nil, title.ID, CreateReviewRequest{Text: "x", Score: 5})
	assert.True(t, errors.Is(err, errors.ErrUnauthorized), "expected unauthorized, got %v", err)
}

func TestCreateReview_ScoreBounds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	title := env.createTitle(t, "Heavy Rain")
	alice := env.createUser(t, "alice", domain.RoleUser)

	_, err := env.reviews.CreateReview(ctx, alice, title.ID, CreateReviewRequest{Text: "x", Score: 11})
	assert.True(t, errors.Is(err, errors.ErrValidation), "score 11 should fail, got %v", err)

	_, err = env.reviews.CreateReview(ctx, alice, title.ID, CreateReviewRequest{Text: "x", Score: 0})
	assert.NoError(t, err, "score 0 is within bounds")
}

func TestReview_WritePermissions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	title := env.createTitle(t, "Heavy Rain")
	author := env.createUser(t, "author", domain.RoleUser)
	stranger := env.createUser(t, "stranger", domain.RoleUser)
	moderator := env.createUser(t, "mod", domain.RoleModerator)
	admin := env.createUser(t, "root", domain.RoleAdmin)

	review, err := env.reviews.CreateReview(ctx, author, title.ID, CreateReviewRequest{Text: "mine", Score: 7})
	require.NoError(t, err)

	newText := "edited"

	// A stranger may not touch it.
	_, err = env.reviews.UpdateReview(ctx, stranger, title.ID, review.ID, UpdateReviewRequest{Text: &newText})
	assert.True(t, errors.Is(err, errors.ErrForbidden), "stranger update should be forbidden, got %v", err)
	err = env.reviews.DeleteReview(ctx, stranger, title.ID, review.ID)
	assert.True(t, errors.Is(err, errors.ErrForbidden), "stranger delete should be forbidden, got %v", err)

	// The author may edit.
	updated, err := env.reviews.UpdateReview(ctx, author, title.ID, review.ID, UpdateReviewRequest{Text: &newText})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)

	// Moderators and admins may too.
	modText := "moderated"
	_, err = env.reviews.UpdateReview(ctx, moderator, title.ID, review.ID, UpdateReviewRequest{Text: &modText})
	assert.NoError(t, err)

	err = env.reviews.DeleteReview(ctx, admin, title.ID, review.ID)
	assert.NoError(t, err)
}

func TestReview_ScopedLookup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.createTitle(t, "First")
	second := env.createTitle(t, "Second")
	alice := env.createUser(t, "alice", domain.RoleUser)

	review, err := env.reviews.CreateReview(ctx, alice, first.ID, CreateReviewRequest{Text: "x", Score: 5})
	require.NoError(t, err)

	// Right parent works.
	_, err = env.reviews.GetReview(ctx, first.ID, review.ID)
	assert.NoError(t, err)

	// Wrong parent 404s even though the review exists.
	_, err = env.reviews.GetReview(ctx, second.ID, review.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound), "expected not found, got %v", err)

	// Unknown title 404s before anything else.
	_, err = env.reviews.GetReview(ctx, "title-missing", review.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound), "expected not found, got %v", err)
}

func TestComments_FullFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	title := env.createTitle(t, "Heavy Rain")
	author := env.createUser(t, "author", domain.RoleUser)
	commenter := env.createUser(t, "commenter", domain.RoleUser)

	review, err := env.reviews.CreateReview(ctx, author, title.ID, CreateReviewRequest{Text: "mine", Score: 7})
	require.NoError(t, err)

	comment, err := env.reviews.CreateComment(ctx, commenter, title.ID, review.ID, CreateCommentRequest{Text: "agreed"})
	require.NoError(t, err)
	assert.Equal(t, "commenter", comment.Author)

	list, err := env.reviews.ListComments(ctx, title.ID, review.ID, store.DefaultPage())
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)

	// Only the comment author (or staff) may edit it; the review author can't.
	newText := "hijacked"
	_, err = env.reviews.UpdateComment(ctx, author, title.ID, review.ID, comment.ID, UpdateCommentRequest{Text: &newText})
	assert.True(t, errors.Is(err, errors.ErrForbidden), "review author can't edit others' comments, got %v", err)

	ownText := "clarified"
	updated, err := env.reviews.UpdateComment(ctx, commenter, title.ID, review.ID, comment.ID, UpdateCommentRequest{Text: &ownText})
	require.NoError(t, err)
	assert.Equal(t, "clarified", updated.Text)

	require.NoError(t, env.reviews.DeleteComment(ctx, commenter, title.ID, review.ID, comment.ID))

	_, err = env.reviews.GetComment(ctx, title.ID, review.ID, comment.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound), "expected not found after delete, got %v", err)
}

func TestComments_WrongReviewScope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	title := env.createTitle(t, "Heavy Rain")
	alice := env.createUser(t, "alice", domain.RoleUser)
	bob := env.createUser(t, "bob", domain.RoleUser)

	aliceReview, err := env.reviews.CreateReview(ctx, alice, title.ID, CreateReviewRequest{Text: "a", Score: 5})
	require.NoError(t, err)
	bobReview, err := env.reviews.CreateReview(ctx, bob, title.ID, CreateReviewRequest{Text: "b", Score: 6})
	require.NoError(t, err)

	comment, err := env.reviews.CreateComment(ctx, alice, title.ID, aliceReview.ID, CreateCommentRequest{Text: "note"})
	require.NoError(t, err)

	_, err = env.reviews.GetComment(ctx, title.ID, bobReview.ID, comment.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound), "comment under wrong review should 404, got %v", err)
}
