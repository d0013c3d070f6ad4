package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/reviewdbapp/reviewdb-server/internal/domain"
	"github.com/reviewdbapp/reviewdb-server/internal/id"
	"github.com/reviewdbapp/reviewdb-server/internal/store"
)

func TestCreateReview_OnePerAuthorPerTitle(t *testing.T) {
	s := newTestStore(t)

	title := makeTestTitle(t, s, "Some Film", 2020, "")
	alice := makeTestUser(t, s, "alice")
	makeTestReview(t, s, title.ID, alice.ID, 8)

	dup := &domain.Review{TitleID: title.ID, AuthorID: alice.ID, Text: "changed my mind", Score: 3}
	dup.ID = id.MustGenerate("review")
	dup.InitTimestamps()

	err := s.CreateReview(context.Background(), dup)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	// Same author may review a different title.
	other := makeTestTitle(t, s, "Other Film", 2021, "")
	makeTestReview(t, s, other.ID, alice.ID, 6)
}

func TestCreateReview_ScoreCheckConstraint(t *testing.T) {
	s := newTestStore(t)

	title := makeTestTitle(t, s, "Some Film", 2020, "")
	alice := makeTestUser(t, s, "alice")

	bad := &domain.Review{TitleID: title.ID, AuthorID: alice.ID, Text: "off the chart", Score: 11}
	bad.ID = id.MustGenerate("review")
	bad.InitTimestamps()

	if err := s.CreateReview(context.Background(), bad); err == nil {
		t.Error("expected CHECK constraint failure for score 11")
	}
}

func TestGetReviewByTitleAndAuthor(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	title := makeTestTitle(t, s, "Some Film", 2020, "")
	alice := makeTestUser(t, s, "alice")
	created := makeTestReview(t, s, title.ID, alice.ID, 8)

	got, err := s.GetReviewByTitleAndAuthor(ctx, title.ID, alice.ID)
	if err != nil {
		t.Fatalf("get review: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("expected %s, got %s", created.ID, got.ID)
	}

	bob := makeTestUser(t, s, "bob")
	_, err = s.GetReviewByTitleAndAuthor(ctx, title.ID, bob.ID)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListReviewsByTitle_OldestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	title := makeTestTitle(t, s, "Some Film", 2020, "")
	alice := makeTestUser(t, s, "alice")
	bob := makeTestUser(t, s, "bob")

	first := makeTestReview(t, s, title.ID, alice.ID, 8)
	second := makeTestReview(t, s, title.ID, bob.ID, 5)
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	if err := s.UpdateReview(ctx, second); err != nil {
		t.Fatalf("update review: %v", err)
	}

	result, err := s.ListReviewsByTitle(ctx, title.ID, store.DefaultPage())
	if err != nil {
		t.Fatalf("list reviews: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected 2 reviews, got %d", result.Total)
	}
	if result.Items[0].ID != first.ID || result.Items[1].ID != second.ID {
		t.Errorf("expected oldest first")
	}
}

func TestUpdateReview_NotFound(t *testing.T) {
	s := newTestStore(t)

	title := makeTestTitle(t, s, "Some Film", 2020, "")
	alice := makeTestUser(t, s, "alice")

	ghost := &domain.Review{TitleID: title.ID, AuthorID: alice.ID, Text: "x", Score: 5}
	ghost.ID = id.MustGenerate("review")
	ghost.InitTimestamps()

	err := s.UpdateReview(context.Background(), ghost)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteReview_AllowsNewReview(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	title := makeTestTitle(t, s, "Some Film", 2020, "")
	alice := makeTestUser(t, s, "alice")
	review := makeTestReview(t, s, title.ID, alice.ID, 8)

	if err := s.DeleteReview(ctx, review.ID); err != nil {
		t.Fatalf("delete review: %v", err)
	}

	// The (title, author) slot is free again.
	makeTestReview(t, s, title.ID, alice.ID, 2)
}
