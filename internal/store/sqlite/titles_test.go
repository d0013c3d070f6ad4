package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/reviewdbapp/reviewdb-server/internal/store"
)

func TestGetTitle_RatingAverage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	title := makeTestTitle(t, s, "Some Film", 2020, "")

	// No reviews yet: rating is nil.
	rated, err := s.GetTitle(ctx, title.ID)
	if err != nil {
		t.Fatalf("get title: %v", err)
	}
	if rated.Rating != nil {
		t.Errorf("expected nil rating, got %v", *rated.Rating)
	}

	alice := makeTestUser(t, s, "alice")
	bob := makeTestUser(t, s, "bob")
	makeTestReview(t, s, title.ID, alice.ID, 10)
	makeTestReview(t, s, title.ID, bob.ID, 5)

	rated, err = s.GetTitle(ctx, title.ID)
	if err != nil {
		t.Fatalf("get title: %v", err)
	}
	if rated.Rating == nil {
		t.Fatal("expected rating, got nil")
	}
	if *rated.Rating != 7.5 {
		t.Errorf("expected rating 7.5, got %v", *rated.Rating)
	}
}

func TestListTitles_NewestFirst(t *testing.T) {
	s := newTestStore(t)

	first := makeTestTitle(t, s, "First", 2001, "")
	second := makeTestTitle(t, s, "Second", 2002, "")

	// Same created_at resolution can collide; bump the later one explicitly.
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	if err := s.UpdateTitle(context.Background(), second); err != nil {
		t.Fatalf("update title: %v", err)
	}

	result, err := s.ListTitles(context.Background(), store.TitleFilter{}, store.DefaultPage())
	if err != nil {
		t.Fatalf("list titles: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 titles, got %d", len(result.Items))
	}
	if result.Items[0].Title.ID != second.ID || result.Items[1].Title.ID != first.ID {
		t.Errorf("expected newest first, got %s, %s", result.Items[0].Title.Name, result.Items[1].Title.Name)
	}
}

func TestListTitles_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	films := makeTestCategory(t, s, "Films", "films")
	books := makeTestCategory(t, s, "Books", "books")
	drama := makeTestGenre(t, s, "Drama", "drama")
	comedy := makeTestGenre(t, s, "Comedy", "comedy")

	dramaFilm := makeTestTitle(t, s, "Heavy Rain", 1994, films.ID, drama.ID)
	comedyFilm := makeTestTitle(t, s, "Light Breeze", 1994, films.ID, comedy.ID)
	dramaBook := makeTestTitle(t, s, "Heavy Pages", 2003, books.ID, drama.ID)

	tests := []struct {
		name   string
		filter store.TitleFilter
		want   []string
	}{
		{"by category", store.TitleFilter{CategorySlug: "books"}, []string{dramaBook.ID}},
		{"by genre", store.TitleFilter{GenreSlug: "drama"}, []string{dramaFilm.ID, dramaBook.ID}},
		{"by year", store.TitleFilter{Year: 1994}, []string{dramaFilm.ID, comedyFilm.ID}},
		{"by name substring", store.TitleFilter{Name: "Heavy"}, []string{dramaFilm.ID, dramaBook.ID}},
		{"combined", store.TitleFilter{GenreSlug: "drama", CategorySlug: "films"}, []string{dramaFilm.ID}},
		{"no match", store.TitleFilter{Year: 1800}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.ListTitles(ctx, tt.filter, store.DefaultPage())
			if err != nil {
				t.Fatalf("list titles: %v", err)
			}
			if result.Total != len(tt.want) {
				t.Fatalf("expected %d titles, got %d", len(tt.want), result.Total)
			}
			got := map[string]bool{}
			for _, rated := range result.Items {
				got[rated.Title.ID] = true
			}
			for _, id := range tt.want {
				if !got[id] {
					t.Errorf("missing expected title %s", id)
				}
			}
		})
	}
}

func TestUpdateTitle_ReplacesGenres(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	drama := makeTestGenre(t, s, "Drama", "drama")
	comedy := makeTestGenre(t, s, "Comedy", "comedy")
	title := makeTestTitle(t, s, "Some Film", 2020, "", drama.ID)

	title.GenreIDs = []string{comedy.ID}
	title.Touch()
	if err := s.UpdateTitle(ctx, title); err != nil {
		t.Fatalf("update title: %v", err)
	}

	rated, err := s.GetTitle(ctx, title.ID)
	if err != nil {
		t.Fatalf("get title: %v", err)
	}
	if len(rated.Title.GenreIDs) != 1 || rated.Title.GenreIDs[0] != comedy.ID {
		t.Errorf("expected genres replaced, got %v", rated.Title.GenreIDs)
	}
}

func TestDeleteTitle_CascadesReviews(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	title := makeTestTitle(t, s, "Some Film", 2020, "")
	alice := makeTestUser(t, s, "alice")
	review := makeTestReview(t, s, title.ID, alice.ID, 9)
	makeTestComment(t, s, review.ID, alice.ID, "still holds up")

	if err := s.DeleteTitle(ctx, title.ID); err != nil {
		t.Fatalf("delete title: %v", err)
	}

	if _, err := s.GetReview(ctx, review.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected review cascade, got %v", err)
	}

	comments, err := s.ListCommentsByReview(ctx, review.ID, store.DefaultPage())
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if comments.Total != 0 {
		t.Errorf("expected comments cascaded, got %d", comments.Total)
	}
}

func TestGetTitle_NullableDescription(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	title := makeTestTitle(t, s, "Some Film", 2020, "")
	rated, err := s.GetTitle(ctx, title.ID)
	if err != nil {
		t.Fatalf("get title: %v", err)
	}
	if rated.Title.Description != nil {
		t.Errorf("expected nil description, got %q", *rated.Title.Description)
	}

	desc := "a film about rain"
	title.Description = &desc
	title.Touch()
	if err := s.UpdateTitle(ctx, title); err != nil {
		t.Fatalf("update title: %v", err)
	}

	rated, err = s.GetTitle(ctx, title.ID)
	if err != nil {
		t.Fatalf("get title: %v", err)
	}
	if rated.Title.Description == nil || *rated.Title.Description != desc {
		t.Errorf("description not persisted")
	}
}
