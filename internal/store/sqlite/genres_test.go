package sqlite

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/reviewdbapp/reviewdb-server/internal/domain"
	"github.com/reviewdbapp/reviewdb-server/internal/id"
	"github.com/reviewdbapp/reviewdb-server/internal/store"
)

func TestCreateGenre_DuplicateSlug(t *testing.T) {
	s := newTestStore(t)
	makeTestGenre(t, s, "Drama", "drama")

	dup := &domain.Genre{Name: "Dramatic", Slug: "drama"}
	dup.ID = id.MustGenerate("genre")
	dup.InitTimestamps()

	err := s.CreateGenre(context.Background(), dup)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGetGenresBySlugs(t *testing.T) {
	s := newTestStore(t)
	drama := makeTestGenre(t, s, "Drama", "drama")
	comedy := makeTestGenre(t, s, "Comedy", "comedy")

	genres, err := s.GetGenresBySlugs(context.Background(), []string{"comedy", "drama"})
	if err != nil {
		t.Fatalf("get genres: %v", err)
	}
	if len(genres) != 2 {
		t.Fatalf("expected 2 genres, got %d", len(genres))
	}
	// Input order preserved.
	if genres[0].ID != comedy.ID || genres[1].ID != drama.ID {
		t.Errorf("unexpected order: %s, %s", genres[0].Slug, genres[1].Slug)
	}

	_, err = s.GetGenresBySlugs(context.Background(), []string{"drama", "missing"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown slug, got %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), "missing") {
		t.Errorf("error should name the unknown slug, got %v", err)
	}
}

func TestDeleteGenreBySlug_RemovesJoinRowsOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	drama := makeTestGenre(t, s, "Drama", "drama")
	comedy := makeTestGenre(t, s, "Comedy", "comedy")
	title := makeTestTitle(t, s, "Some Film", 2020, "", drama.ID, comedy.ID)

	if err := s.DeleteGenreBySlug(ctx, "drama"); err != nil {
		t.Fatalf("delete genre: %v", err)
	}

	rated, err := s.GetTitle(ctx, title.ID)
	if err != nil {
		t.Fatalf("get title: %v", err)
	}
	if len(rated.Title.GenreIDs) != 1 || rated.Title.GenreIDs[0] != comedy.ID {
		t.Errorf("expected only comedy to remain, got %v", rated.Title.GenreIDs)
	}
}
