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

func TestCatalog_CreateTitleResolvesSlugs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.catalog.CreateCategory(ctx, CreateCategoryRequest{Name: "Films", Slug: "films"})
	require.NoError(t, err)
	_, err = env.catalog.CreateGenre(ctx, CreateGenreRequest{Name: "Drama", Slug: "drama"})
	require.NoError(t, err)

	title, err := env.catalog.CreateTitle(ctx, CreateTitleRequest{
		Name:         "Heavy Rain",
		Year:         1994,
		CategorySlug: "films",
		GenreSlugs:   []string{"drama"},
	})
	require.NoError(t, err)

	require.NotNil(t, title.Category)
	assert.Equal(t, "films", title.Category.Slug)
	require.Len(t, title.Genres, 1)
	assert.Equal(t, "drama", title.Genres[0].Slug)
	assert.Nil(t, title.Rating, "no reviews yet")
}

func TestCatalog_CreateTitleUnknownSlugs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.catalog.CreateCategory(ctx, CreateCategoryRequest{Name: "Films", Slug: "films"})
	require.NoError(t, err)

	_, err = env.catalog.CreateTitle(ctx, CreateTitleRequest{
		Name:         "Heavy Rain",
		Year:         1994,
		CategorySlug: "missing",
	})
	require.True(t, errors.Is(err, errors.ErrValidation), "unknown category is a field error, got %v", err)

	_, err = env.catalog.CreateTitle(ctx, CreateTitleRequest{
		Name:         "Heavy Rain",
		Year:         1994,
		CategorySlug: "films",
		GenreSlugs:   []string{"missing"},
	})
	require.True(t, errors.Is(err, errors.ErrValidation), "unknown genre is a field error, got %v", err)

	var domainErr *errors.Error
	require.True(t, errors.As(err, &domainErr))
	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "genre")
}

func TestCatalog_CreateTitleRejectsFutureYear(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.catalog.CreateCategory(ctx, CreateCategoryRequest{Name: "Films", Slug: "films"})
	require.NoError(t, err)

	_, err = env.catalog.CreateTitle(ctx, CreateTitleRequest{
		Name:         "From The Future",
		Year:         9999,
		CategorySlug: "films",
	})
	assert.True(t, errors.Is(err, errors.ErrValidation), "expected validation error, got %v", err)
}

func TestCatalog_TitleRatingReflectsReviews(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	title := env.createTitle(t, "Heavy Rain")
	alice := env.createUser(t, "alice", domain.RoleUser)
	bob := env.createUser(t, "bob", domain.RoleUser)

	_, err := env.reviews.CreateReview(ctx, alice, title.ID, CreateReviewRequest{Text: "great", Score: 10})
	require.NoError(t, err)
	_, err = env.reviews.CreateReview(ctx, bob, title.ID, CreateReviewRequest{Text: "fine", Score: 5})
	require.NoError(t, err)

	got, err := env.catalog.GetTitle(ctx, title.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.InDelta(t, 7.5, *got.Rating, 0.0001)
}

func TestCatalog_UpdateTitlePartial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	title := env.createTitle(t, "Heavy Rain")
	_, err := env.catalog.CreateGenre(ctx, CreateGenreRequest{Name: "Drama", Slug: "drama"})
	require.NoError(t, err)

	newName := "Heavier Rain"
	genres := []string{"drama"}
	updated, err := env.catalog.UpdateTitle(ctx, title.ID, UpdateTitleRequest{
		Name:       &newName,
		GenreSlugs: &genres,
	})
	require.NoError(t, err)
	assert.Equal(t, "Heavier Rain", updated.Name)
	assert.Equal(t, 2020, updated.Year, "untouched fields survive")
	require.Len(t, updated.Genres, 1)
}

func TestCatalog_DeleteCategoryKeepsTitles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	title := env.createTitle(t, "Heavy Rain")
	require.NoError(t, env.catalog.DeleteCategory(ctx, "films"))

	got, err := env.catalog.GetTitle(ctx, title.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Category, "category gone, title still here")
}

func TestCatalog_ListTitlesFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createTitle(t, "Alpha")
	env.createTitle(t, "Beta")

	result, err := env.catalog.ListTitles(ctx, store.TitleFilter{Name: "Alp"}, store.DefaultPage())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, "Alpha", result.Items[0].Name)
}

func TestCatalog_DuplicateSlugConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.catalog.CreateCategory(ctx, CreateCategoryRequest{Name: "Films", Slug: "films"})
	require.NoError(t, err)
	_, err = env.catalog.CreateCategory(ctx, CreateCategoryRequest{Name: "Movies", Slug: "films"})
	assert.True(t, errors.Is(err, errors.ErrConflict), "expected conflict, got %v", err)

	_, err = env.catalog.CreateGenre(ctx, CreateGenreRequest{Name: "Drama", Slug: "drama"})
	require.NoError(t, err)
	_, err = env.catalog.CreateGenre(ctx, CreateGenreRequest{Name: "Dramatic", Slug: "drama"})
	assert.True(t, errors.Is(err, errors.ErrConflict), "expected conflict, got %v", err)
}

func TestCatalog_SlugValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.catalog.CreateCategory(context.Background(), CreateCategoryRequest{Name: "Films", Slug: "no spaces!"})
	assert.True(t, errors.Is(err, errors.ErrValidation), "expected validation error, got %v", err)
}
