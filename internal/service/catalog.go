package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/reviewdbapp/reviewdb-server/internal/domain"
	"github.com/reviewdbapp/reviewdb-server/internal/errors"
	"github.com/reviewdbapp/reviewdb-server/internal/id"
	"github.com/reviewdbapp/reviewdb-server/internal/store"
)

// CatalogService manages categories, genres and titles.
type CatalogService struct {
	store  store.Store
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(st store.Store, logger *slog.Logger) *CatalogService {
	return &CatalogService{store: st, logger: logger}
}

// CategoryView is the public category representation.
type CategoryView struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// GenreView is the public genre representation.
type GenreView struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// TitleView is the public title representation with rating and expanded
// taxonomy. Rating is null until the first review lands.
type TitleView struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Year        int           `json:"year"`
	Rating      *float64      `json:"rating"`
	Description *string       `json:"description,omitempty"`
	Genres      []GenreView   `json:"genre"`
	Category    *CategoryView `json:"category,omitempty"`
}

// CreateCategoryRequest is the admin payload for a new category.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,max=50,slug"`
}

// CreateGenreRequest is the admin payload for a new genre.
type CreateGenreRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,max=50,slug"`
}

// CreateTitleRequest is the admin payload for a new title.
// Genres and category are referenced by slug.
type CreateTitleRequest struct {
	Name         string   `json:"name" validate:"required,max=256"`
	Year         int      `json:"year" validate:"required"`
	Description  *string  `json:"description,omitempty"`
	CategorySlug string   `json:"category" validate:"required,slug"`
	GenreSlugs   []string `json:"genre" validate:"dive,slug"`
}

// UpdateTitleRequest is a partial title update. Nil fields stay unchanged.
type UpdateTitleRequest struct {
	Name         *string   `json:"name,omitempty" validate:"omitempty,max=256"`
	Year         *int      `json:"year,omitempty"`
	Description  *string   `json:"description,omitempty"`
	CategorySlug *string   `json:"category,omitempty" validate:"omitempty,slug"`
	GenreSlugs   *[]string `json:"genre,omitempty" validate:"omitempty,dive,slug"`
}

// ListCategories returns a page of categories, optionally filtered by name.
func (s *CatalogService) ListCategories(ctx context.Context, search string, page store.Page) (*store.PagedResult[*CategoryView], error) {
	result, err := s.store.ListCategories(ctx, search, page)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	views := make([]*CategoryView, 0, len(result.Items))
	for _, c := range result.Items {
		views = append(views, &CategoryView{Name: c.Name, Slug: c.Slug})
	}
	return &store.PagedResult[*CategoryView]{Items: views, Total: result.Total}, nil
}

// CreateCategory adds a category.
func (s *CatalogService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryView, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	category := &domain.Category{Name: req.Name, Slug: req.Slug}
	var err error
	category.ID, err = id.Generate("category")
	if err != nil {
		return nil, fmt.Errorf("generate category ID: %w", err)
	}
	category.InitTimestamps()

	if err := s.store.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.Conflict("a category with this name or slug already exists")
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.logger.Info("category created", slog.String("slug", category.Slug))
	return &CategoryView{Name: category.Name, Slug: category.Slug}, nil
}

// DeleteCategory removes a category by slug. Titles keep existing without it.
func (s *CatalogService) DeleteCategory(ctx context.Context, slug string) error {
	if err := s.store.DeleteCategoryBySlug(ctx, slug); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.NotFoundf("category %q not found", slug)
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// ListGenres returns a page of genres, optionally filtered by name.
func (s *CatalogService) ListGenres(ctx context.Context, search string, page store.Page) (*store.PagedResult[*GenreView], error) {
	result, err := s.store.ListGenres(ctx, search, page)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}

	views := make([]*GenreView, 0, len(result.Items))
	for _, g := range result.Items {
		views = append(views, &GenreView{Name: g.Name, Slug: g.Slug})
	}
	return &store.PagedResult[*GenreView]{Items: views, Total: result.Total}, nil
}

// CreateGenre adds a genre.
func (s *CatalogService) CreateGenre(ctx context.Context, req CreateGenreRequest) (*GenreView, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	genre := &domain.Genre{Name: req.Name, Slug: req.Slug}
	var err error
	genre.ID, err = id.Generate("genre")
	if err != nil {
		return nil, fmt.Errorf("generate genre ID: %w", err)
	}
	genre.InitTimestamps()

	if err := s.store.CreateGenre(ctx, genre); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.Conflict("a genre with this name or slug already exists")
		}
		return nil, fmt.Errorf("create genre: %w", err)
	}

	s.logger.Info("genre created", slog.String("slug", genre.Slug))
	return &GenreView{Name: genre.Name, Slug: genre.Slug}, nil
}

// DeleteGenre removes a genre by slug. Tagged titles merely lose the tag.
func (s *CatalogService) DeleteGenre(ctx context.Context, slug string) error {
	if err := s.store.DeleteGenreBySlug(ctx, slug); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.NotFoundf("genre %q not found", slug)
		}
		return fmt.Errorf("delete genre: %w", err)
	}
	return nil
}

// ListTitles returns a page of titles with ratings, newest first.
func (s *CatalogService) ListTitles(ctx context.Context, filter store.TitleFilter, page store.Page) (*store.PagedResult[*TitleView], error) {
	result, err := s.store.ListTitles(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}

	views := make([]*TitleView, 0, len(result.Items))
	for _, rated := range result.Items {
		view, err := s.buildTitleView(ctx, rated)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return &store.PagedResult[*TitleView]{Items: views, Total: result.Total}, nil
}

// GetTitle returns a single title with its rating.
func (s *CatalogService) GetTitle(ctx context.Context, titleID string) (*TitleView, error) {
	rated, err := s.store.GetTitle(ctx, titleID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("title %q not found", titleID)
		}
		return nil, fmt.Errorf("get title: %w", err)
	}
	return s.buildTitleView(ctx, rated)
}

// CreateTitle adds a title, resolving category and genre slugs.
// Unknown slugs fail validation rather than 404: the title is the resource
// being created, the slugs are just fields on it.
func (s *CatalogService) CreateTitle(ctx context.Context, req CreateTitleRequest) (*TitleView, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if err := validateYear(req.Year); err != nil {
		return nil, err
	}

	category, err := s.resolveCategory(ctx, req.CategorySlug)
	if err != nil {
		return nil, err
	}
	genres, err := s.resolveGenres(ctx, req.GenreSlugs)
	if err != nil {
		return nil, err
	}

	title := &domain.Title{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		CategoryID:  category.ID,
	}
	for _, g := range genres {
		title.GenreIDs = append(title.GenreIDs, g.ID)
	}
	title.ID, err = id.Generate("title")
	if err != nil {
		return nil, fmt.Errorf("generate title ID: %w", err)
	}
	title.InitTimestamps()

	if err := s.store.CreateTitle(ctx, title); err != nil {
		return nil, fmt.Errorf("create title: %w", err)
	}

	s.logger.Info("title created", slog.String("title_id", title.ID), slog.String("name", title.Name))
	return s.GetTitle(ctx, title.ID)
}

// UpdateTitle applies a partial update to a title.
func (s *CatalogService) UpdateTitle(ctx context.Context, titleID string, req UpdateTitleRequest) (*TitleView, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	rated, err := s.store.GetTitle(ctx, titleID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("title %q not found", titleID)
		}
		return nil, fmt.Errorf("get title: %w", err)
	}
	title := rated.Title

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		if err := validateYear(*req.Year); err != nil {
			return nil, err
		}
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = req.Description
	}
	if req.CategorySlug != nil {
		category, err := s.resolveCategory(ctx, *req.CategorySlug)
		if err != nil {
			return nil, err
		}
		title.CategoryID = category.ID
	}
	if req.GenreSlugs != nil {
		genres, err := s.resolveGenres(ctx, *req.GenreSlugs)
		if err != nil {
			return nil, err
		}
		title.GenreIDs = nil
		for _, g := range genres {
			title.GenreIDs = append(title.GenreIDs, g.ID)
		}
	}
	title.Touch()

	if err := s.store.UpdateTitle(ctx, title); err != nil {
		return nil, fmt.Errorf("update title: %w", err)
	}

	return s.GetTitle(ctx, titleID)
}

// DeleteTitle removes a title along with its reviews and comments.
func (s *CatalogService) DeleteTitle(ctx context.Context, titleID string) error {
	if err := s.store.DeleteTitle(ctx, titleID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.NotFoundf("title %q not found", titleID)
		}
		return fmt.Errorf("delete title: %w", err)
	}

	s.logger.Info("title deleted", slog.String("title_id", titleID))
	return nil
}

func (s *CatalogService) buildTitleView(ctx context.Context, rated *store.RatedTitle) (*TitleView, error) {
	title := rated.Title
	view := &TitleView{
		ID:          title.ID,
		Name:        title.Name,
		Year:        title.Year,
		Rating:      rated.Rating,
		Description: title.Description,
		Genres:      []GenreView{},
	}

	if title.CategoryID != "" {
		category, err := s.store.GetCategory(ctx, title.CategoryID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("resolve category: %w", err)
		}
		if err == nil {
			view.Category = &CategoryView{Name: category.Name, Slug: category.Slug}
		}
	}

	for _, genreID := range title.GenreIDs {
		genre, err := s.store.GetGenre(ctx, genreID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("resolve genre: %w", err)
		}
		view.Genres = append(view.Genres, GenreView{Name: genre.Name, Slug: genre.Slug})
	}

	return view, nil
}

func (s *CatalogService) resolveCategory(ctx context.Context, slug string) (*domain.Category, error) {
	category, err := s.store.GetCategoryBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.FieldValidation("category", fmt.Sprintf("category %q does not exist", slug))
		}
		return nil, fmt.Errorf("resolve category: %w", err)
	}
	return category, nil
}

func (s *CatalogService) resolveGenres(ctx context.Context, slugs []string) ([]*domain.Genre, error) {
	genres, err := s.store.GetGenresBySlugs(ctx, slugs)
	if err != nil {
		var storeErr *store.Error
		if errors.As(err, &storeErr) && errors.Is(err, store.ErrNotFound) {
			return nil, errors.FieldValidation("genre", storeErr.Message)
		}
		return nil, fmt.Errorf("resolve genres: %w", err)
	}
	return genres, nil
}

func validateYear(year int) error {
	if year > time.Now().Year() {
		return errors.FieldValidation("year", "year cannot be in the future")
	}
	return nil
}
