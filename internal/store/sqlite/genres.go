package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/reviewdbapp/reviewdb-server/internal/domain"
	"github.com/reviewdbapp/reviewdb-server/internal/store"
)

const genreColumns = `id, created_at, updated_at, name, slug`

func scanGenre(scanner interface{ Scan(dest ...any) error }) (*domain.Genre, error) {
	var g domain.Genre
	var createdAt, updatedAt string

	err := scanner.Scan(&g.ID, &createdAt, &updatedAt, &g.Name, &g.Slug)
	if err != nil {
		return nil, err
	}

	g.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	g.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &g, nil
}

// CreateGenre inserts a new genre.
// Returns store.ErrAlreadyExists if the name or slug is already taken.
func (s *Store) CreateGenre(ctx context.Context, genre *domain.Genre) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO genres (id, created_at, updated_at, name, slug)
		VALUES (?, ?, ?, ?, ?)`,
		genre.ID,
		formatTime(genre.CreatedAt),
		formatTime(genre.UpdatedAt),
		genre.Name,
		genre.Slug,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetGenreBySlug retrieves a genre by its slug.
// Returns store.ErrNotFound if the genre does not exist.
func (s *Store) GetGenreBySlug(ctx context.Context, slug string) (*domain.Genre, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+genreColumns+` FROM genres WHERE slug = ?`, slug)

	g, err := scanGenre(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// GetGenre retrieves a genre by ID.
// Returns store.ErrNotFound if the genre does not exist.
func (s *Store) GetGenre(ctx context.Context, id string) (*domain.Genre, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+genreColumns+` FROM genres WHERE id = ?`, id)

	g, err := scanGenre(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// GetGenresBySlugs resolves a list of slugs to genres, preserving input order.
// Returns store.ErrNotFound naming the first unknown slug.
func (s *Store) GetGenresBySlugs(ctx context.Context, slugs []string) ([]*domain.Genre, error) {
	genres := make([]*domain.Genre, 0, len(slugs))
	for _, slug := range slugs {
		g, err := s.GetGenreBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, store.ErrNotFound.WithMessage(fmt.Sprintf("genre %q does not exist", slug))
			}
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, nil
}

// ListGenres returns a page of genres ordered by name.
// A non-empty search term filters by name substring.
func (s *Store) ListGenres(ctx context.Context, search string, page store.Page) (*store.PagedResult[*domain.Genre], error) {
	page.Validate()

	where := ""
	args := []any{}
	if search != "" {
		where = ` WHERE name LIKE ? ESCAPE '\'`
		args = append(args, likePattern(search))
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM genres`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	query := `SELECT ` + genreColumns + ` FROM genres` + where +
		` ORDER BY name ASC LIMIT ? OFFSET ?`
	args = append(args, page.Size, page.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var genres []*domain.Genre
	for rows.Next() {
		g, err := scanGenre(rows)
		if err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &store.PagedResult[*domain.Genre]{Items: genres, Total: total}, nil
}

// DeleteGenreBySlug removes a genre. Join rows in title_genres are removed
// by the CASCADE constraint; the titles themselves survive.
// Returns store.ErrNotFound if the genre does not exist.
func (s *Store) DeleteGenreBySlug(ctx context.Context, slug string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM genres WHERE slug = ?`, slug)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
