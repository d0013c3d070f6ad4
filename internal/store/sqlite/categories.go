package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/reviewdbapp/reviewdb-server/internal/domain"
	"github.com/reviewdbapp/reviewdb-server/internal/store"
)

const categoryColumns = `id, created_at, updated_at, name, slug`

func scanCategory(scanner interface{ Scan(dest ...any) error }) (*domain.Category, error) {
	var c domain.Category
	var createdAt, updatedAt string

	err := scanner.Scan(&c.ID, &createdAt, &updatedAt, &c.Name, &c.Slug)
	if err != nil {
		return nil, err
	}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// CreateCategory inserts a new category.
// Returns store.ErrAlreadyExists if the name or slug is already taken.
func (s *Store) CreateCategory(ctx context.Context, category *domain.Category) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, created_at, updated_at, name, slug)
		VALUES (?, ?, ?, ?, ?)`,
		category.ID,
		formatTime(category.CreatedAt),
		formatTime(category.UpdatedAt),
		category.Name,
		category.Slug,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetCategoryBySlug retrieves a category by its slug.
// Returns store.ErrNotFound if the category does not exist.
func (s *Store) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE slug = ?`, slug)

	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetCategory retrieves a category by ID.
// Returns store.ErrNotFound if the category does not exist.
func (s *Store) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)

	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCategories returns a page of categories ordered by name.
// A non-empty search term filters by name substring.
func (s *Store) ListCategories(ctx context.Context, search string, page store.Page) (*store.PagedResult[*domain.Category], error) {
	page.Validate()

	where := ""
	args := []any{}
	if search != "" {
		where = ` WHERE name LIKE ? ESCAPE '\'`
		args = append(args, likePattern(search))
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	query := `SELECT ` + categoryColumns + ` FROM categories` + where +
		` ORDER BY name ASC LIMIT ? OFFSET ?`
	args = append(args, page.Size, page.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &store.PagedResult[*domain.Category]{Items: categories, Total: total}, nil
}

// DeleteCategoryBySlug removes a category. Titles referencing it keep
// existing with their category cleared by the SET NULL constraint.
// Returns store.ErrNotFound if the category does not exist.
func (s *Store) DeleteCategoryBySlug(ctx context.Context, slug string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE slug = ?`, slug)
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
