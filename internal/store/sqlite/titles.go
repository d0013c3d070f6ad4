package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/reviewdbapp/reviewdb-server/internal/domain"
	"github.com/reviewdbapp/reviewdb-server/internal/store"
)

// titleColumns selects title fields plus the averaged review score.
// Must match the scan order in scanRatedTitle.
const titleColumns = `t.id, t.created_at, t.updated_at, t.name, t.year, t.description, t.category_id,
	(SELECT AVG(score) FROM reviews r WHERE r.title_id = t.id) AS rating`

func scanRatedTitle(scanner interface{ Scan(dest ...any) error }) (*store.RatedTitle, error) {
	var t domain.Title

	var (
		createdAt   string
		updatedAt   string
		description sql.NullString
		categoryID  sql.NullString
		rating      sql.NullFloat64
	)

	err := scanner.Scan(
		&t.ID,
		&createdAt,
		&updatedAt,
		&t.Name,
		&t.Year,
		&description,
		&categoryID,
		&rating,
	)
	if err != nil {
		return nil, err
	}

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		t.Description = &description.String
	}
	if categoryID.Valid {
		t.CategoryID = categoryID.String
	}

	rated := &store.RatedTitle{Title: &t}
	if rating.Valid {
		rated.Rating = &rating.Float64
	}
	return rated, nil
}

// CreateTitle inserts a new title along with its genre associations.
func (s *Store) CreateTitle(ctx context.Context, title *domain.Title) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO titles (id, created_at, updated_at, name, year, description, category_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		title.ID,
		formatTime(title.CreatedAt),
		formatTime(title.UpdatedAt),
		title.Name,
		title.Year,
		nullableString(title.Description),
		nullString(title.CategoryID),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	if err := replaceTitleGenres(ctx, tx, title.ID, title.GenreIDs); err != nil {
		return err
	}

	return tx.Commit()
}

// replaceTitleGenres rewrites the genre join rows for a title inside tx.
func replaceTitleGenres(ctx context.Context, tx *sql.Tx, titleID string, genreIDs []string) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM title_genres WHERE title_id = ?`, titleID); err != nil {
		return err
	}
	for _, genreID := range genreIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO title_genres (title_id, genre_id) VALUES (?, ?)`,
			titleID, genreID); err != nil {
			return err
		}
	}
	return nil
}

// loadTitleGenreIDs fetches the genre IDs for a title in insertion order.
func (s *Store) loadTitleGenreIDs(ctx context.Context, titleID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT genre_id FROM title_genres WHERE title_id = ? ORDER BY rowid ASC`, titleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetTitle retrieves a title with its rating and genre IDs.
// Returns store.ErrNotFound if the title does not exist.
func (s *Store) GetTitle(ctx context.Context, id string) (*store.RatedTitle, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+titleColumns+` FROM titles t WHERE t.id = ?`, id)

	rated, err := scanRatedTitle(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rated.Title.GenreIDs, err = s.loadTitleGenreIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return rated, nil
}

// ListTitles returns a page of titles newest-first, with ratings and genre IDs.
func (s *Store) ListTitles(ctx context.Context, filter store.TitleFilter, page store.Page) (*store.PagedResult[*store.RatedTitle], error) {
	page.Validate()

	var conds []string
	var args []any

	if filter.CategorySlug != "" {
		conds = append(conds, `t.category_id IN (SELECT id FROM categories WHERE slug = ?)`)
		args = append(args, filter.CategorySlug)
	}
	if filter.GenreSlug != "" {
		conds = append(conds, `t.id IN (
			SELECT tg.title_id FROM title_genres tg
			JOIN genres g ON g.id = tg.genre_id
			WHERE g.slug = ?)`)
		args = append(args, filter.GenreSlug)
	}
	if filter.Name != "" {
		conds = append(conds, `t.name LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(filter.Name))
	}
	if filter.Year != 0 {
		conds = append(conds, `t.year = ?`)
		args = append(args, filter.Year)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM titles t`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	query := `SELECT ` + titleColumns + ` FROM titles t` + where +
		` ORDER BY t.created_at DESC, t.id DESC LIMIT ? OFFSET ?`
	args = append(args, page.Size, page.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var titles []*store.RatedTitle
	for rows.Next() {
		rated, err := scanRatedTitle(rows)
		if err != nil {
			return nil, err
		}
		titles = append(titles, rated)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, rated := range titles {
		rated.Title.GenreIDs, err = s.loadTitleGenreIDs(ctx, rated.Title.ID)
		if err != nil {
			return nil, err
		}
	}

	return &store.PagedResult[*store.RatedTitle]{Items: titles, Total: total}, nil
}

// UpdateTitle performs a full row update and rewrites genre associations.
// Returns store.ErrNotFound if the title does not exist.
func (s *Store) UpdateTitle(ctx context.Context, title *domain.Title) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE titles SET
			created_at = ?,
			updated_at = ?,
			name = ?,
			year = ?,
			description = ?,
			category_id = ?
		WHERE id = ?`,
		formatTime(title.CreatedAt),
		formatTime(title.UpdatedAt),
		title.Name,
		title.Year,
		nullableString(title.Description),
		nullString(title.CategoryID),
		title.ID,
	)
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

	if err := replaceTitleGenres(ctx, tx, title.ID, title.GenreIDs); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteTitle removes a title. Reviews, comments and genre join rows go
// with it via the foreign key cascades.
// Returns store.ErrNotFound if the title does not exist.
func (s *Store) DeleteTitle(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM titles WHERE id = ?`, id)
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
