package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/reviewdbapp/reviewdb-server/internal/domain"
	"github.com/reviewdbapp/reviewdb-server/internal/store"
)

// reviewColumns is the ordered list of columns selected in review queries.
// Must match the scan order in scanReview.
const reviewColumns = `id, created_at, updated_at, title_id, author_id, text, score`

func scanReview(scanner interface{ Scan(dest ...any) error }) (*domain.Review, error) {
	var r domain.Review
	var createdAt, updatedAt string

	err := scanner.Scan(
		&r.ID,
		&createdAt,
		&updatedAt,
		&r.TitleID,
		&r.AuthorID,
		&r.Text,
		&r.Score,
	)
	if err != nil {
		return nil, err
	}

	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// CreateReview inserts a new review.
// Returns store.ErrAlreadyExists if the author already reviewed the title.
func (s *Store) CreateReview(ctx context.Context, review *domain.Review) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (id, created_at, updated_at, title_id, author_id, text, score)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		review.ID,
		formatTime(review.CreatedAt),
		formatTime(review.UpdatedAt),
		review.TitleID,
		review.AuthorID,
		review.Text,
		review.Score,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetReview retrieves a review by ID.
// Returns store.ErrNotFound if the review does not exist.
func (s *Store) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE id = ?`, id)

	r, err := scanReview(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GetReviewByTitleAndAuthor retrieves the author's review of a title.
// Returns store.ErrNotFound if no such review exists.
func (s *Store) GetReviewByTitleAndAuthor(ctx context.Context, titleID, authorID string) (*domain.Review, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE title_id = ? AND author_id = ?`,
		titleID, authorID)

	r, err := scanReview(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListReviewsByTitle returns a page of a title's reviews, oldest first.
func (s *Store) ListReviewsByTitle(ctx context.Context, titleID string, page store.Page) (*store.PagedResult[*domain.Review], error) {
	page.Validate()

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews WHERE title_id = ?`, titleID).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE title_id = ?
		 ORDER BY created_at ASC, id ASC LIMIT ? OFFSET ?`,
		titleID, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &store.PagedResult[*domain.Review]{Items: reviews, Total: total}, nil
}

// UpdateReview performs a full row update on an existing review.
// Returns store.ErrNotFound if the review does not exist.
func (s *Store) UpdateReview(ctx context.Context, review *domain.Review) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE reviews SET
			created_at = ?,
			updated_at = ?,
			title_id = ?,
			author_id = ?,
			text = ?,
			score = ?
		WHERE id = ?`,
		formatTime(review.CreatedAt),
		formatTime(review.UpdatedAt),
		review.TitleID,
		review.AuthorID,
		review.Text,
		review.Score,
		review.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
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

// DeleteReview removes a review. Its comments are removed by the cascade.
// Returns store.ErrNotFound if the review does not exist.
func (s *Store) DeleteReview(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
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
