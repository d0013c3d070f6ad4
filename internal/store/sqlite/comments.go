package sqlite

import (
	"context"
	"database/sql"

	"github.com/reviewdbapp/reviewdb-server/internal/domain"
	"github.com/reviewdbapp/reviewdb-server/internal/store"
)

// commentColumns is the ordered list of columns selected in comment queries.
// Must match the scan order in scanComment.
const commentColumns = `id, created_at, updated_at, review_id, author_id, text`

func scanComment(scanner interface{ Scan(dest ...any) error }) (*domain.Comment, error) {
	var c domain.Comment
	var createdAt, updatedAt string

	err := scanner.Scan(
		&c.ID,
		&createdAt,
		&updatedAt,
		&c.ReviewID,
		&c.AuthorID,
		&c.Text,
	)
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

// CreateComment inserts a new comment.
func (s *Store) CreateComment(ctx context.Context, comment *domain.Comment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (id, created_at, updated_at, review_id, author_id, text)
		VALUES (?, ?, ?, ?, ?, ?)`,
		comment.ID,
		formatTime(comment.CreatedAt),
		formatTime(comment.UpdatedAt),
		comment.ReviewID,
		comment.AuthorID,
		comment.Text,
	)
	return err
}

// GetComment retrieves a comment by ID.
// Returns store.ErrNotFound if the comment does not exist.
func (s *Store) GetComment(ctx context.Context, id string) (*domain.Comment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = ?`, id)

	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCommentsByReview returns a page of a review's comments, oldest first.
func (s *Store) ListCommentsByReview(ctx context.Context, reviewID string, page store.Page) (*store.PagedResult[*domain.Comment], error) {
	page.Validate()

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE review_id = ?`, reviewID).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE review_id = ?
		 ORDER BY created_at ASC, id ASC LIMIT ? OFFSET ?`,
		reviewID, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &store.PagedResult[*domain.Comment]{Items: comments, Total: total}, nil
}

// UpdateComment performs a full row update on an existing comment.
// Returns store.ErrNotFound if the comment does not exist.
func (s *Store) UpdateComment(ctx context.Context, comment *domain.Comment) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE comments SET
			created_at = ?,
			updated_at = ?,
			review_id = ?,
			author_id = ?,
			text = ?
		WHERE id = ?`,
		formatTime(comment.CreatedAt),
		formatTime(comment.UpdatedAt),
		comment.ReviewID,
		comment.AuthorID,
		comment.Text,
		comment.ID,
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
	return nil
}

// DeleteComment removes a comment.
// Returns store.ErrNotFound if the comment does not exist.
func (s *Store) DeleteComment(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
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
