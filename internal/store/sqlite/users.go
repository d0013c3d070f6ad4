package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/reviewdbapp/reviewdb-server/internal/domain"
	"github.com/reviewdbapp/reviewdb-server/internal/store"
)

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, created_at, updated_at, username, email,
	first_name, last_name, bio, role, confirmation_code_hash,
	is_active, is_staff, is_superuser`

// scanUser scans a sql.Row (or sql.Rows via its Scan method) into a domain.User.
func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var u domain.User

	var (
		createdAt   string
		updatedAt   string
		role        string
		codeHash    sql.NullString
		isActive    int
		isStaff     int
		isSuperuser int
	)

	err := scanner.Scan(
		&u.ID,
		&createdAt,
		&updatedAt,
		&u.Username,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.Bio,
		&role,
		&codeHash,
		&isActive,
		&isStaff,
		&isSuperuser,
	)
	if err != nil {
		return nil, err
	}

	// Parse timestamps.
	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	u.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	u.Role = domain.Role(role)

	if codeHash.Valid {
		u.ConfirmationCodeHash = codeHash.String
	}

	u.IsActive = isActive != 0
	u.IsStaff = isStaff != 0
	u.IsSuperuser = isSuperuser != 0

	return &u, nil
}

// CreateUser inserts a new user into the database.
// Returns store.ErrAlreadyExists if the username or email is already taken.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (
			id, created_at, updated_at, username, email,
			first_name, last_name, bio, role, confirmation_code_hash,
			is_active, is_staff, is_superuser
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		string(user.Role),
		nullString(user.ConfirmationCodeHash),
		boolToInt(user.IsActive),
		boolToInt(user.IsStaff),
		boolToInt(user.IsSuperuser),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetUser retrieves a user by ID.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByUsername retrieves a user by exact username match.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByEmail retrieves a user by exact email match.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ListUsers returns a page of users ordered by username.
// A non-empty search term filters by username substring.
func (s *Store) ListUsers(ctx context.Context, search string, page store.Page) (*store.PagedResult[*domain.User], error) {
	page.Validate()

	where := ""
	args := []any{}
	if search != "" {
		where = ` WHERE username LIKE ? ESCAPE '\'`
		args = append(args, likePattern(search))
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users` + where +
		` ORDER BY username ASC LIMIT ? OFFSET ?`
	args = append(args, page.Size, page.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &store.PagedResult[*domain.User]{Items: users, Total: total}, nil
}

// UpdateUser performs a full row update on an existing user.
// Returns store.ErrNotFound if the user does not exist, or
// store.ErrAlreadyExists if the new username or email collides.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET
			created_at = ?,
			updated_at = ?,
			username = ?,
			email = ?,
			first_name = ?,
			last_name = ?,
			bio = ?,
			role = ?,
			confirmation_code_hash = ?,
			is_active = ?,
			is_staff = ?,
			is_superuser = ?
		WHERE id = ?`,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		string(user.Role),
		nullString(user.ConfirmationCodeHash),
		boolToInt(user.IsActive),
		boolToInt(user.IsStaff),
		boolToInt(user.IsSuperuser),
		user.ID,
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

// DeleteUser removes a user. Reviews and comments by the user are removed
// by the foreign key cascades.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
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
