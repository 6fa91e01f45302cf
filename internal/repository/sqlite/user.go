package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/rafid/ideafeed/internal/apperror"
	"github.com/rafid/ideafeed/internal/model"
	"github.com/rafid/ideafeed/internal/repository"
)

// UserDB persists accounts. Obtain one via DB.Users().
type UserDB struct {
	conn *sql.DB
}

// Compile-time check that *UserDB implements repository.UserRepository.
var _ repository.UserRepository = (*UserDB)(nil)

const userColumns = `id, name, alias, email, password_hash, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }, u *model.User) error {
	return row.Scan(
		&u.ID,
		&u.Name,
		&u.Alias,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}

// Create inserts a new user. The caller's struct gets the generated ID and
// server-assigned timestamps filled in.
func (r *UserDB) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, alias, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Alias,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	return nil
}

// GetByID returns the user or apperror.ErrNotFound.
func (r *UserDB) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := scanUser(r.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	), &u)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return &u, nil
}

// FindByEmail returns every account registered under the email, oldest
// first. Email is not unique in this schema; authentication decides what to
// do with zero or multiple matches.
func (r *UserDB) FindByEmail(ctx context.Context, email string) ([]model.User, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? ORDER BY created_at, id`, email,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: finding users by email: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	return users, nil
}

// List returns registered users, oldest first.
func (r *UserDB) List(ctx context.Context, opts repository.ListOptions) ([]model.User, error) {
	limit, offset := clampList(opts.Limit, opts.Offset)

	rows, err := r.conn.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, id LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows, limit)
}

func collectUsers(rows *sql.Rows, capacity int) ([]model.User, error) {
	users := make([]model.User, 0, capacity)
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}
	return users, nil
}
