package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/setlog/internal/models"
	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// CreateUser inserts a new user. Email is stored lowercased by the caller.
func (db *DB) CreateUser(ctx context.Context, email, passwordHash, name string) (*models.User, error) {
	var u models.User
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, name)
		 VALUES ($1, $2, $3)
		 RETURNING id, email, name, created_at`,
		email, passwordHash, name,
	).Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting user: %w", err)
	}
	return &u, nil
}

// GetUserByEmail returns a user with their password hash for credential checks.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := db.Pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, created_at FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by email: %w", err)
	}
	return &u, nil
}

// GetUserByID returns a user without the password hash.
func (db *DB) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	var u models.User
	err := db.Pool.QueryRow(ctx,
		`SELECT id, email, name, created_at FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by id: %w", err)
	}
	return &u, nil
}

// UpdateUserName renames a user and returns the updated row.
func (db *DB) UpdateUserName(ctx context.Context, id int, name string) (*models.User, error) {
	var u models.User
	err := db.Pool.QueryRow(ctx,
		`UPDATE users SET name = $1 WHERE id = $2 RETURNING id, email, name, created_at`,
		name, id,
	).Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating user name: %w", err)
	}
	return &u, nil
}
