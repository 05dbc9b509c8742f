package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-builder/internal/types"
)

// CreateUser inserts a user with an already hashed password.
// Duplicate usernames or emails return *ConflictError.
func (db *DB) CreateUser(ctx context.Context, username, email, passwordHash string) (*types.User, error) {
	u := types.User{Username: strings.TrimSpace(username), Email: strings.ToLower(strings.TrimSpace(email))}

	err := db.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		u.Username, u.Email, passwordHash,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if code, pgErr := pgCode(err); code == uniqueViolation {
			return nil, &ConflictError{Constraint: pgErr.ConstraintName, Cause: err}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &u, nil
}

// GetUser retrieves a user by ID. Returns nil, nil when missing.
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*types.User, error) {
	return db.getUserBy(ctx, "id", id)
}

// GetUserByUsername retrieves a user by username. Returns nil, nil when missing.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*types.User, error) {
	return db.getUserBy(ctx, "username", strings.TrimSpace(username))
}

// GetUserByEmail retrieves a user by email. Returns nil, nil when missing.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	return db.getUserBy(ctx, "email", strings.ToLower(strings.TrimSpace(email)))
}

// getUserBy looks a user up by one column. column is never user input.
func (db *DB) getUserBy(ctx context.Context, column string, value any) (*types.User, error) {
	var u types.User
	err := db.pool.QueryRow(ctx,
		`SELECT id, username, email, created_at FROM users WHERE `+column+` = $1`,
		value,
	).Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}
	return &u, nil
}
