package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/liftlog/internal/models"
)

// CreateUser inserts a new user.
func (db *DB) CreateUser(ctx context.Context, displayName string, unit models.WeightUnit) (*models.User, error) {
	row := db.Pool.QueryRow(ctx,
		`INSERT INTO users (id, display_name, weight_unit, created_at, updated_at)
		 VALUES ($1, $2, $3, NOW(), NOW())
		 RETURNING id, display_name, weight_unit, created_at, updated_at`,
		uuid.New(), displayName, unit)

	var u models.User
	if err := row.Scan(&u.ID, &u.DisplayName, &u.WeightUnit, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return &u, nil
}

// GetUser retrieves a user by ID. Returns (nil, nil) when absent.
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, display_name, weight_unit, created_at, updated_at
		 FROM users WHERE id = $1`, id)

	var u models.User
	err := row.Scan(&u.ID, &u.DisplayName, &u.WeightUnit, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}

// UpdateUser updates the display name and weight unit. The weight unit is
// a display concern only: stored numeric values are never rescaled.
func (db *DB) UpdateUser(ctx context.Context, id uuid.UUID, displayName string, unit models.WeightUnit) (*models.User, error) {
	row := db.Pool.QueryRow(ctx,
		`UPDATE users SET display_name = $2, weight_unit = $3, updated_at = NOW()
		 WHERE id = $1
		 RETURNING id, display_name, weight_unit, created_at, updated_at`,
		id, displayName, unit)

	var u models.User
	err := row.Scan(&u.ID, &u.DisplayName, &u.WeightUnit, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	return &u, nil
}

// EnsureDefaultUser returns the first user, creating one with the given
// name when the table is empty. The server runs single-user; this is the
// bootstrap identity all requests are scoped to.
func (db *DB) EnsureDefaultUser(ctx context.Context, displayName string, unit models.WeightUnit) (*models.User, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, display_name, weight_unit, created_at, updated_at
		 FROM users ORDER BY created_at ASC LIMIT 1`)

	var u models.User
	err := row.Scan(&u.ID, &u.DisplayName, &u.WeightUnit, &u.CreatedAt, &u.UpdatedAt)
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("querying default user: %w", err)
	}
	return db.CreateUser(ctx, displayName, unit)
}
