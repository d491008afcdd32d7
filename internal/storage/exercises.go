package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/liftlog/internal/models"
)

// CreateExercise inserts a user-created exercise. Built-in exercises come
// from seeding only.
func (db *DB) CreateExercise(ctx context.Context, userID uuid.UUID, name string) (*models.Exercise, error) {
	row := db.Pool.QueryRow(ctx,
		`INSERT INTO exercises (id, user_id, name, is_built_in, created_at, updated_at)
		 VALUES ($1, $2, $3, FALSE, NOW(), NOW())
		 RETURNING id, user_id, name, is_built_in, created_at, updated_at`,
		uuid.New(), userID, name)
	return scanExercise(row)
}

// RenameExercise changes an exercise's name. Returns (nil, nil) when absent.
func (db *DB) RenameExercise(ctx context.Context, id uuid.UUID, name string) (*models.Exercise, error) {
	row := db.Pool.QueryRow(ctx,
		`UPDATE exercises SET name = $2, updated_at = NOW()
		 WHERE id = $1
		 RETURNING id, user_id, name, is_built_in, created_at, updated_at`,
		id, name)
	return scanExercise(row)
}

// DeleteExercise removes a user-created exercise. Built-in exercises are
// shared across users and refuse deletion. Historical workout entries
// keep their exercise_id and degrade to a raw-id display name.
func (db *DB) DeleteExercise(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM exercises WHERE id = $1 AND NOT is_built_in`, id)
	if err != nil {
		return fmt.Errorf("deleting exercise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("exercise %s is built-in or absent", id)
	}
	return nil
}

// GetExercise retrieves an exercise by ID. Returns (nil, nil) when absent.
func (db *DB) GetExercise(ctx context.Context, id uuid.UUID) (*models.Exercise, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, name, is_built_in, created_at, updated_at
		 FROM exercises WHERE id = $1`, id)
	return scanExercise(row)
}

// ListExercises returns the exercises visible to a user: all built-ins
// plus the user's own, optionally narrowed by a case-insensitive name
// search, sorted by name.
func (db *DB) ListExercises(ctx context.Context, userID uuid.UUID, search string) ([]models.Exercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, name, is_built_in, created_at, updated_at
		 FROM exercises
		 WHERE (is_built_in OR user_id = $1)
		   AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		 ORDER BY name ASC`,
		userID, search)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var out []models.Exercise
	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.IsBuiltIn, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// FindExerciseByName finds a visible exercise by exact name, preferring
// built-ins. Returns (nil, nil) when absent.
func (db *DB) FindExerciseByName(ctx context.Context, userID uuid.UUID, name string) (*models.Exercise, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, name, is_built_in, created_at, updated_at
		 FROM exercises
		 WHERE (is_built_in OR user_id = $1) AND name = $2
		 ORDER BY is_built_in DESC
		 LIMIT 1`,
		userID, name)
	return scanExercise(row)
}

func scanExercise(row pgx.Row) (*models.Exercise, error) {
	var e models.Exercise
	err := row.Scan(&e.ID, &e.UserID, &e.Name, &e.IsBuiltIn, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning exercise: %w", err)
	}
	return &e, nil
}
