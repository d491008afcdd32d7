package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/liftlog/internal/models"
)

// CreateCategory inserts a training category for a user.
func (db *DB) CreateCategory(ctx context.Context, userID uuid.UUID, name string) (*models.TrainingCategory, error) {
	row := db.Pool.QueryRow(ctx,
		`INSERT INTO training_categories (id, user_id, name, created_at, updated_at)
		 VALUES ($1, $2, $3, NOW(), NOW())
		 RETURNING id, user_id, name, created_at, updated_at`,
		uuid.New(), userID, name)
	return scanCategory(row)
}

// RenameCategory changes a category's name. Returns (nil, nil) when absent.
func (db *DB) RenameCategory(ctx context.Context, id uuid.UUID, name string) (*models.TrainingCategory, error) {
	row := db.Pool.QueryRow(ctx,
		`UPDATE training_categories SET name = $2, updated_at = NOW()
		 WHERE id = $1
		 RETURNING id, user_id, name, created_at, updated_at`,
		id, name)
	return scanCategory(row)
}

// DeleteCategory removes a category. Historical sessions keep their
// category_id; aggregation falls back to the raw id for display. The
// permissiveness is deliberate: deleting a grouping never destroys logged
// training data.
func (db *DB) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM training_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	return nil
}

// GetCategory retrieves a category by ID. Returns (nil, nil) when absent.
func (db *DB) GetCategory(ctx context.Context, id uuid.UUID) (*models.TrainingCategory, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, name, created_at, updated_at
		 FROM training_categories WHERE id = $1`, id)
	return scanCategory(row)
}

// ListCategories returns a user's categories sorted by name.
func (db *DB) ListCategories(ctx context.Context, userID uuid.UUID) ([]models.TrainingCategory, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, name, created_at, updated_at
		 FROM training_categories
		 WHERE user_id = $1
		 ORDER BY name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var out []models.TrainingCategory
	for rows.Next() {
		var c models.TrainingCategory
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetCategoryByName finds a user's category by exact name. Returns
// (nil, nil) when absent.
func (db *DB) GetCategoryByName(ctx context.Context, userID uuid.UUID, name string) (*models.TrainingCategory, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, name, created_at, updated_at
		 FROM training_categories WHERE user_id = $1 AND name = $2`,
		userID, name)
	return scanCategory(row)
}

func scanCategory(row pgx.Row) (*models.TrainingCategory, error) {
	var c models.TrainingCategory
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning category: %w", err)
	}
	return &c, nil
}
