package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

var builtInExercises = []string{
	"Bench Press",
	"Squat",
	"Deadlift",
	"Overhead Press",
	"Barbell Row",
	"Dumbbell Row",
	"Lat Pulldown",
	"Leg Press",
	"Leg Curl",
	"Leg Extension",
	"Calf Raise",
	"Bicep Curl",
	"Tricep Pushdown",
	"Lateral Raise",
	"Face Pull",
	"Incline Bench Press",
	"Romanian Deadlift",
	"Pull-up",
	"Push-up",
	"Dips",
}

var defaultCategories = []string{"Push", "Pull", "Legs"}

// SeedBuiltInExercises inserts the built-in exercise catalog once. A
// non-empty built-in set means seeding already ran.
func (db *DB) SeedBuiltInExercises(ctx context.Context) error {
	var count int
	if err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM exercises WHERE is_built_in`).Scan(&count); err != nil {
		return fmt.Errorf("checking built-in exercises: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, name := range builtInExercises {
		if _, err := db.Pool.Exec(ctx,
			`INSERT INTO exercises (id, user_id, name, is_built_in, created_at, updated_at)
			 VALUES ($1, NULL, $2, TRUE, NOW(), NOW())`,
			uuid.New(), name); err != nil {
			return fmt.Errorf("seeding exercise %q: %w", name, err)
		}
	}
	return nil
}

// SeedDefaultCategories creates the Push/Pull/Legs split for a user with
// no categories yet.
func (db *DB) SeedDefaultCategories(ctx context.Context, userID uuid.UUID) error {
	var count int
	if err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM training_categories WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return fmt.Errorf("checking categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, name := range defaultCategories {
		if _, err := db.CreateCategory(ctx, userID, name); err != nil {
			return fmt.Errorf("seeding category %q: %w", name, err)
		}
	}
	return nil
}
