package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/liftlog/internal/models"
)

const workoutExerciseColumns = `id, session_id, exercise_id, ordinal, machine_name, seat_height, bench_angle_deg, grip`

// WorkoutExerciseMeta carries the optional situational metadata recorded
// when an exercise is added to a session.
type WorkoutExerciseMeta struct {
	MachineName   *string `json:"machine_name,omitempty"`
	SeatHeight    *string `json:"seat_height,omitempty"`
	BenchAngleDeg *int    `json:"bench_angle_deg,omitempty"`
	Grip          *string `json:"grip,omitempty"`
}

// AddWorkoutExercise appends an exercise to a session. The ordinal is
// MAX(ordinal)+1 at insert time and is never renumbered on delete; it is
// a sort-stable display hint, so gaps appear after deletions.
func (db *DB) AddWorkoutExercise(ctx context.Context, sessionID, exerciseID uuid.UUID, meta WorkoutExerciseMeta) (*models.WorkoutExercise, error) {
	row := db.Pool.QueryRow(ctx,
		`INSERT INTO workout_exercises (id, session_id, exercise_id, ordinal, machine_name, seat_height, bench_angle_deg, grip)
		 VALUES ($1, $2, $3,
		         (SELECT COALESCE(MAX(ordinal), 0) + 1 FROM workout_exercises WHERE session_id = $2),
		         $4, $5, $6, $7)
		 RETURNING `+workoutExerciseColumns,
		uuid.New(), sessionID, exerciseID,
		meta.MachineName, meta.SeatHeight, meta.BenchAngleDeg, meta.Grip)
	return scanWorkoutExercise(row)
}

// UpdateWorkoutExerciseMeta replaces the situational metadata.
func (db *DB) UpdateWorkoutExerciseMeta(ctx context.Context, id uuid.UUID, meta WorkoutExerciseMeta) (*models.WorkoutExercise, error) {
	row := db.Pool.QueryRow(ctx,
		`UPDATE workout_exercises
		 SET machine_name = $2, seat_height = $3, bench_angle_deg = $4, grip = $5
		 WHERE id = $1
		 RETURNING `+workoutExerciseColumns,
		id, meta.MachineName, meta.SeatHeight, meta.BenchAngleDeg, meta.Grip)
	return scanWorkoutExercise(row)
}

// DeleteWorkoutExercise removes an entry and its sets. Remaining entries
// keep their ordinals.
func (db *DB) DeleteWorkoutExercise(ctx context.Context, id uuid.UUID) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning delete: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM workout_sets WHERE workout_exercise_id = $1`, id); err != nil {
		return fmt.Errorf("deleting sets: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM workout_exercises WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting workout exercise: %w", err)
	}
	return tx.Commit(ctx)
}

// GetWorkoutExercise retrieves an entry by ID. Returns (nil, nil) when absent.
func (db *DB) GetWorkoutExercise(ctx context.Context, id uuid.UUID) (*models.WorkoutExercise, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+workoutExerciseColumns+` FROM workout_exercises WHERE id = $1`, id)
	return scanWorkoutExercise(row)
}

// ListWorkoutExercises returns a session's entries in ordinal order.
func (db *DB) ListWorkoutExercises(ctx context.Context, sessionID uuid.UUID) ([]models.WorkoutExercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+workoutExerciseColumns+`
		 FROM workout_exercises
		 WHERE session_id = $1
		 ORDER BY ordinal ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying workout exercises: %w", err)
	}
	defer rows.Close()

	var out []models.WorkoutExercise
	for rows.Next() {
		var we models.WorkoutExercise
		if err := rows.Scan(&we.ID, &we.SessionID, &we.ExerciseID, &we.Ordinal,
			&we.MachineName, &we.SeatHeight, &we.BenchAngleDeg, &we.Grip); err != nil {
			return nil, fmt.Errorf("scanning workout exercise: %w", err)
		}
		out = append(out, we)
	}
	return out, rows.Err()
}

func scanWorkoutExercise(row pgx.Row) (*models.WorkoutExercise, error) {
	var we models.WorkoutExercise
	err := row.Scan(&we.ID, &we.SessionID, &we.ExerciseID, &we.Ordinal,
		&we.MachineName, &we.SeatHeight, &we.BenchAngleDeg, &we.Grip)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning workout exercise: %w", err)
	}
	return &we, nil
}
