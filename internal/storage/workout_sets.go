package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/liftlog/internal/models"
)

const setColumns = `id, workout_exercise_id, ordinal, reps, weight, created_at, updated_at`

// AddSet records a set under a workout exercise. Like workout exercises,
// the ordinal is MAX(ordinal)+1 at insert and never renumbered.
func (db *DB) AddSet(ctx context.Context, workoutExerciseID uuid.UUID, reps int, weight float64) (*models.WorkoutSet, error) {
	row := db.Pool.QueryRow(ctx,
		`INSERT INTO workout_sets (id, workout_exercise_id, ordinal, reps, weight, created_at, updated_at)
		 VALUES ($1, $2,
		         (SELECT COALESCE(MAX(ordinal), 0) + 1 FROM workout_sets WHERE workout_exercise_id = $2),
		         $3, $4, NOW(), NOW())
		 RETURNING `+setColumns,
		uuid.New(), workoutExerciseID, reps, weight)
	return scanSet(row)
}

// UpdateSet corrects a mislogged set's reps and weight.
func (db *DB) UpdateSet(ctx context.Context, id uuid.UUID, reps int, weight float64) (*models.WorkoutSet, error) {
	row := db.Pool.QueryRow(ctx,
		`UPDATE workout_sets SET reps = $2, weight = $3, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+setColumns,
		id, reps, weight)
	return scanSet(row)
}

// DeleteSet removes a single set.
func (db *DB) DeleteSet(ctx context.Context, id uuid.UUID) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM workout_sets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting set: %w", err)
	}
	return nil
}

// ListSets returns a workout exercise's sets in ordinal order.
func (db *DB) ListSets(ctx context.Context, workoutExerciseID uuid.UUID) ([]models.WorkoutSet, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+setColumns+`
		 FROM workout_sets
		 WHERE workout_exercise_id = $1
		 ORDER BY ordinal ASC`, workoutExerciseID)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer rows.Close()
	return scanSetRows(rows)
}

// ListSessionSets returns every set belonging to the given sessions in one
// query, each tagged with its session and exercise. The stats engine uses
// this instead of per-session fan-out once the session count is large.
func (db *DB) ListSessionSets(ctx context.Context, sessionIDs []uuid.UUID) ([]models.SessionSet, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT we.session_id, we.exercise_id,
		        ws.id, ws.workout_exercise_id, ws.ordinal, ws.reps, ws.weight, ws.created_at, ws.updated_at
		 FROM workout_sets ws
		 JOIN workout_exercises we ON we.id = ws.workout_exercise_id
		 WHERE we.session_id = ANY($1)
		 ORDER BY we.session_id, we.ordinal, ws.ordinal`,
		sessionIDs)
	if err != nil {
		return nil, fmt.Errorf("querying session sets: %w", err)
	}
	defer rows.Close()

	var out []models.SessionSet
	for rows.Next() {
		var ss models.SessionSet
		if err := rows.Scan(&ss.SessionID, &ss.ExerciseID,
			&ss.Set.ID, &ss.Set.WorkoutExerciseID, &ss.Set.Ordinal,
			&ss.Set.Reps, &ss.Set.Weight, &ss.Set.CreatedAt, &ss.Set.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning session set: %w", err)
		}
		out = append(out, ss)
	}
	return out, rows.Err()
}

// ListSetsByExercise returns every set a user logged for one exercise,
// joined through the owning session for the user and time filters. Zero
// from/to values leave that end of the range unbounded.
func (db *DB) ListSetsByExercise(ctx context.Context, userID, exerciseID uuid.UUID, from, to time.Time) ([]models.WorkoutSet, error) {
	query := `SELECT ws.id, ws.workout_exercise_id, ws.ordinal, ws.reps, ws.weight, ws.created_at, ws.updated_at
		 FROM workout_sets ws
		 JOIN workout_exercises we ON we.id = ws.workout_exercise_id
		 JOIN workout_sessions s ON s.id = we.session_id
		 WHERE s.user_id = $1 AND we.exercise_id = $2`
	args := []any{userID, exerciseID}
	if !from.IsZero() {
		args = append(args, from)
		query += fmt.Sprintf(" AND s.started_at >= $%d", len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		query += fmt.Sprintf(" AND s.started_at <= $%d", len(args))
	}
	query += ` ORDER BY s.started_at ASC, we.ordinal ASC, ws.ordinal ASC`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sets by exercise: %w", err)
	}
	defer rows.Close()
	return scanSetRows(rows)
}

func scanSet(row pgx.Row) (*models.WorkoutSet, error) {
	var s models.WorkoutSet
	err := row.Scan(&s.ID, &s.WorkoutExerciseID, &s.Ordinal, &s.Reps, &s.Weight, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning set: %w", err)
	}
	return &s, nil
}

func scanSetRows(rows pgx.Rows) ([]models.WorkoutSet, error) {
	var out []models.WorkoutSet
	for rows.Next() {
		var s models.WorkoutSet
		if err := rows.Scan(&s.ID, &s.WorkoutExerciseID, &s.Ordinal, &s.Reps, &s.Weight, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
