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

const sessionColumns = `id, user_id, category_id, started_at, ended_at, notes, created_at, updated_at`

// CreateSession opens a new workout session for a user in a category.
func (db *DB) CreateSession(ctx context.Context, userID, categoryID uuid.UUID, startedAt time.Time, notes *string) (*models.WorkoutSession, error) {
	row := db.Pool.QueryRow(ctx,
		`INSERT INTO workout_sessions (id, user_id, category_id, started_at, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		 RETURNING `+sessionColumns,
		uuid.New(), userID, categoryID, startedAt, notes)
	return scanSession(row)
}

// FinishSession stamps a session's end time. Returns (nil, nil) when the
// session is absent or already finished.
func (db *DB) FinishSession(ctx context.Context, id uuid.UUID, endedAt time.Time) (*models.WorkoutSession, error) {
	row := db.Pool.QueryRow(ctx,
		`UPDATE workout_sessions SET ended_at = $2, updated_at = NOW()
		 WHERE id = $1 AND ended_at IS NULL
		 RETURNING `+sessionColumns,
		id, endedAt)
	return scanSession(row)
}

// UpdateSessionNotes replaces a session's notes.
func (db *DB) UpdateSessionNotes(ctx context.Context, id uuid.UUID, notes *string) (*models.WorkoutSession, error) {
	row := db.Pool.QueryRow(ctx,
		`UPDATE workout_sessions SET notes = $2, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+sessionColumns,
		id, notes)
	return scanSession(row)
}

// DeleteSession removes a session and everything beneath it. The session
// exclusively owns its workout exercises, which own their sets, so the
// cascade runs in one transaction.
func (db *DB) DeleteSession(ctx context.Context, id uuid.UUID) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning delete: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM workout_sets WHERE workout_exercise_id IN
		 (SELECT id FROM workout_exercises WHERE session_id = $1)`, id); err != nil {
		return fmt.Errorf("deleting session sets: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM workout_exercises WHERE session_id = $1`, id); err != nil {
		return fmt.Errorf("deleting session exercises: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM workout_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return tx.Commit(ctx)
}

// GetSession retrieves a session by ID. Returns (nil, nil) when absent.
func (db *DB) GetSession(ctx context.Context, id uuid.UUID) (*models.WorkoutSession, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM workout_sessions WHERE id = $1`, id)
	return scanSession(row)
}

// ListSessions returns a user's sessions sorted by start time descending,
// capped at limit (0 = no cap).
func (db *DB) ListSessions(ctx context.Context, userID uuid.UUID, limit int) ([]models.WorkoutSession, error) {
	query := `SELECT ` + sessionColumns + `
		 FROM workout_sessions
		 WHERE user_id = $1
		 ORDER BY started_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()
	return scanSessionRows(rows)
}

// ListSessionsByDateRange returns sessions with started_at in [from, to],
// ascending.
func (db *DB) ListSessionsByDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.WorkoutSession, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+sessionColumns+`
		 FROM workout_sessions
		 WHERE user_id = $1 AND started_at >= $2 AND started_at <= $3
		 ORDER BY started_at ASC`,
		userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("querying sessions by range: %w", err)
	}
	defer rows.Close()
	return scanSessionRows(rows)
}

// ListOpenSessions returns a user's unfinished sessions, oldest first.
// This is the recovery scan for a lost active-session pointer, not the
// primary way to find the current session.
func (db *DB) ListOpenSessions(ctx context.Context, userID uuid.UUID) ([]models.WorkoutSession, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+sessionColumns+`
		 FROM workout_sessions
		 WHERE user_id = $1 AND ended_at IS NULL
		 ORDER BY started_at ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying open sessions: %w", err)
	}
	defer rows.Close()
	return scanSessionRows(rows)
}

// SessionExists reports whether a session with this exact identity is
// already stored. The importer uses it to keep re-imports idempotent.
func (db *DB) SessionExists(ctx context.Context, userID, categoryID uuid.UUID, startedAt time.Time) (bool, error) {
	var count int
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM workout_sessions
		 WHERE user_id = $1 AND category_id = $2 AND started_at = $3`,
		userID, categoryID, startedAt).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking session existence: %w", err)
	}
	return count > 0, nil
}

func scanSession(row pgx.Row) (*models.WorkoutSession, error) {
	var s models.WorkoutSession
	err := row.Scan(&s.ID, &s.UserID, &s.CategoryID, &s.StartedAt, &s.EndedAt,
		&s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	return &s, nil
}

func scanSessionRows(rows pgx.Rows) ([]models.WorkoutSession, error) {
	var out []models.WorkoutSession
	for rows.Next() {
		var s models.WorkoutSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.CategoryID, &s.StartedAt, &s.EndedAt,
			&s.Notes, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
