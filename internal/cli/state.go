package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// StateDB holds the CLI's local pointers: the active session and the
// workout exercise sets are currently logged against. The pointer is
// explicit state, never inferred by scanning the server; `recover`
// rebuilds it from the server's open-session list when it is lost.
type StateDB struct {
	db *sql.DB
}

// OpenStateDB opens (or creates) the SQLite state database at dir/state.db.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "state.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS active_state (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state table: %w", err)
	}

	return &StateDB{db: db}, nil
}

const (
	keyActiveSession  = "active_session"
	keyActiveExercise = "active_workout_exercise"
)

// ActiveSession returns the active session ID, or uuid.Nil when none is set.
func (s *StateDB) ActiveSession() (uuid.UUID, error) {
	return s.getID(keyActiveSession)
}

// SetActiveSession records the session now being logged. It clears the
// active workout exercise, which belonged to the previous session.
func (s *StateDB) SetActiveSession(id uuid.UUID) error {
	if err := s.setID(keyActiveSession, id); err != nil {
		return err
	}
	return s.clear(keyActiveExercise)
}

// ActiveExercise returns the workout-exercise entry sets are appended to,
// or uuid.Nil when none is set.
func (s *StateDB) ActiveExercise() (uuid.UUID, error) {
	return s.getID(keyActiveExercise)
}

// SetActiveExercise records the current workout-exercise entry.
func (s *StateDB) SetActiveExercise(id uuid.UUID) error {
	return s.setID(keyActiveExercise, id)
}

// ClearSession drops both pointers, e.g. after finish or abort.
func (s *StateDB) ClearSession() error {
	if err := s.clear(keyActiveSession); err != nil {
		return err
	}
	return s.clear(keyActiveExercise)
}

// Close closes the state database.
func (s *StateDB) Close() error {
	return s.db.Close()
}

func (s *StateDB) getID(key string) (uuid.UUID, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM active_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("reading %s: %w", key, err)
	}

	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt %s value %q: %w", key, value, err)
	}
	return id, nil
}

func (s *StateDB) setID(key string, id uuid.UUID) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO active_state (key, value) VALUES (?, ?)`,
		key, id.String(),
	)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (s *StateDB) clear(key string) error {
	_, err := s.db.Exec(`DELETE FROM active_state WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("clearing %s: %w", key, err)
	}
	return nil
}
