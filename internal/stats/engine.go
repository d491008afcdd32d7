// Package stats derives summary metrics, time-bucketed series, rankings,
// progress series, and personal-record flags from a user's workout log.
// It depends only on the Store read contract and recomputes from scratch
// on every call; there is no shared mutable state and no caching, so
// concurrent invocations are safe.
package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
)

// Store is the repository read contract the engine depends on.
// List methods return empty slices (not errors) when nothing matches;
// Get methods return (nil, nil) when the record is absent.
type Store interface {
	// ListSessions returns the user's sessions sorted by start time
	// descending, capped at limit (0 = no cap).
	ListSessions(ctx context.Context, userID uuid.UUID, limit int) ([]models.WorkoutSession, error)
	// ListSessionsByDateRange returns sessions with StartedAt in [from, to].
	ListSessionsByDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.WorkoutSession, error)
	GetSession(ctx context.Context, id uuid.UUID) (*models.WorkoutSession, error)

	ListWorkoutExercises(ctx context.Context, sessionID uuid.UUID) ([]models.WorkoutExercise, error)
	GetWorkoutExercise(ctx context.Context, id uuid.UUID) (*models.WorkoutExercise, error)

	ListSets(ctx context.Context, workoutExerciseID uuid.UUID) ([]models.WorkoutSet, error)
	// ListSessionSets returns every set under the given sessions in a
	// single joined query, each tagged with its session and exercise.
	ListSessionSets(ctx context.Context, sessionIDs []uuid.UUID) ([]models.SessionSet, error)
	// ListSetsByExercise returns all of a user's sets for one exercise,
	// joined transitively through session ownership. Zero-valued from/to
	// mean unbounded.
	ListSetsByExercise(ctx context.Context, userID, exerciseID uuid.UUID, from, to time.Time) ([]models.WorkoutSet, error)

	GetCategory(ctx context.Context, id uuid.UUID) (*models.TrainingCategory, error)
	GetExercise(ctx context.Context, id uuid.UUID) (*models.Exercise, error)
}

// Above this many sessions in a window, aggregators switch from nested
// per-session queries to the single bulk session-sets join.
const bulkFetchThreshold = 25

// Engine computes derived workout metrics against a Store.
type Engine struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

// NewEngine creates an Engine. A nil logger falls back to slog.Default.
func NewEngine(store Store, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{store: store, log: log, now: time.Now}
}

// ready reports whether the engine has what it needs to compute anything
// for the given user. Callers return zero values when it is false.
func (e *Engine) ready(userID uuid.UUID) bool {
	return e != nil && e.store != nil && userID != uuid.Nil
}

// sessionSets fetches every set under the given sessions, tagged with
// session and exercise identity. Small windows walk session → exercises →
// sets with nested queries; large windows use the bulk join instead.
func (e *Engine) sessionSets(ctx context.Context, sessions []models.WorkoutSession) ([]models.SessionSet, error) {
	if len(sessions) == 0 {
		return nil, nil
	}

	if len(sessions) >= bulkFetchThreshold {
		ids := make([]uuid.UUID, 0, len(sessions))
		for _, s := range sessions {
			ids = append(ids, s.ID)
		}
		return e.store.ListSessionSets(ctx, ids)
	}

	var out []models.SessionSet
	for _, s := range sessions {
		weList, err := e.store.ListWorkoutExercises(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		for _, we := range weList {
			sets, err := e.store.ListSets(ctx, we.ID)
			if err != nil {
				return nil, err
			}
			for _, set := range sets {
				out = append(out, models.SessionSet{
					SessionID:  s.ID,
					ExerciseID: we.ExerciseID,
					Set:        set,
				})
			}
		}
	}
	return out, nil
}

// volumeBySession reduces joined set rows to total volume per session.
func volumeBySession(rows []models.SessionSet) map[uuid.UUID]float64 {
	vols := make(map[uuid.UUID]float64, len(rows))
	for _, r := range rows {
		vols[r.SessionID] += SetVolume(r.Set)
	}
	return vols
}

// windowRange returns the trailing window [now − weeks·7d, now].
func (e *Engine) windowRange(weeks int) (time.Time, time.Time) {
	to := e.now()
	return to.AddDate(0, 0, -weeks*7), to
}
