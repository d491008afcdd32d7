package stats

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
)

// memStore is an in-memory Store for engine tests. It mirrors the SQL
// repositories' semantics: lists come back ordered, absent records are
// (nil, nil), nothing errors.
type memStore struct {
	sessions   []models.WorkoutSession
	exercises  []models.WorkoutExercise
	sets       []models.WorkoutSet
	categories map[uuid.UUID]models.TrainingCategory
	catalog    map[uuid.UUID]models.Exercise
}

func newMemStore() *memStore {
	return &memStore{
		categories: make(map[uuid.UUID]models.TrainingCategory),
		catalog:    make(map[uuid.UUID]models.Exercise),
	}
}

func (m *memStore) addCategory(name string) uuid.UUID {
	id := uuid.New()
	m.categories[id] = models.TrainingCategory{ID: id, Name: name}
	return id
}

func (m *memStore) addExercise(name string) uuid.UUID {
	id := uuid.New()
	m.catalog[id] = models.Exercise{ID: id, Name: name, IsBuiltIn: true}
	return id
}

func (m *memStore) addSession(userID, categoryID uuid.UUID, startedAt time.Time, endedAt *time.Time) uuid.UUID {
	id := uuid.New()
	m.sessions = append(m.sessions, models.WorkoutSession{
		ID: id, UserID: userID, CategoryID: categoryID,
		StartedAt: startedAt, EndedAt: endedAt,
	})
	return id
}

func (m *memStore) addWorkoutExercise(sessionID, exerciseID uuid.UUID) uuid.UUID {
	id := uuid.New()
	m.exercises = append(m.exercises, models.WorkoutExercise{
		ID: id, SessionID: sessionID, ExerciseID: exerciseID,
		Ordinal: len(m.exercises) + 1,
	})
	return id
}

func (m *memStore) addSet(workoutExerciseID uuid.UUID, reps int, weight float64) {
	m.sets = append(m.sets, models.WorkoutSet{
		ID: uuid.New(), WorkoutExerciseID: workoutExerciseID,
		Ordinal: len(m.sets) + 1, Reps: reps, Weight: weight,
	})
}

func (m *memStore) ListSessions(_ context.Context, userID uuid.UUID, limit int) ([]models.WorkoutSession, error) {
	var out []models.WorkoutSession
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) ListSessionsByDateRange(_ context.Context, userID uuid.UUID, from, to time.Time) ([]models.WorkoutSession, error) {
	var out []models.WorkoutSession
	for _, s := range m.sessions {
		if s.UserID != userID || s.StartedAt.Before(from) || s.StartedAt.After(to) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out, nil
}

func (m *memStore) GetSession(_ context.Context, id uuid.UUID) (*models.WorkoutSession, error) {
	for _, s := range m.sessions {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListWorkoutExercises(_ context.Context, sessionID uuid.UUID) ([]models.WorkoutExercise, error) {
	var out []models.WorkoutExercise
	for _, we := range m.exercises {
		if we.SessionID == sessionID {
			out = append(out, we)
		}
	}
	return out, nil
}

func (m *memStore) GetWorkoutExercise(_ context.Context, id uuid.UUID) (*models.WorkoutExercise, error) {
	for _, we := range m.exercises {
		if we.ID == id {
			return &we, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListSets(_ context.Context, workoutExerciseID uuid.UUID) ([]models.WorkoutSet, error) {
	var out []models.WorkoutSet
	for _, s := range m.sets {
		if s.WorkoutExerciseID == workoutExerciseID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) ListSessionSets(_ context.Context, sessionIDs []uuid.UUID) ([]models.SessionSet, error) {
	wanted := make(map[uuid.UUID]bool, len(sessionIDs))
	for _, id := range sessionIDs {
		wanted[id] = true
	}
	var out []models.SessionSet
	for _, we := range m.exercises {
		if !wanted[we.SessionID] {
			continue
		}
		for _, s := range m.sets {
			if s.WorkoutExerciseID == we.ID {
				out = append(out, models.SessionSet{SessionID: we.SessionID, ExerciseID: we.ExerciseID, Set: s})
			}
		}
	}
	return out, nil
}

func (m *memStore) ListSetsByExercise(_ context.Context, userID, exerciseID uuid.UUID, from, to time.Time) ([]models.WorkoutSet, error) {
	var out []models.WorkoutSet
	for _, we := range m.exercises {
		if we.ExerciseID != exerciseID {
			continue
		}
		session, _ := m.GetSession(context.Background(), we.SessionID)
		if session == nil || session.UserID != userID {
			continue
		}
		if !from.IsZero() && session.StartedAt.Before(from) {
			continue
		}
		if !to.IsZero() && session.StartedAt.After(to) {
			continue
		}
		for _, s := range m.sets {
			if s.WorkoutExerciseID == we.ID {
				out = append(out, s)
			}
		}
	}
	return out, nil
}

func (m *memStore) GetCategory(_ context.Context, id uuid.UUID) (*models.TrainingCategory, error) {
	if c, ok := m.categories[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (m *memStore) GetExercise(_ context.Context, id uuid.UUID) (*models.Exercise, error) {
	if e, ok := m.catalog[id]; ok {
		return &e, nil
	}
	return nil, nil
}

// Compile-time check: memStore satisfies Store.
var _ Store = (*memStore)(nil)

// testEngine returns an engine over the store with a pinned clock.
func testEngine(store *memStore, now time.Time) *Engine {
	e := NewEngine(store, nil)
	e.now = func() time.Time { return now }
	return e
}
