package stats

import (
	"context"
	"sort"

	"github.com/google/uuid"
)

// Top-exercise lists default to this length when the caller passes no limit.
const defaultTopExerciseLimit = 10

// CategoryVolume is one category's total volume within a window.
type CategoryVolume struct {
	CategoryName string  `json:"category_name"`
	Volume       float64 `json:"volume"`
}

// TopExercise is one exercise's aggregate within a window. SessionCount
// is the number of distinct sessions that included the exercise, not the
// number of sets.
type TopExercise struct {
	ExerciseName string  `json:"exercise_name"`
	Volume       float64 `json:"volume"`
	SessionCount int     `json:"session_count"`
}

// VolumeByCategory groups the trailing window's sessions by category,
// sums volume per group, and returns entries sorted descending by volume.
// Categories with no session in the window are absent. A deleted
// category's sessions still count; the display name falls back to the
// raw category id.
func (e *Engine) VolumeByCategory(ctx context.Context, userID uuid.UUID, weeks int) ([]CategoryVolume, error) {
	if !e.ready(userID) || weeks < 1 {
		return nil, nil
	}

	from, to := e.windowRange(weeks)
	sessions, err := e.store.ListSessionsByDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	rows, err := e.sessionSets(ctx, sessions)
	if err != nil {
		return nil, err
	}
	vols := volumeBySession(rows)

	names := make(map[uuid.UUID]string)
	byName := make(map[string]float64)
	for _, s := range sessions {
		name, ok := names[s.CategoryID]
		if !ok {
			name = s.CategoryID.String()
			if cat, err := e.store.GetCategory(ctx, s.CategoryID); err != nil {
				return nil, err
			} else if cat != nil {
				name = cat.Name
			}
			names[s.CategoryID] = name
		}
		byName[name] += vols[s.ID]
	}

	out := make([]CategoryVolume, 0, len(byName))
	for name, vol := range byName {
		out = append(out, CategoryVolume{CategoryName: name, Volume: vol})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Volume != out[j].Volume {
			return out[i].Volume > out[j].Volume
		}
		return out[i].CategoryName < out[j].CategoryName
	})
	return out, nil
}

// TopExercises ranks the window's exercises by total volume, counting
// each exercise's distinct sessions, truncated to limit (≤ 0 → 10).
// Deleted exercises fall back to the raw id as display name.
func (e *Engine) TopExercises(ctx context.Context, userID uuid.UUID, weeks, limit int) ([]TopExercise, error) {
	if !e.ready(userID) || weeks < 1 {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultTopExerciseLimit
	}

	from, to := e.windowRange(weeks)
	sessions, err := e.store.ListSessionsByDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	rows, err := e.sessionSets(ctx, sessions)
	if err != nil {
		return nil, err
	}

	type acc struct {
		volume   float64
		sessions map[uuid.UUID]bool
	}
	byExercise := make(map[uuid.UUID]*acc)
	for _, r := range rows {
		a, ok := byExercise[r.ExerciseID]
		if !ok {
			a = &acc{sessions: make(map[uuid.UUID]bool)}
			byExercise[r.ExerciseID] = a
		}
		a.volume += SetVolume(r.Set)
		a.sessions[r.SessionID] = true
	}

	out := make([]TopExercise, 0, len(byExercise))
	for id, a := range byExercise {
		name := id.String()
		if ex, err := e.store.GetExercise(ctx, id); err != nil {
			return nil, err
		} else if ex != nil {
			name = ex.Name
		}
		out = append(out, TopExercise{
			ExerciseName: name,
			Volume:       a.volume,
			SessionCount: len(a.sessions),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Volume != out[j].Volume {
			return out[i].Volume > out[j].Volume
		}
		return out[i].ExerciseName < out[j].ExerciseName
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
