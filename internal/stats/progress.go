package stats

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
)

// ProgressPoint is one session's contribution to an exercise trend chart.
// A session yields at most one point regardless of how many sets of the
// exercise it contains.
type ProgressPoint struct {
	Date      string  `json:"date"`
	MaxWeight float64 `json:"max_weight"`
	Volume    float64 `json:"volume"`
}

// ExerciseStats holds a single exercise's all-time records.
type ExerciseStats struct {
	MaxWeight         float64 `json:"max_weight"`
	BestSessionVolume float64 `json:"best_session_volume"`
}

// ExerciseProgress returns the per-session trend for one exercise within
// the trailing N weeks, sorted ascending by date. Sets whose owning
// workout-exercise or session has vanished are skipped; partial results
// beat total failure.
func (e *Engine) ExerciseProgress(ctx context.Context, userID, exerciseID uuid.UUID, weeks int) ([]ProgressPoint, error) {
	if !e.ready(userID) || exerciseID == uuid.Nil || weeks < 1 {
		return nil, nil
	}

	from, to := e.windowRange(weeks)
	sets, err := e.store.ListSetsByExercise(ctx, userID, exerciseID, from, to)
	if err != nil {
		return nil, err
	}

	bySession, err := e.groupSetsBySession(ctx, sets)
	if err != nil {
		return nil, err
	}

	points := make([]ProgressPoint, 0, len(bySession))
	for sessionID, sessionSets := range bySession {
		session, err := e.store.GetSession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if session == nil {
			continue
		}
		points = append(points, ProgressPoint{
			Date:      session.StartedAt.Format("2006-01-02"),
			MaxWeight: MaxWeight(sessionSets),
			Volume:    TotalVolume(sessionSets),
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points, nil
}

// ExerciseStats returns the all-time max weight and the best single
// session's volume for one exercise.
func (e *Engine) ExerciseStats(ctx context.Context, userID, exerciseID uuid.UUID) (*ExerciseStats, error) {
	out := &ExerciseStats{}
	if !e.ready(userID) || exerciseID == uuid.Nil {
		return out, nil
	}

	sets, err := e.store.ListSetsByExercise(ctx, userID, exerciseID, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	out.MaxWeight = MaxWeight(sets)

	bySession, err := e.groupSetsBySession(ctx, sets)
	if err != nil {
		return nil, err
	}
	for _, sessionSets := range bySession {
		if vol := TotalVolume(sessionSets); vol > out.BestSessionVolume {
			out.BestSessionVolume = vol
		}
	}
	return out, nil
}

// DetectPRs inspects a just-finished session and returns the names of
// exercises whose session max weight meets or beats the user's all-time
// max for that exercise, in session order. The finished session is
// already persisted, so a tie with the previous best still flags a PR.
func (e *Engine) DetectPRs(ctx context.Context, userID, sessionID uuid.UUID) ([]string, error) {
	if !e.ready(userID) || sessionID == uuid.Nil {
		return nil, nil
	}

	weList, err := e.store.ListWorkoutExercises(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var prs []string
	seen := make(map[uuid.UUID]bool)
	for _, we := range weList {
		if seen[we.ExerciseID] {
			continue
		}
		seen[we.ExerciseID] = true

		sessionSets, err := e.sessionSetsForExercise(ctx, weList, we.ExerciseID)
		if err != nil {
			return nil, err
		}
		sessionMax := MaxWeight(sessionSets)
		if sessionMax == 0 {
			continue
		}

		allSets, err := e.store.ListSetsByExercise(ctx, userID, we.ExerciseID, time.Time{}, time.Time{})
		if err != nil {
			return nil, err
		}
		if sessionMax < MaxWeight(allSets) {
			continue
		}

		ex, err := e.store.GetExercise(ctx, we.ExerciseID)
		if err != nil {
			return nil, err
		}
		if ex != nil {
			prs = append(prs, ex.Name)
		}
	}
	return prs, nil
}

// sessionSetsForExercise collects every set under the given workout
// exercises that belongs to one exercise. An exercise added to a session
// twice contributes all of its entries.
func (e *Engine) sessionSetsForExercise(ctx context.Context, weList []models.WorkoutExercise, exerciseID uuid.UUID) ([]models.WorkoutSet, error) {
	var out []models.WorkoutSet
	for _, we := range weList {
		if we.ExerciseID != exerciseID {
			continue
		}
		sets, err := e.store.ListSets(ctx, we.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, sets...)
	}
	return out, nil
}

// groupSetsBySession resolves each set's owning session through its
// workout-exercise record. Sets with a missing workout-exercise are
// dropped from the result rather than aborting the computation.
func (e *Engine) groupSetsBySession(ctx context.Context, sets []models.WorkoutSet) (map[uuid.UUID][]models.WorkoutSet, error) {
	sessionByWE := make(map[uuid.UUID]uuid.UUID)
	bySession := make(map[uuid.UUID][]models.WorkoutSet)
	for _, set := range sets {
		sessionID, ok := sessionByWE[set.WorkoutExerciseID]
		if !ok {
			we, err := e.store.GetWorkoutExercise(ctx, set.WorkoutExerciseID)
			if err != nil {
				return nil, err
			}
			if we == nil {
				continue
			}
			sessionID = we.SessionID
			sessionByWE[set.WorkoutExerciseID] = sessionID
		}
		bySession[sessionID] = append(bySession[sessionID], set)
	}
	return bySession, nil
}
