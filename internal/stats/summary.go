package stats

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Streak computation looks at most this many sessions back; anyone with a
// longer unbroken run than that has earned the undercount.
const streakSessionCap = 500

// PeriodSummary holds aggregate training totals for one trailing window.
type PeriodSummary struct {
	Sessions int     `json:"sessions"`
	Volume   float64 `json:"volume"`
	Minutes  int     `json:"minutes"`
}

// Summary answers "how am I doing" from the full session history: fixed
// trailing 7-day and 30-day windows anchored at now, plus the current
// consecutive-day streak.
type Summary struct {
	Week       PeriodSummary `json:"week"`
	Month      PeriodSummary `json:"month"`
	StreakDays int           `json:"streak_days"`
}

// Summary computes the global training summary for a user. A nil store
// or nil user yields the zero summary, never an error: absence of data is
// indistinguishable from zero activity at this layer.
func (e *Engine) Summary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	out := &Summary{}
	if !e.ready(userID) {
		return out, nil
	}

	now := e.now()

	week, err := e.periodSummary(ctx, userID, now.AddDate(0, 0, -7), now)
	if err != nil {
		return nil, err
	}
	out.Week = *week

	month, err := e.periodSummary(ctx, userID, now.AddDate(0, 0, -30), now)
	if err != nil {
		return nil, err
	}
	out.Month = *month

	recent, err := e.store.ListSessions(ctx, userID, streakSessionCap)
	if err != nil {
		return nil, err
	}
	starts := make([]time.Time, 0, len(recent))
	for _, s := range recent {
		starts = append(starts, s.StartedAt)
	}
	out.StreakDays = ComputeStreak(starts, now)

	return out, nil
}

func (e *Engine) periodSummary(ctx context.Context, userID uuid.UUID, from, to time.Time) (*PeriodSummary, error) {
	sessions, err := e.store.ListSessionsByDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	p := &PeriodSummary{Sessions: len(sessions)}
	for _, s := range sessions {
		p.Minutes += SessionDurationMins(s, to)
	}

	rows, err := e.sessionSets(ctx, sessions)
	if err != nil {
		return nil, err
	}
	for _, vol := range volumeBySession(rows) {
		p.Volume += vol
	}
	return p, nil
}

// ComputeStreak returns the number of consecutive calendar days ending
// today with at least one session. Start timestamps are collapsed to
// dates in now's location; the walk begins at today and stops at the
// first gap, so a user who trained yesterday but not yet today reports 0.
// This freshness bias toward "today" is deliberate.
func ComputeStreak(startTimes []time.Time, now time.Time) int {
	if len(startTimes) == 0 {
		return 0
	}

	loc := now.Location()
	days := make(map[string]bool, len(startTimes))
	for _, t := range startTimes {
		days[t.In(loc).Format("2006-01-02")] = true
	}

	streak := 0
	ref := now
	for days[ref.Format("2006-01-02")] {
		streak++
		ref = ref.AddDate(0, 0, -1)
	}
	return streak
}
