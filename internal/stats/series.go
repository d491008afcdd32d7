package stats

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

// SeriesPoint is one labelled value in a chart series. Labels are
// truncated dates (MM-DD).
type SeriesPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// WeeklySeries holds per-week chart series over a trailing window.
// Weeks without a single session are omitted rather than zero-filled;
// callers must handle sparse series.
type WeeklySeries struct {
	Volume   []SeriesPoint `json:"volume"`
	Sessions []SeriesPoint `json:"sessions"`
	Minutes  []SeriesPoint `json:"minutes"`
}

// ActivityDay is one cell of the activity heatmap.
type ActivityDay struct {
	Date     string  `json:"date"`
	Sessions int     `json:"sessions"`
	Volume   float64 `json:"volume"`
}

// weekKey returns the ISO date of the calendar week containing t.
// Weeks start on Sunday, matching time.Weekday numbering.
func weekKey(t time.Time) string {
	start := t.AddDate(0, 0, -int(t.Weekday()))
	return start.Format("2006-01-02")
}

// dayKey returns the ISO date of t.
func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// label shortens a 2006-01-02 bucket key to MM-DD for chart axes.
func label(key string) string {
	if len(key) > 5 {
		return key[5:]
	}
	return key
}

// WeeklySeries buckets the user's sessions from the trailing N weeks by
// calendar-week start and accumulates session count, volume, and duration
// minutes per bucket. The output covers the sorted union of bucket keys
// that carry any signal. weeks < 1 yields empty series without a query.
func (e *Engine) WeeklySeries(ctx context.Context, userID uuid.UUID, weeks int) (*WeeklySeries, error) {
	out := &WeeklySeries{}
	if !e.ready(userID) || weeks < 1 {
		return out, nil
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

	volByWeek := make(map[string]float64)
	countByWeek := make(map[string]float64)
	minsByWeek := make(map[string]float64)
	for _, s := range sessions {
		key := weekKey(s.StartedAt)
		countByWeek[key]++
		volByWeek[key] += vols[s.ID]
		minsByWeek[key] += float64(SessionDurationMins(s, to))
	}

	keys := sortedKeyUnion(volByWeek, countByWeek)
	for _, key := range keys {
		out.Volume = append(out.Volume, SeriesPoint{Label: label(key), Value: volByWeek[key]})
		out.Sessions = append(out.Sessions, SeriesPoint{Label: label(key), Value: countByWeek[key]})
		out.Minutes = append(out.Minutes, SeriesPoint{Label: label(key), Value: minsByWeek[key]})
	}
	return out, nil
}

// ActivityHeatmap returns per-day session counts and volume over the
// trailing N weeks, sorted ascending by date. Days without sessions are
// absent.
func (e *Engine) ActivityHeatmap(ctx context.Context, userID uuid.UUID, weeks int) ([]ActivityDay, error) {
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

	byDay := make(map[string]*ActivityDay)
	for _, s := range sessions {
		key := dayKey(s.StartedAt)
		day, ok := byDay[key]
		if !ok {
			day = &ActivityDay{Date: key}
			byDay[key] = day
		}
		day.Sessions++
		day.Volume += vols[s.ID]
	}

	out := make([]ActivityDay, 0, len(byDay))
	for _, day := range byDay {
		out = append(out, *day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// sortedKeyUnion returns the ascending union of the maps' keys.
func sortedKeyUnion(ms ...map[string]float64) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, m := range ms {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}
