package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ParsedSet is one CSV row's set data.
type ParsedSet struct {
	ExerciseName string
	SetOrder     int
	Weight       float64
	Reps         int
}

// ParsedSession groups CSV rows belonging to one workout occurrence.
type ParsedSession struct {
	Date        time.Time
	WorkoutName string
	Duration    string
	Sets        []ParsedSet
}

// requiredColumns are the CSV headers an export must carry. Extra columns
// (Distance, Seconds, Notes, RPE) are ignored.
var requiredColumns = []string{"Date", "Workout Name", "Exercise Name", "Set Order", "Weight", "Reps"}

// Parse reads a Strong-style CSV export and returns sessions grouped by
// (date, workout name), in file order. Rows within a session keep their
// file order so set ordinals survive the round trip.
func Parse(r io.Reader) ([]ParsedSession, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	durationIdx, hasDuration := col["Duration"]

	var sessions []ParsedSession
	index := map[string]int{}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		date, err := parseDate(record[col["Date"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		workoutName := strings.TrimSpace(record[col["Workout Name"]])
		exerciseName := strings.TrimSpace(record[col["Exercise Name"]])
		if workoutName == "" || exerciseName == "" {
			return nil, fmt.Errorf("line %d: workout and exercise names are required", line)
		}

		setOrder, err := strconv.Atoi(strings.TrimSpace(record[col["Set Order"]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad set order %q", line, record[col["Set Order"]])
		}
		weight, err := parseWeight(record[col["Weight"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad weight %q", line, record[col["Weight"]])
		}
		reps, err := strconv.Atoi(strings.TrimSpace(record[col["Reps"]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad reps %q", line, record[col["Reps"]])
		}

		key := date.Format(time.RFC3339) + "|" + workoutName
		idx, ok := index[key]
		if !ok {
			duration := ""
			if hasDuration && durationIdx < len(record) {
				duration = strings.TrimSpace(record[durationIdx])
			}
			sessions = append(sessions, ParsedSession{
				Date:        date,
				WorkoutName: workoutName,
				Duration:    duration,
			})
			idx = len(sessions) - 1
			index[key] = idx
		}

		sessions[idx].Sets = append(sessions[idx].Sets, ParsedSet{
			ExerciseName: exerciseName,
			SetOrder:     setOrder,
			Weight:       weight,
			Reps:         reps,
		})
	}

	return sessions, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseWeight accepts a decimal weight; an empty cell means bodyweight,
// recorded as zero load.
func parseWeight(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// ParseDuration converts Strong-style durations ("1h 2m", "45m") to
// minutes. Unparseable values yield zero.
func ParseDuration(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	total := 0
	for _, part := range strings.Fields(s) {
		if strings.HasSuffix(part, "h") {
			if h, err := strconv.Atoi(strings.TrimSuffix(part, "h")); err == nil {
				total += h * 60
			}
		} else if strings.HasSuffix(part, "m") {
			if m, err := strconv.Atoi(strings.TrimSuffix(part, "m")); err == nil {
				total += m
			}
		}
	}
	return total
}
