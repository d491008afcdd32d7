package importer

import (
	"strings"
	"testing"
	"time"
)

const sampleCSV = `Date,Workout Name,Duration,Exercise Name,Set Order,Weight,Reps
2026-03-02 18:00:00,Push Day,1h 2m,Bench Press,1,60,10
2026-03-02 18:00:00,Push Day,1h 2m,Bench Press,2,62.5,8
2026-03-02 18:00:00,Push Day,1h 2m,Overhead Press,1,40,8
2026-03-04 19:30:00,Pull Day,45m,Barbell Row,1,70,8
`

// TestParseGroupsByDateAndName verifies rows collapse into one session per
// (date, workout name) with sets kept in file order.
func TestParseGroupsByDateAndName(t *testing.T) {
	sessions, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}

	push := sessions[0]
	if push.WorkoutName != "Push Day" {
		t.Errorf("workout name = %q, want Push Day", push.WorkoutName)
	}
	if want := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC); !push.Date.Equal(want) {
		t.Errorf("date = %v, want %v", push.Date, want)
	}
	if len(push.Sets) != 3 {
		t.Fatalf("push sets = %d, want 3", len(push.Sets))
	}
	if push.Sets[1].Weight != 62.5 || push.Sets[1].Reps != 8 {
		t.Errorf("set 2 = %+v, want 62.5 kg x 8", push.Sets[1])
	}
	if push.Sets[2].ExerciseName != "Overhead Press" {
		t.Errorf("set 3 exercise = %q, want Overhead Press", push.Sets[2].ExerciseName)
	}

	pull := sessions[1]
	if pull.WorkoutName != "Pull Day" || len(pull.Sets) != 1 {
		t.Errorf("pull session = %+v, want Pull Day with 1 set", pull)
	}
}

// TestParseMissingColumn verifies a clear error when a required header is absent.
func TestParseMissingColumn(t *testing.T) {
	csv := "Date,Workout Name,Exercise Name,Set Order,Reps\n2026-03-02,Push,Bench Press,1,10\n"
	_, err := Parse(strings.NewReader(csv))
	if err == nil || !strings.Contains(err.Error(), "Weight") {
		t.Errorf("err = %v, want missing Weight column error", err)
	}
}

// TestParseEmptyWeightIsBodyweight verifies an empty weight cell parses as
// zero load instead of failing.
func TestParseEmptyWeightIsBodyweight(t *testing.T) {
	csv := "Date,Workout Name,Duration,Exercise Name,Set Order,Weight,Reps\n2026-03-02,Push Day,30m,Push-up,1,,20\n"
	sessions, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sessions[0].Sets[0].Weight != 0 {
		t.Errorf("weight = %v, want 0 for bodyweight", sessions[0].Sets[0].Weight)
	}
	if sessions[0].Sets[0].Reps != 20 {
		t.Errorf("reps = %d, want 20", sessions[0].Sets[0].Reps)
	}
}

// TestParseBadRow verifies malformed numeric fields are rejected with the
// offending line number.
func TestParseBadRow(t *testing.T) {
	csv := "Date,Workout Name,Duration,Exercise Name,Set Order,Weight,Reps\n2026-03-02,Push Day,30m,Bench Press,one,60,10\n"
	_, err := Parse(strings.NewReader(csv))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("err = %v, want line 2 error", err)
	}
}

// TestParseDateFormats verifies the accepted date layouts.
func TestParseDateFormats(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2026-03-02 18:00:00", time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)},
		{"2026-03-02 18:00", time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)},
		{"2026-03-02", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := parseDate(tc.in)
		if err != nil {
			t.Errorf("parseDate(%q) error: %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("parseDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, err := parseDate("March 2nd"); err == nil {
		t.Error("expected error for unrecognized date")
	}
}

// TestParseDuration verifies duration strings convert to minutes.
func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"1h 2m", 62},
		{"45m", 45},
		{"2h", 120},
		{"", 0},
		{"soon", 0},
	}
	for _, tc := range cases {
		if got := ParseDuration(tc.in); got != tc.want {
			t.Errorf("ParseDuration(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
