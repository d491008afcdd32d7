package mcp

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

// TestUserIDFromContextDefault verifies the fallback user ID when no value
// is set in the context.
func TestUserIDFromContextDefault(t *testing.T) {
	fallback := uuid.New()
	if id := UserIDFromContext(context.Background(), fallback); id != fallback {
		t.Errorf("UserIDFromContext(empty) = %v, want %v", id, fallback)
	}
}

// TestUserIDFromContextSet verifies the user ID is extracted from context
// after being set by WithUserID.
func TestUserIDFromContextSet(t *testing.T) {
	want := uuid.New()
	ctx := WithUserID(context.Background(), want)
	if id := UserIDFromContext(ctx, uuid.New()); id != want {
		t.Errorf("UserIDFromContext = %v, want %v", id, want)
	}
}

// TestUserIDFromContextNil verifies a stored nil UUID falls through to the
// fallback instead of scoping queries to nobody.
func TestUserIDFromContextNil(t *testing.T) {
	fallback := uuid.New()
	ctx := WithUserID(context.Background(), uuid.Nil)
	if id := UserIDFromContext(ctx, fallback); id != fallback {
		t.Errorf("UserIDFromContext(nil stored) = %v, want fallback %v", id, fallback)
	}
}

// TestDefaultTimeRange verifies time range defaults (last 30 days) and parsing.
func TestDefaultTimeRange(t *testing.T) {
	// Both empty → defaults to last 30 days
	start, end, err := defaultTimeRange("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	diff := end.Sub(start)
	if diff.Hours() < 719 || diff.Hours() > 721 { // ~720 hours = 30 days
		t.Errorf("default range = %.0f hours, want ~720", diff.Hours())
	}

	// Explicit dates
	start, end, err = defaultTimeRange("2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Year() != 2026 || start.Month() != 3 || start.Day() != 1 {
		t.Errorf("start = %v, want 2026-03-01", start)
	}
	if end.Year() != 2026 || end.Month() != 3 || end.Day() != 31 {
		t.Errorf("end = %v, want 2026-03-31", end)
	}

	// RFC3339
	start, _, err = defaultTimeRange("2026-06-15T10:30:00Z", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Hour() != 10 || start.Minute() != 30 {
		t.Errorf("start = %v, want 10:30", start)
	}

	// Invalid
	_, _, err = defaultTimeRange("not-a-date", "")
	if err == nil {
		t.Error("expected error for invalid date")
	}
}
