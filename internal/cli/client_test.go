package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/liftlog/internal/models"
)

// newTestServer returns a client wired to a stub API that records the
// last request and replies with the given status and body.
func newTestServer(t *testing.T, status int, body any) (*Client, *http.Request) {
	t.Helper()
	var captured http.Request

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = *r
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)

	return NewClient(srv.URL, "test-key"), &captured
}

// TestClientSendsAPIKey verifies every request carries the X-API-Key header.
func TestClientSendsAPIKey(t *testing.T) {
	client, captured := newTestServer(t, http.StatusOK, []models.TrainingCategory{})

	if _, err := client.ListCategories(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := captured.Header.Get("X-API-Key"); got != "test-key" {
		t.Errorf("X-API-Key = %q, want %q", got, "test-key")
	}
	if captured.URL.Path != "/api/v1/categories" {
		t.Errorf("path = %q, want /api/v1/categories", captured.URL.Path)
	}
}

// TestFindCategoryCaseInsensitive verifies name resolution ignores case.
func TestFindCategoryCaseInsensitive(t *testing.T) {
	want := models.TrainingCategory{ID: uuid.New(), Name: "Push"}
	client, _ := newTestServer(t, http.StatusOK, []models.TrainingCategory{want})

	got, err := client.FindCategory(context.Background(), "push")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.ID != want.ID {
		t.Fatalf("FindCategory = %+v, want id %v", got, want.ID)
	}
}

// TestFindCategoryAbsent verifies a missing name returns (nil, nil).
func TestFindCategoryAbsent(t *testing.T) {
	client, _ := newTestServer(t, http.StatusOK, []models.TrainingCategory{})

	got, err := client.FindCategory(context.Background(), "Legs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("FindCategory = %+v, want nil", got)
	}
}

// TestFindExercisePrefersExactMatch verifies an exact (case-insensitive)
// name wins over the first search result.
func TestFindExercisePrefersExactMatch(t *testing.T) {
	inclined := models.Exercise{ID: uuid.New(), Name: "Incline Bench Press"}
	flat := models.Exercise{ID: uuid.New(), Name: "Bench Press"}
	client, captured := newTestServer(t, http.StatusOK, []models.Exercise{inclined, flat})

	got, err := client.FindExercise(context.Background(), "bench press")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.ID != flat.ID {
		t.Fatalf("FindExercise = %+v, want %q", got, flat.Name)
	}
	if search := captured.URL.Query().Get("search"); search != "bench press" {
		t.Errorf("search param = %q, want %q", search, "bench press")
	}
}

// TestStartSession verifies the session-start request shape and decoding.
func TestStartSession(t *testing.T) {
	categoryID := uuid.New()
	want := models.WorkoutSession{ID: uuid.New(), CategoryID: categoryID, StartedAt: time.Now()}
	client, captured := newTestServer(t, http.StatusCreated, want)

	got, err := client.StartSession(context.Background(), categoryID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != want.ID {
		t.Errorf("session id = %v, want %v", got.ID, want.ID)
	}
	if captured.Method != http.MethodPost {
		t.Errorf("method = %q, want POST", captured.Method)
	}
	if captured.URL.Path != "/api/v1/sessions" {
		t.Errorf("path = %q, want /api/v1/sessions", captured.URL.Path)
	}
}

// TestFinishSession verifies the summary decodes, PRs included.
func TestFinishSession(t *testing.T) {
	sessionID := uuid.New()
	client, captured := newTestServer(t, http.StatusOK, FinishSummary{
		CategoryName: "Push",
		DurationMins: 45,
		TotalVolume:  1050,
		PRs:          []string{"Bench Press"},
	})

	summary, err := client.FinishSession(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TotalVolume != 1050 {
		t.Errorf("total volume = %v, want 1050", summary.TotalVolume)
	}
	if len(summary.PRs) != 1 || summary.PRs[0] != "Bench Press" {
		t.Errorf("prs = %v, want [Bench Press]", summary.PRs)
	}
	wantPath := "/api/v1/sessions/" + sessionID.String() + "/finish"
	if captured.URL.Path != wantPath {
		t.Errorf("path = %q, want %q", captured.URL.Path, wantPath)
	}
}

// TestClientErrorStatus verifies non-2xx responses surface as errors with
// the response body included.
func TestClientErrorStatus(t *testing.T) {
	client, _ := newTestServer(t, http.StatusForbidden, map[string]string{"error": "invalid API key"})

	_, err := client.ListSessions(context.Background(), 5)
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
}

// TestListSessionsLimit verifies the limit query param is forwarded.
func TestListSessionsLimit(t *testing.T) {
	client, captured := newTestServer(t, http.StatusOK, []models.WorkoutSession{})

	if _, err := client.ListSessions(context.Background(), 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := captured.URL.Query().Get("limit"); got != "5" {
		t.Errorf("limit = %q, want 5", got)
	}
}
