package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/stats"
)

// Client calls the LiftLog REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Client targeting the given base URL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, payload any) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("client: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("client: create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: read body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("client: %s %s returned %d: %s", method, path, resp.StatusCode, respBody)
	}

	return respBody, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("client: decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := c.do(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("client: decode %s: %w", path, err)
	}
	return nil
}

// ListCategories returns the user's training categories.
func (c *Client) ListCategories(ctx context.Context) ([]models.TrainingCategory, error) {
	var categories []models.TrainingCategory
	if err := c.getJSON(ctx, "/api/v1/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// FindCategory resolves a category by case-insensitive name match.
func (c *Client) FindCategory(ctx context.Context, name string) (*models.TrainingCategory, error) {
	categories, err := c.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if strings.EqualFold(categories[i].Name, name) {
			return &categories[i], nil
		}
	}
	return nil, nil
}

// FindExercise resolves an exercise by name via the server's search.
func (c *Client) FindExercise(ctx context.Context, name string) (*models.Exercise, error) {
	params := url.Values{}
	params.Set("search", name)

	var exercises []models.Exercise
	if err := c.getJSON(ctx, "/api/v1/exercises", params, &exercises); err != nil {
		return nil, err
	}
	for i := range exercises {
		if strings.EqualFold(exercises[i].Name, name) {
			return &exercises[i], nil
		}
	}
	if len(exercises) > 0 {
		return &exercises[0], nil
	}
	return nil, nil
}

// CreateExercise adds a custom exercise.
func (c *Client) CreateExercise(ctx context.Context, name string) (*models.Exercise, error) {
	var exercise models.Exercise
	err := c.postJSON(ctx, "/api/v1/exercises", map[string]string{"name": name}, &exercise)
	if err != nil {
		return nil, err
	}
	return &exercise, nil
}

// StartSession opens a new session in the given category.
func (c *Client) StartSession(ctx context.Context, categoryID uuid.UUID, notes *string) (*models.WorkoutSession, error) {
	var session models.WorkoutSession
	err := c.postJSON(ctx, "/api/v1/sessions", map[string]any{
		"category_id": categoryID,
		"notes":       notes,
	}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// AddExercise appends an exercise entry to a session.
func (c *Client) AddExercise(ctx context.Context, sessionID, exerciseID uuid.UUID) (*models.WorkoutExercise, error) {
	var entry models.WorkoutExercise
	path := fmt.Sprintf("/api/v1/sessions/%s/exercises", sessionID)
	err := c.postJSON(ctx, path, map[string]any{"exercise_id": exerciseID}, &entry)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// AddSet logs a set under a workout-exercise entry.
func (c *Client) AddSet(ctx context.Context, workoutExerciseID uuid.UUID, reps int, weight float64) (*models.WorkoutSet, error) {
	var set models.WorkoutSet
	path := fmt.Sprintf("/api/v1/workout-exercises/%s/sets", workoutExerciseID)
	err := c.postJSON(ctx, path, map[string]any{"reps": reps, "weight": weight}, &set)
	if err != nil {
		return nil, err
	}
	return &set, nil
}

// FinishSummary is the recap the server returns when a session ends.
type FinishSummary struct {
	Session      models.WorkoutSession `json:"session"`
	CategoryName string                `json:"category_name"`
	DurationMins int                   `json:"duration_mins"`
	TotalVolume  float64               `json:"total_volume"`
	PRs          []string              `json:"prs"`
}

// FinishSession ends a session and returns its summary.
func (c *Client) FinishSession(ctx context.Context, sessionID uuid.UUID) (*FinishSummary, error) {
	var summary FinishSummary
	path := fmt.Sprintf("/api/v1/sessions/%s/finish", sessionID)
	if err := c.postJSON(ctx, path, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// DeleteSession removes a session and everything beneath it.
func (c *Client) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	path := fmt.Sprintf("/api/v1/sessions/%s", sessionID)
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// OpenSessions returns unfinished sessions, oldest first.
func (c *Client) OpenSessions(ctx context.Context) ([]models.WorkoutSession, error) {
	var sessions []models.WorkoutSession
	if err := c.getJSON(ctx, "/api/v1/sessions/open", nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListSessions returns recent sessions, newest first, capped at limit.
func (c *Client) ListSessions(ctx context.Context, limit int) ([]models.WorkoutSession, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", fmt.Sprint(limit))
	}
	var sessions []models.WorkoutSession
	if err := c.getJSON(ctx, "/api/v1/sessions", params, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// SessionDetail is a session with its entries and sets expanded.
type SessionDetail struct {
	Session   models.WorkoutSession `json:"session"`
	Exercises []struct {
		Entry        models.WorkoutExercise `json:"entry"`
		ExerciseName string                 `json:"exercise_name"`
		Sets         []models.WorkoutSet    `json:"sets"`
	} `json:"exercises"`
}

// GetSession returns the full detail for one session.
func (c *Client) GetSession(ctx context.Context, sessionID uuid.UUID) (*SessionDetail, error) {
	var detail SessionDetail
	path := fmt.Sprintf("/api/v1/sessions/%s", sessionID)
	if err := c.getJSON(ctx, path, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// StatsSummary returns the rolling week/month totals and streak.
func (c *Client) StatsSummary(ctx context.Context) (*stats.Summary, error) {
	var summary stats.Summary
	if err := c.getJSON(ctx, "/api/v1/stats/summary", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// WeeklySeries returns week-bucketed volume/session/minute series.
func (c *Client) WeeklySeries(ctx context.Context, weeks int) (*stats.WeeklySeries, error) {
	params := url.Values{}
	if weeks > 0 {
		params.Set("weeks", fmt.Sprint(weeks))
	}
	var series stats.WeeklySeries
	if err := c.getJSON(ctx, "/api/v1/stats/weekly", params, &series); err != nil {
		return nil, err
	}
	return &series, nil
}
