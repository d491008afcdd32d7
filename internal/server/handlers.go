package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/stats"
	"github.com/meltforce/liftlog/internal/storage"
)

type startSessionRequest struct {
	CategoryID uuid.UUID `json:"category_id"`
	Notes      *string   `json:"notes,omitempty"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.CategoryID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "category_id is required"})
		return
	}

	session, err := s.db.CreateSession(r.Context(), s.userID, req.CategoryID, time.Now(), req.Notes)
	if err != nil {
		s.log.Error("create session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	start, end, hasRange, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var sessions []models.WorkoutSession
	if hasRange {
		sessions, err = s.db.ListSessionsByDateRange(r.Context(), s.userID, start, end)
	} else {
		limit := 0
		if l := r.URL.Query().Get("limit"); l != "" {
			if parsed, perr := strconv.Atoi(l); perr == nil && parsed > 0 {
				limit = parsed
			}
		}
		sessions, err = s.db.ListSessions(r.Context(), s.userID, limit)
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleOpenSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.db.ListOpenSessions(r.Context(), s.userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// sessionDetail is a session with its exercise entries and their sets
// expanded, as returned by the detail and finish endpoints.
type sessionDetail struct {
	Session   models.WorkoutSession `json:"session"`
	Exercises []sessionExercise     `json:"exercises"`
}

type sessionExercise struct {
	Entry        models.WorkoutExercise `json:"entry"`
	ExerciseName string                 `json:"exercise_name"`
	Sets         []models.WorkoutSet    `json:"sets"`
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	detail, err := s.sessionDetail(r, id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if detail == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) sessionDetail(r *http.Request, id uuid.UUID) (*sessionDetail, error) {
	session, err := s.db.GetSession(r.Context(), id)
	if err != nil || session == nil {
		return nil, err
	}

	entries, err := s.db.ListWorkoutExercises(r.Context(), id)
	if err != nil {
		return nil, err
	}

	detail := &sessionDetail{Session: *session, Exercises: []sessionExercise{}}
	for _, entry := range entries {
		sets, err := s.db.ListSets(r.Context(), entry.ID)
		if err != nil {
			return nil, err
		}
		name := entry.ExerciseID.String()
		if ex, err := s.db.GetExercise(r.Context(), entry.ExerciseID); err == nil && ex != nil {
			name = ex.Name
		}
		detail.Exercises = append(detail.Exercises, sessionExercise{
			Entry:        entry,
			ExerciseName: name,
			Sets:         sets,
		})
	}
	return detail, nil
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := s.db.DeleteSession(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type notesRequest struct {
	Notes *string `json:"notes"`
}

func (s *Server) handleUpdateSessionNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req notesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	session, err := s.db.UpdateSessionNotes(r.Context(), id, req.Notes)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if session == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// finishSummary is the post-workout recap: totals, the full set list and
// any personal records hit this session.
type finishSummary struct {
	Session      models.WorkoutSession `json:"session"`
	CategoryName string                `json:"category_name"`
	DurationMins int                   `json:"duration_mins"`
	TotalVolume  float64               `json:"total_volume"`
	Exercises    []sessionExercise     `json:"exercises"`
	PRs          []string              `json:"prs"`
}

func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	session, err := s.db.FinishSession(r.Context(), id, time.Now())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if session == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found or already finished"})
		return
	}

	detail, err := s.sessionDetail(r, id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	categoryName := session.CategoryID.String()
	if cat, err := s.db.GetCategory(r.Context(), session.CategoryID); err == nil && cat != nil {
		categoryName = cat.Name
	}

	var total float64
	for _, ex := range detail.Exercises {
		total += stats.TotalVolume(ex.Sets)
	}

	prs, err := s.engine.DetectPRs(r.Context(), s.userID, id)
	if err != nil {
		s.log.Error("pr detection", "session", id, "error", err)
		prs = nil
	}
	if prs == nil {
		prs = []string{}
	}

	writeJSON(w, http.StatusOK, finishSummary{
		Session:      *session,
		CategoryName: categoryName,
		DurationMins: stats.SessionDurationMins(*session, time.Now()),
		TotalVolume:  total,
		Exercises:    detail.Exercises,
		PRs:          prs,
	})
}

type addWorkoutExerciseRequest struct {
	ExerciseID uuid.UUID `json:"exercise_id"`
	storage.WorkoutExerciseMeta
}

func (s *Server) handleAddWorkoutExercise(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := parseID(w, r)
	if !ok {
		return
	}
	var req addWorkoutExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.ExerciseID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise_id is required"})
		return
	}

	entry, err := s.db.AddWorkoutExercise(r.Context(), sessionID, req.ExerciseID, req.WorkoutExerciseMeta)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleUpdateWorkoutExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var meta storage.WorkoutExerciseMeta
	if err := json.NewDecoder(r.Body).Decode(&meta); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	entry, err := s.db.UpdateWorkoutExerciseMeta(r.Context(), id, meta)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if entry == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout exercise not found"})
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteWorkoutExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := s.db.DeleteWorkoutExercise(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setRequest struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	workoutExerciseID, ok := parseID(w, r)
	if !ok {
		return
	}
	var req setRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Reps < 0 || req.Weight < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reps and weight must be non-negative"})
		return
	}

	set, err := s.db.AddSet(r.Context(), workoutExerciseID, req.Reps, req.Weight)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, set)
}

func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req setRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	set, err := s.db.UpdateSet(r.Context(), id, req.Reps, req.Weight)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if set == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "set not found"})
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func (s *Server) handleDeleteSet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := s.db.DeleteSet(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid ID"})
		return uuid.Nil, false
	}
	return id, true
}

// parseTimeRange reads optional start/end query params. Accepts RFC3339
// or date-only values; a date-only end means end of that day.
func parseTimeRange(r *http.Request) (start, end time.Time, ok bool, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" && endStr == "" {
		return time.Time{}, time.Time{}, false, nil
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr, false)
		if err != nil {
			return time.Time{}, time.Time{}, false, err
		}
	}
	if endStr == "" {
		end = time.Now()
	} else {
		end, err = parseFlexTime(endStr, true)
		if err != nil {
			return time.Time{}, time.Time{}, false, err
		}
	}
	return start, end, true, nil
}

func parseFlexTime(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24 * time.Hour)
	}
	return t, nil
}
