package server

import (
	"net/http"
	"strconv"
)

const defaultStatsWeeks = 8

// parseWeeks reads the weeks query param, falling back to the default
// window. Non-positive values pass through so the engine can return its
// empty shape.
func parseWeeks(r *http.Request) int {
	v := r.URL.Query().Get("weeks")
	if v == "" {
		return defaultStatsWeeks
	}
	weeks, err := strconv.Atoi(v)
	if err != nil {
		return defaultStatsWeeks
	}
	return weeks
}

func (s *Server) handleStatsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.engine.Summary(r.Context(), s.userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleStatsWeekly(w http.ResponseWriter, r *http.Request) {
	series, err := s.engine.WeeklySeries(r.Context(), s.userID, parseWeeks(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleStatsHeatmap(w http.ResponseWriter, r *http.Request) {
	days, err := s.engine.ActivityHeatmap(r.Context(), s.userID, parseWeeks(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (s *Server) handleStatsCategories(w http.ResponseWriter, r *http.Request) {
	volumes, err := s.engine.VolumeByCategory(r.Context(), s.userID, parseWeeks(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, volumes)
}

func (s *Server) handleStatsTopExercises(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	top, err := s.engine.TopExercises(r.Context(), s.userID, parseWeeks(r), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, top)
}

func (s *Server) handleStatsExerciseProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	points, err := s.engine.ExerciseProgress(r.Context(), s.userID, id, parseWeeks(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (s *Server) handleStatsExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	exStats, err := s.engine.ExerciseStats(r.Context(), s.userID, id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, exStats)
}
