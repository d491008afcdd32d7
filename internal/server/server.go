package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meltforce/liftlog/internal/stats"
	"github.com/meltforce/liftlog/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     *storage.DB
	engine *stats.Engine
	userID uuid.UUID
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured. userID is the
// bootstrap identity every request operates as.
func New(db *storage.DB, engine *stats.Engine, userID uuid.UUID, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		engine: engine,
		userID: userID,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Mount attaches an extra handler subtree, e.g. the MCP endpoint.
func (s *Server) Mount(pattern string, h http.Handler) {
	s.router.Mount(pattern, h)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))

		r.Get("/profile", s.handleGetProfile)
		r.Put("/profile", s.handleUpdateProfile)

		r.Get("/categories", s.handleListCategories)
		r.Post("/categories", s.handleCreateCategory)
		r.Put("/categories/{id}", s.handleRenameCategory)
		r.Delete("/categories/{id}", s.handleDeleteCategory)

		r.Get("/exercises", s.handleListExercises)
		r.Post("/exercises", s.handleCreateExercise)
		r.Put("/exercises/{id}", s.handleRenameExercise)
		r.Delete("/exercises/{id}", s.handleDeleteExercise)

		r.Post("/sessions", s.handleStartSession)
		r.Get("/sessions", s.handleListSessions)
		r.Get("/sessions/open", s.handleOpenSessions)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Delete("/sessions/{id}", s.handleDeleteSession)
		r.Put("/sessions/{id}/notes", s.handleUpdateSessionNotes)
		r.Post("/sessions/{id}/finish", s.handleFinishSession)
		r.Post("/sessions/{id}/exercises", s.handleAddWorkoutExercise)
		r.Put("/workout-exercises/{id}", s.handleUpdateWorkoutExercise)
		r.Delete("/workout-exercises/{id}", s.handleDeleteWorkoutExercise)
		r.Post("/workout-exercises/{id}/sets", s.handleAddSet)
		r.Put("/sets/{id}", s.handleUpdateSet)
		r.Delete("/sets/{id}", s.handleDeleteSet)

		r.Get("/stats/summary", s.handleStatsSummary)
		r.Get("/stats/weekly", s.handleStatsWeekly)
		r.Get("/stats/heatmap", s.handleStatsHeatmap)
		r.Get("/stats/categories", s.handleStatsCategories)
		r.Get("/stats/exercises/top", s.handleStatsTopExercises)
		r.Get("/stats/exercises/{id}/progress", s.handleStatsExerciseProgress)
		r.Get("/stats/exercises/{id}", s.handleStatsExercise)
	})
}
