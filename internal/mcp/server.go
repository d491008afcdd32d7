package mcp

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/meltforce/liftlog/internal/stats"
	"github.com/meltforce/liftlog/internal/storage"
)

type contextKey int

const userIDKey contextKey = iota

// WithUserID returns a context carrying the given user ID.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext extracts the user ID injected by the transport layer,
// falling back to the given default.
func UserIDFromContext(ctx context.Context, fallback uuid.UUID) uuid.UUID {
	if id, ok := ctx.Value(userIDKey).(uuid.UUID); ok && id != uuid.Nil {
		return id
	}
	return fallback
}

// New creates an MCP server with all tools and resources registered.
// defaultUserID is the bootstrap identity used when the transport does
// not inject one.
func New(db *storage.DB, engine *stats.Engine, defaultUserID uuid.UUID, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftLog workout tracking server. Query training summaries, weekly volume series, exercise rankings, progress and logged sessions. All data is scoped to the authenticated user."),
	)

	h := &handlers{db: db, engine: engine, defaultUserID: defaultUserID, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetTrainingSummary, Handler: h.getTrainingSummary},
		server.ServerTool{Tool: toolGetWeeklySeries, Handler: h.getWeeklySeries},
		server.ServerTool{Tool: toolGetActivityHeatmap, Handler: h.getActivityHeatmap},
		server.ServerTool{Tool: toolGetVolumeByCategory, Handler: h.getVolumeByCategory},
		server.ServerTool{Tool: toolGetTopExercises, Handler: h.getTopExercises},
		server.ServerTool{Tool: toolGetExerciseProgress, Handler: h.getExerciseProgress},
		server.ServerTool{Tool: toolListSessions, Handler: h.listSessions},
		server.ServerTool{Tool: toolGetSession, Handler: h.getSession},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
		server.ServerResource{Resource: resTrainingSummary, Handler: h.trainingSummary},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	db            *storage.DB
	engine        *stats.Engine
	defaultUserID uuid.UUID
	log           *slog.Logger
}

func (h *handlers) userID(ctx context.Context) uuid.UUID {
	return UserIDFromContext(ctx, h.defaultUserID)
}

// --- Resource definitions ---

var resRecentSessions = mcp.NewResource(
	"liftlog://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("Workout sessions from the last 14 days"),
	mcp.WithMIMEType("application/json"),
)

var resTrainingSummary = mcp.NewResource(
	"liftlog://training_summary",
	"Training Summary",
	mcp.WithResourceDescription("Current week and month totals (sessions, volume, minutes) plus the consecutive-day streak"),
	mcp.WithMIMEType("application/json"),
)
