package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

const defaultWeeks = 8

// parseFlexTime accepts RFC3339 or date-only values.
func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// defaultTimeRange returns start/end defaulting to the last 30 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -30)
	}

	return start, end, nil
}

// --- Tool definitions ---

var toolGetTrainingSummary = mcp.NewTool("get_training_summary",
	mcp.WithDescription("Current training summary: sessions, total volume (reps × weight) and minutes for the rolling week and month, plus the consecutive-day streak."),
)

var toolGetWeeklySeries = mcp.NewTool("get_weekly_series",
	mcp.WithDescription("Week-bucketed series of training volume, session counts and minutes. Weeks start on Sunday; weeks with no sessions are omitted."),
	mcp.WithNumber("weeks", mcp.Description("Window size in weeks counted back from now. Defaults to 8.")),
)

var toolGetActivityHeatmap = mcp.NewTool("get_activity_heatmap",
	mcp.WithDescription("Per-day session counts and volume over a window, for calendar-heatmap style views."),
	mcp.WithNumber("weeks", mcp.Description("Window size in weeks. Defaults to 8.")),
)

var toolGetVolumeByCategory = mcp.NewTool("get_volume_by_category",
	mcp.WithDescription("Training volume grouped by category (e.g. Push/Pull/Legs), largest first."),
	mcp.WithNumber("weeks", mcp.Description("Window size in weeks. Defaults to 8.")),
)

var toolGetTopExercises = mcp.NewTool("get_top_exercises",
	mcp.WithDescription("Exercises ranked by total volume, with the number of distinct sessions each appeared in."),
	mcp.WithNumber("weeks", mcp.Description("Window size in weeks. Defaults to 8.")),
	mcp.WithNumber("limit", mcp.Description("Maximum entries to return. Defaults to 10.")),
)

var toolGetExerciseProgress = mcp.NewTool("get_exercise_progress",
	mcp.WithDescription("Per-session max weight and volume for one exercise over time, plus all-time max weight and best session volume."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (e.g. 'Bench Press'). Matched against the visible exercise catalog.")),
	mcp.WithNumber("weeks", mcp.Description("Window size in weeks for the progress points. Defaults to 8.")),
)

var toolListSessions = mcp.NewTool("list_sessions",
	mcp.WithDescription("List workout sessions, most recent first."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

var toolGetSession = mcp.NewTool("get_session",
	mcp.WithDescription("Full detail for one session: every exercise entry with its sets."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Session UUID")),
)

// --- Tool handlers ---

func (h *handlers) getTrainingSummary(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := h.engine.Summary(ctx, h.userID(ctx))
	if err != nil {
		h.log.Error("mcp get_training_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(summary)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWeeklySeries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weeks := req.GetInt("weeks", defaultWeeks)

	series, err := h.engine.WeeklySeries(ctx, h.userID(ctx), weeks)
	if err != nil {
		h.log.Error("mcp get_weekly_series", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(series)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getActivityHeatmap(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weeks := req.GetInt("weeks", defaultWeeks)

	days, err := h.engine.ActivityHeatmap(ctx, h.userID(ctx), weeks)
	if err != nil {
		h.log.Error("mcp get_activity_heatmap", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(days)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getVolumeByCategory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weeks := req.GetInt("weeks", defaultWeeks)

	volumes, err := h.engine.VolumeByCategory(ctx, h.userID(ctx), weeks)
	if err != nil {
		h.log.Error("mcp get_volume_by_category", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(volumes)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTopExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weeks := req.GetInt("weeks", defaultWeeks)
	limit := req.GetInt("limit", 0)

	top, err := h.engine.TopExercises(ctx, h.userID(ctx), weeks, limit)
	if err != nil {
		h.log.Error("mcp get_top_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(top)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExerciseProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	weeks := req.GetInt("weeks", defaultWeeks)
	uid := h.userID(ctx)

	exercise, err := h.db.FindExerciseByName(ctx, uid, name)
	if err != nil {
		h.log.Error("mcp get_exercise_progress lookup", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if exercise == nil {
		// Fall back to a fuzzy search so "bench" still resolves.
		matches, err := h.db.ListExercises(ctx, uid, name)
		if err != nil || len(matches) == 0 {
			return mcp.NewToolResultError("no exercise matching " + name), nil
		}
		exercise = &matches[0]
	}

	points, err := h.engine.ExerciseProgress(ctx, uid, exercise.ID, weeks)
	if err != nil {
		h.log.Error("mcp get_exercise_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	allTime, err := h.engine.ExerciseStats(ctx, uid, exercise.ID)
	if err != nil {
		h.log.Error("mcp get_exercise_progress stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"exercise": exercise.Name,
		"points":   points,
		"all_time": allTime,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	sessions, err := h.db.ListSessionsByDateRange(ctx, h.userID(ctx), start, end)
	if err != nil {
		h.log.Error("mcp list_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sessions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid session id"), nil
	}

	detail, err := h.sessionDetail(ctx, id)
	if err != nil {
		h.log.Error("mcp get_session", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if detail == nil {
		return mcp.NewToolResultError("session not found"), nil
	}

	result, err := mcp.NewToolResultJSON(detail)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// sessionDetail expands a session into its entries and sets with resolved
// exercise names. Returns (nil, nil) when the session is absent.
func (h *handlers) sessionDetail(ctx context.Context, id uuid.UUID) (map[string]any, error) {
	session, err := h.db.GetSession(ctx, id)
	if err != nil || session == nil {
		return nil, err
	}

	entries, err := h.db.ListWorkoutExercises(ctx, id)
	if err != nil {
		return nil, err
	}

	exercises := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		sets, err := h.db.ListSets(ctx, entry.ID)
		if err != nil {
			return nil, err
		}
		name := entry.ExerciseID.String()
		if ex, err := h.db.GetExercise(ctx, entry.ExerciseID); err == nil && ex != nil {
			name = ex.Name
		}
		exercises = append(exercises, map[string]any{
			"entry":         entry,
			"exercise_name": name,
			"sets":          sets,
		})
	}

	return map[string]any{
		"session":   session,
		"exercises": exercises,
	}, nil
}
