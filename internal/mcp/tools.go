package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGetUserStats = mcp.NewTool("get_user_stats",
	mcp.WithDescription("Aggregate workout stats for the user: total completed workouts, total minutes trained, and workouts completed this week (weeks start Monday, UTC)."),
)

var toolGetRecentLogs = mcp.NewTool("get_recent_logs",
	mcp.WithDescription("The user's logged workout sessions, newest first. Each entry includes the workout title, start/end times, and duration."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of logs to return. Defaults to 20.")),
)

var toolGetExerciseProgression = mcp.NewTool("get_exercise_progression",
	mcp.WithDescription("Per-day maximum weight lifted for one exercise across the user's logs, oldest first. Useful for strength progression charts."),
	mcp.WithNumber("exercise_id", mcp.Required(), mcp.Description("Exercise ID from the catalog")),
)

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List catalog workouts, optionally filtered by category."),
	mcp.WithNumber("category_id", mcp.Description("Filter to one workout category")),
)

var toolGetWorkoutExercises = mcp.NewTool("get_workout_exercises",
	mcp.WithDescription("The exercises in a workout, in order, with default set and rep counts."),
	mcp.WithNumber("workout_id", mcp.Required(), mcp.Description("Workout ID from the catalog")),
)

// --- Tool handlers ---

func (h *handlers) getUserStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	stats, err := h.ds.GetUserStats(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_user_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRecentLogs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)
	limit := req.GetInt("limit", 20)
	if limit <= 0 {
		limit = 20
	}

	logs, err := h.ds.ListWorkoutLogs(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_recent_logs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if len(logs) > limit {
		logs = logs[:limit]
	}

	result, err := mcp.NewToolResultJSON(logs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExerciseProgression(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID, err := req.RequireInt("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}

	uid := UserIDFromContext(ctx)
	points, err := h.ds.GetExerciseProgression(ctx, uid, exerciseID)
	if err != nil {
		h.log.Error("mcp get_exercise_progression", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(points)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var categoryID *int
	if id := req.GetInt("category_id", 0); id > 0 {
		categoryID = &id
	}

	workouts, err := h.ds.ListWorkouts(ctx, categoryID)
	if err != nil {
		h.log.Error("mcp list_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workoutID, err := req.RequireInt("workout_id")
	if err != nil {
		return mcp.NewToolResultError("workout_id parameter is required"), nil
	}

	exercises, err := h.ds.ListWorkoutExercises(ctx, workoutID)
	if err != nil {
		h.log.Error("mcp get_workout_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(exercises)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
