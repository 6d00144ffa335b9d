package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Setlog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Setlog workout tracking server. Query the workout catalog, logged sessions, aggregate stats, and per-exercise weight progression. All log data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetUserStats, Handler: h.getUserStats},
		server.ServerTool{Tool: toolGetRecentLogs, Handler: h.getRecentLogs},
		server.ServerTool{Tool: toolGetExerciseProgression, Handler: h.getExerciseProgression},
		server.ServerTool{Tool: toolListWorkouts, Handler: h.listWorkouts},
		server.ServerTool{Tool: toolGetWorkoutExercises, Handler: h.getWorkoutExercises},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentLogs, Handler: h.recentLogs},
		server.ServerResource{Resource: resWorkoutCatalog, Handler: h.workoutCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resRecentLogs = mcp.NewResource(
	"setlog://recent_logs",
	"Recent Workout Logs",
	mcp.WithResourceDescription("The user's logged workout sessions, newest first"),
	mcp.WithMIMEType("application/json"),
)

var resWorkoutCatalog = mcp.NewResource(
	"setlog://workout_catalog",
	"Workout Catalog",
	mcp.WithResourceDescription("All workout categories and the workouts within them"),
	mcp.WithMIMEType("application/json"),
)
