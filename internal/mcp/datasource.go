package mcp

import (
	"context"

	"github.com/claude/setlog/internal/models"
	"github.com/claude/setlog/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	GetUserStats(ctx context.Context, userID int) (*storage.UserStats, error)
	GetExerciseProgression(ctx context.Context, userID, exerciseID int) ([]storage.ProgressionPoint, error)
	ListWorkoutLogs(ctx context.Context, userID int) ([]models.WorkoutLogDetail, error)
	ListWorkouts(ctx context.Context, categoryID *int) ([]models.Workout, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListWorkoutExercises(ctx context.Context, workoutID int) ([]models.WorkoutExercise, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
