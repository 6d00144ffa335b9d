package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/setlog/internal/models"
	"github.com/jackc/pgx/v5"
)

// ListCategories returns all workout categories, id ascending.
func (db *DB) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, description, image_url FROM workout_categories ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var result []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// ListWorkouts returns workouts ordered by title, optionally filtered by category.
func (db *DB) ListWorkouts(ctx context.Context, categoryID *int) ([]models.Workout, error) {
	query := `SELECT id, category_id, title, description, duration_minutes, difficulty_level, image_url
	          FROM workouts`
	var args []any
	if categoryID != nil {
		query += ` WHERE category_id = $1`
		args = append(args, *categoryID)
	}
	query += ` ORDER BY title ASC`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var result []models.Workout
	for rows.Next() {
		var w models.Workout
		if err := rows.Scan(&w.ID, &w.CategoryID, &w.Title, &w.Description,
			&w.DurationMinutes, &w.DifficultyLevel, &w.ImageURL); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

// GetWorkout returns a single workout. ErrNotFound when the id is unknown.
func (db *DB) GetWorkout(ctx context.Context, id int) (*models.Workout, error) {
	var w models.Workout
	err := db.Pool.QueryRow(ctx,
		`SELECT id, category_id, title, description, duration_minutes, difficulty_level, image_url
		 FROM workouts WHERE id = $1`, id,
	).Scan(&w.ID, &w.CategoryID, &w.Title, &w.Description,
		&w.DurationMinutes, &w.DifficultyLevel, &w.ImageURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying workout: %w", err)
	}
	return &w, nil
}

// ListWorkoutExercises returns a workout's exercises with their per-workout
// defaults, in order_index order.
func (db *DB) ListWorkoutExercises(ctx context.Context, workoutID int) ([]models.WorkoutExercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT we.id, we.order_index, we.default_sets, we.default_reps,
		        e.id, e.name, e.description, e.target_muscle_group, e.video_url
		 FROM workout_exercises we
		 JOIN exercises e ON we.exercise_id = e.id
		 WHERE we.workout_id = $1
		 ORDER BY we.order_index ASC`, workoutID)
	if err != nil {
		return nil, fmt.Errorf("querying workout exercises: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutExercise
	for rows.Next() {
		var we models.WorkoutExercise
		if err := rows.Scan(&we.WorkoutExerciseID, &we.OrderIndex, &we.DefaultSets, &we.DefaultReps,
			&we.ExerciseID, &we.Name, &we.Description, &we.TargetMuscleGroup, &we.VideoURL); err != nil {
			return nil, fmt.Errorf("scanning workout exercise: %w", err)
		}
		result = append(result, we)
	}
	return result, rows.Err()
}
