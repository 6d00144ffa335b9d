package models

import "time"

// User is a registered account. PasswordHash is never serialized.
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Category groups workouts in the catalog.
type Category struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
}

// Workout is a catalog workout definition.
type Workout struct {
	ID              int     `json:"id"`
	CategoryID      int     `json:"category_id"`
	Title           string  `json:"title"`
	Description     *string `json:"description"`
	DurationMinutes *int    `json:"duration_minutes"`
	DifficultyLevel *string `json:"difficulty_level"`
	ImageURL        *string `json:"image_url"`
}

// Exercise is a catalog exercise definition.
type Exercise struct {
	ID                int     `json:"id"`
	Name              string  `json:"name"`
	Description       *string `json:"description"`
	TargetMuscleGroup *string `json:"target_muscle_group"`
	VideoURL          *string `json:"video_url"`
}

// WorkoutExercise is an exercise placed within a workout, joined with its
// catalog fields and per-workout defaults.
type WorkoutExercise struct {
	WorkoutExerciseID int     `json:"workout_exercise_id"`
	OrderIndex        int     `json:"order_index"`
	DefaultSets       int     `json:"default_sets"`
	DefaultReps       int     `json:"default_reps"`
	ExerciseID        int     `json:"exercise_id"`
	Name              string  `json:"name"`
	Description       *string `json:"description"`
	TargetMuscleGroup *string `json:"target_muscle_group"`
	VideoURL          *string `json:"video_url"`
}

// WorkoutLogRow is a persisted workout attempt.
type WorkoutLogRow struct {
	ID                   int       `json:"id"`
	UserID               *int      `json:"user_id"`
	WorkoutID            int       `json:"workout_id"`
	StartTime            time.Time `json:"start_time"`
	EndTime              time.Time `json:"end_time"`
	TotalDurationSeconds int       `json:"total_duration_seconds"`
	Status               string    `json:"status"`
	CreatedAt            time.Time `json:"created_at"`
}

// WorkoutLogDetail is a log row annotated with its workout's title and image,
// as returned by GET /api/workout-logs.
type WorkoutLogDetail struct {
	WorkoutLogRow
	WorkoutTitle    string  `json:"workout_title"`
	WorkoutImageURL *string `json:"workout_image_url"`
}

// WorkoutLogEntryRow is one completed set within a persisted log.
type WorkoutLogEntryRow struct {
	ID           int     `json:"id"`
	WorkoutLogID int     `json:"workout_log_id"`
	ExerciseID   int     `json:"exercise_id"`
	SetNumber    int     `json:"set_number"`
	Reps         int     `json:"reps"`
	WeightKg     float64 `json:"weight_kg"`
}
