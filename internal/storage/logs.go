package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/claude/setlog/internal/models"
)

// CreateWorkoutLog persists a finished session as one transaction: the log
// row plus one entry row per (exercise, set). On any failure the whole
// submission rolls back and no rows are visible. Returns the new log id.
func (db *DB) CreateWorkoutLog(ctx context.Context, sub models.LogSubmission) (int, error) {
	duration := sub.DurationSeconds
	if duration < 0 {
		duration = 0
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var logID int
	err = tx.QueryRow(ctx,
		`INSERT INTO workout_logs (user_id, workout_id, start_time, end_time, total_duration_seconds, status)
		 VALUES ($1, $2, NOW() - make_interval(secs => $3), NOW(), $3, 'completed')
		 RETURNING id`,
		sub.UserID, sub.WorkoutID, duration,
	).Scan(&logID)
	if err != nil {
		return 0, fmt.Errorf("inserting workout log: %w", err)
	}

	entries := flattenEntries(logID, sub.Exercises)
	if len(entries) > 0 {
		query := `INSERT INTO workout_log_entries (workout_log_id, exercise_id, set_number, reps, weight_kg) VALUES `
		args := make([]any, 0, len(entries)*5)
		valueStrings := make([]string, 0, len(entries))

		for i, e := range entries {
			base := i * 5
			valueStrings = append(valueStrings, fmt.Sprintf(
				"($%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5,
			))
			args = append(args, e.WorkoutLogID, e.ExerciseID, e.SetNumber, e.Reps, e.WeightKg)
		}

		query += strings.Join(valueStrings, ",")

		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("inserting workout log entries: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing workout log: %w", err)
	}
	return logID, nil
}

// flattenEntries turns the nested submission into entry rows. Exercises
// without a usable sets array contribute nothing.
func flattenEntries(logID int, exercises []models.ExerciseSubmission) []models.WorkoutLogEntryRow {
	var rows []models.WorkoutLogEntryRow
	for _, ex := range exercises {
		if ex.Sets == nil {
			continue
		}
		for _, s := range ex.Sets {
			rows = append(rows, models.WorkoutLogEntryRow{
				WorkoutLogID: logID,
				ExerciseID:   ex.ExerciseID,
				SetNumber:    s.SetNumber,
				Reps:         s.Reps,
				WeightKg:     s.Weight,
			})
		}
	}
	return rows
}

// ListWorkoutLogs returns a user's logs newest first, annotated with the
// workout's title and image.
func (db *DB) ListWorkoutLogs(ctx context.Context, userID int) ([]models.WorkoutLogDetail, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT wl.id, wl.user_id, wl.workout_id, wl.start_time, wl.end_time,
		        wl.total_duration_seconds, wl.status, wl.created_at,
		        w.title, w.image_url
		 FROM workout_logs wl
		 JOIN workouts w ON wl.workout_id = w.id
		 WHERE wl.user_id = $1
		 ORDER BY wl.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying workout logs: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutLogDetail
	for rows.Next() {
		var d models.WorkoutLogDetail
		if err := rows.Scan(&d.ID, &d.UserID, &d.WorkoutID, &d.StartTime, &d.EndTime,
			&d.TotalDurationSeconds, &d.Status, &d.CreatedAt,
			&d.WorkoutTitle, &d.WorkoutImageURL); err != nil {
			return nil, fmt.Errorf("scanning workout log: %w", err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}
