package storage

import (
	"context"
	"fmt"
	"math"
	"time"
)

// UserStats holds the aggregate figures shown on the home screen.
type UserStats struct {
	TotalWorkouts        int `json:"totalWorkouts"`
	TotalDurationMinutes int `json:"totalDurationMinutes"`
	WorkoutsThisWeek     int `json:"workoutsThisWeek"`
}

// ProgressionPoint is the max weight lifted for an exercise on one day.
type ProgressionPoint struct {
	Date      string  `json:"date"`
	MaxWeight float64 `json:"max_weight"`
}

// GetUserStats returns log count, total duration in whole minutes, and the
// count of logs created since the current week start. The week boundary is
// pinned to ISO Monday 00:00 UTC via date_trunc, independent of the
// database's locale settings.
func (db *DB) GetUserStats(ctx context.Context, userID int) (*UserStats, error) {
	stats := &UserStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM workout_logs WHERE user_id = $1`, userID,
	).Scan(&stats.TotalWorkouts)
	if err != nil {
		return nil, fmt.Errorf("counting workout logs: %w", err)
	}

	var totalSeconds *int64
	err = db.Pool.QueryRow(ctx,
		`SELECT SUM(total_duration_seconds) FROM workout_logs WHERE user_id = $1`, userID,
	).Scan(&totalSeconds)
	if err != nil {
		return nil, fmt.Errorf("summing durations: %w", err)
	}
	if totalSeconds != nil {
		stats.TotalDurationMinutes = wholeMinutes(*totalSeconds)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM workout_logs
		 WHERE user_id = $1
		   AND created_at >= date_trunc('week', (NOW() AT TIME ZONE 'UTC')) AT TIME ZONE 'UTC'`,
		userID,
	).Scan(&stats.WorkoutsThisWeek)
	if err != nil {
		return nil, fmt.Errorf("counting logs this week: %w", err)
	}

	return stats, nil
}

// wholeMinutes converts seconds to minutes, rounded to the nearest whole minute.
func wholeMinutes(seconds int64) int {
	return int(math.Round(float64(seconds) / 60.0))
}

// GetExerciseProgression returns the max weight per calendar day for a
// user and exercise, ascending by date, for charting strength trends.
func (db *DB) GetExerciseProgression(ctx context.Context, userID, exerciseID int) ([]ProgressionPoint, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT DATE(wl.created_at) AS day, MAX(e.weight_kg)
		 FROM workout_log_entries e
		 JOIN workout_logs wl ON e.workout_log_id = wl.id
		 WHERE wl.user_id = $1 AND e.exercise_id = $2
		 GROUP BY DATE(wl.created_at)
		 ORDER BY day ASC`, userID, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("querying exercise progression: %w", err)
	}
	defer rows.Close()

	var result []ProgressionPoint
	for rows.Next() {
		var day time.Time
		var p ProgressionPoint
		if err := rows.Scan(&day, &p.MaxWeight); err != nil {
			return nil, fmt.Errorf("scanning progression point: %w", err)
		}
		p.Date = day.Format("2006-01-02")
		result = append(result, p)
	}
	return result, rows.Err()
}
