package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// SetSubmission is one completed set inside a log submission.
type SetSubmission struct {
	SetNumber int     `json:"set_number"`
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
}

// ExerciseSubmission is the per-exercise portion of a log submission.
// Sets is nil when the client sent no sets field or a malformed one;
// such entries are skipped during persistence rather than rejected.
type ExerciseSubmission struct {
	ExerciseID int             `json:"exercise_id"`
	Sets       []SetSubmission `json:"sets"`
}

// UnmarshalJSON tolerates a missing or non-array sets field by leaving
// Sets nil instead of failing the whole submission.
func (e *ExerciseSubmission) UnmarshalJSON(data []byte) error {
	var raw struct {
		ExerciseID int             `json:"exercise_id"`
		Sets       json.RawMessage `json:"sets"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.ExerciseID = raw.ExerciseID
	e.Sets = nil
	if len(raw.Sets) > 0 {
		var sets []SetSubmission
		if err := json.Unmarshal(raw.Sets, &sets); err == nil {
			e.Sets = sets
		}
	}
	return nil
}

// LogSubmission is the body of POST /api/workout-logs.
type LogSubmission struct {
	WorkoutID       int                  `json:"workout_id"`
	UserID          *int                 `json:"user_id,omitempty"`
	DurationSeconds int                  `json:"duration_seconds"`
	Exercises       []ExerciseSubmission `json:"exercises"`
}

// UnmarshalJSON applies the lenient duration rule: absent or non-numeric
// duration_seconds becomes 0. Everything else decodes normally.
func (s *LogSubmission) UnmarshalJSON(data []byte) error {
	var raw struct {
		WorkoutID       int                  `json:"workout_id"`
		UserID          *int                 `json:"user_id"`
		DurationSeconds json.RawMessage      `json:"duration_seconds"`
		Exercises       []ExerciseSubmission `json:"exercises"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.WorkoutID = raw.WorkoutID
	s.UserID = raw.UserID
	s.Exercises = raw.Exercises
	s.DurationSeconds = coerceSeconds(raw.DurationSeconds)
	return nil
}

func coerceSeconds(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
			return n
		}
	}
	return 0
}
