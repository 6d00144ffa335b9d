package storage

import (
	"testing"

	"github.com/claude/setlog/internal/models"
)

// TestFlattenEntries verifies that the nested submission flattens to one row
// per (exercise, set) and that exercises without a sets array are skipped.
func TestFlattenEntries(t *testing.T) {
	tests := []struct {
		name      string
		exercises []models.ExerciseSubmission
		wantRows  int
	}{
		{
			name: "two exercises three sets",
			exercises: []models.ExerciseSubmission{
				{ExerciseID: 1, Sets: []models.SetSubmission{
					{SetNumber: 1, Reps: 10, Weight: 20},
					{SetNumber: 2, Reps: 8, Weight: 25},
				}},
				{ExerciseID: 2, Sets: []models.SetSubmission{
					{SetNumber: 1, Reps: 12, Weight: 0},
				}},
			},
			wantRows: 3,
		},
		{
			name: "exercise without sets is skipped",
			exercises: []models.ExerciseSubmission{
				{ExerciseID: 1, Sets: nil},
				{ExerciseID: 2, Sets: []models.SetSubmission{{SetNumber: 1, Reps: 5, Weight: 40}}},
			},
			wantRows: 1,
		},
		{
			name:      "no exercises",
			exercises: nil,
			wantRows:  0,
		},
		{
			name: "empty sets array contributes nothing",
			exercises: []models.ExerciseSubmission{
				{ExerciseID: 1, Sets: []models.SetSubmission{}},
			},
			wantRows: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := flattenEntries(42, tt.exercises)
			if len(rows) != tt.wantRows {
				t.Fatalf("flattenEntries produced %d rows, want %d", len(rows), tt.wantRows)
			}
			for _, r := range rows {
				if r.WorkoutLogID != 42 {
					t.Errorf("row log id = %d, want 42", r.WorkoutLogID)
				}
			}
		})
	}
}

// TestFlattenEntriesPreservesValues checks set fields survive flattening intact.
func TestFlattenEntriesPreservesValues(t *testing.T) {
	rows := flattenEntries(7, []models.ExerciseSubmission{
		{ExerciseID: 3, Sets: []models.SetSubmission{{SetNumber: 2, Reps: 8, Weight: 62.5}}},
	})
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	r := rows[0]
	if r.ExerciseID != 3 || r.SetNumber != 2 || r.Reps != 8 || r.WeightKg != 62.5 {
		t.Errorf("row = %+v, want exercise 3 set 2 reps 8 weight 62.5", r)
	}
}
