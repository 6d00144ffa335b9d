package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/claude/setlog/internal/models"
	"github.com/claude/setlog/internal/storage"
)

func TestHTTPClientUserStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/user/stats" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q, want Bearer tok", got)
		}
		json.NewEncoder(w).Encode(storage.UserStats{
			TotalWorkouts:        12,
			TotalDurationMinutes: 340,
			WorkoutsThisWeek:     3,
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "tok")
	stats, err := c.GetUserStats(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetUserStats: %v", err)
	}
	if stats.TotalWorkouts != 12 || stats.WorkoutsThisWeek != 3 {
		t.Errorf("stats = %+v, want 12 total / 3 this week", stats)
	}
}

func TestHTTPClientExerciseProgression(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/stats/exercise/7" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]storage.ProgressionPoint{
			{Date: "2026-08-01", MaxWeight: 80},
			{Date: "2026-08-08", MaxWeight: 82.5},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "tok")
	points, err := c.GetExerciseProgression(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("GetExerciseProgression: %v", err)
	}
	if len(points) != 2 || points[1].MaxWeight != 82.5 {
		t.Errorf("points = %+v, want two points ending at 82.5", points)
	}
}

func TestHTTPClientListWorkoutsCategoryFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("category_id"); got != "2" {
			t.Errorf("category_id = %q, want 2", got)
		}
		json.NewEncoder(w).Encode([]models.Workout{{ID: 4, CategoryID: 2, Title: "Push Day"}})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "tok")
	catID := 2
	workouts, err := c.ListWorkouts(context.Background(), &catID)
	if err != nil {
		t.Fatalf("ListWorkouts: %v", err)
	}
	if len(workouts) != 1 || workouts[0].Title != "Push Day" {
		t.Errorf("workouts = %+v, want one Push Day", workouts)
	}
}

func TestHTTPClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Access denied"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "bad")
	if _, err := c.GetUserStats(context.Background(), 1); err == nil {
		t.Fatal("expected error for 403 response")
	}
}
