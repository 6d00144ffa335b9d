package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/claude/setlog/internal/models"
	"github.com/claude/setlog/internal/storage"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		s.serverError(w, "listing categories", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(categories))
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	var categoryID *int
	if v := r.URL.Query().Get("category_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid category_id"})
			return
		}
		categoryID = &id
	}

	workouts, err := s.store.ListWorkouts(r.Context(), categoryID)
	if err != nil {
		s.serverError(w, "listing workouts", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(workouts))
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid workout id"})
		return
	}

	workout, err := s.store.GetWorkout(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Workout not found"})
		return
	}
	if err != nil {
		s.serverError(w, "fetching workout", err)
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

func (s *Server) handleListWorkoutExercises(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid workout id"})
		return
	}

	exercises, err := s.store.ListWorkoutExercises(r.Context(), id)
	if err != nil {
		s.serverError(w, "listing workout exercises", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(exercises))
}

// handleCreateLog persists a finished session. The whole submission commits
// or rolls back as one unit; a partially inserted log is never visible.
func (s *Server) handleCreateLog(w http.ResponseWriter, r *http.Request) {
	var sub models.LogSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON: " + err.Error()})
		return
	}

	if sub.WorkoutID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Workout ID is required"})
		return
	}

	// An authenticated caller logs as themselves regardless of what the
	// body claims; guests may carry a user_id or none at all.
	if user := UserFromContext(r.Context()); user != nil {
		sub.UserID = &user.ID
	}

	id, err := s.store.CreateWorkoutLog(r.Context(), sub)
	if err != nil {
		s.serverError(w, "creating workout log", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Workout logged successfully",
		"id":      id,
	})
}

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	logs, err := s.store.ListWorkoutLogs(r.Context(), user.ID)
	if err != nil {
		s.serverError(w, "listing workout logs", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(logs))
}

func (s *Server) handleUserStats(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	stats, err := s.store.GetUserStats(r.Context(), user.ID)
	if err != nil {
		s.serverError(w, "fetching user stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleExerciseProgression(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	exerciseID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid exercise id"})
		return
	}

	points, err := s.store.GetExerciseProgression(r.Context(), user.ID, exerciseID)
	if err != nil {
		s.serverError(w, "fetching exercise progression", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(points))
}

// serverError logs the failure and answers with a generic message so
// internal detail never reaches the caller.
func (s *Server) serverError(w http.ResponseWriter, what string, err error) {
	s.log.Error(what, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// emptyIfNil keeps list endpoints returning [] instead of null.
func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
