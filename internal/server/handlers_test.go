package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/claude/setlog/internal/auth"
	"github.com/claude/setlog/internal/models"
	"github.com/claude/setlog/internal/storage"
)

// fakeStore records calls and serves canned data. Unconfigured lookups
// return ErrNotFound; failAll forces every method to error.
type fakeStore struct {
	failAll bool

	users     map[int]*models.User
	byEmail   map[string]*models.User
	created   []models.LogSubmission
	nextLogID int

	stats       *storage.UserStats
	progression []storage.ProgressionPoint
	logs        []models.WorkoutLogDetail
	workout     *models.Workout
	exercises   []models.WorkoutExercise
}

var errForced = errors.New("forced failure")

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     map[int]*models.User{},
		byEmail:   map[string]*models.User{},
		nextLogID: 100,
	}
}

func (f *fakeStore) addUser(u *models.User) {
	f.users[u.ID] = u
	f.byEmail[u.Email] = u
}

func (f *fakeStore) CreateUser(_ context.Context, email, hash, name string) (*models.User, error) {
	if f.failAll {
		return nil, errForced
	}
	u := &models.User{ID: len(f.users) + 1, Email: email, Name: name, PasswordHash: hash, CreatedAt: time.Now()}
	f.addUser(u)
	return u, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if f.failAll {
		return nil, errForced
	}
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) GetUserByID(_ context.Context, id int) (*models.User, error) {
	if f.failAll {
		return nil, errForced
	}
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) UpdateUserName(_ context.Context, id int, name string) (*models.User, error) {
	if f.failAll {
		return nil, errForced
	}
	u, ok := f.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	u.Name = name
	return u, nil
}

func (f *fakeStore) ListCategories(context.Context) ([]models.Category, error) {
	if f.failAll {
		return nil, errForced
	}
	return nil, nil
}

func (f *fakeStore) ListWorkouts(context.Context, *int) ([]models.Workout, error) {
	if f.failAll {
		return nil, errForced
	}
	if f.workout != nil {
		return []models.Workout{*f.workout}, nil
	}
	return nil, nil
}

func (f *fakeStore) GetWorkout(_ context.Context, id int) (*models.Workout, error) {
	if f.failAll {
		return nil, errForced
	}
	if f.workout != nil && f.workout.ID == id {
		return f.workout, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) ListWorkoutExercises(context.Context, int) ([]models.WorkoutExercise, error) {
	if f.failAll {
		return nil, errForced
	}
	return f.exercises, nil
}

func (f *fakeStore) CreateWorkoutLog(_ context.Context, sub models.LogSubmission) (int, error) {
	if f.failAll {
		return 0, errForced
	}
	f.created = append(f.created, sub)
	return f.nextLogID, nil
}

func (f *fakeStore) ListWorkoutLogs(context.Context, int) ([]models.WorkoutLogDetail, error) {
	if f.failAll {
		return nil, errForced
	}
	return f.logs, nil
}

func (f *fakeStore) GetUserStats(context.Context, int) (*storage.UserStats, error) {
	if f.failAll {
		return nil, errForced
	}
	return f.stats, nil
}

func (f *fakeStore) GetExerciseProgression(context.Context, int, int) ([]storage.ProgressionPoint, error) {
	if f.failAll {
		return nil, errForced
	}
	return f.progression, nil
}

func newTestServer(store Store) (*Server, *auth.Tokens) {
	tokens := auth.NewTokens("test-secret")
	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return New(store, tokens, log), tokens
}

func doJSON(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

// TestCreateLogMissingWorkoutID: a submission without workout_id is rejected
// with 400 and no rows are written.
func TestCreateLogMissingWorkoutID(t *testing.T) {
	store := newFakeStore()
	s, _ := newTestServer(store)

	rec := doJSON(t, s, http.MethodPost, "/api/workout-logs", "", map[string]any{
		"duration_seconds": 120,
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(store.created) != 0 {
		t.Errorf("store received %d submissions, want 0", len(store.created))
	}
}

// TestCreateLogGuest: guest submissions are accepted and return the new id.
func TestCreateLogGuest(t *testing.T) {
	store := newFakeStore()
	s, _ := newTestServer(store)

	rec := doJSON(t, s, http.MethodPost, "/api/workout-logs", "", map[string]any{
		"workout_id":       7,
		"duration_seconds": 3600,
		"exercises": []map[string]any{
			{"exercise_id": 1, "sets": []map[string]any{
				{"set_number": 1, "reps": 10, "weight": 20},
				{"set_number": 2, "reps": 8, "weight": 25},
			}},
		},
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}

	var resp struct {
		ID int `json:"id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.ID != 100 {
		t.Errorf("id = %d, want 100", resp.ID)
	}

	if len(store.created) != 1 {
		t.Fatalf("store received %d submissions, want 1", len(store.created))
	}
	sub := store.created[0]
	if sub.WorkoutID != 7 || sub.DurationSeconds != 3600 {
		t.Errorf("submission = %+v, want workout 7 duration 3600", sub)
	}
	if sub.UserID != nil {
		t.Errorf("guest submission carried user_id %v", *sub.UserID)
	}
	if len(sub.Exercises) != 1 || len(sub.Exercises[0].Sets) != 2 {
		t.Errorf("submission exercises = %+v, want 1 exercise with 2 sets", sub.Exercises)
	}
}

// TestCreateLogAuthenticatedOverridesUserID: a valid token pins the log to
// the authenticated user no matter what the body claims.
func TestCreateLogAuthenticatedOverridesUserID(t *testing.T) {
	store := newFakeStore()
	store.addUser(&models.User{ID: 9, Email: "nine@example.com"})
	s, tokens := newTestServer(store)

	token, err := tokens.Issue(9, "nine@example.com")
	if err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, s, http.MethodPost, "/api/workout-logs", token, map[string]any{
		"workout_id": 7,
		"user_id":    123,
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}
	sub := store.created[0]
	if sub.UserID == nil || *sub.UserID != 9 {
		t.Errorf("user_id = %v, want 9 (token identity wins)", sub.UserID)
	}
}

// TestCreateLogMalformedSets: exercises with a non-array sets field are
// skipped, not rejected, and a non-numeric duration coerces to zero.
func TestCreateLogMalformedSets(t *testing.T) {
	store := newFakeStore()
	s, _ := newTestServer(store)

	body := `{"workout_id": 3, "duration_seconds": "soon", "exercises": [
		{"exercise_id": 1, "sets": "oops"},
		{"exercise_id": 2, "sets": [{"set_number": 1, "reps": 5, "weight": 50}]}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/api/workout-logs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}
	sub := store.created[0]
	if sub.DurationSeconds != 0 {
		t.Errorf("duration = %d, want 0 for non-numeric input", sub.DurationSeconds)
	}
	if sub.Exercises[0].Sets != nil {
		t.Errorf("malformed sets should decode to nil, got %+v", sub.Exercises[0].Sets)
	}
	if len(sub.Exercises[1].Sets) != 1 {
		t.Errorf("well-formed sibling sets lost: %+v", sub.Exercises[1].Sets)
	}
}

// TestCreateLogPersistenceFailure: storage errors surface as a generic 500.
func TestCreateLogPersistenceFailure(t *testing.T) {
	store := newFakeStore()
	store.failAll = true
	s, _ := newTestServer(store)

	rec := doJSON(t, s, http.MethodPost, "/api/workout-logs", "", map[string]any{"workout_id": 1})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "forced failure") {
		t.Error("internal error detail leaked to the caller")
	}
}

// TestUserStats returns the three aggregate figures for the token's user.
func TestUserStats(t *testing.T) {
	store := newFakeStore()
	store.addUser(&models.User{ID: 1, Email: "a@b.c"})
	store.stats = &storage.UserStats{TotalWorkouts: 4, TotalDurationMinutes: 75, WorkoutsThisWeek: 2}
	s, tokens := newTestServer(store)

	token, _ := tokens.Issue(1, "a@b.c")
	rec := doJSON(t, s, http.MethodGet, "/api/user/stats", token, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var stats storage.UserStats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalWorkouts != 4 || stats.TotalDurationMinutes != 75 || stats.WorkoutsThisWeek != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

// TestStatsRequiresAuth: history and stats endpoints reject guests.
func TestStatsRequiresAuth(t *testing.T) {
	s, _ := newTestServer(newFakeStore())

	for _, path := range []string{"/api/user/stats", "/api/workout-logs", "/api/stats/exercise/3"} {
		rec := doJSON(t, s, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s status = %d, want 401", path, rec.Code)
		}
	}
}

// TestExerciseProgression returns per-day max weights in date order.
func TestExerciseProgression(t *testing.T) {
	store := newFakeStore()
	store.addUser(&models.User{ID: 1, Email: "a@b.c"})
	store.progression = []storage.ProgressionPoint{
		{Date: "2026-08-01", MaxWeight: 60},
		{Date: "2026-08-08", MaxWeight: 65},
	}
	s, tokens := newTestServer(store)

	token, _ := tokens.Issue(1, "a@b.c")
	rec := doJSON(t, s, http.MethodGet, "/api/stats/exercise/3", token, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var points []storage.ProgressionPoint
	if err := json.NewDecoder(rec.Body).Decode(&points); err != nil {
		t.Fatal(err)
	}
	if len(points) != 2 || points[0].MaxWeight != 60 || points[1].Date != "2026-08-08" {
		t.Errorf("points = %+v", points)
	}
}

// TestGetWorkoutNotFound maps ErrNotFound to 404.
func TestGetWorkoutNotFound(t *testing.T) {
	s, _ := newTestServer(newFakeStore())

	rec := doJSON(t, s, http.MethodGet, "/api/workouts/99", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

// TestRegisterLoginFlow: register issues a usable token; login with the
// same credentials succeeds; a wrong password is rejected with the same
// generic message as an unknown email.
func TestRegisterLoginFlow(t *testing.T) {
	store := newFakeStore()
	s, _ := newTestServer(store)

	rec := doJSON(t, s, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "New@Example.com", "password": "secret1", "name": "New User",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", rec.Code, rec.Body)
	}
	var reg authResponse
	if err := json.NewDecoder(rec.Body).Decode(&reg); err != nil {
		t.Fatal(err)
	}
	if reg.Token == "" {
		t.Fatal("register returned no token")
	}
	if reg.User.Email != "new@example.com" {
		t.Errorf("email = %q, want lowercased", reg.User.Email)
	}

	// Token works against a protected endpoint.
	me := doJSON(t, s, http.MethodGet, "/api/auth/me", reg.Token, nil)
	if me.Code != http.StatusOK {
		t.Errorf("me with fresh token status = %d, want 200", me.Code)
	}

	login := doJSON(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "new@example.com", "password": "secret1",
	})
	if login.Code != http.StatusOK {
		t.Errorf("login status = %d: %s", login.Code, login.Body)
	}

	bad := doJSON(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "new@example.com", "password": "wrong",
	})
	if bad.Code != http.StatusBadRequest {
		t.Errorf("bad login status = %d, want 400", bad.Code)
	}
}

// TestRegisterValidation rejects short passwords and duplicate emails.
func TestRegisterValidation(t *testing.T) {
	store := newFakeStore()
	store.addUser(&models.User{ID: 1, Email: "taken@example.com"})
	s, _ := newTestServer(store)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"short password", map[string]string{"email": "a@b.c", "password": "12345", "name": "A"}},
		{"missing name", map[string]string{"email": "a@b.c", "password": "123456"}},
		{"bad email", map[string]string{"email": "nope", "password": "123456", "name": "A"}},
		{"duplicate email", map[string]string{"email": "taken@example.com", "password": "123456", "name": "A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/api/auth/register", "", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body)
			}
		})
	}
}
