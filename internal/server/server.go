package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/claude/setlog/internal/auth"
	"github.com/claude/setlog/internal/models"
	"github.com/claude/setlog/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Store abstracts the data layer for HTTP handlers. *storage.DB satisfies
// it; tests substitute a recording fake.
type Store interface {
	CreateUser(ctx context.Context, email, passwordHash, name string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	UpdateUserName(ctx context.Context, id int, name string) (*models.User, error)

	ListCategories(ctx context.Context) ([]models.Category, error)
	ListWorkouts(ctx context.Context, categoryID *int) ([]models.Workout, error)
	GetWorkout(ctx context.Context, id int) (*models.Workout, error)
	ListWorkoutExercises(ctx context.Context, workoutID int) ([]models.WorkoutExercise, error)

	CreateWorkoutLog(ctx context.Context, sub models.LogSubmission) (int, error)
	ListWorkoutLogs(ctx context.Context, userID int) ([]models.WorkoutLogDetail, error)
	GetUserStats(ctx context.Context, userID int) (*storage.UserStats, error)
	GetExerciseProgression(ctx context.Context, userID, exerciseID int) ([]storage.ProgressionPoint, error)
}

// Compile-time check: *storage.DB satisfies Store.
var _ Store = (*storage.DB)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store  Store
	tokens *auth.Tokens
	log    *slog.Logger
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(store Store, tokens *auth.Tokens, log *slog.Logger) *Server {
	s := &Server{
		store:  store,
		tokens: tokens,
		log:    log,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Auth
	s.router.Post("/api/auth/register", s.handleRegister)
	s.router.Post("/api/auth/login", s.handleLogin)
	s.router.Group(func(r chi.Router) {
		r.Use(RequireAuth(s.tokens, s.store))
		r.Get("/api/auth/verify", s.handleVerify)
		r.Get("/api/auth/me", s.handleMe)
		r.Put("/api/auth/profile", s.handleUpdateProfile)
	})

	// Catalog (public)
	s.router.Get("/api/workout-categories", s.handleListCategories)
	s.router.Get("/api/workouts", s.handleListWorkouts)
	s.router.Get("/api/workouts/{id}", s.handleGetWorkout)
	s.router.Get("/api/workouts/{id}/exercises", s.handleListWorkoutExercises)

	// Log submission: token optional, guest logging is allowed.
	s.router.With(OptionalAuth(s.tokens, s.store)).Post("/api/workout-logs", s.handleCreateLog)

	// History and stats (authenticated)
	s.router.Group(func(r chi.Router) {
		r.Use(RequireAuth(s.tokens, s.store))
		r.Get("/api/workout-logs", s.handleListLogs)
		r.Get("/api/user/stats", s.handleUserStats)
		r.Get("/api/stats/exercise/{id}", s.handleExerciseProgression)
	})
}
