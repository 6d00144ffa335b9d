package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/claude/setlog/internal/auth"
	"github.com/claude/setlog/internal/models"
)

type contextKey int

const userKey contextKey = iota

// UserFromContext returns the authenticated user, or nil for guest requests.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

func withUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// RequireAuth validates the bearer token and loads the user, rejecting the
// request otherwise. Missing token: 401. Invalid or expired: 403. Token for
// a deleted user: 401.
func RequireAuth(tokens *auth.Tokens, store Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Access token required"})
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				writeJSON(w, http.StatusForbidden, map[string]string{"message": "Invalid or expired token"})
				return
			}

			user, err := store.GetUserByID(r.Context(), claims.UserID)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "User not found"})
				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

// OptionalAuth loads the user when a valid bearer token is present and
// passes the request through as a guest otherwise. Used by the log
// submission endpoint, where unauthenticated logging is permitted.
func OptionalAuth(tokens *auth.Tokens, store Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := store.GetUserByID(r.Context(), claims.UserID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

// RequestLogging returns middleware that logs each request.
func RequestLogging(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(start).String(),
			)
		})
	}
}

// CORS adds permissive CORS headers for the web and mobile clients.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusWriter wraps ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
