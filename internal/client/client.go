// Package client is the HTTP client used by the session CLI. It mirrors the
// server's response shapes with local types instead of importing the storage
// package, which would pull pgx and friends into the client binary.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claude/setlog/internal/models"
)

// Stats mirrors the server's user-stats response.
type Stats struct {
	TotalWorkouts        int `json:"totalWorkouts"`
	TotalDurationMinutes int `json:"totalDurationMinutes"`
	WorkoutsThisWeek     int `json:"workoutsThisWeek"`
}

// Client talks to a setlog server over HTTP.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client targeting the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken sets the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) { c.token = token }

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}

	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return fmt.Errorf("logging in: %w", err)
	}
	c.token = resp.Token
	return nil
}

// GetWorkout fetches one workout's metadata.
func (c *Client) GetWorkout(ctx context.Context, id int) (*models.Workout, error) {
	var w models.Workout
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/workouts/%d", id), nil, &w); err != nil {
		return nil, fmt.Errorf("fetching workout %d: %w", id, err)
	}
	return &w, nil
}

// GetWorkoutExercises fetches a workout's exercise list with defaults.
func (c *Client) GetWorkoutExercises(ctx context.Context, id int) ([]models.WorkoutExercise, error) {
	var exercises []models.WorkoutExercise
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/workouts/%d/exercises", id), nil, &exercises); err != nil {
		return nil, fmt.Errorf("fetching exercises for workout %d: %w", id, err)
	}
	return exercises, nil
}

// SubmitLog posts a finished session and returns the new log id.
func (c *Client) SubmitLog(ctx context.Context, sub models.LogSubmission) (int, error) {
	var resp struct {
		ID int `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/workout-logs", sub, &resp); err != nil {
		return 0, fmt.Errorf("submitting workout log: %w", err)
	}
	return resp.ID, nil
}

// UserStats fetches the authenticated user's aggregate stats.
func (c *Client) UserStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := c.do(ctx, http.MethodGet, "/api/user/stats", nil, &stats); err != nil {
		return nil, fmt.Errorf("fetching stats: %w", err)
	}
	return &stats, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
