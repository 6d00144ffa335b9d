package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/setlog/internal/models"
	"github.com/claude/setlog/internal/storage"
)

// HTTPClient implements DataSource by calling the Setlog REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but data
// lives on the remote server. The bearer token pins the user, so the
// userID arguments are ignored here.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Compile-time check: *HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL,
// authenticating with the given bearer token.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) GetUserStats(ctx context.Context, userID int) (*storage.UserStats, error) {
	var stats storage.UserStats
	if err := c.get(ctx, "/api/user/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *HTTPClient) GetExerciseProgression(ctx context.Context, userID, exerciseID int) ([]storage.ProgressionPoint, error) {
	var points []storage.ProgressionPoint
	if err := c.get(ctx, "/api/stats/exercise/"+strconv.Itoa(exerciseID), nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}

func (c *HTTPClient) ListWorkoutLogs(ctx context.Context, userID int) ([]models.WorkoutLogDetail, error) {
	var logs []models.WorkoutLogDetail
	if err := c.get(ctx, "/api/workout-logs", nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (c *HTTPClient) ListWorkouts(ctx context.Context, categoryID *int) ([]models.Workout, error) {
	params := url.Values{}
	if categoryID != nil {
		params.Set("category_id", strconv.Itoa(*categoryID))
	}

	var workouts []models.Workout
	if err := c.get(ctx, "/api/workouts", params, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

func (c *HTTPClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.get(ctx, "/api/workout-categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *HTTPClient) ListWorkoutExercises(ctx context.Context, workoutID int) ([]models.WorkoutExercise, error) {
	var exercises []models.WorkoutExercise
	if err := c.get(ctx, "/api/workouts/"+strconv.Itoa(workoutID)+"/exercises", nil, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}
