package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) recentLogs(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	logs, err := h.ds.ListWorkoutLogs(ctx, uid)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(logs)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) workoutCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	categories, err := h.ds.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	catalog := make([]map[string]any, 0, len(categories))
	for _, cat := range categories {
		id := cat.ID
		workouts, err := h.ds.ListWorkouts(ctx, &id)
		if err != nil {
			h.log.Warn("workout_catalog: listing workouts failed", "category_id", cat.ID, "error", err)
			continue
		}
		catalog = append(catalog, map[string]any{
			"category": cat,
			"workouts": workouts,
		})
	}

	data, err := json.Marshal(catalog)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
