package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/meetprep/internal/models"
	"github.com/claude/meetprep/internal/prep"
	"github.com/claude/meetprep/internal/storage"
)

func (h *handlers) today(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	now := h.now()
	date := now.Format(models.DateLayout)
	sched := prep.ComputeSchedule(h.deps.Competition.Date, now)

	weights, err := h.deps.Store.Weights(ctx)
	if err != nil {
		return nil, err
	}
	var latest *models.BodyweightRecord
	if trend, _ := storage.BodyweightTrend(weights, 0); len(trend) > 0 {
		last := trend[len(trend)-1]
		latest = &models.BodyweightRecord{Date: last.Date, Weight: last.Value}
	}

	entries, err := h.deps.Store.Training(ctx, storage.TrainingQuery{Order: storage.OrderAsc})
	if err != nil {
		h.log.Warn("today: training query failed", "error", err)
	}
	logged := []models.TrainingLogEntry{}
	for _, e := range entries {
		if e.Date == date {
			logged = append(logged, e)
		}
	}

	summary := map[string]any{
		"date":              date,
		"schedule":          sched,
		"block":             prep.BlockForWeek(sched.CurrentWeek),
		"macros":            prep.MacroAdvice(true),
		"latest_bodyweight": latest,
		"training_today":    logged,
	}

	data, err := json.Marshal(summary)
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
