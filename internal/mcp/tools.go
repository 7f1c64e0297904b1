package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/meetprep/internal/models"
	"github.com/claude/meetprep/internal/prep"
	"github.com/claude/meetprep/internal/storage"
)

// competition applies optional competition/max overrides to the configured meet.
func (h *handlers) competition(req mcp.CallToolRequest) (models.Competition, error) {
	comp := h.deps.Competition
	if v := req.GetString("competition", ""); v != "" {
		d, err := time.Parse(models.DateLayout, v)
		if err != nil {
			return comp, fmt.Errorf("competition: want YYYY-MM-DD, got %q", v)
		}
		comp.Date = d
	}
	comp.SquatMax = req.GetFloat("squat", comp.SquatMax)
	comp.BenchMax = req.GetFloat("bench", comp.BenchMax)
	comp.DeadliftMax = req.GetFloat("deadlift", comp.DeadliftMax)
	if comp.SquatMax < 0 || comp.BenchMax < 0 || comp.DeadliftMax < 0 {
		return comp, fmt.Errorf("1RM values must not be negative")
	}
	return comp, nil
}

func (h *handlers) todayArg(req mcp.CallToolRequest) (time.Time, error) {
	v := req.GetString("today", "")
	if v == "" {
		return h.now(), nil
	}
	d, err := time.Parse(models.DateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("today: want YYYY-MM-DD, got %q", v)
	}
	return d, nil
}

func (h *handlers) dateArg(req mcp.CallToolRequest) string {
	if v := req.GetString("date", ""); v != "" {
		return v
	}
	return h.now().Format(models.DateLayout)
}

// --- Tool definitions ---

var (
	optCompetition = mcp.WithString("competition", mcp.Description("Competition date (YYYY-MM-DD). Defaults to the configured meet."))
	optToday       = mcp.WithString("today", mcp.Description("Date to evaluate as today (YYYY-MM-DD). Defaults to the server's date."))
)

var toolGetSchedule = mcp.NewTool("get_schedule",
	mcp.WithDescription("Where today sits in the 14-week prep: days remaining, weeks out, current week and phase (foundation, intensification, peaking, taper, or off-season)."),
	optCompetition,
	optToday,
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("The prescribed workout for a training day in the current block, with recommended loads resolved from the lifter's 1RMs (to one decimal)."),
	mcp.WithString("day", mcp.Description("Training day. Defaults to day1."), mcp.Enum("day1", "day2", "day3", "rest")),
	optCompetition,
	optToday,
	mcp.WithNumber("squat", mcp.Description("Squat 1RM in kg. Defaults to the configured max.")),
	mcp.WithNumber("bench", mcp.Description("Bench press 1RM in kg. Defaults to the configured max.")),
	mcp.WithNumber("deadlift", mcp.Description("Deadlift 1RM in kg. Defaults to the configured max.")),
)

var toolGetMacroTargets = mcp.NewTool("get_macro_targets",
	mcp.WithDescription("Daily calorie and macro targets for a training day or a rest day."),
	mcp.WithBoolean("training_day", mcp.Description("Whether today is a training day. Defaults to true.")),
)

var toolLogBodyweight = mcp.NewTool("log_bodyweight",
	mcp.WithDescription("Record the bodyweight for a date. An existing entry for the date is replaced."),
	mcp.WithNumber("weight", mcp.Required(), mcp.Description("Bodyweight in kg")),
	mcp.WithString("date", mcp.Description("Date (YYYY-MM-DD). Defaults to today.")),
)

var toolGetBodyweightLog = mcp.NewTool("get_bodyweight_log",
	mcp.WithDescription("All recorded bodyweight entries in date order, with the target weight if one is configured (0 means none)."),
)

var toolLogTraining = mcp.NewTool("log_training",
	mcp.WithDescription("Append one row to the training log. Rows are never merged."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name, e.g. 'Low Bar Squat'")),
	mcp.WithNumber("weight", mcp.Required(), mcp.Description("Load in kg")),
	mcp.WithNumber("sets", mcp.Required(), mcp.Description("Number of sets")),
	mcp.WithNumber("reps", mcp.Required(), mcp.Description("Reps per set")),
	mcp.WithNumber("rpe", mcp.Required(), mcp.Description("Rate of perceived exertion, 0-10")),
	mcp.WithString("date", mcp.Description("Date (YYYY-MM-DD). Defaults to today.")),
	mcp.WithString("note", mcp.Description("Free-text note")),
)

var toolGetTrainingLog = mcp.NewTool("get_training_log",
	mcp.WithDescription("Training log rows, newest first by default, optionally for one exercise."),
	mcp.WithString("exercise", mcp.Description("Exact exercise name to filter by")),
	mcp.WithString("order", mcp.Description("Date order. Defaults to desc."), mcp.Enum("asc", "desc")),
)

// --- Tool handlers ---

func (h *handlers) getSchedule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	comp, err := h.competition(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	today, err := h.todayArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(prep.ComputeSchedule(comp.Date, today))
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, err := models.ParseDay(req.GetString("day", string(models.DayOne)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	comp, err := h.competition(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	today, err := h.todayArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	plan, err := prep.Build(comp, today, day, h.deps.Tables.Load())
	if err != nil {
		h.log.Error("mcp get_workout", "error", err)
		return mcp.NewToolResultError("building workout failed: " + err.Error()), nil
	}
	return jsonResult(plan)
}

func (h *handlers) getMacroTargets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(prep.MacroAdvice(req.GetBool("training_day", true)))
}

func (h *handlers) logBodyweight(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weight, err := req.RequireFloat("weight")
	if err != nil {
		return mcp.NewToolResultError("weight parameter is required"), nil
	}
	rec := models.BodyweightRecord{Date: h.dateArg(req), Weight: weight}
	if err := h.deps.Bodyweight.Check(weight); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := h.deps.Store.SaveWeight(ctx, rec.Date, rec.Weight); err != nil {
		if storage.IsInputError(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		h.log.Error("mcp log_bodyweight", "error", err)
		return mcp.NewToolResultError("save failed: " + err.Error()), nil
	}
	h.log.Info("bodyweight saved", "date", rec.Date, "weight", rec.Weight, "via", "mcp")
	return jsonResult(rec)
}

func (h *handlers) getBodyweightLog(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rows, err := h.deps.Store.Weights(ctx)
	if err != nil {
		h.log.Error("mcp get_bodyweight_log", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	weights, targets := storage.BodyweightTrend(rows, h.deps.BodyweightTarget)
	if weights == nil {
		weights = []models.TrendPoint{}
	}
	if targets == nil {
		targets = []models.TrendPoint{}
	}
	return jsonResult(map[string]any{
		"entries":     weights,
		"target":      h.deps.BodyweightTarget,
		"target_line": targets,
		"bounds":      map[string]float64{"min": h.deps.Bodyweight.Min, "max": h.deps.Bodyweight.Max},
	})
}

func (h *handlers) logTraining(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	e := models.TrainingLogEntry{
		Date:     h.dateArg(req),
		Exercise: strings.TrimSpace(exercise),
		Note:     req.GetString("note", ""),
	}
	if e.Weight, err = req.RequireFloat("weight"); err != nil {
		return mcp.NewToolResultError("weight parameter is required"), nil
	}
	if e.Sets, err = req.RequireInt("sets"); err != nil {
		return mcp.NewToolResultError("sets parameter is required"), nil
	}
	if e.Reps, err = req.RequireInt("reps"); err != nil {
		return mcp.NewToolResultError("reps parameter is required"), nil
	}
	if e.RPE, err = req.RequireFloat("rpe"); err != nil {
		return mcp.NewToolResultError("rpe parameter is required"), nil
	}

	if err := storage.ValidateEntry(e); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := h.deps.Store.AppendTraining(ctx, e); err != nil {
		h.log.Error("mcp log_training", "error", err)
		return mcp.NewToolResultError("append failed: " + err.Error()), nil
	}
	h.log.Info("training logged", "date", e.Date, "exercise", e.Exercise, "via", "mcp")
	return jsonResult(e)
}

func (h *handlers) getTrainingLog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	order, err := storage.ParseOrder(req.GetString("order", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rows, err := h.deps.Store.Training(ctx, storage.TrainingQuery{Exercise: req.GetString("exercise", ""), Order: order})
	if err != nil {
		h.log.Error("mcp get_training_log", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if rows == nil {
		rows = []models.TrainingLogEntry{}
	}
	return jsonResult(rows)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
