// Package prep computes the competition preparation schedule and the daily
// workout from a competition date, the lifter's maxes and a day selection.
// Everything here is pure: callers own persistence and presentation.
package prep

import (
	"fmt"
	"time"

	"github.com/claude/meetprep/internal/models"
)

// PlannedExercise is a prescription with its load resolved against a 1RM.
type PlannedExercise struct {
	models.PrescriptionEntry
	OneRepMax float64 `json:"one_rep_max,omitempty"`
	Load      float64 `json:"load,omitempty"`
	LoadText  string  `json:"load_text"`
}

// Plan is everything the dashboard shows for one day.
type Plan struct {
	Competition models.Competition  `json:"competition"`
	Schedule    Schedule            `json:"schedule"`
	Day         models.Day          `json:"day"`
	Block       models.Phase        `json:"block"`
	Title       string              `json:"title"`
	Warning     string              `json:"warning,omitempty"`
	RestMessage string              `json:"rest_message,omitempty"`
	Items       []PlannedExercise   `json:"items"`
	Macros      models.MacroTargets `json:"macros"`
}

// Build runs the pipeline: competition → schedule → prescriptions → macros.
func Build(comp models.Competition, today time.Time, day models.Day, table *Table) (Plan, error) {
	sched := ComputeSchedule(comp.Date, today)
	block := BlockForWeek(sched.CurrentWeek)

	w, err := table.Lookup(day, block)
	if err != nil {
		return Plan{}, fmt.Errorf("looking up %s: %w", day, err)
	}

	plan := Plan{
		Competition: comp,
		Schedule:    sched,
		Day:         day,
		Block:       block,
		Title:       w.Title,
		Warning:     w.Warning,
		Items:       make([]PlannedExercise, 0, len(w.Entries)),
		Macros:      MacroAdvice(day.IsTrainingDay()),
	}
	if !day.IsTrainingDay() {
		plan.RestMessage = table.RestMessage()
		plan.Warning = ""
		return plan, nil
	}

	for _, e := range w.Entries {
		item := PlannedExercise{PrescriptionEntry: e, OneRepMax: comp.OneRepMax(e.Lift)}
		if load, ok := RecommendedLoad(item.OneRepMax, e.Percentage); ok {
			item.Load = load
			item.LoadText = FormatLoad(item.OneRepMax, e.Percentage)
		}
		plan.Items = append(plan.Items, item)
	}
	return plan, nil
}
