package prep

import (
	"time"

	"github.com/claude/meetprep/internal/models"
)

// PrepWeeks is the length of the preparation block ending on competition day.
const PrepWeeks = 14

// Schedule is where today sits relative to the competition.
type Schedule struct {
	Today         string       `json:"today"`
	Competition   string       `json:"competition"`
	PrepStart     string       `json:"prep_start"`
	DaysRemaining int          `json:"days_remaining"`
	WeeksOut      int          `json:"weeks_out"`
	CurrentWeek   int          `json:"current_week"`
	TotalWeeks    int          `json:"total_weeks"`
	Phase         models.Phase `json:"phase"`
	PhaseLabel    string       `json:"phase_label"`
	PhaseNote     string       `json:"phase_note"`
}

// ComputeSchedule derives the week number and phase from the competition date.
// Week numbers outside 1..14 are not clamped.
func ComputeSchedule(competition, today time.Time) Schedule {
	comp := civilDate(competition)
	now := civilDate(today)

	days := DaysBetween(now, comp)
	weeksOut := floorDiv(days, 7) + 1
	week := PrepWeeks + 1 - weeksOut
	phase := PhaseForWeek(week)

	return Schedule{
		Today:         now.Format(models.DateLayout),
		Competition:   comp.Format(models.DateLayout),
		PrepStart:     comp.AddDate(0, 0, -7*PrepWeeks).Format(models.DateLayout),
		DaysRemaining: days,
		WeeksOut:      weeksOut,
		CurrentWeek:   week,
		TotalWeeks:    PrepWeeks,
		Phase:         phase,
		PhaseLabel:    phase.Label(),
		PhaseNote:     phase.Note(),
	}
}

// PhaseForWeek maps a week number to its phase. Brackets are inclusive and
// tested in order, so every integer lands in exactly one phase.
func PhaseForWeek(week int) models.Phase {
	switch {
	case week <= 4:
		return models.PhaseFoundation
	case week >= 5 && week <= 8:
		return models.PhaseIntensification
	case week >= 9 && week <= 12:
		return models.PhasePeaking
	case week >= 13 && week <= 14:
		return models.PhaseTaper
	default:
		return models.PhaseOutOfSeason
	}
}

// BlockForWeek picks the prescription block for a week. Unlike the banner
// phase it has no off-season branch: anything past week 12 trains the taper.
func BlockForWeek(week int) models.Phase {
	switch {
	case week <= 4:
		return models.PhaseFoundation
	case week <= 8:
		return models.PhaseIntensification
	case week <= 12:
		return models.PhasePeaking
	default:
		return models.PhaseTaper
	}
}

// DaysBetween returns whole calendar days from a to b (negative if b is earlier).
func DaysBetween(a, b time.Time) int {
	return int(civilDate(b).Sub(civilDate(a)).Hours() / 24)
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// floorDiv rounds toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
