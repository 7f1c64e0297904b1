package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for every persisted date.
const DateLayout = "2006-01-02"

// Lift identifies which one-rep max a prescription is loaded from.
type Lift string

const (
	LiftNone     Lift = ""
	LiftSquat    Lift = "squat"
	LiftBench    Lift = "bench"
	LiftDeadlift Lift = "deadlift"
)

// Competition is the meet being prepared for and the lifter's current maxes (kg).
type Competition struct {
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	SquatMax    float64   `json:"squat_1rm"`
	BenchMax    float64   `json:"bench_1rm"`
	DeadliftMax float64   `json:"deadlift_1rm"`
}

// OneRepMax returns the max for a lift, or 0 when the lift carries no load target.
func (c Competition) OneRepMax(l Lift) float64 {
	switch l {
	case LiftSquat:
		return c.SquatMax
	case LiftBench:
		return c.BenchMax
	case LiftDeadlift:
		return c.DeadliftMax
	default:
		return 0
	}
}

// Phase is a macro training block derived from the week number.
type Phase int

const (
	PhaseFoundation Phase = iota
	PhaseIntensification
	PhasePeaking
	PhaseTaper
	PhaseOutOfSeason
)

var phaseKeys = map[Phase]string{
	PhaseFoundation:      "foundation",
	PhaseIntensification: "intensification",
	PhasePeaking:         "peaking",
	PhaseTaper:           "taper",
	PhaseOutOfSeason:     "out_of_season",
}

var phaseLabels = map[Phase]string{
	PhaseFoundation:      "Phase 1: Foundation (hypertrophy / adaptation)",
	PhaseIntensification: "Phase 2: Intensification (raising intensity)",
	PhasePeaking:         "Phase 3: Peaking (adapting to heavy loads)",
	PhaseTaper:           "Phase 4: Taper and competition",
	PhaseOutOfSeason:     "Off-season / rest",
}

var phaseNotes = map[Phase]string{
	PhaseFoundation:      "RPE 7-8 | focus on movement control, accumulate volume",
	PhaseIntensification: "RPE 8-9 | attack sticking points, loads going up",
	PhasePeaking:         "RPE 9 | rehearse competition commands, get used to opener weights",
	PhaseTaper:           "Recovery and supercompensation | ready to PR",
	PhaseOutOfSeason:     "Adjust the competition date",
}

// String returns the phase's stable key.
func (p Phase) String() string {
	if k, ok := phaseKeys[p]; ok {
		return k
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Label is the banner headline for the phase.
func (p Phase) Label() string { return phaseLabels[p] }

// Note is the banner subtitle for the phase.
func (p Phase) Note() string { return phaseNotes[p] }

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(b []byte) error {
	parsed, err := ParsePhase(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePhase parses a phase key.
func ParsePhase(s string) (Phase, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, k := range phaseKeys {
		if k == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}

// Day is the training-day selection.
type Day string

const (
	DayOne   Day = "day1"
	DayTwo   Day = "day2"
	DayThree Day = "day3"
	DayRest  Day = "rest"
)

// Days lists the selectable days in display order.
var Days = []Day{DayOne, DayTwo, DayThree, DayRest}

// ParseDay accepts "day1".."day3", "1".."3" and "rest", case-insensitively.
func ParseDay(s string) (Day, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day1", "1":
		return DayOne, nil
	case "day2", "2":
		return DayTwo, nil
	case "day3", "3":
		return DayThree, nil
	case "rest":
		return DayRest, nil
	}
	return "", fmt.Errorf("unknown day %q", s)
}

// IsTrainingDay reports whether the day has a workout.
func (d Day) IsTrainingDay() bool { return d != DayRest }

// PrescriptionEntry is one line of the daily workout.
type PrescriptionEntry struct {
	Exercise   string  `json:"exercise" yaml:"exercise"`
	Sets       int     `json:"sets" yaml:"sets"`
	Reps       int     `json:"reps" yaml:"reps"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
	Note       string  `json:"note" yaml:"note"`
	Lift       Lift    `json:"lift,omitempty" yaml:"lift"`
}

// MacroTargets is a daily calorie/macro target.
type MacroTargets struct {
	Calories int    `json:"calories"`
	ProteinG int    `json:"protein_g"`
	CarbsG   int    `json:"carbs_g"`
	FatG     int    `json:"fat_g"`
	Note     string `json:"note"`
}

// DietReferenceRow is one row of the static diet reference table.
type DietReferenceRow struct {
	Meal     string  `json:"meal"`
	Food     string  `json:"food"`
	Portion  string  `json:"portion"`
	ProteinG float64 `json:"protein_g"`
}

// ProteinTally is the running protein intake for one day. Callers own it
// and pass it back in on the next interaction.
type ProteinTally struct {
	Date   string  `json:"date"`
	Grams  float64 `json:"grams"`
	Target float64 `json:"target"`
}

// Remaining returns grams left to hit the target, never negative.
func (t ProteinTally) Remaining() float64 {
	if t.Grams >= t.Target {
		return 0
	}
	return t.Target - t.Grams
}
