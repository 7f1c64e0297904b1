package models

import "time"

// AlphaSession is one workout from an Alpha Progression CSV export.
type AlphaSession struct {
	Name      string
	Date      time.Time
	Duration  string
	Exercises []AlphaExercise
}

// AlphaExercise is one exercise block of a session, in export order.
type AlphaExercise struct {
	Number     int
	Name       string
	Equipment  string
	TargetReps int
	Sets       []AlphaSet
}

// AlphaSet is a single logged set. Alpha records effort as reps in reserve.
type AlphaSet struct {
	Number           int
	WeightKg         float64
	IsBodyweightPlus bool
	Reps             int
	RIR              float64
	IsWarmup         bool
}

// RPE converts reps in reserve to RPE (10 - RIR), floored at zero.
func (s AlphaSet) RPE() float64 {
	if s.RIR >= 10 {
		return 0
	}
	return 10 - s.RIR
}

// LogEntry turns a working set into a training log row of one set. The
// session name becomes the note.
func (s AlphaSet) LogEntry(session AlphaSession, exercise string) TrainingLogEntry {
	note := session.Name
	if s.IsBodyweightPlus {
		note += " · bodyweight +"
	}
	return TrainingLogEntry{
		Date:     session.Date.Format(DateLayout),
		Exercise: exercise,
		Weight:   s.WeightKg,
		Sets:     1,
		Reps:     s.Reps,
		RPE:      s.RPE(),
		Note:     note,
	}
}
