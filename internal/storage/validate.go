package storage

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/claude/meetprep/internal/models"
)

// ErrInvalidEntry is returned for log input outside accepted bounds.
var ErrInvalidEntry = errors.New("invalid entry")

// WeightRange bounds accepted bodyweight values, inclusive.
type WeightRange struct {
	Min float64
	Max float64
}

// Check rejects weights outside the range, including NaN and infinities.
func (r WeightRange) Check(weight float64) error {
	if !finite(weight) || weight < r.Min || weight > r.Max {
		return fmt.Errorf("%w: weight %v outside [%v, %v]", ErrInvalidEntry, weight, r.Min, r.Max)
	}
	return nil
}

// ValidateEntry checks a training log entry before it is appended.
func ValidateEntry(e models.TrainingLogEntry) error {
	if err := ValidateDate(e.Date); err != nil {
		return err
	}
	switch {
	case strings.TrimSpace(e.Exercise) == "":
		return fmt.Errorf("%w: exercise is required", ErrInvalidEntry)
	case !finite(e.Weight) || e.Weight < 0:
		return fmt.Errorf("%w: weight must be a non-negative number", ErrInvalidEntry)
	case e.Sets < 1 || e.Reps < 1:
		return fmt.Errorf("%w: sets and reps must be at least 1", ErrInvalidEntry)
	case !finite(e.RPE) || e.RPE < 0 || e.RPE > 10:
		return fmt.Errorf("%w: RPE must be between 0 and 10", ErrInvalidEntry)
	}
	return nil
}

// IsInputError reports whether err was caused by bad caller input.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidEntry) || errors.Is(err, ErrInvalidDate)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
