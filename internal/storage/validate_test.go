package storage

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/claude/meetprep/internal/models"
)

// TestWeightRangeCheck verifies bounds are inclusive.
func TestWeightRangeCheck(t *testing.T) {
	r := WeightRange{Min: 40, Max: 60}
	tests := []struct {
		weight float64
		ok     bool
	}{
		{40, true},
		{52.3, true},
		{60, true},
		{39.9, false},
		{60.1, false},
		{-1, false},
		{math.NaN(), false},
		{math.Inf(1), false},
		{math.Inf(-1), false},
	}
	for _, tt := range tests {
		err := r.Check(tt.weight)
		if (err == nil) != tt.ok {
			t.Errorf("Check(%v) = %v, want ok=%v", tt.weight, err, tt.ok)
		}
		if err != nil && !errors.Is(err, ErrInvalidEntry) {
			t.Errorf("Check(%v) error %v does not wrap ErrInvalidEntry", tt.weight, err)
		}
	}
}

func TestValidateEntry(t *testing.T) {
	valid := models.TrainingLogEntry{Date: "2026-01-10", Exercise: "Squat", Weight: 80, Sets: 3, Reps: 5, RPE: 8}
	if err := ValidateEntry(valid); err != nil {
		t.Fatalf("valid entry rejected: %v", err)
	}

	zeroLoad := valid
	zeroLoad.Weight = 0
	zeroLoad.RPE = 0
	if err := ValidateEntry(zeroLoad); err != nil {
		t.Errorf("bodyweight entry rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*models.TrainingLogEntry)
	}{
		{"bad date", func(e *models.TrainingLogEntry) { e.Date = "10/01/2026" }},
		{"blank exercise", func(e *models.TrainingLogEntry) { e.Exercise = "   " }},
		{"negative weight", func(e *models.TrainingLogEntry) { e.Weight = -5 }},
		{"zero sets", func(e *models.TrainingLogEntry) { e.Sets = 0 }},
		{"zero reps", func(e *models.TrainingLogEntry) { e.Reps = 0 }},
		{"rpe above 10", func(e *models.TrainingLogEntry) { e.RPE = 10.5 }},
		{"nan weight", func(e *models.TrainingLogEntry) { e.Weight = math.NaN() }},
		{"infinite weight", func(e *models.TrainingLogEntry) { e.Weight = math.Inf(1) }},
		{"nan rpe", func(e *models.TrainingLogEntry) { e.RPE = math.NaN() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			err := ValidateEntry(e)
			if err == nil {
				t.Fatal("expected error")
			}
			if !IsInputError(err) {
				t.Errorf("IsInputError(%v) = false", err)
			}
		})
	}
}

func TestIsInputError(t *testing.T) {
	if IsInputError(fmt.Errorf("disk full")) {
		t.Error("plain error reported as input error")
	}
	if !IsInputError(fmt.Errorf("saving: %w", ErrInvalidDate)) {
		t.Error("wrapped ErrInvalidDate not reported as input error")
	}
}

// TestMigrateCSVNoop verifies the CSV backend needs no migrations.
func TestMigrateCSVNoop(t *testing.T) {
	for _, driver := range []string{"", "csv"} {
		if err := Migrate(Options{Driver: driver}); err != nil {
			t.Errorf("Migrate(%q) = %v", driver, err)
		}
	}
	if err := Migrate(Options{Driver: "mysql"}); !errors.Is(err, ErrUnknownDriver) {
		t.Errorf("Migrate(mysql) = %v, want ErrUnknownDriver", err)
	}
	if err := Migrate(Options{Driver: "sqlite"}); err == nil {
		t.Error("Migrate(sqlite) without a path should fail")
	}
}
