package models

import (
	"testing"
	"time"
)

func TestAlphaSetRPE(t *testing.T) {
	tests := []struct {
		rir  float64
		want float64
	}{
		{0, 10},
		{2, 8},
		{2.5, 7.5},
		{10, 0},
		{12, 0},
	}
	for _, tt := range tests {
		if got := (AlphaSet{RIR: tt.rir}).RPE(); got != tt.want {
			t.Errorf("RPE(rir=%v) = %v, want %v", tt.rir, got, tt.want)
		}
	}
}

// TestAlphaSetLogEntry verifies a working set becomes a one-set log row.
func TestAlphaSetLogEntry(t *testing.T) {
	session := AlphaSession{Name: "Lower A", Date: time.Date(2026, 1, 10, 18, 30, 0, 0, time.UTC)}

	got := AlphaSet{WeightKg: 72.5, Reps: 5, RIR: 2}.LogEntry(session, "Squat")
	want := TrainingLogEntry{Date: "2026-01-10", Exercise: "Squat", Weight: 72.5, Sets: 1, Reps: 5, RPE: 8, Note: "Lower A"}
	if got != want {
		t.Errorf("LogEntry = %+v, want %+v", got, want)
	}

	plus := AlphaSet{WeightKg: 10, IsBodyweightPlus: true, Reps: 8, RIR: 1}.LogEntry(session, "Dips")
	if plus.Note != "Lower A · bodyweight +" {
		t.Errorf("Note = %q", plus.Note)
	}
}
