package prep

import (
	"testing"

	"github.com/claude/meetprep/internal/models"
)

// TestMacroAdviceBranches verifies the two fixed macro branches.
func TestMacroAdviceBranches(t *testing.T) {
	train := MacroAdvice(true)
	rest := MacroAdvice(false)
	if train.Calories <= rest.Calories {
		t.Errorf("training calories %d should exceed rest %d", train.Calories, rest.Calories)
	}
	if train.CarbsG <= rest.CarbsG {
		t.Errorf("training carbs %d should exceed rest %d", train.CarbsG, rest.CarbsG)
	}
	if train.Note == "" || rest.Note == "" {
		t.Error("both branches need a note")
	}
	if MacroAdvice(true) != train {
		t.Error("MacroAdvice should be deterministic")
	}
}

func TestDietReferenceIsCopy(t *testing.T) {
	rows := DietReference()
	if len(rows) == 0 {
		t.Fatal("empty reference table")
	}
	rows[0].Food = "changed"
	if DietReference()[0].Food == "changed" {
		t.Error("DietReference leaked its backing array")
	}
}

// TestAddProtein verifies the tally accumulates within a day and restarts on a new date.
func TestAddProtein(t *testing.T) {
	var tally models.ProteinTally
	tally = AddProtein(tally, "2026-01-10", 30, true)
	tally = AddProtein(tally, "2026-01-10", 25, true)
	if tally.Grams != 55 {
		t.Errorf("grams = %v, want 55", tally.Grams)
	}
	if tally.Target != float64(MacroAdvice(true).ProteinG) {
		t.Errorf("target = %v", tally.Target)
	}
	if tally.Remaining() != tally.Target-55 {
		t.Errorf("remaining = %v", tally.Remaining())
	}

	tally = AddProtein(tally, "2026-01-11", 10, false)
	if tally.Date != "2026-01-11" || tally.Grams != 10 {
		t.Errorf("tally did not reset: %+v", tally)
	}

	tally = AddProtein(tally, "2026-01-11", 500, false)
	if tally.Remaining() != 0 {
		t.Errorf("remaining = %v, want 0 once target is met", tally.Remaining())
	}

	before := tally.Grams
	tally = AddProtein(tally, "2026-01-11", -20, false)
	if tally.Grams != before {
		t.Errorf("negative grams changed the tally: %v -> %v", before, tally.Grams)
	}
}
