package prep

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/claude/meetprep/internal/models"
)

// TestDefaultTableShape verifies every training day has all four blocks and
// the taper block is a 3x5 at 50% with the deload warning.
func TestDefaultTableShape(t *testing.T) {
	table := DefaultTable()
	blocks := []models.Phase{models.PhaseFoundation, models.PhaseIntensification, models.PhasePeaking, models.PhaseTaper}

	for _, day := range []models.Day{models.DayOne, models.DayTwo, models.DayThree} {
		for _, b := range blocks {
			w, err := table.Lookup(day, b)
			if err != nil {
				t.Fatalf("Lookup(%s, %s): %v", day, b, err)
			}
			if len(w.Entries) == 0 {
				t.Errorf("%s/%s has no entries", day, b)
			}
			if w.Title == "" {
				t.Errorf("%s has no title", day)
			}
		}

		w, _ := table.Lookup(day, models.PhaseTaper)
		if !strings.Contains(w.Warning, "sets halved") {
			t.Errorf("%s taper warning = %q", day, w.Warning)
		}
		for _, e := range w.Entries {
			if e.Sets != 3 || e.Reps != 5 || e.Percentage != 0.50 {
				t.Errorf("%s taper entry %q = %dx%d @ %v, want 3x5 @ 0.5", day, e.Exercise, e.Sets, e.Reps, e.Percentage)
			}
		}
	}
}

// TestDefaultTableOrder verifies entries keep their declared order.
func TestDefaultTableOrder(t *testing.T) {
	w, err := DefaultTable().Lookup(models.DayOne, models.PhaseFoundation)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range w.Entries {
		names = append(names, e.Exercise)
	}
	want := []string{"Low Bar Squat", "Paused Bench Press", "Split Squat", "Dead Bug / Core"}
	if strings.Join(names, "|") != strings.Join(want, "|") {
		t.Errorf("order = %v, want %v", names, want)
	}
	if w.Entries[0].Lift != models.LiftSquat || w.Entries[1].Lift != models.LiftBench {
		t.Errorf("lifts = %q, %q", w.Entries[0].Lift, w.Entries[1].Lift)
	}
	if w.Entries[2].Percentage != 0 || w.Entries[2].Lift != models.LiftNone {
		t.Errorf("accessory entry should carry no load target: %+v", w.Entries[2])
	}
}

// TestLookupReturnsCopy verifies callers cannot mutate the shared table.
func TestLookupReturnsCopy(t *testing.T) {
	table := DefaultTable()
	w, _ := table.Lookup(models.DayTwo, models.PhasePeaking)
	w.Entries[0].Sets = 99

	again, _ := table.Lookup(models.DayTwo, models.PhasePeaking)
	if again.Entries[0].Sets == 99 {
		t.Error("Lookup leaked the table's backing slice")
	}
}

func TestLookupRestDay(t *testing.T) {
	w, err := DefaultTable().Lookup(models.DayRest, models.PhaseTaper)
	if err != nil {
		t.Fatal(err)
	}
	if len(w.Entries) != 0 || w.Title != "Rest day" {
		t.Errorf("rest workout = %+v", w)
	}
}

func TestLookupUnknownDay(t *testing.T) {
	table, err := ParseTable([]byte(`
days:
  day1:
    title: only day
    blocks:
      foundation:
        - {exercise: Squat, sets: 1, reps: 1, percentage: 0.5, lift: squat}
`))
	if err != nil {
		t.Fatal(err)
	}
	_, err = table.Lookup(models.DayThree, models.PhaseFoundation)
	if !errors.Is(err, ErrUnknownDay) {
		t.Errorf("err = %v, want ErrUnknownDay", err)
	}
}

// TestParseTableRejectsInvalid verifies validation of table documents.
func TestParseTableRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"empty":          ``,
		"unknown day":    "days:\n  day9:\n    blocks: {}\n",
		"rest day":       "days:\n  rest:\n    blocks: {}\n",
		"unknown block":  "days:\n  day1:\n    blocks:\n      bulking:\n        - {exercise: X, sets: 1, reps: 1}\n",
		"off-season":     "days:\n  day1:\n    blocks:\n      out_of_season:\n        - {exercise: X, sets: 1, reps: 1}\n",
		"zero sets":      "days:\n  day1:\n    blocks:\n      taper:\n        - {exercise: X, sets: 0, reps: 1}\n",
		"percentage > 1": "days:\n  day1:\n    blocks:\n      taper:\n        - {exercise: X, sets: 1, reps: 1, percentage: 70}\n",
		"unknown lift":   "days:\n  day1:\n    blocks:\n      taper:\n        - {exercise: X, sets: 1, reps: 1, lift: curl}\n",
		"no exercise":    "days:\n  day1:\n    blocks:\n      taper:\n        - {sets: 1, reps: 1}\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseTable([]byte(doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func writeTable(t *testing.T, path, exercise string) {
	t.Helper()
	doc := "days:\n  day1:\n    title: Custom\n    blocks:\n      foundation:\n        - {exercise: \"" + exercise + "\", sets: 2, reps: 2, percentage: 0.5, lift: squat}\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
}

// TestReloadTable verifies a valid file replaces the table and an invalid one
// leaves the previous table in place.
func TestReloadTable(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "table.yaml")
	holder := NewTableHolder(DefaultTable())

	writeTable(t, path, "Box Squat")
	if !ReloadTable(path, holder, log) {
		t.Fatal("expected reload to succeed")
	}
	w, err := holder.Load().Lookup(models.DayOne, models.PhaseFoundation)
	if err != nil {
		t.Fatal(err)
	}
	if w.Entries[0].Exercise != "Box Squat" {
		t.Errorf("exercise = %q, want Box Squat", w.Entries[0].Exercise)
	}

	if err := os.WriteFile(path, []byte("days: [not, a, map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if ReloadTable(path, holder, log) {
		t.Fatal("expected reload to fail")
	}
	w, _ = holder.Load().Lookup(models.DayOne, models.PhaseFoundation)
	if w.Entries[0].Exercise != "Box Squat" {
		t.Errorf("previous table lost, exercise = %q", w.Entries[0].Exercise)
	}
}

func TestLoadTableMissingFile(t *testing.T) {
	if _, err := LoadTable(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
