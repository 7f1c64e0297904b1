package prep

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/claude/meetprep/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed prescriptions.yaml
var defaultTableYAML []byte

// ErrUnknownDay is returned when a table has no schedule for the requested day.
var ErrUnknownDay = errors.New("unknown training day")

const restTitle = "Rest day"

// Table maps (day, block) to an ordered list of prescriptions.
// It is immutable once built; reloads swap in a new Table.
type Table struct {
	restMessage string
	days        map[models.Day]daySchedule
}

type daySchedule struct {
	title    string
	warnings map[models.Phase]string
	blocks   map[models.Phase][]models.PrescriptionEntry
}

// Workout is the table's answer for one day and block.
type Workout struct {
	Title   string
	Warning string
	Entries []models.PrescriptionEntry
}

type tableDoc struct {
	RestMessage string            `yaml:"rest_message"`
	Days        map[string]dayDoc `yaml:"days"`
}

type dayDoc struct {
	Title    string                                `yaml:"title"`
	Warnings map[string]string                     `yaml:"warnings"`
	Blocks   map[string][]models.PrescriptionEntry `yaml:"blocks"`
}

// DefaultTable returns the built-in prescription table.
func DefaultTable() *Table {
	t, err := ParseTable(defaultTableYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded prescription table: %v", err))
	}
	return t
}

// LoadTable reads a prescription table from a YAML file.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading prescription table: %w", err)
	}
	t, err := ParseTable(data)
	if err != nil {
		return nil, fmt.Errorf("parsing prescription table %s: %w", path, err)
	}
	return t, nil
}

// ParseTable decodes and validates a YAML prescription table.
func ParseTable(data []byte) (*Table, error) {
	var doc tableDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Days) == 0 {
		return nil, fmt.Errorf("no days defined")
	}

	t := &Table{restMessage: doc.RestMessage, days: make(map[models.Day]daySchedule, len(doc.Days))}
	for dayKey, dd := range doc.Days {
		day, err := models.ParseDay(dayKey)
		if err != nil {
			return nil, err
		}
		if day == models.DayRest {
			return nil, fmt.Errorf("rest day cannot carry prescriptions")
		}
		ds := daySchedule{
			title:    dd.Title,
			warnings: make(map[models.Phase]string, len(dd.Warnings)),
			blocks:   make(map[models.Phase][]models.PrescriptionEntry, len(dd.Blocks)),
		}
		for k, w := range dd.Warnings {
			p, err := parseBlock(k)
			if err != nil {
				return nil, fmt.Errorf("%s warnings: %w", dayKey, err)
			}
			ds.warnings[p] = w
		}
		for k, entries := range dd.Blocks {
			p, err := parseBlock(k)
			if err != nil {
				return nil, fmt.Errorf("%s blocks: %w", dayKey, err)
			}
			for i, e := range entries {
				if err := validateEntry(e); err != nil {
					return nil, fmt.Errorf("%s/%s entry %d: %w", dayKey, k, i+1, err)
				}
			}
			ds.blocks[p] = entries
		}
		t.days[day] = ds
	}
	return t, nil
}

func parseBlock(s string) (models.Phase, error) {
	p, err := models.ParsePhase(s)
	if err != nil {
		return 0, err
	}
	if p == models.PhaseOutOfSeason {
		return 0, fmt.Errorf("no prescription block for %s", p)
	}
	return p, nil
}

func validateEntry(e models.PrescriptionEntry) error {
	switch {
	case e.Exercise == "":
		return fmt.Errorf("exercise is required")
	case e.Sets <= 0 || e.Reps <= 0:
		return fmt.Errorf("sets and reps must be positive")
	case e.Percentage < 0 || e.Percentage > 1:
		return fmt.Errorf("percentage %v outside [0,1]", e.Percentage)
	}
	switch e.Lift {
	case models.LiftNone, models.LiftSquat, models.LiftBench, models.LiftDeadlift:
		return nil
	}
	return fmt.Errorf("unknown lift %q", e.Lift)
}

// Lookup returns the workout for a day and block. Entries are a copy.
func (t *Table) Lookup(day models.Day, block models.Phase) (Workout, error) {
	if day == models.DayRest {
		return Workout{Title: restTitle}, nil
	}
	ds, ok := t.days[day]
	if !ok {
		return Workout{}, fmt.Errorf("%w: %s", ErrUnknownDay, day)
	}
	entries := append([]models.PrescriptionEntry(nil), ds.blocks[block]...)
	return Workout{Title: ds.title, Warning: ds.warnings[block], Entries: entries}, nil
}

// RestMessage is shown on rest days.
func (t *Table) RestMessage() string { return t.restMessage }

// TableHolder shares the current table between readers and the reload watcher.
type TableHolder struct {
	p atomic.Pointer[Table]
}

// NewTableHolder returns a holder seeded with t.
func NewTableHolder(t *Table) *TableHolder {
	h := &TableHolder{}
	h.p.Store(t)
	return h
}

// Load returns the current table.
func (h *TableHolder) Load() *Table { return h.p.Load() }

// Store replaces the current table.
func (h *TableHolder) Store(t *Table) { h.p.Store(t) }
