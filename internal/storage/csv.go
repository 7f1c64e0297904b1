package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/claude/meetprep/internal/models"
)

const (
	bodyweightFile = "bodyweight_log.csv"
	trainingFile   = "training_log.csv"
)

var (
	bodyweightHeader = []string{"Date", "Weight"}
	trainingHeader   = []string{"Date", "Exercise", "Weight", "Sets", "Reps", "RPE", "Note"}
)

// CSVStore keeps each log in a flat CSV file under one directory. A missing
// file reads as an empty table. Every write rewrites the whole file.
type CSVStore struct {
	dir string
	mu  sync.Mutex
}

// NewCSVStore creates the directory if needed.
func NewCSVStore(dir string) (*CSVStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
	}
	return &CSVStore{dir: dir}, nil
}

// BodyweightPath is the bodyweight log file.
func (s *CSVStore) BodyweightPath() string { return filepath.Join(s.dir, bodyweightFile) }

// TrainingPath is the training log file.
func (s *CSVStore) TrainingPath() string { return filepath.Join(s.dir, trainingFile) }

// Close is a no-op; files are not held open.
func (s *CSVStore) Close() error { return nil }

// SaveWeight upserts the row for date.
func (s *CSVStore) SaveWeight(_ context.Context, date string, weight float64) error {
	if err := ValidateDate(date); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readWeights()
	if err != nil {
		return err
	}
	found := false
	for i := range rows {
		if rows[i].Date == date {
			rows[i].Weight = weight
			found = true
			break
		}
	}
	if !found {
		rows = append(rows, models.BodyweightRecord{Date: date, Weight: weight})
	}

	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{r.Date, formatFloat(r.Weight)})
	}
	return writeTable(s.BodyweightPath(), bodyweightHeader, records)
}

// Weights returns the bodyweight log in file order.
func (s *CSVStore) Weights(_ context.Context) ([]models.BodyweightRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readWeights()
}

// ClearWeights removes the bodyweight file.
func (s *CSVStore) ClearWeights(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return removeIfExists(s.BodyweightPath())
}

// AppendTraining adds a row to the training log.
func (s *CSVStore) AppendTraining(_ context.Context, e models.TrainingLogEntry) error {
	if err := ValidateDate(e.Date); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readTraining()
	if err != nil {
		return err
	}
	rows = append(rows, e)

	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Date, r.Exercise, formatFloat(r.Weight),
			strconv.Itoa(r.Sets), strconv.Itoa(r.Reps), formatFloat(r.RPE), r.Note,
		})
	}
	return writeTable(s.TrainingPath(), trainingHeader, records)
}

// Training returns training rows matching q.
func (s *CSVStore) Training(_ context.Context, q TrainingQuery) ([]models.TrainingLogEntry, error) {
	s.mu.Lock()
	rows, err := s.readTraining()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return filterAndSort(rows, q), nil
}

// Exercises returns distinct exercise names in first-logged order.
func (s *CSVStore) Exercises(_ context.Context) ([]string, error) {
	s.mu.Lock()
	rows, err := s.readTraining()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return distinctExercises(rows), nil
}

// ClearTraining removes the training log file.
func (s *CSVStore) ClearTraining(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return removeIfExists(s.TrainingPath())
}

func (s *CSVStore) readWeights() ([]models.BodyweightRecord, error) {
	records, err := readTable(s.BodyweightPath(), len(bodyweightHeader))
	if err != nil {
		return nil, err
	}
	rows := make([]models.BodyweightRecord, 0, len(records))
	for i, rec := range records {
		w, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: parsing weight %q: %w", bodyweightFile, i+2, rec[1], err)
		}
		rows = append(rows, models.BodyweightRecord{Date: rec[0], Weight: w})
	}
	return rows, nil
}

func (s *CSVStore) readTraining() ([]models.TrainingLogEntry, error) {
	records, err := readTable(s.TrainingPath(), len(trainingHeader))
	if err != nil {
		return nil, err
	}
	rows := make([]models.TrainingLogEntry, 0, len(records))
	for i, rec := range records {
		line := i + 2
		weight, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: parsing weight: %w", trainingFile, line, err)
		}
		sets, err := strconv.Atoi(rec[3])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: parsing sets: %w", trainingFile, line, err)
		}
		reps, err := strconv.Atoi(rec[4])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: parsing reps: %w", trainingFile, line, err)
		}
		rpe, err := strconv.ParseFloat(rec[5], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: parsing RPE: %w", trainingFile, line, err)
		}
		rows = append(rows, models.TrainingLogEntry{
			Date: rec[0], Exercise: rec[1], Weight: weight,
			Sets: sets, Reps: reps, RPE: rpe, Note: rec[6],
		})
	}
	return rows, nil
}

// readTable returns the data records of a CSV file, skipping the header.
func readTable(path string, columns int) ([][]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = columns
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}

// writeTable replaces path via a temp file and rename.
func writeTable(path string, header []string, records [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
