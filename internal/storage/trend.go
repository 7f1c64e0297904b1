package storage

import (
	"slices"
	"strings"

	"github.com/claude/meetprep/internal/models"
)

// WeightsByDate returns a date-ordered copy of the bodyweight log.
func WeightsByDate(records []models.BodyweightRecord) []models.BodyweightRecord {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b models.BodyweightRecord) int { return strings.Compare(a.Date, b.Date) })
	return out
}

// BodyweightTrend sorts records by date and pairs each point with the target
// weight. A zero target yields no target series.
func BodyweightTrend(records []models.BodyweightRecord, target float64) (weights, targets []models.TrendPoint) {
	for _, r := range WeightsByDate(records) {
		weights = append(weights, models.TrendPoint{Date: r.Date, Value: r.Weight})
		if target > 0 {
			targets = append(targets, models.TrendPoint{Date: r.Date, Value: target})
		}
	}
	return weights, targets
}

// TrainingTrend reduces ascending training rows to the heaviest weight per date.
func TrainingTrend(entries []models.TrainingLogEntry) []models.TrendPoint {
	var points []models.TrendPoint
	for _, e := range entries {
		if n := len(points); n > 0 && points[n-1].Date == e.Date {
			if e.Weight > points[n-1].Value {
				points[n-1].Value = e.Weight
			}
			continue
		}
		points = append(points, models.TrendPoint{Date: e.Date, Value: e.Weight})
	}
	return points
}
