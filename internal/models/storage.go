package models

// BodyweightRecord is one row of the bodyweight log. Date is unique.
type BodyweightRecord struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

// TrainingLogEntry is one row of the training log. Rows are never merged,
// so repeated attempts at an exercise on one date all survive.
type TrainingLogEntry struct {
	Date     string  `json:"date"`
	Exercise string  `json:"exercise"`
	Weight   float64 `json:"weight"`
	Sets     int     `json:"sets"`
	Reps     int     `json:"reps"`
	RPE      float64 `json:"rpe"`
	Note     string  `json:"note"`
}

// TrendPoint is one point on a chart series.
type TrendPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}
