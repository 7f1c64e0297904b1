package prep

import "fmt"

// RecommendedLoad returns oneRM × pct. ok is false unless both are positive,
// which is how entries without a load target are expressed.
func RecommendedLoad(oneRM, pct float64) (load float64, ok bool) {
	if oneRM <= 0 || pct <= 0 {
		return 0, false
	}
	return oneRM * pct, true
}

// FormatLoad renders the recommended load with one decimal, e.g. "66.5 kg",
// or "" when there is no load target.
func FormatLoad(oneRM, pct float64) string {
	load, ok := RecommendedLoad(oneRM, pct)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%.1f kg", load)
}
