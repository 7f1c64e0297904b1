package prep

import "github.com/claude/meetprep/internal/models"

var (
	trainingDayMacros = models.MacroTargets{
		Calories: 2000, ProteinG: 110, CarbsG: 250, FatG: 55,
		Note: "Training day: put most of the carbs in the meals around the session",
	}
	restDayMacros = models.MacroTargets{
		Calories: 1700, ProteinG: 110, CarbsG: 170, FatG: 60,
		Note: "Rest day: fewer carbs, keep protein high for recovery",
	}
)

var dietReference = []models.DietReferenceRow{
	{Meal: "Breakfast", Food: "Eggs", Portion: "2 whole", ProteinG: 13},
	{Meal: "Breakfast", Food: "Greek yogurt", Portion: "200 g", ProteinG: 20},
	{Meal: "Lunch", Food: "Chicken breast", Portion: "150 g", ProteinG: 35},
	{Meal: "Lunch", Food: "Rice", Portion: "1 bowl (200 g)", ProteinG: 5},
	{Meal: "Pre-workout", Food: "Banana", Portion: "1 medium", ProteinG: 1},
	{Meal: "Post-workout", Food: "Whey protein", Portion: "1 scoop (30 g)", ProteinG: 24},
	{Meal: "Dinner", Food: "Salmon", Portion: "150 g", ProteinG: 30},
	{Meal: "Dinner", Food: "Tofu", Portion: "200 g", ProteinG: 16},
	{Meal: "Snack", Food: "Soy milk", Portion: "400 ml", ProteinG: 14},
}

// MacroAdvice returns the fixed macro targets for a training or rest day.
func MacroAdvice(trainingDay bool) models.MacroTargets {
	if trainingDay {
		return trainingDayMacros
	}
	return restDayMacros
}

// DietReference returns a copy of the static diet reference table.
func DietReference() []models.DietReferenceRow {
	return append([]models.DietReferenceRow(nil), dietReference...)
}

// AddProtein returns the tally after logging grams on date. A tally from an
// earlier date starts over. The target follows the day's macro branch.
func AddProtein(t models.ProteinTally, date string, grams float64, trainingDay bool) models.ProteinTally {
	if t.Date != date {
		t = models.ProteinTally{Date: date}
	}
	t.Target = float64(MacroAdvice(trainingDay).ProteinG)
	if grams > 0 {
		t.Grams += grams
	}
	return t
}
