package nutrition

import "math"

// Harris-Benedict BMR constants.
const (
	maleBMRBase     = 66.0
	maleBMRWeight   = 13.7
	maleBMRHeight   = 5.0
	maleBMRAge      = 6.8
	femaleBMRBase   = 655.0
	femaleBMRWeight = 9.6
	femaleBMRHeight = 1.8
	femaleBMRAge    = 4.7
)

// activityMultipliers maps activity level to the TDEE multiplier.
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// goalAdjustments maps the user's goal to a daily calorie adjustment.
var goalAdjustments = map[string]int{
	"lose_weight": -500,
	"maintain":    0,
	"gain_muscle": 300,
}

// BMR computes the basal metabolic rate via the Harris-Benedict formula.
// Weight in kg, height in cm.
func BMR(gender string, weight, height float64, age int) float64 {
	if gender == "male" {
		return maleBMRBase + maleBMRWeight*weight + maleBMRHeight*height - maleBMRAge*float64(age)
	}
	return femaleBMRBase + femaleBMRWeight*weight + femaleBMRHeight*height - femaleBMRAge*float64(age)
}

// DailyCalorieTarget computes the daily calorie target for a profile:
// BMR scaled by the activity multiplier, then shifted by the goal adjustment.
// Unknown activity levels fall back to sedentary as the conservative bound.
func DailyCalorieTarget(profile UserProfile) int {
	multiplier, ok := activityMultipliers[profile.ActivityLevel]
	if !ok {
		multiplier = activityMultipliers["sedentary"]
	}

	target := BMR(profile.Gender, profile.Weight, profile.Height, profile.Age) * multiplier
	target += float64(goalAdjustments[profile.Goal])
	return int(math.Round(target))
}
