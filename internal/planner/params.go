package planner

import (
	"fmt"
	"strings"

	"performance-prime/internal/models"
)

// Training goal buckets derived from free-text goals.
const (
	GoalStrength    = "strength"
	GoalHypertrophy = "hypertrophy"
	GoalEndurance   = "endurance"
	GoalWeightLoss  = "weight_loss"
)

// Prescription is the sets/reps/rest triple for one exercise.
type Prescription struct {
	Sets    int
	Reps    string
	RestSec int
}

var experienceKeywords = map[string]string{
	"principiante": models.LevelBeginner,
	"beginner":     models.LevelBeginner,
	"base":         models.LevelBeginner,
	"intermedio":   models.LevelIntermediate,
	"intermediate": models.LevelIntermediate,
	"medio":        models.LevelIntermediate,
	"avanzato":     models.LevelAdvanced,
	"advanced":     models.LevelAdvanced,
	"pro":          models.LevelAdvanced,
}

// NormalizeLevel maps a free-form experience string to a level,
// defaulting to intermediate.
func NormalizeLevel(level string) string {
	if mapped, ok := experienceKeywords[strings.ToLower(strings.TrimSpace(level))]; ok {
		return mapped
	}
	return models.LevelIntermediate
}

// NormalizeLevelScore maps a 1-10 self assessment to a level.
func NormalizeLevelScore(score int) string {
	switch {
	case score <= 3:
		return models.LevelBeginner
	case score <= 6:
		return models.LevelIntermediate
	default:
		return models.LevelAdvanced
	}
}

// GoalBucket buckets a free-text goal; hypertrophy is the default.
func GoalBucket(goal string) string {
	g := strings.ToLower(goal)
	switch {
	case strings.Contains(g, "forza") || strings.Contains(g, "strength"):
		return GoalStrength
	case strings.Contains(g, "massa") || strings.Contains(g, "ipertrofia") || strings.Contains(g, "muscle"):
		return GoalHypertrophy
	case strings.Contains(g, "resistenza") || strings.Contains(g, "endurance") || strings.Contains(g, "cardio"):
		return GoalEndurance
	case strings.Contains(g, "peso") || strings.Contains(g, "dimagr") || strings.Contains(g, "weight"):
		return GoalWeightLoss
	default:
		return GoalHypertrophy
	}
}

var compoundKeywords = []string{
	"squat", "panca", "stacco", "deadlift", "bench press",
	"military press", "overhead press", "pull-up", "chin-up",
	"row", "rematore", "dip", "affondi", "lunge", "step-up",
	"push-up", "piegamenti", "trazioni", "hip thrust", "clean", "snatch",
}

// IsCompound reports whether an exercise name matches the multi-joint
// keyword list.
func IsCompound(exerciseName string) bool {
	name := strings.ToLower(exerciseName)
	for _, kw := range compoundKeywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

var basePrescriptions = map[string]map[string]Prescription{
	models.LevelBeginner: {
		GoalStrength:    {Sets: 3, Reps: "6-8", RestSec: 120},
		GoalHypertrophy: {Sets: 3, Reps: "8-10", RestSec: 90},
		GoalEndurance:   {Sets: 3, Reps: "12-15", RestSec: 60},
		GoalWeightLoss:  {Sets: 3, Reps: "10-12", RestSec: 45},
	},
	models.LevelIntermediate: {
		GoalStrength:    {Sets: 4, Reps: "5-6", RestSec: 120},
		GoalHypertrophy: {Sets: 4, Reps: "10-12", RestSec: 75},
		GoalEndurance:   {Sets: 3, Reps: "15-18", RestSec: 45},
		GoalWeightLoss:  {Sets: 3, Reps: "12-15", RestSec: 40},
	},
	models.LevelAdvanced: {
		GoalStrength:    {Sets: 5, Reps: "4-6", RestSec: 150},
		GoalHypertrophy: {Sets: 4, Reps: "12-15", RestSec: 60},
		GoalEndurance:   {Sets: 4, Reps: "18-20", RestSec: 45},
		GoalWeightLoss:  {Sets: 4, Reps: "15-18", RestSec: 30},
	},
}

var compoundRestBonus = map[string]int{
	models.LevelBeginner:     15,
	models.LevelIntermediate: 20,
	models.LevelAdvanced:     30,
}

// Prescribe computes sets, reps and rest for an exercise from the user's
// level and goal. Compound movements earn extra rest.
func Prescribe(exerciseName, level, goal string) Prescription {
	lvl := NormalizeLevel(level)
	p := basePrescriptions[lvl][GoalBucket(goal)]
	if IsCompound(exerciseName) {
		p.RestSec += compoundRestBonus[lvl]
	}
	return p
}

func formatSeconds(sec int) string {
	return fmt.Sprintf("%ds", sec)
}
