package planner

import (
	"fmt"

	"performance-prime/internal/common/metrics"
	"performance-prime/internal/models"
)

// Daily plan goals as they appear in the creation flow.
const (
	DailyFullBody  = "Full Body"
	DailyUpperBody = "Upper Body"
	DailyLowerBody = "Lower Body"
	DailyCore      = "Core"
	DailyCardio    = "Cardio"
)

var dailyDurationMinutes = map[string]int{
	"15-20": 20,
	"30-45": 45,
	"60+":   60,
}

var equipmentFilters = map[string]string{
	"Corpo libero":      "Corpo libero",
	"Manubri/Pesi":      "Manubri",
	"Palestra completa": AllEquipment,
}

// GenerateDaily builds a one-off session from the daily creation flow
// inputs. Unknown goals fall back to full body, unknown duration bands
// to 45 minutes.
func (g *Generator) GenerateDaily(goal, durationBand, equipment string) Workout {
	totalMinutes, ok := dailyDurationMinutes[durationBand]
	if !ok {
		totalMinutes = 45
	}
	equipmentFilter, ok := equipmentFilters[equipment]
	if !ok {
		equipmentFilter = AllEquipment
	}

	var w Workout
	switch goal {
	case DailyUpperBody:
		w = g.GenerateFilteredStrength("Petto", equipmentFilter, totalMinutes, models.LevelIntermediate)
	case DailyLowerBody:
		w = g.GenerateFilteredStrength("Gambe", equipmentFilter, totalMinutes, models.LevelIntermediate)
	case DailyCore:
		w = g.GenerateFilteredStrength("Core", equipmentFilter, totalMinutes, models.LevelIntermediate)
	case DailyCardio:
		w = g.Generate(CategoryCardio, totalMinutes, Filters{}, models.LevelIntermediate, false)
	default:
		w = g.GenerateFilteredStrength(AllMuscleGroups, equipmentFilter, totalMinutes, models.LevelIntermediate)
	}

	label := goal
	if _, known := map[string]bool{
		DailyFullBody: true, DailyUpperBody: true, DailyLowerBody: true,
		DailyCore: true, DailyCardio: true,
	}[goal]; !known {
		label = DailyFullBody
	}
	w.Name = fmt.Sprintf("%s - %s min", label, durationBand)
	return w
}

// BuildDailyPlan wraps a daily session into a persistable plan.
func (g *Generator) BuildDailyPlan(userID, goal, durationBand, equipment string) *models.WorkoutPlan {
	w := g.GenerateDaily(goal, durationBand, equipment)

	plan := &models.WorkoutPlan{
		UserID:    userID,
		Name:      w.Name,
		Type:      models.PlanTypeDaily,
		Goal:      goal,
		Level:     models.LevelIntermediate,
		Frequency: 1,
		Days: []models.WorkoutDay{
			{
				Day:         1,
				Label:       w.Name,
				Focus:       w.Focus,
				DurationMin: w.DurationMin,
				Items:       w.Items,
			},
		},
	}
	metrics.PlansGenerated.WithLabelValues(models.PlanTypeDaily, GoalBucket(goal)).Inc()
	return plan
}
