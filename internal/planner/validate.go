package planner

import (
	"performance-prime/internal/common/metrics"
	"performance-prime/internal/models"
)

// finalize clamps a workout to the level cap and records a warning when
// the variety ratio falls below the floor.
func (g *Generator) finalize(w *Workout, level string) {
	limit := maxExercisesPerLevel[NormalizeLevel(level)]
	if limit > 0 && len(w.Items) > limit {
		w.Items = w.Items[:limit]
	}

	for _, warning := range Validate(*w) {
		g.logger.Warn(warning, map[string]interface{}{
			"workout": w.Name,
			"items":   len(w.Items),
		})
	}
}

// Validate checks a generated workout and returns human readable
// warnings. It never rejects a workout.
func Validate(w Workout) []string {
	var warnings []string

	if len(w.Items) < minWorkoutExercises {
		warnings = append(warnings, "workout has fewer exercises than the minimum")
	}

	if ratio := VarietyRatio(w.Items); len(w.Items) > 0 && ratio < minVarietyRatio {
		warnings = append(warnings, "workout variety below threshold")
		metrics.PlanVarietyWarnings.Inc()
	}

	return warnings
}

// VarietyRatio is distinct exercise names over total items.
func VarietyRatio(items []models.WorkoutItem) float64 {
	if len(items) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		seen[item.Exercise.Name] = struct{}{}
	}
	return float64(len(seen)) / float64(len(items))
}
