package planner

import (
	"context"
	"fmt"

	"performance-prime/internal/common/metrics"
	"performance-prime/internal/models"
)

// Weekly goals from the plan creation flow.
const (
	WeeklyGoalMass      = "Aumentare massa muscolare"
	WeeklyGoalWeight    = "Perdere peso"
	WeeklyGoalEndurance = "Migliorare resistenza"
	WeeklyGoalTone      = "Tonificare"
	WeeklyGoalActive    = "Mantenersi attivo"
)

// WeeklyParams describes the requested weekly plan.
type WeeklyParams struct {
	UserID        string
	Goal          string
	Level         string
	DurationWeeks int
	Frequency     int
	Equipment     string
	Limitations   string
}

// Explainer produces a short motivational explanation for a plan. The
// AI client implements it; generation never fails on an explainer
// error, a canned text is used instead.
type Explainer interface {
	Explain(ctx context.Context, plan *models.WorkoutPlan) (string, error)
}

var weekdays = []string{"Lunedì", "Martedì", "Mercoledì", "Giovedì", "Venerdì", "Sabato", "Domenica"}

// weekdaySlots spreads N sessions over the week with rest days between
// them where possible.
func weekdaySlots(frequency int) []int {
	switch frequency {
	case 2:
		return []int{0, 3}
	case 3:
		return []int{0, 2, 4}
	case 4:
		return []int{0, 1, 3, 5}
	case 5:
		return []int{0, 1, 3, 4, 5}
	default:
		slots := make([]int, 0, frequency)
		for i := 0; i < frequency && i < len(weekdays); i++ {
			slots = append(slots, i)
		}
		return slots
	}
}

// GenerateWeekly builds a full weekly plan: one workout per training
// day, split by goal, truncated to the requested frequency.
func (g *Generator) GenerateWeekly(ctx context.Context, params WeeklyParams, explainer Explainer) *models.WorkoutPlan {
	if params.Frequency < 1 {
		params.Frequency = 3
	}
	if params.Frequency > 7 {
		params.Frequency = 7
	}
	lvl := NormalizeLevel(params.Level)
	equipmentFilter, ok := equipmentFilters[params.Equipment]
	if !ok {
		equipmentFilter = AllEquipment
	}

	workouts := g.weeklyWorkouts(params.Goal, lvl, params.Frequency, equipmentFilter)
	if len(workouts) > params.Frequency {
		workouts = workouts[:params.Frequency]
	}

	slots := weekdaySlots(params.Frequency)
	days := make([]models.WorkoutDay, len(workouts))
	for i, w := range workouts {
		label := fmt.Sprintf("Workout %d", i+1)
		if i < len(slots) {
			label = fmt.Sprintf("%s: %s", weekdays[slots[i]], w.Focus)
		}
		days[i] = models.WorkoutDay{
			Day:         i + 1,
			Label:       label,
			Focus:       w.Focus,
			DurationMin: w.DurationMin,
			Items:       w.Items,
		}
	}

	plan := &models.WorkoutPlan{
		UserID:    params.UserID,
		Name:      fmt.Sprintf("Piano %s - %d settimane", params.Goal, params.DurationWeeks),
		Type:      models.PlanTypeWeekly,
		Goal:      params.Goal,
		Level:     lvl,
		Frequency: params.Frequency,
		Days:      days,
	}
	plan.Explanation = g.explain(ctx, plan, explainer)

	metrics.PlansGenerated.WithLabelValues(models.PlanTypeWeekly, GoalBucket(params.Goal)).Inc()
	return plan
}

func (g *Generator) weeklyWorkouts(goal, level string, frequency int, equipmentFilter string) []Workout {
	var workouts []Workout

	switch goal {
	case WeeklyGoalMass:
		if frequency >= 4 {
			workouts = append(workouts,
				g.GenerateFilteredStrength("Petto", equipmentFilter, 60, level),
				g.GenerateFilteredStrength("Schiena", equipmentFilter, 60, level),
				g.GenerateFilteredStrength("Gambe", equipmentFilter, 60, level))
			if frequency >= 5 {
				workouts = append(workouts, g.GenerateFilteredStrength("Spalle", equipmentFilter, 60, level))
			}
			if frequency >= 6 {
				workouts = append(workouts,
					g.GenerateFilteredStrength("Braccia", equipmentFilter, 60, level),
					g.GenerateFilteredStrength("Core", equipmentFilter, 60, level))
			}
		} else {
			workouts = append(workouts, g.GenerateFilteredStrength(AllMuscleGroups, equipmentFilter, 60, level))
			if frequency >= 2 {
				workouts = append(workouts, g.GenerateFilteredStrength("Gambe", equipmentFilter, 60, level))
			}
			if frequency >= 3 {
				workouts = append(workouts, g.GenerateFilteredStrength("Petto", equipmentFilter, 60, level))
			}
		}
	case WeeklyGoalWeight:
		for i := 0; i < frequency; i++ {
			if i%2 == 0 {
				workouts = append(workouts, g.Generate(CategoryHIIT, 45, Filters{}, level, false))
			} else {
				workouts = append(workouts, g.GenerateFilteredStrength(AllMuscleGroups, equipmentFilter, 45, level))
			}
		}
	case WeeklyGoalEndurance:
		for i := 0; i < frequency; i++ {
			workouts = append(workouts, g.Generate(CategoryCardio, 45, Filters{}, level, false))
		}
	case WeeklyGoalTone:
		for i := 0; i < frequency; i++ {
			if i%2 == 0 {
				workouts = append(workouts, g.GenerateFilteredStrength(AllMuscleGroups, equipmentFilter, 45, level))
			} else {
				workouts = append(workouts, g.Generate(CategoryMobility, 30, Filters{}, level, false))
			}
		}
	default:
		for i := 0; i < frequency; i++ {
			workouts = append(workouts, g.GenerateFilteredStrength(AllMuscleGroups, equipmentFilter, 45, level))
		}
	}

	return workouts
}

func (g *Generator) explain(ctx context.Context, plan *models.WorkoutPlan, explainer Explainer) string {
	if explainer != nil {
		text, err := explainer.Explain(ctx, plan)
		if err == nil && text != "" {
			return text
		}
		if err != nil {
			g.logger.WithError(err).Warn("plan explanation fallback", map[string]interface{}{
				"goal": plan.Goal,
			})
		}
	}
	return fmt.Sprintf(
		"Piano %s su %d giorni a settimana, costruito sul tuo livello. Segui l'ordine dei giorni e rispetta i recuperi indicati.",
		plan.Goal, plan.Frequency)
}
