package planner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"performance-prime/internal/common/logger"
	"performance-prime/internal/models"
)

func testGenerator(t *testing.T) *Generator {
	t.Helper()
	return newSeededGenerator(logger.NewNoOpLogger(), 42)
}

func TestGenerate_RespectsLevelRules(t *testing.T) {
	tests := []struct {
		name     string
		category string
		level    string
		minEx    int
		maxEx    int
		sets     int
		restSec  int
	}{
		{"strength beginner", CategoryStrength, models.LevelBeginner, 4, 6, 2, 60},
		{"strength advanced", CategoryStrength, models.LevelAdvanced, 7, 10, 4, 30},
		{"hiit intermediate", CategoryHIIT, models.LevelIntermediate, 5, 7, 3, 30},
		{"cardio beginner", CategoryCardio, models.LevelBeginner, 3, 4, 1, 60},
		{"mobility advanced", CategoryMobility, models.LevelAdvanced, 6, 8, 2, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := testGenerator(t)
			w := g.Generate(tt.category, 30, Filters{}, tt.level, false)

			assert.GreaterOrEqual(t, len(w.Items), tt.minEx)
			assert.LessOrEqual(t, len(w.Items), tt.maxEx)
			for _, item := range w.Items {
				assert.Equal(t, tt.sets, item.Sets)
				assert.Equal(t, tt.restSec, item.RestSec)
			}
		})
	}
}

func TestGenerate_QuickMode(t *testing.T) {
	g := testGenerator(t)
	w := g.Generate(CategoryHIIT, 10, Filters{}, models.LevelAdvanced, true)

	assert.Len(t, w.Items, 12)
	assert.Contains(t, w.Name, "Quick 10min")
	for _, item := range w.Items {
		assert.Equal(t, 1, item.Sets)
		assert.Equal(t, "30s", item.Reps)
		assert.Equal(t, 20, item.RestSec)
	}
}

func TestGenerate_NameIncludesLevelWhenNotIntermediate(t *testing.T) {
	g := testGenerator(t)

	w := g.Generate(CategoryStrength, 30, Filters{}, models.LevelBeginner, false)
	assert.Contains(t, w.Name, "Principiante")

	w = g.Generate(CategoryStrength, 30, Filters{}, models.LevelIntermediate, false)
	assert.NotContains(t, w.Name, "Intermedio")
}

func TestGenerate_NoDuplicateExercises(t *testing.T) {
	g := testGenerator(t)
	for i := 0; i < 20; i++ {
		w := g.Generate(CategoryStrength, 45, Filters{}, models.LevelAdvanced, false)
		seen := map[string]bool{}
		for _, item := range w.Items {
			assert.False(t, seen[item.Exercise.Name], "duplicate %s", item.Exercise.Name)
			seen[item.Exercise.Name] = true
		}
	}
}

func TestGenerate_VarietyAcrossRuns(t *testing.T) {
	g := testGenerator(t)
	first := g.Generate(CategoryHIIT, 30, Filters{}, models.LevelIntermediate, false)
	different := false
	for i := 0; i < 10 && !different; i++ {
		next := g.Generate(CategoryHIIT, 30, Filters{}, models.LevelIntermediate, false)
		if len(next.Items) != len(first.Items) {
			different = true
			break
		}
		for j := range next.Items {
			if next.Items[j].Exercise.Name != first.Items[j].Exercise.Name {
				different = true
				break
			}
		}
	}
	assert.True(t, different, "repeated generations never varied")
}

func TestGenerateFilteredStrength_HonorsFilters(t *testing.T) {
	g := testGenerator(t)
	w := g.GenerateFilteredStrength("Petto", "Corpo libero", 30, models.LevelIntermediate)

	require.NotEmpty(t, w.Items)
	for _, item := range w.Items {
		assert.Equal(t, "Petto", item.Exercise.MuscleGroup)
		assert.Contains(t, item.Exercise.Equipment, "Corpo libero")
	}
	assert.True(t, strings.HasPrefix(w.Name, "Forza Petto - Corpo libero"))
}

func TestGenerateFilteredStrength_EmptyFilterFallsBack(t *testing.T) {
	g := testGenerator(t)
	w := g.GenerateFilteredStrength("Petto", "Kettlebell", 30, models.LevelIntermediate)
	// no chest kettlebell exercises exist, the whole catalog is used
	assert.NotEmpty(t, w.Items)
}

func TestGenerateFilteredStrength_LevelCaps(t *testing.T) {
	tests := []struct {
		level string
		cap   int
	}{
		{models.LevelBeginner, 8},
		{models.LevelIntermediate, 12},
		{models.LevelAdvanced, 15},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			g := testGenerator(t)
			// a long session would otherwise want far more exercises
			w := g.GenerateFilteredStrength(AllMuscleGroups, AllEquipment, 120, tt.level)
			assert.LessOrEqual(t, len(w.Items), tt.cap)
		})
	}
}

func TestGenerateFilteredHIIT_FiltersByLevel(t *testing.T) {
	g := testGenerator(t)
	w := g.GenerateFilteredHIIT(AllDurationBands, models.LevelBeginner, 20)

	require.NotEmpty(t, w.Items)
	for _, item := range w.Items {
		assert.Equal(t, models.LevelBeginner, item.Exercise.Difficulty)
	}
}

func TestGenerateFilteredHIIT_FiltersByDurationBand(t *testing.T) {
	g := testGenerator(t)
	w := g.GenerateFilteredHIIT(BandMedium, AllLevels, 20)

	require.NotEmpty(t, w.Items)
	for _, item := range w.Items {
		assert.Equal(t, BandMedium, item.Exercise.DurationBand)
	}
}

func TestGenerateFilteredHIIT_EmptyFilterFallsBack(t *testing.T) {
	g := testGenerator(t)
	// no advanced exercise lives in the short band, so the filter empties
	// and the full catalog backs the session
	w := g.GenerateFilteredHIIT(BandShort, models.LevelAdvanced, 20)

	require.NotEmpty(t, w.Items)
}

func TestVarietyRatio(t *testing.T) {
	items := []models.WorkoutItem{
		{Exercise: models.Exercise{Name: "Squats"}},
		{Exercise: models.Exercise{Name: "Squats"}},
		{Exercise: models.Exercise{Name: "Plank"}},
		{Exercise: models.Exercise{Name: "Affondi"}},
	}
	assert.InDelta(t, 0.75, VarietyRatio(items), 0.001)
	assert.Equal(t, 0.0, VarietyRatio(nil))
}

func TestValidate_Warnings(t *testing.T) {
	short := Workout{Items: []models.WorkoutItem{{Exercise: models.Exercise{Name: "Plank"}}}}
	warnings := Validate(short)
	assert.NotEmpty(t, warnings)

	monotone := Workout{Items: []models.WorkoutItem{
		{Exercise: models.Exercise{Name: "Squats"}},
		{Exercise: models.Exercise{Name: "Squats"}},
		{Exercise: models.Exercise{Name: "Squats"}},
		{Exercise: models.Exercise{Name: "Squats"}},
	}}
	warnings = Validate(monotone)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "variety")
}

func TestPrescribe_Table(t *testing.T) {
	tests := []struct {
		name     string
		exercise string
		level    string
		goal     string
		want     Prescription
	}{
		{"beginner hypertrophy isolation", "Curl con Manubri", "principiante", "aumentare massa", Prescription{Sets: 3, Reps: "8-10", RestSec: 90}},
		{"beginner hypertrophy compound", "Squat", "principiante", "aumentare massa", Prescription{Sets: 3, Reps: "8-10", RestSec: 105}},
		{"intermediate strength compound", "Panca Piana", "intermedio", "forza", Prescription{Sets: 4, Reps: "5-6", RestSec: 140}},
		{"advanced weight loss compound", "Affondi", "avanzato", "perdere peso", Prescription{Sets: 4, Reps: "15-18", RestSec: 60}},
		{"unknown level defaults intermediate", "Crunch", "boh", "resistenza", Prescription{Sets: 3, Reps: "15-18", RestSec: 45}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Prescribe(tt.exercise, tt.level, tt.goal))
		})
	}
}

func TestIsCompound(t *testing.T) {
	assert.True(t, IsCompound("Goblet Squat"))
	assert.True(t, IsCompound("Stacco da terra"))
	assert.True(t, IsCompound("Trazioni alla sbarra"))
	assert.False(t, IsCompound("Curl con Manubri"))
	assert.False(t, IsCompound("Alzate Laterali"))
}

func TestGoalBucket(t *testing.T) {
	assert.Equal(t, GoalStrength, GoalBucket("aumentare la forza"))
	assert.Equal(t, GoalHypertrophy, GoalBucket("Aumentare massa muscolare"))
	assert.Equal(t, GoalEndurance, GoalBucket("Migliorare resistenza"))
	assert.Equal(t, GoalWeightLoss, GoalBucket("Perdere peso"))
	assert.Equal(t, GoalHypertrophy, GoalBucket(""))
}

func TestNormalizeLevelScore(t *testing.T) {
	assert.Equal(t, models.LevelBeginner, NormalizeLevelScore(2))
	assert.Equal(t, models.LevelIntermediate, NormalizeLevelScore(5))
	assert.Equal(t, models.LevelAdvanced, NormalizeLevelScore(9))
}

func TestGenerateDaily_GoalRouting(t *testing.T) {
	g := testGenerator(t)

	lower := g.GenerateDaily(DailyLowerBody, "30-45", "Corpo libero")
	require.NotEmpty(t, lower.Items)
	for _, item := range lower.Items {
		assert.Equal(t, "Gambe", item.Exercise.MuscleGroup)
	}
	assert.Equal(t, "Lower Body - 30-45 min", lower.Name)

	cardio := g.GenerateDaily(DailyCardio, "15-20", "Palestra completa")
	assert.NotEmpty(t, cardio.Items)
	assert.Equal(t, "Cardio - 15-20 min", cardio.Name)

	unknown := g.GenerateDaily("Braccia d'acciaio", "30-45", "Corpo libero")
	assert.Equal(t, "Full Body - 30-45 min", unknown.Name)
}

func TestBuildDailyPlan(t *testing.T) {
	g := testGenerator(t)
	plan := g.BuildDailyPlan("user-1", DailyCore, "30-45", "Corpo libero")

	assert.Equal(t, models.PlanTypeDaily, plan.Type)
	assert.Equal(t, 1, plan.Frequency)
	require.Len(t, plan.Days, 1)
	assert.NotEmpty(t, plan.Days[0].Items)
}

type fakeExplainer struct {
	text string
	err  error
}

func (f *fakeExplainer) Explain(_ context.Context, _ *models.WorkoutPlan) (string, error) {
	return f.text, f.err
}

func TestGenerateWeekly_MassSplitByFrequency(t *testing.T) {
	g := testGenerator(t)
	plan := g.GenerateWeekly(context.Background(), WeeklyParams{
		UserID:        "user-1",
		Goal:          WeeklyGoalMass,
		Level:         "intermedio",
		DurationWeeks: 8,
		Frequency:     5,
		Equipment:     "Palestra completa",
	}, nil)

	require.Len(t, plan.Days, 4)
	focuses := []string{}
	for _, d := range plan.Days {
		focuses = append(focuses, d.Focus)
	}
	assert.Equal(t, []string{"Petto", "Schiena", "Gambe", "Spalle"}, focuses)
	assert.Equal(t, models.PlanTypeWeekly, plan.Type)
	assert.Contains(t, plan.Name, "8 settimane")
}

func TestGenerateWeekly_TruncatesToFrequency(t *testing.T) {
	g := testGenerator(t)
	plan := g.GenerateWeekly(context.Background(), WeeklyParams{
		Goal:      WeeklyGoalWeight,
		Level:     "principiante",
		Frequency: 3,
		Equipment: "Corpo libero",
	}, nil)

	require.Len(t, plan.Days, 3)
	// hiit and strength alternate starting with hiit
	assert.Equal(t, "HIIT", plan.Days[0].Focus)
	assert.Equal(t, "Total Body", plan.Days[1].Focus)
	assert.Equal(t, "HIIT", plan.Days[2].Focus)
}

func TestGenerateWeekly_EnduranceAllCardio(t *testing.T) {
	g := testGenerator(t)
	plan := g.GenerateWeekly(context.Background(), WeeklyParams{
		Goal:      WeeklyGoalEndurance,
		Level:     "avanzato",
		Frequency: 4,
		Equipment: "Corpo libero",
	}, nil)

	require.Len(t, plan.Days, 4)
	for _, d := range plan.Days {
		assert.Equal(t, "Cardio", d.Focus)
	}
}

func TestGenerateWeekly_DayLabels(t *testing.T) {
	g := testGenerator(t)
	plan := g.GenerateWeekly(context.Background(), WeeklyParams{
		Goal:      WeeklyGoalEndurance,
		Level:     "intermedio",
		Frequency: 3,
		Equipment: "Corpo libero",
	}, nil)

	require.Len(t, plan.Days, 3)
	assert.True(t, strings.HasPrefix(plan.Days[0].Label, "Lunedì"))
	assert.True(t, strings.HasPrefix(plan.Days[1].Label, "Mercoledì"))
	assert.True(t, strings.HasPrefix(plan.Days[2].Label, "Venerdì"))
}

func TestGenerateWeekly_ExplainerUsedAndFallback(t *testing.T) {
	g := testGenerator(t)

	plan := g.GenerateWeekly(context.Background(), WeeklyParams{
		Goal: WeeklyGoalTone, Level: "intermedio", Frequency: 2, Equipment: "Corpo libero",
	}, &fakeExplainer{text: "Testo motivazionale"})
	assert.Equal(t, "Testo motivazionale", plan.Explanation)

	plan = g.GenerateWeekly(context.Background(), WeeklyParams{
		Goal: WeeklyGoalTone, Level: "intermedio", Frequency: 2, Equipment: "Corpo libero",
	}, &fakeExplainer{err: errors.New("model unavailable")})
	assert.NotEmpty(t, plan.Explanation)
	assert.NotEqual(t, "Testo motivazionale", plan.Explanation)
}
