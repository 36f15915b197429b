package planner

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"performance-prime/internal/common/logger"
	"performance-prime/internal/models"
)

// Workout is a single generated session.
type Workout struct {
	Name        string
	Focus       string
	DurationMin int
	Items       []models.WorkoutItem
}

// Filters narrows the exercise pool for the generic generator. Only the
// strength category honors muscle group and equipment.
type Filters struct {
	MuscleGroup string
	Equipment   string
}

// Generator produces workouts from the static catalog. Randomness goes
// through a single guarded source so seeded runs are reproducible in
// tests.
type Generator struct {
	mu     sync.Mutex
	rng    *rand.Rand
	logger logger.Logger
}

func NewGenerator(log logger.Logger) *Generator {
	return newSeededGenerator(log, time.Now().UnixNano())
}

func newSeededGenerator(log logger.Logger, seed int64) *Generator {
	return &Generator{
		rng:    rand.New(rand.NewSource(seed)),
		logger: log.WithFields(map[string]interface{}{"component": "planner"}),
	}
}

func (g *Generator) intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Intn(n)
}

// shuffled returns a Fisher-Yates shuffled copy.
func (g *Generator) shuffled(pool []models.Exercise) []models.Exercise {
	out := make([]models.Exercise, len(pool))
	copy(out, pool)
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := len(out) - 1; i > 0; i-- {
		j := g.rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

var categoryLabels = map[string]string{
	CategoryCardio:   "Cardio",
	CategoryStrength: "Forza",
	CategoryHIIT:     "HIIT",
	CategoryMobility: "Mobilità",
}

var levelLabels = map[string]string{
	models.LevelBeginner:     "Principiante",
	models.LevelIntermediate: "Intermedio",
	models.LevelAdvanced:     "Avanzato",
}

// Generate builds a session for a category and target length. Quick
// mode ignores the level rules and emits the fixed 10 minute recipe.
func (g *Generator) Generate(category string, totalMinutes int, filters Filters, level string, quickMode bool) Workout {
	lvl := NormalizeLevel(level)
	rules, ok := workoutRules[category]
	if !ok {
		category = CategoryStrength
		rules = workoutRules[category]
	}
	rule := rules[lvl]

	var numExercises, workSec, restSec, sets int
	if quickMode {
		quick := quickModeRules[category]
		numExercises = quick.Exercises
		workSec = quick.WorkSec
		restSec = quick.RestSec
		sets = 1
	} else {
		numExercises = rule.MinExercises + g.intn(rule.MaxExercises-rule.MinExercises+1)
		workSec = rule.WorkSec
		restSec = rule.RestSec
		sets = rule.Sets
	}

	pool := g.poolFor(category, filters)
	shuffledPool := g.shuffled(pool)

	items := make([]models.WorkoutItem, 0, numExercises)
	for i := 0; i < numExercises && i < len(shuffledPool); i++ {
		items = append(items, models.WorkoutItem{
			Exercise: shuffledPool[i],
			Sets:     sets,
			Reps:     formatSeconds(workSec),
			RestSec:  restSec,
		})
	}

	modeSuffix := fmt.Sprintf(" (%d min)", totalMinutes)
	if quickMode {
		modeSuffix = " (Quick 10min)"
	}
	levelSuffix := ""
	if lvl != models.LevelIntermediate {
		levelSuffix = " - " + levelLabels[lvl]
	}

	w := Workout{
		Name:        categoryLabels[category] + levelSuffix + modeSuffix,
		Focus:       categoryLabels[category],
		DurationMin: totalMinutes,
		Items:       items,
	}
	g.finalize(&w, lvl)
	return w
}

func (g *Generator) poolFor(category string, filters Filters) []models.Exercise {
	if category == CategoryStrength && (filters.MuscleGroup != "" || filters.Equipment != "") {
		return filterStrength(filters.MuscleGroup, filters.Equipment)
	}

	names := categoryPools[category]
	pool := make([]models.Exercise, len(names))
	for i, name := range names {
		pool[i] = models.Exercise{Name: name, Category: category}
	}
	return pool
}

func filterStrength(muscleGroup, equipment string) []models.Exercise {
	var out []models.Exercise
	for _, ex := range strengthCatalog {
		if muscleGroup != "" && muscleGroup != AllMuscleGroups && ex.MuscleGroup != muscleGroup {
			continue
		}
		if equipment != "" && equipment != AllEquipment && !hasEquipment(ex, equipment) {
			continue
		}
		out = append(out, ex)
	}
	if len(out) == 0 {
		return StrengthCatalog()
	}
	return out
}

func hasEquipment(ex models.Exercise, equipment string) bool {
	for _, e := range ex.Equipment {
		if e == equipment {
			return true
		}
	}
	return false
}

// GenerateFilteredStrength builds a strength circuit narrowed by muscle
// group and equipment. The exercise count is derived from the session
// length, floored at 8 and clamped to the pool and the level cap.
func (g *Generator) GenerateFilteredStrength(muscleGroup, equipment string, totalMinutes int, level string) Workout {
	lvl := NormalizeLevel(level)
	pool := filterStrength(muscleGroup, equipment)
	band := intensityBands[CategoryStrength][bandForMinutes(totalMinutes)]

	target := (totalMinutes * 60) / (band.workSec + band.restSec)
	count := maxInt(8, minInt(target, len(pool)))

	selected := g.shuffled(pool)
	if count < len(selected) {
		selected = selected[:count]
	}

	sets := workoutRules[CategoryStrength][lvl].Sets
	items := make([]models.WorkoutItem, len(selected))
	for i, ex := range selected {
		items[i] = models.WorkoutItem{
			Exercise: ex,
			Sets:     sets,
			Reps:     formatSeconds(band.workSec),
			RestSec:  band.restSec,
		}
	}

	focus := muscleGroup
	if muscleGroup == AllMuscleGroups || muscleGroup == "" {
		focus = "Total Body"
	}
	equipmentName := equipment
	if equipment == AllEquipment || equipment == "" {
		equipmentName = "Misto"
	}

	w := Workout{
		Name:        fmt.Sprintf("Forza %s - %s (%d min)", focus, equipmentName, totalMinutes),
		Focus:       focus,
		DurationMin: totalMinutes,
		Items:       items,
	}
	g.finalize(&w, lvl)
	return w
}

// GenerateFilteredHIIT builds a HIIT circuit narrowed by duration band
// and difficulty. AllDurationBands and AllLevels act as wildcards; when
// the filter empties the pool the full catalog backs it up.
func (g *Generator) GenerateFilteredHIIT(durationBand, level string, totalMinutes int) Workout {
	lvl := NormalizeLevel(level)

	var pool []models.Exercise
	for _, ex := range hiitCatalog {
		if durationBand != "" && durationBand != AllDurationBands && ex.DurationBand != durationBand {
			continue
		}
		if level != "" && level != AllLevels && ex.Difficulty != lvl {
			continue
		}
		pool = append(pool, ex)
	}
	if len(pool) == 0 {
		pool = append(pool, hiitCatalog...)
	}

	band := intensityBands[CategoryHIIT][bandForMinutes(totalMinutes)]
	target := (totalMinutes * 60) / (band.workSec + band.restSec)
	count := maxInt(8, minInt(target, len(pool)))

	selected := g.shuffled(pool)
	if count < len(selected) {
		selected = selected[:count]
	}

	items := make([]models.WorkoutItem, len(selected))
	for i, ex := range selected {
		items[i] = models.WorkoutItem{
			Exercise: ex,
			Sets:     1,
			Reps:     formatSeconds(band.workSec),
			RestSec:  band.restSec,
		}
	}

	w := Workout{
		Name:        fmt.Sprintf("HIIT %s (%d min)", levelLabels[lvl], totalMinutes),
		Focus:       "HIIT",
		DurationMin: totalMinutes,
		Items:       items,
	}
	g.finalize(&w, lvl)
	return w
}

// Recommended picks one of the curated starter sessions.
func (g *Generator) Recommended() Workout {
	recommendations := []struct {
		category string
		minutes  int
		name     string
	}{
		{CategoryHIIT, 20, "HIIT Total Body"},
		{CategoryCardio, 25, "Cardio Brucia Grassi"},
		{CategoryStrength, 30, "Forza Completa"},
		{CategoryMobility, 15, "Mobilità Dinamica"},
	}

	pick := recommendations[g.intn(len(recommendations))]
	w := g.Generate(pick.category, pick.minutes, Filters{}, models.LevelIntermediate, false)
	w.Name = pick.name
	return w
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
