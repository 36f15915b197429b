package planner

import "performance-prime/internal/models"

// levelRule carries the per-level knobs for a category.
type levelRule struct {
	MinExercises int
	MaxExercises int
	WorkSec      int
	RestSec      int
	Sets         int
}

// workoutRules is the validated progression table: category first, level
// second.
var workoutRules = map[string]map[string]levelRule{
	CategoryStrength: {
		models.LevelBeginner:     {MinExercises: 4, MaxExercises: 6, WorkSec: 30, RestSec: 60, Sets: 2},
		models.LevelIntermediate: {MinExercises: 5, MaxExercises: 8, WorkSec: 45, RestSec: 45, Sets: 3},
		models.LevelAdvanced:     {MinExercises: 7, MaxExercises: 10, WorkSec: 60, RestSec: 30, Sets: 4},
	},
	CategoryHIIT: {
		models.LevelBeginner:     {MinExercises: 4, MaxExercises: 5, WorkSec: 20, RestSec: 40, Sets: 2},
		models.LevelIntermediate: {MinExercises: 5, MaxExercises: 7, WorkSec: 30, RestSec: 30, Sets: 3},
		models.LevelAdvanced:     {MinExercises: 6, MaxExercises: 8, WorkSec: 40, RestSec: 20, Sets: 3},
	},
	CategoryCardio: {
		models.LevelBeginner:     {MinExercises: 3, MaxExercises: 4, WorkSec: 120, RestSec: 60, Sets: 1},
		models.LevelIntermediate: {MinExercises: 4, MaxExercises: 5, WorkSec: 180, RestSec: 45, Sets: 1},
		models.LevelAdvanced:     {MinExercises: 5, MaxExercises: 6, WorkSec: 240, RestSec: 30, Sets: 1},
	},
	CategoryMobility: {
		models.LevelBeginner:     {MinExercises: 4, MaxExercises: 5, WorkSec: 30, RestSec: 15, Sets: 1},
		models.LevelIntermediate: {MinExercises: 5, MaxExercises: 6, WorkSec: 45, RestSec: 10, Sets: 1},
		models.LevelAdvanced:     {MinExercises: 6, MaxExercises: 8, WorkSec: 60, RestSec: 10, Sets: 2},
	},
}

// quickRule is the fixed 10 minute session recipe, level independent.
type quickRule struct {
	Exercises int
	WorkSec   int
	RestSec   int
}

var quickModeRules = map[string]quickRule{
	CategoryStrength: {Exercises: 8, WorkSec: 40, RestSec: 20},
	CategoryHIIT:     {Exercises: 12, WorkSec: 30, RestSec: 20},
	CategoryCardio:   {Exercises: 5, WorkSec: 90, RestSec: 30},
	CategoryMobility: {Exercises: 10, WorkSec: 40, RestSec: 15},
}

// maxExercisesPerLevel caps the size of any single generated workout.
var maxExercisesPerLevel = map[string]int{
	models.LevelBeginner:     8,
	models.LevelIntermediate: 12,
	models.LevelAdvanced:     15,
}

// minVarietyRatio is the floor for distinct exercises over total items.
const minVarietyRatio = 0.3

// minWorkoutExercises is the smallest workout worth emitting.
const minWorkoutExercises = 2
