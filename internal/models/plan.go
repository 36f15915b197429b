package models

import "time"

// Training levels and plan kinds.
const (
	LevelBeginner     = "principiante"
	LevelIntermediate = "intermedio"
	LevelAdvanced     = "avanzato"

	PlanTypeDaily  = "daily"
	PlanTypeWeekly = "weekly"
)

// Exercise is a catalog entry. The catalog is static and loaded in
// process; MediaKey points to the demonstration clip resolved through
// the media cache.
type Exercise struct {
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	MuscleGroup  string   `json:"muscleGroup"`
	Equipment    []string `json:"equipment"`
	Difficulty   string   `json:"difficulty"`
	DurationBand string   `json:"durationBand,omitempty"`
	MediaKey     string   `json:"mediaKey,omitempty"`
}

// WorkoutItem is an exercise instantiated inside a workout with its
// prescription.
type WorkoutItem struct {
	Exercise Exercise `json:"exercise"`
	Sets     int      `json:"sets"`
	Reps     string   `json:"reps"`
	RestSec  int      `json:"restSeconds"`
}

// WorkoutDay is one training day of a plan.
type WorkoutDay struct {
	Day         int           `json:"day"`
	Label       string        `json:"label"`
	Focus       string        `json:"focus"`
	DurationMin int           `json:"durationMinutes"`
	Items       []WorkoutItem `json:"items"`
}

// WorkoutPlan is the persisted plan. At most one plan per user is
// active at a time.
type WorkoutPlan struct {
	ID          string       `json:"id" db:"id"`
	UserID      string       `json:"userId" db:"user_id"`
	Name        string       `json:"name" db:"name"`
	Type        string       `json:"type" db:"type"`
	Goal        string       `json:"goal" db:"goal"`
	Level       string       `json:"level" db:"level"`
	Frequency   int          `json:"frequency" db:"frequency"`
	Explanation string       `json:"explanation,omitempty" db:"explanation"`
	IsActive    bool         `json:"isActive" db:"is_active"`
	Days        []WorkoutDay `json:"days" db:"-"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
}

// TotalExercises counts items across all days.
func (p *WorkoutPlan) TotalExercises() int {
	total := 0
	for _, d := range p.Days {
		total += len(d.Items)
	}
	return total
}
