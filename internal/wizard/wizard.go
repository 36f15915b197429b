package wizard

import (
	"strconv"
	"time"

	"performance-prime/internal/planner"
)

// Wizard step keys for the weekly plan creation flow, in order.
const (
	StepGoal        = "goal"
	StepLevel       = "level"
	StepDuration    = "duration_weeks"
	StepFrequency   = "frequency"
	StepEquipment   = "equipment"
	StepLimitations = "limitations"
	StepSummary     = "summary"
)

// Steps is the flow order. Limitations is the only optional answer.
var Steps = []string{
	StepGoal,
	StepLevel,
	StepDuration,
	StepFrequency,
	StepEquipment,
	StepLimitations,
	StepSummary,
}

// State is the wizard position plus collected answers. It is a value
// type: transitions return a new state.
type State struct {
	Step      int               `json:"step"`
	Answers   map[string]string `json:"answers"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func NewState() State {
	return State{Answers: map[string]string{}, UpdatedAt: time.Now().UTC()}
}

// CurrentStep names the step the user is on.
func (s State) CurrentStep() string {
	if s.Step < 0 || s.Step >= len(Steps) {
		return Steps[len(Steps)-1]
	}
	return Steps[s.Step]
}

// Next advances one step, clamped at the summary.
func Next(s State) State {
	if s.Step < len(Steps)-1 {
		s.Step++
	}
	s.UpdatedAt = time.Now().UTC()
	return s
}

// Previous goes back one step, clamped at the first.
func Previous(s State) State {
	if s.Step > 0 {
		s.Step--
	}
	s.UpdatedAt = time.Now().UTC()
	return s
}

// SetAnswer records an answer without moving the cursor. The answers
// map is copied so earlier snapshots stay intact.
func SetAnswer(s State, key, value string) State {
	answers := make(map[string]string, len(s.Answers)+1)
	for k, v := range s.Answers {
		answers[k] = v
	}
	answers[key] = value
	s.Answers = answers
	s.UpdatedAt = time.Now().UTC()
	return s
}

// Complete reports whether every required answer is present.
func (s State) Complete() bool {
	for _, step := range Steps {
		if step == StepLimitations || step == StepSummary {
			continue
		}
		if s.Answers[step] == "" {
			return false
		}
	}
	return true
}

// PlanParams converts the collected answers into generator parameters.
func (s State) PlanParams(userID string) planner.WeeklyParams {
	return planner.WeeklyParams{
		UserID:        userID,
		Goal:          s.Answers[StepGoal],
		Level:         s.Answers[StepLevel],
		DurationWeeks: atoiDefault(s.Answers[StepDuration], 4),
		Frequency:     atoiDefault(s.Answers[StepFrequency], 3),
		Equipment:     s.Answers[StepEquipment],
		Limitations:   s.Answers[StepLimitations],
	}
}

func atoiDefault(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
