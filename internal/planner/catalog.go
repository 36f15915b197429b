package planner

import "performance-prime/internal/models"

// Workout categories.
const (
	CategoryCardio   = "cardio"
	CategoryStrength = "strength"
	CategoryHIIT     = "hiit"
	CategoryMobility = "mobility"
)

// Muscle group and equipment wildcards used by the filtered generators.
const (
	AllMuscleGroups = "Tutti"
	AllEquipment    = "Tutte"
	AllLevels       = "Tutti"
)

// HIIT duration bands and their wildcard.
const (
	BandShort        = "5-10 min"
	BandMedium       = "15-20 min"
	BandLong         = "25-30 min"
	AllDurationBands = "Tutte"
)

// strengthCatalog is the detailed strength inventory. Every entry knows
// its muscle group and equipment so the filtered generator can narrow
// the pool.
var strengthCatalog = []models.Exercise{
	{Name: "Flessioni", Category: CategoryStrength, MuscleGroup: "Petto", Equipment: []string{"Corpo libero"}, Difficulty: models.LevelBeginner},
	{Name: "Pike Flessioni", Category: CategoryStrength, MuscleGroup: "Petto", Equipment: []string{"Corpo libero"}, Difficulty: models.LevelIntermediate},
	{Name: "Flessioni Inclinate", Category: CategoryStrength, MuscleGroup: "Petto", Equipment: []string{"Corpo libero"}, Difficulty: models.LevelBeginner},
	{Name: "Flessioni Declinate", Category: CategoryStrength, MuscleGroup: "Petto", Equipment: []string{"Corpo libero"}, Difficulty: models.LevelAdvanced},
	{Name: "Panca Piana", Category: CategoryStrength, MuscleGroup: "Petto", Equipment: []string{"Bilanciere"}, Difficulty: models.LevelIntermediate},
	{Name: "Panca Inclinata", Category: CategoryStrength, MuscleGroup: "Petto", Equipment: []string{"Bilanciere"}, Difficulty: models.LevelIntermediate},
	{Name: "Chest Press", Category: CategoryStrength, MuscleGroup: "Petto", Equipment: []string{"Manubri"}, Difficulty: models.LevelIntermediate},
	{Name: "Aperture", Category: CategoryStrength, MuscleGroup: "Petto", Equipment: []string{"Manubri"}, Difficulty: models.LevelIntermediate},

	{Name: "Superman", Category: CategoryStrength, MuscleGroup: "Schiena", Equipment: []string{"Corpo libero"}, Difficulty: models.LevelBeginner},
	{Name: "Remata", Category: CategoryStrength, MuscleGroup: "Schiena", Equipment: []string{"Elastici"}, Difficulty: models.LevelIntermediate},
	{Name: "Pull-ups", Category: CategoryStrength, MuscleGroup: "Schiena", Equipment: []string{"Corpo libero"}, Difficulty: models.LevelAdvanced},
	{Name: "Lat Machine", Category: CategoryStrength, MuscleGroup: "Schiena", Equipment: []string{"Bilanciere"}, Difficulty: models.LevelIntermediate},
	{Name: "Remata con Manubri", Category: CategoryStrength, MuscleGroup: "Schiena", Equipment: []string{"Manubri"}, Difficulty: models.LevelIntermediate},

	{Name: "Alzate Laterali", Category: CategoryStrength, MuscleGroup: "Spalle", Equipment: []string{"Manubri"}, Difficulty: models.LevelBeginner},
	{Name: "Alzate Frontali", Category: CategoryStrength, MuscleGroup: "Spalle", Equipment: []string{"Manubri"}, Difficulty: models.LevelBeginner},
	{Name: "Military Press", Category: CategoryStrength, MuscleGroup: "Spalle", Equipment: []string{"Bilanciere"}, Difficulty: models.LevelIntermediate},
	{Name: "Arnold Press", Category: CategoryStrength, MuscleGroup: "Spalle", Equipment: []string{"Manubri"}, Difficulty: models.LevelIntermediate},

	{Name: "Tricep Dips", Category: CategoryStrength, MuscleGroup: "Braccia", Equipment: []string{"Corpo libero"}, Difficulty: models.LevelIntermediate},
	{Name: "Dip sulla Sedia", Category: CategoryStrength, MuscleGroup: "Braccia", Equipment: []string{"Corpo libero"}, Difficulty: models.LevelBeginner},
	{Name: "Curl con Manubri", Category: CategoryStrength, MuscleGroup: "Braccia", Equipment: []string{"Manubri"}, Difficulty: models.LevelBeginner},
	{Name: "French Press", Category: CategoryStrength, MuscleGroup: "Braccia", Equipment: []string{"Manubri"}, Difficulty: models.LevelIntermediate},
	{Name: "Hammer Curl", Category: CategoryStrength, MuscleGroup: "Braccia", Equipment: []string{"Manubri"}, Difficulty: models.LevelBeginner},

	{Name: "Squats", Category: CategoryStrength, MuscleGroup: "Gambe", Equipment: []string{"Corpo libero"}, Difficulty: models.LevelBeginner},
	{Name: "Affondi", Category: CategoryStrength, MuscleGroup: "Gambe", Equipment: []string{"Corpo libero"}, Difficulty: models.LevelIntermediate},
	{Name: "Squat con Manubri", Category: CategoryStrength, MuscleGroup: "Gambe", Equipment: []string{"Manubri"}, Difficulty: models.LevelIntermediate},
	{Name: "Stacchi", Category: CategoryStrength, MuscleGroup: "Gambe", Equipment: []string{"Bilanciere"}, Difficulty: models.LevelIntermediate},
	{Name: "Single Leg Deadlift", Category: CategoryStrength, MuscleGroup: "Gambe", Equipment: []string{"Corpo libero"}, Difficulty: models.LevelIntermediate},
	{Name: "Calf Raises", Category: CategoryStrength, MuscleGroup: "Gambe", Equipment: []string{"Corpo libero"}, Difficulty: models.LevelBeginner},
	{Name: "Goblet Squat", Category: CategoryStrength, MuscleGroup: "Gambe", Equipment: []string{"Kettlebell"}, Difficulty: models.LevelIntermediate},
	{Name: "Swing", Category: CategoryStrength, MuscleGroup: "Gambe", Equipment: []string{"Kettlebell"}, Difficulty: models.LevelIntermediate},

	{Name: "Plank", Category: CategoryStrength, MuscleGroup: "Core", Equipment: []string{"Corpo libero"}, Difficulty: models.LevelBeginner},
	{Name: "Side Plank", Category: CategoryStrength, MuscleGroup: "Core", Equipment: []string{"Corpo libero"}, Difficulty: models.LevelIntermediate},
	{Name: "Russian Twists", Category: CategoryStrength, MuscleGroup: "Core", Equipment: []string{"Corpo libero"}, Difficulty: models.LevelIntermediate},
	{Name: "Mountain Climbers", Category: CategoryStrength, MuscleGroup: "Core", Equipment: []string{"Corpo libero"}, Difficulty: models.LevelIntermediate},
	{Name: "Crunch", Category: CategoryStrength, MuscleGroup: "Core", Equipment: []string{"Corpo libero"}, Difficulty: models.LevelBeginner},
	{Name: "Leg Raises", Category: CategoryStrength, MuscleGroup: "Core", Equipment: []string{"Corpo libero"}, Difficulty: models.LevelIntermediate},
	{Name: "Dead Bug", Category: CategoryStrength, MuscleGroup: "Core", Equipment: []string{"Corpo libero"}, Difficulty: models.LevelBeginner},
	{Name: "Glute Bridges", Category: CategoryStrength, MuscleGroup: "Core", Equipment: []string{"Corpo libero"}, Difficulty: models.LevelBeginner},
}

// hiitCatalog is graded by level, and every entry carries the duration
// band of the session it was designed for so the filtered generator can
// narrow by both.
var hiitCatalog = []models.Exercise{
	{Name: "Jumping Jacks", Category: CategoryHIIT, Difficulty: models.LevelBeginner, DurationBand: BandShort},
	{Name: "Saltelli Laterali", Category: CategoryHIIT, Difficulty: models.LevelBeginner, DurationBand: BandShort},
	{Name: "Sprint sul posto", Category: CategoryHIIT, Difficulty: models.LevelBeginner, DurationBand: BandShort},
	{Name: "Calci ai Glutei", Category: CategoryHIIT, Difficulty: models.LevelBeginner, DurationBand: BandShort},
	{Name: "Passi Laterali", Category: CategoryHIIT, Difficulty: models.LevelBeginner, DurationBand: BandShort},
	{Name: "Ginocchia al Petto", Category: CategoryHIIT, Difficulty: models.LevelBeginner, DurationBand: BandShort},

	{Name: "Jump Squats", Category: CategoryHIIT, Difficulty: models.LevelIntermediate, DurationBand: BandMedium},
	{Name: "Burpees", Category: CategoryHIIT, Difficulty: models.LevelIntermediate, DurationBand: BandMedium},
	{Name: "Scalatori", Category: CategoryHIIT, Difficulty: models.LevelIntermediate, DurationBand: BandMedium},
	{Name: "Saltelli in Plank", Category: CategoryHIIT, Difficulty: models.LevelIntermediate, DurationBand: BandMedium},
	{Name: "Saltelli al Petto", Category: CategoryHIIT, Difficulty: models.LevelIntermediate, DurationBand: BandMedium},
	{Name: "Spinte in Squat", Category: CategoryHIIT, Difficulty: models.LevelIntermediate, DurationBand: BandMedium},
	{Name: "Affondi Saltati", Category: CategoryHIIT, Difficulty: models.LevelIntermediate, DurationBand: BandMedium},
	{Name: "Mountain Climbers", Category: CategoryHIIT, Difficulty: models.LevelIntermediate, DurationBand: BandMedium},

	{Name: "Burpees esplosivi", Category: CategoryHIIT, Difficulty: models.LevelAdvanced, DurationBand: BandLong},
	{Name: "Saltelli a Stella", Category: CategoryHIIT, Difficulty: models.LevelAdvanced, DurationBand: BandLong},
	{Name: "Pattinatori Veloce", Category: CategoryHIIT, Difficulty: models.LevelAdvanced, DurationBand: BandLong},
	{Name: "Power Punches", Category: CategoryHIIT, Difficulty: models.LevelAdvanced, DurationBand: BandLong},
	{Name: "Explosive Flessioni", Category: CategoryHIIT, Difficulty: models.LevelAdvanced, DurationBand: BandLong},
	{Name: "Passi Rapidi", Category: CategoryHIIT, Difficulty: models.LevelAdvanced, DurationBand: BandLong},
	{Name: "Onde con le Braccia", Category: CategoryHIIT, Difficulty: models.LevelAdvanced, DurationBand: BandLong},
}

// categoryPools are the flat name pools used by the generic generator.
var categoryPools = map[string][]string{
	CategoryCardio: {
		"Jumping Jacks", "Saltelli Laterali", "Burpees", "Scalatori",
		"Sprint sul posto", "Jump Squats", "Saltelli in Plank", "Saltelli da Pattinatore",
		"Movimento Incrociato", "Calci ai Glutei", "Passi Laterali", "Saltelli al Petto",
		"Box Steps", "Camminata dell'Orso", "Saltelli a Rana", "Ginocchia al Petto",
	},
	CategoryStrength: {
		"Flessioni", "Plank", "Pike Flessioni", "Tricep Dips",
		"Squats", "Affondi", "Sedia al Muro", "Glute Bridges",
		"Superman", "Controllo Core", "Russian Twists", "Single Leg Deadlift",
		"Dip sulla Sedia", "Calf Raises", "Side Plank", "Apertura Inversa",
	},
	CategoryHIIT: {
		"Sprint sul posto", "Jump Squats", "Burpees esplosivi", "Saltelli Laterali",
		"Scalatori", "Saltelli in Plank", "Saltelli al Petto", "Spinte in Squat",
		"Passi Veloce", "Explosive Flessioni", "Affondi Saltati", "Saltelli a Stella",
		"Pattinatori Veloce", "Power Punches", "Passi Rapidi", "Onde con le Braccia",
	},
	CategoryMobility: {
		"Gatto e Mucca", "Cerchi con i Fianchi", "Rotazioni delle Spalle", "Oscillazioni delle Gambe",
		"Cerchi con le Braccia", "Rotazioni del Collo", "Cerchi con le Caviglie", "Giro del Busto",
		"Allungamento Posteriori", "Allungamento Quadricipiti", "Apertura del Petto", "Flessione Laterale",
		"Piegamento in Avanti", "Posizione del Bambino", "Posizione del Cobra", "Allungamento Fianchi",
	},
}

// intensityBand holds work/rest seconds for a session-length band.
type intensityBand struct {
	workSec int
	restSec int
}

// intensityBands maps category to short (<=15 min), medium (<=30 min)
// and long bands.
var intensityBands = map[string]map[string]intensityBand{
	CategoryCardio: {
		"short":  {workSec: 20, restSec: 10},
		"medium": {workSec: 30, restSec: 10},
		"long":   {workSec: 45, restSec: 15},
	},
	CategoryStrength: {
		"short":  {workSec: 30, restSec: 15},
		"medium": {workSec: 45, restSec: 15},
		"long":   {workSec: 60, restSec: 20},
	},
	CategoryHIIT: {
		"short":  {workSec: 20, restSec: 10},
		"medium": {workSec: 30, restSec: 10},
		"long":   {workSec: 40, restSec: 15},
	},
	CategoryMobility: {
		"short":  {workSec: 45, restSec: 10},
		"medium": {workSec: 60, restSec: 10},
		"long":   {workSec: 90, restSec: 15},
	},
}

func bandForMinutes(totalMinutes int) string {
	switch {
	case totalMinutes <= 15:
		return "short"
	case totalMinutes <= 30:
		return "medium"
	default:
		return "long"
	}
}

// StrengthCatalog exposes a copy of the strength inventory for callers
// that need to browse it.
func StrengthCatalog() []models.Exercise {
	out := make([]models.Exercise, len(strengthCatalog))
	copy(out, strengthCatalog)
	return out
}
