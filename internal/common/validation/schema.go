package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Schemas are kept as Go maps so they live next to the handlers that use
// them. Validate runs a JSON document (already decoded into a map) against
// one of the registered schemas.

var scheduleNotificationSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"professional_id", "title", "message", "scheduled_at"},
	"properties": map[string]interface{}{
		"professional_id": map[string]interface{}{"type": "string", "minLength": 1},
		"title":           map[string]interface{}{"type": "string", "minLength": 1, "maxLength": 200},
		"message":         map[string]interface{}{"type": "string", "minLength": 1, "maxLength": 2000},
		"type":            map[string]interface{}{"type": "string"},
		"data":            map[string]interface{}{"type": "object"},
		"scheduled_at":    map[string]interface{}{"type": "string", "format": "date-time"},
		"email_to":        map[string]interface{}{"type": "string"},
		"push_target":     map[string]interface{}{"type": "string"},
	},
	"additionalProperties": false,
}

var generatePlanSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"user_id", "level", "goal"},
	"properties": map[string]interface{}{
		"user_id": map[string]interface{}{"type": "string", "minLength": 1},
		"level": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"principiante", "intermedio", "avanzato"},
		},
		"goal": map[string]interface{}{"type": "string", "minLength": 1},
		"frequency": map[string]interface{}{
			"type":    "integer",
			"minimum": 1,
			"maximum": 7,
		},
		"duration_weeks": map[string]interface{}{
			"type":    "integer",
			"minimum": 1,
			"maximum": 52,
		},
		"equipment":   map[string]interface{}{"type": "string"},
		"limitations": map[string]interface{}{"type": "string"},
	},
	"additionalProperties": false,
}

var registry = map[string]map[string]interface{}{
	"schedule_notification": scheduleNotificationSchema,
	"generate_plan":         generatePlanSchema,
}

func Validate(schemaName string, document map[string]interface{}) error {
	schemaMap, ok := registry[schemaName]
	if !ok {
		return fmt.Errorf("unknown schema %q", schemaName)
	}

	schemaLoader := gojsonschema.NewGoLoader(schemaMap)
	documentLoader := gojsonschema.NewGoLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("request validation failed: %v", errs)
	}

	return nil
}
