// Package errors provides the standardized error taxonomy shared by the API
// layer, the dispatcher and the background services.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeNotificationInsertFailed ErrorCode = "NOTIFICATION_INSERT_FAILED"
	ErrCodeNotificationSendFailed   ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeReminderNotPending       ErrorCode = "REMINDER_NOT_PENDING"
	ErrCodeScheduleInPast           ErrorCode = "SCHEDULE_IN_PAST"

	ErrCodePlanGenerationFailed ErrorCode = "PLAN_GENERATION_FAILED"
	ErrCodePlanNotFound         ErrorCode = "PLAN_NOT_FOUND"

	ErrCodeAITimeout         ErrorCode = "AI_TIMEOUT"
	ErrCodeAISynthesisFailed ErrorCode = "AI_SYNTHESIS_FAILED"

	ErrCodeMediaResolveFailed ErrorCode = "MEDIA_RESOLVE_FAILED"

	ErrCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	ErrCodeAuthenticationError ErrorCode = "AUTHENTICATION_ERROR"
)

// ErrorType buckets an error for the user-facing layer.
type ErrorType string

const (
	TypeNetwork    ErrorType = "network"
	TypeAuth       ErrorType = "auth"
	TypeValidation ErrorType = "validation"
	TypeServer     ErrorType = "server"
	TypeUnknown    ErrorType = "unknown"
)

// Severity levels order the operational impact of an error.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// StandardError is the structured application error used across the service.
type StandardError struct {
	Code        ErrorCode `json:"code"`
	Type        ErrorType `json:"type"`
	Severity    Severity  `json:"severity"`
	Message     string    `json:"message"`
	Details     string    `json:"details,omitempty"`
	UserMessage string    `json:"userMessage"`
	Retryable   bool      `json:"retryable"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// Constructors
// ==========================

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:        ErrCodeQueryExecutionFailed,
		Type:        TypeServer,
		Severity:    SeverityHigh,
		Message:     "Database query execution error",
		Details:     fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		UserMessage: "Problema del server. Riprova tra poco.",
		Retryable:   true,
		Timestamp:   time.Now().UTC(),
	}
}

// NewNotificationInsertFailedError creates a retryable live-notification insert error.
func NewNotificationInsertFailedError(reminderID string, err error) *StandardError {
	return &StandardError{
		Code:        ErrCodeNotificationInsertFailed,
		Type:        TypeServer,
		Severity:    SeverityHigh,
		Message:     "Live notification insert failed",
		Details:     fmt.Sprintf("reminderId: %s, error: %s", reminderID, err.Error()),
		UserMessage: "Problema del server. Riprova tra poco.",
		Retryable:   true,
		Timestamp:   time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable delivery channel error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:        ErrCodeNotificationSendFailed,
		Type:        TypeServer,
		Severity:    SeverityMedium,
		Message:     "Notification delivery failed",
		Details:     fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		UserMessage: "Invio notifica non riuscito. Riprova tra poco.",
		Retryable:   true,
		Timestamp:   time.Now().UTC(),
	}
}

// NewReminderNotPendingError creates a non-retryable state conflict error.
func NewReminderNotPendingError(reminderID string) *StandardError {
	return &StandardError{
		Code:        ErrCodeReminderNotPending,
		Type:        TypeValidation,
		Severity:    SeverityLow,
		Message:     "Reminder is no longer pending",
		Details:     fmt.Sprintf("reminderId: %s", reminderID),
		UserMessage: "Il promemoria è già stato inviato o annullato.",
		Retryable:   false,
		Timestamp:   time.Now().UTC(),
	}
}

// NewScheduleInPastError creates a non-retryable validation error.
func NewScheduleInPastError(scheduledFor time.Time) *StandardError {
	return &StandardError{
		Code:        ErrCodeScheduleInPast,
		Type:        TypeValidation,
		Severity:    SeverityLow,
		Message:     "Scheduled time must be in the future",
		Details:     fmt.Sprintf("scheduledFor: %s", scheduledFor.Format(time.RFC3339)),
		UserMessage: "La data programmata deve essere nel futuro.",
		Retryable:   false,
		Timestamp:   time.Now().UTC(),
	}
}

// NewPlanGenerationFailedError creates a non-retryable generation error.
func NewPlanGenerationFailedError(details string) *StandardError {
	return &StandardError{
		Code:        ErrCodePlanGenerationFailed,
		Type:        TypeServer,
		Severity:    SeverityMedium,
		Message:     "Workout plan generation failed",
		Details:     details,
		UserMessage: "Generazione del piano non riuscita. Riprova tra poco.",
		Retryable:   false,
		Timestamp:   time.Now().UTC(),
	}
}

// NewPlanNotFoundError creates a non-retryable not-found error.
func NewPlanNotFoundError(planID string) *StandardError {
	return &StandardError{
		Code:        ErrCodePlanNotFound,
		Type:        TypeValidation,
		Severity:    SeverityLow,
		Message:     "Workout plan not found",
		Details:     fmt.Sprintf("planId: %s", planID),
		UserMessage: "Piano non trovato.",
		Retryable:   false,
		Timestamp:   time.Now().UTC(),
	}
}

// NewAITimeoutError creates a retryable AI completion timeout error.
func NewAITimeoutError() *StandardError {
	return &StandardError{
		Code:        ErrCodeAITimeout,
		Type:        TypeNetwork,
		Severity:    SeverityMedium,
		Message:     "AI completion timeout",
		Details:     "completion call exceeded timeout threshold",
		UserMessage: "La richiesta sta impiegando troppo tempo. Riprova tra poco.",
		Retryable:   true,
		Timestamp:   time.Now().UTC(),
	}
}

// NewAISynthesisFailedError creates a retryable AI completion error.
func NewAISynthesisFailedError(err error) *StandardError {
	return &StandardError{
		Code:        ErrCodeAISynthesisFailed,
		Type:        TypeServer,
		Severity:    SeverityMedium,
		Message:     "AI completion error",
		Details:     err.Error(),
		UserMessage: "Ops! Qualcosa è andato storto. Riprova tra poco.",
		Retryable:   true,
		Timestamp:   time.Now().UTC(),
	}
}

// NewMediaResolveFailedError creates a retryable media resolution error.
func NewMediaResolveFailedError(key string, err error) *StandardError {
	return &StandardError{
		Code:        ErrCodeMediaResolveFailed,
		Type:        TypeNetwork,
		Severity:    SeverityLow,
		Message:     fmt.Sprintf("Media resolution failed for key %s", key),
		Details:     err.Error(),
		UserMessage: "Video non disponibile al momento. Riprova tra poco.",
		Retryable:   true,
		Timestamp:   time.Now().UTC(),
	}
}

// NewValidationError creates a non-retryable validation error.
func NewValidationError(details string) *StandardError {
	return &StandardError{
		Code:        ErrCodeValidationFailed,
		Type:        TypeValidation,
		Severity:    SeverityLow,
		Message:     "Request validation failed",
		Details:     details,
		UserMessage: "Dati inseriti non validi. Controlla e riprova.",
		Retryable:   false,
		Timestamp:   time.Now().UTC(),
	}
}

// NewAuthenticationError creates a non-retryable auth error.
func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:        ErrCodeAuthenticationError,
		Type:        TypeAuth,
		Severity:    SeverityCritical,
		Message:     "Authentication failed",
		Details:     details,
		UserMessage: "Problema di autenticazione. Effettua di nuovo l'accesso.",
		Retryable:   false,
		Timestamp:   time.Now().UTC(),
	}
}

// ==========================
// Utility functions
// ==========================

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeNotificationInsertFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeAISynthesisFailed:
		return 3

	case ErrCodeQueryTimeout,
		ErrCodeAITimeout:
		return 2

	default:
		return 0
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the coarse category of an error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "NOTIFICATION") || strings.Contains(codeStr, "REMINDER") || strings.Contains(codeStr, "SCHEDULE"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "PLAN"):
		return "PLANNER"
	case strings.Contains(codeStr, "AI"):
		return "AI"
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "AUTH"):
		return "AUTH"
	default:
		return "OTHER"
	}
}
