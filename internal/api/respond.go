package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "performance-prime/internal/common/errors"
	"performance-prime/internal/common/logger"
)

// errLog keeps the recent classified failures of the API surface. The
// health endpoint consults it to report degradation.
var errLog = apperrors.NewHandler()

// respondError translates an error into a JSON response. StandardError
// carries the Italian user message; anything else goes through the
// classifier so unknown failures still produce a sane payload. Severity
// picks the log level.
func respondError(c *gin.Context, log logger.Logger, err error) {
	classified := errLog.Handle(err, apperrors.Context{
		Component: "api",
		Action:    c.FullPath(),
	})
	stdErr := classified.StandardError

	fields := map[string]interface{}{
		"code":    string(stdErr.Code),
		"path":    c.FullPath(),
		"details": stdErr.Details,
	}
	switch stdErr.Severity {
	case apperrors.SeverityLow:
		log.Debug(stdErr.Message, fields)
	case apperrors.SeverityMedium:
		log.Warn(stdErr.Message, fields)
	default:
		log.Error(stdErr.Message, fields)
	}

	c.JSON(statusFor(stdErr), gin.H{
		"error":     string(stdErr.Code),
		"message":   stdErr.UserMessage,
		"retryable": stdErr.Retryable,
	})
}

func statusFor(err apperrors.StandardError) int {
	switch err.Code {
	case apperrors.ErrCodeValidationFailed, apperrors.ErrCodeScheduleInPast:
		return http.StatusBadRequest
	case apperrors.ErrCodeAuthenticationError:
		return http.StatusUnauthorized
	case apperrors.ErrCodePlanNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeReminderNotPending:
		return http.StatusConflict
	}

	switch err.Type {
	case apperrors.TypeValidation:
		return http.StatusBadRequest
	case apperrors.TypeAuth:
		return http.StatusUnauthorized
	case apperrors.TypeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
