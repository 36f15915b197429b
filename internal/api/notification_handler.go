package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "performance-prime/internal/common/errors"
	"performance-prime/internal/common/logger"
	"performance-prime/internal/common/validation"
	"performance-prime/internal/models"
	"performance-prime/internal/notify"
)

// ScheduledStore is the reminder store surface the API needs.
type ScheduledStore interface {
	Create(ctx context.Context, n *models.ScheduledNotification) error
	ListByProfessional(ctx context.Context, professionalID string) ([]models.ScheduledNotification, error)
	Cancel(ctx context.Context, id string) error
}

// FeedStore is the in-app feed surface the API needs.
type FeedStore interface {
	ListByProfessional(ctx context.Context, professionalID string) ([]models.LiveNotification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, professionalID string) (int64, error)
}

// NotificationHandler serves reminder scheduling and the feed.
type NotificationHandler struct {
	scheduled ScheduledStore
	feed      FeedStore
	logger    logger.Logger
}

func NewNotificationHandler(scheduled ScheduledStore, feed FeedStore, log logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		scheduled: scheduled,
		feed:      feed,
		logger:    log.WithFields(map[string]interface{}{"handler": "notifications"}),
	}
}

type scheduleRequest struct {
	ProfessionalID string          `json:"professional_id"`
	Title          string          `json:"title"`
	Message        string          `json:"message"`
	Type           string          `json:"type"`
	Data           json.RawMessage `json:"data"`
	ScheduledAt    string          `json:"scheduled_at"`
	EmailTo        string          `json:"email_to"`
	PushTarget     string          `json:"push_target"`
}

// Schedule creates a pending reminder.
func (h *NotificationHandler) Schedule(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		respondError(c, h.logger, apperrors.NewValidationError(err.Error()))
		return
	}

	var document map[string]interface{}
	if err := json.Unmarshal(raw, &document); err != nil {
		respondError(c, h.logger, apperrors.NewValidationError("invalid JSON body"))
		return
	}
	if err := validation.Validate("schedule_notification", document); err != nil {
		respondError(c, h.logger, apperrors.NewValidationError(err.Error()))
		return
	}

	var req scheduleRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		respondError(c, h.logger, apperrors.NewValidationError("invalid JSON body"))
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		respondError(c, h.logger, apperrors.NewValidationError("scheduled_at must be RFC 3339"))
		return
	}

	n := &models.ScheduledNotification{
		ProfessionalID: req.ProfessionalID,
		Title:          req.Title,
		Message:        req.Message,
		Type:           req.Type,
		Data:           req.Data,
		ScheduledAt:    scheduledAt,
		EmailTo:        req.EmailTo,
		PushTarget:     req.PushTarget,
	}
	if err := h.scheduled.Create(c.Request.Context(), n); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, n)
}

// ListScheduled returns a professional's reminders.
func (h *NotificationHandler) ListScheduled(c *gin.Context) {
	professionalID := c.Query("professional_id")
	if professionalID == "" {
		respondError(c, h.logger, apperrors.NewValidationError("professional_id is required"))
		return
	}

	list, err := h.scheduled.ListByProfessional(c.Request.Context(), professionalID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if status := c.Query("status"); status != "" {
		filtered := make([]models.ScheduledNotification, 0, len(list))
		for _, n := range list {
			if n.Status == status {
				filtered = append(filtered, n)
			}
		}
		list = filtered
	}
	if list == nil {
		list = []models.ScheduledNotification{}
	}
	c.JSON(http.StatusOK, list)
}

// CancelScheduled retires a pending reminder.
func (h *NotificationHandler) CancelScheduled(c *gin.Context) {
	if err := h.scheduled.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// ListFeed returns the feed, grouped when ?grouped=true.
func (h *NotificationHandler) ListFeed(c *gin.Context) {
	professionalID := c.Query("professional_id")
	if professionalID == "" {
		respondError(c, h.logger, apperrors.NewValidationError("professional_id is required"))
		return
	}

	feed, err := h.feed.ListByProfessional(c.Request.Context(), professionalID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if c.Query("grouped") == "true" {
		entries := notify.Group(feed, notify.DefaultGroupWindowHours)
		if entries == nil {
			entries = []notify.FeedEntry{}
		}
		c.JSON(http.StatusOK, entries)
		return
	}

	if feed == nil {
		feed = []models.LiveNotification{}
	}
	c.JSON(http.StatusOK, feed)
}

// MarkRead marks one feed entry read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.feed.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "read"})
}

// MarkAllRead marks a professional's whole feed read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	professionalID := c.Query("professional_id")
	if professionalID == "" {
		respondError(c, h.logger, apperrors.NewValidationError("professional_id is required"))
		return
	}

	updated, err := h.feed.MarkAllRead(c.Request.Context(), professionalID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
