package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "performance-prime/internal/common/errors"
	"performance-prime/internal/common/logger"
	"performance-prime/internal/common/validation"
	"performance-prime/internal/models"
	"performance-prime/internal/planner"
)

// PlanStore is the workout plan persistence surface the API needs.
type PlanStore interface {
	Create(ctx context.Context, p *models.WorkoutPlan) error
	ListByUser(ctx context.Context, userID string) ([]models.WorkoutPlan, error)
	Get(ctx context.Context, id string) (*models.WorkoutPlan, error)
	Activate(ctx context.Context, userID, planID string) error
	Delete(ctx context.Context, userID, planID string) error
}

// PlanHandler serves plan generation and management.
type PlanHandler struct {
	plans     PlanStore
	generator *planner.Generator
	explainer planner.Explainer
	logger    logger.Logger
}

func NewPlanHandler(plans PlanStore, gen *planner.Generator, explainer planner.Explainer, log logger.Logger) *PlanHandler {
	return &PlanHandler{
		plans:     plans,
		generator: gen,
		explainer: explainer,
		logger:    log.WithFields(map[string]interface{}{"handler": "plans"}),
	}
}

type dailyPlanRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	Goal      string `json:"goal" binding:"required"`
	Duration  string `json:"duration"`
	Equipment string `json:"equipment"`
}

// CreateDaily generates and stores a single-day plan.
func (h *PlanHandler) CreateDaily(c *gin.Context) {
	var req dailyPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, apperrors.NewValidationError(err.Error()))
		return
	}

	plan := h.generator.BuildDailyPlan(req.UserID, req.Goal, req.Duration, req.Equipment)
	if err := h.plans.Create(c.Request.Context(), plan); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

type weeklyPlanRequest struct {
	UserID      string `json:"user_id"`
	Goal        string `json:"goal"`
	Level       string `json:"level"`
	Weeks       int    `json:"duration_weeks"`
	Frequency   int    `json:"frequency"`
	Equipment   string `json:"equipment"`
	Limitations string `json:"limitations"`
}

// CreateWeekly generates and stores a multi-day plan.
func (h *PlanHandler) CreateWeekly(c *gin.Context) {
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
	if err := validation.Validate("generate_plan", document); err != nil {
		respondError(c, h.logger, apperrors.NewValidationError(err.Error()))
		return
	}

	var req weeklyPlanRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		respondError(c, h.logger, apperrors.NewValidationError("invalid JSON body"))
		return
	}

	plan := h.generator.GenerateWeekly(c.Request.Context(), planner.WeeklyParams{
		UserID:        req.UserID,
		Goal:          req.Goal,
		Level:         req.Level,
		DurationWeeks: req.Weeks,
		Frequency:     req.Frequency,
		Equipment:     req.Equipment,
		Limitations:   req.Limitations,
	}, h.explainer)
	if err := h.plans.Create(c.Request.Context(), plan); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// List returns a user's plans.
func (h *PlanHandler) List(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		respondError(c, h.logger, apperrors.NewValidationError("user_id is required"))
		return
	}

	plans, err := h.plans.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if plans == nil {
		plans = []models.WorkoutPlan{}
	}
	c.JSON(http.StatusOK, plans)
}

// Get returns one plan by id.
func (h *PlanHandler) Get(c *gin.Context) {
	plan, err := h.plans.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

type activateRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// Activate marks a plan active and deactivates the user's others.
func (h *PlanHandler) Activate(c *gin.Context) {
	var req activateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, apperrors.NewValidationError(err.Error()))
		return
	}

	if err := h.plans.Activate(c.Request.Context(), req.UserID, c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "active"})
}

// Delete removes a plan.
func (h *PlanHandler) Delete(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		respondError(c, h.logger, apperrors.NewValidationError("user_id is required"))
		return
	}

	if err := h.plans.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type generateWorkoutRequest struct {
	Category    string `json:"category" binding:"required"`
	Minutes     int    `json:"minutes"`
	Level       string `json:"level"`
	QuickMode   bool   `json:"quick_mode"`
	MuscleGroup string `json:"muscle_group"`
	Equipment   string `json:"equipment"`
}

// GenerateWorkout produces a one-off workout without storing it.
func (h *PlanHandler) GenerateWorkout(c *gin.Context) {
	var req generateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, apperrors.NewValidationError(err.Error()))
		return
	}

	workout := h.generator.Generate(req.Category, req.Minutes, planner.Filters{
		MuscleGroup: req.MuscleGroup,
		Equipment:   req.Equipment,
	}, req.Level, req.QuickMode)
	c.JSON(http.StatusOK, workout)
}
