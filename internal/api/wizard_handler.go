package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "performance-prime/internal/common/errors"
	"performance-prime/internal/common/logger"
	"performance-prime/internal/planner"
	"performance-prime/internal/wizard"
)

// WizardHandler serves the plan setup wizard. State lives in the wizard
// store keyed by user; every mutation saves the new state back.
type WizardHandler struct {
	sessions  wizard.Store
	plans     PlanStore
	generator *planner.Generator
	explainer planner.Explainer
	logger    logger.Logger
}

func NewWizardHandler(sessions wizard.Store, plans PlanStore, gen *planner.Generator, explainer planner.Explainer, log logger.Logger) *WizardHandler {
	return &WizardHandler{
		sessions:  sessions,
		plans:     plans,
		generator: gen,
		explainer: explainer,
		logger:    log.WithFields(map[string]interface{}{"handler": "wizard"}),
	}
}

type wizardStateResponse struct {
	Step     int               `json:"step"`
	StepName string            `json:"step_name"`
	Answers  map[string]string `json:"answers"`
	Complete bool              `json:"complete"`
}

func wizardResponse(s wizard.State) wizardStateResponse {
	return wizardStateResponse{
		Step:     s.Step,
		StepName: s.CurrentStep(),
		Answers:  s.Answers,
		Complete: s.Complete(),
	}
}

func (h *WizardHandler) load(ctx context.Context, userID string) (wizard.State, error) {
	state, found, err := h.sessions.Load(ctx, userID)
	if err != nil {
		return wizard.State{}, err
	}
	if !found {
		state = wizard.NewState()
	}
	return state, nil
}

// GetState returns the user's wizard position and answers.
func (h *WizardHandler) GetState(c *gin.Context) {
	userID := c.Param("userId")
	state, err := h.load(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, wizardResponse(state))
}

type wizardAnswerRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value" binding:"required"`
}

// Answer records one answer and advances the wizard.
func (h *WizardHandler) Answer(c *gin.Context) {
	var req wizardAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, apperrors.NewValidationError(err.Error()))
		return
	}

	userID := c.Param("userId")
	state, err := h.load(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	state = wizard.Next(wizard.SetAnswer(state, req.Key, req.Value))
	if err := h.sessions.Save(c.Request.Context(), userID, state); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, wizardResponse(state))
}

// Back moves the wizard one step back.
func (h *WizardHandler) Back(c *gin.Context) {
	userID := c.Param("userId")
	state, err := h.load(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	state = wizard.Previous(state)
	if err := h.sessions.Save(c.Request.Context(), userID, state); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, wizardResponse(state))
}

// Complete turns the collected answers into a stored weekly plan and
// clears the session.
func (h *WizardHandler) Complete(c *gin.Context) {
	userID := c.Param("userId")
	state, err := h.load(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !state.Complete() {
		respondError(c, h.logger, apperrors.NewValidationError("wizard answers are incomplete"))
		return
	}

	plan := h.generator.GenerateWeekly(c.Request.Context(), state.PlanParams(userID), h.explainer)
	if err := h.plans.Create(c.Request.Context(), plan); err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.sessions.Clear(c.Request.Context(), userID); err != nil {
		h.logger.Warn("failed to clear wizard session", map[string]interface{}{
			"user_id": userID, "error": err.Error(),
		})
	}
	c.JSON(http.StatusCreated, plan)
}

// Reset discards the user's wizard session.
func (h *WizardHandler) Reset(c *gin.Context) {
	userID := c.Param("userId")
	if err := h.sessions.Clear(c.Request.Context(), userID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, wizardResponse(wizard.NewState()))
}
