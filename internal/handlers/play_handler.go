package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/phonics-service/internal/models"
	"github.com/SAP-F-2025/phonics-service/internal/playback"
	"github.com/SAP-F-2025/phonics-service/internal/services"
	"github.com/SAP-F-2025/phonics-service/internal/utils"
)

type PlayHandler struct {
	BaseHandler
	playService services.PlayService
}

func NewPlayHandler(playService services.PlayService, logger utils.Logger) *PlayHandler {
	return &PlayHandler{
		BaseHandler: NewBaseHandler(logger),
		playService: playService,
	}
}

// StartSession opens a play session on an assignment
// @Summary Start play session
// @Description Starts a session and returns the first question
// @Tags play
// @Accept json
// @Produce json
// @Param session body services.StartSessionRequest true "Assignment to play"
// @Success 201 {object} playback.SessionView
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /play/sessions [post]
func (h *PlayHandler) StartSession(c *gin.Context) {
	var req services.StartSessionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Starting play session", "assignment_id", req.AssignmentID)

	view, err := h.playService.Start(c.Request.Context(), req.AssignmentID, principal(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *PlayHandler) GetSession(c *gin.Context) {
	h.step(c, h.playService.Get)
}

// RecordAnswer replaces the answer of the current question
// @Summary Record answer
// @Tags play
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param answer body models.AnswerEnvelope true "Answer"
// @Success 200 {object} playback.SessionView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /play/sessions/{id}/answer [put]
func (h *PlayHandler) RecordAnswer(c *gin.Context) {
	var answer models.AnswerEnvelope
	if !h.bindJSON(c, &answer) {
		return
	}

	h.step(c, func(ctx context.Context, id string, p models.Principal) (*playback.SessionView, error) {
		return h.playService.RecordAnswer(ctx, id, answer, p)
	})
}

func (h *PlayHandler) Next(c *gin.Context) {
	h.step(c, h.playService.Next)
}

func (h *PlayHandler) Previous(c *gin.Context) {
	h.step(c, h.playService.Previous)
}

func (h *PlayHandler) Restart(c *gin.Context) {
	h.step(c, h.playService.Restart)
}

// Check grades the current answer; a wrong answer is cleared
func (h *PlayHandler) Check(c *gin.Context) {
	id, ok := h.parseStringIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.playService.Check(c.Request.Context(), id, principal(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PlayHandler) Finish(c *gin.Context) {
	id, ok := h.parseStringIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Finishing play session", "session_id", id)

	result, err := h.playService.Finish(c.Request.Context(), id, principal(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *PlayHandler) Abandon(c *gin.Context) {
	id, ok := h.parseStringIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.playService.Abandon(c.Request.Context(), id, principal(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type sessionStep func(ctx context.Context, sessionID string, learner models.Principal) (*playback.SessionView, error)

func (h *PlayHandler) step(c *gin.Context, fn sessionStep) {
	id, ok := h.parseStringIDParam(c, "id")
	if !ok {
		return
	}

	view, err := fn(c.Request.Context(), id, principal(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
