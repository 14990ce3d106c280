package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/phonics-service/internal/services"
	"github.com/SAP-F-2025/phonics-service/internal/utils"
)

type GradingHandler struct {
	BaseHandler
	gradingService services.GradingService
}

func NewGradingHandler(gradingService services.GradingService, logger utils.Logger) *GradingHandler {
	return &GradingHandler{
		BaseHandler:    NewBaseHandler(logger),
		gradingService: gradingService,
	}
}

// CheckAnswer grades one answer against one question
// @Summary Check answer
// @Description Stateless grading of a single question
// @Tags grading
// @Accept json
// @Produce json
// @Param request body services.CheckAnswerRequest true "Question and answer"
// @Success 200 {object} services.CheckResponse
// @Failure 400 {object} ErrorResponse
// @Router /grading/check [post]
func (h *GradingHandler) CheckAnswer(c *gin.Context) {
	var req services.CheckAnswerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.gradingService.Check(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CalculateScore grades a whole answer sheet
// @Summary Calculate score
// @Tags grading
// @Accept json
// @Produce json
// @Param request body services.ScoreRequest true "Questions and answers by position"
// @Success 200 {object} playback.ResultView
// @Failure 400 {object} ErrorResponse
// @Router /grading/score [post]
func (h *GradingHandler) CalculateScore(c *gin.Context) {
	var req services.ScoreRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.gradingService.Score(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
