package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/phonics-service/internal/models"
	"github.com/SAP-F-2025/phonics-service/internal/playback"
	"github.com/SAP-F-2025/phonics-service/internal/services"
	"github.com/SAP-F-2025/phonics-service/internal/utils"
)

type AssignmentHandler struct {
	BaseHandler
	assignmentService services.AssignmentService
}

func NewAssignmentHandler(assignmentService services.AssignmentService, logger utils.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		assignmentService: assignmentService,
	}
}

// GetAssignment retrieves an assignment with its questions as learners see them
// @Summary Get assignment
// @Description Questions are presented without answer keys; picture pools are shuffled
// @Tags assignments
// @Produce json
// @Param id path uint true "Assignment ID"
// @Success 200 {object} playback.AssignmentView
// @Failure 404 {object} ErrorResponse
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	assignment, err := h.assignmentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	view, err := playback.PresentAssignment(assignment, playback.NewShuffler())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetAssignmentDocument returns the stored assignment including answer keys
// @Summary Get assignment for editing
// @Tags admin
// @Produce json
// @Param id path uint true "Assignment ID"
// @Success 200 {object} models.Assignment
// @Failure 404 {object} ErrorResponse
// @Router /admin/assignments/{id} [get]
func (h *AssignmentHandler) GetAssignmentDocument(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	assignment, err := h.assignmentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// CreateAssignment saves a full assignment document
// @Summary Create assignment
// @Description Validates metadata and every question, then stores the assignment
// @Tags admin
// @Accept json
// @Produce json
// @Param assignment body services.AssignmentRequest true "Assignment document"
// @Success 201 {object} models.Assignment
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/assignments [post]
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	h.LogRequest(c, "Creating assignment")

	var req services.AssignmentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	assignment, err := h.assignmentService.Create(c.Request.Context(), &req, principal(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

func (h *AssignmentHandler) UpdateAssignment(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Updating assignment", "assignment_id", id)

	var req services.AssignmentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	assignment, err := h.assignmentService.Update(c.Request.Context(), id, &req, principal(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting assignment", "assignment_id", id)

	if err := h.assignmentService.Delete(c.Request.Context(), id, principal(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ===== QUESTION EDITS =====

func (h *AssignmentHandler) AddQuestion(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var q models.Question
	if !h.bindJSON(c, &q) {
		return
	}

	resp, err := h.assignmentService.AddQuestion(c.Request.Context(), id, q, principal(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AssignmentHandler) UpdateQuestion(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	questionID, ok := h.parseQuestionIDParam(c, "question_id")
	if !ok {
		return
	}

	var q models.Question
	if !h.bindJSON(c, &q) {
		return
	}

	resp, err := h.assignmentService.UpdateQuestion(c.Request.Context(), id, questionID, q, principal(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RemoveQuestion deletes one question. The last question cannot be removed.
func (h *AssignmentHandler) RemoveQuestion(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	questionID, ok := h.parseQuestionIDParam(c, "question_id")
	if !ok {
		return
	}

	if err := h.assignmentService.RemoveQuestion(c.Request.Context(), id, questionID, principal(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ValidateQuestion checks a question draft without saving it
func (h *AssignmentHandler) ValidateQuestion(c *gin.Context) {
	var q models.Question
	if !h.bindJSON(c, &q) {
		return
	}

	if err := h.assignmentService.ValidateQuestion(c.Request.Context(), q); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}
