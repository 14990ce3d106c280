package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/phonics-service/internal/auth"
	"github.com/SAP-F-2025/phonics-service/internal/models"
	"github.com/SAP-F-2025/phonics-service/internal/services"
	"github.com/SAP-F-2025/phonics-service/internal/utils"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// Error codes returned with ErrorResponse
const (
	CodeValidation     = "VALIDATION_FAILED"
	CodeBadRequest     = "BAD_REQUEST"
	CodeNotFound       = "NOT_FOUND"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeConflict       = "CONFLICT"
	CodeNotAnImage     = "NOT_AN_IMAGE"
	CodeTooLarge       = "TOO_LARGE"
	CodeStorageFailure = "STORAGE_FAILURE"
	CodeInternal       = "INTERNAL_ERROR"
)

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger utils.Logger
}

// NewBaseHandler creates a new base handler with logging capability
func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{
		logger: logger,
	}
}

// log returns the request-scoped logger tagged with the caller
func (h *BaseHandler) log(c *gin.Context) utils.Logger {
	return utils.FromContext(c, h.logger).With(
		"user_id", auth.PrincipalFrom(c).Subject,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	h.log(c).Info(message, additionalFields...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	h.log(c).LogError(err, message, additionalFields...)
}

func (h *BaseHandler) LogWarn(c *gin.Context, message string, additionalFields ...interface{}) {
	h.log(c).Warn(message, additionalFields...)
}

// RespondWithError sends a consistent error response and logs it
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, code, message string, err error, details ...interface{}) {
	errorResp := ErrorResponse{
		Message: message,
		Code:    code,
	}
	if len(details) > 0 {
		errorResp.Details = details[0]
	}

	if statusCode >= http.StatusInternalServerError {
		h.LogError(c, err, message, "status_code", statusCode)
	} else {
		h.LogWarn(c, message, "status_code", statusCode, "error", err)
	}

	c.AbortWithStatusJSON(statusCode, errorResp)
}

// handleServiceError maps service errors to HTTP responses. Validation
// details are returned to the caller unchanged.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.RespondWithError(c, http.StatusBadRequest, CodeValidation, "Validation failed", err, validationErrors)
		return
	}
	var validationError *services.ValidationError
	if errors.As(err, &validationError) {
		h.RespondWithError(c, http.StatusBadRequest, CodeValidation, "Validation failed", err,
			services.ValidationErrors{*validationError})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		h.RespondWithError(c, http.StatusForbidden, CodeForbidden, "Access denied", err, map[string]interface{}{
			"resource": permissionError.Resource,
			"action":   permissionError.Action,
			"reason":   permissionError.Reason,
		})
		return
	}

	switch {
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, CodeNotFound, notFoundMessage(err), err)
	case services.IsUnauthorized(err):
		h.RespondWithError(c, http.StatusUnauthorized, CodeUnauthorized, "Authentication required", err)
	case services.IsForbidden(err):
		h.RespondWithError(c, http.StatusForbidden, CodeForbidden, "Insufficient permissions", err)
	case errors.Is(err, services.ErrNotAnImage):
		h.RespondWithError(c, http.StatusUnsupportedMediaType, CodeNotAnImage, "File is not an image", err)
	case errors.Is(err, services.ErrImageTooLarge):
		h.RespondWithError(c, http.StatusRequestEntityTooLarge, CodeTooLarge, "Image exceeds the size limit", err)
	case errors.Is(err, services.ErrExportCellTooLarge):
		h.RespondWithError(c, http.StatusUnprocessableEntity, CodeTooLarge, "Assignment is too large to export", err, err.Error())
	case services.IsBadRequest(err):
		h.RespondWithError(c, http.StatusBadRequest, CodeBadRequest, "Invalid request", err, err.Error())
	case services.IsConflict(err):
		h.RespondWithError(c, http.StatusConflict, CodeConflict, conflictMessage(err), err)
	case services.IsStorageFailure(err):
		h.RespondWithError(c, http.StatusBadGateway, CodeStorageFailure, "Storage is temporarily unavailable, please retry", err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, CodeInternal, "Internal server error", err)
	}
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrMaterialNotFound):
		return "Material not found"
	case errors.Is(err, services.ErrAssignmentNotFound):
		return "Assignment not found"
	case errors.Is(err, services.ErrQuestionNotFound):
		return "Question not found"
	case errors.Is(err, services.ErrSessionNotFound):
		return "Play session not found"
	default:
		return "Resource not found"
	}
}

func conflictMessage(err error) string {
	if errors.Is(err, services.ErrAssignmentEmpty) {
		return "Assignment has no questions"
	}
	return "Play session cannot do that in its current state"
}

// ===== REQUEST HELPERS =====

// bindJSON decodes the body into req and answers 400 on failure
func (h *BaseHandler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, CodeBadRequest, "Invalid request payload", err, err.Error())
		return false
	}
	return true
}

func (h *BaseHandler) parseIDParam(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		h.RespondWithError(c, http.StatusBadRequest, CodeBadRequest, "Invalid "+param, err, "id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

func (h *BaseHandler) parseQuestionIDParam(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		h.RespondWithError(c, http.StatusBadRequest, CodeBadRequest, "Invalid "+param, err, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// parseStringIDParam reads a non-empty path parameter
func (h *BaseHandler) parseStringIDParam(c *gin.Context, param string) (string, bool) {
	id := strings.TrimSpace(c.Param(param))
	if id == "" {
		h.RespondWithError(c, http.StatusBadRequest, CodeBadRequest, "Invalid "+param, nil, "ID cannot be empty")
		return "", false
	}
	return id, true
}

func principal(c *gin.Context) models.Principal {
	return auth.PrincipalFrom(c)
}
