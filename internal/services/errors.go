package services

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/phonics-service/internal/authoring"
	apperrors "github.com/SAP-F-2025/phonics-service/internal/errors"
	"github.com/SAP-F-2025/phonics-service/internal/playback"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden - insufficient permissions")
	ErrBadRequest   = errors.New("bad request")

	// Material and assignment errors
	ErrMaterialNotFound   = errors.New("material not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrAssignmentEmpty    = errors.New("assignment has no questions")
	ErrQuestionNotFound   = authoring.ErrQuestionNotFound

	// Play errors
	ErrSessionNotFound = playback.ErrSessionNotFound

	// Image errors
	ErrNotAnImage    = errors.New("file is not an image")
	ErrImageTooLarge = errors.New("image exceeds the size limit")

	// ErrStorageFailure wraps failures of the database, the object store or
	// the identity provider. Callers may retry.
	ErrStorageFailure = errors.New("storage failure")

	// Import and export errors
	ErrUnsupportedFile    = errors.New("unsupported file format")
	ErrExportCellTooLarge = errors.New("value does not fit in a spreadsheet cell")
)

// ===== CUSTOM ERROR TYPES =====

type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type PermissionError struct {
	UserID     string `json:"user_id"`
	ResourceID uint   `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %d - %s",
		pe.UserID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

func (pe *PermissionError) Unwrap() error {
	return ErrForbidden
}

// ===== ERROR HELPERS =====

func NewPermissionError(userID string, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// storageFailure keeps the collaborator error in the chain so callers can
// still inspect it
func storageFailure(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageFailure, err)
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrMaterialNotFound) ||
		errors.Is(err, ErrAssignmentNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrSessionNotFound)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	return errors.As(err, &single)
}

func IsStorageFailure(err error) bool {
	return errors.Is(err, ErrStorageFailure)
}

// IsConflict checks if the request is valid but does not fit the current
// state, such as advancing a finished play session
func IsConflict(err error) bool {
	return errors.Is(err, playback.ErrSessionNotStarted) ||
		errors.Is(err, playback.ErrSessionAlreadyStarted) ||
		errors.Is(err, playback.ErrSessionCompleted) ||
		errors.Is(err, playback.ErrIndexOutOfRange) ||
		errors.Is(err, playback.ErrNoQuestions) ||
		errors.Is(err, ErrAssignmentEmpty)
}

// IsBadRequest checks if the input could not be interpreted at all, such as
// an answer whose type does not match its question
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest) ||
		errors.Is(err, playback.ErrAnswerTypeMismatch) ||
		errors.Is(err, ErrUnsupportedFile)
}
