package errors

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Rules reported by the question and assignment validators
const (
	RuleMissingField    = "missing_field"
	RuleEmptyCollection = "empty_collection"
	RuleCategoryCount   = "category_count"
	RuleUnknownType     = "question_type"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

func (pe *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", pe.Field, pe.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// NewValidationErrorWithRule creates a new validation error with rule
func NewValidationErrorWithRule(field, message, rule string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
		Rule:    rule,
	}
}

// MissingField reports a required text field that is empty after trimming
func MissingField(field string) *ValidationError {
	return NewValidationErrorWithRule(field, "is required", RuleMissingField, nil)
}

// EmptyCollection reports a collection that must hold at least one entry
func EmptyCollection(field string) *ValidationError {
	return NewValidationErrorWithRule(field, "must contain at least one entry", RuleEmptyCollection, nil)
}

// IsMissingField reports whether err is a MissingField validation error
func IsMissingField(err error) bool {
	return hasRule(err, RuleMissingField)
}

// IsEmptyCollection reports whether err is an EmptyCollection validation error
func IsEmptyCollection(err error) bool {
	return hasRule(err, RuleEmptyCollection)
}

func hasRule(err error, rule string) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Rule == rule
	}
	return false
}

// ToValidationErrors converts validator.ValidationErrors to our custom type
func ToValidationErrors(err error) ValidationErrors {
	var errs ValidationErrors

	var validatorErr validator.ValidationErrors
	if errors.As(err, &validatorErr) {
		for _, fe := range validatorErr {
			errs = append(errs, ValidationError{
				Field:   fe.Field(),
				Message: getErrorMessage(fe),
				Value:   fe.Value(),
				Rule:    fe.Tag(),
			})
		}
		return errs
	}

	var single *ValidationError
	if errors.As(err, &single) {
		errs = append(errs, *single)
	}

	return errs
}

// getErrorMessage returns user-friendly error messages
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", err.Param())
	case "email":
		return "must be a valid email address"
	case "numeric":
		return "must be a number"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())
	case "url":
		return "must be a valid URL"

	// Custom validators
	case "question_type":
		return "must be a valid question type (type1, type2, type3, type4)"
	case "position":
		return "must be start, middle or end"
	case "user_role":
		return "must be a valid user role (learner, admin)"
	case "notblank":
		return "must not be blank"

	default:
		return fmt.Sprintf("validation failed for rule '%s'", err.Tag())
	}
}
