package validator

import (
	"strings"

	"github.com/SAP-F-2025/phonics-service/internal/errors"
	"github.com/SAP-F-2025/phonics-service/internal/models"
)

// BusinessValidator checks rules that struct tags cannot express
type BusinessValidator struct{}

func NewBusinessValidator() *BusinessValidator {
	return &BusinessValidator{}
}

// Validate dispatches on the known model types. Unknown types pass.
func (b *BusinessValidator) Validate(s interface{}) ValidationErrors {
	switch v := s.(type) {
	case *models.Material:
		return b.ValidateMaterial(v)
	case *models.Assignment:
		return b.ValidateMetadata(v.Title, v.SoundLetter, v.QuestionType)
	default:
		return nil
	}
}

func (b *BusinessValidator) ValidateMaterial(m *models.Material) ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(m.Title) == "" {
		errs = append(errs, *errors.MissingField("title"))
	}
	if m.DisplayOrder < 0 {
		errs = append(errs, *errors.NewValidationErrorWithRule("display_order", "must not be negative", "min", m.DisplayOrder))
	}
	return errs
}

// ValidateMetadata checks assignment metadata independently of its questions
func (b *BusinessValidator) ValidateMetadata(title, soundLetter string, questionType models.QuestionType) ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(title) == "" {
		errs = append(errs, *errors.MissingField("title"))
	}
	if strings.TrimSpace(soundLetter) == "" {
		errs = append(errs, *errors.MissingField("sound_letter"))
	}
	if !questionType.IsValid() {
		errs = append(errs, *errors.NewValidationErrorWithRule("question_type", "must be a valid question type (type1, type2, type3, type4)", errors.RuleUnknownType, questionType))
	}
	return errs
}
