package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/phonics-service/internal/errors"
	"github.com/SAP-F-2025/phonics-service/internal/models"
	"github.com/go-playground/validator/v10"
)

type ValidationError = errors.ValidationError
type ValidationErrors = errors.ValidationErrors

// Validator bundles struct tags, model business rules and question content rules
type Validator struct {
	structValidator   *validator.Validate
	businessValidator *BusinessValidator
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		businessValidator: NewBusinessValidator(),
		questionValidator: NewQuestionValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// ValidateBusiness validates business rules only
func (v *Validator) ValidateBusiness(s interface{}) ValidationErrors {
	return v.businessValidator.Validate(s)
}

// Validate performs complete validation (struct + business rules)
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		return err
	}

	if errs := v.ValidateBusiness(s); len(errs) > 0 {
		return errs
	}

	return nil
}

// ValidateQuestionDraft runs the question rules and then the struct tags of
// the variant payload, which is where authored positions get checked.
func (v *Validator) ValidateQuestionDraft(q models.Question) error {
	if err := v.questionValidator.ValidateQuestion(q); err != nil {
		return err
	}
	return v.structValidator.Struct(q.Content)
}

// Question returns the question validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("position", validatePosition)
	validate.RegisterValidation("user_role", validateUserRole)
	validate.RegisterValidation("notblank", validateNotBlank)

	// report json names so field errors match the request body
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionType(fl validator.FieldLevel) bool {
	return models.QuestionType(fl.Field().String()).IsValid()
}

func validatePosition(fl validator.FieldLevel) bool {
	return models.Position(fl.Field().String()).IsValid()
}

// Anonymous is a runtime role only and is never stored on a profile.
func validateUserRole(fl validator.FieldLevel) bool {
	role := models.UserRole(fl.Field().String())
	return role == models.RoleLearner || role == models.RoleAdmin
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
