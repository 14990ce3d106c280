package validator

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/phonics-service/internal/errors"
	"github.com/SAP-F-2025/phonics-service/internal/models"
)

// QuestionValidator handles question-specific validation
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion checks a question draft. Rules run in a fixed order and
// the first failure is returned as a *errors.ValidationError.
func (v *QuestionValidator) ValidateQuestion(q models.Question) error {
	if blank(q.Text) {
		return errors.MissingField("question")
	}

	switch c := q.Content.(type) {
	case models.PictureChoiceContent:
		return v.validatePictureChoice(c)
	case models.PositionSchemeContent:
		return v.validatePositionScheme(c)
	case models.SyllablePatternContent:
		return v.validateSyllablePattern(c)
	case models.CategorySplitContent:
		return v.validateCategorySplit(c)
	default:
		return errors.NewValidationErrorWithRule("type", "unsupported question type", errors.RuleUnknownType, q.Type())
	}
}

// ValidateBatch validates multiple questions and rejects an empty list
func (v *QuestionValidator) ValidateBatch(questions []models.Question) error {
	if len(questions) == 0 {
		return errors.EmptyCollection("questions")
	}

	seen := make(map[int64]struct{}, len(questions))
	for i, q := range questions {
		if err := v.ValidateQuestion(q); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
		if _, dup := seen[q.ID]; dup {
			return errors.NewValidationErrorWithRule(fmt.Sprintf("questions[%d].id", i), "must be unique", "unique", q.ID)
		}
		seen[q.ID] = struct{}{}
	}

	return nil
}

func (v *QuestionValidator) validatePictureChoice(c models.PictureChoiceContent) error {
	if len(c.CorrectImages) == 0 {
		return errors.EmptyCollection("correctImages")
	}
	if len(c.IncorrectImages) == 0 {
		return errors.EmptyCollection("incorrectImages")
	}
	return nil
}

// Position is deliberately not checked here. Supplying it is the author
// form's job and the admin request enforces it with the position tag.
func (v *QuestionValidator) validatePositionScheme(c models.PositionSchemeContent) error {
	if len(c.Words) == 0 {
		return errors.EmptyCollection("words")
	}
	for i, w := range c.Words {
		if blank(w.Word) {
			return errors.MissingField(fmt.Sprintf("words[%d].word", i))
		}
	}
	return nil
}

func (v *QuestionValidator) validateSyllablePattern(c models.SyllablePatternContent) error {
	if len(c.Syllables) == 0 {
		return errors.EmptyCollection("syllables")
	}
	for i, s := range c.Syllables {
		if blank(s.Word) {
			return errors.MissingField(fmt.Sprintf("syllables[%d].word", i))
		}
		if blank(s.Pattern) {
			return errors.MissingField(fmt.Sprintf("syllables[%d].pattern", i))
		}
	}
	return nil
}

func (v *QuestionValidator) validateCategorySplit(c models.CategorySplitContent) error {
	if len(c.Categories) > 2 {
		return errors.NewValidationErrorWithRule("categories", "must contain exactly two categories", errors.RuleCategoryCount, len(c.Categories))
	}

	// A missing category is reported as its missing name.
	for i := 0; i < 2; i++ {
		if i >= len(c.Categories) || blank(c.Categories[i].Name) {
			return errors.MissingField(fmt.Sprintf("categories[%d].name", i))
		}
	}
	for i, cat := range c.Categories {
		if len(cat.Items) == 0 {
			return errors.EmptyCollection(fmt.Sprintf("categories[%d].items", i))
		}
	}
	for i, cat := range c.Categories {
		for j, item := range cat.Items {
			if blank(item.Text) {
				return errors.MissingField(fmt.Sprintf("categories[%d].items[%d].text", i, j))
			}
		}
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
