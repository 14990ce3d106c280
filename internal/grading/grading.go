// Package grading compares recorded answers with the answer keys embedded in
// questions. Grading never fails: a missing or mismatched answer is simply
// incorrect.
package grading

import (
	"math"

	"github.com/SAP-F-2025/phonics-service/internal/models"
)

// Result is the aggregate score of a play session.
type Result struct {
	CorrectCount int `json:"correct_count"`
	Total        int `json:"total"`
	Percent      int `json:"percent"`
}

// IsCorrect grades one answer against its question.
func IsCorrect(q models.Question, answer models.RecordedAnswer) bool {
	if answer == nil {
		return false
	}

	switch c := q.Content.(type) {
	case models.PictureChoiceContent:
		a, ok := answer.(models.PictureChoiceAnswer)
		return ok && gradePictureChoice(c, a)
	case models.PositionSchemeContent:
		a, ok := answer.(models.PositionSchemeAnswer)
		return ok && gradePositionScheme(c, a)
	case models.SyllablePatternContent:
		a, ok := answer.(models.SyllablePatternAnswer)
		return ok && gradeSyllablePattern(c, a)
	case models.CategorySplitContent:
		a, ok := answer.(models.CategorySplitAnswer)
		return ok && gradeCategorySplit(c, a)
	default:
		return false
	}
}

// Every correct image must be selected and flagged, and nothing outside the
// correct set may be selected.
func gradePictureChoice(c models.PictureChoiceContent, a models.PictureChoiceAnswer) bool {
	correct := make(map[models.ImageRef]struct{}, len(c.CorrectImages))
	for _, img := range c.CorrectImages {
		correct[img] = struct{}{}
	}

	flagged := make(map[models.ImageRef]struct{}, len(a.Selected))
	for _, sel := range a.Selected {
		if _, ok := correct[sel.Image]; !ok {
			return false
		}
		if sel.Correct {
			flagged[sel.Image] = struct{}{}
		}
	}
	return len(flagged) == len(correct)
}

func gradePositionScheme(c models.PositionSchemeContent, a models.PositionSchemeAnswer) bool {
	for i, w := range c.Words {
		got, ok := a.Positions[i]
		if !ok || got == "" || got != w.Position {
			return false
		}
	}
	return true
}

func gradeSyllablePattern(c models.SyllablePatternContent, a models.SyllablePatternAnswer) bool {
	for _, s := range c.Syllables {
		got, ok := a.Patterns[s.Word]
		if !ok || got != s.Pattern {
			return false
		}
	}
	return true
}

func gradeCategorySplit(c models.CategorySplitContent, a models.CategorySplitAnswer) bool {
	for _, cat := range c.Categories {
		for _, item := range cat.Items {
			want, _ := c.CategoryOf(item.Text)
			got, ok := a.Categories[item.Text]
			if !ok || got != want {
				return false
			}
		}
	}
	return true
}

// Score grades every question against the answer recorded at the same index.
// Missing answers count as incorrect.
func Score(questions []models.Question, answers map[int]models.RecordedAnswer) Result {
	res := Result{Total: len(questions)}
	for i, q := range questions {
		if IsCorrect(q, answers[i]) {
			res.CorrectCount++
		}
	}
	res.Percent = Percent(res.CorrectCount, res.Total)
	return res
}

// Percent returns round(100*correct/total), or 0 when total is 0.
func Percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}
