package playback

import (
	"fmt"

	"github.com/SAP-F-2025/phonics-service/internal/models"
)

// Presentation is what a learner sees for one question. Answer keys are
// never included.
type Presentation struct {
	QuestionID int64               `json:"question_id"`
	Type       models.QuestionType `json:"type"`
	Question   string              `json:"question"`

	// PictureChoice: every image in one shuffled pool
	Images []models.ImageRef `json:"images,omitempty"`

	// PositionScheme: words in authored order and the positions to pick from
	Words       []PresentedWord   `json:"words,omitempty"`
	Positions   []models.Position `json:"positions,omitempty"`
	SchemeImage models.ImageRef   `json:"schemeImage,omitempty"`

	// SyllablePattern: shuffled words and the shuffled distinct patterns
	Syllables []PresentedWord `json:"syllables,omitempty"`
	Patterns  []string        `json:"patterns,omitempty"`

	// CategorySplit: both category names and a shuffled pool of all items
	Categories []PresentedCategory `json:"categories,omitempty"`
	Items      []PresentedWord     `json:"items,omitempty"`
}

type PresentedWord struct {
	Index int             `json:"index"`
	Text  string          `json:"text"`
	Image models.ImageRef `json:"image,omitempty"`
}

type PresentedCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PresentQuestion builds the display view of q, shuffling through s.
func PresentQuestion(q models.Question, s Shuffler) (Presentation, error) {
	p := Presentation{QuestionID: q.ID, Type: q.Type(), Question: q.Text}

	switch c := q.Content.(type) {
	case models.PictureChoiceContent:
		pool := make([]models.ImageRef, 0, len(c.CorrectImages)+len(c.IncorrectImages))
		pool = append(pool, c.CorrectImages...)
		pool = append(pool, c.IncorrectImages...)
		p.Images = Shuffle(s, pool)

	case models.PositionSchemeContent:
		for i, w := range c.Words {
			p.Words = append(p.Words, PresentedWord{Index: i, Text: w.Word, Image: w.Image})
		}
		p.Positions = []models.Position{models.PositionStart, models.PositionMiddle, models.PositionEnd}
		p.SchemeImage = c.SchemeImage

	case models.SyllablePatternContent:
		words := make([]PresentedWord, 0, len(c.Syllables))
		var patterns []string
		seen := make(map[string]struct{}, len(c.Syllables))
		for i, syl := range c.Syllables {
			words = append(words, PresentedWord{Index: i, Text: syl.Word, Image: syl.Image})
			if _, dup := seen[syl.Pattern]; !dup {
				seen[syl.Pattern] = struct{}{}
				patterns = append(patterns, syl.Pattern)
			}
		}
		p.Syllables = Shuffle(s, words)
		p.Patterns = Shuffle(s, patterns)

	case models.CategorySplitContent:
		var items []PresentedWord
		for i, cat := range c.Categories {
			p.Categories = append(p.Categories, PresentedCategory{ID: models.CategoryID(i), Name: cat.Name})
			for _, item := range cat.Items {
				items = append(items, PresentedWord{Index: len(items), Text: item.Text, Image: item.Image})
			}
		}
		p.Items = Shuffle(s, items)

	default:
		return Presentation{}, fmt.Errorf("unknown question type %q", q.Type())
	}

	return p, nil
}
