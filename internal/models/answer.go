package models

import "fmt"

// RecordedAnswer is a learner's response to one question. The concrete shape
// depends on the question variant.
type RecordedAnswer interface {
	Type() QuestionType
	isRecordedAnswer()
}

type SelectedImage struct {
	Image   ImageRef `json:"image"`
	Correct bool     `json:"correct"`
}

type PictureChoiceAnswer struct {
	Selected []SelectedImage `json:"selected"`
}

// PositionSchemeAnswer maps a word index to the chosen position.
type PositionSchemeAnswer struct {
	Positions map[int]Position `json:"positions"`
}

// SyllablePatternAnswer maps a word text to the chosen pattern token.
type SyllablePatternAnswer struct {
	Patterns map[string]string `json:"patterns"`
}

// CategorySplitAnswer maps an item text to the chosen category id ("1" or "2").
type CategorySplitAnswer struct {
	Categories map[string]string `json:"categories"`
}

func (PictureChoiceAnswer) Type() QuestionType   { return PictureChoice }
func (PositionSchemeAnswer) Type() QuestionType  { return PositionScheme }
func (SyllablePatternAnswer) Type() QuestionType { return SyllablePattern }
func (CategorySplitAnswer) Type() QuestionType   { return CategorySplit }

func (PictureChoiceAnswer) isRecordedAnswer()   {}
func (PositionSchemeAnswer) isRecordedAnswer()  {}
func (SyllablePatternAnswer) isRecordedAnswer() {}
func (CategorySplitAnswer) isRecordedAnswer()   {}

// AnswerEnvelope is the HTTP form of a RecordedAnswer. Picture selections
// carry only image refs; correctness flags are derived from the question.
type AnswerEnvelope struct {
	Type       QuestionType      `json:"type" binding:"required" validate:"required,question_type"`
	Selected   []ImageRef        `json:"selected,omitempty"`
	Positions  map[int]Position  `json:"positions,omitempty"`
	Patterns   map[string]string `json:"patterns,omitempty"`
	Categories map[string]string `json:"categories,omitempty"`
}

// ToAnswer resolves the envelope against the question it answers.
func (e AnswerEnvelope) ToAnswer(q Question) (RecordedAnswer, error) {
	if e.Type != q.Type() {
		return nil, fmt.Errorf("answer type %q does not match question type %q", e.Type, q.Type())
	}

	switch c := q.Content.(type) {
	case PictureChoiceContent:
		return NewPictureChoiceAnswer(c, e.Selected), nil
	case PositionSchemeContent:
		return PositionSchemeAnswer{Positions: copyMap(e.Positions)}, nil
	case SyllablePatternContent:
		return SyllablePatternAnswer{Patterns: copyMap(e.Patterns)}, nil
	case CategorySplitContent:
		return CategorySplitAnswer{Categories: copyMap(e.Categories)}, nil
	default:
		return nil, fmt.Errorf("unknown question type %q", q.Type())
	}
}

// EnvelopeOf renders a recorded answer back into its HTTP form. Picture
// selections lose their correctness flags.
func EnvelopeOf(a RecordedAnswer) AnswerEnvelope {
	e := AnswerEnvelope{Type: a.Type()}
	switch v := a.(type) {
	case PictureChoiceAnswer:
		e.Selected = make([]ImageRef, 0, len(v.Selected))
		for _, sel := range v.Selected {
			e.Selected = append(e.Selected, sel.Image)
		}
	case PositionSchemeAnswer:
		e.Positions = copyMap(v.Positions)
	case SyllablePatternAnswer:
		e.Patterns = copyMap(v.Patterns)
	case CategorySplitAnswer:
		e.Categories = copyMap(v.Categories)
	}
	return e
}

// NewPictureChoiceAnswer flags each selected image against the answer key.
// Repeated selections of the same image are recorded once.
func NewPictureChoiceAnswer(c PictureChoiceContent, selected []ImageRef) PictureChoiceAnswer {
	correct := make(map[ImageRef]struct{}, len(c.CorrectImages))
	for _, img := range c.CorrectImages {
		correct[img] = struct{}{}
	}

	seen := make(map[ImageRef]struct{}, len(selected))
	answer := PictureChoiceAnswer{Selected: make([]SelectedImage, 0, len(selected))}
	for _, img := range selected {
		if _, dup := seen[img]; dup {
			continue
		}
		seen[img] = struct{}{}
		_, ok := correct[img]
		answer.Selected = append(answer.Selected, SelectedImage{Image: img, Correct: ok})
	}
	return answer
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
