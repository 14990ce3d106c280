package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type QuestionType string

const (
	PictureChoice   QuestionType = "type1"
	PositionScheme  QuestionType = "type2"
	SyllablePattern QuestionType = "type3"
	CategorySplit   QuestionType = "type4"
)

// QuestionTypes lists every supported variant in authoring order.
var QuestionTypes = []QuestionType{PictureChoice, PositionScheme, SyllablePattern, CategorySplit}

func (t QuestionType) IsValid() bool {
	switch t {
	case PictureChoice, PositionScheme, SyllablePattern, CategorySplit:
		return true
	}
	return false
}

// Label is the human readable name shown to authors.
func (t QuestionType) Label() string {
	switch t {
	case PictureChoice:
		return "Picture choice"
	case PositionScheme:
		return "Sound position"
	case SyllablePattern:
		return "Syllable pattern"
	case CategorySplit:
		return "Two categories"
	default:
		return string(t)
	}
}

// ImageRef is an opaque handle to an image, usually a public URL.
type ImageRef string

type Position string

const (
	PositionStart  Position = "start"
	PositionMiddle Position = "middle"
	PositionEnd    Position = "end"
)

func (p Position) IsValid() bool {
	return p == PositionStart || p == PositionMiddle || p == PositionEnd
}

// QuestionContent is the variant payload of a Question. Only the four
// content types in this package implement it.
type QuestionContent interface {
	Type() QuestionType
	isQuestionContent()
}

type PictureChoiceContent struct {
	CorrectImages   []ImageRef `json:"correctImages"`
	IncorrectImages []ImageRef `json:"incorrectImages"`
}

type PositionWord struct {
	Word     string   `json:"word"`
	Position Position `json:"position" validate:"position"`
	Image    ImageRef `json:"image,omitempty"`
}

type PositionSchemeContent struct {
	Words       []PositionWord `json:"words" validate:"dive"`
	SchemeImage ImageRef       `json:"schemeImage,omitempty"`
}

type SyllableEntry struct {
	Word    string   `json:"word"`
	Pattern string   `json:"pattern"`
	Image   ImageRef `json:"image,omitempty"`
}

type SyllablePatternContent struct {
	Syllables []SyllableEntry `json:"syllables"`
}

type CategoryItem struct {
	Text  string   `json:"text"`
	Image ImageRef `json:"image,omitempty"`
}

type Category struct {
	Name  string         `json:"name"`
	Items []CategoryItem `json:"items"`
}

type CategorySplitContent struct {
	Categories []Category `json:"categories"`
}

func (PictureChoiceContent) Type() QuestionType   { return PictureChoice }
func (PositionSchemeContent) Type() QuestionType  { return PositionScheme }
func (SyllablePatternContent) Type() QuestionType { return SyllablePattern }
func (CategorySplitContent) Type() QuestionType   { return CategorySplit }

func (PictureChoiceContent) isQuestionContent()   {}
func (PositionSchemeContent) isQuestionContent()  {}
func (SyllablePatternContent) isQuestionContent() {}
func (CategorySplitContent) isQuestionContent()   {}

// Question is one entry of an assignment. Content holds exactly one variant.
type Question struct {
	ID      int64
	Text    string
	Content QuestionContent
}

// Type returns the variant tag, or an empty type when no content is set.
func (q Question) Type() QuestionType {
	if q.Content == nil {
		return ""
	}
	return q.Content.Type()
}

// Variant returns the variant payload.
func (q Question) Variant() QuestionContent {
	return q.Content
}

// CategoryOf returns "1" or "2" for the first category whose items contain
// text. Duplicate texts resolve to the first category.
func (c CategorySplitContent) CategoryOf(text string) (string, bool) {
	for i, cat := range c.Categories {
		for _, item := range cat.Items {
			if item.Text == text {
				return CategoryID(i), true
			}
		}
	}
	return "", false
}

// CategoryID converts a 0-based category index into its wire id.
func CategoryID(index int) string {
	return strconv.Itoa(index + 1)
}

// questionWire is the flat JSON shape stored in the assignments table.
type questionWire struct {
	ID              int64           `json:"id"`
	Type            QuestionType    `json:"type"`
	Question        string          `json:"question"`
	CorrectImages   []ImageRef      `json:"correctImages,omitempty"`
	IncorrectImages []ImageRef      `json:"incorrectImages,omitempty"`
	Words           []PositionWord  `json:"words,omitempty"`
	SchemeImage     ImageRef        `json:"schemeImage,omitempty"`
	Syllables       []SyllableEntry `json:"syllables,omitempty"`
	Categories      []Category      `json:"categories,omitempty"`
}

func (q Question) MarshalJSON() ([]byte, error) {
	w := questionWire{ID: q.ID, Question: q.Text}

	switch c := q.Content.(type) {
	case PictureChoiceContent:
		w.Type = PictureChoice
		w.CorrectImages = c.CorrectImages
		w.IncorrectImages = c.IncorrectImages
	case PositionSchemeContent:
		w.Type = PositionScheme
		w.Words = c.Words
		w.SchemeImage = c.SchemeImage
	case SyllablePatternContent:
		w.Type = SyllablePattern
		w.Syllables = c.Syllables
	case CategorySplitContent:
		w.Type = CategorySplit
		w.Categories = c.Categories
	case nil:
		return nil, fmt.Errorf("question %d has no content", q.ID)
	default:
		return nil, fmt.Errorf("unsupported question content %T", c)
	}

	return json.Marshal(w)
}

func (q *Question) UnmarshalJSON(data []byte) error {
	var w questionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	q.ID = w.ID
	q.Text = w.Question

	switch w.Type {
	case PictureChoice:
		q.Content = PictureChoiceContent{CorrectImages: w.CorrectImages, IncorrectImages: w.IncorrectImages}
	case PositionScheme:
		q.Content = PositionSchemeContent{Words: w.Words, SchemeImage: w.SchemeImage}
	case SyllablePattern:
		q.Content = SyllablePatternContent{Syllables: w.Syllables}
	case CategorySplit:
		q.Content = CategorySplitContent{Categories: w.Categories}
	default:
		return fmt.Errorf("unknown question type %q", w.Type)
	}
	return nil
}
