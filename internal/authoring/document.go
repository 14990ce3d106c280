// Package authoring holds the in-memory model an author edits before an
// assignment is saved.
package authoring

import (
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/SAP-F-2025/phonics-service/internal/errors"
	"github.com/SAP-F-2025/phonics-service/internal/models"
	"github.com/SAP-F-2025/phonics-service/internal/validator"
)

var ErrQuestionNotFound = errors.New("question not found")

// Persistable is the exact record handed to the assignment store.
type Persistable struct {
	MaterialID   uint                `json:"material_id"`
	Title        string              `json:"title"`
	Description  *string             `json:"description"`
	SoundLetter  string              `json:"sound_letter"`
	QuestionType models.QuestionType `json:"question_type"`
	Questions    []models.Question   `json:"questions"`
}

// Document is an assignment being authored: metadata, ordered questions and
// the id of the question currently open in the editor. Question ids are
// unique inside a document and never reused.
type Document struct {
	materialID   uint
	title        string
	description  string
	soundLetter  string
	questionType models.QuestionType

	questions []models.Question
	editingID int64
	editing   bool
	lastID    int64

	clock    func() time.Time
	checker  *validator.QuestionValidator
	business *validator.BusinessValidator
}

type Option func(*Document)

// WithClock overrides the clock used to seed question ids.
func WithClock(clock func() time.Time) Option {
	return func(d *Document) {
		d.clock = clock
	}
}

func NewDocument(materialID uint, opts ...Option) *Document {
	d := &Document{
		materialID:   materialID,
		questionType: models.PictureChoice,
		clock:        time.Now,
		checker:      validator.NewQuestionValidator(),
		business:     validator.NewBusinessValidator(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FromAssignment loads a stored assignment for editing. Questions with a zero
// or repeated id get a fresh one.
func FromAssignment(a *models.Assignment, opts ...Option) *Document {
	d := NewDocument(a.MaterialID, opts...)
	d.title = a.Title
	if a.Description != nil {
		d.description = *a.Description
	}
	d.soundLetter = a.SoundLetter
	d.questionType = a.QuestionType

	for _, q := range a.Questions {
		if q.ID > d.lastID {
			d.lastID = q.ID
		}
	}

	seen := make(map[int64]struct{}, len(a.Questions))
	for _, q := range a.Questions {
		if _, dup := seen[q.ID]; dup || q.ID == 0 {
			q.ID = d.nextID()
		}
		seen[q.ID] = struct{}{}
		d.questions = append(d.questions, q)
	}
	return d
}

func (d *Document) nextID() int64 {
	id := d.clock().UnixMilli()
	if id <= d.lastID {
		id = d.lastID + 1
	}
	d.lastID = id
	return id
}

func (d *Document) indexOf(id int64) int {
	for i, q := range d.questions {
		if q.ID == id {
			return i
		}
	}
	return -1
}

// AddQuestion validates q, gives it a fresh id and appends it.
func (d *Document) AddQuestion(q models.Question) (int64, error) {
	if err := d.checker.ValidateQuestion(q); err != nil {
		return 0, err
	}

	q.ID = d.nextID()
	d.questions = append(d.questions, q)
	return q.ID, nil
}

// UpdateQuestion replaces the question with the given id in place.
func (d *Document) UpdateQuestion(id int64, q models.Question) error {
	idx := d.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %d", ErrQuestionNotFound, id)
	}
	if err := d.checker.ValidateQuestion(q); err != nil {
		return err
	}

	q.ID = id
	d.questions[idx] = q
	if d.editing && d.editingID == id {
		d.CancelEdit()
	}
	return nil
}

// RemoveQuestion drops the question, keeping the order of the rest.
func (d *Document) RemoveQuestion(id int64) error {
	idx := d.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %d", ErrQuestionNotFound, id)
	}

	d.questions = append(d.questions[:idx:idx], d.questions[idx+1:]...)
	if d.editing && d.editingID == id {
		d.CancelEdit()
	}
	return nil
}

// BeginEdit moves the editing cursor to the question and returns a copy of it.
func (d *Document) BeginEdit(id int64) (models.Question, error) {
	idx := d.indexOf(id)
	if idx < 0 {
		return models.Question{}, fmt.Errorf("%w: %d", ErrQuestionNotFound, id)
	}
	d.editingID = id
	d.editing = true
	return d.questions[idx], nil
}

func (d *Document) EditingID() (int64, bool) {
	return d.editingID, d.editing
}

func (d *Document) CancelEdit() {
	d.editingID = 0
	d.editing = false
}

// SetMetadata validates and stores the assignment metadata. Nothing changes
// when validation fails.
func (d *Document) SetMetadata(title, description, soundLetter string, questionType models.QuestionType) error {
	if errs := d.business.ValidateMetadata(title, soundLetter, questionType); len(errs) > 0 {
		return errs
	}

	d.title = strings.TrimSpace(title)
	d.description = strings.TrimSpace(description)
	d.soundLetter = strings.TrimSpace(soundLetter)
	d.questionType = questionType
	return nil
}

func (d *Document) SetMaterial(materialID uint) {
	d.materialID = materialID
}

// Questions returns a copy of the ordered question list.
func (d *Document) Questions() []models.Question {
	out := make([]models.Question, len(d.questions))
	copy(out, d.questions)
	return out
}

func (d *Document) Question(id int64) (models.Question, bool) {
	idx := d.indexOf(id)
	if idx < 0 {
		return models.Question{}, false
	}
	return d.questions[idx], true
}

func (d *Document) Len() int {
	return len(d.questions)
}

func (d *Document) QuestionType() models.QuestionType {
	return d.questionType
}

// ToPersistable builds the record to save. An assignment without questions
// or without valid metadata is refused.
func (d *Document) ToPersistable() (Persistable, error) {
	if errs := d.business.ValidateMetadata(d.title, d.soundLetter, d.questionType); len(errs) > 0 {
		return Persistable{}, errs
	}
	if len(d.questions) == 0 {
		return Persistable{}, apperrors.EmptyCollection("questions")
	}

	p := Persistable{
		MaterialID:   d.materialID,
		Title:        d.title,
		SoundLetter:  d.soundLetter,
		QuestionType: d.questionType,
		Questions:    d.Questions(),
	}
	if d.description != "" {
		desc := d.description
		p.Description = &desc
	}
	return p, nil
}

// Apply copies the persistable fields onto a stored assignment row.
func (p Persistable) Apply(a *models.Assignment) {
	a.MaterialID = p.MaterialID
	a.Title = p.Title
	a.Description = p.Description
	a.SoundLetter = p.SoundLetter
	a.QuestionType = p.QuestionType
	a.Questions = p.Questions
}
