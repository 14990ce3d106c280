package playback

import (
	"errors"
	"fmt"
	"time"

	"github.com/SAP-F-2025/phonics-service/internal/grading"
	"github.com/SAP-F-2025/phonics-service/internal/models"
)

var (
	ErrSessionNotStarted     = errors.New("play session not started")
	ErrSessionAlreadyStarted = errors.New("play session already started")
	ErrSessionCompleted      = errors.New("play session already completed")
	ErrNoQuestions           = errors.New("assignment has no questions")
	ErrIndexOutOfRange       = errors.New("question index out of range")
	ErrAnswerTypeMismatch    = errors.New("answer does not match question type")
)

type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

// Session is one learner playing one assignment. It owns its answers and
// never writes them back to storage.
type Session struct {
	ID           string
	AssignmentID uint
	LearnerID    string

	questions     []models.Question
	recorder      *AnswerRecorder
	shuffler      Shuffler
	presentations map[int]Presentation

	state  State
	index  int
	result *grading.Result

	startedAt  time.Time
	lastActive time.Time
	clock      func() time.Time
}

// NewSession prepares a session over a copy of the assignment's questions.
func NewSession(id string, a *models.Assignment, learnerID string, shuffler Shuffler, clock func() time.Time) (*Session, error) {
	if len(a.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	if shuffler == nil {
		shuffler = NewShuffler()
	}
	if clock == nil {
		clock = time.Now
	}

	questions := make([]models.Question, len(a.Questions))
	copy(questions, a.Questions)

	return &Session{
		ID:            id,
		AssignmentID:  a.ID,
		LearnerID:     learnerID,
		questions:     questions,
		recorder:      NewAnswerRecorder(),
		shuffler:      shuffler,
		presentations: make(map[int]Presentation),
		state:         StateNotStarted,
		lastActive:    clock(),
		clock:         clock,
	}, nil
}

func (s *Session) touch() {
	s.lastActive = s.clock()
}

func (s *Session) requireInProgress() error {
	switch s.state {
	case StateNotStarted:
		return ErrSessionNotStarted
	case StateCompleted:
		return ErrSessionCompleted
	}
	return nil
}

func (s *Session) Start() error {
	switch s.state {
	case StateInProgress:
		return ErrSessionAlreadyStarted
	case StateCompleted:
		return ErrSessionCompleted
	}
	s.state = StateInProgress
	s.index = 0
	s.startedAt = s.clock()
	s.touch()
	return nil
}

func (s *Session) State() State          { return s.state }
func (s *Session) Index() int            { return s.index }
func (s *Session) Total() int            { return len(s.questions) }
func (s *Session) LastActive() time.Time { return s.lastActive }

// CurrentQuestion returns the authored question at the cursor.
func (s *Session) CurrentQuestion() (models.Question, error) {
	if err := s.requireInProgress(); err != nil {
		return models.Question{}, err
	}
	return s.questions[s.index], nil
}

// Current returns the presentation at the cursor. The shuffled order is kept
// for the question until the session restarts.
func (s *Session) Current() (Presentation, error) {
	if err := s.requireInProgress(); err != nil {
		return Presentation{}, err
	}
	if p, ok := s.presentations[s.index]; ok {
		return p, nil
	}
	p, err := PresentQuestion(s.questions[s.index], s.shuffler)
	if err != nil {
		return Presentation{}, err
	}
	s.presentations[s.index] = p
	return p, nil
}

// Record replaces the answer for the current question.
func (s *Session) Record(answer models.RecordedAnswer) error {
	if err := s.requireInProgress(); err != nil {
		return err
	}
	q := s.questions[s.index]
	if answer != nil && answer.Type() != q.Type() {
		return fmt.Errorf("%w: got %s, want %s", ErrAnswerTypeMismatch, answer.Type(), q.Type())
	}
	s.recorder.Record(s.index, answer)
	s.touch()
	return nil
}

// RecordEnvelope resolves an HTTP answer against the current question.
func (s *Session) RecordEnvelope(env models.AnswerEnvelope) error {
	q, err := s.CurrentQuestion()
	if err != nil {
		return err
	}
	answer, err := env.ToAnswer(q)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAnswerTypeMismatch, err)
	}
	return s.Record(answer)
}

// Answer returns the answer recorded for the current question, if any.
func (s *Session) Answer() (models.RecordedAnswer, bool) {
	return s.recorder.Get(s.index)
}

func (s *Session) Next() error {
	if err := s.requireInProgress(); err != nil {
		return err
	}
	if s.index+1 >= len(s.questions) {
		return ErrIndexOutOfRange
	}
	s.index++
	s.touch()
	return nil
}

func (s *Session) Previous() error {
	if err := s.requireInProgress(); err != nil {
		return err
	}
	if s.index == 0 {
		return ErrIndexOutOfRange
	}
	s.index--
	s.touch()
	return nil
}

// Check grades the current question. An incorrect answer is cleared and the
// cursor stays put so the learner has to answer again.
func (s *Session) Check() (bool, error) {
	if err := s.requireInProgress(); err != nil {
		return false, err
	}
	answer, _ := s.recorder.Get(s.index)
	correct := grading.IsCorrect(s.questions[s.index], answer)
	if !correct {
		s.recorder.Reset(s.index)
	}
	s.touch()
	return correct, nil
}

// IsLast reports whether the cursor is on the final question.
func (s *Session) IsLast() bool {
	return s.index == len(s.questions)-1
}

// Finish grades every question and completes the session.
func (s *Session) Finish() (grading.Result, error) {
	if err := s.requireInProgress(); err != nil {
		return grading.Result{}, err
	}
	res := grading.Score(s.questions, s.recorder.Answers())
	s.result = &res
	s.state = StateCompleted
	s.touch()
	return res, nil
}

func (s *Session) Result() (grading.Result, bool) {
	if s.result == nil {
		return grading.Result{}, false
	}
	return *s.result, true
}

// Restart clears every answer and returns to the first question.
func (s *Session) Restart() error {
	if s.state == StateNotStarted {
		return ErrSessionNotStarted
	}
	s.recorder.ResetAll()
	clear(s.presentations)
	s.result = nil
	s.index = 0
	s.state = StateInProgress
	s.touch()
	return nil
}

// Duration is the time since Start.
func (s *Session) Duration() time.Duration {
	if s.startedAt.IsZero() {
		return 0
	}
	return s.clock().Sub(s.startedAt)
}
