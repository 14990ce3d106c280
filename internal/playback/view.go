package playback

import (
	"github.com/SAP-F-2025/phonics-service/internal/grading"
	"github.com/SAP-F-2025/phonics-service/internal/models"
)

// SessionView is the JSON snapshot returned to the learner after every step.
type SessionView struct {
	ID           string                 `json:"id"`
	AssignmentID uint                   `json:"assignment_id"`
	State        State                  `json:"state"`
	Index        int                    `json:"index"`
	Total        int                    `json:"total"`
	IsLast       bool                   `json:"is_last"`
	Question     *Presentation          `json:"question,omitempty"`
	Answer       *models.AnswerEnvelope `json:"answer,omitempty"`
	Result       *ResultView            `json:"result,omitempty"`
}

type ResultView struct {
	grading.Result
	Tier    grading.TierLevel `json:"tier"`
	Emoji   string            `json:"emoji"`
	Message string            `json:"message"`
}

func NewResultView(r grading.Result) *ResultView {
	tier := r.Tier()
	return &ResultView{Result: r, Tier: tier.Level, Emoji: tier.Emoji, Message: tier.Message}
}

// View snapshots the session for a response body.
func (s *Session) View() (SessionView, error) {
	v := SessionView{
		ID:           s.ID,
		AssignmentID: s.AssignmentID,
		State:        s.state,
		Index:        s.index,
		Total:        len(s.questions),
		IsLast:       s.IsLast(),
	}

	if s.state == StateInProgress {
		p, err := s.Current()
		if err != nil {
			return SessionView{}, err
		}
		v.Question = &p
		if a, ok := s.Answer(); ok {
			e := models.EnvelopeOf(a)
			v.Answer = &e
		}
	}
	if res, ok := s.Result(); ok {
		v.Result = NewResultView(res)
	}
	return v, nil
}

// AssignmentView is the public form of an assignment: its metadata and the
// presentation of every question, with no answer keys.
type AssignmentView struct {
	models.AssignmentSummary
	Questions []Presentation `json:"questions"`
}

func PresentAssignment(a *models.Assignment, s Shuffler) (AssignmentView, error) {
	v := AssignmentView{
		AssignmentSummary: a.Summary(),
		Questions:         make([]Presentation, 0, len(a.Questions)),
	}
	for _, q := range a.Questions {
		p, err := PresentQuestion(q, s)
		if err != nil {
			return AssignmentView{}, err
		}
		v.Questions = append(v.Questions, p)
	}
	return v, nil
}
