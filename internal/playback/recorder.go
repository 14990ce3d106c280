package playback

import "github.com/SAP-F-2025/phonics-service/internal/models"

// AnswerRecorder keeps the learner's current answer per question index.
// Every Record replaces the whole value for that index.
type AnswerRecorder struct {
	answers map[int]models.RecordedAnswer
}

func NewAnswerRecorder() *AnswerRecorder {
	return &AnswerRecorder{answers: make(map[int]models.RecordedAnswer)}
}

// Record stores answer for the index. A nil answer clears it.
func (r *AnswerRecorder) Record(index int, answer models.RecordedAnswer) {
	if answer == nil {
		delete(r.answers, index)
		return
	}
	r.answers[index] = answer
}

func (r *AnswerRecorder) Get(index int) (models.RecordedAnswer, bool) {
	a, ok := r.answers[index]
	return a, ok
}

func (r *AnswerRecorder) Reset(index int) {
	delete(r.answers, index)
}

func (r *AnswerRecorder) ResetAll() {
	clear(r.answers)
}

// Answers returns a snapshot of every recorded answer.
func (r *AnswerRecorder) Answers() map[int]models.RecordedAnswer {
	out := make(map[int]models.RecordedAnswer, len(r.answers))
	for k, v := range r.answers {
		out[k] = v
	}
	return out
}

func (r *AnswerRecorder) Len() int {
	return len(r.answers)
}
