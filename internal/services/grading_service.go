package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/phonics-service/internal/grading"
	"github.com/SAP-F-2025/phonics-service/internal/models"
	"github.com/SAP-F-2025/phonics-service/internal/playback"
	"github.com/SAP-F-2025/phonics-service/internal/validator"
)

type gradingService struct {
	logger    *slog.Logger
	validator *validator.Validator
}

func NewGradingService(logger *slog.Logger, validator *validator.Validator) GradingService {
	return &gradingService{logger: logger, validator: validator}
}

// Check grades one answer against one question. An answer of the wrong
// variant is a bad request; a missing answer simply grades as incorrect.
func (s *gradingService) Check(ctx context.Context, req *CheckAnswerRequest) (*CheckResponse, error) {
	if err := s.validator.Question().ValidateQuestion(req.Question); err != nil {
		return nil, err
	}

	answer, err := req.Answer.ToAnswer(req.Question)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	return &CheckResponse{Correct: grading.IsCorrect(req.Question, answer), IsLast: true}, nil
}

// Score grades a full answer sheet. Answers are matched to questions by
// position; missing trailing answers count as incorrect.
func (s *gradingService) Score(ctx context.Context, req *ScoreRequest) (*playback.ResultView, error) {
	if err := s.validator.Question().ValidateBatch(req.Questions); err != nil {
		return nil, err
	}
	if len(req.Answers) > len(req.Questions) {
		return nil, fmt.Errorf("%w: %d answers for %d questions", ErrBadRequest, len(req.Answers), len(req.Questions))
	}

	answers := make(map[int]models.RecordedAnswer, len(req.Answers))
	for i, env := range req.Answers {
		if env.Type == "" {
			continue
		}
		answer, err := env.ToAnswer(req.Questions[i])
		if err != nil {
			return nil, fmt.Errorf("%w: answer %d: %v", ErrBadRequest, i+1, err)
		}
		answers[i] = answer
	}

	result := grading.Score(req.Questions, answers)
	s.logger.Debug("Scored answer sheet", "total", result.Total, "correct", result.CorrectCount)
	return playback.NewResultView(result), nil
}
