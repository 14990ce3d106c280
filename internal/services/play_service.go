package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/phonics-service/internal/events"
	"github.com/SAP-F-2025/phonics-service/internal/models"
	"github.com/SAP-F-2025/phonics-service/internal/playback"
)

// AssignmentReader is the part of AssignmentService play sessions need
type AssignmentReader interface {
	GetByID(ctx context.Context, id uint) (*models.Assignment, error)
}

type PlayOption func(*playService)

// WithShuffler makes every new session use shuffler
func WithShuffler(newShuffler func() playback.Shuffler) PlayOption {
	return func(s *playService) {
		s.newShuffler = newShuffler
	}
}

func WithPlayClock(clock func() time.Time) PlayOption {
	return func(s *playService) {
		s.clock = clock
	}
}

type playService struct {
	assignments AssignmentReader
	registry    *playback.Registry
	events      *eventNotifier
	logger      *slog.Logger
	log         *ServiceLogger
	newShuffler func() playback.Shuffler
	clock       func() time.Time
}

func NewPlayService(assignments AssignmentReader, registry *playback.Registry, publisher events.EventPublisher, logger *slog.Logger, opts ...PlayOption) PlayService {
	s := &playService{
		assignments: assignments,
		registry:    registry,
		events:      newEventNotifier(publisher, logger),
		logger:      logger,
		log:         NewServiceLogger(logger, LogConfig{Service: "phonics", Component: "play"}),
		newShuffler: playback.NewShuffler,
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens a session on the assignment and moves it to the first question
func (s *playService) Start(ctx context.Context, assignmentID uint, learner models.Principal) (view *playback.SessionView, err error) {
	op := s.log.WithOperation(ctx, "start_session", learner.Subject)
	defer func() { op.LogResult(assignmentID, "play_session", err) }()

	if !learner.IsAuthenticated() {
		return nil, ErrUnauthorized
	}

	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	session, err := playback.NewSession(uuid.NewString(), assignment, learner.Subject, s.newShuffler(), s.clock)
	if err != nil {
		if errors.Is(err, playback.ErrNoQuestions) {
			return nil, fmt.Errorf("%w: %d", ErrAssignmentEmpty, assignmentID)
		}
		return nil, err
	}
	if err := session.Start(); err != nil {
		return nil, err
	}

	s.registry.Add(session)
	s.logger.Info("Play session started",
		"session_id", session.ID,
		"assignment_id", assignmentID,
		"learner_id", learner.Subject,
		"questions", session.Total())

	return s.view(session)
}

func (s *playService) Get(ctx context.Context, sessionID string, learner models.Principal) (*playback.SessionView, error) {
	return s.step(sessionID, learner, func(*playback.Session) error { return nil })
}

// RecordAnswer replaces the answer of the current question
func (s *playService) RecordAnswer(ctx context.Context, sessionID string, answer models.AnswerEnvelope, learner models.Principal) (*playback.SessionView, error) {
	return s.step(sessionID, learner, func(session *playback.Session) error {
		return session.RecordEnvelope(answer)
	})
}

func (s *playService) Next(ctx context.Context, sessionID string, learner models.Principal) (*playback.SessionView, error) {
	return s.step(sessionID, learner, (*playback.Session).Next)
}

func (s *playService) Previous(ctx context.Context, sessionID string, learner models.Principal) (*playback.SessionView, error) {
	return s.step(sessionID, learner, (*playback.Session).Previous)
}

// Check grades the current answer. A wrong answer is cleared by the session.
func (s *playService) Check(ctx context.Context, sessionID string, learner models.Principal) (*CheckResponse, error) {
	var resp CheckResponse
	err := s.registry.WithSession(sessionID, learner.Subject, func(session *playback.Session) error {
		correct, err := session.Check()
		if err != nil {
			return err
		}
		resp = CheckResponse{Correct: correct, IsLast: session.IsLast()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Finish grades the whole session and publishes the result
func (s *playService) Finish(ctx context.Context, sessionID string, learner models.Principal) (result *playback.ResultView, err error) {
	op := s.log.WithOperation(ctx, "finish_session", learner.Subject)

	var completed events.SessionCompletedEvent
	err = s.registry.WithSession(sessionID, learner.Subject, func(session *playback.Session) error {
		res, err := session.Finish()
		if err != nil {
			return err
		}
		result = playback.NewResultView(res)
		completed = events.SessionCompletedEvent{
			SessionID:    session.ID,
			AssignmentID: session.AssignmentID,
			LearnerID:    session.LearnerID,
			CorrectCount: res.CorrectCount,
			Total:        res.Total,
			Percent:      res.Percent,
			Tier:         string(result.Tier),
			Duration:     session.Duration(),
		}
		return nil
	})
	op.LogResult(completed.AssignmentID, "play_session", err)
	if err != nil {
		return nil, err
	}

	s.events.publish(ctx, events.NewSessionCompletedEvent(completed))
	return result, nil
}

func (s *playService) Restart(ctx context.Context, sessionID string, learner models.Principal) (*playback.SessionView, error) {
	return s.step(sessionID, learner, (*playback.Session).Restart)
}

func (s *playService) Abandon(ctx context.Context, sessionID string, learner models.Principal) error {
	return s.registry.Remove(sessionID, learner.Subject)
}

func (s *playService) Sweep() int {
	return s.registry.Sweep()
}

// step runs fn under the registry lock and snapshots the session afterwards
func (s *playService) step(sessionID string, learner models.Principal, fn func(*playback.Session) error) (*playback.SessionView, error) {
	var view *playback.SessionView
	err := s.registry.WithSession(sessionID, learner.Subject, func(session *playback.Session) error {
		if err := fn(session); err != nil {
			return err
		}
		v, err := s.view(session)
		if err != nil {
			return err
		}
		view = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *playService) view(session *playback.Session) (*playback.SessionView, error) {
	v, err := session.View()
	if err != nil {
		return nil, err
	}
	return &v, nil
}
