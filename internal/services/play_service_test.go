package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/phonics-service/internal/events"
	"github.com/SAP-F-2025/phonics-service/internal/grading"
	"github.com/SAP-F-2025/phonics-service/internal/models"
	"github.com/SAP-F-2025/phonics-service/internal/playback"
)

type stubAssignments struct {
	mock.Mock
}

func (s *stubAssignments) GetByID(ctx context.Context, id uint) (*models.Assignment, error) {
	args := s.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Assignment), args.Error(1)
}

type playFixture struct {
	svc        PlayService
	assignment *stubAssignments
	registry   *playback.Registry
	publisher  *events.MockEventPublisher
	now        time.Time
}

func newPlayFixture(t *testing.T) *playFixture {
	t.Helper()
	f := &playFixture{
		assignment: &stubAssignments{},
		publisher:  events.NewMockEventPublisher(newTestLogger()),
		now:        time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }
	f.registry = playback.NewRegistry(30*time.Minute, clock)
	f.svc = NewPlayService(f.assignment, f.registry, f.publisher, newTestLogger(),
		WithShuffler(playback.NoShuffle),
		WithPlayClock(clock))
	return f
}

func TestPlayService_FullSession(t *testing.T) {
	f := newPlayFixture(t)
	ctx := context.Background()
	f.assignment.On("GetByID", ctx, uint(10)).
		Return(pictureAssignment(10, 1, pictureQuestion(1), syllableQuestion(2)), nil)

	view, err := f.svc.Start(ctx, 10, learner())
	require.NoError(t, err)
	assert.Equal(t, playback.StateInProgress, view.State)
	assert.Equal(t, 0, view.Index)
	assert.Equal(t, 2, view.Total)
	require.NotNil(t, view.Question)

	_, err = f.svc.RecordAnswer(ctx, view.ID, models.AnswerEnvelope{
		Type:     models.PictureChoice,
		Selected: []models.ImageRef{"sun.png", "sock.png"},
	}, learner())
	require.NoError(t, err)

	check, err := f.svc.Check(ctx, view.ID, learner())
	require.NoError(t, err)
	assert.True(t, check.Correct)
	assert.False(t, check.IsLast)

	next, err := f.svc.Next(ctx, view.ID, learner())
	require.NoError(t, err)
	assert.Equal(t, 1, next.Index)
	assert.True(t, next.IsLast)

	_, err = f.svc.RecordAnswer(ctx, view.ID, models.AnswerEnvelope{
		Type:     models.SyllablePattern,
		Patterns: map[string]string{"sun": "--", "sister": "--"},
	}, learner())
	require.NoError(t, err)

	f.now = f.now.Add(90 * time.Second)
	result, err := f.svc.Finish(ctx, view.ID, learner())
	require.NoError(t, err)
	assert.Equal(t, 1, result.CorrectCount)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 50, result.Percent)
	assert.Equal(t, grading.TierLow, result.Tier)

	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventSessionCompleted, published[0].Type)
	payload, ok := published[0].Data.(events.SessionCompletedEvent)
	require.True(t, ok)
	assert.Equal(t, "learner-1", payload.LearnerID)
	assert.Equal(t, uint(10), payload.AssignmentID)
	assert.Equal(t, 90*time.Second, payload.Duration)

	_, err = f.svc.Next(ctx, view.ID, learner())
	assert.True(t, IsConflict(err))
}

func TestPlayService_WrongAnswerIsCleared(t *testing.T) {
	f := newPlayFixture(t)
	ctx := context.Background()
	f.assignment.On("GetByID", ctx, uint(10)).Return(pictureAssignment(10, 1, pictureQuestion(1)), nil)

	view, err := f.svc.Start(ctx, 10, learner())
	require.NoError(t, err)

	_, err = f.svc.RecordAnswer(ctx, view.ID, models.AnswerEnvelope{
		Type:     models.PictureChoice,
		Selected: []models.ImageRef{"sun.png", "cat.png"},
	}, learner())
	require.NoError(t, err)

	check, err := f.svc.Check(ctx, view.ID, learner())
	require.NoError(t, err)
	assert.False(t, check.Correct)
	assert.True(t, check.IsLast)

	current, err := f.svc.Get(ctx, view.ID, learner())
	require.NoError(t, err)
	assert.Nil(t, current.Answer)
}

func TestPlayService_StartRequiresLearner(t *testing.T) {
	f := newPlayFixture(t)

	_, err := f.svc.Start(context.Background(), 10, models.Principal{Role: models.RoleAnonymous})
	assert.ErrorIs(t, err, ErrUnauthorized)
	f.assignment.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestPlayService_StartEmptyAssignment(t *testing.T) {
	f := newPlayFixture(t)
	ctx := context.Background()
	f.assignment.On("GetByID", ctx, uint(10)).Return(pictureAssignment(10, 1), nil)

	_, err := f.svc.Start(ctx, 10, learner())
	assert.ErrorIs(t, err, ErrAssignmentEmpty)
	assert.True(t, IsConflict(err))
	assert.Equal(t, 0, f.registry.Len())
}

func TestPlayService_OtherLearnerCannotSeeSession(t *testing.T) {
	f := newPlayFixture(t)
	ctx := context.Background()
	f.assignment.On("GetByID", ctx, uint(10)).Return(pictureAssignment(10, 1, pictureQuestion(1)), nil)

	view, err := f.svc.Start(ctx, 10, learner())
	require.NoError(t, err)

	other := models.Principal{Subject: "learner-2", Role: models.RoleLearner}
	_, err = f.svc.Get(ctx, view.ID, other)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, f.svc.Abandon(ctx, view.ID, other), ErrSessionNotFound)
}

func TestPlayService_AnswerTypeMismatch(t *testing.T) {
	f := newPlayFixture(t)
	ctx := context.Background()
	f.assignment.On("GetByID", ctx, uint(10)).Return(pictureAssignment(10, 1, pictureQuestion(1)), nil)

	view, err := f.svc.Start(ctx, 10, learner())
	require.NoError(t, err)

	_, err = f.svc.RecordAnswer(ctx, view.ID, models.AnswerEnvelope{
		Type:       models.CategorySplit,
		Categories: map[string]string{"sun": "1"},
	}, learner())
	assert.True(t, IsBadRequest(err))
}

func TestPlayService_RestartAndSweep(t *testing.T) {
	f := newPlayFixture(t)
	ctx := context.Background()
	f.assignment.On("GetByID", ctx, uint(10)).
		Return(pictureAssignment(10, 1, pictureQuestion(1), pictureQuestion(2)), nil)

	view, err := f.svc.Start(ctx, 10, learner())
	require.NoError(t, err)

	_, err = f.svc.Next(ctx, view.ID, learner())
	require.NoError(t, err)
	_, err = f.svc.Finish(ctx, view.ID, learner())
	require.NoError(t, err)

	restarted, err := f.svc.Restart(ctx, view.ID, learner())
	require.NoError(t, err)
	assert.Equal(t, 0, restarted.Index)
	assert.Equal(t, playback.StateInProgress, restarted.State)
	assert.Nil(t, restarted.Result)

	f.now = f.now.Add(31 * time.Minute)
	assert.Equal(t, 1, f.svc.Sweep())
	_, err = f.svc.Get(ctx, view.ID, learner())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
