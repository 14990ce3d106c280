package services

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/phonics-service/internal/events"
	"github.com/SAP-F-2025/phonics-service/internal/models"
)

// eventNotifier publishes domain events after a change has been committed.
// Publishing is best effort: a broker failure is logged and never undoes or
// fails the change that caused it.
type eventNotifier struct {
	publisher events.EventPublisher
	logger    *slog.Logger
}

func newEventNotifier(publisher events.EventPublisher, logger *slog.Logger) *eventNotifier {
	return &eventNotifier{publisher: publisher, logger: logger}
}

func (n *eventNotifier) publish(ctx context.Context, event *events.Event) {
	if n == nil || n.publisher == nil {
		return
	}
	if err := n.publisher.Publish(ctx, event); err != nil {
		n.logger.Warn("Failed to publish domain event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
	}
}

func (n *eventNotifier) material(ctx context.Context, t events.EventType, m *models.Material, actor models.Principal) {
	n.publish(ctx, events.NewMaterialEvent(t, events.MaterialEvent{
		MaterialID: m.ID,
		Title:      m.Title,
		ActorID:    actor.Subject,
	}))
}

func (n *eventNotifier) assignment(ctx context.Context, t events.EventType, a *models.Assignment, actor models.Principal) {
	n.publish(ctx, events.NewAssignmentEvent(t, events.AssignmentEvent{
		AssignmentID:   a.ID,
		MaterialID:     a.MaterialID,
		Title:          a.Title,
		QuestionType:   string(a.QuestionType),
		QuestionsCount: len(a.Questions),
		ActorID:        actor.Subject,
	}))
}
