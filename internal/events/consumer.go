package events

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
)

// Handler processes one decoded event. Returning an error nacks the message.
type Handler func(ctx context.Context, event *Event) error

// Consume drains msgs until the channel closes or ctx is done. Messages that
// cannot be decoded are acked and dropped so they do not block the stream.
func Consume(ctx context.Context, msgs <-chan *message.Message, handle Handler, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			event, err := DecodeEvent(msg)
			if err != nil {
				logger.Warn("Dropping undecodable event", "message_id", msg.UUID, "error", err)
				msg.Ack()
				continue
			}

			if err := handle(ctx, event); err != nil {
				logger.Error("Event handler failed",
					"event_id", event.ID,
					"event_type", event.Type,
					"error", err)
				msg.Nack()
				continue
			}
			msg.Ack()
		}
	}
}

// LogActivity writes every event to the structured log. It is what the server
// attaches to the in-process publisher when no broker is configured.
func LogActivity(logger *slog.Logger) Handler {
	return func(ctx context.Context, event *Event) error {
		logger.InfoContext(ctx, "Domain event",
			"event_id", event.ID,
			"event_type", event.Type,
			"timestamp", event.Timestamp,
			"data", event.Data)
		return nil
	}
}
