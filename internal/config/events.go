package config

import (
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/phonics-service/internal/events"
)

// EventConfig holds configuration for event publishing
type EventConfig struct {
	Enabled         bool
	Publisher       string // kafka, memory or mock
	KafkaBrokers    string
	AssignmentTopic string
}

func LoadEventConfig() EventConfig {
	return EventConfig{
		Enabled:         getEnvBool("EVENTS_ENABLED", true),
		Publisher:       getEnv("EVENTS_PUBLISHER", "memory"),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", "localhost:9092"),
		AssignmentTopic: getEnv("ASSIGNMENT_TOPIC", "phonics.assignments"),
	}
}

// GetKafkaBrokers returns Kafka brokers as a slice
func (c *EventConfig) GetKafkaBrokers() []string {
	return strings.Split(c.KafkaBrokers, ",")
}

// CreateEventPublisher creates an event publisher based on configuration
func (c *EventConfig) CreateEventPublisher(logger *slog.Logger) (events.EventPublisher, error) {
	if !c.Enabled {
		logger.Info("Event publishing disabled, using mock publisher")
		return events.NewMockEventPublisher(logger), nil
	}

	switch c.Publisher {
	case "kafka":
		logger.Info("Creating Kafka event publisher",
			"brokers", c.KafkaBrokers,
			"topic", c.AssignmentTopic)

		return events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers: c.GetKafkaBrokers(),
			TopicName:    c.AssignmentTopic,
			Logger:       logger,
		})
	case "memory":
		logger.Info("Using in-process event publisher", "topic", c.AssignmentTopic)
		return events.NewChannelEventPublisher(c.AssignmentTopic, logger), nil
	case "mock":
		logger.Info("Using mock event publisher")
		return events.NewMockEventPublisher(logger), nil
	default:
		logger.Warn("Unknown event publisher type, falling back to mock", "publisher", c.Publisher)
		return events.NewMockEventPublisher(logger), nil
	}
}
