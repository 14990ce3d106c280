package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the kinds of domain events the service emits
type EventType string

const (
	// Material events
	EventMaterialCreated EventType = "material.created"
	EventMaterialUpdated EventType = "material.updated"
	EventMaterialDeleted EventType = "material.deleted"

	// Assignment events
	EventAssignmentCreated EventType = "assignment.created"
	EventAssignmentUpdated EventType = "assignment.updated"
	EventAssignmentDeleted EventType = "assignment.deleted"

	// Play events
	EventSessionCompleted EventType = "play.session_completed"
)

const (
	eventSource  = "phonics-service"
	eventVersion = "1.0"
)

// Event is the envelope for every published domain event
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type MaterialEvent struct {
	MaterialID uint   `json:"material_id"`
	Title      string `json:"title"`
	ActorID    string `json:"actor_id,omitempty"`
}

type AssignmentEvent struct {
	AssignmentID   uint   `json:"assignment_id"`
	MaterialID     uint   `json:"material_id"`
	Title          string `json:"title"`
	QuestionType   string `json:"question_type"`
	QuestionsCount int    `json:"questions_count"`
	ActorID        string `json:"actor_id,omitempty"`
}

type SessionCompletedEvent struct {
	SessionID    string        `json:"session_id"`
	AssignmentID uint          `json:"assignment_id"`
	LearnerID    string        `json:"learner_id"`
	CorrectCount int           `json:"correct_count"`
	Total        int           `json:"total"`
	Percent      int           `json:"percent"`
	Tier         string        `json:"tier"`
	Duration     time.Duration `json:"duration"`
}

func newEvent(t EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      t,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

func NewMaterialEvent(t EventType, payload MaterialEvent) *Event {
	return newEvent(t, payload)
}

func NewAssignmentEvent(t EventType, payload AssignmentEvent) *Event {
	return newEvent(t, payload)
}

func NewSessionCompletedEvent(payload SessionCompletedEvent) *Event {
	return newEvent(EventSessionCompleted, payload)
}
