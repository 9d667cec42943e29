package domain

import (
	"context"
	"time"
)

// EventType names a change to the question store
type EventType string

const (
	EventQuestionCreated EventType = "question_created"
	EventQuestionDeleted EventType = "question_deleted"
)

// QuestionEvent is broadcast to feed subscribers after a write
type QuestionEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	QuestionID int       `json:"question_id"`
	Question   *Question `json:"question,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher delivers question events to interested listeners
type EventPublisher interface {
	Publish(ctx context.Context, event QuestionEvent) error
}
