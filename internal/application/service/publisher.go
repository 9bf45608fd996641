package service

import (
	"context"
	"time"
)

type ContentEventType string

const (
	ContentCreated ContentEventType = "created"
	ContentUpdated ContentEventType = "updated"
	ContentDeleted ContentEventType = "deleted"
)

type ContentEvent struct {
	EventType  ContentEventType `json:"event_type"`
	Entity     string           `json:"entity"`
	ID         string           `json:"id,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// EventPublisher announces content changes made through the console.
type EventPublisher interface {
	PublishContentEvent(ctx context.Context, event ContentEvent) error
}
