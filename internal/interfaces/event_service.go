package interfaces

import (
	"context"
	"time"
)

// EventType identifies an application event
type EventType string

const (
	EventChainsDetected    EventType = "chains.detected"
	EventClustersRefreshed EventType = "clusters.refreshed"
	EventSnapshotLoaded    EventType = "snapshot.loaded"
)

// Event carries a published application event
type Event struct {
	Type      EventType              `json:"type"`
	EntityID  string                 `json:"entity_id,omitempty"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// EventHandler processes a published event
type EventHandler func(ctx context.Context, event Event)

// EventService is an in-process pub/sub bus for application events
type EventService interface {
	Subscribe(eventType EventType, handler EventHandler)
	Publish(ctx context.Context, event Event)
}
