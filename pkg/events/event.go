package events

import (
	"context"
	"time"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g. "SOURCE_INGESTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher sends events to whatever bus the deployment uses.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const (
	TypeSourceIngested = "SOURCE_INGESTED"
	TypeSourceRejected = "SOURCE_REJECTED"
)

// SourceIngestedPayload is the wire shape consumers decode a
// SOURCE_INGESTED payload into.
type SourceIngestedPayload struct {
	SourceId   string `json:"source_id"`
	Path       string `json:"path"`
	ChunkCount int    `json:"chunk_count"`
}

// SourceRejectedPayload is the wire shape consumers decode a
// SOURCE_REJECTED payload into.
type SourceRejectedPayload struct {
	SourceId string `json:"source_id"`
	Reason   string `json:"reason"`
}

// NewSourceIngested is emitted after an ingestion transaction commits.
func NewSourceIngested(sourceId, path string, chunkCount int) Event {
	return BaseEvent{
		Type: TypeSourceIngested,
		Data: map[string]interface{}{
			"source_id":   sourceId,
			"path":        path,
			"chunk_count": chunkCount,
		},
		OccurredAt: time.Now(),
	}
}

// NewSourceRejected is emitted when moderation rejects a source.
func NewSourceRejected(sourceId, reason string) Event {
	return BaseEvent{
		Type: TypeSourceRejected,
		Data: map[string]interface{}{
			"source_id": sourceId,
			"reason":    reason,
		},
		OccurredAt: time.Now(),
	}
}
