package service

import (
	"context"
	"encoding/json"

	"rag-knowledge-be/internal/pkg/logger"
	"rag-knowledge-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService records knowledge events from the in-process bus.
// Chunks are immutable after ingestion, so rejection changes nothing in
// storage; retrieval keeps serving a rejected source's chunks and the
// moderation state travels with each result row.
type consumerService struct {
	bus    *events.ChannelBus
	logger logger.ILogger
}

func NewConsumerService(bus *events.ChannelBus, log logger.ILogger) IConsumerService {
	return &consumerService{
		bus:    bus,
		logger: log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	ingested, err := cs.bus.Subscribe(ctx, events.TypeSourceIngested)
	if err != nil {
		return err
	}
	rejected, err := cs.bus.Subscribe(ctx, events.TypeSourceRejected)
	if err != nil {
		return err
	}

	go func() {
		for msg := range ingested {
			cs.handleIngested(msg)
		}
	}()
	go func() {
		for msg := range rejected {
			cs.handleRejected(msg)
		}
	}()

	return nil
}

func (cs *consumerService) handleIngested(msg *message.Message) {
	var payload events.SourceIngestedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer", "failed to unmarshal ingestion event", map[string]interface{}{"error": err.Error()})
		// Malformed payloads never become valid; drop them.
		msg.Ack()
		return
	}

	cs.logger.Info("consumer", "source ingested", map[string]interface{}{
		"source_id": payload.SourceId,
		"path":      payload.Path,
		"chunks":    payload.ChunkCount,
	})
	msg.Ack()
}

func (cs *consumerService) handleRejected(msg *message.Message) {
	var payload events.SourceRejectedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer", "failed to unmarshal rejection event", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}

	cs.logger.Info("consumer", "source rejected", map[string]interface{}{
		"source_id": payload.SourceId,
		"reason":    payload.Reason,
	})
	msg.Ack()
}
