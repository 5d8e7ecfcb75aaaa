package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// ChannelBus is the default in-process event bus, backed by watermill's
// gochannel pub/sub. It serves single-binary deployments; the NATS
// publisher replaces it when events must leave the process.
type ChannelBus struct {
	pubSub *gochannel.GoChannel
}

var _ Publisher = &ChannelBus{}

func NewChannelBus() *ChannelBus {
	return &ChannelBus{
		pubSub: gochannel.NewGoChannel(
			gochannel.Config{},
			watermill.NewStdLogger(false, false),
		),
	}
}

func (b *ChannelBus) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	return b.pubSub.Publish(event.EventType(), msg)
}

// Subscribe returns the message stream for one event type. Consumers must
// Ack every message.
func (b *ChannelBus) Subscribe(ctx context.Context, eventType string) (<-chan *message.Message, error) {
	return b.pubSub.Subscribe(ctx, eventType)
}

func (b *ChannelBus) Close() {
	_ = b.pubSub.Close()
}
