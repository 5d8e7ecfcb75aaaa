package events

import (
	"context"
	"errors"
)

// Fanout publishes every event to all backing publishers. Used when the
// in-process consumer and an external bus both need the event stream.
type Fanout struct {
	publishers []Publisher
}

var _ Publisher = &Fanout{}

func NewFanout(publishers ...Publisher) *Fanout {
	return &Fanout{publishers: publishers}
}

func (f *Fanout) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range f.publishers {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *Fanout) Close() {
	for _, p := range f.publishers {
		p.Close()
	}
}
