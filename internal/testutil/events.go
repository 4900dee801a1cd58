package testutil

import (
	"context"
	"sync"

	"github.com/Skotchmaster/storefront/internal/events"
)

type Published struct {
	Topic string
	Key   string
	Event any
}

// Recorder is an in-memory events.Publisher.
type Recorder struct {
	mu  sync.Mutex
	out []Published
	Err error
}

func (r *Recorder) Publish(_ context.Context, topic, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.out = append(r.out, Published{Topic: topic, Key: key, Event: event})
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) All() []Published {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Published(nil), r.out...)
}

// Types lists the event types in publish order.
func (r *Recorder) Types() []string {
	var types []string
	for _, p := range r.All() {
		switch ev := p.Event.(type) {
		case events.UserEvent:
			types = append(types, ev.Type)
		case events.ProductEvent:
			types = append(types, ev.Type)
		}
	}
	return types
}
