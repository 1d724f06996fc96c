// Package events is the in-process message-passing boundary between
// domain operations and the achievement engine. Publishing is synchronous:
// a trigger's completion means every subscribed handler has run.
package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/bitewise-app/bitewise/internal/domain"
)

// Handler processes one published event.
type Handler func(ctx context.Context, evt domain.Event) error

// Bus defines the publish/subscribe contract.
type Bus interface {
	Publish(ctx context.Context, evt domain.Event) error
	Subscribe(action domain.Action, h Handler)
}

// MemoryBus is an in-memory, synchronous Bus. Handlers for an action run
// in subscription order; all handlers run even when earlier ones fail,
// and their errors are aggregated.
type MemoryBus struct {
	mu       sync.RWMutex
	handlers map[domain.Action][]Handler
}

// NewMemoryBus creates an empty bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{handlers: make(map[domain.Action][]Handler)}
}

// Publish delivers the event to every handler subscribed to its action.
// An event with no subscribers is a no-op.
func (b *MemoryBus) Publish(ctx context.Context, evt domain.Event) error {
	b.mu.RLock()
	handlers := b.handlers[evt.Action]
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d handler error(s) for %s: %v", len(errs), evt.Action, errs)
	}
	return nil
}

// Subscribe registers a handler for an action.
func (b *MemoryBus) Subscribe(action domain.Action, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[action] = append(b.handlers[action], h)
}
