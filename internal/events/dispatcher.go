package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

// inMemoryDispatcher is a simple synchronous dispatcher.
type inMemoryDispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher() Dispatcher {
	return &inMemoryDispatcher{
		listeners: make(map[EventType][]EventHandler),
	}
}

// Emit builds an event with a fresh id and current timestamp and publishes it.
func Emit(ctx context.Context, d Dispatcher, eventType EventType, clientID string, payload interface{}) {
	if d == nil {
		return
	}
	_ = d.Publish(ctx, Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ClientID:  clientID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}

// Publish synchronously invokes handlers for the given event. Handler errors
// do not stop delivery to the remaining handlers; the first one is returned.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	handlers := append([]EventHandler{}, d.listeners[event.Type]...)
	d.mu.RUnlock()

	var first error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Subscribe registers a handler for the given event type.
func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}
