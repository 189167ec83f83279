package events

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Handler reacts to a published event.
type Handler func(ctx context.Context, event Event)

type subscription struct {
	id    string
	types map[Type]struct{}
	fn    Handler
}

// Bus delivers events synchronously, in subscription order, on the
// publishing goroutine.
type Bus struct {
	mu   sync.RWMutex
	subs []subscription
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn for the given types, or for every type when none are
// given. It returns the subscription id.
func (b *Bus) Subscribe(fn Handler, types ...Type) string {
	sub := subscription{id: uuid.NewString(), fn: fn}
	if len(types) > 0 {
		sub.types = make(map[Type]struct{}, len(types))
		for _, t := range types {
			sub.types[t] = struct{}{}
		}
	}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()
	return sub.id
}

// Unsubscribe removes a subscription. Unknown ids are ignored.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subs {
		if sub.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish hands event to every matching subscriber before returning.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()

	for _, sub := range subs {
		if sub.types != nil {
			if _, ok := sub.types[event.Type]; !ok {
				continue
			}
		}
		sub.fn(ctx, event)
	}
}
