// Package events provides the in-process publish/subscribe bus used by
// Runar service integrations. Topics are slash-separated paths such as
// "users/created"; a subscription may end in a single trailing wildcard
// segment ("users/*") to receive every event below a prefix.
package events

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/runar-labs/runar-sqlite/internal/logger"
)

// Handler receives published events. Handlers run synchronously on the
// publishing goroutine, in subscription order.
type Handler func(ctx context.Context, topic string, payload any)

// subscription pairs a topic pattern with its handler.
type subscription struct {
	id      string
	pattern string
	handler Handler
}

// Bus is a topic-based publish/subscribe dispatcher. The zero value is
// not usable; construct with NewBus.
type Bus struct {
	mu   sync.RWMutex
	subs []subscription
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for a topic pattern and returns the
// subscription id used to unsubscribe.
func (b *Bus) Subscribe(pattern string, handler Handler) string {
	id := uuid.NewString()
	b.mu.Lock()
	b.subs = append(b.subs, subscription{id: id, pattern: pattern, handler: handler})
	b.mu.Unlock()
	logger.Debug("Subscribed %s to %q", id, pattern)
	return id
}

// Unsubscribe removes a subscription. Unknown ids are ignored.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subs {
		if sub.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers the payload to every matching subscription. A handler
// panic is contained so one subscriber cannot break the others.
func (b *Bus) Publish(ctx context.Context, topic string, payload any) {
	b.mu.RLock()
	matched := make([]subscription, 0, len(b.subs))
	for _, sub := range b.subs {
		if Match(sub.pattern, topic) {
			matched = append(matched, sub)
		}
	}
	b.mu.RUnlock()

	for _, sub := range matched {
		deliver(ctx, sub, topic, payload)
	}
}

func deliver(ctx context.Context, sub subscription, topic string, payload any) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Subscriber %s panicked on %q: %v", sub.id, topic, r)
		}
	}()
	sub.handler(ctx, topic, payload)
}

// Match reports whether a topic pattern matches a concrete topic.
// Patterns match exactly, except that a trailing "*" segment matches any
// remaining segments ("users/*" matches "users/created").
func Match(pattern, topic string) bool {
	if pattern == topic {
		return true
	}
	if pattern == "*" {
		return true
	}
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "*")
		return strings.HasPrefix(topic, prefix)
	}
	return false
}
