package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	var got []any
	bus.Subscribe("users/created", func(_ context.Context, topic string, payload any) {
		got = append(got, payload)
	})

	bus.Publish(ctx, "users/created", 1)
	bus.Publish(ctx, "users/deleted", 2)

	assert.Equal(t, []any{1}, got)
}

func TestBus_Wildcard(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	var topics []string
	bus.Subscribe("users/*", func(_ context.Context, topic string, _ any) {
		topics = append(topics, topic)
	})

	bus.Publish(ctx, "users/created", nil)
	bus.Publish(ctx, "users/updated", nil)
	bus.Publish(ctx, "posts/created", nil)

	assert.Equal(t, []string{"users/created", "users/updated"}, topics)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	var count int
	id := bus.Subscribe("topic", func(context.Context, string, any) { count++ })
	require.NotEmpty(t, id)

	bus.Publish(ctx, "topic", nil)
	bus.Unsubscribe(id)
	bus.Publish(ctx, "topic", nil)

	assert.Equal(t, 1, count)

	// Unknown ids are ignored.
	bus.Unsubscribe("nope")
}

func TestBus_DeliveryOrder(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	var order []int
	bus.Subscribe("t", func(context.Context, string, any) { order = append(order, 1) })
	bus.Subscribe("t", func(context.Context, string, any) { order = append(order, 2) })
	bus.Subscribe("t", func(context.Context, string, any) { order = append(order, 3) })

	bus.Publish(ctx, "t", nil)
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestBus_PanickingSubscriberIsContained(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	var delivered bool
	bus.Subscribe("t", func(context.Context, string, any) { panic("boom") })
	bus.Subscribe("t", func(context.Context, string, any) { delivered = true })

	assert.NotPanics(t, func() { bus.Publish(ctx, "t", nil) })
	assert.True(t, delivered, "later subscribers still receive the event")
}

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern, topic string
		want           bool
	}{
		{"users/created", "users/created", true},
		{"users/created", "users/updated", false},
		{"users/*", "users/created", true},
		{"users/*", "users/a/b", true},
		{"users/*", "posts/created", false},
		{"*", "anything", true},
		{"users", "users/created", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Match(tt.pattern, tt.topic), "%q vs %q", tt.pattern, tt.topic)
	}
}
