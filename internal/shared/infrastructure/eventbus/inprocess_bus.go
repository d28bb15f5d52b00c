package eventbus

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// Handler consumes a published message.
type Handler func(ctx context.Context, routingKey string, payload []byte) error

// InProcessBus delivers messages synchronously to subscribed handlers.
// Used in local mode when no RabbitMQ broker is configured.
type InProcessBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler // keyed by routing-key prefix
	logger   *slog.Logger
}

// NewInProcessBus creates a new in-process bus.
func NewInProcessBus(logger *slog.Logger) *InProcessBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessBus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler for all routing keys with the given prefix.
// An empty prefix matches everything.
func (b *InProcessBus) Subscribe(prefix string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[prefix] = append(b.handlers[prefix], h)
}

// Publish dispatches the message to every matching handler. Handler errors
// are logged, not returned; local dispatch must not fail the command that
// produced the event.
func (b *InProcessBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for prefix, handlers := range b.handlers {
		if !strings.HasPrefix(routingKey, prefix) {
			continue
		}
		for _, h := range handlers {
			if err := h(ctx, routingKey, payload); err != nil {
				b.logger.Error("event handler failed",
					"routing_key", routingKey,
					"error", err,
				)
			}
		}
	}
	return nil
}

// Close is a no-op for the in-process bus.
func (b *InProcessBus) Close() error { return nil }
