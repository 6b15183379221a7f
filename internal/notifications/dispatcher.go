// Package notifications publishes domain events to Redis channels so that
// out-of-band consumers (mailers, activity feeds) can react without the API
// waiting on them.
package notifications

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"quill/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const (
	EventUserRegistered    = "user.registered"
	EventPasswordResetLink = "password.reset_link"
)

// Event is one domain occurrence published to subscribers.
type Event struct {
	Name       string         `json:"name"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data"`
}

// Dispatcher publishes events into Redis channels. A nil client degrades to
// logging the event; delivery is best-effort either way.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// Channel returns the Redis channel an event name is published on.
func Channel(name string) string {
	return "events:" + name
}

// Dispatch publishes the event. Failures are logged, never returned; a lost
// notification must not fail the request that produced it.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, data map[string]any) {
	event := Event{
		Name:       name,
		OccurredAt: time.Now(),
		Data:       data,
	}

	logger := middleware.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if d == nil || d.rdb == nil {
		logger.InfoContext(ctx, "event dispatched without broker", "event", name)
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.ErrorContext(ctx, "event marshal failed", "event", name, "error", err)
		return
	}

	if err := d.rdb.Publish(ctx, Channel(name), payload).Err(); err != nil {
		logger.ErrorContext(ctx, "event publish failed", "event", name, "error", err)
		return
	}
	logger.DebugContext(ctx, "event published", "event", name)
}
