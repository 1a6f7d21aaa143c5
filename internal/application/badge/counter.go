package badge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-push-worker/internal/domain"
)

// UnreadCounter counts notifications that have not been seen yet.
type UnreadCounter interface {
	CountUnread(ctx context.Context) (int, error)
}

// Publisher shows a count on the application icon.
type Publisher interface {
	SetBadgeCount(ctx context.Context, n int) error
}

// Counter derives the unread count from the store and publishes it.
type Counter struct {
	store     UnreadCounter
	publisher Publisher
}

func NewCounter(store UnreadCounter, publisher Publisher) *Counter {
	return &Counter{store: store, publisher: publisher}
}

// Refresh recounts unread notifications across all subscriptions and publishes
// the result. Only a failing count is an error; the badge API is optional on
// some platforms, so a failing publish is logged and ignored.
func (c *Counter) Refresh(ctx context.Context) (int, error) {
	n, err := c.store.CountUnread(ctx)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w: %w", domain.ErrStoreUnavailable, err)
	}
	if err := c.publisher.SetBadgeCount(ctx, n); err != nil {
		slog.Warn("could not set badge count", "count", n, "err", err)
	}
	return n, nil
}
