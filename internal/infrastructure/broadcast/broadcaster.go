package broadcast

import (
	"context"
	"log/slog"

	"github.com/go-push-worker/internal/domain"
	"github.com/go-push-worker/internal/infrastructure/sns"
)

// EventBroadcast is the SSE event type carrying a freshly received message.
const EventBroadcast = "broadcast"

// Broadcaster tells open windows that a message arrived so they can play a
// sound, which the headless worker cannot do itself.
type Broadcaster struct {
	hub    *Hub
	mirror sns.Publisher
}

// NewBroadcaster creates a Broadcaster. mirror may be nil.
func NewBroadcaster(hub *Hub, mirror sns.Publisher) *Broadcaster {
	return &Broadcaster{hub: hub, mirror: mirror}
}

// Broadcast is fire-and-forget: having no window open is not an error and
// mirror failures are only logged.
func (b *Broadcaster) Broadcast(ctx context.Context, m *domain.Message) {
	n := b.hub.Publish(Event{Type: EventBroadcast, Data: m})
	slog.Debug("broadcast message", "channel", sns.BroadcastChannel, "message_id", m.ID, "windows", n)
	if b.mirror == nil {
		return
	}
	if err := b.mirror.PublishMessage(ctx, m); err != nil {
		slog.Warn("could not mirror broadcast", "message_id", m.ID, "err", err)
	}
}
