package push

import (
	"encoding/json"
	"fmt"

	"github.com/go-push-worker/internal/domain"
)

// Kind is the handler a push payload is dispatched to.
type Kind int

const (
	KindUnknown Kind = iota
	KindMessage
	KindMessageDeleted
	KindMessageCleared
	KindSubscriptionExpiring
)

func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindMessageDeleted:
		return "message_deleted"
	case KindMessageCleared:
		return "message_cleared"
	case KindSubscriptionExpiring:
		return "subscription_expiring"
	default:
		return "unknown"
	}
}

// Decode parses a raw push body.
func Decode(raw []byte) (*domain.PushPayload, error) {
	var p domain.PushPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode push payload: %w: %w", domain.ErrBadRequest, err)
	}
	return &p, nil
}

// Classify picks exactly one handler for p. Message events missing the
// message or the subscription id fall through to KindUnknown.
func Classify(p *domain.PushPayload) Kind {
	if p == nil {
		return KindUnknown
	}
	switch p.Event {
	case domain.WebPushEventMessage:
		if p.Message == nil || p.SubscriptionID == "" {
			return KindUnknown
		}
		switch p.Message.Event {
		case domain.EventMessage:
			return KindMessage
		case domain.EventMessageDeleted, domain.EventMessageDelete:
			return KindMessageDeleted
		case domain.EventMessageCleared, domain.EventMessageClear:
			return KindMessageCleared
		}
	case domain.WebPushEventSubscriptionExpiring:
		return KindSubscriptionExpiring
	}
	return KindUnknown
}
