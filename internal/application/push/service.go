package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-push-worker/internal/domain"
	"github.com/go-push-worker/internal/pkg/i18n"
	"github.com/go-push-worker/internal/pkg/notify"
)

// SubscriptionStore is the subscription half of the notification store.
type SubscriptionStore interface {
	Get(ctx context.Context, subscriptionID string) (*domain.Subscription, error)
	UpdateLast(ctx context.Context, subscriptionID, last string) error
}

// NotificationStore is the notification half of the notification store.
type NotificationStore interface {
	DeleteBySequence(ctx context.Context, subscriptionID, sequenceID string) error
	Put(ctx context.Context, n *domain.Notification) error
	MarkReadBySequence(ctx context.Context, subscriptionID, sequenceID string) error
}

// Notifier renders and withdraws platform notifications.
type Notifier interface {
	ShowNotification(ctx context.Context, title string, opts domain.ShowOptions) (*domain.PlatformNotification, error)
	QueryNotifications(ctx context.Context, tag string) ([]domain.PlatformNotification, error)
	CloseNotification(ctx context.Context, notificationID string) error
}

// BadgeRefresher recomputes and publishes the unread count.
type BadgeRefresher interface {
	Refresh(ctx context.Context) (int, error)
}

// Broadcaster tells open windows a message arrived.
type Broadcaster interface {
	Broadcast(ctx context.Context, m *domain.Message)
}

// Service handles web push deliveries.
type Service interface {
	// Handle decodes, classifies and applies one push. A returned error means
	// the push was not fully applied and may be redelivered.
	Handle(ctx context.Context, raw []byte) error
}

// ServiceDeps holds the collaborators of the push service.
type ServiceDeps struct {
	Subscriptions SubscriptionStore
	Notifications NotificationStore
	Notifier      Notifier
	Badge         BadgeRefresher
	Broadcaster   Broadcaster
	Translate     i18n.TranslateFunc
	Origin        string
	Icon          string
	BadgeIcon     string
}

type service struct {
	ServiceDeps
}

func NewService(deps ServiceDeps) Service {
	return &service{ServiceDeps: deps}
}

func (s *service) Handle(ctx context.Context, raw []byte) error {
	p, err := Decode(raw)
	if err != nil {
		slog.Warn("unparseable push payload", "err", err)
		return s.handleUnknown(ctx, raw)
	}
	kind := Classify(p)
	slog.Info("push received", "kind", kind.String(), "subscription_id", p.SubscriptionID)

	switch kind {
	case KindMessage:
		return s.handleMessage(ctx, p)
	case KindMessageDeleted:
		return s.handleDelete(ctx, p)
	case KindMessageCleared:
		return s.handleClear(ctx, p)
	case KindSubscriptionExpiring:
		return s.handleExpiring(ctx, raw)
	default:
		return s.handleUnknown(ctx, raw)
	}
}

// subscription returns nil without error when the subscription is unknown,
// which aborts the handler: the client may have dropped it already.
func (s *service) subscription(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	sub, err := s.Subscriptions.Get(ctx, subscriptionID)
	if errors.Is(err, domain.ErrNotFound) {
		slog.Info("subscription not found", "subscription_id", subscriptionID)
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get subscription", err)
	}
	return sub, nil
}

func (s *service) updateLast(ctx context.Context, sub *domain.Subscription, messageID string) error {
	err := s.Subscriptions.UpdateLast(ctx, sub.ID, messageID)
	if errors.Is(err, domain.ErrNotFound) {
		slog.Info("subscription removed while handling push", "subscription_id", sub.ID)
		return nil
	}
	if err != nil {
		return storeErr("update subscription", err)
	}
	return nil
}

func (s *service) handleMessage(ctx context.Context, p *domain.PushPayload) error {
	sub, err := s.subscription(ctx, p.SubscriptionID)
	if err != nil || sub == nil {
		return err
	}

	msg := *p.Message
	msg.SequenceID = msg.SequenceKey()
	if msg.SequenceID != "" {
		if err := s.Notifications.DeleteBySequence(ctx, sub.ID, msg.SequenceID); err != nil {
			return storeErr("delete notification", err)
		}
	}
	if err := s.Notifications.Put(ctx, &domain.Notification{
		SubscriptionID: sub.ID,
		SequenceID:     msg.SequenceID,
		State:          domain.Unread,
		Message:        msg,
	}); err != nil {
		return storeErr("insert notification", err)
	}
	if err := s.updateLast(ctx, sub, msg.ID); err != nil {
		return err
	}
	if _, err := s.Badge.Refresh(ctx); err != nil {
		return err
	}

	s.Broadcaster.Broadcast(ctx, p.Message)

	title, opts := notify.Build(notify.Params{
		Message:      p.Message,
		DefaultTitle: p.Message.Topic,
		TopicRoute:   notify.TopicRoute(s.Origin, p.Message.Topic),
		BaseURL:      sub.BaseURL,
		Topic:        sub.Topic,
		Icon:         s.Icon,
		Badge:        s.BadgeIcon,
	})
	// The store is already updated; a notification the platform refused is not retried.
	if _, err := s.Notifier.ShowNotification(ctx, title, opts); err != nil {
		slog.Error("could not show notification", "message_id", p.Message.ID, "err", err)
	}
	return nil
}

func (s *service) handleDelete(ctx context.Context, p *domain.PushPayload) error {
	sub, err := s.subscription(ctx, p.SubscriptionID)
	if err != nil || sub == nil {
		return err
	}
	if seq := p.Message.SequenceID; seq != "" {
		if err := s.Notifications.DeleteBySequence(ctx, sub.ID, seq); err != nil {
			return storeErr("delete notification", err)
		}
	}
	s.withdraw(ctx, notify.Tag(sub.BaseURL, sub.Topic, p.Message.SequenceKey()))
	// The badge is deliberately left alone here, unlike on clear.
	return s.updateLast(ctx, sub, p.Message.ID)
}

func (s *service) handleClear(ctx context.Context, p *domain.PushPayload) error {
	sub, err := s.subscription(ctx, p.SubscriptionID)
	if err != nil || sub == nil {
		return err
	}
	if seq := p.Message.SequenceID; seq != "" {
		if err := s.Notifications.MarkReadBySequence(ctx, sub.ID, seq); err != nil {
			return storeErr("mark notification read", err)
		}
	}
	s.withdraw(ctx, notify.Tag(sub.BaseURL, sub.Topic, p.Message.SequenceKey()))
	if err := s.updateLast(ctx, sub, p.Message.ID); err != nil {
		return err
	}
	_, err = s.Badge.Refresh(ctx)
	return err
}

// withdraw closes every shown notification carrying tag. None being shown is fine.
func (s *service) withdraw(ctx context.Context, tag string) {
	shown, err := s.Notifier.QueryNotifications(ctx, tag)
	if err != nil {
		slog.Warn("could not query notifications", "tag", tag, "err", err)
		return
	}
	for _, n := range shown {
		if err := s.Notifier.CloseNotification(ctx, n.ID); err != nil {
			slog.Warn("could not close notification", "tag", tag, "id", n.ID, "err", err)
		}
	}
}

func (s *service) handleExpiring(ctx context.Context, raw []byte) error {
	title := s.text("web_push_subscription_expiring_title", "Notifications will be paused")
	body := s.text("web_push_subscription_expiring_body", "Open the web app to continue receiving notifications")
	if _, err := s.Notifier.ShowNotification(ctx, title, s.genericOptions(body, raw)); err != nil {
		slog.Error("could not show expiry notification", "err", err)
	}
	return nil
}

// handleUnknown never fails: platforms may revoke push permission when a push
// does not result in a visible notification.
func (s *service) handleUnknown(ctx context.Context, raw []byte) error {
	title := s.text("web_push_unknown_notification_title", "Unknown notification received from server")
	body := s.text("web_push_unknown_notification_body", "You may need to update the web app")
	if _, err := s.Notifier.ShowNotification(ctx, title, s.genericOptions(body, raw)); err != nil {
		slog.Error("could not show fallback notification", "err", err)
	}
	return nil
}

func (s *service) genericOptions(body string, raw []byte) domain.ShowOptions {
	opts := domain.ShowOptions{Body: body, Icon: s.Icon, Badge: s.BadgeIcon}
	if json.Valid(raw) {
		opts.Data.Payload = json.RawMessage(raw)
	}
	return opts
}

// text translates key, using fallback when no translation exists.
func (s *service) text(key, fallback string) string {
	if s.Translate == nil {
		return fallback
	}
	if v := s.Translate(key, nil); v != "" && v != key {
		return v
	}
	return fallback
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
