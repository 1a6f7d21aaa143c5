package http

import (
	"context"

	"github.com/go-push-worker/internal/application/click"
	"github.com/go-push-worker/internal/application/push"
	"github.com/go-push-worker/internal/domain"
	jwtinfra "github.com/go-push-worker/internal/infrastructure/jwt"
	"github.com/go-push-worker/internal/infrastructure/platform"
	"github.com/go-push-worker/internal/pkg/task"
)

// LifecycleController is the minimal interface the router requires from the lifecycle controller.
type LifecycleController interface {
	Install(ctx context.Context) error
	Activate(ctx context.Context) error
	SubscriptionChanged(ctx context.Context) error
}

// SubscriptionRepository is the minimal interface the router requires from a subscription store.
type SubscriptionRepository interface {
	Put(ctx context.Context, s *domain.Subscription) error
	Get(ctx context.Context, subscriptionID string) (*domain.Subscription, error)
}

// NotificationRepository is the minimal interface the router requires from a notification store.
type NotificationRepository interface {
	ListBySubscription(ctx context.Context, subscriptionID string) ([]domain.Notification, error)
}

// Deps holds all dependencies for the router.
type Deps struct {
	Subscriptions SubscriptionRepository
	Notifications NotificationRepository

	Push        push.Service
	Click       *click.Router
	Lifecycle   LifecycleController
	Surface     *platform.Surface
	Tasks       *task.Group
	JWTProvider *jwtinfra.Provider
}
