package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// State is the activation state of the worker.
type State int

const (
	StateNew State = iota
	StateActive
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	default:
		return "new"
	}
}

// WindowClaimer takes control of open windows.
type WindowClaimer interface {
	ClaimWindows(ctx context.Context) error
}

// CachePurger removes cached assets of versions other than the given one.
type CachePurger interface {
	PurgeOutdated(ctx context.Context, currentVersion string) (int, error)
}

// Controller drives install and activation. There is never a waiting phase:
// a freshly installed worker activates immediately.
type Controller struct {
	claimer WindowClaimer
	purger  CachePurger
	version string

	mu    sync.Mutex
	state State
}

// NewController returns a controller. purger may be nil when no asset cache
// is configured.
func NewController(claimer WindowClaimer, purger CachePurger, version string) *Controller {
	return &Controller{claimer: claimer, purger: purger, version: version}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Install(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	slog.Info("worker installed", "version", c.version)
	c.skipWaiting()
	return nil
}

// Activate claims every open window and purges stale cached assets. A purge
// failure is logged, claiming failures are returned.
func (c *Controller) Activate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	slog.Info("worker activated", "version", c.version)
	c.skipWaiting()

	if err := c.claimer.ClaimWindows(ctx); err != nil {
		return fmt.Errorf("claim windows: %w", err)
	}
	if c.purger != nil {
		n, err := c.purger.PurgeOutdated(ctx, c.version)
		if err != nil {
			slog.Warn("could not purge outdated caches", "err", err)
		} else if n > 0 {
			slog.Info("purged outdated caches", "objects", n)
		}
	}
	return nil
}

// SubscriptionChanged is only logged; renegotiating the push subscription is
// left to the foreground app.
func (c *Controller) SubscriptionChanged(ctx context.Context) error {
	slog.Info("push subscription changed")
	return nil
}

func (c *Controller) skipWaiting() {
	c.state = StateActive
}
