// Package platform implements the notification and window surface of the
// worker on top of the windows connected through the broadcast hub.
package platform

import (
	"container/list"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/go-push-worker/internal/domain"
	"github.com/go-push-worker/internal/infrastructure/broadcast"
	"github.com/go-push-worker/internal/pkg/id"
)

// SSE event types sent to windows.
const (
	EventNotification = "notification"
	EventClose        = "close"
	EventBadge        = "badge"
	EventFocus        = "focus"
	EventNavigate     = "navigate"
	EventOpen         = "open"
	EventClaim        = "claim"
)

// Opener opens a URL outside of any connected window.
type Opener func(url string) error

// Surface keeps the shown notifications, the badge count and the open windows.
// Windows are listed in the order they connected.
type Surface struct {
	hub    *broadcast.Hub
	opener Opener

	mu       sync.Mutex
	windows  []*domain.Window
	order    *list.List // of domain.PlatformNotification, oldest first
	byID     map[string]*list.Element
	byTag    map[string]string
	maxShown int
	badge    int
	claimed  bool
}

// DefaultMaxShown bounds the shown-notification registry.
const DefaultMaxShown = 500

// NewSurface creates a Surface. opener is used by OpenWindow when no window is connected.
func NewSurface(hub *broadcast.Hub, opener Opener) *Surface {
	return NewSurfaceWithLimit(hub, opener, DefaultMaxShown)
}

// NewSurfaceWithLimit creates a Surface keeping at most maxShown notifications.
func NewSurfaceWithLimit(hub *broadcast.Hub, opener Opener, maxShown int) *Surface {
	if maxShown <= 0 {
		maxShown = DefaultMaxShown
	}
	return &Surface{
		hub:      hub,
		opener:   opener,
		order:    list.New(),
		byID:     make(map[string]*list.Element),
		byTag:    make(map[string]string),
		maxShown: maxShown,
	}
}

// ConnectWindow registers a window that is currently showing url. The returned
// function must be called when the window disconnects.
func (s *Surface) ConnectWindow(url string) (domain.Window, <-chan broadcast.Event, func()) {
	w := &domain.Window{ID: id.New(), URL: url}
	events, unsubscribe := s.hub.Subscribe(w.ID)

	s.mu.Lock()
	s.windows = append(s.windows, w)
	claimed := s.claimed
	s.mu.Unlock()

	if claimed {
		s.hub.Send(w.ID, broadcast.Event{Type: EventClaim})
	}
	disconnect := func() {
		unsubscribe()
		s.mu.Lock()
		s.windows = slices.DeleteFunc(s.windows, func(x *domain.Window) bool { return x.ID == w.ID })
		s.mu.Unlock()
	}
	return *w, events, disconnect
}

// ReportURL records the URL a window is showing after in-app navigation.
func (s *Surface) ReportURL(_ context.Context, windowID, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.window(windowID)
	if w == nil {
		return fmt.Errorf("window %s: %w", windowID, domain.ErrNotFound)
	}
	w.URL = url
	return nil
}

// ShowNotification shows a notification. One shown before it with the same tag
// is replaced, and past the registry limit the oldest one is dropped; windows
// get a close event for either.
func (s *Surface) ShowNotification(_ context.Context, title string, opts domain.ShowOptions) (*domain.PlatformNotification, error) {
	n := domain.PlatformNotification{
		ID:        id.New(),
		Title:     title,
		Options:   opts,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	var closed []string
	if opts.Tag != "" {
		if prev, ok := s.byTag[opts.Tag]; ok {
			s.remove(prev)
			closed = append(closed, prev)
		}
		s.byTag[opts.Tag] = n.ID
	}
	s.byID[n.ID] = s.order.PushBack(n)
	for s.order.Len() > s.maxShown {
		oldest := s.order.Front().Value.(domain.PlatformNotification)
		s.remove(oldest.ID)
		closed = append(closed, oldest.ID)
	}
	s.mu.Unlock()

	for _, prev := range closed {
		s.hub.Publish(broadcast.Event{Type: EventClose, Data: map[string]string{"id": prev}})
	}
	s.hub.Publish(broadcast.Event{Type: EventNotification, Data: n})
	return &n, nil
}

// QueryNotifications lists shown notifications in the order they were shown.
// An empty tag lists all of them.
func (s *Surface) QueryNotifications(_ context.Context, tag string) ([]domain.PlatformNotification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tag != "" {
		nid, ok := s.byTag[tag]
		if !ok {
			return nil, nil
		}
		return []domain.PlatformNotification{s.byID[nid].Value.(domain.PlatformNotification)}, nil
	}
	out := make([]domain.PlatformNotification, 0, s.order.Len())
	for e := s.order.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(domain.PlatformNotification))
	}
	return out, nil
}

// GetNotification returns a shown notification by id.
func (s *Surface) GetNotification(_ context.Context, notificationID string) (*domain.PlatformNotification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[notificationID]
	if !ok {
		return nil, fmt.Errorf("notification %s: %w", notificationID, domain.ErrNotFound)
	}
	n := e.Value.(domain.PlatformNotification)
	return &n, nil
}

// CloseNotification withdraws a notification. Closing one that is no longer shown is a no-op.
func (s *Surface) CloseNotification(_ context.Context, notificationID string) error {
	s.mu.Lock()
	closed := s.remove(notificationID)
	s.mu.Unlock()

	if closed {
		s.hub.Publish(broadcast.Event{Type: EventClose, Data: map[string]string{"id": notificationID}})
	}
	return nil
}

// remove must be called with s.mu held.
func (s *Surface) remove(notificationID string) bool {
	e, ok := s.byID[notificationID]
	if !ok {
		return false
	}
	n := s.order.Remove(e).(domain.PlatformNotification)
	delete(s.byID, notificationID)
	if tag := n.Options.Tag; tag != "" && s.byTag[tag] == notificationID {
		delete(s.byTag, tag)
	}
	return true
}

func (s *Surface) SetBadgeCount(_ context.Context, n int) error {
	s.mu.Lock()
	s.badge = n
	s.mu.Unlock()
	s.hub.Publish(broadcast.Event{Type: EventBadge, Data: map[string]int{"count": n}})
	return nil
}

// BadgeCount returns the last published badge count.
func (s *Surface) BadgeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.badge
}

func (s *Surface) ListOpenWindows(_ context.Context) ([]domain.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Window, 0, len(s.windows))
	for _, w := range s.windows {
		out = append(out, *w)
	}
	return out, nil
}

func (s *Surface) FocusWindow(_ context.Context, windowID string) error {
	s.mu.Lock()
	w := s.window(windowID)
	if w == nil {
		s.mu.Unlock()
		return fmt.Errorf("window %s: %w", windowID, domain.ErrNotFound)
	}
	for _, x := range s.windows {
		x.Focused = x.ID == windowID
	}
	s.mu.Unlock()

	s.hub.Send(windowID, broadcast.Event{Type: EventFocus})
	return nil
}

func (s *Surface) NavigateWindow(_ context.Context, windowID, url string) error {
	s.mu.Lock()
	w := s.window(windowID)
	if w == nil {
		s.mu.Unlock()
		return fmt.Errorf("window %s: %w", windowID, domain.ErrNotFound)
	}
	w.URL = url
	s.mu.Unlock()

	s.hub.Send(windowID, broadcast.Event{Type: EventNavigate, Data: map[string]string{"url": url}})
	return nil
}

// OpenWindow asks the first connected window to open url in a new window,
// or falls back to the opener when none is connected.
func (s *Surface) OpenWindow(_ context.Context, url string) error {
	s.mu.Lock()
	var target string
	if len(s.windows) > 0 {
		target = s.windows[0].ID
	}
	s.mu.Unlock()

	if target != "" && s.hub.Send(target, broadcast.Event{Type: EventOpen, Data: map[string]string{"url": url}}) {
		return nil
	}
	if s.opener == nil {
		return fmt.Errorf("no window available to open %s", url)
	}
	slog.Info("opening url outside of the app", "url", url)
	return s.opener(url)
}

// ClaimWindows makes this worker the controller of every open window,
// including windows that connect afterwards.
func (s *Surface) ClaimWindows(_ context.Context) error {
	s.mu.Lock()
	s.claimed = true
	s.mu.Unlock()
	s.hub.Publish(broadcast.Event{Type: EventClaim})
	return nil
}

// window must be called with s.mu held.
func (s *Surface) window(windowID string) *domain.Window {
	for _, w := range s.windows {
		if w.ID == windowID {
			return w
		}
	}
	return nil
}
