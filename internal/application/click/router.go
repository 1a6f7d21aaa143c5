// Package click routes user clicks on rendered notifications to windows and
// message actions.
package click

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-push-worker/internal/domain"
	"github.com/go-push-worker/internal/pkg/i18n"
	"github.com/go-push-worker/internal/pkg/notify"
	"github.com/go-push-worker/internal/pkg/validate"
)

// Surface is the part of the platform the router drives.
type Surface interface {
	ShowNotification(ctx context.Context, title string, opts domain.ShowOptions) (*domain.PlatformNotification, error)
	CloseNotification(ctx context.Context, notificationID string) error
	ListOpenWindows(ctx context.Context) ([]domain.Window, error)
	FocusWindow(ctx context.Context, windowID string) error
	NavigateWindow(ctx context.Context, windowID, url string) error
	OpenWindow(ctx context.Context, url string) error
}

// Doer executes outbound HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Event is a click on a notification. Action holds the label of the clicked
// action button and is empty when the notification body was clicked.
type Event struct {
	Notification domain.PlatformNotification
	Action       string
}

// RouterDeps holds the collaborators of the router.
type RouterDeps struct {
	Surface    Surface
	HTTPClient Doer
	Translate  i18n.TranslateFunc
	Origin     string
	Icon       string
	Badge      string
	Timeout    time.Duration
}

type Router struct {
	RouterDeps
}

func NewRouter(deps RouterDeps) *Router {
	if deps.HTTPClient == nil {
		deps.HTTPClient = http.DefaultClient
	}
	if deps.Timeout <= 0 {
		deps.Timeout = 30 * time.Second
	}
	return &Router{RouterDeps: deps}
}

// HandleClick reacts to a click. It never fails: every problem is logged or,
// for http actions, rendered as a failure notification.
func (r *Router) HandleClick(ctx context.Context, ev Event) {
	data := ev.Notification.Options.Data
	if data.Message == nil {
		r.openRoute(ctx, notify.RootURL(r.Origin))
		r.dismiss(ctx, ev.Notification)
		return
	}

	msg := data.Message
	switch {
	case ev.Action != "":
		r.runAction(ctx, ev, msg)
	case msg.Click != "":
		r.open(ctx, msg.Click)
		r.dismiss(ctx, ev.Notification)
	default:
		route := data.TopicRoute
		if route == "" {
			route = notify.TopicRoute(r.Origin, msg.Topic)
		}
		r.openRoute(ctx, route)
		r.dismiss(ctx, ev.Notification)
	}
}

func (r *Router) runAction(ctx context.Context, ev Event, msg *domain.Message) {
	action, err := lookupAction(msg, ev.Action)
	if err != nil {
		slog.Warn("clicked action not declared on message", "message_id", msg.ID, "err", err)
		r.dismiss(ctx, ev.Notification)
		return
	}

	switch action.Action {
	case domain.ActionView:
		if err := validate.URL(action.URL); err != nil {
			slog.Warn("view action has invalid url", "label", action.Label, "err", err)
			break
		}
		r.open(ctx, action.URL)
	case domain.ActionHTTP:
		if err := r.performHTTP(ctx, action); err != nil {
			slog.Error("http action failed", "label", action.Label, "err", err)
			r.reportFailure(ctx, action, err)
		}
	default:
		slog.Info("action kind not supported here", "kind", action.Action, "label", action.Label)
	}

	if action.Clear {
		r.dismiss(ctx, ev.Notification)
	}
}

// performHTTP issues the request declared by an http action.
func (r *Router) performHTTP(ctx context.Context, a *domain.Action) error {
	if err := validate.URL(a.URL); err != nil {
		return &ActionError{Action: a, Err: fmt.Errorf("invalid url %q", a.URL)}
	}
	method := strings.ToUpper(a.Method)
	if method == "" {
		method = http.MethodPost
	}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	var body io.Reader
	if a.Body != "" {
		body = strings.NewReader(a.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.URL, body)
	if err != nil {
		return &ActionError{Action: a, Err: err}
	}
	for k, v := range a.Headers {
		req.Header.Set(k, v)
	}

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return &ActionError{Action: a, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ActionError{Action: a, Err: fmt.Errorf("HTTP %s", resp.Status)}
	}
	return nil
}

// reportFailure renders a notification describing a failed action.
func (r *Router) reportFailure(ctx context.Context, a *domain.Action, err error) {
	prefix := "Failed to perform action"
	if r.Translate != nil {
		if v := r.Translate("notifications_actions_failed_notification", nil); v != "" && v != "notifications_actions_failed_notification" {
			prefix = v
		}
	}
	title := fmt.Sprintf("%s: %s (%s)", prefix, a.Label, a.Action)
	body := err.Error()
	var ae *ActionError
	if errors.As(err, &ae) {
		body = ae.Err.Error()
	}
	if _, serr := r.Surface.ShowNotification(ctx, title, domain.ShowOptions{
		Body:  body,
		Icon:  r.Icon,
		Badge: r.Badge,
	}); serr != nil {
		slog.Error("could not show action failure notification", "err", serr)
	}
}

// openRoute brings a window showing route to the front, preferring a window
// already on route, then the root window, then any window, then a new one.
func (r *Router) openRoute(ctx context.Context, route string) {
	windows, err := r.Surface.ListOpenWindows(ctx)
	if err != nil {
		slog.Warn("could not list windows", "err", err)
	}
	root := notify.RootURL(r.Origin)

	if w := findWindow(windows, route); w != nil {
		r.focus(ctx, w.ID)
		return
	}
	target := findWindow(windows, root)
	if target == nil && len(windows) > 0 {
		target = &windows[0]
	}
	if target == nil {
		r.open(ctx, route)
		return
	}
	r.focus(ctx, target.ID)
	if err := r.Surface.NavigateWindow(ctx, target.ID, route); err != nil {
		slog.Warn("could not navigate window", "window_id", target.ID, "url", route, "err", err)
	}
}

func findWindow(windows []domain.Window, url string) *domain.Window {
	for i := range windows {
		if windows[i].URL == url {
			return &windows[i]
		}
	}
	return nil
}

func (r *Router) focus(ctx context.Context, windowID string) {
	if err := r.Surface.FocusWindow(ctx, windowID); err != nil {
		slog.Warn("could not focus window", "window_id", windowID, "err", err)
	}
}

func (r *Router) open(ctx context.Context, url string) {
	if err := r.Surface.OpenWindow(ctx, url); err != nil {
		slog.Warn("could not open window", "url", url, "err", err)
	}
}

func (r *Router) dismiss(ctx context.Context, n domain.PlatformNotification) {
	if err := r.Surface.CloseNotification(ctx, n.ID); err != nil {
		slog.Warn("could not close notification", "id", n.ID, "err", err)
	}
}
