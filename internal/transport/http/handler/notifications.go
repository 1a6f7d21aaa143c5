package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-push-worker/internal/application/click"
	"github.com/go-push-worker/internal/domain"
	"github.com/go-push-worker/internal/pkg/task"
	"github.com/go-push-worker/internal/pkg/validate"
)

// NotificationSurface is what the notification endpoints need from the platform surface.
type NotificationSurface interface {
	QueryNotifications(ctx context.Context, tag string) ([]domain.PlatformNotification, error)
	GetNotification(ctx context.Context, notificationID string) (*domain.PlatformNotification, error)
	CloseNotification(ctx context.Context, notificationID string) error
}

// ClickHandler reacts to notification clicks.
type ClickHandler interface {
	HandleClick(ctx context.Context, ev click.Event)
}

// NotificationHandler handles the shown-notification endpoints.
type NotificationHandler struct {
	surface NotificationSurface
	clicks  ClickHandler
	tasks   *task.Group
}

func NewNotificationHandler(surface NotificationSurface, clicks ClickHandler, tasks *task.Group) *NotificationHandler {
	return &NotificationHandler{surface: surface, clicks: clicks, tasks: tasks}
}

// List returns the currently shown notifications, optionally filtered by ?tag=.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	shown, err := h.surface.QueryNotifications(r.Context(), r.URL.Query().Get("tag"))
	if err != nil {
		httpError(w, err)
		return
	}
	if shown == nil {
		shown = []domain.PlatformNotification{}
	}
	writeJSON(w, http.StatusOK, shown)
}

func (h *NotificationHandler) Click(w http.ResponseWriter, r *http.Request) {
	var req ClickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	n, err := h.surface.GetNotification(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}

	t := h.tasks.Go(r.Context(), "click", func(ctx context.Context) error {
		h.clicks.HandleClick(ctx, click.Event{Notification: *n, Action: req.Action})
		return nil
	})
	if err := t.Wait(); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "handled"})
}

// Close records that the user dismissed a notification.
func (h *NotificationHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.surface.CloseNotification(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
