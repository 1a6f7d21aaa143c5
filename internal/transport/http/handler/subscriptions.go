package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-push-worker/internal/domain"
	"github.com/go-push-worker/internal/pkg/validate"
)

// SubscriptionStore is what the subscription endpoints need from the store.
type SubscriptionStore interface {
	Put(ctx context.Context, s *domain.Subscription) error
	Get(ctx context.Context, subscriptionID string) (*domain.Subscription, error)
}

// NotificationHistory lists stored notifications.
type NotificationHistory interface {
	ListBySubscription(ctx context.Context, subscriptionID string) ([]domain.Notification, error)
}

// SubscriptionHandler lets the foreground app register subscriptions and read
// the notifications the worker stored for them.
type SubscriptionHandler struct {
	subs    SubscriptionStore
	history NotificationHistory
}

func NewSubscriptionHandler(subs SubscriptionStore, history NotificationHistory) *SubscriptionHandler {
	return &SubscriptionHandler{subs: subs, history: history}
}

func (h *SubscriptionHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req domain.PutSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	sub := &domain.Subscription{ID: chi.URLParam(r, "id"), BaseURL: req.BaseURL, Topic: req.Topic}
	if err := h.subs.Put(r.Context(), sub); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *SubscriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sub, err := h.subs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *SubscriptionHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.history.ListBySubscription(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	if notifications == nil {
		notifications = []domain.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}
