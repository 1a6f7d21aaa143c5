package handler

import "net/http"

// BadgeReader exposes the last published badge count.
type BadgeReader interface {
	BadgeCount() int
}

type BadgeHandler struct {
	badge BadgeReader
}

func NewBadgeHandler(badge BadgeReader) *BadgeHandler { return &BadgeHandler{badge: badge} }

func (h *BadgeHandler) Get(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, BadgeEnvelope{Count: h.badge.BadgeCount()})
}
