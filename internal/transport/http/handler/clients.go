package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-push-worker/internal/domain"
	"github.com/go-push-worker/internal/infrastructure/broadcast"
	"github.com/go-push-worker/internal/pkg/validate"
)

// heartbeatInterval keeps idle streams from being cut by proxies.
const heartbeatInterval = 25 * time.Second

// WindowRegistry tracks the open windows.
type WindowRegistry interface {
	ConnectWindow(url string) (domain.Window, <-chan broadcast.Event, func())
	ReportURL(ctx context.Context, windowID, url string) error
}

// ClientHandler serves the event stream of open windows.
type ClientHandler struct {
	windows WindowRegistry
}

func NewClientHandler(windows WindowRegistry) *ClientHandler {
	return &ClientHandler{windows: windows}
}

// Stream registers the calling window and streams platform commands to it
// until the connection is closed. The first event tells the window its id.
func (h *ClientHandler) Stream(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if err := validate.URL(url); err != nil {
		writeError(w, http.StatusBadRequest, "url query parameter must be a valid URL")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	win, events, disconnect := h.windows.ConnectWindow(url)
	defer disconnect()
	slog.Info("window connected", "window_id", win.ID, "url", url)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, broadcast.Event{Type: "hello", Data: win}); err != nil {
		return
	}
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			slog.Info("window disconnected", "window_id", win.ID)
			return
		case <-heartbeat.C:
			if _, err := w.Write([]byte(": ping\n\n")); err != nil {
				return
			}
			flusher.Flush()
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(w, ev); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, ev broadcast.Event) error {
	data, err := json.Marshal(ev.Data)
	if err != nil {
		slog.Warn("could not encode event", "type", ev.Type, "err", err)
		return nil
	}
	if _, err := w.Write([]byte("event: " + ev.Type + "\ndata: ")); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n\n"))
	return err
}

// ReportURL records the URL a window shows after in-app navigation.
func (h *ClientHandler) ReportURL(w http.ResponseWriter, r *http.Request) {
	var req ReportURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := h.windows.ReportURL(r.Context(), chi.URLParam(r, "id"), req.URL); err != nil {
		httpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
