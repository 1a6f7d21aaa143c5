package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-push-worker/internal/application/push"
	"github.com/go-push-worker/internal/pkg/task"
	"github.com/go-push-worker/internal/transport/http/middleware"
)

// maxPushBody is the largest push body accepted. Web push payloads are capped
// at 4 KiB on the wire; the relay forwards them decoded and wrapped in JSON.
const maxPushBody = 64 << 10

// PushHandler receives push deliveries from the relay.
type PushHandler struct {
	svc   push.Service
	tasks *task.Group
}

func NewPushHandler(svc push.Service, tasks *task.Group) *PushHandler {
	return &PushHandler{svc: svc, tasks: tasks}
}

// Receive keeps the request open until the push has been fully handled. A
// failed push answers 500 so the relay may redeliver it. A body over
// maxPushBody answers 413 and is not handled.
func (h *PushHandler) Receive(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPushBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "push body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "could not read body")
		return
	}
	relay := relayOf(r)
	slog.Debug("push received", "relay", relay, "bytes", len(raw))
	t := h.tasks.Go(r.Context(), "push:"+relay, func(ctx context.Context) error {
		return h.svc.Handle(ctx, raw)
	})
	if err := t.Wait(); err != nil {
		slog.Warn("push failed", "relay", relay, "err", err)
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, MessageEnvelope{Message: "handled"})
}

// relayOf names the relay that authenticated the request, or "anonymous"
// when relay auth is not configured.
func relayOf(r *http.Request) string {
	if c, ok := middleware.ClaimsFromContext(r.Context()); ok && c.Relay != "" {
		return c.Relay
	}
	return "anonymous"
}
