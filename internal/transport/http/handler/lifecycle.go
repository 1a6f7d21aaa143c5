package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-push-worker/internal/pkg/task"
)

// Lifecycle phases accepted on /v1/lifecycle/{phase}.
const (
	PhaseInstall                = "install"
	PhaseActivate               = "activate"
	PhasePushSubscriptionChange = "pushsubscriptionchange"
)

// Lifecycle drives worker install and activation.
type Lifecycle interface {
	Install(ctx context.Context) error
	Activate(ctx context.Context) error
	SubscriptionChanged(ctx context.Context) error
}

type LifecycleHandler struct {
	lc    Lifecycle
	tasks *task.Group
}

func NewLifecycleHandler(lc Lifecycle, tasks *task.Group) *LifecycleHandler {
	return &LifecycleHandler{lc: lc, tasks: tasks}
}

func (h *LifecycleHandler) Transition(w http.ResponseWriter, r *http.Request) {
	phase := chi.URLParam(r, "phase")
	var fn func(context.Context) error
	switch phase {
	case PhaseInstall:
		fn = h.lc.Install
	case PhaseActivate:
		fn = h.lc.Activate
	case PhasePushSubscriptionChange:
		fn = h.lc.SubscriptionChanged
	default:
		writeError(w, http.StatusBadRequest, "unknown phase")
		return
	}
	if err := h.tasks.Go(r.Context(), phase, fn).Wait(); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: phase})
}
