package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-push-worker/internal/config"
	"github.com/go-push-worker/internal/transport/http/handler"
	appmiddleware "github.com/go-push-worker/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the worker router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	if cfg.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Last-Event-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var relayAuth func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		relayAuth = appmiddleware.Auth(deps.JWTProvider)
	} else {
		relayAuth = func(next http.Handler) http.Handler { return next }
	}

	pushRL := appmiddleware.NewRateLimiter(rate.Limit(cfg.PushRateLimit), cfg.PushRateBurst)

	healthH := handler.NewHealthHandler()
	pushH := handler.NewPushHandler(deps.Push, deps.Tasks)
	notifH := handler.NewNotificationHandler(deps.Surface, deps.Click, deps.Tasks)
	badgeH := handler.NewBadgeHandler(deps.Surface)
	clientH := handler.NewClientHandler(deps.Surface)
	lifecycleH := handler.NewLifecycleHandler(deps.Lifecycle, deps.Tasks)
	subH := handler.NewSubscriptionHandler(deps.Subscriptions, deps.Notifications)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)

		// Push relay
		r.With(relayAuth, pushRL.Limit).Post("/push", pushH.Receive)

		// Foreground windows
		r.Get("/clients/stream", clientH.Stream)
		r.Put("/clients/{id}", clientH.ReportURL)
		r.Get("/notifications", notifH.List)
		r.Post("/notifications/{id}/click", notifH.Click)
		r.Post("/notifications/{id}/close", notifH.Close)
		r.Get("/badge", badgeH.Get)
		r.Put("/subscriptions/{id}", subH.Put)
		r.Get("/subscriptions/{id}", subH.Get)
		r.Get("/subscriptions/{id}/notifications", subH.ListNotifications)

		r.Post("/lifecycle/{phase}", lifecycleH.Transition)
	})

	return r
}
