package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-push-worker/internal/application/badge"
	"github.com/go-push-worker/internal/application/click"
	"github.com/go-push-worker/internal/application/lifecycle"
	"github.com/go-push-worker/internal/application/push"
	"github.com/go-push-worker/internal/config"
	"github.com/go-push-worker/internal/infrastructure/broadcast"
	"github.com/go-push-worker/internal/infrastructure/browser"
	"github.com/go-push-worker/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-push-worker/internal/infrastructure/jwt"
	"github.com/go-push-worker/internal/infrastructure/platform"
	s3infra "github.com/go-push-worker/internal/infrastructure/s3"
	"github.com/go-push-worker/internal/infrastructure/sns"
	"github.com/go-push-worker/internal/pkg/i18n"
	"github.com/go-push-worker/internal/pkg/task"
	transporthttp "github.com/go-push-worker/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	ctx := context.Background()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		log.Fatalf("dynamo client: %v", err)
	}
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)
	subscriptions := dynamo.NewSubscriptionRepo(dynamoClient, cfg.DynamoTables.Subscriptions)
	notifications := dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications)

	// Relay JWT provider (optional, /v1/push is unauthenticated without it).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: relay JWT provider not available: %v", err)
	}

	// SNS broadcast mirror (optional).
	var mirror sns.Publisher
	if p, err := sns.NewPublisher(ctx, cfg); err == nil {
		mirror = p
	} else {
		log.Printf("WARN: SNS broadcast mirror not available: %v", err)
	}

	// S3 asset cache (optional).
	var purger lifecycle.CachePurger
	if cfg.AssetCacheBucket != "" {
		s3Client, err := s3infra.NewClient(ctx, cfg)
		if err != nil {
			log.Fatalf("s3 client: %v", err)
		}
		purger = s3infra.NewAssetCache(s3Client, cfg.AssetCacheBucket, cfg.AssetCachePrefix)
	}

	hub := broadcast.NewHub()
	surface := platform.NewSurfaceWithLimit(hub, browser.Open, cfg.MaxShown)
	translate := i18n.New(cfg.AppLang).Func()
	tasks := &task.Group{}

	pushSvc := push.NewService(push.ServiceDeps{
		Subscriptions: subscriptions,
		Notifications: notifications,
		Notifier:      surface,
		Badge:         badge.NewCounter(notifications, surface),
		Broadcaster:   broadcast.NewBroadcaster(hub, mirror),
		Translate:     translate,
		Origin:        cfg.AppOrigin,
		Icon:          cfg.NotifyIcon,
		BadgeIcon:     cfg.NotifyBadge,
	})
	clickRouter := click.NewRouter(click.RouterDeps{
		Surface:   surface,
		Translate: translate,
		Origin:    cfg.AppOrigin,
		Icon:      cfg.NotifyIcon,
		Badge:     cfg.NotifyBadge,
		Timeout:   cfg.ActionTimeout,
	})
	controller := lifecycle.NewController(surface, purger, cfg.AppVersion)

	// A fresh worker installs and activates immediately.
	if err := controller.Install(ctx); err != nil {
		log.Fatalf("install: %v", err)
	}
	if err := controller.Activate(ctx); err != nil {
		log.Fatalf("activate: %v", err)
	}

	router := transporthttp.NewRouter(cfg, &transporthttp.Deps{
		Subscriptions: subscriptions,
		Notifications: notifications,
		Push:          pushSvc,
		Click:         clickRouter,
		Lifecycle:     controller,
		Surface:       surface,
		Tasks:         tasks,
		JWTProvider:   jwtProvider,
	})

	// No WriteTimeout: window event streams are long-lived. They are ended
	// through the base context when shutdown begins.
	streamCtx, stopStreams := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.AppPort),
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
		BaseContext: func(net.Listener) context.Context { return streamCtx },
	}
	srv.RegisterOnShutdown(stopStreams)

	go func() {
		log.Printf("Worker starting on :%s (env=%s, version=%s)", cfg.AppPort, cfg.AppEnv, cfg.AppVersion)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down worker...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
	if err := tasks.Wait(shutdownCtx); err != nil {
		log.Printf("in-flight events not drained: %v", err)
	}
	log.Println("Worker stopped")
}
