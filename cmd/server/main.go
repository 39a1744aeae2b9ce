package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"case_notification_service/internal/app"
	"case_notification_service/internal/domain/notification"
	"case_notification_service/internal/infra/config"
	idb "case_notification_service/internal/infra/database"
	"case_notification_service/internal/infra/dedup"
	"case_notification_service/internal/infra/delivery"
	"case_notification_service/internal/infra/httpapi"
	"case_notification_service/internal/infra/logger"
	"case_notification_service/internal/infra/scheduler"
	"case_notification_service/internal/infra/settings"
	"case_notification_service/internal/infra/ws"
)

func main() {
	fmt.Println("Case Notification Service starting...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}
	appLogger := logger.New(cfg)
	appLogger.WithField("environment", cfg.Environment).Info("Configuration loaded")

	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		appLogger.WithError(err).Fatal("Could not connect to database")
	}
	defer db.Close()
	appLogger.Info("Database connection established")

	rdb, err := idb.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		appLogger.WithError(err).Fatal("Could not connect to redis")
	}
	defer rdb.Close()
	appLogger.Info("Redis connection established")

	taskRepo := idb.NewPostgresTaskRepository(db)
	dedupStore := dedup.NewRedisStore(rdb, time.Duration(cfg.DedupRetentionDays)*24*time.Hour)
	settingsStore := settings.NewRedisStore(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub(appLogger)
	go hub.Run(ctx)

	workerChannel := delivery.NewWorkerChannel(rdb)
	pageChannel := delivery.NewPageChannel(hub)
	gate := app.NewPermissionGate(hub, hub, workerChannel, appLogger)
	dispatcher := delivery.NewDispatcher(workerChannel, pageChannel, gate, appLogger)

	reminderService := app.NewReminderServiceImpl(
		taskRepo,
		dedupStore,
		dispatcher,
		settingsStore,
		notification.SystemClock(),
		appLogger,
	)

	reminderScheduler := scheduler.NewReminderScheduler(
		reminderService,
		appLogger,
		cfg.CronSpecSweep,
		cfg.CronSpecRetention,
	)
	if err := reminderScheduler.Start(); err != nil {
		appLogger.WithError(err).Fatal("Could not start reminder scheduler")
	}

	handlers := httpapi.NewHandlers(gate, settingsStore, appLogger)
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpapi.NewRouter(handlers, hub),
	}
	go func() {
		appLogger.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")
	reminderScheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("HTTP server shutdown failed")
	}
	appLogger.Info("Shut down gracefully")
}
