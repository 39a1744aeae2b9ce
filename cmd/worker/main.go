package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"case_notification_service/internal/infra/config"
	idb "case_notification_service/internal/infra/database"
	"case_notification_service/internal/infra/logger"
	"case_notification_service/internal/worker"

	"github.com/gorilla/mux"
	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("Case Notification Worker starting...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}
	appLogger := logger.New(cfg)

	rdb, err := idb.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		appLogger.WithError(err).Fatal("Could not connect to redis")
	}
	defer rdb.Close()
	appLogger.Info("Redis connection established")

	var renderer worker.Renderer
	if cfg.TelegramToken != "" {
		pref := telebot.Settings{
			Token:  cfg.TelegramToken,
			Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
			OnError: func(err error, c telebot.Context) {
				appLogger.WithError(err).Error("Telebot error")
			},
		}
		bot, err := telebot.NewBot(pref)
		if err != nil {
			appLogger.WithError(err).Fatal("Could not create Telegram bot")
		}
		worker.RegisterClickHandlers(bot, appLogger)
		go bot.Start()
		renderer = worker.NewTelegramRenderer(bot, cfg.DefaultChatID, cfg.OriginURL, appLogger)
		appLogger.Info("Telegram delivery enabled")
	} else {
		appLogger.Warn("TELEGRAM_TOKEN not set, push notifications will be logged only")
		renderer = worker.NewLogRenderer(appLogger)
	}

	cache := worker.NewAssetCache(cfg.CacheDir, cfg.CacheVersion, cfg.OriginURL, appLogger)
	pushConsumer := worker.NewPushConsumer(rdb, renderer, appLogger)
	syncManager := worker.NewSyncManager(rdb, cfg.OriginURL, cfg.SyncEndpointPath,
		time.Duration(cfg.SyncCheckSeconds)*time.Second, appLogger)
	heartbeat := worker.NewHeartbeat(rdb, appLogger)
	w := worker.NewWorker(cache, pushConsumer, syncManager, heartbeat, appLogger)

	proxy, err := worker.NewFetchProxy(cache, cfg.OriginURL, cfg.APIPrefix, cfg.BackendHost, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Could not build fetch proxy")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := w.Run(ctx); err != nil {
			appLogger.WithError(err).Fatal("Worker failed")
		}
	}()

	r := mux.NewRouter()
	r.HandleFunc("/workerz", func(rw http.ResponseWriter, _ *http.Request) {
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(map[string]string{"state": string(w.State())})
	}).Methods(http.MethodGet)
	r.PathPrefix("/").Handler(proxy)

	srv := &http.Server{Addr: cfg.WorkerAddr, Handler: r}
	go func() {
		appLogger.WithField("addr", cfg.WorkerAddr).Info("Worker proxy listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Worker proxy failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down worker...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Worker proxy shutdown failed")
	}
	appLogger.Info("Worker shut down gracefully")
}
