package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"retailsync/internal/config"
	"retailsync/internal/database"
	"retailsync/internal/handler"
	"retailsync/internal/metrics"
	"retailsync/internal/service"
	"retailsync/internal/worker"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	logger := cfg.Logger(os.Stdout)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbCfg := database.Config{
		Driver:       cfg.DatabaseDriver,
		URI:          cfg.DatabaseURI,
		MaxOpenConns: cfg.MaxOpenConns,
	}
	db, err := database.NewDB(ctx, dbCfg)
	if err != nil {
		slog.Error("failed to connect to DB", "error", err)
		os.Exit(1)
	}
	defer database.CloseDB(db)

	if err := database.InitSchema(ctx, db, dbCfg.Driver); err != nil {
		slog.Error("failed to init DB schema", "error", err)
		os.Exit(1)
	}

	gw, err := database.NewGateway(db, dbCfg.Driver)
	if err != nil {
		slog.Error("failed to build gateway", "error", err)
		os.Exit(1)
	}

	m := metrics.New()
	eventSvc := service.NewEventService(gw, m, logger, service.SystemClock{})

	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      handler.NewRouter(eventSvc, m),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	var metricsSrv *http.Server
	if cfg.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		metricsSrv = &http.Server{Addr: cfg.MetricsAddress, Handler: mux, ReadTimeout: 10 * time.Second}
		go func() {
			slog.Info("starting metrics server", "addr", cfg.MetricsAddress)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", "error", err)
			}
		}()
	}

	if cfg.SyncInterval > 0 {
		go worker.NewSyncWorker(eventSvc, cfg.SyncInterval, logger).Start(ctx)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	slog.Info("starting server", "addr", cfg.RunAddress, "driver", cfg.DatabaseDriver)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	slog.Info("shutting down...")

	cancel() // stop worker
	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := srv.Shutdown(ctxShut); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(ctxShut); err != nil {
			slog.Error("metrics server shutdown failed", "error", err)
		}
	}

	slog.Info("server stopped")
}
