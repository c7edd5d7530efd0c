// Package main runs the explorer HTTP service:
// - JSON views over the allocation dataset
// - Periodic price refresh with a websocket push feed
// - Health, status and Prometheus endpoints
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"rfa-explorer/internal/app"
	"rfa-explorer/internal/avatar"
	"rfa-explorer/internal/config"
	"rfa-explorer/internal/explorer"
	"rfa-explorer/internal/httpapi"
	"rfa-explorer/internal/logging"
	"rfa-explorer/internal/scheduler"
	"rfa-explorer/internal/storage/memory"
)

func main() {
	// Parse flags (env vars as defaults)
	configPath := flag.String("config", os.Getenv("RFA_CONFIG"), "Path to YAML config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	csvPath := flag.String("csv", "", "Allocation CSV path (overrides config)")
	noRefresh := flag.Bool("no-refresh", false, "Disable the periodic price refresh")
	flag.Parse()

	started := time.Now()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load config")
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *csvPath != "" {
		cfg.Source.CSVPath = *csvPath
	}

	logger := logging.New("rfa-explorer", cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, closeSource, err := app.NewSource(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create allocation source")
	}
	defer closeSource()

	avatarCache, closeCache := app.NewAvatarCache(ctx, cfg, logger)
	defer closeCache()

	svc := explorer.New(explorer.Options{
		Source:    src,
		Prices:    app.NewPriceClient(cfg),
		Snapshots: memory.NewPriceSnapshotStore(),
		Logger:    logger,
	})

	hub := httpapi.NewHub(httpapi.DefaultHubConfig(), logger)
	svc.OnRefresh(hub.Broadcast)

	resolver := avatar.NewResolver(cfg.Avatar.BaseURL, cfg.Avatar.Timeout, avatarCache, logger)
	api := httpapi.New(svc, resolver, hub, logger)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	var sched *scheduler.Scheduler
	if !*noRefresh {
		sched = scheduler.New(svc, cfg.Prices.RefreshInterval, cfg.Prices.Timeout, logger)
		if err := sched.Start(ctx); err != nil {
			logger.WithError(err).Fatal("Failed to start price refresh")
		}
	}

	// Start HTTP server
	serverErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.Server.Addr).Info("Starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.WithField("signal", sig.String()).Info("Received signal, initiating graceful shutdown")
	case err := <-serverErr:
		if err != nil {
			logger.WithError(err).Error("HTTP server error")
		}
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	hub.Close()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("HTTP server shutdown incomplete")
	}
	if sched != nil {
		sched.Stop(shutdownCtx)
	}

	logger.WithField("uptime", time.Since(started).Round(time.Second)).Info("Shutdown complete")
}
