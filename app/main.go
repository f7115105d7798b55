package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/podmeta/app/api"
	"github.com/lysyi3m/podmeta/app/cfg"
	"github.com/lysyi3m/podmeta/app/database"
	"github.com/lysyi3m/podmeta/app/feed"
	"github.com/lysyi3m/podmeta/app/module"
	"github.com/lysyi3m/podmeta/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	setupLogger(appCfg.Debug)

	registry, err := feed.NewRegistry()
	if err != nil {
		slog.Error("Failed to create module registry", "error", err)
		os.Exit(1)
	}

	if appCfg.ParseFile != "" {
		if err := runParse(os.Stdout, appCfg.ParseFile, registry, appCfg.Locale); err != nil {
			slog.Error("Failed to parse feed file", "file", appCfg.ParseFile, "error", err)
			os.Exit(1)
		}
		return
	}

	if err := serve(appCfg, registry); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(debug bool) {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}

	handler := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	slog.SetDefault(slog.New(handler))
}

func serve(appCfg *cfg.Cfg, registry *module.Registry) error {
	slog.Info("Starting Podmeta server", "version", appCfg.Version, "locale", appCfg.Locale)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		return err
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	configCache := feed.NewConfigCache(appCfg.FeedsDir)
	if err := configCache.Run(); err != nil {
		return fmt.Errorf("failed to load feed configurations: %w", err)
	}
	slog.Info("Feed configurations loaded", "dir", appCfg.FeedsDir, "count", configCache.GetConfigCount())

	feedRepo := database.NewFeedRepository(db)
	itemRepo := database.NewItemRepository(db)
	httpClient := &http.Client{Timeout: 60 * time.Second}

	scheduler := tasks.NewScheduler(configCache, feedRepo, itemRepo, httpClient, registry, feed.NewFilterer())
	scheduler.Start()
	defer scheduler.Stop()

	if !appCfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := api.NewHandler(configCache, feedRepo, itemRepo, registry, appCfg.Locale, scheduler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler, appCfg.APIAccessKey),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down", "signal", sig)
	case runErr = <-serverErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Podmeta server shutdown complete")
	return runErr
}
