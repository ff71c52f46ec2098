package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/event-comb/app/api"
	"github.com/lysyi3m/event-comb/app/cfg"
	"github.com/lysyi3m/event-comb/app/collect"
	"github.com/lysyi3m/event-comb/app/database"
	"github.com/lysyi3m/event-comb/app/datum"
	"github.com/lysyi3m/event-comb/app/event"
	"github.com/lysyi3m/event-comb/app/source"
	"github.com/lysyi3m/event-comb/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	datumOpts, err := appCfg.DatumOptions(logger.With("component", "datum"))
	if err != nil {
		slog.Error("Invalid date normalization settings", "error", err)
		os.Exit(1)
	}
	engine := datum.New(datumOpts)

	configCache := source.NewConfigCache(appCfg.SourcesDir)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load source configurations", "error", err)
		os.Exit(1)
	}
	configCache.SetDefaultHint(datum.Hint{MonthFirst: appCfg.MonthFirst})

	processor := event.NewProcessor(engine, configCache, appCfg.WorkerCount)

	if appCfg.BatchMode() {
		if err := runBatchFiles(appCfg.Input, appCfg.Output, processor); err != nil {
			slog.Error("Batch normalization failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := runServer(appCfg, engine, configCache, processor); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func runServer(appCfg *cfg.Cfg, engine *datum.Engine, configCache *source.ConfigCache, processor *event.Processor) error {
	slog.Info("Starting Event Comb server", "version", appCfg.Version, "reference_year", engine.ReferenceYear())

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

	sourceRepo := database.NewSourceStore(db)
	eventRepo := database.NewEventStore(db)

	slog.Info("Source configurations loaded", "count", configCache.GetConfigCount(), "dir", appCfg.SourcesDir)

	httpClient := &http.Client{Timeout: 60 * time.Second}

	scheduler := tasks.NewScheduler(configCache, sourceRepo, eventRepo, httpClient,
		collect.NewFeedParser(), collect.NewFilterer(), collect.NewDescriptionExtractor(), processor)
	scheduler.Start()
	defer scheduler.Stop()

	if !appCfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	generator := api.NewGenerator(appCfg.BaseUrl, appCfg.Version)
	handler := api.NewHandler(configCache, sourceRepo, eventRepo, engine, processor, generator, scheduler)
	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler, appCfg.APIAccessKey),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port, "base_url", appCfg.BaseUrl)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case serveErr = <-serverErrChan:
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Event Comb server shutdown complete")
	return serveErr
}

func runBatchFiles(inputPath, outputPath string, processor event.ProcessorInterface) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer in.Close()

	var out io.Writer = os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runBatch(ctx, in, out, processor)
}

// runBatch reads event records as JSON, drops duplicates, normalizes their
// dates and writes them as CSV.
func runBatch(ctx context.Context, in io.Reader, out io.Writer, processor event.ProcessorInterface) error {
	events, err := event.ReadJSON(in)
	if err != nil {
		return err
	}

	unique := event.Dedupe(events)

	normalized, stats, err := processor.Run(ctx, unique)
	if err != nil {
		return fmt.Errorf("failed to normalize events: %w", err)
	}

	if err := event.WriteCSV(out, normalized); err != nil {
		return err
	}

	slog.Info("Batch normalization finished",
		"read", len(events),
		"duplicates", len(events)-len(unique),
		"normalized", stats.Normalized,
		"unchanged", stats.Unchanged,
		"empty", stats.Empty)

	return nil
}
