package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blobnav/blobnav/internal/logger"
	"github.com/blobnav/blobnav/internal/tui"
	"github.com/blobnav/blobnav/pkg/catalog"
	"github.com/blobnav/blobnav/pkg/config"
	"github.com/blobnav/blobnav/pkg/index"
	"github.com/blobnav/blobnav/pkg/loader"
	"github.com/blobnav/blobnav/pkg/query"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file (default: standard config locations)")
	logLevel := flag.String("log-level", "", "Log level override (DEBUG, INFO, WARN, ERROR)")
	initConfig := flag.Bool("init", false, "Write a commented default config file and exit")
	force := flag.Bool("force", false, "Overwrite an existing config file (with -init)")

	flag.Parse()

	if *initConfig {
		path, err := config.InitConfig(*force)
		if err != nil {
			log.Fatalf("Failed to write config file: %v", err)
		}
		fmt.Printf("Wrote default config to %s\n", path)
		fmt.Println("Edit the source section, then run blobnav again.")
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Configure logger. The terminal UI owns stdout once it starts, so
	// all log output goes to a rotating file.
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	logger.SetLevel(cfg.Logging.Level)
	logger.SetFile(cfg.Logging.File)

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("blobnav starting")
	logger.Info("Log level set to: %s", cfg.Logging.Level)
	logger.Info("Configuration:")
	logger.Info("  Source type: %s", cfg.Source.Type)
	logger.Info("  Cache enabled: %t", cfg.Cache.Enabled)
	if cfg.Cache.Enabled {
		logger.Info("  Cache path: %s", cfg.Cache.Path)
		logger.Info("  Cache TTL: %v", cfg.Cache.TTL)
	}
	logger.Info("  Refresh enabled: %t", cfg.Refresh.Enabled)
	if cfg.Refresh.Enabled {
		logger.Info("  Refresh interval: %v", cfg.Refresh.Interval)
	}
	logger.Info("  Metrics enabled: %t", cfg.Metrics.Enabled)
	logger.Info("  Page size: %d", cfg.UI.PageSize)

	// Initialize metrics and start the metrics server if enabled
	metricsResult := config.InitializeMetrics(&cfg.Metrics)
	if metricsResult.Server != nil {
		go func() {
			if err := metricsResult.Server.Start(ctx); err != nil {
				logger.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Open the local listing cache (nil when caching is disabled)
	cacheStore, err := config.CreateCache(ctx, &cfg.Cache)
	if err != nil {
		log.Fatalf("Failed to open listing cache: %v", err)
	}

	// Create the listing source
	src, err := config.CreateSource(ctx, &cfg.Source)
	if err != nil {
		log.Fatalf("Failed to create listing source: %v", err)
	}

	ldr := loader.New(src, cacheStore, loader.Config{TTL: cfg.Cache.TTL}, metricsResult.Loader)

	fmt.Printf("Loading listing from %s...\n", src.ID())

	records, err := ldr.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load listing: %v", err)
	}
	logger.Info("Loaded %d records from %s", len(records), src.ID())

	// Build the query engine over the initial listing
	engine := query.NewEngine(catalog.NewStore(), index.New(), metricsResult.Query)
	engine.Reload(records)

	model := tui.NewModel(engine, tui.Options{
		SourceID:   src.ID(),
		PageSize:   cfg.UI.PageSize,
		DateFormat: cfg.UI.DateFormat,
		Favorites:  cacheStore,
		Refresh:    ldr.Refresh,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	// Background refresher posts fresh listings into the running UI
	refresher := loader.NewRefresher(ldr, loader.RefreshConfig{
		Enabled:  cfg.Refresh.Enabled,
		Interval: cfg.Refresh.Interval,
	}, func(records []catalog.Record) {
		p.Send(tui.ListingRefreshedMsg{Records: records})
	})
	refresher.Start()

	// Forward termination signals to the UI so p.Run returns and the
	// shutdown sequence below runs. Ctrl+C arrives as a key press in raw
	// mode and is handled by the quit binding instead.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, closing UI")
		p.Quit()
	}()

	_, runErr := p.Run()

	// Graceful shutdown
	logger.Info("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := refresher.Stop(shutdownCtx); err != nil {
		logger.Warn("Refresher shutdown error: %v", err)
	}
	if metricsResult.Server != nil {
		if err := metricsResult.Server.Stop(shutdownCtx); err != nil {
			logger.Warn("Metrics server shutdown error: %v", err)
		}
	}
	if cacheStore != nil {
		if err := cacheStore.Close(); err != nil {
			logger.Warn("Cache close error: %v", err)
		}
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "UI error: %v\n", runErr)
		os.Exit(1)
	}
	logger.Info("Shutdown complete")
}
