package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"stream-viewer/src/analysis"
	"stream-viewer/src/config"
	"stream-viewer/src/gateway"
	"stream-viewer/src/ingest"
	"stream-viewer/src/logger"
	"stream-viewer/src/notify"
	"stream-viewer/src/series"
	"stream-viewer/src/session"
	"stream-viewer/src/utils"
	"stream-viewer/src/viewer"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "../../config/default.yaml", "path to config file")
	flag.Parse()

	// Optional .env for local overrides, ignored when absent
	_ = godotenv.Load()

	// Load config from YAML file
	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(cfg.LogLevel, cfg.Name)

	// 1. Viewer server: the chart sink and view publisher everything else
	// renders through
	srv := viewer.NewViewerServer(cfg.MConfig, logger.NewLogger(cfg.LogLevel, "Viewer"))

	// 2. View state
	set := series.NewSet(cfg.Chart.MaxPoints, srv)
	activityLog := series.NewLogBuffer(cfg.Chart.LogLines)
	notifier := notify.NewSink(cfg.MConfig, srv)

	// 3. Session state machine over the gateway REST boundary
	scheduler := utils.NewSymbolScheduler(logger.NewLogger(cfg.LogLevel, "Scheduler"))
	gw := gateway.NewClient(cfg.MConfig)
	sess := session.NewSession(gw, notifier, activityLog, srv, scheduler,
		logger.NewLogger(cfg.LogLevel, "Session"))
	srv.Attach(sess, set, activityLog, notifier)

	// 4. Local indicator engine, only when configured
	var engine *analysis.Engine
	if cfg.Metrics.Local {
		engine = analysis.NewEngine(cfg.MConfig, logger.NewLogger(cfg.LogLevel, "Metrics"))
	}

	// 5. Ingestion channel
	handler := ingest.NewHandler(cfg.MConfig, set, activityLog, srv, engine,
		logger.NewLogger(cfg.LogLevel, "Ingest"))

	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Error("Viewer server failed: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wg := &sync.WaitGroup{}

	if err := handler.Start(ctx, wg); err != nil {
		appLogger.Critical("Failed to open ingestion channel: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")
	cancel()
	handler.Stop()
	wg.Wait()
	srv.Stop()
}
