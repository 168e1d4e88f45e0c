package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"fbresponse/internal/config"
	"fbresponse/internal/notifier"
	"fbresponse/internal/pipeline"
	"fbresponse/internal/repository"
	"fbresponse/internal/scraper"
	"fbresponse/internal/server"
	"fbresponse/internal/service"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Load configuration
	cfgPath := "configs/config.yml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	service.SetJWTSecret(cfg.Auth.JWTSecret)

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// Initialize repositories
	runRepo := repository.NewRunRepository(db, logger)

	// Comment scraper (headless browser)
	commentScraper := scraper.New(scraper.Options{
		Headless:       cfg.Scraper.Headless,
		UserAgent:      cfg.Scraper.UserAgent,
		NavTimeoutSecs: cfg.Scraper.NavTimeoutSecs,
		SettleWaitSecs: cfg.Scraper.SettleWaitSecs,
	}, logger)

	// Classification pipeline
	pl := pipeline.New(logger, cfg.Processing.Workers)

	// Optional Telegram run notifications
	tgNotifier, err := notifier.NewTelegram(cfg, logger)
	if err != nil {
		logger.Warn("Failed to initialize Telegram notifier, continuing without it", zap.Error(err))
		tgNotifier = nil
	}

	responder := service.NewResponderService(commentScraper, pl, runRepo, tgNotifier, cfg.Processing.OutputDir, logger)

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize and run the server
	srv := server.NewServer(db, cfg, responder, logger)
	go func() {
		if err := srv.Run(cfg.Server.Port); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Application stopped.")
}
