package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"signalwired/configs"
	"signalwired/internal/adapter/coingecko"
	"signalwired/internal/adapter/discord"
	"signalwired/internal/database"
	delivery "signalwired/internal/delivery/http"
	"signalwired/internal/infra"
	"signalwired/internal/logger"
	"signalwired/internal/metrics"
	"signalwired/internal/repository"
	"signalwired/internal/risk"
	"signalwired/internal/usecase"
)

func main() {
	// Load environment variables; a missing .env file is fine in production
	_ = godotenv.Load()

	cfg := configs.Load()
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()

	// Database
	db, err := infra.NewDatabase(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Repositories
	signalRepo := repository.NewSignalRepository(db)
	performanceRepo := repository.NewPerformanceRepository(db)

	// Adapters
	marketData := coingecko.NewClient(cfg.MarketData, nil, log)
	notifier := discord.NewNotifier(cfg.Discord.WebhookURL, log)

	// Metrics
	m := metrics.New()

	// Risk gate and generator
	gate := risk.NewManager(cfg.Risk, signalRepo, performanceRepo, notifier, m, log)
	lease := infra.NewCycleLease(db, log)
	generator := usecase.NewSignalGenerator(
		marketData,
		gate,
		signalRepo,
		performanceRepo,
		notifier,
		lease,
		cfg.MarketData.RequestDelay,
		cfg.MarketData.FetchTimeout,
		m,
		log,
	)

	// Scheduler
	scheduler := infra.NewScheduler(generator, cfg.Scheduler.CronSpec, log)
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer scheduler.Stop()

	// HTTP server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	delivery.SetupRoutes(e, &delivery.RouterConfig{
		SignalHandler: delivery.NewSignalHandler(signalRepo, performanceRepo),
		AdminHandler:  delivery.NewAdminHandler(db, scheduler, signalRepo, performanceRepo),
	})

	go func() {
		addr := ":" + cfg.Server.Port
		log.Info().Str("addr", addr).Msg("http server listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
}
