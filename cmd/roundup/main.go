package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"roundup/internal/amqp"
	"roundup/internal/bank"
	"roundup/internal/bank/sandbox"
	"roundup/internal/bank/starling"
	"roundup/internal/cache"
	"roundup/internal/config"
	"roundup/internal/controller"
	apphttp "roundup/internal/http"
	"roundup/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	var gateway bank.Gateway
	switch cfg.GatewayBackend {
	case "starling":
		baseURL := cfg.StarlingBaseURL
		if baseURL == "" {
			baseURL = starling.DefaultBaseURL
		}
		gateway = starling.New(baseURL, cfg.StarlingAccessToken, cfg.StarlingHTTPTimeout)
		logger.Info("Initialized Starling gateway", "base_url", baseURL)
	default:
		gateway = sandbox.NewSeeded(time.Now().UTC(), cfg.WeekCount)
		logger.Info("Initialized sandbox gateway")
	}

	// Transfer events are optional: without a broker the round-up still
	// works, consumers just see nothing.
	var events *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Transfer events disabled, AMQP unavailable", "error", err)
		} else {
			defer events.Close()
			logger.Info("Transfer events enabled", "exchange", cfg.AMQPExchange)
		}
	}

	resolver := services.NewAccountResolver(gateway)
	transactions := services.NewTransactionService(resolver, gateway)
	goals := services.NewGoalOrchestrator(gateway, events)
	roundUp := services.NewRoundUpService(resolver, goals)
	ctrl := controller.New(transactions, roundUp, time.Now().UTC(), cfg.WeekCount)

	srv := apphttp.NewServer(":"+cfg.Port, ctrl, resolver, cfg.CacheSize, cfg.CacheTTL)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	cacheManager := cache.NewManager()
	for _, c := range srv.Caches() {
		cacheManager.Register(c)
	}
	cacheManager.StartCleanup(10 * time.Minute)
	defer cacheManager.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Populate the most recent week so the first request is warm.
	if _, err := ctrl.SelectWeek(ctx, 0); err != nil {
		logger.Warn("Initial week selection failed", "error", err)
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting roundup server", "port", cfg.Port, "backend", cfg.GatewayBackend, "weeks", cfg.WeekCount)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
