package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/intalkconnect/sendform/internal/config"
	"github.com/intalkconnect/sendform/internal/freshdesk"
	"github.com/intalkconnect/sendform/internal/frontdoor"
	"github.com/intalkconnect/sendform/internal/server"
	"github.com/intalkconnect/sendform/internal/telemetry"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	shutdown, err := telemetry.InitTracer("sendform", logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client := freshdesk.NewClient(cfg.Freshdesk.Domain, cfg.Freshdesk.APIKey)
	contacts := freshdesk.NewContactService(client, logger)

	limiter := server.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	stopSweep := make(chan struct{})
	go limiter.Run(stopSweep)

	srv := server.New(server.Options{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RateLimiter:    limiter,
	}, logger)

	frontdoor.Register(srv.Router,
		frontdoor.NewCommercial(client, contacts, logger),
		frontdoor.NewIncident(client, contacts, logger),
	)

	httpSrv := srv.HTTPServer()
	go func() {
		logger.Info("starting server",
			slog.Int("port", cfg.Server.Port),
			slog.String("freshdesk_domain", cfg.Freshdesk.Domain),
		)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received, stopping server")
	close(stopSweep)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}
