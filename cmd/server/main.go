// Package main is the entry point for the Fix-My-Ward API server.
// Citizens file civic issue reports for their ward; ward councillors
// triage them. Collections are stored as whole JSON blobs in the
// configured key-value backend, and report descriptions are enriched by a
// Gemini model with a templated fallback.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fixmyward/ward-server/internal/config"
	"github.com/fixmyward/ward-server/internal/handlers"
	"github.com/fixmyward/ward-server/internal/services"
	"github.com/fixmyward/ward-server/internal/storage"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Environment)
	defer logger.Sync()
	sugar := logger.Sugar()

	sugar.Infow("Starting Fix-My-Ward server",
		"port", cfg.Port,
		"env", cfg.Environment,
		"storage", cfg.StorageBackend,
		"model", cfg.GeminiModel,
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		sugar.Fatalf("Failed to open %s storage: %v", cfg.StorageBackend, err)
	}
	defer store.Close()

	wards, err := services.LoadWardDirectory(cfg.WardsFile)
	if err != nil {
		sugar.Fatalf("Failed to load wards: %v", err)
	}

	// A missing API key is not fatal: every description uses the fallback.
	var gen services.TextGenerator
	if cfg.GeminiAPIKey == "" {
		sugar.Warn("GEMINI_API_KEY not set, report descriptions will use the fallback template")
	} else if g, err := services.NewGenAIGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel); err != nil {
		sugar.Warnw("GenAI client unavailable, using fallback descriptions", "error", err)
	} else {
		sugar.Infow("GenAI enrichment enabled", "model", g.Model(), "timeout", cfg.AITimeout)
		gen = g
	}

	// Initialize services
	identitySvc := services.NewIdentityService(store, sugar)
	reportRepo := services.NewReportRepository(store, sugar)
	enricher := services.NewEnricher(gen, cfg.AITimeout, sugar)
	reportSvc := services.NewReportService(reportRepo, enricher, sugar)
	tokens := services.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	router := handlers.NewRouter(handlers.Deps{
		Store:          store,
		Identity:       identitySvc,
		Reports:        reportSvc,
		Wards:          wards,
		Tokens:         tokens,
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimitRPM:   cfg.RateLimitRPM,
		RequestTimeout: 60 * time.Second,
		Context:        ctx,
	})

	// Submissions are held for the enrichment call, so writes are only
	// bounded when it is.
	var writeTimeout time.Duration
	if cfg.AITimeout > 0 {
		writeTimeout = cfg.AITimeout + 30*time.Second
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sugar.Infof("Server listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	sugar.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Fatalf("Forced shutdown: %v", err)
	}

	sugar.Info("Server stopped")
}

func newLogger(env string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if env == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
