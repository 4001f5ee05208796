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

	"github.com/quizgen/quizgen/internal/api"
	"github.com/quizgen/quizgen/internal/config"
	"github.com/quizgen/quizgen/internal/core"
	"github.com/quizgen/quizgen/internal/logging"
	"github.com/quizgen/quizgen/internal/session"
	"github.com/quizgen/quizgen/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.Setup(cfg.LogLevel)
	if cfg.UsesDefaultSecret() {
		logger.Warn("SECRET_KEY is not set; using the built-in development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database store
	dbStore, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbStore.Close()

	// Initialize session backend
	var sessions core.SessionRepository = dbStore
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		redisStore, err := session.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer redisStore.Close()
		sessions = redisStore
	default:
		janitor := session.NewJanitor(dbStore, cfg.SessionPurgeInterval, logger)
		janitor.Start(ctx)
		defer janitor.Stop()
	}
	logger.Info("Session backend ready", "backend", cfg.SessionBackend, "ttl", cfg.SessionTTL)

	// Initialize LLM service
	llmService, err := core.NewLLMService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	if err != nil {
		return err
	}
	defer llmService.Close()

	authService := core.NewAuthService(dbStore, sessions, cfg.SessionTTL, logger)
	generationService := core.NewGenerationService(llmService, logger)

	// Initialize API Handler and Router
	secret := []byte(cfg.SecretKey)
	sessionManager := api.NewSessionManager(secret, cfg.SessionTTL, cfg.CookieSecure)
	apiHandler, err := api.NewAPIHandler(authService, generationService, sessionManager, secret, cfg.TokenTTL, logger)
	if err != nil {
		return err
	}
	router := api.NewRouter(apiHandler, logger)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // LLM calls can take time
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server. Press Ctrl+C to quit.", "addr", serverAddr, "model", cfg.GeminiModel)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("could not listen on %s: %w", serverAddr, err)
		}
	case <-ctx.Done():
	}
	logger.Info("Shutting down server...")

	// This gives active connections time to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server exiting gracefully")
	return nil
}
