package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/zatekoja/hospitaladmin/internal/adapters/events"
	"github.com/zatekoja/hospitaladmin/internal/adapters/storage"
	"github.com/zatekoja/hospitaladmin/internal/api/handlers"
	"github.com/zatekoja/hospitaladmin/internal/api/middleware"
	"github.com/zatekoja/hospitaladmin/internal/application/services"
	"github.com/zatekoja/hospitaladmin/internal/infrastructure/auth"
	"github.com/zatekoja/hospitaladmin/internal/infrastructure/clients/redis"
	"github.com/zatekoja/hospitaladmin/internal/infrastructure/observability"
	"github.com/zatekoja/hospitaladmin/pkg/config"
)

// The stream server runs beside one or more API processes sharing a Redis
// instance. It only authenticates sessions; logins go to the API.
func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.App.Name+"-sse", cfg.App.Env)
	logger := observability.GetLogger()
	logger.Info().Msg("Starting SSE server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis is required: it carries both the events and the session flags
	redisClient, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize Redis client")
	}
	defer redisClient.Close()

	eventBus := events.NewRedisEventBus(redisClient, cfg.App.KeyPrefix())
	sessions := services.NewAuthService(
		nil,
		auth.NewTokenIssuer(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL()),
		storage.NewRedisAdapter(redisClient, cfg.App.KeyPrefix(), nil),
		cfg.Auth.SessionTTL(),
		nil,
	)
	sseHandler := handlers.NewSSEHandler(eventBus)

	// Set up router
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /api/stream/{store}", middleware.RequireAuth(sseHandler.StreamStore))

	// SSE stats endpoint
	mux.HandleFunc("GET /api/stream/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"connected_clients": sseHandler.GetClientCount()})
	})

	// Apply middleware
	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.SessionMiddleware(sessions)(handler)
	handler = middleware.CORSMiddleware(cfg.App.AllowedOrigins)(handler)

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        serverAddr,
		Handler:     handler,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", serverAddr).Msg("SSE server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("SSE server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("SSE server shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Error during server shutdown")
	}

	if err := eventBus.Close(); err != nil {
		logger.Error().Err(err).Msg("Error closing event bus")
	}

	logger.Info().Msg("SSE server stopped")
}
