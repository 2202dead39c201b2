package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/zatekoja/hospitaladmin/internal/adapters/database"
	"github.com/zatekoja/hospitaladmin/internal/adapters/directory"
	"github.com/zatekoja/hospitaladmin/internal/adapters/events"
	"github.com/zatekoja/hospitaladmin/internal/adapters/storage"
	"github.com/zatekoja/hospitaladmin/internal/api/handlers"
	"github.com/zatekoja/hospitaladmin/internal/api/middleware"
	"github.com/zatekoja/hospitaladmin/internal/api/routes"
	"github.com/zatekoja/hospitaladmin/internal/application/services"
	"github.com/zatekoja/hospitaladmin/internal/domain/providers"
	"github.com/zatekoja/hospitaladmin/internal/domain/repositories"
	"github.com/zatekoja/hospitaladmin/internal/infrastructure/auth"
	"github.com/zatekoja/hospitaladmin/internal/infrastructure/charts"
	"github.com/zatekoja/hospitaladmin/internal/infrastructure/clients/openai"
	"github.com/zatekoja/hospitaladmin/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/hospitaladmin/internal/infrastructure/clients/redis"
	"github.com/zatekoja/hospitaladmin/internal/infrastructure/observability"
	"github.com/zatekoja/hospitaladmin/pkg/config"
)

// storageSweepInterval is how often expired Postgres keys are deleted
const storageSweepInterval = 10 * time.Minute

// backends are the storage components selected by STORAGE_DRIVER
type backends struct {
	storage  providers.StorageProvider
	eventBus providers.EventBus
	feedback repositories.FeedbackRepository
	closers  []func() error
}

func main() {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.App.Name, cfg.App.Env)
	logger := observability.GetLogger()

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	b, err := openBackends(ctx, cfg, metrics)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to initialize storage")
	}
	defer func() {
		for i := len(b.closers) - 1; i >= 0; i-- {
			if err := b.closers[i](); err != nil {
				logger.Error().Err(err).Msg("Error closing backend")
			}
		}
	}()
	logger.Info().Str("driver", cfg.Storage.Driver).Msg("Storage initialized")

	// The assistant features stay off without an API key.
	var llm providers.LanguageModelProvider
	if cfg.OpenAI.APIKey == "" {
		logger.Warn().Msg("OPENAI_API_KEY is not set; scheduler and symptom checker disabled")
	} else {
		client, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize OpenAI client")
		} else {
			llm = client
		}
	}

	credentials, err := auth.NewCredentials(cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, cfg.Auth.UserUsername, cfg.Auth.UserPassword)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize credentials")
	}
	tokens := auth.NewTokenIssuer(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL())

	// Initialize services
	publisher := services.NewEventPublisher(b.eventBus, metrics)
	now := time.Now()
	directoryStore := directory.NewMemoryStore(directory.SeedDoctors(), directory.SeedPatients(now), directory.SeedAppointments())

	authService := services.NewAuthService(credentials, tokens, b.storage, cfg.Auth.SessionTTL(), publisher)
	directoryService := services.NewDirectoryService(directoryStore, publisher)
	bookingService := services.NewBookingService(b.storage, publisher, metrics)
	if err := bookingService.Load(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to load persisted bookings; starting empty")
	}
	schedulerService := services.NewSchedulerService(llm, directoryService, bookingService, time.Local)
	symptomService := services.NewSymptomService(llm)
	feedbackService := services.NewFeedbackService(b.feedback, cfg.Feedback.SubmitDelay(), cfg.Feedback.ResetDelay())
	defer feedbackService.Close()
	dashboardService := services.NewDashboardService(directoryService, time.Local)

	// Set up router
	router := routes.NewRouter(
		routes.Handlers{
			Auth:      handlers.NewAuthHandler(authService, cfg.App.Env == "production"),
			Directory: handlers.NewDirectoryHandler(directoryService),
			Booking:   handlers.NewBookingHandler(bookingService),
			Scheduler: handlers.NewSchedulerHandler(schedulerService, bookingService),
			Symptom:   handlers.NewSymptomHandler(symptomService),
			Feedback:  handlers.NewFeedbackHandler(feedbackService, b.storage),
			Dashboard: handlers.NewDashboardHandler(dashboardService, charts.NewRenderer()),
			SSE:       handlers.NewSSEHandler(b.eventBus),
		},
		authService,
		middleware.NewIPRateLimiter(cfg.Auth.LoginRateRPS, cfg.Auth.LoginRateBurst),
		cfg.App.AllowedOrigins,
		metrics,
	)

	// Create HTTP server. No write timeout: store streams stay open.
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           router.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Server shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Error during server shutdown")
	}

	logger.Info().Msg("Server stopped")
}

// openBackends connects the configured storage driver. Redis carries
// sessions, bookings and store events; Postgres carries sessions, bookings
// and feedback. Whatever a driver lacks falls back to process memory.
func openBackends(ctx context.Context, cfg *config.Config, metrics *observability.Metrics) (*backends, error) {
	b := &backends{}

	switch cfg.Storage.Driver {
	case "redis":
		client, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, client.Close)
		b.storage = storage.NewRedisAdapter(client, cfg.App.KeyPrefix(), metrics)
		b.eventBus = events.NewRedisEventBus(client, cfg.App.KeyPrefix())
		b.feedback = database.NewMemoryFeedbackRepository()

	case "postgres":
		client, err := postgres.NewClient(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, client.Close)
		if err := client.Migrate(ctx); err != nil {
			_ = client.Close()
			return nil, err
		}
		pgStorage := storage.NewPostgresAdapter(client, metrics)
		pgStorage.StartSweeper(ctx, storageSweepInterval)
		b.storage = pgStorage
		b.eventBus = events.NewMemoryEventBus()
		b.feedback = database.NewFeedbackAdapter(client)

	default:
		b.storage = storage.NewMemoryAdapter()
		b.eventBus = events.NewMemoryEventBus()
		b.feedback = database.NewMemoryFeedbackRepository()
	}

	// The event bus closes before the client it publishes through.
	b.closers = append(b.closers, b.eventBus.Close)
	return b, nil
}
