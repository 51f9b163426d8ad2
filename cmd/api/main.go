package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	apispec "github.com/freelansire/hrh/api"
	"github.com/freelansire/hrh/internal/api/handlers"
	"github.com/freelansire/hrh/internal/application"
	"github.com/freelansire/hrh/internal/domain"
	"github.com/freelansire/hrh/internal/infrastructure/googlemaps"
	mongoRepo "github.com/freelansire/hrh/internal/infrastructure/mongodb"
	"github.com/freelansire/hrh/internal/infrastructure/ocrspace"
	"github.com/freelansire/hrh/internal/infrastructure/translation"
	"github.com/freelansire/hrh/pkg/cloudevents"
	"github.com/freelansire/hrh/pkg/kafka"
	"github.com/freelansire/hrh/pkg/logging"
	"github.com/freelansire/hrh/pkg/metrics"
	"github.com/freelansire/hrh/pkg/middleware"
	"github.com/freelansire/hrh/pkg/mongodb"
	"github.com/freelansire/hrh/pkg/outbox"
	outboxmongo "github.com/freelansire/hrh/pkg/outbox/mongodb"
	"github.com/freelansire/hrh/pkg/resilience"
	"github.com/freelansire/hrh/pkg/tracing"
)

const serviceName = "hrh-logistics"

func main() {
	// A missing .env is fine; the environment wins either way
	_ = godotenv.Load()

	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.ParseLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting HRH Logistics API")

	config, err := loadConfig()
	if err != nil {
		logger.WithError(err).Error("Invalid configuration")
		os.Exit(1)
	}
	ctx := context.Background()

	// Initialize OpenTelemetry tracing
	tracingConfig := tracing.DefaultConfig(serviceName)
	tracingConfig.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	tracingConfig.Environment = getEnv("ENVIRONMENT", "development")
	tracingConfig.Enabled = getEnv("TRACING_ENABLED", "true") == "true"

	tracerProvider, err := tracing.Initialize(ctx, tracingConfig)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
		// Continue without tracing
	} else if tracerProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shutdown tracer")
			}
		}()
		logger.Info("Tracing initialized", "endpoint", tracingConfig.OTLPEndpoint)
	}

	m := metrics.New(metrics.DefaultConfig(serviceName))
	logger.Info("Metrics initialized")

	// MongoDB may still be starting next to us; retry the initial connect
	mongoClient, err := resilience.RetryWithResult(ctx, resilience.DefaultRetryConfig(), func() (*mongodb.Client, error) {
		return mongodb.NewClient(ctx, config.MongoDB)
	})
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	instrumentedMongo := mongodb.NewInstrumentedClient(mongoClient, m, logger)
	defer instrumentedMongo.Close(context.Background())
	logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)

	outboxRepo := outboxmongo.NewOutboxRepository(instrumentedMongo.Collection(outboxmongo.DefaultCollectionName))
	if err := outboxRepo.EnsureIndexes(ctx); err != nil {
		logger.WithError(err).Error("Failed to create outbox indexes")
		os.Exit(1)
	}

	eventFactory := cloudevents.NewEventFactory(cloudevents.SourceHRHLogistics)
	transactor := mongoRepo.ClientTransactor{Client: mongoClient}

	assignmentRepo := mongoRepo.NewZoneAssignmentRepository(
		instrumentedMongo.Collection(mongoRepo.CollectionZoneAssignments), transactor, outboxRepo, eventFactory)
	translationRepo := mongoRepo.NewLabelTranslationRepository(
		instrumentedMongo.Collection(mongoRepo.CollectionLabelTranslations), transactor, outboxRepo, eventFactory)
	routePlanRepo := mongoRepo.NewRoutePlanRepository(
		instrumentedMongo.Collection(mongoRepo.CollectionRoutePlans), transactor, outboxRepo, eventFactory)

	for name, ensure := range map[string]func(context.Context) error{
		mongoRepo.CollectionZoneAssignments:   assignmentRepo.EnsureIndexes,
		mongoRepo.CollectionLabelTranslations: translationRepo.EnsureIndexes,
		mongoRepo.CollectionRoutePlans:        routePlanRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			logger.WithError(err).Error("Failed to create indexes", "collection", name)
			os.Exit(1)
		}
	}

	// Kafka producer for the outbox relay
	kafkaProducer := kafka.NewProducer(config.Kafka)
	instrumentedProducer := kafka.NewInstrumentedProducer(kafkaProducer, m, logger)
	defer instrumentedProducer.Close()
	logger.Info("Kafka producer initialized", "brokers", config.Kafka.Brokers)

	outboxPublisher := outbox.NewPublisher(outboxRepo, instrumentedProducer, logger, m, outbox.DefaultPublisherConfig())
	if err := outboxPublisher.Start(ctx); err != nil {
		logger.WithError(err).Error("Failed to start outbox publisher")
		os.Exit(1)
	}
	defer outboxPublisher.Stop()
	logger.Info("Outbox publisher started")

	// Third-party API clients, each behind its own circuit breaker
	breakers := resilience.NewCircuitBreakerRegistry(logger.Logger, m)

	extractor := ocrspace.NewClient(config.OCR, breakers.Get(resilience.BreakerOCRSpace), logger, m)
	directions := googlemaps.NewClient(config.Maps, breakers.GetWithConfig(googlemaps.BreakerConfig()), logger, m)

	translator, closeTranslator, err := buildTranslator(config, breakers, logger, m)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize translator")
		os.Exit(1)
	}
	defer closeTranslator()
	logger.Info("Translator initialized", "provider", config.TranslatorProvider, "cache", config.RedisURL != "")

	services := appServices{
		warehousing: application.NewWarehousingService(assignmentRepo, logger, m),
		labeling:    application.NewLabelingService(translationRepo, extractor, translator, logger, m),
		routing:     application.NewRoutingService(routePlanRepo, directions, logger, m),
	}

	router, err := newRouter(services, logger, m, func() error {
		return instrumentedMongo.HealthCheck(ctx)
	})
	if err != nil {
		logger.WithError(err).Error("Failed to build router")
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: config.ExternalTimeout + 30*time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Server error")
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server stopped")
}

type appServices struct {
	warehousing *application.WarehousingService
	labeling    *application.LabelingService
	routing     *application.RoutingService
}

// newRouter builds the HTTP surface: platform endpoints, the JSON API, the
// contracts and the HTML page.
func newRouter(services appServices, logger *logging.Logger, m *metrics.Metrics, ready func() error) (*gin.Engine, error) {
	router := gin.New()

	middleware.Setup(router, middleware.DefaultConfig(serviceName, logger.Logger))
	router.Use(middleware.MetricsMiddleware(m))
	router.Use(middleware.SimpleTracingMiddleware(serviceName))

	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, ready))
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	router.GET("/api/openapi.yaml", handlers.ServeContract("application/yaml", apispec.OpenAPI))
	router.GET("/api/asyncapi.yaml", handlers.ServeContract("application/yaml", apispec.AsyncAPI))

	v1 := router.Group("/api/v1")
	handlers.NewWarehousingHandler(services.warehousing, logger).RegisterRoutes(v1)
	handlers.NewLabelingHandler(services.labeling, logger).RegisterRoutes(v1)
	handlers.NewRoutingHandler(services.routing, logger).RegisterRoutes(v1)

	ui, err := handlers.NewUIHandler(services.warehousing, services.labeling, services.routing, logger)
	if err != nil {
		return nil, err
	}
	ui.RegisterRoutes(router)

	return router, nil
}

// buildTranslator selects the configured provider and wraps it with the
// Redis cache when REDIS_URL is set. The returned func releases the cache
// connection.
func buildTranslator(
	config *Config,
	breakers *resilience.CircuitBreakerRegistry,
	logger *logging.Logger,
	m *metrics.Metrics,
) (domain.Translator, func(), error) {
	var translator domain.Translator
	switch config.TranslatorProvider {
	case translation.ProviderOpenAI:
		translator = translation.NewOpenAITranslator(config.OpenAI, breakers.Get(resilience.BreakerOpenAITranslate), logger, m)
	default:
		translator = translation.NewGoogleTranslator(config.GoogleTranslate, breakers.Get(resilience.BreakerGoogleTranslate), logger, m)
	}

	if config.RedisURL == "" {
		return translator, func() {}, nil
	}

	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	cached := translation.NewCachedTranslator(translator, translation.NewRedisStore(client), config.TranslationCacheTTL, logger, m)
	return cached, func() {
		if err := client.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close Redis client")
		}
	}, nil
}

// Config holds application configuration
type Config struct {
	ServerAddr string
	MongoDB    *mongodb.Config
	Kafka      *kafka.Config

	OCR                 ocrspace.Config
	Maps                googlemaps.Config
	TranslatorProvider  translation.Provider
	GoogleTranslate     translation.GoogleConfig
	OpenAI              translation.OpenAIConfig
	RedisURL            string
	TranslationCacheTTL time.Duration
	ExternalTimeout     time.Duration
}

func loadConfig() (*Config, error) {
	externalTimeout, err := getDuration("EXTERNAL_CALL_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getDuration("TRANSLATION_CACHE_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	provider, err := translation.ParseProvider(getEnv("TRANSLATOR_PROVIDER", string(translation.ProviderGoogle)))
	if err != nil {
		return nil, err
	}

	mongoConfig := mongodb.DefaultConfig()
	mongoConfig.URI = getEnv("MONGODB_URI", mongoConfig.URI)
	mongoConfig.Database = getEnv("MONGODB_DATABASE", mongoConfig.Database)
	mongoConfig.ReplicaSet = os.Getenv("MONGODB_REPLICA_SET")

	kafkaConfig := kafka.DefaultConfig()
	kafkaConfig.ClientID = serviceName
	if brokers := kafka.ParseBrokers(getEnv("KAFKA_BROKERS", "localhost:9092")); len(brokers) > 0 {
		kafkaConfig.Brokers = brokers
	}

	ocr := ocrspace.DefaultConfig(os.Getenv("OCR_SPACE_API_KEY"))
	ocr.URL = getEnv("OCR_SPACE_URL", ocrspace.DefaultURL)
	ocr.Timeout = externalTimeout

	maps := googlemaps.DefaultConfig(os.Getenv("GOOGLE_MAPS_API_KEY"))
	maps.URL = getEnv("GOOGLE_MAPS_URL", googlemaps.DefaultURL)
	maps.Timeout = externalTimeout

	google := translation.DefaultGoogleConfig()
	google.URL = getEnv("GOOGLE_TRANSLATE_URL", translation.DefaultGoogleURL)
	google.Timeout = externalTimeout

	openAI := translation.DefaultOpenAIConfig(os.Getenv("OPENAI_API_KEY"))
	openAI.Model = getEnv("OPENAI_MODEL", openAI.Model)
	openAI.Timeout = externalTimeout

	return &Config{
		ServerAddr:          getEnv("SERVER_ADDR", ":8080"),
		MongoDB:             mongoConfig,
		Kafka:               kafkaConfig,
		OCR:                 ocr,
		Maps:                maps,
		TranslatorProvider:  provider,
		GoogleTranslate:     google,
		OpenAI:              openAI,
		RedisURL:            os.Getenv("REDIS_URL"),
		TranslationCacheTTL: cacheTTL,
		ExternalTimeout:     externalTimeout,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: expected a positive duration such as 30s", key, value)
	}
	return d, nil
}
