package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/nghiack7/data-ingestion-service/internal/api"
	"github.com/nghiack7/data-ingestion-service/internal/config"
	"github.com/nghiack7/data-ingestion-service/internal/domain/events"
	"github.com/nghiack7/data-ingestion-service/internal/processor"
	"github.com/nghiack7/data-ingestion-service/internal/service"
	"github.com/nghiack7/data-ingestion-service/internal/storage"
	"github.com/nghiack7/data-ingestion-service/internal/storage/cache"
	"github.com/nghiack7/data-ingestion-service/internal/storage/memory"
	"github.com/nghiack7/data-ingestion-service/pkg/logger"
	"github.com/nghiack7/data-ingestion-service/pkg/messaging"
	"github.com/nghiack7/data-ingestion-service/pkg/messaging/kafka"
	rabbitmq "github.com/nghiack7/data-ingestion-service/pkg/messaging/rabbitMQ"
	"github.com/nghiack7/data-ingestion-service/pkg/metrics"
	"github.com/nghiack7/data-ingestion-service/pkg/utils"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the API server",
	Run:   serverRun,
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

// serverRun is the function that runs the API server
func serverRun(cmd *cobra.Command, args []string) {

	// Initialize logger
	logInstance := logger.NewLogger(config.AppConfig)

	logInstance.Infof("Starting Data Ingestion Service API")

	// Generate instance ID
	instanceID := fmt.Sprintf("api-%s", uuid.New().String()[:8])
	logInstance.Infof("Instance ID generated: %s", instanceID)

	// Initialize components
	components, err := initializeComponents(config.AppConfig, logInstance)
	if err != nil {
		logInstance.Fatalf(err, "Failed to initialize components")
	}

	// Create API router
	router := api.NewRouter(components.ingestionService, components.metrics, logInstance)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.AppConfig.Server.Port),
		Handler:      router,
		ReadTimeout:  config.AppConfig.Server.ReadTimeout,
		WriteTimeout: config.AppConfig.Server.WriteTimeout,
		IdleTimeout:  config.AppConfig.Server.IdleTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the batch scheduler in background
	if err := components.scheduler.Start(ctx); err != nil {
		logInstance.Fatalf(err, "Failed to start scheduler")
	}
	logInstance.Infof("Scheduler started with rate limit %s", config.AppConfig.Ingestion.RateLimit)

	// Export queue depth while the server runs
	go reportQueueDepth(ctx, components.queue, components.metrics)

	// Start server in a goroutine
	go func() {
		logInstance.Infof("Starting HTTP server on port %d", config.AppConfig.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logInstance.Fatalf(err, "Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logInstance.Infof("Received signal %v, shutting down server...", sig)

	// Create a deadline for server shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Shutdown the server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logInstance.Fatalf(err, "Server shutdown failed: %v", err)
	}

	// Stop the scheduler, letting an in-flight batch finish its cycle
	if err := components.scheduler.Stop(true); err != nil {
		logInstance.Errorf("Error stopping scheduler: %v", err)
	}

	// Cancel context and close the queue
	cancel()
	if err := components.queue.Close(); err != nil {
		logInstance.Errorf("Error closing queue: %v", err)
	}

	logInstance.Infof("Server shutdown complete")
}

// Components holds all the application components
type Components struct {
	memoryRepo       *memory.MemoryRepository
	redisRepo        *cache.RedisRepository
	queue            *processor.PriorityQueue
	scheduler        *processor.Scheduler
	eventBus         *events.EventBusImpl
	broker           messaging.MessageBroker
	metrics          metrics.MetricsService
	ingestionService service.IngestionService
}

// Initialize all the components
func initializeComponents(cfg *config.Config, logInstance logger.Logger) (*Components, error) {
	components := &Components{}

	// Create memory repository
	components.memoryRepo = memory.NewMemoryRepository()
	logInstance.Infof("Memory repository initialized")

	// Initialize Redis if configured
	if cfg.Storage.CacheType == "redis" {
		redisOptions := cache.RedisOptions{
			Address:    cfg.Storage.Redis.Address,
			Password:   cfg.Storage.Redis.Password,
			DB:         cfg.Storage.Redis.DB,
			DefaultTTL: time.Duration(cfg.Storage.CacheTTL) * time.Second,
		}

		var err error
		components.redisRepo, err = cache.NewRedisRepository(redisOptions)
		if err != nil {
			logInstance.Errorf("Failed to connect to Redis, using in-memory cache only: %v", err)
			components.redisRepo = nil
		} else {
			logInstance.Infof("Redis connected to %s", cfg.Storage.Redis.Address)
		}
	}

	// Determine which repository to use as cache
	var cacheRepo storage.CacheRepository
	if cfg.Storage.CacheType == "redis" && components.redisRepo != nil {
		cacheRepo = components.redisRepo
		logInstance.Infof("Using Redis for cache repository")
	} else {
		cacheRepo = components.memoryRepo
		logInstance.Infof("Using in-memory repository for cache")
	}

	// Create queue
	queueOptions := processor.DefaultQueueOptions()
	queueOptions.MaxCapacity = cfg.Processor.QueueCapacity

	components.queue = processor.NewPriorityQueue(queueOptions)
	logInstance.Infof("Priority queue initialized")

	// Create event bus and optional broker bridge
	components.eventBus = events.NewEventBus()
	if cfg.Messaging.Type != "" {
		broker, err := connectBroker(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect message broker: %w", err)
		}
		components.broker = broker
		bridgeEvents(components.eventBus, broker, cfg.Messaging.Topic, logInstance)
		logInstance.Infof("Lifecycle events bridged to %s topic %s", cfg.Messaging.Type, cfg.Messaging.Topic)
	}

	// Create metrics
	components.metrics = metrics.NewPrometheusMetrics("ingestion")
	logInstance.Infof("Metrics initialized")

	// Create scheduler
	schedulerOptions := processor.SchedulerOptions{
		RateLimit:    cfg.Ingestion.RateLimit,
		ProcessDelay: cfg.Ingestion.ProcessDelay,
	}

	components.scheduler = processor.NewScheduler(
		components.queue,
		components.memoryRepo,
		components.eventBus,
		logInstance,
		schedulerOptions,
	)
	logInstance.Infof("Scheduler initialized")

	// Create ingestion service
	components.ingestionService = service.NewIngestionService(
		components.memoryRepo,
		cacheRepo,
		components.queue,
		components.scheduler,
		cfg.Ingestion.BatchSize,
		time.Duration(cfg.Storage.CacheTTL)*time.Second,
	)
	logInstance.Infof("Ingestion service initialized")

	return components, nil
}

// connectBroker dials the configured broker, retrying transient failures
func connectBroker(cfg *config.Config) (messaging.MessageBroker, error) {
	var broker messaging.MessageBroker

	dial := func() error {
		var err error
		switch cfg.Messaging.Type {
		case "kafka":
			broker, err = kafka.NewKafka(cfg.Messaging.Kafka.Brokers, "ingestion-service")
		case "rabbitmq":
			broker, err = rabbitmq.NewRabbitMQ(cfg.Messaging.RabbitMQ.URL)
		default:
			return fmt.Errorf("unsupported messaging type: %s", cfg.Messaging.Type)
		}
		return err
	}

	if err := utils.RetryWithBackoff(dial, 5, time.Second, 10*time.Second); err != nil {
		return nil, err
	}
	return broker, nil
}

// bridgeEvents forwards batch lifecycle events from the in-process bus to
// the external broker
func bridgeEvents(bus *events.EventBusImpl, broker messaging.MessageBroker, topic string, logInstance logger.Logger) {
	forward := func(ctx context.Context, event events.Event) error {
		payload, err := json.Marshal(event)
		if err != nil {
			logInstance.Errorf("Failed to marshal event %s: %v", event.ID, err)
			return err
		}
		if err := broker.Publish(topic, payload); err != nil {
			logInstance.Errorf("Failed to publish event %s: %v", event.ID, err)
			return err
		}
		return nil
	}

	bus.Subscribe(events.TypeBatchTriggered, forward)
	bus.Subscribe(events.TypeBatchCompleted, forward)
}

// reportQueueDepth periodically exports the queue size as a gauge
func reportQueueDepth(ctx context.Context, queue *processor.PriorityQueue, metricsService metrics.MetricsService) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metricsService.SetGauge("queue_depth", float64(queue.Size()), nil)
		}
	}
}
