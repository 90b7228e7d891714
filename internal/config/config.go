package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Ingestion pipeline configuration
	Ingestion IngestionConfig

	// Processor configuration
	Processor ProcessorConfig

	// Storage configuration
	Storage StorageConfig

	// Messaging configuration
	Messaging MessagingConfig

	// Logging configuration
	Logging LoggingConfig
}

// ServerConfig holds configuration for the HTTP server
type ServerConfig struct {
	// Port is the HTTP server port
	Port int `mapstructure:"port"`

	// ReadTimeout is the maximum duration for reading the entire request
	ReadTimeout time.Duration `mapstructure:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the response
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
}

// IngestionConfig holds configuration for batching and rate limiting.
// Both values are read once at startup and immutable afterwards.
type IngestionConfig struct {
	// BatchSize is the maximum number of identifiers per batch
	BatchSize int `mapstructure:"batch_size"`

	// RateLimit is the minimum spacing between two processed batches
	RateLimit time.Duration `mapstructure:"rate_limit"`

	// ProcessDelay is the simulated processing time per identifier
	ProcessDelay time.Duration `mapstructure:"process_delay"`
}

// ProcessorConfig holds configuration for the scheduling pipeline
type ProcessorConfig struct {
	// QueueCapacity is the maximum number of batches in the queue (0 = unlimited)
	QueueCapacity int `mapstructure:"queue_capacity"`
}

// StorageConfig holds configuration for storage repositories
type StorageConfig struct {
	// Redis configuration
	Redis RedisConfig `mapstructure:"redis"`

	// Cache type (memory, redis)
	CacheType string `mapstructure:"cache_type"`

	// TTL for cache entries in seconds
	CacheTTL int `mapstructure:"cache_ttl"`
}

// RedisConfig holds configuration for Redis
type RedisConfig struct {
	// Address is the Redis server address
	Address string `mapstructure:"address"`

	// Password is the Redis password
	Password string `mapstructure:"password"`

	// DB is the Redis database number
	DB int `mapstructure:"db"`
}

// MessagingConfig holds configuration for the lifecycle event bridge
type MessagingConfig struct {
	// Type selects the broker ("", kafka, rabbitmq). Empty disables the bridge.
	Type string `mapstructure:"type"`

	// Topic is the topic/queue name lifecycle events are published to
	Topic string `mapstructure:"topic"`

	// Kafka broker addresses
	Kafka KafkaConfig `mapstructure:"kafka"`

	// RabbitMQ connection settings
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
}

// KafkaConfig holds configuration for Kafka
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
}

// RabbitMQConfig holds configuration for RabbitMQ
type RabbitMQConfig struct {
	URL string `mapstructure:"url"`
}

// LoggingConfig holds configuration for logging
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error)
	Level string `mapstructure:"level"`

	// Format is the log format (json, text)
	Format string `mapstructure:"format"`
}

var AppConfig *Config

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) error {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Set up environment variables
	v.SetEnvPrefix("")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load configuration file if specified
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	AppConfig = &config

	return nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)

	// Ingestion defaults
	v.SetDefault("ingestion.batch_size", 3)
	v.SetDefault("ingestion.rate_limit", 5*time.Second)
	v.SetDefault("ingestion.process_delay", 1*time.Second)

	// Processor defaults
	v.SetDefault("processor.queue_capacity", 10000)

	// Storage defaults
	v.SetDefault("storage.cache_type", "memory")
	v.SetDefault("storage.cache_ttl", 3600)
	v.SetDefault("storage.redis.db", 0)

	// Messaging defaults (bridge disabled unless a broker type is set)
	v.SetDefault("messaging.type", "")
	v.SetDefault("messaging.topic", "ingestion.events")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Ingestion.BatchSize < 1 {
		return fmt.Errorf("invalid batch size: %d", c.Ingestion.BatchSize)
	}

	if c.Ingestion.RateLimit <= 0 {
		return fmt.Errorf("invalid rate limit: %s", c.Ingestion.RateLimit)
	}

	if c.Ingestion.ProcessDelay < 0 {
		return fmt.Errorf("invalid process delay: %s", c.Ingestion.ProcessDelay)
	}

	if c.Processor.QueueCapacity < 0 {
		return fmt.Errorf("invalid queue capacity: %d", c.Processor.QueueCapacity)
	}

	if c.Storage.CacheType == "redis" && c.Storage.Redis.Address == "" {
		return fmt.Errorf("redis address is required when cache type is redis")
	}

	switch c.Messaging.Type {
	case "", "kafka", "rabbitmq":
	default:
		return fmt.Errorf("invalid messaging type: %s", c.Messaging.Type)
	}

	if c.Messaging.Type == "kafka" && len(c.Messaging.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka brokers are required when messaging type is kafka")
	}

	if c.Messaging.Type == "rabbitmq" && c.Messaging.RabbitMQ.URL == "" {
		return fmt.Errorf("rabbitmq url is required when messaging type is rabbitmq")
	}

	return nil
}
