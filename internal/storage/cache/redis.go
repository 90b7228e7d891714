package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nghiack7/data-ingestion-service/internal/domain/models"
	"github.com/nghiack7/data-ingestion-service/internal/storage"
)

// RedisRepository implements the CacheRepository interface with Redis.
// Only immutable snapshots (completed requests) should be written here;
// live requests would serve stale status.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

var _ storage.CacheRepository = (*RedisRepository)(nil)

// RedisOptions contains options for Redis configuration
type RedisOptions struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis password
	Password string

	// DB is the Redis database number
	DB int

	// DefaultTTL is the default expiration time for cache entries
	DefaultTTL time.Duration
}

// DefaultRedisOptions returns sensible defaults for Redis
func DefaultRedisOptions() RedisOptions {
	return RedisOptions{
		Address:    "localhost:6379",
		Password:   "",
		DB:         0,
		DefaultTTL: 24 * time.Hour,
	}
}

// NewRedisRepository creates a new Redis repository
func NewRedisRepository(options RedisOptions) (*RedisRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     options.Address,
		Password: options.Password,
		DB:       options.DB,
	})

	// Test connection
	_, err := client.Ping(context.Background()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRepository{
		client: client,
		ttl:    options.DefaultTTL,
	}, nil
}

// Close closes the Redis connection
func (r *RedisRepository) Close() error {
	return r.client.Close()
}

// Set stores a request snapshot in the cache with the given TTL
func (r *RedisRepository) Set(ctx context.Context, ingestionID string, req *models.IngestionRequest, ttl time.Duration) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to serialize request: %w", err)
	}

	if ttl <= 0 {
		ttl = r.ttl
	}

	key := fmt.Sprintf("ingestion:%s", ingestionID)
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store request in Redis: %w", err)
	}

	return nil
}

// Get retrieves a request snapshot from the cache
func (r *RedisRepository) Get(ctx context.Context, ingestionID string) (*models.IngestionRequest, error) {
	key := fmt.Sprintf("ingestion:%s", ingestionID)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, storage.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to retrieve request from Redis: %w", err)
	}

	var req models.IngestionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to deserialize request: %w", err)
	}

	return &req, nil
}

// Delete removes a request snapshot from the cache
func (r *RedisRepository) Delete(ctx context.Context, ingestionID string) error {
	key := fmt.Sprintf("ingestion:%s", ingestionID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete request from Redis: %w", err)
	}

	return nil
}
