package storage

import (
	"context"
	"errors"
	"time"

	"github.com/nghiack7/data-ingestion-service/internal/domain/models"
)

// Common errors
var (
	// ErrRequestNotFound is returned when an ingestion request cannot be found
	ErrRequestNotFound = errors.New("ingestion request not found")

	// ErrBatchNotFound is returned when a batch cannot be found
	ErrBatchNotFound = errors.New("batch not found")

	// ErrDuplicateRequest is returned when an ingestion id already exists
	ErrDuplicateRequest = errors.New("duplicate ingestion request")

	// ErrStatusRegression is returned when a batch status update would move
	// the batch backwards in its lifecycle
	ErrStatusRegression = errors.New("batch status regression")

	// ErrInvalidRequestData is returned when request data is invalid
	ErrInvalidRequestData = errors.New("invalid ingestion request data")
)

// Repository defines the interface for the authoritative status store.
// Reads return deep-copied snapshots; a reader never observes a
// half-applied mutation.
type Repository interface {
	// CreateRequest stores a new request with its batches atomically and
	// returns its id. Fails with ErrDuplicateRequest on id collision.
	CreateRequest(ctx context.Context, req *models.IngestionRequest) (string, error)

	// GetRequest retrieves a consistent snapshot of a request and its batches
	GetRequest(ctx context.Context, ingestionID string) (*models.IngestionRequest, error)

	// UpdateBatchStatus mutates a batch status and recomputes the owning
	// request's derived status in the same critical section. Called only by
	// the scheduler. Regressions fail with ErrStatusRegression.
	UpdateBatchStatus(ctx context.Context, batchID string, status models.Status) error

	// CountByStatus counts requests with the given derived status
	CountByStatus(ctx context.Context, status models.Status) (int, error)

	// ListRequests returns request snapshots ordered by creation time (newest first)
	ListRequests(ctx context.Context, limit, offset int) ([]*models.IngestionRequest, error)
}

// CacheRepository defines operations for a faster cache layer holding
// immutable request snapshots.
type CacheRepository interface {
	Set(ctx context.Context, ingestionID string, req *models.IngestionRequest, ttl time.Duration) error
	Get(ctx context.Context, ingestionID string) (*models.IngestionRequest, error)
	Delete(ctx context.Context, ingestionID string) error
}
