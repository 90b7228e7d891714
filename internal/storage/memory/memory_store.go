package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/nghiack7/data-ingestion-service/internal/domain/models"
	"github.com/nghiack7/data-ingestion-service/internal/storage"
)

// MemoryRepository implements the Repository interface with in-memory storage.
// It is the authoritative store for the lifetime of the process; records are
// never deleted while the process runs.
type MemoryRepository struct {
	// Mutex for thread safety
	mu sync.RWMutex

	// Map of requests by ingestion id
	requests map[string]*models.IngestionRequest

	// Index from batch id to owning ingestion id
	batchIndex map[string]string
}

var (
	_ storage.Repository      = (*MemoryRepository)(nil)
	_ storage.CacheRepository = (*MemoryRepository)(nil)
)

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		requests:   make(map[string]*models.IngestionRequest),
		batchIndex: make(map[string]string),
	}
}

// CreateRequest stores a new request with its batches atomically
func (m *MemoryRepository) CreateRequest(ctx context.Context, req *models.IngestionRequest) (string, error) {
	if req == nil {
		return "", fmt.Errorf("%w: request is nil", storage.ErrInvalidRequestData)
	}

	if req.IngestionID == "" {
		return "", fmt.Errorf("%w: ingestion id is required", storage.ErrInvalidRequestData)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.requests[req.IngestionID]; exists {
		return "", fmt.Errorf("%w: ingestion id %s already exists", storage.ErrDuplicateRequest, req.IngestionID)
	}

	// Store a deep copy to prevent external mutations
	reqCopy := req.Clone()
	reqCopy.Status = models.DeriveRequestStatus(reqCopy.Batches)

	m.requests[req.IngestionID] = reqCopy
	for _, b := range reqCopy.Batches {
		m.batchIndex[b.BatchID] = req.IngestionID
	}

	return req.IngestionID, nil
}

// GetRequest retrieves a snapshot of a request by id
func (m *MemoryRepository) GetRequest(ctx context.Context, ingestionID string) (*models.IngestionRequest, error) {
	if ingestionID == "" {
		return nil, fmt.Errorf("%w: ingestion id is required", storage.ErrInvalidRequestData)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	req, exists := m.requests[ingestionID]
	if !exists {
		return nil, fmt.Errorf("%w: ingestion id %s", storage.ErrRequestNotFound, ingestionID)
	}

	// Return a copy to prevent external mutations
	return req.Clone(), nil
}

// UpdateBatchStatus mutates a batch in place and recomputes the owning
// request's derived status under the same lock
func (m *MemoryRepository) UpdateBatchStatus(ctx context.Context, batchID string, status models.Status) error {
	if batchID == "" {
		return fmt.Errorf("%w: batch id is required", storage.ErrInvalidRequestData)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ingestionID, exists := m.batchIndex[batchID]
	if !exists {
		return fmt.Errorf("%w: batch id %s", storage.ErrBatchNotFound, batchID)
	}

	req := m.requests[ingestionID]
	for _, b := range req.Batches {
		if b.BatchID != batchID {
			continue
		}

		if status.Rank() < b.Status.Rank() {
			return fmt.Errorf("%w: batch %s cannot move from %s to %s",
				storage.ErrStatusRegression, batchID, b.Status, status)
		}

		b.Status = status

		now := time.Now().UTC()
		switch status {
		case models.StatusTriggered:
			if b.TriggeredAt == nil {
				b.TriggeredAt = &now
			}
		case models.StatusCompleted:
			if b.CompletedAt == nil {
				b.CompletedAt = &now
			}
		}

		req.Status = models.DeriveRequestStatus(req.Batches)
		return nil
	}

	return fmt.Errorf("%w: batch id %s", storage.ErrBatchNotFound, batchID)
}

// CountByStatus counts requests with the given derived status
func (m *MemoryRepository) CountByStatus(ctx context.Context, status models.Status) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, req := range m.requests {
		if req.Status == status {
			count++
		}
	}

	return count, nil
}

// ListRequests returns request snapshots ordered by creation time (newest first)
func (m *MemoryRepository) ListRequests(ctx context.Context, limit, offset int) ([]*models.IngestionRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*models.IngestionRequest, 0, len(m.requests))
	for _, req := range m.requests {
		result = append(result, req.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if offset >= len(result) {
		return []*models.IngestionRequest{}, nil
	}

	end := offset + limit
	if end > len(result) {
		end = len(result)
	}

	return result[offset:end], nil
}

// Set stores a request snapshot, satisfying CacheRepository so the memory
// store can double as the cache when Redis is not configured
func (m *MemoryRepository) Set(ctx context.Context, ingestionID string, req *models.IngestionRequest, ttl time.Duration) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", storage.ErrInvalidRequestData)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// The memory store already holds the authoritative record; the snapshot
	// write is a no-op unless the record is missing.
	if _, exists := m.requests[ingestionID]; exists {
		return nil
	}

	reqCopy := req.Clone()
	m.requests[ingestionID] = reqCopy
	for _, b := range reqCopy.Batches {
		m.batchIndex[b.BatchID] = ingestionID
	}
	return nil
}

// Get retrieves a cached snapshot
func (m *MemoryRepository) Get(ctx context.Context, ingestionID string) (*models.IngestionRequest, error) {
	return m.GetRequest(ctx, ingestionID)
}

// Delete removes a request. Only the cache layer uses this; the
// authoritative store never deletes during normal operation.
func (m *MemoryRepository) Delete(ctx context.Context, ingestionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	req, exists := m.requests[ingestionID]
	if !exists {
		return fmt.Errorf("%w: ingestion id %s", storage.ErrRequestNotFound, ingestionID)
	}

	for _, b := range req.Batches {
		delete(m.batchIndex, b.BatchID)
	}
	delete(m.requests, ingestionID)
	return nil
}
