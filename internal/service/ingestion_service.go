package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/nghiack7/data-ingestion-service/internal/domain/models"
	"github.com/nghiack7/data-ingestion-service/internal/interfaces/dtos"
	"github.com/nghiack7/data-ingestion-service/internal/interfaces/mapper"
	"github.com/nghiack7/data-ingestion-service/internal/processor"
	"github.com/nghiack7/data-ingestion-service/internal/storage"
	"github.com/nghiack7/data-ingestion-service/pkg/errors"
)

// IngestionService handles ingestion-related business logic
type IngestionService interface {
	// Submit validates and registers a new ingestion request and enqueues
	// its batches for processing
	Submit(ctx context.Context, submission dtos.IngestionSubmissionDTO) (*dtos.IngestionResponseDTO, error)

	// GetStatus retrieves the status snapshot of an ingestion request
	GetStatus(ctx context.Context, ingestionID string) (*dtos.StatusResponseDTO, error)

	// GetStats returns processing statistics
	GetStats(ctx context.Context) (map[string]interface{}, error)
}

// DefaultIngestionService is the default implementation of IngestionService
type DefaultIngestionService struct {
	repo      storage.Repository
	cacheRepo storage.CacheRepository
	queue     *processor.PriorityQueue
	scheduler *processor.Scheduler
	batchSize int
	cacheTTL  time.Duration
}

var _ IngestionService = (*DefaultIngestionService)(nil)

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	repo storage.Repository,
	cacheRepo storage.CacheRepository,
	queue *processor.PriorityQueue,
	scheduler *processor.Scheduler,
	batchSize int,
	cacheTTL time.Duration,
) *DefaultIngestionService {
	return &DefaultIngestionService{
		repo:      repo,
		cacheRepo: cacheRepo,
		queue:     queue,
		scheduler: scheduler,
		batchSize: batchSize,
		cacheTTL:  cacheTTL,
	}
}

// Submit validates the submission, creates the request with its batches
// atomically, and pushes the batches onto the priority queue. Validation
// failures never create a record.
func (s *DefaultIngestionService) Submit(ctx context.Context, submission dtos.IngestionSubmissionDTO) (*dtos.IngestionResponseDTO, error) {
	if err := models.ValidateIdentifiers(submission.IDs); err != nil {
		return nil, err
	}

	priority, err := models.ParsePriority(submission.Priority)
	if err != nil {
		return nil, err
	}

	req := models.NewIngestionRequest(submission.IDs, priority, s.batchSize)

	if _, err := s.repo.CreateRequest(ctx, req); err != nil {
		// An id collision means the generator misbehaved; surface it as a
		// conflict rather than silently retrying
		if stderrors.Is(err, storage.ErrDuplicateRequest) {
			return nil, errors.New(errors.ErrDuplicateRequest)
		}
		return nil, fmt.Errorf("failed to create ingestion request: %w", err)
	}

	for _, batch := range req.Batches {
		if err := s.queue.Enqueue(batch); err != nil {
			if err == processor.ErrQueueFull {
				return nil, errors.New(errors.ErrQueueFull)
			}
			return nil, fmt.Errorf("failed to enqueue batch %s: %w", batch.BatchID, err)
		}
	}

	return &dtos.IngestionResponseDTO{IngestionID: req.IngestionID}, nil
}

// GetStatus retrieves a status snapshot by ingestion id
func (s *DefaultIngestionService) GetStatus(ctx context.Context, ingestionID string) (*dtos.StatusResponseDTO, error) {
	if ingestionID == "" {
		return nil, errors.New(errors.ErrInvalidRequest)
	}

	// Completed requests are immutable; serve them from the cache when present
	if s.cacheRepo != nil {
		if cached, err := s.cacheRepo.Get(ctx, ingestionID); err == nil && cached != nil {
			if cached.Status == models.StatusCompleted {
				return mapper.MapRequestToStatusResponseDTO(cached), nil
			}
		}
	}

	req, err := s.repo.GetRequest(ctx, ingestionID)
	if err != nil {
		if stderrors.Is(err, storage.ErrRequestNotFound) {
			return nil, errors.New(errors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get ingestion request: %w", err)
	}

	// Only terminal snapshots go to the cache; anything else would serve
	// stale status
	if s.cacheRepo != nil && req.Status == models.StatusCompleted {
		bgCtx := context.Background()
		s.cacheRepo.Set(bgCtx, ingestionID, req, s.cacheTTL)
	}

	return mapper.MapRequestToStatusResponseDTO(req), nil
}

// GetStats returns processing statistics
func (s *DefaultIngestionService) GetStats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	stats["queueSize"] = s.queue.Size()

	if s.scheduler != nil {
		stats["scheduler"] = s.scheduler.Stats()
	}

	statusCounts := make(map[string]int)
	for _, status := range []models.Status{
		models.StatusYetToStart,
		models.StatusTriggered,
		models.StatusCompleted,
	} {
		count, _ := s.repo.CountByStatus(ctx, status)
		statusCounts[string(status)] = count
	}

	stats["statusCounts"] = statusCounts
	stats["timestamp"] = time.Now().UTC().Format(time.RFC3339)

	return stats, nil
}
