package processor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/nghiack7/data-ingestion-service/internal/domain/events"
	"github.com/nghiack7/data-ingestion-service/internal/domain/models"
	"github.com/nghiack7/data-ingestion-service/internal/storage"
	"github.com/nghiack7/data-ingestion-service/pkg/logger"
	"github.com/nghiack7/data-ingestion-service/pkg/utils"
)

// Scheduler is the single background loop that drains the priority queue
// under the global rate limit. Each cycle dequeues exactly one batch,
// moves it to triggered, performs the (simulated) unit of work for every
// identifier, and moves it to completed. It is not re-entrant and must
// only be started once.
type Scheduler struct {
	id    string
	queue *PriorityQueue
	repo  storage.Repository
	bus   events.EventBus
	log   logger.Logger

	// RateLimit is the minimum spacing between two consecutive batch
	// completions, applied globally across all priorities
	rateLimit time.Duration

	// processDelay is the simulated processing time per identifier
	processDelay time.Duration

	// Status tracking
	isRunning atomic.Bool
	processed atomic.Int64
	errors    atomic.Int64

	// For shutdown signaling
	shutdownCh chan struct{}
	wg         sync.WaitGroup
}

// SchedulerOptions configures scheduler behavior
type SchedulerOptions struct {
	// RateLimit is the minimum spacing between two processed batches
	RateLimit time.Duration

	// ProcessDelay is the simulated processing time per identifier
	ProcessDelay time.Duration
}

// DefaultSchedulerOptions returns sensible defaults for scheduler options
func DefaultSchedulerOptions() SchedulerOptions {
	return SchedulerOptions{
		RateLimit:    5 * time.Second,
		ProcessDelay: 1 * time.Second,
	}
}

// NewScheduler creates a new scheduler. The event bus may be nil when no
// lifecycle consumers are configured.
func NewScheduler(
	queue *PriorityQueue,
	repo storage.Repository,
	bus events.EventBus,
	log logger.Logger,
	options SchedulerOptions,
) *Scheduler {
	return &Scheduler{
		id:           fmt.Sprintf("scheduler-%s", uuid.New().String()[:8]),
		queue:        queue,
		repo:         repo,
		bus:          bus,
		log:          log,
		rateLimit:    options.RateLimit,
		processDelay: options.ProcessDelay,
		shutdownCh:   make(chan struct{}),
	}
}

// Start launches the scheduling loop
func (s *Scheduler) Start(ctx context.Context) error {
	if s.isRunning.Swap(true) {
		return fmt.Errorf("scheduler %s is already running", s.id)
	}

	s.wg.Add(1)
	go s.run(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler. If waitForCompletion is true,
// it waits for an in-flight batch to finish its cycle.
func (s *Scheduler) Stop(waitForCompletion bool) error {
	if !s.isRunning.Swap(false) {
		return nil // Already stopped
	}

	close(s.shutdownCh)

	if waitForCompletion {
		s.wg.Wait()
	}

	return nil
}

// Stats returns current scheduler statistics
func (s *Scheduler) Stats() map[string]interface{} {
	return map[string]interface{}{
		"id":        s.id,
		"running":   s.isRunning.Load(),
		"processed": s.processed.Load(),
		"errors":    s.errors.Load(),
		"rateLimit": s.rateLimit.String(),
	}
}

// ID returns the scheduler's unique identifier
func (s *Scheduler) ID() string {
	return s.id
}

// run is the scheduling loop. The limiter is fixed-delay: the next dequeue
// waits until at least rateLimit has elapsed since the previous cycle
// finished. Idle waits on an empty queue do not consume timer budget.
func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	doneCh := ctx.Done()

	var lastFinished time.Time

	for {
		select {
		case <-doneCh:
			return
		case <-s.shutdownCh:
			return
		default:
		}

		if !lastFinished.IsZero() {
			if wait := s.rateLimit - time.Since(lastFinished); wait > 0 {
				select {
				case <-time.After(wait):
				case <-doneCh:
					return
				case <-s.shutdownCh:
					return
				}
			}
		}

		batch, err := s.queue.Dequeue()
		if err != nil {
			if err == ErrQueueEmpty {
				// Wait for work without consuming a tick
				select {
				case <-s.queue.Ready():
					continue
				case <-doneCh:
					return
				case <-s.shutdownCh:
					return
				}
			}
			if err == ErrQueueClosed {
				return
			}

			s.errors.Add(1)
			continue
		}

		// A dequeued batch runs its full cycle; shutdown takes effect at
		// the next loop boundary.
		s.processBatch(ctx, batch)
		lastFinished = time.Now()
	}
}

// processBatch drives one batch through triggered -> completed
func (s *Scheduler) processBatch(ctx context.Context, batch *models.Batch) {
	if err := s.repo.UpdateBatchStatus(ctx, batch.BatchID, models.StatusTriggered); err != nil {
		s.errors.Add(1)
		s.log.Errorf("Failed to mark batch %s triggered: %v", batch.BatchID, err)
		return
	}
	s.publish(ctx, events.TypeBatchTriggered, batch)

	// Simulated unit of work per identifier; the interesting contract is
	// the state transition and timing, not the payload effect
	for _, id := range batch.IDs {
		if s.processDelay > 0 {
			select {
			case <-time.After(s.processDelay):
			case <-ctx.Done():
			case <-s.shutdownCh:
			}
		}
		s.log.Debugf("Processed id %d of batch %s", id, batch.BatchID)
	}

	if err := s.repo.UpdateBatchStatus(ctx, batch.BatchID, models.StatusCompleted); err != nil {
		s.errors.Add(1)
		s.log.Errorf("Failed to mark batch %s completed: %v", batch.BatchID, err)
		return
	}
	s.publish(ctx, events.TypeBatchCompleted, batch)

	s.processed.Add(1)
	s.log.WithFields(logger.Fields{
		"batch_id":     batch.BatchID,
		"ingestion_id": batch.IngestionID,
		"priority":     batch.Priority,
		"ids":          len(batch.IDs),
	}).Infof("Batch completed")
}

func (s *Scheduler) publish(ctx context.Context, eventType string, batch *models.Batch) {
	if s.bus == nil {
		return
	}

	event := events.Event{
		ID:          utils.GenerateID(),
		EventType:   eventType,
		IngestionID: batch.IngestionID,
		BatchID:     batch.BatchID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		s.log.Errorf("Failed to publish %s for batch %s: %v", eventType, batch.BatchID, err)
	}
}
