package processor

import (
	"container/heap"
	"errors"
	"sync"

	"github.com/nghiack7/data-ingestion-service/internal/domain/models"
)

// Common errors
var (
	// ErrQueueEmpty is returned when the queue is empty
	ErrQueueEmpty = errors.New("queue is empty")

	// ErrQueueFull is returned when the queue is at capacity
	ErrQueueFull = errors.New("queue is at capacity")

	// ErrQueueClosed is returned when operations are performed on a closed queue
	ErrQueueClosed = errors.New("queue is closed")
)

// QueueOptions defines configuration options for the priority queue
type QueueOptions struct {
	// MaxCapacity defines the maximum number of batches in the queue (0 = unlimited)
	MaxCapacity int
}

// DefaultQueueOptions returns sensible default options
func DefaultQueueOptions() QueueOptions {
	return QueueOptions{
		MaxCapacity: 10000,
	}
}

// PriorityQueue holds batches pending processing, ordered by priority weight
// and, within a priority, by enqueue order. It is safe for concurrent
// enqueue from the submission path and dequeue from the scheduler.
type PriorityQueue struct {
	mu      sync.Mutex
	items   batchHeap
	seq     uint64
	options QueueOptions
	closed  bool

	// readyCh wakes an idle scheduler when a batch arrives
	readyCh chan struct{}
}

// NewPriorityQueue creates a new priority queue
func NewPriorityQueue(options QueueOptions) *PriorityQueue {
	return &PriorityQueue{
		items:   batchHeap{},
		options: options,
		readyCh: make(chan struct{}, 1),
	}
}

// Enqueue adds a batch to the queue. The batch's sequence number is
// assigned here; it increases monotonically across all enqueues and breaks
// ties between batches of equal priority (FIFO). Never blocks.
func (q *PriorityQueue) Enqueue(batch *models.Batch) error {
	q.mu.Lock()

	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}

	if q.options.MaxCapacity > 0 && q.items.Len() >= q.options.MaxCapacity {
		q.mu.Unlock()
		return ErrQueueFull
	}

	q.seq++
	batch.SequenceNumber = q.seq
	heap.Push(&q.items, batch)
	q.mu.Unlock()

	// Non-blocking readiness signal; a pending signal is enough
	select {
	case q.readyCh <- struct{}{}:
	default:
	}

	return nil
}

// Dequeue removes and returns the highest-priority, earliest-enqueued
// batch. Returns ErrQueueEmpty when nothing is pending. Never blocks.
func (q *PriorityQueue) Dequeue() (*models.Batch, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil, ErrQueueClosed
	}

	if q.items.Len() == 0 {
		return nil, ErrQueueEmpty
	}

	batch := heap.Pop(&q.items).(*models.Batch)
	return batch, nil
}

// Ready returns a channel that receives a signal when a batch is enqueued.
// Used by the scheduler to wait for work without burning timer budget.
func (q *PriorityQueue) Ready() <-chan struct{} {
	return q.readyCh
}

// Size returns the number of pending batches
func (q *PriorityQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// Close shuts down the queue
func (q *PriorityQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	q.closed = true
	return nil
}

// batchHeap implements heap.Interface ordered by (priority weight asc,
// sequence number asc); HIGH has the lowest weight.
type batchHeap []*models.Batch

func (h batchHeap) Len() int { return len(h) }

func (h batchHeap) Less(i, j int) bool {
	wi, wj := h[i].Priority.Weight(), h[j].Priority.Weight()
	if wi != wj {
		return wi < wj
	}
	return h[i].SequenceNumber < h[j].SequenceNumber
}

func (h batchHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *batchHeap) Push(x interface{}) {
	*h = append(*h, x.(*models.Batch))
}

func (h *batchHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
