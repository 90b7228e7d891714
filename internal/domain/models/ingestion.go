package models

import (
	"time"

	"github.com/nghiack7/data-ingestion-service/pkg/errors"
	"github.com/nghiack7/data-ingestion-service/pkg/utils"
)

const (
	// MinIdentifier is the smallest accepted identifier value
	MinIdentifier int64 = 1

	// MaxIdentifier is the largest accepted identifier value (10^9 + 7)
	MaxIdentifier int64 = 1_000_000_007
)

// IngestionRequest is the canonical record for a submitted ingestion.
// The concatenation of its batches' identifier slices, in batch order,
// always equals the originally submitted sequence.
type IngestionRequest struct {
	// Unique identifier for the ingestion request
	IngestionID string `json:"ingestion_id"`

	// The full submitted identifier sequence, in submission order
	IDs []int64 `json:"ids"`

	// Priority level of the request
	Priority Priority `json:"priority"`

	// Status derived from the batches; never set independently
	Status Status `json:"status"`

	// Batches in split order
	Batches []*Batch `json:"batches"`

	// When the request was created
	CreatedAt time.Time `json:"created_at"`
}

// Batch is the unit of work the scheduler processes
type Batch struct {
	// Unique identifier for the batch
	BatchID string `json:"batch_id"`

	// Owning ingestion request
	IngestionID string `json:"ingestion_id"`

	// Identifiers in this batch, in submission order
	IDs []int64 `json:"ids"`

	// Priority inherited from the owning request
	Priority Priority `json:"priority"`

	// Current status of the batch
	Status Status `json:"status"`

	// SequenceNumber is the enqueue order, used as FIFO tiebreak within a
	// priority. Assigned by the queue.
	SequenceNumber uint64 `json:"-"`

	// When the batch was picked up by the scheduler
	TriggeredAt *time.Time `json:"triggered_at,omitempty"`

	// When the batch finished processing
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ValidateIdentifiers checks a submitted identifier sequence against domain
// rules. The sequence must be non-empty and every value inside
// [MinIdentifier, MaxIdentifier].
func ValidateIdentifiers(ids []int64) error {
	if len(ids) == 0 {
		return errors.Newf(errors.ErrInvalidIdentifier, "ids must not be empty")
	}
	for _, id := range ids {
		if id < MinIdentifier || id > MaxIdentifier {
			return errors.Newf(errors.ErrInvalidIdentifier,
				"id %d is out of valid range (%d to %d)", id, MinIdentifier, MaxIdentifier)
		}
	}
	return nil
}

// ParsePriority normalizes a priority label, failing on anything outside
// HIGH, MEDIUM, LOW.
func ParsePriority(label string) (Priority, error) {
	p := Priority(label)
	if !p.IsValid() {
		return "", errors.Newf(errors.ErrInvalidPriority,
			"priority %q is not one of HIGH, MEDIUM, LOW", label)
	}
	return p, nil
}

// SplitIdentifiers partitions ids into order-preserving chunks of at most
// batchSize elements. All chunks except possibly the last have exactly
// batchSize elements; concatenating the chunks reproduces ids.
func SplitIdentifiers(ids []int64, batchSize int) [][]int64 {
	if batchSize < 1 {
		batchSize = 1
	}

	chunks := make([][]int64, 0, (len(ids)+batchSize-1)/batchSize)
	for start := 0; start < len(ids); start += batchSize {
		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := make([]int64, end-start)
		copy(chunk, ids[start:end])
		chunks = append(chunks, chunk)
	}
	return chunks
}

// NewIngestionRequest builds a request and its batches from an already
// validated identifier sequence. The request and all batches start as
// yet_to_start.
func NewIngestionRequest(ids []int64, priority Priority, batchSize int) *IngestionRequest {
	req := &IngestionRequest{
		IngestionID: utils.GenerateID(),
		IDs:         ids,
		Priority:    priority,
		Status:      StatusYetToStart,
		CreatedAt:   time.Now().UTC(),
	}

	for _, chunk := range SplitIdentifiers(ids, batchSize) {
		req.Batches = append(req.Batches, &Batch{
			BatchID:     utils.GenerateID(),
			IngestionID: req.IngestionID,
			IDs:         chunk,
			Priority:    priority,
			Status:      StatusYetToStart,
		})
	}

	return req
}

// DeriveRequestStatus reduces batch statuses to the request status:
// yet_to_start when all batches are yet_to_start, completed when all are
// completed, triggered otherwise.
func DeriveRequestStatus(batches []*Batch) Status {
	if len(batches) == 0 {
		return StatusYetToStart
	}

	allYetToStart := true
	allCompleted := true
	for _, b := range batches {
		if b.Status != StatusYetToStart {
			allYetToStart = false
		}
		if b.Status != StatusCompleted {
			allCompleted = false
		}
	}

	switch {
	case allYetToStart:
		return StatusYetToStart
	case allCompleted:
		return StatusCompleted
	default:
		return StatusTriggered
	}
}

// Clone returns a deep copy of the request and its batches
func (r *IngestionRequest) Clone() *IngestionRequest {
	reqCopy := *r
	reqCopy.IDs = append([]int64(nil), r.IDs...)
	reqCopy.Batches = make([]*Batch, len(r.Batches))
	for i, b := range r.Batches {
		reqCopy.Batches[i] = b.Clone()
	}
	return &reqCopy
}

// Clone returns a deep copy of the batch
func (b *Batch) Clone() *Batch {
	batchCopy := *b
	batchCopy.IDs = append([]int64(nil), b.IDs...)
	if b.TriggeredAt != nil {
		t := *b.TriggeredAt
		batchCopy.TriggeredAt = &t
	}
	if b.CompletedAt != nil {
		t := *b.CompletedAt
		batchCopy.CompletedAt = &t
	}
	return &batchCopy
}
