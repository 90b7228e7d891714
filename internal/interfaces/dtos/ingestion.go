package dtos

import (
	"github.com/nghiack7/data-ingestion-service/internal/domain/models"
)

// IngestionSubmissionDTO represents the payload to submit identifiers for ingestion
type IngestionSubmissionDTO struct {
	// IDs is the ordered list of identifiers to process
	IDs []int64 `json:"ids" validate:"required,min=1"`

	// Priority level of the request (HIGH, MEDIUM, LOW)
	Priority string `json:"priority" validate:"required"`
}

// IngestionResponseDTO is returned on a successful submission
type IngestionResponseDTO struct {
	// Unique identifier to poll status with
	IngestionID string `json:"ingestion_id"`
}

// BatchStatusDTO represents the status of one batch in a status response
type BatchStatusDTO struct {
	// Unique identifier for the batch
	BatchID string `json:"batch_id"`

	// Identifiers in this batch, in submission order
	IDs []int64 `json:"ids"`

	// Current status of the batch
	Status models.Status `json:"status"`
}

// StatusResponseDTO represents the full status snapshot of an ingestion request
type StatusResponseDTO struct {
	// Unique identifier for the ingestion request
	IngestionID string `json:"ingestion_id"`

	// Derived request status
	Status models.Status `json:"status"`

	// Priority level of the request
	Priority models.Priority `json:"priority"`

	// Batches in split order
	Batches []BatchStatusDTO `json:"batches"`
}
