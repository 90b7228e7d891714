package mapper

import (
	"github.com/nghiack7/data-ingestion-service/internal/domain/models"
	"github.com/nghiack7/data-ingestion-service/internal/interfaces/dtos"
)

func MapBatchToBatchStatusDTO(batch *models.Batch) dtos.BatchStatusDTO {
	return dtos.BatchStatusDTO{
		BatchID: batch.BatchID,
		IDs:     batch.IDs,
		Status:  batch.Status,
	}
}

func MapRequestToStatusResponseDTO(req *models.IngestionRequest) *dtos.StatusResponseDTO {
	res := &dtos.StatusResponseDTO{
		IngestionID: req.IngestionID,
		Status:      req.Status,
		Priority:    req.Priority,
		Batches:     make([]dtos.BatchStatusDTO, 0, len(req.Batches)),
	}
	for _, b := range req.Batches {
		res.Batches = append(res.Batches, MapBatchToBatchStatusDTO(b))
	}
	return res
}
