package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nghiack7/data-ingestion-service/internal/interfaces/dtos"
	"github.com/nghiack7/data-ingestion-service/internal/service"
	"github.com/nghiack7/data-ingestion-service/pkg/errors"
	"github.com/nghiack7/data-ingestion-service/pkg/utils"
)

// IngestionHandler handles ingestion-related HTTP requests
type IngestionHandler struct {
	dtos.Base
	ingestionService service.IngestionService
}

// NewIngestionHandler creates a new ingestion handler
func NewIngestionHandler(ingestionService service.IngestionService) *IngestionHandler {
	return &IngestionHandler{
		Base:             dtos.NewBase(),
		ingestionService: ingestionService,
	}
}

// RegisterRoutes registers the ingestion handler routes with the router
func (h *IngestionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ingest", h.submit).Methods(http.MethodPost)
	router.HandleFunc("/status/{ingestion_id}", h.getStatus).Methods(http.MethodGet)
	router.HandleFunc("/ingestions/stats", h.getStats).Methods(http.MethodGet)
}

// submit handles a new identifier submission
func (h *IngestionHandler) submit(w http.ResponseWriter, r *http.Request) {
	// Parse request body
	var submission dtos.IngestionSubmissionDTO
	decoder := json.NewDecoder(r.Body)

	if err := decoder.Decode(&submission); err != nil {
		h.HandleError(w, errors.New(errors.ErrInvalidRequest))
		return
	}
	defer r.Body.Close()

	// Basic validation
	if err := utils.Validate(submission); err != nil {
		h.HandleError(w, errors.New(errors.ErrInvalidRequest, err.Error()))
		return
	}

	// Submit to service
	res, err := h.ingestionService.Submit(r.Context(), submission)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.JSON(w, res)
}

// getStatus retrieves the status snapshot for a specific ingestion request
func (h *IngestionHandler) getStatus(w http.ResponseWriter, r *http.Request) {
	// Get ingestion ID from URL
	vars := mux.Vars(r)
	ingestionID := vars["ingestion_id"]

	if ingestionID == "" {
		h.HandleError(w, errors.New(errors.ErrInvalidRequest))
		return
	}

	// Retrieve status from service
	status, err := h.ingestionService.GetStatus(r.Context(), ingestionID)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.JSON(w, status)
}

// getStats returns processing statistics
func (h *IngestionHandler) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ingestionService.GetStats(r.Context())
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.JSON(w, stats)
}
