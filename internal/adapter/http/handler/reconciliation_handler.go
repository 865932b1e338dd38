package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/iho/statementrecon/internal/adapter/http/dto"
	"github.com/iho/statementrecon/internal/domain"
	"github.com/iho/statementrecon/internal/usecase"
)

// Multipart parts above this size spill to temporary files.
const multipartMemory = 8 << 20

// ReconciliationService defines the interface for reconciliation operations.
type ReconciliationService interface {
	ReconcileUpload(ctx context.Context, input usecase.ReconcileUploadInput) (*domain.ReconciliationReport, error)
	GetReport(ctx context.Context, id string) (*domain.ReconciliationReport, error)
}

// ReconciliationHandler handles statement uploads and report lookups.
type ReconciliationHandler struct {
	svc            ReconciliationService
	maxUploadBytes int64
	logger         zerolog.Logger
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(svc ReconciliationService, maxUploadBytes int64, logger zerolog.Logger) *ReconciliationHandler {
	return &ReconciliationHandler{
		svc:            svc,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Create handles POST /api/v1/reconciliations.
func (h *ReconciliationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if isTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large",
				fmt.Sprintf("limit is %d bytes", h.maxUploadBytes))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form", err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(dto.FormFile)
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file", err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable file", err.Error())
		return
	}

	input, err := dto.ReconcileRequestFromForm(r).ToUseCaseInput(data, header.Filename)
	if err != nil {
		writeDomainError(w, r, h.logger, "invalid reconciliation request", err)
		return
	}

	report, err := h.svc.ReconcileUpload(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, h.logger, "reconciliation failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ReportFromDomain(report, false))
}

// Get handles GET /api/v1/reconciliations/{id}.
func (h *ReconciliationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	report, err := h.svc.GetReport(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, h.logger, "report lookup failed", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReportFromDomain(report, parseBoolQuery(r, "discrepancies_only", false)))
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
