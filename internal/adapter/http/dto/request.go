package dto

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/iho/statementrecon/internal/domain"
	"github.com/iho/statementrecon/internal/usecase"
)

// Multipart form fields of a reconciliation upload.
const (
	FormFile      = "file"
	FormMode      = "mode"
	FormStartDate = "start_date"
	FormEndDate   = "end_date"
)

// ReconcileRequest holds the non-file fields of a reconciliation upload.
type ReconcileRequest struct {
	Mode      string
	StartDate string
	EndDate   string
}

// ReconcileRequestFromForm reads the request fields from a parsed form.
func ReconcileRequestFromForm(r *http.Request) ReconcileRequest {
	return ReconcileRequest{
		Mode:      r.FormValue(FormMode),
		StartDate: r.FormValue(FormStartDate),
		EndDate:   r.FormValue(FormEndDate),
	}
}

// ToUseCaseInput converts to use case input. An empty mode means
// by_transaction_id; the period only applies to by_period.
func (r ReconcileRequest) ToUseCaseInput(data []byte, filename string) (usecase.ReconcileUploadInput, error) {
	mode := domain.ModeByTransactionID
	if strings.TrimSpace(r.Mode) != "" {
		parsed, err := domain.ParseMode(r.Mode)
		if err != nil {
			return usecase.ReconcileUploadInput{}, err
		}
		mode = parsed
	}

	input := usecase.ReconcileUploadInput{
		Data: data,
		Ext:  filepath.Ext(filename),
		Mode: mode,
	}

	if mode == domain.ModeByPeriod {
		period, err := domain.NewPeriod(strings.TrimSpace(r.StartDate), strings.TrimSpace(r.EndDate))
		if err != nil {
			return usecase.ReconcileUploadInput{}, err
		}
		input.Period = period
	}

	return input, nil
}
