package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/iho/statementrecon/internal/adapter/http/dto"
	"github.com/iho/statementrecon/internal/domain"
	"github.com/iho/statementrecon/internal/infrastructure/logger"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeErrorResponse(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

func writeErrorResponse(w http.ResponseWriter, status int, resp dto.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	var parseErr *domain.ParseError
	var validationErr *domain.ValidationError

	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &parseErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidLedgerRow):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidMode):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidPeriod):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrReportNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError writes err with the status mapDomainError picks.
// Internal errors are logged and not echoed to the client.
func writeDomainError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, message string, err error) {
	status := mapDomainError(err)
	if status == http.StatusInternalServerError {
		l := logger.FromContext(r.Context(), log)
		l.Error().Err(err).Msg(message)
		writeError(w, status, message, "internal error")
		return
	}

	resp := dto.ErrorResponse{Error: message, Message: err.Error()}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		for _, col := range validationErr.Missing {
			resp.Details = append(resp.Details, "missing column: "+col)
		}
		resp.Details = append(resp.Details, validationErr.Messages...)
	}

	writeErrorResponse(w, status, resp)
}

// parseBoolQuery parses a boolean query parameter with a default value.
func parseBoolQuery(r *http.Request, key string, defaultValue bool) bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}
	return b
}
