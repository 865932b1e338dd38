package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Parse errors
	ErrEmptyFile         = errors.New("file contains no data rows")
	ErrNoHeaders         = errors.New("file has no header row")
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// Validation errors
	ErrNoDataRows     = errors.New("no data rows to validate")
	ErrMissingColumns = errors.New("required columns are missing")
	ErrInvalidSample  = errors.New("sample rows failed validation")

	// Report errors
	ErrReportNotFound = errors.New("report not found")
	ErrInvalidMode    = errors.New("invalid reconciliation mode")
	ErrInvalidPeriod  = errors.New("invalid reconciliation period")
)

// ParseError is returned when an uploaded file cannot be turned into rows.
// A file either parses completely or fails with a ParseError.
type ParseError struct {
	Kind   error
	Detail string
}

// NewParseError creates a ParseError of the given kind.
func NewParseError(kind error, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}

// ValidationError is returned when parsed rows are structurally present
// but not usable for reconciliation.
type ValidationError struct {
	Kind     error
	Missing  []string
	Messages []string
}

func (e *ValidationError) Error() string {
	switch {
	case len(e.Missing) > 0:
		return fmt.Sprintf("%s: %s", e.Kind, strings.Join(e.Missing, ", "))
	case len(e.Messages) > 0:
		return fmt.Sprintf("%s: %s", e.Kind, strings.Join(e.Messages, "; "))
	default:
		return e.Kind.Error()
	}
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// ErrInvalidLedgerRow is returned when an imported ledger row lacks an id or a date.
var ErrInvalidLedgerRow = errors.New("invalid ledger row")
