package domain

import "fmt"

// Validation limits
const (
	MaxSampleRows        = 10
	MaxValidationErrors  = 5
	requiredGroupID      = "transaction_id"
	requiredGroupDate    = "date"
	requiredGroupAmounts = "amount"
)

// requiredGroups lists the column groups an upload must carry. A group is
// satisfied when any of its fields resolves.
var requiredGroups = []struct {
	name   string
	fields []FieldName
}{
	{requiredGroupID, []FieldName{FieldTransactionID}},
	{requiredGroupDate, []FieldName{FieldTransactionDate}},
	{requiredGroupAmounts, []FieldName{FieldAmount, FieldDebitAmount, FieldCreditAmount}},
}

// ValidationResult describes a successful validation.
type ValidationResult struct {
	SampleSize int
	Warnings   []string
}

// Validate checks that rows carry the required columns and that the first
// rows hold usable values. Missing ids are warnings; they surface later as
// discrepancies.
func (r *FieldResolver) Validate(rows []*RawRow) (ValidationResult, error) {
	if len(rows) == 0 {
		return ValidationResult{}, &ValidationError{Kind: ErrNoDataRows}
	}
	if rows[0] == nil || rows[0].Len() == 0 {
		return ValidationResult{}, &ValidationError{Kind: ErrNoHeaders}
	}

	var missing []string
	for _, group := range requiredGroups {
		found := false
		for _, field := range group.fields {
			if r.HasColumn(rows[0], field) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, group.name)
		}
	}
	if len(missing) > 0 {
		return ValidationResult{}, &ValidationError{Kind: ErrMissingColumns, Missing: missing}
	}

	sample := min(MaxSampleRows, len(rows))
	result := ValidationResult{SampleSize: sample}
	var errs []string

	for i := 0; i < sample; i++ {
		row := rows[i]
		n := i + 1

		if id, ok := r.Resolve(row, FieldTransactionID); !ok || isAbsentText(id) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: missing transaction id", n))
		}

		if date, ok := r.Resolve(row, FieldTransactionDate); ok && !isAbsentText(date) {
			if _, parsed := ParseDate(date); !parsed {
				errs = append(errs, fmt.Sprintf("row %d: invalid date %q", n, date))
			}
		}

		if !r.hasUsableAmount(row) {
			errs = append(errs, fmt.Sprintf("row %d: no numeric amount", n))
		}
	}

	if len(errs) > 0 {
		if len(errs) > MaxValidationErrors {
			errs = errs[:MaxValidationErrors]
		}
		return result, &ValidationError{Kind: ErrInvalidSample, Messages: errs}
	}
	return result, nil
}

func (r *FieldResolver) hasUsableAmount(row *RawRow) bool {
	for _, field := range []FieldName{FieldAmount, FieldDebitAmount, FieldCreditAmount} {
		if v, ok := r.Resolve(row, field); ok && IsNumeric(v) {
			return true
		}
	}
	return false
}
