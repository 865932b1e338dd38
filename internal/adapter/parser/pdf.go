package parser

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/iho/statementrecon/internal/domain"
)

// ExtractPDFText returns the text of every page, one visual row per line.
func ExtractPDFText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domain.NewParseError(domain.ErrUnsupportedFormat, "open pdf: %v", err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", domain.NewParseError(domain.ErrUnsupportedFormat, "page %d: %v", i, err)
		}
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, w := range row.Content {
				words = append(words, w.S)
			}
			b.WriteString(strings.Join(words, " "))
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

// ParsePDF extracts transactions from a bank statement PDF. Extraction is
// heuristic and lossy.
func ParsePDF(data []byte) ([]*domain.RawRow, error) {
	text, err := ExtractPDFText(data)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewParseError(domain.ErrEmptyFile, "pdf contains no text")
	}

	rows := ExtractStatementRows(text)
	if len(rows) == 0 {
		return nil, domain.NewParseError(domain.ErrEmptyFile, "no transactions found in pdf text")
	}
	return rows, nil
}
