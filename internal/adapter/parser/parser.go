// Package parser turns uploaded statement files into header-keyed rows.
package parser

import (
	"strings"

	"github.com/iho/statementrecon/internal/domain"
)

// Supported formats
const (
	FormatDelimited   = "delimited"
	FormatSpreadsheet = "spreadsheet"
	FormatPDF         = "pdf"
)

var formatsByExt = map[string]string{
	"csv":  FormatDelimited,
	"tsv":  FormatDelimited,
	"txt":  FormatDelimited,
	"xlsx": FormatSpreadsheet,
	"xls":  FormatSpreadsheet,
	"pdf":  FormatPDF,
}

// Format returns the parser family for a file extension. The extension may
// carry a leading dot and any case.
func Format(ext string) (string, bool) {
	f, ok := formatsByExt[strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))]
	return f, ok
}

// Parser dispatches uploads to the format-specific readers.
type Parser struct{}

// New creates a new Parser
func New() *Parser {
	return &Parser{}
}

// Parse reads data according to ext. A file either parses completely or
// fails with a *domain.ParseError.
func (p *Parser) Parse(data []byte, ext string) ([]*domain.RawRow, error) {
	format, ok := Format(ext)
	if !ok {
		return nil, domain.NewParseError(domain.ErrUnsupportedFormat, "extension %q", ext)
	}

	switch format {
	case FormatSpreadsheet:
		return ParseSpreadsheet(data)
	case FormatPDF:
		return ParsePDF(data)
	default:
		return ParseDelimited(data)
	}
}

// buildRow zips a record onto the kept header columns, padding short
// records with empty strings and ignoring extra fields.
func buildRow(headers []string, keep []int, record []string) *domain.RawRow {
	row := domain.NewRawRow()
	for i, col := range keep {
		v := ""
		if col < len(record) {
			v = record[col]
		}
		row.Set(headers[i], v)
	}
	return row
}

// headerColumns trims headers and returns the non-blank ones along with
// their column indexes.
func headerColumns(raw []string) ([]string, []int) {
	headers := make([]string, 0, len(raw))
	keep := make([]int, 0, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		headers = append(headers, h)
		keep = append(keep, i)
	}
	return headers, keep
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
