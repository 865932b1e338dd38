package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"

	"github.com/iho/statementrecon/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectDelimiter picks tab when the first line holds strictly more tabs
// than commas, comma otherwise.
func DetectDelimiter(data []byte) rune {
	first := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		first = data[:i]
	}
	if bytes.Count(first, []byte{'\t'}) > bytes.Count(first, []byte{','}) {
		return '\t'
	}
	return ','
}

// ParseDelimited reads CSV or TSV data. The first non-empty line is the header.
func ParseDelimited(data []byte) ([]*domain.RawRow, error) {
	delim := DetectDelimiter(data)
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, domain.NewParseError(domain.ErrEmptyFile, "file is empty")
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, domain.NewParseError(domain.ErrNoHeaders, "no header line")
	}
	if err != nil {
		return nil, domain.NewParseError(domain.ErrUnsupportedFormat, "read header: %v", err)
	}

	headers, keep := headerColumns(header)
	if len(headers) == 0 {
		return nil, domain.NewParseError(domain.ErrNoHeaders, "header line is blank")
	}

	var rows []*domain.RawRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domain.NewParseError(domain.ErrUnsupportedFormat, "read row: %v", err)
		}
		if isBlank(record) {
			continue
		}
		rows = append(rows, buildRow(headers, keep, record))
	}

	if len(rows) == 0 {
		return nil, domain.NewParseError(domain.ErrEmptyFile, "no data rows after header")
	}
	return rows, nil
}
