package parser

import (
	"bytes"

	"github.com/xuri/excelize/v2"

	"github.com/iho/statementrecon/internal/domain"
)

// ParseSpreadsheet reads the first sheet of a workbook. Row 0 holds the
// headers. GetRows trims trailing empty cells, so shorter rows are padded;
// rows with values past the last header column are dropped.
func ParseSpreadsheet(data []byte) ([]*domain.RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, domain.NewParseError(domain.ErrUnsupportedFormat, "open workbook: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	grid, err := f.GetRows(sheet)
	if err != nil {
		return nil, domain.NewParseError(domain.ErrUnsupportedFormat, "read sheet %q: %v", sheet, err)
	}
	if len(grid) == 0 {
		return nil, domain.NewParseError(domain.ErrEmptyFile, "sheet %q is empty", sheet)
	}

	headers, keep := headerColumns(grid[0])
	if len(headers) == 0 {
		return nil, domain.NewParseError(domain.ErrNoHeaders, "sheet %q has a blank header row", sheet)
	}

	width := keep[len(keep)-1] + 1
	var rows []*domain.RawRow
	for _, record := range grid[1:] {
		if overWide(record, width) || isBlank(record) {
			continue
		}
		rows = append(rows, buildRow(headers, keep, record))
	}

	if len(rows) == 0 {
		return nil, domain.NewParseError(domain.ErrEmptyFile, "sheet %q has no usable data rows", sheet)
	}
	return rows, nil
}

func overWide(record []string, width int) bool {
	return len(record) > width && !isBlank(record[width:])
}
