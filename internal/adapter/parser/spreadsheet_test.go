package parser

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/iho/statementrecon/internal/domain"
)

func buildWorkbook(t *testing.T, grid [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range grid {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestParseSpreadsheet(t *testing.T) {
	t.Parallel()

	data := buildWorkbook(t, [][]any{
		{" Transaction ID ", "Date", "Debit", "Credit"},
		{"T1", "2025-10-01", "100.00", "0.00"},
		{"T2", "2025-10-02", "5.00", "0.00", "stray"},
		{"T3", "2025-10-03", "0.00", "42.50"},
	})

	rows, err := ParseSpreadsheet(data)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected the over-wide row to be dropped, got %d rows", len(rows))
	}
	if v, ok := rows[0].Get("Transaction ID"); !ok || v != "T1" {
		t.Fatalf("expected trimmed header, got %v", rows[0].Keys())
	}
	if v, _ := rows[1].Get("Credit"); v != "42.50" {
		t.Fatalf("unexpected credit %q", v)
	}
}

func TestParseSpreadsheetKeepsTrailingBlankCells(t *testing.T) {
	t.Parallel()

	data := buildWorkbook(t, [][]any{
		{"id", "date", "debit", "credit"},
		{"T1", "2025-10-01", "100.00", ""},
		{"T2", "2025-10-02", "0.00", "5.00"},
	})

	rows, err := ParseSpreadsheet(data)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected both rows, got %d", len(rows))
	}
	if v, _ := rows[0].Get("id"); v != "T1" {
		t.Fatalf("expected T1 first, got %q", v)
	}
	if v, ok := rows[0].Get("credit"); !ok || v != "" {
		t.Fatalf("expected padded empty credit, got %q (present %v)", v, ok)
	}
	if v, _ := rows[0].Get("debit"); v != "100.00" {
		t.Fatalf("unexpected debit %q", v)
	}
}

func TestParseSpreadsheetErrors(t *testing.T) {
	t.Parallel()

	if _, err := ParseSpreadsheet([]byte("not a workbook")); !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}

	headerOnly := buildWorkbook(t, [][]any{{"id", "date", "amount"}})
	if _, err := ParseSpreadsheet(headerOnly); !errors.Is(err, domain.ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}

	empty := buildWorkbook(t, nil)
	if _, err := ParseSpreadsheet(empty); !errors.Is(err, domain.ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile for empty sheet, got %v", err)
	}
}

func TestParserDispatchSpreadsheet(t *testing.T) {
	t.Parallel()

	data := buildWorkbook(t, [][]any{{"id", "amount"}, {"T1", "1.00"}})
	rows, err := New().Parse(data, "xlsx")
	if err != nil || len(rows) != 1 {
		t.Fatalf("expected one row, got %d, err %v", len(rows), err)
	}
}
