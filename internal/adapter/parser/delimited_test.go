package parser

import (
	"errors"
	"testing"

	"github.com/iho/statementrecon/internal/domain"
)

func TestDetectDelimiter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		want rune
	}{
		{"commas", "a,b,c\n1,2,3", ','},
		{"tabs", "a\tb\tc\n1\t2\t3", '\t'},
		{"more tabs than commas", "a,b\tc\td\n", '\t'},
		{"tie defaults to comma", "a,b\tc\n", ','},
		{"no delimiter", "single\n", ','},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectDelimiter([]byte(tt.data)); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseDelimited(t *testing.T) {
	t.Parallel()

	t.Run("pads and truncates rows", func(t *testing.T) {
		data := "\xEF\xBB\xBFid , date,amount\nT1,2025-10-01\nT2,2025-10-02,5.00,extra\n,,\nT3,2025-10-03,\"1,200.00\"\n"
		rows, err := ParseDelimited([]byte(data))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(rows) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(rows))
		}
		if keys := rows[0].Keys(); len(keys) != 3 || keys[0] != "id" || keys[1] != "date" {
			t.Fatalf("unexpected headers %v", keys)
		}
		if v, _ := rows[0].Get("amount"); v != "" {
			t.Fatalf("expected padded empty amount, got %q", v)
		}
		if rows[1].Len() != 3 {
			t.Fatalf("expected truncated row, got %d columns", rows[1].Len())
		}
		if v, _ := rows[2].Get("amount"); v != "1,200.00" {
			t.Fatalf("expected quoted amount, got %q", v)
		}
	})

	t.Run("tab separated", func(t *testing.T) {
		rows, err := ParseDelimited([]byte("Txn ID\tDate\tAmount\nT1\t01/10/2025\t1,000.00\n"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if v, _ := rows[0].Get("Amount"); v != "1,000.00" {
			t.Fatalf("expected comma kept inside tab-separated value, got %q", v)
		}
	})

	t.Run("blank header columns are skipped", func(t *testing.T) {
		rows, err := ParseDelimited([]byte("id,,amount\nT1,ignored,2.00\n"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if rows[0].Len() != 2 {
			t.Fatalf("expected 2 columns, got %v", rows[0].Keys())
		}
		if v, _ := rows[0].Get("amount"); v != "2.00" {
			t.Fatalf("expected amount to stay aligned, got %q", v)
		}
	})

	t.Run("errors", func(t *testing.T) {
		cases := []struct {
			data string
			want error
		}{
			{"", domain.ErrEmptyFile},
			{"\xEF\xBB\xBF  \n", domain.ErrEmptyFile},
			{" , ,\n1,2,3\n", domain.ErrNoHeaders},
			{"id,date,amount\n", domain.ErrEmptyFile},
			{"id,date,amount\n,,\n", domain.ErrEmptyFile},
		}
		for _, c := range cases {
			_, err := ParseDelimited([]byte(c.data))
			if !errors.Is(err, c.want) {
				t.Fatalf("ParseDelimited(%q): expected %v, got %v", c.data, c.want, err)
			}
			var perr *domain.ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *domain.ParseError, got %T", err)
			}
		}
	})
}

func TestParserDispatch(t *testing.T) {
	t.Parallel()

	p := New()

	rows, err := p.Parse([]byte("id,amount\nT1,1.00\n"), ".CSV")
	if err != nil || len(rows) != 1 {
		t.Fatalf("expected one csv row, got %d rows, err %v", len(rows), err)
	}

	_, err = p.Parse([]byte("whatever"), "docx")
	if !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}

	if f, ok := Format("xls"); !ok || f != FormatSpreadsheet {
		t.Fatalf("unexpected format %q %v", f, ok)
	}
}
