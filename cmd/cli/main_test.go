package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iho/statementrecon/internal/adapter/http/dto"
)

const ledgerExport = `transaction_id,transaction_date,account_number,description,debit_amount,credit_amount,balance
T1,2025-10-01,ACC-1,Opening payment,100.00,0.00,900.00
T2,2025-10-02,ACC-1,Card refund,0.00,20.00,920.00
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := printJSON(&buf, struct {
		A int `json:"a"`
	}{A: 1}); err != nil {
		t.Fatalf("printJSON failed: %v", err)
	}

	expected := "{\n  \"a\": 1\n}\n"
	if buf.String() != expected {
		t.Fatalf("unexpected json output:\n%s", buf.String())
	}
}

func TestLedgerImportThenReconcile(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "ledger.db")
	export := writeFile(t, dir, "ledger.csv", ledgerExport)

	out, err := runCLI(t, "ledger", "import", "--file", export, "--ledger-db", db)
	if err != nil {
		t.Fatalf("ledger import failed: %v", err)
	}
	if !strings.Contains(out, "Imported 2 ledger transactions") {
		t.Fatalf("unexpected import output: %q", out)
	}

	out, err = runCLI(t, "ledger", "list", "--ledger-db", db, "--start", "2025-10-02", "--end", "2025-10-31")
	if err != nil {
		t.Fatalf("ledger list failed: %v", err)
	}
	if !strings.Contains(out, "T2") || strings.Contains(out, "Opening payment") {
		t.Fatalf("expected only T2 in the period, got:\n%s", out)
	}
	if !strings.Contains(out, "1 of 2 transactions (2025-10-02..2025-10-31)") {
		t.Fatalf("expected period and ledger totals, got:\n%s", out)
	}

	statement := writeFile(t, dir, "statement.csv", "transaction_id,transaction_date,debit_amount,credit_amount\nT1,2025-10-01,100.00,0.00\nT9,2025-10-03,5.00,0.00\n")
	out, err = runCLI(t, "reconcile", "--file", statement, "--ledger-db", db, "--output", "json")
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}

	var report dto.ReportResponse
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("failed to decode report: %v\n%s", err, out)
	}
	if report.Summary.Matched != 1 || report.Summary.DocumentOnly != 1 || report.Summary.LedgerOnly != 1 {
		t.Fatalf("unexpected summary: %+v", report.Summary)
	}
	if report.ID == "" {
		t.Fatalf("expected a report id")
	}
}

func TestReconcileTextOutput(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "ledger.db")
	export := writeFile(t, dir, "ledger.csv", ledgerExport)
	if _, err := runCLI(t, "ledger", "import", "--file", export, "--ledger-db", db); err != nil {
		t.Fatalf("ledger import failed: %v", err)
	}

	statement := writeFile(t, dir, "october.csv", "id,date,debit,credit\nT1,01/10/2025,95.00,0\n")
	out, err := runCLI(t, "reconcile", "--file", statement, "--ledger-db", db,
		"--mode", "by_period", "--start", "2025-10-01", "--end", "2025-10-01")
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if !strings.Contains(out, "Period:          2025-10-01 .. 2025-10-01") {
		t.Fatalf("expected period line, got:\n%s", out)
	}
	if !strings.Contains(out, "Status:          Out of Balance") {
		t.Fatalf("expected out of balance status, got:\n%s", out)
	}
}

func TestReconcileRejectsInvalidMode(t *testing.T) {
	dir := t.TempDir()
	statement := writeFile(t, dir, "s.csv", "id,amount\nT1,1\n")

	_, err := runCLI(t, "reconcile", "--file", statement, "--ledger-db", filepath.Join(dir, "l.db"), "--mode", "fuzzy")
	if err == nil || !strings.Contains(err.Error(), "invalid reconciliation mode") {
		t.Fatalf("expected invalid mode error, got %v", err)
	}
}

func TestReportGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/reconciliations/01JREPORT" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"report lookup failed"}`))
			return
		}
		if r.URL.Query().Get("discrepancies_only") != "true" {
			t.Errorf("expected discrepancies_only filter to be forwarded")
		}
		w.Write([]byte(`{"id":"01JREPORT"}`))
	}))
	defer srv.Close()

	out, err := runCLI(t, "report", "get", "01JREPORT", "--url", srv.URL, "--discrepancies-only")
	if err != nil {
		t.Fatalf("report get failed: %v", err)
	}
	if out != `{"id":"01JREPORT"}` {
		t.Fatalf("unexpected output: %q", out)
	}

	if _, err := runCLI(t, "report", "get", "missing", "--url", srv.URL); err == nil {
		t.Fatalf("expected an error for a missing report")
	}
}

func TestReconcileFailOnDiscrepancy(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "ledger.db")
	export := writeFile(t, dir, "ledger.csv", ledgerExport)
	if _, err := runCLI(t, "ledger", "import", "--file", export, "--ledger-db", db); err != nil {
		t.Fatalf("ledger import failed: %v", err)
	}

	balanced := writeFile(t, dir, "balanced.csv", "transaction_id,transaction_date,debit_amount,credit_amount\nT1,2025-10-01,100.00,0.00\nT2,2025-10-02,0.00,20.00\n")
	if _, err := runCLI(t, "reconcile", "--file", balanced, "--ledger-db", db, "--fail-on-discrepancy"); err != nil {
		t.Fatalf("expected balanced statement to pass, got %v", err)
	}

	short := writeFile(t, dir, "short.csv", "transaction_id,transaction_date,debit_amount,credit_amount\nT1,2025-10-01,100.00,0.00\n")
	_, err := runCLI(t, "reconcile", "--file", short, "--ledger-db", db, "--fail-on-discrepancy")
	if err == nil || !strings.Contains(err.Error(), "Out of Balance") {
		t.Fatalf("expected out of balance error, got %v", err)
	}
}

func TestMigrateRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	for _, sub := range []string{"up", "down"} {
		_, err := runCLI(t, "migrate", sub)
		if err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
			t.Fatalf("migrate %s: expected missing url error, got %v", sub, err)
		}
	}
}
