package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/statementrecon/internal/adapter/http/dto"
	"github.com/iho/statementrecon/internal/adapter/parser"
	postgresRepo "github.com/iho/statementrecon/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/statementrecon/internal/adapter/repository/redis"
	sqliteRepo "github.com/iho/statementrecon/internal/adapter/repository/sqlite"
	"github.com/iho/statementrecon/internal/domain"
	"github.com/iho/statementrecon/internal/infrastructure/config"
	appLogger "github.com/iho/statementrecon/internal/infrastructure/logger"
	"github.com/iho/statementrecon/internal/infrastructure/postgres"
	"github.com/iho/statementrecon/internal/infrastructure/redis"
	"github.com/iho/statementrecon/internal/usecase"
)

func cliLogger(cmd *cobra.Command) zerolog.Logger {
	return appLogger.New(appLogger.Config{Level: logLevel, Format: "console", Output: cmd.ErrOrStderr()})
}

func openLedger() (*sql.DB, error) {
	db, err := sqliteRepo.InitDB(ledgerDB)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", ledgerDB, err)
	}
	return db, nil
}

func reconcileCmd() *cobra.Command {
	var (
		file              string
		mode              string
		start             string
		end               string
		synonymsFile      string
		output            string
		discrepanciesOnly bool
		failOnDiscrepancy bool
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile a statement file against the local ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}

			input, err := dto.ReconcileRequest{Mode: mode, StartDate: start, EndDate: end}.ToUseCaseInput(data, file)
			if err != nil {
				return err
			}

			synonyms, err := config.LoadFieldSynonyms(synonymsFile)
			if err != nil {
				return err
			}

			db, err := openLedger()
			if err != nil {
				return err
			}
			defer db.Close()

			logger := cliLogger(cmd)
			uc := usecase.NewReconciliationUseCase(
				parser.New(),
				domain.NewFieldResolver(synonyms),
				sqliteRepo.NewLedgerRepository(db, logger),
				sqliteRepo.NewReportRepository(db),
				postgresRepo.NewULIDGenerator(),
				nil,
				logger,
			)

			report, err := uc.ReconcileUpload(cmd.Context(), input)
			if err != nil {
				return err
			}

			resp := dto.ReportFromDomain(report, discrepanciesOnly)
			if output == "json" {
				err = printJSON(cmd.OutOrStdout(), resp)
			} else {
				err = printReport(cmd.OutOrStdout(), resp)
			}
			if err != nil {
				return err
			}

			if failOnDiscrepancy && !report.InBalance() {
				return fmt.Errorf("report %s: %s", report.ID, report.BalanceStatus)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Statement file (csv, tsv, txt, xlsx, xls, pdf)")
	cmd.Flags().StringVar(&mode, "mode", string(domain.ModeByTransactionID), "Reconciliation mode: by_transaction_id or by_period")
	cmd.Flags().StringVar(&start, "start", "", "Period start date (by_period)")
	cmd.Flags().StringVar(&end, "end", "", "Period end date (by_period)")
	cmd.Flags().StringVar(&synonymsFile, "synonyms", "", "YAML file with extra column synonyms")
	cmd.Flags().StringVar(&output, "output", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&discrepanciesOnly, "discrepancies-only", false, "Only list records with discrepancies")
	cmd.Flags().BoolVar(&failOnDiscrepancy, "fail-on-discrepancy", false, "Exit non-zero when the statement is out of balance")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Local ledger operations",
	}
	cmd.AddCommand(ledgerImportCmd())
	cmd.AddCommand(ledgerListCmd())
	return cmd
}

func ledgerImportCmd() *cobra.Command {
	var file, databaseURL, redisURL string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a ledger export into the local ledger or a PostgreSQL ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}

			logger := cliLogger(cmd)
			if databaseURL != "" {
				return importPostgres(cmd, data, filepath.Ext(file), databaseURL, redisURL, logger)
			}

			db, err := openLedger()
			if err != nil {
				return err
			}
			defer db.Close()

			repo := sqliteRepo.NewLedgerRepository(db, logger)
			uc := usecase.NewLedgerUseCase(repo, repo, parser.New(), nil)

			n, err := uc.ImportFile(cmd.Context(), data, filepath.Ext(file))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d ledger transactions into %s\n", n, ledgerDB)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Ledger export file")
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "Import into this PostgreSQL ledger instead of the local one")
	cmd.Flags().StringVar(&redisURL, "redis-url", "", "Redis holding cached ledger snapshots to invalidate after import")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func importPostgres(cmd *cobra.Command, data []byte, ext, databaseURL, redisURL string, logger zerolog.Logger) error {
	ctx := cmd.Context()

	pool, err := postgres.NewPool(ctx, databaseURL, 4, 0)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := postgresRepo.NewLedgerRepository(pool, logger)
	uc := usecase.NewLedgerUseCase(repo, repo, parser.New(), nil)

	n, err := uc.ImportFile(ctx, data, ext)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d ledger transactions into PostgreSQL\n", n)

	if redisURL == "" {
		return nil
	}

	client, err := redis.NewClient(ctx, redisURL)
	if err != nil {
		return err
	}
	defer client.Close()

	// Period snapshots expire on their own TTL.
	cached := redisRepo.NewCachedLedger(repo, redisRepo.NewCache(client), 0, logger)
	if err := cached.Invalidate(ctx, nil); err != nil {
		return fmt.Errorf("invalidate ledger cache: %w", err)
	}
	return nil
}

func ledgerListCmd() *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List local ledger transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := domain.NewPeriod(start, end)
			if err != nil {
				return err
			}

			db, err := openLedger()
			if err != nil {
				return err
			}
			defer db.Close()

			repo := sqliteRepo.NewLedgerRepository(db, cliLogger(cmd))
			records, err := usecase.NewLedgerUseCase(repo, nil, nil, nil).Snapshot(cmd.Context(), period)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tACCOUNT\tDEBIT\tCREDIT\tDESCRIPTION")
			for _, rec := range records {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					rec.TransactionID, rec.DateString(), rec.AccountNumber,
					domain.FormatAmount(rec.DebitAmount), domain.FormatAmount(rec.CreditAmount),
					truncate(rec.Description, 40))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			total, err := repo.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d transactions (%s)\n", len(records), total, period)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Period start date")
	cmd.Flags().StringVar(&end, "end", "", "Period end date")

	return cmd
}

func migrateCmd() *cobra.Command {
	var databaseURL, migrationsPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the PostgreSQL schema",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	cmd.PersistentFlags().StringVar(&migrationsPath, "migrations", "migrations", "Path to the migrations directory")

	requireURL := func() error {
		if databaseURL == "" {
			return fmt.Errorf("--database-url or DATABASE_URL is required")
		}
		return nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireURL(); err != nil {
				return err
			}
			return postgres.RunMigrations(databaseURL, migrationsPath, cliLogger(cmd))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireURL(); err != nil {
				return err
			}
			return postgres.RunMigrationsDown(databaseURL, migrationsPath, cliLogger(cmd))
		},
	})

	return cmd
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Stored report operations",
	}

	var discrepanciesOnly bool
	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch a stored report from the API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := fetchReport(cmd.Context(), args[0], discrepanciesOnly)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(body)
			return err
		},
	}
	getCmd.Flags().BoolVar(&discrepanciesOnly, "discrepancies-only", false, "Only list records with discrepancies")

	cmd.AddCommand(getCmd)
	return cmd
}

func fetchReport(ctx context.Context, id string, discrepanciesOnly bool) ([]byte, error) {
	endpoint := baseURL + "/api/v1/reconciliations/" + url.PathEscape(id)
	if discrepanciesOnly {
		endpoint += "?discrepancies_only=true"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request report: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("report %s: status %d: %s", id, resp.StatusCode, body)
	}
	return body, nil
}

func printReport(w io.Writer, r *dto.ReportResponse) error {
	s := r.Summary
	fmt.Fprintf(w, "Report %s (%s)\n", r.ID, r.Mode)
	if r.Period != nil {
		fmt.Fprintf(w, "Period:          %s .. %s\n", r.Period.Start, r.Period.End)
	}
	fmt.Fprintf(w, "Document rows:   %d\n", s.TotalDocumentRecords)
	fmt.Fprintf(w, "Ledger rows:     %d\n", s.TotalLedgerRecords)
	fmt.Fprintf(w, "Matched:         %d\n", s.Matched)
	fmt.Fprintf(w, "Only in file:    %d\n", s.DocumentOnly)
	fmt.Fprintf(w, "Only in ledger:  %d\n", s.LedgerOnly)
	fmt.Fprintf(w, "Discrepancies:   %d (critical %d, high %d, medium %d, low %d)\n",
		s.Discrepancies, s.Severity.Critical, s.Severity.High, s.Severity.Medium, s.Severity.Low)
	fmt.Fprintf(w, "Net variance:    %s\n", s.NetVariance)
	fmt.Fprintf(w, "Status:          %s\n\n", s.BalanceStatus)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TRANSACTION\tSTATUS\tISSUES\tDOCUMENT NET\tLEDGER NET")
	for _, rec := range r.Records {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			truncate(rec.TransactionID, 32), rec.Status, rec.DiscrepancyCount, rec.DocumentNet, rec.LedgerNet)
	}
	return tw.Flush()
}
