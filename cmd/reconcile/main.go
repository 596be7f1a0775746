// Command reconcile runs a reconciliation from the terminal: parse a
// statement CSV, match it against the ledger and print the report.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/pennyledger/reconcile-backend/internal/application/service"
	"github.com/pennyledger/reconcile-backend/internal/domain/matcher"
	"github.com/pennyledger/reconcile-backend/internal/domain/report"
	"github.com/pennyledger/reconcile-backend/internal/infrastructure/config"
	"github.com/pennyledger/reconcile-backend/internal/infrastructure/logging"
	"github.com/pennyledger/reconcile-backend/internal/infrastructure/storage"
)

func main() {
	var (
		file     = flag.String("file", "", "Statement CSV to reconcile (required)")
		owner    = flag.String("owner", "", "Owner ID (required)")
		strategy = flag.String("strategy", "", "Matching strategy: deterministic or weighted")
		dbPath   = flag.String("db", "", "Database path (overrides config)")
		asJSON   = flag.Bool("json", false, "Print the raw report as JSON")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if *file == "" || *owner == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg := config.LoadOrEnv()
	if *dbPath != "" {
		cfg.Storage.DatabasePath = *dbPath
	}
	if *verbose {
		cfg.Observability.Logging.Level = slog.LevelDebug.String()
	}

	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "cli")

	content, err := os.ReadFile(*file)
	if err != nil {
		logger.Error("failed to read statement", "file", *file, "error", err)
		os.Exit(1)
	}

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.Storage.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	svc := service.NewReconcileService(store, cfg, logger)

	rep, err := svc.Reconcile(context.Background(), service.ReconcileRequest{
		OwnerID:  *owner,
		FileName: *file,
		Content:  string(content),
		Strategy: matcher.Strategy(*strategy),
	})
	if err != nil {
		logger.Error("reconciliation failed", "error", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			logger.Error("failed to encode report", "error", err)
			os.Exit(1)
		}
		return
	}

	printReport(rep)
}

func printReport(rep *report.Report) {
	fmt.Printf("Statement: %s", rep.StatementPeriod)
	if rep.BankDetected != "" {
		fmt.Printf(" (%s)", rep.BankDetected)
	}
	fmt.Println()
	fmt.Println()

	printBucket("Matched", rep.Matched)
	printBucket("Needs review", rep.NeedsReview)
	printBucket("Unauthorized", rep.Unauthorized)
	printBucket("Missing from bank", rep.Missing)

	fmt.Printf("Totals: %d matched, %d need review, %d unauthorized, %d missing\n",
		len(rep.Matched), len(rep.NeedsReview), len(rep.Unauthorized), len(rep.Missing))
}

func printBucket(title string, entries []report.Entry) {
	if len(entries) == 0 {
		return
	}

	fmt.Printf("%s (%d):\n", title, len(entries))
	for _, e := range entries {
		fmt.Printf("  %s  %-32s  $%.2f  %d%%  %s\n",
			e.Date, e.Merchant, e.Amount, int(e.Confidence*100), e.Notes)
	}
	fmt.Println()
}
