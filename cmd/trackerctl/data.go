package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/importer"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/logging"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/model"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/service"
	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/yahoo"
)

// --- importCmd ---

type importCmd struct {
	dbPath string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "load insider filings from CSV or XLSX exports" }
func (*importCmd) Usage() string {
	return `trackerctl import [-db <path>] <file> [<file>...]

  Loads each screener export into insider_trades. Files ending in .xlsx are read
  as spreadsheets, everything else as CSV. Rows already present are skipped.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dbPath, "db", "", "Database file. Defaults to DB_PATH.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one file is required.")
		return subcommands.ExitUsageError
	}

	a, err := openApp(c.dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	svc := service.NewInsiderService(
		a.db,
		repository.NewInsiderTradeRepository(a.db),
		repository.NewPerformanceRepository(a.db),
	)

	var total model.ImportResult
	for _, name := range f.Args() {
		ctx := logging.WithLogger(ctx, a.logger.WithField("file", name))
		result, err := importFile(ctx, svc, name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", name, err)
			return subcommands.ExitFailure
		}
		total.Read += result.Read
		total.Inserted += result.Inserted
		total.Duplicates += result.Duplicates
		total.Rejected += result.Rejected
	}

	fmt.Printf("read %s rows: %s inserted, %s duplicates, %s rejected\n",
		humanize.Comma(int64(total.Read)),
		humanize.Comma(int64(total.Inserted)),
		humanize.Comma(int64(total.Duplicates)),
		humanize.Comma(int64(total.Rejected)),
	)
	return subcommands.ExitSuccess
}

func importFile(ctx context.Context, svc *service.InsiderService, name string) (model.ImportResult, error) {
	file, err := os.Open(name)
	if err != nil {
		return model.ImportResult{}, err
	}
	defer file.Close()

	return svc.ImportInsiderTrades(ctx, file, importer.FormatFromName(name))
}

// --- updateCmd ---

type updateCmd struct {
	dbPath string
	policy string
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "run the bulk performance update once" }
func (*updateCmd) Usage() string {
	return `trackerctl update [-db <path>] [-policy incomplete|all]

  Fetches due snapshot prices for every personal trade and prints a summary.
  Exits non-zero when any trade failed.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dbPath, "db", "", "Database file. Defaults to DB_PATH.")
	f.StringVar(&c.policy, "policy", "", "Update policy. Defaults to PERFORMANCE_UPDATE_POLICY.")
}

func (c *updateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	a, err := openApp(c.dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	policy := model.UpdatePolicy(a.cfg.Updater.Policy)
	if c.policy != "" {
		policy = model.UpdatePolicy(c.policy)
	}
	if !model.ValidUpdatePolicies[policy] {
		fmt.Fprintf(os.Stderr, "Error: unknown policy %q\n", policy)
		return subcommands.ExitUsageError
	}

	priceService := service.NewPriceService(
		repository.NewPriceRepository(a.db),
		yahoo.NewFinanceClient(a.cfg.Prices.BaseURL, a.cfg.Prices.HTTPTimeout),
	)
	updater := service.NewPerformanceUpdater(
		repository.NewPerformanceRepository(a.db),
		priceService,
		a.cfg.Updater.Concurrency,
		a.cfg.Updater.Timeout,
	)

	ctx = logging.WithLogger(ctx, logrus.NewEntry(a.logger).WithField("trigger", "cli"))
	summary, err := updater.Run(ctx, policy)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("run %s (%s) finished in %s: %d updated, %d skipped, %d failed\n",
		summary.RunID,
		summary.Policy,
		summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond),
		summary.Updated,
		summary.Skipped,
		summary.Failed,
	)
	for reason, n := range summary.Reasons {
		fmt.Printf("  %-22s %d\n", reason, n)
	}

	if summary.Failed > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
