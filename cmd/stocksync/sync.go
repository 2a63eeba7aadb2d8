package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/subcommands"

	"StockSync/internal/date"
	"StockSync/internal/pipeline"
	"StockSync/internal/recorder"
)

type syncCmd struct {
	from, to string
	dryRun   bool
}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "fetches the missing business days of every ticker" }
func (*syncCmd) Usage() string {
	return `stocksync sync [-from YYYY-MM-DD] [-to YYYY-MM-DD] [-dry-run] [TICKER...]

Compares the stored dates of each ticker with the business days (Mon-Fri)
of the sync range and fetches the missing ones with a single provider
request per ticker. Rows already stored are never rewritten.

Tickers default to sync.tickers in the config file. The range defaults to
sync.start_date and sync.end_date (today when unset).

With -dry-run the rows are kept in memory and nothing is written.
`
}

func (c *syncCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First date of the range, overrides sync.start_date")
	f.StringVar(&c.to, "to", "", "Last date of the range, overrides sync.end_date")
	f.BoolVar(&c.dryRun, "dry-run", false, "Use an in-memory store instead of SQLite")
}

func (c *syncCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		log.Printf("[ERROR] %v", err)
		return subcommands.ExitFailure
	}

	tickers := cfg.Sync.Tickers
	if f.NArg() > 0 {
		tickers = tickerArgs(f.Args())
	}

	var store pipeline.Store
	if c.dryRun {
		store = recorder.NewMemoryRecorder()
	} else {
		rec, err := openRecorder(ctx, cfg)
		if err != nil {
			log.Printf("[ERROR] open database: %v", err)
			return subcommands.ExitFailure
		}
		defer rec.Close()
		store = rec
	}

	runner, err := newRunner(cfg, store)
	if err != nil {
		log.Printf("[ERROR] %v", err)
		return subcommands.ExitFailure
	}
	if err := c.applyRange(runner); err != nil {
		log.Printf("[ERROR] %v", err)
		return subcommands.ExitUsageError
	}

	report, err := runner.Run(ctx, tickers)
	if report != nil {
		fmt.Fprint(os.Stdout, pipeline.FormatReport(report))
	}
	if err != nil {
		log.Printf("[ERROR] sync: %s", strings.ReplaceAll(err.Error(), "\n", "; "))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// tickerArgs trims the command-line symbols and keeps their case.
func tickerArgs(args []string) []string {
	var out []string
	for _, arg := range args {
		if t := strings.TrimSpace(arg); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (c *syncCmd) applyRange(r *pipeline.Runner) error {
	if c.from != "" {
		d, err := date.Parse(c.from)
		if err != nil {
			return fmt.Errorf("-from: %w", err)
		}
		r.Range.From = d
	}
	if c.to != "" {
		d, err := date.Parse(c.to)
		if err != nil {
			return fmt.Errorf("-to: %w", err)
		}
		r.Range.To = d
	}
	return nil
}
