package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/subcommands"

	"StockSync/internal/calculator"
)

type showCmd struct {
	limit int
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "prints the stored prices of a ticker" }
func (*showCmd) Usage() string {
	return `stocksync show [-n N] TICKER

Prints the stored daily rows of TICKER, newest first.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 20, "Maximum number of rows, 0 for all")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one TICKER is required")
		return subcommands.ExitUsageError
	}
	ticker := strings.TrimSpace(f.Arg(0))

	cfg, err := loadConfig()
	if err != nil {
		log.Printf("[ERROR] %v", err)
		return subcommands.ExitFailure
	}
	rec, err := openRecorder(ctx, cfg)
	if err != nil {
		log.Printf("[ERROR] open database: %v", err)
		return subcommands.ExitFailure
	}
	defer rec.Close()

	records, err := rec.Prices(ctx, ticker)
	if err != nil {
		log.Printf("[ERROR] read prices: %v", err)
		return subcommands.ExitFailure
	}
	if len(records) == 0 {
		fmt.Printf("no prices stored for %s\n", ticker)
		return subcommands.ExitSuccess
	}
	if sum := calculator.Summarize(records); sum != nil {
		printSummary(ticker, sum)
	}
	if c.limit > 0 && len(records) > c.limit {
		records = records[:c.limit]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "date\topen\thigh\tlow\tclose\tadj close\tvolume\t")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%d\t\n", r.Date, r.Open, r.High, r.Low, r.Close, r.AdjClose, r.Volume)
	}
	if err := w.Flush(); err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func printSummary(ticker string, s *calculator.Summary) {
	fmt.Printf("%s: %d days %s to %s, last close %.2f\n", ticker, s.Days, s.First, s.Last, s.LastClose)
	fmt.Printf("52w range %.2f - %.2f (position %.0f%%)", s.Low52w, s.High52w, s.Position52*100)
	if s.SMA20 != nil {
		fmt.Printf(", SMA20 %.2f", *s.SMA20)
	}
	if s.SMA200 != nil {
		fmt.Printf(", SMA200 %.2f", *s.SMA200)
	}
	if s.RSI14 != nil {
		fmt.Printf(", RSI14 %.0f", *s.RSI14)
	}
	fmt.Print("\n\n")
}
