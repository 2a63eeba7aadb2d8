package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/subcommands"
)

type tickersCmd struct {
	add string
}

func (*tickersCmd) Name() string     { return "tickers" }
func (*tickersCmd) Synopsis() string { return "lists or extends a user's ticker list" }
func (*tickersCmd) Usage() string {
	return `stocksync tickers [-add TICKER] USER

Prints the tickers saved for USER, one per line. With -add the ticker is
trimmed, upper-cased and saved first; adding an existing ticker is a no-op.
`
}

func (c *tickersCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.add, "add", "", "Ticker to add to the user's list")
}

func (c *tickersCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one USER is required")
		return subcommands.ExitUsageError
	}
	user := f.Arg(0)

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

	if c.add != "" {
		ticker, err := rec.AddUserTicker(ctx, user, c.add)
		if err != nil {
			log.Printf("[ERROR] add ticker: %v", err)
			return subcommands.ExitFailure
		}
		log.Printf("[INFO] %s added for %s", ticker, user)
	}

	tickers, err := rec.UserTickers(ctx, user)
	if err != nil {
		log.Printf("[ERROR] list tickers: %v", err)
		return subcommands.ExitFailure
	}
	for _, t := range tickers {
		fmt.Println(t)
	}
	return subcommands.ExitSuccess
}
