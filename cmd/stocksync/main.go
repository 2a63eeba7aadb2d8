// Command stocksync keeps a local SQLite store of daily stock prices complete
// by fetching only the business days it is missing.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&syncCmd{}, "")
	commander.Register(&serveCmd{}, "")
	commander.Register(&tickersCmd{}, "")
	commander.Register(&showCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
