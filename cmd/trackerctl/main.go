// Command trackerctl runs maintenance tasks against the tracker database:
// bulk loading insider filings, running the performance update and preparing
// the authentication settings.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&importCmd{}, "data")
	commander.Register(&updateCmd{}, "data")
	commander.Register(&hashPasswordCmd{}, "auth")
	commander.Register(&genKeyCmd{}, "auth")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
