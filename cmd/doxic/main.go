package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/doxic/cmd/doxic/commands"
	"git.home.luguber.info/inful/doxic/internal/foundation/errors"
	"git.home.luguber.info/inful/doxic/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("doxic"),
		kong.Description("Literate-programming documentation generator."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Generator()},
	)

	global := &commands.Global{Logger: slog.Default(), Out: os.Stdout, Level: cli.Level()}
	if err := parser.Run(global, cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
