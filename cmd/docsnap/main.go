package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsnap/cmd/docsnap/commands"
	"git.home.luguber.info/inful/docsnap/internal/foundation/errors"
	"git.home.luguber.info/inful/docsnap/internal/version"
)

func main() {
	var cli commands.CLI
	parser := kong.Parse(&cli,
		kong.Name("docsnap"),
		kong.Description("Freeze versioned snapshots of a documentation site."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := parser.Run(&commands.Global{Context: ctx, Out: os.Stdout}, &cli)
	cancel()

	os.Exit(errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Handle(err))
}
