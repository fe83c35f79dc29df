// Package commands implements the docsnap command line.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsnap/internal/config"
)

// Global carries process-wide state into every command.
type Global struct {
	Context context.Context
	Out     io.Writer
}

func (g *Global) ctx() context.Context {
	if g.Context == nil {
		return context.Background()
	}
	return g.Context
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docsnap.yaml"`
	Root    string           `help:"Project root (defaults to the directory holding the configuration file)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	VersionDocs VersionDocsCmd `cmd:"" name:"version-docs" help:"Freeze the live docs into a new version snapshot"`
	Register    RegisterCmd    `cmd:"" help:"Append an existing snapshot to the version manifest"`
	List        ListCmd        `cmd:"" help:"List known versions in manifest order"`
	Remove      RemoveCmd      `cmd:"" help:"Delete a snapshot and its manifest entry"`
	Verify      VerifyCmd      `cmd:"" help:"Check snapshots against the version manifest"`
	Lint        LintCmd        `cmd:"" help:"Check the live docs tree and sidebar"`
	Notes       NotesCmd       `cmd:"" help:"Manage the release notes log"`
	History     HistoryCmd     `cmd:"" help:"Show the audit history of snapshot operations"`
	Watch       WatchCmd       `cmd:"" help:"Lint on change and verify periodically"`
	Init        InitCmd        `cmd:"" help:"Write a default configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// configPath is the configuration file location. The default file name is
// looked up inside --root when one is given.
func (c *CLI) configPath() string {
	if c.Root != "" && c.Config == config.DefaultFile {
		return filepath.Join(c.Root, c.Config)
	}
	return c.Config
}

// loadConfig reads the configuration and reconfigures logging from it. An
// absent default configuration file means built-in defaults.
func (c *CLI) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.Config == config.DefaultFile {
		cfg, err = config.LoadOrDefault(c.configPath(), c.Root)
	} else {
		cfg, err = config.Load(c.configPath(), c.Root)
	}
	if err != nil {
		return nil, err
	}
	c.configureLogging(cfg.Logging)
	slog.Debug("Configuration loaded", slog.String("config", cfg.String()))
	return cfg, nil
}

func (c *CLI) configureLogging(lc config.LoggingConfig) {
	level := lc.Level.SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if lc.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
