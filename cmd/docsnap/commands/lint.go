package commands

import (
	"fmt"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/docsnap/internal/foundation/errors"
	"git.home.luguber.info/inful/docsnap/internal/lint"
)

// LintCmd implements the 'lint' command.
type LintCmd struct {
	Format string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
}

func (c *LintCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	docsDir := cfg.Resolve(cfg.Paths.Docs)
	l := lint.NewLinter(afero.NewOsFs(), docsDir, cfg.Resolve(cfg.Paths.Sidebar))
	return runLint(g, l, docsDir, c.Format)
}

func runLint(g *Global, l *lint.Linter, docsDir, format string) error {
	result, err := l.Lint()
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "lint documentation").
			WithContext("path", docsDir).
			Build()
	}

	var formatter lint.Formatter = &lint.TextFormatter{}
	if format == "json" {
		formatter = &lint.JSONFormatter{}
	}
	if err := formatter.Format(g.Out, result, docsDir); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if result.HasErrors() {
		return errors.WrapError(result.Err(), errors.CategoryValidation,
			fmt.Sprintf("lint found %d errors", result.ErrorCount())).
			Build()
	}
	return nil
}
