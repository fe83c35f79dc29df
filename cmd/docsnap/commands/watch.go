package commands

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/docsnap/internal/lint"
	"git.home.luguber.info/inful/docsnap/internal/logfields"
	"git.home.luguber.info/inful/docsnap/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Format string `short:"f" default:"text" help:"Lint output format (text or json)" enum:"text,json"`
}

func (c *WatchCmd) Run(g *Global, root *CLI) error {
	e, err := root.openEnv(g.ctx())
	if err != nil {
		return err
	}
	defer e.Close()

	linter := lint.NewLinter(e.fs, e.layout.Docs, e.layout.Sidebar)
	check := func(context.Context, []string) {
		if err := runLint(g, linter, e.layout.Docs, c.Format); err != nil {
			slog.Warn("Lint reported problems", logfields.Error(err))
		}
	}

	w, err := watch.NewWatcher(e.layout.Docs, e.layout.Sidebar, e.cfg.Watch.Debounce, check)
	if err != nil {
		return err
	}

	if interval := e.cfg.Watch.VerifyInterval; interval > 0 {
		sched, err := watch.NewScheduler()
		if err != nil {
			return err
		}
		if _, err := sched.Every(g.ctx(), "verify", interval, func(ctx context.Context) error {
			report, err := e.manager.Verify(ctx)
			if err != nil {
				return err
			}
			return report.Err()
		}); err != nil {
			return err
		}
		sched.Start()
		defer func() {
			if err := sched.Stop(); err != nil {
				slog.Warn("Failed to stop scheduler", logfields.Error(err))
			}
		}()
	}

	check(g.ctx(), nil)
	return w.Run(g.ctx())
}
