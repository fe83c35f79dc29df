package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/docsnap/internal/eventstore"
	"git.home.luguber.info/inful/docsnap/internal/logfields"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Label string `arg:"" optional:"" help:"Only show events for this label"`
	JSON  bool   `help:"Print events as JSON"`
}

func (c *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close audit history", logfields.Error(err))
		}
	}()

	var events []eventstore.Event
	if c.Label != "" {
		events, err = store.ForLabel(g.ctx(), c.Label)
	} else {
		events, err = store.All(g.ctx())
	}
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(g.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	}
	if len(events) == 0 {
		fmt.Fprintln(g.Out, "No history")
		return nil
	}
	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tACTION\tLABEL\tPAGES\tCOMMIT")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", e.Timestamp.Local().Format(time.RFC3339), e.Action, e.Label, e.Pages, short(e.CommitSHA))
	}
	return tw.Flush()
}

func short(sha string) string {
	if len(sha) > 12 {
		return sha[:12]
	}
	if sha == "" {
		return "-"
	}
	return sha
}
