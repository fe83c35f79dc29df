package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"git.home.luguber.info/inful/docsnap/internal/releasenotes"
	"git.home.luguber.info/inful/docsnap/internal/versioning"
)

// VersionDocsCmd implements the 'version-docs' command.
type VersionDocsCmd struct {
	Label     string `arg:"" help:"Version label, e.g. 1.2.0"`
	DryRun    bool   `help:"Report what would be copied without writing anything"`
	Tag       bool   `help:"Create a git tag for the snapshot (also enabled by snapshot.tag.enabled)"`
	NotesPage bool   `name:"notes-page" help:"Re-render the release notes page before freezing the docs"`
	JSON      bool   `help:"Print the result as JSON"`
}

func (c *VersionDocsCmd) Run(g *Global, root *CLI) error {
	e, err := root.openEnv(g.ctx())
	if err != nil {
		return err
	}
	defer e.Close()

	opts := versioning.CutOptions{
		DryRun: c.DryRun,
		Tag:    c.Tag || e.cfg.Snapshot.Tag.Enabled,
	}
	if c.NotesPage {
		opts.BeforeCopy = func(ctx context.Context) error { return renderNotes(ctx, e) }
	}

	res, err := e.manager.CutVersion(g.ctx(), c.Label, opts)
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(g.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	if res.DryRun {
		fmt.Fprintf(g.Out, "Dry run: would snapshot %d pages (%d bytes) into %s\n", res.Stats.Files, res.Stats.Bytes, res.SnapshotDir)
		fmt.Fprintf(g.Out, "Sidebar would be frozen as %s\n", res.SidebarPath)
	} else {
		fmt.Fprintf(g.Out, "Created version %s: %d pages (%d bytes)\n", res.Label, res.Stats.Files, res.Stats.Bytes)
		fmt.Fprintf(g.Out, "  docs:    %s\n", res.SnapshotDir)
		fmt.Fprintf(g.Out, "  sidebar: %s\n", res.SidebarPath)
		if res.Tag != "" {
			fmt.Fprintf(g.Out, "  tag:     %s\n", res.Tag)
		}
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(g.Out, "warning: %s\n", w)
	}
	return nil
}

// renderNotes rewrites the release notes page in the live tree.
func renderNotes(ctx context.Context, e *env) error {
	rn := e.cfg.ReleaseNotes
	log, err := releasenotes.Load(ctx, e.fs, e.cfg.Resolve(rn.File))
	if err != nil {
		return err
	}
	return releasenotes.WritePage(ctx, e.fs, e.cfg.Resolve(rn.Page), rn.Title, log)
}
