package commands

import (
	"fmt"
	"time"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/docsnap/internal/releasenotes"
)

// NotesCmd groups the release notes subcommands.
type NotesCmd struct {
	Add    NotesAddCmd    `cmd:"" help:"Append a release entry and re-render the page"`
	Render NotesRenderCmd `cmd:"" help:"Re-render the release notes page"`
}

// NotesAddCmd implements 'notes add'.
type NotesAddCmd struct {
	Version      string   `arg:"" help:"Release version"`
	Date         string   `help:"Release date (YYYY-MM-DD, defaults to today)"`
	Highlights   []string `name:"highlight" sep:"none" help:"Highlight (repeatable)"`
	Breaking     []string `name:"breaking" sep:"none" help:"Breaking change (repeatable)"`
	Enhancements []string `name:"enhancement" sep:"none" help:"Enhancement (repeatable)"`
	Fixes        []string `name:"fix" sep:"none" help:"Fix (repeatable)"`
}

func (c *NotesAddCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	fsys := afero.NewOsFs()
	file := cfg.Resolve(cfg.ReleaseNotes.File)

	log, err := releasenotes.Load(g.ctx(), fsys, file)
	if err != nil {
		return err
	}
	date := c.Date
	if date == "" {
		date = time.Now().Format(releasenotes.DateLayout)
	}
	if err := log.Append(releasenotes.Entry{
		Version:      c.Version,
		Date:         date,
		Highlights:   c.Highlights,
		Breaking:     c.Breaking,
		Enhancements: c.Enhancements,
		Fixes:        c.Fixes,
	}); err != nil {
		return err
	}
	if err := releasenotes.Save(g.ctx(), fsys, file, log); err != nil {
		return err
	}

	page := cfg.Resolve(cfg.ReleaseNotes.Page)
	if err := releasenotes.WritePage(g.ctx(), fsys, page, cfg.ReleaseNotes.Title, log); err != nil {
		return err
	}
	fmt.Fprintf(g.Out, "Added release notes for %s (%s)\n", c.Version, date)
	return nil
}

// NotesRenderCmd implements 'notes render'.
type NotesRenderCmd struct{}

func (c *NotesRenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	fsys := afero.NewOsFs()
	log, err := releasenotes.Load(g.ctx(), fsys, cfg.Resolve(cfg.ReleaseNotes.File))
	if err != nil {
		return err
	}
	page := cfg.Resolve(cfg.ReleaseNotes.Page)
	if err := releasenotes.WritePage(g.ctx(), fsys, page, cfg.ReleaseNotes.Title, log); err != nil {
		return err
	}
	fmt.Fprintf(g.Out, "Rendered %d releases to %s\n", len(log.Entries), page)
	return nil
}
