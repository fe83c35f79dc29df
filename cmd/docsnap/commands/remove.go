package commands

import (
	"fmt"

	"git.home.luguber.info/inful/docsnap/internal/foundation/errors"
)

// RemoveCmd implements the 'remove' command.
type RemoveCmd struct {
	Label string `arg:"" help:"Label to remove"`
	Yes   bool   `short:"y" help:"Confirm removal"`
}

func (c *RemoveCmd) Run(g *Global, root *CLI) error {
	if !c.Yes {
		return errors.ValidationError("removing a version deletes its frozen docs").
			WithContext("label", c.Label).
			UserAction().
			WithContext("hint", "re-run with --yes").
			Build()
	}

	e, err := root.openEnv(g.ctx())
	if err != nil {
		return err
	}
	defer e.Close()

	res, err := e.manager.Remove(g.ctx(), c.Label)
	if err != nil {
		return err
	}
	fmt.Fprintf(g.Out, "Removed version %s (manifest entry: %t, docs: %t, sidebar: %t)\n",
		res.Label, res.ManifestEntry, res.SnapshotDir, res.SidebarFile)
	return nil
}
