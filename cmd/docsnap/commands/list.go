package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
)

// ListCmd implements the 'list' command.
type ListCmd struct {
	JSON bool `help:"Print versions as JSON"`
}

func (c *ListCmd) Run(g *Global, root *CLI) error {
	e, err := root.openEnv(g.ctx())
	if err != nil {
		return err
	}
	defer e.Close()

	infos, err := e.manager.List(g.ctx())
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(g.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	if len(infos) == 0 {
		fmt.Fprintln(g.Out, "No versions")
		return nil
	}
	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tLABEL\tPAGES\tBYTES\tSTATUS")
	for _, v := range infos {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\n", v.Position, v.Label, v.Files, v.Bytes, status(v.HasSnapshot, v.HasSidebar))
	}
	return tw.Flush()
}

func status(snapshot, sidebar bool) string {
	switch {
	case snapshot && sidebar:
		return "ok"
	case !snapshot && !sidebar:
		return "missing"
	case !snapshot:
		return "missing docs"
	default:
		return "missing sidebar"
	}
}
