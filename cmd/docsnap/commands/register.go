package commands

import "fmt"

// RegisterCmd implements the 'register' command: the manifest append of
// version-docs on its own, used to repair a cut whose manifest write failed.
type RegisterCmd struct {
	Label string `arg:"" help:"Label of an existing snapshot"`
}

func (c *RegisterCmd) Run(g *Global, root *CLI) error {
	e, err := root.openEnv(g.ctx())
	if err != nil {
		return err
	}
	defer e.Close()

	added, err := e.manager.Register(g.ctx(), c.Label)
	if err != nil {
		return err
	}
	if added {
		fmt.Fprintf(g.Out, "Registered version %s\n", c.Label)
	} else {
		fmt.Fprintf(g.Out, "Version %s is already registered\n", c.Label)
	}
	return nil
}
