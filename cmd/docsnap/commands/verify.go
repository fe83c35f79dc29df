package commands

import (
	"encoding/json"
	"fmt"

	"git.home.luguber.info/inful/docsnap/internal/foundation/errors"
)

// VerifyCmd implements the 'verify' command.
type VerifyCmd struct {
	JSON bool `help:"Print the report as JSON"`
}

func (c *VerifyCmd) Run(g *Global, root *CLI) error {
	e, err := root.openEnv(g.ctx())
	if err != nil {
		return err
	}
	defer e.Close()

	report, err := e.manager.Verify(g.ctx())
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(g.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		for _, f := range report.Findings {
			fmt.Fprintf(g.Out, "✗ %s\n", f.Error())
		}
		if report.OK() {
			fmt.Fprintf(g.Out, "✓ %d versions verified\n", len(report.Versions))
		}
	}

	if !report.OK() {
		return errors.WrapError(report.Err(), errors.CategoryValidation,
			fmt.Sprintf("verification found %d problems", len(report.Findings))).
			UserAction().
			Build()
	}
	return nil
}
