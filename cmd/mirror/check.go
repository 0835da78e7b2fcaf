package main

import (
	"context"
	"fmt"
)

type CheckCmd struct{}

func (c *CheckCmd) Run(g *Globals) error {
	reg, err := g.load(context.Background())
	if err != nil {
		return err
	}
	out := g.stdout()
	errs := reg.Validate()
	for _, err := range errs {
		fmt.Fprintf(out, "✗ %v\n", err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d hierarchy problems found", len(errs))
	}
	fmt.Fprintf(out, "✓ %d types\n", len(reg.Types()))
	fmt.Fprintln(out, "✓ Hierarchy valid")
	return nil
}
