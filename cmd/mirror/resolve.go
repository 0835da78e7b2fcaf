package main

import (
	"context"
	"fmt"
	"io"

	"github.com/broady/mirror/ir"
	"github.com/broady/mirror/resolve"
)

type ResolveCmd struct {
	Type      string   `arg:"" help:"Type the ancestor is seen from."`
	Declaring string   `arg:"" help:"Ancestor declaring the type variables."`
	Vars      []string `arg:"" optional:"" help:"Type variable names (default: all of the ancestor's)."`
}

type binding struct {
	Var  string            `json:"var"`
	Type ir.TypeDescriptor `json:"type"`
}

func (c *ResolveCmd) Run(g *Globals) error {
	format := g.format()
	if !validFormat(format) {
		return fmt.Errorf("unknown output format %q", format)
	}
	reg, err := g.load(context.Background())
	if err != nil {
		return err
	}
	site, err := findType(reg, c.Type)
	if err != nil {
		return err
	}
	declaring, err := findType(reg, c.Declaring)
	if err != nil {
		return err
	}

	vars := make([]ir.TypeDescriptor, 0, len(c.Vars))
	if len(c.Vars) == 0 {
		for _, v := range reg.TypeParameters(declaring) {
			vars = append(vars, v)
		}
	}
	for _, name := range c.Vars {
		vars = append(vars, ir.Var(name, declaring.Key()))
	}

	args, err := resolve.New(reg).TypeArguments(site, declaring, vars...)
	if err != nil {
		return err
	}
	out := make([]binding, len(vars))
	for i, v := range vars {
		out[i] = binding{Var: v.String(), Type: args[i]}
	}
	return encode(g.stdout(), format, out, func(w io.Writer) error {
		for _, b := range out {
			if b.Type == nil {
				fmt.Fprintf(w, "%s = ?\n", b.Var)
				continue
			}
			fmt.Fprintf(w, "%s = %s\n", b.Var, b.Type)
		}
		return nil
	})
}
