package main

import (
	"context"

	"github.com/broady/mirror"
	"github.com/kr/pretty"
)

type DumpCmd struct {
	Type string `arg:"" help:"Type name or key."`
}

func (c *DumpCmd) Run(g *Globals) error {
	reg, err := g.load(context.Background())
	if err != nil {
		return err
	}
	t, err := findType(reg, c.Type)
	if err != nil {
		return err
	}
	dir := mirror.NewDirectory(reg).WithLogger(g.log())
	_, err = pretty.Fprintf(g.stdout(), "%# v\n", memberTable{
		Type:         t.Key(),
		Fields:       dir.Fields(t),
		Methods:      dir.Methods(t),
		Constructors: dir.Constructors(t),
	})
	return err
}
