package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/broady/mirror"
	"github.com/broady/mirror/ir"
	"github.com/broady/mirror/resolve"
)

type MembersCmd struct {
	Type   string `arg:"" help:"Type name or key."`
	Kind   string `help:"Member kind to list." enum:"fields,methods,constructors,all" default:"all" short:"k"`
	Public bool   `help:"List public members only."`
}

// memberTable is the structured form of a members listing. Member types
// are as declared; the text form shows them resolved at the listed type.
type memberTable struct {
	Type         string                      `json:"type"`
	Ancestors    []string                    `json:"ancestors"`
	Fields       []*ir.FieldDescriptor       `json:"fields,omitempty"`
	Methods      []*ir.MethodDescriptor      `json:"methods,omitempty"`
	Constructors []*ir.ConstructorDescriptor `json:"constructors,omitempty"`
}

func (c *MembersCmd) Run(g *Globals) error {
	format := g.format()
	if !validFormat(format) {
		return fmt.Errorf("unknown output format %q", format)
	}
	reg, err := g.load(context.Background())
	if err != nil {
		return err
	}
	t, err := findType(reg, c.Type)
	if err != nil {
		return err
	}

	dir := mirror.NewDirectory(reg).WithLogger(g.log())
	public := c.Public || g.cfg.PublicOnly
	table := memberTable{Type: t.Key()}
	for _, a := range dir.Ancestors(t) {
		table.Ancestors = append(table.Ancestors, a.Key())
	}
	if c.Kind == "fields" || c.Kind == "all" {
		table.Fields = dir.Fields(t)
		if public {
			table.Fields = dir.PublicFields(t)
		}
	}
	if c.Kind == "methods" || c.Kind == "all" {
		table.Methods = dir.Methods(t)
		if public {
			table.Methods = dir.PublicMethods(t)
		}
	}
	if c.Kind == "constructors" || c.Kind == "all" {
		table.Constructors = dir.Constructors(t)
		if public {
			table.Constructors = dir.PublicConstructors(t)
		}
	}

	r := resolve.New(reg)
	return encode(g.stdout(), format, table, func(w io.Writer) error {
		return table.writeText(w, t, r)
	})
}

func (m *memberTable) writeText(w io.Writer, site ir.TypeDescriptor, r *resolve.Resolver) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tACCESS\tMEMBER\tTYPE")
	for _, f := range m.Fields {
		typ := f.Type
		if resolved, err := r.FieldType(site, f); err == nil {
			typ = resolved
		}
		fmt.Fprintf(tw, "field\t%s\t%s\t%s\n", f.Access, ir.Identity(f), typ)
	}
	for _, md := range m.Methods {
		fmt.Fprintf(tw, "method\t%s\t%s\t%s\n", md.Access, methodSignature(site, md, r), returnOf(site, md, r))
	}
	for _, c := range m.Constructors {
		fmt.Fprintf(tw, "constructor\t%s\t%s\t\n", c.Access, ir.Identity(c))
	}
	return tw.Flush()
}

// methodSignature renders m with parameter types resolved at site.
func methodSignature(site ir.TypeDescriptor, m *ir.MethodDescriptor, r *resolve.Resolver) string {
	params, err := r.ParamTypes(site, m)
	if err != nil {
		return ir.Identity(m)
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	return m.Declaring.Key() + "." + m.Name + "(" + strings.Join(parts, ", ") + ")"
}

func returnOf(site ir.TypeDescriptor, m *ir.MethodDescriptor, r *resolve.Resolver) string {
	if m.Return == nil {
		return "void"
	}
	if ret, err := r.ReturnType(site, m); err == nil {
		return ret.String()
	}
	return m.Return.String()
}
