package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/broady/mirror/ir"
	"github.com/broady/mirror/platform"
	"github.com/broady/mirror/provider"
)

type CLI struct {
	Globals

	Version VersionCmd `cmd:"" help:"Print version information."`
	Members MembersCmd `cmd:"" help:"List the fields, methods and constructors of a type."`
	Resolve ResolveCmd `cmd:"" help:"Resolve type variables of an ancestor as seen from a type."`
	Check   CheckCmd   `cmd:"" help:"Validate the type hierarchy of the loaded packages."`
	Dump    DumpCmd    `cmd:"" help:"Print a debug dump of a type's member tables."`
}

// Globals are flags shared by every command. Values from the config file
// apply where the corresponding flag is unset.
type Globals struct {
	Config   string   `help:"Path to a mirror.toml config file." type:"path" placeholder:"FILE"`
	Packages []string `help:"Packages to analyze (default: current directory)." short:"p" name:"package"`
	Format   string   `help:"Output format: text, json or yaml." short:"f"`
	Verbose  bool     `help:"Log debug output to stderr." short:"v"`

	out    io.Writer
	cfg    Config
	logger *slog.Logger
}

// setup loads the config file and installs the logger.
func (g *Globals) setup(stderr io.Writer) error {
	cfg, err := loadConfig(g.Config)
	if err != nil {
		return err
	}
	g.cfg = cfg

	level := slog.LevelWarn
	if g.Verbose {
		level = slog.LevelDebug
	}
	g.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(g.logger)
	return nil
}

func (g *Globals) stdout() io.Writer {
	if g.out == nil {
		return os.Stdout
	}
	return g.out
}

func (g *Globals) log() *slog.Logger {
	if g.logger == nil {
		return slog.Default()
	}
	return g.logger
}

func (g *Globals) packages() []string {
	switch {
	case len(g.Packages) > 0:
		return g.Packages
	case len(g.cfg.Packages) > 0:
		return g.cfg.Packages
	default:
		return []string{"."}
	}
}

func (g *Globals) format() string {
	switch {
	case g.Format != "":
		return g.Format
	case g.cfg.Format != "":
		return g.cfg.Format
	default:
		return "text"
	}
}

// load builds a registry from the configured packages.
func (g *Globals) load(ctx context.Context) (*platform.Registry, error) {
	pkgs := g.packages()
	g.log().Debug("loading packages", "packages", pkgs)
	reg, err := (&provider.SourceProvider{}).BuildRegistry(ctx, provider.SourceInputOptions{
		Packages: pkgs,
		Dir:      g.cfg.Dir,
	})
	if err != nil {
		return nil, err
	}
	return reg.WithLogger(g.log()), nil
}

// findType looks a type up by key, or by simple name when that is
// unambiguous.
func findType(reg *platform.Registry, name string) (*ir.ConcreteDescriptor, error) {
	if t, ok := reg.Lookup(name); ok {
		return t, nil
	}
	var matches []*ir.ConcreteDescriptor
	for _, t := range reg.Types() {
		if t.Name == name {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("type %s not found", name)
	case 1:
		return matches[0], nil
	}
	keys := make([]string, len(matches))
	for i, t := range matches {
		keys[i] = t.Key()
	}
	return nil, fmt.Errorf("type %s is ambiguous: %v", name, keys)
}

type VersionCmd struct{}

func (c *VersionCmd) Run(g *Globals) error {
	fmt.Fprintln(g.stdout(), Version())
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("mirror"),
		kong.Description("Inspect the type hierarchy and members of Go packages."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(cli.Globals.setup(os.Stderr))
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
