package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

const chainPkg = "github.com/broady/mirror/provider/testdata/chain"

func newGlobals(t *testing.T, format string) (*Globals, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	g := &Globals{Packages: []string{chainPkg}, Format: format, out: &out}
	if err := g.setup(&bytes.Buffer{}); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	return g, &out
}

func TestParse(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"version"}, "version"},
		{[]string{"members", "Leaf", "--kind", "fields", "--public"}, "members <type>"},
		{[]string{"resolve", "Leaf", "Base", "A", "B"}, "resolve <type> <declaring> <vars>"},
		{[]string{"check", "-p", "./..."}, "check"},
		{[]string{"dump", "Leaf"}, "dump <type>"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			cli := &CLI{}
			parser, err := kong.New(cli, kong.Name("mirror"))
			if err != nil {
				t.Fatalf("kong.New failed: %v", err)
			}
			ctx, err := parser.Parse(tt.args)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if ctx.Command() != tt.want {
				t.Errorf("command = %q, want %q", ctx.Command(), tt.want)
			}
		})
	}

	cli := &CLI{}
	parser, _ := kong.New(cli, kong.Name("mirror"))
	if _, err := parser.Parse([]string{"members", "Leaf", "--kind", "bogus"}); err == nil {
		t.Error("expected error for unknown --kind")
	}
}

func TestMembers_Text(t *testing.T) {
	g, out := newGlobals(t, "")
	if err := (&MembersCmd{Type: "Leaf", Kind: "all"}).Run(g); err != nil {
		t.Fatalf("members failed: %v", err)
	}
	text := out.String()
	for _, want := range []string{
		"KIND",
		"field        package  " + chainPkg + ".Leaf.weight",
		chainPkg + ".Base.Put(int, String)",
		chainPkg + ".Base.GetFirst()",
		"Base<String, int>[]",
		"constructor",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestMembers_JSON(t *testing.T) {
	g, out := newGlobals(t, "json")
	if err := (&MembersCmd{Type: "Mid", Kind: "fields", Public: true}).Run(g); err != nil {
		t.Fatalf("members failed: %v", err)
	}
	var table struct {
		Type      string   `json:"type"`
		Ancestors []string `json:"ancestors"`
		Fields    []struct {
			Name       string `json:"name"`
			Visibility string `json:"visibility"`
		} `json:"fields"`
		Methods []any `json:"methods"`
	}
	if err := json.Unmarshal(out.Bytes(), &table); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if table.Type != chainPkg+".Mid" {
		t.Errorf("type = %q", table.Type)
	}
	if len(table.Ancestors) != 3 || table.Ancestors[2] != "Object" {
		t.Errorf("ancestors = %v", table.Ancestors)
	}
	// second is not public.
	if len(table.Fields) != 2 || table.Fields[0].Name != "Label" || table.Fields[1].Name != "First" {
		t.Errorf("fields = %+v", table.Fields)
	}
	if table.Methods != nil {
		t.Errorf("methods listed with --kind fields: %v", table.Methods)
	}
}

func TestResolve(t *testing.T) {
	t.Run("text with all variables", func(t *testing.T) {
		g, out := newGlobals(t, "")
		if err := (&ResolveCmd{Type: "Leaf", Declaring: "Base"}).Run(g); err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if got, want := out.String(), "A = int\nB = String\n"; got != want {
			t.Errorf("output = %q, want %q", got, want)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		g, out := newGlobals(t, "yaml")
		if err := (&ResolveCmd{Type: "Mid", Declaring: "Base", Vars: []string{"B"}}).Run(g); err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		var doc []map[string]any
		if err := yaml.Unmarshal(out.Bytes(), &doc); err != nil {
			t.Fatalf("invalid YAML: %v\n%s", err, out)
		}
		if len(doc) != 1 || doc[0]["var"] != "B" {
			t.Fatalf("doc = %v", doc)
		}
		typ, _ := doc[0]["type"].(map[string]any)
		if typ["name"] != "String" {
			t.Errorf("B resolved to %v, want String", typ)
		}
	})

	t.Run("not an ancestor", func(t *testing.T) {
		g, _ := newGlobals(t, "")
		if err := (&ResolveCmd{Type: "Base", Declaring: "Leaf"}).Run(g); err == nil {
			t.Error("expected error resolving from a non-descendant")
		}
	})
}

func TestCheckAndDump(t *testing.T) {
	g, out := newGlobals(t, "")
	if err := (&CheckCmd{}).Run(g); err != nil {
		t.Fatalf("check failed: %v\n%s", err, out)
	}
	if !strings.Contains(out.String(), "Hierarchy valid") {
		t.Errorf("check output = %q", out)
	}

	out.Reset()
	if err := (&DumpCmd{Type: "Celsius"}).Run(g); err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	if !strings.Contains(out.String(), "Kelvin") {
		t.Errorf("dump output missing Kelvin:\n%s", out)
	}

	if err := (&DumpCmd{Type: "Nope"}).Run(g); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("valid", func(t *testing.T) {
		cfg, err := loadConfig(write("ok.toml", "packages = [\"./a\", \"./b\"]\nformat = \"yaml\"\npublic_only = true\n"))
		if err != nil {
			t.Fatalf("loadConfig failed: %v", err)
		}
		if len(cfg.Packages) != 2 || cfg.Format != "yaml" || !cfg.PublicOnly {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "packagez = [\"x\"]\n"},
		{"bad format", "format = \"xml\"\n"},
		{"syntax", "packages = [\n"},
		{"missing dir", "dir = \"/does/not/exist\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadConfig(write(tt.name+".toml", tt.body)); err == nil {
				t.Error("expected error")
			}
		})
	}

	t.Run("explicit missing file", func(t *testing.T) {
		if _, err := loadConfig(filepath.Join(dir, "absent.toml")); err == nil {
			t.Error("expected error for a missing explicit config")
		}
	})
}

func TestGlobals_Precedence(t *testing.T) {
	g := &Globals{cfg: Config{Packages: []string{"./cfg"}, Format: "json"}}
	if got := g.packages(); len(got) != 1 || got[0] != "./cfg" {
		t.Errorf("packages = %v, want config value", got)
	}
	if g.format() != "json" {
		t.Errorf("format = %q, want config value", g.format())
	}

	g.Packages = []string{"./flag"}
	g.Format = "text"
	if got := g.packages(); got[0] != "./flag" || g.format() != "text" {
		t.Error("flags should override the config file")
	}

	if got := (&Globals{}).packages(); got[0] != "." {
		t.Errorf("default packages = %v", got)
	}
}
