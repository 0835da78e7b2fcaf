package resolve

import (
	"testing"

	"github.com/broady/mirror"
	"github.com/broady/mirror/ir"
	"github.com/broady/mirror/platform"
	"github.com/broady/mirror/testutil"
)

func TestTypeArguments_PositionalAndTransitive(t *testing.T) {
	g := testutil.NewGenericChain()
	r := New(g.Registry)

	a := ir.Var("A", g.Base.Key())
	b := ir.Var("B", g.Base.Key())

	got, err := r.TypeArguments(g.Leaf, g.Base, a, b)
	if err != nil {
		t.Fatalf("TypeArguments failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if !ir.Same(got[0], ir.Boxed(ir.PrimitiveInt)) {
		t.Errorf("A resolved to %v, want Integer", got[0])
	}
	if !ir.Same(got[1], ir.String()) {
		t.Errorf("B resolved to %v, want String", got[1])
	}
}

func TestTypeArguments(t *testing.T) {
	g := testutil.NewGenericChain()
	r := New(g.Registry)
	baseA := ir.Var("A", g.Base.Key())
	midX := ir.Var("X", g.Mid.Key())

	tests := []struct {
		name      string
		site      ir.TypeDescriptor
		declaring ir.TypeDescriptor
		vars      []ir.TypeDescriptor
		want      []string // "" means unresolved
	}{
		{
			name:      "intermediate declaring type",
			site:      g.Leaf,
			declaring: g.Mid,
			vars:      []ir.TypeDescriptor{midX},
			want:      []string{"Integer"},
		},
		{
			name:      "parameterized usage site",
			site:      ir.Param(g.Mid, ir.Boxed(ir.PrimitiveLong)),
			declaring: g.Base,
			vars:      []ir.TypeDescriptor{baseA},
			want:      []string{"Long"},
		},
		{
			name:      "raw usage site leaves variable unresolved",
			site:      g.Mid,
			declaring: g.Base,
			vars:      []ir.TypeDescriptor{baseA, ir.Var("B", g.Base.Key())},
			want:      []string{"", "String"},
		},
		{
			name:      "concrete inputs are returned unchanged",
			site:      g.Leaf,
			declaring: g.Base,
			vars:      []ir.TypeDescriptor{ir.String(), baseA},
			want:      []string{"String", "Integer"},
		},
		{
			name:      "foreign variable is unresolved",
			site:      g.Leaf,
			declaring: g.Base,
			vars:      []ir.TypeDescriptor{ir.Var("Q", "elsewhere.Type")},
			want:      []string{""},
		},
		{
			name:      "first interface",
			site:      g.Pipe,
			declaring: g.Source,
			vars:      []ir.TypeDescriptor{ir.Var("T", g.Source.Key())},
			want:      []string{"String"},
		},
		{
			// Only the first interface is walked.
			name:      "second interface is unresolved",
			site:      g.Pipe,
			declaring: g.Sink,
			vars:      []ir.TypeDescriptor{ir.Var("U", g.Sink.Key())},
			want:      []string{""},
		},
		{
			name:      "bounded usage site",
			site:      ir.Bounded(g.Leaf),
			declaring: g.Base,
			vars:      []ir.TypeDescriptor{baseA},
			want:      []string{"Integer"},
		},
		{
			name:      "no variables",
			site:      g.Leaf,
			declaring: g.Base,
			want:      []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.TypeArguments(tt.site, tt.declaring, tt.vars...)
			if err != nil {
				t.Fatalf("TypeArguments failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d results, want %d", len(got), len(tt.want))
			}
			for i, w := range tt.want {
				if w == "" {
					if got[i] != nil {
						t.Errorf("result[%d] = %v, want unresolved", i, got[i])
					}
					continue
				}
				if got[i] == nil || got[i].Key() != w {
					t.Errorf("result[%d] = %v, want %s", i, got[i], w)
				}
			}
		})
	}
}

func TestTypeArguments_InvalidHierarchy(t *testing.T) {
	g := testutil.NewGenericChain()
	r := New(g.Registry)

	tests := []struct {
		name      string
		site      ir.TypeDescriptor
		declaring ir.TypeDescriptor
	}{
		{"declaring is a descendant", g.Base, g.Leaf},
		{"unrelated types", g.Pipe, g.Base},
		{"variable site", ir.Var("A", g.Base.Key()), g.Base},
		{"nil site", nil, g.Base},
		{"nil declaring", g.Leaf, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.TypeArguments(tt.site, tt.declaring, ir.Var("A", g.Base.Key()))
			if err == nil {
				t.Fatal("expected an error")
			}
			if code := mirror.CodeOf(err); code != mirror.CodeInvalidHierarchy {
				t.Errorf("code = %s, want %s", code, mirror.CodeInvalidHierarchy)
			}
		})
	}
}

func TestTypeArguments_RawSuperclassShadowsInterfaces(t *testing.T) {
	reg := platform.NewRegistry()
	rawBase := reg.MustDeclare(platform.Class("RawBase").In("raw").Spec())
	repoSpec := platform.Interface("Repo").In("raw").TypeParams("T")
	repo := reg.MustDeclare(repoSpec.Spec())
	leaf := reg.MustDeclare(platform.Class("Leaf").In("raw").
		Extends(rawBase).
		Implements(ir.Param(repo, ir.String())).Spec())
	r := New(reg)

	tests := []struct {
		name      string
		site      ir.TypeDescriptor
		declaring ir.TypeDescriptor
		want      ir.TypeDescriptor
	}{
		// The walk follows the non-root superclass and never reaches Repo<String>.
		{"interface below a raw superclass", leaf, repo, nil},
		{"parameterized site", ir.Param(repo, ir.Boxed(ir.PrimitiveInt)), repo, ir.Boxed(ir.PrimitiveInt)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.TypeArguments(tt.site, tt.declaring, repoSpec.Var("T"))
			if err != nil {
				t.Fatalf("TypeArguments failed: %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("got %d results, want 1", len(got))
			}
			if tt.want == nil {
				if got[0] != nil {
					t.Errorf("T = %v, want unresolved", got[0])
				}
				return
			}
			if !ir.Same(got[0], tt.want) {
				t.Errorf("T = %v, want %v", got[0], tt.want)
			}
		})
	}
}

func TestTypeArguments_SameType(t *testing.T) {
	g := testutil.NewGenericChain()
	r := New(g.Registry)

	got, err := r.TypeArguments(ir.Param(g.Base, ir.String(), ir.Boxed(ir.PrimitiveDouble)), g.Base,
		ir.Var("B", g.Base.Key()))
	if err != nil {
		t.Fatalf("TypeArguments failed: %v", err)
	}
	if !ir.Same(got[0], ir.Boxed(ir.PrimitiveDouble)) {
		t.Errorf("B = %v, want Double", got[0])
	}
}

func TestBinding_Lookup(t *testing.T) {
	x, y, z := ir.Var("X", "S"), ir.Var("Y", "S"), ir.Var("Z", "S")
	b := Binding{
		x.Key(): y,
		y.Key(): ir.String(),
		z.Key(): z,
	}
	if got := b.Lookup(x); !ir.Same(got, ir.String()) {
		t.Errorf("Lookup(X) = %v, want String", got)
	}
	if got := b.Lookup(z); got != nil {
		t.Errorf("self-bound variable should be unresolved, got %v", got)
	}
	if got := b.Lookup(ir.Var("W", "S")); got != nil {
		t.Errorf("unbound variable should be unresolved, got %v", got)
	}
	if got := b.Lookup(nil); got != nil {
		t.Errorf("Lookup(nil) = %v", got)
	}
}

func TestMemberTypes(t *testing.T) {
	g := testutil.NewGenericChain()
	r := New(g.Registry)

	fields := g.Registry.DeclaredFields(g.Base)
	ft, err := r.FieldType(g.Leaf, fields[0])
	if err != nil {
		t.Fatalf("FieldType failed: %v", err)
	}
	if !ir.Same(ft, ir.Boxed(ir.PrimitiveInt)) {
		t.Errorf("FieldType(first) = %v, want Integer", ft)
	}

	var put, pairs *ir.MethodDescriptor
	for _, m := range g.Registry.DeclaredMethods(g.Base) {
		switch m.Name {
		case "put":
			put = m
		case "pairs":
			pairs = m
		}
	}

	params, err := r.ParamTypes(g.Leaf, put)
	if err != nil {
		t.Fatalf("ParamTypes failed: %v", err)
	}
	if len(params) != 2 || params[0].Key() != "Integer" || params[1].Key() != "String" {
		t.Errorf("ParamTypes(put) = %v, want [Integer String]", params)
	}

	ret, err := r.ReturnType(g.Leaf, pairs)
	if err != nil {
		t.Fatalf("ReturnType failed: %v", err)
	}
	if got, want := ret.String(), "Base<String, Integer>[]"; got != want {
		t.Errorf("ReturnType(pairs) = %s, want %s", got, want)
	}

	// Unresolvable variables are substituted as far as the chain goes.
	ret, err = r.ReturnType(g.Mid, g.Registry.DeclaredMethods(g.Base)[0])
	if err != nil {
		t.Fatalf("ReturnType failed: %v", err)
	}
	if ret.Kind() != ir.KindVariable || ret.Key() != "chain.Mid#X" {
		t.Errorf("ReturnType(getFirst) from raw Mid = %v, want variable X", ret)
	}

	if _, err := r.FieldType(g.Pipe, fields[0]); mirror.CodeOf(err) != mirror.CodeInvalidHierarchy {
		t.Errorf("FieldType from unrelated site: err = %v", err)
	}
}
