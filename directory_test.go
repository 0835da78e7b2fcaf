package mirror

import (
	"bytes"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/broady/mirror/ir"
	"github.com/broady/mirror/testutil"
	"golang.org/x/sync/errgroup"
)

func memberIDs[M ir.Member](members []M) []string {
	out := make([]string, len(members))
	for n, m := range members {
		out[n] = ir.Identity(m)
	}
	return out
}

func TestDirectory_Ancestors(t *testing.T) {
	acc := testutil.NewAccounts()
	dir := NewDirectory(acc.Registry)

	var got []string
	for _, a := range dir.Ancestors(acc.Account) {
		got = append(got, a.Key())
	}
	want := []string{"bank.Account", "bank.Entity", "bank.Named", "Object"}
	if !slices.Equal(got, want) {
		t.Errorf("Ancestors = %v, want %v", got, want)
	}

	if dir.Ancestors(nil) != nil {
		t.Error("Ancestors(nil) should be nil")
	}
}

func TestDirectory_OwnMethodsFirst(t *testing.T) {
	acc := testutil.NewAccounts()
	dir := NewDirectory(acc.Registry)

	methods := dir.Methods(acc.Account)
	own := len(acc.Registry.DeclaredMethods(acc.Account))
	if len(methods) <= own {
		t.Fatalf("Methods returned %d entries, want more than the %d declared", len(methods), own)
	}
	for n, m := range methods {
		inherited := !ir.Same(m.Declaring, acc.Account)
		if n < own && inherited {
			t.Errorf("methods[%d] = %s is inherited, want own methods first", n, ir.Identity(m))
		}
		if n >= own && !inherited {
			t.Errorf("methods[%d] = %s is declared by Account after inherited methods", n, ir.Identity(m))
		}
	}
}

func TestDirectory_NoDeduplication(t *testing.T) {
	acc := testutil.NewAccounts()
	dir := NewDirectory(acc.Registry)

	var describes []string
	for _, m := range dir.Methods(acc.Account) {
		if m.Name == "describe" {
			describes = append(describes, m.Declaring.Key())
		}
	}
	if want := []string{"bank.Account", "bank.Entity"}; !slices.Equal(describes, want) {
		t.Errorf("describe declared by %v, want %v", describes, want)
	}

	fields := memberIDs(dir.Fields(acc.Account))
	if want := []string{"bank.Account.owner", "bank.Account.balance", "bank.Entity.id"}; !slices.Equal(fields, want) {
		t.Errorf("Fields = %v, want %v", fields, want)
	}
}

func TestDirectory_Lookups(t *testing.T) {
	acc := testutil.NewAccounts()
	dir := NewDirectory(acc.Registry)
	long := ir.Primitive(ir.PrimitiveLong)
	boolean := ir.Primitive(ir.PrimitiveBoolean)

	t.Run("field found on ancestor", func(t *testing.T) {
		f, ok := dir.Field(acc.Account, "id")
		if !ok || f.Declaring.Key() != "bank.Entity" {
			t.Errorf("Field(id) = %v, %v", f, ok)
		}
	})

	t.Run("field miss", func(t *testing.T) {
		if f, ok := dir.Field(acc.Account, "nope"); ok || f != nil {
			t.Errorf("Field(nope) = %v, %v", f, ok)
		}
	})

	t.Run("exact method", func(t *testing.T) {
		m, ok := dir.Method(acc.Account, "deposit", long, ir.String(), boolean)
		if !ok || m.Name != "deposit" {
			t.Errorf("Method(deposit) = %v, %v", m, ok)
		}
	})

	t.Run("exact method with boxed argument types", func(t *testing.T) {
		_, ok := dir.Method(acc.Account, "deposit",
			ir.Boxed(ir.PrimitiveLong), ir.String(), ir.Boxed(ir.PrimitiveBoolean))
		if !ok {
			t.Error("boxed arguments should match primitive parameters")
		}
	})

	t.Run("exact method rejects wrong types", func(t *testing.T) {
		if _, ok := dir.Method(acc.Account, "deposit", ir.Boxed(ir.PrimitiveInt), ir.String(), boolean); ok {
			t.Error("Integer should not match a long parameter")
		}
		if _, ok := dir.Method(acc.Account, "deposit", long); ok {
			t.Error("argument count mismatch should not match")
		}
	})

	t.Run("most derived override wins", func(t *testing.T) {
		m, ok := dir.Method(acc.Account, "describe")
		if !ok || m.Declaring.Key() != "bank.Account" {
			t.Errorf("Method(describe) = %v, %v", m, ok)
		}
	})

	t.Run("by name", func(t *testing.T) {
		m, ok := dir.MethodByName(acc.Account, "name")
		if !ok || m.Declaring.Key() != "bank.Named" {
			t.Errorf("MethodByName(name) = %v, %v", m, ok)
		}
		if _, ok := dir.MethodByName(acc.Account, "withdraw"); ok {
			t.Error("MethodByName(withdraw) should miss")
		}
	})

	t.Run("constructor", func(t *testing.T) {
		c, ok := dir.Constructor(acc.Account, ir.String(), ir.Boxed(ir.PrimitiveLong))
		if !ok || len(c.Params) != 2 {
			t.Errorf("Constructor = %v, %v", c, ok)
		}
		if got := dir.Constructors(acc.Entity); len(got) != 0 {
			t.Errorf("Entity constructors = %v, want none", got)
		}
		if got := dir.Constructors(acc.Account); len(got) != 1 {
			t.Errorf("constructors are not inherited, got %d for Account", len(got))
		}
	})

	t.Run("unknown type is empty", func(t *testing.T) {
		if got := dir.Methods(ir.Ref("Ghost", "")); len(got) != 0 {
			t.Errorf("Methods(Ghost) = %v", got)
		}
	})
}

func TestDirectory_Public(t *testing.T) {
	acc := testutil.NewAccounts()
	dir := NewDirectory(acc.Registry)

	if got, want := dir.PublicFieldNames(acc.Account), []string{"owner"}; !slices.Equal(got, want) {
		t.Errorf("PublicFieldNames = %v, want %v", got, want)
	}

	want := []string{"deposit", "balance", "zero", "fail", "explode", "describe", "name"}
	if got := dir.PublicMethodNames(acc.Account); !slices.Equal(got, want) {
		t.Errorf("PublicMethodNames = %v, want %v", got, want)
	}

	for _, m := range dir.PublicMethods(acc.Account) {
		if m.Access != ir.Public {
			t.Errorf("PublicMethods returned %s with visibility %s", ir.Identity(m), m.Access)
		}
	}
	if got := dir.PublicConstructors(acc.Account); len(got) != 1 {
		t.Errorf("PublicConstructors = %v", got)
	}
}

func TestDirectory_CacheIdempotent(t *testing.T) {
	acc := testutil.NewAccounts()
	dir := NewDirectory(acc.Registry)

	first := memberIDs(dir.Fields(acc.Account))
	second := memberIDs(dir.Fields(acc.Account))
	if !slices.Equal(first, second) {
		t.Errorf("Fields changed between calls: %v vs %v", first, second)
	}

	// Callers own the returned slice.
	fields := dir.Fields(acc.Account)
	fields[0] = nil
	if dir.Fields(acc.Account)[0] == nil {
		t.Error("mutating a returned slice corrupted the cache")
	}
}

func TestDirectory_ConcurrentPopulation(t *testing.T) {
	acc := testutil.NewAccounts()
	dir := NewDirectory(acc.Registry)
	want := memberIDs(NewDirectory(acc.Registry).Methods(acc.Account))

	results := make([][]string, 64)
	var g errgroup.Group
	for n := range results {
		g.Go(func() error {
			results[n] = memberIDs(dir.Methods(acc.Account))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	for n, got := range results {
		if !slices.Equal(got, want) {
			t.Errorf("caller %d saw %v, want %v", n, got, want)
		}
	}
}

func TestDirectory_PerKindCacheAndReset(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	acc := testutil.NewAccounts()
	dir := NewDirectory(acc.Registry).WithLogger(logger)

	dir.Fields(acc.Account)
	dir.Fields(acc.Account)
	if n := strings.Count(buf.String(), "member table published"); n != 1 {
		t.Errorf("published %d times after two Fields calls, want 1", n)
	}

	dir.Methods(acc.Account)
	if n := strings.Count(buf.String(), "kind=methods"); n != 1 {
		t.Errorf("a Fields miss should not populate methods; methods published %d times", n)
	}

	dir.Reset()
	dir.Fields(acc.Account)
	if n := strings.Count(buf.String(), "kind=fields"); n != 2 {
		t.Errorf("Reset should force recomputation; fields published %d times", n)
	}
}
