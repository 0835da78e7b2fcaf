// Package mirror enumerates, finds and invokes the members a type exposes
// through its ancestry.
//
// A Directory answers member queries against a platform.Platform and
// memoizes the answers per type. An Invoker adapts loosely typed argument
// lists to a member's declared signature and dispatches the call.
//
//	dir := mirror.NewDirectory(reg)
//	m, ok := dir.Method(account, "deposit", ir.Primitive(ir.PrimitiveLong))
//	if !ok {
//	    return errors.New("no deposit method")
//	}
//	balance, err := mirror.NewInvoker(dir).Invoke(acct, m, int64(10))
package mirror

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/broady/mirror/compat"
	"github.com/broady/mirror/ir"
	"github.com/broady/mirror/platform"
)

// Directory lists and looks up the members of types, caching the full
// member list of each type per member kind.
//
// The cache is a memoization table, not an LRU: entries are computed on
// first use and kept until Reset. Concurrent misses on the same type may
// compute the list more than once; the last published list wins and every
// published list is immutable.
type Directory struct {
	platform platform.Platform
	checker  *compat.Checker
	logger   *slog.Logger

	fields       sync.Map // type key -> []*ir.FieldDescriptor
	methods      sync.Map // type key -> []*ir.MethodDescriptor
	constructors sync.Map // type key -> []*ir.ConstructorDescriptor
}

// NewDirectory returns a Directory over p.
func NewDirectory(p platform.Platform) *Directory {
	return &Directory{
		platform: p,
		checker:  compat.New(p),
	}
}

// WithLogger sets a custom logger for the directory.
// If not set, slog.Default() will be used.
func (d *Directory) WithLogger(logger *slog.Logger) *Directory {
	d.logger = logger
	return d
}

func (d *Directory) log() *slog.Logger {
	if d.logger == nil {
		return slog.Default()
	}
	return d.logger
}

// Platform returns the platform the directory reads from.
func (d *Directory) Platform() platform.Platform { return d.platform }

// Checker returns the compatibility checker used for overload matching.
func (d *Directory) Checker() *compat.Checker { return d.checker }

// Reset drops every cached member list.
func (d *Directory) Reset() {
	d.fields.Clear()
	d.methods.Clear()
	d.constructors.Clear()
}

// Ancestors returns t followed by every type it extends or implements,
// breadth first: superclass before interfaces at each level, each type
// once. The root type, when reachable, comes last.
func (d *Directory) Ancestors(t ir.TypeDescriptor) []*ir.ConcreteDescriptor {
	raw := ir.Erase(t)
	if raw == nil {
		return nil
	}

	var out []*ir.ConcreteDescriptor
	var root *ir.ConcreteDescriptor
	seen := map[string]bool{raw.Key(): true}
	queue := []*ir.ConcreteDescriptor{raw}
	enqueue := func(next ir.TypeDescriptor) {
		c := ir.Erase(next)
		if c == nil || seen[c.Key()] {
			return
		}
		seen[c.Key()] = true
		queue = append(queue, c)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if ir.IsRoot(cur) {
			root = cur
		} else {
			out = append(out, cur)
		}
		enqueue(d.platform.Superclass(cur))
		for _, iface := range d.platform.Interfaces(cur) {
			enqueue(iface)
		}
	}
	if root != nil {
		out = append(out, root)
	}
	return out
}

// cached returns the list stored under key in cache, computing and
// publishing it on a miss. Callers always receive their own copy.
func cached[M any](d *Directory, cache *sync.Map, kind string, t *ir.ConcreteDescriptor, compute func() []M) []M {
	key := t.Key()
	if v, ok := cache.Load(key); ok {
		return slices.Clone(v.([]M))
	}
	list := compute()
	cache.Store(key, list)
	d.log().Debug("member table published",
		slog.String("type", key),
		slog.String("kind", kind),
		slog.Int("count", len(list)))
	return slices.Clone(list)
}

// Fields returns the fields of t and all of its ancestors, most derived
// first. Fields with the same name on different levels are all listed.
func (d *Directory) Fields(t ir.TypeDescriptor) []*ir.FieldDescriptor {
	raw := ir.Erase(t)
	if raw == nil {
		return nil
	}
	return cached(d, &d.fields, "fields", raw, func() []*ir.FieldDescriptor {
		var out []*ir.FieldDescriptor
		for _, a := range d.Ancestors(raw) {
			out = append(out, d.platform.DeclaredFields(a)...)
		}
		return out
	})
}

// Methods returns the methods of t and all of its ancestors, most derived
// first. Overrides and overloads are all listed.
func (d *Directory) Methods(t ir.TypeDescriptor) []*ir.MethodDescriptor {
	raw := ir.Erase(t)
	if raw == nil {
		return nil
	}
	return cached(d, &d.methods, "methods", raw, func() []*ir.MethodDescriptor {
		var out []*ir.MethodDescriptor
		for _, a := range d.Ancestors(raw) {
			out = append(out, d.platform.DeclaredMethods(a)...)
		}
		return out
	})
}

// Constructors returns the constructors t declares. Constructors are not
// inherited.
func (d *Directory) Constructors(t ir.TypeDescriptor) []*ir.ConstructorDescriptor {
	raw := ir.Erase(t)
	if raw == nil {
		return nil
	}
	return cached(d, &d.constructors, "constructors", raw, func() []*ir.ConstructorDescriptor {
		return d.platform.DeclaredConstructors(raw)
	})
}

// Field returns the first field named name, searching from t upward.
func (d *Directory) Field(t ir.TypeDescriptor, name string) (*ir.FieldDescriptor, bool) {
	for _, f := range d.Fields(t) {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Method returns the first method named name whose declared parameters
// accept arguments of the given types.
func (d *Directory) Method(t ir.TypeDescriptor, name string, paramTypes ...ir.TypeDescriptor) (*ir.MethodDescriptor, bool) {
	for _, m := range d.Methods(t) {
		if m.Name == name && d.checker.IsAllAssignableFrom(m.Params, paramTypes) {
			return m, true
		}
	}
	return nil, false
}

// MethodByName returns the first method named name, ignoring parameters.
func (d *Directory) MethodByName(t ir.TypeDescriptor, name string) (*ir.MethodDescriptor, bool) {
	for _, m := range d.Methods(t) {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Constructor returns the first constructor of t whose declared parameters
// accept arguments of the given types.
func (d *Directory) Constructor(t ir.TypeDescriptor, paramTypes ...ir.TypeDescriptor) (*ir.ConstructorDescriptor, bool) {
	for _, c := range d.Constructors(t) {
		if d.checker.IsAllAssignableFrom(c.Params, paramTypes) {
			return c, true
		}
	}
	return nil, false
}

// PublicFields returns the public subset of Fields(t).
func (d *Directory) PublicFields(t ir.TypeDescriptor) []*ir.FieldDescriptor {
	return public(d.Fields(t))
}

// PublicMethods returns the public subset of Methods(t).
func (d *Directory) PublicMethods(t ir.TypeDescriptor) []*ir.MethodDescriptor {
	return public(d.Methods(t))
}

// PublicConstructors returns the public subset of Constructors(t).
func (d *Directory) PublicConstructors(t ir.TypeDescriptor) []*ir.ConstructorDescriptor {
	return public(d.Constructors(t))
}

// PublicFieldNames returns the distinct names of the public fields of t, in
// first-seen order.
func (d *Directory) PublicFieldNames(t ir.TypeDescriptor) []string {
	return names(d.PublicFields(t))
}

// PublicMethodNames returns the distinct names of the public methods of t,
// in first-seen order.
func (d *Directory) PublicMethodNames(t ir.TypeDescriptor) []string {
	return names(d.PublicMethods(t))
}

func public[M ir.Member](members []M) []M {
	out := make([]M, 0, len(members))
	for _, m := range members {
		if m.Visibility() == ir.Public {
			out = append(out, m)
		}
	}
	return out
}

func names[M ir.Member](members []M) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range members {
		if !seen[m.MemberName()] {
			seen[m.MemberName()] = true
			out = append(out, m.MemberName())
		}
	}
	return out
}
