// Package resolve computes the actual types bound to generic type parameters
// relative to a concrete usage site.
//
// Resolution follows a single lineage path from the usage site toward the
// declaring type: the superclass when there is a non-root one, otherwise the
// first declared interface. A parameter bound only through a second or later
// interface therefore resolves to nil (unresolved). Callers treat nil as "no
// generic information available"; it is not an error.
package resolve

import (
	"github.com/broady/mirror"
	"github.com/broady/mirror/compat"
	"github.com/broady/mirror/ir"
	"github.com/broady/mirror/platform"
)

// Resolver resolves type variables against a hierarchy.
// It is stateless beyond the hierarchy and safe for concurrent use.
type Resolver struct {
	h       platform.Hierarchy
	checker *compat.Checker
}

// New returns a Resolver over h.
func New(h platform.Hierarchy) *Resolver {
	return &Resolver{h: h, checker: compat.New(h)}
}

// TypeArguments resolves vars, type parameters declared by declaring, as
// seen from site. The result has one entry per input, in order. Entries
// that are not type variables are returned unchanged; variables with no
// discoverable binding are nil.
//
// It fails with CodeInvalidHierarchy when declaring is not an ancestor of
// site.
func (r *Resolver) TypeArguments(site, declaring ir.TypeDescriptor, vars ...ir.TypeDescriptor) ([]ir.TypeDescriptor, error) {
	b, err := r.Bindings(site, declaring)
	if err != nil {
		return nil, err
	}
	out := make([]ir.TypeDescriptor, len(vars))
	for i, v := range vars {
		if tv, ok := v.(*ir.VariableDescriptor); ok {
			out[i] = b.Lookup(tv)
			continue
		}
		out[i] = v
	}
	return out, nil
}

// Bindings returns the binding table accumulated while walking from site
// to declaring.
func (r *Resolver) Bindings(site, declaring ir.TypeDescriptor) (Binding, error) {
	if _, ok := site.(*ir.VariableDescriptor); ok {
		return nil, mirror.Errorf(mirror.CodeInvalidHierarchy,
			"usage site %s is an unresolved type variable", site)
	}
	if b, ok := site.(*ir.BoundedDescriptor); ok {
		site = b.UpperBound()
	}

	rawSite, rawDecl := ir.Erase(site), ir.Erase(declaring)
	if rawSite == nil || rawDecl == nil {
		return nil, mirror.NewError(mirror.CodeInvalidHierarchy, "usage site and declaring type are required")
	}
	if !r.checker.IsSubtype(rawDecl, rawSite) {
		return nil, mirror.Errorf(mirror.CodeInvalidHierarchy,
			"%s is not an ancestor of %s", rawDecl.Key(), rawSite.Key()).
			WithDetail("site", rawSite.Key()).
			WithDetail("declaring", rawDecl.Key())
	}

	b := Binding{}
	seen := map[string]bool{}
	for cur := site; cur != nil; {
		raw := ir.Erase(cur)
		if seen[raw.Key()] {
			break
		}
		seen[raw.Key()] = true

		if p, ok := cur.(*ir.ParameterizedDescriptor); ok {
			b.bind(r.h.TypeParameters(p.Base), p.Args)
		}
		if ir.Same(raw, rawDecl) {
			break
		}
		cur = r.next(raw)
	}
	return b, nil
}

// next returns the single ancestor the walk follows from t.
func (r *Resolver) next(t *ir.ConcreteDescriptor) ir.TypeDescriptor {
	if super := r.h.Superclass(t); super != nil && !ir.IsRoot(super) {
		return super
	}
	if ifaces := r.h.Interfaces(t); len(ifaces) > 0 {
		return ifaces[0]
	}
	return nil
}

// FieldType returns the type of f as seen from site, with every resolvable
// type variable substituted.
func (r *Resolver) FieldType(site ir.TypeDescriptor, f *ir.FieldDescriptor) (ir.TypeDescriptor, error) {
	b, err := r.Bindings(site, f.Declaring)
	if err != nil {
		return nil, err
	}
	return b.Apply(f.Type), nil
}

// ReturnType returns the return type of m as seen from site. Methods with
// no result return nil.
func (r *Resolver) ReturnType(site ir.TypeDescriptor, m *ir.MethodDescriptor) (ir.TypeDescriptor, error) {
	b, err := r.Bindings(site, m.Declaring)
	if err != nil {
		return nil, err
	}
	return b.Apply(m.Return), nil
}

// ParamTypes returns the parameter types of a method or constructor as
// seen from site.
func (r *Resolver) ParamTypes(site ir.TypeDescriptor, m ir.Member) ([]ir.TypeDescriptor, error) {
	b, err := r.Bindings(site, m.DeclaringType())
	if err != nil {
		return nil, err
	}
	params := ir.ParamsOf(m)
	out := make([]ir.TypeDescriptor, len(params))
	for i, p := range params {
		out[i] = b.Apply(p)
	}
	return out, nil
}
