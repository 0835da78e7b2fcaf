// Package compat decides whether a value of one type may be supplied where
// another type is expected.
//
// Assignability follows three rules, applied in order:
//
//  1. The source is the target, or reaches it through its superclass and
//     interface ancestry. Reference arrays are covariant in their element.
//  2. Primitive and boxed types bridge exactly: a primitive target accepts
//     only its boxed counterpart, and a boxed target accepts only its
//     primitive counterpart (or a subtype under rule 1).
//  3. Anything else fails.
//
// A Checker never returns errors. Anything it cannot determine is reported
// as not assignable.
package compat

import (
	"github.com/broady/mirror/ir"
	"github.com/broady/mirror/platform"
)

// Checker evaluates assignability against a type hierarchy.
// It holds no state beyond the hierarchy and is safe for concurrent use.
type Checker struct {
	h platform.Hierarchy
}

// New returns a Checker that consults h for ancestry.
func New(h platform.Hierarchy) *Checker {
	return &Checker{h: h}
}

// IsAssignable reports whether a value of type source may be supplied where
// target is expected.
func (c *Checker) IsAssignable(target, source ir.TypeDescriptor) bool {
	t, s := ir.Erase(target), ir.Erase(source)
	if t == nil || s == nil {
		return false
	}
	if c.isSubtype(t, s) {
		return true
	}

	switch {
	case t.IsPrimitive():
		return s.IsBoxed() && ir.Same(Wrap(t), s)
	case t.IsBoxed():
		return s.IsPrimitive() && ir.Same(Unwrap(t), s)
	case s.IsPrimitive():
		// Reference targets other than the boxed counterpart see the
		// primitive through its boxed form: Number and Object accept int.
		return c.isSubtype(t, ir.Erase(Wrap(s)))
	}
	return false
}

// IsSubtype reports whether source is target or one of its descendants,
// using rule 1 alone.
func (c *Checker) IsSubtype(target, source ir.TypeDescriptor) bool {
	t, s := ir.Erase(target), ir.Erase(source)
	if t == nil || s == nil {
		return false
	}
	return c.isSubtype(t, s)
}

// IsAllAssignableFrom reports whether every source is assignable to the
// target at the same position. Nil and empty lists are equivalent; a nil
// element anywhere fails.
func (c *Checker) IsAllAssignableFrom(targets, sources []ir.TypeDescriptor) bool {
	if len(targets) != len(sources) {
		return false
	}
	for i := range targets {
		if targets[i] == nil || sources[i] == nil {
			return false
		}
		if !c.IsAssignable(targets[i], sources[i]) {
			return false
		}
	}
	return true
}

func (c *Checker) isSubtype(t, s *ir.ConcreteDescriptor) bool {
	if ir.Same(t, s) {
		return true
	}
	if t.IsPrimitive() || s.IsPrimitive() {
		return false
	}
	if ir.IsRoot(t) {
		return true
	}

	if t.ConcreteKind == ir.ConcreteArray || s.ConcreteKind == ir.ConcreteArray {
		if t.ConcreteKind != ir.ConcreteArray || s.ConcreteKind != ir.ConcreteArray {
			return false
		}
		te, se := ir.Erase(t.Element), ir.Erase(s.Element)
		if te == nil || se == nil || te.IsPrimitive() || se.IsPrimitive() {
			// Primitive arrays are only assignable to themselves.
			return false
		}
		return c.isSubtype(te, se)
	}

	if c.h == nil {
		return false
	}
	seen := map[string]bool{}
	var walk func(cur *ir.ConcreteDescriptor) bool
	walk = func(cur *ir.ConcreteDescriptor) bool {
		if cur == nil || seen[cur.Key()] {
			return false
		}
		seen[cur.Key()] = true
		if ir.Same(cur, t) {
			return true
		}
		if super := c.h.Superclass(cur); super != nil && walk(ir.Erase(super)) {
			return true
		}
		for _, iface := range c.h.Interfaces(cur) {
			if walk(ir.Erase(iface)) {
				return true
			}
		}
		return false
	}
	return walk(s)
}
