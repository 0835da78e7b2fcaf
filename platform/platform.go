// Package platform defines the type-identity service the introspection engine
// depends on, and provides an in-memory implementation of it.
//
// A platform answers three questions about a concrete type: what its
// immediate ancestors are (superclass and declared interfaces), which formal
// type parameters it declares, and which members it declares itself
// (including non-public ones). Identity comparison is delegated to
// descriptor keys, see ir.Same.
package platform

import "github.com/broady/mirror/ir"

// Hierarchy enumerates the immediate ancestry of concrete types.
// Implementations receive raw types; callers erase parameterized usages first.
type Hierarchy interface {
	// Superclass returns the immediate superclass of t, possibly
	// parameterized, or nil when t has none (the root, interfaces,
	// primitives and unknown types).
	Superclass(t *ir.ConcreteDescriptor) ir.TypeDescriptor

	// Interfaces returns the interfaces t declares, in declaration order.
	Interfaces(t *ir.ConcreteDescriptor) []ir.TypeDescriptor

	// TypeParameters returns the formal type parameters t declares.
	TypeParameters(t *ir.ConcreteDescriptor) []*ir.VariableDescriptor
}

// Platform is a Hierarchy that can also enumerate declared members.
// Declared members are those t declares itself; inherited members are the
// caller's concern.
type Platform interface {
	Hierarchy

	DeclaredFields(t *ir.ConcreteDescriptor) []*ir.FieldDescriptor
	DeclaredMethods(t *ir.ConcreteDescriptor) []*ir.MethodDescriptor
	DeclaredConstructors(t *ir.ConcreteDescriptor) []*ir.ConstructorDescriptor
}

// ValueTyper is implemented by platforms that can name the runtime type of
// a value. It is optional; callers fall back to a built-in mapping.
type ValueTyper interface {
	TypeOfValue(v any) (ir.TypeDescriptor, bool)
}
