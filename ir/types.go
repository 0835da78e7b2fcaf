// Package ir defines the descriptors the introspection engine reasons about:
// type descriptors (concrete, parameterized, variable and bounded usages) and
// member descriptors (fields, methods and constructors).
//
// Both sets are closed. Code outside this package switches over them
// exhaustively instead of probing for capabilities at runtime.
package ir

import "strings"

// ConcreteKind classifies a concrete type.
type ConcreteKind int

const (
	ConcretePrimitive ConcreteKind = iota // Non-nullable value type (int, boolean, ...)
	ConcreteBoxed                         // Nullable counterpart of a primitive (Integer, Boolean, ...)
	ConcreteReference                     // Class-like reference type
	ConcreteInterface                     // Interface reference type
	ConcreteArray                         // Array of Element
)

// String returns the string representation of the concrete kind.
func (k ConcreteKind) String() string {
	switch k {
	case ConcretePrimitive:
		return "primitive"
	case ConcreteBoxed:
		return "boxed"
	case ConcreteReference:
		return "reference"
	case ConcreteInterface:
		return "interface"
	case ConcreteArray:
		return "array"
	default:
		return "unknown"
	}
}

// ConcreteDescriptor is a fully resolved type.
type ConcreteDescriptor struct {
	// Name is the simple type name, e.g. "Integer" or "Leaf".
	// Empty for arrays.
	Name string

	// Package qualifies Name. Empty for built-in types.
	Package string

	ConcreteKind ConcreteKind

	// Element is the component type of an array. Nil otherwise.
	Element TypeDescriptor
}

// Kind returns KindConcrete.
func (d *ConcreteDescriptor) Kind() DescriptorKind { return KindConcrete }

// Key returns the qualified name; arrays append "[]" to the element key.
func (d *ConcreteDescriptor) Key() string {
	if d.ConcreteKind == ConcreteArray {
		if d.Element == nil {
			return "?[]"
		}
		return d.Element.Key() + "[]"
	}
	if d.Package == "" {
		return d.Name
	}
	return d.Package + "." + d.Name
}

func (d *ConcreteDescriptor) String() string {
	if d.ConcreteKind == ConcreteArray {
		if d.Element == nil {
			return "?[]"
		}
		return d.Element.String() + "[]"
	}
	return d.Name
}

// IsPrimitive reports whether d is one of the eight primitive types.
func (d *ConcreteDescriptor) IsPrimitive() bool { return d.ConcreteKind == ConcretePrimitive }

// IsBoxed reports whether d is a boxed counterpart of a primitive.
func (d *ConcreteDescriptor) IsBoxed() bool { return d.ConcreteKind == ConcreteBoxed }

// IsInterface reports whether d is an interface type.
func (d *ConcreteDescriptor) IsInterface() bool { return d.ConcreteKind == ConcreteInterface }

func (*ConcreteDescriptor) sealed() {}

// Ref returns a descriptor for a named class-like reference type.
func Ref(name, pkg string) *ConcreteDescriptor {
	return &ConcreteDescriptor{Name: name, Package: pkg, ConcreteKind: ConcreteReference}
}

// Interface returns a descriptor for a named interface type.
func Interface(name, pkg string) *ConcreteDescriptor {
	return &ConcreteDescriptor{Name: name, Package: pkg, ConcreteKind: ConcreteInterface}
}

// ArrayOf returns an array descriptor with the given element type.
func ArrayOf(element TypeDescriptor) *ConcreteDescriptor {
	return &ConcreteDescriptor{ConcreteKind: ConcreteArray, Element: element}
}

// ParameterizedDescriptor is a generic type applied to arguments.
type ParameterizedDescriptor struct {
	// Base is the raw generic type.
	Base *ConcreteDescriptor

	// Args are the actual type arguments, positionally matching the formal
	// type parameters of Base.
	Args []TypeDescriptor
}

// Kind returns KindParameterized.
func (d *ParameterizedDescriptor) Kind() DescriptorKind { return KindParameterized }

func (d *ParameterizedDescriptor) Key() string {
	return d.Base.Key() + "<" + joinDescriptors(d.Args, TypeDescriptor.Key, ",") + ">"
}

func (d *ParameterizedDescriptor) String() string {
	return d.Base.String() + "<" + joinDescriptors(d.Args, TypeDescriptor.String, ", ") + ">"
}

func (*ParameterizedDescriptor) sealed() {}

// Param returns a ParameterizedDescriptor applying base to args.
func Param(base *ConcreteDescriptor, args ...TypeDescriptor) *ParameterizedDescriptor {
	return &ParameterizedDescriptor{Base: base, Args: args}
}

// VariableDescriptor is an unresolved type parameter. It has no meaning on
// its own; it can only be resolved relative to a concrete usage site.
type VariableDescriptor struct {
	// Name is the parameter name, e.g. "T".
	Name string

	// Site is the key of the type or member that declared the parameter.
	Site string
}

// Kind returns KindVariable.
func (d *VariableDescriptor) Kind() DescriptorKind { return KindVariable }

// Key qualifies the parameter name with its declaring site, so that "T" of
// List and "T" of Map never collide.
func (d *VariableDescriptor) Key() string { return d.Site + "#" + d.Name }

func (d *VariableDescriptor) String() string { return d.Name }

func (*VariableDescriptor) sealed() {}

// Var returns a type variable named name declared by site.
func Var(name, site string) *VariableDescriptor {
	return &VariableDescriptor{Name: name, Site: site}
}

// BoundedDescriptor is a wildcard usage constrained by upper bounds.
type BoundedDescriptor struct {
	UpperBounds []TypeDescriptor
}

// Kind returns KindBounded.
func (d *BoundedDescriptor) Kind() DescriptorKind { return KindBounded }

func (d *BoundedDescriptor) Key() string {
	if len(d.UpperBounds) == 0 {
		return "?"
	}
	return "? extends " + joinDescriptors(d.UpperBounds, TypeDescriptor.Key, "&")
}

func (d *BoundedDescriptor) String() string {
	if len(d.UpperBounds) == 0 {
		return "?"
	}
	return "? extends " + joinDescriptors(d.UpperBounds, TypeDescriptor.String, " & ")
}

// UpperBound returns the first upper bound, or Object when there is none.
// This is the type a bounded usage resolves to when a concrete type is required.
func (d *BoundedDescriptor) UpperBound() TypeDescriptor {
	if len(d.UpperBounds) == 0 || d.UpperBounds[0] == nil {
		return Object()
	}
	return d.UpperBounds[0]
}

func (*BoundedDescriptor) sealed() {}

// Bounded returns a wildcard usage with the given upper bounds.
func Bounded(upper ...TypeDescriptor) *BoundedDescriptor {
	return &BoundedDescriptor{UpperBounds: upper}
}

func joinDescriptors(ts []TypeDescriptor, f func(TypeDescriptor) string, sep string) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		if t == nil {
			parts[i] = "?"
			continue
		}
		parts[i] = f(t)
	}
	return strings.Join(parts, sep)
}
