package ir

// DescriptorKind identifies the category of a type descriptor.
type DescriptorKind int

const (
	KindConcrete      DescriptorKind = iota // Fully resolved type
	KindParameterized                       // Generic type applied to arguments
	KindVariable                            // Unresolved type parameter
	KindBounded                             // Wildcard or bounded usage
)

// String returns the string representation of the descriptor kind.
func (k DescriptorKind) String() string {
	switch k {
	case KindConcrete:
		return "Concrete"
	case KindParameterized:
		return "Parameterized"
	case KindVariable:
		return "Variable"
	case KindBounded:
		return "Bounded"
	default:
		return "Unknown"
	}
}

// TypeDescriptor is the base interface for all type descriptors.
type TypeDescriptor interface {
	// Kind returns the descriptor kind for type switching.
	Kind() DescriptorKind

	// Key returns the identity of the descriptor. Two descriptors denote the
	// same type if and only if their keys are equal.
	Key() string

	// String returns a human-readable rendering, e.g. "Map<String, Integer>".
	String() string

	// Ensure only types in this package can implement TypeDescriptor.
	sealed()
}

// Same reports whether a and b denote the same type.
// A nil descriptor is never the same as anything, including another nil.
func Same(a, b TypeDescriptor) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Key() == b.Key()
}

// Erase returns the raw concrete type behind t.
// Parameterized types erase to their base, bounded types to their first
// upper bound and type variables to Object. Erase(nil) is nil.
func Erase(t TypeDescriptor) *ConcreteDescriptor {
	switch d := t.(type) {
	case *ConcreteDescriptor:
		return d
	case *ParameterizedDescriptor:
		return d.Base
	case *BoundedDescriptor:
		return Erase(d.UpperBound())
	case *VariableDescriptor:
		return Object()
	default:
		return nil
	}
}
