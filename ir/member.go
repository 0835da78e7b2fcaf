package ir

import "strings"

// MemberKind identifies the category of a member descriptor.
type MemberKind int

const (
	MemberField MemberKind = iota
	MemberMethod
	MemberConstructor
)

// String returns the string representation of the member kind.
func (k MemberKind) String() string {
	switch k {
	case MemberField:
		return "field"
	case MemberMethod:
		return "method"
	case MemberConstructor:
		return "constructor"
	default:
		return "unknown"
	}
}

// Visibility describes who may access a member.
type Visibility int

const (
	Public Visibility = iota
	Protected
	Package
	Private
)

// String returns the string representation of the visibility.
func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case Package:
		return "package"
	case Private:
		return "private"
	default:
		return "unknown"
	}
}

// Callable dispatches a method or constructor. For instance methods target is
// the receiver; static methods and constructors receive a nil target. args
// always has exactly one entry per declared parameter.
type Callable func(target any, args []any) (any, error)

// Member is the closed set of member descriptors: *FieldDescriptor,
// *MethodDescriptor and *ConstructorDescriptor.
//
// Members are immutable once created. Their identity is the declaring type
// plus the signature, see Identity.
type Member interface {
	MemberKind() MemberKind

	// MemberName returns the field or method name. Constructors return "<init>".
	MemberName() string

	// DeclaringType returns the type that declares the member.
	DeclaringType() *ConcreteDescriptor

	Visibility() Visibility

	// Signature renders the member's name and parameter types,
	// e.g. "put(K, V)". Fields render as their name alone.
	Signature() string

	sealed()
}

// Identity returns the identity of m: declaring type key plus signature.
func Identity(m Member) string {
	if m == nil {
		return ""
	}
	decl := m.DeclaringType()
	if decl == nil {
		return m.Signature()
	}
	return decl.Key() + "." + m.Signature()
}

// FieldDescriptor is a state member.
type FieldDescriptor struct {
	Name      string
	Type      TypeDescriptor
	Declaring *ConcreteDescriptor
	Access    Visibility
	Static    bool

	// Getter reads the field from target. Nil when the platform cannot
	// read values (e.g. source-only introspection).
	Getter func(target any) (any, error)

	// Setter writes the field on target. Nil when unsupported.
	Setter func(target any, value any) error
}

func (f *FieldDescriptor) MemberKind() MemberKind             { return MemberField }
func (f *FieldDescriptor) MemberName() string                 { return f.Name }
func (f *FieldDescriptor) DeclaringType() *ConcreteDescriptor { return f.Declaring }
func (f *FieldDescriptor) Visibility() Visibility             { return f.Access }
func (f *FieldDescriptor) Signature() string                  { return f.Name }
func (*FieldDescriptor) sealed()                              {}

// MethodDescriptor is a behavior member.
type MethodDescriptor struct {
	Name   string
	Params []TypeDescriptor

	// ParamNames optionally names the parameters. When set it has the same
	// length as Params.
	ParamNames []string

	// Return is nil for methods without a result.
	Return    TypeDescriptor
	Declaring *ConcreteDescriptor
	Static    bool
	Access    Visibility

	// Impl dispatches the method. Nil when the platform only describes types.
	Impl Callable
}

func (m *MethodDescriptor) MemberKind() MemberKind             { return MemberMethod }
func (m *MethodDescriptor) MemberName() string                 { return m.Name }
func (m *MethodDescriptor) DeclaringType() *ConcreteDescriptor { return m.Declaring }
func (m *MethodDescriptor) Visibility() Visibility             { return m.Access }
func (m *MethodDescriptor) Signature() string                  { return signature(m.Name, m.Params) }
func (*MethodDescriptor) sealed()                              {}

// ConstructorName is the member name reported by every constructor.
const ConstructorName = "<init>"

// ConstructorDescriptor creates instances of its declaring type.
type ConstructorDescriptor struct {
	Params     []TypeDescriptor
	ParamNames []string
	Declaring  *ConcreteDescriptor
	Access     Visibility

	// Impl creates the instance. Nil when the platform only describes types.
	Impl Callable
}

func (c *ConstructorDescriptor) MemberKind() MemberKind             { return MemberConstructor }
func (c *ConstructorDescriptor) MemberName() string                 { return ConstructorName }
func (c *ConstructorDescriptor) DeclaringType() *ConcreteDescriptor { return c.Declaring }
func (c *ConstructorDescriptor) Visibility() Visibility             { return c.Access }
func (c *ConstructorDescriptor) Signature() string                  { return signature(ConstructorName, c.Params) }
func (*ConstructorDescriptor) sealed()                              {}

// ParamsOf returns the declared parameter types of a method or constructor.
// Fields have no parameters.
func ParamsOf(m Member) []TypeDescriptor {
	switch d := m.(type) {
	case *MethodDescriptor:
		return d.Params
	case *ConstructorDescriptor:
		return d.Params
	default:
		return nil
	}
}

// ParamNamesOf returns the declared parameter names of a method or
// constructor, or nil when the platform did not record them.
func ParamNamesOf(m Member) []string {
	switch d := m.(type) {
	case *MethodDescriptor:
		return d.ParamNames
	case *ConstructorDescriptor:
		return d.ParamNames
	default:
		return nil
	}
}

func signature(name string, params []TypeDescriptor) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	b.WriteString(joinDescriptors(params, TypeDescriptor.String, ", "))
	b.WriteByte(')')
	return b.String()
}
