package platform

import "github.com/broady/mirror/ir"

// TypeSpec declares a type to a Registry.
type TypeSpec struct {
	// Name is the simple type name.
	Name string `validate:"required,excludesall=<>[]#?&"`

	// Package qualifies Name. Empty for unqualified types.
	Package string `validate:"excludesall=<>[]#?&"`

	// Interface declares an interface type. Interfaces have no superclass;
	// the interfaces they extend go in Interfaces.
	Interface bool

	// TypeParams are the formal type parameter names, in order.
	TypeParams []string `validate:"unique,dive,required"`

	// Super is the superclass usage. Nil means the root type.
	Super ir.TypeDescriptor

	Interfaces   []ir.TypeDescriptor `validate:"dive,required"`
	Fields       []FieldSpec         `validate:"dive"`
	Methods      []MethodSpec        `validate:"dive"`
	Constructors []ConstructorSpec   `validate:"dive"`
}

// Key returns the key the declared type will be registered under.
func (s TypeSpec) Key() string {
	return s.descriptor().Key()
}

func (s TypeSpec) descriptor() *ir.ConcreteDescriptor {
	if s.Interface {
		return ir.Interface(s.Name, s.Package)
	}
	return ir.Ref(s.Name, s.Package)
}

// FieldSpec declares a field.
type FieldSpec struct {
	Name   string            `validate:"required"`
	Type   ir.TypeDescriptor `validate:"required"`
	Access ir.Visibility
	Static bool
	Getter func(target any) (any, error)
	Setter func(target any, value any) error
}

// MethodSpec declares a method. ParamNames, when given, must have the same
// length as Params.
type MethodSpec struct {
	Name       string              `validate:"required"`
	Params     []ir.TypeDescriptor `validate:"dive,required"`
	ParamNames []string
	Return     ir.TypeDescriptor
	Static     bool
	Access     ir.Visibility
	Impl       ir.Callable
}

// ConstructorSpec declares a constructor.
type ConstructorSpec struct {
	Params     []ir.TypeDescriptor `validate:"dive,required"`
	ParamNames []string
	Access     ir.Visibility
	Impl       ir.Callable
}

// Builder assembles a TypeSpec with a fluent API.
//
// Example:
//
//	mid := platform.Class("Mid").TypeParams("X")
//	mid.Extends(ir.Param(base.Self(), mid.Var("X"), ir.String()))
//	reg.MustDeclare(mid.Spec())
type Builder struct {
	spec TypeSpec
}

// Class starts the declaration of a class-like type.
func Class(name string) *Builder {
	return &Builder{spec: TypeSpec{Name: name}}
}

// Interface starts the declaration of an interface type.
func Interface(name string) *Builder {
	return &Builder{spec: TypeSpec{Name: name, Interface: true}}
}

// In sets the package qualifying the type name.
func (b *Builder) In(pkg string) *Builder {
	b.spec.Package = pkg
	return b
}

// TypeParams declares the formal type parameters.
func (b *Builder) TypeParams(names ...string) *Builder {
	b.spec.TypeParams = append(b.spec.TypeParams, names...)
	return b
}

// Extends sets the superclass. For interfaces it adds an extended interface.
func (b *Builder) Extends(t ir.TypeDescriptor) *Builder {
	if b.spec.Interface {
		b.spec.Interfaces = append(b.spec.Interfaces, t)
		return b
	}
	b.spec.Super = t
	return b
}

// Implements adds declared interfaces.
func (b *Builder) Implements(ts ...ir.TypeDescriptor) *Builder {
	b.spec.Interfaces = append(b.spec.Interfaces, ts...)
	return b
}

// Field adds a field with the given visibility.
func (b *Builder) Field(name string, t ir.TypeDescriptor, access ir.Visibility) *Builder {
	b.spec.Fields = append(b.spec.Fields, FieldSpec{Name: name, Type: t, Access: access})
	return b
}

// FieldSpec adds a fully specified field.
func (b *Builder) FieldSpec(f FieldSpec) *Builder {
	b.spec.Fields = append(b.spec.Fields, f)
	return b
}

// Method adds a method.
func (b *Builder) Method(m MethodSpec) *Builder {
	b.spec.Methods = append(b.spec.Methods, m)
	return b
}

// StaticMethod adds a method that is dispatched without a receiver.
func (b *Builder) StaticMethod(m MethodSpec) *Builder {
	m.Static = true
	b.spec.Methods = append(b.spec.Methods, m)
	return b
}

// Constructor adds a constructor.
func (b *Builder) Constructor(c ConstructorSpec) *Builder {
	b.spec.Constructors = append(b.spec.Constructors, c)
	return b
}

// Self returns the raw descriptor of the type being declared.
func (b *Builder) Self() *ir.ConcreteDescriptor {
	return b.spec.descriptor()
}

// Var returns the type variable name as declared by this type.
// It does not check that name is one of the declared parameters.
func (b *Builder) Var(name string) *ir.VariableDescriptor {
	return ir.Var(name, b.spec.Key())
}

// Spec returns the assembled TypeSpec.
func (b *Builder) Spec() TypeSpec {
	return b.spec
}
