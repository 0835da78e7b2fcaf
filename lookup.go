package mirror

import (

	"github.com/broady/mirror/compat"
	"github.com/broady/mirror/ir"
	"github.com/broady/mirror/platform"
)

// typesOf names the runtime type of each argument, using the platform's
// ValueTyper when it has one. Unknown or nil values yield nil entries.
func (i *Invoker) typesOf(args []any) []ir.TypeDescriptor {
	typer, _ := i.dir.Platform().(platform.ValueTyper)
	out := make([]ir.TypeDescriptor, len(args))
	for n, a := range args {
		if typer != nil {
			if t, ok := typer.TypeOfValue(a); ok {
				out[n] = t
				continue
			}
		}
		out[n] = compat.TypeOfValue(a)
	}
	return out
}

// Call invokes the method of typ named name that best fits args: the first
// method whose parameters accept the argument types, or else the first
// method with that name.
func (i *Invoker) Call(target any, typ ir.TypeDescriptor, name string, args ...any) (any, error) {
	m, ok := i.dir.Method(typ, name, i.typesOf(args)...)
	if !ok {
		m, ok = i.dir.MethodByName(typ, name)
	}
	if !ok {
		return nil, Errorf(CodeNoSuchMember, "%s has no method %s", typ, name).
			WithDetail("type", keyOf(typ))
	}
	return i.Invoke(target, m, args...)
}

// New constructs a value of typ with the first constructor whose parameters
// accept the argument types. A type with a single constructor uses it
// regardless of the argument types.
func (i *Invoker) New(typ ir.TypeDescriptor, args ...any) (any, error) {
	c, ok := i.dir.Constructor(typ, i.typesOf(args)...)
	if !ok {
		if ctors := i.dir.Constructors(typ); len(ctors) == 1 {
			c, ok = ctors[0], true
		}
	}
	if !ok {
		return nil, Errorf(CodeNoSuchMember, "%s has no matching constructor", typ).
			WithDetail("type", keyOf(typ))
	}
	return i.Invoke(nil, c, args...)
}

// FieldValue reads the field of typ named name from target.
func (i *Invoker) FieldValue(target any, typ ir.TypeDescriptor, name string) (v any, err error) {
	f, ok := i.dir.Field(typ, name)
	if !ok {
		return nil, Errorf(CodeNoSuchMember, "%s has no field %s", typ, name)
	}
	if f.Getter == nil {
		return nil, Errorf(CodeInvocationFailed, "field %s has no accessor", ir.Identity(f))
	}
	if f.Static {
		target = nil
	}
	defer recoverInto(&err, ir.Identity(f))
	v, err = f.Getter(target)
	if err != nil {
		return nil, Wrap(CodeInvocationFailed, err, "reading %s", ir.Identity(f))
	}
	return v, nil
}

// SetFieldValue writes value to the field of typ named name on target.
// A nil value writes the field type's default value.
func (i *Invoker) SetFieldValue(target any, typ ir.TypeDescriptor, name string, value any) (err error) {
	f, ok := i.dir.Field(typ, name)
	if !ok {
		return Errorf(CodeNoSuchMember, "%s has no field %s", typ, name)
	}
	if f.Setter == nil {
		return Errorf(CodeInvocationFailed, "field %s is not settable", ir.Identity(f))
	}
	if f.Static {
		target = nil
	}
	if value == nil {
		value = compat.DefaultValue(f.Type)
	}
	defer recoverInto(&err, ir.Identity(f))
	if err := f.Setter(target, value); err != nil {
		return Wrap(CodeInvocationFailed, err, "writing %s", ir.Identity(f))
	}
	return nil
}

func recoverInto(err *error, id string) {
	if rec := recover(); rec != nil {
		*err = Wrap(CodeInvocationFailed, panicCause(rec), "accessing %s", id)
	}
}

func keyOf(t ir.TypeDescriptor) string {
	if t == nil {
		return ""
	}
	return t.Key()
}
