package compat

import (
	"reflect"

	"github.com/broady/mirror/ir"
)

// Wrap returns the boxed counterpart of a primitive descriptor. Any other
// descriptor, including unknown primitives, is returned unchanged.
func Wrap(t ir.TypeDescriptor) ir.TypeDescriptor {
	c, ok := t.(*ir.ConcreteDescriptor)
	if !ok || !c.IsPrimitive() {
		return t
	}
	k, ok := ir.PrimitiveKindOf(c.Name)
	if !ok {
		return t
	}
	return ir.Boxed(k)
}

// Unwrap returns the primitive counterpart of a boxed descriptor. Any other
// descriptor is returned unchanged.
func Unwrap(t ir.TypeDescriptor) ir.TypeDescriptor {
	c, ok := t.(*ir.ConcreteDescriptor)
	if !ok || !c.IsBoxed() {
		return t
	}
	k, ok := ir.PrimitiveKindOf(c.Name)
	if !ok {
		return t
	}
	return ir.Primitive(k)
}

// IsPrimitive reports whether t is one of the primitive types.
func IsPrimitive(t ir.TypeDescriptor) bool {
	c, ok := t.(*ir.ConcreteDescriptor)
	return ok && c.IsPrimitive()
}

// IsBoxed reports whether t is one of the boxed primitive types.
func IsBoxed(t ir.TypeDescriptor) bool {
	c, ok := t.(*ir.ConcreteDescriptor)
	return ok && c.IsBoxed()
}

func primitiveKind(t ir.TypeDescriptor) (ir.PrimitiveKind, bool) {
	c, ok := t.(*ir.ConcreteDescriptor)
	if !ok || (!c.IsPrimitive() && !c.IsBoxed()) {
		return 0, false
	}
	return ir.PrimitiveKindOf(c.Name)
}

// defaults is the zero value of every primitive kind.
var defaults = map[ir.PrimitiveKind]any{
	ir.PrimitiveBoolean: false,
	ir.PrimitiveByte:    int8(0),
	ir.PrimitiveChar:    uint16(0),
	ir.PrimitiveDouble:  float64(0),
	ir.PrimitiveFloat:   float32(0),
	ir.PrimitiveInt:     int32(0),
	ir.PrimitiveLong:    int64(0),
	ir.PrimitiveShort:   int16(0),
}

// DefaultValue returns the value substituted for a missing argument of type
// t: the zero value for primitives and nil for everything else, boxed types
// included.
func DefaultValue(t ir.TypeDescriptor) any {
	if !IsPrimitive(t) {
		return nil
	}
	k, ok := primitiveKind(t)
	if !ok {
		return nil
	}
	return defaults[k]
}

var goTypes = map[ir.PrimitiveKind]reflect.Type{
	ir.PrimitiveBoolean: reflect.TypeFor[bool](),
	ir.PrimitiveByte:    reflect.TypeFor[int8](),
	ir.PrimitiveChar:    reflect.TypeFor[uint16](),
	ir.PrimitiveDouble:  reflect.TypeFor[float64](),
	ir.PrimitiveFloat:   reflect.TypeFor[float32](),
	ir.PrimitiveInt:     reflect.TypeFor[int32](),
	ir.PrimitiveLong:    reflect.TypeFor[int64](),
	ir.PrimitiveShort:   reflect.TypeFor[int16](),
}

// GoType returns the Go representation of a primitive, boxed or String
// descriptor. Boxed types map to a pointer to the primitive's Go type so
// that absence can be expressed.
func GoType(t ir.TypeDescriptor) (reflect.Type, bool) {
	if ir.Same(t, ir.String()) {
		return reflect.TypeFor[string](), true
	}
	k, ok := primitiveKind(t)
	if !ok {
		return nil, false
	}
	if IsBoxed(t) {
		return reflect.PointerTo(goTypes[k]), true
	}
	return goTypes[k], true
}

// TypeOfValue returns the descriptor of a Go value under the default
// mapping. Go numeric, bool and string values are treated as their boxed
// descriptors (a value is never primitive once it is held in an any).
// Pointers to those types map the same way. It returns nil for nil and for
// values the mapping does not know.
func TypeOfValue(v any) ir.TypeDescriptor {
	if v == nil {
		return nil
	}
	rt := reflect.TypeOf(v)
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	switch rt.Kind() {
	case reflect.String:
		return ir.String()
	case reflect.Bool:
		return ir.Boxed(ir.PrimitiveBoolean)
	case reflect.Int8:
		return ir.Boxed(ir.PrimitiveByte)
	case reflect.Uint16:
		return ir.Boxed(ir.PrimitiveChar)
	case reflect.Int16:
		return ir.Boxed(ir.PrimitiveShort)
	case reflect.Int32:
		return ir.Boxed(ir.PrimitiveInt)
	case reflect.Int64, reflect.Int:
		// Go int is 64 bits wide on every supported platform.
		return ir.Boxed(ir.PrimitiveLong)
	case reflect.Float32:
		return ir.Boxed(ir.PrimitiveFloat)
	case reflect.Float64:
		return ir.Boxed(ir.PrimitiveDouble)
	}
	return nil
}
