package ir

// PrimitiveKind identifies one of the eight primitive value types.
// Each primitive has exactly one boxed (nullable reference) counterpart.
type PrimitiveKind int

const (
	PrimitiveBoolean PrimitiveKind = iota + 1
	PrimitiveByte
	PrimitiveChar
	PrimitiveDouble
	PrimitiveFloat
	PrimitiveInt
	PrimitiveLong
	PrimitiveShort
)

var primitiveNames = [...]struct{ prim, boxed string }{
	PrimitiveBoolean: {"boolean", "Boolean"},
	PrimitiveByte:    {"byte", "Byte"},
	PrimitiveChar:    {"char", "Character"},
	PrimitiveDouble:  {"double", "Double"},
	PrimitiveFloat:   {"float", "Float"},
	PrimitiveInt:     {"int", "Integer"},
	PrimitiveLong:    {"long", "Long"},
	PrimitiveShort:   {"short", "Short"},
}

// Primitives returns every primitive kind in table order.
func Primitives() []PrimitiveKind {
	return []PrimitiveKind{
		PrimitiveBoolean,
		PrimitiveByte,
		PrimitiveChar,
		PrimitiveDouble,
		PrimitiveFloat,
		PrimitiveInt,
		PrimitiveLong,
		PrimitiveShort,
	}
}

// Valid reports whether k is one of the eight primitive kinds.
func (k PrimitiveKind) Valid() bool {
	return k >= PrimitiveBoolean && k <= PrimitiveShort
}

// String returns the primitive type name, e.g. "int".
func (k PrimitiveKind) String() string {
	if !k.Valid() {
		return "Unknown"
	}
	return primitiveNames[k].prim
}

// BoxedName returns the name of the boxed counterpart, e.g. "Integer".
func (k PrimitiveKind) BoxedName() string {
	if !k.Valid() {
		return "Unknown"
	}
	return primitiveNames[k].boxed
}

// Numeric reports whether the kind is a number (char excluded).
func (k PrimitiveKind) Numeric() bool {
	return k.Valid() && k != PrimitiveBoolean && k != PrimitiveChar
}

// PrimitiveKindOf returns the primitive kind named by a primitive name
// ("int") or a boxed name ("Integer").
func PrimitiveKindOf(name string) (PrimitiveKind, bool) {
	for _, k := range Primitives() {
		if primitiveNames[k].prim == name || primitiveNames[k].boxed == name {
			return k, true
		}
	}
	return 0, false
}

// Primitive returns the descriptor of primitive kind k.
func Primitive(k PrimitiveKind) *ConcreteDescriptor {
	return &ConcreteDescriptor{Name: k.String(), ConcreteKind: ConcretePrimitive}
}

// Boxed returns the descriptor of the boxed counterpart of k.
func Boxed(k PrimitiveKind) *ConcreteDescriptor {
	return &ConcreteDescriptor{Name: k.BoxedName(), ConcreteKind: ConcreteBoxed}
}

// Names of the built-in reference types every platform provides.
const (
	ObjectName = "Object"
	NumberName = "Number"
	StringName = "String"
)

// Object returns the root reference type.
func Object() *ConcreteDescriptor { return Ref(ObjectName, "") }

// Number returns the common supertype of the numeric boxed types.
func Number() *ConcreteDescriptor { return Ref(NumberName, "") }

// String returns the built-in string reference type.
func String() *ConcreteDescriptor { return Ref(StringName, "") }

// IsRoot reports whether t is the root Object type.
func IsRoot(t TypeDescriptor) bool {
	c, ok := t.(*ConcreteDescriptor)
	return ok && c.ConcreteKind == ConcreteReference && c.Package == "" && c.Name == ObjectName
}
