package ir

import "testing"

func TestPrimitiveKind_Names(t *testing.T) {
	tests := []struct {
		kind  PrimitiveKind
		prim  string
		boxed string
	}{
		{PrimitiveBoolean, "boolean", "Boolean"},
		{PrimitiveByte, "byte", "Byte"},
		{PrimitiveChar, "char", "Character"},
		{PrimitiveDouble, "double", "Double"},
		{PrimitiveFloat, "float", "Float"},
		{PrimitiveInt, "int", "Integer"},
		{PrimitiveLong, "long", "Long"},
		{PrimitiveShort, "short", "Short"},
		{PrimitiveKind(999), "Unknown", "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.prim, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.prim {
				t.Errorf("String() = %q, want %q", got, tt.prim)
			}
			if got := tt.kind.BoxedName(); got != tt.boxed {
				t.Errorf("BoxedName() = %q, want %q", got, tt.boxed)
			}
		})
	}
}

func TestPrimitiveKindOf(t *testing.T) {
	for _, k := range Primitives() {
		if got, ok := PrimitiveKindOf(k.String()); !ok || got != k {
			t.Errorf("PrimitiveKindOf(%q) = %v, %v", k.String(), got, ok)
		}
		if got, ok := PrimitiveKindOf(k.BoxedName()); !ok || got != k {
			t.Errorf("PrimitiveKindOf(%q) = %v, %v", k.BoxedName(), got, ok)
		}
	}
	if _, ok := PrimitiveKindOf("String"); ok {
		t.Error("String is not a primitive")
	}
}

func TestPrimitiveConstructors(t *testing.T) {
	p := Primitive(PrimitiveLong)
	if !p.IsPrimitive() || p.IsBoxed() || p.Name != "long" {
		t.Errorf("Primitive(PrimitiveLong) = %+v", p)
	}
	b := Boxed(PrimitiveLong)
	if !b.IsBoxed() || b.IsPrimitive() || b.Name != "Long" {
		t.Errorf("Boxed(PrimitiveLong) = %+v", b)
	}
	if !IsRoot(Object()) || IsRoot(Ref(ObjectName, "other")) || IsRoot(Number()) {
		t.Error("IsRoot should only accept the built-in Object")
	}
}

func TestPrimitiveKind_Numeric(t *testing.T) {
	for _, k := range Primitives() {
		want := k != PrimitiveBoolean && k != PrimitiveChar
		if got := k.Numeric(); got != want {
			t.Errorf("%s.Numeric() = %v, want %v", k, got, want)
		}
	}
}
