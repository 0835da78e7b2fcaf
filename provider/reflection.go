// Package provider builds platform registries from Go code.
//
// ReflectionProvider inspects runtime types and produces invocable members.
// SourceProvider analyzes source with go/packages and keeps full generic
// information, so that type arguments can be resolved across embedding
// chains.
//
// Both map Go constructs onto the descriptor model the same way: the first
// embedded struct is the superclass, embedded interfaces are implemented
// interfaces, and Go basic types map onto the primitive table (bool to
// boolean, int8 to byte, uint16 to char, int16 to short, int32 to int, int
// and int64 to long, float32 to float, float64 to double). Pointers to those
// basic types are the boxed counterparts.
package provider

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"runtime"
	"slices"
	"strings"

	"github.com/broady/mirror/ir"
	"github.com/broady/mirror/platform"
)

// ReflectionProvider extracts types using runtime reflection.
// Reflection cannot see type parameters: instantiated generic types are
// declared under their base name. Use SourceProvider for generic
// information.
type ReflectionProvider struct{}

// StaticFunc declares a package-level function as a static method of Owner.
type StaticFunc struct {
	Owner reflect.Type
	Name  string
	Fn    any
}

// ReflectionInputOptions configures reflection-based type extraction.
type ReflectionInputOptions struct {
	// RootTypes are the types to extract, specified as reflect.Type values.
	// Their embedded ancestors are extracted as well.
	RootTypes []reflect.Type

	// Constructors are functions returning a root type (or a pointer to
	// one). Each becomes a constructor of the type it returns.
	Constructors []any

	// Statics are functions declared as static methods.
	Statics []StaticFunc
}

// Registry is a platform registry built by reflection. It also names the
// runtime type of values of the extracted types.
type Registry struct {
	*platform.Registry

	types map[reflect.Type]*ir.ConcreteDescriptor
}

// TypeOfValue implements platform.ValueTyper.
func (r *Registry) TypeOfValue(v any) (ir.TypeDescriptor, bool) {
	if v == nil {
		return nil, false
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	d, ok := r.types[t]
	return d, ok
}

// BuildRegistry extracts the root types and their ancestors.
func (p *ReflectionProvider) BuildRegistry(ctx context.Context, opts ReflectionInputOptions) (*Registry, error) {
	if len(opts.RootTypes) == 0 {
		return nil, fmt.Errorf("no root types provided")
	}

	b := &reflectionBuilder{
		specs: make(map[reflect.Type]*platform.Builder),
		types: make(map[reflect.Type]*ir.ConcreteDescriptor),
		keys:  make(map[string]bool),
	}
	for _, t := range opts.RootTypes {
		if err := b.extractType(ctx, t); err != nil {
			return nil, err
		}
	}
	for _, fn := range opts.Constructors {
		if err := b.addConstructor(fn); err != nil {
			return nil, err
		}
	}
	for _, s := range opts.Statics {
		if err := b.addStatic(s); err != nil {
			return nil, err
		}
	}

	reg := platform.NewRegistry()
	for _, t := range b.order {
		if err := reg.Declare(b.specs[t].Spec()); err != nil {
			return nil, fmt.Errorf("failed to declare %s: %w", t, err)
		}
	}
	return &Registry{Registry: reg, types: b.types}, nil
}

// reflectionBuilder maintains state during registry construction.
type reflectionBuilder struct {
	specs map[reflect.Type]*platform.Builder
	types map[reflect.Type]*ir.ConcreteDescriptor
	keys  map[string]bool
	order []reflect.Type
}

// extractType declares t and, recursively, the types it embeds.
func (b *reflectionBuilder) extractType(ctx context.Context, t reflect.Type) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if _, ok := b.specs[t]; ok {
		return nil
	}
	if t.Name() == "" {
		return fmt.Errorf("type %s is not a named type", t)
	}

	self := b.named(t)
	if b.keys[self.Key()] {
		// Another instantiation of the same generic type.
		return nil
	}
	b.keys[self.Key()] = true

	var spec *platform.Builder
	if t.Kind() == reflect.Interface {
		spec = platform.Interface(self.Name).In(self.Package)
	} else {
		spec = platform.Class(self.Name).In(self.Package)
	}
	b.specs[t] = spec
	b.types[t] = self
	b.order = append(b.order, t)

	if t.Kind() == reflect.Struct {
		if err := b.extractFields(ctx, t, spec); err != nil {
			return err
		}
	}
	if t.Kind() == reflect.Interface {
		for i := 0; i < t.NumMethod(); i++ {
			m := t.Method(i)
			spec.Method(b.methodSpec(m.Name, m.Type, 0, interfaceCall(m.Name)))
		}
		return nil
	}
	b.extractMethods(t, spec)
	return nil
}

// extractFields maps embedded types to ancestry and the rest to fields.
func (b *reflectionBuilder) extractFields(ctx context.Context, t reflect.Type, spec *platform.Builder) error {
	hasSuper := false
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			et := f.Type
			for et.Kind() == reflect.Pointer {
				et = et.Elem()
			}
			switch {
			case et.Kind() == reflect.Interface && et.Name() != "":
				if err := b.extractType(ctx, et); err != nil {
					return err
				}
				spec.Implements(b.named(et))
				continue
			case et.Kind() == reflect.Struct && et.Name() != "" && !hasSuper:
				if err := b.extractType(ctx, et); err != nil {
					return err
				}
				spec.Extends(b.named(et))
				hasSuper = true
				continue
			}
		}

		fs := platform.FieldSpec{
			Name:   f.Name,
			Type:   b.describe(f.Type),
			Access: ir.Package,
		}
		if f.IsExported() {
			fs.Access = ir.Public
			fs.Getter = fieldGetter(t, i)
			fs.Setter = fieldSetter(t, i)
		}
		spec.FieldSpec(fs)
	}
	return nil
}

// extractMethods declares the methods t declares itself. Methods promoted
// from embedded fields are skipped.
func (b *reflectionBuilder) extractMethods(t reflect.Type, spec *platform.Builder) {
	seen := make(map[string]bool)
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		seen[m.Name] = true
		if isPromoted(t, m) {
			continue
		}
		spec.Method(b.methodSpec(m.Name, m.Type, 1, methodCall(t, m, false)))
	}

	pt := reflect.PointerTo(t)
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		if seen[m.Name] || isPromoted(t, m) {
			continue
		}
		spec.Method(b.methodSpec(m.Name, m.Type, 1, methodCall(t, m, true)))
	}
}

// isPromoted reports whether m reaches t through an embedded field rather
// than being declared on t. The compiler marks promotion wrappers as
// autogenerated.
func isPromoted(t reflect.Type, m reflect.Method) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	embedded := false
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		if _, ok := f.Type.MethodByName(m.Name); ok {
			embedded = true
			break
		}
		if f.Type.Kind() != reflect.Pointer && f.Type.Kind() != reflect.Interface {
			if _, ok := reflect.PointerTo(f.Type).MethodByName(m.Name); ok {
				embedded = true
				break
			}
		}
	}
	if !embedded {
		return false
	}
	fn := runtime.FuncForPC(m.Func.Pointer())
	if fn == nil {
		return true
	}
	file, _ := fn.FileLine(fn.Entry())
	return file == "<autogenerated>"
}

// methodSpec describes a function type as a method. skip is the number of
// leading inputs that are not parameters (the receiver).
func (b *reflectionBuilder) methodSpec(name string, ft reflect.Type, skip int, impl ir.Callable) platform.MethodSpec {
	ms := platform.MethodSpec{Name: name, Access: ir.Public, Impl: impl}
	for i := skip; i < ft.NumIn(); i++ {
		ms.Params = append(ms.Params, b.describe(ft.In(i)))
	}
	if out := results(ft); len(out) > 0 {
		ms.Return = b.describe(out[0])
	}
	return ms
}

func (b *reflectionBuilder) addConstructor(fn any) error {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		return fmt.Errorf("constructor %T is not a function", fn)
	}
	out := results(fv.Type())
	if len(out) == 0 {
		return fmt.Errorf("constructor %s returns nothing", fv.Type())
	}
	owner := out[0]
	for owner.Kind() == reflect.Pointer {
		owner = owner.Elem()
	}
	spec, ok := b.specs[owner]
	if !ok {
		return fmt.Errorf("constructor %s returns %s, which is not a root type", fv.Type(), owner)
	}
	ms := b.methodSpec(ir.ConstructorName, fv.Type(), 0, funcCall(fv))
	spec.Constructor(platform.ConstructorSpec{Params: ms.Params, Access: ir.Public, Impl: ms.Impl})
	return nil
}

func (b *reflectionBuilder) addStatic(s StaticFunc) error {
	owner := s.Owner
	for owner != nil && owner.Kind() == reflect.Pointer {
		owner = owner.Elem()
	}
	spec, ok := b.specs[owner]
	if !ok {
		return fmt.Errorf("static %s: owner %v is not a root type", s.Name, s.Owner)
	}
	fv := reflect.ValueOf(s.Fn)
	if fv.Kind() != reflect.Func {
		return fmt.Errorf("static %s is not a function", s.Name)
	}
	spec.StaticMethod(b.methodSpec(s.Name, fv.Type(), 0, funcCall(fv)))
	return nil
}

// named returns the descriptor of a named Go type.
func (b *reflectionBuilder) named(t reflect.Type) *ir.ConcreteDescriptor {
	name := t.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if t.Kind() == reflect.Interface {
		return ir.Interface(name, t.PkgPath())
	}
	return ir.Ref(name, t.PkgPath())
}

// describe maps a Go type onto a type descriptor.
func (b *reflectionBuilder) describe(t reflect.Type) ir.TypeDescriptor {
	if k, ok := primitiveKind(t); ok {
		return ir.Primitive(k)
	}
	switch t.Kind() {
	case reflect.Pointer:
		if k, ok := primitiveKind(t.Elem()); ok {
			return ir.Boxed(k)
		}
		return b.describe(t.Elem())
	case reflect.Slice, reflect.Array:
		return ir.ArrayOf(b.describe(t.Elem()))
	case reflect.String:
		if t.PkgPath() == "" {
			return ir.String()
		}
	case reflect.Interface:
		if t.Name() == "" && t.NumMethod() == 0 {
			return ir.Object()
		}
	}
	if t.Name() != "" {
		return b.named(t)
	}
	return ir.Ref(t.String(), "")
}

// primitiveKind maps unnamed Go basic types onto the primitive table.
func primitiveKind(t reflect.Type) (ir.PrimitiveKind, bool) {
	if t.PkgPath() != "" {
		return 0, false
	}
	switch t.Kind() {
	case reflect.Bool:
		return ir.PrimitiveBoolean, true
	case reflect.Int8:
		return ir.PrimitiveByte, true
	case reflect.Uint16:
		return ir.PrimitiveChar, true
	case reflect.Int16:
		return ir.PrimitiveShort, true
	case reflect.Int32:
		return ir.PrimitiveInt, true
	case reflect.Int, reflect.Int64:
		return ir.PrimitiveLong, true
	case reflect.Float32:
		return ir.PrimitiveFloat, true
	case reflect.Float64:
		return ir.PrimitiveDouble, true
	}
	return 0, false
}

var errorType = reflect.TypeFor[error]()

// results returns the non-error results of a function type.
func results(ft reflect.Type) []reflect.Type {
	var out []reflect.Type
	for i := 0; i < ft.NumOut(); i++ {
		if i == ft.NumOut()-1 && ft.Out(i) == errorType {
			break
		}
		out = append(out, ft.Out(i))
	}
	return out
}

// locate finds the value of type want inside v, following embedded fields.
func locate(v reflect.Value, want reflect.Type) (reflect.Value, bool) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if v.Type() == want {
		return v, true
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	for i := 0; i < v.NumField(); i++ {
		if !v.Type().Field(i).Anonymous {
			continue
		}
		if found, ok := locate(v.Field(i), want); ok {
			return found, true
		}
	}
	return reflect.Value{}, false
}

func fieldGetter(owner reflect.Type, index int) func(any) (any, error) {
	return func(target any) (any, error) {
		v, ok := locate(reflect.ValueOf(target), owner)
		if !ok {
			return nil, fmt.Errorf("%T does not contain %s", target, owner)
		}
		return v.Field(index).Interface(), nil
	}
}

func fieldSetter(owner reflect.Type, index int) func(any, any) error {
	return func(target any, value any) error {
		v, ok := locate(reflect.ValueOf(target), owner)
		if !ok {
			return fmt.Errorf("%T does not contain %s", target, owner)
		}
		f := v.Field(index)
		if !f.CanSet() {
			return fmt.Errorf("field %s of %T is not settable; pass a pointer", owner.Field(index).Name, target)
		}
		av, err := convertArg(value, f.Type())
		if err != nil {
			return err
		}
		f.Set(av)
		return nil
	}
}

// methodCall dispatches method m of owner. Pointer-receiver methods need
// an addressable receiver.
func methodCall(owner reflect.Type, m reflect.Method, pointer bool) ir.Callable {
	return func(target any, args []any) (any, error) {
		recv, ok := locate(reflect.ValueOf(target), owner)
		if !ok {
			return nil, fmt.Errorf("%T does not contain %s", target, owner)
		}
		if pointer {
			if !recv.CanAddr() {
				return nil, fmt.Errorf("method %s of %s requires a pointer receiver", m.Name, owner)
			}
			recv = recv.Addr()
		}
		return call(m.Func, []reflect.Value{recv}, args)
	}
}

func interfaceCall(name string) ir.Callable {
	return func(target any, args []any) (any, error) {
		if target == nil {
			return nil, fmt.Errorf("method %s requires a target", name)
		}
		fn := reflect.ValueOf(target).MethodByName(name)
		if !fn.IsValid() {
			return nil, fmt.Errorf("%T has no method %s", target, name)
		}
		return call(fn, nil, args)
	}
}

func funcCall(fv reflect.Value) ir.Callable {
	return func(_ any, args []any) (any, error) {
		return call(fv, nil, args)
	}
}

// call invokes fn with lead followed by args, the latter converted to the
// function's parameter types.
func call(fn reflect.Value, lead []reflect.Value, args []any) (any, error) {
	ft := fn.Type()
	if want := ft.NumIn() - len(lead); len(args) != want {
		return nil, fmt.Errorf("got %d arguments, want %d", len(args), want)
	}
	in := slices.Clone(lead)
	for i, a := range args {
		av, err := convertArg(a, ft.In(len(lead)+i))
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		in = append(in, av)
	}

	var out []reflect.Value
	if ft.IsVariadic() {
		out = fn.CallSlice(in)
	} else {
		out = fn.Call(in)
	}

	var err error
	if n := len(out); n > 0 && ft.Out(n-1) == errorType {
		if e := out[n-1].Interface(); e != nil {
			err = e.(error)
		}
		out = out[:n-1]
	}
	switch len(out) {
	case 0:
		return nil, err
	case 1:
		return out[0].Interface(), err
	default:
		vals := make([]any, len(out))
		for i, o := range out {
			vals[i] = o.Interface()
		}
		return vals, err
	}
}

// convertArg converts a loosely typed argument to t. Conversions that
// would change the value, or reinterpret an integer as a string, fail.
func convertArg(a any, t reflect.Type) (reflect.Value, error) {
	if a == nil {
		return reflect.Zero(t), nil
	}
	av := reflect.ValueOf(a)
	switch {
	case av.Type().AssignableTo(t):
		return av, nil
	case convertible(av, t):
		return av.Convert(t), nil
	case t.Kind() == reflect.Pointer && convertible(av, t.Elem()):
		p := reflect.New(t.Elem())
		p.Elem().Set(av.Convert(t.Elem()))
		return p, nil
	}
	return reflect.Value{}, errors.New("cannot use " + av.Type().String() + " as " + t.String())
}

// convertible reports whether v converts to t without loss. Named types
// convert to their underlying kind; numbers convert within the integer or
// the floating point class only.
func convertible(v reflect.Value, t reflect.Type) bool {
	from := v.Type()
	if !from.ConvertibleTo(t) {
		return false
	}
	if from.Kind() != t.Kind() {
		fc, tc := numericClass(from.Kind()), numericClass(t.Kind())
		if fc == 0 || fc != tc {
			return false
		}
	}
	if !from.Comparable() || (numericClass(from.Kind()) == 2 && math.IsNaN(v.Float())) {
		return true
	}
	return v.Convert(t).Convert(from).Interface() == v.Interface()
}

func numericClass(k reflect.Kind) int {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return 1
	case reflect.Float32, reflect.Float64:
		return 2
	}
	return 0
}
