package platform

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/broady/mirror/ir"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		m := sl.Current().Interface().(MethodSpec)
		if len(m.ParamNames) > 0 && len(m.ParamNames) != len(m.Params) {
			sl.ReportError(m.ParamNames, "ParamNames", "ParamNames", "eqparams", "")
		}
	}, MethodSpec{})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		c := sl.Current().Interface().(ConstructorSpec)
		if len(c.ParamNames) > 0 && len(c.ParamNames) != len(c.Params) {
			sl.ReportError(c.ParamNames, "ParamNames", "ParamNames", "eqparams", "")
		}
	}, ConstructorSpec{})
	return v
}

// Registry is an in-memory Platform. Types are declared up front with
// Declare; lookups are safe for concurrent use with declarations.
type Registry struct {
	mu     sync.RWMutex
	types  map[string]*typeEntry
	order  []string
	logger *slog.Logger
}

type typeEntry struct {
	self       *ir.ConcreteDescriptor
	params     []*ir.VariableDescriptor
	super      ir.TypeDescriptor
	interfaces []ir.TypeDescriptor
	fields     []*ir.FieldDescriptor
	methods    []*ir.MethodDescriptor
	ctors      []*ir.ConstructorDescriptor
}

// NewRegistry returns a registry seeded with the built-in types: Object,
// Number, String and the boxed primitives. Numeric boxed types extend Number.
func NewRegistry() *Registry {
	r := &Registry{types: make(map[string]*typeEntry)}
	r.seed()
	return r
}

func (r *Registry) seed() {
	r.put(&typeEntry{self: ir.Object()})
	r.put(&typeEntry{self: ir.Number()})
	r.put(&typeEntry{self: ir.String()})
	for _, k := range ir.Primitives() {
		e := &typeEntry{self: ir.Boxed(k)}
		if k.Numeric() {
			e.super = ir.Number()
		}
		r.put(e)
	}
}

// WithLogger sets a custom logger for the registry.
// If not set, slog.Default() will be used.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

func (r *Registry) log() *slog.Logger {
	if r.logger == nil {
		return slog.Default()
	}
	return r.logger
}

// Declare validates spec and registers the type it describes.
// If a type with the same key is already registered it is replaced and a
// warning is logged.
func (r *Registry) Declare(spec TypeSpec) error {
	if err := validate.Struct(spec); err != nil {
		return fmt.Errorf("invalid declaration of %s: %w", spec.Name, err)
	}
	if spec.Interface && spec.Super != nil {
		return fmt.Errorf("invalid declaration of %s: interfaces cannot have a superclass", spec.Name)
	}

	self := spec.descriptor()
	e := &typeEntry{
		self:       self,
		super:      spec.Super,
		interfaces: slices.Clone(spec.Interfaces),
	}
	for _, name := range spec.TypeParams {
		e.params = append(e.params, ir.Var(name, self.Key()))
	}
	for _, f := range spec.Fields {
		e.fields = append(e.fields, &ir.FieldDescriptor{
			Name:      f.Name,
			Type:      f.Type,
			Declaring: self,
			Access:    f.Access,
			Static:    f.Static,
			Getter:    f.Getter,
			Setter:    f.Setter,
		})
	}
	for _, m := range spec.Methods {
		e.methods = append(e.methods, &ir.MethodDescriptor{
			Name:       m.Name,
			Params:     slices.Clone(m.Params),
			ParamNames: slices.Clone(m.ParamNames),
			Return:     m.Return,
			Declaring:  self,
			Static:     m.Static,
			Access:     m.Access,
			Impl:       m.Impl,
		})
	}
	for _, c := range spec.Constructors {
		e.ctors = append(e.ctors, &ir.ConstructorDescriptor{
			Params:     slices.Clone(c.Params),
			ParamNames: slices.Clone(c.ParamNames),
			Declaring:  self,
			Access:     c.Access,
			Impl:       c.Impl,
		})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[self.Key()]; exists {
		r.log().Warn("duplicate type declaration",
			slog.String("type", self.Key()))
	}
	r.put(e)
	return nil
}

// MustDeclare is like Declare but panics on invalid declarations.
// It returns the declared type's descriptor.
func (r *Registry) MustDeclare(spec TypeSpec) *ir.ConcreteDescriptor {
	if err := r.Declare(spec); err != nil {
		panic("platform: " + err.Error())
	}
	return spec.descriptor()
}

// put stores e. Callers hold the write lock, or own r exclusively.
func (r *Registry) put(e *typeEntry) {
	key := e.self.Key()
	if _, exists := r.types[key]; !exists {
		r.order = append(r.order, key)
	}
	r.types[key] = e
}

func (r *Registry) entry(t *ir.ConcreteDescriptor) *typeEntry {
	if t == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.types[t.Key()]
}

// Lookup returns the registered type with the given key.
func (r *Registry) Lookup(key string) (*ir.ConcreteDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.types[key]
	if !ok {
		return nil, false
	}
	return e.self, true
}

// Types returns every registered type in declaration order, built-ins first.
func (r *Registry) Types() []*ir.ConcreteDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*ir.ConcreteDescriptor, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.types[key].self)
	}
	return out
}

// Superclass implements Hierarchy. Registered classes without an explicit
// superclass extend the root type; arrays extend the root type as well.
func (r *Registry) Superclass(t *ir.ConcreteDescriptor) ir.TypeDescriptor {
	if t == nil {
		return nil
	}
	if t.ConcreteKind == ir.ConcreteArray {
		return ir.Object()
	}
	e := r.entry(t)
	if e == nil || e.self.IsInterface() || ir.IsRoot(e.self) {
		return nil
	}
	if e.super == nil {
		return ir.Object()
	}
	return e.super
}

// Interfaces implements Hierarchy.
func (r *Registry) Interfaces(t *ir.ConcreteDescriptor) []ir.TypeDescriptor {
	if e := r.entry(t); e != nil {
		return slices.Clone(e.interfaces)
	}
	return nil
}

// TypeParameters implements Hierarchy.
func (r *Registry) TypeParameters(t *ir.ConcreteDescriptor) []*ir.VariableDescriptor {
	if e := r.entry(t); e != nil {
		return slices.Clone(e.params)
	}
	return nil
}

// DeclaredFields implements Platform.
func (r *Registry) DeclaredFields(t *ir.ConcreteDescriptor) []*ir.FieldDescriptor {
	if e := r.entry(t); e != nil {
		return slices.Clone(e.fields)
	}
	return nil
}

// DeclaredMethods implements Platform.
func (r *Registry) DeclaredMethods(t *ir.ConcreteDescriptor) []*ir.MethodDescriptor {
	if e := r.entry(t); e != nil {
		return slices.Clone(e.methods)
	}
	return nil
}

// DeclaredConstructors implements Platform.
func (r *Registry) DeclaredConstructors(t *ir.ConcreteDescriptor) []*ir.ConstructorDescriptor {
	if e := r.entry(t); e != nil {
		return slices.Clone(e.ctors)
	}
	return nil
}
