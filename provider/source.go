package provider

import (
	"context"
	"fmt"
	"go/types"
	"strings"

	"github.com/broady/mirror/ir"
	"github.com/broady/mirror/platform"
	"golang.org/x/tools/go/packages"
)

// SourceProvider extracts types by analyzing Go source code.
// Members it declares carry no implementation; the resulting registry
// answers structural questions only.
type SourceProvider struct{}

// SourceInputOptions configures source-based type extraction.
type SourceInputOptions struct {
	// Packages are the Go package paths to analyze.
	Packages []string

	// RootTypes are the type names to extract (e.g., "Leaf").
	// If empty, all exported types in the packages are extracted.
	// Embedded types are always extracted along with their embedders.
	RootTypes []string

	// Dir is the directory packages are resolved from. Empty means the
	// current directory.
	Dir string
}

// BuildRegistry analyzes source code and returns a registry of the root
// types and everything they embed.
func (p *SourceProvider) BuildRegistry(ctx context.Context, opts SourceInputOptions) (*platform.Registry, error) {
	if len(opts.Packages) == 0 {
		return nil, fmt.Errorf("no packages specified")
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     opts.Dir,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedCompiledGoFiles |
			packages.NeedImports |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo,
	}

	pkgs, err := packages.Load(cfg, opts.Packages...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("package %s has errors: %v", pkg.PkgPath, pkg.Errors)
		}
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found")
	}

	b := &sourceBuilder{
		pkgs: pkgs,
		reg:  platform.NewRegistry(),
		seen: make(map[*types.TypeName]bool),
	}

	if len(opts.RootTypes) > 0 {
		for _, name := range opts.RootTypes {
			if err := b.extractRootType(name); err != nil {
				return nil, fmt.Errorf("failed to extract root type %s: %w", name, err)
			}
		}
	} else if err := b.extractAllExportedTypes(); err != nil {
		return nil, fmt.Errorf("failed to extract exported types: %w", err)
	}
	return b.reg, nil
}

// sourceBuilder accumulates declarations during extraction.
type sourceBuilder struct {
	pkgs []*packages.Package
	reg  *platform.Registry
	seen map[*types.TypeName]bool
}

func (b *sourceBuilder) extractRootType(name string) error {
	for _, pkg := range b.pkgs {
		tn, ok := pkg.Types.Scope().Lookup(name).(*types.TypeName)
		if !ok {
			continue
		}
		return b.extractNamedType(tn)
	}
	return fmt.Errorf("type %s not found in any package", name)
}

func (b *sourceBuilder) extractAllExportedTypes() error {
	for _, pkg := range b.pkgs {
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			obj := scope.Lookup(name)
			if !obj.Exported() {
				continue
			}
			tn, ok := obj.(*types.TypeName)
			if !ok {
				continue
			}
			if err := b.extractNamedType(tn); err != nil {
				return err
			}
		}
	}
	return nil
}

// extractNamedType declares a named type and, first, the types it embeds.
func (b *sourceBuilder) extractNamedType(tn *types.TypeName) error {
	if tn.IsAlias() {
		return nil
	}
	named, ok := tn.Type().(*types.Named)
	if !ok || b.seen[tn] {
		return nil
	}
	b.seen[tn] = true

	self := b.self(named)
	sc := &scope{site: self.Key()}
	var spec *platform.Builder
	if self.IsInterface() {
		spec = platform.Interface(self.Name).In(self.Package)
	} else {
		spec = platform.Class(self.Name).In(self.Package)
	}
	if tps := named.TypeParams(); tps.Len() > 0 {
		names := make([]string, tps.Len())
		for i := range tps.Len() {
			names[i] = tps.At(i).Obj().Name()
		}
		spec.TypeParams(names...)
	}

	switch u := named.Underlying().(type) {
	case *types.Struct:
		if err := b.extractStruct(u, spec, sc); err != nil {
			return err
		}
	case *types.Interface:
		for i := range u.NumEmbeddeds() {
			emb, ok := types.Unalias(u.EmbeddedType(i)).(*types.Named)
			if !ok {
				continue
			}
			if err := b.extractNamedType(emb.Origin().Obj()); err != nil {
				return err
			}
			spec.Implements(b.convertType(emb, sc))
		}
		for i := range u.NumExplicitMethods() {
			spec.Method(b.methodSpec(u.ExplicitMethod(i), sc))
		}
	}

	for i := range named.NumMethods() {
		fn := named.Method(i)
		spec.Method(b.methodSpec(fn, sc.receiver(fn)))
	}
	b.addConstructors(tn, spec, sc)

	return b.reg.Declare(spec.Spec())
}

// extractStruct maps embedded fields to ancestry and the rest to fields.
func (b *sourceBuilder) extractStruct(st *types.Struct, spec *platform.Builder, sc *scope) error {
	hasSuper := false
	for i := range st.NumFields() {
		f := st.Field(i)
		if f.Embedded() {
			ft := types.Unalias(f.Type())
			if p, ok := ft.(*types.Pointer); ok {
				ft = types.Unalias(p.Elem())
			}
			if n, ok := ft.(*types.Named); ok && n.Obj().Pkg() != nil {
				_, isIface := n.Underlying().(*types.Interface)
				_, isStruct := n.Underlying().(*types.Struct)
				if isIface || (isStruct && !hasSuper) {
					if err := b.extractNamedType(n.Origin().Obj()); err != nil {
						return err
					}
					if isIface {
						spec.Implements(b.convertType(n, sc))
					} else {
						spec.Extends(b.convertType(n, sc))
						hasSuper = true
					}
					continue
				}
			}
		}
		spec.Field(f.Name(), b.convertType(f.Type(), sc), visibility(f.Exported()))
	}
	return nil
}

// addConstructors declares package functions named New<Type> that return
// the type as constructors.
func (b *sourceBuilder) addConstructors(tn *types.TypeName, spec *platform.Builder, sc *scope) {
	fn, ok := tn.Pkg().Scope().Lookup("New" + tn.Name()).(*types.Func)
	if !ok {
		return
	}
	sig := fn.Signature()
	if sig.Results().Len() == 0 {
		return
	}
	rt := types.Unalias(sig.Results().At(0).Type())
	if p, ok := rt.(*types.Pointer); ok {
		rt = types.Unalias(p.Elem())
	}
	if n, ok := rt.(*types.Named); !ok || n.Origin().Obj() != tn {
		return
	}
	ms := b.methodSpec(fn, sc)
	spec.Constructor(platform.ConstructorSpec{
		Params:     ms.Params,
		ParamNames: ms.ParamNames,
		Access:     visibility(fn.Exported()),
	})
}

func (b *sourceBuilder) methodSpec(fn *types.Func, sc *scope) platform.MethodSpec {
	sig := fn.Signature()
	ms := platform.MethodSpec{Name: fn.Name(), Access: visibility(fn.Exported())}
	for i := range sig.Params().Len() {
		p := sig.Params().At(i)
		ms.Params = append(ms.Params, b.convertType(p.Type(), sc))
		ms.ParamNames = append(ms.ParamNames, p.Name())
	}
	res := sig.Results()
	n := res.Len()
	if n > 0 && isError(res.At(n-1).Type()) {
		n--
	}
	if n > 0 {
		ms.Return = b.convertType(res.At(0).Type(), sc)
	}
	if !hasNames(ms.ParamNames) {
		ms.ParamNames = nil
	}
	return ms
}

func (b *sourceBuilder) self(named *types.Named) *ir.ConcreteDescriptor {
	obj := named.Obj()
	pkg := ""
	if obj.Pkg() != nil {
		pkg = obj.Pkg().Path()
	}
	if _, ok := named.Underlying().(*types.Interface); ok {
		return ir.Interface(obj.Name(), pkg)
	}
	return ir.Ref(obj.Name(), pkg)
}

// scope resolves type parameter names to variables of a declaring site.
// Methods may rename their receiver's type parameters; names maps those
// back to the declared names.
type scope struct {
	site  string
	names map[string]string
}

func (s *scope) receiver(fn *types.Func) *scope {
	rtps := fn.Signature().RecvTypeParams()
	if rtps.Len() == 0 {
		return s
	}
	recv := fn.Signature().Recv().Type()
	if p, ok := recv.(*types.Pointer); ok {
		recv = p.Elem()
	}
	named, ok := recv.(*types.Named)
	if !ok {
		return s
	}
	declared := named.Origin().TypeParams()
	out := &scope{site: s.site, names: make(map[string]string, rtps.Len())}
	for i := range min(rtps.Len(), declared.Len()) {
		out.names[rtps.At(i).Obj().Name()] = declared.At(i).Obj().Name()
	}
	return out
}

// convertType maps a go/types type onto a type descriptor.
func (b *sourceBuilder) convertType(t types.Type, sc *scope) ir.TypeDescriptor {
	switch typ := types.Unalias(t).(type) {
	case *types.Basic:
		if typ.Kind() == types.String {
			return ir.String()
		}
		if k, ok := basicKind(typ); ok {
			return ir.Primitive(k)
		}
		return ir.Ref(typ.Name(), "")

	case *types.Named:
		if typ.Obj().Pkg() == nil {
			// Predeclared: error and comparable.
			return b.self(typ)
		}
		base := b.self(typ)
		if targs := typ.TypeArgs(); targs.Len() > 0 {
			args := make([]ir.TypeDescriptor, targs.Len())
			for i := range targs.Len() {
				args[i] = b.convertType(targs.At(i), sc)
			}
			return ir.Param(base, args...)
		}
		return base

	case *types.Pointer:
		if basic, ok := types.Unalias(typ.Elem()).(*types.Basic); ok {
			if k, ok := basicKind(basic); ok {
				return ir.Boxed(k)
			}
		}
		return b.convertType(typ.Elem(), sc)

	case *types.Slice:
		return ir.ArrayOf(b.convertType(typ.Elem(), sc))

	case *types.Array:
		return ir.ArrayOf(b.convertType(typ.Elem(), sc))

	case *types.TypeParam:
		name := typ.Obj().Name()
		if declared, ok := sc.names[name]; ok {
			name = declared
		}
		return ir.Var(name, sc.site)

	case *types.Interface:
		if typ.Empty() {
			return ir.Object()
		}
	}
	return ir.Ref(strings.ReplaceAll(t.String(), " ", ""), "")
}

// basicKind maps Go basic types onto the primitive table.
func basicKind(t *types.Basic) (ir.PrimitiveKind, bool) {
	switch t.Kind() {
	case types.Bool:
		return ir.PrimitiveBoolean, true
	case types.Int8:
		return ir.PrimitiveByte, true
	case types.Uint16:
		return ir.PrimitiveChar, true
	case types.Int16:
		return ir.PrimitiveShort, true
	case types.Int32:
		return ir.PrimitiveInt, true
	case types.Int, types.Int64:
		return ir.PrimitiveLong, true
	case types.Float32:
		return ir.PrimitiveFloat, true
	case types.Float64:
		return ir.PrimitiveDouble, true
	}
	return 0, false
}

func isError(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}

func hasNames(names []string) bool {
	for _, n := range names {
		if n != "" && n != "_" {
			return true
		}
	}
	return false
}

func visibility(exported bool) ir.Visibility {
	if exported {
		return ir.Public
	}
	return ir.Package
}
