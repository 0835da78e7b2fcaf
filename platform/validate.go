package platform

import (
	"strings"

	"github.com/broady/mirror/ir"
)

// ValidationError describes a structural problem in a registry.
type ValidationError struct {
	Code    string
	Type    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks the registered hierarchy for structural issues.
// Returns all validation errors found (not just the first).
func (r *Registry) Validate() []error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var errs []*ValidationError
	for _, key := range r.order {
		e := r.types[key]
		if e.super != nil {
			errs = append(errs, r.checkAncestor(e, e.super, false)...)
		}
		for _, iface := range e.interfaces {
			errs = append(errs, r.checkAncestor(e, iface, true)...)
		}
	}
	errs = append(errs, r.detectCircularInheritance()...)

	var result []error
	for _, e := range errs {
		result = append(result, e)
	}
	return result
}

// checkAncestor validates one superclass or interface usage of e.
func (r *Registry) checkAncestor(e *typeEntry, usage ir.TypeDescriptor, wantInterface bool) []*ValidationError {
	owner := e.self.Key()
	var errs []*ValidationError

	raw := ir.Erase(usage)
	target, ok := r.types[raw.Key()]
	if !ok {
		return append(errs, &ValidationError{
			Code:    "missing_reference",
			Type:    owner,
			Message: "type " + owner + " extends unknown type: " + raw.Key(),
		})
	}

	if wantInterface && !target.self.IsInterface() {
		errs = append(errs, &ValidationError{
			Code:    "not_an_interface",
			Type:    owner,
			Message: "type " + owner + " implements non-interface type: " + raw.Key(),
		})
	}
	if !wantInterface && target.self.IsInterface() {
		errs = append(errs, &ValidationError{
			Code:    "interface_superclass",
			Type:    owner,
			Message: "class " + owner + " extends interface type: " + raw.Key(),
		})
	}

	if p, ok := usage.(*ir.ParameterizedDescriptor); ok {
		if len(p.Args) != len(target.params) {
			errs = append(errs, &ValidationError{
				Code:    "type_argument_count",
				Type:    owner,
				Message: "type " + owner + " applies " + raw.Key() + " to the wrong number of type arguments",
			})
		}
		for _, v := range variablesIn(p) {
			if v.Site != owner {
				errs = append(errs, &ValidationError{
					Code:    "undeclared_variable",
					Type:    owner,
					Message: "type " + owner + " uses type variable " + v.Name + " declared by " + v.Site,
				})
			}
		}
	}
	return errs
}

// detectCircularInheritance checks for cycles in superclass and interface edges.
func (r *Registry) detectCircularInheritance() []*ValidationError {
	var errs []*ValidationError

	visited := make(map[string]bool)
	inStack := make(map[string]bool)

	var detect func(key string, path []string)
	detect = func(key string, path []string) {
		if inStack[key] {
			errs = append(errs, &ValidationError{
				Code:    "circular_inheritance",
				Type:    key,
				Message: "circular inheritance detected: " + strings.Join(append(path, key), " -> "),
			})
			return
		}
		if visited[key] {
			return
		}
		visited[key] = true
		inStack[key] = true

		if e, ok := r.types[key]; ok {
			next := append(path, key)
			if e.super != nil {
				detect(ir.Erase(e.super).Key(), next)
			}
			for _, iface := range e.interfaces {
				detect(ir.Erase(iface).Key(), next)
			}
		}

		inStack[key] = false
	}

	for _, key := range r.order {
		detect(key, nil)
	}
	return errs
}

// variablesIn collects every type variable mentioned inside t.
func variablesIn(t ir.TypeDescriptor) []*ir.VariableDescriptor {
	var out []*ir.VariableDescriptor
	var walk func(ir.TypeDescriptor)
	walk = func(t ir.TypeDescriptor) {
		switch d := t.(type) {
		case *ir.VariableDescriptor:
			out = append(out, d)
		case *ir.ParameterizedDescriptor:
			for _, a := range d.Args {
				walk(a)
			}
		case *ir.BoundedDescriptor:
			for _, b := range d.UpperBounds {
				walk(b)
			}
		case *ir.ConcreteDescriptor:
			if d.Element != nil {
				walk(d.Element)
			}
		}
	}
	walk(t)
	return out
}
