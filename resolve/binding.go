package resolve

import "github.com/broady/mirror/ir"

// Binding maps type variables, by key, to the types bound to them at one
// usage site. A bound type may itself be a variable declared further down
// the walk; Lookup follows such chains.
type Binding map[string]ir.TypeDescriptor

func (b Binding) bind(params []*ir.VariableDescriptor, args []ir.TypeDescriptor) {
	for i, p := range params {
		if i >= len(args) || args[i] == nil {
			continue
		}
		b[p.Key()] = args[i]
	}
}

// Lookup returns the type bound to v, substituting variables transitively.
// It returns nil when the chain ends at a variable with no binding.
func (b Binding) Lookup(v *ir.VariableDescriptor) ir.TypeDescriptor {
	if v == nil {
		return nil
	}
	t, ok := b.chase(v)
	if !ok {
		return nil
	}
	return t
}

// chase follows v through the table. It returns the last type reached and
// whether that type is something other than a variable.
func (b Binding) chase(v *ir.VariableDescriptor) (ir.TypeDescriptor, bool) {
	seen := map[string]bool{}
	var cur ir.TypeDescriptor = v
	for {
		tv, ok := cur.(*ir.VariableDescriptor)
		if !ok {
			return cur, true
		}
		if seen[tv.Key()] {
			return tv, false
		}
		seen[tv.Key()] = true
		next, ok := b[tv.Key()]
		if !ok {
			return tv, false
		}
		cur = next
	}
}

// Apply substitutes every resolvable variable inside t, descending into
// type arguments, array elements and bounds. A variable that cannot be
// resolved is replaced by the last variable its chain reaches.
func (b Binding) Apply(t ir.TypeDescriptor) ir.TypeDescriptor {
	switch d := t.(type) {
	case *ir.VariableDescriptor:
		end, ok := b.chase(d)
		if !ok {
			return end
		}
		return b.Apply(end)
	case *ir.ParameterizedDescriptor:
		args := make([]ir.TypeDescriptor, len(d.Args))
		for i, a := range d.Args {
			args[i] = b.Apply(a)
		}
		return ir.Param(d.Base, args...)
	case *ir.BoundedDescriptor:
		bounds := make([]ir.TypeDescriptor, len(d.UpperBounds))
		for i, u := range d.UpperBounds {
			bounds[i] = b.Apply(u)
		}
		return ir.Bounded(bounds...)
	case *ir.ConcreteDescriptor:
		if d.ConcreteKind == ir.ConcreteArray && d.Element != nil {
			return ir.ArrayOf(b.Apply(d.Element))
		}
		return d
	default:
		return t
	}
}
