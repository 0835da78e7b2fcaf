package ir

import "encoding/json"

// JSON serialization support for IR types.
// All descriptors include a "kind" field for type discrimination.
// Dispatch hooks (Impl, Getter, Setter) are never serialized.

// MarshalJSON implements json.Marshaler for ConcreteDescriptor.
func (d *ConcreteDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind         string         `json:"kind"`
		ConcreteKind string         `json:"concreteKind"`
		Name         string         `json:"name,omitempty"`
		Package      string         `json:"package,omitempty"`
		Element      TypeDescriptor `json:"element,omitempty"`
	}{
		Kind:         "concrete",
		ConcreteKind: d.ConcreteKind.String(),
		Name:         d.Name,
		Package:      d.Package,
		Element:      d.Element,
	})
}

// MarshalJSON implements json.Marshaler for ParameterizedDescriptor.
func (d *ParameterizedDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind string              `json:"kind"`
		Base *ConcreteDescriptor `json:"base"`
		Args []TypeDescriptor    `json:"args"`
	}{
		Kind: "parameterized",
		Base: d.Base,
		Args: d.Args,
	})
}

// MarshalJSON implements json.Marshaler for VariableDescriptor.
func (d *VariableDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
		Site string `json:"site"`
	}{
		Kind: "variable",
		Name: d.Name,
		Site: d.Site,
	})
}

// MarshalJSON implements json.Marshaler for BoundedDescriptor.
func (d *BoundedDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind        string           `json:"kind"`
		UpperBounds []TypeDescriptor `json:"upperBounds"`
	}{
		Kind:        "bounded",
		UpperBounds: d.UpperBounds,
	})
}

// MarshalJSON implements json.Marshaler for FieldDescriptor.
func (f *FieldDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind       string         `json:"kind"`
		Name       string         `json:"name"`
		Type       TypeDescriptor `json:"type"`
		Declaring  string         `json:"declaring"`
		Visibility string         `json:"visibility"`
		Static     bool           `json:"static,omitempty"`
	}{
		Kind:       "field",
		Name:       f.Name,
		Type:       f.Type,
		Declaring:  declaringKey(f.Declaring),
		Visibility: f.Access.String(),
		Static:     f.Static,
	})
}

// MarshalJSON implements json.Marshaler for MethodDescriptor.
func (m *MethodDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind       string           `json:"kind"`
		Name       string           `json:"name"`
		Params     []TypeDescriptor `json:"params"`
		ParamNames []string         `json:"paramNames,omitempty"`
		Return     TypeDescriptor   `json:"return,omitempty"`
		Declaring  string           `json:"declaring"`
		Visibility string           `json:"visibility"`
		Static     bool             `json:"static,omitempty"`
	}{
		Kind:       "method",
		Name:       m.Name,
		Params:     nonNil(m.Params),
		ParamNames: m.ParamNames,
		Return:     m.Return,
		Declaring:  declaringKey(m.Declaring),
		Visibility: m.Access.String(),
		Static:     m.Static,
	})
}

// MarshalJSON implements json.Marshaler for ConstructorDescriptor.
func (c *ConstructorDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind       string           `json:"kind"`
		Params     []TypeDescriptor `json:"params"`
		ParamNames []string         `json:"paramNames,omitempty"`
		Declaring  string           `json:"declaring"`
		Visibility string           `json:"visibility"`
	}{
		Kind:       "constructor",
		Params:     nonNil(c.Params),
		ParamNames: c.ParamNames,
		Declaring:  declaringKey(c.Declaring),
		Visibility: c.Access.String(),
	})
}

func declaringKey(d *ConcreteDescriptor) string {
	if d == nil {
		return ""
	}
	return d.Key()
}

func nonNil(ts []TypeDescriptor) []TypeDescriptor {
	if ts == nil {
		return []TypeDescriptor{}
	}
	return ts
}
