package producttype

import (
	"encoding/json"
	"strings"
)

// TypeKind is the name of an attribute type.
type TypeKind string

const (
	TypeText  TypeKind = "text"
	TypeLText TypeKind = "ltext"
	TypeEnum  TypeKind = "enum"
	TypeLEnum TypeKind = "lenum"
	// TypeSet wraps an element type and is never a leaf.
	TypeSet TypeKind = "set"
)

const typeSeparator = ":"

// Known returns true if the kind is one the builder knows how to resolve.
func (k TypeKind) Known() bool {
	switch k {
	case TypeText, TypeLText, TypeEnum, TypeLEnum, TypeSet:
		return true
	}
	return false
}

// ParseTypeKind returns the immediate kind of a raw type string ('set:text' => 'set', 'text' => 'text').
func ParseTypeKind(raw string) TypeKind {
	kind, _, _ := strings.Cut(raw, typeSeparator)
	return TypeKind(strings.TrimSpace(kind))
}

// ElementTypeName returns the element portion of a raw type string ('set:set:text' => 'set:text', 'set:text' => 'text').
// It returns an empty string when there is no element portion.
func ElementTypeName(raw string) string {
	_, element, found := strings.Cut(raw, typeSeparator)
	if !found {
		return ""
	}
	return element
}

// LocalizedString maps a 2-letter language code to a value.
type LocalizedString map[string]string

func (l LocalizedString) clone() LocalizedString {
	if l == nil {
		return nil
	}
	res := make(LocalizedString, len(l))
	for k, v := range l {
		res[k] = v
	}
	return res
}

// EnumValue is a single option of an enum or lenum type.
// A lenum value carries LocalizedLabel, an enum value carries Label.
type EnumValue struct {
	Key            string
	Label          string
	LocalizedLabel LocalizedString
}

// Localized returns true if the value belongs to a lenum type.
func (v EnumValue) Localized() bool {
	return v.LocalizedLabel != nil
}

func (v EnumValue) MarshalJSON() ([]byte, error) {
	if v.Localized() {
		return json.Marshal(struct {
			Key   string          `json:"key"`
			Label LocalizedString `json:"label"`
		}{v.Key, v.LocalizedLabel})
	}
	return json.Marshal(struct {
		Key   string `json:"key"`
		Label string `json:"label"`
	}{v.Key, v.Label})
}

// AttributeType is a node in the type tree. ElementType is only set for set types
// and Values only for enum and lenum types.
type AttributeType struct {
	Name        TypeKind       `json:"name"`
	ElementType *AttributeType `json:"elementType,omitempty"`
	Values      []EnumValue    `json:"values,omitempty"`
}

// addValue appends the value unless one with the same key is already present.
func (t *AttributeType) addValue(value EnumValue) bool {
	for _, v := range t.Values {
		if v.Key == value.Key {
			return false
		}
	}
	t.Values = append(t.Values, value)
	return true
}

// Leaf returns the innermost non-set node of the tree.
func (t *AttributeType) Leaf() *AttributeType {
	node := t
	for node != nil && node.Name == TypeSet && node.ElementType != nil {
		node = node.ElementType
	}
	return node
}

func (t *AttributeType) clone() *AttributeType {
	if t == nil {
		return nil
	}
	res := &AttributeType{
		Name:        t.Name,
		ElementType: t.ElementType.clone(),
	}
	if t.Values != nil {
		res.Values = make([]EnumValue, len(t.Values))
		for i, v := range t.Values {
			res.Values[i] = EnumValue{Key: v.Key, Label: v.Label, LocalizedLabel: v.LocalizedLabel.clone()}
		}
	}
	return res
}

// AttributeDefinition is a named, typed field that can be attached to product types.
type AttributeDefinition struct {
	Name                string          `json:"name"`
	Label               LocalizedString `json:"label"`
	Type                *AttributeType  `json:"type"`
	AttributeConstraint string          `json:"attributeConstraint"`
	// IsRequired and IsSearchable are nil for set attributes.
	IsRequired   *bool `json:"isRequired,omitempty"`
	IsSearchable *bool `json:"isSearchable,omitempty"`
	// InputHint is only set for text and ltext attributes.
	InputHint *string `json:"inputHint,omitempty"`
}

// Clone returns a deep copy of the definition.
func (d *AttributeDefinition) Clone() *AttributeDefinition {
	res := &AttributeDefinition{
		Name:                d.Name,
		Label:               d.Label.clone(),
		Type:                d.Type.clone(),
		AttributeConstraint: d.AttributeConstraint,
	}
	if d.IsRequired != nil {
		res.IsRequired = boolPtr(*d.IsRequired)
	}
	if d.IsSearchable != nil {
		res.IsSearchable = boolPtr(*d.IsSearchable)
	}
	if d.InputHint != nil {
		res.InputHint = strPtr(*d.InputHint)
	}
	return res
}

// ProductTypeDefinition is the document written for each product type.
type ProductTypeDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Attributes  []*AttributeDefinition `json:"attributes,omitempty"`
}

// Attribute returns the attribute with the given name.
func (p *ProductTypeDefinition) Attribute(name string) (*AttributeDefinition, bool) {
	for _, a := range p.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// AttributeDefinitions holds the definitions keyed by name in the order they were first defined.
type AttributeDefinitions struct {
	names  []string
	byName map[string]*AttributeDefinition
}

func newAttributeDefinitions() *AttributeDefinitions {
	return &AttributeDefinitions{byName: make(map[string]*AttributeDefinition)}
}

// put stores the definition and returns true if it replaced an existing one.
func (d *AttributeDefinitions) put(def *AttributeDefinition) bool {
	_, exists := d.byName[def.Name]
	if !exists {
		d.names = append(d.names, def.Name)
	}
	d.byName[def.Name] = def
	return exists
}

// Get returns the definition registered under name.
func (d *AttributeDefinitions) Get(name string) (*AttributeDefinition, bool) {
	def, ok := d.byName[name]
	return def, ok
}

// Names returns the registered names in definition order.
func (d *AttributeDefinitions) Names() []string {
	return append([]string(nil), d.names...)
}

// Len returns the number of definitions.
func (d *AttributeDefinitions) Len() int {
	return len(d.names)
}

func boolPtr(v bool) *bool {
	return &v
}

func strPtr(v string) *string {
	return &v
}
