package inference

import "strings"

type Type string

const (
	TypeObject  Type = "OBJECT"
	TypeArray   Type = "ARRAY"
	TypeString  Type = "STRING"
	TypeNumber  Type = "NUMBER"
	TypeInteger Type = "INTEGER"
)

// Schema is the subset of OpenAPI schema understood by both providers.
type Schema struct {
	Type       Type               `json:"type"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
	Enum       []string           `json:"enum,omitempty"`
	Required   []string           `json:"required,omitempty"`
	// Ordering keeps property order stable in generated output.
	Ordering []string `json:"propertyOrdering,omitempty"`
}

// Object builds an object schema whose properties are all required, in the given order.
func Object(props ...Property) *Schema {
	s := &Schema{Type: TypeObject, Properties: make(map[string]*Schema, len(props))}
	for _, p := range props {
		s.Properties[p.Name] = p.Schema
		s.Required = append(s.Required, p.Name)
		s.Ordering = append(s.Ordering, p.Name)
	}
	return s
}

func ArrayOf(items *Schema) *Schema { return &Schema{Type: TypeArray, Items: items} }

func Number() *Schema  { return &Schema{Type: TypeNumber} }
func Integer() *Schema { return &Schema{Type: TypeInteger} }
func String() *Schema  { return &Schema{Type: TypeString} }

func Enum(values ...string) *Schema {
	return &Schema{Type: TypeString, Enum: values}
}

type Property struct {
	Name   string
	Schema *Schema
}

func Prop(name string, schema *Schema) Property { return Property{Name: name, Schema: schema} }

// JSONSchema renders the schema as strict JSON Schema (lowercase types, closed objects).
func (s *Schema) JSONSchema() map[string]any {
	if s == nil {
		return nil
	}
	out := map[string]any{"type": strings.ToLower(string(s.Type))}
	if len(s.Enum) > 0 {
		out["enum"] = append([]string(nil), s.Enum...)
	}
	if s.Items != nil {
		out["items"] = s.Items.JSONSchema()
	}
	if s.Type == TypeObject {
		props := make(map[string]any, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = p.JSONSchema()
		}
		out["properties"] = props
		out["required"] = append([]string{}, s.Required...)
		out["additionalProperties"] = false
	}
	return out
}
