// Package schema declares tool parameters and validates raw invocation
// arguments against them.
//
// A tool's input is described by a [Params] set: an ordered list of [Param]
// values, each carrying one of a closed set of kinds ([Number], [String],
// [Enum], [StringArray]). [Params.Validate] turns raw JSON arguments into
// [Args] or fails with a [*ValidationError] naming the offending field.
// [Params.JSONSchema] renders the same declaration as a JSON Schema object
// for capability discovery.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Kind is the type of value a parameter accepts.
type Kind int

const (
	// Number accepts a finite JSON number. Strings are never coerced.
	Number Kind = iota + 1
	// String accepts any JSON string.
	String
	// Enum accepts a JSON string from a fixed set of values.
	Enum
	// StringArray accepts a JSON array whose items are all strings.
	StringArray
)

// String returns the name used in validation errors.
func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case String:
		return "string"
	case Enum:
		return "enum"
	case StringArray:
		return "array of string"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Param declares a single named parameter.
type Param struct {
	Name        string
	Kind        Kind
	Required    bool
	Description string
	Values      []string // Allowed values; only meaningful for Enum.
}

// NumberParam returns a required number parameter.
func NumberParam(name string) Param {
	return Param{Name: name, Kind: Number, Required: true}
}

// StringParam returns a required string parameter.
func StringParam(name string) Param {
	return Param{Name: name, Kind: String, Required: true}
}

// EnumParam returns a required parameter restricted to values.
func EnumParam(name string, values ...string) Param {
	return Param{Name: name, Kind: Enum, Required: true, Values: values}
}

// StringArrayParam returns a required array-of-string parameter.
func StringArrayParam(name string) Param {
	return Param{Name: name, Kind: StringArray, Required: true}
}

// Optional returns a copy of p that may be omitted.
func (p Param) Optional() Param {
	p.Required = false
	return p
}

// Describe returns a copy of p with the given description.
func (p Param) Describe(desc string) Param {
	p.Description = desc
	return p
}

// expected describes the accepted values for error messages.
func (p Param) expected() string {
	if p.Kind == Enum {
		return "one of " + strings.Join(p.Values, "|")
	}
	return p.Kind.String()
}

// Params is the ordered parameter set of a tool.
type Params []Param

// propertySchema is the JSON Schema rendering of a single parameter.
type propertySchema struct {
	Type        string          `json:"type"`
	Description string          `json:"description,omitempty"`
	Enum        []string        `json:"enum,omitempty"`
	Items       *propertySchema `json:"items,omitempty"`
}

type objectSchema struct {
	Type       string     `json:"type"`
	Properties properties `json:"properties"`
	Required   []string   `json:"required,omitempty"`
}

type namedProperty struct {
	name   string
	schema propertySchema
}

// properties marshals as a JSON object whose members keep declaration order.
type properties []namedProperty

func (ps properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, p := range ps {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(p.name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.schema)
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func (p Param) jsonSchema() propertySchema {
	ps := propertySchema{Description: p.Description}

	switch p.Kind {
	case Number:
		ps.Type = "number"
	case String:
		ps.Type = "string"
	case Enum:
		ps.Type = "string"
		ps.Enum = p.Values
	case StringArray:
		ps.Type = "array"
		ps.Items = &propertySchema{Type: "string"}
	}

	return ps
}

// JSONSchema renders the parameter set as a JSON Schema object.
func (ps Params) JSONSchema() json.RawMessage {
	obj := objectSchema{
		Type:       "object",
		Properties: make(properties, 0, len(ps)),
	}

	for _, p := range ps {
		obj.Properties = append(obj.Properties, namedProperty{name: p.Name, schema: p.jsonSchema()})
		if p.Required {
			obj.Required = append(obj.Required, p.Name)
		}
	}

	// Marshalling fixed struct types and string keys cannot fail.
	data, _ := json.Marshal(obj)

	return data
}
