package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
)

// ValidationError reports an argument that does not satisfy its Param.
// Got is empty when a required argument is missing.
type ValidationError struct {
	Field    string
	Expected string
	Got      string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema: invalid arguments: expected %s, got %s", e.Expected, e.Got)
	}
	if e.Got == "" {
		return fmt.Sprintf("schema: missing required argument %q: expected %s", e.Field, e.Expected)
	}
	return fmt.Sprintf("schema: invalid argument %q: expected %s, got %s", e.Field, e.Expected, e.Got)
}

// Validate checks raw JSON arguments against the parameter set. Empty or null
// input is treated as an empty object. Unknown fields are ignored.
func (ps Params) Validate(raw json.RawMessage) (Args, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = []byte("{}")
	}

	if jsonType(trimmed) != "object" {
		return Args{}, &ValidationError{Expected: "object", Got: jsonType(trimmed)}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return Args{}, &ValidationError{Expected: "object", Got: "malformed JSON"}
	}

	values := make(map[string]any, len(ps))

	for _, p := range ps {
		v, ok := fields[p.Name]
		if !ok {
			if p.Required {
				return Args{}, &ValidationError{Field: p.Name, Expected: p.expected()}
			}
			continue
		}

		parsed, err := p.decode(v)
		if err != nil {
			return Args{}, err
		}
		values[p.Name] = parsed
	}

	return Args{values: values}, nil
}

func (p Param) decode(v json.RawMessage) (any, error) {
	got := jsonType(v)
	fail := func(detail string) error {
		return &ValidationError{Field: p.Name, Expected: p.expected(), Got: detail}
	}

	switch p.Kind {
	case Number:
		if got != "number" {
			return nil, fail(got)
		}
		var f float64
		if err := json.Unmarshal(v, &f); err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fail("non-finite number")
		}
		return f, nil

	case String, Enum:
		if got != "string" {
			return nil, fail(got)
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, fail("malformed string")
		}
		if p.Kind == Enum && !slices.Contains(p.Values, s) {
			return nil, fail(fmt.Sprintf("%q", s))
		}
		return s, nil

	case StringArray:
		if got != "array" {
			return nil, fail(got)
		}
		var items []json.RawMessage
		if err := json.Unmarshal(v, &items); err != nil {
			return nil, fail("malformed array")
		}
		out := make([]string, 0, len(items))
		for i, item := range items {
			var s string
			if jsonType(item) != "string" || json.Unmarshal(item, &s) != nil {
				return nil, fail(fmt.Sprintf("%s at index %d", jsonType(item), i))
			}
			out = append(out, s)
		}
		return out, nil
	}

	return nil, fmt.Errorf("schema: parameter %q has unsupported kind %s", p.Name, p.Kind)
}

// jsonType names the JSON type of an encoded value from its first byte.
func jsonType(v []byte) string {
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return "empty"
	}

	switch c := v[0]; {
	case c == '{':
		return "object"
	case c == '[':
		return "array"
	case c == '"':
		return "string"
	case c == 't' || c == 'f':
		return "boolean"
	case c == 'n':
		return "null"
	case c == '-' || (c >= '0' && c <= '9'):
		return "number"
	default:
		return "malformed JSON"
	}
}
