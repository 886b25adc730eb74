package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calcParams() Params {
	return Params{
		EnumParam("operation", "add", "subtract", "multiply", "divide"),
		NumberParam("a"),
		NumberParam("b"),
	}
}

func queryParams() Params {
	return Params{
		StringParam("baseId").Describe("Base ID"),
		StringParam("tableName"),
		NumberParam("maxRecords").Optional(),
		StringParam("view").Optional(),
		StringArrayParam("fields").Optional(),
	}
}

func requireValidationError(t *testing.T, err error) *ValidationError {
	t.Helper()

	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected *ValidationError, got %v", err)

	return ve
}

func TestValidateNumbers(t *testing.T) {
	args, err := calcParams().Validate(json.RawMessage(`{"operation":"add","a":1.5,"b":-2}`))
	require.NoError(t, err)

	assert.Equal(t, "add", args.String("operation"))
	assert.InDelta(t, 1.5, args.Number("a"), 0)
	assert.InDelta(t, -2.0, args.Number("b"), 0)
}

func TestValidateRejectsNumericString(t *testing.T) {
	_, err := calcParams().Validate(json.RawMessage(`{"operation":"add","a":"1","b":2}`))

	ve := requireValidationError(t, err)
	assert.Equal(t, "a", ve.Field)
	assert.Equal(t, "number", ve.Expected)
	assert.Equal(t, "string", ve.Got)
	assert.Contains(t, err.Error(), `"a"`)
}

func TestValidateRejectsOverflowingNumber(t *testing.T) {
	_, err := calcParams().Validate(json.RawMessage(`{"operation":"add","a":1e400,"b":2}`))

	ve := requireValidationError(t, err)
	assert.Equal(t, "a", ve.Field)
	assert.Equal(t, "non-finite number", ve.Got)
}

func TestValidateRejectsUnknownEnumValue(t *testing.T) {
	_, err := calcParams().Validate(json.RawMessage(`{"operation":"power","a":2,"b":3}`))

	ve := requireValidationError(t, err)
	assert.Equal(t, "operation", ve.Field)
	assert.Equal(t, "one of add|subtract|multiply|divide", ve.Expected)
	assert.Equal(t, `"power"`, ve.Got)
}

func TestValidateMissingRequired(t *testing.T) {
	_, err := calcParams().Validate(json.RawMessage(`{"operation":"add","a":2}`))

	ve := requireValidationError(t, err)
	assert.Equal(t, "b", ve.Field)
	assert.Empty(t, ve.Got)
	assert.Contains(t, err.Error(), "missing required argument")
}

func TestValidateEmptyInputIsEmptyObject(t *testing.T) {
	for _, raw := range []string{"", "null", "  "} {
		args, err := Params{StringParam("view").Optional()}.Validate(json.RawMessage(raw))
		require.NoError(t, err, "input %q", raw)
		assert.False(t, args.Has("view"))
	}
}

func TestValidateRejectsNonObject(t *testing.T) {
	_, err := calcParams().Validate(json.RawMessage(`[1,2]`))

	ve := requireValidationError(t, err)
	assert.Empty(t, ve.Field)
	assert.Equal(t, "array", ve.Got)
}

func TestValidateOptionalAbsentVersusEmpty(t *testing.T) {
	args, err := queryParams().Validate(json.RawMessage(`{"baseId":"app1","tableName":"Tasks"}`))
	require.NoError(t, err)

	_, ok := args.LookupString("view")
	assert.False(t, ok)
	_, ok = args.LookupNumber("maxRecords")
	assert.False(t, ok)
	fields, ok := args.LookupStrings("fields")
	assert.False(t, ok)
	assert.Nil(t, fields)

	args, err = queryParams().Validate(json.RawMessage(`{"baseId":"app1","tableName":"Tasks","view":"","fields":[]}`))
	require.NoError(t, err)

	view, ok := args.LookupString("view")
	assert.True(t, ok)
	assert.Empty(t, view)
	fields, ok = args.LookupStrings("fields")
	assert.True(t, ok)
	assert.NotNil(t, fields)
	assert.Empty(t, fields)
}

func TestValidateStringArrayKeepsOrder(t *testing.T) {
	args, err := queryParams().Validate(json.RawMessage(`{"baseId":"a","tableName":"t","fields":["Name","Status","Due"]}`))
	require.NoError(t, err)

	fields, ok := args.LookupStrings("fields")
	require.True(t, ok)
	assert.Equal(t, []string{"Name", "Status", "Due"}, fields)
}

func TestValidateStringArrayRejectsMixedItems(t *testing.T) {
	_, err := queryParams().Validate(json.RawMessage(`{"baseId":"a","tableName":"t","fields":["Name",3]}`))

	ve := requireValidationError(t, err)
	assert.Equal(t, "fields", ve.Field)
	assert.Equal(t, "number at index 1", ve.Got)
}

func TestValidateRejectsNullForOptional(t *testing.T) {
	_, err := queryParams().Validate(json.RawMessage(`{"baseId":"a","tableName":"t","view":null}`))

	ve := requireValidationError(t, err)
	assert.Equal(t, "view", ve.Field)
	assert.Equal(t, "null", ve.Got)
}

func TestValidateIgnoresUnknownFields(t *testing.T) {
	args, err := calcParams().Validate(json.RawMessage(`{"operation":"divide","a":1,"b":2,"extra":true}`))
	require.NoError(t, err)
	assert.False(t, args.Has("extra"))
}

func TestJSONSchema(t *testing.T) {
	got := queryParams().JSONSchema()

	assert.JSONEq(t, `{
		"type": "object",
		"properties": {
			"baseId": {"type": "string", "description": "Base ID"},
			"tableName": {"type": "string"},
			"maxRecords": {"type": "number"},
			"view": {"type": "string"},
			"fields": {"type": "array", "items": {"type": "string"}}
		},
		"required": ["baseId", "tableName"]
	}`, string(got))
}

func TestJSONSchemaKeepsDeclarationOrder(t *testing.T) {
	got := queryParams().JSONSchema()

	assert.Equal(t,
		`{"type":"object","properties":{`+
			`"baseId":{"type":"string","description":"Base ID"},`+
			`"tableName":{"type":"string"},`+
			`"maxRecords":{"type":"number"},`+
			`"view":{"type":"string"},`+
			`"fields":{"type":"array","items":{"type":"string"}}},`+
			`"required":["baseId","tableName"]}`,
		string(got),
	)
}

func TestJSONSchemaNoParams(t *testing.T) {
	assert.Equal(t, `{"type":"object","properties":{}}`, string(Params{}.JSONSchema()))
}

func TestJSONSchemaEnum(t *testing.T) {
	got := calcParams().JSONSchema()

	assert.JSONEq(t, `{
		"type": "object",
		"properties": {
			"operation": {"type": "string", "enum": ["add", "subtract", "multiply", "divide"]},
			"a": {"type": "number"},
			"b": {"type": "number"}
		},
		"required": ["operation", "a", "b"]
	}`, string(got))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "number", Number.String())
	assert.Equal(t, "array of string", StringArray.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}

func TestParamBuildersDoNotMutate(t *testing.T) {
	p := StringParam("view")
	opt := p.Optional().Describe("View name")

	assert.True(t, p.Required)
	assert.Empty(t, p.Description)
	assert.False(t, opt.Required)
	assert.Equal(t, "View name", opt.Description)
}
