package toolbox

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/germanamz/calcmcp/pkg/tools/envelope"
	"github.com/germanamz/calcmcp/pkg/tools/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolHandler(t *testing.T) {
	tool := Tool{
		Name:        "shout",
		Description: "Upper-cases input",
		Params:      schema.Params{schema.StringParam("text")},
		Handler: func(_ context.Context, args schema.Args) (envelope.Outcome, error) {
			return envelope.Success(args.String("text") + "!"), nil
		},
	}

	args, err := tool.Params.Validate(json.RawMessage(`{"text":"hello"}`))
	require.NoError(t, err)

	out, err := tool.Handler(context.Background(), args)
	require.NoError(t, err)
	assert.Equal(t, "hello!", out.Text())
}

func TestToolFields(t *testing.T) {
	tool := Tool{
		Name:        "test",
		Description: "A test tool",
	}

	assert.Equal(t, "test", tool.Name)
	assert.Equal(t, "A test tool", tool.Description)
	assert.JSONEq(t, `{"type":"object","properties":{}}`, string(tool.InputSchema()))
	assert.Nil(t, tool.Handler)
}
