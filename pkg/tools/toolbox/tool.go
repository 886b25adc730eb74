package toolbox

import (
	"context"
	"encoding/json"

	"github.com/germanamz/calcmcp/pkg/tools/envelope"
	"github.com/germanamz/calcmcp/pkg/tools/schema"
)

// Handler executes a tool with validated arguments. Domain failures are
// reported as a failed Outcome; a non-nil error means an internal fault.
type Handler func(ctx context.Context, args schema.Args) (envelope.Outcome, error)

// Tool represents an executable tool with a name, description, parameter set,
// and handler.
type Tool struct {
	Name        string
	Description string
	Params      schema.Params
	Handler     Handler
}

// InputSchema returns the JSON Schema of the tool's parameters.
func (t Tool) InputSchema() json.RawMessage {
	return t.Params.JSONSchema()
}
