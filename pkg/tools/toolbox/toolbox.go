package toolbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/germanamz/calcmcp/pkg/tools/envelope"
)

var (
	// ErrUnknownTool is returned by Dispatch when no tool has the given name.
	ErrUnknownTool = errors.New("toolbox: unknown tool")
	// ErrDuplicateTool is returned by Register when a name is already taken.
	ErrDuplicateTool = errors.New("toolbox: duplicate tool")
	// ErrInternal wraps faults raised by a handler instead of an outcome.
	ErrInternal = errors.New("toolbox: internal error")
)

// ToolBox is the operation registry. Tools and middlewares are registered
// once at startup; after that the ToolBox is read-only and Dispatch is safe
// for concurrent use.
type ToolBox struct {
	tools       map[string]Tool
	middlewares []Middleware
}

// New creates a new ToolBox ready for use.
func New() *ToolBox {
	return &ToolBox{
		tools: make(map[string]Tool),
	}
}

// Register adds one or more tools. It fails without registering anything if
// a tool is malformed or its name is already taken.
func (tb *ToolBox) Register(tools ...Tool) error {
	seen := make(map[string]struct{}, len(tools))

	for _, t := range tools {
		if t.Name == "" {
			return fmt.Errorf("toolbox: register: tool name is required")
		}
		if t.Handler == nil {
			return fmt.Errorf("toolbox: register %s: handler is required", t.Name)
		}
		if _, ok := tb.tools[t.Name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateTool, t.Name)
		}
		if _, ok := seen[t.Name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateTool, t.Name)
		}
		seen[t.Name] = struct{}{}
	}

	for _, t := range tools {
		tb.tools[t.Name] = t
	}

	return nil
}

// Use appends middlewares. The first middleware is the outermost.
func (tb *ToolBox) Use(mw ...Middleware) {
	tb.middlewares = append(tb.middlewares, mw...)
}

// Get returns a tool by name and a boolean indicating whether it was found.
func (tb *ToolBox) Get(name string) (Tool, bool) {
	t, ok := tb.tools[name]
	return t, ok
}

// Tools returns all registered tools sorted by name.
func (tb *ToolBox) Tools() []Tool {
	result := make([]Tool, 0, len(tb.tools))
	for _, t := range tb.tools {
		result = append(result, t)
	}

	slices.SortFunc(result, func(a, b Tool) int {
		return strings.Compare(a.Name, b.Name)
	})

	return result
}

// Dispatch looks up the named tool, validates the raw arguments against its
// parameters, runs the handler through the middleware chain, and wraps the
// outcome in an envelope.
//
// Only ErrUnknownTool, a *schema.ValidationError, or ErrInternal are
// returned; every other failure is reported inside the envelope.
func (tb *ToolBox) Dispatch(ctx context.Context, name string, raw json.RawMessage) (envelope.Envelope, error) {
	t, ok := tb.tools[name]
	if !ok {
		return envelope.Envelope{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	args, err := t.Params.Validate(raw)
	if err != nil {
		return envelope.Envelope{}, fmt.Errorf("toolbox: %s: %w", name, err)
	}

	outcome, err := tb.chain(t)(ctx, args)
	if err != nil {
		if !errors.Is(err, ErrInternal) {
			err = fmt.Errorf("%w: %w", ErrInternal, err)
		}
		return envelope.Envelope{}, fmt.Errorf("toolbox: %s: %w", name, err)
	}

	return envelope.Build(outcome), nil
}

// chain wraps the tool's handler with the registered middlewares.
func (tb *ToolBox) chain(t Tool) Handler {
	h := t.Handler
	for i := len(tb.middlewares) - 1; i >= 0; i-- {
		h = tb.middlewares[i](t.Name, h)
	}

	return h
}
