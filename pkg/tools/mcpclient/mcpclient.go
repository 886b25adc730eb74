package mcpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/germanamz/calcmcp/pkg/tools/envelope"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPClient communicates with an MCP server using the official MCP Go SDK.
type MCPClient struct {
	client  *mcp.Client
	session *mcp.ClientSession
}

// ToolInfo describes a tool advertised by the server.
type ToolInfo struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}

// NewStreamable connects to a streamable HTTP MCP endpoint (e.g. .../mcp).
func NewStreamable(ctx context.Context, endpoint string) (*MCPClient, error) {
	return newFromTransport(ctx, &mcp.StreamableClientTransport{Endpoint: endpoint})
}

// NewSSE connects to an SSE-based MCP server at the given URL (e.g. .../sse).
func NewSSE(ctx context.Context, endpoint string) (*MCPClient, error) {
	return newFromTransport(ctx, &mcp.SSEClientTransport{Endpoint: endpoint})
}

// Dial picks the transport from the URL path: a path ending in /sse uses SSE,
// anything else streamable HTTP.
func Dial(ctx context.Context, rawURL string) (*MCPClient, error) {
	transport, err := transportFor(rawURL)
	if err != nil {
		return nil, err
	}

	return newFromTransport(ctx, transport)
}

func transportFor(rawURL string) (mcp.Transport, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("mcpclient: parse url: %w", err)
	}

	if strings.HasSuffix(strings.TrimRight(u.Path, "/"), "/sse") {
		return &mcp.SSEClientTransport{Endpoint: rawURL}, nil
	}

	return &mcp.StreamableClientTransport{Endpoint: rawURL}, nil
}

// newFromTransport creates an MCPClient using the given transport. Used by the
// constructors and useful for testing with InMemoryTransport.
func newFromTransport(ctx context.Context, transport mcp.Transport) (*MCPClient, error) {
	client := mcp.NewClient(&mcp.Implementation{
		Name:    "calcmcp",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("mcpclient: connect: %w", err)
	}

	return &MCPClient{client: client, session: session}, nil
}

// ListTools fetches the tools advertised by the server.
func (c *MCPClient) ListTools(ctx context.Context) ([]ToolInfo, error) {
	result, err := c.session.ListTools(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("mcpclient: list tools: %w", err)
	}

	tools := make([]ToolInfo, 0, len(result.Tools))
	for _, sdkTool := range result.Tools {
		schemaBytes, err := json.Marshal(sdkTool.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("mcpclient: convert tool %q: marshal input schema: %w", sdkTool.Name, err)
		}

		tools = append(tools, ToolInfo{
			Name:        sdkTool.Name,
			Description: sdkTool.Description,
			InputSchema: schemaBytes,
		})
	}

	return tools, nil
}

// CallTool calls a named tool on the server with the given JSON object
// arguments and returns its text content as an envelope. Protocol errors
// (unknown tool, rejected arguments) are returned as errors.
func (c *MCPClient) CallTool(ctx context.Context, name string, arguments json.RawMessage) (envelope.Envelope, error) {
	var args map[string]any
	if len(arguments) > 0 {
		if err := json.Unmarshal(arguments, &args); err != nil {
			return envelope.Envelope{}, fmt.Errorf("mcpclient: unmarshal arguments: %w", err)
		}
	}

	result, err := c.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return envelope.Envelope{}, fmt.Errorf("mcpclient: call tool: %w", err)
	}

	return toEnvelope(result), nil
}

// Close terminates the session and releases resources.
func (c *MCPClient) Close() error {
	return c.session.Close()
}

// toEnvelope keeps the TextContent items of a result, in order.
func toEnvelope(result *mcp.CallToolResult) envelope.Envelope {
	var env envelope.Envelope
	for _, item := range result.Content {
		if tc, ok := item.(*mcp.TextContent); ok {
			env.Content = append(env.Content, envelope.Content{Type: envelope.TypeText, Text: tc.Text})
		}
	}

	return env
}
