package mcpclient

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/germanamz/calcmcp/pkg/tools/envelope"
	"github.com/germanamz/calcmcp/pkg/tools/mcpserver"
	"github.com/germanamz/calcmcp/pkg/tools/schema"
	"github.com/germanamz/calcmcp/pkg/tools/toolbox"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestToolBox(t *testing.T) *toolbox.ToolBox {
	t.Helper()

	tb := toolbox.New()
	require.NoError(t, tb.Register(
		toolbox.Tool{
			Name:        "echo",
			Description: "Echoes msg",
			Params:      schema.Params{schema.StringParam("msg")},
			Handler: func(_ context.Context, args schema.Args) (envelope.Outcome, error) {
				return envelope.Success(args.String("msg")), nil
			},
		},
		toolbox.Tool{
			Name:        "refuse",
			Description: "Always refuses",
			Handler: func(context.Context, schema.Args) (envelope.Outcome, error) {
				return envelope.Failure("refused"), nil
			},
		},
	))

	return tb
}

// startHTTPServer serves the test toolbox over HTTP and returns its base URL.
func startHTTPServer(t *testing.T) string {
	t.Helper()

	s := mcpserver.New("test-server", "1.0.0", nil)
	s.Register(newTestToolBox(t))

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	return srv.URL
}

func dial(t *testing.T, url string) *MCPClient {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	client, err := Dial(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestListToolsStreamable(t *testing.T) {
	client := dial(t, startHTTPServer(t)+mcpserver.PathStreamable)

	tools, err := client.ListTools(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 2)

	byName := make(map[string]ToolInfo, len(tools))
	for _, tool := range tools {
		byName[tool.Name] = tool
	}

	echo := byName["echo"]
	assert.Equal(t, "Echoes msg", echo.Description)
	assert.JSONEq(t,
		`{"type":"object","properties":{"msg":{"type":"string"}},"required":["msg"]}`,
		string(echo.InputSchema),
	)
}

func TestCallToolStreamable(t *testing.T) {
	client := dial(t, startHTTPServer(t)+mcpserver.PathStreamable)

	env, err := client.CallTool(context.Background(), "echo", json.RawMessage(`{"msg":"hi"}`))
	require.NoError(t, err)
	assert.Equal(t, "hi", env.Text())
}

func TestCallToolSSE(t *testing.T) {
	client := dial(t, startHTTPServer(t)+mcpserver.PathSSE)

	env, err := client.CallTool(context.Background(), "refuse", nil)
	require.NoError(t, err)
	require.Len(t, env.Content, 1)
	assert.Equal(t, "Error: refused", env.Text())
}

func TestCallToolProtocolErrors(t *testing.T) {
	client := dial(t, startHTTPServer(t)+mcpserver.PathStreamable)

	_, err := client.CallTool(context.Background(), "missing", json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mcpclient: call tool")

	_, err = client.CallTool(context.Background(), "echo", json.RawMessage(`{"msg":1}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "msg")
}

func TestCallToolInvalidArguments(t *testing.T) {
	client := dial(t, startHTTPServer(t)+mcpserver.PathStreamable)

	_, err := client.CallTool(context.Background(), "echo", json.RawMessage(`not json`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal arguments")
}

func TestInMemoryTransport(t *testing.T) {
	server := mcp.NewServer(&mcp.Implementation{Name: "raw", Version: "1.0.0"}, nil)
	server.AddTool(&mcp.Tool{
		Name:        "two",
		InputSchema: json.RawMessage(`{"type":"object"}`),
	}, func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return &mcp.CallToolResult{Content: []mcp.Content{
			&mcp.TextContent{Text: "a"},
			&mcp.TextContent{Text: "b"},
		}}, nil
	})

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	serverDone := make(chan error, 1)
	go func() { serverDone <- server.Run(ctx, serverTransport) }()
	t.Cleanup(func() {
		cancel()
		<-serverDone
	})

	client, err := newFromTransport(ctx, clientTransport)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	env, err := client.CallTool(ctx, "two", nil)
	require.NoError(t, err)
	require.Len(t, env.Content, 2)
	assert.Equal(t, "ab", env.Text())
}

func TestTransportForPath(t *testing.T) {
	sse := []string{
		"http://host/sse",
		"http://host/sse/",
		"http://host/sse?x=1",
		"http://host/api/sse#frag",
	}
	for _, u := range sse {
		tr, err := transportFor(u)
		require.NoError(t, err, u)
		assert.IsType(t, &mcp.SSEClientTransport{}, tr, u)
	}

	streamable := []string{
		"http://host/mcp",
		"http://host/mcp?via=/sse",
		"http://host/ssex",
	}
	for _, u := range streamable {
		tr, err := transportFor(u)
		require.NoError(t, err, u)
		assert.IsType(t, &mcp.StreamableClientTransport{}, tr, u)
	}
}

func TestExplicitConstructors(t *testing.T) {
	base := startHTTPServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	streamable, err := NewStreamable(ctx, base+mcpserver.PathStreamable)
	require.NoError(t, err)
	defer func() { _ = streamable.Close() }()

	sse, err := NewSSE(ctx, base+mcpserver.PathSSE)
	require.NoError(t, err)
	defer func() { _ = sse.Close() }()

	for _, c := range []*MCPClient{streamable, sse} {
		env, err := c.CallTool(ctx, "echo", json.RawMessage(`{"msg":"hi"}`))
		require.NoError(t, err)
		assert.Equal(t, "hi", env.Text())
	}
}

func TestTransportForBadURL(t *testing.T) {
	_, err := transportFor("http://host/%zz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mcpclient: parse url")
}

func TestCallToolSSEWithQuery(t *testing.T) {
	client := dial(t, startHTTPServer(t)+mcpserver.PathSSE+"?client=test")

	env, err := client.CallTool(context.Background(), "echo", json.RawMessage(`{"msg":"q"}`))
	require.NoError(t, err)
	assert.Equal(t, "q", env.Text())
}

func TestConnectFailure(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := Dial(ctx, url+mcpserver.PathStreamable)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mcpclient: connect")
}
