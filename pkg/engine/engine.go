package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/germanamz/calcmcp/pkg/airtable"
	"github.com/germanamz/calcmcp/pkg/calculator"
	"github.com/germanamz/calcmcp/pkg/telemetry"
	"github.com/germanamz/calcmcp/pkg/tools/mcpserver"
	"github.com/germanamz/calcmcp/pkg/tools/toolbox"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Options carries runtime collaborators that do not belong in the config file.
// Zero fields fall back to a discarding logger, the global OpenTelemetry
// providers, and a fresh http.Client.
type Options struct {
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	HTTPClient     *http.Client
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.TracerProvider == nil {
		o.TracerProvider = otel.GetTracerProvider()
	}
	if o.MeterProvider == nil {
		o.MeterProvider = otel.GetMeterProvider()
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{}
	}

	return o
}

// Engine is the composition root: it builds the tool registry from
// configuration and serves it over MCP.
type Engine struct {
	cfg    Config
	log    *slog.Logger
	tools  *toolbox.ToolBox
	events *EventBus
	server *mcpserver.MCPServer
}

// New creates an Engine from the given configuration. It validates the
// config, registers the calculator and airtable tools, installs the dispatch
// middlewares, and registers the tools on an MCP server.
func New(cfg Config, opts Options) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts = opts.withDefaults()

	timeout, err := cfg.Airtable.timeout()
	if err != nil {
		return nil, err
	}

	httpClient := opts.HTTPClient
	if timeout > 0 {
		clone := *httpClient
		clone.Timeout = timeout
		httpClient = &clone
	}

	token := cfg.Airtable.token()
	if token == "" {
		opts.Logger.Warn("airtable token not configured; airtable_query will report an error", "env", TokenEnvVar)
	}

	at := airtable.New(airtable.Config{
		Token:      token,
		BaseURL:    cfg.Airtable.BaseURL,
		HTTPClient: httpClient,
	})

	tb := toolbox.New()
	if err := tb.Register(calculator.Tools()...); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	if err := tb.Register(at.Tool()); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	metrics, err := telemetry.NewMetrics(opts.MeterProvider)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	events := NewEventBus()

	// Recovery is innermost so every observer sees a panic as ErrInternal.
	tb.Use(
		telemetry.Tracing(opts.TracerProvider),
		metrics.Middleware(),
		publishEvents(events),
		toolbox.Logger(opts.Logger),
		toolbox.Recovery(),
	)

	server := mcpserver.New(cfg.Server.Name, cfg.Server.Version, opts.Logger)
	server.Register(tb)

	return &Engine{
		cfg:    cfg,
		log:    opts.Logger,
		tools:  tb,
		events: events,
		server: server,
	}, nil
}

// ToolBox returns the engine's tool registry.
func (e *Engine) ToolBox() *toolbox.ToolBox { return e.tools }

// Events returns the bus that receives a start and an end event for every
// tool call.
func (e *Engine) Events() *EventBus { return e.events }

// Server returns the MCP server.
func (e *Engine) Server() *mcpserver.MCPServer { return e.server }

// ServeStdio serves MCP over in/out until ctx is cancelled or in closes.
func (e *Engine) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	e.log.Info("serving mcp over stdio", "server", e.cfg.Server.Name)

	return e.server.Serve(ctx, in, out)
}

// ListenAndServe serves MCP over HTTP on the configured address, or on addr
// when it is non-empty.
func (e *Engine) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = e.cfg.HTTP.Addr
	}

	return e.server.ListenAndServe(ctx, addr)
}
