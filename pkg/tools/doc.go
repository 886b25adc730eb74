// Package tools provides tool declaration, dispatch, and MCP (Model Context Protocol) serving.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/calcmcp/pkg/tools/schema]: parameter declarations, argument validation, and JSON Schema rendering
//   - [github.com/germanamz/calcmcp/pkg/tools/envelope]: tool outcomes and the uniform text envelope every call resolves to
//   - [github.com/germanamz/calcmcp/pkg/tools/toolbox]: Tool type, the ToolBox registry, Dispatch, and dispatch middlewares
//   - [github.com/germanamz/calcmcp/pkg/tools/mcpserver]: MCP server over stdio, streamable HTTP, and SSE
//   - [github.com/germanamz/calcmcp/pkg/tools/mcpclient]: MCP client that lists and calls the tools of a running server
//
// schema and envelope are leaf packages. toolbox depends on both; mcpserver
// and mcpclient are thin wrappers around the official MCP Go SDK
// (github.com/modelcontextprotocol/go-sdk).
package tools
