// Package engine is the composition root. It loads configuration, assembles
// the tool registry with its dispatch middlewares, publishes tool call events,
// and serves the registry over MCP. The CLI only talks to Engine and never
// wires lower-level packages itself.
package engine
