package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/germanamz/calcmcp/pkg/tools/mcpclient"
)

// defaultClientURL targets a local server started with -transport http.
const defaultClientURL = "http://localhost:8787/mcp"

func runTools(url string, out io.Writer) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client, err := mcpclient.Dial(ctx, url)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	tools, err := client.ListTools(ctx)
	if err != nil {
		return err
	}

	for _, t := range tools {
		fmt.Fprintf(out, "%s\t%s\n\t%s\n", t.Name, t.Description, t.InputSchema)
	}

	return nil
}

func runCall(url string, args []string, out io.Writer) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("call: expected <tool> [json-arguments], got %d arguments", len(args))
	}

	var arguments json.RawMessage
	if len(args) == 2 {
		arguments = json.RawMessage(args[1])
		if !json.Valid(arguments) {
			return fmt.Errorf("call: arguments are not valid JSON")
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client, err := mcpclient.Dial(ctx, url)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	env, err := client.CallTool(ctx, args[0], arguments)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, env.Text())

	return nil
}
