package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/germanamz/calcmcp/pkg/engine"
)

func main() {
	// Handle subcommands before flag parsing.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "tools":
			toolsCmd := flag.NewFlagSet("tools", flag.ExitOnError)
			toolsCmd.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: calcmcp tools [flags]\n\nList the tools of a running server.\n\nFlags:\n")
				toolsCmd.PrintDefaults()
			}
			url := toolsCmd.String("url", defaultClientURL, "server endpoint (.../mcp or .../sse)")
			_ = toolsCmd.Parse(os.Args[2:])

			if err := runTools(*url, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}

			return
		case "call":
			callCmd := flag.NewFlagSet("call", flag.ExitOnError)
			callCmd.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: calcmcp call [flags] <tool> [json-arguments]\n\nInvoke a tool on a running server and print its text result.\n\nFlags:\n")
				callCmd.PrintDefaults()
			}
			url := callCmd.String("url", defaultClientURL, "server endpoint (.../mcp or .../sse)")
			_ = callCmd.Parse(os.Args[2:])

			if err := runCall(*url, callCmd.Args(), os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}

			return
		}
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: calcmcp [flags]\n\nServe the calculator and airtable tools over MCP.\n\nFlags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands:\n  tools   List the tools of a running server\n  call    Invoke a tool on a running server\n")
	}

	configPath := flag.String("config", "", "path to configuration file (default: calcmcp.yaml if present)")
	envFile := flag.String("env", ".env", "path to .env file (ignored if missing)")
	transport := flag.String("transport", transportStdio, "transport to serve: stdio or http")
	addr := flag.String("addr", "", "HTTP listen address (overrides http.addr in config)")
	flag.Parse()

	if err := loadDotEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := run(*configPath, *transport, *addr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, transport, addr string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(resolveConfigPath(configPath))
	if err != nil {
		return err
	}

	log, err := newLogger(os.Stderr, cfg.Log.Level)
	if err != nil {
		return err
	}

	eng, err := engine.New(cfg, engine.Options{Logger: log})
	if err != nil {
		return err
	}

	switch transport {
	case transportStdio:
		return eng.ServeStdio(ctx, os.Stdin, os.Stdout)
	case transportHTTP:
		return eng.ListenAndServe(ctx, addr)
	default:
		return fmt.Errorf("unknown transport %q (want %s or %s)", transport, transportStdio, transportHTTP)
	}
}
