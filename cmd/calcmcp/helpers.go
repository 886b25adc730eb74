package main

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/germanamz/calcmcp/pkg/engine"
	"github.com/joho/godotenv"
)

const (
	transportStdio = "stdio"
	transportHTTP  = "http"
)

// defaultConfigFile is used when no -config flag is given and it exists.
const defaultConfigFile = "calcmcp.yaml"

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// resolveConfigPath returns the explicit path, else defaultConfigFile when it
// exists, else "" meaning built-in defaults.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile
	}

	return ""
}

func loadConfig(path string) (engine.Config, error) {
	if path == "" {
		return engine.DefaultConfig(), nil
	}

	return engine.LoadConfig(path)
}

// newLogger returns a text logger on w. Stdout is reserved for the stdio
// transport, so callers pass stderr.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := engine.ParseLogLevel(level)
	if err != nil {
		return nil, err
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
