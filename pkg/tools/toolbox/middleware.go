package toolbox

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/germanamz/calcmcp/pkg/tools/envelope"
	"github.com/germanamz/calcmcp/pkg/tools/schema"
	"github.com/google/uuid"
)

// Middleware wraps the handler of the named tool, returning a new Handler with
// added behaviour.
type Middleware func(name string, next Handler) Handler

// --- Recovery middleware ---

// Recovery returns a Middleware that catches panics and converts them to
// ErrInternal.
func Recovery() Middleware {
	return func(name string, next Handler) Handler {
		return func(ctx context.Context, args schema.Args) (out envelope.Outcome, err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: %s panicked: %v", ErrInternal, name, r)
				}
			}()

			return next(ctx, args)
		}
	}
}

// --- Logger middleware ---

// Logger returns a Middleware that logs call start, duration, and outcome.
// Each call is tagged with a fresh invocation ID.
func Logger(log *slog.Logger) Middleware {
	return func(name string, next Handler) Handler {
		return func(ctx context.Context, args schema.Args) (envelope.Outcome, error) {
			id := uuid.NewString()

			log.DebugContext(ctx, "tool call started", "tool", name, "invocation_id", id)

			start := time.Now()

			out, err := next(ctx, args)

			duration := time.Since(start)

			if err != nil {
				log.ErrorContext(ctx, "tool call failed",
					"tool", name,
					"invocation_id", id,
					"duration", duration,
					"error", err,
				)
			} else {
				log.InfoContext(ctx, "tool call finished",
					"tool", name,
					"invocation_id", id,
					"duration", duration,
					"is_error", out.Failed(),
				)
			}

			return out, err
		}
	}
}
