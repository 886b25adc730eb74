// Package calculator provides the add and calculate tools.
package calculator

import (
	"context"
	"errors"
	"fmt"

	"github.com/germanamz/calcmcp/pkg/tools/envelope"
	"github.com/germanamz/calcmcp/pkg/tools/schema"
	"github.com/germanamz/calcmcp/pkg/tools/toolbox"
)

// Operation is an arithmetic operation accepted by the calculate tool.
type Operation string

const (
	OpAdd      Operation = "add"
	OpSubtract Operation = "subtract"
	OpMultiply Operation = "multiply"
	OpDivide   Operation = "divide"
)

// Operations lists every supported operation in declaration order.
var Operations = []Operation{OpAdd, OpSubtract, OpMultiply, OpDivide}

var (
	// ErrDivideByZero is returned by Calculate when dividing by zero.
	ErrDivideByZero = errors.New("calculator: cannot divide by zero")
	// ErrUnknownOperation is returned by Calculate for an unsupported operation.
	ErrUnknownOperation = errors.New("calculator: unknown operation")
)

// divideByZeroMessage is the outcome text for a division by zero.
const divideByZeroMessage = "Cannot divide by zero"

// Add returns a + b.
func Add(a, b float64) float64 {
	return a + b
}

// Calculate applies op to a and b using IEEE 754 float64 arithmetic.
func Calculate(op Operation, a, b float64) (float64, error) {
	switch op {
	case OpAdd:
		return a + b, nil
	case OpSubtract:
		return a - b, nil
	case OpMultiply:
		return a * b, nil
	case OpDivide:
		if b == 0 {
			return 0, ErrDivideByZero
		}
		return a / b, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
}

// Tools returns the add and calculate tools.
func Tools() []toolbox.Tool {
	return []toolbox.Tool{addTool(), calculateTool()}
}

// --- add ---

func addTool() toolbox.Tool {
	return toolbox.Tool{
		Name:        "add",
		Description: "Add two numbers.",
		Params: schema.Params{
			schema.NumberParam("a"),
			schema.NumberParam("b"),
		},
		Handler: handleAdd,
	}
}

func handleAdd(_ context.Context, args schema.Args) (envelope.Outcome, error) {
	return envelope.Number(Add(args.Number("a"), args.Number("b"))), nil
}

// --- calculate ---

func calculateTool() toolbox.Tool {
	values := make([]string, len(Operations))
	for i, op := range Operations {
		values[i] = string(op)
	}

	return toolbox.Tool{
		Name:        "calculate",
		Description: "Apply add, subtract, multiply, or divide to two numbers.",
		Params: schema.Params{
			schema.EnumParam("operation", values...),
			schema.NumberParam("a"),
			schema.NumberParam("b"),
		},
		Handler: handleCalculate,
	}
}

func handleCalculate(_ context.Context, args schema.Args) (envelope.Outcome, error) {
	result, err := Calculate(Operation(args.String("operation")), args.Number("a"), args.Number("b"))

	switch {
	case errors.Is(err, ErrDivideByZero):
		return envelope.Failure(divideByZeroMessage), nil
	case err != nil:
		// Unreachable while the schema enum matches Operations.
		return envelope.Outcome{}, fmt.Errorf("%w: %w", toolbox.ErrInternal, err)
	}

	return envelope.Number(result), nil
}
