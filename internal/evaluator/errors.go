package evaluator

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyExpression is returned for blank input.
	ErrEmptyExpression = errors.New("empty expression")

	// ErrNotFinite is returned by Simplify when an equation or constant
	// reduces to an infinity or NaN.
	ErrNotFinite = errors.New("result is not a finite number")

	// ErrNotSimplifiable is returned when an equation is not linear in a
	// single unknown.
	ErrNotSimplifiable = errors.New("expression cannot be simplified")
)

// EvalError wraps a failure to parse or evaluate a specific expression.
type EvalError struct {
	Expr string
	Err  error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluate %q: %v", e.Expr, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }
