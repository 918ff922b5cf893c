// Package evaluator provides numeric evaluation and equation simplification
// for normalized expressions. The solver depends only on the Evaluator
// interface; Govaluate is the production implementation.
package evaluator

// Evaluator evaluates and simplifies expressions. Implementations must be
// safe for concurrent use.
type Evaluator interface {
	// Evaluate computes the numeric value of a constant expression.
	Evaluate(expression string) (float64, error)

	// Simplify reduces an expression or single-unknown equation to a simpler
	// textual form. For a solvable linear equation the result is the value
	// of the unknown.
	Simplify(expression string) (string, error)
}
