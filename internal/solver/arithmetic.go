package solver

import (
	"fmt"
	"strings"

	"github.com/abhisek/mathsolver/internal/evaluator"
	"github.com/abhisek/mathsolver/internal/expr"
	"github.com/abhisek/mathsolver/internal/problem"
)

// ArithmeticSolver normalizes text and evaluates it numerically.
type ArithmeticSolver struct {
	Eval evaluator.Evaluator
}

func (s *ArithmeticSolver) Solve(text string) Result {
	ev, err := s.evaluate(text)
	if err != nil {
		return failure(ReasonCouldNotEvaluate, text, err)
	}
	return &Success{
		Family:  problem.FamilyArithmetic,
		Payload: ev,
		Steps:   arithmeticSteps(ev),
	}
}

// evaluate is the strict half of arithmetic solving, shared with the
// general fallback.
func (s *ArithmeticSolver) evaluate(text string) (*EvaluatedExpression, error) {
	normalized := expr.Normalize(text)
	v, err := s.Eval.Evaluate(normalized)
	if err != nil {
		return nil, err
	}
	return &EvaluatedExpression{Expression: normalized, Value: v}, nil
}

// arithmeticSteps describes the order of operations for the expression.
// The lines are descriptive; they do not recompute anything.
func arithmeticSteps(ev *EvaluatedExpression) []string {
	e := ev.Expression
	steps := []string{fmt.Sprintf("Given expression: %s", e)}

	if strings.Contains(e, "(") {
		steps = append(steps, "Evaluate the parentheses first")
	}
	if strings.ContainsAny(e, "*/") {
		steps = append(steps, "Perform multiplication and division")
	}
	if strings.ContainsAny(e, "+-") {
		steps = append(steps, "Perform addition and subtraction")
	}

	return append(steps, fmt.Sprintf("Result: %s", problem.FormatNumber(ev.Value)))
}
