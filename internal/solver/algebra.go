package solver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/abhisek/mathsolver/internal/evaluator"
	"github.com/abhisek/mathsolver/internal/expr"
	"github.com/abhisek/mathsolver/internal/problem"
)

// AlgebraSolver solves single-unknown equations. It asks the evaluator to
// simplify the equation and falls back to a linear pattern when that fails.
type AlgebraSolver struct {
	Eval evaluator.Evaluator
}

// linearRe finds "[coef]<letter> (+|-) <constant>", e.g. "2x + 5", anywhere
// in the left side so that leading words such as "Solve" are skipped.
var linearRe = regexp.MustCompile(`(\d*)\s*([a-zA-Z])\s*([+\-])\s*(\d+)`)

func (s *AlgebraSolver) Solve(text string) Result {
	eq, ok := expr.ExtractEquation(text)
	if !ok {
		return failure(ReasonEquationNotIdentified, text, nil)
	}

	var sol problem.EquationSolution
	if simplified, err := s.Eval.Simplify(eq.Full); err == nil {
		sol = simplifiedSolution(eq, simplified)
	} else {
		sol = solveLinear(eq)
	}

	return &Success{
		Family:  problem.FamilyAlgebra,
		Payload: &EquationReport{Equation: eq, Solution: sol},
		Steps:   sol.Steps,
	}
}

func simplifiedSolution(eq problem.Equation, simplified string) problem.EquationSolution {
	variable := expr.ExtractVariable(eq.Left)

	value := problem.Symbolic(simplified)
	if v, err := strconv.ParseFloat(strings.TrimSpace(simplified), 64); err == nil {
		value = problem.Numeric(v)
	}

	return problem.EquationSolution{
		Variable: variable,
		Value:    value,
		Steps: []string{
			fmt.Sprintf("Given equation: %s", eq.Full),
			fmt.Sprintf("Isolate the unknown %s", variable),
			"Simplify the equation",
			fmt.Sprintf("Answer: %s = %s", variable, value),
		},
	}
}

// solveLinear handles "ax + b = c" and "ax - b = c" with a numeric right
// side. Anything else is undetermined.
func solveLinear(eq problem.Equation) problem.EquationSolution {
	m := linearRe.FindStringSubmatch(eq.Left)
	right, err := strconv.ParseFloat(eq.Right, 64)
	if m == nil || err != nil {
		return problem.EquationSolution{
			Variable: expr.DefaultVariable,
			Value:    problem.Undetermined(),
			Steps:    []string{"The equation needs to be simplified first"},
		}
	}

	coef := 1.0
	if m[1] != "" {
		coef, _ = strconv.ParseFloat(m[1], 64)
	}
	variable, op := m[2], m[3]
	constant, _ := strconv.ParseFloat(m[4], 64)

	if coef == 0 {
		return problem.EquationSolution{
			Variable: variable,
			Value:    problem.Undetermined(),
			Steps:    []string{fmt.Sprintf("The coefficient of %s is zero", variable)},
		}
	}

	var value float64
	if op == "+" {
		value = (right - constant) / coef
	} else {
		value = (right + constant) / coef
	}

	return problem.EquationSolution{
		Variable: variable,
		Value:    problem.Numeric(value),
		Steps: []string{
			fmt.Sprintf("Given: %s", eq.Full),
			"Move the constant to the right side and divide by the coefficient",
			fmt.Sprintf("%s = %s", variable, problem.FormatNumber(value)),
		},
	}
}
