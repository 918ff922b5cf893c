// Package solver turns classified problem text into a Result. Each family
// with a dedicated strategy gets its own solver; everything else goes to
// the general fallback. Solving never panics and never returns an error:
// failures are values.
package solver

import (
	"fmt"

	"github.com/abhisek/mathsolver/internal/classify"
	"github.com/abhisek/mathsolver/internal/evaluator"
	"github.com/abhisek/mathsolver/internal/problem"
)

// Solver is one family strategy.
type Solver interface {
	Solve(text string) Result
}

// Outcome pairs a classification with the result it led to.
type Outcome struct {
	Text           string                 `json:"text"`
	Classification problem.Classification `json:"classification"`
	Result         Result                 `json:"result"`
}

// Engine classifies text and dispatches it to a family solver.
type Engine struct {
	classifier *classify.Classifier

	arithmetic *ArithmeticSolver
	algebra    *AlgebraSolver
	general    *GeneralSolver
}

// NewEngine builds an engine over eval. A nil classifier means the default
// rule set.
func NewEngine(c *classify.Classifier, eval evaluator.Evaluator) *Engine {
	if c == nil {
		c = classify.Default()
	}
	arith := &ArithmeticSolver{Eval: eval}
	return &Engine{
		classifier: c,
		arithmetic: arith,
		algebra:    &AlgebraSolver{Eval: eval},
		general:    &GeneralSolver{Arithmetic: arith},
	}
}

// Default is an engine with the default classifier and evaluator.
func Default() *Engine {
	return NewEngine(nil, evaluator.New())
}

// Classify exposes the engine's classifier.
func (e *Engine) Classify(text string) problem.Classification {
	return e.classifier.Classify(text)
}

// Solve dispatches on cl.Family. A panic anywhere below is converted into a
// Failure.
func (e *Engine) Solve(text string, cl problem.Classification) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = failure(ReasonInternal, text, fmt.Errorf("solver panic: %v", r))
		}
	}()

	res = e.solverFor(cl.Family).Solve(text)
	if s, ok := res.(*Success); ok {
		s.Family = cl.Family
	}
	return res
}

// ClassifyAndSolve is Classify followed by Solve.
func (e *Engine) ClassifyAndSolve(text string) Outcome {
	cl := e.Classify(text)
	return Outcome{
		Text:           text,
		Classification: cl,
		Result:         e.Solve(text, cl),
	}
}

func (e *Engine) solverFor(f problem.Family) Solver {
	switch f {
	case problem.FamilyArithmetic:
		return e.arithmetic
	case problem.FamilyAlgebra:
		return e.algebra
	default:
		return e.general
	}
}
