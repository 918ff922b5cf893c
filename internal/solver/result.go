package solver

import (
	"encoding/json"
	"math"

	"github.com/abhisek/mathsolver/internal/problem"
)

// Failure reasons.
const (
	ReasonEquationNotIdentified = "equation not identified"
	ReasonCouldNotEvaluate      = "could not evaluate"
	ReasonInternal              = "internal solver error"
)

// Result is either *Success or *Failure.
type Result interface {
	isResult()
}

// Payload is the family-specific body of a Success: *EvaluatedExpression,
// *EquationReport or *Guidance.
type Payload interface {
	isPayload()
}

// Success is a solved (or softly answered) problem.
type Success struct {
	Family  problem.Family
	Payload Payload
	Steps   []string
}

// Failure is a problem that could not be solved.
type Failure struct {
	Reason       string
	OriginalText string

	// Err is the underlying cause, if any. Not serialized.
	Err error
}

func (*Success) isResult() {}
func (*Failure) isResult() {}

// EvaluatedExpression is the payload for a numerically evaluated expression.
type EvaluatedExpression struct {
	Expression string  `json:"expression"`
	Value      float64 `json:"value"`
}

// EquationReport is the payload for an algebra solution.
type EquationReport struct {
	Equation problem.Equation         `json:"equation"`
	Solution problem.EquationSolution `json:"solution"`
}

// Guidance is the informational payload produced when nothing could be
// computed from the text.
type Guidance struct {
	Text        string   `json:"text"`
	Suggestions []string `json:"suggestions"`
}

// MarshalJSON writes non-finite values as strings, which JSON numbers
// cannot represent.
func (e *EvaluatedExpression) MarshalJSON() ([]byte, error) {
	var value any = e.Value
	if math.IsInf(e.Value, 0) || math.IsNaN(e.Value) {
		value = problem.FormatNumber(e.Value)
	}
	return json.Marshal(struct {
		Expression string `json:"expression"`
		Value      any    `json:"value"`
	}{e.Expression, value})
}

func (*EvaluatedExpression) isPayload() {}
func (*EquationReport) isPayload()      {}
func (*Guidance) isPayload()            {}

// Undetermined reports whether s carries an equation whose value could not
// be derived. Such results should be shown as a soft suggestion.
func (s *Success) Undetermined() bool {
	r, ok := s.Payload.(*EquationReport)
	return ok && r.Solution.Value.IsUndetermined()
}

// Answer returns a one-line answer such as "9" or "x = 4", or "" for
// guidance.
func (s *Success) Answer() string {
	switch p := s.Payload.(type) {
	case *EvaluatedExpression:
		return problem.FormatNumber(p.Value)
	case *EquationReport:
		return p.Solution.Variable + " = " + p.Solution.Value.String()
	default:
		return ""
	}
}

// IsSuccess reports whether r is a *Success.
func IsSuccess(r Result) bool {
	_, ok := r.(*Success)
	return ok
}

type successJSON struct {
	Status     string               `json:"status"`
	Family     problem.Family       `json:"family"`
	Kind       string               `json:"kind"`
	Expression *EvaluatedExpression `json:"expression,omitempty"`
	Equation   *EquationReport      `json:"equation,omitempty"`
	Guidance   *Guidance            `json:"guidance,omitempty"`
	Steps      []string             `json:"steps"`
}

func (s *Success) MarshalJSON() ([]byte, error) {
	out := successJSON{Status: "success", Family: s.Family, Steps: s.Steps}
	switch p := s.Payload.(type) {
	case *EvaluatedExpression:
		out.Kind = "expression"
		out.Expression = p
	case *EquationReport:
		out.Kind = "equation"
		out.Equation = p
	case *Guidance:
		out.Kind = "guidance"
		out.Guidance = p
	}
	if out.Steps == nil {
		out.Steps = []string{}
	}
	return json.Marshal(out)
}

func (f *Failure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Status       string `json:"status"`
		Reason       string `json:"reason"`
		OriginalText string `json:"original_text"`
	}{"failure", f.Reason, f.OriginalText})
}

func failure(reason, text string, err error) *Failure {
	return &Failure{Reason: reason, OriginalText: text, Err: err}
}
