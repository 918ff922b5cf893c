package solver

import "github.com/abhisek/mathsolver/internal/problem"

// GuidanceSuggestions are shown when the fallback solver cannot compute
// anything from the text.
var GuidanceSuggestions = []string{
	"Write the problem more clearly",
	"Make sure numbers and symbols are legible",
	"If you used an image, upload a sharper one",
	"Try again, or type the problem directly",
}

// GeneralSolver is the fallback for families without a dedicated strategy.
// It never fails: if strict evaluation is not possible it answers with
// guidance instead.
type GeneralSolver struct {
	Arithmetic *ArithmeticSolver
}

func (s *GeneralSolver) Solve(text string) Result {
	if ev, err := s.Arithmetic.evaluate(text); err == nil {
		return &Success{
			Family:  problem.FamilyUnknown,
			Payload: ev,
			Steps:   arithmeticSteps(ev),
		}
	}

	return &Success{
		Family: problem.FamilyUnknown,
		Payload: &Guidance{
			Text:        text,
			Suggestions: append([]string(nil), GuidanceSuggestions...),
		},
	}
}
