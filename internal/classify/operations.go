package classify

import (
	"regexp"

	"github.com/abhisek/mathsolver/internal/problem"
)

type operationProbe struct {
	op problem.Operation
	re *regexp.Regexp
}

var operationProbes = []operationProbe{
	{problem.OpAddition, regexp.MustCompile(`\+`)},
	{problem.OpSubtraction, regexp.MustCompile(`-`)},
	{problem.OpMultiplication, regexp.MustCompile(`[*×]`)},
	{problem.OpDivision, regexp.MustCompile(`[/÷]`)},
	{problem.OpExponentiation, regexp.MustCompile(`\^|\*\*`)},
	{problem.OpRoot, regexp.MustCompile(`(?i)√|sqrt`)},
	{problem.OpLogarithm, regexp.MustCompile(`(?i)log|ln`)},
}

// DetectOperations returns the operation classes present in text. Each
// class is recorded once regardless of how often it appears.
func DetectOperations(text string) problem.OperationSet {
	var ops problem.OperationSet
	for _, p := range operationProbes {
		if p.re.MatchString(text) {
			ops = ops.With(p.op)
		}
	}
	return ops
}
