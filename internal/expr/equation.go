package expr

import (
	"strings"

	"github.com/abhisek/mathsolver/internal/problem"
)

// ExtractEquation splits text around its first equality sign. Anything after
// a later "=" stays on the right side. It reports false when text has no
// "=", when either side is blank, or when the first "=" is doubled as in
// "a == b".
func ExtractEquation(text string) (problem.Equation, bool) {
	i := strings.IndexByte(text, '=')
	if i < 0 {
		return problem.Equation{}, false
	}

	left := strings.TrimSpace(text[:i])
	right := strings.TrimSpace(text[i+1:])
	if left == "" || right == "" || right[0] == '=' {
		return problem.Equation{}, false
	}

	return problem.Equation{
		Left:  left,
		Right: right,
		Full:  strings.TrimSpace(text),
	}, true
}

// DefaultVariable is used when an equation side has no letters.
const DefaultVariable = "x"

// ExtractVariable returns the first ASCII letter in s, or DefaultVariable.
func ExtractVariable(s string) string {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return string(r)
		}
	}
	return DefaultVariable
}
