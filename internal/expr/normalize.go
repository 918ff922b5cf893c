// Package expr turns raw problem text into evaluable expressions and
// equation parts. Everything here is pure and safe for concurrent use.
package expr

import (
	"regexp"
	"strings"
)

var glyphReplacer = strings.NewReplacer(
	"×", "*",
	"÷", "/",
)

var (
	// digit followed by an opening parenthesis: 2(3+1) → 2*(3+1)
	digitParenRe = regexp.MustCompile(`(\d)\s*\(`)

	// closing parenthesis followed by a digit: (3+1)2 → (3+1)*2
	parenDigitRe = regexp.MustCompile(`\)\s*(\d)`)

	// anything that is not a digit, operator, parenthesis, point or caret
	nonExprRe = regexp.MustCompile(`[^\d+\-*/().^]`)
)

// Normalize rewrites text into an expression string for numeric evaluation.
// It never fails; text with no arithmetic content yields "".
//
// Letters are discarded, so algebraic text must not be routed through here.
func Normalize(text string) string {
	s := glyphReplacer.Replace(text)
	s = insertImplicitMul(s)
	s = nonExprRe.ReplaceAllString(s, "")
	// Stripping can make a digit and a parenthesis adjacent ("2 x (3)"),
	// so implicit multiplication is applied again to reach a fixed point.
	s = insertImplicitMul(s)
	return strings.TrimSpace(s)
}

func insertImplicitMul(s string) string {
	s = digitParenRe.ReplaceAllString(s, "$1*(")
	return parenDigitRe.ReplaceAllString(s, ")*$1")
}
