package classify

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/abhisek/mathsolver/internal/problem"
)

// Rule is a family predicate. Rules are evaluated in priority order and the
// first match decides the family.
type Rule interface {
	Family() problem.Family
	Matches(text string) bool
}

// FamilyRule matches when any pattern or any keyword is found in the text.
// Keywords are compared as lower-case substrings.
type FamilyRule struct {
	For      problem.Family
	Patterns []*regexp.Regexp
	Keywords []string

	// Require, when set, must also hold for the rule to match.
	Require func(text string) bool
}

var _ Rule = (*FamilyRule)(nil)

func (r *FamilyRule) Family() problem.Family { return r.For }

func (r *FamilyRule) Matches(text string) bool {
	if r.Require != nil && !r.Require(text) {
		return false
	}
	for _, p := range r.Patterns {
		if p.MatchString(text) {
			return true
		}
	}
	if len(r.Keywords) == 0 {
		return false
	}
	lower := strings.ToLower(text)
	for _, k := range r.Keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

var (
	arithmeticPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\s*\d+\s*[+\-*/×÷]\s*\d+`),
		regexp.MustCompile(`^\s*\(\s*\d+\s*[+\-*/×÷]`),
		regexp.MustCompile(`\d+\s*[+\-]\s*\d+\s*[*/]`),
	}

	// The third pattern has an optional caret, so any Latin letter matches.
	// Kept as is: it is why "sin(x) = 0.5" classifies as algebra.
	algebraPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)[a-z]\s*=\s*`),
		regexp.MustCompile(`(?i)\d*[a-z][+\-]`),
		regexp.MustCompile(`(?i)[a-z]\^?\d*`),
	}

	calculusPatterns = []*regexp.Regexp{
		regexp.MustCompile(`d[xy]/d[xy]`),
	}
)

// DefaultRules returns the family rules in priority order:
// arithmetic, algebra, geometry, calculus, trigonometry, statistics.
func DefaultRules() []Rule {
	return rulesFrom(keywords)
}

func rulesFrom(kw KeywordTable) []Rule {
	return []Rule{
		&FamilyRule{
			For:      problem.FamilyArithmetic,
			Patterns: arithmeticPatterns,
			Require:  hasNoLetters,
		},
		&FamilyRule{
			For:      problem.FamilyAlgebra,
			Patterns: algebraPatterns,
			Keywords: kw.Words(problem.FamilyAlgebra),
		},
		&FamilyRule{
			For:      problem.FamilyGeometry,
			Keywords: kw.Words(problem.FamilyGeometry),
		},
		&FamilyRule{
			For:      problem.FamilyCalculus,
			Patterns: calculusPatterns,
			Keywords: kw.Words(problem.FamilyCalculus),
		},
		&FamilyRule{
			For:      problem.FamilyTrigonometry,
			Keywords: kw.Words(problem.FamilyTrigonometry),
		},
		&FamilyRule{
			For:      problem.FamilyStatistics,
			Keywords: kw.Words(problem.FamilyStatistics),
		},
	}
}

// RunRules returns the family of the first matching rule, or
// FamilyUnknown.
func RunRules(rules []Rule, text string) problem.Family {
	for _, r := range rules {
		if r.Matches(text) {
			return r.Family()
		}
	}
	return problem.FamilyUnknown
}

func hasNoLetters(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
