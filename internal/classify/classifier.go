// Package classify assigns a problem family, operation set and confidence
// score to raw problem text. Classification is a pure function of the text.
package classify

import (
	"regexp"
	"unicode/utf8"

	"github.com/abhisek/mathsolver/internal/problem"
)

// profile holds the fixed attributes that come with a family verdict.
type profile struct {
	category     string
	difficulty   problem.Difficulty
	hasVariables bool
	hasEquation  bool
}

var profiles = map[problem.Family]profile{
	problem.FamilyArithmetic:   {category: "basic", difficulty: problem.DifficultyEasy},
	problem.FamilyAlgebra:      {category: "equation", difficulty: problem.DifficultyMedium, hasVariables: true, hasEquation: true},
	problem.FamilyGeometry:     {category: "shapes", difficulty: problem.DifficultyMedium},
	problem.FamilyCalculus:     {category: "advanced", difficulty: problem.DifficultyHard},
	problem.FamilyTrigonometry: {category: "angles", difficulty: problem.DifficultyMedium},
	problem.FamilyStatistics:   {category: "data", difficulty: problem.DifficultyMedium},
	problem.FamilyUnknown:      {category: "general", difficulty: problem.DifficultyMedium},
}

// Classifier runs family rules in order. The zero value is not usable; use
// New or Default.
type Classifier struct {
	rules []Rule
}

// New creates a Classifier with the given rules in priority order.
func New(rules ...Rule) *Classifier {
	return &Classifier{rules: rules}
}

var defaultClassifier = New(DefaultRules()...)

// Default returns the shared classifier built from DefaultRules.
func Default() *Classifier {
	return defaultClassifier
}

// Classify classifies text with the default rules.
func Classify(text string) problem.Classification {
	return defaultClassifier.Classify(text)
}

// Classify produces the classification for text.
func (c *Classifier) Classify(text string) problem.Classification {
	family := RunRules(c.rules, text)
	p := profiles[family]

	cl := problem.Classification{
		Family:       family,
		Category:     p.category,
		Difficulty:   p.difficulty,
		Operations:   DetectOperations(text),
		HasVariables: p.hasVariables,
		HasEquation:  p.hasEquation,
	}
	cl.Confidence = EstimateConfidence(text, cl)
	return cl
}

var digitRe = regexp.MustCompile(`\d`)

// EstimateConfidence scores how well text looks like a solvable problem.
// It is a heuristic in [0,1], not a probability.
func EstimateConfidence(text string, cl problem.Classification) float64 {
	confidence := 0.5

	if cl.Family != problem.FamilyUnknown {
		confidence += 0.2
	}
	if !cl.Operations.Empty() {
		confidence += 0.1
	}
	if digitRe.MatchString(text) {
		confidence += 0.1
	}
	if utf8.RuneCountInString(text) < 5 {
		confidence -= 0.3
	}

	return clamp(confidence, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
