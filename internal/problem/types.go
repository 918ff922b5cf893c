package problem

import (
	"encoding/json"
	"fmt"
)

// Family is the top-level problem category assigned by the classifier.
type Family string

const (
	FamilyArithmetic   Family = "arithmetic"
	FamilyAlgebra      Family = "algebra"
	FamilyGeometry     Family = "geometry"
	FamilyCalculus     Family = "calculus"
	FamilyTrigonometry Family = "trigonometry"
	FamilyStatistics   Family = "statistics"
	FamilyUnknown      Family = "unknown"
)

// AllFamilies lists the families in classification priority order,
// followed by FamilyUnknown.
var AllFamilies = []Family{
	FamilyArithmetic,
	FamilyAlgebra,
	FamilyGeometry,
	FamilyCalculus,
	FamilyTrigonometry,
	FamilyStatistics,
	FamilyUnknown,
}

// ParseFamily converts a string to a Family.
func ParseFamily(s string) (Family, error) {
	for _, f := range AllFamilies {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown family %q", s)
}

// Difficulty is a coarse difficulty estimate for a problem.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Text is a problem statement, either typed or extracted from an image.
type Text = string

// Classification is the classifier's verdict for a single problem text.
// It is a value type; callers receive copies and cannot mutate the
// classifier's view of the input.
type Classification struct {
	Family       Family       `json:"family"`
	Category     string       `json:"category"`
	Difficulty   Difficulty   `json:"difficulty"`
	Operations   OperationSet `json:"operations"`
	HasVariables bool         `json:"has_variables"`
	HasEquation  bool         `json:"has_equation"`
	Confidence   float64      `json:"confidence"` // 0.0–1.0
}

// Equation is a text split around its first equality sign.
type Equation struct {
	Left  string `json:"left"`
	Right string `json:"right"`
	Full  string `json:"full"`
}

// ValueKind tells how an EquationSolution value should be read.
type ValueKind string

const (
	ValueNumeric      ValueKind = "numeric"
	ValueSymbolic     ValueKind = "symbolic"
	ValueUndetermined ValueKind = "undetermined"
)

// SolutionValue is the value of a solved unknown: a number, a symbolic
// expression returned by the simplifier, or undetermined.
type SolutionValue struct {
	Kind     ValueKind `json:"kind"`
	Number   float64   `json:"number"`
	Symbolic string    `json:"symbolic,omitempty"`
}

// Numeric returns a determined numeric value.
func Numeric(v float64) SolutionValue {
	return SolutionValue{Kind: ValueNumeric, Number: v}
}

// Symbolic returns a determined symbolic value.
func Symbolic(s string) SolutionValue {
	return SolutionValue{Kind: ValueSymbolic, Symbolic: s}
}

// Undetermined returns the value used when no solution could be derived.
func Undetermined() SolutionValue {
	return SolutionValue{Kind: ValueUndetermined}
}

// IsUndetermined reports whether the value could not be derived.
func (v SolutionValue) IsUndetermined() bool {
	return v.Kind == ValueUndetermined || v.Kind == ""
}

func (v SolutionValue) String() string {
	switch v.Kind {
	case ValueNumeric:
		return FormatNumber(v.Number)
	case ValueSymbolic:
		return v.Symbolic
	default:
		return "undetermined"
	}
}

// EquationSolution is the algebra solver's answer.
type EquationSolution struct {
	Variable string        `json:"variable"`
	Value    SolutionValue `json:"value"`
	Steps    []string      `json:"steps"`
}

// OperationSet is a set of arithmetic operation classes found in a text.
// The zero value is the empty set.
type OperationSet uint8

// Operation is a single operation class.
type Operation uint8

const (
	OpAddition Operation = 1 << iota
	OpSubtraction
	OpMultiplication
	OpDivision
	OpExponentiation
	OpRoot
	OpLogarithm
)

var operationOrder = []Operation{
	OpAddition,
	OpSubtraction,
	OpMultiplication,
	OpDivision,
	OpExponentiation,
	OpRoot,
	OpLogarithm,
}

var operationNames = map[Operation]string{
	OpAddition:       "addition",
	OpSubtraction:    "subtraction",
	OpMultiplication: "multiplication",
	OpDivision:       "division",
	OpExponentiation: "exponentiation",
	OpRoot:           "root",
	OpLogarithm:      "logarithm",
}

func (o Operation) String() string {
	if n, ok := operationNames[o]; ok {
		return n
	}
	return fmt.Sprintf("operation(%d)", uint8(o))
}

// NewOperationSet builds a set from the given operations. Duplicates collapse.
func NewOperationSet(ops ...Operation) OperationSet {
	var s OperationSet
	for _, op := range ops {
		s = s.With(op)
	}
	return s
}

// With returns a copy of s that also contains op.
func (s OperationSet) With(op Operation) OperationSet {
	return s | OperationSet(op)
}

// Has reports whether op is in the set.
func (s OperationSet) Has(op Operation) bool {
	return s&OperationSet(op) != 0
}

// Empty reports whether the set has no members.
func (s OperationSet) Empty() bool {
	return s == 0
}

// Len returns the number of members.
func (s OperationSet) Len() int {
	n := 0
	for _, op := range operationOrder {
		if s.Has(op) {
			n++
		}
	}
	return n
}

// List returns the members in canonical order.
func (s OperationSet) List() []Operation {
	out := make([]Operation, 0, len(operationOrder))
	for _, op := range operationOrder {
		if s.Has(op) {
			out = append(out, op)
		}
	}
	return out
}

// Names returns the member names in canonical order.
func (s OperationSet) Names() []string {
	ops := s.List()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.String()
	}
	return names
}

func (s OperationSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

func (s *OperationSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	var out OperationSet
	for _, n := range names {
		op, ok := operationByName(n)
		if !ok {
			return fmt.Errorf("unknown operation %q", n)
		}
		out = out.With(op)
	}
	*s = out
	return nil
}

func operationByName(name string) (Operation, bool) {
	for op, n := range operationNames {
		if n == name {
			return op, true
		}
	}
	return 0, false
}
