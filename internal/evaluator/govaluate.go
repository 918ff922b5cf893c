package evaluator

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/Knetic/govaluate"

	"github.com/abhisek/mathsolver/internal/problem"
)

// linearProbes are the points at which an equation is sampled to confirm it
// is linear in its unknown.
var linearProbes = []float64{0, 1, 2, -1.5, 10}

const epsilon = 1e-9

var (
	// 2x → 2*x, 2( → 2*(
	digitImplicitRe = regexp.MustCompile(`(\d)\s*([a-zA-Z(])`)

	// )x → )*x, )2 → )*2, )( → )*(
	parenImplicitRe = regexp.MustCompile(`\)\s*([a-zA-Z0-9(])`)
)

// Govaluate implements Evaluator on top of github.com/Knetic/govaluate.
// Each call compiles a fresh expression, so a single value is safe to share.
type Govaluate struct {
	functions map[string]govaluate.ExpressionFunction
}

var _ Evaluator = (*Govaluate)(nil)

// New returns a Govaluate evaluator with the default function table.
func New() *Govaluate {
	return &Govaluate{functions: defaultFunctions}
}

// Evaluate computes the value of a constant expression. "^" is treated as
// exponentiation. Division by zero yields ±Inf or NaN as in IEEE 754.
func (g *Govaluate) Evaluate(expression string) (float64, error) {
	prepared := prepare(expression)
	if prepared == "" {
		return 0, ErrEmptyExpression
	}

	compiled, err := g.compile(prepared)
	if err != nil {
		return 0, &EvalError{Expr: expression, Err: err}
	}

	v, err := g.run(compiled, nil)
	if err != nil {
		return 0, &EvalError{Expr: expression, Err: err}
	}
	return v, nil
}

// Simplify reduces expression. A constant expression simplifies to its
// value. An equation "L = R" that is linear in exactly one unknown
// simplifies to the unknown's value. Everything else returns
// ErrNotSimplifiable.
func (g *Govaluate) Simplify(expression string) (string, error) {
	if strings.TrimSpace(expression) == "" {
		return "", ErrEmptyExpression
	}

	parts := strings.Split(expression, "=")
	switch len(parts) {
	case 1:
		v, err := g.Evaluate(expression)
		if err == nil {
			err = finite(v)
		}
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrNotSimplifiable, err)
		}
		return problem.FormatNumber(v), nil
	case 2:
		// handled below
	default:
		return "", fmt.Errorf("%w: more than one equality", ErrNotSimplifiable)
	}

	left, right := prepare(parts[0]), prepare(parts[1])
	if left == "" || right == "" {
		return "", fmt.Errorf("%w: empty equation side", ErrNotSimplifiable)
	}

	compiled, err := g.compile(fmt.Sprintf("(%s) - (%s)", left, right))
	if err != nil {
		return "", &EvalError{Expr: expression, Err: err}
	}

	unknown, err := singleUnknown(compiled.Vars())
	if err != nil {
		return "", err
	}

	root, err := g.solveLinear(compiled, unknown)
	if err != nil {
		return "", err
	}
	return problem.FormatNumber(root), nil
}

// solveLinear samples f(v) = L(v) - R(v) and returns its root when f is
// linear with a non-zero slope.
func (g *Govaluate) solveLinear(f *govaluate.EvaluableExpression, unknown string) (float64, error) {
	at := func(v float64) (float64, error) {
		fv, err := g.run(f, map[string]interface{}{unknown: v})
		if err != nil {
			return 0, err
		}
		return fv, finite(fv)
	}

	f0, err := at(0)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNotSimplifiable, err)
	}
	f1, err := at(1)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNotSimplifiable, err)
	}

	slope := f1 - f0
	if math.Abs(slope) < epsilon {
		return 0, fmt.Errorf("%w: no unique solution for %s", ErrNotSimplifiable, unknown)
	}

	for _, p := range linearProbes[2:] {
		fp, err := at(p)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrNotSimplifiable, err)
		}
		want := f0 + slope*p
		if math.Abs(fp-want) > epsilon*(1+math.Abs(want)) {
			return 0, fmt.Errorf("%w: equation is not linear in %s", ErrNotSimplifiable, unknown)
		}
	}

	return -f0 / slope, nil
}

func (g *Govaluate) compile(expression string) (expr *govaluate.EvaluableExpression, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parser panic: %v", r)
		}
	}()
	return govaluate.NewEvaluableExpressionWithFunctions(expression, g.functions)
}

// run evaluates compiled with the given parameters plus constants and
// converts the result to a float64.
func (g *Govaluate) run(compiled *govaluate.EvaluableExpression, params map[string]interface{}) (v float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("evaluation panic: %v", r)
		}
	}()

	all := make(map[string]interface{}, len(params)+len(constants))
	for k, c := range constants {
		all[k] = c
	}
	for k, p := range params {
		all[k] = p
	}

	result, err := compiled.Evaluate(all)
	if err != nil {
		return 0, err
	}

	v, err = toFloat64(result)
	if err != nil {
		return 0, fmt.Errorf("non-numeric result %v", result)
	}
	return v, nil
}

func finite(v float64) error {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return ErrNotFinite
	}
	return nil
}

// singleUnknown returns the one free variable of an expression, ignoring
// named constants.
func singleUnknown(vars []string) (string, error) {
	seen := make(map[string]bool)
	var unknowns []string
	for _, v := range vars {
		if _, isConst := constants[v]; isConst || seen[v] {
			continue
		}
		seen[v] = true
		unknowns = append(unknowns, v)
	}

	switch len(unknowns) {
	case 0:
		return "", fmt.Errorf("%w: no unknown", ErrNotSimplifiable)
	case 1:
		return unknowns[0], nil
	default:
		return "", fmt.Errorf("%w: %d unknowns (%s)", ErrNotSimplifiable, len(unknowns), strings.Join(unknowns, ", "))
	}
}

// prepare rewrites conventional notation into govaluate syntax.
func prepare(expression string) string {
	s := strings.TrimSpace(expression)
	s = strings.NewReplacer("×", "*", "÷", "/", "π", "pi", "^", "**").Replace(s)
	s = digitImplicitRe.ReplaceAllString(s, "$1*$2")
	s = parenImplicitRe.ReplaceAllString(s, ")*$1")
	return s
}
