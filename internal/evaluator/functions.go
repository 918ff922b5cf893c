package evaluator

import (
	"fmt"
	"math"
	"strconv"

	"github.com/Knetic/govaluate"
)

// defaultFunctions is the function table handed to govaluate. log is base
// 10, ln is natural.
var defaultFunctions = map[string]govaluate.ExpressionFunction{
	"sqrt":   unary("sqrt", math.Sqrt),
	"sin":    unary("sin", math.Sin),
	"cos":    unary("cos", math.Cos),
	"tan":    unary("tan", math.Tan),
	"cot":    unary("cot", func(x float64) float64 { return 1 / math.Tan(x) }),
	"sec":    unary("sec", func(x float64) float64 { return 1 / math.Cos(x) }),
	"csc":    unary("csc", func(x float64) float64 { return 1 / math.Sin(x) }),
	"arcsin": unary("arcsin", math.Asin),
	"arccos": unary("arccos", math.Acos),
	"arctan": unary("arctan", math.Atan),
	"asin":   unary("asin", math.Asin),
	"acos":   unary("acos", math.Acos),
	"atan":   unary("atan", math.Atan),
	"sinh":   unary("sinh", math.Sinh),
	"cosh":   unary("cosh", math.Cosh),
	"tanh":   unary("tanh", math.Tanh),
	"log":    unary("log", math.Log10),
	"ln":     unary("ln", math.Log),
	"exp":    unary("exp", math.Exp),
	"abs":    unary("abs", math.Abs),
	"floor":  unary("floor", math.Floor),
	"ceil":   unary("ceil", math.Ceil),
	"round":  unary("round", math.Round),
	"pow": func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("pow requires exactly 2 arguments")
		}
		base, err := toFloat64(args[0])
		if err != nil {
			return nil, err
		}
		exponent, err := toFloat64(args[1])
		if err != nil {
			return nil, err
		}
		return math.Pow(base, exponent), nil
	},
}

// constants are always available as expression parameters.
var constants = map[string]float64{
	"pi": math.Pi,
}

func unary(name string, fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%s requires exactly 1 argument", name)
		}
		v, err := toFloat64(args[0])
		if err != nil {
			return nil, err
		}
		return fn(v), nil
	}
}

func toFloat64(val interface{}) (float64, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", val)
	}
}
