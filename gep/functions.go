package gep

import (
	"context"
	"fmt"
	"math"

	"github.com/PaesslerAG/gval"
)

// ExprLang is the arithmetic language function symbols are written in. On top
// of gval's arithmetic it offers a protected division, pdiv(a, b), which
// evaluates to 1 when b is 0, as well as max(a, b) and min(a, b).
var ExprLang = gval.NewLanguage(
	gval.Arithmetic(),
	gval.Function("pdiv", binaryFloatFunc(pdiv)),
	gval.Function("max", binaryFloatFunc(math.Max)),
	gval.Function("min", binaryFloatFunc(math.Min)),
)

func pdiv(a, b float64) float64 {
	if b == 0 {
		return 1
	}
	return a / b
}

// The built-ins run on every gene evaluation, so they skip ExprLang and call
// the same operations directly.
var (
	Add = binaryFunction("add", "+", func(a, b float64) float64 { return a + b })
	Sub = binaryFunction("sub", "-", func(a, b float64) float64 { return a - b })
	Mul = binaryFunction("mul", "*", func(a, b float64) float64 { return a * b })
	Div = binaryFunction("div", "/", pdiv)
	Neg = NewFunction("neg", "~", 1, func(args []float64) (float64, error) { return -args[0], nil })
	Max = binaryFunction("max", "", math.Max)
	Min = binaryFunction("min", "", math.Min)
)

func binaryFunction(name, symbol string, fn func(a, b float64) float64) *Function[float64] {
	return NewFunction(name, symbol, 2, func(args []float64) (float64, error) {
		return fn(args[0], args[1]), nil
	})
}

// ArithmeticFunctions returns the float64 function set: + - * / ~ max min
func ArithmeticFunctions() []*Function[float64] {
	return []*Function[float64]{Add, Sub, Mul, Div, Neg, Max, Min}
}

// NewExprFunction compiles expr in ExprLang into a function whose arguments
// are bound, in order, to params. The arity of the function is len(params).
func NewExprFunction(name, symbol, expr string, params ...string) (*Function[float64], error) {
	evaluable, err := ExprLang.NewEvaluable(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling function %s (%q): %w", name, expr, err)
	}

	return NewFunction(name, symbol, len(params), func(args []float64) (float64, error) {
		vars := make(map[string]interface{}, len(params))
		for i, param := range params {
			vars[param] = args[i]
		}
		return evaluable.EvalFloat64(context.Background(), vars)
	}), nil
}

func binaryFloatFunc(fn func(a, b float64) float64) func(arguments ...interface{}) (interface{}, error) {
	return func(arguments ...interface{}) (interface{}, error) {
		if len(arguments) != 2 {
			return nil, fmt.Errorf("expected 2 arguments, got: %d", len(arguments))
		}

		a, isFloat := arguments[0].(float64)
		if !isFloat {
			return nil, fmt.Errorf("expected float, got: %v", arguments[0])
		}
		b, isFloat := arguments[1].(float64)
		if !isFloat {
			return nil, fmt.Errorf("expected float, got: %v", arguments[1])
		}

		return fn(a, b), nil
	}
}
