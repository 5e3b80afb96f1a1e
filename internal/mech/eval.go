package mech

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnboundSymbol indicates a numeric evaluation that reached a symbol
// missing from the environment.
var ErrUnboundSymbol = errors.New("mech: unbound symbol")

// Eval evaluates e numerically. The environment binds symbol display names
// (including derivative marks, so "q" and "q'" bind independently) to
// values.
func Eval(e Expr, env map[string]float64) (float64, error) {
	switch t := e.(type) {
	case nil:
		return 0, nil
	case num:
		return t.v, nil
	case Sym:
		v, ok := env[t.String()]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnboundSymbol, t)
		}
		return v, nil
	case add:
		total := 0.0
		for _, term := range t.terms {
			v, err := Eval(term, env)
			if err != nil {
				return 0, err
			}
			total += v
		}
		return total, nil
	case mul:
		total := 1.0
		for _, f := range t.factors {
			v, err := Eval(f, env)
			if err != nil {
				return 0, err
			}
			total *= v
		}
		return total, nil
	case sinE:
		v, err := Eval(t.arg, env)
		if err != nil {
			return 0, err
		}
		return math.Sin(v), nil
	case cosE:
		v, err := Eval(t.arg, env)
		if err != nil {
			return 0, err
		}
		return math.Cos(v), nil
	}
	return 0, fmt.Errorf("mech: cannot evaluate %s", e)
}
