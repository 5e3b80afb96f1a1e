package mech

import (
	"sort"
	"strconv"
	"strings"
)

// Expr is a symbolic scalar expression.
type Expr interface {
	String() string
	isExpr()
}

// Zero is the additive identity.
var Zero Expr = num{0}

// One is the multiplicative identity.
var One Expr = num{1}

type num struct{ v float64 }

// Sym is a named symbol. Dynamic symbols are functions of time; their time
// derivatives are symbols again, with the derivative order tracked so that
// q, q' and q'' stay distinct.
type Sym struct {
	name    string
	dynamic bool
	order   int
}

type add struct{ terms []Expr }

type mul struct{ factors []Expr }

type sinE struct{ arg Expr }

type cosE struct{ arg Expr }

func (num) isExpr()  {}
func (Sym) isExpr()  {}
func (add) isExpr()  {}
func (mul) isExpr()  {}
func (sinE) isExpr() {}
func (cosE) isExpr() {}

// Num returns a numeric constant.
func Num(v float64) Expr { return num{v} }

// S returns a static (time-independent) symbol.
func S(name string) Sym { return Sym{name: name} }

// Dyn returns a dynamic symbol, a function of time.
func Dyn(name string) Sym { return Sym{name: name, dynamic: true} }

// Name returns the symbol name without derivative marks.
func (s Sym) Name() string { return s.name }

// Dynamic reports whether the symbol is a function of time.
func (s Sym) Dynamic() bool { return s.dynamic }

// Diff returns the time derivative symbol. Only valid for dynamic symbols.
func (s Sym) Diff() Sym { return Sym{name: s.name, dynamic: true, order: s.order + 1} }

func (s Sym) String() string { return s.name + strings.Repeat("'", s.order) }

func (n num) String() string { return strconv.FormatFloat(n.v, 'g', -1, 64) }

func (a add) String() string {
	var b strings.Builder
	for i, t := range a.terms {
		s := t.String()
		if i == 0 {
			b.WriteString(s)
			continue
		}
		if rest, ok := strings.CutPrefix(s, "-"); ok {
			b.WriteString(" - ")
			b.WriteString(rest)
		} else {
			b.WriteString(" + ")
			b.WriteString(s)
		}
	}
	return b.String()
}

func (m mul) String() string {
	parts := make([]string, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.String()
		if _, ok := f.(add); ok {
			s = "(" + s + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "*")
}

func (s sinE) String() string { return "sin(" + s.arg.String() + ")" }
func (c cosE) String() string { return "cos(" + c.arg.String() + ")" }

// Add returns the normalized sum of the given expressions: nested sums are
// flattened, numeric terms folded, and like terms combined so that
// equal-and-opposite contributions cancel structurally.
func Add(es ...Expr) Expr {
	var c float64
	type entry struct {
		coef float64
		rest Expr
	}
	var order []string
	byKey := map[string]*entry{}

	var walk func(Expr)
	walk = func(e Expr) {
		switch t := e.(type) {
		case nil:
		case num:
			c += t.v
		case add:
			for _, sub := range t.terms {
				walk(sub)
			}
		default:
			coef, rest := splitCoef(e)
			key := rest.String()
			if en, ok := byKey[key]; ok {
				en.coef += coef
			} else {
				byKey[key] = &entry{coef: coef, rest: rest}
				order = append(order, key)
			}
		}
	}
	for _, e := range es {
		walk(e)
	}

	terms := make([]Expr, 0, len(order)+1)
	for _, key := range order {
		en := byKey[key]
		if en.coef == 0 {
			continue
		}
		if en.coef == 1 {
			terms = append(terms, en.rest)
		} else {
			terms = append(terms, Mul(num{en.coef}, en.rest))
		}
	}
	if c != 0 {
		terms = append(terms, num{c})
	}
	switch len(terms) {
	case 0:
		return Zero
	case 1:
		return terms[0]
	}
	return add{terms: terms}
}

// splitCoef splits an expression into a numeric coefficient and the
// remaining factor used as the like-term key.
func splitCoef(e Expr) (float64, Expr) {
	m, ok := e.(mul)
	if !ok || len(m.factors) == 0 {
		return 1, e
	}
	if n, ok := m.factors[0].(num); ok {
		rest := m.factors[1:]
		if len(rest) == 1 {
			return n.v, rest[0]
		}
		return n.v, mul{factors: rest}
	}
	return 1, e
}

// Mul returns the normalized product of the given expressions: nested
// products are flattened, numeric factors folded into a leading coefficient
// and symbolic factors ordered deterministically.
func Mul(es ...Expr) Expr {
	c := 1.0
	var fs []Expr
	var walk func(Expr)
	walk = func(e Expr) {
		switch t := e.(type) {
		case nil:
		case num:
			c *= t.v
		case mul:
			for _, f := range t.factors {
				walk(f)
			}
		default:
			fs = append(fs, e)
		}
	}
	for _, e := range es {
		walk(e)
	}
	if c == 0 {
		return Zero
	}
	sort.SliceStable(fs, func(i, j int) bool { return fs[i].String() < fs[j].String() })
	if len(fs) == 0 {
		return num{c}
	}
	if c == 1 {
		if len(fs) == 1 {
			return fs[0]
		}
		return mul{factors: fs}
	}
	return mul{factors: append([]Expr{num{c}}, fs...)}
}

// Neg returns -e.
func Neg(e Expr) Expr { return Mul(num{-1}, e) }

// Sub returns a - b.
func Sub(a, b Expr) Expr { return Add(a, Neg(b)) }

// Sin returns sin(e), folding sin(0) = 0.
func Sin(e Expr) Expr {
	if n, ok := e.(num); ok && n.v == 0 {
		return Zero
	}
	return sinE{arg: e}
}

// Cos returns cos(e), folding cos(0) = 1.
func Cos(e Expr) Expr {
	if n, ok := e.(num); ok && n.v == 0 {
		return One
	}
	return cosE{arg: e}
}

// Dt returns the time derivative of e. Static symbols and numbers vanish;
// the derivative of a dynamic symbol is its derivative symbol.
func Dt(e Expr) Expr {
	switch t := e.(type) {
	case nil:
		return Zero
	case num:
		return Zero
	case Sym:
		if t.dynamic {
			return t.Diff()
		}
		return Zero
	case add:
		ds := make([]Expr, 0, len(t.terms))
		for _, term := range t.terms {
			ds = append(ds, Dt(term))
		}
		return Add(ds...)
	case mul:
		// Product rule over all factors.
		var terms []Expr
		for i := range t.factors {
			fs := make([]Expr, len(t.factors))
			copy(fs, t.factors)
			fs[i] = Dt(fs[i])
			terms = append(terms, Mul(fs...))
		}
		return Add(terms...)
	case sinE:
		return Mul(Cos(t.arg), Dt(t.arg))
	case cosE:
		return Mul(num{-1}, Sin(t.arg), Dt(t.arg))
	}
	return Zero
}

// Subs returns e with every occurrence of the given symbols replaced.
func Subs(e Expr, repl map[Sym]Expr) Expr {
	switch t := e.(type) {
	case nil:
		return Zero
	case num:
		return t
	case Sym:
		if r, ok := repl[t]; ok {
			return r
		}
		return t
	case add:
		out := make([]Expr, 0, len(t.terms))
		for _, term := range t.terms {
			out = append(out, Subs(term, repl))
		}
		return Add(out...)
	case mul:
		out := make([]Expr, 0, len(t.factors))
		for _, f := range t.factors {
			out = append(out, Subs(f, repl))
		}
		return Mul(out...)
	case sinE:
		return Sin(Subs(t.arg, repl))
	case cosE:
		return Cos(Subs(t.arg, repl))
	}
	return e
}

// DependsOn reports whether e contains the symbol s.
func DependsOn(e Expr, s Sym) bool {
	switch t := e.(type) {
	case Sym:
		return t == s
	case add:
		for _, term := range t.terms {
			if DependsOn(term, s) {
				return true
			}
		}
	case mul:
		for _, f := range t.factors {
			if DependsOn(f, s) {
				return true
			}
		}
	case sinE:
		return DependsOn(t.arg, s)
	case cosE:
		return DependsOn(t.arg, s)
	}
	return false
}

// IsZero reports whether e is structurally zero.
func IsZero(e Expr) bool {
	if e == nil {
		return true
	}
	n, ok := e.(num)
	return ok && n.v == 0
}
