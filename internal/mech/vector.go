package mech

import "fmt"

// Vector is a symbolic vector expressed as components in a frame. The zero
// value is the zero vector, which belongs to no frame and combines with any
// vector.
type Vector struct {
	frame *Frame
	c     [3]Expr
}

// NewVector builds a vector with components x, y, z in frame f.
func NewVector(f *Frame, x, y, z Expr) Vector {
	return Vector{frame: f, c: [3]Expr{orZero(x), orZero(y), orZero(z)}}
}

func orZero(e Expr) Expr {
	if e == nil {
		return Zero
	}
	return e
}

// Frame returns the frame the components refer to, nil for the zero vector.
func (v Vector) Frame() *Frame { return v.frame }

// Components returns the components of the vector in its own frame.
func (v Vector) Components() (x, y, z Expr) {
	return orZero(v.c[0]), orZero(v.c[1]), orZero(v.c[2])
}

// IsZero reports whether the vector is structurally zero.
func (v Vector) IsZero() bool {
	if v.frame == nil {
		return true
	}
	return IsZero(v.c[0]) && IsZero(v.c[1]) && IsZero(v.c[2])
}

// ExpressIn returns the vector with components in frame f.
func (v Vector) ExpressIn(f *Frame) (Vector, error) {
	if v.frame == nil {
		return Vector{frame: f, c: [3]Expr{Zero, Zero, Zero}}, nil
	}
	c, err := express(v.c, v.frame, f)
	if err != nil {
		return Vector{}, err
	}
	return Vector{frame: f, c: c}, nil
}

func (v Vector) mustExpressIn(f *Frame) Vector {
	out, err := v.ExpressIn(f)
	if err != nil {
		panic(fmt.Sprintf("mech: combining vectors of unconnected frames: %v", err))
	}
	return out
}

// Add returns v + o. Panics if the frames are not connected.
func (v Vector) Add(o Vector) Vector {
	if v.frame == nil {
		return o
	}
	if o.frame == nil {
		return v
	}
	oo := o.mustExpressIn(v.frame)
	return Vector{frame: v.frame, c: [3]Expr{
		Add(v.c[0], oo.c[0]),
		Add(v.c[1], oo.c[1]),
		Add(v.c[2], oo.c[2]),
	}}
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector { return v.Add(o.Neg()) }

// Neg returns -v.
func (v Vector) Neg() Vector { return v.Scale(Num(-1)) }

// Scale returns v scaled by the scalar e.
func (v Vector) Scale(e Expr) Vector {
	if v.frame == nil {
		return v
	}
	return Vector{frame: v.frame, c: [3]Expr{
		Mul(v.c[0], e), Mul(v.c[1], e), Mul(v.c[2], e),
	}}
}

// Dot returns the scalar product v . o. Panics if the frames are not
// connected.
func (v Vector) Dot(o Vector) Expr {
	if v.frame == nil || o.frame == nil {
		return Zero
	}
	oo := o.mustExpressIn(v.frame)
	return Add(
		Mul(v.c[0], oo.c[0]),
		Mul(v.c[1], oo.c[1]),
		Mul(v.c[2], oo.c[2]),
	)
}

// Cross returns the vector product v x o. Panics if the frames are not
// connected.
func (v Vector) Cross(o Vector) Vector {
	if v.frame == nil || o.frame == nil {
		return Vector{}
	}
	oo := o.mustExpressIn(v.frame)
	return Vector{frame: v.frame, c: [3]Expr{
		Sub(Mul(v.c[1], oo.c[2]), Mul(v.c[2], oo.c[1])),
		Sub(Mul(v.c[2], oo.c[0]), Mul(v.c[0], oo.c[2])),
		Sub(Mul(v.c[0], oo.c[1]), Mul(v.c[1], oo.c[0])),
	}}
}

// Dt returns the time derivative of v observed from frame f.
func (v Vector) Dt(f *Frame) (Vector, error) {
	vv, err := v.ExpressIn(f)
	if err != nil {
		return Vector{}, err
	}
	return Vector{frame: f, c: [3]Expr{Dt(vv.c[0]), Dt(vv.c[1]), Dt(vv.c[2])}}, nil
}

// Subs returns v with the given symbol replacements applied componentwise.
func (v Vector) Subs(repl map[Sym]Expr) Vector {
	if v.frame == nil {
		return v
	}
	return Vector{frame: v.frame, c: [3]Expr{
		Subs(v.c[0], repl), Subs(v.c[1], repl), Subs(v.c[2], repl),
	}}
}

func (v Vector) String() string {
	if v.frame == nil {
		return "0"
	}
	return fmt.Sprintf("(%s)*%s.x + (%s)*%s.y + (%s)*%s.z",
		v.c[0], v.frame.name, v.c[1], v.frame.name, v.c[2], v.frame.name)
}
