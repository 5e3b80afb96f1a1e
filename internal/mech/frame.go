package mech

import "fmt"

// Axis selects a coordinate axis of a frame.
type Axis int

// Coordinate axes.
const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Frame is a reference frame. A frame is either a root frame or oriented
// relative to a parent frame by a rotation about one of the parent's axes;
// richer orientations are built by chaining frames.
type Frame struct {
	name   string
	parent *Frame
	// rot maps components in this frame to components in the parent:
	// v_parent = rot * v_this.
	rot [3][3]Expr
}

// NewFrame creates an unoriented frame.
func NewFrame(name string) *Frame { return &Frame{name: name} }

// Name returns the frame name.
func (f *Frame) Name() string { return f.name }

// OrientationParent returns the frame this frame is oriented relative to,
// or nil for a root frame.
func (f *Frame) OrientationParent() *Frame { return f.parent }

// OrientAxis orients the frame relative to parent by a rotation of angle
// about the given parent axis.
func (f *Frame) OrientAxis(parent *Frame, axis Axis, angle Expr) {
	c, s := Cos(angle), Sin(angle)
	switch axis {
	case AxisX:
		f.rot = [3][3]Expr{
			{One, Zero, Zero},
			{Zero, c, Neg(s)},
			{Zero, s, c},
		}
	case AxisY:
		f.rot = [3][3]Expr{
			{c, Zero, s},
			{Zero, One, Zero},
			{Neg(s), Zero, c},
		}
	case AxisZ:
		f.rot = [3][3]Expr{
			{c, Neg(s), Zero},
			{s, c, Zero},
			{Zero, Zero, One},
		}
	}
	f.parent = parent
}

// X returns the unit vector along the frame's x axis.
func (f *Frame) X() Vector { return Vector{frame: f, c: [3]Expr{One, Zero, Zero}} }

// Y returns the unit vector along the frame's y axis.
func (f *Frame) Y() Vector { return Vector{frame: f, c: [3]Expr{Zero, One, Zero}} }

// Z returns the unit vector along the frame's z axis.
func (f *Frame) Z() Vector { return Vector{frame: f, c: [3]Expr{Zero, Zero, One}} }

// chainToRoot returns the frames from f up to its root, failing on cycles.
func (f *Frame) chainToRoot() ([]*Frame, error) {
	var chain []*Frame
	seen := map[*Frame]bool{}
	for cur := f; cur != nil; cur = cur.parent {
		if seen[cur] {
			return nil, fmt.Errorf("%w: frame %q", ErrCyclicGraph, cur.name)
		}
		seen[cur] = true
		chain = append(chain, cur)
	}
	return chain, nil
}

// applyRot maps components from child coordinates to parent coordinates.
func applyRot(r [3][3]Expr, c [3]Expr) [3]Expr {
	var out [3]Expr
	for i := 0; i < 3; i++ {
		out[i] = Add(Mul(r[i][0], c[0]), Mul(r[i][1], c[1]), Mul(r[i][2], c[2]))
	}
	return out
}

// applyRotT maps components from parent coordinates to child coordinates.
func applyRotT(r [3][3]Expr, c [3]Expr) [3]Expr {
	var out [3]Expr
	for i := 0; i < 3; i++ {
		out[i] = Add(Mul(r[0][i], c[0]), Mul(r[1][i], c[1]), Mul(r[2][i], c[2]))
	}
	return out
}

// express converts components given in frame from into frame to.
func express(c [3]Expr, from, to *Frame) ([3]Expr, error) {
	if from == to {
		return c, nil
	}
	fromChain, err := from.chainToRoot()
	if err != nil {
		return c, err
	}
	toChain, err := to.chainToRoot()
	if err != nil {
		return c, err
	}
	depth := map[*Frame]int{}
	for i, fr := range fromChain {
		depth[fr] = i
	}
	// Walk up from `to` until a frame shared with `from`'s chain.
	common := -1
	var down []*Frame
	for _, fr := range toChain {
		if i, ok := depth[fr]; ok {
			common = i
			break
		}
		down = append(down, fr)
	}
	if common < 0 {
		return c, fmt.Errorf("%w: frames %q and %q", ErrDisconnected, from.name, to.name)
	}
	for _, fr := range fromChain[:common] {
		c = applyRot(fr.rot, c)
	}
	for i := len(down) - 1; i >= 0; i-- {
		c = applyRotT(down[i].rot, c)
	}
	return c, nil
}

// Dcm returns the direction cosine matrix mapping components in f to
// components in to: v_to = R * v_f.
func (f *Frame) Dcm(to *Frame) ([3][3]Expr, error) {
	var r [3][3]Expr
	for col := 0; col < 3; col++ {
		var basis [3]Expr
		for i := 0; i < 3; i++ {
			basis[i] = Zero
		}
		basis[col] = One
		out, err := express(basis, f, to)
		if err != nil {
			return r, err
		}
		for row := 0; row < 3; row++ {
			r[row][col] = out[row]
		}
	}
	return r, nil
}

// AngVelIn returns the angular velocity of f observed from frame g,
// expressed in g. It is derived from the orientation graph as the skew
// part of dR/dt * R^T.
func (f *Frame) AngVelIn(g *Frame) (Vector, error) {
	r, err := f.Dcm(g)
	if err != nil {
		return Vector{}, err
	}
	var rd [3][3]Expr
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rd[i][j] = Dt(r[i][j])
		}
	}
	w := func(i, j int) Expr {
		return Add(
			Mul(rd[i][0], r[j][0]),
			Mul(rd[i][1], r[j][1]),
			Mul(rd[i][2], r[j][2]),
		)
	}
	return Vector{frame: g, c: [3]Expr{w(2, 1), w(0, 2), w(1, 0)}}, nil
}
