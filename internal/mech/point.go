package mech

import "fmt"

// Point is a point positioned relative to a parent point. Points form a
// parent-pointer graph rooted, in a well-formed model, at the inertial
// origin of the root system.
type Point struct {
	name     string
	parent   *Point
	rel      Vector
	children []*Point
	vel      map[*Frame]Vector
}

// NewPoint creates an unpositioned point.
func NewPoint(name string) *Point {
	return &Point{name: name, vel: map[*Frame]Vector{}}
}

// Name returns the point name.
func (p *Point) Name() string { return p.name }

// SetPos positions p relative to parent. Re-positioning detaches the point
// from its previous parent.
func (p *Point) SetPos(parent *Point, rel Vector) {
	if p.parent != nil {
		p.parent.removeChild(p)
	}
	p.parent = parent
	p.rel = rel
	if parent != nil {
		parent.children = append(parent.children, p)
	}
}

func (p *Point) removeChild(c *Point) {
	for i, ch := range p.children {
		if ch == c {
			p.children = append(p.children[:i], p.children[i+1:]...)
			return
		}
	}
}

// LocateNew creates a new point positioned at rel relative to p.
func (p *Point) LocateNew(name string, rel Vector) *Point {
	q := NewPoint(name)
	q.SetPos(p, rel)
	return q
}

// PositionParent returns the point p is positioned relative to and the
// relative position; parent is nil for an unpositioned or root point.
func (p *Point) PositionParent() (*Point, Vector) { return p.parent, p.rel }

// Children returns the points positioned relative to p.
func (p *Point) Children() []*Point { return p.children }

// chainToRoot returns the points from p up to its position root, failing on
// cycles.
func (p *Point) chainToRoot() ([]*Point, error) {
	var chain []*Point
	seen := map[*Point]bool{}
	for cur := p; cur != nil; cur = cur.parent {
		if seen[cur] {
			return nil, fmt.Errorf("%w: point %q", ErrCyclicGraph, cur.name)
		}
		seen[cur] = true
		chain = append(chain, cur)
	}
	return chain, nil
}

// PosFrom returns the position of p relative to other, walking the position
// graph through their common ancestor.
func (p *Point) PosFrom(other *Point) (Vector, error) {
	if p == other {
		return Vector{}, nil
	}
	pChain, err := p.chainToRoot()
	if err != nil {
		return Vector{}, err
	}
	oChain, err := other.chainToRoot()
	if err != nil {
		return Vector{}, err
	}
	depth := map[*Point]int{}
	for i, pt := range pChain {
		depth[pt] = i
	}
	common := -1
	var down []*Point
	for _, pt := range oChain {
		if i, ok := depth[pt]; ok {
			common = i
			break
		}
		down = append(down, pt)
	}
	if common < 0 {
		return Vector{}, fmt.Errorf("%w: points %q and %q", ErrDisconnected, p.name, other.name)
	}
	var pos Vector
	for _, pt := range pChain[:common] {
		pos = pos.Add(pt.rel)
	}
	for _, pt := range down {
		pos = pos.Sub(pt.rel)
	}
	return pos, nil
}

// SetVel overrides the velocity of p observed from frame f.
func (p *Point) SetVel(f *Frame, v Vector) { p.vel[f] = v }

// VelOverride returns the explicit velocity override for frame f, if set.
func (p *Point) VelOverride(f *Frame) (Vector, bool) {
	v, ok := p.vel[f]
	return v, ok
}

// Vel returns the velocity of p observed from frame f. An explicit override
// wins; otherwise the velocity is derived from the position graph as the
// parent's velocity plus the time derivative of the relative position
// expressed in f.
func (p *Point) Vel(f *Frame) (Vector, error) {
	return p.vel2(f, map[*Point]bool{})
}

func (p *Point) vel2(f *Frame, seen map[*Point]bool) (Vector, error) {
	if v, ok := p.vel[f]; ok {
		return v, nil
	}
	if seen[p] {
		return Vector{}, fmt.Errorf("%w: point %q", ErrCyclicGraph, p.name)
	}
	seen[p] = true
	if p.parent == nil {
		return Vector{}, fmt.Errorf("%w: point %q in frame %q", ErrNoVelocity, p.name, f.name)
	}
	pv, err := p.parent.vel2(f, seen)
	if err != nil {
		return Vector{}, err
	}
	dv, err := p.rel.Dt(f)
	if err != nil {
		return Vector{}, err
	}
	return pv.Add(dv), nil
}
