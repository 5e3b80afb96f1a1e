package models

import (
	"github.com/avdwal/mbtree/internal/compose"
	"github.com/avdwal/mbtree/internal/mech"
)

// FlatGround is a rigid flat surface spanned by the x and y axes of its
// body frame, with z pointing into the ground.
type FlatGround struct {
	*compose.Model

	body *mech.RigidBody
}

// NewFlatGround creates a flat ground named name.
func NewFlatGround(name string) *FlatGround {
	g := &FlatGround{}
	g.Model = compose.NewModel(name, g, nil, nil)
	return g
}

// LocalObjects creates the ground body and the local system rooted at it.
func (g *FlatGround) LocalObjects() error {
	g.body = mech.NewRigidBody(g.Name())
	g.SetSystem(mech.FromNewtonian(g.body))
	return nil
}

// Body returns the ground body.
func (g *FlatGround) Body() *mech.RigidBody { return g.body }

// Frame returns the ground frame, the inertial frame of any tree the
// ground is part of.
func (g *FlatGround) Frame() *mech.Frame { return g.body.Frame() }

// Origin returns the fixed origin on the surface.
func (g *FlatGround) Origin() *mech.Point { return g.body.Masscenter() }

// Normal returns the upward surface normal, -z.
func (g *FlatGround) Normal() mech.Vector { return g.Frame().Z().Neg() }

// Tangents returns the x and y axes spanning the surface.
func (g *FlatGround) Tangents() (mech.Vector, mech.Vector) {
	return g.Frame().X(), g.Frame().Y()
}

// LocateOnPlane positions p at c1 along x and c2 along y from the origin.
func (g *FlatGround) LocateOnPlane(p *mech.Point, c1, c2 mech.Expr) {
	x, y := g.Tangents()
	p.SetPos(g.Origin(), x.Scale(c1).Add(y.Scale(c2)))
}
