package models

import (
	"github.com/avdwal/mbtree/internal/compose"
	"github.com/avdwal/mbtree/internal/mech"
)

// KnifeEdgeWheel is an infinitely thin wheel: a disc touching the ground
// in a single point on its rim. It rotates about the y axis of its body
// frame.
type KnifeEdgeWheel struct {
	*compose.Model

	body   *mech.RigidBody
	radius mech.Sym
}

// NewKnifeEdgeWheel creates a knife-edge wheel named name.
func NewKnifeEdgeWheel(name string) *KnifeEdgeWheel {
	w := &KnifeEdgeWheel{}
	w.Model = compose.NewModel(name, w, nil, nil)
	return w
}

// LocalObjects creates the wheel body, its radius symbol and the local
// system rooted at the body.
func (w *KnifeEdgeWheel) LocalObjects() error {
	w.body = mech.NewRigidBody(w.Name())
	w.radius = w.NewSymbol("r", "Radius of the wheel")
	w.SetSystem(mech.FromNewtonian(w.body))
	return nil
}

// Body returns the wheel body.
func (w *KnifeEdgeWheel) Body() *mech.RigidBody { return w.body }

// Frame returns the wheel's body frame.
func (w *KnifeEdgeWheel) Frame() *mech.Frame { return w.body.Frame() }

// Center returns the wheel center.
func (w *KnifeEdgeWheel) Center() *mech.Point { return w.body.Masscenter() }

// RotationAxis returns the spin axis, the y axis of the body frame.
func (w *KnifeEdgeWheel) RotationAxis() mech.Vector { return w.Frame().Y() }

// Radius returns the radius symbol.
func (w *KnifeEdgeWheel) Radius() mech.Sym { return w.radius }
