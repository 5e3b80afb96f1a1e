package models

import (
	"fmt"

	"github.com/avdwal/mbtree/internal/compose"
	"github.com/avdwal/mbtree/internal/mech"
)

// GravityLoad applies a gravitational force m*g to the body of its parent,
// acting along the downward z axis of the tree's inertial frame.
type GravityLoad struct {
	*compose.LoadGroup

	g mech.Sym
}

// NewGravityLoad creates a gravity load group named name. It attaches to
// any component carrying a single rigid body.
func NewGravityLoad(name string) *GravityLoad {
	l := &GravityLoad{}
	l.LoadGroup = compose.NewLoadGroup(name, l, BodyCap)
	return l
}

// G returns the gravitational acceleration symbol.
func (l *GravityLoad) G() mech.Sym { return l.g }

// LocalObjects creates the gravitational acceleration symbol.
func (l *GravityLoad) LocalObjects() error {
	l.g = l.NewSymbol("g", "Gravitational acceleration")
	return nil
}

// LocalLoads applies m*g at the parent body's mass center. The inertial
// frame comes from the shared auxiliary handler, so the direction is wired
// correctly no matter which node of the tree the group is attached to.
func (l *GravityLoad) LocalLoads() error {
	h := l.AuxiliaryHandler()
	if h == nil {
		return fmt.Errorf("models: gravity load %q has no shared handler", l.Name())
	}
	body := l.Parent().(BodyCarrier).Body()
	down := h.Frame().Z()
	l.System().AddLoads(mech.Force{
		Point: body.Masscenter(),
		Vec:   down.Scale(mech.Mul(body.Mass(), l.g)),
	})
	return nil
}

// NormalForceLoad measures the normal reaction at a tire contact point as
// a noncontributing force: it registers an auxiliary speed and a force
// symbol with the shared handler and leaves the actual load injection to
// the root's finalization.
type NormalForceLoad struct {
	*compose.LoadGroup

	speed mech.Sym
	force mech.Sym
}

// NewNormalForceLoad creates a normal force load group named name. It
// attaches to tire connections only.
func NewNormalForceLoad(name string) *NormalForceLoad {
	l := &NormalForceLoad{}
	l.LoadGroup = compose.NewLoadGroup(name, l, TireCap)
	return l
}

// AuxiliarySpeed returns the auxiliary speed measuring the normal motion.
func (l *NormalForceLoad) AuxiliarySpeed() mech.Sym { return l.speed }

// ForceSymbol returns the unknown normal force magnitude.
func (l *NormalForceLoad) ForceSymbol() mech.Sym { return l.force }

// LocalObjects creates the auxiliary speed and force symbols.
func (l *NormalForceLoad) LocalObjects() error {
	l.speed = l.NewAuxiliarySpeed("uaux", "Auxiliary speed of the normal reaction")
	l.force = l.NewDynamicSymbol("Fz", "Normal reaction force magnitude")
	return nil
}

// LocalKinematics registers the noncontributing force at the parent tire's
// contact point, directed along the ground normal. Registration must
// precede the root's velocity finalization, which is why it happens here
// and not in the loads stage.
func (l *NormalForceLoad) LocalKinematics() error {
	h := l.AuxiliaryHandler()
	if h == nil {
		return fmt.Errorf("models: normal force load %q has no shared handler", l.Name())
	}
	tire := l.Parent().(Tire)
	_, err := h.AddNoncontributingForce(
		tire.ContactPoint(), tire.GroundModel().Normal(), l.speed, l.force)
	return err
}
