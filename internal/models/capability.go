package models

import (
	"github.com/avdwal/mbtree/internal/compose"
	"github.com/avdwal/mbtree/internal/mech"
)

// Ground is the capability provided by ground models: an inertial frame
// with a fixed origin and a contact surface.
type Ground interface {
	compose.ModelComponent
	Body() *mech.RigidBody
	Frame() *mech.Frame
	Origin() *mech.Point
	// Normal returns the surface normal pointing away from the ground.
	Normal() mech.Vector
	// Tangents returns two independent vectors spanning the surface.
	Tangents() (mech.Vector, mech.Vector)
	// LocateOnPlane positions a point on the surface at the given tangent
	// coordinates measured from the origin.
	LocateOnPlane(p *mech.Point, c1, c2 mech.Expr)
}

// Wheel is the capability provided by wheel models: a rotating body with a
// center, a rotation axis and a radius.
type Wheel interface {
	compose.ModelComponent
	Body() *mech.RigidBody
	Frame() *mech.Frame
	Center() *mech.Point
	RotationAxis() mech.Vector
	Radius() mech.Sym
}

// Tire is the capability provided by tire connections: the contact
// interaction between a ground and a wheel. The parent model wires the
// ground and wheel references and provides the radial axis before the
// tire's kinematics run.
type Tire interface {
	compose.ConnectionComponent
	SetSubmodel(slot string, sub compose.ModelComponent) error
	SetUpwardRadialAxis(v mech.Vector) error
	ContactPoint() *mech.Point
	GroundModel() Ground
	WheelModel() Wheel
}

// BodyCarrier is the capability required by load groups that act on a
// single rigid body.
type BodyCarrier interface {
	compose.Component
	Body() *mech.RigidBody
}

// Capabilities used by the requirement slots of the built-in components.
var (
	GroundCap = compose.Cap[Ground]("ground")
	WheelCap  = compose.Cap[Wheel]("wheel")
	TireCap   = compose.Cap[Tire]("tire")
	BodyCap   = compose.Cap[BodyCarrier]("body carrier")
)
