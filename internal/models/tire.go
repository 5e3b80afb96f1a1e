package models

import (
	"errors"
	"fmt"

	"github.com/avdwal/mbtree/internal/compose"
	"github.com/avdwal/mbtree/internal/mech"
)

// ErrNoRadialAxis indicates a tire whose kinematics ran before the parent
// provided the upward radial axis.
var ErrNoRadialAxis = errors.New("models: upward radial axis not set")

// NonHolonomicTire connects a wheel to a ground without longitudinal or
// lateral slip. It owns the contact point, positions the wheel center on
// the radial axis above it and derives the no-slip constraints from the
// velocity of the wheel's material contact point, so auxiliary velocity
// contributions that reached the points during finalization are carried
// into the constraints even when the tire registered none itself.
type NonHolonomicTire struct {
	*compose.Connection

	contactPoint *mech.Point
	upward       mech.Vector
	onGround     bool
}

// NewNonHolonomicTire creates a tire connection named name.
func NewNonHolonomicTire(name string) *NonHolonomicTire {
	t := &NonHolonomicTire{}
	t.Connection = compose.NewConnection(name, t, []compose.Requirement{
		{Name: "ground", Capability: GroundCap, Description: "Ground the wheel rolls on"},
		{Name: "wheel", Capability: WheelCap, Description: "Wheel the tire belongs to"},
	})
	return t
}

// GroundModel returns the referenced ground.
func (t *NonHolonomicTire) GroundModel() Ground {
	s, _ := t.Submodel("ground")
	g, _ := s.(Ground)
	return g
}

// WheelModel returns the referenced wheel.
func (t *NonHolonomicTire) WheelModel() Wheel {
	s, _ := t.Submodel("wheel")
	w, _ := s.(Wheel)
	return w
}

// ContactPoint returns the tire-owned contact point, nil before the
// objects stage.
func (t *NonHolonomicTire) ContactPoint() *mech.Point { return t.contactPoint }

// SetUpwardRadialAxis provides the unit vector in the wheel's rotation
// plane pointing from the contact point toward the wheel center. The
// parent model must call this before the tire's kinematics stage; the
// engine carries no symbolic normalization, so the axis cannot be derived
// here.
func (t *NonHolonomicTire) SetUpwardRadialAxis(v mech.Vector) error {
	if t.Stage() >= compose.KinematicsDefined {
		return fmt.Errorf("models: cannot set radial axis of %q in stage %s", t.Name(), t.Stage())
	}
	if v.IsZero() {
		return fmt.Errorf("models: zero radial axis for %q", t.Name())
	}
	t.upward = v
	return nil
}

// UpwardRadialAxis returns the axis provided by the parent.
func (t *NonHolonomicTire) UpwardRadialAxis() mech.Vector { return t.upward }

// OnGround reports whether the contact condition was found structurally
// satisfied during the constraints stage.
func (t *NonHolonomicTire) OnGround() bool { return t.onGround }

// LocalObjects creates the contact point and the tire's local system,
// rooted at the ground's inertial frame.
func (t *NonHolonomicTire) LocalObjects() error {
	g := t.GroundModel()
	t.contactPoint = mech.NewPoint(t.Prefix("contact_point"))
	t.SetSystem(mech.NewSystem(g.Frame(), g.Origin()))
	return nil
}

// LocalKinematics positions the wheel center one radius above the contact
// point along the radial axis. The contact point itself is positioned by
// the parent model before the tire's kinematics run. Both points are
// handed to the auxiliary handler so finalization validates their chains.
func (t *NonHolonomicTire) LocalKinematics() error {
	if t.upward.IsZero() {
		return fmt.Errorf("%w: tire %q", ErrNoRadialAxis, t.Name())
	}
	w := t.WheelModel()
	w.Center().SetPos(t.contactPoint, t.upward.Scale(w.Radius()))
	if h := t.AuxiliaryHandler(); h != nil {
		if err := h.TrackPoints(t.contactPoint, w.Center()); err != nil {
			return fmt.Errorf("models: tire %q: %w", t.Name(), err)
		}
	}
	return nil
}

// LocalConstraints derives the contact and no-slip constraints.
//
// The nonholonomic constraints come from the velocity of the wheel's
// material point at the contact location, not from differentiating the
// contact point's position: v0 = v_center + w x r. The point velocities
// were pinned during finalization, so v0 already includes any auxiliary
// contribution on the chain. The holonomic contact condition is only added
// when it is not structurally zero. The velocity constraints are
// overwritten to reinstate the auxiliary normal term that differentiating
// the holonomic constraint cannot see.
func (t *NonHolonomicTire) LocalConstraints() error {
	g := t.GroundModel()
	w := t.WheelModel()
	n := g.Frame()
	sys := t.System()

	vc, err := w.Center().Vel(n)
	if err != nil {
		return fmt.Errorf("models: tire %q: %w", t.Name(), err)
	}
	omega, err := w.Frame().AngVelIn(n)
	if err != nil {
		return fmt.Errorf("models: tire %q: %w", t.Name(), err)
	}
	r, err := t.contactPoint.PosFrom(w.Center())
	if err != nil {
		return fmt.Errorf("models: tire %q: %w", t.Name(), err)
	}
	v0 := vc.Add(omega.Cross(r))

	tx, ty := g.Tangents()
	sys.AddNonholonomicConstraints(v0.Dot(tx), v0.Dot(ty))

	pos, err := t.contactPoint.PosFrom(g.Origin())
	if err != nil {
		return fmt.Errorf("models: tire %q: %w", t.Name(), err)
	}
	contact := pos.Dot(g.Normal())
	t.onGround = mech.IsZero(contact)

	var vel []mech.Expr
	if !t.onGround {
		sys.AddHolonomicConstraints(contact)
		aux, err := t.auxiliaryNormalRate()
		if err != nil {
			return err
		}
		vel = append(vel, mech.Add(mech.Dt(contact), aux))
	}
	vel = append(vel, sys.NonholonomicConstraints()...)
	sys.SetVelocityConstraints(vel)
	return nil
}

// auxiliaryNormalRate is the normal component of the auxiliary velocity at
// the contact point, the term the differentiated contact constraint misses.
func (t *NonHolonomicTire) auxiliaryNormalRate() (mech.Expr, error) {
	h := t.AuxiliaryHandler()
	if h == nil {
		return mech.Zero, nil
	}
	av, err := h.AuxiliaryVelocity(t.contactPoint)
	if err != nil {
		return nil, fmt.Errorf("models: tire %q: %w", t.Name(), err)
	}
	return av.Dot(t.GroundModel().Normal()), nil
}
