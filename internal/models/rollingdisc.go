package models

import (
	"fmt"

	"github.com/avdwal/mbtree/internal/compose"
	"github.com/avdwal/mbtree/internal/mech"
)

// RollingDisc is a knife-edge wheel rolling without slip over flat ground.
// It carries five coordinates: contact location q1, q2 on the plane, yaw
// q3, lean q4 and rotation angle q5, with one generalized speed per
// coordinate.
type RollingDisc struct {
	*compose.Model

	q [5]mech.Sym
	u [5]mech.Sym

	yaw  *mech.Frame
	lean *mech.Frame
}

// NewRollingDisc creates a rolling disc model named name. The ground, disc
// and tire slots must be bound before the definition stages run.
func NewRollingDisc(name string) *RollingDisc {
	d := &RollingDisc{}
	d.Model = compose.NewModel(name, d,
		[]compose.Requirement{
			{Name: "ground", Capability: GroundCap, Description: "Ground the disc rolls on"},
			{Name: "disc", Capability: WheelCap, Description: "Rolling wheel"},
		},
		[]compose.Requirement{
			{Name: "tire", Capability: TireCap, Description: "Tire model between ground and disc"},
		})
	return d
}

// Ground returns the bound ground submodel.
func (d *RollingDisc) Ground() Ground {
	s, _ := d.Submodel("ground")
	g, _ := s.(Ground)
	return g
}

// Disc returns the bound wheel submodel.
func (d *RollingDisc) Disc() Wheel {
	s, _ := d.Submodel("disc")
	w, _ := s.(Wheel)
	return w
}

// Tire returns the bound tire connection.
func (d *RollingDisc) Tire() Tire {
	c, _ := d.ConnectionAt("tire")
	t, _ := c.(Tire)
	return t
}

// Q returns the coordinates q1..q5 in order.
func (d *RollingDisc) Q() [5]mech.Sym { return d.q }

// U returns the speeds u1..u5 in order.
func (d *RollingDisc) U() [5]mech.Sym { return d.u }

// LocalConnections wires the tire's ground and wheel references from the
// disc's own slots.
func (d *RollingDisc) LocalConnections() error {
	tire := d.Tire()
	ground, _ := d.Submodel("ground")
	wheel, _ := d.Submodel("disc")
	if err := tire.SetSubmodel("ground", ground); err != nil {
		return err
	}
	return tire.SetSubmodel("wheel", wheel)
}

// LocalObjects creates the coordinates and speeds and the root system,
// rooted at the ground's frame and origin.
func (d *RollingDisc) LocalObjects() error {
	descQ := [5]string{
		"Contact point location along the first ground tangent",
		"Contact point location along the second ground tangent",
		"Yaw angle of the disc",
		"Lean angle of the disc",
		"Rotation angle of the disc",
	}
	descU := [5]string{
		"Contact point velocity along the first ground tangent",
		"Contact point velocity along the second ground tangent",
		"Yaw angular rate of the disc",
		"Lean angular rate of the disc",
		"Rotation angular rate of the disc",
	}
	for i := 0; i < 5; i++ {
		d.q[i] = d.NewCoordinate(fmt.Sprintf("q%d", i+1), descQ[i])
		d.u[i] = d.NewSpeed(fmt.Sprintf("u%d", i+1), descU[i])
	}
	g := d.Ground()
	sys := mech.NewSystem(g.Frame(), g.Origin())
	sys.AddCoordinates(d.q[:]...)
	sys.AddSpeeds(d.u[:]...)
	d.SetSystem(sys)
	return nil
}

// LocalKinematics orients the disc through intermediate yaw and lean
// frames, positions the contact point on the ground plane and couples
// each speed to its coordinate rate.
func (d *RollingDisc) LocalKinematics() error {
	g := d.Ground()
	w := d.Disc()
	t := d.Tire()

	d.yaw = mech.NewFrame(d.Prefix("yaw_frame"))
	d.yaw.OrientAxis(g.Frame(), mech.AxisZ, d.q[2])
	d.lean = mech.NewFrame(d.Prefix("lean_frame"))
	d.lean.OrientAxis(d.yaw, mech.AxisX, d.q[3])
	w.Frame().OrientAxis(d.lean, mech.AxisY, d.q[4])

	g.LocateOnPlane(t.ContactPoint(), d.q[0], d.q[1])

	// The radial axis lies in the lean frame: -z points from the contact
	// point to the disc center for any lean angle.
	if err := t.SetUpwardRadialAxis(d.lean.Z().Neg()); err != nil {
		return err
	}

	sys := d.System()
	for i := 0; i < 5; i++ {
		sys.AddKdes(mech.Sub(d.u[i], mech.Dt(d.q[i])))
	}
	return nil
}
