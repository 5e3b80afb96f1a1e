package mech

// RigidBody ties together a body-fixed frame, a mass center point and a
// mass symbol.
type RigidBody struct {
	name       string
	frame      *Frame
	masscenter *Point
	mass       Sym
}

// NewRigidBody creates a rigid body with a fresh frame and mass center.
func NewRigidBody(name string) *RigidBody {
	return &RigidBody{
		name:       name,
		frame:      NewFrame(name + "_frame"),
		masscenter: NewPoint(name + "_masscenter"),
		mass:       S(name + "_mass"),
	}
}

// Name returns the body name.
func (b *RigidBody) Name() string { return b.name }

// Frame returns the body-fixed frame.
func (b *RigidBody) Frame() *Frame { return b.frame }

// Masscenter returns the mass center point.
func (b *RigidBody) Masscenter() *Point { return b.masscenter }

// Mass returns the mass symbol.
func (b *RigidBody) Mass() Sym { return b.mass }
