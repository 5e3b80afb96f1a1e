package mech

// Load is a force or torque applied to the system.
type Load interface{ isLoad() }

// Force applies a vector force at a point.
type Force struct {
	Point *Point
	Vec   Vector
}

// Torque applies a vector torque on a frame.
type Torque struct {
	Frame *Frame
	Vec   Vector
}

func (Force) isLoad()  {}
func (Torque) isLoad() {}

// Actuator produces loads from its own internal description.
type Actuator interface {
	Name() string
	Loads() []Load
}

// System is the per-model container the composition engine fills during the
// staged build. It is a structural store; it performs no algebra of its own.
type System struct {
	frame  *Frame
	origin *Point

	bodies      []*RigidBody
	coordinates []Sym
	speeds      []Sym
	auxSpeeds   []Sym
	kdes        []Expr
	loads       []Load
	actuators   []Actuator
	holonomic   []Expr
	nonholo     []Expr

	// velConstraints, when non-nil, replaces the automatically
	// differentiated velocity constraints.
	velConstraints []Expr
}

// NewSystem creates a system with the given inertial frame and fixed origin.
// The origin velocity in the frame is fixed to zero.
func NewSystem(frame *Frame, origin *Point) *System {
	origin.SetVel(frame, Vector{frame: frame, c: [3]Expr{Zero, Zero, Zero}})
	return &System{frame: frame, origin: origin}
}

// FromNewtonian creates a system whose inertial frame and origin are the
// frame and mass center of the given body.
func FromNewtonian(b *RigidBody) *System {
	s := NewSystem(b.Frame(), b.Masscenter())
	s.AddBodies(b)
	return s
}

// Frame returns the inertial frame.
func (s *System) Frame() *Frame { return s.frame }

// Origin returns the fixed point.
func (s *System) Origin() *Point { return s.origin }

// AddBodies registers rigid bodies.
func (s *System) AddBodies(bs ...*RigidBody) { s.bodies = append(s.bodies, bs...) }

// AddCoordinates registers generalized coordinates.
func (s *System) AddCoordinates(qs ...Sym) { s.coordinates = append(s.coordinates, qs...) }

// AddSpeeds registers generalized speeds.
func (s *System) AddSpeeds(us ...Sym) { s.speeds = append(s.speeds, us...) }

// AddAuxiliarySpeeds registers auxiliary speeds.
func (s *System) AddAuxiliarySpeeds(us ...Sym) { s.auxSpeeds = append(s.auxSpeeds, us...) }

// AddKdes registers kinematic differential equations.
func (s *System) AddKdes(es ...Expr) { s.kdes = append(s.kdes, es...) }

// AddLoads registers forces and torques.
func (s *System) AddLoads(ls ...Load) { s.loads = append(s.loads, ls...) }

// AddActuators registers actuators.
func (s *System) AddActuators(as ...Actuator) { s.actuators = append(s.actuators, as...) }

// AddHolonomicConstraints registers holonomic constraints.
func (s *System) AddHolonomicConstraints(es ...Expr) { s.holonomic = append(s.holonomic, es...) }

// AddNonholonomicConstraints registers nonholonomic constraints.
func (s *System) AddNonholonomicConstraints(es ...Expr) { s.nonholo = append(s.nonholo, es...) }

// Bodies returns the registered bodies.
func (s *System) Bodies() []*RigidBody { return s.bodies }

// Coordinates returns the registered generalized coordinates.
func (s *System) Coordinates() []Sym { return s.coordinates }

// Speeds returns the registered generalized speeds.
func (s *System) Speeds() []Sym { return s.speeds }

// AuxiliarySpeeds returns the registered auxiliary speeds.
func (s *System) AuxiliarySpeeds() []Sym { return s.auxSpeeds }

// Kdes returns the kinematic differential equations.
func (s *System) Kdes() []Expr { return s.kdes }

// Loads returns the registered loads.
func (s *System) Loads() []Load { return s.loads }

// Actuators returns the registered actuators.
func (s *System) Actuators() []Actuator { return s.actuators }

// HolonomicConstraints returns the holonomic constraints.
func (s *System) HolonomicConstraints() []Expr { return s.holonomic }

// NonholonomicConstraints returns the nonholonomic constraints.
func (s *System) NonholonomicConstraints() []Expr { return s.nonholo }

// VelocityConstraints returns the explicit override when one was set, and
// otherwise derives the constraints as the time derivatives of the
// holonomic constraints followed by the nonholonomic constraints.
func (s *System) VelocityConstraints() []Expr {
	if s.velConstraints != nil {
		return s.velConstraints
	}
	out := make([]Expr, 0, len(s.holonomic)+len(s.nonholo))
	for _, h := range s.holonomic {
		out = append(out, Dt(h))
	}
	return append(out, s.nonholo...)
}

// SetVelocityConstraints overrides the derived velocity constraints. The
// override wins unconditionally; it is how auxiliary-velocity terms are
// folded into constraints the engine would otherwise derive by
// differentiation.
func (s *System) SetVelocityConstraints(es []Expr) { s.velConstraints = es }

// HasVelocityConstraintOverride reports whether an override was set.
func (s *System) HasVelocityConstraintOverride() bool { return s.velConstraints != nil }
