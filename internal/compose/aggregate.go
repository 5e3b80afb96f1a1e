package compose

import (
	"fmt"

	"github.com/avdwal/mbtree/internal/mech"
)

// symbol categories used by the aggregation registry.
const (
	catCoordinate = "coordinate"
	catSpeed      = "speed"
	catAuxSpeed   = "auxiliary speed"
)

// merger accumulates the per-node systems of a tree into one. Symbol name
// prefixing makes cross-node collisions impossible by construction, so a
// name registered under two different categories is a broken invariant
// rather than a user mistake.
type merger struct {
	out      *mech.System
	symbols  map[string]string
	bodies   map[*mech.RigidBody]bool
	kdes     map[string]bool
	velConst []mech.Expr
	override bool
}

func newMerger(frame *mech.Frame, origin *mech.Point) *merger {
	return &merger{
		out:     mech.NewSystem(frame, origin),
		symbols: map[string]string{},
		bodies:  map[*mech.RigidBody]bool{},
		kdes:    map[string]bool{},
	}
}

func (mg *merger) addSym(s mech.Sym, cat string, add func(mech.Sym)) error {
	name := s.String()
	if prev, ok := mg.symbols[name]; ok {
		if prev != cat {
			return fmt.Errorf("%w: %q registered as both %s and %s",
				ErrDuplicateSymbol, name, prev, cat)
		}
		// Same symbol contributed by two nodes, shared registration.
		return nil
	}
	mg.symbols[name] = cat
	add(s)
	return nil
}

func (mg *merger) merge(sys *mech.System) error {
	for _, b := range sys.Bodies() {
		if !mg.bodies[b] {
			mg.bodies[b] = true
			mg.out.AddBodies(b)
		}
	}
	for _, q := range sys.Coordinates() {
		if err := mg.addSym(q, catCoordinate, func(s mech.Sym) { mg.out.AddCoordinates(s) }); err != nil {
			return err
		}
	}
	for _, u := range sys.Speeds() {
		if err := mg.addSym(u, catSpeed, func(s mech.Sym) { mg.out.AddSpeeds(s) }); err != nil {
			return err
		}
	}
	for _, u := range sys.AuxiliarySpeeds() {
		if err := mg.addSym(u, catAuxSpeed, func(s mech.Sym) { mg.out.AddAuxiliarySpeeds(s) }); err != nil {
			return err
		}
	}
	for _, k := range sys.Kdes() {
		if key := k.String(); !mg.kdes[key] {
			mg.kdes[key] = true
			mg.out.AddKdes(k)
		}
	}
	mg.out.AddLoads(sys.Loads()...)
	mg.out.AddActuators(sys.Actuators()...)
	mg.out.AddHolonomicConstraints(sys.HolonomicConstraints()...)
	mg.out.AddNonholonomicConstraints(sys.NonholonomicConstraints()...)
	// Each node resolves its own override-or-derive choice; the merged
	// system carries the concatenation as an explicit override.
	mg.velConst = append(mg.velConst, sys.VelocityConstraints()...)
	if sys.HasVelocityConstraintOverride() {
		mg.override = true
	}
	return nil
}

// mergeTree walks depth first: the node itself, then its connections, then
// its submodels. Load groups contribute through their parent's system.
func (mg *merger) mergeTree(c Component) error {
	if sys := c.node().system; sys != nil {
		if err := mg.merge(sys); err != nil {
			return fmt.Errorf("aggregating %q: %w", c.Name(), err)
		}
	}
	if m, ok := c.(interface{ model() *Model }); ok {
		for _, conn := range m.model().Connections() {
			if err := mg.mergeTree(conn); err != nil {
				return err
			}
		}
		for _, sub := range m.model().Submodels() {
			if err := mg.mergeTree(sub); err != nil {
				return err
			}
		}
	}
	return nil
}

// ToSystem aggregates the per-node systems of a fully defined tree into a
// single system rooted at root's inertial frame and origin. Every stage
// must have completed.
func ToSystem(root ModelComponent) (*mech.System, error) {
	if root.Stage() != ConstraintsDefined {
		return nil, fmt.Errorf("%w: cannot aggregate %q in stage %s",
			ErrStageOrder, root.Name(), root.Stage())
	}
	rsys := root.System()
	if rsys == nil {
		return nil, fmt.Errorf("compose: root model %q has no system", root.Name())
	}
	mg := newMerger(rsys.Frame(), rsys.Origin())
	if err := mg.mergeTree(root); err != nil {
		return nil, err
	}
	if mg.override {
		mg.out.SetVelocityConstraints(mg.velConst)
	}
	return mg.out, nil
}
