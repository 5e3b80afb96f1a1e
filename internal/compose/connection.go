package compose

import "fmt"

// Connection is a tree node describing the interaction between submodels
// of its parent model. Its submodel slots hold shared references into the
// parent's subtree; the parent wires them from its own slots in its
// connections hook, and the parent's stage drivers advance the connection
// after the referenced submodels.
type Connection struct {
	base

	submodelReqs []Requirement
	submodels    map[string]ModelComponent
	loadGroups   []LoadGroupComponent
}

// NewConnection creates a connection node named name with the given
// submodel reference slots. self must be the outermost component embedding
// the node, or nil when the node is used bare.
func NewConnection(name string, self any, submodelReqs []Requirement) *Connection {
	c := &Connection{
		submodelReqs: submodelReqs,
		submodels:    map[string]ModelComponent{},
	}
	if self == nil {
		self = c
	}
	c.base = newBase(name, self)
	seen := map[string]bool{}
	for _, r := range submodelReqs {
		if seen[r.Name] {
			panic(fmt.Sprintf("compose: connection %q declares slot %q twice", name, r.Name))
		}
		seen[r.Name] = true
	}
	return c
}

func (c *Connection) node() *base { return &c.base }
func (c *Connection) connection() *Connection { return c }

// SubmodelRequirements returns the declared submodel reference slots.
func (c *Connection) SubmodelRequirements() []Requirement { return c.submodelReqs }

// Submodel returns the component referenced by a slot.
func (c *Connection) Submodel(slot string) (ModelComponent, bool) {
	s, ok := c.submodels[slot]
	return s, ok
}

// Submodels returns the referenced submodels in slot declaration order.
func (c *Connection) Submodels() []ModelComponent {
	var out []ModelComponent
	for _, r := range c.submodelReqs {
		if s, ok := c.submodels[r.Name]; ok {
			out = append(out, s)
		}
	}
	return out
}

// LoadGroups returns the attached load groups in attachment order.
func (c *Connection) LoadGroups() []LoadGroupComponent { return c.loadGroups }

// MissingRequirements returns the reference slots that are still unwired,
// in declaration order.
func (c *Connection) MissingRequirements() []Requirement {
	var out []Requirement
	for _, r := range c.submodelReqs {
		if _, ok := c.submodels[r.Name]; !ok {
			out = append(out, r)
		}
	}
	return out
}

// SetSubmodel wires a reference slot. Unlike a model's submodel slot this
// does not claim ownership of the component: the reference points at a
// node owned elsewhere in the tree, so no parent is assigned and no name
// uniqueness is enforced here.
func (c *Connection) SetSubmodel(slot string, sub ModelComponent) error {
	req, ok := findReq(c.submodelReqs, slot)
	if !ok {
		return fmt.Errorf("%w: connection %q has no submodel slot %q", ErrUnknownSlot, c.name, slot)
	}
	if _, bound := c.submodels[slot]; bound {
		return fmt.Errorf("%w: submodel slot %q of %q", ErrSlotBound, slot, c.name)
	}
	if c.stage != Unbuilt {
		return fmt.Errorf("%w: cannot bind submodel %q of %q in stage %s",
			ErrStageOrder, slot, c.name, c.stage)
	}
	if !req.Capability.Satisfies(sub) {
		return fmt.Errorf("%w: %q does not provide %s required by slot %q of %q",
			ErrCapabilityMismatch, sub.Name(), req.Capability.Name, slot, c.name)
	}
	c.submodels[slot] = sub
	return nil
}

// ClearSubmodel unwires a reference slot. Only valid while the connection
// is unbuilt; clearing an unwired slot is a no-op. The referenced node is
// owned elsewhere, so nothing beyond the reference is touched.
func (c *Connection) ClearSubmodel(slot string) error {
	if _, ok := findReq(c.submodelReqs, slot); !ok {
		return fmt.Errorf("%w: connection %q has no submodel slot %q", ErrUnknownSlot, c.name, slot)
	}
	if c.stage != Unbuilt {
		return fmt.Errorf("%w: cannot clear submodel %q of %q in stage %s",
			ErrStageOrder, slot, c.name, c.stage)
	}
	delete(c.submodels, slot)
	return nil
}

// AddLoadGroups attaches load groups to the connection.
func (c *Connection) AddLoadGroups(groups ...LoadGroupComponent) error {
	for _, g := range groups {
		if err := attachLoadGroup(c.selfComponent(), &c.base, g); err != nil {
			return err
		}
		c.loadGroups = append(c.loadGroups, g)
	}
	return nil
}

// DefineConnections validates that the parent wired every reference slot.
func (c *Connection) DefineConnections() error {
	if missing := c.MissingRequirements(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, r := range missing {
			names[i] = r.Name
		}
		return fmt.Errorf("%w: connection %q slots %v", ErrMissingRequirement, c.name, names)
	}
	if err := c.enter(Unbuilt, ConnectionsDefined); err != nil {
		return err
	}
	if h, ok := c.self.(ConnectionsDefiner); ok {
		if err := h.LocalConnections(); err != nil {
			return c.hookErr(ConnectionsDefined, err)
		}
	}
	return nil
}

// DefineObjects creates the connection's symbols, frames and points. The
// referenced submodels are advanced by the owning model, never from here.
func (c *Connection) DefineObjects() error {
	if err := c.enter(ConnectionsDefined, ObjectsDefined); err != nil {
		return err
	}
	if h, ok := c.self.(ObjectsDefiner); ok {
		if err := h.LocalObjects(); err != nil {
			return c.hookErr(ObjectsDefined, err)
		}
	}
	for _, lg := range c.loadGroups {
		if err := lg.DefineObjects(); err != nil {
			return err
		}
	}
	return nil
}

// DefineKinematics establishes the connection's orientations, positions
// and velocities across its referenced submodels.
func (c *Connection) DefineKinematics() error {
	if err := c.enter(ObjectsDefined, KinematicsDefined); err != nil {
		return err
	}
	if h, ok := c.self.(KinematicsDefiner); ok {
		if err := h.LocalKinematics(); err != nil {
			return c.hookErr(KinematicsDefined, err)
		}
	}
	for _, lg := range c.loadGroups {
		if err := lg.DefineKinematics(); err != nil {
			return err
		}
	}
	return nil
}

// DefineLoads attaches the connection's loads.
func (c *Connection) DefineLoads() error {
	if err := c.enter(KinematicsDefined, LoadsDefined); err != nil {
		return err
	}
	if h, ok := c.self.(LoadsDefiner); ok {
		if err := h.LocalLoads(); err != nil {
			return c.hookErr(LoadsDefined, err)
		}
	}
	for _, lg := range c.loadGroups {
		if err := lg.DefineLoads(); err != nil {
			return err
		}
	}
	return nil
}

// DefineConstraints derives the connection's constraints.
func (c *Connection) DefineConstraints() error {
	if err := c.enter(LoadsDefined, ConstraintsDefined); err != nil {
		return err
	}
	if h, ok := c.self.(ConstraintsDefiner); ok {
		if err := h.LocalConstraints(); err != nil {
			return c.hookErr(ConstraintsDefined, err)
		}
	}
	for _, lg := range c.loadGroups {
		if err := lg.DefineConstraints(); err != nil {
			return err
		}
	}
	return nil
}
