package compose

import (
	"fmt"
	"sort"

	"github.com/avdwal/mbtree/internal/auxiliary"
)

type rootState int

const (
	rootUnknown rootState = iota
	rootYes
	rootNo
)

// Model is a tree node owning submodel slots, connection slots and load
// groups. Concrete models embed *Model and implement the local hooks for
// the stages they contribute to.
type Model struct {
	base

	submodelReqs   []Requirement
	connectionReqs []Requirement
	submodels      map[string]ModelComponent
	connections    map[string]ConnectionComponent
	loadGroups     []LoadGroupComponent

	isRoot rootState
}

// NewModel creates a model node named name with the given submodel and
// connection slots. self must be the outermost component embedding the
// node, or nil when the node is used bare. Panics on an invalid name or a
// duplicate slot name.
func NewModel(name string, self any, submodelReqs, connectionReqs []Requirement) *Model {
	m := &Model{
		submodelReqs:   submodelReqs,
		connectionReqs: connectionReqs,
		submodels:      map[string]ModelComponent{},
		connections:    map[string]ConnectionComponent{},
	}
	if self == nil {
		self = m
	}
	m.base = newBase(name, self)
	seen := map[string]bool{}
	for _, r := range append(append([]Requirement{}, submodelReqs...), connectionReqs...) {
		if seen[r.Name] {
			panic(fmt.Sprintf("compose: model %q declares slot %q twice", name, r.Name))
		}
		seen[r.Name] = true
	}
	return m
}

func (m *Model) node() *base { return &m.base }
func (m *Model) model() *Model { return m }

// SubmodelRequirements returns the declared submodel slots.
func (m *Model) SubmodelRequirements() []Requirement { return m.submodelReqs }

// ConnectionRequirements returns the declared connection slots.
func (m *Model) ConnectionRequirements() []Requirement { return m.connectionReqs }

// Submodel returns the component bound to a submodel slot.
func (m *Model) Submodel(slot string) (ModelComponent, bool) {
	s, ok := m.submodels[slot]
	return s, ok
}

// ConnectionAt returns the component bound to a connection slot.
func (m *Model) ConnectionAt(slot string) (ConnectionComponent, bool) {
	c, ok := m.connections[slot]
	return c, ok
}

// Submodels returns the bound submodels in slot declaration order.
func (m *Model) Submodels() []ModelComponent {
	var out []ModelComponent
	for _, r := range m.submodelReqs {
		if s, ok := m.submodels[r.Name]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Connections returns the bound connections in slot declaration order.
func (m *Model) Connections() []ConnectionComponent {
	var out []ConnectionComponent
	for _, r := range m.connectionReqs {
		if c, ok := m.connections[r.Name]; ok {
			out = append(out, c)
		}
	}
	return out
}

// LoadGroups returns the attached load groups in attachment order.
func (m *Model) LoadGroups() []LoadGroupComponent { return m.loadGroups }

// MissingRequirements returns the declared slots that have no component
// bound, in declaration order.
func (m *Model) MissingRequirements() []Requirement {
	var out []Requirement
	for _, r := range m.submodelReqs {
		if _, ok := m.submodels[r.Name]; !ok {
			out = append(out, r)
		}
	}
	for _, r := range m.connectionReqs {
		if _, ok := m.connections[r.Name]; !ok {
			out = append(out, r)
		}
	}
	return out
}

func findReq(reqs []Requirement, slot string) (Requirement, bool) {
	for _, r := range reqs {
		if r.Name == slot {
			return r, true
		}
	}
	return Requirement{}, false
}

// SetSubmodel binds a component into a submodel slot. The binding is
// rejected, leaving the slot unset, when the slot is unknown or already
// bound, the component does not satisfy the slot's capability, the node is
// past the unbuilt stage, or wiring would duplicate a node name or close a
// cycle.
func (m *Model) SetSubmodel(slot string, sub ModelComponent) error {
	req, ok := findReq(m.submodelReqs, slot)
	if !ok {
		return fmt.Errorf("%w: model %q has no submodel slot %q", ErrUnknownSlot, m.name, slot)
	}
	if _, bound := m.submodels[slot]; bound {
		return fmt.Errorf("%w: submodel slot %q of %q", ErrSlotBound, slot, m.name)
	}
	if m.stage != Unbuilt {
		return fmt.Errorf("%w: cannot bind submodel %q of %q in stage %s",
			ErrStageOrder, slot, m.name, m.stage)
	}
	if !req.Capability.Satisfies(sub) {
		return fmt.Errorf("%w: %q does not provide %s required by slot %q of %q",
			ErrCapabilityMismatch, sub.Name(), req.Capability.Name, slot, m.name)
	}
	if err := m.checkWiring(sub); err != nil {
		return err
	}
	m.submodels[slot] = sub
	sub.node().parent = m.selfComponent()
	return nil
}

// SetConnection binds a component into a connection slot, under the same
// rules as SetSubmodel.
func (m *Model) SetConnection(slot string, conn ConnectionComponent) error {
	req, ok := findReq(m.connectionReqs, slot)
	if !ok {
		return fmt.Errorf("%w: model %q has no connection slot %q", ErrUnknownSlot, m.name, slot)
	}
	if _, bound := m.connections[slot]; bound {
		return fmt.Errorf("%w: connection slot %q of %q", ErrSlotBound, slot, m.name)
	}
	if m.stage != Unbuilt {
		return fmt.Errorf("%w: cannot bind connection %q of %q in stage %s",
			ErrStageOrder, slot, m.name, m.stage)
	}
	if !req.Capability.Satisfies(conn) {
		return fmt.Errorf("%w: %q does not provide %s required by slot %q of %q",
			ErrCapabilityMismatch, conn.Name(), req.Capability.Name, slot, m.name)
	}
	if err := m.checkWiring(conn); err != nil {
		return err
	}
	m.connections[slot] = conn
	conn.node().parent = m.selfComponent()
	return nil
}

// ClearSubmodel unbinds a submodel slot, releasing the component so it can
// be bound elsewhere. Only valid while the node is unbuilt; clearing a slot
// that has nothing bound is a no-op.
func (m *Model) ClearSubmodel(slot string) error {
	if _, ok := findReq(m.submodelReqs, slot); !ok {
		return fmt.Errorf("%w: model %q has no submodel slot %q", ErrUnknownSlot, m.name, slot)
	}
	if m.stage != Unbuilt {
		return fmt.Errorf("%w: cannot clear submodel %q of %q in stage %s",
			ErrStageOrder, slot, m.name, m.stage)
	}
	if sub, bound := m.submodels[slot]; bound {
		sub.node().parent = nil
		delete(m.submodels, slot)
	}
	return nil
}

// ClearConnection unbinds a connection slot, under the same rules as
// ClearSubmodel.
func (m *Model) ClearConnection(slot string) error {
	if _, ok := findReq(m.connectionReqs, slot); !ok {
		return fmt.Errorf("%w: model %q has no connection slot %q", ErrUnknownSlot, m.name, slot)
	}
	if m.stage != Unbuilt {
		return fmt.Errorf("%w: cannot clear connection %q of %q in stage %s",
			ErrStageOrder, slot, m.name, m.stage)
	}
	if conn, bound := m.connections[slot]; bound {
		conn.node().parent = nil
		delete(m.connections, slot)
	}
	return nil
}

// AddLoadGroups attaches load groups to the model. Groups are validated
// and attached one at a time; on failure the offending group and the rest
// are left unattached.
func (m *Model) AddLoadGroups(groups ...LoadGroupComponent) error {
	for _, g := range groups {
		if err := attachLoadGroup(m.selfComponent(), &m.base, g); err != nil {
			return err
		}
		m.loadGroups = append(m.loadGroups, g)
	}
	return nil
}

// checkWiring rejects bindings that would duplicate a node name or make
// the child's subtree contain this node.
func (m *Model) checkWiring(child Component) error {
	if subtreeContains(child, &m.base) {
		return fmt.Errorf("%w: binding %q under %q", ErrCyclicTree, child.Name(), m.name)
	}
	existing := map[string]bool{}
	subtreeNames(treeRoot(m.selfComponent()), existing)
	incoming := map[string]bool{}
	subtreeNames(child, incoming)
	var dup []string
	for n := range incoming {
		if existing[n] {
			dup = append(dup, n)
		}
	}
	if len(dup) > 0 {
		sort.Strings(dup)
		return fmt.Errorf("%w: %v already used in tree of %q", ErrDuplicateName, dup, m.name)
	}
	return nil
}

// electRoot resolves the tri-state root marker. The first model whose
// DefineObjects runs while still unmarked becomes the root; it marks every
// descendant as non-root so nested invocations keep their state.
func (m *Model) electRoot() {
	if m.isRoot != rootUnknown {
		return
	}
	m.isRoot = rootYes
	var mark func(Component)
	mark = func(c Component) {
		for _, ch := range Children(c) {
			if mm, ok := ch.(interface{ model() *Model }); ok {
				mm.model().isRoot = rootNo
			}
			mark(ch)
		}
	}
	mark(m.selfComponent())
}

// IsRoot reports whether this model has been elected root. Meaningful only
// once the objects stage has run somewhere in the tree.
func (m *Model) IsRoot() bool { return m.isRoot == rootYes }

// shareHandler installs the root's auxiliary handler on every node of the
// subtree.
func shareHandler(c Component, h *auxiliary.Handler) {
	c.node().aux = h
	for _, ch := range Children(c) {
		shareHandler(ch, h)
	}
}

// DefineConnections establishes the submodel references of the tree's
// connections. The local hook runs before submodel traversal so a parent
// can wire its connections from its own slots.
func (m *Model) DefineConnections() error {
	if missing := m.MissingRequirements(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, r := range missing {
			names[i] = r.Name
		}
		return fmt.Errorf("%w: model %q slots %v", ErrMissingRequirement, m.name, names)
	}
	if err := m.enter(Unbuilt, ConnectionsDefined); err != nil {
		return err
	}
	if h, ok := m.self.(ConnectionsDefiner); ok {
		if err := h.LocalConnections(); err != nil {
			return m.hookErr(ConnectionsDefined, err)
		}
	}
	for _, sub := range m.Submodels() {
		if err := sub.DefineConnections(); err != nil {
			return err
		}
	}
	for _, conn := range m.Connections() {
		if conn.Stage() < ConnectionsDefined {
			if err := conn.DefineConnections(); err != nil {
				return err
			}
		}
	}
	return nil
}

// DefineObjects creates the symbols, frames, points and bodies of the
// tree. The first externally invoked DefineObjects elects its node as
// root; the root then creates the auxiliary handler from its system and
// shares it tree-wide.
func (m *Model) DefineObjects() error {
	if err := m.enter(ConnectionsDefined, ObjectsDefined); err != nil {
		return err
	}
	m.electRoot()
	for _, sub := range m.Submodels() {
		if err := sub.DefineObjects(); err != nil {
			return err
		}
	}
	if h, ok := m.self.(ObjectsDefiner); ok {
		if err := h.LocalObjects(); err != nil {
			return m.hookErr(ObjectsDefined, err)
		}
	}
	for _, conn := range m.Connections() {
		if conn.Stage() < ObjectsDefined {
			if err := conn.DefineObjects(); err != nil {
				return err
			}
		}
	}
	for _, lg := range m.loadGroups {
		if err := lg.DefineObjects(); err != nil {
			return err
		}
	}
	if m.isRoot == rootYes {
		if m.system == nil {
			return fmt.Errorf("compose: root model %q defined no system", m.name)
		}
		shareHandler(m.selfComponent(), auxiliary.FromSystem(m.system))
	}
	return nil
}

// DefineKinematics establishes orientations, positions and velocities.
// The root closes the stage by finalizing the auxiliary velocity graph.
func (m *Model) DefineKinematics() error {
	if err := m.enter(ObjectsDefined, KinematicsDefined); err != nil {
		return err
	}
	for _, sub := range m.Submodels() {
		if err := sub.DefineKinematics(); err != nil {
			return err
		}
	}
	if h, ok := m.self.(KinematicsDefiner); ok {
		if err := h.LocalKinematics(); err != nil {
			return m.hookErr(KinematicsDefined, err)
		}
	}
	for _, conn := range m.Connections() {
		if conn.Stage() < KinematicsDefined {
			if err := conn.DefineKinematics(); err != nil {
				return err
			}
		}
	}
	for _, lg := range m.loadGroups {
		if err := lg.DefineKinematics(); err != nil {
			return err
		}
	}
	if m.isRoot == rootYes {
		if err := m.aux.FinalizeVelocities(m.system); err != nil {
			return fmt.Errorf("model %q: %w", m.name, err)
		}
	}
	return nil
}

// DefineLoads attaches forces, torques and actuators. The root closes the
// stage by materializing the registered noncontributing forces.
func (m *Model) DefineLoads() error {
	if err := m.enter(KinematicsDefined, LoadsDefined); err != nil {
		return err
	}
	for _, sub := range m.Submodels() {
		if err := sub.DefineLoads(); err != nil {
			return err
		}
	}
	if h, ok := m.self.(LoadsDefiner); ok {
		if err := h.LocalLoads(); err != nil {
			return m.hookErr(LoadsDefined, err)
		}
	}
	for _, conn := range m.Connections() {
		if conn.Stage() < LoadsDefined {
			if err := conn.DefineLoads(); err != nil {
				return err
			}
		}
	}
	for _, lg := range m.loadGroups {
		if err := lg.DefineLoads(); err != nil {
			return err
		}
	}
	if m.isRoot == rootYes {
		if err := m.aux.FinalizeForces(m.system); err != nil {
			return fmt.Errorf("model %q: %w", m.name, err)
		}
	}
	return nil
}

// DefineConstraints derives holonomic and nonholonomic constraints.
func (m *Model) DefineConstraints() error {
	if err := m.enter(LoadsDefined, ConstraintsDefined); err != nil {
		return err
	}
	for _, sub := range m.Submodels() {
		if err := sub.DefineConstraints(); err != nil {
			return err
		}
	}
	if h, ok := m.self.(ConstraintsDefiner); ok {
		if err := h.LocalConstraints(); err != nil {
			return m.hookErr(ConstraintsDefined, err)
		}
	}
	for _, conn := range m.Connections() {
		if conn.Stage() < ConstraintsDefined {
			if err := conn.DefineConstraints(); err != nil {
				return err
			}
		}
	}
	for _, lg := range m.loadGroups {
		if err := lg.DefineConstraints(); err != nil {
			return err
		}
	}
	return nil
}

// DefineAll runs the five definition stages in order.
func (m *Model) DefineAll() error {
	steps := []func() error{
		m.DefineConnections,
		m.DefineObjects,
		m.DefineKinematics,
		m.DefineLoads,
		m.DefineConstraints,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
