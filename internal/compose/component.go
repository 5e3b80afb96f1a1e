package compose

import (
	"fmt"

	"github.com/avdwal/mbtree/internal/auxiliary"
	"github.com/avdwal/mbtree/internal/mech"
)

// Component is the read surface shared by every node of a model tree.
// It is satisfied by embedding Model, Connection or LoadGroup.
type Component interface {
	Name() string
	Stage() Stage
	System() *mech.System
	Symbols() map[string]mech.Sym
	Coordinates() []mech.Sym
	Speeds() []mech.Sym
	AuxiliarySpeeds() []mech.Sym
	AuxiliaryHandler() *auxiliary.Handler
	Descriptions() map[string]string

	node() *base
}

// ModelComponent is satisfied by every component embedding *Model.
type ModelComponent interface {
	Component
	DefineConnections() error
	DefineObjects() error
	DefineKinematics() error
	DefineLoads() error
	DefineConstraints() error
	DefineAll() error

	model() *Model
}

// ConnectionComponent is satisfied by every component embedding *Connection.
type ConnectionComponent interface {
	Component
	DefineConnections() error
	DefineObjects() error
	DefineKinematics() error
	DefineLoads() error
	DefineConstraints() error

	connection() *Connection
}

// LoadGroupComponent is satisfied by every component embedding *LoadGroup.
type LoadGroupComponent interface {
	Component
	DefineObjects() error
	DefineKinematics() error
	DefineLoads() error
	DefineConstraints() error

	loadGroup() *LoadGroup
}

// Local hook interfaces. Concrete components implement the hooks for the
// stages they contribute to; the stage drivers discover them by type
// assertion on the component value.

// ConnectionsDefiner wires the submodel references of the node's
// connections. Runs before submodel traversal; models only.
type ConnectionsDefiner interface{ LocalConnections() error }

// ObjectsDefiner creates the node's symbols, frames, points and bodies,
// without orienting or positioning them.
type ObjectsDefiner interface{ LocalObjects() error }

// KinematicsDefiner establishes orientations, positions and velocities and
// registers coordinates, speeds and kdes into the node's local system.
type KinematicsDefiner interface{ LocalKinematics() error }

// LoadsDefiner adds forces, torques and actuators to the node's local
// system.
type LoadsDefiner interface{ LocalLoads() error }

// ConstraintsDefiner derives the node's holonomic and nonholonomic
// constraints.
type ConstraintsDefiner interface{ LocalConstraints() error }

// base carries the per-node state shared by Model, Connection and
// LoadGroup: the local symbolic namespace, the stage marker and the shared
// auxiliary handler reference.
type base struct {
	name  string
	stage Stage
	// self is the outermost concrete component; hooks are looked up on it.
	self   any
	parent Component

	system       *mech.System
	symbols      map[string]mech.Sym
	coordinates  []mech.Sym
	speeds       []mech.Sym
	auxSpeeds    []mech.Sym
	claimed      map[string]bool
	descriptions map[string]string
	aux          *auxiliary.Handler
}

func newBase(name string, self any) base {
	if !isIdentifier(name) {
		panic(fmt.Sprintf("compose: component name %q is not a valid identifier", name))
	}
	return base{
		name:         name,
		self:         self,
		symbols:      map[string]mech.Sym{},
		claimed:      map[string]bool{},
		descriptions: map[string]string{},
	}
}

// claim reserves a local symbol name across all of the node's symbol
// categories, so a static symbol and a coordinate can never share a display
// name. Reuse is a programming error in the component, like an invalid node
// name, and panics at creation time.
func (b *base) claim(name string) {
	if b.claimed[name] {
		panic(fmt.Sprintf("compose: node %q declares symbol %q twice", b.name, name))
	}
	b.claimed[name] = true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case '0' <= r && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Name returns the node name, used as the prefix of every symbol the node
// creates.
func (b *base) Name() string { return b.name }

// Stage returns the last completed definition stage.
func (b *base) Stage() Stage { return b.stage }

// System returns the node's local system, nil before the objects stage.
func (b *base) System() *mech.System { return b.system }

// SetSystem installs the node's local system; meant to be called from the
// node's objects hook.
func (b *base) SetSystem(s *mech.System) { b.system = s }

// Symbols returns the node's named non-coordinate symbols.
func (b *base) Symbols() map[string]mech.Sym { return b.symbols }

// Coordinates returns the node's generalized coordinates in creation order.
func (b *base) Coordinates() []mech.Sym { return b.coordinates }

// Speeds returns the node's generalized speeds in creation order.
func (b *base) Speeds() []mech.Sym { return b.speeds }

// AuxiliarySpeeds returns the node's auxiliary speeds in creation order.
func (b *base) AuxiliarySpeeds() []mech.Sym { return b.auxSpeeds }

// AuxiliaryHandler returns the tree-wide shared handler, nil before the
// root's objects stage.
func (b *base) AuxiliaryHandler() *auxiliary.Handler { return b.aux }

// Prefix prepends the node name to a local symbol name.
func (b *base) Prefix(n string) string { return b.name + "_" + n }

// NewSymbol creates a static symbol in the node's namespace.
func (b *base) NewSymbol(name, description string) mech.Sym {
	b.claim(name)
	s := mech.S(b.Prefix(name))
	b.symbols[name] = s
	b.describe(s, description)
	return s
}

// NewDynamicSymbol creates a dynamic symbol in the node's namespace.
func (b *base) NewDynamicSymbol(name, description string) mech.Sym {
	b.claim(name)
	s := mech.Dyn(b.Prefix(name))
	b.symbols[name] = s
	b.describe(s, description)
	return s
}

// NewCoordinate creates a generalized coordinate.
func (b *base) NewCoordinate(name, description string) mech.Sym {
	b.claim(name)
	s := mech.Dyn(b.Prefix(name))
	b.coordinates = append(b.coordinates, s)
	b.describe(s, description)
	return s
}

// NewSpeed creates a generalized speed.
func (b *base) NewSpeed(name, description string) mech.Sym {
	b.claim(name)
	s := mech.Dyn(b.Prefix(name))
	b.speeds = append(b.speeds, s)
	b.describe(s, description)
	return s
}

// NewAuxiliarySpeed creates an auxiliary speed.
func (b *base) NewAuxiliarySpeed(name, description string) mech.Sym {
	b.claim(name)
	s := mech.Dyn(b.Prefix(name))
	b.auxSpeeds = append(b.auxSpeeds, s)
	b.describe(s, description)
	return s
}

// Describe records a human-readable description for a symbol.
func (b *base) Describe(s mech.Sym, description string) { b.describe(s, description) }

func (b *base) describe(s mech.Sym, description string) {
	if description != "" {
		b.descriptions[s.String()] = description
	}
}

// Descriptions returns the node's own symbol descriptions, keyed by symbol
// display name. AllDescriptions merges an entire subtree.
func (b *base) Descriptions() map[string]string {
	out := make(map[string]string, len(b.descriptions))
	for k, v := range b.descriptions {
		out[k] = v
	}
	return out
}

// AllDescriptions merges the symbol descriptions of c and every node below
// it. Symbol prefixing keeps the keys disjoint between nodes.
func AllDescriptions(c Component) map[string]string {
	out := map[string]string{}
	var walk func(Component)
	walk = func(n Component) {
		for k, v := range n.node().descriptions {
			out[k] = v
		}
		for _, ch := range Children(n) {
			walk(ch)
		}
	}
	walk(c)
	return out
}

// enter checks the stage-order invariant and advances the node. The stage
// does not advance on a violation.
func (b *base) enter(from, to Stage) error {
	if b.stage != from {
		return fmt.Errorf("%w: %s stage of %q invoked while in stage %s",
			ErrStageOrder, to, b.name, b.stage)
	}
	b.stage = to
	return nil
}

// hookErr wraps a local-hook failure with the offending node and stage.
func (b *base) hookErr(s Stage, err error) error {
	return fmt.Errorf("%s stage of %q: %w", s, b.name, err)
}

// selfComponent returns the outermost component value for capability checks
// and hook dispatch.
func (b *base) selfComponent() Component {
	if c, ok := b.self.(Component); ok {
		return c
	}
	return nil
}

// Children returns the direct children of a component in deterministic
// order: submodels, connections, load groups.
func Children(c Component) []Component {
	var out []Component
	switch n := c.(type) {
	case interface{ model() *Model }:
		m := n.model()
		for _, s := range m.Submodels() {
			out = append(out, s)
		}
		for _, cn := range m.Connections() {
			out = append(out, cn)
		}
		for _, lg := range m.LoadGroups() {
			out = append(out, lg)
		}
	// Connection submodels are shared references into the parent model's
	// subtree, not owned children, so they are not repeated here.
	case interface{ connection() *Connection }:
		for _, lg := range n.connection().LoadGroups() {
			out = append(out, lg)
		}
	}
	return out
}

// subtreeNames collects every node name of the tree below (and including) c.
func subtreeNames(c Component, into map[string]bool) {
	into[c.Name()] = true
	for _, ch := range Children(c) {
		subtreeNames(ch, into)
	}
}

// subtreeContains reports whether needle is c or one of its descendants.
func subtreeContains(c Component, needle *base) bool {
	if c.node() == needle {
		return true
	}
	for _, ch := range Children(c) {
		if subtreeContains(ch, needle) {
			return true
		}
	}
	return false
}

// treeRoot walks parent references to the top of the tree c is wired into.
func treeRoot(c Component) Component {
	for c.node().parent != nil {
		c = c.node().parent
	}
	return c
}
