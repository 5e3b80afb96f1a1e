package compose

import (
	"fmt"

	"github.com/avdwal/mbtree/internal/mech"
)

// LoadGroup is a leaf node bundling loads that act on its parent model or
// connection. A group declares the capability its parent must provide and
// is rejected at attachment time when the parent does not.
type LoadGroup struct {
	base

	requiredParent Capability
}

// NewLoadGroup creates a load group named name that may only be attached
// to parents providing requiredParent. self must be the outermost
// component embedding the node, or nil when the node is used bare.
func NewLoadGroup(name string, self any, requiredParent Capability) *LoadGroup {
	lg := &LoadGroup{requiredParent: requiredParent}
	if self == nil {
		self = lg
	}
	lg.base = newBase(name, self)
	return lg
}

func (lg *LoadGroup) node() *base { return &lg.base }
func (lg *LoadGroup) loadGroup() *LoadGroup { return lg }

// RequiredParent returns the capability the parent must provide.
func (lg *LoadGroup) RequiredParent() Capability { return lg.requiredParent }

// Parent returns the component the group is attached to, nil before
// attachment.
func (lg *LoadGroup) Parent() Component { return lg.parent }

// System returns the parent's local system: a load group contributes its
// loads to the component it is attached to rather than owning one.
func (lg *LoadGroup) System() *mech.System {
	if lg.parent == nil {
		return nil
	}
	return lg.parent.System()
}

// attachLoadGroup validates and wires a load group under parent. The
// parent reference is only assigned once every check has passed.
func attachLoadGroup(parent Component, parentNode *base, g LoadGroupComponent) error {
	lg := g.loadGroup()
	if lg.parent != nil {
		return fmt.Errorf("%w: load group %q is already attached to %q",
			ErrSlotBound, lg.name, lg.parent.Name())
	}
	if parentNode.stage != Unbuilt {
		return fmt.Errorf("%w: cannot attach load group %q to %q in stage %s",
			ErrStageOrder, lg.name, parentNode.name, parentNode.stage)
	}
	if !lg.requiredParent.Satisfies(parent) {
		return fmt.Errorf("%w: %q requires a parent providing %s, got %q",
			ErrParentTypeMismatch, lg.name, lg.requiredParent.Name, parentNode.name)
	}
	existing := map[string]bool{}
	subtreeNames(treeRoot(parent), existing)
	if existing[lg.name] {
		return fmt.Errorf("%w: [%s] already used in tree of %q",
			ErrDuplicateName, lg.name, parentNode.name)
	}
	lg.parent = parent
	return nil
}

// DefineObjects creates the group's symbols. Load groups have no
// connections stage, so this is the transition out of the unbuilt state.
func (lg *LoadGroup) DefineObjects() error {
	if err := lg.enter(Unbuilt, ObjectsDefined); err != nil {
		return err
	}
	if h, ok := lg.self.(ObjectsDefiner); ok {
		if err := h.LocalObjects(); err != nil {
			return lg.hookErr(ObjectsDefined, err)
		}
	}
	return nil
}

// DefineKinematics establishes the group's kinematic contributions, such
// as auxiliary speeds and noncontributing force registrations.
func (lg *LoadGroup) DefineKinematics() error {
	if err := lg.enter(ObjectsDefined, KinematicsDefined); err != nil {
		return err
	}
	if h, ok := lg.self.(KinematicsDefiner); ok {
		if err := h.LocalKinematics(); err != nil {
			return lg.hookErr(KinematicsDefined, err)
		}
	}
	return nil
}

// DefineLoads attaches the group's loads to the parent's system.
func (lg *LoadGroup) DefineLoads() error {
	if err := lg.enter(KinematicsDefined, LoadsDefined); err != nil {
		return err
	}
	if h, ok := lg.self.(LoadsDefiner); ok {
		if err := h.LocalLoads(); err != nil {
			return lg.hookErr(LoadsDefined, err)
		}
	}
	return nil
}

// DefineConstraints derives the group's constraint contributions.
func (lg *LoadGroup) DefineConstraints() error {
	if err := lg.enter(LoadsDefined, ConstraintsDefined); err != nil {
		return err
	}
	if h, ok := lg.self.(ConstraintsDefiner); ok {
		if err := h.LocalConstraints(); err != nil {
			return lg.hookErr(ConstraintsDefined, err)
		}
	}
	return nil
}
