package compose

import "errors"

// Domain errors for tree wiring and the definition pipeline. All of them
// are unrecoverable for the current build: the tree must be discarded and
// reconstructed with corrected wiring.
var (
	// ErrCapabilityMismatch indicates a submodel or connection that does not
	// satisfy the capability declared by the slot.
	ErrCapabilityMismatch = errors.New("compose: capability mismatch")

	// ErrParentTypeMismatch indicates a load group attached to an
	// incompatible parent type.
	ErrParentTypeMismatch = errors.New("compose: load group parent type mismatch")

	// ErrMissingRequirement indicates an unset required slot at the start of
	// the connections stage.
	ErrMissingRequirement = errors.New("compose: missing requirement")

	// ErrStageOrder indicates a stage method invoked out of sequence,
	// including double invocation.
	ErrStageOrder = errors.New("compose: stage order violation")

	// ErrDuplicateSymbol indicates colliding symbol names during
	// aggregation; an internal invariant breach, not a user-facing error.
	ErrDuplicateSymbol = errors.New("compose: duplicate symbol")

	// ErrDuplicateName indicates two components with the same name joined
	// into one tree.
	ErrDuplicateName = errors.New("compose: duplicate component name")

	// ErrCyclicTree indicates a component that would become, directly or
	// transitively, its own submodel.
	ErrCyclicTree = errors.New("compose: cyclic component tree")

	// ErrUnknownSlot indicates a slot name no requirement declares.
	ErrUnknownSlot = errors.New("compose: unknown slot")

	// ErrSlotBound indicates a second assignment to an already-bound slot.
	ErrSlotBound = errors.New("compose: slot already bound")
)
