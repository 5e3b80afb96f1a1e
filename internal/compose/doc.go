// Package compose implements the component composition and staged-definition
// engine for multibody models.
//
// A model is a tree of components: [Model] nodes own submodels and
// connections, [Connection] nodes describe the interaction between two or
// more of their parent's submodels, and [LoadGroup] nodes attach force
// descriptions to a model or connection. Concrete components embed one of
// these node types and declare, per type, the named requirement slots they
// need filled ([Requirement]); binding a component into a slot is validated
// eagerly against the slot's [Capability].
//
// Every node runs through a fixed five-stage definition protocol:
//
//	Unbuilt → ConnectionsDefined → ObjectsDefined → KinematicsDefined →
//	LoadsDefined → ConstraintsDefined
//
// The stage drivers ([Model.DefineConnections] through
// [Model.DefineConstraints], or [Model.DefineAll]) enforce the order
// strictly: invoking a stage when a node is not in the immediately
// preceding one fails with [ErrStageOrder], including double invocation.
// Concrete components contribute per-stage behavior through the optional
// local hook interfaces ([ConnectionsDefiner], [ObjectsDefiner],
// [KinematicsDefiner], [LoadsDefiner], [ConstraintsDefiner]); the drivers
// discover hooks by type assertion, so a component implements only the
// stages it cares about.
//
// Submodels are traversed automatically in requirement-declaration order.
// Connections are not: their correct construction moment depends on the
// parent, so the parent's local hook advances them explicitly, and the
// driver only catches up any connection the hook left behind.
//
// The node whose DefineObjects is invoked from the outside becomes the
// tree root. The root creates the shared [auxiliary.Handler] and passes it
// by reference to every node; at the end of the root's kinematics stage the
// handler finalizes auxiliary velocities into the root system, and at the
// end of the root's loads stage it injects the noncontributing forces.
//
// After the constraints stage, [ToSystem] merges every node's local
// system into one global system. The merge is purely structural; colliding
// symbol names surface as [ErrDuplicateSymbol], which per-node name
// prefixing makes structurally impossible and is therefore treated as an
// internal consistency check.
//
// A failed stage leaves the tree in a non-reusable state: there is no
// rollback and no retry, the caller must discard the tree and rebuild.
package compose
