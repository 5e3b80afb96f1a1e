// Package auxiliary propagates auxiliary (noncontributing-force) velocities
// through the kinematic graph of a model tree.
//
// Any component may register a noncontributing force during its kinematics
// stage: a point, a direction, an auxiliary speed symbol and a force
// magnitude symbol. The [Handler] owns these entries for the lifetime of
// one tree build and answers, for any point, the total auxiliary velocity
// that reaches it: an entry registered at point P contributes to every
// point positioned, directly or transitively, relative to P.
//
// Registration is lazy; no propagation happens until a query. The handler
// stores no graph of its own — it discovers the position graph through
// [mech.Point] parent links on every walk, so [Handler.AuxiliaryVelocity]
// is correct both before and after [Handler.FinalizeVelocities]. Finalize
// is an aggregation pass: it stamps the combined ordinary-plus-auxiliary
// velocity onto every point of the tree and registers the auxiliary speeds
// with the root system, memoizing per point and rejecting cyclic position
// graphs.
package auxiliary
