// Package mech provides the minimal symbolic mechanics layer consumed by the
// composition engine:
//
//   - [Expr]: symbolic scalar expressions with time differentiation
//   - [Sym]: named static or dynamic (time-dependent) symbols
//   - [Frame]: reference frames related by axis rotations
//   - [Vector]: vector expressions with components in a frame
//   - [Point]: points positioned relative to other points
//   - [RigidBody]: frame + mass center + mass symbol
//   - [System]: per-model container of coordinates, speeds, loads and
//     constraints
//
// The package performs no algebraic simplification beyond normalizing sums
// (constant folding and cancellation of equal-and-opposite terms), which is
// what position loop-closure checks rely on. Velocities are obtained by
// differentiating position chains: [Point.Vel] walks the position graph and
// applies [Dt] to the relative positions expressed in the requested frame,
// unless an explicit velocity override was set with [Point.SetVel].
//
// Frames and points form parent-pointer graphs. Both graphs are exposed
// read-only ([Frame.OrientationParent], [Point.PositionParent],
// [Point.Children]) so that callers such as the auxiliary-velocity handler
// can traverse them without this package storing any global state.
//
// Combining vectors whose frames are not connected through orientations is a
// programmer error and panics; operations that legitimately depend on graph
// shape ([Vector.ExpressIn], [Point.PosFrom], [Point.Vel],
// [Frame.AngVelIn]) return errors instead.
package mech
