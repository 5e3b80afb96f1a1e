package mech

import "errors"

// Domain errors for the symbolic layer.
var (
	// ErrDisconnected indicates two frames or points that are not linked
	// through the orientation or position graph.
	ErrDisconnected = errors.New("mech: frames or points are not connected")

	// ErrCyclicGraph indicates a cycle in the orientation or position graph.
	ErrCyclicGraph = errors.New("mech: cyclic orientation or position graph")

	// ErrNoVelocity indicates a velocity that can neither be looked up nor
	// derived from the position graph.
	ErrNoVelocity = errors.New("mech: velocity is not defined")
)
