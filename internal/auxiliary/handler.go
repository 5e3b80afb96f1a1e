package auxiliary

import (
	"errors"
	"fmt"

	"github.com/avdwal/mbtree/internal/mech"
)

// Domain errors for auxiliary-velocity propagation.
var (
	// ErrCyclicGraph indicates a point that is, transitively, positioned
	// relative to itself.
	ErrCyclicGraph = errors.New("auxiliary: cyclic kinematic graph")

	// ErrDisconnected indicates a point whose position chain does not reach
	// the inertial origin.
	ErrDisconnected = errors.New("auxiliary: point not connected to inertial origin")

	// ErrAlreadyFinalized indicates a second finalize pass or a registration
	// after finalization.
	ErrAlreadyFinalized = errors.New("auxiliary: velocities already finalized")
)

// Entry is one registered noncontributing force.
type Entry struct {
	Point     *mech.Point
	Direction mech.Vector
	SpeedSym  mech.Sym
	ForceSym  mech.Sym
}

// AuxiliaryVelocity returns the velocity contribution of the entry,
// speed * direction.
func (e Entry) AuxiliaryVelocity() mech.Vector {
	return e.Direction.Scale(e.SpeedSym)
}

// Force returns the noncontributing load of the entry, magnitude * direction.
func (e Entry) Force() mech.Vector {
	return e.Direction.Scale(e.ForceSym)
}

// Handler accumulates noncontributing-force entries for one tree build and
// propagates their auxiliary velocities through the position graph. One
// handler instance is shared by reference across every node of a tree.
type Handler struct {
	frame  *mech.Frame
	origin *mech.Point

	entries   []Entry
	tracked   map[*mech.Point]bool
	finalized bool
	memo      map[*mech.Point]mech.Vector
}

// NewHandler creates a handler rooted at the given inertial frame and point.
func NewHandler(frame *mech.Frame, origin *mech.Point) *Handler {
	return &Handler{
		frame:   frame,
		origin:  origin,
		tracked: map[*mech.Point]bool{},
	}
}

// FromSystem creates a handler rooted at a system's inertial frame and
// fixed origin.
func FromSystem(sys *mech.System) *Handler {
	return NewHandler(sys.Frame(), sys.Origin())
}

// Frame returns the inertial frame.
func (h *Handler) Frame() *mech.Frame { return h.frame }

// Origin returns the inertial point used as position-graph root.
func (h *Handler) Origin() *mech.Point { return h.origin }

// Entries returns the registered entries in registration order.
func (h *Handler) Entries() []Entry { return h.entries }

// AuxiliarySpeeds returns the auxiliary speed symbols of all entries.
func (h *Handler) AuxiliarySpeeds() []mech.Sym {
	out := make([]mech.Sym, 0, len(h.entries))
	for _, e := range h.entries {
		out = append(out, e.SpeedSym)
	}
	return out
}

// AddNoncontributingForce registers a noncontributing force at a point. No
// propagation is performed until a query or finalize.
func (h *Handler) AddNoncontributingForce(p *mech.Point, direction mech.Vector, speedSym, forceSym mech.Sym) (Entry, error) {
	if h.finalized {
		return Entry{}, fmt.Errorf("%w: cannot register force at %q", ErrAlreadyFinalized, p.Name())
	}
	e := Entry{Point: p, Direction: direction, SpeedSym: speedSym, ForceSym: forceSym}
	h.entries = append(h.entries, e)
	return e, nil
}

// TrackPoints registers points whose position chains the handler must
// validate during finalization. Components track the points they create so
// that FinalizeVelocities checks every chain, including chains no entry
// lies on.
func (h *Handler) TrackPoints(ps ...*mech.Point) error {
	if h.finalized {
		return fmt.Errorf("%w: cannot track points", ErrAlreadyFinalized)
	}
	for _, p := range ps {
		h.tracked[p] = true
	}
	return nil
}

// AuxiliaryVelocity returns the total auxiliary velocity affecting point p,
// expressed in the inertial frame: the sum of the contributions of every
// entry whose point lies on p's position chain. It walks the position graph
// on demand, so it is valid before FinalizeVelocities has run.
func (h *Handler) AuxiliaryVelocity(p *mech.Point) (mech.Vector, error) {
	if h.memo != nil {
		if v, ok := h.memo[p]; ok {
			return v, nil
		}
	}
	v, err := h.walk(p)
	if err != nil {
		return mech.Vector{}, err
	}
	if h.memo != nil {
		h.memo[p] = v
	}
	return v, nil
}

// walk accumulates entry contributions along p's chain to the origin.
func (h *Handler) walk(p *mech.Point) (mech.Vector, error) {
	var total mech.Vector
	seen := map[*mech.Point]bool{}
	cur := p
	for {
		if seen[cur] {
			return mech.Vector{}, fmt.Errorf("%w: point %q revisited while resolving %q",
				ErrCyclicGraph, cur.Name(), p.Name())
		}
		seen[cur] = true
		for _, e := range h.entries {
			if e.Point == cur {
				ev, err := e.AuxiliaryVelocity().ExpressIn(h.frame)
				if err != nil {
					return mech.Vector{}, err
				}
				total = total.Add(ev)
			}
		}
		if cur == h.origin {
			return total, nil
		}
		parent, _ := cur.PositionParent()
		if parent == nil {
			return mech.Vector{}, fmt.Errorf("%w: point %q", ErrDisconnected, p.Name())
		}
		cur = parent
	}
}

// FinalizeVelocities computes, for every point reachable from the inertial
// origin, its total velocity as the ordinary kinematic velocity plus the
// auxiliary contributions reaching it, stamps that velocity onto the point,
// and registers every auxiliary speed with the root system. Callable once.
func (h *Handler) FinalizeVelocities(sys *mech.System) error {
	if h.finalized {
		return ErrAlreadyFinalized
	}
	// Every entry point and every tracked point must resolve against the
	// origin; this is also where cyclic position graphs outside the
	// origin's subtree are caught.
	for _, e := range h.entries {
		if _, err := h.walk(e.Point); err != nil {
			return err
		}
	}
	for p := range h.tracked {
		if _, err := h.walk(p); err != nil {
			return err
		}
	}

	h.memo = map[*mech.Point]mech.Vector{}
	visited := map[*mech.Point]bool{h.origin: true}
	queue := []*mech.Point{h.origin}
	var points []*mech.Point
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		points = append(points, p)
		for _, c := range p.Children() {
			if visited[c] {
				continue
			}
			visited[c] = true
			queue = append(queue, c)
		}
	}

	// Pin ordinary velocities before injecting auxiliary terms so a derived
	// velocity never picks up an auxiliary contribution twice.
	type pinned struct {
		p *mech.Point
		v mech.Vector
	}
	var ordinary []pinned
	for _, p := range points {
		v, err := p.Vel(h.frame)
		if err != nil {
			return err
		}
		ordinary = append(ordinary, pinned{p: p, v: v})
	}
	for _, o := range ordinary {
		aux, err := h.AuxiliaryVelocity(o.p)
		if err != nil {
			return err
		}
		if aux.IsZero() {
			o.p.SetVel(h.frame, o.v)
			continue
		}
		o.p.SetVel(h.frame, o.v.Add(aux))
	}

	sys.AddAuxiliarySpeeds(h.AuxiliarySpeeds()...)
	h.finalized = true
	return nil
}

// FinalizeForces turns every registered entry into one external force on
// the root system. The force acts on a shadow point that carries only the
// entry's auxiliary velocity, so the force contributes virtual work only
// through its auxiliary speed.
func (h *Handler) FinalizeForces(sys *mech.System) error {
	for _, e := range h.entries {
		av, err := e.AuxiliaryVelocity().ExpressIn(h.frame)
		if err != nil {
			return err
		}
		shadow := mech.NewPoint(e.Point.Name() + "_aux")
		shadow.SetVel(h.frame, av)
		sys.AddLoads(mech.Force{Point: shadow, Vec: e.Force()})
	}
	return nil
}
