package models

import (
	"fmt"
	"sort"

	"github.com/avdwal/mbtree/internal/compose"
)

// Registry maps component kind names to factories. The CLI and config
// layer assemble trees from it by name.
type Registry struct {
	grounds    map[string]func(name string) Ground
	wheels     map[string]func(name string) Wheel
	tires      map[string]func(name string) Tire
	loadGroups map[string]func(name string) compose.LoadGroupComponent
}

// NewRegistry creates a registry pre-populated with the built-in
// components.
func NewRegistry() *Registry {
	r := &Registry{
		grounds:    make(map[string]func(name string) Ground),
		wheels:     make(map[string]func(name string) Wheel),
		tires:      make(map[string]func(name string) Tire),
		loadGroups: make(map[string]func(name string) compose.LoadGroupComponent),
	}

	r.grounds["flat"] = func(name string) Ground { return NewFlatGround(name) }

	r.wheels["knife_edge"] = func(name string) Wheel { return NewKnifeEdgeWheel(name) }

	r.tires["nonholonomic"] = func(name string) Tire { return NewNonHolonomicTire(name) }

	r.loadGroups["gravity"] = func(name string) compose.LoadGroupComponent {
		return NewGravityLoad(name)
	}
	r.loadGroups["normal_force"] = func(name string) compose.LoadGroupComponent {
		return NewNormalForceLoad(name)
	}

	return r
}

// Ground instantiates a ground of the given kind.
func (r *Registry) Ground(kind, name string) (Ground, error) {
	fn, ok := r.grounds[kind]
	if !ok {
		return nil, fmt.Errorf("unknown ground: %s", kind)
	}
	return fn(name), nil
}

// Wheel instantiates a wheel of the given kind.
func (r *Registry) Wheel(kind, name string) (Wheel, error) {
	fn, ok := r.wheels[kind]
	if !ok {
		return nil, fmt.Errorf("unknown wheel: %s", kind)
	}
	return fn(name), nil
}

// Tire instantiates a tire of the given kind.
func (r *Registry) Tire(kind, name string) (Tire, error) {
	fn, ok := r.tires[kind]
	if !ok {
		return nil, fmt.Errorf("unknown tire: %s", kind)
	}
	return fn(name), nil
}

// LoadGroup instantiates a load group of the given kind.
func (r *Registry) LoadGroup(kind, name string) (compose.LoadGroupComponent, error) {
	fn, ok := r.loadGroups[kind]
	if !ok {
		return nil, fmt.Errorf("unknown load group: %s", kind)
	}
	return fn(name), nil
}

// ListGrounds returns the registered ground kinds, sorted.
func (r *Registry) ListGrounds() []string { return sortedKeys(r.grounds) }

// ListWheels returns the registered wheel kinds, sorted.
func (r *Registry) ListWheels() []string { return sortedKeys(r.wheels) }

// ListTires returns the registered tire kinds, sorted.
func (r *Registry) ListTires() []string { return sortedKeys(r.tires) }

// ListLoadGroups returns the registered load group kinds, sorted.
func (r *Registry) ListLoadGroups() []string { return sortedKeys(r.loadGroups) }

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
