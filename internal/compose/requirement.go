package compose

// Capability is the behavioral contract a component must satisfy to fill a
// requirement slot. Satisfies is normally a single interface assertion
// built with Cap.
type Capability struct {
	Name      string
	Satisfies func(Component) bool
}

// Cap builds a capability from an interface type: a component satisfies it
// when its runtime type implements T.
func Cap[T any](name string) Capability {
	return Capability{
		Name: name,
		Satisfies: func(c Component) bool {
			_, ok := c.(T)
			return ok
		},
	}
}

// Requirement declares one named slot of a component type: the submodel or
// connection it needs and the capability the bound value must satisfy.
// Requirements are static metadata, declared once per component type and
// shared by all instances.
type Requirement struct {
	Name        string
	Capability  Capability
	Description string
}
