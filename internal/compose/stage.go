package compose

// Stage is the definition stage a node has completed.
type Stage int

// Stages, in pipeline order. Transitions are one-directional: each stage
// driver requires the node to be in the immediately preceding stage.
const (
	Unbuilt Stage = iota
	ConnectionsDefined
	ObjectsDefined
	KinematicsDefined
	LoadsDefined
	ConstraintsDefined
)

func (s Stage) String() string {
	switch s {
	case Unbuilt:
		return "unbuilt"
	case ConnectionsDefined:
		return "connections"
	case ObjectsDefined:
		return "objects"
	case KinematicsDefined:
		return "kinematics"
	case LoadsDefined:
		return "loads"
	case ConstraintsDefined:
		return "constraints"
	}
	return "unknown"
}
