package expand

import (
	"qdiagx/internal/circuit"
)

// Groups holds the control positions of one DIAG split by kind, each group
// ascending.
type Groups struct {
	True        []int
	False       []int
	Multiplexed []int
}

// Len returns the total number of controls.
func (g Groups) Len() int {
	return len(g.True) + len(g.False) + len(g.Multiplexed)
}

// Classify splits cs by control kind. Positions are visited in ascending
// order, so a malformed spec is reported at its lowest bad position.
func Classify(cs circuit.ControlSpec) (Groups, error) {
	var g Groups
	for _, p := range cs.Positions() {
		switch k := cs[p]; k {
		case circuit.TrueControl:
			g.True = append(g.True, p)
		case circuit.FalseControl:
			g.False = append(g.False, p)
		case circuit.MultiplexedControl:
			g.Multiplexed = append(g.Multiplexed, p)
		default:
			return Groups{}, &circuit.ControlSpecError{Pos: p, Reason: "unrecognized kind " + k.String()}
		}
	}
	return g, nil
}
