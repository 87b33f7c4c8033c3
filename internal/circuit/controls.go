package circuit

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ControlKind says how a control bit gates an instruction.
type ControlKind int

const (
	// TrueControl fires when the bit is |1>.
	TrueControl ControlKind = iota + 1
	// FalseControl fires when the bit is |0>.
	FalseControl
	// MultiplexedControl is a continuously-parameterized control: the
	// instruction's angle is selected by the bit's value.
	MultiplexedControl
)

// Valid reports whether k is one of the three control kinds.
func (k ControlKind) Valid() bool {
	return k >= TrueControl && k <= MultiplexedControl
}

// Tag returns the English suffix for the kind ("T", "F" or "M").
func (k ControlKind) Tag() string {
	switch k {
	case TrueControl:
		return "T"
	case FalseControl:
		return "F"
	case MultiplexedControl:
		return "M"
	default:
		return "?"
	}
}

// Symbol returns the picture symbol for a control of this kind.
func (k ControlKind) Symbol() string {
	switch k {
	case TrueControl:
		return "@"
	case FalseControl:
		return "O"
	case MultiplexedControl:
		return "%"
	default:
		return "?"
	}
}

func (k ControlKind) String() string {
	switch k {
	case TrueControl:
		return "TrueControl"
	case FalseControl:
		return "FalseControl"
	case MultiplexedControl:
		return "MultiplexedControl"
	default:
		return fmt.Sprintf("ControlKind(%d)", int(k))
	}
}

// kindForTag maps an English suffix to its kind.
func kindForTag(tag string) (ControlKind, bool) {
	switch tag {
	case "T":
		return TrueControl, true
	case "F":
		return FalseControl, true
	case "M":
		return MultiplexedControl, true
	default:
		return 0, false
	}
}

// ControlSpec maps bit positions to control kinds. A position appears at
// most once.
type ControlSpec map[int]ControlKind

// Positions returns the controlled bit positions in ascending order.
func (cs ControlSpec) Positions() []int {
	pos := make([]int, 0, len(cs))
	for p := range cs {
		pos = append(pos, p)
	}
	slices.Sort(pos)
	return pos
}

// Count returns how many controls have the given kind.
func (cs ControlSpec) Count(kind ControlKind) int {
	n := 0
	for _, k := range cs {
		if k == kind {
			n++
		}
	}
	return n
}

// Clone returns a copy of cs.
func (cs ControlSpec) Clone() ControlSpec {
	if cs == nil {
		return nil
	}
	out := make(ControlSpec, len(cs))
	for p, k := range cs {
		out[p] = k
	}
	return out
}

// Satisfied reports whether the true and false controls of cs all hold for
// the basis state x. Multiplexed controls never block.
func (cs ControlSpec) Satisfied(x int) bool {
	for p, k := range cs {
		set := x&(1<<p) != 0
		if (k == TrueControl && !set) || (k == FalseControl && set) {
			return false
		}
	}
	return true
}

// String formats cs as English control tokens in ascending bit order,
// separated by tabs.
func (cs ControlSpec) String() string {
	toks := make([]string, 0, len(cs))
	for _, p := range cs.Positions() {
		toks = append(toks, strconv.Itoa(p)+cs[p].Tag())
	}
	return strings.Join(toks, "\t")
}

// parseControl parses a single control token such as "3T".
func parseControl(tok string) (int, ControlKind, error) {
	i := 0
	for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, 0, fmt.Errorf("%w: control %q has no bit position", ErrSyntax, tok)
	}
	pos, err := strconv.Atoi(tok[:i])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: control %q: %v", ErrSyntax, tok, err)
	}
	kind, ok := kindForTag(tok[i:])
	if !ok {
		return pos, 0, &ControlSpecError{Pos: pos, Tag: tok[i:]}
	}
	return pos, kind, nil
}
