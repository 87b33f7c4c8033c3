package circuit

import (
	"slices"
	"strconv"
	"strings"
)

// Instruction is one parsed English line.
type Instruction struct {
	Keyword  Keyword
	Raw      string      // source text; empty for generated instructions
	Target   int         // -1 if the instruction has no target bit
	Swap     [2]int      // SWAP bit pair, in written order
	Angles   []float64   // radians
	Controls ControlSpec // nil when the line has no IF clause
	LoopID   int
	Reps     int
	MeasKind int
	Text     string // NOTA/PRINT payload
}

// NewGate returns a single-target gate instruction.
func NewGate(kw Keyword, target int, angles []float64, controls ControlSpec) Instruction {
	return Instruction{
		Keyword:  kw,
		Target:   target,
		Angles:   angles,
		Controls: controls,
	}
}

// NewSwap returns a SWAP of bits b1 and b0.
func NewSwap(b1, b0 int, controls ControlSpec) Instruction {
	return Instruction{
		Keyword:  KeywordSwap,
		Target:   -1,
		Swap:     [2]int{b1, b0},
		Controls: controls,
	}
}

// NewDiag returns a diagonal unitary with the given controls and angles.
func NewDiag(controls ControlSpec, angles []float64) Instruction {
	return Instruction{
		Keyword:  KeywordDiag,
		Target:   -1,
		Angles:   angles,
		Controls: controls,
	}
}

// NewNote returns a NOTA comment line.
func NewNote(text string) Instruction {
	return Instruction{Keyword: KeywordNota, Target: -1, Text: text}
}

// Line returns the English text for in: the source text when the
// instruction was parsed, the canonical form otherwise.
func (in Instruction) Line() string {
	if in.Raw != "" || in.Keyword == KeywordBlank {
		return in.Raw
	}
	return in.String()
}

// Bits returns every bit the instruction touches, ascending.
func (in Instruction) Bits() []int {
	var bits []int
	if in.Target >= 0 {
		bits = append(bits, in.Target)
	}
	if in.Keyword == KeywordSwap {
		bits = append(bits, in.Swap[0], in.Swap[1])
	}
	bits = append(bits, in.Controls.Positions()...)
	slices.Sort(bits)
	return slices.Compact(bits)
}

// Clone returns a deep copy of in.
func (in Instruction) Clone() Instruction {
	out := in
	out.Angles = slices.Clone(in.Angles)
	out.Controls = in.Controls.Clone()
	return out
}

// String renders the canonical, tab-separated English form of in.
func (in Instruction) String() string {
	var sb strings.Builder
	sb.WriteString(string(in.Keyword))

	spec := catalog[in.Keyword]
	switch {
	case in.Keyword == KeywordBlank:
		return ""
	case spec.form == formText:
		if in.Text != "" {
			sb.WriteString("\t" + in.Text)
		}
	case spec.form == formLoop:
		sb.WriteString("\t" + strconv.Itoa(in.LoopID) + "\tNREPS=\t" + strconv.Itoa(in.Reps))
	case spec.form == formNext:
		sb.WriteString("\t" + strconv.Itoa(in.LoopID))
	case spec.form == formMeas:
		sb.WriteString("\t" + strconv.Itoa(in.MeasKind) + "\tAT\t" + strconv.Itoa(in.Target))
	case spec.form == formGate:
		if len(in.Angles) > 0 {
			sb.WriteString("\t" + formatAngles(in.Angles))
		}
		sb.WriteString("\tAT\t" + strconv.Itoa(in.Target))
		in.writeControls(&sb)
	case spec.form == formSwap:
		sb.WriteString("\t" + strconv.Itoa(in.Swap[0]) + "\t" + strconv.Itoa(in.Swap[1]))
		in.writeControls(&sb)
	case spec.form == formDiag:
		in.writeControls(&sb)
		sb.WriteString("\tBY")
		if len(in.Angles) > 0 {
			sb.WriteString("\t" + formatAngles(in.Angles))
		}
	case spec.form == formMPY:
		sb.WriteString("\tAT\t" + strconv.Itoa(in.Target))
		in.writeControls(&sb)
		sb.WriteString("\tBY")
		if len(in.Angles) > 0 {
			sb.WriteString("\t" + formatAngles(in.Angles))
		}
	}
	return sb.String()
}

func (in Instruction) writeControls(sb *strings.Builder) {
	if len(in.Controls) == 0 {
		return
	}
	sb.WriteString("\tIF\t" + in.Controls.String())
}
