package circuit

import (
	"strings"
)

// cellW is the width of one wire column in a Picture line.
const cellW = 4

// padRight left-aligns s in a cell of cellW characters filled with fill.
func padRight(s string, fill byte) string {
	if len(s) >= cellW {
		return s[:cellW]
	}
	return s + strings.Repeat(string(fill), cellW-len(s))
}

// symbols returns the picture symbol of every bit the instruction touches.
func (in Instruction) symbols() map[int]string {
	syms := make(map[int]string, len(in.Controls)+2)
	for p, k := range in.Controls {
		syms[p] = k.Symbol()
	}
	spec := catalog[in.Keyword]
	if in.Target >= 0 {
		syms[in.Target] = spec.symbol
	}
	if in.Keyword == KeywordSwap {
		syms[in.Swap[0]] = spec.symbol
		syms[in.Swap[1]] = spec.symbol
	}
	return syms
}

// Picture renders the wire-diagram line for in over numBits wires, bit 0
// leftmost. Directive and blank lines are returned unchanged.
func Picture(in Instruction, numBits int) string {
	if in.Keyword.IsDirective() {
		return in.Line()
	}

	syms := in.symbols()
	lo, hi := -1, -1
	for b := range syms {
		if lo < 0 || b < lo {
			lo = b
		}
		if b > hi {
			hi = b
		}
	}

	var sb strings.Builder
	for b := 0; b < numBits; b++ {
		fill := byte(' ')
		if lo <= b && b < hi {
			fill = '-'
		}
		s, ok := syms[b]
		switch {
		case ok:
		case lo < b && b < hi:
			s = "+"
		default:
			s = "|"
		}
		sb.WriteString(padRight(s, fill))
	}
	return strings.TrimRight(sb.String(), " ")
}
