// Package embed maps gates written for a small register onto positions of a
// larger one.
package embed

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidBitMap is returned by New when the bit map is not an injective
// map from [0,bef) into [0,aft).
var ErrInvalidBitMap = errors.New("invalid bit map")

// Embedder maps reduced-register position i to absolute position bitMap[i].
// The zero value is not usable; use Identity or New.
type Embedder struct {
	numBitsBef int
	numBitsAft int
	bitMap     []int // nil for the identity
}

// Identity returns the embedder that maps every position of an n-bit
// register to itself.
func Identity(n int) Embedder {
	return Embedder{numBitsBef: n, numBitsAft: n}
}

// New returns an embedder of a bef-bit register into an aft-bit register.
func New(bef, aft int, bitMap []int) (Embedder, error) {
	if bef < 0 || bef > aft {
		return Embedder{}, fmt.Errorf("%w: %d bits do not fit in %d", ErrInvalidBitMap, bef, aft)
	}
	if len(bitMap) != bef {
		return Embedder{}, fmt.Errorf("%w: map has %d entries, want %d", ErrInvalidBitMap, len(bitMap), bef)
	}
	seen := make(map[int]bool, len(bitMap))
	for i, b := range bitMap {
		if b < 0 || b >= aft {
			return Embedder{}, fmt.Errorf("%w: entry %d is %d, not in [0,%d)", ErrInvalidBitMap, i, b, aft)
		}
		if seen[b] {
			return Embedder{}, fmt.Errorf("%w: position %d mapped twice", ErrInvalidBitMap, b)
		}
		seen[b] = true
	}
	return Embedder{numBitsBef: bef, numBitsAft: aft, bitMap: slices.Clone(bitMap)}, nil
}

// Aft returns the absolute position of reduced position pos.
func (e Embedder) Aft(pos int) int {
	if e.bitMap == nil {
		return pos
	}
	return e.bitMap[pos]
}

// NumBitsBef returns the size of the reduced register.
func (e Embedder) NumBitsBef() int { return e.numBitsBef }

// NumBitsAft returns the size of the full register.
func (e Embedder) NumBitsAft() int { return e.numBitsAft }

// BitMap returns a copy of the bit map. The identity has a nil map.
func (e Embedder) BitMap() []int { return slices.Clone(e.bitMap) }

// IsIdentity reports whether e maps every position to itself.
func (e Embedder) IsIdentity() bool {
	if e.numBitsBef != e.numBitsAft {
		return false
	}
	for i, b := range e.bitMap {
		if i != b {
			return false
		}
	}
	return true
}

// Equal reports whether e and o map the same registers the same way.
func (e Embedder) Equal(o Embedder) bool {
	if e.numBitsBef != o.numBitsBef || e.numBitsAft != o.numBitsAft {
		return false
	}
	for i := 0; i < e.numBitsBef; i++ {
		if e.Aft(i) != o.Aft(i) {
			return false
		}
	}
	return true
}

func (e Embedder) String() string {
	if e.bitMap == nil {
		return fmt.Sprintf("identity(%d)", e.numBitsAft)
	}
	return fmt.Sprintf("%d->%d %v", e.numBitsBef, e.numBitsAft, e.bitMap)
}
