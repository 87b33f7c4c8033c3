package expand

import (
	"slices"
)

// Layout is the embedding of one DIAG: BitMap lists the true, false and
// multiplexed controls and then the grounded bits; NumTrue and NumFalse
// give the sizes of the first two groups.
type Layout struct {
	BitMap   []int
	NumTrue  int
	NumFalse int
}

// NumMultiplexed returns the size of the multiplexed group given ng grounded
// bits.
func (l Layout) NumMultiplexed(ng int) int {
	return len(l.BitMap) - l.NumTrue - l.NumFalse - ng
}

// BuildBitMap lays out g followed by grounded for a numBits register.
// grounded is used in the order given.
func BuildBitMap(g Groups, grounded []int, numBits int) (Layout, error) {
	bitMap := make([]int, 0, g.Len()+len(grounded))
	bitMap = append(bitMap, g.True...)
	bitMap = append(bitMap, g.False...)
	bitMap = append(bitMap, g.Multiplexed...)
	bitMap = append(bitMap, grounded...)

	if len(bitMap) > numBits {
		return Layout{}, newOverflowError(len(bitMap), numBits)
	}
	seen := make(map[int]bool, len(bitMap))
	for _, b := range bitMap {
		if seen[b] {
			return Layout{}, newDuplicateError(b)
		}
		seen[b] = true
	}
	return Layout{
		BitMap:   slices.Clip(bitMap),
		NumTrue:  len(g.True),
		NumFalse: len(g.False),
	}, nil
}
