package expand

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBitMapOrdering(t *testing.T) {
	g := Groups{True: []int{3, 5}, False: []int{0}, Multiplexed: []int{1, 4}}
	l, err := BuildBitMap(g, nil, 6)
	require.NoError(t, err)

	want := Layout{BitMap: []int{3, 5, 0, 1, 4}, NumTrue: 2, NumFalse: 1}
	if diff := cmp.Diff(want, l); diff != "" {
		t.Errorf("BuildBitMap mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, l.NumMultiplexed(0))
}

func TestBuildBitMapGroundedLast(t *testing.T) {
	g := Groups{True: []int{2}, Multiplexed: []int{0}}
	l, err := BuildBitMap(g, []int{3, 5}, 6)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 3, 5}, l.BitMap)
	assert.Equal(t, 1, l.NumMultiplexed(2))
}

func TestBuildBitMapOverflow(t *testing.T) {
	g := Groups{True: []int{0, 1}, Multiplexed: []int{2}}
	_, err := BuildBitMap(g, []int{3}, 3)
	require.ErrorIs(t, err, ErrEmbeddingOverflow)
	assert.True(t, IsEmbeddingOverflow(err))

	var ee *EmbeddingError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 4, ee.Len)
	assert.Equal(t, 3, ee.NumBits)
}

func TestBuildBitMapOverflowWinsOverDuplicate(t *testing.T) {
	// four entries for three bits, with a collision too
	g := Groups{True: []int{0, 1}, False: []int{2}}
	_, err := BuildBitMap(g, []int{2}, 3)
	assert.True(t, IsEmbeddingOverflow(err), "got %v", err)
}

func TestBuildBitMapGroundedCollision(t *testing.T) {
	g := Groups{True: []int{1}, Multiplexed: []int{4}}
	_, err := BuildBitMap(g, []int{4}, 6)
	require.ErrorIs(t, err, ErrDuplicateBitPosition)
	assert.True(t, IsDuplicateBitPosition(err))
	assert.False(t, IsEmbeddingOverflow(err))

	var ee *EmbeddingError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 4, ee.Pos)
	assert.Equal(t, ErrCodeDuplicateBitPosition, ee.Code)
}
