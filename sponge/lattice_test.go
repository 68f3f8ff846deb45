package sponge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func onesIn(idx ...int) int {
	n := 0
	for _, v := range idx {
		if v == 1 {
			n++
		}
	}
	return n
}

func TestBuildSide(t *testing.T) {
	for level := 0; level <= 3; level++ {
		lat, err := Build(level)
		require.NoError(t, err)
		assert.Equal(t, pow3(level), lat.Side, "level %d", level)
		assert.Len(t, lat.cells, lat.Side*lat.Side*lat.Side*lat.Side)
	}
}

func TestBuildLevelZero(t *testing.T) {
	lat, err := Build(0)
	require.NoError(t, err)
	assert.Equal(t, 1, lat.Side)
	assert.True(t, lat.At(0, 0, 0, 0))
	assert.Equal(t, 1, lat.Count())
}

func TestBuildLevelOneRule(t *testing.T) {
	lat, err := Build(1)
	require.NoError(t, err)
	kept := 0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				for w := 0; w < 3; w++ {
					want := onesIn(i, j, k, w) <= 2
					assert.Equal(t, want, lat.At(i, j, k, w), "(%d,%d,%d,%d)", i, j, k, w)
					if want {
						kept++
					}
				}
			}
		}
	}
	// 81 blocks minus 8 with three ones and 1 with four
	assert.Equal(t, 72, kept)
	assert.Equal(t, 72, lat.Count())
}

func TestBuildSelfSimilar(t *testing.T) {
	for level := 1; level <= 3; level++ {
		lat, err := Build(level)
		require.NoError(t, err)
		prev, err := Build(level - 1)
		require.NoError(t, err)
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				for c := 0; c < 3; c++ {
					for d := 0; d < 3; d++ {
						blk := lat.Block(a, b, c, d)
						if onesIn(a, b, c, d) <= 2 {
							assert.True(t, blk.Equal(prev), "level %d block (%d,%d,%d,%d) differs from level %d", level, a, b, c, d, level-1)
						} else {
							assert.Zero(t, blk.Count(), "level %d block (%d,%d,%d,%d) should be empty", level, a, b, c, d)
						}
					}
				}
			}
		}
	}
}

func TestBuildIdempotent(t *testing.T) {
	a, err := Build(2)
	require.NoError(t, err)
	b, err := Build(2)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestBuildCountsGrowBy72(t *testing.T) {
	want := 1
	for level := 0; level <= 3; level++ {
		lat, err := Build(level)
		require.NoError(t, err)
		assert.Equal(t, want, lat.Count(), "level %d", level)
		want *= 72
	}
}

func TestBuildRejectsBadLevels(t *testing.T) {
	_, err := Build(-1)
	assert.ErrorIs(t, err, ErrInvalidLevel)

	_, err = Build(DefaultMaxLatticeLevel + 1)
	assert.ErrorIs(t, err, ErrLevelTooDeep)

	_, err = BuildWithLimit(3, 2)
	assert.ErrorIs(t, err, ErrLevelTooDeep)

	// a generous limit cannot lift the hard ceiling
	_, err = BuildWithLimit(10, 10)
	assert.ErrorIs(t, err, ErrLevelTooDeep)
	_, err = BuildWithLimit(LatticeCeiling+1, 100)
	assert.ErrorIs(t, err, ErrLevelTooDeep)
}

func TestLatticeSlice(t *testing.T) {
	lat, err := Build(1)
	require.NoError(t, err)
	cs, err := lat.Slice(1)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				assert.Equal(t, lat.At(i, j, k, 1), cs.At(i, j, k))
			}
		}
	}

	_, err = lat.Slice(3)
	assert.ErrorIs(t, err, ErrSliceIndex)
	_, err = lat.Slice(-1)
	assert.ErrorIs(t, err, ErrSliceIndex)
}

func TestAtOutOfRange(t *testing.T) {
	lat, err := Build(1)
	require.NoError(t, err)
	assert.False(t, lat.At(-1, 0, 0, 0))
	assert.False(t, lat.At(0, 0, 0, 3))
}

func TestBuild3D(t *testing.T) {
	cs, err := Build3D(0)
	require.NoError(t, err)
	assert.Equal(t, 1, cs.Count())

	cs, err = Build3D(1)
	require.NoError(t, err)
	assert.Equal(t, 3, cs.Side)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				assert.Equal(t, onesIn(i, j, k) < 2, cs.At(i, j, k), "(%d,%d,%d)", i, j, k)
			}
		}
	}
	// the 20-cube variant keeps 20 sub-cubes per step
	assert.Equal(t, 20, cs.Count())

	cs, err = Build3D(2)
	require.NoError(t, err)
	assert.Equal(t, 400, cs.Count())

	_, err = Build3D(-2)
	assert.ErrorIs(t, err, ErrInvalidLevel)
}
