package vopl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRLERoundTrip(t *testing.T) {
	g := makeTestGrid(t, 6, 3, 2)
	rle := CompressRLE(g)
	parsed, err := ParseRLE("[" + FormatRLE(rle) + "]")
	require.NoError(t, err)
	assert.Equal(t, rle, parsed)

	got, err := ExpandRLE(6, 3, 2, parsed)
	require.NoError(t, err)
	assert.True(t, g.Equal(got))
}

func TestExpandRLE(t *testing.T) {
	g, err := ExpandRLE(2, 2, 2, []int{3, 0, 4, 7, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 0, 0, 7, 7, 7, 7, 2}, g.Cells)
}

func TestRLEErrors(t *testing.T) {
	_, err := ParseRLE("34,7,abc,0")
	assert.ErrorIs(t, err, ErrRLE)
	_, err = ParseRLE("")
	assert.ErrorIs(t, err, ErrRLE)

	for name, rle := range map[string][]int{
		"odd":       {8},
		"short":     {7, 1},
		"long":      {9, 1},
		"bad color": {8, 64},
		"negative":  {-1, 1, 9, 1},
	} {
		_, err := ExpandRLE(2, 2, 2, rle)
		assert.ErrorIs(t, err, ErrRLE, name)
	}
}
