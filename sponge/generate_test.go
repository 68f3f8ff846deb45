package sponge

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("integer", 0)
	require.NoError(t, err)
	assert.Equal(t, Integer{}, m)

	m, err = ParseMethod(" Rational ", 12)
	require.NoError(t, err)
	assert.Equal(t, Rational{Resolution: 12}, m)
	assert.Equal(t, "rational", m.Name())

	_, err = ParseMethod("cubic", 4)
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestGenerateIntegerLabels(t *testing.T) {
	seq, err := GenerateSlices(1, Integer{}, 3)
	require.NoError(t, err)
	require.Len(t, seq.Frames, 3)

	var idx []int
	for _, l := range seq.Labels() {
		idx = append(idx, l.Index)
	}
	if diff := cmp.Diff([]int{0, 1, 2}, idx); diff != "" {
		t.Fatalf("indices (-want +got):\n%s", diff)
	}
	assert.Equal(t, "slice index = 1", seq.Frames[1].Label.String())
	assert.Equal(t, 26, seq.Frames[0].Slice.Count())
	assert.Equal(t, 20, seq.Frames[1].Slice.Count())
	assert.InDelta(t, 0.5, seq.Frames[1].Label.W, 1e-12)
}

func TestGenerateIntegerRepeatsIndices(t *testing.T) {
	seq, err := GenerateSlices(1, Integer{}, 5)
	require.NoError(t, err)
	var idx []int
	for _, l := range seq.Labels() {
		idx = append(idx, l.Index)
	}
	if diff := cmp.Diff([]int{0, 1, 1, 2, 2}, idx); diff != "" {
		t.Fatalf("indices (-want +got):\n%s", diff)
	}
}

func TestGenerateRationalLabels(t *testing.T) {
	seq, err := GenerateSlices(2, Rational{Resolution: 5}, 10)
	require.NoError(t, err)
	require.Len(t, seq.Frames, 10)
	for i, f := range seq.Frames {
		assert.Equal(t, -1, f.Label.Index)
		assert.InDelta(t, float64(i)/9, f.Label.W, 1e-12)
		assert.Equal(t, 0, f.Label.Exact.Cmp(Frac(int64(i), 9)), "frame %d exact %v", i, f.Label.Exact)
		assert.Equal(t, 5, f.Slice.Side)
	}
	assert.Equal(t, "w = 0.000", seq.Frames[0].Label.String())
	assert.Equal(t, "w = 1.000", seq.Frames[9].Label.String())
}

func TestGenerateSingleFrame(t *testing.T) {
	seq, err := GenerateSlices(1, Rational{Resolution: 3}, 1)
	require.NoError(t, err)
	require.Len(t, seq.Frames, 1)
	assert.Zero(t, seq.Frames[0].Label.W)

	seq, err = GenerateSlices(1, Integer{}, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, seq.Frames[0].Label.Index)
}

func TestGenerateRationalMatchesSliceAt(t *testing.T) {
	seq, err := GenerateSlices(2, Rational{Resolution: 7}, 4)
	require.NoError(t, err)
	for _, f := range seq.Frames {
		want, err := SliceAt(f.Label.W, 7, 2)
		require.NoError(t, err)
		assert.True(t, want.Equal(f.Slice), "w=%v", f.Label.W)
	}
}

func TestGenerateValidatesFirst(t *testing.T) {
	tests := []struct {
		name  string
		level int
		m     Method
		count int
		want  error
	}{
		{"negative level", -1, Integer{}, 3, ErrInvalidLevel},
		{"zero frames", 1, Integer{}, 0, ErrInvalidFrameCount},
		{"nil method", 1, nil, 3, ErrUnknownMethod},
		{"integer too deep", DefaultMaxLatticeLevel + 1, Integer{}, 3, ErrLevelTooDeep},
		{"missing resolution", 1, Rational{}, 3, ErrMissingResolution},
		{"resolution one", 1, Rational{Resolution: 1}, 3, ErrInvalidResolution},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, hook := test.NewNullLogger()
			log.SetLevel(logrus.DebugLevel)
			g := &Generator{Log: log}
			_, err := g.Generate(tt.level, tt.m, tt.count)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, hook.AllEntries(), "nothing should run before validation")
		})
	}
}

func TestGenerateLatticeCeiling(t *testing.T) {
	g := &Generator{MaxLatticeLevel: 1}
	_, err := g.Generate(2, Integer{}, 2)
	assert.ErrorIs(t, err, ErrLevelTooDeep)

	// the rational method is not bounded by the lattice ceiling
	_, err = g.Generate(2, Rational{Resolution: 3}, 2)
	assert.NoError(t, err)

	// an oversized limit is clamped before any lattice is allocated
	g = &Generator{MaxLatticeLevel: 10}
	_, err = g.Generate(10, Integer{}, 1)
	assert.ErrorIs(t, err, ErrLevelTooDeep)
}

func TestGenerateLogsEachSlice(t *testing.T) {
	log, hook := test.NewNullLogger()
	g := &Generator{Log: log}
	_, err := g.Generate(1, Rational{Resolution: 3}, 4)
	require.NoError(t, err)
	require.Len(t, hook.AllEntries(), 4)
	assert.Equal(t, "generating slice", hook.LastEntry().Message)
	assert.Equal(t, "1/1", hook.LastEntry().Data["exact"])
}

func TestSpan(t *testing.T) {
	assert.Nil(t, Span(0, 1, 0))
	assert.Equal(t, []float64{0}, Span(0, 1, 1))
	got := Span(0, 1, 5)
	assert.InDeltaSlice(t, []float64{0, 0.25, 0.5, 0.75, 1}, got, 1e-12)
	assert.Equal(t, 1.0, got[4])
}

func TestSliceIndices(t *testing.T) {
	if diff := cmp.Diff([]int{0, 4, 9, 13, 18, 22, 27, 31, 36, 40, 44, 49, 53, 58, 62, 67, 71, 76, 80}, SliceIndices(81, 19)); diff != "" {
		t.Fatalf("indices (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{0}, SliceIndices(9, 1))
}
