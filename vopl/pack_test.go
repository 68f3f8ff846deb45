package vopl

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPack(t *testing.T, frames int) *Pack {
	t.Helper()
	p := &Pack{}
	for i := 0; i < frames; i++ {
		g := makeTestGrid(t, 27, 27, 27)
		// every other frame repeats so CDC has something to share
		g.Set(i/2, 0, 0, 0)
		require.NoError(t, p.AddGrid(fmt.Sprintf("frame_%03d", i), g))
	}
	return p
}

func TestPackRoundTrip(t *testing.T) {
	src := buildPack(t, 6)
	for _, layout := range []PackLayout{LayoutRaw, LayoutCDC} {
		for _, comp := range []PackCompression{PackCompNone, PackCompZlib, PackCompZstd} {
			t.Run(layout.String()+"/"+comp.String(), func(t *testing.T) {
				data, err := src.MarshalEx(layout, comp)
				require.NoError(t, err)
				got, gotComp, err := UnmarshalPack(data)
				require.NoError(t, err)
				assert.Equal(t, comp, gotComp)
				assert.Equal(t, src.Header, got.Header)
				require.Len(t, got.Entries, len(src.Entries))
				for i := range src.Entries {
					assert.Equal(t, src.Entries[i].Name, got.Entries[i].Name)
					assert.Equal(t, src.File(i), got.File(i))
					g, err := got.Grid(i)
					require.NoError(t, err)
					want, err := src.Grid(i)
					require.NoError(t, err)
					assert.True(t, want.Equal(g))
				}
			})
		}
	}
}

func TestPackVersionByte(t *testing.T) {
	p := buildPack(t, 1)
	data, err := p.Marshal(PackCompZlib)
	require.NoError(t, err)
	assert.Equal(t, "VOPLPACK", string(data[:8]))
	assert.Equal(t, byte(packVersion1), data[8])

	data, err = p.MarshalEx(LayoutRaw, PackCompZstd)
	require.NoError(t, err)
	assert.Equal(t, byte(packVersion2), data[8])
	assert.Equal(t, byte(PackCompZstd), data[9])
}

func TestCDCDeduplicates(t *testing.T) {
	payload := make([]byte, 40000)
	rng := rand.New(rand.NewPCG(1, 2))
	for i := range payload {
		payload[i] = byte(rng.Uint32())
	}
	entries := []PackEntry{{Name: "a", Payload: payload}, {Name: "b", Payload: payload}}
	dict, seqs := buildCDCIndex(entries, cdcTarget, cdcMin, cdcMax)
	assert.Equal(t, seqs[0], seqs[1])

	total := 0
	for _, b := range dict {
		total += len(b)
		assert.LessOrEqual(t, len(b), cdcMax)
	}
	assert.Equal(t, len(payload), total, "identical entries must share every chunk")
}

func TestPackAddFileRejectsMismatch(t *testing.T) {
	p := &Pack{}
	a, err := Encode(makeTestGrid(t, 3, 3, 3))
	require.NoError(t, err)
	b, err := Encode(makeTestGrid(t, 3, 3, 4))
	require.NoError(t, err)
	require.NoError(t, p.AddFile("a", a))
	assert.ErrorIs(t, p.AddFile("b", b), ErrHeader)
	assert.ErrorIs(t, p.AddFile("c", []byte("junk")), ErrNotVOPL)
}

func TestUnmarshalPackErrors(t *testing.T) {
	_, _, err := UnmarshalPack([]byte("VOPL"))
	assert.ErrorIs(t, err, ErrNotPack)

	data, err := buildPack(t, 2).Marshal(PackCompNone)
	require.NoError(t, err)

	bad := append([]byte(nil), data...)
	bad[9] = 7
	_, _, err = UnmarshalPack(bad)
	assert.ErrorIs(t, err, ErrCompression)

	bad = append([]byte(nil), data...)
	bad[8] = 9
	_, _, err = UnmarshalPack(bad)
	assert.ErrorIs(t, err, ErrVersion)

	_, _, err = UnmarshalPack(data[:len(data)-3])
	assert.ErrorIs(t, err, ErrPayload)
}

func TestParseCompressionAndLayout(t *testing.T) {
	c, err := ParseCompression("ZSTD")
	require.NoError(t, err)
	assert.Equal(t, PackCompZstd, c)
	_, err = ParseCompression("lz4")
	assert.ErrorIs(t, err, ErrCompression)

	l, err := ParseLayout("cdc")
	require.NoError(t, err)
	assert.Equal(t, LayoutCDC, l)
	_, err = ParseLayout("tar")
	assert.ErrorIs(t, err, ErrLayout)
}
