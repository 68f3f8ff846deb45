package vopl

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTestGrid(t *testing.T, w, h, d int) *VoxelGrid {
	t.Helper()
	g, err := NewVoxelGrid(w, h, d)
	require.NoError(t, err)
	for z := 0; z < d; z++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if (x+y+z)%3 != 0 {
					g.Set(x, y, z, uint8(1+(x+z+y)%6))
				}
			}
		}
	}
	return g
}

func TestNewVoxelGridDims(t *testing.T) {
	for _, dims := range [][3]int{{0, 1, 1}, {1, -1, 1}, {256, 1, 1}, {1, 1, 300}} {
		_, err := NewVoxelGrid(dims[0], dims[1], dims[2])
		assert.ErrorIs(t, err, ErrDims, "dims %v", dims)
	}
	g, err := NewVoxelGrid(255, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 510, g.Len())
}

func TestGridGetSet(t *testing.T) {
	g, err := NewVoxelGrid(3, 4, 5)
	require.NoError(t, err)
	g.Set(2, 3, 4, 7)
	g.Set(5, 0, 0, 9) // ignored
	assert.Equal(t, uint8(7), g.Get(2, 3, 4))
	assert.Equal(t, uint8(7), g.Cells[2+3*3+4*12])
	assert.Zero(t, g.Get(-1, 0, 0))
	assert.Equal(t, 1, g.Count())
}

func TestMortonOrderIsPermutation(t *testing.T) {
	for _, dims := range [][3]int{{1, 1, 1}, {3, 3, 3}, {5, 2, 7}, {16, 16, 16}} {
		o := orderFor(dims[0], dims[1], dims[2])
		seen := make([]bool, dims[0]*dims[1]*dims[2])
		for _, lin := range o {
			require.False(t, seen[lin], "dims %v index %d twice", dims, lin)
			seen[lin] = true
		}
		assert.Len(t, o, len(seen))
	}
}

func TestMortonRoundTrip(t *testing.T) {
	for _, p := range [][3]uint32{{0, 0, 0}, {1, 2, 3}, {254, 17, 80}, {1<<21 - 1, 5, 1}} {
		x, y, z := MortonDecode3D(Morton3D(p[0], p[1], p[2]))
		assert.Equal(t, p, [3]uint32{x, y, z})
	}
	assert.Equal(t, uint64(0b111), Morton3D(1, 1, 1))
	assert.Equal(t, uint64(0b100), Morton3D(0, 0, 1))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	grids := map[string]*VoxelGrid{
		"pattern":    makeTestGrid(t, 9, 9, 9),
		"odd extent": makeTestGrid(t, 5, 2, 7),
		"single":     makeTestGrid(t, 1, 1, 2),
	}
	empty, err := NewVoxelGrid(27, 27, 27)
	require.NoError(t, err)
	grids["empty"] = empty
	full, err := NewVoxelGrid(4, 4, 4)
	require.NoError(t, err)
	for i := range full.Cells {
		full.Cells[i] = 63
	}
	grids["full"] = full
	sparse, err := NewVoxelGrid(81, 81, 81)
	require.NoError(t, err)
	sparse.Set(80, 0, 40, 5)
	sparse.Set(3, 70, 2, 1)
	grids["sparse"] = sparse

	for name, g := range grids {
		t.Run(name, func(t *testing.T) {
			data, err := Encode(g)
			require.NoError(t, err)
			got, err := Decode(data)
			require.NoError(t, err)
			if diff := cmp.Diff(g, got); diff != "" {
				t.Fatalf("grid mismatch (-want +got):\n%s", diff)
			}
			again, err := Encode(got)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(data, again), "encode is not stable")
		})
	}
}

func TestEachEncodingDecodes(t *testing.T) {
	g := makeTestGrid(t, 6, 5, 4)
	stream := flatten(g)
	for _, enc := range []uint8{encDense, encSparse, encSparse2} {
		var payload []byte
		switch enc {
		case encDense:
			payload = encodeDense(stream, DefaultBPP)
		case encSparse:
			payload = encodeSparse(stream, DefaultBPP)
		case encSparse2:
			payload = encodeSparse2(stream, DefaultBPP)
		}
		for _, compressed := range []bool{false, true} {
			e, p := enc, payload
			if compressed {
				var err error
				p, err = zlibCompress(payload)
				require.NoError(t, err)
				e |= encCompressed
			}
			got, err := DecodePayload(HeaderFor(g, DefaultBPP), e, p)
			require.NoError(t, err, "encoding %#x", e)
			assert.True(t, g.Equal(got), "encoding %#x", e)
		}
	}
}

func TestEncodeRejectsWideColours(t *testing.T) {
	g := makeTestGrid(t, 2, 2, 2)
	g.Cells[0] = 64
	_, err := Encode(g)
	assert.ErrorIs(t, err, ErrColor)
	_, err = EncodeWithBPP(g, 8)
	assert.NoError(t, err)
}

func TestHeaderLayout(t *testing.T) {
	g := makeTestGrid(t, 7, 8, 9)
	data, err := Encode(g)
	require.NoError(t, err)
	assert.Equal(t, "VOPL", string(data[:4]))
	hdr, _, payload, err := ParseHeader(data)
	require.NoError(t, err)
	assert.Equal(t, VOPLHeader{Ver: 3, BPP: DefaultBPP, W: 7, H: 8, D: 9, Pal: PaletteVersion, PLen: uint32(len(payload))}, hdr)
	assert.Len(t, data, headerSize+len(payload))
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte("nope"))
	assert.ErrorIs(t, err, ErrNotVOPL)

	data, err := Encode(makeTestGrid(t, 3, 3, 3))
	require.NoError(t, err)

	bad := bytes.Clone(data)
	bad[4] = 2
	_, err = Decode(bad)
	assert.ErrorIs(t, err, ErrVersion)

	_, err = Decode(data[:len(data)-1])
	assert.ErrorIs(t, err, ErrPayload)

	bad = bytes.Clone(data)
	bad[5] = 9
	_, err = Decode(bad)
	assert.ErrorIs(t, err, ErrEncoding)

	bad = bytes.Clone(data)
	bad[7] = 0
	_, err = Decode(bad)
	assert.ErrorIs(t, err, ErrDims)
}

func TestSaveLoad(t *testing.T) {
	g := makeTestGrid(t, 4, 4, 4)
	path := filepath.Join(t.TempDir(), "grid.vopl")
	require.NoError(t, Save(g, path))
	got, err := Load(path)
	require.NoError(t, err)
	assert.True(t, g.Equal(got))

	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrNotVOPL)
}

func TestPalette(t *testing.T) {
	assert.Zero(t, Palette[0].A)
	assert.Equal(t, Palette[1], mustHex(t, "#440154"))
	assert.Equal(t, Palette[PaletteSize-1], mustHex(t, "#fde725"))
	assert.Equal(t, uint8(1), Shade(0))
	assert.Equal(t, uint8(PaletteSize-1), Shade(1))
	assert.Equal(t, uint8(PaletteSize-1), Shade(3))

	c, err := ParseHexColor("#10203040")
	require.NoError(t, err)
	assert.Equal(t, [4]float32{16.0 / 255, 32.0 / 255, 48.0 / 255, 64.0 / 255}, Linear(c))
	for _, bad := range []string{"", "102030", "#1020", "#zz2030"} {
		_, err := ParseHexColor(bad)
		assert.Error(t, err, bad)
	}
}

func mustHex(t *testing.T, s string) color.RGBA {
	t.Helper()
	c, err := ParseHexColor(s)
	require.NoError(t, err)
	return c
}
