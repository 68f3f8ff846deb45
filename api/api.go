// Package api converts sponge cross-sections to and from the VOPL formats in
// memory, for the CLI tools and the wasm build alike.
package api

import (
	"fmt"
	"slices"

	"github.com/voxelsplace/hypersponge/sponge"
	"github.com/voxelsplace/hypersponge/vopl"
)

// CheckSliceSide rejects a cross-section side no voxel grid can hold, so
// callers can refuse before sampling anything.
func CheckSliceSide(side int) error {
	if side > vopl.MaxDim {
		return fmt.Errorf("cross-section of side %d exceeds %d: %w", side, vopl.MaxDim, vopl.ErrDims)
	}
	return nil
}

// SliceToGrid turns a cross-section into a voxel grid. Cross-section axes
// (i,j,k) become grid axes (x,z,y) so k points up, and occupied voxels are
// shaded by height.
func SliceToGrid(cs *sponge.CrossSection) (*vopl.VoxelGrid, error) {
	s := cs.Side
	if err := CheckSliceSide(s); err != nil {
		return nil, err
	}
	g, err := vopl.NewVoxelGrid(s, s, s)
	if err != nil {
		return nil, fmt.Errorf("cross-section of side %d: %w", s, err)
	}
	for k := 0; k < s; k++ {
		c := vopl.Shade(0.5)
		if s > 1 {
			c = vopl.Shade(float64(k) / float64(s-1))
		}
		for i := 0; i < s; i++ {
			for j := 0; j < s; j++ {
				if cs.At(i, j, k) {
					g.Set(i, k, j, c)
				}
			}
		}
	}
	return g, nil
}

// SliceToVOPLBytes encodes a cross-section as a .vopl file.
func SliceToVOPLBytes(cs *sponge.CrossSection) ([]byte, error) {
	g, err := SliceToGrid(cs)
	if err != nil {
		return nil, err
	}
	return vopl.Encode(g)
}

// FrameName is the pack entry name of frame i.
func FrameName(i int) string { return fmt.Sprintf("frame_%03d.vopl", i) }

// SequenceGrids converts every frame of seq.
func SequenceGrids(seq *sponge.Sequence) ([]*vopl.VoxelGrid, error) {
	out := make([]*vopl.VoxelGrid, len(seq.Frames))
	for i, f := range seq.Frames {
		g, err := SliceToGrid(f.Slice)
		if err != nil {
			return nil, fmt.Errorf("frame %d (%s): %w", i, f.Label, err)
		}
		out[i] = g
	}
	return out, nil
}

// GridsToPack stores grids as one .voplpack, entries named by FrameName.
func GridsToPack(grids []*vopl.VoxelGrid, layout vopl.PackLayout, comp vopl.PackCompression) ([]byte, error) {
	if len(grids) == 0 {
		return nil, fmt.Errorf("no grids to pack")
	}
	p := &vopl.Pack{}
	for i, g := range grids {
		if err := p.AddGrid(FrameName(i), g); err != nil {
			return nil, err
		}
	}
	return p.MarshalEx(layout, comp)
}

// SequenceToPack stores every frame of seq as one .voplpack.
func SequenceToPack(seq *sponge.Sequence, layout vopl.PackLayout, comp vopl.PackCompression) ([]byte, error) {
	grids, err := SequenceGrids(seq)
	if err != nil {
		return nil, err
	}
	return GridsToPack(grids, layout, comp)
}

// PackVOPLs builds a .voplpack from .vopl blobs keyed by name. Entries are
// stored in name order and every header must match.
func PackVOPLs(files map[string][]byte, layout vopl.PackLayout, comp vopl.PackCompression) ([]byte, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files")
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	slices.Sort(names)
	p := &vopl.Pack{}
	for _, name := range names {
		if err := p.AddFile(name, files[name]); err != nil {
			return nil, err
		}
	}
	return p.MarshalEx(layout, comp)
}

// UnpackVOPLPACKToMemory returns entry name -> .vopl bytes.
func UnpackVOPLPACKToMemory(packBytes []byte) (map[string][]byte, error) {
	p, _, err := vopl.UnmarshalPack(packBytes)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(p.Entries))
	for i, e := range p.Entries {
		out[e.Name] = p.File(i)
	}
	return out, nil
}

// PackGrids decodes every entry of a .voplpack in order.
func PackGrids(packBytes []byte) ([]string, []*vopl.VoxelGrid, error) {
	p, _, err := vopl.UnmarshalPack(packBytes)
	if err != nil {
		return nil, nil, err
	}
	names := make([]string, len(p.Entries))
	grids := make([]*vopl.VoxelGrid, len(p.Entries))
	for i, e := range p.Entries {
		names[i] = e.Name
		if grids[i], err = p.Grid(i); err != nil {
			return nil, nil, err
		}
	}
	return names, grids, nil
}

// SequenceDeltas encodes seq as a delta stream: frame 0 from empty, then the
// changes between consecutive frames.
func SequenceDeltas(seq *sponge.Sequence) ([][]byte, error) {
	grids, err := SequenceGrids(seq)
	if err != nil {
		return nil, err
	}
	return vopl.DeltaStream(grids)
}

// RLEToVOPLBytes converts an RLE string ("10,0,4,1,...") for a w*h*d grid
// to a .vopl file.
func RLEToVOPLBytes(w, h, d int, rleArg string) ([]byte, error) {
	rle, err := vopl.ParseRLE(rleArg)
	if err != nil {
		return nil, err
	}
	g, err := vopl.ExpandRLE(w, h, d, rle)
	if err != nil {
		return nil, err
	}
	return vopl.Encode(g)
}

// VOPLToRLE renders a .vopl file as an RLE string and its extents.
func VOPLToRLE(voplBytes []byte) (string, [3]int, error) {
	g, err := vopl.Decode(voplBytes)
	if err != nil {
		return "", [3]int{}, err
	}
	return vopl.FormatRLE(vopl.CompressRLE(g)), [3]int{g.W, g.H, g.D}, nil
}
