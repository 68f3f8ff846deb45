package vopl

import "fmt"

// MaxDim is the largest extent a .vopl header can describe on any axis.
const MaxDim = 255

// VoxelGrid holds one palette index per voxel; 0 is empty.
// Linear index: x + y*W + z*W*H.
type VoxelGrid struct {
	W, H, D int
	Cells   []uint8
}

// NewVoxelGrid returns an empty grid of the given extents.
func NewVoxelGrid(w, h, d int) (*VoxelGrid, error) {
	if err := checkDims(w, h, d); err != nil {
		return nil, err
	}
	return &VoxelGrid{W: w, H: h, D: d, Cells: make([]uint8, w*h*d)}, nil
}

func checkDims(w, h, d int) error {
	if w < 1 || h < 1 || d < 1 || w > MaxDim || h > MaxDim || d > MaxDim {
		return fmt.Errorf("%dx%dx%d: %w", w, h, d, ErrDims)
	}
	return nil
}

// Len is the number of voxels.
func (g *VoxelGrid) Len() int { return g.W * g.H * g.D }

func (g *VoxelGrid) index(x, y, z int) int { return x + y*g.W + z*g.W*g.H }

func (g *VoxelGrid) inside(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < g.W && y < g.H && z < g.D
}

// Get returns the colour at (x,y,z), 0 outside the grid.
func (g *VoxelGrid) Get(x, y, z int) uint8 {
	if !g.inside(x, y, z) {
		return 0
	}
	return g.Cells[g.index(x, y, z)]
}

// Set stores c at (x,y,z); writes outside the grid are ignored.
func (g *VoxelGrid) Set(x, y, z int, c uint8) {
	if g.inside(x, y, z) {
		g.Cells[g.index(x, y, z)] = c
	}
}

// Count returns the number of non-empty voxels.
func (g *VoxelGrid) Count() int {
	n := 0
	for _, c := range g.Cells {
		if c != 0 {
			n++
		}
	}
	return n
}

// SameShape reports whether both grids have the same extents.
func (g *VoxelGrid) SameShape(o *VoxelGrid) bool {
	return g.W == o.W && g.H == o.H && g.D == o.D
}

// Equal reports whether both grids have the same extents and colours.
func (g *VoxelGrid) Equal(o *VoxelGrid) bool {
	if !g.SameShape(o) {
		return false
	}
	for i, c := range g.Cells {
		if o.Cells[i] != c {
			return false
		}
	}
	return true
}
