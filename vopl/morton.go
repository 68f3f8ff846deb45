package vopl

import (
	"cmp"
	"slices"
	"sync"
)

// part1By2 spreads the low 21 bits of x so two zero bits follow each one.
func part1By2(x uint64) uint64 {
	x &= 0x1fffff
	x = (x | (x << 32)) & 0x1f00000000ffff
	x = (x | (x << 16)) & 0x1f0000ff0000ff
	x = (x | (x << 8)) & 0x100f00f00f00f00f
	x = (x | (x << 4)) & 0x10c30c30c30c30c3
	x = (x | (x << 2)) & 0x1249249249249249
	return x
}

func compact1By2(x uint64) uint64 {
	x &= 0x1249249249249249
	x = (x ^ (x >> 2)) & 0x10c30c30c30c30c3
	x = (x ^ (x >> 4)) & 0x100f00f00f00f00f
	x = (x ^ (x >> 8)) & 0x1f0000ff0000ff
	x = (x ^ (x >> 16)) & 0x1f00000000ffff
	x = (x ^ (x >> 32)) & 0x1fffff
	return x
}

// Morton3D interleaves x, y and z into a single key, x in the lowest bit.
func Morton3D(x, y, z uint32) uint64 {
	return part1By2(uint64(x)) | part1By2(uint64(y))<<1 | part1By2(uint64(z))<<2
}

// MortonDecode3D is the inverse of Morton3D.
func MortonDecode3D(key uint64) (x, y, z uint32) {
	return uint32(compact1By2(key)), uint32(compact1By2(key >> 1)), uint32(compact1By2(key >> 2))
}

// mortonOrder lists linear grid indices sorted by Morton key. Grids that are
// not powers of two simply skip the missing keys.
type mortonOrder []int

var orders sync.Map // [3]int -> mortonOrder

func orderFor(w, h, d int) mortonOrder {
	dims := [3]int{w, h, d}
	if o, ok := orders.Load(dims); ok {
		return o.(mortonOrder)
	}
	type kv struct {
		key uint64
		lin int
	}
	keys := make([]kv, 0, w*h*d)
	for z := 0; z < d; z++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				keys = append(keys, kv{Morton3D(uint32(x), uint32(y), uint32(z)), x + y*w + z*w*h})
			}
		}
	}
	slices.SortFunc(keys, func(a, b kv) int { return cmp.Compare(a.key, b.key) })
	o := make(mortonOrder, len(keys))
	for i, k := range keys {
		o[i] = k.lin
	}
	actual, _ := orders.LoadOrStore(dims, o)
	return actual.(mortonOrder)
}

// flatten returns the grid colours in Morton order.
func flatten(g *VoxelGrid) []uint8 {
	order := orderFor(g.W, g.H, g.D)
	out := make([]uint8, len(order))
	for i, lin := range order {
		out[i] = g.Cells[lin]
	}
	return out
}

// unflatten writes a Morton-ordered stream back into g.
func unflatten(g *VoxelGrid, stream []uint8) {
	for i, lin := range orderFor(g.W, g.H, g.D) {
		g.Cells[lin] = stream[i]
	}
}
