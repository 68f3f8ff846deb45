package sponge

import "fmt"

const (
	// DefaultMaxLatticeLevel bounds Build: side 81, 81^4 cells.
	DefaultMaxLatticeLevel = 4
	// LatticeCeiling caps every configurable limit: side 243, the largest
	// power of 3 a voxel grid can hold.
	LatticeCeiling = 5

	// A sub-hypercube is removed when this many of its 4 indices equal 1.
	removeOnes4D = 3
	// A sub-cube of the 20-cube 3D sponge is removed at 2 ones.
	removeOnes3D = 2
)

// Lattice is the occupancy tensor of the 4D sponge at a fixed level.
// Cells are stored flat, w varying fastest: ((i*S+j)*S+k)*S + w.
type Lattice struct {
	Level int
	Side  int
	cells []bool
}

// Build constructs the lattice for level, refusing levels above
// DefaultMaxLatticeLevel.
func Build(level int) (*Lattice, error) {
	return BuildWithLimit(level, DefaultMaxLatticeLevel)
}

// BuildWithLimit is Build with an explicit level ceiling. Ceilings above
// LatticeCeiling are lowered to it.
func BuildWithLimit(level, maxLevel int) (*Lattice, error) {
	maxLevel = min(maxLevel, LatticeCeiling)
	if level < 0 {
		return nil, fmt.Errorf("build level %d: %w", level, ErrInvalidLevel)
	}
	if level > maxLevel {
		return nil, fmt.Errorf("build level %d (max %d): %w", level, maxLevel, ErrLevelTooDeep)
	}
	return &Lattice{
		Level: level,
		Side:  pow3(level),
		cells: expand(4, level, removeOnes4D),
	}, nil
}

func (l *Lattice) index(i, j, k, w int) int {
	return ((i*l.Side+j)*l.Side+k)*l.Side + w
}

// At reports whether cell (i,j,k,w) is occupied. Out of range cells are empty.
func (l *Lattice) At(i, j, k, w int) bool {
	s := l.Side
	if i < 0 || j < 0 || k < 0 || w < 0 || i >= s || j >= s || k >= s || w >= s {
		return false
	}
	return l.cells[l.index(i, j, k, w)]
}

// Count returns the number of occupied cells.
func (l *Lattice) Count() int {
	n := 0
	for _, c := range l.cells {
		if c {
			n++
		}
	}
	return n
}

// Equal reports whether both lattices have the same side and cells.
func (l *Lattice) Equal(o *Lattice) bool {
	if l == nil || o == nil {
		return l == o
	}
	if l.Side != o.Side || len(l.cells) != len(o.cells) {
		return false
	}
	for i := range l.cells {
		if l.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Slice extracts the 3D cross-section at fourth-axis index w.
func (l *Lattice) Slice(w int) (*CrossSection, error) {
	if w < 0 || w >= l.Side {
		return nil, fmt.Errorf("slice %d of side %d: %w", w, l.Side, ErrSliceIndex)
	}
	s := l.Side
	cs := NewCrossSection(s)
	p := 0
	for i := 0; i < s; i++ {
		for j := 0; j < s; j++ {
			for k := 0; k < s; k++ {
				cs.cells[p] = l.cells[l.index(i, j, k, w)]
				p++
			}
		}
	}
	return cs, nil
}

// Block returns a copy of the sub-lattice at block position (a,b,c,d),
// each in 0..2, of side Side/3. It is nil at level 0.
func (l *Lattice) Block(a, b, c, d int) *Lattice {
	if l.Level == 0 {
		return nil
	}
	n := l.Side / 3
	out := &Lattice{Level: l.Level - 1, Side: n, cells: make([]bool, n*n*n*n)}
	p := 0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				src := l.index(a*n+i, b*n+j, c*n+k, d*n)
				copy(out.cells[p:p+n], l.cells[src:src+n])
				p += n
			}
		}
	}
	return out
}

// Build3D constructs the 3D Menger sponge (20-cube variant) of the given level
// as a cross-section-shaped grid: sub-cubes with 2 or more indices equal to 1
// are removed.
func Build3D(level int) (*CrossSection, error) {
	if level < 0 {
		return nil, fmt.Errorf("build3d level %d: %w", level, ErrInvalidLevel)
	}
	// 3D cost is (3^level)^3, one level deeper than the 4D ceiling is cheap.
	if level > DefaultMaxLatticeLevel+1 {
		return nil, fmt.Errorf("build3d level %d (max %d): %w", level, DefaultMaxLatticeLevel+1, ErrLevelTooDeep)
	}
	return &CrossSection{Side: pow3(level), cells: expand(3, level, removeOnes3D)}, nil
}

// expand grows a dim-dimensional hypercube from a single occupied cell to
// side 3^level. At each step the previous cube is copied into every one of the
// 3^dim block positions whose base-3 index has fewer than removeOnes ones.
// Two buffers sized for the final side are swapped between steps.
func expand(dim, level, removeOnes int) []bool {
	side := pow3(level)
	total := ipow(side, dim)
	cur := make([]bool, total)
	next := make([]bool, total)
	cur[0] = true

	blocks := ipow(3, dim)
	digits := make([]int, dim)
	prefix := make([]int, dim-1)

	n := 1
	for step := 0; step < level; step++ {
		m := 3 * n
		clear(next[:ipow(m, dim)])
		rows := ipow(n, dim-1)
		for b := 0; b < blocks; b++ {
			ones := 0
			for a, v := dim-1, b; a >= 0; a-- {
				digits[a] = v % 3
				v /= 3
				if digits[a] == 1 {
					ones++
				}
			}
			if ones >= removeOnes {
				continue
			}
			// copy row by row along the fastest axis
			for r := 0; r < rows; r++ {
				for a, v := dim-2, r; a >= 0; a-- {
					prefix[a] = v % n
					v /= n
				}
				dst := 0
				for a := 0; a < dim-1; a++ {
					dst = dst*m + digits[a]*n + prefix[a]
				}
				dst = dst*m + digits[dim-1]*n
				src := r * n
				copy(next[dst:dst+n], cur[src:src+n])
			}
		}
		cur, next = next, cur
		n = m
	}
	return cur[:total]
}

func pow3(level int) int { return ipow(3, level) }

func ipow(b, e int) int {
	r := 1
	for ; e > 0; e-- {
		r *= b
	}
	return r
}
