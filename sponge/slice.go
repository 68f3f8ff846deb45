package sponge

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MaxRationalLevel keeps 3^level within MaxDenominator when bounding w.
const MaxRationalLevel = 38

// CrossSection is a cube of occupancy flags, k varying fastest:
// (i*Side+j)*Side + k.
type CrossSection struct {
	Side  int
	cells []bool
}

// NewCrossSection returns an empty cross-section of the given side.
func NewCrossSection(side int) *CrossSection {
	return &CrossSection{Side: side, cells: make([]bool, side*side*side)}
}

// At reports whether (i,j,k) is occupied. Out of range cells are empty.
func (c *CrossSection) At(i, j, k int) bool {
	s := c.Side
	if i < 0 || j < 0 || k < 0 || i >= s || j >= s || k >= s {
		return false
	}
	return c.cells[(i*s+j)*s+k]
}

// Count returns the number of occupied cells.
func (c *CrossSection) Count() int {
	n := 0
	for _, v := range c.cells {
		if v {
			n++
		}
	}
	return n
}

// Fill returns the occupied fraction of the cube.
func (c *CrossSection) Fill() float64 {
	if len(c.cells) == 0 {
		return 0
	}
	return float64(c.Count()) / float64(len(c.cells))
}

// Equal reports whether both cross-sections hold the same cells.
func (c *CrossSection) Equal(o *CrossSection) bool {
	if c == nil || o == nil {
		return c == o
	}
	if c.Side != o.Side {
		return false
	}
	for i := range c.cells {
		if c.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Cells returns a copy of the flat occupancy flags.
func (c *CrossSection) Cells() []bool {
	return append([]bool(nil), c.cells...)
}

// SliceAt samples the cross-section at fourth coordinate w on an N×N×N grid
// of points i/(N-1). The float w is first replaced by its best rational
// approximation with denominator at most 3^level.
func SliceAt(w float64, n, level int) (*CrossSection, error) {
	return defaultGenerator.SliceAt(w, n, level)
}

// SliceAtExact is SliceAt for an exact w.
func SliceAtExact(w Coord, n, level int) (*CrossSection, error) {
	return defaultGenerator.SliceAtExact(w, n, level)
}

// SliceAt is the package SliceAt using the generator's worker count.
func (g *Generator) SliceAt(w float64, n, level int) (*CrossSection, error) {
	if err := checkRational(n, level); err != nil {
		return nil, err
	}
	exact, err := Approximate(w, int64(pow3(level)))
	if err != nil {
		return nil, err
	}
	return g.sample(exact, n, level)
}

// SliceAtExact is the package SliceAtExact using the generator's worker count.
func (g *Generator) SliceAtExact(w Coord, n, level int) (*CrossSection, error) {
	if err := checkRational(n, level); err != nil {
		return nil, err
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return g.sample(w, n, level)
}

func checkRational(n, level int) error {
	if level < 0 {
		return fmt.Errorf("slice level %d: %w", level, ErrInvalidLevel)
	}
	if level > MaxRationalLevel {
		return fmt.Errorf("slice level %d (max %d): %w", level, MaxRationalLevel, ErrLevelTooDeep)
	}
	if n == 0 {
		return ErrMissingResolution
	}
	if n < 2 {
		return fmt.Errorf("resolution %d: %w", n, ErrInvalidResolution)
	}
	return nil
}

// sample evaluates every point independently; one task per i-plane, each
// writing only its own plane.
func (g *Generator) sample(w Coord, n, level int) (*CrossSection, error) {
	cs := NewCrossSection(n)
	den := int64(n - 1)

	var eg errgroup.Group
	eg.SetLimit(g.workers())
	for i := 0; i < n; i++ {
		eg.Go(func() error {
			x := Frac(int64(i), den)
			plane := cs.cells[i*n*n : (i+1)*n*n]
			p := 0
			for j := 0; j < n; j++ {
				y := Frac(int64(j), den)
				for k := 0; k < n; k++ {
					plane[p] = member([4]Coord{x, y, Frac(int64(k), den), w}, level)
					p++
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return cs, nil
}

func (g *Generator) workers() int {
	if g != nil && g.Workers > 0 {
		return g.Workers
	}
	return runtime.NumCPU()
}
