package vopl

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRLE reads a "count,colour,count,colour" list; surrounding brackets
// and blanks are ignored.
func ParseRLE(s string) ([]int, error) {
	var out []int
	for _, p := range strings.Split(strings.Trim(s, "[] \n"), ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("rle value %q: %w", p, ErrRLE)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty input: %w", ErrRLE)
	}
	return out, nil
}

// ExpandRLE fills a w*h*d grid in linear order from count/colour pairs. The
// runs must cover the grid exactly.
func ExpandRLE(w, h, d int, rle []int) (*VoxelGrid, error) {
	if len(rle)%2 != 0 {
		return nil, fmt.Errorf("%d values, want count/colour pairs: %w", len(rle), ErrRLE)
	}
	g, err := NewVoxelGrid(w, h, d)
	if err != nil {
		return nil, err
	}
	idx := 0
	for i := 0; i < len(rle); i += 2 {
		count, c := rle[i], rle[i+1]
		if count < 0 || c < 0 || c >= PaletteSize {
			return nil, fmt.Errorf("run %d (%d x %d): %w", i/2, count, c, ErrRLE)
		}
		if idx+count > len(g.Cells) {
			return nil, fmt.Errorf("runs exceed %d voxels: %w", len(g.Cells), ErrRLE)
		}
		for j := idx; j < idx+count; j++ {
			g.Cells[j] = uint8(c)
		}
		idx += count
	}
	if idx != len(g.Cells) {
		return nil, fmt.Errorf("runs cover %d of %d voxels: %w", idx, len(g.Cells), ErrRLE)
	}
	return g, nil
}

// CompressRLE is the inverse of ExpandRLE.
func CompressRLE(g *VoxelGrid) []int {
	var out []int
	for i := 0; i < len(g.Cells); {
		j := i + 1
		for j < len(g.Cells) && g.Cells[j] == g.Cells[i] {
			j++
		}
		out = append(out, j-i, int(g.Cells[i]))
		i = j
	}
	return out
}

// FormatRLE renders runs in the form ParseRLE reads.
func FormatRLE(rle []int) string {
	var b strings.Builder
	for i, v := range rle {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}
