package utils

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"math"
	"os"

	"github.com/voxelsplace/hypersponge/vopl"
)

// gifTarget is the approximate width in pixels of one frame.
const gifTarget = 480

var gifPalette = func() color.Palette {
	p := make(color.Palette, vopl.PaletteSize)
	for i, c := range vopl.Palette {
		p[i] = c
	}
	// index 0 doubles as the background
	p[0] = color.RGBA{A: 255}
	return p
}()

// RenderFrame draws every horizontal layer of g side by side, bottom layer
// first, in rows of ceil(sqrt(H)) tiles with a one-cell gap.
func RenderFrame(g *vopl.VoxelGrid) *image.Paletted {
	cols := int(math.Ceil(math.Sqrt(float64(g.H))))
	rows := (g.H + cols - 1) / cols
	px := max(1, gifTarget/(cols*(g.W+1)))
	img := image.NewPaletted(image.Rect(0, 0, cols*(g.W+1)*px, rows*(g.D+1)*px), gifPalette)
	for y := 0; y < g.H; y++ {
		ox, oy := (y%cols)*(g.W+1)*px, (y/cols)*(g.D+1)*px
		for z := 0; z < g.D; z++ {
			for x := 0; x < g.W; x++ {
				c := g.Get(x, y, z)
				if c == 0 {
					continue
				}
				for dy := 0; dy < px; dy++ {
					off := img.PixOffset(ox+x*px, oy+z*px+dy)
					for dx := 0; dx < px; dx++ {
						img.Pix[off+dx] = c
					}
				}
			}
		}
	}
	return img
}

// SaveAnimatedGIF writes one looping frame per grid. delay is in 100ths of
// a second (50 => 2 fps).
func SaveAnimatedGIF(grids []*vopl.VoxelGrid, path string, delay int) error {
	if len(grids) == 0 {
		return fmt.Errorf("no frames")
	}
	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(grids)),
		Delay:     make([]int, 0, len(grids)),
		LoopCount: 0,
	}
	for _, g := range grids {
		out.Image = append(out.Image, RenderFrame(g))
		out.Delay = append(out.Delay, delay)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, out); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
