package vopl

import (
	"fmt"
	"image/color"
	"strconv"
)

const (
	// PaletteSize is the number of palette slots; slot 0 is empty.
	PaletteSize = 64
	// PaletteVersion is stored in every header written by this package.
	PaletteVersion = 64
)

// viridis control points, evenly spaced from 0 to 1.
var viridisStops = []string{
	"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// Palette maps palette indices 1..63 onto a viridis ramp. Index 0 is fully
// transparent and never rendered.
var Palette = buildPalette()

func buildPalette() [PaletteSize]color.RGBA {
	stops := make([]color.RGBA, len(viridisStops))
	for i, s := range viridisStops {
		c, err := ParseHexColor(s)
		if err != nil {
			panic(err)
		}
		stops[i] = c
	}
	var p [PaletteSize]color.RGBA
	last := float64(len(stops) - 1)
	for i := 1; i < PaletteSize; i++ {
		t := float64(i-1) / float64(PaletteSize-2) * last
		k := min(int(t), len(stops)-2)
		f := t - float64(k)
		a, b := stops[k], stops[k+1]
		lerp := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*f + 0.5) }
		p[i] = color.RGBA{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B), 255}
	}
	return p
}

// Shade maps t in [0,1] to a non-empty palette index.
func Shade(t float64) uint8 {
	t = min(max(t, 0), 1)
	return uint8(1 + t*float64(PaletteSize-2) + 0.5)
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa".
func ParseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 || hex[0] != '#' {
		return color.RGBA{}, fmt.Errorf("invalid hex colour %q", hex)
	}
	h := hex[1:]
	if len(h) != 6 && len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid hex colour length %q", hex)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex colour %q: %w", hex, err)
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Linear returns c as normalised RGBA floats, as glTF vertex colours expect.
func Linear(c color.RGBA) [4]float32 {
	return [4]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
}
