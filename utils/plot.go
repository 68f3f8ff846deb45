package utils

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/voxelsplace/hypersponge/sponge"
)

// Density is the occupied fraction of every frame, against frame w.
type Density struct {
	W    []float64
	Fill []float64
}

// Mean is the average fill over all frames.
func (d Density) Mean() float64 {
	if len(d.Fill) == 0 {
		return 0
	}
	return floats.Sum(d.Fill) / float64(len(d.Fill))
}

// Peak is the frame index with the highest fill; ties go to the earliest.
func (d Density) Peak() int {
	if len(d.Fill) == 0 {
		return -1
	}
	return floats.MaxIdx(d.Fill)
}

func SequenceDensity(seq *sponge.Sequence) Density {
	d := Density{W: make([]float64, len(seq.Frames)), Fill: make([]float64, len(seq.Frames))}
	for i, f := range seq.Frames {
		d.W[i] = f.Label.W
		d.Fill[i] = f.Slice.Fill()
	}
	return d
}

// SaveDensityPlot draws fill against w with the mean as a reference line.
// The image format follows the file extension.
func SaveDensityPlot(seq *sponge.Sequence, path string) error {
	d := SequenceDensity(seq)
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Cross-section density, level %d (%s)", seq.Level, seq.Method.Name())
	p.X.Label.Text = "w"
	p.Y.Label.Text = "occupied fraction"
	p.Y.Min, p.Y.Max = 0, 1
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(d.W))
	for i := range d.W {
		pts[i] = plotter.XY{X: d.W[i], Y: d.Fill[i]}
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	line.Width = vg.Points(1.5)
	mean := d.Mean()
	ref := plotter.NewFunction(func(float64) float64 { return mean })
	ref.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(line, points, ref)
	p.Legend.Add("fill", line, points)
	p.Legend.Add(fmt.Sprintf("mean %.3f", mean), ref)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
