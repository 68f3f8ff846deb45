package utils

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/voxelsplace/hypersponge/sponge"
)

// ScatterPoints lists the occupied cells of cs as (i, j, k) triples.
func ScatterPoints(cs *sponge.CrossSection) []opts.Chart3DData {
	s := cs.Side
	pts := make([]opts.Chart3DData, 0, cs.Count())
	for i := 0; i < s; i++ {
		for j := 0; j < s; j++ {
			for k := 0; k < s; k++ {
				if cs.At(i, j, k) {
					pts = append(pts, opts.Chart3DData{Value: []interface{}{i, j, k}})
				}
			}
		}
	}
	return pts
}

// SaveScatterPage renders one 3D scatter chart per frame into a single HTML
// page.
func SaveScatterPage(seq *sponge.Sequence, path string) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("4D Menger sponge, level %d (%s)", seq.Level, seq.Method.Name())
	for i, f := range seq.Frames {
		sc := charts.NewScatter3D()
		sc.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{Width: "720px", Height: "600px"}),
			charts.WithTitleOpts(opts.Title{
				Title:    f.Label.String(),
				Subtitle: fmt.Sprintf("frame %d, %d of %d cells", i, f.Slice.Count(), f.Slice.Side*f.Slice.Side*f.Slice.Side),
			}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		)
		sc.AddSeries("occupied", ScatterPoints(f.Slice))
		page.AddCharts(sc)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := page.Render(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
