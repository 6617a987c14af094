package export

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/optiqa/wdmsim/internal/engine"
	"github.com/optiqa/wdmsim/internal/report"
	"github.com/optiqa/wdmsim/internal/topology"
)

// PlotPNG renders the aggregate power profile of one fiber to a PNG file.
func PlotPNG(path string, f *topology.Fiber, perf *engine.Performance) error {
	const samples = 201

	data := report.AggregateProfileSamples(f, perf, samples)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Fiber %s: total power profile", f.ID)
	p.X.Label.Text = "distance (km)"
	p.Y.Label.Text = "power (dBm)"

	pts := make(plotter.XYs, len(data))
	for i := range pts {
		pts[i].X = f.LengthKm * float64(i) / float64(len(data)-1)
		pts[i].Y = data[i]
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = color.RGBA{B: 255, A: 255}
	p.Add(line, plotter.NewGrid())

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
