package tofudrf

import (
	"errors"
	"fmt"
	"image/color"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

var projectionColors = []color.RGBA{
	{A: 255},
	{G: 255, A: 255},
	{B: 255, A: 255},
	{R: 255, B: 127, G: 127, A: 255},
}

// Projection returns the flight-time spectrum of the energy bin holding
// energy as a histogram over the record's time bins. On records holding
// scattered energies, energy must match one of them.
func Projection(rec *Record, energy float64) (*hbook.H1D, error) {
	res, err := rec.Result()
	if err != nil {
		return nil, err
	}
	if res.Time.Len() < 2 {
		return nil, fmt.Errorf("projection needs at least 2 time bins, got %d", res.Time.Len())
	}
	if res.Time.Edges == nil {
		return nil, errors.New("projection needs evenly spaced time bins")
	}
	j := res.Energy.Index(energy)
	if j < 0 {
		return nil, fmt.Errorf("energy %g %s is outside the response", energy, rec.XUnit)
	}

	h := hbook.NewH1DFromEdges(res.Time.Edges)
	h.Annotation()["name"] = fmt.Sprintf("%g %s", res.Energy.Centers[j], rec.XUnit)
	for i, t := range res.Time.Centers {
		if w := res.Matrix.At(i, j); w != 0 {
			h.Fill(t, w)
		}
	}
	return h, nil
}

// RenderProjection overlays the flight-time spectra of the given energies.
// The output format follows the file extension.
func RenderProjection(rec *Record, energies []float64, title, path string) error {
	if len(energies) == 0 {
		return errors.New("no energy selected for projection")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = fmt.Sprintf("t_TOF (%s)", rec.YUnit)
	p.Y.Label.Text = "counts"
	p.X.Tick.Marker = PreciseTicks{NSuggestedTicks: 5}
	p.Y.Tick.Marker = PreciseTicks{NSuggestedTicks: 5}

	for i, energy := range energies {
		hist, err := Projection(rec, energy)
		if err != nil {
			return err
		}

		h := hplot.NewH1D(hist)
		h.FillColor = nil
		h.LineStyle.Color = projectionColors[i%len(projectionColors)]
		h.Infos.Style = hplot.HInfoNone
		if len(energies) == 1 {
			h.Infos.Style = hplot.HInfoSummary
		}

		p.Add(h)
		p.Legend.Add(hist.Name(), h)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("could not save %q: %w", path, err)
	}
	return nil
}
