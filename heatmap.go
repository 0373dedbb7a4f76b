package tofudrf

import (
	"fmt"
	"image/color"
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// HeatmapOptions controls RenderHeatmap.
type HeatmapOptions struct {
	Title string
	// Log colors cells by log10 of their counts; empty cells are left blank.
	Log bool
}

// drfGrid exposes a record as a plotter.GridXYZ with energy along X and
// flight time along Y.
type drfGrid struct {
	rec *Record
	log bool
}

func (g drfGrid) Dims() (int, int) { return len(g.rec.X), len(g.rec.Y) }

func (g drfGrid) X(c int) float64 { return g.rec.X[c] }

func (g drfGrid) Y(r int) float64 { return g.rec.Y[r] }

func (g drfGrid) Z(c, r int) float64 {
	v := g.rec.Matrix[c][r]
	if !g.log {
		return v
	}
	if v <= 0 {
		return math.NaN()
	}
	return math.Log10(v)
}

// zRange returns the smallest and largest finite cell values.
func (g drfGrid) zRange() (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	nc, nr := g.Dims()
	for c := 0; c < nc; c++ {
		for r := 0; r < nr; r++ {
			z := g.Z(c, r)
			if math.IsNaN(z) {
				continue
			}
			min = math.Min(min, z)
			max = math.Max(max, z)
		}
	}
	if math.IsInf(min, 1) {
		return 0, 1
	}
	if max <= min {
		max = min + 1
	}
	return min, max
}

// RenderHeatmap draws rec as a PNG heatmap with a color bar, using the
// record's units for the axis labels.
func RenderHeatmap(rec *Record, opts HeatmapOptions, path string) error {
	if len(rec.X) < 2 || len(rec.Y) < 2 {
		return fmt.Errorf("heatmap needs at least 2x2 bins, got %dx%d", len(rec.X), len(rec.Y))
	}
	if len(rec.Matrix) != len(rec.X) {
		return fmt.Errorf("record has %d energy columns and %d energies", len(rec.Matrix), len(rec.X))
	}
	for j, col := range rec.Matrix {
		if len(col) != len(rec.Y) {
			return fmt.Errorf("energy column %d has %d time bins, want %d", j, len(col), len(rec.Y))
		}
	}

	grid := drfGrid{rec: rec, log: opts.Log}
	zMin, zMax := grid.zRange()

	img := vgimg.New(670, 400)
	dc := draw.New(img)
	dc0 := draw.Crop(dc, 0, -70, 0, 0)
	dc1 := draw.Crop(dc, 620, 0, 0, 0)

	p := plot.New()
	p.Title.Text = opts.Title
	if p.Title.Text == "" {
		p.Title.Text = rec.Name
	}
	p.X.Label.Text = fmt.Sprintf("E (%s)", rec.XUnit)
	p.Y.Label.Text = fmt.Sprintf("t_TOF (%s)", rec.YUnit)
	p.X.Tick.Marker = PreciseTicks{NSuggestedTicks: 5}
	p.Y.Tick.Marker = PreciseTicks{NSuggestedTicks: 5}

	colorMap := moreland.ExtendedBlackBody()
	colorMap.SetMin(zMin)
	colorMap.SetMax(zMax)
	heatMap := plotter.NewHeatMap(grid, colorMap.Palette(1000))
	heatMap.Min = zMin
	heatMap.Max = zMax
	heatMap.NaN = color.Transparent
	p.Add(heatMap)

	p.Draw(dc0)

	p = plot.New()
	colorBar := &plotter.ColorBar{ColorMap: colorMap}
	colorBar.Vertical = true
	p.Add(colorBar)
	p.HideX()
	p.Y.Padding = 0
	if opts.Log {
		p.Y.Label.Text = "log10(counts)"
	}

	p.Draw(dc1)

	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %q: %w", path, err)
	}
	defer w.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("could not write %q: %w", path, err)
	}
	return w.Close()
}
