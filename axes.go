package tofudrf

import (
	"errors"
	"fmt"
	"math"
)

// Bins is an immutable axis. When Edges is set the bins are uniformly
// spaced, edges are offset from the centers by half a step and
// len(Edges) == len(Centers)+1. Axes with gaps between centers, such as a
// Subset of scattered energies, carry centers only.
type Bins struct {
	Centers []float64
	Edges   []float64
}

// AxisSpec defines a uniform axis by its first and last bin center.
type AxisSpec struct {
	First float64 `yaml:"first"`
	Last  float64 `yaml:"last"`
	Step  float64 `yaml:"step"`
}

var (
	// DefaultEnergyAxis covers incident neutron energies in keV.
	DefaultEnergyAxis = AxisSpec{First: 1000, Last: 18000, Step: 50}
	// DefaultTimeAxis covers S1-S2 flight times in ns.
	DefaultTimeAxis = AxisSpec{First: 0, Last: 199.6, Step: 0.4}
)

// NewBins builds the axis described by first, last and step. Centers are
// computed as first+i*step rather than by repeated addition.
func NewBins(first, last, step float64) (Bins, error) {
	switch {
	case step <= 0 || math.IsNaN(step) || math.IsInf(step, 0):
		return Bins{}, errors.New("axis step must be positive and finite")
	case last < first:
		return Bins{}, errors.New("axis last center precedes first")
	}

	n := int(math.Round((last-first)/step)) + 1
	b := Bins{
		Centers: make([]float64, n),
		Edges:   make([]float64, n+1),
	}
	for i := range b.Centers {
		b.Centers[i] = first + float64(i)*step
	}
	lo := first - step/2
	for i := range b.Edges {
		b.Edges[i] = lo + float64(i)*step
	}
	return b, nil
}

// Bins builds the axis s describes.
func (s AxisSpec) Bins() (Bins, error) {
	return NewBins(s.First, s.Last, s.Step)
}

// Len returns the number of bins.
func (b Bins) Len() int { return len(b.Centers) }

// Index returns the bin containing v, or -1 when v is off the axis. On an
// axis without edges v must match a center.
func (b Bins) Index(v float64) int {
	if len(b.Edges) < 2 {
		return b.centerIndex(v)
	}
	if v < b.Edges[0] || v >= b.Edges[len(b.Edges)-1] {
		return -1
	}
	step := b.Edges[1] - b.Edges[0]
	i := int(math.Floor((v - b.Edges[0]) / step))
	if i >= b.Len() {
		i = b.Len() - 1
	}
	return i
}

// centerTolerance is the relative distance within which a value matches a
// bin center.
const centerTolerance = 1e-9

func (b Bins) centerIndex(v float64) int {
	for i, c := range b.Centers {
		if math.Abs(c-v) <= centerTolerance*math.Max(1, math.Abs(c)) {
			return i
		}
	}
	return -1
}

// Subset returns the axis restricted to the bins holding the given values.
// The subset keeps edges only when the selected bins are consecutive.
func (b Bins) Subset(centers []float64) (Bins, error) {
	if len(centers) == 0 {
		return b, nil
	}
	out := Bins{Centers: make([]float64, 0, len(centers))}
	first, contiguous := -1, len(b.Edges) > 1
	for k, c := range centers {
		i := b.Index(c)
		if i < 0 {
			return Bins{}, fmt.Errorf("energy %g not on the axis", c)
		}
		if k == 0 {
			first = i
		} else if i != first+k {
			contiguous = false
		}
		out.Centers = append(out.Centers, b.Centers[i])
	}
	if contiguous {
		out.Edges = append([]float64(nil), b.Edges[first:first+len(out.Centers)+1]...)
	}
	return out, nil
}
