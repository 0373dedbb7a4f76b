package tofudrf

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
)

var _ plot.Ticker = PreciseTicks{}

// PreciseTicks places labelled major ticks on round multiples of the axis
// range and unlabelled minor ticks between them.
type PreciseTicks struct {
	NSuggestedTicks int
}

func (t PreciseTicks) Ticks(min, max float64) []plot.Tick {
	if t.NSuggestedTicks < 2 {
		t.NSuggestedTicks = 4
	}
	if max <= min {
		return []plot.Tick{{Value: min, Label: formatFloatTick(min, -1)}}
	}

	tens := math.Pow10(int(math.Floor(math.Log10(max - min))))
	n := (max - min) / tens
	for n < float64(t.NSuggestedTicks)-1 {
		tens /= 10
		n = (max - min) / tens
	}

	majorMult := int(n / float64(t.NSuggestedTicks-1))
	switch majorMult {
	case 7:
		majorMult = 6
	case 9:
		majorMult = 8
	}
	majorDelta := float64(majorMult) * tens

	minorDelta := majorDelta / 2
	switch majorMult {
	case 3, 6:
		minorDelta = majorDelta / 3
	case 5:
		minorDelta = majorDelta / 5
	}

	var (
		ticks  []plot.Tick
		majors = make(map[float64]bool)
		prec   = int(math.Max(0, 1-math.Floor(math.Log10(minorDelta))))
	)
	for i := math.Ceil(min / majorDelta); i*majorDelta <= max; i++ {
		v := round(i*majorDelta, prec)
		majors[v] = true
		ticks = append(ticks, plot.Tick{Value: v, Label: formatFloatTick(v, -1)})
	}

	for i := math.Ceil(min / minorDelta); i*minorDelta <= max; i++ {
		v := round(i*minorDelta, prec)
		if !majors[v] {
			ticks = append(ticks, plot.Tick{Value: v})
		}
	}
	return ticks
}

func round(x float64, prec int) float64 {
	if x == 0 {
		// Make sure zero is returned
		// without the negative bit set.
		return 0
	}
	if prec >= 0 && x == math.Trunc(x) {
		return x
	}
	pow := math.Pow10(prec)
	intermed := x * pow
	if math.IsInf(intermed, 0) {
		return x
	}
	if x < 0 {
		x = math.Ceil(intermed - 0.5)
	} else {
		x = math.Floor(intermed + 0.5)
	}
	if x == 0 {
		return 0
	}
	return x / pow
}

func formatFloatTick(v float64, prec int) string {
	return strconv.FormatFloat(v, 'g', prec, 64)
}
