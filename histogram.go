package tofudrf

import (
	"fmt"
	"math"
	"sort"
)

// Accumulate histograms times over edges and adds the counts to column.
//
// Bin i covers [edges[i], edges[i+1]) except the last one, which also
// includes its upper edge. Values outside [edges[0], edges[len-1]] and NaN
// are dropped.
func Accumulate(times, edges, column []float64) {
	if len(edges) < 2 || len(column) != len(edges)-1 {
		panic(fmt.Sprintf("tofudrf: %d edges do not match a column of %d bins", len(edges), len(column)))
	}

	var (
		lo   = edges[0]
		hi   = edges[len(edges)-1]
		last = len(column) - 1
	)
	for _, t := range times {
		if math.IsNaN(t) || t < lo || t > hi {
			continue
		}
		i := sort.SearchFloat64s(edges, t)
		if i == len(edges) || edges[i] != t {
			i--
		}
		if i > last {
			i = last
		}
		column[i]++
	}
}
