package tofudrf

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Result is a computed detector response function: a [time, energy] matrix
// of counts with its axes and provenance.
type Result struct {
	Matrix *mat.Dense
	Energy Bins // columns, keV
	Time   Bins // rows, ns
	Name   string
	Info   string
}

// ColumnSum returns the total number of counts for the energy column j.
func (r *Result) ColumnSum(j int) float64 {
	return floats.Sum(mat.Col(nil, j, r.Matrix))
}

// DefaultName is the record name used when none is given.
const DefaultName = "TOFu DRF"

// DefaultInfo describes how a response was generated.
func DefaultInfo(opts Options) string {
	cuts := "No kinematic cuts are applied."
	if opts.KinematicCuts {
		cuts = "Kinematic cuts are applied with scaling factors a=1, b=1, c=1."
	}
	units := "Units of deposited energy used when generating DRF."
	if opts.LightYield {
		units = "Units of light yield used when generating DRF."
	}
	return fmt.Sprintf("DRF for TOFu, individual thresholds and energy dependent time "+
		"resolution applied to each S1 and S2. %s %s", cuts, units)
}

// DefaultFileName returns tofu_drf[_kin][_ly].json.
func DefaultFileName(opts Options) string {
	name := "tofu_drf"
	if opts.KinematicCuts {
		name += "_kin"
	}
	if opts.LightYield {
		name += "_ly"
	}
	return name + ".json"
}
