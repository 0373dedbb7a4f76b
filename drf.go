package tofudrf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Options selects how events are filtered.
type Options struct {
	KinematicCuts bool
	LightYield    bool
	// Workers bounds the number of energy columns computed concurrently.
	// Values below 2 compute the columns sequentially.
	Workers int
}

// Driver computes detector response functions.
type Driver struct {
	Events     EventSource
	Thresholds ThresholdSource
	Logger     *slog.Logger
}

func (d *Driver) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// Compute fills the [time, energy] response matrix. Thresholds are loaded
// once; every column is then computed independently into a private buffer
// and merged into the matrix when all columns are done.
//
// The context is checked between energy bins. Any error aborts the whole
// run and no partial result is returned. A run whose columns all completed
// is returned even if the context was canceled afterwards.
func (d *Driver) Compute(ctx context.Context, energies, times Bins, opts Options) (*Result, error) {
	if energies.Len() == 0 || times.Len() == 0 {
		return nil, fmt.Errorf("empty axis (%d energies, %d times)", energies.Len(), times.Len())
	}

	thr, err := d.Thresholds.Thresholds(opts.LightYield)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	log := d.logger()
	cols := make([][]float64, energies.Len())

	grp, gctx := errgroup.WithContext(ctx)
	if opts.Workers > 1 {
		grp.SetLimit(opts.Workers)
	} else {
		grp.SetLimit(1)
	}
	for j, energy := range energies.Centers {
		if gctx.Err() != nil {
			break
		}
		j, energy := j, energy
		grp.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			log.Info("Processing", "energy_keV", energy)
			col := make([]float64, times.Len())
			if err := d.ComputeColumn(energy, times, thr, opts, col); err != nil {
				return err
			}
			cols[j] = col
			return nil
		})
	}
	err = grp.Wait()
	if slices.ContainsFunc(cols, func(col []float64) bool { return col == nil }) {
		if cerr := ctx.Err(); cerr != nil {
			return nil, fmt.Errorf("drf computation interrupted: %w", cerr)
		}
		if err == nil {
			err = errors.New("drf computation incomplete")
		}
		return nil, err
	}

	m := mat.NewDense(times.Len(), energies.Len(), nil)
	for j, col := range cols {
		m.SetCol(j, col)
	}

	log.Info("DRF computed",
		"energies", energies.Len(),
		"time_bins", times.Len(),
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)
	return &Result{Matrix: m, Energy: energies, Time: times}, nil
}

// ComputeColumn adds the flight-time distribution of every S1/S2 channel
// pair at the given energy into column, which has one entry per time bin.
func (d *Driver) ComputeColumn(energy float64, times Bins, thr Thresholds, opts Options, column []float64) error {
	log := d.logger()
	for s1 := 0; s1 < NumSourceChannels; s1++ {
		evts, err := d.Events.ReadEvents(energy, s1, opts.LightYield)
		if err != nil {
			return err
		}
		if err := evts.Validate(); err != nil {
			return &DataUnavailableError{Energy: energy, Channel: s1, Err: err}
		}

		kin := AllTrue(evts.Len())
		if opts.KinematicCuts {
			kin = MaskKinematic(evts.SourceKinematic, evts.DetectorKinematic)
		}
		mask := MaskByThreshold(evts.SourceEnergy, thr.Source[s1]).And(kin)
		evts = evts.Select(mask)

		log.Debug("S1 events selected",
			"energy_keV", energy,
			"s1", s1+1,
			"selected", evts.Len(),
		)

		for s2 := 0; s2 < NumDetectorChannels; s2++ {
			m := MaskByChannel(evts.DetectorChannel, s2).
				And(MaskByThreshold(evts.DetectorEnergy, thr.Detector[s2]))
			Accumulate(evts.Select(m).FlightTime, times.Edges, column)
		}
	}
	return nil
}
