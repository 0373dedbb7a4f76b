package rootio

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rtree"

	"github.com/decibelcooper/tofudrf"
)

type event struct {
	tof          float64
	s1ly, s2ly   float32
	s1, s2       float32
	s2c          int32
	s1kin, s2kin int32
}

// writeEvents writes a simulation-like tree. Branches listed in skip are
// left out.
func writeEvents(tb testing.TB, fname string, evts []event, skip ...string) {
	tb.Helper()

	f, err := groot.Create(fname)
	if err != nil {
		tb.Fatalf("could not create %q: %v", fname, err)
	}
	defer f.Close()

	var e event
	all := []rtree.WriteVar{
		{Name: BranchTime, Value: &e.tof},
		{Name: BranchS1EnergyLY, Value: &e.s1ly},
		{Name: BranchS2EnergyLY, Value: &e.s2ly},
		{Name: BranchS1Energy, Value: &e.s1},
		{Name: BranchS2Energy, Value: &e.s2},
		{Name: BranchS2Channel, Value: &e.s2c},
		{Name: BranchS1Kinematic, Value: &e.s1kin},
		{Name: BranchS2Kinematic, Value: &e.s2kin},
	}
	var wvars []rtree.WriteVar
	for _, wv := range all {
		if !contains(skip, wv.Name) {
			wvars = append(wvars, wv)
		}
	}

	w, err := rtree.NewWriter(f, DefaultTree, wvars)
	if err != nil {
		tb.Fatalf("could not create tree writer: %v", err)
	}
	for _, evt := range evts {
		e = evt
		if _, err := w.Write(); err != nil {
			tb.Fatalf("could not write event: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		tb.Fatalf("could not close tree writer: %v", err)
	}
	if err := f.Close(); err != nil {
		tb.Fatalf("could not close %q: %v", fname, err)
	}
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func TestFileName(t *testing.T) {
	for _, tc := range []struct {
		energy  float64
		channel int
		want    string
	}{
		{1000, 0, "1000keV_S1%3A1_ToFuMatrix.root"},
		{18000, 4, "18000keV_S1%3A5_ToFuMatrix.root"},
		{2549.9999, 2, "2550keV_S1%3A3_ToFuMatrix.root"},
	} {
		if got := FileName(tc.energy, tc.channel); got != tc.want {
			t.Errorf("FileName(%v, %d) = %q, want %q", tc.energy, tc.channel, got, tc.want)
		}
	}
}

func TestReadEvents(t *testing.T) {
	dir := t.TempDir()
	evts := []event{
		{tof: 25, s1ly: 150, s2ly: 60, s1: 300, s2: 120, s2c: 0, s1kin: 1, s2kin: 1},
		{tof: 50, s1ly: 100, s2ly: 50, s1: 200, s2: 100, s2c: 7, s1kin: 0, s2kin: 1},
		{tof: 75, s1ly: 90, s2ly: 80, s1: 180, s2: 160, s2c: 31, s1kin: 1, s2kin: 2},
	}
	writeEvents(t, filepath.Join(dir, FileName(1000, 2)), evts)

	r := NewReader(dir)
	for _, ly := range []bool{true, false} {
		got, err := r.ReadEvents(1000, 2, ly)
		if err != nil {
			t.Fatalf("light yield %t: %v", ly, err)
		}
		if err := got.Validate(); err != nil {
			t.Fatal(err)
		}
		if got.Len() != len(evts) {
			t.Fatalf("got %d events, want %d", got.Len(), len(evts))
		}
		for i, e := range evts {
			s1, s2 := float64(e.s1), float64(e.s2)
			if ly {
				s1, s2 = float64(e.s1ly), float64(e.s2ly)
			}
			if math.Abs(got.FlightTime[i]-e.tof*tofudrf.TimeScale) > 1e-12 {
				t.Errorf("event %d: flight time %v, want %v", i, got.FlightTime[i], e.tof*tofudrf.TimeScale)
			}
			if got.SourceEnergy[i] != s1 || got.DetectorEnergy[i] != s2 {
				t.Errorf("event %d (ly=%t): energies %v/%v, want %v/%v", i, ly, got.SourceEnergy[i], got.DetectorEnergy[i], s1, s2)
			}
			if got.DetectorChannel[i] != int(e.s2c) ||
				got.SourceKinematic[i] != int(e.s1kin) ||
				got.DetectorKinematic[i] != int(e.s2kin) {
				t.Errorf("event %d: channel/flags %d/%d/%d", i, got.DetectorChannel[i], got.SourceKinematic[i], got.DetectorKinematic[i])
			}
		}
	}
}

func TestReadEventsUnavailable(t *testing.T) {
	dir := t.TempDir()
	writeEvents(t, filepath.Join(dir, FileName(1000, 0)),
		[]event{{tof: 1, s1kin: 1, s2kin: 1}}, BranchS2Kinematic)

	r := NewReader(dir)

	_, err := r.ReadEvents(1000, 0, true)
	var dataErr *tofudrf.DataUnavailableError
	if !errors.As(err, &dataErr) {
		t.Fatalf("missing branch: got %v, want a *DataUnavailableError", err)
	}
	if dataErr.Field != BranchS2Kinematic {
		t.Errorf("missing field %q, want %q", dataErr.Field, BranchS2Kinematic)
	}

	_, err = r.ReadEvents(1050, 0, true)
	if !errors.As(err, &dataErr) {
		t.Fatalf("missing file: got %v, want a *DataUnavailableError", err)
	}
	if dataErr.Energy != 1050 || !strings.HasSuffix(dataErr.Path, FileName(1050, 0)) {
		t.Errorf("wrong error %+v", dataErr)
	}

	r.Tree = "tree2D"
	if _, err := r.ReadEvents(1000, 0, true); !errors.As(err, &dataErr) {
		t.Fatalf("missing tree: got %v, want a *DataUnavailableError", err)
	}
}

func TestDriverFromFiles(t *testing.T) {
	dir := t.TempDir()
	const energy = 1000

	// Only S1:1 has events passing its threshold (100 keVee).
	writeEvents(t, filepath.Join(dir, FileName(energy, 0)), []event{
		{tof: 25, s1ly: 150, s2ly: 60, s2c: 0, s1kin: 1, s2kin: 1},
		{tof: 50, s1ly: 100, s2ly: 50, s2c: 0, s1kin: 1, s2kin: 1},
		{tof: 75, s1ly: 90, s2ly: 80, s2c: 0, s1kin: 1, s2kin: 1},
	})
	for s1 := 1; s1 < tofudrf.NumSourceChannels; s1++ {
		writeEvents(t, filepath.Join(dir, FileName(energy, s1)), []event{
			{tof: 100, s1ly: 1, s2ly: 500, s2c: 0, s1kin: 1, s2kin: 1},
		})
	}

	var sb strings.Builder
	for i := 0; i < tofudrf.NumSourceChannels+tofudrf.NumDetectorChannels; i++ {
		v := 0.05
		if i < tofudrf.NumSourceChannels {
			v = 0.1
		}
		fmt.Fprintf(&sb, "%d %g\n", i, v)
	}
	thrFile := filepath.Join(dir, "thresholds_MeVee.txt")
	if err := os.WriteFile(thrFile, []byte(sb.String()), 0o644); err != nil {
		t.Fatal(err)
	}

	energies, _ := tofudrf.NewBins(energy, energy, 50)
	times, _ := tofudrf.DefaultTimeAxis.Bins()
	drv := &tofudrf.Driver{
		Events:     NewReader(dir),
		Thresholds: tofudrf.ThresholdFiles{MeVee: thrFile},
	}
	res, err := drv.Compute(context.Background(), energies, times,
		tofudrf.Options{KinematicCuts: true, LightYield: true})
	if err != nil {
		t.Fatal(err)
	}

	if got := res.ColumnSum(0); got != 2 {
		t.Fatalf("column sum %v, want 2", got)
	}
	for _, tof := range []float64{10, 20} {
		if got := res.Matrix.At(times.Index(tof), 0); got != 1 {
			t.Errorf("%v ns: got %v counts, want 1", tof, got)
		}
	}
}
