// Package rootio reads simulated TOFu events from ROOT trees.
package rootio

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rtree"

	"github.com/decibelcooper/tofudrf"
)

// DefaultTree is the name of the event tree in the simulation files.
const DefaultTree = "tree3D"

// Branch names in the simulation trees.
const (
	BranchTime        = "timeWres"
	BranchS1EnergyLY  = "S1EdMeVee"
	BranchS2EnergyLY  = "S2EdMeVee"
	BranchS1Energy    = "S1Ed"
	BranchS2Energy    = "S2Ed"
	BranchS2Channel   = "S2c"
	BranchS1Kinematic = "S1kin"
	BranchS2Kinematic = "S2kin"
)

// FileName returns the simulation file name for an incident energy (keV)
// and a 0-based S1 channel.
func FileName(energy float64, sourceChannel int) string {
	return fmt.Sprintf("%dkeV_S1%%3A%d_ToFuMatrix.root", int(math.Round(energy)), sourceChannel+1)
}

// Reader reads event files from Dir. It implements tofudrf.EventSource.
type Reader struct {
	Dir  string
	Tree string
}

var _ tofudrf.EventSource = (*Reader)(nil)

// NewReader returns a reader for the files under dir.
func NewReader(dir string) *Reader {
	return &Reader{Dir: dir, Tree: DefaultTree}
}

// ReadEvents loads the event record for (energy, sourceChannel). Flight
// times are scaled to ns; deposited energies are stored in keV(ee) and
// kept as is.
func (r *Reader) ReadEvents(energy float64, sourceChannel int, lightYield bool) (*tofudrf.EventRecord, error) {
	fname := filepath.Join(r.Dir, FileName(energy, sourceChannel))
	unavailable := func(field string, err error) error {
		return &tofudrf.DataUnavailableError{
			Energy:  energy,
			Channel: sourceChannel,
			Path:    fname,
			Field:   field,
			Err:     err,
		}
	}

	f, err := groot.Open(fname)
	if err != nil {
		return nil, unavailable("", err)
	}
	defer f.Close()

	treeName := r.Tree
	if treeName == "" {
		treeName = DefaultTree
	}
	obj, err := f.Get(treeName)
	if err != nil {
		return nil, unavailable(treeName, err)
	}
	tree, ok := obj.(rtree.Tree)
	if !ok {
		return nil, unavailable(treeName, fmt.Errorf("object is a %T, not a tree", obj))
	}

	s1Energy, s2Energy := BranchS1Energy, BranchS2Energy
	if lightYield {
		s1Energy, s2Energy = BranchS1EnergyLY, BranchS2EnergyLY
	}
	names := []string{BranchTime, s1Energy, s2Energy, BranchS2Channel, BranchS1Kinematic, BranchS2Kinematic}

	rvars, err := readVars(tree, names)
	if err != nil {
		var missing *missingBranchError
		if errors.As(err, &missing) {
			return nil, unavailable(missing.name, err)
		}
		return nil, unavailable("", err)
	}

	n := tree.Entries()
	cols := make([][]float64, len(names))
	for i := range cols {
		cols[i] = make([]float64, 0, n)
	}

	rd, err := rtree.NewReader(tree, rvars)
	if err != nil {
		return nil, unavailable("", fmt.Errorf("could not create tree reader: %w", err))
	}
	defer rd.Close()

	err = rd.Read(func(rtree.RCtx) error {
		for i, rv := range rvars {
			v, err := toFloat(rv.Value)
			if err != nil {
				return fmt.Errorf("branch %q: %w", rv.Name, err)
			}
			cols[i] = append(cols[i], v)
		}
		return nil
	})
	if err != nil {
		return nil, unavailable("", fmt.Errorf("could not read tree: %w", err))
	}

	evts := &tofudrf.EventRecord{
		FlightTime:        scale(cols[0], tofudrf.TimeScale),
		SourceEnergy:      cols[1],
		DetectorEnergy:    cols[2],
		DetectorChannel:   toInts(cols[3]),
		SourceKinematic:   toInts(cols[4]),
		DetectorKinematic: toInts(cols[5]),
	}
	return evts, nil
}

type missingBranchError struct {
	name string
}

func (e *missingBranchError) Error() string {
	return fmt.Sprintf("no branch %q", e.name)
}

// readVars returns read variables for the named branches, in order, with
// Go types matching the branches' storage types.
func readVars(tree rtree.Tree, names []string) ([]rtree.ReadVar, error) {
	all := rtree.NewReadVars(tree)
	out := make([]rtree.ReadVar, 0, len(names))
	for _, name := range names {
		if tree.Branch(name) == nil {
			return nil, &missingBranchError{name: name}
		}
		found := false
		for _, rv := range all {
			if rv.Name == name {
				out = append(out, rv)
				found = true
				break
			}
		}
		if !found {
			return nil, &missingBranchError{name: name}
		}
	}
	return out, nil
}

func toFloat(ptr interface{}) (float64, error) {
	switch v := ptr.(type) {
	case *float64:
		return *v, nil
	case *float32:
		return float64(*v), nil
	case *int8:
		return float64(*v), nil
	case *int16:
		return float64(*v), nil
	case *int32:
		return float64(*v), nil
	case *int64:
		return float64(*v), nil
	case *uint8:
		return float64(*v), nil
	case *uint16:
		return float64(*v), nil
	case *uint32:
		return float64(*v), nil
	case *uint64:
		return float64(*v), nil
	case *bool:
		if *v {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("unsupported scalar type %T", ptr)
}

func scale(vs []float64, f float64) []float64 {
	for i := range vs {
		vs[i] *= f
	}
	return vs
}

// toInts converts channel ids and flags. Non-integral values map to -1,
// which matches no channel and is not an accepted kinematic flag.
func toInts(vs []float64) []int {
	out := make([]int, len(vs))
	for i, v := range vs {
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			out[i] = -1
			continue
		}
		out[i] = int(v)
	}
	return out
}
