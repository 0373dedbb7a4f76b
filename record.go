package tofudrf

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"
)

// Record is the persisted form of a Result. Matrix is energy-major: one
// inner list of time-bin counts per energy bin.
type Record struct {
	Matrix [][]float64 `json:"matrix"`
	X      []float64   `json:"x"`
	Y      []float64   `json:"y"`
	XUnit  string      `json:"x_unit"`
	YUnit  string      `json:"y_unit"`
	Name   string      `json:"name"`
	Info   string      `json:"info"`
}

// NewRecord transposes r into its persisted layout.
func NewRecord(r *Result) *Record {
	_, nc := r.Matrix.Dims()
	rec := &Record{
		Matrix: make([][]float64, nc),
		X:      append([]float64(nil), r.Energy.Centers...),
		Y:      append([]float64(nil), r.Time.Centers...),
		XUnit:  "keV",
		YUnit:  "ns",
		Name:   r.Name,
		Info:   r.Info,
	}
	for j := range rec.Matrix {
		rec.Matrix[j] = mat.Col(nil, j, r.Matrix)
	}
	return rec
}

// Result rebuilds the [time, energy] matrix from the record. Axis edges are
// reconstructed only for evenly spaced centers; other axes carry centers
// only.
func (rec *Record) Result() (*Result, error) {
	if len(rec.X) == 0 || len(rec.Y) == 0 {
		return nil, errors.New("record has an empty axis")
	}
	if len(rec.Matrix) != len(rec.X) {
		return nil, fmt.Errorf("record has %d energy columns and %d energies", len(rec.Matrix), len(rec.X))
	}
	m := mat.NewDense(len(rec.Y), len(rec.X), nil)
	for j, col := range rec.Matrix {
		if len(col) != len(rec.Y) {
			return nil, fmt.Errorf("energy column %d has %d time bins, want %d", j, len(col), len(rec.Y))
		}
		m.SetCol(j, col)
	}
	return &Result{
		Matrix: m,
		Energy: binsFromCenters(rec.X),
		Time:   binsFromCenters(rec.Y),
		Name:   rec.Name,
		Info:   rec.Info,
	}, nil
}

func binsFromCenters(centers []float64) Bins {
	b := Bins{Centers: append([]float64(nil), centers...)}
	if len(centers) < 2 {
		return b
	}
	step := (centers[len(centers)-1] - centers[0]) / float64(len(centers)-1)
	if step <= 0 {
		return b
	}
	for i := 1; i < len(centers); i++ {
		if math.Abs(centers[i]-centers[i-1]-step) > 1e-6*step {
			return b
		}
	}
	b.Edges = make([]float64, len(centers)+1)
	for i := range b.Edges {
		b.Edges[i] = centers[0] - step/2 + float64(i)*step
	}
	return b
}

// WriteRecord writes rec as JSON to path. Unless force is set, an existing
// file is left untouched and an *OutputConflictError is returned.
func WriteRecord(path string, rec *Record, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return &OutputConflictError{Path: path}
		}
		return fmt.Errorf("could not create %q: %w", path, err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(rec); err != nil {
		return fmt.Errorf("could not encode record to %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("could not close %q: %w", path, err)
	}
	return nil
}

// ReadRecord reads a record written by WriteRecord.
func ReadRecord(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("could not decode record %q: %w", path, err)
	}
	return &rec, nil
}
