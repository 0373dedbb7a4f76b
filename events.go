package tofudrf

import "fmt"

const (
	// NumSourceChannels is the number of S1 (scatter) detectors.
	NumSourceChannels = 5
	// NumDetectorChannels is the number of S2 (analyzer) detectors.
	NumDetectorChannels = 32

	// TimeScale converts the simulated time-of-flight field to ns.
	TimeScale = 0.4
	// KinematicAccepted is the flag value marking an event inside the
	// kinematic cut. Any other value is treated as rejected.
	KinematicAccepted = 1
)

// EventRecord holds the simulated events of one (energy, S1 channel) file as
// parallel arrays. Row i of every field describes the same event.
type EventRecord struct {
	FlightTime        []float64 // ns
	SourceEnergy      []float64 // keV(ee)
	DetectorEnergy    []float64 // keV(ee)
	DetectorChannel   []int     // S2 index, 0..31
	SourceKinematic   []int
	DetectorKinematic []int
}

// Len returns the number of events.
func (r *EventRecord) Len() int { return len(r.FlightTime) }

// Validate checks that all fields have the same length.
func (r *EventRecord) Validate() error {
	n := r.Len()
	for _, f := range []struct {
		name string
		len  int
	}{
		{"source energy", len(r.SourceEnergy)},
		{"detector energy", len(r.DetectorEnergy)},
		{"detector channel", len(r.DetectorChannel)},
		{"source kinematic flag", len(r.SourceKinematic)},
		{"detector kinematic flag", len(r.DetectorKinematic)},
	} {
		if f.len != n {
			return fmt.Errorf("%s has %d rows, flight time has %d", f.name, f.len, n)
		}
	}
	return nil
}

// Select returns a new record holding only the rows where m is true. All
// fields are filtered together.
func (r *EventRecord) Select(m Mask) *EventRecord {
	if len(m) != r.Len() {
		panic(fmt.Sprintf("tofudrf: mask length %d does not match record length %d", len(m), r.Len()))
	}

	n := m.Count()
	out := &EventRecord{
		FlightTime:        make([]float64, 0, n),
		SourceEnergy:      make([]float64, 0, n),
		DetectorEnergy:    make([]float64, 0, n),
		DetectorChannel:   make([]int, 0, n),
		SourceKinematic:   make([]int, 0, n),
		DetectorKinematic: make([]int, 0, n),
	}
	for i, keep := range m {
		if !keep {
			continue
		}
		out.FlightTime = append(out.FlightTime, r.FlightTime[i])
		out.SourceEnergy = append(out.SourceEnergy, r.SourceEnergy[i])
		out.DetectorEnergy = append(out.DetectorEnergy, r.DetectorEnergy[i])
		out.DetectorChannel = append(out.DetectorChannel, r.DetectorChannel[i])
		out.SourceKinematic = append(out.SourceKinematic, r.SourceKinematic[i])
		out.DetectorKinematic = append(out.DetectorKinematic, r.DetectorKinematic[i])
	}
	return out
}

// EventSource provides the event record of one (energy, S1 channel) pair.
// lightYield selects the light-yield calibrated energy deposits (keVee)
// instead of the raw ones (keV).
type EventSource interface {
	ReadEvents(energy float64, sourceChannel int, lightYield bool) (*EventRecord, error)
}
