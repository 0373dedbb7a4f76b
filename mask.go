package tofudrf

import "fmt"

// Mask selects rows of an EventRecord. Masks are only combined with masks
// built from the same record.
type Mask []bool

// AllTrue returns a mask selecting all n rows.
func AllTrue(n int) Mask {
	m := make(Mask, n)
	for i := range m {
		m[i] = true
	}
	return m
}

// MaskByThreshold selects values at or above threshold.
func MaskByThreshold(values []float64, threshold float64) Mask {
	m := make(Mask, len(values))
	for i, v := range values {
		m[i] = v >= threshold
	}
	return m
}

// MaskByChannel selects rows recorded in the given channel.
func MaskByChannel(ids []int, channel int) Mask {
	m := make(Mask, len(ids))
	for i, id := range ids {
		m[i] = id == channel
	}
	return m
}

// MaskKinematic selects rows where both flags are KinematicAccepted.
func MaskKinematic(a, b []int) Mask {
	if len(a) != len(b) {
		panic(fmt.Sprintf("tofudrf: kinematic flag lengths differ (%d != %d)", len(a), len(b)))
	}
	m := make(Mask, len(a))
	for i := range a {
		m[i] = a[i] == KinematicAccepted && b[i] == KinematicAccepted
	}
	return m
}

// And returns the elementwise conjunction of m and o.
func (m Mask) And(o Mask) Mask {
	if len(m) != len(o) {
		panic(fmt.Sprintf("tofudrf: mask lengths differ (%d != %d)", len(m), len(o)))
	}
	out := make(Mask, len(m))
	for i := range m {
		out[i] = m[i] && o[i]
	}
	return out
}

// Count returns the number of selected rows.
func (m Mask) Count() int {
	n := 0
	for _, v := range m {
		if v {
			n++
		}
	}
	return n
}
