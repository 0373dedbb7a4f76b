package tofudrf

import (
	"reflect"
	"testing"
)

func TestFloatArrayFlags(t *testing.T) {
	f := FloatArrayFlags{Array: []float64{2500, 14000}}
	if f.Changed() {
		t.Fatal("defaults reported as changed")
	}

	for _, v := range []string{"1000", "1050, 1100"} {
		if err := f.Set(v); err != nil {
			t.Fatal(err)
		}
	}
	if want := []float64{1000, 1050, 1100}; !reflect.DeepEqual(f.Array, want) {
		t.Fatalf("got %v, want %v", f.Array, want)
	}
	if !f.Changed() || f.Type() != "floats" {
		t.Errorf("changed=%t type=%q", f.Changed(), f.Type())
	}
	if err := f.Set("keV"); err == nil {
		t.Fatal("expected a parse error")
	}
}
