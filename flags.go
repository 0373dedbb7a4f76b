package tofudrf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

var _ pflag.Value = (*FloatArrayFlags)(nil)

// FloatArrayFlags collects repeated or comma-separated float flags, such as
// --energy 2500 --energy 14000,14050. Values given on the command line
// replace the defaults rather than extend them.
type FloatArrayFlags struct {
	Array   []float64
	beenSet bool
}

func (f *FloatArrayFlags) Set(valueStr string) error {
	if !f.beenSet {
		f.beenSet = true
		f.Array = nil
	}

	for _, s := range strings.Split(valueStr, ",") {
		value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return err
		}
		f.Array = append(f.Array, value)
	}
	return nil
}

func (f *FloatArrayFlags) String() string {
	return fmt.Sprint(f.Array)
}

func (f *FloatArrayFlags) Type() string {
	return "floats"
}

// Changed reports whether Set was called.
func (f *FloatArrayFlags) Changed() bool {
	return f.beenSet
}
