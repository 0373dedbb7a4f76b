package tofudrf

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ThresholdScale converts thresholds from MeV(ee) to keV(ee).
const ThresholdScale = 1000

// Thresholds holds the per-channel energy thresholds in keV(ee).
type Thresholds struct {
	Source   [NumSourceChannels]float64
	Detector [NumDetectorChannels]float64
}

// ThresholdSource provides thresholds in light-yield (keVee) or raw (keV) units.
type ThresholdSource interface {
	Thresholds(lightYield bool) (Thresholds, error)
}

// ThresholdFiles selects between the two threshold tables.
type ThresholdFiles struct {
	MeVee string `yaml:"mevee"`
	MeV   string `yaml:"mev"`
}

// Thresholds loads the table matching lightYield.
func (f ThresholdFiles) Thresholds(lightYield bool) (Thresholds, error) {
	if lightYield {
		return LoadThresholds(f.MeVee)
	}
	return LoadThresholds(f.MeV)
}

// ThresholdFunc adapts a function to ThresholdSource.
type ThresholdFunc func(lightYield bool) (Thresholds, error)

func (fn ThresholdFunc) Thresholds(lightYield bool) (Thresholds, error) { return fn(lightYield) }

// LoadThresholds reads a whitespace-delimited table whose second column is
// the threshold in MeV(ee). The first 5 rows are the S1 channels and the
// following 32 rows the S2 channels. Blank lines and lines starting with
// '#' are skipped; rows past the 37th are ignored.
func LoadThresholds(path string) (Thresholds, error) {
	var thr Thresholds

	f, err := os.Open(path)
	if err != nil {
		return thr, &ConfigError{Path: path, Err: err}
	}
	defer f.Close()

	const nrows = NumSourceChannels + NumDetectorChannels
	values := make([]float64, 0, nrows)

	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() && len(values) < nrows {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		cols := strings.Fields(text)
		if len(cols) < 2 {
			return thr, &ConfigError{Path: path, Err: fmt.Errorf("line %d: expected 2 columns, got %d", line, len(cols))}
		}
		v, err := strconv.ParseFloat(cols[1], 64)
		if err != nil {
			return thr, &ConfigError{Path: path, Err: fmt.Errorf("line %d: %w", line, err)}
		}
		values = append(values, v*ThresholdScale)
	}
	if err := sc.Err(); err != nil {
		return thr, &ConfigError{Path: path, Err: err}
	}
	if len(values) < nrows {
		return thr, &ConfigError{Path: path, Err: fmt.Errorf("expected %d thresholds, found %d", nrows, len(values))}
	}

	copy(thr.Source[:], values[:NumSourceChannels])
	copy(thr.Detector[:], values[NumSourceChannels:])
	return thr, nil
}
