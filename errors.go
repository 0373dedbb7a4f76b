package tofudrf

import "fmt"

// ConfigError reports a missing or malformed threshold file or run configuration.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %q: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// DataUnavailableError reports an event file, or a field within it, that
// could not be read for an (energy, S1 channel) pair.
type DataUnavailableError struct {
	Energy  float64
	Channel int
	Path    string
	Field   string
	Err     error
}

func (e *DataUnavailableError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("events for %g keV S1:%d unavailable: field %q in %q: %v",
			e.Energy, e.Channel+1, e.Field, e.Path, e.Err)
	}
	return fmt.Sprintf("events for %g keV S1:%d unavailable: %q: %v",
		e.Energy, e.Channel+1, e.Path, e.Err)
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

// OutputConflictError is returned when a record would overwrite an existing
// file and force was not requested. The existing file is left untouched.
type OutputConflictError struct {
	Path string
}

func (e *OutputConflictError) Error() string {
	return fmt.Sprintf("%s already exists, not overwritten (use force to replace it)", e.Path)
}
