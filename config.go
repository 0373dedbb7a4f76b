package tofudrf

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config describes where a DRF run finds its inputs and how it bins them.
type Config struct {
	DataDir    string         `yaml:"data_dir"`
	Tree       string         `yaml:"tree"`
	Thresholds ThresholdFiles `yaml:"thresholds"`
	Energy     AxisSpec       `yaml:"energy"`
	Time       AxisSpec       `yaml:"time"`
	Workers    int            `yaml:"workers"`
	Name       string         `yaml:"name"`
	OutputDir  string         `yaml:"output_dir"`
}

// DefaultConfig returns the layout used by the TOFu simulation outputs.
func DefaultConfig() *Config {
	return &Config{
		DataDir: "data",
		Tree:    "tree3D",
		Thresholds: ThresholdFiles{
			MeVee: "input_files/thresholds_MeVee.txt",
			MeV:   "input_files/thresholds_MeV.txt",
		},
		Energy:    DefaultEnergyAxis,
		Time:      DefaultTimeAxis,
		Workers:   runtime.GOMAXPROCS(0),
		Name:      DefaultName,
		OutputDir: "output_files",
	}
}

// LoadConfig reads a YAML configuration on top of the defaults. An empty
// path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("could not parse: %w", err)}
	}
	if _, err := cfg.Energy.Bins(); err != nil {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("energy: %w", err)}
	}
	if _, err := cfg.Time.Bins(); err != nil {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("time: %w", err)}
	}
	return cfg, nil
}
