// Command tofu_drf computes the TOFu detector response function from
// simulated event files and writes it as a JSON record.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/decibelcooper/tofudrf"
	"github.com/decibelcooper/tofudrf/rootio"
)

var (
	cfgFile       string
	kinematicCuts bool
	lightYield    bool
	force         bool
	output        string
	workers       int
	name          string
	info          string
	profileMode   string
	verbose       bool
	energies      tofudrf.FloatArrayFlags
)

var rootCmd = &cobra.Command{
	Use:   "tofu_drf",
	Short: "Compute the TOFu detector response function",
	Long: `Builds the [flight time, incident energy] response matrix of TOFu from the
simulated event files of every (energy, S1) pair. S1 and S2 energy thresholds
are applied per channel, and kinematic cuts optionally. The result is written
as a JSON record for plot_drf and drf_projection.`,
	Example: `  # Kinematic cuts, light yield units
  tofu_drf --kin --light-yield

  # Only a few energies, replacing an existing file
  tofu_drf --energy 2500,14000 -o test.json --force`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "YAML run configuration (defaults apply when empty)")
	flags.BoolVar(&kinematicCuts, "kin", false, "apply kinematic cuts")
	flags.BoolVar(&lightYield, "light-yield", false, "use light yield (keVee) instead of deposited energy (keV)")
	flags.BoolVar(&force, "force", false, "overwrite the output file if it exists")
	flags.StringVarP(&output, "output", "o", "", "output file (default <output_dir>/tofu_drf[_kin][_ly].json)")
	flags.IntVar(&workers, "workers", 0, "energy bins computed concurrently (overrides config)")
	flags.StringVar(&name, "name", "", "record name (overrides config)")
	flags.StringVar(&info, "info", "", "provenance text (default describes the selection)")
	flags.StringVar(&profileMode, "profile", "", "write a cpu or mem profile")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log per-channel selection counts")
	flags.Var(&energies, "energy", "only compute these energies in keV (repeatable)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	switch profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	default:
		return fmt.Errorf("unknown profile mode %q", profileMode)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := tofudrf.NewLogger(os.Stdout, level)

	cfg, err := tofudrf.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	if name != "" {
		cfg.Name = name
	}

	energyBins, err := cfg.Energy.Bins()
	if err != nil {
		return &tofudrf.ConfigError{Path: cfgFile, Err: err}
	}
	if energies.Changed() {
		energyBins, err = energyBins.Subset(energies.Array)
		if err != nil {
			return fmt.Errorf("invalid --energy: %w", err)
		}
	}
	timeBins, err := cfg.Time.Bins()
	if err != nil {
		return &tofudrf.ConfigError{Path: cfgFile, Err: err}
	}

	opts := tofudrf.Options{
		KinematicCuts: kinematicCuts,
		LightYield:    lightYield,
		Workers:       cfg.Workers,
	}
	if output == "" {
		output = filepath.Join(cfg.OutputDir, tofudrf.DefaultFileName(opts))
	}
	if info == "" {
		info = tofudrf.DefaultInfo(opts)
	}

	// WriteRecord checks again, atomically, once the matrix is computed.
	if _, err := os.Stat(output); err == nil && !force {
		return &tofudrf.OutputConflictError{Path: output}
	}

	reader := rootio.NewReader(cfg.DataDir)
	reader.Tree = cfg.Tree
	drv := &tofudrf.Driver{
		Events:     reader,
		Thresholds: cfg.Thresholds,
		Logger:     logger,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger.Info(fmt.Sprintf("kinematic cuts: %t, light yield: %t, workers: %d", opts.KinematicCuts, opts.LightYield, opts.Workers), "module", "config")
	res, err := drv.Compute(ctx, energyBins, timeBins, opts)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("interrupted, nothing written", "module", "main")
		}
		return err
	}
	res.Name = cfg.Name
	res.Info = info

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("could not create output directory: %w", err)
	}
	if err := tofudrf.WriteRecord(output, tofudrf.NewRecord(res), force); err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("DRF written to %s", output), "module", "main")
	return nil
}
