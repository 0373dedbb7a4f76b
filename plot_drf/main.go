// Command plot_drf renders a DRF record as a heatmap of flight time
// against incident energy.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/decibelcooper/tofudrf"
)

var (
	logScale bool
	title    string
	output   string
)

var rootCmd = &cobra.Command{
	Use:   "plot_drf [options] <drf-record.json>",
	Short: "Render a DRF record as a heatmap",
	Example: `  plot_drf --log output_files/tofu_drf_kin_ly.json
  plot_drf --title "TOFu DRF, no cuts" -o drf.png output_files/tofu_drf.json`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(_ *cobra.Command, args []string) error {
		rec, err := tofudrf.ReadRecord(args[0])
		if err != nil {
			return err
		}

		out := output
		if out == "" {
			out = strings.TrimSuffix(args[0], ".json") + ".png"
		}
		return tofudrf.RenderHeatmap(rec, tofudrf.HeatmapOptions{Title: title, Log: logScale}, out)
	},
}

func init() {
	rootCmd.Flags().BoolVar(&logScale, "log", false, "log10 color scale")
	rootCmd.Flags().StringVar(&title, "title", "", "plot title (default is the record name)")
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "output PNG file (default <record>.png)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
