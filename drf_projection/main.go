// Command drf_projection overlays the flight-time spectra of selected
// incident energies of a DRF record.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/decibelcooper/tofudrf"
)

var (
	energies tofudrf.FloatArrayFlags
	title    string
	output   string
)

var rootCmd = &cobra.Command{
	Use:   "drf_projection [options] <drf-record.json>",
	Short: "Plot flight-time spectra of a DRF record at fixed energies",
	Example: `  drf_projection --energy 2500 --energy 14000 output_files/tofu_drf_kin_ly.json
  drf_projection --energy 2450,2500,2550 -o spectra.pdf output_files/tofu_drf.json`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(_ *cobra.Command, args []string) error {
		rec, err := tofudrf.ReadRecord(args[0])
		if err != nil {
			return err
		}
		t := title
		if t == "" {
			t = rec.Name
		}
		return tofudrf.RenderProjection(rec, energies.Array, t, output)
	},
}

func init() {
	energies.Array = []float64{2500, 14000}
	rootCmd.Flags().Var(&energies, "energy", "incident energy in keV (repeatable)")
	rootCmd.Flags().StringVar(&title, "title", "", "plot title (default is the record name)")
	rootCmd.Flags().StringVarP(&output, "output", "o", "out.png", "output file; format follows the extension")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
