package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/agrovista/safra-cli/internal/fusion"
)

var fusionCmd = &cobra.Command{
	Use:   "fusion",
	Short: "Build the analytical dataset",
}

var fusionBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Join cycles, soil, climate, and ENSO into one CSV",
	Long:  "Each row is one crop cycle enriched with the latest soil analysis before planting, climate aggregates over the cycle window, and the ENSO phase of the planting month. Cycles missing soil or climate coverage are dropped.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		out, _ := cmd.Flags().GetString("out")

		snap, err := loadSnapshot(ctx)
		if err != nil {
			return err
		}

		rows := fusion.Build(snap, fusion.Options{ExtremeHeatC: cfg.Climate.ExtremeHeatC})
		if len(rows) == 0 {
			fmt.Fprintln(os.Stderr, "No fusable cycles: check that soil analyses and the climate series are loaded.")
			return nil
		}

		w := os.Stdout
		if out != "" {
			f, err := os.Create(out)
			if err != nil {
				return eris.Wrap(err, "fusion: create output file")
			}
			defer f.Close() //nolint:errcheck
			w = f
		}
		if err := fusion.WriteCSV(w, rows); err != nil {
			return err
		}
		if out != "" {
			fmt.Fprintf(os.Stdout, "Dataset written: %d rows to %s.\n", len(rows), out)
		}
		return nil
	},
}

func init() {
	fusionBuildCmd.Flags().String("out", "", "output file (default stdout)")
	fusionCmd.AddCommand(fusionBuildCmd)
	rootCmd.AddCommand(fusionCmd)
}
