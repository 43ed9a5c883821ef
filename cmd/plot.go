package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agrovista/safra-cli/internal/model"
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Manage plots",
}

var plotAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a plot on a farm",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		farm, _ := cmd.Flags().GetString("farm")
		identifier, _ := cmd.Flags().GetString("id")
		area, _ := cmd.Flags().GetFloat64("area")

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.SeedReference(ctx); err != nil {
			return err
		}

		plot, err := st.CreatePlot(ctx, farm, identifier, area)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Plot %s registered (%s, %.1f ha).\n", plot.Identifier, farm, plot.AreaHa)
		return nil
	},
}

var plotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List plots",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		plots, err := st.ListPlots(ctx)
		if err != nil {
			return err
		}
		if len(plots) == 0 {
			fmt.Fprintln(os.Stderr, "No plots registered.")
			return nil
		}

		farms, err := st.ListFarms(ctx)
		if err != nil {
			return err
		}
		farmByID := make(map[string]model.Farm, len(farms))
		for _, f := range farms {
			farmByID[f.ID] = f
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TALHÃO\tFAZENDA\tÁREA (ha)")
		for _, p := range plots {
			fmt.Fprintf(tw, "%s\t%s\t%.1f\n", p.Identifier, farmByID[p.FarmID].Name, p.AreaHa)
		}
		return tw.Flush()
	},
}

func init() {
	plotAddCmd.Flags().String("farm", "", "farm name")
	plotAddCmd.Flags().String("id", "", "plot identifier")
	plotAddCmd.Flags().Float64("area", 0, "area in hectares")
	_ = plotAddCmd.MarkFlagRequired("farm")
	_ = plotAddCmd.MarkFlagRequired("id")
	_ = plotAddCmd.MarkFlagRequired("area")

	plotCmd.AddCommand(plotAddCmd)
	plotCmd.AddCommand(plotListCmd)
	rootCmd.AddCommand(plotCmd)
}
