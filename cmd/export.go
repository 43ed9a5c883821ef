package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/agrovista/safra-cli/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export operational records to CSV or XLSX",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")

		snap, err := loadSnapshot(ctx)
		if err != nil {
			return err
		}

		f, err := os.Create(out)
		if err != nil {
			return eris.Wrap(err, "export: create output file")
		}
		defer f.Close() //nolint:errcheck

		switch format {
		case "csv":
			if err := export.CyclesCSV(f, snap.Cycles); err != nil {
				return err
			}
		case "xlsx":
			if err := export.Workbook(f, snap); err != nil {
				return err
			}
		default:
			return eris.Errorf("export: unknown format %q (want csv or xlsx)", format)
		}

		fmt.Fprintf(os.Stdout, "Exported %d cycles to %s.\n", len(snap.Cycles), out)
		return nil
	},
}

var exportActivitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "Export the field activity log to CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		out, _ := cmd.Flags().GetString("out")

		snap, err := loadSnapshot(ctx)
		if err != nil {
			return err
		}

		f, err := os.Create(out)
		if err != nil {
			return eris.Wrap(err, "export: create output file")
		}
		defer f.Close() //nolint:errcheck

		if err := export.ActivitiesCSV(f, snap.Activities); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Exported %d activities to %s.\n", len(snap.Activities), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("format", "csv", "output format: csv or xlsx")
	exportCmd.Flags().String("out", "", "output file")
	_ = exportCmd.MarkFlagRequired("out")

	exportActivitiesCmd.Flags().String("out", "", "output file")
	_ = exportActivitiesCmd.MarkFlagRequired("out")

	exportCmd.AddCommand(exportActivitiesCmd)
	rootCmd.AddCommand(exportCmd)
}
