package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agrovista/safra-cli/internal/anomaly"
	"github.com/agrovista/safra-cli/internal/snapshot"
)

var anomaliesCmd = &cobra.Command{
	Use:   "anomalies",
	Short: "Flag field operations with outlier costs",
	Long:  "Compares each activity's cost per hectare in the target year against the historical baseline for its activity type and flags values above mean + k·stddev.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		year, _ := cmd.Flags().GetInt("year")
		seasonStr, _ := cmd.Flags().GetString("season")
		farm, _ := cmd.Flags().GetString("farm")

		season, err := parseSeason(seasonStr)
		if err != nil {
			return err
		}

		snap, err := loadSnapshot(ctx)
		if err != nil {
			return err
		}

		if year == 0 {
			for _, a := range snap.Activities {
				if a.Date.Year() > year {
					year = a.Date.Year()
				}
			}
		}

		// Current: the filtered target year. Baselines come from the
		// complete history, inspected rows included.
		currentSnap := snapshot.Filter{Year: year, Season: season, Farm: farm}.Apply(snap)
		currentIDs := make(map[string]bool, len(currentSnap.Activities))
		for _, a := range currentSnap.Activities {
			currentIDs[a.FieldActivity.ID] = true
		}

		var current, history []anomaly.Record
		for _, a := range snap.Activities {
			rec := anomaly.Record{
				Date:         a.Date,
				Farm:         a.Farm,
				Plot:         a.Plot,
				ActivityType: a.Type,
				CostPerHa:    a.CostPerHa,
			}
			if a.Operator != nil {
				rec.Operator = *a.Operator
			}
			history = append(history, rec)
			if currentIDs[a.FieldActivity.ID] {
				current = append(current, rec)
			}
		}

		rep := anomaly.Detect(current, history, anomaly.Config{
			MinSamples: cfg.Anomaly.MinSamples,
			ZScore:     cfg.Anomaly.ZScore,
		})

		if rep.Clean() {
			fmt.Fprintf(os.Stdout, "Nenhuma anomalia de custo em %d (%d tipos de atividade verificados).\n", year, rep.CheckedTypes)
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "DATA\tFAZENDA\tTALHÃO\tATIVIDADE\tOPERADOR\tCUSTO (R$/ha)\tESPERADO (R$/ha)\tDESVIO")
		for _, a := range rep.Anomalies {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.2f\t%.2f\t+%.0f%%\n",
				a.Date.Format(dateLayout), a.Farm, a.Plot, a.ActivityType, a.Operator,
				a.CostObserved, a.CostExpected, a.PctDeviation)
		}
		return tw.Flush()
	},
}

func init() {
	anomaliesCmd.Flags().Int("year", 0, "target year (default: most recent)")
	anomaliesCmd.Flags().String("season", "", "filter by season: A or B")
	anomaliesCmd.Flags().String("farm", "", "filter by farm name")
	rootCmd.AddCommand(anomaliesCmd)
}
