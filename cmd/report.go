package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/agrovista/safra-cli/internal/report"
	"github.com/agrovista/safra-cli/internal/snapshot"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Productivity report by crop or farm",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		by, _ := cmd.Flags().GetString("by")
		year, _ := cmd.Flags().GetInt("year")
		seasonStr, _ := cmd.Flags().GetString("season")
		farm, _ := cmd.Flags().GetString("farm")
		crop, _ := cmd.Flags().GetString("crop")

		season, err := parseSeason(seasonStr)
		if err != nil {
			return err
		}

		snap, err := loadSnapshot(ctx)
		if err != nil {
			return err
		}
		snap = snapshot.Filter{Year: year, Season: season, Farm: farm, Crop: crop}.Apply(snap)

		if by == "farm" {
			return report.RenderFarms(os.Stdout, report.ByFarm(snap))
		}
		return report.RenderCrops(os.Stdout, report.ByCrop(snap))
	},
}

func init() {
	reportCmd.Flags().String("by", "crop", "group by: crop or farm")
	reportCmd.Flags().Int("year", 0, "filter by planting year")
	reportCmd.Flags().String("season", "", "filter by season: A or B")
	reportCmd.Flags().String("farm", "", "filter by farm name")
	reportCmd.Flags().String("crop", "", "filter by crop name")
	rootCmd.AddCommand(reportCmd)
}
