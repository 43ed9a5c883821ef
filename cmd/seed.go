package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agrovista/safra-cli/internal/seed"
)

var seedCfg seed.Config

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace the database with a deterministic synthetic dataset",
	Long:  "Wipes the store and regenerates farms, plots, crop cycles, field operations, soil analyses, and sale contracts. The same seed always produces the same data.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := seed.New(st, seedCfg).Run(ctx); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "Seed complete.")
		return nil
	},
}

func init() {
	def := seed.DefaultConfig()
	seedCmd.Flags().Int64Var(&seedCfg.Seed, "seed", def.Seed, "random seed")
	seedCmd.Flags().IntVar(&seedCfg.StartYear, "start-year", def.StartYear, "first harvest year")
	seedCmd.Flags().IntVar(&seedCfg.Years, "years", def.Years, "number of harvest years")
	seedCmd.Flags().IntVar(&seedCfg.PlotsPerFarm, "plots-per-farm", def.PlotsPerFarm, "plots per farm")
	rootCmd.AddCommand(seedCmd)
}
