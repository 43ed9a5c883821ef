package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/agrovista/safra-cli/internal/finance"
	"github.com/agrovista/safra-cli/internal/snapshot"
)

var financeCmd = &cobra.Command{
	Use:   "finance",
	Short: "Profitability and opportunity-cost analysis",
}

var financeSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Per-cycle profit reconciliation",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		year, _ := cmd.Flags().GetInt("year")
		crop, _ := cmd.Flags().GetString("crop")

		snap, err := loadSnapshot(ctx)
		if err != nil {
			return err
		}
		snap = snapshot.Filter{Year: year, Crop: crop}.Apply(snap)

		cycles := make([]finance.Cycle, 0, len(snap.Cycles))
		meta := make(map[string]struct{ farm, plot, crop string }, len(snap.Cycles))
		for _, c := range snap.Cycles {
			cycles = append(cycles, finance.Cycle{
				ID:        c.CycleID,
				Crop:      c.Crop,
				AreaHa:    c.AreaHa,
				YieldKgHa: c.YieldKgHa,
				CostPerHa: c.TotalCostPerHa,
			})
			meta[c.CycleID] = struct{ farm, plot, crop string }{c.Farm, c.Plot, c.Crop}
		}

		summaries := finance.Summaries(cycles, snap.SaleContracts, cfg.Prices.Catalog)
		if len(summaries) == 0 {
			fmt.Fprintln(os.Stderr, "No reconcilable cycles found.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "FAZENDA\tTALHÃO\tCULTURA\tRECEITA (R$/ha)\tCUSTO (R$/ha)\tLUCRO (R$/ha)\tORIGEM")
		for _, s := range summaries {
			m := meta[s.CycleID]
			origin := "catálogo"
			if s.Realized {
				origin = "contratos"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%.2f\t%.2f\t%s\n",
				m.farm, m.plot, m.crop, s.RevenuePerHa, s.CostPerHa, s.ProfitPerHa, origin)
		}
		return tw.Flush()
	},
}

var financeOpportunityCmd = &cobra.Command{
	Use:   "opportunity",
	Short: "Opportunity cost of sales against the market peak",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		crop, _ := cmd.Flags().GetString("crop")
		fromStr, _ := cmd.Flags().GetString("from")
		toStr, _ := cmd.Flags().GetString("to")

		from, err := parseDate(fromStr)
		if err != nil {
			return err
		}
		var to time.Time
		if toStr == "" {
			to = time.Now().UTC()
		} else if to, err = parseDate(toStr); err != nil {
			return err
		}

		snap, err := loadSnapshot(ctx)
		if err != nil {
			return err
		}

		cycles := make([]finance.Cycle, 0, len(snap.Cycles))
		for _, c := range snap.Cycles {
			cycles = append(cycles, finance.Cycle{
				ID:        c.CycleID,
				Crop:      c.Crop,
				AreaHa:    c.AreaHa,
				YieldKgHa: c.YieldKgHa,
				CostPerHa: c.TotalCostPerHa,
			})
		}

		opp := finance.OpportunityCost(cycles, snap.SaleContracts, snap.MarketPrices, crop, from, to)
		if !opp.Available {
			fmt.Fprintln(os.Stderr, "Dados insuficientes: são necessários contratos e preços de mercado na janela. Rode `safra-cli sync prices`.")
			return nil
		}

		fmt.Fprintf(os.Stdout, "Cultura: %s (%s a %s)\n", opp.Crop, from.Format(dateLayout), to.Format(dateLayout))
		fmt.Fprintf(os.Stdout, "Receita realizada:   R$ %.2f\n", opp.RealizedRevenue)
		fmt.Fprintf(os.Stdout, "Preço de pico:       R$ %.3f/kg\n", opp.PeakPricePerKg)
		fmt.Fprintf(os.Stdout, "Receita no pico:     R$ %.2f\n", opp.PeakRevenue)
		fmt.Fprintf(os.Stdout, "Custo de oportunidade: R$ %.2f\n", opp.OpportunityCost)
		return nil
	},
}

var financeContractsCmd = &cobra.Command{
	Use:   "contracts",
	Short: "Sale contracts against the market close of the day",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		crop, _ := cmd.Flags().GetString("crop")

		snap, err := loadSnapshot(ctx)
		if err != nil {
			return err
		}
		snap = snapshot.Filter{Crop: crop}.Apply(snap)

		cycles := make([]finance.Cycle, 0, len(snap.Cycles))
		for _, c := range snap.Cycles {
			cycles = append(cycles, finance.Cycle{ID: c.CycleID, Crop: c.Crop})
		}

		benchmarks := finance.ContractBenchmarks(cycles, snap.SaleContracts, snap.MarketPrices)
		if len(benchmarks) == 0 {
			fmt.Fprintln(os.Stderr, "No sale contracts recorded.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "DATA\tCULTURA\tPREÇO VENDA (R$/kg)\tFECHAMENTO (R$/kg)\tDESVIO")
		for _, b := range benchmarks {
			if !b.Available {
				fmt.Fprintf(tw, "%s\t%s\t%.3f\t-\t-\n", b.SaleDate.Format(dateLayout), b.Crop, b.SalePerKg)
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%.3f\t%.3f\t%+.1f%%\n",
				b.SaleDate.Format(dateLayout), b.Crop, b.SalePerKg, b.MarketPerKg, b.DeltaPct)
		}
		return tw.Flush()
	},
}

func init() {
	financeSummaryCmd.Flags().Int("year", 0, "filter by planting year")
	financeSummaryCmd.Flags().String("crop", "", "filter by crop name")

	financeOpportunityCmd.Flags().String("crop", "", "crop name")
	financeOpportunityCmd.Flags().String("from", "", "window start (YYYY-MM-DD)")
	financeOpportunityCmd.Flags().String("to", "", "window end (YYYY-MM-DD), default today")
	_ = financeOpportunityCmd.MarkFlagRequired("crop")
	_ = financeOpportunityCmd.MarkFlagRequired("from")

	financeContractsCmd.Flags().String("crop", "", "filter by crop name")

	financeCmd.AddCommand(financeSummaryCmd)
	financeCmd.AddCommand(financeOpportunityCmd)
	financeCmd.AddCommand(financeContractsCmd)
	rootCmd.AddCommand(financeCmd)
}
