package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agrovista/safra-cli/internal/model"
	"github.com/agrovista/safra-cli/internal/store"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Record plantings, field activities, and harvests",
}

var registerPlantingCmd = &cobra.Command{
	Use:   "planting",
	Short: "Start a crop cycle on a plot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		plotID, _ := cmd.Flags().GetString("plot")
		crop, _ := cmd.Flags().GetString("crop")
		dateStr, _ := cmd.Flags().GetString("date")

		date, err := parseDate(dateStr)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.SeedReference(ctx); err != nil {
			return err
		}

		plot, err := st.GetPlotByIdentifier(ctx, plotID)
		if err != nil {
			return err
		}
		cycle, err := st.CreateCycle(ctx, plot.ID, crop, date)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Cycle %s: %s on %s, expected harvest %s.\n",
			cycle.ID, crop, plotID, cycle.ExpectedHarvest.Format(dateLayout))
		return nil
	},
}

var registerActivityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Record a field operation on a cycle",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		cycleID, _ := cmd.Flags().GetString("cycle")
		actType, _ := cmd.Flags().GetString("type")
		product, _ := cmd.Flags().GetString("product")
		quantity, _ := cmd.Flags().GetFloat64("quantity")
		unit, _ := cmd.Flags().GetString("unit")
		dateStr, _ := cmd.Flags().GetString("date")
		machine, _ := cmd.Flags().GetString("machine")
		operator, _ := cmd.Flags().GetString("operator")
		cost, _ := cmd.Flags().GetFloat64("cost")

		date, err := parseDate(dateStr)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		act := model.FieldActivity{
			CycleID:  cycleID,
			Type:     actType,
			Product:  product,
			Quantity: quantity,
			Unit:     unit,
			Date:     date,
		}
		if machine != "" {
			m, err := st.GetMachineByName(ctx, machine)
			if err != nil {
				return err
			}
			act.MachineID = &m.ID
		}
		if operator != "" {
			act.Operator = &operator
		}
		if cmd.Flags().Changed("cost") {
			act.CostPerHa = &cost
		}

		id, err := st.InsertActivity(ctx, act)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Activity %s recorded.\n", id)
		return nil
	},
}

var registerHarvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Close a cycle with its harvest date and yield",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		cycleID, _ := cmd.Flags().GetString("cycle")
		dateStr, _ := cmd.Flags().GetString("date")
		yield, _ := cmd.Flags().GetFloat64("yield")
		machine, _ := cmd.Flags().GetString("machine")
		cost, _ := cmd.Flags().GetFloat64("cost")
		operator, _ := cmd.Flags().GetString("operator")

		date, err := parseDate(dateStr)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		err = st.RecordHarvest(ctx, store.HarvestParams{
			CycleID:     cycleID,
			Date:        date,
			YieldKgHa:   yield,
			MachineName: machine,
			CostPerHa:   cost,
			Operator:    operator,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Harvest recorded: %.0f kg/ha.\n", yield)
		return nil
	},
}

var registerSoilCmd = &cobra.Command{
	Use:   "soil",
	Short: "Record a soil analysis for a plot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		plotID, _ := cmd.Flags().GetString("plot")
		dateStr, _ := cmd.Flags().GetString("date")
		ph, _ := cmd.Flags().GetFloat64("ph")
		phosphorus, _ := cmd.Flags().GetFloat64("phosphorus")
		potassium, _ := cmd.Flags().GetFloat64("potassium")
		om, _ := cmd.Flags().GetFloat64("organic-matter")

		date, err := parseDate(dateStr)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		plot, err := st.GetPlotByIdentifier(ctx, plotID)
		if err != nil {
			return err
		}
		id, err := st.InsertSoilAnalysis(ctx, model.SoilAnalysis{
			PlotID:        plot.ID,
			Date:          date,
			PH:            ph,
			PhosphorusPPM: phosphorus,
			PotassiumPPM:  potassium,
			OrganicMatter: om,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Soil analysis %s recorded.\n", id)
		return nil
	},
}

var registerSaleCmd = &cobra.Command{
	Use:   "sale",
	Short: "Record a sale contract against a cycle",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		cycleID, _ := cmd.Flags().GetString("cycle")
		dateStr, _ := cmd.Flags().GetString("date")
		quantity, _ := cmd.Flags().GetFloat64("quantity")
		price, _ := cmd.Flags().GetFloat64("price")

		date, err := parseDate(dateStr)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		sc := model.SaleContract{
			CycleID:    cycleID,
			SaleDate:   date,
			QuantityKg: quantity,
			PricePerKg: price,
		}
		id, err := st.InsertSaleContract(ctx, sc)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Contract %s recorded: R$ %.2f.\n", id, sc.Revenue())
		return nil
	},
}

func init() {
	registerPlantingCmd.Flags().String("plot", "", "plot identifier")
	registerPlantingCmd.Flags().String("crop", "", "crop name")
	registerPlantingCmd.Flags().String("date", "", "planting date (YYYY-MM-DD)")
	_ = registerPlantingCmd.MarkFlagRequired("plot")
	_ = registerPlantingCmd.MarkFlagRequired("crop")
	_ = registerPlantingCmd.MarkFlagRequired("date")

	registerActivityCmd.Flags().String("cycle", "", "cycle ID")
	registerActivityCmd.Flags().String("type", "", "activity type")
	registerActivityCmd.Flags().String("product", "", "product applied")
	registerActivityCmd.Flags().Float64("quantity", 0, "quantity applied")
	registerActivityCmd.Flags().String("unit", "", "quantity unit")
	registerActivityCmd.Flags().String("date", "", "activity date (YYYY-MM-DD)")
	registerActivityCmd.Flags().String("machine", "", "machine name")
	registerActivityCmd.Flags().String("operator", "", "operator name")
	registerActivityCmd.Flags().Float64("cost", 0, "cost per hectare (R$)")
	_ = registerActivityCmd.MarkFlagRequired("cycle")
	_ = registerActivityCmd.MarkFlagRequired("type")
	_ = registerActivityCmd.MarkFlagRequired("date")

	registerHarvestCmd.Flags().String("cycle", "", "cycle ID")
	registerHarvestCmd.Flags().String("date", "", "harvest date (YYYY-MM-DD)")
	registerHarvestCmd.Flags().Float64("yield", 0, "yield in kg/ha")
	registerHarvestCmd.Flags().String("machine", "", "harvester name")
	registerHarvestCmd.Flags().Float64("cost", 0, "harvest cost per hectare (R$)")
	registerHarvestCmd.Flags().String("operator", "", "operator name")
	_ = registerHarvestCmd.MarkFlagRequired("cycle")
	_ = registerHarvestCmd.MarkFlagRequired("date")
	_ = registerHarvestCmd.MarkFlagRequired("yield")

	registerSoilCmd.Flags().String("plot", "", "plot identifier")
	registerSoilCmd.Flags().String("date", "", "analysis date (YYYY-MM-DD)")
	registerSoilCmd.Flags().Float64("ph", 0, "pH")
	registerSoilCmd.Flags().Float64("phosphorus", 0, "phosphorus (ppm)")
	registerSoilCmd.Flags().Float64("potassium", 0, "potassium (ppm)")
	registerSoilCmd.Flags().Float64("organic-matter", 0, "organic matter (%)")
	_ = registerSoilCmd.MarkFlagRequired("plot")
	_ = registerSoilCmd.MarkFlagRequired("date")

	registerSaleCmd.Flags().String("cycle", "", "cycle ID")
	registerSaleCmd.Flags().String("date", "", "sale date (YYYY-MM-DD)")
	registerSaleCmd.Flags().Float64("quantity", 0, "quantity sold (kg)")
	registerSaleCmd.Flags().Float64("price", 0, "price per kg (R$)")
	_ = registerSaleCmd.MarkFlagRequired("cycle")
	_ = registerSaleCmd.MarkFlagRequired("date")
	_ = registerSaleCmd.MarkFlagRequired("quantity")
	_ = registerSaleCmd.MarkFlagRequired("price")

	registerCmd.AddCommand(registerPlantingCmd)
	registerCmd.AddCommand(registerActivityCmd)
	registerCmd.AddCommand(registerHarvestCmd)
	registerCmd.AddCommand(registerSoilCmd)
	registerCmd.AddCommand(registerSaleCmd)
	rootCmd.AddCommand(registerCmd)
}
