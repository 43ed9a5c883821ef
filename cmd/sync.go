package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agrovista/safra-cli/internal/model"
	"github.com/agrovista/safra-cli/pkg/alphavantage"
	"github.com/agrovista/safra-cli/pkg/noaa"
	"github.com/agrovista/safra-cli/pkg/openmeteo"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync external reference series into the store",
}

var syncClimateCmd = &cobra.Command{
	Use:   "climate",
	Short: "Sync the hourly climate archive for the reference station",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		client := openmeteo.NewClient()
		lastYear := time.Now().UTC().Year()
		years := make([][]model.ClimateHour, lastYear-cfg.Climate.FirstYear+1)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(4)
		for year := cfg.Climate.FirstYear; year <= lastYear; year++ {
			year := year
			g.Go(func() error {
				start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
				end := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)
				if now := time.Now().UTC(); end.After(now) {
					end = now
				}

				points, err := client.HourlyArchive(gctx, cfg.Climate.Latitude, cfg.Climate.Longitude, start, end)
				if err != nil {
					return err
				}
				hours := make([]model.ClimateHour, len(points))
				for i, p := range points {
					hours[i] = model.ClimateHour{
						Timestamp:       p.Time,
						PrecipitationMM: p.PrecipitationMM,
						TemperatureC:    p.TemperatureC,
					}
				}
				years[year-cfg.Climate.FirstYear] = hours
				zap.L().Info("climate year synced", zap.Int("year", year), zap.Int("hours", len(hours)))
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		var all []model.ClimateHour
		for _, hours := range years {
			all = append(all, hours...)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Timestamp.Before(all[j].Timestamp) })

		if err := st.ReplaceClimateHours(ctx, all); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Climate series replaced: %d hourly samples from %d.\n", len(all), cfg.Climate.FirstYear)
		return nil
	},
}

var syncENSOCmd = &cobra.Command{
	Use:   "enso",
	Short: "Sync the NOAA ONI series and classify ENSO phases",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		records, err := noaa.NewClient().ONI(ctx)
		if err != nil {
			return err
		}

		months := make([]model.ENSOMonth, len(records))
		for i, r := range records {
			months[i] = model.ENSOMonth{
				Year:  r.Year,
				Month: r.Month,
				Index: r.Anomaly,
				Phase: model.ClassifyONI(r.Anomaly),
			}
		}
		if err := st.UpsertENSOMonths(ctx, months); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "ENSO series upserted: %d months.\n", len(months))
		return nil
	},
}

var syncPricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Build the daily BRL/kg market price series",
	Long:  "Fetches the USD/BRL history from Alpha Vantage and converts the commodity close of each catalog crop into R$/kg. Days already present are skipped.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		start, err := parseDate(cfg.AlphaVantage.StartDate)
		if err != nil {
			return err
		}
		end := time.Now().UTC()

		client := alphavantage.NewClient(cfg.AlphaVantage.Key,
			alphavantage.WithBaseURL(cfg.AlphaVantage.BaseURL))
		rates, err := client.FXDaily(ctx, "USD", "BRL")
		if err != nil {
			return err
		}
		fxByDay := make(map[string]float64, len(rates))
		for _, r := range rates {
			fxByDay[r.Date.Format(dateLayout)] = r.Close
		}

		var prices []model.MarketPrice
		for crop := range cfg.Prices.Catalog {
			for _, p := range alphavantage.SimulatedCommodity(crop, start, end) {
				fx, ok := fxByDay[p.Date.Format(dateLayout)]
				if !ok {
					// Weekend or FX holiday: no conversion possible.
					continue
				}
				perKg, ok := alphavantage.PricePerKgBRL(crop, p.CloseUSDCents, fx)
				if !ok {
					continue
				}
				prices = append(prices, model.MarketPrice{
					Date:       p.Date,
					CropName:   crop,
					ClosePerKg: perKg,
				})
			}
		}

		inserted, err := st.InsertMarketPrices(ctx, prices)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Market prices: %d new rows inserted, %d skipped.\n", inserted, len(prices)-inserted)
		return nil
	},
}

func init() {
	syncCmd.AddCommand(syncClimateCmd)
	syncCmd.AddCommand(syncENSOCmd)
	syncCmd.AddCommand(syncPricesCmd)
	rootCmd.AddCommand(syncCmd)
}
