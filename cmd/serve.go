package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agrovista/safra-cli/internal/anomaly"
	"github.com/agrovista/safra-cli/internal/dashboard"
	"github.com/agrovista/safra-cli/internal/snapshot"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analytics dashboard",
	Long:  "Starts the HTTP dashboard with the agronomic, financial, operational, soil, climate, ENSO, and price panels. Each request reads the store fresh, so new records show up without a restart.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		forecastPath, _ := cmd.Flags().GetString("forecast")

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		load := func(ctx context.Context) (*snapshot.Snapshot, error) {
			return snapshot.Load(ctx, st)
		}

		srv := dashboard.NewServer(load, dashboard.Config{
			Addr:    cfg.Dashboard.Addr,
			Catalog: cfg.Prices.Catalog,
			Anomaly: anomaly.Config{
				MinSamples: cfg.Anomaly.MinSamples,
				ZScore:     cfg.Anomaly.ZScore,
			},
			ForecastPath: forecastPath,
		})

		zap.L().Info("dashboard listening", zap.String("addr", cfg.Dashboard.Addr))
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().String("forecast", "", "CSV with yield forecasts to overlay on the price panel")
	rootCmd.AddCommand(serveCmd)
}
