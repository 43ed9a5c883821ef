package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovista/safra-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteSeedReference(t *testing.T) {
	t.Parallel()

	s := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.SeedReference(ctx))

	crops, err := s.ListCrops(ctx)
	require.NoError(t, err)
	require.Len(t, crops, 5)

	farms, err := s.ListFarms(ctx)
	require.NoError(t, err)
	require.Len(t, farms, 3)

	machines, err := s.ListMachines(ctx)
	require.NoError(t, err)
	require.Len(t, machines, 3)

	// Idempotent: a second call must not duplicate the catalog.
	require.NoError(t, s.SeedReference(ctx))
	crops, err = s.ListCrops(ctx)
	require.NoError(t, err)
	assert.Len(t, crops, 5)

	soja, err := s.GetCropByName(ctx, "Soja")
	require.NoError(t, err)
	assert.Equal(t, model.CropCommercial, soja.Category)
	assert.Equal(t, 120, soja.CycleDays)
}

func TestSQLiteGetByNameNotFound(t *testing.T) {
	t.Parallel()

	s := newTestSQLiteStore(t)
	ctx := context.Background()
	require.NoError(t, s.SeedReference(ctx))

	_, err := s.GetFarmByName(ctx, "Fazenda Inexistente")
	assert.True(t, eris.Is(err, ErrNotFound))

	_, err = s.GetCropByName(ctx, "Trigo")
	assert.True(t, eris.Is(err, ErrNotFound))

	_, err = s.GetPlotByIdentifier(ctx, "Z-99")
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestSQLitePlotAndCycleLifecycle(t *testing.T) {
	t.Parallel()

	s := newTestSQLiteStore(t)
	ctx := context.Background()
	require.NoError(t, s.SeedReference(ctx))

	plot, err := s.CreatePlot(ctx, "Fazenda Cristalina", "A-01", 120.5)
	require.NoError(t, err)
	require.NotEmpty(t, plot.ID)

	planting := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	cycle, err := s.CreateCycle(ctx, plot.ID, "Soja", planting)
	require.NoError(t, err)
	assert.Equal(t, planting.AddDate(0, 0, 120), cycle.ExpectedHarvest)

	cost := 180.0
	_, err = s.InsertActivity(ctx, model.FieldActivity{
		CycleID:   cycle.ID,
		Type:      "Plantio",
		Product:   "Semente Soja",
		Quantity:  60,
		Unit:      "kg/ha",
		Date:      planting,
		CostPerHa: &cost,
	})
	require.NoError(t, err)

	err = s.RecordHarvest(ctx, HarvestParams{
		CycleID:     cycle.ID,
		Date:        planting.AddDate(0, 0, 118),
		YieldKgHa:   3600,
		MachineName: "Case IH Axial-Flow 9250",
		CostPerHa:   240,
		Operator:    "Carlos",
	})
	require.NoError(t, err)

	rows, err := s.LoadCycleRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "Fazenda Cristalina", row.Farm)
	assert.Equal(t, "A-01", row.Plot)
	assert.Equal(t, "Soja", row.Crop)
	require.NotNil(t, row.YieldKgHa)
	assert.InDelta(t, 3600, *row.YieldKgHa, 1e-9)
	require.NotNil(t, row.ActualHarvest)
	assert.InDelta(t, 420, row.TotalCostPerHa, 1e-9)

	acts, err := s.LoadActivityRows(ctx)
	require.NoError(t, err)
	require.Len(t, acts, 2)
	assert.Equal(t, model.ActivityHarvest, acts[1].Type)
	assert.Equal(t, "Case IH Axial-Flow 9250", acts[1].Machine)
	require.NotNil(t, acts[1].Operator)
	assert.Equal(t, "Carlos", *acts[1].Operator)
}

func TestSQLiteRecordHarvestUnknownCycle(t *testing.T) {
	t.Parallel()

	s := newTestSQLiteStore(t)
	ctx := context.Background()
	require.NoError(t, s.SeedReference(ctx))

	err := s.RecordHarvest(ctx, HarvestParams{
		CycleID:   "missing",
		Date:      time.Now().UTC(),
		YieldKgHa: 1000,
	})
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestSQLiteMarketPriceDuplicateSkip(t *testing.T) {
	t.Parallel()

	s := newTestSQLiteStore(t)
	ctx := context.Background()

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	prices := []model.MarketPrice{
		{Date: day, CropName: "Soja", ClosePerKg: 2.10},
		{Date: day, CropName: "Milho", ClosePerKg: 1.05},
	}

	n, err := s.InsertMarketPrices(ctx, prices)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Same (date, crop) pairs again: silently skipped.
	n, err = s.InsertMarketPrices(ctx, prices)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	loaded, err := s.LoadMarketPrices(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
}

func TestSQLiteUpsertENSOMonths(t *testing.T) {
	t.Parallel()

	s := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertENSOMonths(ctx, []model.ENSOMonth{
		{Year: 2023, Month: 11, Index: 1.9, Phase: model.PhaseElNino},
	}))
	require.NoError(t, s.UpsertENSOMonths(ctx, []model.ENSOMonth{
		{Year: 2023, Month: 11, Index: 2.0, Phase: model.PhaseElNino},
		{Year: 2024, Month: 1, Index: 0.2, Phase: model.PhaseNeutral},
	}))

	months, err := s.LoadENSOMonths(ctx)
	require.NoError(t, err)
	require.Len(t, months, 2)
	assert.InDelta(t, 2.0, months[0].Index, 1e-9)
	assert.Equal(t, model.PhaseNeutral, months[1].Phase)
}

func TestSQLiteReplaceClimateHours(t *testing.T) {
	t.Parallel()

	s := newTestSQLiteStore(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	first := []model.ClimateHour{
		{Timestamp: base, PrecipitationMM: 1.5, TemperatureC: 26},
		{Timestamp: base.Add(time.Hour), PrecipitationMM: 0, TemperatureC: 27.5},
	}
	require.NoError(t, s.ReplaceClimateHours(ctx, first))

	second := []model.ClimateHour{
		{Timestamp: base.Add(2 * time.Hour), PrecipitationMM: 4, TemperatureC: 33},
	}
	require.NoError(t, s.ReplaceClimateHours(ctx, second))

	hours, err := s.LoadClimateHours(ctx)
	require.NoError(t, err)
	require.Len(t, hours, 1)
	assert.InDelta(t, 33, hours[0].TemperatureC, 1e-9)
}

func TestSQLiteSoilAndContracts(t *testing.T) {
	t.Parallel()

	s := newTestSQLiteStore(t)
	ctx := context.Background()
	require.NoError(t, s.SeedReference(ctx))

	plot, err := s.CreatePlot(ctx, "Fazenda Alvorada", "C-07", 88)
	require.NoError(t, err)
	cycle, err := s.CreateCycle(ctx, plot.ID, "Milho", time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	_, err = s.InsertSoilAnalysis(ctx, model.SoilAnalysis{
		PlotID:        plot.ID,
		Date:          time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC),
		PH:            5.8,
		PhosphorusPPM: 14,
		PotassiumPPM:  92,
		OrganicMatter: 3.1,
	})
	require.NoError(t, err)

	_, err = s.InsertSaleContract(ctx, model.SaleContract{
		CycleID:    cycle.ID,
		SaleDate:   time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		QuantityKg: 50000,
		PricePerKg: 0.95,
	})
	require.NoError(t, err)

	analyses, err := s.LoadSoilAnalyses(ctx)
	require.NoError(t, err)
	require.Len(t, analyses, 1)
	assert.Equal(t, plot.ID, analyses[0].PlotID)

	contracts, err := s.LoadSaleContracts(ctx)
	require.NoError(t, err)
	require.Len(t, contracts, 1)
	assert.InDelta(t, 47500, contracts[0].Revenue(), 1e-9)
}

func TestSQLiteReset(t *testing.T) {
	t.Parallel()

	s := newTestSQLiteStore(t)
	ctx := context.Background()
	require.NoError(t, s.SeedReference(ctx))

	require.NoError(t, s.Reset(ctx))

	farms, err := s.ListFarms(ctx)
	require.NoError(t, err)
	assert.Empty(t, farms)

	// Reseed works after a reset.
	require.NoError(t, s.SeedReference(ctx))
	farms, err = s.ListFarms(ctx)
	require.NoError(t, err)
	assert.Len(t, farms, 3)
}
