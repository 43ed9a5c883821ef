package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovista/safra-cli/internal/model"
)

func yield(v float64) *float64 { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var soyCatalog = map[string]float64{"Soja": 1.10}

func TestSummariesPotentialFallback(t *testing.T) {
	t.Parallel()

	cycles := []Cycle{{ID: "s1", Crop: "Soja", AreaHa: 20, YieldKgHa: yield(4000), CostPerHa: 1500}}

	got := Summaries(cycles, nil, soyCatalog)
	require.Len(t, got, 1)
	assert.InDelta(t, 4400, got[0].RevenuePerHa, 1e-9)
	assert.InDelta(t, 2900, got[0].ProfitPerHa, 1e-9)
	assert.False(t, got[0].Realized)
}

func TestSummariesRealizedOverridesPotential(t *testing.T) {
	t.Parallel()

	cycles := []Cycle{{ID: "s1", Crop: "Soja", AreaHa: 20, YieldKgHa: yield(4000), CostPerHa: 1500}}
	contracts := []model.SaleContract{{CycleID: "s1", QuantityKg: 60000, PricePerKg: 1.15}}

	got := Summaries(cycles, contracts, soyCatalog)
	require.Len(t, got, 1)
	// (60000 × 1.15) / 20 = 3450/ha revenue, 1950/ha profit.
	assert.InDelta(t, 3450, got[0].RevenuePerHa, 1e-9)
	assert.InDelta(t, 1950, got[0].ProfitPerHa, 1e-9)
	assert.True(t, got[0].Realized)
}

func TestSummariesMultipleContractsSum(t *testing.T) {
	t.Parallel()

	cycles := []Cycle{{ID: "s1", Crop: "Soja", AreaHa: 10, YieldKgHa: yield(4000), CostPerHa: 1000}}
	contracts := []model.SaleContract{
		{CycleID: "s1", QuantityKg: 10000, PricePerKg: 1.0},
		{CycleID: "s1", QuantityKg: 5000, PricePerKg: 1.2},
	}

	got := Summaries(cycles, contracts, soyCatalog)
	require.Len(t, got, 1)
	assert.InDelta(t, 1600, got[0].RevenuePerHa, 1e-9)
	assert.True(t, got[0].Realized)
}

func TestSummariesSkipsUnknowable(t *testing.T) {
	t.Parallel()

	cycles := []Cycle{
		{ID: "open", Crop: "Soja", AreaHa: 20, CostPerHa: 800},                                // no yield
		{ID: "nocat", Crop: "Braquiária", AreaHa: 20, YieldKgHa: yield(9000), CostPerHa: 400}, // no catalog price, no contract
	}

	got := Summaries(cycles, nil, soyCatalog)
	assert.Empty(t, got)
}

func TestContractBenchmarksNearestClose(t *testing.T) {
	t.Parallel()

	cycles := []Cycle{{ID: "s1", Crop: "Soja"}}
	contracts := []model.SaleContract{
		{CycleID: "s1", SaleDate: day(2024, 4, 10), QuantityKg: 60000, PricePerKg: 1.2},
	}
	prices := []model.MarketPrice{
		{CropName: "Soja", Date: day(2024, 4, 8), ClosePerKg: 1.0},
		{CropName: "Soja", Date: day(2024, 4, 13), ClosePerKg: 2.0},
		{CropName: "Milho", Date: day(2024, 4, 10), ClosePerKg: 9.9},
	}

	got := ContractBenchmarks(cycles, contracts, prices)
	require.Len(t, got, 1)
	require.True(t, got[0].Available)
	assert.Equal(t, day(2024, 4, 8), got[0].MarketDate)
	assert.InDelta(t, 1.0, got[0].MarketPerKg, 1e-9)
	assert.InDelta(t, 20, got[0].DeltaPct, 1e-9)
}

func TestContractBenchmarksEquidistantPrefersEarlier(t *testing.T) {
	t.Parallel()

	cycles := []Cycle{{ID: "s1", Crop: "Soja"}}
	contracts := []model.SaleContract{
		{CycleID: "s1", SaleDate: day(2024, 4, 10), PricePerKg: 1.0},
	}
	prices := []model.MarketPrice{
		{CropName: "Soja", Date: day(2024, 4, 8), ClosePerKg: 1.1},
		{CropName: "Soja", Date: day(2024, 4, 12), ClosePerKg: 1.9},
	}

	got := ContractBenchmarks(cycles, contracts, prices)
	require.Len(t, got, 1)
	assert.Equal(t, day(2024, 4, 8), got[0].MarketDate)
}

func TestContractBenchmarksNoMarketSeries(t *testing.T) {
	t.Parallel()

	cycles := []Cycle{{ID: "s1", Crop: "Soja"}}
	contracts := []model.SaleContract{
		{CycleID: "s1", SaleDate: day(2024, 4, 10), PricePerKg: 1.0},
	}

	got := ContractBenchmarks(cycles, contracts, nil)
	require.Len(t, got, 1)
	assert.False(t, got[0].Available)
}

func TestOpportunityCost(t *testing.T) {
	t.Parallel()

	cycles := []Cycle{{ID: "s1", Crop: "Soja", AreaHa: 20, YieldKgHa: yield(4000), CostPerHa: 1500}}
	contracts := []model.SaleContract{
		{CycleID: "s1", SaleDate: day(2024, 4, 10), QuantityKg: 60000, PricePerKg: 1.0},
	}
	prices := []model.MarketPrice{
		{CropName: "Soja", Date: day(2024, 3, 1), ClosePerKg: 1.1},
		{CropName: "Soja", Date: day(2024, 5, 1), ClosePerKg: 1.5},
		{CropName: "Soja", Date: day(2025, 1, 1), ClosePerKg: 9.9}, // outside window
		{CropName: "Milho", Date: day(2024, 5, 1), ClosePerKg: 8.8},
	}

	got := OpportunityCost(cycles, contracts, prices, "Soja", day(2024, 1, 1), day(2024, 12, 1))
	require.True(t, got.Available)
	assert.InDelta(t, 60000, got.RealizedRevenue, 1e-9)
	assert.InDelta(t, 1.5, got.PeakPricePerKg, 1e-9)
	// production 4000×20 = 80000 kg at 1.5 → 120000 peak revenue.
	assert.InDelta(t, 120000, got.PeakRevenue, 1e-9)
	assert.InDelta(t, 60000, got.OpportunityCost, 1e-9)
}

func TestOpportunityCostNeverNegative(t *testing.T) {
	t.Parallel()

	cycles := []Cycle{{ID: "s1", Crop: "Soja", AreaHa: 10, YieldKgHa: yield(1000), CostPerHa: 500}}
	// Sold everything well above the market peak.
	contracts := []model.SaleContract{
		{CycleID: "s1", SaleDate: day(2024, 4, 10), QuantityKg: 10000, PricePerKg: 5.0},
	}
	prices := []model.MarketPrice{{CropName: "Soja", Date: day(2024, 4, 1), ClosePerKg: 1.0}}

	got := OpportunityCost(cycles, contracts, prices, "Soja", day(2024, 1, 1), day(2024, 12, 1))
	require.True(t, got.Available)
	assert.Zero(t, got.OpportunityCost)
}

func TestOpportunityCostUnavailableWithoutMarketData(t *testing.T) {
	t.Parallel()

	cycles := []Cycle{{ID: "s1", Crop: "Soja", AreaHa: 10, YieldKgHa: yield(1000)}}
	contracts := []model.SaleContract{
		{CycleID: "s1", SaleDate: day(2024, 4, 10), QuantityKg: 5000, PricePerKg: 1.0},
	}

	got := OpportunityCost(cycles, contracts, nil, "Soja", day(2024, 1, 1), day(2024, 12, 1))
	assert.False(t, got.Available)
}

func TestOpportunityCostUnavailableWithoutContracts(t *testing.T) {
	t.Parallel()

	cycles := []Cycle{{ID: "s1", Crop: "Soja", AreaHa: 10, YieldKgHa: yield(1000)}}
	prices := []model.MarketPrice{{CropName: "Soja", Date: day(2024, 4, 1), ClosePerKg: 1.0}}

	got := OpportunityCost(cycles, nil, prices, "Soja", day(2024, 1, 1), day(2024, 12, 1))
	assert.False(t, got.Available)
}
