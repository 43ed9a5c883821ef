package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovista/safra-cli/internal/model"
	"github.com/agrovista/safra-cli/internal/store"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func testSnapshot() *Snapshot {
	yield := 3600.0
	harvest := day(2023, 6, 10)
	return &Snapshot{
		Cycles: []store.CycleRow{
			{CycleID: "c1", Farm: "Fazenda Cristalina", Plot: "A-01", Crop: "Soja",
				Planting: day(2023, 2, 10), ActualHarvest: &harvest, YieldKgHa: &yield},
			{CycleID: "c2", Farm: "Fazenda Cristalina", Plot: "A-02", Crop: "Milho",
				Planting: day(2023, 8, 1)},
			{CycleID: "c3", Farm: "Fazenda Alvorada", Plot: "C-01", Crop: "Soja",
				Planting: day(2024, 2, 5)},
		},
		Activities: []store.ActivityRow{
			{FieldActivity: model.FieldActivity{ID: "a1", CycleID: "c1", Type: "Plantio", Date: day(2023, 2, 10)}},
			{FieldActivity: model.FieldActivity{ID: "a2", CycleID: "c2", Type: "Plantio", Date: day(2023, 8, 1)}},
		},
		SaleContracts: []model.SaleContract{
			{ID: "s1", CycleID: "c1", SaleDate: day(2023, 7, 1), QuantityKg: 50000, PricePerKg: 2.0},
		},
		SoilAnalyses: []model.SoilAnalysis{
			{ID: "so1", PlotID: "p1", Date: day(2023, 1, 15)},
		},
	}
}

func TestFilterByYear(t *testing.T) {
	t.Parallel()

	got := Filter{Year: 2023}.Apply(testSnapshot())
	require.Len(t, got.Cycles, 2)
	assert.Equal(t, "c1", got.Cycles[0].CycleID)
	assert.Equal(t, "c2", got.Cycles[1].CycleID)
	assert.Len(t, got.Activities, 2)
	assert.Len(t, got.SaleContracts, 1)
}

func TestFilterBySeason(t *testing.T) {
	t.Parallel()

	got := Filter{Year: 2023, Season: model.SeasonA}.Apply(testSnapshot())
	require.Len(t, got.Cycles, 1)
	assert.Equal(t, "c1", got.Cycles[0].CycleID)

	got = Filter{Year: 2023, Season: model.SeasonB}.Apply(testSnapshot())
	require.Len(t, got.Cycles, 1)
	assert.Equal(t, "c2", got.Cycles[0].CycleID)
}

func TestFilterByFarmAndCrop(t *testing.T) {
	t.Parallel()

	got := Filter{Farm: "Fazenda Alvorada"}.Apply(testSnapshot())
	require.Len(t, got.Cycles, 1)
	assert.Equal(t, "c3", got.Cycles[0].CycleID)
	assert.Empty(t, got.Activities)
	assert.Empty(t, got.SaleContracts)

	got = Filter{Crop: "Soja"}.Apply(testSnapshot())
	require.Len(t, got.Cycles, 2)
}

func TestFilterByDateRange(t *testing.T) {
	t.Parallel()

	got := Filter{From: day(2023, 6, 1), To: day(2023, 12, 31)}.Apply(testSnapshot())
	require.Len(t, got.Cycles, 1)
	assert.Equal(t, "c2", got.Cycles[0].CycleID)
}

func TestFilterSharedSeriesPassThrough(t *testing.T) {
	t.Parallel()

	got := Filter{Farm: "Fazenda Alvorada"}.Apply(testSnapshot())
	assert.Len(t, got.SoilAnalyses, 1)
}

func TestHarvested(t *testing.T) {
	t.Parallel()

	harvested := testSnapshot().Harvested()
	require.Len(t, harvested, 1)
	assert.Equal(t, "c1", harvested[0].CycleID)
}

func TestCropsAndFarmsOrder(t *testing.T) {
	t.Parallel()

	s := testSnapshot()
	assert.Equal(t, []string{"Soja", "Milho"}, s.Crops())
	assert.Equal(t, []string{"Fazenda Cristalina", "Fazenda Alvorada"}, s.Farms())
}

func TestAvailabilityFlags(t *testing.T) {
	t.Parallel()

	s := testSnapshot()
	assert.True(t, s.HasSoil())
	assert.True(t, s.HasContracts())
	assert.False(t, s.HasMarketPrices())
	assert.False(t, s.HasClimate())
	assert.False(t, s.HasENSO())
}
