package climate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovista/safra-cli/internal/model"
)

func hourly(start time.Time, temps []float64, precip []float64) []model.ClimateHour {
	hours := make([]model.ClimateHour, len(temps))
	for i := range temps {
		var p float64
		if precip != nil {
			p = precip[i]
		}
		hours[i] = model.ClimateHour{
			Timestamp:       start.Add(time.Duration(i) * time.Hour),
			TemperatureC:    temps[i],
			PrecipitationMM: p,
		}
	}
	return hours
}

func harvestedCycle(id string, planting, harvest time.Time) model.CropCycle {
	yield := 3600.0
	return model.CropCycle{
		ID:            id,
		Planting:      planting,
		ActualHarvest: &harvest,
		YieldKgHa:     &yield,
	}
}

func TestAggregateExtremeHeatDays(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	// 48 hourly samples: first 24 above 32 °C, last 24 below.
	temps := make([]float64, 48)
	for i := range temps {
		if i < 24 {
			temps[i] = 35
		} else {
			temps[i] = 28
		}
	}
	hours := hourly(start, temps, nil)

	cycle := harvestedCycle("s1", start, start.Add(47*time.Hour))
	got := Aggregate([]model.CropCycle{cycle}, hours, Options{})

	require.Len(t, got, 1)
	assert.InDelta(t, 1.0, got[0].ExtremeHeatDays, 1e-9)
}

func TestAggregateTotalsAndMeans(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	hours := hourly(start, []float64{20, 30, 40, 10}, []float64{1.5, 0, 2.5, 0})

	cycle := harvestedCycle("s1", start, start.Add(3*time.Hour))
	got := Aggregate([]model.CropCycle{cycle}, hours, Options{})

	require.Len(t, got, 1)
	assert.InDelta(t, 4.0, got[0].TotalPrecipMM, 1e-9)
	assert.InDelta(t, 25.0, got[0].MeanTempC, 1e-9)
	assert.InDelta(t, 40.0, got[0].MaxTempC, 1e-9)
	assert.InDelta(t, 1.0/24, got[0].ExtremeHeatDays, 1e-9)
}

func TestAggregateWindowBounds(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	hours := hourly(start, []float64{10, 20, 30, 40, 50}, []float64{1, 1, 1, 1, 1})

	// Cycle covers only hours 1..3 inclusive.
	cycle := harvestedCycle("s1", start.Add(1*time.Hour), start.Add(3*time.Hour))
	got := Aggregate([]model.CropCycle{cycle}, hours, Options{})

	require.Len(t, got, 1)
	assert.InDelta(t, 3.0, got[0].TotalPrecipMM, 1e-9)
	assert.InDelta(t, 30.0, got[0].MeanTempC, 1e-9)
	assert.InDelta(t, 40.0, got[0].MaxTempC, 1e-9)
}

func TestAggregateExcludesUnharvested(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	hours := hourly(start, []float64{25, 25}, nil)

	unharvested := model.CropCycle{ID: "open", Planting: start}
	got := Aggregate([]model.CropCycle{unharvested}, hours, Options{})
	assert.Empty(t, got)
}

func TestAggregateExcludesCycleOutsideSeries(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	hours := hourly(start, []float64{25, 25}, nil)

	// Interval entirely after the climate series: excluded, not zero-filled.
	cycle := harvestedCycle("late", start.AddDate(1, 0, 0), start.AddDate(1, 0, 10))
	got := Aggregate([]model.CropCycle{cycle}, hours, Options{})
	assert.Empty(t, got)
}

func TestAggregateCustomThreshold(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	hours := hourly(start, []float64{29, 31, 33}, nil)
	cycle := harvestedCycle("s1", start, start.Add(2*time.Hour))

	got := Aggregate([]model.CropCycle{cycle}, hours, Options{ExtremeHeatC: 30})
	require.Len(t, got, 1)
	assert.InDelta(t, 2.0/24, got[0].ExtremeHeatDays, 1e-9)
}

func TestAnnual(t *testing.T) {
	t.Parallel()

	dec := time.Date(2023, 12, 31, 22, 0, 0, 0, time.UTC)
	hours := []model.ClimateHour{
		{Timestamp: dec, TemperatureC: 20, PrecipitationMM: 1},
		{Timestamp: dec.Add(time.Hour), TemperatureC: 22, PrecipitationMM: 0},
		{Timestamp: dec.Add(2 * time.Hour), TemperatureC: 30, PrecipitationMM: 5}, // 2024
		{Timestamp: dec.Add(3 * time.Hour), TemperatureC: 10, PrecipitationMM: 0}, // 2024
	}

	got := Annual(hours)
	require.Len(t, got, 2)

	assert.Equal(t, 2023, got[0].Year)
	assert.InDelta(t, 1, got[0].TotalPrecipMM, 1e-9)
	assert.InDelta(t, 21, got[0].MeanTempC, 1e-9)

	assert.Equal(t, 2024, got[1].Year)
	assert.InDelta(t, 5, got[1].TotalPrecipMM, 1e-9)
	assert.InDelta(t, 20, got[1].MeanTempC, 1e-9)
	assert.InDelta(t, 30, got[1].MaxTempC, 1e-9)
	assert.InDelta(t, 10, got[1].MinTempC, 1e-9)
}

func TestAnnualEmpty(t *testing.T) {
	t.Parallel()
	assert.Nil(t, Annual(nil))
}
