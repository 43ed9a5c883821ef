package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyONI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		index float64
		want  ENSOPhase
	}{
		{"strong el nino", 2.1, PhaseElNino},
		{"threshold el nino", 0.5, PhaseElNino},
		{"upper neutral", 0.49, PhaseNeutral},
		{"zero", 0, PhaseNeutral},
		{"lower neutral", -0.49, PhaseNeutral},
		{"threshold la nina", -0.5, PhaseLaNina},
		{"strong la nina", -1.8, PhaseLaNina},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ClassifyONI(tt.index))
		})
	}
}

func TestSeasonOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, SeasonA, SeasonOf(time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, SeasonA, SeasonOf(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, SeasonB, SeasonOf(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, SeasonB, SeasonOf(time.Date(2024, 10, 15, 0, 0, 0, 0, time.UTC)))
}

func TestCropExpectedHarvest(t *testing.T) {
	t.Parallel()

	soy := Crop{Name: "Soja", Category: CropCommercial, CycleDays: 120}
	planting := time.Date(2024, 10, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 2, 12, 0, 0, 0, 0, time.UTC), soy.ExpectedHarvest(planting))
}

func TestCropCycleHarvested(t *testing.T) {
	t.Parallel()

	cycle := CropCycle{Planting: time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)}
	assert.False(t, cycle.Harvested())

	harvest := time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)
	cycle.ActualHarvest = &harvest
	assert.False(t, cycle.Harvested())

	yield := 3600.0
	cycle.YieldKgHa = &yield
	assert.True(t, cycle.Harvested())
}

func TestSaleContractRevenue(t *testing.T) {
	t.Parallel()

	c := SaleContract{QuantityKg: 60000, PricePerKg: 1.15}
	assert.InDelta(t, 69000, c.Revenue(), 1e-9)
}
