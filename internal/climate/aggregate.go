// Package climate condenses the hourly weather series into per-cycle
// scalar features for reporting and model training.
package climate

import (
	"sort"

	"github.com/agrovista/safra-cli/internal/model"
)

// DefaultExtremeHeatC is the extreme-heat temperature threshold when
// none is configured.
const DefaultExtremeHeatC = 32.0

// Features holds the climate aggregates for one crop cycle.
type Features struct {
	CycleID         string  `json:"cycle_id"`
	TotalPrecipMM   float64 `json:"total_precipitation_mm"`
	MeanTempC       float64 `json:"mean_temp_c"`
	MaxTempC        float64 `json:"max_temp_c"`
	ExtremeHeatDays float64 `json:"extreme_heat_days"`
}

// Options configures the aggregation.
type Options struct {
	// ExtremeHeatC is the temperature above which an hour counts as
	// extreme-heat exposure. Zero means DefaultExtremeHeatC.
	ExtremeHeatC float64
}

// Aggregate computes climate features for every harvested cycle whose
// [planting, harvest] interval contains at least one hourly sample.
// Unharvested cycles and cycles with no samples in range are excluded
// entirely: absence means insufficient data, not zero rainfall.
//
// The hourly series must be sorted ascending by timestamp; interval
// bounds are located by binary search, so each cycle costs O(log m)
// against a series that may span decades.
func Aggregate(cycles []model.CropCycle, hours []model.ClimateHour, opts Options) []Features {
	threshold := opts.ExtremeHeatC
	if threshold == 0 {
		threshold = DefaultExtremeHeatC
	}

	out := make([]Features, 0, len(cycles))
	for _, cycle := range cycles {
		if cycle.ActualHarvest == nil {
			continue
		}
		start, end := cycle.Planting, *cycle.ActualHarvest

		// First sample at or after planting.
		lo := sort.Search(len(hours), func(i int) bool {
			return !hours[i].Timestamp.Before(start)
		})
		// First sample strictly after harvest; the interval is inclusive.
		hi := sort.Search(len(hours), func(i int) bool {
			return hours[i].Timestamp.After(end)
		})
		if lo >= hi {
			continue
		}

		window := hours[lo:hi]
		var precip, tempSum float64
		maxTemp := window[0].TemperatureC
		hotHours := 0
		for _, h := range window {
			precip += h.PrecipitationMM
			tempSum += h.TemperatureC
			if h.TemperatureC > maxTemp {
				maxTemp = h.TemperatureC
			}
			if h.TemperatureC > threshold {
				hotHours++
			}
		}

		out = append(out, Features{
			CycleID:         cycle.ID,
			TotalPrecipMM:   precip,
			MeanTempC:       tempSum / float64(len(window)),
			MaxTempC:        maxTemp,
			ExtremeHeatDays: float64(hotHours) / 24,
		})
	}
	return out
}

// AnnualSummary is one calendar year of the reference climate series.
type AnnualSummary struct {
	Year          int     `json:"year"`
	TotalPrecipMM float64 `json:"total_precipitation_mm"`
	MeanTempC     float64 `json:"mean_temp_c"`
	MaxTempC      float64 `json:"max_temp_c"`
	MinTempC      float64 `json:"min_temp_c"`
}

// Annual aggregates the hourly series per calendar year, for the
// climate dashboard page. Returns years in ascending order.
func Annual(hours []model.ClimateHour) []AnnualSummary {
	if len(hours) == 0 {
		return nil
	}

	byYear := make(map[int]*annualAcc)
	for _, h := range hours {
		y := h.Timestamp.Year()
		acc, ok := byYear[y]
		if !ok {
			acc = &annualAcc{maxTemp: h.TemperatureC, minTemp: h.TemperatureC}
			byYear[y] = acc
		}
		acc.precip += h.PrecipitationMM
		acc.tempSum += h.TemperatureC
		acc.n++
		if h.TemperatureC > acc.maxTemp {
			acc.maxTemp = h.TemperatureC
		}
		if h.TemperatureC < acc.minTemp {
			acc.minTemp = h.TemperatureC
		}
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]AnnualSummary, 0, len(years))
	for _, y := range years {
		acc := byYear[y]
		out = append(out, AnnualSummary{
			Year:          y,
			TotalPrecipMM: acc.precip,
			MeanTempC:     acc.tempSum / float64(acc.n),
			MaxTempC:      acc.maxTemp,
			MinTempC:      acc.minTemp,
		})
	}
	return out
}

type annualAcc struct {
	precip  float64
	tempSum float64
	maxTemp float64
	minTemp float64
	n       int
}
