package model

import "time"

// SoilAnalysis is one laboratory soil sample for a plot. Multiple
// analyses accumulate per plot over time; cycle enrichment selects the
// most recent analysis dated on or before the cycle's planting date.
type SoilAnalysis struct {
	ID            string    `json:"id"`
	PlotID        string    `json:"plot_id"`
	Date          time.Time `json:"date"`
	PH            float64   `json:"ph"`
	PhosphorusPPM float64   `json:"phosphorus_ppm"`
	PotassiumPPM  float64   `json:"potassium_ppm"`
	OrganicMatter float64   `json:"organic_matter_pct"`
}

// MarketPrice is one daily closing price for a crop, unique per
// (date, crop name).
type MarketPrice struct {
	ID         string    `json:"id"`
	Date       time.Time `json:"date"`
	CropName   string    `json:"crop_name"`
	ClosePerKg float64   `json:"close_per_kg"`
}

// ENSOPhase is the El Niño–Southern Oscillation classification of a
// calendar month.
type ENSOPhase string

const (
	PhaseElNino      ENSOPhase = "El Nino"
	PhaseLaNina      ENSOPhase = "La Nina"
	PhaseNeutral     ENSOPhase = "Neutro"
	PhaseUnavailable ENSOPhase = "Não Disponível"
)

// ClassifyONI maps an Oceanic Niño Index anomaly to its phase using the
// NOAA ±0.5 °C thresholds.
func ClassifyONI(index float64) ENSOPhase {
	switch {
	case index >= 0.5:
		return PhaseElNino
	case index <= -0.5:
		return PhaseLaNina
	default:
		return PhaseNeutral
	}
}

// ENSOMonth is one month of the ONI series with its derived phase.
type ENSOMonth struct {
	Year  int       `json:"year"`
	Month int       `json:"month"`
	Index float64   `json:"index"`
	Phase ENSOPhase `json:"phase"`
}

// ClimateHour is one hourly sample from the reference weather station.
type ClimateHour struct {
	Timestamp       time.Time `json:"timestamp"`
	PrecipitationMM float64   `json:"precipitation_mm"`
	TemperatureC    float64   `json:"temperature_c"`
}
