// Package model defines the typed records shared across the safra-cli
// analytics pipeline: farms, plots, crops, production cycles, field
// activities, and the auxiliary time series they are enriched with.
package model

import "time"

// CropCategory distinguishes cash crops from cover crops.
type CropCategory string

const (
	CropCommercial CropCategory = "Comercial"
	CropCover      CropCategory = "Cobertura"
)

// MachineType classifies farm machinery by function.
type MachineType string

const (
	MachinePlanter   MachineType = "Plantadeira"
	MachineHarvester MachineType = "Colheitadeira"
	MachineSprayer   MachineType = "Pulverizador"
)

// Farm is a production unit owning zero or more plots.
type Farm struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Plot is a subdivision of a farm with fixed area, the unit of
// agronomic tracking.
type Plot struct {
	ID         string  `json:"id"`
	FarmID     string  `json:"farm_id"`
	Identifier string  `json:"identifier"`
	AreaHa     float64 `json:"area_ha"`
}

// Crop is immutable reference data for a cultivated species.
type Crop struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Category  CropCategory `json:"category"`
	CycleDays int          `json:"cycle_days"`
}

// ExpectedHarvest returns the projected harvest date for a planting date.
func (c Crop) ExpectedHarvest(planting time.Time) time.Time {
	return planting.AddDate(0, 0, c.CycleDays)
}

// Machine is reference data for a piece of farm machinery.
type Machine struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Type           MachineType `json:"type"`
	HourlyCost     float64     `json:"hourly_cost"`
	FuelLitresPerH float64     `json:"fuel_l_per_h"`
}
