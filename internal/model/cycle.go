package model

import "time"

// Season splits the agricultural year into the two Brazilian planting
// windows.
type Season string

const (
	SeasonA Season = "Season A (Safrinha)"
	SeasonB Season = "Season B (Verão)"
)

// SeasonOf derives the season from a planting date: first-semester
// plantings are the safrinha window, second-semester the summer crop.
func SeasonOf(planting time.Time) Season {
	if planting.Month() <= time.June {
		return SeasonA
	}
	return SeasonB
}

// CropCycle is one planting-to-harvest production cycle (safra) on a
// plot. It is created at planting and mutated exactly once at harvest,
// which sets ActualHarvest and YieldKgHa.
type CropCycle struct {
	ID              string     `json:"id"`
	PlotID          string     `json:"plot_id"`
	CropID          string     `json:"crop_id"`
	Planting        time.Time  `json:"planting"`
	ExpectedHarvest time.Time  `json:"expected_harvest"`
	ActualHarvest   *time.Time `json:"actual_harvest,omitempty"`
	YieldKgHa       *float64   `json:"yield_kg_ha,omitempty"`
}

// Harvested reports whether the cycle has both a harvest date and a
// recorded yield.
func (c CropCycle) Harvested() bool {
	return c.ActualHarvest != nil && c.YieldKgHa != nil
}

// ActivityHarvest is the activity type recorded alongside a harvest.
const ActivityHarvest = "Colheita"

// FieldActivity is one operation performed on a cycle, with its cost
// per hectare. MachineID and Operator are optional; CostPerHa may be
// absent when the source record carried a malformed value.
type FieldActivity struct {
	ID        string    `json:"id"`
	CycleID   string    `json:"cycle_id"`
	Type      string    `json:"type"`
	Product   string    `json:"product,omitempty"`
	Quantity  float64   `json:"quantity"`
	Unit      string    `json:"unit"`
	Date      time.Time `json:"date"`
	MachineID *string   `json:"machine_id,omitempty"`
	Operator  *string   `json:"operator,omitempty"`
	CostPerHa *float64  `json:"cost_per_ha,omitempty"`
}

// SaleContract records a (partial) sale of a cycle's production.
type SaleContract struct {
	ID         string    `json:"id"`
	CycleID    string    `json:"cycle_id"`
	SaleDate   time.Time `json:"sale_date"`
	QuantityKg float64   `json:"quantity_kg"`
	PricePerKg float64   `json:"price_per_kg"`
}

// Revenue returns the gross contract value.
func (s SaleContract) Revenue() float64 {
	return s.QuantityKg * s.PricePerKg
}
