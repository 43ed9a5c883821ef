// Package store persists the farm-management schema behind a backend-
// agnostic interface, with SQLite and PostgreSQL implementations.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/agrovista/safra-cli/internal/model"
)

// ErrNotFound marks missing reference data (unknown farm, crop, plot,
// cycle). Callers recover locally: log, skip the operation, move on.
var ErrNotFound = eris.New("store: not found")

// HarvestParams carries the data recorded when a cycle is harvested.
type HarvestParams struct {
	CycleID     string
	Date        time.Time
	YieldKgHa   float64
	MachineName string
	CostPerHa   float64
	Operator    string
}

// CycleRow is the denormalized per-cycle view consumed by the
// analytics snapshot: cycle fields joined with farm, plot, crop, and
// the summed activity cost.
type CycleRow struct {
	CycleID        string     `json:"cycle_id"`
	Farm           string     `json:"farm"`
	PlotID         string     `json:"plot_id"`
	Plot           string     `json:"plot"`
	AreaHa         float64    `json:"area_ha"`
	Crop           string     `json:"crop"`
	Planting       time.Time  `json:"planting"`
	ActualHarvest  *time.Time `json:"actual_harvest,omitempty"`
	YieldKgHa      *float64   `json:"yield_kg_ha,omitempty"`
	TotalCostPerHa float64    `json:"total_cost_per_ha"`
}

// ActivityRow is the denormalized per-activity view with its reporting
// context resolved.
type ActivityRow struct {
	model.FieldActivity
	Farm    string `json:"farm"`
	Plot    string `json:"plot"`
	Crop    string `json:"crop"`
	Machine string `json:"machine,omitempty"`
}

// Store defines the persistence interface for the farm-management
// schema.
type Store interface {
	// Reference data
	SeedReference(ctx context.Context) error
	ListFarms(ctx context.Context) ([]model.Farm, error)
	ListCrops(ctx context.Context) ([]model.Crop, error)
	ListMachines(ctx context.Context) ([]model.Machine, error)
	GetFarmByName(ctx context.Context, name string) (*model.Farm, error)
	GetCropByName(ctx context.Context, name string) (*model.Crop, error)
	GetMachineByName(ctx context.Context, name string) (*model.Machine, error)

	// Plots and cycles
	CreatePlot(ctx context.Context, farmName, identifier string, areaHa float64) (*model.Plot, error)
	ListPlots(ctx context.Context) ([]model.Plot, error)
	GetPlotByIdentifier(ctx context.Context, identifier string) (*model.Plot, error)
	CreateCycle(ctx context.Context, plotID, cropName string, planting time.Time) (*model.CropCycle, error)
	RecordHarvest(ctx context.Context, p HarvestParams) error

	// Event and series ingestion
	InsertActivity(ctx context.Context, act model.FieldActivity) (string, error)
	InsertSoilAnalysis(ctx context.Context, sa model.SoilAnalysis) (string, error)
	InsertSaleContract(ctx context.Context, sc model.SaleContract) (string, error)
	// InsertMarketPrices skips rows that collide with the (date, crop)
	// uniqueness constraint and returns the number actually inserted.
	InsertMarketPrices(ctx context.Context, prices []model.MarketPrice) (int, error)
	UpsertENSOMonths(ctx context.Context, months []model.ENSOMonth) error
	ReplaceClimateHours(ctx context.Context, hours []model.ClimateHour) error

	// Snapshot loads; every slice comes back sorted ascending by its
	// primary timestamp.
	LoadCycleRows(ctx context.Context) ([]CycleRow, error)
	LoadActivityRows(ctx context.Context) ([]ActivityRow, error)
	LoadSoilAnalyses(ctx context.Context) ([]model.SoilAnalysis, error)
	LoadSaleContracts(ctx context.Context) ([]model.SaleContract, error)
	LoadMarketPrices(ctx context.Context) ([]model.MarketPrice, error)
	LoadClimateHours(ctx context.Context) ([]model.ClimateHour, error)
	LoadENSOMonths(ctx context.Context) ([]model.ENSOMonth, error)

	// Lifecycle
	Reset(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close() error
}

// defaultCrops is the immutable crop catalog created on first run.
var defaultCrops = []model.Crop{
	{Name: "Soja", Category: model.CropCommercial, CycleDays: 120},
	{Name: "Milho", Category: model.CropCommercial, CycleDays: 150},
	{Name: "Algodão", Category: model.CropCommercial, CycleDays: 180},
	{Name: "Sorgo", Category: model.CropCover, CycleDays: 90},
	{Name: "Braquiária", Category: model.CropCover, CycleDays: 75},
}

// defaultFarms seeds the demo production units.
var defaultFarms = []model.Farm{
	{Name: "Fazenda Cristalina", Location: "GO"},
	{Name: "Fazenda Boa Esperança", Location: "MT"},
	{Name: "Fazenda Alvorada", Location: "BA"},
}

// defaultMachines seeds the machinery roster.
var defaultMachines = []model.Machine{
	{Name: "John Deere DB74", Type: model.MachinePlanter, HourlyCost: 150, FuelLitresPerH: 25},
	{Name: "Case IH Axial-Flow 9250", Type: model.MachineHarvester, HourlyCost: 220, FuelLitresPerH: 35},
	{Name: "Stara Imperador 3.0", Type: model.MachineSprayer, HourlyCost: 110, FuelLitresPerH: 18},
}
