// Package seed populates the store with a deterministic synthetic
// history: several harvest years of cycles, field operations with a
// machinery cost model, soil analyses, and sale contracts.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/agrovista/safra-cli/internal/model"
	"github.com/agrovista/safra-cli/internal/store"
)

// Config controls the generated volume. Zero values take defaults.
type Config struct {
	Seed         int64
	StartYear    int
	Years        int
	PlotsPerFarm int
}

// DefaultConfig mirrors the demo dataset: 8 harvest years across 3
// farms with roughly 80 plots.
func DefaultConfig() Config {
	return Config{Seed: 42, StartYear: 2017, Years: 8, PlotsPerFarm: 27}
}

const dieselPricePerL = 5.80

// workRateHaPerH is how many hectares each machine type covers per
// hour; the inverse prices machine time into a per-hectare cost.
var workRateHaPerH = map[model.MachineType]float64{
	model.MachinePlanter:   8,
	model.MachineHarvester: 7,
	model.MachineSprayer:   20,
}

// inputCost is the agronomic input baseline per hectare by activity.
type inputCost struct {
	product string
	unit    string
	qty     float64
	cost    float64
}

var inputsByCrop = map[string]struct {
	planting  inputCost
	baseYield float64
}{
	"Soja":       {inputCost{"Semente de Soja", "kg/ha", 60, 450}, 3500},
	"Milho":      {inputCost{"Semente de Milho", "kg/ha", 20, 520}, 5800},
	"Algodão":    {inputCost{"Semente de Algodão", "kg/ha", 12, 680}, 4200},
	"Sorgo":      {inputCost{"Semente de Sorgo", "kg/ha", 10, 180}, 3000},
	"Braquiária": {inputCost{"Semente de Braquiária", "kg/ha", 8, 120}, 8000},
}

var fertilizer = inputCost{"MAP 11-52-00", "kg/ha", 300, 620}
var herbicide = inputCost{"Glifosato 480", "L/ha", 2.5, 95}

// Seeder generates the synthetic dataset through the store interface,
// so it works against both backends.
type Seeder struct {
	st    store.Store
	faker *gofakeit.Faker
	cfg   Config

	machines map[model.MachineType]model.Machine
	crops    map[string]model.Crop
}

func New(st store.Store, cfg Config) *Seeder {
	def := DefaultConfig()
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}
	if cfg.StartYear == 0 {
		cfg.StartYear = def.StartYear
	}
	if cfg.Years == 0 {
		cfg.Years = def.Years
	}
	if cfg.PlotsPerFarm == 0 {
		cfg.PlotsPerFarm = def.PlotsPerFarm
	}
	return &Seeder{st: st, faker: gofakeit.New(cfg.Seed), cfg: cfg}
}

// Run wipes the store and regenerates everything. The same seed always
// produces the same dataset.
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.st.Reset(ctx); err != nil {
		return err
	}
	if err := s.st.SeedReference(ctx); err != nil {
		return err
	}
	if err := s.loadReference(ctx); err != nil {
		return err
	}

	farms, err := s.st.ListFarms(ctx)
	if err != nil {
		return err
	}

	operators := make([]string, 8)
	for i := range operators {
		operators[i] = s.faker.Name()
	}

	var plots []model.Plot
	taken := make(map[string]bool, len(farms))
	for _, farm := range farms {
		prefix := plotPrefix(farm.Name, taken)
		for i := 1; i <= s.cfg.PlotsPerFarm; i++ {
			area := s.faker.Float64Range(40, 220)
			plot, err := s.st.CreatePlot(ctx, farm.Name, fmt.Sprintf("%s-%02d", prefix, i), round1(area))
			if err != nil {
				return err
			}
			plots = append(plots, *plot)
		}
	}

	cycles := 0
	for year := s.cfg.StartYear; year < s.cfg.StartYear+s.cfg.Years; year++ {
		for _, plot := range plots {
			// Season B: summer planting, almost every plot.
			if s.faker.Float64Range(0, 1) < 0.95 {
				planting := time.Date(year, time.Month(s.faker.IntRange(9, 11)), s.faker.IntRange(1, 28), 0, 0, 0, 0, time.UTC)
				if err := s.growCycle(ctx, plot, "Soja", planting, operators); err != nil {
					return err
				}
				cycles++
			}
			// Season A: second crop early the following year.
			if year+1 < s.cfg.StartYear+s.cfg.Years && s.faker.Float64Range(0, 1) < 0.70 {
				crop := s.pickSecondCrop()
				planting := time.Date(year+1, time.Month(s.faker.IntRange(1, 3)), s.faker.IntRange(1, 28), 0, 0, 0, 0, time.UTC)
				if err := s.growCycle(ctx, plot, crop, planting, operators); err != nil {
					return err
				}
				cycles++
			}
		}

		// One soil analysis per plot per year, before summer planting.
		for _, plot := range plots {
			date := time.Date(year, time.Month(s.faker.IntRange(6, 8)), s.faker.IntRange(1, 28), 0, 0, 0, 0, time.UTC)
			_, err := s.st.InsertSoilAnalysis(ctx, model.SoilAnalysis{
				PlotID:        plot.ID,
				Date:          date,
				PH:            round1(s.faker.Float64Range(5.2, 6.8)),
				PhosphorusPPM: round1(s.faker.Float64Range(8, 25)),
				PotassiumPPM:  round1(s.faker.Float64Range(60, 140)),
				OrganicMatter: round1(s.faker.Float64Range(2.0, 4.5)),
			})
			if err != nil {
				return err
			}
		}
	}

	zap.L().Info("seed complete",
		zap.Int("plots", len(plots)),
		zap.Int("cycles", cycles),
		zap.Int("years", s.cfg.Years))
	return nil
}

// plotPrefix derives the plot identifier prefix from the initials of
// the farm name's distinguishing words ("Fazenda Boa Esperança" → "BE").
// Plot identifiers are globally unique, so farms whose initials
// coincide get a numeric suffix.
func plotPrefix(name string, taken map[string]bool) string {
	words := strings.Fields(name)
	if len(words) > 1 {
		words = words[1:]
	}
	var b strings.Builder
	for _, w := range words {
		b.WriteRune(unicode.ToUpper([]rune(w)[0]))
	}
	prefix := b.String()
	if prefix == "" {
		prefix = "T"
	}
	if taken[prefix] {
		for n := 2; ; n++ {
			if p := fmt.Sprintf("%s%d", prefix, n); !taken[p] {
				prefix = p
				break
			}
		}
	}
	taken[prefix] = true
	return prefix
}

func (s *Seeder) loadReference(ctx context.Context) error {
	machines, err := s.st.ListMachines(ctx)
	if err != nil {
		return err
	}
	s.machines = make(map[model.MachineType]model.Machine, len(machines))
	for _, m := range machines {
		s.machines[m.Type] = m
	}

	crops, err := s.st.ListCrops(ctx)
	if err != nil {
		return err
	}
	s.crops = make(map[string]model.Crop, len(crops))
	for _, c := range crops {
		s.crops[c.Name] = c
	}
	return nil
}

func (s *Seeder) pickSecondCrop() string {
	r := s.faker.Float64Range(0, 1)
	switch {
	case r < 0.60:
		return "Milho"
	case r < 0.80:
		return "Algodão"
	case r < 0.90:
		return "Sorgo"
	default:
		return "Braquiária"
	}
}

// growCycle creates one full cycle: planting, fertilization, sprayings,
// and, when mature, the harvest with its sale contracts.
func (s *Seeder) growCycle(ctx context.Context, plot model.Plot, cropName string, planting time.Time, operators []string) error {
	cycle, err := s.st.CreateCycle(ctx, plot.ID, cropName, planting)
	if err != nil {
		return err
	}
	profile, ok := inputsByCrop[cropName]
	if !ok {
		return eris.Errorf("seed: no input profile for crop %q", cropName)
	}
	crop := s.crops[cropName]

	operator := operators[s.faker.IntRange(0, len(operators)-1)]

	plantCost := profile.planting.cost + s.machineCostPerHa(model.MachinePlanter)
	if err := s.activity(ctx, cycle.ID, "Plantio", profile.planting, planting, model.MachinePlanter, operator, plantCost); err != nil {
		return err
	}

	fertDate := planting.AddDate(0, 0, s.faker.IntRange(15, 30))
	if err := s.activity(ctx, cycle.ID, "Adubação", fertilizer, fertDate, "", operator, fertilizer.cost); err != nil {
		return err
	}

	sprays := s.faker.IntRange(2, 4)
	for i := 0; i < sprays; i++ {
		sprayDate := planting.AddDate(0, 0, s.faker.IntRange(20, crop.CycleDays-15))
		sprayCost := herbicide.cost + s.machineCostPerHa(model.MachineSprayer)
		if err := s.activity(ctx, cycle.ID, "Pulverização", herbicide, sprayDate, model.MachineSprayer, operator, sprayCost); err != nil {
			return err
		}
	}

	expected := crop.ExpectedHarvest(planting)
	if expected.After(time.Date(s.cfg.StartYear+s.cfg.Years, 7, 1, 0, 0, 0, 0, time.UTC)) {
		// Still in the field at the end of the simulated history.
		return nil
	}

	yield := profile.baseYield * s.faker.Float64Range(0.80, 1.18)
	harvestDate := expected.AddDate(0, 0, s.faker.IntRange(-7, 10))
	harvestCost := s.machineCostPerHa(model.MachineHarvester)
	err = s.st.RecordHarvest(ctx, store.HarvestParams{
		CycleID:     cycle.ID,
		Date:        harvestDate,
		YieldKgHa:   round1(yield),
		MachineName: s.machines[model.MachineHarvester].Name,
		CostPerHa:   round1(harvestCost),
		Operator:    operator,
	})
	if err != nil {
		return err
	}

	if crop.Category == model.CropCover {
		return nil
	}
	return s.sellProduction(ctx, cycle.ID, cropName, round1(yield)*plot.AreaHa, harvestDate)
}

func (s *Seeder) activity(ctx context.Context, cycleID, kind string, in inputCost, date time.Time, machineType model.MachineType, operator string, costPerHa float64) error {
	var machineID *string
	if machineType != "" {
		m := s.machines[machineType]
		machineID = &m.ID
	}
	cost := round1(costPerHa)
	_, err := s.st.InsertActivity(ctx, model.FieldActivity{
		CycleID:   cycleID,
		Type:      kind,
		Product:   in.product,
		Quantity:  in.qty,
		Unit:      in.unit,
		Date:      date,
		MachineID: machineID,
		Operator:  &operator,
		CostPerHa: &cost,
	})
	return err
}

// machineCostPerHa prices one pass: machine time plus diesel, divided
// by the work rate.
func (s *Seeder) machineCostPerHa(t model.MachineType) float64 {
	m := s.machines[t]
	hoursPerHa := 1 / workRateHaPerH[t]
	return hoursPerHa * (m.HourlyCost + m.FuelLitresPerH*dieselPricePerL)
}

// sellProduction books one or two forward contracts covering 80-95% of
// the production at the catalog price ±10%.
func (s *Seeder) sellProduction(ctx context.Context, cycleID, cropName string, productionKg float64, harvest time.Time) error {
	catalog := map[string]float64{"Soja": 1.10, "Milho": 0.85, "Algodão": 8.50}
	base, ok := catalog[cropName]
	if !ok {
		return nil
	}

	soldKg := productionKg * s.faker.Float64Range(0.80, 0.95)
	parts := s.faker.IntRange(1, 2)
	for i := 0; i < parts; i++ {
		qty := soldKg / float64(parts)
		_, err := s.st.InsertSaleContract(ctx, model.SaleContract{
			CycleID:    cycleID,
			SaleDate:   harvest.AddDate(0, 0, s.faker.IntRange(10, 90)),
			QuantityKg: round1(qty),
			PricePerKg: round3(base * s.faker.Float64Range(0.90, 1.10)),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func round1(v float64) float64 { return float64(int(v*10+0.5)) / 10 }

func round3(v float64) float64 { return float64(int(v*1000+0.5)) / 1000 }
