// Package snapshot loads the full analytical dataset from the store in
// one pass, so every downstream computation works over the same
// in-memory view.
package snapshot

import (
	"context"
	"time"

	"github.com/agrovista/safra-cli/internal/model"
	"github.com/agrovista/safra-cli/internal/store"
)

// Snapshot is the denormalized dataset every analysis runs against.
// Optional sources (market prices, climate, ENSO) may be empty; callers
// check the Has* accessors before depending on them.
type Snapshot struct {
	Cycles        []store.CycleRow
	Activities    []store.ActivityRow
	SoilAnalyses  []model.SoilAnalysis
	SaleContracts []model.SaleContract
	MarketPrices  []model.MarketPrice
	ClimateHours  []model.ClimateHour
	ENSOMonths    []model.ENSOMonth
}

// Load reads every table the analytics need. Slices come back in the
// store's canonical ascending time order.
func Load(ctx context.Context, st store.Store) (*Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)
	if snap.Cycles, err = st.LoadCycleRows(ctx); err != nil {
		return nil, err
	}
	if snap.Activities, err = st.LoadActivityRows(ctx); err != nil {
		return nil, err
	}
	if snap.SoilAnalyses, err = st.LoadSoilAnalyses(ctx); err != nil {
		return nil, err
	}
	if snap.SaleContracts, err = st.LoadSaleContracts(ctx); err != nil {
		return nil, err
	}
	if snap.MarketPrices, err = st.LoadMarketPrices(ctx); err != nil {
		return nil, err
	}
	if snap.ClimateHours, err = st.LoadClimateHours(ctx); err != nil {
		return nil, err
	}
	if snap.ENSOMonths, err = st.LoadENSOMonths(ctx); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *Snapshot) HasMarketPrices() bool { return len(s.MarketPrices) > 0 }
func (s *Snapshot) HasClimate() bool      { return len(s.ClimateHours) > 0 }
func (s *Snapshot) HasENSO() bool         { return len(s.ENSOMonths) > 0 }
func (s *Snapshot) HasSoil() bool         { return len(s.SoilAnalyses) > 0 }
func (s *Snapshot) HasContracts() bool    { return len(s.SaleContracts) > 0 }

// Harvested returns the cycles with a recorded harvest and yield.
func (s *Snapshot) Harvested() []store.CycleRow {
	var out []store.CycleRow
	for _, c := range s.Cycles {
		if c.ActualHarvest != nil && c.YieldKgHa != nil {
			out = append(out, c)
		}
	}
	return out
}

// Crops lists the distinct crop names present, in first-planting order.
func (s *Snapshot) Crops() []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range s.Cycles {
		if !seen[c.Crop] {
			seen[c.Crop] = true
			out = append(out, c.Crop)
		}
	}
	return out
}

// Farms lists the distinct farm names present, in first-planting order.
func (s *Snapshot) Farms() []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range s.Cycles {
		if !seen[c.Farm] {
			seen[c.Farm] = true
			out = append(out, c.Farm)
		}
	}
	return out
}

// Filter narrows a snapshot to a subset of cycles. Zero values mean
// "no constraint on this dimension".
type Filter struct {
	Year   int
	Season model.Season
	Farm   string
	Crop   string
	From   time.Time
	To     time.Time
}

func (f Filter) matches(c store.CycleRow) bool {
	if f.Year != 0 && c.Planting.Year() != f.Year {
		return false
	}
	if f.Season != "" && model.SeasonOf(c.Planting) != f.Season {
		return false
	}
	if f.Farm != "" && c.Farm != f.Farm {
		return false
	}
	if f.Crop != "" && c.Crop != f.Crop {
		return false
	}
	if !f.From.IsZero() && c.Planting.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && c.Planting.After(f.To) {
		return false
	}
	return true
}

// Apply returns a copy of the snapshot restricted to the cycles the
// filter admits. Activities and contracts follow their cycles; the
// shared series (soil, prices, climate, ENSO) pass through untouched.
func (f Filter) Apply(s *Snapshot) *Snapshot {
	keep := map[string]bool{}
	var cycles []store.CycleRow
	for _, c := range s.Cycles {
		if f.matches(c) {
			keep[c.CycleID] = true
			cycles = append(cycles, c)
		}
	}

	var activities []store.ActivityRow
	for _, a := range s.Activities {
		if keep[a.CycleID] {
			activities = append(activities, a)
		}
	}

	var contracts []model.SaleContract
	for _, sc := range s.SaleContracts {
		if keep[sc.CycleID] {
			contracts = append(contracts, sc)
		}
	}

	return &Snapshot{
		Cycles:        cycles,
		Activities:    activities,
		SoilAnalyses:  s.SoilAnalyses,
		SaleContracts: contracts,
		MarketPrices:  s.MarketPrices,
		ClimateHours:  s.ClimateHours,
		ENSOMonths:    s.ENSOMonths,
	}
}
