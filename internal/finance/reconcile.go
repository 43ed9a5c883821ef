// Package finance reconciles per-cycle profitability and market
// opportunity cost from harvest, contract, and market price data.
package finance

import (
	"time"

	"github.com/agrovista/safra-cli/internal/align"
	"github.com/agrovista/safra-cli/internal/model"
)

// Cycle is the financial view of one harvested crop cycle.
type Cycle struct {
	ID        string   `json:"id"`
	Crop      string   `json:"crop"`
	AreaHa    float64  `json:"area_ha"`
	YieldKgHa *float64 `json:"yield_kg_ha"`
	CostPerHa float64  `json:"cost_per_ha"`
}

// Summary is the reconciled result for one cycle. Realized marks
// whether the profit comes from actual sale contracts rather than the
// catalog-price fallback.
type Summary struct {
	CycleID      string  `json:"cycle_id"`
	RevenuePerHa float64 `json:"revenue_per_ha"`
	CostPerHa    float64 `json:"cost_per_ha"`
	ProfitPerHa  float64 `json:"profit_per_ha"`
	Realized     bool    `json:"realized"`
}

// Summaries reconciles every cycle with a known yield. When one or
// more sale contracts exist for a cycle, revenue per hectare is the
// summed contract value over the plot area; otherwise it falls back to
// yield × catalog price. A cycle reports exactly one of the two, never
// a blend. Cycles without yield, or without both a contract and a
// catalog price, are skipped: their profitability is unknowable, not
// zero.
func Summaries(cycles []Cycle, contracts []model.SaleContract, catalog map[string]float64) []Summary {
	revenueByCycle := make(map[string]float64)
	for _, c := range contracts {
		revenueByCycle[c.CycleID] += c.Revenue()
	}

	out := make([]Summary, 0, len(cycles))
	for _, cycle := range cycles {
		if cycle.YieldKgHa == nil {
			continue
		}

		if gross, ok := revenueByCycle[cycle.ID]; ok && cycle.AreaHa > 0 {
			revenue := gross / cycle.AreaHa
			out = append(out, Summary{
				CycleID:      cycle.ID,
				RevenuePerHa: revenue,
				CostPerHa:    cycle.CostPerHa,
				ProfitPerHa:  revenue - cycle.CostPerHa,
				Realized:     true,
			})
			continue
		}

		price, ok := catalog[cycle.Crop]
		if !ok {
			continue
		}
		revenue := *cycle.YieldKgHa * price
		out = append(out, Summary{
			CycleID:      cycle.ID,
			RevenuePerHa: revenue,
			CostPerHa:    cycle.CostPerHa,
			ProfitPerHa:  revenue - cycle.CostPerHa,
		})
	}
	return out
}

// Benchmark compares one sale contract against the market close nearest
// to its sale date. Available is false when the crop has no market
// price series at all.
type Benchmark struct {
	CycleID     string    `json:"cycle_id"`
	Crop        string    `json:"crop"`
	SaleDate    time.Time `json:"sale_date"`
	SalePerKg   float64   `json:"sale_per_kg"`
	MarketPerKg float64   `json:"market_per_kg"`
	MarketDate  time.Time `json:"market_date"`
	DeltaPct    float64   `json:"delta_pct"`
	Available   bool      `json:"available"`
}

// ContractBenchmarks aligns each contract with the same-crop market
// close nearest its sale date, in either time direction with
// equidistant ties resolving toward the earlier close. DeltaPct is the
// contract price relative to that close: positive means the contract
// beat the market of the day.
func ContractBenchmarks(cycles []Cycle, contracts []model.SaleContract, prices []model.MarketPrice) []Benchmark {
	cropByCycle := make(map[string]string, len(cycles))
	for _, c := range cycles {
		cropByCycle[c.ID] = c.Crop
	}

	events := make([]align.Point, len(contracts))
	for i, c := range contracts {
		events[i] = align.Point{Time: c.SaleDate, Key: cropByCycle[c.CycleID]}
	}
	closes := align.Nearest(events, prices, align.By[model.MarketPrice]{
		Time: func(p model.MarketPrice) time.Time { return p.Date },
		Key:  func(p model.MarketPrice) string { return p.CropName },
	})

	out := make([]Benchmark, 0, len(contracts))
	for i, contract := range contracts {
		crop, ok := cropByCycle[contract.CycleID]
		if !ok {
			continue
		}
		b := Benchmark{
			CycleID:   contract.CycleID,
			Crop:      crop,
			SaleDate:  contract.SaleDate,
			SalePerKg: contract.PricePerKg,
		}
		if p := closes[i]; p != nil {
			b.MarketPerKg = p.ClosePerKg
			b.MarketDate = p.Date
			if p.ClosePerKg > 0 {
				b.DeltaPct = (contract.PricePerKg - p.ClosePerKg) / p.ClosePerKg * 100
			}
			b.Available = true
		}
		out = append(out, b)
	}
	return out
}

// Opportunity is the market opportunity-cost result for one crop over
// a filtered window. Available is false when either the contract or
// the market price source had no rows in the window; callers render a
// "data unavailable" state instead of zeroes.
type Opportunity struct {
	Crop            string  `json:"crop"`
	RealizedRevenue float64 `json:"realized_revenue"`
	PeakPricePerKg  float64 `json:"peak_price_per_kg"`
	PeakRevenue     float64 `json:"peak_revenue"`
	OpportunityCost float64 `json:"opportunity_cost"`
	Available       bool    `json:"available"`
}

// OpportunityCost compares revenue realized by the crop's contracts in
// [from, to] against selling the same cycles' full production at the
// window's peak market price. The gap is clamped at zero: selling
// above the later peak is not a negative cost.
func OpportunityCost(cycles []Cycle, contracts []model.SaleContract, prices []model.MarketPrice, crop string, from, to time.Time) Opportunity {
	opp := Opportunity{Crop: crop}

	cycleByID := make(map[string]Cycle, len(cycles))
	for _, c := range cycles {
		cycleByID[c.ID] = c
	}

	var realized, production float64
	counted := make(map[string]bool)
	matched := false
	for _, contract := range contracts {
		cycle, ok := cycleByID[contract.CycleID]
		if !ok || cycle.Crop != crop {
			continue
		}
		if contract.SaleDate.Before(from) || contract.SaleDate.After(to) {
			continue
		}
		matched = true
		realized += contract.Revenue()
		if cycle.YieldKgHa != nil && !counted[cycle.ID] {
			counted[cycle.ID] = true
			production += *cycle.YieldKgHa * cycle.AreaHa
		}
	}
	if !matched {
		return opp
	}

	peak, havePrice := 0.0, false
	for _, p := range prices {
		if p.CropName != crop || p.Date.Before(from) || p.Date.After(to) {
			continue
		}
		if !havePrice || p.ClosePerKg > peak {
			peak, havePrice = p.ClosePerKg, true
		}
	}
	if !havePrice {
		return opp
	}

	opp.RealizedRevenue = realized
	opp.PeakPricePerKg = peak
	opp.PeakRevenue = production * peak
	if gap := opp.PeakRevenue - realized; gap > 0 {
		opp.OpportunityCost = gap
	}
	opp.Available = true
	return opp
}
