// Package anomaly flags operational cost outliers by comparing each
// activity's cost per hectare against the historical baseline for its
// activity type.
package anomaly

import (
	"math"
	"time"
)

// Config holds the detector thresholds.
type Config struct {
	// MinSamples is the minimum number of historical cost observations
	// an activity type needs before it is checked at all. Types below
	// the floor are skipped silently: too few points for a meaningful
	// baseline.
	MinSamples int `json:"min_samples"`
	// ZScore is the multiplier k in the μ + k·σ upper threshold.
	ZScore float64 `json:"z_score"`
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{MinSamples: 5, ZScore: 2.0}
}

// Record is one cost-bearing field activity with its reporting context.
// CostPerHa is nil when the source value was missing or malformed;
// such records contribute to neither baselines nor checks.
type Record struct {
	Date         time.Time `json:"date"`
	Operator     string    `json:"operator"`
	Farm         string    `json:"farm"`
	Plot         string    `json:"plot"`
	ActivityType string    `json:"activity_type"`
	CostPerHa    *float64  `json:"cost_per_ha"`
}

// Anomaly is one flagged record with its baseline context.
type Anomaly struct {
	Record
	CostObserved float64 `json:"cost_observed"`
	CostExpected float64 `json:"cost_expected"`
	PctDeviation float64 `json:"pct_deviation"`
}

// Report is the outcome of one detection pass. A pass that found
// nothing is a positive "no anomalies" signal, not an empty error
// state; callers must branch on Clean.
type Report struct {
	Anomalies []Anomaly `json:"anomalies"`
	// CheckedTypes counts activity types that had a sufficient
	// historical baseline and were actually inspected.
	CheckedTypes int `json:"checked_types"`
}

// Clean reports whether the pass found no anomalies.
func (r Report) Clean() bool {
	return len(r.Anomalies) == 0
}

// Detect inspects the current filtered records against baselines built
// from the historical reference set. It is pure: degenerate input
// (empty sets, all-nil costs) yields a clean report, never an error.
//
// Baselines use the sample standard deviation (n−1). Activity types
// are visited in order of first appearance in the current set, records
// in input order, so reruns over the same snapshot are bit-identical.
func Detect(current, history []Record, cfg Config) Report {
	if cfg.MinSamples <= 0 {
		cfg.MinSamples = DefaultConfig().MinSamples
	}
	if cfg.ZScore == 0 {
		cfg.ZScore = DefaultConfig().ZScore
	}

	costsByType := make(map[string][]float64)
	for _, r := range history {
		if r.CostPerHa == nil {
			continue
		}
		costsByType[r.ActivityType] = append(costsByType[r.ActivityType], *r.CostPerHa)
	}

	var report Report
	seen := make(map[string]bool)
	for _, probe := range current {
		actType := probe.ActivityType
		if actType == "" || seen[actType] {
			continue
		}
		seen[actType] = true

		costs := costsByType[actType]
		if len(costs) < cfg.MinSamples {
			continue
		}
		report.CheckedTypes++

		mean, stddev := meanStddev(costs)
		upper := mean + cfg.ZScore*stddev

		for _, r := range current {
			if r.ActivityType != actType || r.CostPerHa == nil {
				continue
			}
			cost := *r.CostPerHa
			if cost <= upper {
				continue
			}
			report.Anomalies = append(report.Anomalies, Anomaly{
				Record:       r,
				CostObserved: cost,
				CostExpected: mean,
				PctDeviation: (cost - mean) / mean * 100,
			})
		}
	}
	return report
}

// meanStddev returns the mean and sample standard deviation (n−1
// denominator) of xs. A single observation has zero deviation.
func meanStddev(xs []float64) (mean, stddev float64) {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean = sum / float64(len(xs))

	if len(xs) < 2 {
		return mean, 0
	}
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(xs)-1))
}
