// Package fusion assembles the model-training dataset: one flat row
// per harvested cycle, fusing yield, cost, soil chemistry, climate
// aggregates, and the ENSO phase of the planting month.
package fusion

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/agrovista/safra-cli/internal/align"
	"github.com/agrovista/safra-cli/internal/climate"
	"github.com/agrovista/safra-cli/internal/enso"
	"github.com/agrovista/safra-cli/internal/model"
	"github.com/agrovista/safra-cli/internal/snapshot"
)

// Row is one training example. YieldKgHa is the target.
type Row struct {
	CycleID         string
	Farm            string
	Plot            string
	Crop            string
	Year            int
	Season          model.Season
	CostPerHa       float64
	SoilPH          float64
	PhosphorusPPM   float64
	PotassiumPPM    float64
	OrganicMatter   float64
	ENSOPhase       model.ENSOPhase
	TotalPrecipMM   float64
	MeanTempC       float64
	MaxTempC        float64
	ExtremeHeatDays float64
	YieldKgHa       float64
}

// Options tunes the build.
type Options struct {
	ExtremeHeatC float64
}

// Build produces the dataset from a snapshot. Only harvested cycles
// qualify; a cycle additionally needs a prior soil analysis on its plot
// and at least one climate sample inside its growing window, otherwise
// the row is dropped rather than padded. Rows come out in planting
// order, matching the snapshot.
func Build(snap *snapshot.Snapshot, opts Options) []Row {
	harvested := snap.Harvested()
	if len(harvested) == 0 {
		return nil
	}

	events := make([]align.Point, len(harvested))
	cycles := make([]model.CropCycle, len(harvested))
	for i, c := range harvested {
		events[i] = align.Point{Time: c.Planting, Key: c.PlotID}
		cycles[i] = model.CropCycle{
			ID:            c.CycleID,
			PlotID:        c.PlotID,
			Planting:      c.Planting,
			ActualHarvest: c.ActualHarvest,
			YieldKgHa:     c.YieldKgHa,
		}
	}

	soil := align.Backward(events, snap.SoilAnalyses, align.By[model.SoilAnalysis]{
		Time: func(sa model.SoilAnalysis) time.Time { return sa.Date },
		Key:  func(sa model.SoilAnalysis) string { return sa.PlotID },
	})

	features := climate.Aggregate(cycles, snap.ClimateHours, climate.Options{ExtremeHeatC: opts.ExtremeHeatC})
	featuresByCycle := make(map[string]climate.Features, len(features))
	for _, f := range features {
		featuresByCycle[f.CycleID] = f
	}

	phases := enso.NewIndex(snap.ENSOMonths)

	var rows []Row
	for i, c := range harvested {
		sa := soil[i]
		if sa == nil {
			continue
		}
		feat, ok := featuresByCycle[c.CycleID]
		if !ok {
			continue
		}

		rows = append(rows, Row{
			CycleID:         c.CycleID,
			Farm:            c.Farm,
			Plot:            c.Plot,
			Crop:            c.Crop,
			Year:            c.Planting.Year(),
			Season:          model.SeasonOf(c.Planting),
			CostPerHa:       c.TotalCostPerHa,
			SoilPH:          sa.PH,
			PhosphorusPPM:   sa.PhosphorusPPM,
			PotassiumPPM:    sa.PotassiumPPM,
			OrganicMatter:   sa.OrganicMatter,
			ENSOPhase:       phases.Phase(c.Planting),
			TotalPrecipMM:   feat.TotalPrecipMM,
			MeanTempC:       feat.MeanTempC,
			MaxTempC:        feat.MaxTempC,
			ExtremeHeatDays: feat.ExtremeHeatDays,
			YieldKgHa:       *c.YieldKgHa,
		})
	}
	return rows
}

// Header is the CSV column order for WriteCSV.
var Header = []string{
	"cycle_id", "farm", "plot", "crop", "year", "season", "cost_per_ha",
	"soil_ph", "phosphorus_ppm", "potassium_ppm", "organic_matter_pct",
	"enso_phase", "total_precipitation_mm", "mean_temp_c", "max_temp_c",
	"extreme_heat_days", "yield_kg_ha",
}

// WriteCSV emits the dataset with a header row.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return eris.Wrap(err, "fusion: write header")
	}
	for _, r := range rows {
		record := []string{
			r.CycleID, r.Farm, r.Plot, r.Crop,
			strconv.Itoa(r.Year), string(r.Season),
			formatFloat(r.CostPerHa),
			formatFloat(r.SoilPH), formatFloat(r.PhosphorusPPM),
			formatFloat(r.PotassiumPPM), formatFloat(r.OrganicMatter),
			string(r.ENSOPhase),
			formatFloat(r.TotalPrecipMM), formatFloat(r.MeanTempC),
			formatFloat(r.MaxTempC), formatFloat(r.ExtremeHeatDays),
			formatFloat(r.YieldKgHa),
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrap(err, "fusion: write row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "fusion: flush")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
