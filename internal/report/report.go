// Package report renders the productivity and operations summaries the
// CLI prints.
package report

import (
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/agrovista/safra-cli/internal/snapshot"
)

// printer formats numbers pt-BR style (1.234,56), matching how the
// agronomy team reads them.
var printer = message.NewPrinter(language.BrazilianPortuguese)

// CropYield aggregates harvested productivity for one crop.
type CropYield struct {
	Crop          string
	Cycles        int
	Harvested     int
	TotalAreaHa   float64
	MeanYieldKgHa float64
}

// FarmYield aggregates harvested productivity for one farm.
type FarmYield struct {
	Farm          string
	Cycles        int
	Harvested     int
	TotalAreaHa   float64
	MeanYieldKgHa float64
}

// ByCrop computes per-crop productivity in the snapshot's crop order.
// Mean yield covers harvested cycles only.
func ByCrop(snap *snapshot.Snapshot) []CropYield {
	order := snap.Crops()
	acc := make(map[string]*CropYield, len(order))
	for _, crop := range order {
		acc[crop] = &CropYield{Crop: crop}
	}

	for _, c := range snap.Cycles {
		a := acc[c.Crop]
		a.Cycles++
		a.TotalAreaHa += c.AreaHa
		if c.ActualHarvest != nil && c.YieldKgHa != nil {
			a.Harvested++
			a.MeanYieldKgHa += *c.YieldKgHa
		}
	}

	out := make([]CropYield, 0, len(order))
	for _, crop := range order {
		a := acc[crop]
		if a.Harvested > 0 {
			a.MeanYieldKgHa /= float64(a.Harvested)
		}
		out = append(out, *a)
	}
	return out
}

// ByFarm computes per-farm productivity in the snapshot's farm order.
func ByFarm(snap *snapshot.Snapshot) []FarmYield {
	order := snap.Farms()
	acc := make(map[string]*FarmYield, len(order))
	for _, farm := range order {
		acc[farm] = &FarmYield{Farm: farm}
	}

	for _, c := range snap.Cycles {
		a := acc[c.Farm]
		a.Cycles++
		a.TotalAreaHa += c.AreaHa
		if c.ActualHarvest != nil && c.YieldKgHa != nil {
			a.Harvested++
			a.MeanYieldKgHa += *c.YieldKgHa
		}
	}

	out := make([]FarmYield, 0, len(order))
	for _, farm := range order {
		a := acc[farm]
		if a.Harvested > 0 {
			a.MeanYieldKgHa /= float64(a.Harvested)
		}
		out = append(out, *a)
	}
	return out
}

// RenderCrops writes the per-crop table.
func RenderCrops(w io.Writer, rows []CropYield) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	printer.Fprintln(tw, "CULTURA\tCICLOS\tCOLHIDOS\tÁREA (ha)\tPRODUTIVIDADE MÉDIA (kg/ha)")
	for _, r := range rows {
		printer.Fprintf(tw, "%s\t%d\t%d\t%.1f\t%.0f\n",
			r.Crop, r.Cycles, r.Harvested, r.TotalAreaHa, r.MeanYieldKgHa)
	}
	return eris.Wrap(tw.Flush(), "report: flush crop table")
}

// RenderFarms writes the per-farm table.
func RenderFarms(w io.Writer, rows []FarmYield) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	printer.Fprintln(tw, "FAZENDA\tCICLOS\tCOLHIDOS\tÁREA (ha)\tPRODUTIVIDADE MÉDIA (kg/ha)")
	for _, r := range rows {
		printer.Fprintf(tw, "%s\t%d\t%d\t%.1f\t%.0f\n",
			r.Farm, r.Cycles, r.Harvested, r.TotalAreaHa, r.MeanYieldKgHa)
	}
	return eris.Wrap(tw.Flush(), "report: flush farm table")
}
