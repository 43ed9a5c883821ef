// Package export writes the operational dataset to CSV and XLSX for
// spreadsheet-based analysis.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/agrovista/safra-cli/internal/snapshot"
	"github.com/agrovista/safra-cli/internal/store"
)

const dateLayout = "2006-01-02"

// CyclesCSV writes the denormalized cycle table.
func CyclesCSV(w io.Writer, rows []store.CycleRow) error {
	cw := csv.NewWriter(w)
	header := []string{"cycle_id", "farm", "plot", "area_ha", "crop", "planting", "actual_harvest", "yield_kg_ha", "total_cost_per_ha"}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "export: write cycles header")
	}
	for _, r := range rows {
		record := []string{
			r.CycleID, r.Farm, r.Plot,
			formatFloat(r.AreaHa), r.Crop,
			r.Planting.Format(dateLayout),
			formatOptDate(r.ActualHarvest),
			formatOptFloat(r.YieldKgHa),
			formatFloat(r.TotalCostPerHa),
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrap(err, "export: write cycle row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush cycles")
}

// ActivitiesCSV writes the denormalized activity table.
func ActivitiesCSV(w io.Writer, rows []store.ActivityRow) error {
	cw := csv.NewWriter(w)
	header := []string{"activity_id", "cycle_id", "farm", "plot", "crop", "type", "product", "quantity", "unit", "date", "machine", "operator", "cost_per_ha"}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "export: write activities header")
	}
	for _, r := range rows {
		operator := ""
		if r.Operator != nil {
			operator = *r.Operator
		}
		record := []string{
			r.FieldActivity.ID, r.CycleID, r.Farm, r.Plot, r.Crop,
			r.Type, r.Product, formatFloat(r.Quantity), r.Unit,
			r.Date.Format(dateLayout), r.Machine, operator,
			formatOptFloat(r.CostPerHa),
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrap(err, "export: write activity row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush activities")
}

// Workbook writes the whole snapshot as one XLSX file with a sheet per
// table.
func Workbook(w io.Writer, snap *snapshot.Snapshot) error {
	file := xlsx.NewFile()

	if err := cyclesSheet(file, snap.Cycles); err != nil {
		return err
	}
	if err := activitiesSheet(file, snap.Activities); err != nil {
		return err
	}
	if err := contractsSheet(file, snap); err != nil {
		return err
	}
	if err := soilSheet(file, snap); err != nil {
		return err
	}

	return eris.Wrap(file.Write(w), "export: write workbook")
}

func cyclesSheet(file *xlsx.File, rows []store.CycleRow) error {
	sheet, err := file.AddSheet("Ciclos")
	if err != nil {
		return eris.Wrap(err, "export: add cycles sheet")
	}
	addHeader(sheet, "Fazenda", "Talhão", "Área (ha)", "Cultura", "Plantio", "Colheita", "Produtividade (kg/ha)", "Custo (R$/ha)")
	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().Value = r.Farm
		row.AddCell().Value = r.Plot
		row.AddCell().SetFloat(r.AreaHa)
		row.AddCell().Value = r.Crop
		row.AddCell().Value = r.Planting.Format(dateLayout)
		row.AddCell().Value = formatOptDate(r.ActualHarvest)
		if r.YieldKgHa != nil {
			row.AddCell().SetFloat(*r.YieldKgHa)
		} else {
			row.AddCell()
		}
		row.AddCell().SetFloat(r.TotalCostPerHa)
	}
	return nil
}

func activitiesSheet(file *xlsx.File, rows []store.ActivityRow) error {
	sheet, err := file.AddSheet("Atividades")
	if err != nil {
		return eris.Wrap(err, "export: add activities sheet")
	}
	addHeader(sheet, "Fazenda", "Talhão", "Cultura", "Tipo", "Produto", "Quantidade", "Unidade", "Data", "Máquina", "Operador", "Custo (R$/ha)")
	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().Value = r.Farm
		row.AddCell().Value = r.Plot
		row.AddCell().Value = r.Crop
		row.AddCell().Value = r.Type
		row.AddCell().Value = r.Product
		row.AddCell().SetFloat(r.Quantity)
		row.AddCell().Value = r.Unit
		row.AddCell().Value = r.Date.Format(dateLayout)
		row.AddCell().Value = r.Machine
		if r.Operator != nil {
			row.AddCell().Value = *r.Operator
		} else {
			row.AddCell()
		}
		if r.CostPerHa != nil {
			row.AddCell().SetFloat(*r.CostPerHa)
		} else {
			row.AddCell()
		}
	}
	return nil
}

func contractsSheet(file *xlsx.File, snap *snapshot.Snapshot) error {
	sheet, err := file.AddSheet("Contratos")
	if err != nil {
		return eris.Wrap(err, "export: add contracts sheet")
	}
	cropByCycle := make(map[string]string, len(snap.Cycles))
	for _, c := range snap.Cycles {
		cropByCycle[c.CycleID] = c.Crop
	}
	addHeader(sheet, "Cultura", "Data", "Quantidade (kg)", "Preço (R$/kg)", "Receita (R$)")
	for _, sc := range snap.SaleContracts {
		row := sheet.AddRow()
		row.AddCell().Value = cropByCycle[sc.CycleID]
		row.AddCell().Value = sc.SaleDate.Format(dateLayout)
		row.AddCell().SetFloat(sc.QuantityKg)
		row.AddCell().SetFloat(sc.PricePerKg)
		row.AddCell().SetFloat(sc.Revenue())
	}
	return nil
}

func soilSheet(file *xlsx.File, snap *snapshot.Snapshot) error {
	sheet, err := file.AddSheet("Solo")
	if err != nil {
		return eris.Wrap(err, "export: add soil sheet")
	}
	plotByID := make(map[string]string, len(snap.Cycles))
	for _, c := range snap.Cycles {
		plotByID[c.PlotID] = c.Plot
	}
	addHeader(sheet, "Talhão", "Data", "pH", "Fósforo (ppm)", "Potássio (ppm)", "Matéria Orgânica (%)")
	for _, sa := range snap.SoilAnalyses {
		row := sheet.AddRow()
		row.AddCell().Value = plotByID[sa.PlotID]
		row.AddCell().Value = sa.Date.Format(dateLayout)
		row.AddCell().SetFloat(sa.PH)
		row.AddCell().SetFloat(sa.PhosphorusPPM)
		row.AddCell().SetFloat(sa.PotassiumPPM)
		row.AddCell().SetFloat(sa.OrganicMatter)
	}
	return nil
}

func addHeader(sheet *xlsx.Sheet, titles ...string) {
	row := sheet.AddRow()
	for _, title := range titles {
		row.AddCell().Value = title
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatOptDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
