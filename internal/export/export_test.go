package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/agrovista/safra-cli/internal/model"
	"github.com/agrovista/safra-cli/internal/snapshot"
	"github.com/agrovista/safra-cli/internal/store"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func exportSnapshot() *snapshot.Snapshot {
	yield := 3600.0
	harvest := day(2023, 6, 10)
	cost := 180.0
	operator := "Carlos"
	return &snapshot.Snapshot{
		Cycles: []store.CycleRow{
			{CycleID: "c1", Farm: "Fazenda Cristalina", PlotID: "p1", Plot: "A-01", AreaHa: 120.5,
				Crop: "Soja", Planting: day(2023, 2, 10), ActualHarvest: &harvest,
				YieldKgHa: &yield, TotalCostPerHa: 1500},
			{CycleID: "c2", Farm: "Fazenda Cristalina", PlotID: "p2", Plot: "A-02", AreaHa: 80,
				Crop: "Milho", Planting: day(2024, 2, 1)},
		},
		Activities: []store.ActivityRow{
			{FieldActivity: model.FieldActivity{ID: "a1", CycleID: "c1", Type: "Plantio",
				Product: "Semente de Soja", Quantity: 60, Unit: "kg/ha", Date: day(2023, 2, 10),
				Operator: &operator, CostPerHa: &cost},
				Farm: "Fazenda Cristalina", Plot: "A-01", Crop: "Soja", Machine: "John Deere DB74"},
		},
		SaleContracts: []model.SaleContract{
			{ID: "s1", CycleID: "c1", SaleDate: day(2023, 7, 1), QuantityKg: 50000, PricePerKg: 1.15},
		},
		SoilAnalyses: []model.SoilAnalysis{
			{ID: "so1", PlotID: "p1", Date: day(2023, 1, 15), PH: 5.8, PhosphorusPPM: 14,
				PotassiumPPM: 92, OrganicMatter: 3.1},
		},
	}
}

func TestCyclesCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, CyclesCSV(&buf, exportSnapshot().Cycles))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "cycle_id,farm,plot")
	assert.Contains(t, lines[1], "2023-06-10")
	assert.Contains(t, lines[1], "3600")
	// Unharvested cycle has empty harvest and yield columns.
	assert.Contains(t, lines[2], ",,")
}

func TestActivitiesCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, ActivitiesCSV(&buf, exportSnapshot().Activities))

	out := buf.String()
	assert.Contains(t, out, "Semente de Soja")
	assert.Contains(t, out, "John Deere DB74")
	assert.Contains(t, out, "Carlos")
}

func TestWorkbook(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Workbook(&buf, exportSnapshot()))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 4)
	assert.Equal(t, "Ciclos", file.Sheets[0].Name)
	assert.Equal(t, "Atividades", file.Sheets[1].Name)
	assert.Equal(t, "Contratos", file.Sheets[2].Name)
	assert.Equal(t, "Solo", file.Sheets[3].Name)

	// Header plus two data rows.
	assert.Len(t, file.Sheets[0].Rows, 3)
	assert.Equal(t, "Fazenda Cristalina", file.Sheets[0].Rows[1].Cells[0].Value)

	revenue, err := file.Sheets[2].Rows[1].Cells[4].Float()
	require.NoError(t, err)
	assert.InDelta(t, 57500, revenue, 1e-6)
}
