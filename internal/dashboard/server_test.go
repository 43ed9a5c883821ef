package dashboard

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovista/safra-cli/internal/anomaly"
	"github.com/agrovista/safra-cli/internal/model"
	"github.com/agrovista/safra-cli/internal/snapshot"
	"github.com/agrovista/safra-cli/internal/store"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dashSnapshot() *snapshot.Snapshot {
	yield := 3600.0
	harvest := day(2023, 6, 10)
	cost := 180.0
	snap := &snapshot.Snapshot{
		Cycles: []store.CycleRow{
			{CycleID: "c1", Farm: "Fazenda Cristalina", PlotID: "p1", Plot: "A-01", AreaHa: 100,
				Crop: "Soja", Planting: day(2023, 2, 10), ActualHarvest: &harvest,
				YieldKgHa: &yield, TotalCostPerHa: 1500},
		},
		Activities: []store.ActivityRow{
			{FieldActivity: model.FieldActivity{ID: "a1", CycleID: "c1", Type: "Plantio",
				Date: day(2023, 2, 10), CostPerHa: &cost},
				Farm: "Fazenda Cristalina", Plot: "A-01", Crop: "Soja"},
		},
		SaleContracts: []model.SaleContract{
			{ID: "s1", CycleID: "c1", SaleDate: day(2023, 7, 1), QuantityKg: 50000, PricePerKg: 1.2},
		},
		SoilAnalyses: []model.SoilAnalysis{
			{ID: "so1", PlotID: "p1", Date: day(2023, 1, 15), PH: 5.8, PhosphorusPPM: 14,
				PotassiumPPM: 92, OrganicMatter: 3.1},
		},
		ClimateHours: []model.ClimateHour{
			{Timestamp: day(2023, 3, 1), PrecipitationMM: 2, TemperatureC: 29},
		},
		ENSOMonths: []model.ENSOMonth{
			{Year: 2023, Month: 2, Index: -0.7, Phase: model.PhaseLaNina},
		},
		MarketPrices: []model.MarketPrice{
			{ID: "m1", Date: day(2023, 7, 1), CropName: "Soja", ClosePerKg: 2.1},
		},
	}
	return snap
}

func testServer(t *testing.T, snap *snapshot.Snapshot) *httptest.Server {
	t.Helper()

	s := NewServer(func(ctx context.Context) (*snapshot.Snapshot, error) {
		return snap, nil
	}, Config{
		Catalog: map[string]float64{"Soja": 1.10, "Milho": 0.85, "Algodão": 8.50},
		Anomaly: anomaly.DefaultConfig(),
	})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestIndex(t *testing.T) {
	t.Parallel()

	srv := testServer(t, dashSnapshot())
	resp, body := get(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Gestão Agrícola")
	assert.Contains(t, string(body), "/agronomico")
}

func TestChartPages(t *testing.T) {
	t.Parallel()

	srv := testServer(t, dashSnapshot())
	for _, path := range []string{"/agronomico", "/financeiro", "/operacional", "/solo", "/clima", "/enso", "/precos"} {
		resp, body := get(t, srv.URL+path)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Contains(t, string(body), "echarts", path)
	}
}

func TestChartPageUnavailable(t *testing.T) {
	t.Parallel()

	empty := &snapshot.Snapshot{}
	srv := testServer(t, empty)
	resp, body := get(t, srv.URL+"/clima")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Sem dados")
}

func TestSummaryAPI(t *testing.T) {
	t.Parallel()

	srv := testServer(t, dashSnapshot())
	resp, body := get(t, srv.URL+"/api/summary")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.EqualValues(t, 1, payload["cycles"])
	assert.EqualValues(t, 1, payload["harvested"])
	assert.EqualValues(t, 60000, payload["contract_revenue"])
	assert.Equal(t, true, payload["has_climate"])
}

func TestClimateAPIUnavailable(t *testing.T) {
	t.Parallel()

	srv := testServer(t, &snapshot.Snapshot{})
	_, body := get(t, srv.URL+"/api/climate")

	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, false, payload["available"])
}

func TestAnomaliesAPI(t *testing.T) {
	t.Parallel()

	srv := testServer(t, dashSnapshot())
	resp, body := get(t, srv.URL+"/api/anomalies")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var rep anomaly.Report
	require.NoError(t, json.Unmarshal(body, &rep))
	assert.Empty(t, rep.Anomalies)
}

// The baseline must be the complete history including the inspected
// year: four older sprayings alone are below the minimum sample floor,
// so only a full-history baseline flags the outlier at all.
func TestDetectAnomaliesBaselineIncludesCurrentYear(t *testing.T) {
	t.Parallel()

	act := func(id string, date time.Time, cost float64) store.ActivityRow {
		return store.ActivityRow{
			FieldActivity: model.FieldActivity{ID: id, CycleID: "c1", Type: "Pulverização",
				Date: date, CostPerHa: &cost},
			Farm: "Fazenda Cristalina", Plot: "A-01", Crop: "Soja",
		}
	}
	snap := &snapshot.Snapshot{Activities: []store.ActivityRow{
		act("a1", day(2022, 2, 1), 100),
		act("a2", day(2022, 3, 1), 100),
		act("a3", day(2022, 4, 1), 100),
		act("a4", day(2022, 5, 1), 100),
		act("a5", day(2023, 2, 1), 100),
		act("a6", day(2023, 3, 1), 1000),
	}}

	rep := detectAnomalies(snap, anomaly.Config{MinSamples: 5, ZScore: 2})
	assert.Equal(t, 1, rep.CheckedTypes)
	require.Len(t, rep.Anomalies, 1)
	assert.InDelta(t, 1000, rep.Anomalies[0].CostObserved, 1e-9)
	assert.InDelta(t, 250, rep.Anomalies[0].CostExpected, 1e-9)
	assert.InDelta(t, 300, rep.Anomalies[0].PctDeviation, 1e-9)
}

func TestStartShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	s := NewServer(func(ctx context.Context) (*snapshot.Snapshot, error) {
		return &snapshot.Snapshot{}, nil
	}, Config{Addr: "127.0.0.1:0"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
