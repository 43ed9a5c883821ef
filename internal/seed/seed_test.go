package seed

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovista/safra-cli/internal/model"
	"github.com/agrovista/safra-cli/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

// Small config keeps the test fast while covering every code path.
func testConfig() Config {
	return Config{Seed: 7, StartYear: 2021, Years: 3, PlotsPerFarm: 2}
}

func TestRunGeneratesFullDataset(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, New(st, testConfig()).Run(ctx))

	plots, err := st.ListPlots(ctx)
	require.NoError(t, err)
	assert.Len(t, plots, 6)

	cycles, err := st.LoadCycleRows(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, cycles)

	acts, err := st.LoadActivityRows(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, acts)

	soils, err := st.LoadSoilAnalyses(ctx)
	require.NoError(t, err)
	// One analysis per plot per year.
	assert.Len(t, soils, 6*3)

	contracts, err := st.LoadSaleContracts(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, contracts)
}

// All three default farm names end in the same letter, so the prefix
// must come from something that distinguishes them or plot creation
// hits the identifier uniqueness constraint on the second farm.
func TestRunPlotIdentifiersUniqueAcrossFarms(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, New(st, testConfig()).Run(ctx))

	plots, err := st.ListPlots(ctx)
	require.NoError(t, err)
	require.Len(t, plots, 6)

	seen := make(map[string]bool, len(plots))
	prefixes := make(map[string]bool)
	for _, p := range plots {
		assert.False(t, seen[p.Identifier], "duplicate plot identifier %s", p.Identifier)
		seen[p.Identifier] = true
		prefixes[strings.SplitN(p.Identifier, "-", 2)[0]] = true
	}
	// Alvorada → A, Boa Esperança → BE, Cristalina → C.
	assert.Equal(t, map[string]bool{"A": true, "BE": true, "C": true}, prefixes)
}

func TestPlotPrefixDisambiguatesCollisions(t *testing.T) {
	t.Parallel()

	taken := make(map[string]bool)
	assert.Equal(t, "C", plotPrefix("Fazenda Cristalina", taken))
	assert.Equal(t, "BE", plotPrefix("Fazenda Boa Esperança", taken))
	assert.Equal(t, "C2", plotPrefix("Fazenda Colorado", taken))
	assert.Equal(t, "C3", plotPrefix("Fazenda Campinas", taken))
	assert.Equal(t, "T", plotPrefix("", taken))
}

func TestRunHarvestBooksActivityAndCost(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, New(st, testConfig()).Run(ctx))

	acts, err := st.LoadActivityRows(ctx)
	require.NoError(t, err)

	harvests := 0
	for _, a := range acts {
		require.NotNil(t, a.CostPerHa, "every generated activity is costed")
		assert.Greater(t, *a.CostPerHa, 0.0)
		if a.Type == model.ActivityHarvest {
			harvests++
			assert.Equal(t, "Case IH Axial-Flow 9250", a.Machine)
		}
	}
	assert.NotZero(t, harvests)

	cycles, err := st.LoadCycleRows(ctx)
	require.NoError(t, err)
	for _, c := range cycles {
		if c.ActualHarvest != nil {
			require.NotNil(t, c.YieldKgHa)
			assert.Greater(t, *c.YieldKgHa, 0.0)
			assert.Greater(t, c.TotalCostPerHa, 0.0)
		}
	}
}

func TestRunDeterministic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	load := func() ([]store.CycleRow, []model.SaleContract) {
		st := newTestStore(t)
		require.NoError(t, New(st, testConfig()).Run(ctx))
		cycles, err := st.LoadCycleRows(ctx)
		require.NoError(t, err)
		contracts, err := st.LoadSaleContracts(ctx)
		require.NoError(t, err)
		return cycles, contracts
	}

	cyclesA, contractsA := load()
	cyclesB, contractsB := load()

	require.Equal(t, len(cyclesA), len(cyclesB))
	require.Equal(t, len(contractsA), len(contractsB))
	for i := range cyclesA {
		assert.Equal(t, cyclesA[i].Crop, cyclesB[i].Crop)
		assert.Equal(t, cyclesA[i].Planting, cyclesB[i].Planting)
		assert.Equal(t, cyclesA[i].AreaHa, cyclesB[i].AreaHa)
	}
}

func TestRunIsRepeatableAfterReset(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, New(st, testConfig()).Run(ctx))
	first, err := st.LoadCycleRows(ctx)
	require.NoError(t, err)

	// Reseeding replaces, never appends.
	require.NoError(t, New(st, testConfig()).Run(ctx))
	second, err := st.LoadCycleRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(first), len(second))
}
