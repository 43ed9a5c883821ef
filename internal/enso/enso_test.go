package enso

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agrovista/safra-cli/internal/model"
)

func TestIndexPhase(t *testing.T) {
	t.Parallel()

	ix := NewIndex([]model.ENSOMonth{
		{Year: 2023, Month: 11, Index: 1.9, Phase: model.PhaseElNino},
		{Year: 2021, Month: 1, Index: -1.0, Phase: model.PhaseLaNina},
		{Year: 2020, Month: 6, Index: 0.1, Phase: model.PhaseNeutral},
	})

	assert.False(t, ix.Empty())
	assert.Equal(t, model.PhaseElNino, ix.Phase(time.Date(2023, 11, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, model.PhaseLaNina, ix.Phase(time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, model.PhaseNeutral, ix.Phase(time.Date(2020, 6, 30, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, model.PhaseUnavailable, ix.Phase(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestIndexEmpty(t *testing.T) {
	t.Parallel()

	ix := NewIndex(nil)
	assert.True(t, ix.Empty())
	assert.Equal(t, model.PhaseUnavailable, ix.Phase(time.Now()))
}

func TestIndexLaterDuplicateWins(t *testing.T) {
	t.Parallel()

	ix := NewIndex([]model.ENSOMonth{
		{Year: 2022, Month: 3, Index: 0.0, Phase: model.PhaseNeutral},
		{Year: 2022, Month: 3, Index: -0.9, Phase: model.PhaseLaNina},
	})

	m, ok := ix.Lookup(2022, 3)
	assert.True(t, ok)
	assert.Equal(t, model.PhaseLaNina, m.Phase)
}
