// Package enso enriches cycle records with the ENSO climate phase of
// their planting month.
package enso

import (
	"time"

	"github.com/agrovista/safra-cli/internal/model"
)

// Index is a month-keyed lookup over the ONI series.
type Index struct {
	byMonth map[monthKey]model.ENSOMonth
}

type monthKey struct {
	year  int
	month int
}

// NewIndex builds the lookup. Later duplicates of the same month win.
func NewIndex(months []model.ENSOMonth) *Index {
	byMonth := make(map[monthKey]model.ENSOMonth, len(months))
	for _, m := range months {
		byMonth[monthKey{m.Year, m.Month}] = m
	}
	return &Index{byMonth: byMonth}
}

// Lookup returns the ONI record for a calendar month.
func (ix *Index) Lookup(year, month int) (model.ENSOMonth, bool) {
	m, ok := ix.byMonth[monthKey{year, month}]
	return m, ok
}

// Phase returns the ENSO phase in effect at the given date, or
// PhaseUnavailable when the series has no record for that month.
func (ix *Index) Phase(at time.Time) model.ENSOPhase {
	m, ok := ix.Lookup(at.Year(), int(at.Month()))
	if !ok {
		return model.PhaseUnavailable
	}
	return m.Phase
}

// Empty reports whether the index holds no months at all, meaning the
// ENSO source was absent and phase enrichment is disabled.
func (ix *Index) Empty() bool {
	return len(ix.byMonth) == 0
}
