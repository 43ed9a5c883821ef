package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/agrovista/safra-cli/internal/model"
	"github.com/agrovista/safra-cli/internal/snapshot"
	"github.com/agrovista/safra-cli/internal/store"
)

// initStore opens the configured backend and runs migrations.
func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "gestao_agricola.db"
		}
		st, err = store.NewSQLite(dsn)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, store.DefaultPoolConfig())
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// loadSnapshot opens the store and reads the full analytical dataset.
// The caller owns neither: the store is closed before returning.
func loadSnapshot(ctx context.Context) (*snapshot.Snapshot, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close() //nolint:errcheck
	return snapshot.Load(ctx, st)
}

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// parseSeason maps the CLI shorthand to the domain season.
func parseSeason(s string) (model.Season, error) {
	switch s {
	case "":
		return "", nil
	case "A", "a", "safrinha":
		return model.SeasonA, nil
	case "B", "b", "verao", "verão":
		return model.SeasonB, nil
	default:
		return "", eris.Errorf("unknown season %q (want A or B)", s)
	}
}
