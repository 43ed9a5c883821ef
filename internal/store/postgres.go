package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/agrovista/safra-cli/internal/db"
	"github.com/agrovista/safra-cli/internal/model"
)

// PostgresStore implements Store on top of a pgx connection pool.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig tunes the pgx pool.
type PoolConfig struct {
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

// DefaultPoolConfig returns sensible pool settings for a CLI process.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxConns:          8,
		MinConns:          1,
		MaxConnLifetime:   time.Hour,
		MaxConnIdleTime:   30 * time.Minute,
		HealthCheckPeriod: time.Minute,
	}
}

// NewPostgres connects to PostgreSQL and verifies the connection.
func NewPostgres(ctx context.Context, databaseURL string, cfg PoolConfig) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse database url")
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.HealthCheckPeriod = cfg.HealthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS farms (
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL UNIQUE,
	location TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS plots (
	id         TEXT PRIMARY KEY,
	farm_id    TEXT NOT NULL REFERENCES farms(id),
	identifier TEXT NOT NULL UNIQUE,
	area_ha    DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS crops (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	category   TEXT NOT NULL,
	cycle_days INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS machines (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL UNIQUE,
	type         TEXT NOT NULL,
	hourly_cost  DOUBLE PRECISION NOT NULL,
	fuel_l_per_h DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS crop_cycles (
	id               TEXT PRIMARY KEY,
	plot_id          TEXT NOT NULL REFERENCES plots(id),
	crop_id          TEXT NOT NULL REFERENCES crops(id),
	planting         TIMESTAMPTZ NOT NULL,
	expected_harvest TIMESTAMPTZ NOT NULL,
	actual_harvest   TIMESTAMPTZ,
	yield_kg_ha      DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS field_activities (
	id          TEXT PRIMARY KEY,
	cycle_id    TEXT NOT NULL REFERENCES crop_cycles(id),
	type        TEXT NOT NULL,
	product     TEXT,
	quantity    DOUBLE PRECISION NOT NULL,
	unit        TEXT NOT NULL,
	exec_date   TIMESTAMPTZ NOT NULL,
	machine_id  TEXT REFERENCES machines(id),
	operator    TEXT,
	cost_per_ha DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS soil_analyses (
	id                 TEXT PRIMARY KEY,
	plot_id            TEXT NOT NULL REFERENCES plots(id),
	analysis_date      TIMESTAMPTZ NOT NULL,
	ph                 DOUBLE PRECISION NOT NULL,
	phosphorus_ppm     DOUBLE PRECISION NOT NULL,
	potassium_ppm      DOUBLE PRECISION NOT NULL,
	organic_matter_pct DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS sale_contracts (
	id           TEXT PRIMARY KEY,
	cycle_id     TEXT NOT NULL REFERENCES crop_cycles(id),
	sale_date    TIMESTAMPTZ NOT NULL,
	quantity_kg  DOUBLE PRECISION NOT NULL,
	price_per_kg DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS market_prices (
	id           TEXT PRIMARY KEY,
	price_date   TIMESTAMPTZ NOT NULL,
	crop_name    TEXT NOT NULL,
	close_per_kg DOUBLE PRECISION NOT NULL,
	UNIQUE (price_date, crop_name)
);

CREATE TABLE IF NOT EXISTS enso_months (
	year      INTEGER NOT NULL,
	month     INTEGER NOT NULL,
	oni_index DOUBLE PRECISION NOT NULL,
	phase     TEXT NOT NULL,
	PRIMARY KEY (year, month)
);

CREATE TABLE IF NOT EXISTS climate_hours (
	ts               TIMESTAMPTZ PRIMARY KEY,
	precipitation_mm DOUBLE PRECISION NOT NULL,
	temperature_c    DOUBLE PRECISION NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_plots_farm ON plots(farm_id);
CREATE INDEX IF NOT EXISTS idx_cycles_plot ON crop_cycles(plot_id);
CREATE INDEX IF NOT EXISTS idx_cycles_planting ON crop_cycles(planting);
CREATE INDEX IF NOT EXISTS idx_activities_cycle ON field_activities(cycle_id);
CREATE INDEX IF NOT EXISTS idx_soil_plot ON soil_analyses(plot_id);
CREATE INDEX IF NOT EXISTS idx_contracts_cycle ON sale_contracts(cycle_id);
CREATE INDEX IF NOT EXISTS idx_prices_crop ON market_prices(crop_name, price_date);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SeedReference(ctx context.Context) error {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM crops`).Scan(&n); err != nil {
		return eris.Wrap(err, "postgres: count crops")
	}
	if n == 0 {
		for _, c := range defaultCrops {
			if _, err := s.pool.Exec(ctx,
				`INSERT INTO crops (id, name, category, cycle_days) VALUES ($1, $2, $3, $4)`,
				uuid.New().String(), c.Name, string(c.Category), c.CycleDays,
			); err != nil {
				return eris.Wrapf(err, "postgres: seed crop %s", c.Name)
			}
		}
	}

	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM farms`).Scan(&n); err != nil {
		return eris.Wrap(err, "postgres: count farms")
	}
	if n == 0 {
		for _, f := range defaultFarms {
			if _, err := s.pool.Exec(ctx,
				`INSERT INTO farms (id, name, location) VALUES ($1, $2, $3)`,
				uuid.New().String(), f.Name, f.Location,
			); err != nil {
				return eris.Wrapf(err, "postgres: seed farm %s", f.Name)
			}
		}
	}

	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM machines`).Scan(&n); err != nil {
		return eris.Wrap(err, "postgres: count machines")
	}
	if n == 0 {
		for _, m := range defaultMachines {
			if _, err := s.pool.Exec(ctx,
				`INSERT INTO machines (id, name, type, hourly_cost, fuel_l_per_h) VALUES ($1, $2, $3, $4, $5)`,
				uuid.New().String(), m.Name, string(m.Type), m.HourlyCost, m.FuelLitresPerH,
			); err != nil {
				return eris.Wrapf(err, "postgres: seed machine %s", m.Name)
			}
		}
	}
	return nil
}

func (s *PostgresStore) ListFarms(ctx context.Context) ([]model.Farm, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, location FROM farms ORDER BY name`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list farms")
	}
	defer rows.Close()

	var farms []model.Farm
	for rows.Next() {
		var f model.Farm
		if err := rows.Scan(&f.ID, &f.Name, &f.Location); err != nil {
			return nil, eris.Wrap(err, "postgres: scan farm")
		}
		farms = append(farms, f)
	}
	return farms, eris.Wrap(rows.Err(), "postgres: list farms iterate")
}

func (s *PostgresStore) ListCrops(ctx context.Context) ([]model.Crop, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, category, cycle_days FROM crops ORDER BY name`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list crops")
	}
	defer rows.Close()

	var crops []model.Crop
	for rows.Next() {
		var c model.Crop
		var category string
		if err := rows.Scan(&c.ID, &c.Name, &category, &c.CycleDays); err != nil {
			return nil, eris.Wrap(err, "postgres: scan crop")
		}
		c.Category = model.CropCategory(category)
		crops = append(crops, c)
	}
	return crops, eris.Wrap(rows.Err(), "postgres: list crops iterate")
}

func (s *PostgresStore) ListMachines(ctx context.Context) ([]model.Machine, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, type, hourly_cost, fuel_l_per_h FROM machines ORDER BY name`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list machines")
	}
	defer rows.Close()

	var machines []model.Machine
	for rows.Next() {
		var m model.Machine
		var mtype string
		if err := rows.Scan(&m.ID, &m.Name, &mtype, &m.HourlyCost, &m.FuelLitresPerH); err != nil {
			return nil, eris.Wrap(err, "postgres: scan machine")
		}
		m.Type = model.MachineType(mtype)
		machines = append(machines, m)
	}
	return machines, eris.Wrap(rows.Err(), "postgres: list machines iterate")
}

func (s *PostgresStore) GetFarmByName(ctx context.Context, name string) (*model.Farm, error) {
	var f model.Farm
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, location FROM farms WHERE name = $1`, name,
	).Scan(&f.ID, &f.Name, &f.Location)
	if err == pgx.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "postgres: farm %q", name)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get farm %q", name)
	}
	return &f, nil
}

func (s *PostgresStore) GetCropByName(ctx context.Context, name string) (*model.Crop, error) {
	var c model.Crop
	var category string
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, category, cycle_days FROM crops WHERE name = $1`, name,
	).Scan(&c.ID, &c.Name, &category, &c.CycleDays)
	if err == pgx.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "postgres: crop %q", name)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get crop %q", name)
	}
	c.Category = model.CropCategory(category)
	return &c, nil
}

func (s *PostgresStore) GetMachineByName(ctx context.Context, name string) (*model.Machine, error) {
	var m model.Machine
	var mtype string
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, type, hourly_cost, fuel_l_per_h FROM machines WHERE name = $1`, name,
	).Scan(&m.ID, &m.Name, &mtype, &m.HourlyCost, &m.FuelLitresPerH)
	if err == pgx.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "postgres: machine %q", name)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get machine %q", name)
	}
	m.Type = model.MachineType(mtype)
	return &m, nil
}

func (s *PostgresStore) CreatePlot(ctx context.Context, farmName, identifier string, areaHa float64) (*model.Plot, error) {
	farm, err := s.GetFarmByName(ctx, farmName)
	if err != nil {
		return nil, err
	}

	plot := model.Plot{
		ID:         uuid.New().String(),
		FarmID:     farm.ID,
		Identifier: identifier,
		AreaHa:     areaHa,
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO plots (id, farm_id, identifier, area_ha) VALUES ($1, $2, $3, $4)`,
		plot.ID, plot.FarmID, plot.Identifier, plot.AreaHa,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: insert plot %s", identifier)
	}
	return &plot, nil
}

func (s *PostgresStore) ListPlots(ctx context.Context) ([]model.Plot, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, farm_id, identifier, area_ha FROM plots ORDER BY identifier`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list plots")
	}
	defer rows.Close()

	var plots []model.Plot
	for rows.Next() {
		var p model.Plot
		if err := rows.Scan(&p.ID, &p.FarmID, &p.Identifier, &p.AreaHa); err != nil {
			return nil, eris.Wrap(err, "postgres: scan plot")
		}
		plots = append(plots, p)
	}
	return plots, eris.Wrap(rows.Err(), "postgres: list plots iterate")
}

func (s *PostgresStore) GetPlotByIdentifier(ctx context.Context, identifier string) (*model.Plot, error) {
	var p model.Plot
	err := s.pool.QueryRow(ctx,
		`SELECT id, farm_id, identifier, area_ha FROM plots WHERE identifier = $1`, identifier,
	).Scan(&p.ID, &p.FarmID, &p.Identifier, &p.AreaHa)
	if err == pgx.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "postgres: plot %q", identifier)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get plot %q", identifier)
	}
	return &p, nil
}

func (s *PostgresStore) CreateCycle(ctx context.Context, plotID, cropName string, planting time.Time) (*model.CropCycle, error) {
	crop, err := s.GetCropByName(ctx, cropName)
	if err != nil {
		return nil, err
	}

	cycle := model.CropCycle{
		ID:              uuid.New().String(),
		PlotID:          plotID,
		CropID:          crop.ID,
		Planting:        planting,
		ExpectedHarvest: crop.ExpectedHarvest(planting),
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO crop_cycles (id, plot_id, crop_id, planting, expected_harvest) VALUES ($1, $2, $3, $4, $5)`,
		cycle.ID, cycle.PlotID, cycle.CropID, cycle.Planting, cycle.ExpectedHarvest,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert cycle")
	}
	return &cycle, nil
}

func (s *PostgresStore) RecordHarvest(ctx context.Context, p HarvestParams) error {
	var machineID *string
	if p.MachineName != "" {
		machine, err := s.GetMachineByName(ctx, p.MachineName)
		if err == nil {
			machineID = &machine.ID
		} else if !eris.Is(err, ErrNotFound) {
			return err
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin harvest tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx,
		`UPDATE crop_cycles SET actual_harvest = $1, yield_kg_ha = $2 WHERE id = $3`,
		p.Date, p.YieldKgHa, p.CycleID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update cycle %s", p.CycleID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "postgres: cycle %s", p.CycleID)
	}

	var operator *string
	if p.Operator != "" {
		operator = &p.Operator
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO field_activities (id, cycle_id, type, product, quantity, unit, exec_date, machine_id, operator, cost_per_ha)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.New().String(), p.CycleID, model.ActivityHarvest, "N/A", p.YieldKgHa, "kg/ha", p.Date, machineID, operator, p.CostPerHa,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: insert harvest activity")
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit harvest")
}

func (s *PostgresStore) InsertActivity(ctx context.Context, act model.FieldActivity) (string, error) {
	id := act.ID
	if id == "" {
		id = uuid.New().String()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO field_activities (id, cycle_id, type, product, quantity, unit, exec_date, machine_id, operator, cost_per_ha)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, act.CycleID, act.Type, act.Product, act.Quantity, act.Unit, act.Date, act.MachineID, act.Operator, act.CostPerHa,
	)
	if err != nil {
		return "", eris.Wrap(err, "postgres: insert activity")
	}
	return id, nil
}

func (s *PostgresStore) InsertSoilAnalysis(ctx context.Context, sa model.SoilAnalysis) (string, error) {
	id := sa.ID
	if id == "" {
		id = uuid.New().String()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO soil_analyses (id, plot_id, analysis_date, ph, phosphorus_ppm, potassium_ppm, organic_matter_pct)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, sa.PlotID, sa.Date, sa.PH, sa.PhosphorusPPM, sa.PotassiumPPM, sa.OrganicMatter,
	)
	if err != nil {
		return "", eris.Wrap(err, "postgres: insert soil analysis")
	}
	return id, nil
}

func (s *PostgresStore) InsertSaleContract(ctx context.Context, sc model.SaleContract) (string, error) {
	id := sc.ID
	if id == "" {
		id = uuid.New().String()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO sale_contracts (id, cycle_id, sale_date, quantity_kg, price_per_kg) VALUES ($1, $2, $3, $4, $5)`,
		id, sc.CycleID, sc.SaleDate, sc.QuantityKg, sc.PricePerKg,
	)
	if err != nil {
		return "", eris.Wrap(err, "postgres: insert sale contract")
	}
	return id, nil
}

func (s *PostgresStore) InsertMarketPrices(ctx context.Context, prices []model.MarketPrice) (int, error) {
	inserted := 0
	for _, p := range prices {
		tag, err := s.pool.Exec(ctx,
			`INSERT INTO market_prices (id, price_date, crop_name, close_per_kg) VALUES ($1, $2, $3, $4)
			 ON CONFLICT (price_date, crop_name) DO NOTHING`,
			uuid.New().String(), p.Date, p.CropName, p.ClosePerKg,
		)
		if err != nil {
			return inserted, eris.Wrapf(err, "postgres: insert market price %s %s", p.CropName, p.Date.Format("2006-01-02"))
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func (s *PostgresStore) UpsertENSOMonths(ctx context.Context, months []model.ENSOMonth) error {
	for _, m := range months {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO enso_months (year, month, oni_index, phase) VALUES ($1, $2, $3, $4)
			 ON CONFLICT (year, month) DO UPDATE SET oni_index = EXCLUDED.oni_index, phase = EXCLUDED.phase`,
			m.Year, m.Month, m.Index, string(m.Phase),
		)
		if err != nil {
			return eris.Wrapf(err, "postgres: upsert enso %d-%02d", m.Year, m.Month)
		}
	}
	return nil
}

// ReplaceClimateHours swaps in a fresh hourly series using the COPY
// protocol; a single sync covers two decades of hourly samples.
func (s *PostgresStore) ReplaceClimateHours(ctx context.Context, hours []model.ClimateHour) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM climate_hours`); err != nil {
		return eris.Wrap(err, "postgres: clear climate hours")
	}

	rows := make([][]any, 0, len(hours))
	for _, h := range hours {
		rows = append(rows, []any{h.Timestamp, h.PrecipitationMM, h.TemperatureC})
	}
	_, err := db.CopyFrom(ctx, s.pool, "climate_hours", []string{"ts", "precipitation_mm", "temperature_c"}, rows)
	return err
}

func (s *PostgresStore) LoadCycleRows(ctx context.Context) ([]CycleRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT s.id, f.name, t.id, t.identifier, t.area_ha, c.name,
		       s.planting, s.actual_harvest, s.yield_kg_ha,
		       COALESCE(a.total_cost, 0)
		FROM crop_cycles s
		JOIN plots t ON s.plot_id = t.id
		JOIN farms f ON t.farm_id = f.id
		JOIN crops c ON s.crop_id = c.id
		LEFT JOIN (
			SELECT cycle_id, SUM(cost_per_ha) AS total_cost
			FROM field_activities GROUP BY cycle_id
		) a ON a.cycle_id = s.id
		ORDER BY s.planting, s.id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: load cycle rows")
	}
	defer rows.Close()

	var out []CycleRow
	for rows.Next() {
		var r CycleRow
		if err := rows.Scan(&r.CycleID, &r.Farm, &r.PlotID, &r.Plot, &r.AreaHa, &r.Crop,
			&r.Planting, &r.ActualHarvest, &r.YieldKgHa, &r.TotalCostPerHa); err != nil {
			return nil, eris.Wrap(err, "postgres: scan cycle row")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: load cycle rows iterate")
}

func (s *PostgresStore) LoadActivityRows(ctx context.Context) ([]ActivityRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT a.id, a.cycle_id, a.type, COALESCE(a.product, ''), a.quantity, a.unit,
		       a.exec_date, a.machine_id, a.operator, a.cost_per_ha,
		       f.name, t.identifier, c.name, COALESCE(m.name, '')
		FROM field_activities a
		JOIN crop_cycles s ON a.cycle_id = s.id
		JOIN plots t ON s.plot_id = t.id
		JOIN farms f ON t.farm_id = f.id
		JOIN crops c ON s.crop_id = c.id
		LEFT JOIN machines m ON a.machine_id = m.id
		ORDER BY a.exec_date, a.id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: load activity rows")
	}
	defer rows.Close()

	var out []ActivityRow
	for rows.Next() {
		var r ActivityRow
		if err := rows.Scan(&r.FieldActivity.ID, &r.CycleID, &r.Type, &r.Product, &r.Quantity, &r.Unit,
			&r.Date, &r.MachineID, &r.Operator, &r.CostPerHa,
			&r.Farm, &r.Plot, &r.Crop, &r.Machine); err != nil {
			return nil, eris.Wrap(err, "postgres: scan activity row")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: load activity rows iterate")
}

func (s *PostgresStore) LoadSoilAnalyses(ctx context.Context) ([]model.SoilAnalysis, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, plot_id, analysis_date, ph, phosphorus_ppm, potassium_ppm, organic_matter_pct
		FROM soil_analyses ORDER BY analysis_date, id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: load soil analyses")
	}
	defer rows.Close()

	var out []model.SoilAnalysis
	for rows.Next() {
		var sa model.SoilAnalysis
		if err := rows.Scan(&sa.ID, &sa.PlotID, &sa.Date, &sa.PH, &sa.PhosphorusPPM, &sa.PotassiumPPM, &sa.OrganicMatter); err != nil {
			return nil, eris.Wrap(err, "postgres: scan soil analysis")
		}
		out = append(out, sa)
	}
	return out, eris.Wrap(rows.Err(), "postgres: load soil analyses iterate")
}

func (s *PostgresStore) LoadSaleContracts(ctx context.Context) ([]model.SaleContract, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, cycle_id, sale_date, quantity_kg, price_per_kg
		FROM sale_contracts ORDER BY sale_date, id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: load sale contracts")
	}
	defer rows.Close()

	var out []model.SaleContract
	for rows.Next() {
		var sc model.SaleContract
		if err := rows.Scan(&sc.ID, &sc.CycleID, &sc.SaleDate, &sc.QuantityKg, &sc.PricePerKg); err != nil {
			return nil, eris.Wrap(err, "postgres: scan sale contract")
		}
		out = append(out, sc)
	}
	return out, eris.Wrap(rows.Err(), "postgres: load sale contracts iterate")
}

func (s *PostgresStore) LoadMarketPrices(ctx context.Context) ([]model.MarketPrice, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, price_date, crop_name, close_per_kg
		FROM market_prices ORDER BY price_date, crop_name`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: load market prices")
	}
	defer rows.Close()

	var out []model.MarketPrice
	for rows.Next() {
		var p model.MarketPrice
		if err := rows.Scan(&p.ID, &p.Date, &p.CropName, &p.ClosePerKg); err != nil {
			return nil, eris.Wrap(err, "postgres: scan market price")
		}
		out = append(out, p)
	}
	return out, eris.Wrap(rows.Err(), "postgres: load market prices iterate")
}

func (s *PostgresStore) LoadClimateHours(ctx context.Context) ([]model.ClimateHour, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT ts, precipitation_mm, temperature_c FROM climate_hours ORDER BY ts`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: load climate hours")
	}
	defer rows.Close()

	var out []model.ClimateHour
	for rows.Next() {
		var h model.ClimateHour
		if err := rows.Scan(&h.Timestamp, &h.PrecipitationMM, &h.TemperatureC); err != nil {
			return nil, eris.Wrap(err, "postgres: scan climate hour")
		}
		out = append(out, h)
	}
	return out, eris.Wrap(rows.Err(), "postgres: load climate hours iterate")
}

func (s *PostgresStore) LoadENSOMonths(ctx context.Context) ([]model.ENSOMonth, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT year, month, oni_index, phase FROM enso_months ORDER BY year, month`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: load enso months")
	}
	defer rows.Close()

	var out []model.ENSOMonth
	for rows.Next() {
		var m model.ENSOMonth
		var phase string
		if err := rows.Scan(&m.Year, &m.Month, &m.Index, &phase); err != nil {
			return nil, eris.Wrap(err, "postgres: scan enso month")
		}
		m.Phase = model.ENSOPhase(phase)
		out = append(out, m)
	}
	return out, eris.Wrap(rows.Err(), "postgres: load enso months iterate")
}

func (s *PostgresStore) Reset(ctx context.Context) error {
	for _, table := range []string{
		"market_prices", "sale_contracts", "soil_analyses", "field_activities",
		"crop_cycles", "plots", "farms", "crops", "machines", "enso_months", "climate_hours",
	} {
		if _, err := s.pool.Exec(ctx, `DELETE FROM `+table); err != nil {
			return eris.Wrapf(err, "postgres: reset %s", table)
		}
	}
	return nil
}
