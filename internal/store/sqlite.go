package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/agrovista/safra-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS farms (
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL UNIQUE,
	location TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS plots (
	id         TEXT PRIMARY KEY,
	farm_id    TEXT NOT NULL REFERENCES farms(id),
	identifier TEXT NOT NULL UNIQUE,
	area_ha    REAL NOT NULL
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
	hourly_cost  REAL NOT NULL,
	fuel_l_per_h REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS crop_cycles (
	id               TEXT PRIMARY KEY,
	plot_id          TEXT NOT NULL REFERENCES plots(id),
	crop_id          TEXT NOT NULL REFERENCES crops(id),
	planting         DATETIME NOT NULL,
	expected_harvest DATETIME NOT NULL,
	actual_harvest   DATETIME,
	yield_kg_ha      REAL
);

CREATE TABLE IF NOT EXISTS field_activities (
	id          TEXT PRIMARY KEY,
	cycle_id    TEXT NOT NULL REFERENCES crop_cycles(id),
	type        TEXT NOT NULL,
	product     TEXT,
	quantity    REAL NOT NULL,
	unit        TEXT NOT NULL,
	exec_date   DATETIME NOT NULL,
	machine_id  TEXT REFERENCES machines(id),
	operator    TEXT,
	cost_per_ha REAL
);

CREATE TABLE IF NOT EXISTS soil_analyses (
	id                 TEXT PRIMARY KEY,
	plot_id            TEXT NOT NULL REFERENCES plots(id),
	analysis_date      DATETIME NOT NULL,
	ph                 REAL NOT NULL,
	phosphorus_ppm     REAL NOT NULL,
	potassium_ppm      REAL NOT NULL,
	organic_matter_pct REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS sale_contracts (
	id           TEXT PRIMARY KEY,
	cycle_id     TEXT NOT NULL REFERENCES crop_cycles(id),
	sale_date    DATETIME NOT NULL,
	quantity_kg  REAL NOT NULL,
	price_per_kg REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS market_prices (
	id           TEXT PRIMARY KEY,
	price_date   DATETIME NOT NULL,
	crop_name    TEXT NOT NULL,
	close_per_kg REAL NOT NULL,
	UNIQUE (price_date, crop_name)
);

CREATE TABLE IF NOT EXISTS enso_months (
	year      INTEGER NOT NULL,
	month     INTEGER NOT NULL,
	oni_index REAL NOT NULL,
	phase     TEXT NOT NULL,
	PRIMARY KEY (year, month)
);

CREATE TABLE IF NOT EXISTS climate_hours (
	ts               DATETIME PRIMARY KEY,
	precipitation_mm REAL NOT NULL,
	temperature_c    REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_plots_farm ON plots(farm_id);
CREATE INDEX IF NOT EXISTS idx_cycles_plot ON crop_cycles(plot_id);
CREATE INDEX IF NOT EXISTS idx_cycles_planting ON crop_cycles(planting);
CREATE INDEX IF NOT EXISTS idx_activities_cycle ON field_activities(cycle_id);
CREATE INDEX IF NOT EXISTS idx_soil_plot ON soil_analyses(plot_id);
CREATE INDEX IF NOT EXISTS idx_contracts_cycle ON sale_contracts(cycle_id);
CREATE INDEX IF NOT EXISTS idx_prices_crop ON market_prices(crop_name, price_date);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SeedReference creates the default crops, farms, and machines when
// their tables are empty. Safe to call repeatedly.
func (s *SQLiteStore) SeedReference(ctx context.Context) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM crops`).Scan(&n); err != nil {
		return eris.Wrap(err, "sqlite: count crops")
	}
	if n == 0 {
		for _, c := range defaultCrops {
			if _, err := s.db.ExecContext(ctx,
				`INSERT INTO crops (id, name, category, cycle_days) VALUES (?, ?, ?, ?)`,
				uuid.New().String(), c.Name, string(c.Category), c.CycleDays,
			); err != nil {
				return eris.Wrapf(err, "sqlite: seed crop %s", c.Name)
			}
		}
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM farms`).Scan(&n); err != nil {
		return eris.Wrap(err, "sqlite: count farms")
	}
	if n == 0 {
		for _, f := range defaultFarms {
			if _, err := s.db.ExecContext(ctx,
				`INSERT INTO farms (id, name, location) VALUES (?, ?, ?)`,
				uuid.New().String(), f.Name, f.Location,
			); err != nil {
				return eris.Wrapf(err, "sqlite: seed farm %s", f.Name)
			}
		}
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM machines`).Scan(&n); err != nil {
		return eris.Wrap(err, "sqlite: count machines")
	}
	if n == 0 {
		for _, m := range defaultMachines {
			if _, err := s.db.ExecContext(ctx,
				`INSERT INTO machines (id, name, type, hourly_cost, fuel_l_per_h) VALUES (?, ?, ?, ?, ?)`,
				uuid.New().String(), m.Name, string(m.Type), m.HourlyCost, m.FuelLitresPerH,
			); err != nil {
				return eris.Wrapf(err, "sqlite: seed machine %s", m.Name)
			}
		}
	}
	return nil
}

func (s *SQLiteStore) ListFarms(ctx context.Context) ([]model.Farm, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, location FROM farms ORDER BY name`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list farms")
	}
	defer rows.Close()

	var farms []model.Farm
	for rows.Next() {
		var f model.Farm
		if err := rows.Scan(&f.ID, &f.Name, &f.Location); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan farm")
		}
		farms = append(farms, f)
	}
	return farms, eris.Wrap(rows.Err(), "sqlite: list farms iterate")
}

func (s *SQLiteStore) ListCrops(ctx context.Context) ([]model.Crop, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, category, cycle_days FROM crops ORDER BY name`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list crops")
	}
	defer rows.Close()

	var crops []model.Crop
	for rows.Next() {
		var c model.Crop
		var category string
		if err := rows.Scan(&c.ID, &c.Name, &category, &c.CycleDays); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan crop")
		}
		c.Category = model.CropCategory(category)
		crops = append(crops, c)
	}
	return crops, eris.Wrap(rows.Err(), "sqlite: list crops iterate")
}

func (s *SQLiteStore) ListMachines(ctx context.Context) ([]model.Machine, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, type, hourly_cost, fuel_l_per_h FROM machines ORDER BY name`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list machines")
	}
	defer rows.Close()

	var machines []model.Machine
	for rows.Next() {
		var m model.Machine
		var mtype string
		if err := rows.Scan(&m.ID, &m.Name, &mtype, &m.HourlyCost, &m.FuelLitresPerH); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan machine")
		}
		m.Type = model.MachineType(mtype)
		machines = append(machines, m)
	}
	return machines, eris.Wrap(rows.Err(), "sqlite: list machines iterate")
}

func (s *SQLiteStore) GetFarmByName(ctx context.Context, name string) (*model.Farm, error) {
	var f model.Farm
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, location FROM farms WHERE name = ?`, name,
	).Scan(&f.ID, &f.Name, &f.Location)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: farm %q", name)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get farm %q", name)
	}
	return &f, nil
}

func (s *SQLiteStore) GetCropByName(ctx context.Context, name string) (*model.Crop, error) {
	var c model.Crop
	var category string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, category, cycle_days FROM crops WHERE name = ?`, name,
	).Scan(&c.ID, &c.Name, &category, &c.CycleDays)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: crop %q", name)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get crop %q", name)
	}
	c.Category = model.CropCategory(category)
	return &c, nil
}

func (s *SQLiteStore) GetMachineByName(ctx context.Context, name string) (*model.Machine, error) {
	var m model.Machine
	var mtype string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, type, hourly_cost, fuel_l_per_h FROM machines WHERE name = ?`, name,
	).Scan(&m.ID, &m.Name, &mtype, &m.HourlyCost, &m.FuelLitresPerH)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: machine %q", name)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get machine %q", name)
	}
	m.Type = model.MachineType(mtype)
	return &m, nil
}

func (s *SQLiteStore) CreatePlot(ctx context.Context, farmName, identifier string, areaHa float64) (*model.Plot, error) {
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
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO plots (id, farm_id, identifier, area_ha) VALUES (?, ?, ?, ?)`,
		plot.ID, plot.FarmID, plot.Identifier, plot.AreaHa,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert plot %s", identifier)
	}
	return &plot, nil
}

func (s *SQLiteStore) ListPlots(ctx context.Context) ([]model.Plot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, farm_id, identifier, area_ha FROM plots ORDER BY identifier`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list plots")
	}
	defer rows.Close()

	var plots []model.Plot
	for rows.Next() {
		var p model.Plot
		if err := rows.Scan(&p.ID, &p.FarmID, &p.Identifier, &p.AreaHa); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan plot")
		}
		plots = append(plots, p)
	}
	return plots, eris.Wrap(rows.Err(), "sqlite: list plots iterate")
}

func (s *SQLiteStore) GetPlotByIdentifier(ctx context.Context, identifier string) (*model.Plot, error) {
	var p model.Plot
	err := s.db.QueryRowContext(ctx,
		`SELECT id, farm_id, identifier, area_ha FROM plots WHERE identifier = ?`, identifier,
	).Scan(&p.ID, &p.FarmID, &p.Identifier, &p.AreaHa)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: plot %q", identifier)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get plot %q", identifier)
	}
	return &p, nil
}

func (s *SQLiteStore) CreateCycle(ctx context.Context, plotID, cropName string, planting time.Time) (*model.CropCycle, error) {
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
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO crop_cycles (id, plot_id, crop_id, planting, expected_harvest) VALUES (?, ?, ?, ?, ?)`,
		cycle.ID, cycle.PlotID, cycle.CropID, cycle.Planting, cycle.ExpectedHarvest,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert cycle")
	}
	return &cycle, nil
}

// RecordHarvest closes a cycle: sets the actual harvest date and yield
// and books the harvest as a field activity, in one transaction.
func (s *SQLiteStore) RecordHarvest(ctx context.Context, p HarvestParams) error {
	var machineID *string
	if p.MachineName != "" {
		machine, err := s.GetMachineByName(ctx, p.MachineName)
		if err == nil {
			machineID = &machine.ID
		} else if !eris.Is(err, ErrNotFound) {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin harvest tx")
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		`UPDATE crop_cycles SET actual_harvest = ?, yield_kg_ha = ? WHERE id = ?`,
		p.Date, p.YieldKgHa, p.CycleID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update cycle %s", p.CycleID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return eris.Wrapf(ErrNotFound, "sqlite: cycle %s", p.CycleID)
	}

	var operator *string
	if p.Operator != "" {
		operator = &p.Operator
	}
	cost := p.CostPerHa
	_, err = tx.ExecContext(ctx,
		`INSERT INTO field_activities (id, cycle_id, type, product, quantity, unit, exec_date, machine_id, operator, cost_per_ha)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), p.CycleID, model.ActivityHarvest, "N/A", p.YieldKgHa, "kg/ha", p.Date, machineID, operator, cost,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert harvest activity")
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit harvest")
}

func (s *SQLiteStore) InsertActivity(ctx context.Context, act model.FieldActivity) (string, error) {
	id := act.ID
	if id == "" {
		id = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO field_activities (id, cycle_id, type, product, quantity, unit, exec_date, machine_id, operator, cost_per_ha)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, act.CycleID, act.Type, act.Product, act.Quantity, act.Unit, act.Date, act.MachineID, act.Operator, act.CostPerHa,
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: insert activity")
	}
	return id, nil
}

func (s *SQLiteStore) InsertSoilAnalysis(ctx context.Context, sa model.SoilAnalysis) (string, error) {
	id := sa.ID
	if id == "" {
		id = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO soil_analyses (id, plot_id, analysis_date, ph, phosphorus_ppm, potassium_ppm, organic_matter_pct)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, sa.PlotID, sa.Date, sa.PH, sa.PhosphorusPPM, sa.PotassiumPPM, sa.OrganicMatter,
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: insert soil analysis")
	}
	return id, nil
}

func (s *SQLiteStore) InsertSaleContract(ctx context.Context, sc model.SaleContract) (string, error) {
	id := sc.ID
	if id == "" {
		id = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sale_contracts (id, cycle_id, sale_date, quantity_kg, price_per_kg) VALUES (?, ?, ?, ?, ?)`,
		id, sc.CycleID, sc.SaleDate, sc.QuantityKg, sc.PricePerKg,
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: insert sale contract")
	}
	return id, nil
}

func (s *SQLiteStore) InsertMarketPrices(ctx context.Context, prices []model.MarketPrice) (int, error) {
	inserted := 0
	for _, p := range prices {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO market_prices (id, price_date, crop_name, close_per_kg) VALUES (?, ?, ?, ?)
			 ON CONFLICT (price_date, crop_name) DO NOTHING`,
			uuid.New().String(), p.Date, p.CropName, p.ClosePerKg,
		)
		if err != nil {
			return inserted, eris.Wrapf(err, "sqlite: insert market price %s %s", p.CropName, p.Date.Format("2006-01-02"))
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	return inserted, nil
}

func (s *SQLiteStore) UpsertENSOMonths(ctx context.Context, months []model.ENSOMonth) error {
	for _, m := range months {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO enso_months (year, month, oni_index, phase) VALUES (?, ?, ?, ?)
			 ON CONFLICT (year, month) DO UPDATE SET oni_index = excluded.oni_index, phase = excluded.phase`,
			m.Year, m.Month, m.Index, string(m.Phase),
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: upsert enso %d-%02d", m.Year, m.Month)
		}
	}
	return nil
}

func (s *SQLiteStore) ReplaceClimateHours(ctx context.Context, hours []model.ClimateHour) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin climate tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM climate_hours`); err != nil {
		return eris.Wrap(err, "sqlite: clear climate hours")
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO climate_hours (ts, precipitation_mm, temperature_c) VALUES (?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare climate insert")
	}
	defer stmt.Close()

	for _, h := range hours {
		if _, err := stmt.ExecContext(ctx, h.Timestamp, h.PrecipitationMM, h.TemperatureC); err != nil {
			return eris.Wrapf(err, "sqlite: insert climate hour %s", h.Timestamp)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit climate hours")
}

func (s *SQLiteStore) LoadCycleRows(ctx context.Context) ([]CycleRow, error) {
	rows, err := s.db.QueryContext(ctx, `
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
		return nil, eris.Wrap(err, "sqlite: load cycle rows")
	}
	defer rows.Close()

	var out []CycleRow
	for rows.Next() {
		var r CycleRow
		var harvest sql.NullTime
		var yield sql.NullFloat64
		if err := rows.Scan(&r.CycleID, &r.Farm, &r.PlotID, &r.Plot, &r.AreaHa, &r.Crop,
			&r.Planting, &harvest, &yield, &r.TotalCostPerHa); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan cycle row")
		}
		if harvest.Valid {
			h := harvest.Time
			r.ActualHarvest = &h
		}
		if yield.Valid {
			y := yield.Float64
			r.YieldKgHa = &y
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: load cycle rows iterate")
}

func (s *SQLiteStore) LoadActivityRows(ctx context.Context) ([]ActivityRow, error) {
	rows, err := s.db.QueryContext(ctx, `
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
		return nil, eris.Wrap(err, "sqlite: load activity rows")
	}
	defer rows.Close()

	var out []ActivityRow
	for rows.Next() {
		var r ActivityRow
		var machineID, operator sql.NullString
		var cost sql.NullFloat64
		if err := rows.Scan(&r.FieldActivity.ID, &r.CycleID, &r.Type, &r.Product, &r.Quantity, &r.Unit,
			&r.Date, &machineID, &operator, &cost,
			&r.Farm, &r.Plot, &r.Crop, &r.Machine); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan activity row")
		}
		if machineID.Valid {
			v := machineID.String
			r.MachineID = &v
		}
		if operator.Valid {
			v := operator.String
			r.Operator = &v
		}
		if cost.Valid {
			v := cost.Float64
			r.CostPerHa = &v
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: load activity rows iterate")
}

func (s *SQLiteStore) LoadSoilAnalyses(ctx context.Context) ([]model.SoilAnalysis, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, plot_id, analysis_date, ph, phosphorus_ppm, potassium_ppm, organic_matter_pct
		FROM soil_analyses ORDER BY analysis_date, id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: load soil analyses")
	}
	defer rows.Close()

	var out []model.SoilAnalysis
	for rows.Next() {
		var sa model.SoilAnalysis
		if err := rows.Scan(&sa.ID, &sa.PlotID, &sa.Date, &sa.PH, &sa.PhosphorusPPM, &sa.PotassiumPPM, &sa.OrganicMatter); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan soil analysis")
		}
		out = append(out, sa)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: load soil analyses iterate")
}

func (s *SQLiteStore) LoadSaleContracts(ctx context.Context) ([]model.SaleContract, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, cycle_id, sale_date, quantity_kg, price_per_kg
		FROM sale_contracts ORDER BY sale_date, id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: load sale contracts")
	}
	defer rows.Close()

	var out []model.SaleContract
	for rows.Next() {
		var sc model.SaleContract
		if err := rows.Scan(&sc.ID, &sc.CycleID, &sc.SaleDate, &sc.QuantityKg, &sc.PricePerKg); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan sale contract")
		}
		out = append(out, sc)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: load sale contracts iterate")
}

func (s *SQLiteStore) LoadMarketPrices(ctx context.Context) ([]model.MarketPrice, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, price_date, crop_name, close_per_kg
		FROM market_prices ORDER BY price_date, crop_name`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: load market prices")
	}
	defer rows.Close()

	var out []model.MarketPrice
	for rows.Next() {
		var p model.MarketPrice
		if err := rows.Scan(&p.ID, &p.Date, &p.CropName, &p.ClosePerKg); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan market price")
		}
		out = append(out, p)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: load market prices iterate")
}

func (s *SQLiteStore) LoadClimateHours(ctx context.Context) ([]model.ClimateHour, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ts, precipitation_mm, temperature_c FROM climate_hours ORDER BY ts`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: load climate hours")
	}
	defer rows.Close()

	var out []model.ClimateHour
	for rows.Next() {
		var h model.ClimateHour
		if err := rows.Scan(&h.Timestamp, &h.PrecipitationMM, &h.TemperatureC); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan climate hour")
		}
		out = append(out, h)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: load climate hours iterate")
}

func (s *SQLiteStore) LoadENSOMonths(ctx context.Context) ([]model.ENSOMonth, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT year, month, oni_index, phase FROM enso_months ORDER BY year, month`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: load enso months")
	}
	defer rows.Close()

	var out []model.ENSOMonth
	for rows.Next() {
		var m model.ENSOMonth
		var phase string
		if err := rows.Scan(&m.Year, &m.Month, &m.Index, &phase); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan enso month")
		}
		m.Phase = model.ENSOPhase(phase)
		out = append(out, m)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: load enso months iterate")
}

// Reset wipes every table in foreign-key order, for a full reseed.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	for _, table := range []string{
		"market_prices", "sale_contracts", "soil_analyses", "field_activities",
		"crop_cycles", "plots", "farms", "crops", "machines", "enso_months", "climate_hours",
	} {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return eris.Wrapf(err, "sqlite: reset %s", table)
		}
	}
	return nil
}
