// Package dashboard serves the analytics web UI: chart pages rendered
// with go-echarts plus a small JSON API.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/agrovista/safra-cli/internal/anomaly"
	"github.com/agrovista/safra-cli/internal/climate"
	"github.com/agrovista/safra-cli/internal/forecast"
	"github.com/agrovista/safra-cli/internal/report"
	"github.com/agrovista/safra-cli/internal/snapshot"
)

// Loader produces a fresh snapshot per request, so the dashboard
// always reflects the current database.
type Loader func(ctx context.Context) (*snapshot.Snapshot, error)

// Config tunes the dashboard server.
type Config struct {
	Addr         string
	Catalog      map[string]float64
	Anomaly      anomaly.Config
	ForecastPath string
}

// Server is the dashboard HTTP server.
type Server struct {
	cfg    Config
	load   Loader
	router chi.Router
}

func NewServer(load Loader, cfg Config) *Server {
	s := &Server{cfg: cfg, load: load}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/", s.handleIndex)
	r.Get("/agronomico", s.chartPage(s.agronomicCharts))
	r.Get("/financeiro", s.chartPage(s.financeCharts))
	r.Get("/operacional", s.chartPage(s.operationalCharts))
	r.Get("/solo", s.chartPage(s.soilCharts))
	r.Get("/clima", s.chartPage(s.climateCharts))
	r.Get("/enso", s.chartPage(s.ensoCharts))
	r.Get("/precos", s.chartPage(s.priceCharts))

	r.Route("/api", func(r chi.Router) {
		r.Get("/summary", s.handleSummary)
		r.Get("/yield", s.handleYield)
		r.Get("/anomalies", s.handleAnomalies)
		r.Get("/climate", s.handleClimate)
	})

	s.router = r
	return s
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start serves until the context is cancelled, then drains in-flight
// requests.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("dashboard listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return eris.Wrap(err, "dashboard: shutdown")
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return eris.Wrap(err, "dashboard: serve")
	}
}

type chartBuilder func(snap *snapshot.Snapshot) []components.Charter

// chartPage renders a set of charts for a fresh snapshot, or the
// unavailable notice when the underlying sources are empty.
func (s *Server) chartPage(build chartBuilder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := s.load(r.Context())
		if err != nil {
			s.serverError(w, err)
			return
		}

		charts := build(snap)
		if len(charts) == 0 {
			s.unavailable(w, "Dados não disponíveis para esta página. Rode os comandos de sync ou seed.")
			return
		}

		page := components.NewPage()
		page.SetLayout(components.PageFlexLayout)
		page.AddCharts(charts...)
		if err := page.Render(w); err != nil {
			zap.L().Error("dashboard: render page", zap.Error(err))
		}
	}
}

func (s *Server) agronomicCharts(snap *snapshot.Snapshot) []components.Charter {
	if len(snap.Harvested()) == 0 {
		return nil
	}
	return []components.Charter{yieldByCropChart(snap), yieldByYearChart(snap)}
}

func (s *Server) financeCharts(snap *snapshot.Snapshot) []components.Charter {
	if len(snap.Harvested()) == 0 {
		return nil
	}
	return []components.Charter{profitByCropChart(snap, s.cfg.Catalog)}
}

func (s *Server) operationalCharts(snap *snapshot.Snapshot) []components.Charter {
	if len(snap.Activities) == 0 {
		return nil
	}
	return []components.Charter{costByActivityChart(snap)}
}

func (s *Server) soilCharts(snap *snapshot.Snapshot) []components.Charter {
	if !snap.HasSoil() {
		return nil
	}
	return []components.Charter{soilByYearChart(snap)}
}

func (s *Server) climateCharts(snap *snapshot.Snapshot) []components.Charter {
	if !snap.HasClimate() {
		return nil
	}
	return []components.Charter{climateAnnualChart(snap.ClimateHours)}
}

func (s *Server) ensoCharts(snap *snapshot.Snapshot) []components.Charter {
	if !snap.HasENSO() {
		return nil
	}
	return []components.Charter{ensoChart(snap.ENSOMonths)}
}

func (s *Server) priceCharts(snap *snapshot.Snapshot) []components.Charter {
	if !snap.HasMarketPrices() {
		return nil
	}
	points, err := forecast.ReadFile(s.cfg.ForecastPath)
	if err != nil {
		zap.L().Warn("dashboard: forecast unavailable", zap.Error(err))
	}
	return []components.Charter{priceChart(snap, points)}
}

const indexHTML = `<!DOCTYPE html>
<html lang="pt-BR">
<head><meta charset="utf-8"><title>Gestão Agrícola</title></head>
<body style="font-family:sans-serif;max-width:720px;margin:2rem auto">
<h1>Gestão Agrícola</h1>
<p>Ciclos: %d &middot; Colhidos: %d &middot; Área total: %.1f ha</p>
<ul>
<li><a href="/agronomico">Agronômico</a></li>
<li><a href="/financeiro">Financeiro</a></li>
<li><a href="/operacional">Operacional</a></li>
<li><a href="/solo">Solo</a></li>
<li><a href="/clima">Clima</a></li>
<li><a href="/enso">ENSO</a></li>
<li><a href="/precos">Preços</a></li>
</ul>
</body>
</html>`

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap, err := s.load(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}

	var area float64
	for _, c := range snap.Cycles {
		area += c.AreaHa
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, indexHTML, len(snap.Cycles), len(snap.Harvested()), area)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	snap, err := s.load(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}

	var area, revenue float64
	for _, c := range snap.Cycles {
		area += c.AreaHa
	}
	for _, sc := range snap.SaleContracts {
		revenue += sc.Revenue()
	}

	s.writeJSON(w, map[string]any{
		"cycles":            len(snap.Cycles),
		"harvested":         len(snap.Harvested()),
		"total_area_ha":     area,
		"contract_revenue":  revenue,
		"has_market_prices": snap.HasMarketPrices(),
		"has_climate":       snap.HasClimate(),
		"has_enso":          snap.HasENSO(),
	})
}

func (s *Server) handleYield(w http.ResponseWriter, r *http.Request) {
	snap, err := s.load(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.writeJSON(w, map[string]any{
		"by_crop": report.ByCrop(snap),
		"by_farm": report.ByFarm(snap),
	})
}

func (s *Server) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	snap, err := s.load(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}
	rep := detectAnomalies(snap, s.cfg.Anomaly)
	s.writeJSON(w, rep)
}

func (s *Server) handleClimate(w http.ResponseWriter, r *http.Request) {
	snap, err := s.load(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}
	if !snap.HasClimate() {
		s.writeJSON(w, map[string]any{"available": false})
		return
	}
	s.writeJSON(w, map[string]any{
		"available": true,
		"annual":    climate.Annual(snap.ClimateHours),
	})
}

// detectAnomalies inspects the most recent year's operations. The
// baseline is the complete activity history, inspected rows included.
func detectAnomalies(snap *snapshot.Snapshot, cfg anomaly.Config) anomaly.Report {
	latest := 0
	for _, a := range snap.Activities {
		if a.Date.Year() > latest {
			latest = a.Date.Year()
		}
	}

	var current, history []anomaly.Record
	for _, a := range snap.Activities {
		rec := anomaly.Record{
			Date:         a.Date,
			Farm:         a.Farm,
			Plot:         a.Plot,
			ActivityType: a.Type,
			CostPerHa:    a.CostPerHa,
		}
		if a.Operator != nil {
			rec.Operator = *a.Operator
		}
		history = append(history, rec)
		if a.Date.Year() == latest {
			current = append(current, rec)
		}
	}
	return anomaly.Detect(current, history, cfg)
}

func (s *Server) unavailable(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!DOCTYPE html><html lang="pt-BR"><body style="font-family:sans-serif;margin:3rem">
<h2>Sem dados</h2><p>%s</p><p><a href="/">Voltar</a></p></body></html>`, msg)
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	zap.L().Error("dashboard: request failed", zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("dashboard: encode json", zap.Error(err))
	}
}
