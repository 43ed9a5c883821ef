package dashboard

import (
	"fmt"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/agrovista/safra-cli/internal/climate"
	"github.com/agrovista/safra-cli/internal/finance"
	"github.com/agrovista/safra-cli/internal/forecast"
	"github.com/agrovista/safra-cli/internal/model"
	"github.com/agrovista/safra-cli/internal/report"
	"github.com/agrovista/safra-cli/internal/snapshot"
)

const chartHeight = "420px"

func baseOptions(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: chartHeight}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	}
}

// yieldByCropChart plots mean productivity per crop.
func yieldByCropChart(snap *snapshot.Snapshot) components.Charter {
	rows := report.ByCrop(snap)

	var labels []string
	var data []opts.BarData
	for _, r := range rows {
		if r.Harvested == 0 {
			continue
		}
		labels = append(labels, r.Crop)
		data = append(data, opts.BarData{Value: round(r.MeanYieldKgHa)})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(baseOptions("Produtividade Média por Cultura", "kg/ha, ciclos colhidos")...)
	bar.SetXAxis(labels)
	bar.AddSeries("kg/ha", data)
	return bar
}

// yieldByYearChart plots mean yield per harvest year, one line per crop.
func yieldByYearChart(snap *snapshot.Snapshot) components.Charter {
	type key struct {
		crop string
		year int
	}
	sums := map[key]float64{}
	counts := map[key]int{}
	years := map[int]bool{}
	for _, c := range snap.Harvested() {
		k := key{c.Crop, c.Planting.Year()}
		sums[k] += *c.YieldKgHa
		counts[k]++
		years[c.Planting.Year()] = true
	}

	var yearList []int
	for y := range years {
		yearList = append(yearList, y)
	}
	sort.Ints(yearList)

	labels := make([]string, len(yearList))
	for i, y := range yearList {
		labels[i] = fmt.Sprintf("%d", y)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(baseOptions("Produtividade por Safra", "média anual por cultura, kg/ha")...)
	line.SetXAxis(labels)
	for _, crop := range snap.Crops() {
		data := make([]opts.LineData, len(yearList))
		hasAny := false
		for i, y := range yearList {
			k := key{crop, y}
			if counts[k] == 0 {
				data[i] = opts.LineData{Value: "-"}
				continue
			}
			hasAny = true
			data[i] = opts.LineData{Value: round(sums[k] / float64(counts[k]))}
		}
		if hasAny {
			line.AddSeries(crop, data, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		}
	}
	return line
}

// profitByCropChart plots mean profit per hectare per crop.
func profitByCropChart(snap *snapshot.Snapshot, catalog map[string]float64) components.Charter {
	summaries := finance.Summaries(financeCycles(snap), snap.SaleContracts, catalog)

	cropByID := map[string]string{}
	for _, c := range snap.Cycles {
		cropByID[c.CycleID] = c.Crop
	}
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, s := range summaries {
		crop := cropByID[s.CycleID]
		sums[crop] += s.ProfitPerHa
		counts[crop]++
	}

	var labels []string
	var data []opts.BarData
	for _, crop := range snap.Crops() {
		if counts[crop] == 0 {
			continue
		}
		labels = append(labels, crop)
		data = append(data, opts.BarData{Value: round(sums[crop] / float64(counts[crop]))})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(baseOptions("Lucro Médio por Cultura", "R$/ha, receita realizada ou potencial")...)
	bar.SetXAxis(labels)
	bar.AddSeries("R$/ha", data)
	return bar
}

// costByActivityChart shows where the money goes across activity types.
func costByActivityChart(snap *snapshot.Snapshot) components.Charter {
	sums := map[string]float64{}
	var order []string
	for _, a := range snap.Activities {
		if a.CostPerHa == nil {
			continue
		}
		if _, ok := sums[a.Type]; !ok {
			order = append(order, a.Type)
		}
		sums[a.Type] += *a.CostPerHa
	}

	var data []opts.PieData
	for _, t := range order {
		data = append(data, opts.PieData{Name: t, Value: round(sums[t])})
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Composição de Custos", Subtitle: "R$/ha acumulado por tipo de atividade"}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: chartHeight}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	pie.AddSeries("custos", data)
	return pie
}

// soilByYearChart plots yearly mean soil chemistry.
func soilByYearChart(snap *snapshot.Snapshot) components.Charter {
	type acc struct {
		ph, p, k, om float64
		n            int
	}
	byYear := map[int]*acc{}
	for _, sa := range snap.SoilAnalyses {
		y := sa.Date.Year()
		a, ok := byYear[y]
		if !ok {
			a = &acc{}
			byYear[y] = a
		}
		a.ph += sa.PH
		a.p += sa.PhosphorusPPM
		a.k += sa.PotassiumPPM
		a.om += sa.OrganicMatter
		a.n++
	}

	var years []int
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	labels := make([]string, len(years))
	ph := make([]opts.LineData, len(years))
	phos := make([]opts.LineData, len(years))
	pot := make([]opts.LineData, len(years))
	om := make([]opts.LineData, len(years))
	for i, y := range years {
		a := byYear[y]
		labels[i] = fmt.Sprintf("%d", y)
		ph[i] = opts.LineData{Value: round2(a.ph / float64(a.n))}
		phos[i] = opts.LineData{Value: round2(a.p / float64(a.n))}
		pot[i] = opts.LineData{Value: round2(a.k / float64(a.n))}
		om[i] = opts.LineData{Value: round2(a.om / float64(a.n))}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(baseOptions("Evolução do Solo", "médias anuais de todos os talhões")...)
	line.SetXAxis(labels)
	line.AddSeries("pH", ph)
	line.AddSeries("Fósforo (ppm)", phos)
	line.AddSeries("Potássio (ppm)", pot)
	line.AddSeries("Matéria Orgânica (%)", om)
	return line
}

// climateAnnualChart plots yearly precipitation and temperature.
func climateAnnualChart(hours []model.ClimateHour) components.Charter {
	annual := climate.Annual(hours)

	labels := make([]string, len(annual))
	precip := make([]opts.BarData, len(annual))
	temp := make([]opts.LineData, len(annual))
	for i, a := range annual {
		labels[i] = fmt.Sprintf("%d", a.Year)
		precip[i] = opts.BarData{Value: round(a.TotalPrecipMM)}
		temp[i] = opts.LineData{Value: round2(a.MeanTempC)}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(baseOptions("Clima Anual", "precipitação total (mm) e temperatura média (°C)")...)
	bar.SetXAxis(labels)
	bar.AddSeries("Precipitação (mm)", precip)

	line := charts.NewLine()
	line.SetXAxis(labels)
	line.AddSeries("Temp. média (°C)", temp)
	bar.Overlap(line)
	return bar
}

// ensoChart plots the ONI index history.
func ensoChart(months []model.ENSOMonth) components.Charter {
	labels := make([]string, len(months))
	data := make([]opts.BarData, len(months))
	for i, m := range months {
		labels[i] = fmt.Sprintf("%d-%02d", m.Year, m.Month)
		data[i] = opts.BarData{Value: m.Index}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(baseOptions("Índice ONI", "anomalia da TSM no Pacífico; ±0,5 delimita El Nino / La Nina")...)
	bar.SetXAxis(labels)
	bar.AddSeries("ONI", data)
	return bar
}

// priceChart plots the market close per crop, with the forecast band
// appended when available.
func priceChart(snap *snapshot.Snapshot, points []forecast.Point) components.Charter {
	byCrop := map[string][]model.MarketPrice{}
	var order []string
	for _, p := range snap.MarketPrices {
		if _, ok := byCrop[p.CropName]; !ok {
			order = append(order, p.CropName)
		}
		byCrop[p.CropName] = append(byCrop[p.CropName], p)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(baseOptions("Preços de Mercado", "fechamento diário, R$/kg")...)

	first := true
	for _, crop := range order {
		prices := byCrop[crop]
		labels := make([]string, len(prices))
		data := make([]opts.LineData, len(prices))
		for i, p := range prices {
			labels[i] = p.Date.Format("2006-01-02")
			data[i] = opts.LineData{Value: round3(p.ClosePerKg)}
		}
		if first {
			line.SetXAxis(labels)
			first = false
		}
		line.AddSeries(crop, data)
	}

	fc := forecast.ByCrop(points)
	for _, crop := range order {
		fps := fc[crop]
		if len(fps) == 0 {
			continue
		}
		data := make([]opts.LineData, len(fps))
		for i, p := range fps {
			data[i] = opts.LineData{Value: round3(p.Yhat)}
		}
		line.AddSeries(crop+" (previsto)", data,
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	}
	return line
}

func financeCycles(snap *snapshot.Snapshot) []finance.Cycle {
	out := make([]finance.Cycle, 0, len(snap.Cycles))
	for _, c := range snap.Cycles {
		out = append(out, finance.Cycle{
			ID:        c.CycleID,
			Crop:      c.Crop,
			AreaHa:    c.AreaHa,
			YieldKgHa: c.YieldKgHa,
			CostPerHa: c.TotalCostPerHa,
		})
	}
	return out
}

func round(v float64) float64 { return float64(int(v*10+0.5)) / 10 }

func round2(v float64) float64 { return float64(int(v*100+0.5)) / 100 }

func round3(v float64) float64 { return float64(int(v*1000+0.5)) / 1000 }
