// Package chat answers natural-language weather questions in
// Portuguese: current conditions, tomorrow, or the week ahead.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/agrovista/safra-cli/pkg/openmeteo"
	"github.com/agrovista/safra-cli/pkg/openweather"
)

// DefaultCity answers questions that name no location.
const DefaultCity = "Lucas do Rio Verde"

// Intent is the kind of weather question asked.
type Intent int

const (
	IntentCurrent Intent = iota
	IntentTomorrow
	IntentWeek
)

// Query is a parsed question.
type Query struct {
	Intent Intent
	City   string
}

// stopwords are question words that must not leak into the extracted
// city name.
var stopwords = map[string]bool{
	"amanhã": true, "amanha": true, "hoje": true, "agora": true,
	"semana": true, "dias": true, "próximos": true, "proximos": true,
	"chuva": true, "tempo": true, "clima": true, "previsão": true,
	"previsao": true, "chover": true, "vai": true, "o": true, "a": true,
}

// Parse classifies a question and extracts the city, falling back to
// defaultCity when none is named. The city is whatever follows the
// last "em", "para", or "de", minus question words.
func Parse(text, defaultCity string) Query {
	if defaultCity == "" {
		defaultCity = DefaultCity
	}
	lower := strings.ToLower(strings.TrimRight(strings.TrimSpace(text), "?!."))

	q := Query{Intent: IntentCurrent, City: defaultCity}
	switch {
	case strings.Contains(lower, "amanhã") || strings.Contains(lower, "amanha"):
		q.Intent = IntentTomorrow
	case strings.Contains(lower, "próximos dias") || strings.Contains(lower, "proximos dias") ||
		strings.Contains(lower, "semana"):
		q.Intent = IntentWeek
	}

	words := strings.Fields(lower)
	prep := -1
	for i, w := range words {
		if w == "em" || w == "para" || w == "de" {
			prep = i
		}
	}
	if prep >= 0 && prep+1 < len(words) {
		var city []string
		for _, w := range words[prep+1:] {
			if stopwords[w] {
				continue
			}
			city = append(city, w)
		}
		if len(city) > 0 {
			q.City = titleCase(strings.Join(city, " "))
		}
	}
	return q
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		// Connectives stay lowercase: "Lucas do Rio Verde".
		if w == "do" || w == "da" || w == "de" || w == "dos" || w == "das" {
			continue
		}
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
	}
	return strings.Join(words, " ")
}

// Responder resolves parsed queries against the weather providers.
type Responder struct {
	weather     openweather.Client
	meteo       openmeteo.Client
	defaultCity string
}

func NewResponder(weather openweather.Client, meteo openmeteo.Client, defaultCity string) *Responder {
	if defaultCity == "" {
		defaultCity = DefaultCity
	}
	return &Responder{weather: weather, meteo: meteo, defaultCity: defaultCity}
}

// Answer parses the question and returns a Portuguese reply.
func (r *Responder) Answer(ctx context.Context, text string) (string, error) {
	q := Parse(text, r.defaultCity)

	switch q.Intent {
	case IntentTomorrow:
		return r.tomorrow(ctx, q.City)
	case IntentWeek:
		return r.week(ctx, q.City)
	default:
		return r.current(ctx, q.City)
	}
}

func (r *Responder) current(ctx context.Context, city string) (string, error) {
	cond, err := r.weather.Current(ctx, city)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Tempo agora em %s: %s, %.1f°C (sensação %.1f°C), umidade %d%%, vento %.1f m/s.",
		cond.City, cond.Description, cond.TempC, cond.FeelsLikeC, cond.Humidity, cond.WindSpeedMS), nil
}

func (r *Responder) tomorrow(ctx context.Context, city string) (string, error) {
	loc, err := r.weather.Geocode(ctx, city)
	if err != nil {
		return "", err
	}
	days, err := r.meteo.DailyForecast(ctx, loc.Lat, loc.Lon, 2)
	if err != nil {
		return "", err
	}
	if len(days) < 2 {
		return fmt.Sprintf("Sem previsão disponível para amanhã em %s.", loc.Name), nil
	}
	d := days[1]
	return fmt.Sprintf("Previsão para amanhã em %s: máxima %.1f°C, mínima %.1f°C, chuva %.1f mm.",
		loc.Name, d.MaxTempC, d.MinTempC, d.PrecipitationMM), nil
}

func (r *Responder) week(ctx context.Context, city string) (string, error) {
	loc, err := r.weather.Geocode(ctx, city)
	if err != nil {
		return "", err
	}
	days, err := r.meteo.DailyForecast(ctx, loc.Lat, loc.Lon, 7)
	if err != nil {
		return "", err
	}
	if len(days) == 0 {
		return fmt.Sprintf("Sem previsão disponível para %s.", loc.Name), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Previsão para os próximos %d dias em %s:\n", len(days), loc.Name)
	for _, d := range days {
		fmt.Fprintf(&b, "  %s: máx %.1f°C, mín %.1f°C, chuva %.1f mm\n",
			d.Date.Format("02/01"), d.MaxTempC, d.MinTempC, d.PrecipitationMM)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
