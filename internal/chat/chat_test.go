package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovista/safra-cli/pkg/openmeteo"
	"github.com/agrovista/safra-cli/pkg/openweather"
)

func TestParseIntent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want Intent
	}{
		{"current by default", "como está o tempo?", IntentCurrent},
		{"tomorrow", "vai chover amanhã?", IntentTomorrow},
		{"tomorrow unaccented", "previsao para amanha", IntentTomorrow},
		{"week", "previsão para os próximos dias", IntentWeek},
		{"week via semana", "como fica o tempo essa semana", IntentWeek},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Parse(tt.text, "").Intent)
		})
	}
}

func TestParseCity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"after em", "como está o tempo em Sorriso?", "Sorriso"},
		{"after para", "previsão para Sinop", "Sinop"},
		{"multiword with connective", "tempo em lucas do rio verde", "Lucas do Rio Verde"},
		{"intent words stripped", "previsão para amanhã em Sorriso", "Sorriso"},
		{"no city falls back", "vai chover amanhã?", DefaultCity},
		{"question words only fall back", "previsão de chuva", DefaultCity},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Parse(tt.text, "").City)
		})
	}
}

type fakeWeather struct {
	cond *openweather.Conditions
	loc  *openweather.Location
}

func (f *fakeWeather) Current(ctx context.Context, city string) (*openweather.Conditions, error) {
	return f.cond, nil
}

func (f *fakeWeather) Geocode(ctx context.Context, city string) (*openweather.Location, error) {
	return f.loc, nil
}

type fakeMeteo struct {
	days []openmeteo.ForecastDay
}

func (f *fakeMeteo) HourlyArchive(ctx context.Context, lat, lon float64, start, end time.Time) ([]openmeteo.HourlyPoint, error) {
	return nil, nil
}

func (f *fakeMeteo) DailyForecast(ctx context.Context, lat, lon float64, days int) ([]openmeteo.ForecastDay, error) {
	return f.days, nil
}

func TestAnswerCurrent(t *testing.T) {
	t.Parallel()

	r := NewResponder(&fakeWeather{cond: &openweather.Conditions{
		City: "Sinop", TempC: 31.2, FeelsLikeC: 33.5, Humidity: 48,
		Description: "céu limpo", WindSpeedMS: 3.4,
	}}, &fakeMeteo{}, "")

	out, err := r.Answer(context.Background(), "como está o tempo em Sinop?")
	require.NoError(t, err)
	assert.Contains(t, out, "Tempo agora em Sinop")
	assert.Contains(t, out, "céu limpo")
	assert.Contains(t, out, "31.2°C")
}

func TestAnswerTomorrow(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	r := NewResponder(
		&fakeWeather{loc: &openweather.Location{Name: "Sorriso", Lat: -12.5, Lon: -55.7}},
		&fakeMeteo{days: []openmeteo.ForecastDay{
			{Date: day.AddDate(0, 0, -1), MaxTempC: 30, MinTempC: 17, PrecipitationMM: 0},
			{Date: day, MaxTempC: 33, MinTempC: 19, PrecipitationMM: 12.4},
		}}, "")

	out, err := r.Answer(context.Background(), "vai chover amanhã em Sorriso?")
	require.NoError(t, err)
	assert.Contains(t, out, "Previsão para amanhã em Sorriso")
	assert.Contains(t, out, "33.0°C")
	assert.Contains(t, out, "12.4 mm")
}

func TestAnswerWeek(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	var days []openmeteo.ForecastDay
	for i := 0; i < 7; i++ {
		days = append(days, openmeteo.ForecastDay{Date: base.AddDate(0, 0, i), MaxTempC: 30, MinTempC: 18})
	}
	r := NewResponder(
		&fakeWeather{loc: &openweather.Location{Name: "Lucas do Rio Verde", Lat: -13.05, Lon: -55.9}},
		&fakeMeteo{days: days}, "")

	out, err := r.Answer(context.Background(), "previsão para a semana")
	require.NoError(t, err)
	assert.Contains(t, out, "próximos 7 dias em Lucas do Rio Verde")
	assert.Contains(t, out, "01/06")
}
