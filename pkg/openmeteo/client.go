// Package openmeteo provides a client for the Open-Meteo historical
// archive and forecast APIs. No API key is required.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client defines the Open-Meteo operations.
type Client interface {
	// HourlyArchive fetches the hourly temperature and precipitation
	// series for a location between two dates (inclusive).
	HourlyArchive(ctx context.Context, lat, lon float64, start, end time.Time) ([]HourlyPoint, error)
	// DailyForecast fetches the daily forecast for the next days.
	DailyForecast(ctx context.Context, lat, lon float64, days int) ([]ForecastDay, error)
}

// HourlyPoint is one hour of the archive series.
type HourlyPoint struct {
	Time            time.Time
	TemperatureC    float64
	PrecipitationMM float64
}

// ForecastDay is one day of the forecast.
type ForecastDay struct {
	Date            time.Time
	MaxTempC        float64
	MinTempC        float64
	PrecipitationMM float64
}

// Option configures the Open-Meteo client.
type Option func(*httpClient)

// WithArchiveBaseURL sets a custom archive base URL (for testing).
func WithArchiveBaseURL(url string) Option {
	return func(c *httpClient) {
		c.archiveBaseURL = url
	}
}

// WithForecastBaseURL sets a custom forecast base URL (for testing).
func WithForecastBaseURL(url string) Option {
	return func(c *httpClient) {
		c.forecastBaseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	archiveBaseURL  string
	forecastBaseURL string
	http            *http.Client
	limiter         *rate.Limiter
}

// NewClient creates a new Open-Meteo client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		archiveBaseURL:  "https://archive-api.open-meteo.com",
		forecastBaseURL: "https://api.open-meteo.com",
		http: &http.Client{
			Timeout: 60 * time.Second,
		},
		// The free tier allows 10000 calls/day; half a request per
		// second keeps multi-year syncs well inside it.
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

const timeLayout = "2006-01-02T15:04"

type archiveResponse struct {
	Hourly struct {
		Time          []string   `json:"time"`
		Temperature2M []*float64 `json:"temperature_2m"`
		Precipitation []*float64 `json:"precipitation"`
	} `json:"hourly"`
}

func (c *httpClient) HourlyArchive(ctx context.Context, lat, lon float64, start, end time.Time) ([]HourlyPoint, error) {
	reqURL := fmt.Sprintf(
		"%s/v1/archive?latitude=%.4f&longitude=%.4f&start_date=%s&end_date=%s&hourly=temperature_2m,precipitation&timezone=UTC",
		c.archiveBaseURL, lat, lon, start.Format("2006-01-02"), end.Format("2006-01-02"))

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var result archiveResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "openmeteo: unmarshal archive response")
	}

	h := result.Hourly
	if len(h.Time) != len(h.Temperature2M) || len(h.Time) != len(h.Precipitation) {
		return nil, eris.Errorf("openmeteo: ragged hourly arrays (%d/%d/%d)",
			len(h.Time), len(h.Temperature2M), len(h.Precipitation))
	}

	// Recent archive hours come back as nulls. Temperature gaps are
	// interpolated linearly; precipitation gaps are treated as dry.
	temps := interpolate(h.Temperature2M)

	points := make([]HourlyPoint, 0, len(h.Time))
	for i, ts := range h.Time {
		at, err := time.Parse(timeLayout, ts)
		if err != nil {
			return nil, eris.Wrapf(err, "openmeteo: parse timestamp %q", ts)
		}
		var precip float64
		if h.Precipitation[i] != nil {
			precip = *h.Precipitation[i]
		}
		points = append(points, HourlyPoint{
			Time:            at.UTC(),
			TemperatureC:    temps[i],
			PrecipitationMM: precip,
		})
	}
	return points, nil
}

// interpolate fills nil runs linearly between their known neighbors.
// Leading and trailing runs take the nearest known value; an all-nil
// series fills with zeros.
func interpolate(vals []*float64) []float64 {
	out := make([]float64, len(vals))
	prev := -1
	for i, v := range vals {
		if v == nil {
			continue
		}
		out[i] = *v
		switch {
		case prev < 0:
			for j := 0; j < i; j++ {
				out[j] = *v
			}
		case prev < i-1:
			step := (*v - out[prev]) / float64(i-prev)
			for j := prev + 1; j < i; j++ {
				out[j] = out[prev] + step*float64(j-prev)
			}
		}
		prev = i
	}
	if prev >= 0 {
		for j := prev + 1; j < len(out); j++ {
			out[j] = out[prev]
		}
	}
	return out
}

type forecastResponse struct {
	Daily struct {
		Time             []string  `json:"time"`
		Temperature2MMax []float64 `json:"temperature_2m_max"`
		Temperature2MMin []float64 `json:"temperature_2m_min"`
		PrecipitationSum []float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

func (c *httpClient) DailyForecast(ctx context.Context, lat, lon float64, days int) ([]ForecastDay, error) {
	reqURL := fmt.Sprintf(
		"%s/v1/forecast?latitude=%.4f&longitude=%.4f&daily=temperature_2m_max,temperature_2m_min,precipitation_sum&timezone=UTC&forecast_days=%d",
		c.forecastBaseURL, lat, lon, days)

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var result forecastResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "openmeteo: unmarshal forecast response")
	}

	d := result.Daily
	out := make([]ForecastDay, 0, len(d.Time))
	for i, ts := range d.Time {
		if i >= len(d.Temperature2MMax) || i >= len(d.Temperature2MMin) || i >= len(d.PrecipitationSum) {
			break
		}
		date, err := time.Parse("2006-01-02", ts)
		if err != nil {
			return nil, eris.Wrapf(err, "openmeteo: parse forecast date %q", ts)
		}
		out = append(out, ForecastDay{
			Date:            date,
			MaxTempC:        d.Temperature2MMax[i],
			MinTempC:        d.Temperature2MMin[i],
			PrecipitationMM: d.PrecipitationSum[i],
		})
	}
	return out, nil
}

func (c *httpClient) get(ctx context.Context, reqURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "openmeteo: rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "openmeteo: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "openmeteo: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "openmeteo: read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("openmeteo: unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
