// Package openweather provides a client for the OpenWeatherMap current
// conditions and geocoding APIs.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client defines the OpenWeatherMap operations.
type Client interface {
	// Current fetches the current conditions for a city.
	Current(ctx context.Context, city string) (*Conditions, error)
	// Geocode resolves a city name to coordinates.
	Geocode(ctx context.Context, city string) (*Location, error)
}

// Conditions is the current weather at a location.
type Conditions struct {
	City        string
	TempC       float64
	FeelsLikeC  float64
	Humidity    int
	Description string
	WindSpeedMS float64
}

// Location is a geocoded place.
type Location struct {
	Name string
	Lat  float64
	Lon  float64
}

// Option configures the OpenWeatherMap client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new OpenWeatherMap client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org",
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type currentResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

func (c *httpClient) Current(ctx context.Context, city string) (*Conditions, error) {
	reqURL := fmt.Sprintf("%s/data/2.5/weather?q=%s&appid=%s&units=metric&lang=pt_br",
		c.baseURL, url.QueryEscape(city), c.apiKey)

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var result currentResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "openweather: unmarshal current response")
	}

	cond := &Conditions{
		City:        result.Name,
		TempC:       result.Main.Temp,
		FeelsLikeC:  result.Main.FeelsLike,
		Humidity:    result.Main.Humidity,
		WindSpeedMS: result.Wind.Speed,
	}
	if len(result.Weather) > 0 {
		cond.Description = result.Weather[0].Description
	}
	return cond, nil
}

func (c *httpClient) Geocode(ctx context.Context, city string) (*Location, error) {
	reqURL := fmt.Sprintf("%s/geo/1.0/direct?q=%s&limit=1&appid=%s",
		c.baseURL, url.QueryEscape(city), c.apiKey)

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var results []struct {
		Name string  `json:"name"`
		Lat  float64 `json:"lat"`
		Lon  float64 `json:"lon"`
	}
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, eris.Wrap(err, "openweather: unmarshal geocode response")
	}
	if len(results) == 0 {
		return nil, eris.Errorf("openweather: city %q not found", city)
	}
	return &Location{Name: results[0].Name, Lat: results[0].Lat, Lon: results[0].Lon}, nil
}

func (c *httpClient) get(ctx context.Context, reqURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "openweather: rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "openweather: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "openweather: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "openweather: read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("openweather: unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
