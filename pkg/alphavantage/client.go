// Package alphavantage provides a client for the Alpha Vantage FX API
// plus a deterministic simulated commodity feed, since the free tier
// exposes currency pairs but not agricultural futures.
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"math/rand"
	"net/http"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client defines the Alpha Vantage operations.
type Client interface {
	// FXDaily fetches the daily close of a currency pair, oldest first.
	FXDaily(ctx context.Context, from, to string) ([]FXRate, error)
}

// FXRate is one day's closing exchange rate.
type FXRate struct {
	Date  time.Time
	Close float64
}

// Option configures the Alpha Vantage client.
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

// NewClient creates a new Alpha Vantage client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://www.alphavantage.co",
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		// Free tier: 25 requests/day, 5/minute.
		limiter: rate.NewLimiter(rate.Every(13*time.Second), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type fxDailyResponse struct {
	Note       string                       `json:"Note"`
	ErrorMsg   string                       `json:"Error Message"`
	TimeSeries map[string]map[string]string `json:"Time Series FX (Daily)"`
}

func (c *httpClient) FXDaily(ctx context.Context, from, to string) ([]FXRate, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "alphavantage: rate limit wait")
	}

	reqURL := fmt.Sprintf(
		"%s/query?function=FX_DAILY&from_symbol=%s&to_symbol=%s&outputsize=full&apikey=%s",
		c.baseURL, from, to, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "alphavantage: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "alphavantage: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "alphavantage: read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("alphavantage: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result fxDailyResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "alphavantage: unmarshal response")
	}
	if result.ErrorMsg != "" {
		return nil, eris.Errorf("alphavantage: API error: %s", result.ErrorMsg)
	}
	if result.Note != "" {
		return nil, eris.Errorf("alphavantage: rate limited: %s", result.Note)
	}
	if len(result.TimeSeries) == 0 {
		return nil, eris.New("alphavantage: empty FX series")
	}

	rates := make([]FXRate, 0, len(result.TimeSeries))
	for day, fields := range result.TimeSeries {
		date, err := time.Parse("2006-01-02", day)
		if err != nil {
			continue
		}
		var close float64
		if _, err := fmt.Sscanf(fields["4. close"], "%f", &close); err != nil {
			continue
		}
		rates = append(rates, FXRate{Date: date, Close: close})
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].Date.Before(rates[j].Date) })
	return rates, nil
}

// DailyPrice is one simulated daily commodity close, in USD cents per
// exchange trade unit (bushel for grains, pound for cotton).
type DailyPrice struct {
	Date          time.Time
	CloseUSDCents float64
}

// commodityProfile anchors each crop's simulated series.
type commodityProfile struct {
	baseCents   float64
	tradeUnitKg float64
}

var commodities = map[string]commodityProfile{
	"Soja":    {baseCents: 1300, tradeUnitKg: 27.2155}, // 60 lb bushel
	"Milho":   {baseCents: 450, tradeUnitKg: 25.4012},  // 56 lb bushel
	"Algodão": {baseCents: 85, tradeUnitKg: 0.453592},  // pound
}

// simulationEpoch anchors every walk so a series is identical no
// matter which window is requested.
var simulationEpoch = time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)

// SimulatedCommodity generates a deterministic daily random walk for a
// crop between two dates (inclusive). The same crop always produces
// the same series. Unknown crops return nil.
func SimulatedCommodity(crop string, start, end time.Time) []DailyPrice {
	profile, ok := commodities[crop]
	if !ok {
		return nil
	}

	h := fnv.New64a()
	h.Write([]byte(crop))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	var out []DailyPrice
	price := profile.baseCents
	for day := simulationEpoch; !day.After(end); day = day.AddDate(0, 0, 1) {
		// ±1.5% daily move with slight mean reversion to the base.
		drift := (profile.baseCents - price) / profile.baseCents * 0.01
		price *= 1 + drift + (rng.Float64()-0.5)*0.03
		if day.Before(start) {
			continue
		}
		out = append(out, DailyPrice{Date: day, CloseUSDCents: price})
	}
	return out
}

// PricePerKgBRL converts a commodity close to BRL per kilogram using
// the day's USD/BRL rate.
func PricePerKgBRL(crop string, closeUSDCents, usdBRL float64) (float64, bool) {
	profile, ok := commodities[crop]
	if !ok {
		return 0, false
	}
	usdPerKg := closeUSDCents / 100 / profile.tradeUnitKg
	return usdPerKg * usdBRL, true
}
