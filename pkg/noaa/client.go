// Package noaa provides a client for the NOAA Climate Prediction
// Center Niño 3.4 SST anomaly series (the ONI basis).
package noaa

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client defines the NOAA CPC operations.
type Client interface {
	// ONI fetches the monthly Niño 3.4 anomaly history from 2000 on.
	ONI(ctx context.Context) ([]Month, error)
}

// Month is one monthly anomaly record.
type Month struct {
	Year    int
	Month   int
	Anomaly float64
}

// minYear trims the series to a modern baseline; records before it are
// older than any cycle in the store.
const minYear = 2000

// Option configures the NOAA client.
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
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new NOAA CPC client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: "https://origin.cpc.ncep.noaa.gov",
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) ONI(ctx context.Context) ([]Month, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "noaa: rate limit wait")
	}

	reqURL := c.baseURL + "/products/analysis_monitoring/ensostuff/detrend.nino34.ascii.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "noaa: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "noaa: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "noaa: read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("noaa: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	return parseONI(body)
}

// parseONI reads the whitespace table "YR MON TOTAL ClimAdjust ANOM".
// Unparseable lines (the header included) are skipped; a file with no
// valid records is an error.
func parseONI(body []byte) ([]Month, error) {
	var out []Month
	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 5 {
			continue
		}
		year, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		month, err := strconv.Atoi(fields[1])
		if err != nil || month < 1 || month > 12 {
			continue
		}
		anom, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			continue
		}
		if year < minYear {
			continue
		}
		out = append(out, Month{Year: year, Month: month, Anomaly: anom})
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrap(err, "noaa: scan response")
	}
	if len(out) == 0 {
		return nil, eris.New("noaa: no anomaly records in response")
	}
	return out, nil
}
