package noaa

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const oniSample = `  YR   MON  TOTAL ClimAdjust   ANOM
1999     1  26.04      26.55  -0.51
2023     1  25.88      26.58  -0.70
2023     2  26.53      26.93  -0.40
2023    12  28.28      26.28   2.00
garbage line here
2023    13  00.00      00.00   0.00
`

func TestONI(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/analysis_monitoring/ensostuff/detrend.nino34.ascii.txt", r.URL.Path)
		w.Write([]byte(oniSample))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	months, err := c.ONI(context.Background())
	require.NoError(t, err)

	// The 1999 row is before the cutoff and month 13 is invalid.
	require.Len(t, months, 3)
	assert.Equal(t, Month{Year: 2023, Month: 1, Anomaly: -0.7}, months[0])
	assert.Equal(t, Month{Year: 2023, Month: 2, Anomaly: -0.4}, months[1])
	assert.Equal(t, Month{Year: 2023, Month: 12, Anomaly: 2.0}, months[2])
}

func TestONIEmptyFile(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("  YR   MON  TOTAL ClimAdjust   ANOM\n"))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.ONI(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no anomaly records")
}

func TestONIHTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.ONI(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}
