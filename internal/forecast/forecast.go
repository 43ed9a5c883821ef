// Package forecast loads externally produced price forecasts. The
// modeling pipeline runs elsewhere and drops a CSV; this package only
// reads it for the dashboard.
package forecast

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Point is one forecast value with its confidence band.
type Point struct {
	Date  time.Time `json:"date"`
	Crop  string    `json:"crop"`
	Yhat  float64   `json:"yhat"`
	Lower float64   `json:"yhat_lower"`
	Upper float64   `json:"yhat_upper"`
}

// columns is the expected CSV header.
var columns = []string{"ds", "cultura", "yhat", "yhat_lower", "yhat_upper"}

// Read parses the forecast CSV. Rows with malformed dates or numerics
// are skipped with a warning rather than failing the whole file.
func Read(r io.Reader) ([]Point, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(columns)

	header, err := cr.Read()
	if err != nil {
		return nil, eris.Wrap(err, "forecast: read header")
	}
	for i, want := range columns {
		if header[i] != want {
			return nil, eris.Errorf("forecast: unexpected header column %q (want %q)", header[i], want)
		}
	}

	var points []Point
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "forecast: read record")
		}

		date, err := time.Parse("2006-01-02", record[0])
		if err != nil {
			zap.L().Warn("forecast: skipping row with bad date", zap.String("ds", record[0]))
			continue
		}
		yhat, err1 := strconv.ParseFloat(record[2], 64)
		lower, err2 := strconv.ParseFloat(record[3], 64)
		upper, err3 := strconv.ParseFloat(record[4], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			zap.L().Warn("forecast: skipping row with bad numeric", zap.String("ds", record[0]), zap.String("crop", record[1]))
			continue
		}

		points = append(points, Point{
			Date: date, Crop: record[1],
			Yhat: yhat, Lower: lower, Upper: upper,
		})
	}
	return points, nil
}

// ReadFile loads a forecast CSV from disk. A missing file is not an
// error: the forecast is optional and the dashboard degrades.
func ReadFile(path string) ([]Point, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "forecast: open %s", path)
	}
	defer f.Close()
	return Read(f)
}

// ByCrop groups points per crop, keeping date order.
func ByCrop(points []Point) map[string][]Point {
	out := make(map[string][]Point)
	for _, p := range points {
		out[p.Crop] = append(out[p.Crop], p)
	}
	return out
}
