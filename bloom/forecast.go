// Package bloom holds the pure computation core: the bloom-intensity
// forecast and the two-source geo point merge. Nothing here touches the
// store or the network; callers fetch rows and pass them in.
package bloom

import (
	"errors"
	"time"

	"github.com/montanaflynn/stats"
)

// DefaultHorizon is the number of forecast periods (months) appended to a
// historical series when the caller does not override it.
const DefaultHorizon = 6

const (
	intensityMin = 0
	intensityMax = 100
)

// ErrNoData is returned when the historical series is empty. An all-zero
// series is valid; an empty one is not.
var ErrNoData = errors.New("no NDVI observations")

// Observation is one historical NDVI reading mapped onto the 0-100
// intensity scale. The caller's store query delivers them ascending by date.
type Observation struct {
	Date      time.Time `json:"date"`
	Intensity float64   `json:"intensity"`
}

// Point is one element of the combined series. Forecast is true only on
// synthesized points; historical points keep it false so it marshals away.
type Point struct {
	Date      time.Time `json:"date"`
	Intensity float64   `json:"intensity"`
	Forecast  bool      `json:"isForecast,omitempty"`
}

// Forecast extends history with `months` synthesized points by continuing
// the average month-over-month change. The model is deliberately a linear
// trend continuation: no seasonality, no outlier rejection, no confidence
// band. Months <= 0 selects DefaultHorizon.
//
// The input is trusted to be date-ascending; it is returned unchanged ahead
// of the synthesized points. Only the final predicted value is clamped to
// [0, 100]; the trend itself is not.
func Forecast(history []Observation, months int) ([]Point, error) {
	if len(history) == 0 {
		return nil, ErrNoData
	}
	if months <= 0 {
		months = DefaultHorizon
	}

	avgChange := averageChange(history)
	last := history[len(history)-1]

	out := make([]Point, 0, len(history)+months)
	for _, h := range history {
		out = append(out, Point{Date: h.Date, Intensity: h.Intensity})
	}
	for i := 1; i <= months; i++ {
		out = append(out, Point{
			Date:      last.Date.AddDate(0, i, 0),
			Intensity: clamp(last.Intensity+avgChange*float64(i), intensityMin, intensityMax),
			Forecast:  true,
		})
	}
	return out, nil
}

// averageChange is the mean of successive first differences. A single
// observation has no trend to read, so the series continues flat.
func averageChange(history []Observation) float64 {
	if len(history) < 2 {
		return 0
	}
	diffs := make([]float64, 0, len(history)-1)
	for i := 1; i < len(history); i++ {
		diffs = append(diffs, history[i].Intensity-history[i-1].Intensity)
	}
	mean, err := stats.Mean(diffs)
	if err != nil {
		return 0
	}
	return mean
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
