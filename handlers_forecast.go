package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Ryen-X/petal/bloom"
	"github.com/Ryen-X/petal/models"
)

// handleForecast fetches the full NDVI history and returns it extended with
// the projected months. The series is computed fresh on every request;
// nothing is cached or persisted.
func (a *App) handleForecast(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	rows, err := a.store.ListObservations(ctx)
	if err != nil {
		a.log.Errorw("ndvi history fetch failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch NDVI data")
		return
	}

	series, err := bloom.Forecast(observations(rows), a.cfg.ForecastMonths)
	if errors.Is(err, bloom.ErrNoData) {
		// Expected condition, not a system failure.
		writeError(w, http.StatusNotFound, "no NDVI data available")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := forecastResp{Data: make([]bloomPoint, 0, len(series))}
	for _, p := range series {
		out.Data = append(out.Data, bloomPoint{
			Date:       p.Date.Format("2006-01-02"),
			Intensity:  p.Intensity,
			IsForecast: p.Forecast,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// observations maps store rows into the engine's input form. Rows without a
// measurement date cannot sit on a time axis and are skipped.
func observations(rows []models.NdviRecord) []bloom.Observation {
	out := make([]bloom.Observation, 0, len(rows))
	for _, r := range rows {
		if r.MeasurementDate == nil {
			continue
		}
		out = append(out, bloom.Observation{Date: *r.MeasurementDate, Intensity: r.NdviValue})
	}
	return out
}
