package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/Ryen-X/petal/models"
)

// handleContribute validates and stores one crowd-sourced NDVI observation.
// Numeric and required-field checks happen here, before the write; the geo
// column is synthesized as WKT the same way the MODIS importer does it.
func (a *App) handleContribute(w http.ResponseWriter, r *http.Request) {
	var req contributeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Latitude == nil || req.Longitude == nil || req.NdviValue == nil {
		writeError(w, http.StatusBadRequest, "username, latitude, longitude and ndvi_value are required")
		return
	}
	lat, lon := *req.Latitude, *req.Longitude
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		writeError(w, http.StatusBadRequest, "latitude and longitude must be valid numbers")
		return
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		writeError(w, http.StatusBadRequest, "latitude or longitude out of range")
		return
	}

	// Measurement date defaults to today when not supplied.
	when := time.Now().UTC().Truncate(24 * time.Hour)
	if req.MeasurementDate != "" {
		parsed, err := time.Parse("2006-01-02", req.MeasurementDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "measurement_date must be YYYY-MM-DD")
			return
		}
		when = parsed
	}

	c := models.Contribution{
		Username:        req.Username,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		NdviValue:       *req.NdviValue,
		MeasurementDate: &when,
		Geo:             fmt.Sprintf("POINT(%g %g)", lon, lat),
		CreatedAt:       time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := a.store.InsertContribution(ctx, &c); err != nil {
		a.log.Errorw("contribution insert failed", "err", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}
