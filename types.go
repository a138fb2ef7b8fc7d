package main

import (
	"encoding/json"
	"net/http"

	"github.com/Ryen-X/petal/bloom"
)

// Request/response DTOs. Keep them minimal and explicit.

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResp struct {
	Token string `json:"token"`
}

// bloomPoint is the wire form of one combined-series element. Dates go out
// as calendar days, the way the chart consumes them.
type bloomPoint struct {
	Date       string  `json:"date"`
	Intensity  float64 `json:"intensity"`
	IsForecast bool    `json:"isForecast,omitempty"`
}

type forecastResp struct {
	Data []bloomPoint `json:"data"`
}

type mapPointsResp struct {
	Points  []bloom.GeoPoint `json:"points"`
	Dropped int              `json:"dropped"`
}

type contributeReq struct {
	Username        string   `json:"username"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	NdviValue       *float64 `json:"ndvi_value"`
	MeasurementDate string   `json:"measurement_date,omitempty"`
}

type chatReq struct {
	Message string `json:"message"`
}

type chatResp struct {
	Response string `json:"response"`
}

type errorResp struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResp{Error: msg})
}
