package main

import (
	"context"
	"net/http"
	"time"

	"github.com/Ryen-X/petal/bloom"
	"github.com/Ryen-X/petal/models"
)

// handleMapPoints merges the satellite dataset and user contributions into
// one render-ready set. The two fetches are independent snapshots; each is
// capped and sorted most-recent-first by the store.
func (a *App) handleMapPoints(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	satRows, err := a.store.ListSatellitePoints(ctx, a.cfg.MapPointLimit)
	if err != nil {
		a.log.Errorw("satellite point fetch failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch NDVI points")
		return
	}
	contribRows, err := a.store.ListContributedPoints(ctx, a.cfg.MapPointLimit)
	if err != nil {
		a.log.Errorw("contributed point fetch failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch contributed points")
		return
	}

	points, dropped := bloom.Merge(
		bloom.SourceBatch{
			Source:    bloom.SourceSatellite,
			NDVIScale: a.cfg.SatNdviScale,
			Points:    satellitePoints(satRows),
		},
		bloom.SourceBatch{
			Source:    bloom.SourceContributed,
			NDVIScale: 1,
			Points:    contributedPoints(contribRows),
		},
	)
	if dropped > 0 {
		a.log.Warnw("dropped points with invalid coordinates", "dropped", dropped)
	}

	writeJSON(w, http.StatusOK, mapPointsResp{Points: points, Dropped: dropped})
}

func satellitePoints(rows []models.NdviRecord) []bloom.RawPoint {
	out := make([]bloom.RawPoint, 0, len(rows))
	for _, r := range rows {
		out = append(out, bloom.RawPoint{
			ID:   r.ID,
			Lat:  r.Latitude,
			Lon:  r.Longitude,
			NDVI: r.NdviValue,
			Date: r.MeasurementDate,
		})
	}
	return out
}

func contributedPoints(rows []models.Contribution) []bloom.RawPoint {
	out := make([]bloom.RawPoint, 0, len(rows))
	for _, r := range rows {
		out = append(out, bloom.RawPoint{
			ID:       r.ID,
			Lat:      r.Latitude,
			Lon:      r.Longitude,
			NDVI:     r.NdviValue,
			Date:     r.MeasurementDate,
			Username: r.Username,
		})
	}
	return out
}
