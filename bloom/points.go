package bloom

import (
	"math"
	"time"
)

// Source discriminates a geo point's origin dataset. It drives marker
// styling and popup content downstream; once merged it is the only field
// that separates the two origins.
type Source string

const (
	SourceSatellite   Source = "satellite"
	SourceContributed Source = "contributed"
)

// RawPoint is the validated intermediate form of a store row. Coordinates
// stay pointers so an absent column is distinguishable from zero; Merge is
// the single place that decides whether a point is renderable.
type RawPoint struct {
	ID       int64
	Lat      *float64
	Lon      *float64
	NDVI     float64
	Date     *time.Time
	Username string
}

// GeoPoint is a render-ready observation. IDs are unique only within a
// source collection, so the composite key across the merged set is
// (Source, ID).
type GeoPoint struct {
	ID       int64      `json:"id"`
	Lat      float64    `json:"latitude"`
	Lon      float64    `json:"longitude"`
	NDVI     float64    `json:"ndvi_value"`
	Date     *time.Time `json:"measurement_date,omitempty"`
	Username string     `json:"username,omitempty"`
	Source   Source     `json:"source"`
}

// SourceBatch is one source collection together with its NDVI divisor.
// The divisor is a property of the upstream dataset (the MODIS import
// stores scaled integers, contributions store the index directly), so each
// batch states its own rather than the merge guessing a global rule.
type SourceBatch struct {
	Source    Source
	NDVIScale float64
	Points    []RawPoint
}

// Merge flattens the batches into one render-ready set. Points with a
// missing or non-finite coordinate are dropped, not defaulted; the dropped
// count is returned so callers can spot data-quality regressions. Batch
// order and per-batch input order are preserved, and nothing is
// deduplicated across sources.
func Merge(batches ...SourceBatch) ([]GeoPoint, int) {
	n := 0
	for _, b := range batches {
		n += len(b.Points)
	}
	out := make([]GeoPoint, 0, n)
	dropped := 0

	for _, b := range batches {
		scale := b.NDVIScale
		if scale == 0 {
			scale = 1
		}
		for _, p := range b.Points {
			if !finite(p.Lat) || !finite(p.Lon) {
				dropped++
				continue
			}
			out = append(out, GeoPoint{
				ID:       p.ID,
				Lat:      *p.Lat,
				Lon:      *p.Lon,
				NDVI:     p.NDVI / scale,
				Date:     p.Date,
				Username: p.Username,
				Source:   b.Source,
			})
		}
	}
	return out, dropped
}

func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
