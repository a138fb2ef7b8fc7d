// Package models defines the Mongo document types for the petal store.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NdviRecord — one row of the "ndvi_data" collection, written by the MODIS
// CSV importer. NdviValue keeps the dataset's scaled-integer convention
// (index * 10000); the divisor is applied at merge time, never in the store.
// Coordinates are pointers because older imports carry rows without them.
type NdviRecord struct {
	OID             primitive.ObjectID `bson:"_id,omitempty"              json:"-"`
	ID              int64              `bson:"id"                         json:"id"`
	Latitude        *float64           `bson:"latitude,omitempty"         json:"latitude,omitempty"`
	Longitude       *float64           `bson:"longitude,omitempty"        json:"longitude,omitempty"`
	NdviValue       float64            `bson:"ndvi_value"                 json:"ndvi_value"`
	MeasurementDate *time.Time         `bson:"measurement_date,omitempty" json:"measurement_date,omitempty"`
	Geo             string             `bson:"geo,omitempty"              json:"geo,omitempty"` // WKT POINT(lon lat)
}

// Contribution — one row of the "user_contributions" collection. NdviValue
// here is the conventional index value, unscaled.
type Contribution struct {
	OID             primitive.ObjectID `bson:"_id,omitempty"              json:"-"`
	ID              int64              `bson:"id"                         json:"id"`
	Username        string             `bson:"username"                   json:"username"`
	Latitude        *float64           `bson:"latitude,omitempty"         json:"latitude,omitempty"`
	Longitude       *float64           `bson:"longitude,omitempty"        json:"longitude,omitempty"`
	NdviValue       float64            `bson:"ndvi_value"                 json:"ndvi_value"`
	MeasurementDate *time.Time         `bson:"measurement_date,omitempty" json:"measurement_date,omitempty"`
	Geo             string             `bson:"geo,omitempty"              json:"geo,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt"                  json:"createdAt"`
}
