package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMustConfig_Defaults(t *testing.T) {
	for _, k := range []string{"MONGO_URI", "MONGO_DB", "PORT", "SAT_NDVI_SCALE", "MAP_POINT_LIMIT", "FORECAST_MONTHS"} {
		t.Setenv(k, "")
	}

	cfg := mustConfig()

	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "petal", cfg.MongoDB)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, float64(10000), cfg.SatNdviScale)
	assert.Equal(t, int64(1000), cfg.MapPointLimit)
	assert.Equal(t, 6, cfg.ForecastMonths)
}

func TestMustConfig_EnvOverrides(t *testing.T) {
	t.Setenv("MONGO_DB", "petal_test")
	t.Setenv("SAT_NDVI_SCALE", "250")
	t.Setenv("MAP_POINT_LIMIT", "50")
	t.Setenv("FORECAST_MONTHS", "12")

	cfg := mustConfig()

	assert.Equal(t, "petal_test", cfg.MongoDB)
	assert.Equal(t, float64(250), cfg.SatNdviScale)
	assert.Equal(t, int64(50), cfg.MapPointLimit)
	assert.Equal(t, 12, cfg.ForecastMonths)
}

func TestMustConfig_BadNumericFallsBack(t *testing.T) {
	t.Setenv("SAT_NDVI_SCALE", "lots")
	t.Setenv("MAP_POINT_LIMIT", "many")

	cfg := mustConfig()

	assert.Equal(t, float64(10000), cfg.SatNdviScale)
	assert.Equal(t, int64(1000), cfg.MapPointLimit)
}
