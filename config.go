package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI  string
	MongoDB   string
	Port      string
	JWTSecret string

	GeminiAPIKey string
	GeminiModel  string

	// SatNdviScale is the divisor applied to satellite-sourced NDVI values
	// before rendering. It is a property of the imported dataset (the MODIS
	// CSV stores index * 10000), so it lives in config rather than code.
	SatNdviScale float64

	// MapPointLimit caps each per-source map query.
	MapPointLimit int64

	// ForecastMonths is the forecast horizon in periods.
	ForecastMonths int

	// CORSOrigins are the allowed frontend hosts.
	CORSOrigins []string
}

func mustConfig() Config {
	// Local development keeps secrets in .env; absence is fine.
	_ = godotenv.Load()

	return Config{
		MongoURI:       getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getenv("MONGO_DB", "petal"),
		Port:           getenv("PORT", "8080"),
		JWTSecret:      getenv("JWT_SECRET", "change_me"),
		GeminiAPIKey:   getenv("GEMINI_API_KEY", ""),
		GeminiModel:    getenv("GEMINI_MODEL", "gemini-2.5-flash"),
		SatNdviScale:   getenvFloat("SAT_NDVI_SCALE", 10000),
		MapPointLimit:  getenvInt("MAP_POINT_LIMIT", 1000),
		ForecastMonths: int(getenvInt("FORECAST_MONTHS", 6)),
		CORSOrigins: strings.Split(
			getenv("CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000,https://*.vercel.app"),
			",",
		),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int64) int64 {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
