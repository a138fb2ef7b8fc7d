package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Ryen-X/petal/models"
)

// fakeStore implements Store for handler tests.
type fakeStore struct {
	observations  []models.NdviRecord
	satellite     []models.NdviRecord
	contributed   []models.Contribution
	inserted      []models.Contribution
	observErr     error
	satErr        error
	contribErr    error
	insertErr     error
	satLimitSeen  int64
	contribLimits int64
}

func (f *fakeStore) ListObservations(ctx context.Context) ([]models.NdviRecord, error) {
	return f.observations, f.observErr
}

func (f *fakeStore) ListSatellitePoints(ctx context.Context, limit int64) ([]models.NdviRecord, error) {
	f.satLimitSeen = limit
	return f.satellite, f.satErr
}

func (f *fakeStore) ListContributedPoints(ctx context.Context, limit int64) ([]models.Contribution, error) {
	f.contribLimits = limit
	return f.contributed, f.contribErr
}

func (f *fakeStore) InsertContribution(ctx context.Context, c *models.Contribution) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, *c)
	return nil
}

func (f *fakeStore) CreateUser(ctx context.Context, u *models.User) error { return nil }

func (f *fakeStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, errors.New("not found")
}

func (f *fakeStore) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return nil, errors.New("not found")
}

func testApp(store Store) *App {
	cfg := Config{
		SatNdviScale:   10000,
		MapPointLimit:  1000,
		ForecastMonths: 6,
		JWTSecret:      "test",
	}
	return &App{
		cfg:    cfg,
		log:    zap.NewNop().Sugar(),
		store:  store,
		gemini: newGeminiClient("", "gemini-2.5-flash"),
	}
}

func day(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func fp(v float64) *float64 { return &v }

func TestHandleForecast_NoData(t *testing.T) {
	app := testApp(&fakeStore{})

	rec := httptest.NewRecorder()
	app.handleForecast(rec, httptest.NewRequest(http.MethodPost, "/api/forecast", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp errorResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "no NDVI data available", resp.Error)
}

func TestHandleForecast_StoreFailure(t *testing.T) {
	app := testApp(&fakeStore{observErr: errors.New("connection reset")})

	rec := httptest.NewRecorder()
	app.handleForecast(rec, httptest.NewRequest(http.MethodPost, "/api/forecast", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleForecast_CombinedSeries(t *testing.T) {
	app := testApp(&fakeStore{
		observations: []models.NdviRecord{
			{MeasurementDate: day("2024-01-01"), NdviValue: 40},
			{MeasurementDate: day("2024-02-01"), NdviValue: 50},
		},
	})

	rec := httptest.NewRecorder()
	app.handleForecast(rec, httptest.NewRequest(http.MethodPost, "/api/forecast", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp forecastResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 8)

	assert.Equal(t, bloomPoint{Date: "2024-01-01", Intensity: 40}, resp.Data[0])
	assert.Equal(t, bloomPoint{Date: "2024-02-01", Intensity: 50}, resp.Data[1])
	assert.Equal(t, bloomPoint{Date: "2024-03-01", Intensity: 60, IsForecast: true}, resp.Data[2])
	assert.Equal(t, bloomPoint{Date: "2024-07-01", Intensity: 100, IsForecast: true}, resp.Data[6])
	assert.Equal(t, bloomPoint{Date: "2024-08-01", Intensity: 100, IsForecast: true}, resp.Data[7])
}

func TestHandleMapPoints_MergesAndScales(t *testing.T) {
	store := &fakeStore{
		satellite: []models.NdviRecord{
			{ID: 1, Latitude: fp(34.05), Longitude: fp(-118.24), NdviValue: 6100, MeasurementDate: day("2024-05-01")},
		},
		contributed: []models.Contribution{
			{ID: 1, Username: "rosa", Latitude: fp(51.51), Longitude: fp(-0.13), NdviValue: 0.72},
		},
	}
	app := testApp(store)

	rec := httptest.NewRecorder()
	app.handleMapPoints(rec, httptest.NewRequest(http.MethodGet, "/api/map/points", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1000), store.satLimitSeen)
	assert.Equal(t, int64(1000), store.contribLimits)

	var resp mapPointsResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Points, 2)
	assert.Zero(t, resp.Dropped)

	assert.Equal(t, "satellite", string(resp.Points[0].Source))
	assert.InDelta(t, 0.61, resp.Points[0].NDVI, 1e-9)
	assert.Equal(t, "contributed", string(resp.Points[1].Source))
	assert.Equal(t, "rosa", resp.Points[1].Username)
	assert.InDelta(t, 0.72, resp.Points[1].NDVI, 1e-9)
}

func TestHandleMapPoints_DropsInvalidAndReportsCount(t *testing.T) {
	store := &fakeStore{
		satellite: []models.NdviRecord{
			{ID: 1, Latitude: fp(math.NaN()), Longitude: fp(-118.24)},
		},
		contributed: []models.Contribution{
			{ID: 2, Username: "iris", Latitude: fp(48.85), Longitude: fp(2.35), NdviValue: 0.4},
		},
	}
	app := testApp(store)

	rec := httptest.NewRecorder()
	app.handleMapPoints(rec, httptest.NewRequest(http.MethodGet, "/api/map/points", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp mapPointsResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Points, 1)
	assert.Equal(t, 1, resp.Dropped)
	assert.Equal(t, "contributed", string(resp.Points[0].Source))
}

func TestHandleMapPoints_StoreFailurePropagates(t *testing.T) {
	app := testApp(&fakeStore{satErr: errors.New("boom")})

	rec := httptest.NewRecorder()
	app.handleMapPoints(rec, httptest.NewRequest(http.MethodGet, "/api/map/points", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleContribute_ValidInsert(t *testing.T) {
	store := &fakeStore{}
	app := testApp(store)

	body, _ := json.Marshal(map[string]any{
		"username":         "rosa",
		"latitude":         34.0522,
		"longitude":        -118.2437,
		"ndvi_value":       0.61,
		"measurement_date": "2024-05-01",
	})
	rec := httptest.NewRecorder()
	app.handleContribute(rec, httptest.NewRequest(http.MethodPost, "/api/contributions", bytes.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.inserted, 1)

	c := store.inserted[0]
	assert.Equal(t, "rosa", c.Username)
	assert.Equal(t, 0.61, c.NdviValue)
	assert.Equal(t, "POINT(-118.2437 34.0522)", c.Geo)
	require.NotNil(t, c.MeasurementDate)
	assert.Equal(t, *day("2024-05-01"), *c.MeasurementDate)
}

func TestHandleContribute_RejectsMissingFields(t *testing.T) {
	store := &fakeStore{}
	app := testApp(store)

	body, _ := json.Marshal(map[string]any{"username": "rosa", "latitude": 1.0})
	rec := httptest.NewRecorder()
	app.handleContribute(rec, httptest.NewRequest(http.MethodPost, "/api/contributions", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.inserted)
}

func TestHandleContribute_RejectsOutOfRangeCoordinates(t *testing.T) {
	store := &fakeStore{}
	app := testApp(store)

	body, _ := json.Marshal(map[string]any{
		"username":   "rosa",
		"latitude":   999.0,
		"longitude":  0.0,
		"ndvi_value": 0.5,
	})
	rec := httptest.NewRecorder()
	app.handleContribute(rec, httptest.NewRequest(http.MethodPost, "/api/contributions", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.inserted)
}

func TestHandleChat_RequiresMessage(t *testing.T) {
	app := testApp(&fakeStore{})

	body, _ := json.Marshal(map[string]any{"message": "   "})
	rec := httptest.NewRecorder()
	app.handleChat(rec, httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleChat_PassesThroughReply(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"NDVI measures vegetation density."}]}}]}`))
	}))
	defer upstream.Close()

	app := testApp(&fakeStore{})
	app.gemini = newGeminiClient("test-key", "gemini-2.5-flash")
	app.gemini.baseURL = upstream.URL

	body, _ := json.Marshal(map[string]any{"message": "what is NDVI?"})
	rec := httptest.NewRecorder()
	app.handleChat(rec, httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp chatResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "NDVI measures vegetation density.", resp.Response)
}

func TestHandleChat_UpstreamFailureSurfacesMessage(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer upstream.Close()

	app := testApp(&fakeStore{})
	app.gemini = newGeminiClient("test-key", "gemini-2.5-flash")
	app.gemini.baseURL = upstream.URL

	body, _ := json.Marshal(map[string]any{"message": "hello"})
	rec := httptest.NewRecorder()
	app.handleChat(rec, httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(body)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp errorResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "quota exceeded")
}
