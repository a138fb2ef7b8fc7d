package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestJWT_RoundTrip(t *testing.T) {
	uid := primitive.NewObjectID()

	tok, err := signJWT("secret", uid)
	require.NoError(t, err)

	got, err := parseJWT("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, uid, got)
}

func TestJWT_WrongSecret(t *testing.T) {
	tok, err := signJWT("secret", primitive.NewObjectID())
	require.NoError(t, err)

	_, err = parseJWT("other", tok)
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	app := testApp(&fakeStore{})
	uid := primitive.NewObjectID()

	var seen primitive.ObjectID
	h := app.authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = mustUserID(r)
	}))

	// No token.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid token.
	tok, err := signJWT(app.cfg.JWTSecret, uid)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uid, seen)
}
