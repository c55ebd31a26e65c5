package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/infrastructure/database"
)

type fakeDB struct{ err error }

func (f fakeDB) HealthCheck(context.Context) error { return f.err }
func (f fakeDB) Stats() (*database.PoolStats, error) {
	return &database.PoolStats{TotalConns: 2, MaxConns: 10}, nil
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func getHealth(t *testing.T, h gin.HandlerFunc) (int, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHealthOK(t *testing.T) {
	code, body := getHealth(t, healthCheckHandler("1.2.0", fakeDB{}, fakePinger{}))

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "1.2.0", body["version"])
	assert.Equal(t, map[string]interface{}{"database": "ok", "redis": "ok"}, body["services"])
	assert.NotNil(t, body["pool"])
}

func TestHealthHidesFailureDetails(t *testing.T) {
	db := fakeDB{err: errors.New("failed to connect to host=10.0.0.5 user=library")}
	redis := fakePinger{err: errors.New("dial tcp 10.0.0.6:6379: connection refused")}

	code, body := getHealth(t, healthCheckHandler("1.2.0", db, redis))

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, map[string]interface{}{"database": "error", "redis": "error"}, body["services"])
	assert.Nil(t, body["pool"])
}

func TestHealthWithoutRedis(t *testing.T) {
	code, body := getHealth(t, healthCheckHandler("1.2.0", fakeDB{}, nil))

	assert.Equal(t, http.StatusOK, code)
	services := body["services"].(map[string]interface{})
	assert.Equal(t, "disconnected", services["redis"])
}
