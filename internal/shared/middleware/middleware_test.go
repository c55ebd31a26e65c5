package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/shared"
	"library-backend/internal/shared/metrics"
	"library-backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(tokens TokenValidator, roles ...string) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(), RequestID())
	r.GET("/protected", Authenticate(tokens), Authorize(roles...), func(c *gin.Context) {
		id, _ := GetIdentity(c)
		c.JSON(http.StatusOK, id)
	})
	r.GET("/no-auth", Authorize(roles...), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Status)
	return body.Message
}

func TestAuthenticateAndAuthorize(t *testing.T) {
	m := jwt.NewManager("secret", time.Hour)
	r := newRouter(m, shared.RoleAdmin, shared.RolePetugas)

	adminToken, _, err := m.GenerateAccessToken("u-admin", "admin@lib.test", shared.RoleAdmin)
	require.NoError(t, err)
	memberToken, _, err := m.GenerateAccessToken("u-member", "m@lib.test", shared.RoleAnggota)
	require.NoError(t, err)

	t.Run("missing header", func(t *testing.T) {
		w := do(r, "/protected", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, errorMessage(t, w), "No token")
	})

	t.Run("wrong scheme", func(t *testing.T) {
		w := do(r, "/protected", "Basic "+adminToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := do(r, "/protected", "Bearer not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid token", errorMessage(t, w))
	})

	t.Run("allowed role", func(t *testing.T) {
		w := do(r, "/protected", "Bearer "+adminToken)
		require.Equal(t, http.StatusOK, w.Code)

		var id shared.Identity
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &id))
		assert.Equal(t, shared.Identity{ID: "u-admin", Email: "admin@lib.test", Role: shared.RoleAdmin}, id)
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	})

	t.Run("forbidden role", func(t *testing.T) {
		w := do(r, "/protected", "Bearer "+memberToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, errorMessage(t, w), "anggota")
	})

	t.Run("authorize without identity", func(t *testing.T) {
		w := do(r, "/no-auth", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRecoveryReturnsEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := do(r, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", errorMessage(t, w))
}

func TestRequestIDPropagates(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(shared.CtxRequestID)) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Body.String())
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://app.test"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://app.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://app.test", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsCountsRoute(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/books/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/books/:id", "200")
	before := testutil.ToFloat64(counter)

	do(r, "/books/abc", "")
	do(r, "/books/def", "")

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}
