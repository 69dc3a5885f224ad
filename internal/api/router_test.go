package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/lofohq/lofo-server/internal/app"
	iauth "github.com/lofohq/lofo-server/internal/auth"
	"github.com/lofohq/lofo-server/internal/database/testutil"
)

func testConfig() *app.Config {
	cfg := &app.Config{}
	cfg.Server.Port = 0
	cfg.Alerts.Enabled = true
	cfg.Alerts.NotificationsTitle = "LOFO Alert"
	cfg.Matching.MinScore = 2
	cfg.Matching.QuickSuggestion = true
	cfg.Monitoring.Prometheus.Enabled = true
	cfg.Monitoring.Health.Enabled = true
	return cfg
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:         "test-secret",
		Issuer:         "lofo-test",
		AccessTokenTTL: time.Minute,
	})
	require.NoError(t, err)

	r, err := NewRouter(db, jwtSvc, testConfig())
	require.NoError(t, err)
	return r
}

func TestRouterRequiresDependencies(t *testing.T) {
	gin.SetMode(gin.TestMode)

	_, err := NewRouter(nil, nil, nil)
	require.Error(t, err)
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/api/profile", "/api/alerts", "/api/reports", "/api/matches", "/api/catalog"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestRegisterLoginAndAuthorizedFlow(t *testing.T) {
	r := newTestRouter(t)

	body, err := json.Marshal(gin.H{
		"name":     "Ali",
		"email":    "ali@example.com",
		"password": "super-secret",
		"city":     "Karachi",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var payload struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.NotEmpty(t, payload.Data.Token)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+payload.Data.Token)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// Non-admin tokens cannot reach the admin surface.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+payload.Data.Token)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}
