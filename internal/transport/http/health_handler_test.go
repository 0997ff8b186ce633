package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "tickstats/internal/errors"
	"tickstats/internal/registry"
	"tickstats/internal/services"
	"tickstats/internal/shared/testutil"
	"tickstats/pkg/contracts"
)

func TestHealthHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := services.NewHealthService(registry.New(registry.Options{}), logger)
	h := NewHealthHandler(hs, logger)

	tests := []struct {
		name    string
		handler http.HandlerFunc
		status  string
	}{
		{name: "health", handler: h.HealthCheck, status: "ok"},
		{name: "ready", handler: h.ReadinessCheck, status: "ready"},
		{name: "live", handler: h.LivenessCheck, status: "alive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			require.Equal(t, http.StatusOK, rec.Code)
			var body services.HealthStatus
			testutil.DecodeJSON(t, rec, &body)
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, contracts.Version, body.Version)
		})
	}

	rec := httptest.NewRecorder()
	h.Version(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var v map[string]any
	testutil.DecodeJSON(t, rec, &v)
	assert.Equal(t, contracts.Version, v["version"])
	assert.Contains(t, v, "uptime_seconds")
}

func TestHealthHandler_ReadinessDraining(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := services.NewHealthService(registry.New(registry.Options{}), logger)
	hs.SetDraining()

	rec := httptest.NewRecorder()
	NewHealthHandler(hs, logger).ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	eh := apierrors.NewErrorHandler(logger, false)

	rec := httptest.NewRecorder()
	NewMetricsHandler(nil, eh).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	testutil.DecodeProblem(t, rec)

	exposition := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# HELP up\n"))
	})
	rec = httptest.NewRecorder()
	NewMetricsHandler(exposition, eh).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "# HELP up\n", rec.Body.String())
}
