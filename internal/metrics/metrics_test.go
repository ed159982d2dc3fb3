package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/dbprobe/internal/metrics"
)

func TestNew_IndependentRegistries(t *testing.T) {
	a := metrics.New()
	b := metrics.New()

	a.RequestCount.WithLabelValues("GET", "/health", "200").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.RequestCount.WithLabelValues("GET", "/health", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.RequestCount.WithLabelValues("GET", "/health", "200")))
}

func TestObserveListing(t *testing.T) {
	m := metrics.New()

	m.ObserveListing(nil)
	m.ObserveListing(nil)
	m.ObserveListing(errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.DatabaseListing.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DatabaseListing.WithLabelValues("error")))
}

func TestHandler(t *testing.T) {
	m := metrics.New()
	m.ObserveListing(nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `dbprobe_database_list_total{outcome="success"} 1`)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
