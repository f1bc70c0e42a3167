package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.MetricDegraded("revenue")
	m.MetricDegraded("revenue")
	m.MetricDegraded("wins")
	m.InsightAnswered(OutcomeRejected)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.metricFailures.WithLabelValues("revenue")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.metricFailures.WithLabelValues("wins")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.insightQueries.WithLabelValues(OutcomeRejected)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.insightQueries.WithLabelValues(OutcomeAnswered)))
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := New()

	router := chi.NewRouter()
	router.Use(m.Middleware)
	router.Get("/api/targets/{metric}/quarterly", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	router.Handle("/metrics", m.Handler())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/targets/revenue/quarterly", nil))
	require.Equal(t, http.StatusTeapot, rr.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.httpRequests.WithLabelValues("/api/targets/{metric}/quarterly", http.MethodGet, "418")))

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "http_requests_total")
}
