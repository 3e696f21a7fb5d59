package monitoring

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokedex_bot/models"
)

func TestMetricsCollector_SearchAndRuns(t *testing.T) {
	mc := NewMetricsCollector("pokedex-bot", "test")

	mc.ObservePage(models.PageStats{Hits: 12, RateLimitRemaining: 170})
	mc.ObservePage(models.PageStats{Hits: 3, RateLimitRemaining: -1})
	mc.ObserveRejection("favorited")
	mc.ObserveRejection("favorited")
	mc.ObserveRejection("time_of_day")
	mc.ObserveRun("posted", nil)
	mc.ObserveRun("no_candidate", nil)
	mc.ObserveRun("", errors.New("boom"))

	assert.Equal(t, float64(2), testutil.ToFloat64(mc.searchRequestsTotal.WithLabelValues("ok")))
	assert.Equal(t, float64(15), testutil.ToFloat64(mc.searchHitsTotal))
	// 响应头缺失时保留上一次的值
	assert.Equal(t, float64(170), testutil.ToFloat64(mc.rateLimitRemaining))
	assert.Equal(t, float64(2), testutil.ToFloat64(mc.rejectionsTotal.WithLabelValues("favorited")))
	assert.Equal(t, float64(1), testutil.ToFloat64(mc.runsTotal.WithLabelValues("posted")))
	assert.Equal(t, float64(1), testutil.ToFloat64(mc.runErrorTotal))
	assert.Greater(t, testutil.ToFloat64(mc.lastRunTime), float64(0))
}

func TestMetricsCollector_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetricsCollector("pokedex_bot", "a")
		NewMetricsCollector("pokedex_bot", "b")
	})
}

func TestMetricsCollector_HTTP(t *testing.T) {
	mc := NewMetricsCollector("pokedex_bot", "test")

	r := chi.NewRouter()
	r.Use(mc.Middleware)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", mc.Handler())

	for _, id := range []string{"1", "2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}
	assert.Equal(t, float64(2), testutil.ToFloat64(mc.httpRequestsTotal.WithLabelValues("GET", "/items/{id}", "418")))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.True(t, strings.Contains(string(body), "pokedex_bot_service_info"))
	assert.True(t, strings.Contains(string(body), `pokedex_bot_http_requests_total{endpoint="/items/{id}",method="GET",status="418"} 2`))
}
