package monitoring

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pokedex_bot/models"
)

// MetricsCollector 机器人的 Prometheus 指标
type MetricsCollector struct {
	serviceName string
	registry    *prometheus.Registry

	// 搜索
	searchRequestsTotal *prometheus.CounterVec
	searchHitsTotal     prometheus.Counter
	rateLimitRemaining  prometheus.Gauge
	rejectionsTotal     *prometheus.CounterVec

	// 运行
	runsTotal     *prometheus.CounterVec
	runErrorTotal prometheus.Counter
	lastRunTime   prometheus.Gauge

	// HTTP
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewMetricsCollector 创建指标并注册到独立的 registry
func NewMetricsCollector(serviceName, version string) *MetricsCollector {
	name := strings.ReplaceAll(serviceName, "-", "_")
	mc := &MetricsCollector{
		serviceName: name,
		registry:    prometheus.NewRegistry(),
	}

	mc.searchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name + "_search_requests_total",
			Help: "Total number of search requests by result",
		},
		[]string{"result"},
	)
	mc.searchHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: name + "_search_hits_total",
		Help: "Total number of posts returned by search",
	})
	mc.rateLimitRemaining = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: name + "_search_rate_limit_remaining",
		Help: "Remaining search requests in the current rate limit window",
	})
	mc.rejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name + "_candidate_rejections_total",
			Help: "Candidate posts rejected by the filter, by first failing rule",
		},
		[]string{"reason"},
	)
	mc.runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name + "_runs_total",
			Help: "Total number of bot runs by outcome",
		},
		[]string{"outcome"},
	)
	mc.runErrorTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: name + "_run_errors_total",
		Help: "Total number of bot runs aborted by an error",
	})
	mc.lastRunTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: name + "_last_run_timestamp_seconds",
		Help: "Unix time of the last finished run",
	})
	mc.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	mc.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name + "_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
	serviceInfo := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: name + "_service_info",
			Help: "Service information",
		},
		[]string{"version"},
	)

	mc.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		mc.searchRequestsTotal,
		mc.searchHitsTotal,
		mc.rateLimitRemaining,
		mc.rejectionsTotal,
		mc.runsTotal,
		mc.runErrorTotal,
		mc.lastRunTime,
		mc.httpRequestsTotal,
		mc.httpRequestDuration,
		serviceInfo,
	)
	serviceInfo.WithLabelValues(version).Set(1)
	return mc
}

// Registry 返回内部 registry，测试时用于读取指标
func (mc *MetricsCollector) Registry() *prometheus.Registry {
	return mc.registry
}

// ObservePage 记录一页搜索结果
func (mc *MetricsCollector) ObservePage(stats models.PageStats) {
	mc.searchRequestsTotal.WithLabelValues("ok").Inc()
	mc.searchHitsTotal.Add(float64(stats.Hits))
	if stats.RateLimitRemaining >= 0 {
		mc.rateLimitRemaining.Set(float64(stats.RateLimitRemaining))
	}
}

// ObserveRejection 记录候选帖子被拒绝的原因
func (mc *MetricsCollector) ObserveRejection(reason string) {
	mc.rejectionsTotal.WithLabelValues(reason).Inc()
}

// ObserveRun 记录一次运行的结果
func (mc *MetricsCollector) ObserveRun(outcome string, err error) {
	mc.lastRunTime.SetToCurrentTime()
	if err != nil {
		mc.runErrorTotal.Inc()
		return
	}
	mc.runsTotal.WithLabelValues(outcome).Inc()
}

// Middleware 记录 HTTP 请求，endpoint 使用 chi 的路由模板
func (mc *MetricsCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		endpoint := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			endpoint = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		mc.httpRequestsTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(status)).Inc()
		mc.httpRequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	})
}

// Handler 返回 /metrics 处理器
func (mc *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(mc.registry, promhttp.HandlerOpts{Registry: mc.registry})
}
