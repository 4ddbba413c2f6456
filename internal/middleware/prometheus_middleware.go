package middleware

import (
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Результаты изменяющих запросов к холстам
const (
	resultOK       = "ok"
	resultRejected = "rejected" // 4xx: неверный запрос, нет холста, нет прав
	resultError    = "error"    // 5xx
)

// HTTPMetrics собирает метрики REST API холстов:
//   - http_request_duration_seconds{method,route,status}
//   - http_requests_inflight
//   - canvas_mutations_total{operation,result} для POST-маршрутов под префиксом холстов
//
// Маршрут /metrics в метрики не попадает.
type HTTPMetrics struct {
	canvasPrefix string

	duration  *prometheus.HistogramVec
	inflight  prometheus.Gauge
	mutations *prometheus.CounterVec
}

// NewHTTPMetrics регистрирует метрики в reg. canvasPrefix задаёт группу
// маршрутов холстов, например "/api/canvas"; операция берётся из последнего
// сегмента маршрута.
func NewHTTPMetrics(namespace, canvasPrefix string, reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		canvasPrefix: strings.TrimSuffix(canvasPrefix, "/"),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Длительность HTTP-запросов.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route", "status"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_inflight",
			Help:      "Запросы в обработке.",
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "canvas_mutations_total",
			Help:      "Запросы на обёртку и окраску холстов по результату.",
		}, []string{"operation", "result"}),
	}

	reg.MustRegister(m.duration, m.inflight, m.mutations)
	return m
}

// Handler возвращает middleware для router.Use
func (m *HTTPMetrics) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		m.inflight.Inc()
		c.Next()
		m.inflight.Dec()

		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		m.duration.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())

		if op, ok := m.mutation(c.Request.Method, route); ok {
			m.mutations.WithLabelValues(op, mutationResult(status)).Inc()
		}
	}
}

// Mount добавляет GET /metrics с метриками из gatherer
func (m *HTTPMetrics) Mount(r gin.IRoutes, gatherer prometheus.Gatherer) {
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}

func (m *HTTPMetrics) mutation(method, route string) (string, bool) {
	if method != http.MethodPost || m.canvasPrefix == "" || !strings.HasPrefix(route, m.canvasPrefix+"/") {
		return "", false
	}
	return path.Base(route), true
}

func mutationResult(status int) string {
	switch {
	case status >= 500:
		return resultError
	case status >= 400:
		return resultRejected
	}
	return resultOK
}
