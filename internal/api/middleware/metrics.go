// metrics.go — Prometheus HTTP метрики Status Dashboard.
// Регистрирует метрики: sb_http_requests_total, sb_http_request_duration_seconds.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP метрики
var (
	// httpRequestsTotal — общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sb_http_requests_total",
			Help: "Общее количество HTTP-запросов к Status Dashboard",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sb_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к Status Dashboard в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Идентификаторы строк заменяются на {id}
			normalizedPath := normalizePath(r.URL.Path)

			rec := record(w)
			next.ServeHTTP(rec, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(rec.status)

			httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).Observe(duration)
		})
	}
}

// normalizePath приводит путь к шаблону маршрута.
// /drn/rows/a1b2c3d4-.../edit → /drn/rows/{id}/edit
func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/static/"):
		return "/static/*"
	case !strings.Contains(path, "/rows/"):
		return path
	}

	segs := strings.Split(strings.Trim(path, "/"), "/")
	if len(segs) == 4 && segs[1] == "rows" {
		return "/" + segs[0] + "/rows/{id}/" + segs[3]
	}
	return path
}
