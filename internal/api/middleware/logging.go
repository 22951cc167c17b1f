// logging.go — журнал HTTP-запросов Status Dashboard.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// statusRecorder запоминает код и объём ответа (для журнала и метрик).
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func record(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += int64(n)
	return n, err
}

// Unwrap нужен http.ResponseController.
func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

// RequestLogger пишет одну запись на запрос: маршрут с {id} вместо
// идентификатора строки, вкладку и признак HTMX-запроса.
// 5xx — ERROR, 4xx — WARN, служебные пути — DEBUG.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With(slog.String("component", "http"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			began := time.Now()
			rec := record(w)
			next.ServeHTTP(rec, r)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("route", normalizePath(r.URL.Path)),
				slog.Int("status", rec.status),
				slog.Int64("bytes", rec.bytes),
				slog.Duration("duration", time.Since(began)),
			}
			if tab := tabOf(r.URL.Path); tab != "" {
				attrs = append(attrs, slog.String("tab", tab))
			}
			if r.Header.Get("HX-Request") == "true" {
				attrs = append(attrs, slog.Bool("htmx", true))
			}
			logger.LogAttrs(r.Context(), levelFor(rec.status, r.URL.Path), "HTTP запрос", attrs...)
		})
	}
}

func levelFor(status int, path string) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	case serviceRoute(path):
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// serviceRoute — пути, которые опрашиваются автоматически или отдают статику.
func serviceRoute(path string) bool {
	switch path {
	case "/health/live", "/health/ready", "/metrics":
		return true
	}
	return strings.HasPrefix(path, "/static/")
}

// tabOf возвращает вкладку (drn, ucm), к которой относится путь.
func tabOf(path string) string {
	seg, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	switch seg {
	case "drn", "ucm":
		return seg
	}
	return ""
}
