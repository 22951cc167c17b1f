// health.go — служебные endpoints Status Dashboard: /health/live,
// /health/ready (доступность табличного хранилища) и /metrics.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pmishra-tech/document-tracker/internal/config"
	"github.com/pmishra-tech/document-tracker/internal/domain/model"
)

const serviceName = "status-dashboard"

// Статусы проверок, от лучшего к худшему.
const (
	statusOK       = "ok"
	statusDegraded = "degraded"
	statusFail     = "fail"
)

// ReadinessChecker проверяет зависимость и возвращает статус
// (ok, degraded, fail) с пояснением.
type ReadinessChecker interface {
	CheckReady() (status string, message string)
}

// HealthHandler отвечает на служебные запросы.
type HealthHandler struct {
	store   ReadinessChecker
	backend string
	started time.Time
	metrics http.Handler
}

// NewHealthHandler создаёт обработчик. При store == nil хранилище
// считается неинициализированным и /health/ready отвечает 503.
func NewHealthHandler(store ReadinessChecker, backend string) *HealthHandler {
	return &HealthHandler{
		store:   store,
		backend: backend,
		started: time.Now(),
		metrics: promhttp.Handler(),
	}
}

// probeHeader — общая часть ответов live и ready.
type probeHeader struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

type healthLiveResponse struct {
	probeHeader
	UptimeSeconds int64 `json:"uptime_seconds"`
}

// storeCheck — состояние хранилища и таблиц, которые через него читаются.
type storeCheck struct {
	Status  string   `json:"status"`
	Backend string   `json:"backend,omitempty"`
	Tables  []string `json:"tables"`
	Message string   `json:"message,omitempty"`
}

type healthReadyResponse struct {
	probeHeader
	Checks struct {
		Store storeCheck `json:"store"`
	} `json:"checks"`
}

func (h *HealthHandler) header(status string) probeHeader {
	return probeHeader{
		Status:    status,
		Service:   serviceName,
		Version:   config.Version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// HealthLive всегда отвечает 200, пока процесс обслуживает запросы.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	writeProbe(w, http.StatusOK, healthLiveResponse{
		probeHeader:   h.header(statusOK),
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
	})
}

// HealthReady отвечает 503, если хранилище недоступно, иначе 200.
func (h *HealthHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	check := storeCheck{
		Status:  statusFail,
		Backend: h.backend,
		Tables:  []string{model.DRNTable, model.UCMTable},
		Message: "не инициализирован",
	}
	if h.store != nil {
		check.Status, check.Message = h.store.CheckReady()
	}

	var resp healthReadyResponse
	resp.probeHeader = h.header(overallStatus(check.Status))
	resp.Checks.Store = check

	code := http.StatusOK
	if resp.Status == statusFail {
		code = http.StatusServiceUnavailable
	}
	writeProbe(w, code, resp)
}

// GetMetrics отдаёт метрики Prometheus.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}

func writeProbe(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

var statusRank = map[string]int{statusOK: 0, statusDegraded: 1, statusFail: 2}

// overallStatus возвращает худший из статусов; неизвестный считается fail.
func overallStatus(statuses ...string) string {
	worst := statusOK
	for _, s := range statuses {
		rank, known := statusRank[s]
		if !known {
			return statusFail
		}
		if rank > statusRank[worst] {
			worst = s
		}
	}
	return worst
}
