// dephealth.go — интеграция с topologymetrics SDK для мониторинга
// табличного хранилища Status Dashboard.
//
// Проверяемая зависимость зависит от бэкенда:
//   - postgrest — HTTP checker к REST endpoint Supabase (critical)
//   - postgres — SQL checker через существующий pgxpool (connection pool mode, critical)
//
// Метрики доступны на /metrics вместе с остальными Prometheus-метриками:
//   - app_dependency_health — состояние зависимости (1 = ok, 0 = fail)
//   - app_dependency_latency_seconds — задержка проверки
package service

import (
	"context"
	"database/sql"
	"log/slog"
	"net/url"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	_ "github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/httpcheck" // HTTP checker для PostgREST
	"github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/pgcheck"     // PostgreSQL checker (pool mode)
	"github.com/prometheus/client_golang/prometheus"
)

// Имена зависимостей в метриках.
const (
	DepPostgREST = "supabase-rest"
	DepPostgres  = "postgresql"
)

// DephealthService — сервис мониторинга зависимостей через topologymetrics.
type DephealthService struct {
	dh     *dephealth.DepHealth
	target string
	logger *slog.Logger
}

// NewPostgRESTDephealth создаёт мониторинг REST endpoint Supabase.
// healthPath — путь проверки относительно baseURL (SB_STORE_HEALTH_PATH).
func NewPostgRESTDephealth(
	serviceID string,
	group string,
	baseURL string,
	healthPath string,
	checkInterval time.Duration,
	logger *slog.Logger,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, DepPostgREST, logger,
		postgRESTDependency(baseURL, healthPath, checkInterval))
}

// NewPostgresDephealth создаёт мониторинг PostgreSQL.
// db — *sql.DB, полученный из pgxpool через stdlib.OpenDBFromPool();
// pgConnURL — URL для лейблов метрик, не для подключения.
func NewPostgresDephealth(
	serviceID string,
	group string,
	db *sql.DB,
	pgConnURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, DepPostgres, logger,
		postgresDependency(db, pgConnURL, checkInterval))
}

// NewPostgRESTDephealthWithRegisterer — NewPostgRESTDephealth с отдельным
// Prometheus registerer. Используется в тестах для изоляции метрик.
func NewPostgRESTDephealthWithRegisterer(
	serviceID string,
	group string,
	baseURL string,
	healthPath string,
	checkInterval time.Duration,
	logger *slog.Logger,
	registerer prometheus.Registerer,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, DepPostgREST, logger,
		postgRESTDependency(baseURL, healthPath, checkInterval),
		dephealth.WithRegisterer(registerer))
}

func postgRESTDependency(baseURL, healthPath string, checkInterval time.Duration) dephealth.Option {
	depOpts := []dephealth.DependencyOption{
		dephealth.FromURL(baseURL),
		dephealth.WithHTTPHealthPath(healthPath),
		dephealth.CheckInterval(checkInterval),
		dephealth.Critical(true),
	}
	if parsed, err := url.Parse(baseURL); err == nil && parsed.Scheme == "https" {
		depOpts = append(depOpts, dephealth.WithHTTPTLSSkipVerify(false))
	}
	return dephealth.HTTP(DepPostgREST, depOpts...)
}

func postgresDependency(db *sql.DB, pgConnURL string, checkInterval time.Duration) dephealth.Option {
	// pgcheck.New + AddDependency напрямую, без contrib/sqldb
	return dephealth.AddDependency(DepPostgres, dephealth.TypePostgres,
		pgcheck.New(pgcheck.WithDB(db)),
		dephealth.FromURL(pgConnURL),
		dephealth.CheckInterval(checkInterval),
		dephealth.Critical(true),
	)
}

// newDephealthService — внутренний конструктор.
func newDephealthService(
	serviceID string,
	group string,
	target string,
	logger *slog.Logger,
	dependency dephealth.Option,
	extraOpts ...dephealth.Option,
) (*DephealthService, error) {
	opts := make([]dephealth.Option, 0, 2+len(extraOpts))
	opts = append(opts, dephealth.WithLogger(logger), dependency)
	opts = append(opts, extraOpts...)

	dh, err := dephealth.New(serviceID, group, opts...)
	if err != nil {
		return nil, err
	}

	return &DephealthService{
		dh:     dh,
		target: target,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

// Start запускает периодическую проверку зависимостей.
func (ds *DephealthService) Start(ctx context.Context) error {
	ds.logger.Info("Мониторинг зависимостей запущен", slog.String("dependency", ds.target))
	return ds.dh.Start(ctx)
}

// Stop останавливает мониторинг зависимостей.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("Мониторинг зависимостей остановлен")
}

// Health возвращает текущее состояние зависимостей.
// Ключ — "имя:host:port", значение — true если ok.
func (ds *DephealthService) Health() map[string]bool {
	return ds.dh.Health()
}
