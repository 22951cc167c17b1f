// metrics.go — Prometheus-метрики обращений к хранилищу.
// Регистрирует: sb_store_requests_total, sb_store_request_duration_seconds.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pmishra-tech/document-tracker/internal/domain/model"
)

var (
	// storeRequestsTotal — количество обращений к хранилищу по результату.
	storeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sb_store_requests_total",
			Help: "Общее количество обращений к табличному хранилищу",
		},
		[]string{"table", "op", "result"},
	)

	// storeRequestDuration — длительность обращений к хранилищу.
	storeRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sb_store_request_duration_seconds",
			Help:    "Длительность обращений к табличному хранилищу в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"table", "op"},
	)
)

// instrumented — декоратор Table, записывающий метрики каждого вызова.
type instrumented[R model.Record] struct {
	next Table[R]
}

// Instrument оборачивает таблицу сбором Prometheus-метрик.
func Instrument[R model.Record](t Table[R]) Table[R] {
	return &instrumented[R]{next: t}
}

func (t *instrumented[R]) Name() string {
	return t.next.Name()
}

func (t *instrumented[R]) List(ctx context.Context) ([]R, error) {
	start := time.Now()
	rows, err := t.next.List(ctx)
	t.observe("list", start, err)
	return rows, err
}

func (t *instrumented[R]) Insert(ctx context.Context, rec R) (R, error) {
	start := time.Now()
	row, err := t.next.Insert(ctx, rec)
	t.observe("insert", start, err)
	return row, err
}

func (t *instrumented[R]) Update(ctx context.Context, id string, rec R, updatedAt time.Time) (R, error) {
	start := time.Now()
	row, err := t.next.Update(ctx, id, rec, updatedAt)
	t.observe("update", start, err)
	return row, err
}

func (t *instrumented[R]) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := t.next.Delete(ctx, id)
	t.observe("delete", start, err)
	return err
}

// Ping пробрасывает проверку доступности, если она поддерживается.
func (t *instrumented[R]) Ping(ctx context.Context) error {
	if p, ok := t.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// observe записывает результат вызова.
func (t *instrumented[R]) observe(op string, start time.Time, err error) {
	storeRequestDuration.WithLabelValues(t.next.Name(), op).Observe(time.Since(start).Seconds())
	storeRequestsTotal.WithLabelValues(t.next.Name(), op, resultLabel(err)).Inc()
}

// resultLabel сводит ошибку к ограниченному набору значений лейбла.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
