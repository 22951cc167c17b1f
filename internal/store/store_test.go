package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/pmishra-tech/document-tracker/internal/domain/model"
)

// fakeTable — таблица с заранее заданной ошибкой.
type fakeTable struct {
	name    string
	err     error
	pingErr error
}

func (f *fakeTable) Name() string { return f.name }

func (f *fakeTable) List(context.Context) ([]model.DRNStatus, error) {
	return nil, f.err
}

func (f *fakeTable) Insert(_ context.Context, rec model.DRNStatus) (model.DRNStatus, error) {
	return rec, f.err
}

func (f *fakeTable) Update(_ context.Context, _ string, rec model.DRNStatus, _ time.Time) (model.DRNStatus, error) {
	return rec, f.err
}

func (f *fakeTable) Delete(context.Context, string) error { return f.err }

func (f *fakeTable) Ping(context.Context) error { return f.pingErr }

func TestInstrument_CountsByResult(t *testing.T) {
	ctx := context.Background()
	ok := Instrument[model.DRNStatus](&fakeTable{name: "metrics_ok"})
	missing := Instrument[model.DRNStatus](&fakeTable{
		name: "metrics_missing",
		err:  fmt.Errorf("metrics_missing[x]: %w", ErrNotFound),
	})

	if ok.Name() != "metrics_ok" {
		t.Errorf("Name() = %q, ожидается %q", ok.Name(), "metrics_ok")
	}

	_, _ = ok.List(ctx)
	_, _ = ok.List(ctx)
	_, _ = ok.Insert(ctx, model.NewDRNStatus())
	if err := missing.Delete(ctx, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() = %v, ошибка должна пробрасываться без изменений", err)
	}

	tests := []struct {
		table, op, result string
		want              float64
	}{
		{"metrics_ok", "list", "ok", 2},
		{"metrics_ok", "insert", "ok", 1},
		{"metrics_missing", "delete", "not_found", 1},
	}
	for _, tt := range tests {
		got := testutil.ToFloat64(storeRequestsTotal.WithLabelValues(tt.table, tt.op, tt.result))
		if got != tt.want {
			t.Errorf("sb_store_requests_total{%s,%s,%s} = %v, ожидается %v", tt.table, tt.op, tt.result, got, tt.want)
		}
	}
}

func TestResultLabel(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{ErrNotFound, "not_found"},
		{context.Canceled, "canceled"},
		{fmt.Errorf("wrap: %w", context.DeadlineExceeded), "canceled"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		if got := resultLabel(tt.err); got != tt.want {
			t.Errorf("resultLabel(%v) = %q, ожидается %q", tt.err, got, tt.want)
		}
	}
}

func TestReadinessChecker(t *testing.T) {
	status, _ := NewReadinessChecker(&fakeTable{}).CheckReady()
	if status != "ok" {
		t.Errorf("status = %q, ожидается ok", status)
	}

	wrapped, ok := Instrument[model.DRNStatus](&fakeTable{pingErr: errors.New("connection refused")}).(Pinger)
	if !ok {
		t.Fatal("декоратор метрик должен пробрасывать Ping")
	}
	status, msg := NewReadinessChecker(wrapped).CheckReady()
	if status != "fail" {
		t.Errorf("status = %q, ожидается fail", status)
	}
	if msg == "" {
		t.Error("при отказе нужно сообщение с причиной")
	}
}
