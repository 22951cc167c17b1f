package pgstore

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pmishra-tech/document-tracker/internal/database"
	"github.com/pmishra-tech/document-tracker/internal/database/dbtest"
	"github.com/pmishra-tech/document-tracker/internal/domain/model"
	"github.com/pmishra-tech/document-tracker/internal/store"
)

// setupPool поднимает PostgreSQL, применяет миграции и возвращает пул.
func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	cfg := dbtest.Start(t)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if err := database.Migrate(cfg, logger); err != nil {
		t.Fatalf("Migrate() вернул ошибку: %v", err)
	}
	pool, err := database.Connect(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("Connect() вернул ошибку: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func TestNewTable_Columns(t *testing.T) {
	tbl := NewTable[model.DRNStatus](nil, model.DRNTable)

	if len(tbl.columns) != 7 {
		t.Fatalf("columns = %v, ожидается 7 колонок", tbl.columns)
	}
	for _, col := range tbl.columns {
		if col == model.ColumnID || col == model.ColumnCreatedAt || col == model.ColumnUpdatedAt {
			t.Errorf("колонка %q назначается сервером и не должна записываться", col)
		}
	}
	if tbl.Name() != "drn_status" {
		t.Errorf("Name() = %q, ожидается drn_status", tbl.Name())
	}
}

func TestTable_DRNRoundTrip(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	tbl := NewTable[model.DRNStatus](pool, model.DRNTable)

	rec := model.NewDRNStatus()
	rec.DocumentTitle = "Spec A"
	rec.OutstandingNumbers = 3
	rec.DeadlineDate = model.NewDate(2024, time.March, 1)
	rec.Status = model.WorkInProgress

	created, err := tbl.Insert(ctx, rec)
	if err != nil {
		t.Fatalf("Insert() вернул ошибку: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("Insert() не вернул серверные поля: %+v", created)
	}
	if created.DeadlineDate.String() != "2024-03-01" {
		t.Errorf("DeadlineDate = %q, ожидается 2024-03-01", created.DeadlineDate.String())
	}

	second := model.NewDRNStatus()
	second.DocumentTitle = "Spec B"
	if _, err := tbl.Insert(ctx, second); err != nil {
		t.Fatalf("Insert() вернул ошибку: %v", err)
	}

	items, err := tbl.List(ctx)
	if err != nil {
		t.Fatalf("List() вернул ошибку: %v", err)
	}
	if len(items) != 2 || items[0].DocumentTitle != "Spec B" {
		t.Fatalf("List() = %+v, ожидается Spec B первой", items)
	}
	if !items[0].DeadlineDate.IsZero() {
		t.Errorf("пустая дата сохранилась как %q", items[0].DeadlineDate.String())
	}

	created.Status = model.WorkCompleted
	stamp := created.UpdatedAt.Add(time.Minute)
	updated, err := tbl.Update(ctx, created.ID, created, stamp)
	if err != nil {
		t.Fatalf("Update() вернул ошибку: %v", err)
	}
	if updated.Status != model.WorkCompleted {
		t.Errorf("Status = %q, ожидается Completed", updated.Status)
	}
	if !updated.UpdatedAt.Equal(stamp.Truncate(time.Microsecond)) {
		t.Errorf("UpdatedAt = %v, ожидается %v", updated.UpdatedAt, stamp)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("Update() изменил created_at")
	}

	if err := tbl.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() вернул ошибку: %v", err)
	}
	if err := tbl.Delete(ctx, created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("повторный Delete() = %v, ожидается ErrNotFound", err)
	}
	if _, err := tbl.Update(ctx, created.ID, created, stamp); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Update() удалённой строки = %v, ожидается ErrNotFound", err)
	}
	if err := tbl.Ping(ctx); err != nil {
		t.Errorf("Ping() вернул ошибку: %v", err)
	}
}

func TestTable_UCMRoundTrip(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	tbl := NewTable[model.UCMStatus](pool, model.UCMTable)

	rec := model.NewUCMStatus()
	rec.DocumentID = "UCM-7"
	rec.Title = "Manual"
	rec.ReviewerStatus = model.ReviewApproved
	rec.External = true

	created, err := tbl.Insert(ctx, rec)
	if err != nil {
		t.Fatalf("Insert() вернул ошибку: %v", err)
	}

	items, err := tbl.List(ctx)
	if err != nil {
		t.Fatalf("List() вернул ошибку: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("List() вернул %d строк, ожидается 1", len(items))
	}
	got := items[0]
	if got.ID != created.ID || got.DocumentID != "UCM-7" || !got.External {
		t.Errorf("строка = %+v", got)
	}
	if got.ReviewerStatus != model.ReviewApproved || got.ApproverStatus != model.ReviewNotStarted {
		t.Errorf("статусы = (%q, %q)", got.ReviewerStatus, got.ApproverStatus)
	}
}
