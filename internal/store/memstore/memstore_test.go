package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pmishra-tech/document-tracker/internal/domain/model"
	"github.com/pmishra-tech/document-tracker/internal/store"
)

// stepClock — часы, сдвигающиеся на секунду при каждом вызове.
func stepClock() func() time.Time {
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func newDRN() *Table[model.DRNStatus] {
	return New(model.DRNTable, WithClock[model.DRNStatus](stepClock()))
}

// TestTable_InsertAssignsServerColumns проверяет назначение id и временных меток.
func TestTable_InsertAssignsServerColumns(t *testing.T) {
	tbl := newDRN()
	ctx := context.Background()

	rec := model.NewDRNStatus()
	rec.DocumentTitle = "Spec Review"
	rec.ID = "client-side-id"

	created, err := tbl.Insert(ctx, rec)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if created.ID == "" || created.ID == "client-side-id" {
		t.Errorf("ID = %q, ожидается UUID от хранилища", created.ID)
	}
	if created.CreatedAt.IsZero() || !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Errorf("CreatedAt/UpdatedAt = %v/%v, ожидаются равные ненулевые", created.CreatedAt, created.UpdatedAt)
	}
	if created.DocumentTitle != "Spec Review" {
		t.Errorf("DocumentTitle = %q, ожидается Spec Review", created.DocumentTitle)
	}
}

// TestTable_ListNewestFirst проверяет порядок по убыванию created_at.
func TestTable_ListNewestFirst(t *testing.T) {
	tbl := newDRN()
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		rec := model.NewDRNStatus()
		rec.DocumentTitle = title
		if _, err := tbl.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert(%s): %v", title, err)
		}
	}

	rows, err := tbl.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"third", "second", "first"}
	if len(rows) != len(want) {
		t.Fatalf("len(rows) = %d, ожидается %d", len(rows), len(want))
	}
	for i, w := range want {
		if rows[i].DocumentTitle != w {
			t.Errorf("rows[%d] = %q, ожидается %q", i, rows[i].DocumentTitle, w)
		}
	}
}

// TestTable_UpdateKeepsCreatedAt проверяет неизменность id и created_at.
func TestTable_UpdateKeepsCreatedAt(t *testing.T) {
	tbl := newDRN()
	ctx := context.Background()

	created, _ := tbl.Insert(ctx, model.NewDRNStatus())

	edit := created
	edit.Status = model.WorkCompleted
	edit.CreatedAt = time.Time{}
	updatedAt := created.UpdatedAt.Add(time.Hour)

	updated, err := tbl.Update(ctx, created.ID, edit, updatedAt)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("ID изменился: %q → %q", created.ID, updated.ID)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt изменился: %v → %v", created.CreatedAt, updated.CreatedAt)
	}
	if !updated.UpdatedAt.Equal(updatedAt) {
		t.Errorf("UpdatedAt = %v, ожидается %v", updated.UpdatedAt, updatedAt)
	}
	if updated.Status != model.WorkCompleted {
		t.Errorf("Status = %q, ожидается Completed", updated.Status)
	}
}

// TestTable_NotFound проверяет ErrNotFound для несуществующего id.
func TestTable_NotFound(t *testing.T) {
	tbl := newDRN()
	ctx := context.Background()

	if _, err := tbl.Update(ctx, "missing", model.NewDRNStatus(), time.Now()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Update: ожидалась ErrNotFound, получено %v", err)
	}
	if err := tbl.Delete(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Delete: ожидалась ErrNotFound, получено %v", err)
	}
}

// TestTable_Delete проверяет удаление строки.
func TestTable_Delete(t *testing.T) {
	tbl := New[model.UCMStatus](model.UCMTable)
	ctx := context.Background()

	created, _ := tbl.Insert(ctx, model.NewUCMStatus())
	if err := tbl.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	rows, _ := tbl.List(ctx)
	if len(rows) != 0 {
		t.Errorf("len(rows) = %d после удаления, ожидается 0", len(rows))
	}
}

// TestTable_CanceledContext проверяет отказ при отменённом контексте.
func TestTable_CanceledContext(t *testing.T) {
	tbl := newDRN()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := tbl.List(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("List: ожидалась context.Canceled, получено %v", err)
	}
}
