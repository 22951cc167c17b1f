// Пакет memstore — табличное хранилище в памяти процесса.
// Используется для локального запуска (SB_STORE_BACKEND=memory) и в тестах.
// Идентификаторы — UUID v4, временные метки — по часам таблицы.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pmishra-tech/document-tracker/internal/domain/model"
	"github.com/pmishra-tech/document-tracker/internal/store"
)

// row — строка с порядковым номером вставки (для стабильной сортировки).
type row[R any] struct {
	rec R
	seq uint64
}

// Table — потокобезопасная таблица в памяти.
type Table[R model.Stampable[R]] struct {
	name string
	now  func() time.Time

	mu   sync.RWMutex
	rows map[string]row[R]
	seq  uint64
}

// Option — опция конструктора Table.
type Option[R model.Stampable[R]] func(*Table[R])

// WithClock задаёт источник времени (для тестов).
func WithClock[R model.Stampable[R]](now func() time.Time) Option[R] {
	return func(t *Table[R]) {
		t.now = now
	}
}

// New создаёт пустую таблицу с именем name.
func New[R model.Stampable[R]](name string, opts ...Option[R]) *Table[R] {
	t := &Table[R]{
		name: name,
		now:  func() time.Time { return time.Now().UTC() },
		rows: make(map[string]row[R]),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name реализует store.Table.
func (t *Table[R]) Name() string {
	return t.name
}

// List возвращает строки по убыванию created_at; при равенстве — позже вставленные первыми.
func (t *Table[R]) List(ctx context.Context) ([]R, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.RLock()
	rows := make([]row[R], 0, len(t.rows))
	for _, r := range t.rows {
		rows = append(rows, r)
	}
	t.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		ci, cj := rows[i].rec.Created(), rows[j].rec.Created()
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return rows[i].seq > rows[j].seq
	})

	result := make([]R, 0, len(rows))
	for _, r := range rows {
		result = append(result, r.rec)
	}
	return result, nil
}

// Insert реализует store.Table.
func (t *Table[R]) Insert(ctx context.Context, rec R) (R, error) {
	var zero R
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	now := t.now()
	created := rec.Stamped(uuid.NewString(), now, now)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	t.rows[created.RecordID()] = row[R]{rec: created, seq: t.seq}
	return created, nil
}

// Update реализует store.Table. created_at и id сохраняются.
func (t *Table[R]) Update(ctx context.Context, id string, rec R, updatedAt time.Time) (R, error) {
	var zero R
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	existing, ok := t.rows[id]
	if !ok {
		return zero, fmt.Errorf("%s[%s]: %w", t.name, id, store.ErrNotFound)
	}
	updated := rec.Stamped(id, existing.rec.Created(), updatedAt)
	t.rows[id] = row[R]{rec: updated, seq: existing.seq}
	return updated, nil
}

// Delete реализует store.Table.
func (t *Table[R]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return fmt.Errorf("%s[%s]: %w", t.name, id, store.ErrNotFound)
	}
	delete(t.rows, id)
	return nil
}

// Ping реализует store.Pinger; таблица в памяти всегда доступна.
func (t *Table[R]) Ping(context.Context) error {
	return nil
}
