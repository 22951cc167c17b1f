package postgrest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pmishra-tech/document-tracker/internal/domain/model"
	"github.com/pmishra-tech/document-tracker/internal/store"
)

// Table — таблица PostgREST, реализующая store.Table[R].
type Table[R model.Record] struct {
	client *Client
	name   string
}

// NewTable создаёт таблицу name поверх клиента.
func NewTable[R model.Record](client *Client, name string) *Table[R] {
	return &Table[R]{client: client, name: name}
}

// Name реализует store.Table.
func (t *Table[R]) Name() string {
	return t.name
}

// List — GET /rest/v1/{table}?select=*&order=created_at.desc
func (t *Table[R]) List(ctx context.Context) ([]R, error) {
	query := url.Values{
		"select": {"*"},
		"order":  {model.ColumnCreatedAt + ".desc"},
	}

	var rows []R
	if err := t.client.do(ctx, http.MethodGet, t.client.tableURL(t.name, query), nil, &rows); err != nil {
		return nil, fmt.Errorf("выборка %s: %w", t.name, err)
	}
	if rows == nil {
		rows = []R{}
	}
	return rows, nil
}

// Insert — POST /rest/v1/{table} с телом [fields].
func (t *Table[R]) Insert(ctx context.Context, rec R) (R, error) {
	var zero R

	var rows []R
	body := []map[string]any{rec.Fields()}
	if err := t.client.do(ctx, http.MethodPost, t.client.tableURL(t.name, nil), body, &rows); err != nil {
		return zero, fmt.Errorf("вставка в %s: %w", t.name, err)
	}
	if len(rows) == 0 {
		return zero, fmt.Errorf("вставка в %s: хранилище не вернуло созданную строку", t.name)
	}
	return rows[0], nil
}

// Update — PATCH /rest/v1/{table}?id=eq.{id} с телом fields + updated_at.
func (t *Table[R]) Update(ctx context.Context, id string, rec R, updatedAt time.Time) (R, error) {
	var zero R

	body := rec.Fields()
	body[model.ColumnUpdatedAt] = updatedAt.UTC().Format(time.RFC3339Nano)

	var rows []R
	if err := t.client.do(ctx, http.MethodPatch, t.client.tableURL(t.name, idFilter(id)), body, &rows); err != nil {
		return zero, fmt.Errorf("обновление %s[%s]: %w", t.name, id, err)
	}
	if len(rows) == 0 {
		return zero, fmt.Errorf("обновление %s[%s]: %w", t.name, id, store.ErrNotFound)
	}
	return rows[0], nil
}

// Delete — DELETE /rest/v1/{table}?id=eq.{id}
func (t *Table[R]) Delete(ctx context.Context, id string) error {
	var rows []R
	if err := t.client.do(ctx, http.MethodDelete, t.client.tableURL(t.name, idFilter(id)), nil, &rows); err != nil {
		return fmt.Errorf("удаление %s[%s]: %w", t.name, id, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("удаление %s[%s]: %w", t.name, id, store.ErrNotFound)
	}
	return nil
}

// Ping реализует store.Pinger.
func (t *Table[R]) Ping(ctx context.Context) error {
	return t.client.Ping(ctx)
}

// idFilter — фильтр равенства по идентификатору.
func idFilter(id string) url.Values {
	return url.Values{model.ColumnID: {"eq." + id}}
}
