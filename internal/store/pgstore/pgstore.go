// Пакет pgstore — табличное хранилище поверх PostgreSQL.
// Все запросы — чистый SQL через pgx, без ORM; строки сканируются
// в модели по db-тегам.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pmishra-tech/document-tracker/internal/domain/model"
	"github.com/pmishra-tech/document-tracker/internal/store"
)

// DBTX — интерфейс для выполнения SQL-запросов.
// Реализуется как *pgxpool.Pool, так и pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Table — таблица PostgreSQL, реализующая store.Table[R].
type Table[R model.Record] struct {
	db      DBTX
	name    string
	columns []string
	// returning — список колонок для SELECT/RETURNING
	returning string
}

// NewTable создаёт таблицу name. Набор записываемых колонок берётся
// из Fields() нулевого значения R.
func NewTable[R model.Record](db DBTX, name string) *Table[R] {
	var zero R
	columns := make([]string, 0, len(zero.Fields()))
	for col := range zero.Fields() {
		columns = append(columns, col)
	}
	slices.Sort(columns)

	selectList := make([]string, 0, len(columns)+3)
	// id приводится к text: модель хранит идентификатор строкой
	selectList = append(selectList, quote(model.ColumnID)+"::text AS "+quote(model.ColumnID))
	for _, col := range columns {
		selectList = append(selectList, quote(col))
	}
	selectList = append(selectList, quote(model.ColumnCreatedAt), quote(model.ColumnUpdatedAt))

	return &Table[R]{
		db:        db,
		name:      name,
		columns:   columns,
		returning: strings.Join(selectList, ", "),
	}
}

// Name реализует store.Table.
func (t *Table[R]) Name() string {
	return t.name
}

// List возвращает все строки, новые первыми.
func (t *Table[R]) List(ctx context.Context) ([]R, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s DESC`,
		t.returning, quote(t.name), quote(model.ColumnCreatedAt))

	rows, err := t.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки %s: %w", t.name, err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[R])
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения строк %s: %w", t.name, err)
	}
	if items == nil {
		items = []R{}
	}
	return items, nil
}

// Insert создаёт строку; id и метки времени назначает PostgreSQL.
func (t *Table[R]) Insert(ctx context.Context, rec R) (R, error) {
	var zero R

	fields := rec.Fields()
	placeholders := make([]string, len(t.columns))
	args := make([]any, len(t.columns))
	quoted := make([]string, len(t.columns))
	for i, col := range t.columns {
		quoted[i] = quote(col)
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = fields[col]
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
		quote(t.name), strings.Join(quoted, ", "), strings.Join(placeholders, ", "), t.returning)

	created, err := t.collectOne(ctx, query, args...)
	if err != nil {
		return zero, fmt.Errorf("ошибка вставки в %s: %w", t.name, err)
	}
	return created, nil
}

// Update перезаписывает колонки строки id и выставляет updated_at.
func (t *Table[R]) Update(ctx context.Context, id string, rec R, updatedAt time.Time) (R, error) {
	var zero R

	fields := rec.Fields()
	sets := make([]string, 0, len(t.columns)+1)
	args := make([]any, 0, len(t.columns)+2)
	for _, col := range t.columns {
		args = append(args, fields[col])
		sets = append(sets, fmt.Sprintf("%s = $%d", quote(col), len(args)))
	}
	args = append(args, updatedAt.UTC())
	sets = append(sets, fmt.Sprintf("%s = $%d", quote(model.ColumnUpdatedAt), len(args)))
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $%d RETURNING %s`,
		quote(t.name), strings.Join(sets, ", "), quote(model.ColumnID), len(args), t.returning)

	updated, err := t.collectOne(ctx, query, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, store.ErrNotFound
		}
		return zero, fmt.Errorf("ошибка обновления %s: %w", t.name, err)
	}
	return updated, nil
}

// Delete удаляет строку id.
func (t *Table[R]) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, quote(t.name), quote(model.ColumnID))

	tag, err := t.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления из %s: %w", t.name, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Ping проверяет доступность PostgreSQL, если соединение это поддерживает.
func (t *Table[R]) Ping(ctx context.Context) error {
	if p, ok := t.db.(store.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (t *Table[R]) collectOne(ctx context.Context, query string, args ...any) (R, error) {
	rows, err := t.db.Query(ctx, query, args...)
	if err != nil {
		var zero R
		return zero, err
	}
	return pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[R])
}

func quote(ident string) string {
	return pgx.Identifier{ident}.Sanitize()
}
