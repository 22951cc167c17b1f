// Пакет store — контракт удалённого табличного хранилища.
// Каждая таблица предоставляет list/insert/update/delete; идентификаторы
// и временные метки назначает хранилище.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/pmishra-tech/document-tracker/internal/domain/model"
)

// Ошибки слоя хранилища.
var (
	// ErrNotFound — ни одна строка не совпала по идентификатору.
	ErrNotFound = errors.New("запись не найдена")
)

// Table — таблица удалённого хранилища для записей типа R.
type Table[R model.Record] interface {
	// Name возвращает имя таблицы.
	Name() string
	// List возвращает все строки, новые (по created_at) первыми.
	List(ctx context.Context) ([]R, error)
	// Insert создаёт строку из rec.Fields(). Возвращает строку с назначенными
	// хранилищем id, created_at, updated_at.
	Insert(ctx context.Context, rec R) (R, error)
	// Update записывает rec.Fields() и updatedAt в строку с указанным id.
	Update(ctx context.Context, id string, rec R, updatedAt time.Time) (R, error)
	// Delete удаляет строку с указанным id.
	Delete(ctx context.Context, id string) error
}

// Pinger — хранилище, умеющее проверить свою доступность.
// Используется readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}
