// Пакет controller — контроллер одной таблицы статусов: список строк,
// последний полученный из хранилища, и буфер редактирования
// не более чем для одной операции добавления или правки.
//
// Ошибки хранилища только логируются (категории fetch_error, insert_error,
// update_error, delete_error) и наружу возвращаются лишь для тестов
// и метрик; интерфейс их не показывает.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/pmishra-tech/document-tracker/internal/domain/model"
	"github.com/pmishra-tech/document-tracker/internal/store"
)

// Ошибки операций контроллера.
var (
	// ErrFetch — не удалось получить список строк.
	ErrFetch = errors.New("ошибка загрузки списка")
	// ErrWrite — не удалось сохранить буфер (insert или update).
	ErrWrite = errors.New("ошибка сохранения записи")
	// ErrDelete — не удалось удалить строку.
	ErrDelete = errors.New("ошибка удаления записи")
)

// Категории записей операционного лога.
const (
	CategoryFetch  = "fetch_error"
	CategoryInsert = "insert_error"
	CategoryUpdate = "update_error"
	CategoryDelete = "delete_error"
)

// Mode — состояние контроллера.
type Mode int

const (
	// ModeIdle — нет добавления или правки.
	ModeIdle Mode = iota
	// ModeAdding — новая запись в буфере.
	ModeAdding
	// ModeEditing — правка существующей строки.
	ModeEditing
)

// String возвращает имя состояния.
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeAdding:
		return "adding"
	case ModeEditing:
		return "editing"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Confirmer спрашивает у пользователя подтверждение удаления строки id.
type Confirmer func(id string) bool

// Snapshot — неизменяемый срез состояния контроллера для отрисовки.
type Snapshot[R model.Record] struct {
	Mode Mode
	// EditingID — id правимой строки (только в ModeEditing)
	EditingID string
	// Buffer — буфер редактирования (нулевое значение в ModeIdle)
	Buffer  R
	Items   []R
	Loading bool
	// Busy — выполняется запись (save или delete); действия заблокированы
	Busy bool
}

// Idle сообщает, доступны ли действия Add/Edit/Delete.
func (s Snapshot[R]) Idle() bool {
	return s.Mode == ModeIdle
}

// Editing сообщает, правится ли строка id.
func (s Snapshot[R]) Editing(id string) bool {
	return s.Mode == ModeEditing && s.EditingID == id
}

// Option — настройка контроллера.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock задаёт источник времени для updated_at.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// Table — контроллер таблицы записей типа R.
// Безопасен для конкурентного использования; вызовы хранилища
// выполняются без удержания блокировки.
type Table[R model.Record] struct {
	store   store.Table[R]
	newItem func() R
	now     func() time.Time
	logger  *slog.Logger

	mu        sync.Mutex
	mode      Mode
	editingID string
	buffer    R
	items     []R
	// lastStamp — последнее выданное updated_at
	lastStamp time.Time
	// mutating — в хранилище отправлена запись; вторая не начинается
	mutating bool
	// gen меняется при каждом переходе состояния; по нему Save узнаёт,
	// что сохранённый буфер всё ещё текущий
	gen uint64

	started  bool
	inFlight int
	// loadSeq — номер последней начатой загрузки, appliedSeq — последней применённой
	loadSeq    uint64
	appliedSeq uint64
	refreshes  int
}

// New создаёт контроллер поверх таблицы хранилища.
// newItem возвращает значения по умолчанию для новой записи.
func New[R model.Record](tbl store.Table[R], newItem func() R, logger *slog.Logger, opts ...Option) *Table[R] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Table[R]{
		store:   tbl,
		newItem: newItem,
		now:     o.now,
		logger: logger.With(
			slog.String("component", "controller"),
			slog.String("table", tbl.Name()),
		),
	}
}

// Name возвращает имя таблицы.
func (c *Table[R]) Name() string {
	return c.store.Name()
}

// Mount сбрасывает контроллер в Idle без обращения к хранилищу
// и загружает список заново.
func (c *Table[R]) Mount(ctx context.Context) error {
	c.mu.Lock()
	c.resetLocked()
	c.mu.Unlock()

	return c.Load(ctx)
}

// Load запрашивает все строки, новые первыми. При ошибке прежний
// список остаётся на месте. Ответ, начатый раньше уже применённого,
// отбрасывается.
func (c *Table[R]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.started = true
	c.inFlight++
	c.loadSeq++
	seq := c.loadSeq
	c.mu.Unlock()

	items, err := c.store.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight--

	if err != nil {
		c.logFailure(CategoryFetch, err)
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if seq < c.appliedSeq {
		c.logger.Debug("Устаревший ответ загрузки отброшен",
			slog.Uint64("seq", seq),
			slog.Uint64("applied_seq", c.appliedSeq),
		)
		return nil
	}
	c.appliedSeq = seq
	c.items = items
	return nil
}

// Loading сообщает, идёт ли загрузка. До первой загрузки — true.
func (c *Table[R]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadingLocked()
}

// BeginAdd переводит Idle → Adding с буфером по умолчанию.
// Вне Idle ничего не делает и возвращает false.
func (c *Table[R]) BeginAdd() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != ModeIdle || c.mutating {
		return false
	}
	c.mode = ModeAdding
	c.buffer = c.newItem()
	c.gen++
	return true
}

// BeginEdit переводит Idle → Editing(id) с буфером из строки id.
// Вне Idle или для id, которого нет в списке, ничего не делает.
func (c *Table[R]) BeginEdit(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != ModeIdle || c.mutating {
		return false
	}
	i := slices.IndexFunc(c.items, func(r R) bool { return r.RecordID() == id })
	if i < 0 {
		return false
	}
	c.mode = ModeEditing
	c.editingID = id
	c.buffer = c.items[i]
	c.gen++
	return true
}

// SetBuffer заменяет буфер редактирования. В Idle и во время
// сохранения ничего не делает.
func (c *Table[R]) SetBuffer(rec R) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModeIdle || c.mutating {
		return false
	}
	c.buffer = rec
	return true
}

// Save сохраняет буфер: Adding → Insert, Editing → Update с новым updated_at.
// При успехе контроллер возвращается в Idle и перечитывает список;
// при ошибке остаётся в прежнем состоянии с буфером.
// Пока запись в хранилище не завершилась, повторный Save ничего не делает.
// Update, не совпавший ни с одной строкой (её удалили в другой сессии),
// считается успешным.
func (c *Table[R]) Save(ctx context.Context) error {
	c.mu.Lock()
	if c.mode == ModeIdle || c.mutating {
		c.mu.Unlock()
		return nil
	}
	mode, id, buffer, gen := c.mode, c.editingID, c.buffer, c.gen
	var stamp time.Time
	if mode == ModeEditing {
		stamp = c.nextStampLocked(buffer.Updated())
	}
	c.mutating = true
	c.mu.Unlock()

	var err error
	if mode == ModeAdding {
		if _, err = c.store.Insert(ctx, buffer); err != nil {
			c.logFailure(CategoryInsert, err)
		}
	} else {
		_, err = c.store.Update(ctx, id, buffer, stamp)
		if errors.Is(err, store.ErrNotFound) {
			c.logger.Info("Правимая строка уже удалена", slog.String("id", id))
			err = nil
		}
		if err != nil {
			c.logFailure(CategoryUpdate, err, slog.String("id", id))
		}
	}

	c.mu.Lock()
	c.mutating = false
	if err == nil && c.gen == gen {
		c.resetLocked()
	}
	c.mu.Unlock()

	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	c.refresh(ctx)
	return nil
}

// Cancel возвращает контроллер в Idle, отбрасывая буфер.
// Хранилище не вызывается.
func (c *Table[R]) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

// Delete удаляет строку id после подтверждения. Только из Idle и без
// незавершённой записи; при отказе запрос не отправляется. Список локально
// не меняется, после успеха он перечитывается. Строка, которой уже нет
// в хранилище, считается удалённой.
func (c *Table[R]) Delete(ctx context.Context, id string, confirm Confirmer) error {
	c.mu.Lock()
	ready := c.mode == ModeIdle && !c.mutating
	c.mu.Unlock()

	if !ready || confirm == nil || !confirm(id) {
		return nil
	}

	c.mu.Lock()
	if c.mode != ModeIdle || c.mutating {
		c.mu.Unlock()
		return nil
	}
	c.mutating = true
	c.mu.Unlock()

	err := c.store.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		c.logger.Info("Строка уже удалена", slog.String("id", id))
		err = nil
	}

	c.mu.Lock()
	c.mutating = false
	c.mu.Unlock()

	if err != nil {
		c.logFailure(CategoryDelete, err, slog.String("id", id))
		return fmt.Errorf("%w: %w", ErrDelete, err)
	}

	c.refresh(ctx)
	return nil
}

// Refreshes возвращает число перечитываний после успешных изменений.
func (c *Table[R]) Refreshes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshes
}

// Snapshot возвращает копию состояния для отрисовки.
func (c *Table[R]) Snapshot() Snapshot[R] {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot[R]{
		Mode:      c.mode,
		EditingID: c.editingID,
		Buffer:    c.buffer,
		Items:     slices.Clone(c.items),
		Loading:   c.loadingLocked(),
		Busy:      c.mutating,
	}
}

// refresh — единственная загрузка после успешного изменения.
// Её ошибка уже залогирована в Load.
func (c *Table[R]) refresh(ctx context.Context) {
	c.mu.Lock()
	c.refreshes++
	c.mu.Unlock()

	_ = c.Load(ctx)
}

func (c *Table[R]) resetLocked() {
	var zero R
	c.mode = ModeIdle
	c.editingID = ""
	c.buffer = zero
	c.gen++
}

func (c *Table[R]) loadingLocked() bool {
	return !c.started || c.inFlight > 0
}

// nextStampLocked возвращает updated_at, строго больший и предыдущего
// выданного, и текущего значения строки. Шаг — микросекунда, точность timestamptz.
func (c *Table[R]) nextStampLocked(prev time.Time) time.Time {
	floor := c.lastStamp
	if prev.After(floor) {
		floor = prev
	}
	now := c.now().Truncate(time.Microsecond)
	if !now.After(floor) {
		now = floor.Truncate(time.Microsecond).Add(time.Microsecond)
	}
	c.lastStamp = now
	return now
}

func (c *Table[R]) logFailure(category string, err error, attrs ...slog.Attr) {
	if errors.Is(err, context.Canceled) {
		c.logger.Debug("Запрос к хранилищу отменён",
			slog.String("category", category),
			slog.String("error", err.Error()),
		)
		return
	}
	args := []any{
		slog.String("category", category),
		slog.String("error", err.Error()),
	}
	for _, a := range attrs {
		args = append(args, a)
	}
	c.logger.Error("Ошибка хранилища", args...)
}
