package model

import "time"

// Record — строка любой из отслеживаемых таблиц.
type Record interface {
	// RecordID возвращает серверный идентификатор (пустой до вставки).
	RecordID() string
	// Fields возвращает редактируемые колонки строки: ключ — имя колонки.
	// id, created_at и updated_at сюда никогда не входят.
	Fields() map[string]any
	// Updated возвращает updated_at (нулевое время до вставки).
	Updated() time.Time
}

// Имена колонок, которые назначает хранилище.
const (
	ColumnID        = "id"
	ColumnCreatedAt = "created_at"
	ColumnUpdatedAt = "updated_at"
)

// Stampable — запись, которой хранилище может назначить серверные колонки.
type Stampable[R any] interface {
	Record
	// Created возвращает created_at строки.
	Created() time.Time
	// Stamped возвращает копию записи с указанными серверными колонками.
	Stamped(id string, createdAt, updatedAt time.Time) R
}
