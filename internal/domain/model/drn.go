package model

import "time"

// DRNTable — имя таблицы записей DRN.
const DRNTable = "drn_status"

// DRNStatus — запись трекинга документа DRN (таблица drn_status).
type DRNStatus struct {
	// ID — UUID записи, назначается хранилищем
	ID string `json:"id,omitempty" db:"id"`
	// DocumentTitle — название документа
	DocumentTitle string `json:"document_title" db:"document_title"`
	// OutstandingNumbers — количество открытых пунктов (неотрицательное)
	OutstandingNumbers int `json:"outstanding_numbers" db:"outstanding_numbers"`
	// DeadlineDate — срок (может быть не задан)
	DeadlineDate Date `json:"deadline_date" db:"deadline_date"`
	// Status — статус работы
	Status WorkStatus `json:"status" db:"status"`
	// CommentsRaised — количество поднятых замечаний
	CommentsRaised int `json:"comments_raised" db:"comments_raised"`
	// CommentRejected — количество отклонённых замечаний
	CommentRejected int `json:"comment_rejected" db:"comment_rejected"`
	// NotesComments — свободный текст
	NotesComments string `json:"notes_comments" db:"notes_comments"`
	// CreatedAt — время вставки, назначается хранилищем один раз
	CreatedAt time.Time `json:"created_at,omitzero" db:"created_at"`
	// UpdatedAt — время последнего изменения
	UpdatedAt time.Time `json:"updated_at,omitzero" db:"updated_at"`
}

// NewDRNStatus возвращает запись со значениями по умолчанию для режима добавления.
func NewDRNStatus() DRNStatus {
	return DRNStatus{Status: DefaultWorkStatus()}
}

// RecordID реализует Record.
func (r DRNStatus) RecordID() string {
	return r.ID
}

// Fields реализует Record.
func (r DRNStatus) Fields() map[string]any {
	return map[string]any{
		"document_title":      r.DocumentTitle,
		"outstanding_numbers": r.OutstandingNumbers,
		"deadline_date":       r.DeadlineDate,
		"status":              string(r.Status),
		"comments_raised":     r.CommentsRaised,
		"comment_rejected":    r.CommentRejected,
		"notes_comments":      r.NotesComments,
	}
}

// Stamped возвращает копию записи с серверными колонками.
func (r DRNStatus) Stamped(id string, createdAt, updatedAt time.Time) DRNStatus {
	r.ID = id
	r.CreatedAt = createdAt
	r.UpdatedAt = updatedAt
	return r
}

// Created возвращает created_at.
func (r DRNStatus) Created() time.Time {
	return r.CreatedAt
}

// Updated реализует Record.
func (r DRNStatus) Updated() time.Time {
	return r.UpdatedAt
}
