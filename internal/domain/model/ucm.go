package model

import "time"

// UCMTable — имя таблицы записей UCM.
const UCMTable = "ucm_status"

// UCMStatus — запись трекинга документа UCM (таблица ucm_status).
type UCMStatus struct {
	ID             string       `json:"id,omitempty" db:"id"`
	DocumentID     string       `json:"document_id" db:"document_id"`
	Title          string       `json:"title" db:"title"`
	DeadlineDate   Date         `json:"deadline_date" db:"deadline_date"`
	Owner          string       `json:"owner" db:"owner"`
	Status         WorkStatus   `json:"status" db:"status"`
	Reviewer       string       `json:"reviewer" db:"reviewer"`
	ReviewerStatus ReviewStatus `json:"reviewer_status" db:"reviewer_status"`
	Approver       string       `json:"approver" db:"approver"`
	ApproverStatus ReviewStatus `json:"approver_status" db:"approver_status"`
	// External — документ внешнего контрагента
	External  bool      `json:"external" db:"external"`
	CreatedAt time.Time `json:"created_at,omitzero" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitzero" db:"updated_at"`
}

// NewUCMStatus возвращает запись со значениями по умолчанию для режима добавления.
func NewUCMStatus() UCMStatus {
	return UCMStatus{
		Status:         DefaultWorkStatus(),
		ReviewerStatus: DefaultReviewStatus(),
		ApproverStatus: DefaultReviewStatus(),
	}
}

// RecordID реализует Record.
func (r UCMStatus) RecordID() string {
	return r.ID
}

// Fields реализует Record.
func (r UCMStatus) Fields() map[string]any {
	return map[string]any{
		"document_id":     r.DocumentID,
		"title":           r.Title,
		"deadline_date":   r.DeadlineDate,
		"owner":           r.Owner,
		"status":          string(r.Status),
		"reviewer":        r.Reviewer,
		"reviewer_status": string(r.ReviewerStatus),
		"approver":        r.Approver,
		"approver_status": string(r.ApproverStatus),
		"external":        r.External,
	}
}

// Stamped возвращает копию записи с серверными колонками.
func (r UCMStatus) Stamped(id string, createdAt, updatedAt time.Time) UCMStatus {
	r.ID = id
	r.CreatedAt = createdAt
	r.UpdatedAt = updatedAt
	return r
}

// Created возвращает created_at.
func (r UCMStatus) Created() time.Time {
	return r.CreatedAt
}

// Updated реализует Record.
func (r UCMStatus) Updated() time.Time {
	return r.UpdatedAt
}
