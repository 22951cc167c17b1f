// Пакет model — доменные модели Status Dashboard: записи таблиц drn_status и
// ucm_status, закрытые перечисления статусов и календарная дата.
package model

import "fmt"

// Tone — семантический цвет бейджа статуса.
// Конкретные CSS-классы выбирает слой UI.
type Tone string

const (
	ToneGreen  Tone = "green"
	ToneBlue   Tone = "blue"
	ToneYellow Tone = "yellow"
	ToneRed    Tone = "red"
	ToneOrange Tone = "orange"
	ToneGray   Tone = "gray"
)

// WorkStatus — статус работы над документом (поле status обеих таблиц).
type WorkStatus string

const (
	// WorkPending — значение по умолчанию для новой записи
	WorkPending    WorkStatus = "Pending"
	WorkInProgress WorkStatus = "In Progress"
	WorkCompleted  WorkStatus = "Completed"
	WorkOnHold     WorkStatus = "On Hold"
)

// workStatusTones — таблица соответствия статус → цвет бейджа.
var workStatusTones = map[WorkStatus]Tone{
	WorkPending:    ToneGray,
	WorkInProgress: ToneBlue,
	WorkCompleted:  ToneGreen,
	WorkOnHold:     ToneYellow,
}

// WorkStatuses возвращает допустимые значения в порядке отображения в форме.
func WorkStatuses() []WorkStatus {
	return []WorkStatus{WorkPending, WorkInProgress, WorkCompleted, WorkOnHold}
}

// DefaultWorkStatus — первый вариант перечисления.
func DefaultWorkStatus() WorkStatus {
	return WorkPending
}

// Valid проверяет, входит ли значение в перечисление.
func (s WorkStatus) Valid() bool {
	_, ok := workStatusTones[s]
	return ok
}

// Tone возвращает цвет бейджа. Неизвестные значения (например, записанные
// в таблицу в обход приложения) отображаются серым.
func (s WorkStatus) Tone() Tone {
	if t, ok := workStatusTones[s]; ok {
		return t
	}
	return ToneGray
}

func (s WorkStatus) String() string {
	return string(s)
}

// ParseWorkStatus преобразует строку в WorkStatus.
func ParseWorkStatus(s string) (WorkStatus, error) {
	ws := WorkStatus(s)
	if !ws.Valid() {
		return "", fmt.Errorf("недопустимый статус %q, допустимые: Pending, In Progress, Completed, On Hold", s)
	}
	return ws, nil
}

// ReviewStatus — статус рецензента/утверждающего (reviewer_status, approver_status).
type ReviewStatus string

const (
	// ReviewNotStarted — значение по умолчанию для новой записи
	ReviewNotStarted ReviewStatus = "Not Started"
	ReviewInReview   ReviewStatus = "In Review"
	ReviewApproved   ReviewStatus = "Approved"
	ReviewRejected   ReviewStatus = "Rejected"
)

var reviewStatusTones = map[ReviewStatus]Tone{
	ReviewNotStarted: ToneGray,
	ReviewInReview:   ToneBlue,
	ReviewApproved:   ToneGreen,
	ReviewRejected:   ToneRed,
}

// ReviewStatuses возвращает допустимые значения в порядке отображения в форме.
func ReviewStatuses() []ReviewStatus {
	return []ReviewStatus{ReviewNotStarted, ReviewInReview, ReviewApproved, ReviewRejected}
}

// DefaultReviewStatus — первый вариант перечисления.
func DefaultReviewStatus() ReviewStatus {
	return ReviewNotStarted
}

// Valid проверяет, входит ли значение в перечисление.
func (s ReviewStatus) Valid() bool {
	_, ok := reviewStatusTones[s]
	return ok
}

// Tone возвращает цвет бейджа.
func (s ReviewStatus) Tone() Tone {
	if t, ok := reviewStatusTones[s]; ok {
		return t
	}
	return ToneGray
}

func (s ReviewStatus) String() string {
	return string(s)
}

// ParseReviewStatus преобразует строку в ReviewStatus.
func ParseReviewStatus(s string) (ReviewStatus, error) {
	rs := ReviewStatus(s)
	if !rs.Valid() {
		return "", fmt.Errorf("недопустимый статус ревью %q, допустимые: Not Started, In Review, Approved, Rejected", s)
	}
	return rs, nil
}

// ExternalTone — цвет бейджа флага external.
func ExternalTone(external bool) Tone {
	if external {
		return ToneOrange
	}
	return ToneGray
}
