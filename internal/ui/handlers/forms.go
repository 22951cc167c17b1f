// Пакет handlers — HTTP-обработчики UI Status Dashboard.
// forms.go — разбор форм добавления и правки (gorilla/schema).
package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/schema"

	"github.com/pmishra-tech/document-tracker/internal/domain/model"
)

// formDecoder разбирает application/x-www-form-urlencoded в структуры форм.
// Лишние ключи (CSRF-токен, confirm) игнорируются.
var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// drnForm — поля формы записи DRN. Числа принимаются строками
// и приводятся через parseIntLoose.
type drnForm struct {
	DocumentTitle      string `schema:"document_title"`
	OutstandingNumbers string `schema:"outstanding_numbers"`
	DeadlineDate       string `schema:"deadline_date"`
	Status             string `schema:"status"`
	CommentsRaised     string `schema:"comments_raised"`
	CommentRejected    string `schema:"comment_rejected"`
	NotesComments      string `schema:"notes_comments"`
}

// apply переносит значения формы в буфер, сохраняя id и временные метки.
func (f drnForm) apply(rec model.DRNStatus) model.DRNStatus {
	rec.DocumentTitle = f.DocumentTitle
	rec.OutstandingNumbers = parseIntLoose(f.OutstandingNumbers)
	rec.DeadlineDate = parseDateLoose(f.DeadlineDate)
	rec.Status = parseWorkStatus(f.Status)
	rec.CommentsRaised = parseIntLoose(f.CommentsRaised)
	rec.CommentRejected = parseIntLoose(f.CommentRejected)
	rec.NotesComments = f.NotesComments
	return rec
}

// ucmForm — поля формы записи UCM.
type ucmForm struct {
	DocumentID     string `schema:"document_id"`
	Title          string `schema:"title"`
	DeadlineDate   string `schema:"deadline_date"`
	Owner          string `schema:"owner"`
	Status         string `schema:"status"`
	Reviewer       string `schema:"reviewer"`
	ReviewerStatus string `schema:"reviewer_status"`
	Approver       string `schema:"approver"`
	ApproverStatus string `schema:"approver_status"`
	External       string `schema:"external"`
}

func (f ucmForm) apply(rec model.UCMStatus) model.UCMStatus {
	rec.DocumentID = f.DocumentID
	rec.Title = f.Title
	rec.DeadlineDate = parseDateLoose(f.DeadlineDate)
	rec.Owner = f.Owner
	rec.Status = parseWorkStatus(f.Status)
	rec.Reviewer = f.Reviewer
	rec.ReviewerStatus = parseReviewStatus(f.ReviewerStatus)
	rec.Approver = f.Approver
	rec.ApproverStatus = parseReviewStatus(f.ApproverStatus)
	rec.External = f.External == "true"
	return rec
}

// decodeDRN разбирает форму запроса поверх буфера rec.
func decodeDRN(r *http.Request, rec model.DRNStatus) (model.DRNStatus, error) {
	var f drnForm
	if err := decodeForm(r, &f); err != nil {
		return rec, err
	}
	return f.apply(rec), nil
}

// decodeUCM разбирает форму запроса поверх буфера rec.
func decodeUCM(r *http.Request, rec model.UCMStatus) (model.UCMStatus, error) {
	var f ucmForm
	if err := decodeForm(r, &f); err != nil {
		return rec, err
	}
	return f.apply(rec), nil
}

func decodeForm(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("ошибка разбора формы: %w", err)
	}
	if err := formDecoder.Decode(dst, r.PostForm); err != nil {
		return fmt.Errorf("ошибка декодирования формы: %w", err)
	}
	return nil
}

// parseIntLoose читает целое как parseInt в браузере: пробелы в начале,
// необязательный знак и цифры до первого нецифрового символа.
// Пустой ввод, отсутствие цифр или переполнение дают 0.
func parseIntLoose(s string) int {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// parseDateLoose разбирает значение <input type="date">; некорректное — пустая дата.
func parseDateLoose(s string) model.Date {
	d, err := model.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return model.Date{}
	}
	return d
}

func parseWorkStatus(s string) model.WorkStatus {
	ws, err := model.ParseWorkStatus(s)
	if err != nil {
		return model.DefaultWorkStatus()
	}
	return ws
}

func parseReviewStatus(s string) model.ReviewStatus {
	rs, err := model.ParseReviewStatus(s)
	if err != nil {
		return model.DefaultReviewStatus()
	}
	return rs
}
