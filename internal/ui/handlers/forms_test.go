package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pmishra-tech/document-tracker/internal/domain/model"
)

func TestParseIntLoose(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"42", 42},
		{"  7", 7},
		{"-3", -3},
		{"+5", 5},
		{"12abc", 12},
		{"3.9", 3},
		{"abc", 0},
		{"-", 0},
		{"99999999999999999999999", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseIntLoose(tt.in); got != tt.want {
				t.Errorf("parseIntLoose(%q) = %d, ожидается %d", tt.in, got, tt.want)
			}
		})
	}
}

func formRequest(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestDecodeDRN(t *testing.T) {
	buf := model.NewDRNStatus()
	buf.ID = "row-1"
	buf.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	req := formRequest(url.Values{
		"gorilla.csrf.Token":  {"tok"},
		"document_title":      {"Spec Review"},
		"outstanding_numbers": {"3"},
		"deadline_date":       {"2024-03-15"},
		"status":              {"In Progress"},
		"comments_raised":     {"x"},
		"comment_rejected":    {"1"},
		"notes_comments":      {"n"},
	})

	got, err := decodeDRN(req, buf)
	if err != nil {
		t.Fatalf("decodeDRN() вернул ошибку: %v", err)
	}
	if got.ID != "row-1" || !got.CreatedAt.Equal(buf.CreatedAt) {
		t.Error("id и created_at буфера должны сохраняться")
	}
	if got.DocumentTitle != "Spec Review" || got.OutstandingNumbers != 3 {
		t.Errorf("got = %+v", got)
	}
	if got.DeadlineDate != model.NewDate(2024, time.March, 15) {
		t.Errorf("DeadlineDate = %s", got.DeadlineDate)
	}
	if got.Status != model.WorkInProgress {
		t.Errorf("Status = %q, ожидается %q", got.Status, model.WorkInProgress)
	}
	if got.CommentsRaised != 0 {
		t.Errorf("CommentsRaised = %d, нечисловой ввод даёт 0", got.CommentsRaised)
	}
}

func TestDecodeDRN_Fallbacks(t *testing.T) {
	req := formRequest(url.Values{
		"status":        {"Archived"},
		"deadline_date": {"15/03/2024"},
	})

	got, err := decodeDRN(req, model.NewDRNStatus())
	if err != nil {
		t.Fatalf("decodeDRN() вернул ошибку: %v", err)
	}
	if got.Status != model.WorkPending {
		t.Errorf("Status = %q, неизвестное значение заменяется на Pending", got.Status)
	}
	if !got.DeadlineDate.IsZero() {
		t.Errorf("DeadlineDate = %s, некорректная дата даёт пустое значение", got.DeadlineDate)
	}
}

func TestDecodeUCM(t *testing.T) {
	req := formRequest(url.Values{
		"document_id":     {"UCM-7"},
		"title":           {"Interface Spec"},
		"owner":           {"alice"},
		"status":          {"Completed"},
		"reviewer_status": {"Approved"},
		"approver_status": {"bogus"},
		"external":        {"true"},
	})

	got, err := decodeUCM(req, model.NewUCMStatus())
	if err != nil {
		t.Fatalf("decodeUCM() вернул ошибку: %v", err)
	}
	if got.DocumentID != "UCM-7" || got.Owner != "alice" {
		t.Errorf("got = %+v", got)
	}
	if got.ReviewerStatus != model.ReviewApproved {
		t.Errorf("ReviewerStatus = %q", got.ReviewerStatus)
	}
	if got.ApproverStatus != model.ReviewNotStarted {
		t.Errorf("ApproverStatus = %q, ожидается %q", got.ApproverStatus, model.ReviewNotStarted)
	}
	if !got.External {
		t.Error("External = false, ожидается true")
	}

	got, _ = decodeUCM(formRequest(url.Values{"external": {"false"}}), got)
	if got.External {
		t.Error("External = true после external=false")
	}
}
