package pages

import (
	"strconv"

	"github.com/pmishra-tech/document-tracker/internal/domain/model"
)

// DRNSchema — отображение таблицы drn_status.
type DRNSchema struct{}

// Tab реализует Schema.
func (DRNSchema) Tab() string { return "drn" }

// ColumnKeys реализует Schema.
func (DRNSchema) ColumnKeys() []string {
	return []string{
		"document_title",
		"outstanding_numbers",
		"deadline_date",
		"status",
		"comments_raised",
		"comment_rejected",
		"notes_comments",
	}
}

// Cells реализует Schema.
func (DRNSchema) Cells(l Locale, r model.DRNStatus) []Cell {
	return []Cell{
		{Text: r.DocumentTitle},
		{Text: strconv.Itoa(r.OutstandingNumbers)},
		{Text: l.Date(r.DeadlineDate)},
		{Text: l.T("enum." + r.Status.String()), Badge: true, Tone: r.Status.Tone()},
		{Text: strconv.Itoa(r.CommentsRaised)},
		{Text: strconv.Itoa(r.CommentRejected)},
		{Text: textOrDash(r.NotesComments), Truncate: true},
	}
}

// Fields реализует Schema.
func (DRNSchema) Fields(l Locale, r model.DRNStatus) []Field {
	return []Field{
		{Name: "document_title", Kind: FieldText, Value: r.DocumentTitle, Placeholder: l.T("placeholder.document_title")},
		{Name: "outstanding_numbers", Kind: FieldNumber, Value: strconv.Itoa(r.OutstandingNumbers)},
		{Name: "deadline_date", Kind: FieldDate, Value: r.DeadlineDate.String()},
		{Name: "status", Kind: FieldSelect, Options: workStatusOptions(l, r.Status)},
		{Name: "comments_raised", Kind: FieldNumber, Value: strconv.Itoa(r.CommentsRaised)},
		{Name: "comment_rejected", Kind: FieldNumber, Value: strconv.Itoa(r.CommentRejected)},
		{Name: "notes_comments", Kind: FieldTextarea, Value: r.NotesComments, Placeholder: l.T("placeholder.notes_comments")},
	}
}
