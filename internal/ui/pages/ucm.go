package pages

import (
	"github.com/pmishra-tech/document-tracker/internal/domain/model"
)

// UCMSchema — отображение таблицы ucm_status.
type UCMSchema struct{}

// Tab реализует Schema.
func (UCMSchema) Tab() string { return "ucm" }

// ColumnKeys реализует Schema.
func (UCMSchema) ColumnKeys() []string {
	return []string{
		"document_id",
		"title",
		"deadline_date",
		"owner",
		"status",
		"reviewer",
		"reviewer_status",
		"approver",
		"approver_status",
		"external",
	}
}

// Cells реализует Schema.
func (UCMSchema) Cells(l Locale, r model.UCMStatus) []Cell {
	external := l.T("bool.no")
	if r.External {
		external = l.T("bool.yes")
	}
	return []Cell{
		{Text: r.DocumentID},
		{Text: r.Title},
		{Text: l.Date(r.DeadlineDate)},
		{Text: textOrDash(r.Owner)},
		{Text: l.T("enum." + r.Status.String()), Badge: true, Tone: r.Status.Tone()},
		{Text: textOrDash(r.Reviewer)},
		{Text: l.T("enum." + r.ReviewerStatus.String()), Badge: true, Tone: r.ReviewerStatus.Tone()},
		{Text: textOrDash(r.Approver)},
		{Text: l.T("enum." + r.ApproverStatus.String()), Badge: true, Tone: r.ApproverStatus.Tone()},
		{Text: external, Badge: true, Tone: model.ExternalTone(r.External)},
	}
}

// Fields реализует Schema.
func (UCMSchema) Fields(l Locale, r model.UCMStatus) []Field {
	return []Field{
		{Name: "document_id", Kind: FieldText, Value: r.DocumentID, Placeholder: l.T("placeholder.document_id")},
		{Name: "title", Kind: FieldText, Value: r.Title, Placeholder: l.T("placeholder.title")},
		{Name: "deadline_date", Kind: FieldDate, Value: r.DeadlineDate.String()},
		{Name: "owner", Kind: FieldText, Value: r.Owner, Placeholder: l.T("placeholder.owner")},
		{Name: "status", Kind: FieldSelect, Options: workStatusOptions(l, r.Status)},
		{Name: "reviewer", Kind: FieldText, Value: r.Reviewer, Placeholder: l.T("placeholder.reviewer")},
		{Name: "reviewer_status", Kind: FieldSelect, Options: reviewStatusOptions(l, r.ReviewerStatus)},
		{Name: "approver", Kind: FieldText, Value: r.Approver, Placeholder: l.T("placeholder.approver")},
		{Name: "approver_status", Kind: FieldSelect, Options: reviewStatusOptions(l, r.ApproverStatus)},
		{Name: "external", Kind: FieldSelect, Options: boolOptions(l, r.External)},
	}
}
