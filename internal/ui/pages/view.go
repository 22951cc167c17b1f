// Пакет pages — страницы и фрагменты UI Status Dashboard.
// Разметка — встроенные html/template, отдаваемые как templ.Component;
// здесь же модель представления таблиц, общая для DRN и UCM.
package pages

import (
	"github.com/pmishra-tech/document-tracker/internal/controller"
	"github.com/pmishra-tech/document-tracker/internal/domain/model"
	"github.com/pmishra-tech/document-tracker/internal/ui/i18n"
)

// Виды полей формы.
const (
	FieldText     = "text"
	FieldNumber   = "number"
	FieldDate     = "date"
	FieldSelect   = "select"
	FieldTextarea = "textarea"
)

// Locale — язык запроса с функциями перевода для шаблонов.
type Locale struct {
	Lang   string
	bundle *i18n.Bundle
}

// NewLocale создаёт Locale для языка lang.
func NewLocale(bundle *i18n.Bundle, lang string) Locale {
	return Locale{Lang: lang, bundle: bundle}
}

// T возвращает перевод ключа.
func (l Locale) T(key string, args ...any) string {
	if l.bundle == nil {
		return key
	}
	return l.bundle.Translatef(l.Lang, key, args...)
}

// Date форматирует дату по правилам языка; пустая дата — "-".
func (l Locale) Date(d model.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.Format(l.T("date.layout"))
}

// Tab — вкладка оболочки.
type Tab struct {
	Key    string
	Label  string
	Active bool
}

// PageData — данные полной страницы.
type PageData struct {
	L         Locale
	CSRFToken string
	Tabs      []Tab
	Table     TableView
}

// TableView — таблица одной вкладки.
type TableView struct {
	L Locale
	// Tab — ключ вкладки и префикс маршрутов ("drn", "ucm")
	Tab       string
	Title     string
	CSRFToken string
	Columns   []string
	// Colspan — число колонок вместе с "Actions"
	Colspan int
	Loading bool
	// Idle — доступны ли Add/Edit/Delete
	Idle    bool
	NewForm *FormView
	Rows    []RowView
}

// Empty сообщает, нужно ли показать строку "No items found".
func (v TableView) Empty() bool {
	return len(v.Rows) == 0 && v.NewForm == nil
}

// RowView — строка таблицы; Form задан для правимой строки.
type RowView struct {
	ID    string
	Cells []Cell
	Form  *FormView
}

// Cell — ячейка: текст или бейдж с тоном.
type Cell struct {
	Text  string
	Badge bool
	Tone  model.Tone
	// Truncate — длинный текст обрезается
	Truncate bool
}

// FormView — поля формы добавления или правки.
type FormView struct {
	Fields []Field
}

// Field — поле формы.
type Field struct {
	Name        string
	Kind        string
	Value       string
	Placeholder string
	Options     []Option
}

// Option — вариант выпадающего списка.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Schema описывает отображение записей типа R в таблице.
type Schema[R model.Record] interface {
	// Tab возвращает ключ вкладки.
	Tab() string
	// ColumnKeys возвращает имена колонок в порядке отображения.
	ColumnKeys() []string
	// Cells возвращает ячейки строки для режима просмотра.
	Cells(l Locale, rec R) []Cell
	// Fields возвращает поля формы, заполненные из rec.
	Fields(l Locale, rec R) []Field
}

// BuildTable собирает TableView из снимка контроллера.
func BuildTable[R model.Record](l Locale, s Schema[R], snap controller.Snapshot[R], csrfToken string) TableView {
	keys := s.ColumnKeys()
	columns := make([]string, len(keys))
	for i, k := range keys {
		columns[i] = l.T("col." + k)
	}

	view := TableView{
		L:         l,
		Tab:       s.Tab(),
		Title:     l.T("tab." + s.Tab()),
		CSRFToken: csrfToken,
		Columns:   columns,
		Colspan:   len(columns) + 1,
		Loading:   snap.Loading,
		Idle:      snap.Idle() && !snap.Busy,
		Rows:      make([]RowView, 0, len(snap.Items)),
	}

	if snap.Mode == controller.ModeAdding {
		view.NewForm = &FormView{Fields: s.Fields(l, snap.Buffer)}
	}

	for _, rec := range snap.Items {
		row := RowView{ID: rec.RecordID()}
		if snap.Editing(row.ID) {
			row.Form = &FormView{Fields: s.Fields(l, snap.Buffer)}
		} else {
			row.Cells = s.Cells(l, rec)
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}

// textOrDash возвращает "-" для пустой строки.
func textOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func workStatusOptions(l Locale, current model.WorkStatus) []Option {
	values := model.WorkStatuses()
	opts := make([]Option, len(values))
	for i, v := range values {
		opts[i] = Option{Value: v.String(), Label: l.T("enum." + v.String()), Selected: v == current}
	}
	return opts
}

func reviewStatusOptions(l Locale, current model.ReviewStatus) []Option {
	values := model.ReviewStatuses()
	opts := make([]Option, len(values))
	for i, v := range values {
		opts[i] = Option{Value: v.String(), Label: l.T("enum." + v.String()), Selected: v == current}
	}
	return opts
}

func boolOptions(l Locale, current bool) []Option {
	return []Option{
		{Value: "false", Label: l.T("bool.no"), Selected: !current},
		{Value: "true", Label: l.T("bool.yes"), Selected: current},
	}
}
