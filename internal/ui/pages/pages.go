package pages

import (
	"embed"
	"html/template"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(
	template.New("pages").Funcs(template.FuncMap{
		"formRow": newFormRow,
		"field":   newFieldData,
	}).ParseFS(templateFS, "templates/*.html"),
)

// formRowData — данные строки-формы: таблица + поля + id формы сохранения.
type formRowData struct {
	TableView
	Form   *FormView
	FormID string
}

func newFormRow(v TableView, f *FormView) formRowData {
	return formRowData{TableView: v, Form: f, FormID: v.Tab + "-form"}
}

type fieldData struct {
	FormID string
	Field  Field
}

func newFieldData(formID string, f Field) fieldData {
	return fieldData{FormID: formID, Field: f}
}

// Page — полная страница: заголовок, вкладки, таблица активной вкладки.
func Page(data PageData) templ.Component {
	return templ.FromGoHTML(templates.Lookup("page"), data)
}

// Table — фрагмент таблицы для HTMX-замены.
func Table(view TableView) templ.Component {
	return templ.FromGoHTML(templates.Lookup("table"), view)
}

// TabKeys — ключи вкладок в порядке отображения; первая открывается по умолчанию.
var TabKeys = []string{"drn", "ucm"}

// Tabs возвращает вкладки оболочки с отмеченной активной.
func Tabs(l Locale, active string) []Tab {
	tabs := make([]Tab, len(TabKeys))
	for i, k := range TabKeys {
		tabs[i] = Tab{Key: k, Label: l.T("tab." + k), Active: k == active}
	}
	return tabs
}
