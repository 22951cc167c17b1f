// tables.go — обработчики вкладок DRN и UCM: страница, фрагмент таблицы
// и переходы контроллера (Add, Edit, Save, Cancel, Delete).
package handlers

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"

	"github.com/pmishra-tech/document-tracker/internal/controller"
	"github.com/pmishra-tech/document-tracker/internal/domain/model"
	"github.com/pmishra-tech/document-tracker/internal/service"
	"github.com/pmishra-tech/document-tracker/internal/ui/i18n"
	uimiddleware "github.com/pmishra-tech/document-tracker/internal/ui/middleware"
	"github.com/pmishra-tech/document-tracker/internal/ui/pages"
)

// confirmValue — значение поля confirm, которое форма удаления
// отправляет только после согласия пользователя.
const confirmValue = "yes"

// TableHandler — обработчики одной вкладки для записей типа R.
type TableHandler[R model.Record] struct {
	schema pages.Schema[R]
	pick   func(*service.Workspace) *controller.Table[R]
	decode func(*http.Request, R) (R, error)
	bundle *i18n.Bundle
	logger *slog.Logger
}

// NewDRNHandler создаёт обработчики вкладки DRN Status.
func NewDRNHandler(bundle *i18n.Bundle, logger *slog.Logger) *TableHandler[model.DRNStatus] {
	return &TableHandler[model.DRNStatus]{
		schema: pages.DRNSchema{},
		pick:   func(ws *service.Workspace) *controller.Table[model.DRNStatus] { return ws.DRN },
		decode: decodeDRN,
		bundle: bundle,
		logger: logger.With(slog.String("component", "ui.drn")),
	}
}

// NewUCMHandler создаёт обработчики вкладки UCM Status.
func NewUCMHandler(bundle *i18n.Bundle, logger *slog.Logger) *TableHandler[model.UCMStatus] {
	return &TableHandler[model.UCMStatus]{
		schema: pages.UCMSchema{},
		pick:   func(ws *service.Workspace) *controller.Table[model.UCMStatus] { return ws.UCM },
		decode: decodeUCM,
		bundle: bundle,
		logger: logger.With(slog.String("component", "ui.ucm")),
	}
}

// Tab возвращает ключ вкладки и префикс маршрутов.
func (h *TableHandler[R]) Tab() string {
	return h.schema.Tab()
}

// Routes регистрирует маршруты вкладки относительно /{tab}.
func (h *TableHandler[R]) Routes(r chi.Router) {
	r.Get("/", h.HandlePage)
	r.Get("/table", h.HandleTable)
	r.Post("/add", h.HandleAdd)
	r.Post("/save", h.HandleSave)
	r.Post("/cancel", h.HandleCancel)
	r.Post("/rows/{id}/edit", h.HandleEdit)
	r.Post("/rows/{id}/delete", h.HandleDelete)
}

// HandlePage обрабатывает GET /{tab} — полная страница.
// Открытие вкладки сбрасывает контроллер в Idle и перечитывает таблицу.
func (h *TableHandler[R]) HandlePage(w http.ResponseWriter, r *http.Request) {
	ctrl := h.controller(w, r)
	if ctrl == nil {
		return
	}
	// Ошибка загрузки уже залогирована контроллером
	_ = ctrl.Mount(r.Context())
	h.renderPage(w, r, ctrl)
}

// HandleTable обрабатывает GET /{tab}/table — фрагмент таблицы после загрузки.
func (h *TableHandler[R]) HandleTable(w http.ResponseWriter, r *http.Request) {
	ctrl := h.controller(w, r)
	if ctrl == nil {
		return
	}
	_ = ctrl.Load(r.Context())
	h.renderTable(w, r, ctrl)
}

// HandleAdd обрабатывает POST /{tab}/add.
func (h *TableHandler[R]) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctrl := h.controller(w, r)
	if ctrl == nil {
		return
	}
	ctrl.BeginAdd()
	h.respond(w, r, ctrl)
}

// HandleEdit обрабатывает POST /{tab}/rows/{id}/edit.
func (h *TableHandler[R]) HandleEdit(w http.ResponseWriter, r *http.Request) {
	ctrl := h.controller(w, r)
	if ctrl == nil {
		return
	}
	ctrl.BeginEdit(chi.URLParam(r, "id"))
	h.respond(w, r, ctrl)
}

// HandleSave обрабатывает POST /{tab}/save — значения формы в буфер и Save.
func (h *TableHandler[R]) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctrl := h.controller(w, r)
	if ctrl == nil {
		return
	}

	snap := ctrl.Snapshot()
	if snap.Idle() {
		h.respond(w, r, ctrl)
		return
	}

	rec, err := h.decode(r, snap.Buffer)
	if err != nil {
		h.logger.Warn("Некорректная форма записи",
			slog.String("error", err.Error()),
		)
		h.respond(w, r, ctrl)
		return
	}

	if ctrl.SetBuffer(rec) {
		// Ошибка сохранения залогирована контроллером; форма остаётся открытой
		_ = ctrl.Save(r.Context())
	}
	h.respond(w, r, ctrl)
}

// HandleCancel обрабатывает POST /{tab}/cancel.
func (h *TableHandler[R]) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctrl := h.controller(w, r)
	if ctrl == nil {
		return
	}
	ctrl.Cancel()
	h.respond(w, r, ctrl)
}

// HandleDelete обрабатывает POST /{tab}/rows/{id}/delete.
// Без confirm=yes запрос к хранилищу не отправляется.
func (h *TableHandler[R]) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctrl := h.controller(w, r)
	if ctrl == nil {
		return
	}
	confirmed := r.FormValue("confirm") == confirmValue
	_ = ctrl.Delete(r.Context(), chi.URLParam(r, "id"), func(string) bool { return confirmed })
	h.respond(w, r, ctrl)
}

// controller возвращает контроллер вкладки из рабочего пространства запроса.
func (h *TableHandler[R]) controller(w http.ResponseWriter, r *http.Request) *controller.Table[R] {
	ws := uimiddleware.WorkspaceFromContext(r.Context())
	if ws == nil {
		h.logger.Error("Рабочее пространство отсутствует в контексте запроса")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return nil
	}
	return h.pick(ws)
}

// respond отдаёт фрагмент таблицы для HTMX-запроса и полную страницу
// для обычной отправки формы (без повторного Mount).
func (h *TableHandler[R]) respond(w http.ResponseWriter, r *http.Request, ctrl *controller.Table[R]) {
	if isHTMX(r) {
		h.renderTable(w, r, ctrl)
		return
	}
	h.renderPage(w, r, ctrl)
}

func (h *TableHandler[R]) view(r *http.Request, ctrl *controller.Table[R]) (pages.Locale, pages.TableView) {
	l := pages.NewLocale(h.bundle, i18n.LangFromContext(r.Context()))
	return l, pages.BuildTable(l, h.schema, ctrl.Snapshot(), csrf.Token(r))
}

func (h *TableHandler[R]) renderPage(w http.ResponseWriter, r *http.Request, ctrl *controller.Table[R]) {
	l, table := h.view(r, ctrl)
	h.render(w, r, pages.Page(pages.PageData{
		L:         l,
		CSRFToken: table.CSRFToken,
		Tabs:      pages.Tabs(l, h.Tab()),
		Table:     table,
	}))
}

func (h *TableHandler[R]) renderTable(w http.ResponseWriter, r *http.Request, ctrl *controller.Table[R]) {
	_, table := h.view(r, ctrl)
	h.render(w, r, pages.Table(table))
}

// render выводит компонент через буфер, чтобы ошибка шаблона
// могла вернуть 500 до записи тела.
func (h *TableHandler[R]) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		h.logger.Error("Ошибка рендеринга",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// isHTMX сообщает, пришёл ли запрос от HTMX.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
