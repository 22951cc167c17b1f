// language.go — обработчик переключения языка UI.
package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pmishra-tech/document-tracker/internal/ui/i18n"
)

// defaultPath — вкладка, открываемая по умолчанию.
const defaultPath = "/drn"

// HandleSetLanguage обрабатывает POST /set-language.
// Устанавливает cookie "lang" и перенаправляет обратно.
// Параметр lang: "en" или "ru" (из формы или query).
func HandleSetLanguage(w http.ResponseWriter, r *http.Request) {
	lang := r.FormValue("lang")
	if !i18n.Supported(lang) {
		lang = i18n.DefaultLang
	}

	http.SetCookie(w, &http.Cookie{
		Name:     i18n.LangCookieName,
		Value:    lang,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
	})

	http.Redirect(w, r, backPath(r.Header.Get("Referer")), http.StatusSeeOther)
}

// backPath оставляет от Referer только путь и query, чтобы redirect
// не уводил на чужой хост.
func backPath(referer string) string {
	u, err := url.Parse(referer)
	if err != nil || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return defaultPath
	}
	return u.RequestURI()
}

// HandleIndex обрабатывает GET / — перенаправление на вкладку по умолчанию.
func HandleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, defaultPath, http.StatusFound)
}
