package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/pmishra-tech/document-tracker/internal/ui/i18n"
)

func TestHandleSetLanguage(t *testing.T) {
	tests := []struct {
		name     string
		lang     string
		referer  string
		wantLang string
		wantLoc  string
	}{
		{"ru с возвратом", "ru", "http://localhost:8080/ucm", "ru", "/ucm"},
		{"неизвестный язык", "de", "", "en", "/drn"},
		{"чужой хост", "en", "https://evil.example//x", "en", "/drn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := formRequest(url.Values{"lang": {tt.lang}})
			if tt.referer != "" {
				req.Header.Set("Referer", tt.referer)
			}
			rec := httptest.NewRecorder()
			HandleSetLanguage(rec, req)

			if rec.Code != http.StatusSeeOther {
				t.Errorf("статус = %d, ожидается %d", rec.Code, http.StatusSeeOther)
			}
			if loc := rec.Header().Get("Location"); loc != tt.wantLoc {
				t.Errorf("Location = %q, ожидается %q", loc, tt.wantLoc)
			}
			var got string
			for _, c := range rec.Result().Cookies() {
				if c.Name == i18n.LangCookieName {
					got = c.Value
				}
			}
			if got != tt.wantLang {
				t.Errorf("cookie lang = %q, ожидается %q", got, tt.wantLang)
			}
		})
	}
}

func TestHandleIndex(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleIndex(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusFound {
		t.Errorf("статус = %d, ожидается %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/drn" {
		t.Errorf("Location = %q, ожидается /drn", loc)
	}
}
