package i18n

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func loadedBundle(t *testing.T) *Bundle {
	t.Helper()
	b := NewBundle(nil)
	if err := LoadFromEmbedFS(b, slog.New(slog.DiscardHandler)); err != nil {
		t.Fatalf("LoadFromEmbedFS() вернул ошибку: %v", err)
	}
	return b
}

func TestTranslate_Fallback(t *testing.T) {
	b := loadedBundle(t)

	if got := b.Translate("en", "table.empty"); got != `No items found. Click "Add New" to create one.` {
		t.Errorf("table.empty = %q", got)
	}
	if got := b.Translate("ru", "tab.drn"); got != "Статус DRN" {
		t.Errorf("ru tab.drn = %q", got)
	}
	if got := b.Translate("de", "action.add"); got != "Add New" {
		t.Errorf("неизвестный язык: %q, ожидается английский вариант", got)
	}
	if got := b.Translate("en", "missing.key"); got != "missing.key" {
		t.Errorf("отсутствующий ключ: %q", got)
	}
}

// Каталоги содержат одинаковый набор ключей.
func TestCatalogs_SameKeys(t *testing.T) {
	read := func(lang string) map[string]string {
		data, err := LocaleFS.ReadFile("locales/" + lang + ".json")
		if err != nil {
			t.Fatal(err)
		}
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatal(err)
		}
		return m
	}
	en, ru := read("en"), read("ru")
	for k := range en {
		if _, ok := ru[k]; !ok {
			t.Errorf("ключ %q отсутствует в ru.json", k)
		}
	}
	for k := range ru {
		if _, ok := en[k]; !ok {
			t.Errorf("ключ %q отсутствует в en.json", k)
		}
	}
}

func TestMatchLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"ru-RU,ru;q=0.9,en;q=0.8", "ru"},
		{"en-US,en;q=0.9", "en"},
		{"de-DE", "en"},
		{"", "en"},
	}
	for _, tt := range tests {
		if got := MatchLanguage(tt.header); got != tt.want {
			t.Errorf("MatchLanguage(%q) = %q, ожидается %q", tt.header, got, tt.want)
		}
	}
}

func TestMiddleware_Priority(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		accept string
		want   string
	}{
		{"cookie важнее заголовка", "ru", "en-US", "ru"},
		{"некорректный cookie", "fr", "ru", "ru"},
		{"только заголовок", "", "ru-RU", "ru"},
		{"по умолчанию", "", "", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = LangFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LangCookieName, Value: tt.cookie})
			}
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("язык = %q, ожидается %q", got, tt.want)
			}
		})
	}
}
