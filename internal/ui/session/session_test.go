package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestEncryptDecryptRoundTrip проверяет шифрование и дешифрование Data.
func TestEncryptDecryptRoundTrip(t *testing.T) {
	m, err := NewManager("", false, time.Hour)
	if err != nil {
		t.Fatalf("Ошибка создания Manager: %v", err)
	}

	original := NewData()
	encrypted, err := m.Encrypt(original)
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}
	if encrypted == "" {
		t.Fatal("Зашифрованная строка пустая")
	}

	decrypted, err := m.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("Ошибка дешифрования: %v", err)
	}
	if decrypted.ID != original.ID {
		t.Errorf("ID = %q, ожидается %q", decrypted.ID, original.ID)
	}
	if decrypted.IssuedAt != original.IssuedAt {
		t.Errorf("IssuedAt = %d, ожидается %d", decrypted.IssuedAt, original.IssuedAt)
	}
}

// TestDecryptWithWrongKey проверяет, что чужой ключ не подходит.
func TestDecryptWithWrongKey(t *testing.T) {
	m1, _ := NewManager("key-one", false, time.Hour)
	m2, _ := NewManager("key-two", false, time.Hour)

	encrypted, err := m1.Encrypt(NewData())
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}
	if _, err := m2.Decrypt(encrypted); err == nil {
		t.Error("Ожидалась ошибка при дешифровании чужим ключом")
	}
}

// TestDecryptRejectsInvalidID проверяет отказ для сессии без UUID.
func TestDecryptRejectsInvalidID(t *testing.T) {
	m, _ := NewManager("key", false, time.Hour)

	encrypted, err := m.Encrypt(&Data{ID: "not-a-uuid"})
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}
	if _, err := m.Decrypt(encrypted); err == nil {
		t.Error("Ожидалась ошибка для некорректного ID")
	}
	if _, err := m.Decrypt("%%%"); err == nil {
		t.Error("Ожидалась ошибка для не-base64 значения")
	}
}

// TestCookieRoundTrip проверяет установку cookie и чтение из запроса.
func TestCookieRoundTrip(t *testing.T) {
	m, _ := NewManager("cookie-key", true, 2*time.Hour)
	data := NewData()

	rec := httptest.NewRecorder()
	if err := m.SetCookie(rec, data); err != nil {
		t.Fatalf("SetCookie() вернул ошибку: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("установлено %d cookie, ожидается 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != CookieName || !c.HttpOnly || !c.Secure || c.Path != "/" {
		t.Errorf("параметры cookie: %+v", c)
	}
	if c.MaxAge != 7200 {
		t.Errorf("MaxAge = %d, ожидается 7200", c.MaxAge)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	got, err := m.FromRequest(req)
	if err != nil {
		t.Fatalf("FromRequest() вернул ошибку: %v", err)
	}
	if got == nil || got.ID != data.ID {
		t.Errorf("FromRequest() = %+v, ожидается ID %q", got, data.ID)
	}
}

// TestFromRequestWithoutCookie — отсутствие cookie не ошибка.
func TestFromRequestWithoutCookie(t *testing.T) {
	m, _ := NewManager("", false, time.Hour)

	got, err := m.FromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil || got != nil {
		t.Errorf("FromRequest() = (%v, %v), ожидается (nil, nil)", got, err)
	}

	rec := httptest.NewRecorder()
	m.ClearCookie(rec)
	if c := rec.Result().Cookies(); len(c) != 1 || c[0].MaxAge >= 0 {
		t.Errorf("ClearCookie() не удалил cookie: %+v", c)
	}
}
