// Пакет session — идентификация посетителя Status Dashboard.
// Идентификатор сессии хранится в cookie, зашифрованном AES-256-GCM.
package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Имя cookie для зашифрованной сессии UI.
const CookieName = "sb_session"

// Data — данные сессии, хранящиеся в зашифрованном cookie.
type Data struct {
	// ID — идентификатор рабочего пространства посетителя (UUID v4).
	ID string `json:"id"`
	// IssuedAt — время выдачи сессии (Unix timestamp).
	IssuedAt int64 `json:"iat"`
}

// NewData создаёт сессию с новым идентификатором.
func NewData() *Data {
	return &Data{
		ID:       uuid.NewString(),
		IssuedAt: time.Now().Unix(),
	}
}

// Manager шифрует и дешифрует Data в HTTP cookies через AES-256-GCM.
type Manager struct {
	gcm cipher.AEAD
	// secure — Secure flag для cookie (true для HTTPS)
	secure bool
	maxAge time.Duration
}

// NewManager создаёт менеджер сессий.
// Если key пустой — генерируется случайный ключ (сессии не переживают рестарт).
// key может быть base64 от 32 байт или произвольной строкой (хешируется SHA-256).
func NewManager(key string, secure bool, maxAge time.Duration) (*Manager, error) {
	var keyBytes []byte

	if key == "" {
		keyBytes = make([]byte, 32)
		if _, err := io.ReadFull(rand.Reader, keyBytes); err != nil {
			return nil, fmt.Errorf("ошибка генерации ключа сессии: %w", err)
		}
	} else {
		var err error
		keyBytes, err = base64.StdEncoding.DecodeString(key)
		if err != nil || len(keyBytes) != 32 {
			h := sha256.Sum256([]byte(key))
			keyBytes = h[:]
		}
	}

	block, err := aes.NewCipher(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания AES cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания GCM: %w", err)
	}

	return &Manager{gcm: gcm, secure: secure, maxAge: maxAge}, nil
}

// Encrypt шифрует Data и возвращает base64-строку.
func (m *Manager) Encrypt(data *Data) (string, error) {
	plaintext, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации сессии: %w", err)
	}

	nonce := make([]byte, m.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("ошибка генерации nonce: %w", err)
	}

	// nonce в начале шифротекста
	ciphertext := m.gcm.Seal(nonce, nonce, plaintext, nil)

	return base64.URLEncoding.EncodeToString(ciphertext), nil
}

// Decrypt дешифрует base64-строку обратно в Data.
func (m *Manager) Decrypt(encrypted string) (*Data, error) {
	ciphertext, err := base64.URLEncoding.DecodeString(encrypted)
	if err != nil {
		return nil, fmt.Errorf("ошибка декодирования base64: %w", err)
	}

	nonceSize := m.gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, errors.New("зашифрованные данные слишком короткие")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := m.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка дешифрования сессии: %w", err)
	}

	var data Data
	if err := json.Unmarshal(plaintext, &data); err != nil {
		return nil, fmt.Errorf("ошибка десериализации сессии: %w", err)
	}
	if _, err := uuid.Parse(data.ID); err != nil {
		return nil, fmt.Errorf("некорректный идентификатор сессии: %w", err)
	}

	return &data, nil
}

// SetCookie устанавливает зашифрованный cookie сессии в ответ.
func (m *Manager) SetCookie(w http.ResponseWriter, data *Data) error {
	encrypted, err := m.Encrypt(data)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    encrypted,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// FromRequest извлекает и дешифрует Data из cookie запроса.
// Возвращает nil, nil если cookie отсутствует.
func (m *Manager) FromRequest(r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, nil
		}
		return nil, err
	}

	return m.Decrypt(cookie.Value)
}

// ClearCookie удаляет cookie сессии из ответа.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
