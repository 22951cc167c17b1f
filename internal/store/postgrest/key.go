package postgrest

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// KeyInfo — сведения из claims публичного ключа Supabase.
// Ключ не проверяется (подпись известна только серверу), сведения
// используются только для журнала при старте.
type KeyInfo struct {
	// Role — роль PostgreSQL, под которой выполняются запросы (обычно anon)
	Role string
	// ProjectRef — идентификатор проекта Supabase
	ProjectRef string
	// ExpiresAt — срок действия ключа (нулевой, если не задан)
	ExpiresAt time.Time
}

// keyClaims — claims anon key.
type keyClaims struct {
	Role string `json:"role"`
	Ref  string `json:"ref"`
	jwt.RegisteredClaims
}

// DescribeKey разбирает anon key без проверки подписи.
func DescribeKey(key string) (*KeyInfo, error) {
	if key == "" {
		return nil, errors.New("ключ не задан")
	}

	claims := &keyClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		return nil, fmt.Errorf("ключ не является JWT: %w", err)
	}

	info := &KeyInfo{Role: claims.Role, ProjectRef: claims.Ref}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}

// Expired сообщает, что срок действия ключа истёк к моменту now.
func (k *KeyInfo) Expired(now time.Time) bool {
	return !k.ExpiresAt.IsZero() && now.After(k.ExpiresAt)
}
