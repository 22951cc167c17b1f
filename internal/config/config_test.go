package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// setEnvs устанавливает переменные окружения на время теста.
func setEnvs(t *testing.T, envs map[string]string) {
	t.Helper()
	for k, v := range envs {
		t.Setenv(k, v)
	}
}

// clearEnvs сбрасывает все SB_* переменные, которые могли прийти из окружения.
func clearEnvs(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		if k, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, "SB_") {
			t.Setenv(k, "")
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnvs(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, ожидается 8080", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, ожидается Info", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, ожидается json", cfg.LogFormat)
	}
	if cfg.StoreBackend != BackendPostgREST {
		t.Errorf("StoreBackend = %q, ожидается %q", cfg.StoreBackend, BackendPostgREST)
	}
	if cfg.StoreTimeout != 0 {
		t.Errorf("StoreTimeout = %v, ожидается 0", cfg.StoreTimeout)
	}
	if cfg.StoreHealthPath != "/rest/v1/" {
		t.Errorf("StoreHealthPath = %q, ожидается /rest/v1/", cfg.StoreHealthPath)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Errorf("SessionTTL = %v, ожидается 12h", cfg.SessionTTL)
	}
	if cfg.SessionMaxEntries != 1000 {
		t.Errorf("SessionMaxEntries = %d, ожидается 1000", cfg.SessionMaxEntries)
	}
	if cfg.SecureCookie {
		t.Error("SecureCookie = true, ожидается false")
	}
	if cfg.DephealthCheckInterval != 15*time.Second {
		t.Errorf("DephealthCheckInterval = %v, ожидается 15s", cfg.DephealthCheckInterval)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v, ожидается 5s", cfg.ShutdownTimeout)
	}
}

// Отсутствие параметров Supabase не мешает запуску.
func TestLoad_MissingSupabaseIsNotFatal(t *testing.T) {
	clearEnvs(t)
	setEnvs(t, map[string]string{"SB_STORE_BACKEND": "postgrest"})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}
	if cfg.SupabaseURL != "" || cfg.SupabaseAnonKey != "" {
		t.Errorf("Supabase = (%q, %q), ожидаются пустые строки", cfg.SupabaseURL, cfg.SupabaseAnonKey)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnvs(t)
	setEnvs(t, map[string]string{
		"SB_PORT":                     "9090",
		"SB_LOG_LEVEL":                "debug",
		"SB_LOG_FORMAT":               "text",
		"SB_SUPABASE_URL":             "https://abc.supabase.co/",
		"SB_SUPABASE_ANON_KEY":        "anon",
		"SB_STORE_TIMEOUT":            "3s",
		"SB_SESSION_TTL":              "30m",
		"SB_SESSION_MAX":              "10",
		"SB_SECURE_COOKIE":            "true",
		"SB_DEPHEALTH_CHECK_INTERVAL": "1m",
		"SB_SHUTDOWN_TIMEOUT":         "10s",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("Port = %d, ожидается 9090", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, ожидается Debug", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, ожидается text", cfg.LogFormat)
	}
	if cfg.SupabaseURL != "https://abc.supabase.co" {
		t.Errorf("SupabaseURL = %q, ожидается без завершающего слеша", cfg.SupabaseURL)
	}
	if cfg.StoreTimeout != 3*time.Second {
		t.Errorf("StoreTimeout = %v, ожидается 3s", cfg.StoreTimeout)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %v, ожидается 30m", cfg.SessionTTL)
	}
	if cfg.SessionMaxEntries != 10 {
		t.Errorf("SessionMaxEntries = %d, ожидается 10", cfg.SessionMaxEntries)
	}
	if !cfg.SecureCookie {
		t.Error("SecureCookie = false, ожидается true")
	}
	if cfg.DephealthCheckInterval != time.Minute {
		t.Errorf("DephealthCheckInterval = %v, ожидается 1m", cfg.DephealthCheckInterval)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, ожидается 10s", cfg.ShutdownTimeout)
	}
}

func TestLoad_PostgresRequiresPassword(t *testing.T) {
	clearEnvs(t)
	setEnvs(t, map[string]string{"SB_STORE_BACKEND": "postgres"})

	if _, err := Load(); err == nil {
		t.Error("Load() не вернул ошибку при отсутствии SB_DB_PASSWORD")
	}

	t.Setenv("SB_DB_PASSWORD", "secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}
	if got := cfg.DatabaseURL(); got != "postgres://localhost:5432/postgres" {
		t.Errorf("DatabaseURL() = %q", got)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"порт не число", "SB_PORT", "abc"},
		{"порт вне диапазона", "SB_PORT", "70000"},
		{"уровень логов", "SB_LOG_LEVEL", "trace"},
		{"формат логов", "SB_LOG_FORMAT", "xml"},
		{"бэкенд", "SB_STORE_BACKEND", "mysql"},
		{"таймаут", "SB_STORE_TIMEOUT", "soon"},
		{"ssl mode", "SB_DB_SSL_MODE", "prefer"},
		{"число сессий", "SB_SESSION_MAX", "0"},
		{"secure cookie", "SB_SECURE_COOKIE", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvs(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() не вернул ошибку для %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnvs(t)

	// Отсутствующий файл не является ошибкой
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadEnvFile(missing) вернул ошибку: %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	content := "SB_SUPABASE_URL=https://from-file.supabase.co\nSB_PORT=9999\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	// Уже заданная переменная не перезаписывается
	t.Setenv("SB_PORT", "8081")
	// t.Setenv восстановит значение после теста
	t.Setenv("SB_SUPABASE_URL", "")
	os.Unsetenv("SB_SUPABASE_URL")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile() вернул ошибку: %v", err)
	}

	if got := os.Getenv("SB_SUPABASE_URL"); got != "https://from-file.supabase.co" {
		t.Errorf("SB_SUPABASE_URL = %q, ожидается значение из файла", got)
	}
	if got := os.Getenv("SB_PORT"); got != "8081" {
		t.Errorf("SB_PORT = %q, ожидается 8081", got)
	}
}
