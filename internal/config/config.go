// Пакет config — загрузка конфигурации Status Dashboard
// из переменных окружения (и необязательного .env-файла).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Бэкенды табличного хранилища.
const (
	// BackendPostgREST — REST API Supabase (по умолчанию)
	BackendPostgREST = "postgrest"
	// BackendPostgres — прямое подключение к PostgreSQL
	BackendPostgres = "postgres"
	// BackendMemory — таблицы в памяти процесса
	BackendMemory = "memory"
)

// Config содержит все параметры конфигурации Status Dashboard.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- Табличное хранилище ---

	// Бэкенд: postgrest, postgres, memory
	StoreBackend string
	// URL проекта Supabase
	SupabaseURL string
	// Публичный anon key Supabase
	SupabaseAnonKey string
	// Таймаут HTTP-запросов к PostgREST (0 — без таймаута)
	StoreTimeout time.Duration
	// Путь health check для topologymetrics (относительно SupabaseURL)
	StoreHealthPath string

	// --- PostgreSQL (бэкенд postgres) ---

	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string

	// --- Сессии UI ---

	// Секрет шифрования cookie сессии (пустой — случайный ключ на время жизни процесса)
	SessionSecret string
	// Время жизни неактивной сессии
	SessionTTL time.Duration
	// Максимальное число одновременно хранимых сессий
	SessionMaxEntries int
	// Ключ CSRF-токенов (пустой — случайный)
	CSRFKey string
	// Secure flag для cookie (true за HTTPS)
	SecureCookie bool

	// --- Мониторинг зависимостей ---

	// Группа в метриках topologymetrics
	DephealthGroup string
	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// LoadEnvFile подгружает переменные из .env-файла, не перезаписывая
// уже заданные. Отсутствие файла ошибкой не считается.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("ошибка чтения %s: %w", path, err)
	}
	return nil
}

// Load загружает конфигурацию из переменных окружения.
// URL и ключ Supabase здесь не проверяются: их отсутствие проявится
// ошибками запросов при первом обращении к хранилищу.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// SB_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("SB_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("SB_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("SB_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// SB_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("SB_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("SB_LOG_LEVEL: %w", err)
	}

	// SB_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("SB_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("SB_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- Табличное хранилище ---

	// SB_STORE_BACKEND — бэкенд хранилища (по умолчанию postgrest)
	cfg.StoreBackend = getEnvDefault("SB_STORE_BACKEND", BackendPostgREST)
	switch cfg.StoreBackend {
	case BackendPostgREST, BackendPostgres, BackendMemory:
	default:
		return nil, fmt.Errorf("SB_STORE_BACKEND: недопустимое значение %q, допустимые: postgrest, postgres, memory", cfg.StoreBackend)
	}

	// SB_SUPABASE_URL, SB_SUPABASE_ANON_KEY — параметры проекта Supabase
	cfg.SupabaseURL = strings.TrimRight(os.Getenv("SB_SUPABASE_URL"), "/")
	cfg.SupabaseAnonKey = os.Getenv("SB_SUPABASE_ANON_KEY")

	// SB_STORE_TIMEOUT — таймаут запросов к PostgREST (по умолчанию 0 — без таймаута)
	cfg.StoreTimeout, err = getEnvDuration("SB_STORE_TIMEOUT", 0)
	if err != nil {
		return nil, fmt.Errorf("SB_STORE_TIMEOUT: %w", err)
	}

	// SB_STORE_HEALTH_PATH — путь проверки доступности PostgREST
	cfg.StoreHealthPath = getEnvDefault("SB_STORE_HEALTH_PATH", "/rest/v1/")

	// --- PostgreSQL ---

	cfg.DBHost = getEnvDefault("SB_DB_HOST", "localhost")

	// SB_DB_PORT — порт PostgreSQL (по умолчанию 5432)
	cfg.DBPort, err = getEnvInt("SB_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("SB_DB_PORT: %w", err)
	}

	cfg.DBName = getEnvDefault("SB_DB_NAME", "postgres")
	cfg.DBUser = getEnvDefault("SB_DB_USER", "postgres")
	cfg.DBPassword = os.Getenv("SB_DB_PASSWORD")

	// SB_DB_SSL_MODE — режим SSL (по умолчанию disable)
	cfg.DBSSLMode = getEnvDefault("SB_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("SB_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	if cfg.StoreBackend == BackendPostgres && cfg.DBPassword == "" {
		return nil, errors.New("SB_DB_PASSWORD: обязательная переменная окружения для бэкенда postgres не задана")
	}

	// --- Сессии UI ---

	cfg.SessionSecret = os.Getenv("SB_SESSION_SECRET")

	// SB_SESSION_TTL — время жизни неактивной сессии (по умолчанию 12h)
	cfg.SessionTTL, err = getEnvDuration("SB_SESSION_TTL", 12*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("SB_SESSION_TTL: %w", err)
	}

	// SB_SESSION_MAX — максимальное число сессий (по умолчанию 1000)
	cfg.SessionMaxEntries, err = getEnvInt("SB_SESSION_MAX", 1000)
	if err != nil {
		return nil, fmt.Errorf("SB_SESSION_MAX: %w", err)
	}
	if cfg.SessionMaxEntries < 1 {
		return nil, fmt.Errorf("SB_SESSION_MAX: значение %d должно быть положительным", cfg.SessionMaxEntries)
	}

	cfg.CSRFKey = os.Getenv("SB_CSRF_KEY")

	// SB_SECURE_COOKIE — Secure flag cookie (по умолчанию false)
	cfg.SecureCookie, err = getEnvBool("SB_SECURE_COOKIE", false)
	if err != nil {
		return nil, fmt.Errorf("SB_SECURE_COOKIE: %w", err)
	}

	// --- Мониторинг зависимостей ---

	cfg.DephealthGroup = getEnvDefault("SB_DEPHEALTH_GROUP", "status-dashboard")

	// SB_DEPHEALTH_CHECK_INTERVAL — интервал проверки зависимостей (по умолчанию 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("SB_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("SB_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// --- Graceful shutdown ---

	// SB_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("SB_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("SB_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL подключения в формате postgres:// (для лейблов метрик).
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%d/%s", c.DBHost, c.DBPort, c.DBName)
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q", val)
	}
	return b, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
