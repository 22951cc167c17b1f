// Пакет dbtest — PostgreSQL в Docker-контейнере (testcontainers)
// для интеграционных тестов пакетов database и pgstore.
package dbtest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pmishra-tech/document-tracker/internal/config"
)

// Start запускает PostgreSQL и возвращает конфиг с параметрами подключения.
// Тест пропускается, если не задана TEST_INTEGRATION.
func Start(t *testing.T) *config.Config {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Пропуск интеграционного теста: TEST_INTEGRATION не установлена")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("dashboard_test"),
		postgres.WithUsername("dashboard"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Не удалось запустить PostgreSQL контейнер: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Ошибка остановки контейнера: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Не удалось получить host контейнера: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Не удалось получить port контейнера: %v", err)
	}

	t.Setenv("SB_STORE_BACKEND", config.BackendPostgres)
	t.Setenv("SB_DB_HOST", host)
	t.Setenv("SB_DB_PORT", port.Port())
	t.Setenv("SB_DB_NAME", "dashboard_test")
	t.Setenv("SB_DB_USER", "dashboard")
	t.Setenv("SB_DB_PASSWORD", "test-password")
	t.Setenv("SB_DB_SSL_MODE", "disable")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}
	return cfg
}
