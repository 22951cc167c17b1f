// Точка входа Status Dashboard — веб-интерфейс трекинга документов DRN и UCM.
// Загружает конфигурацию, выбирает бэкенд табличного хранилища (PostgREST,
// PostgreSQL или память), запускает мониторинг зависимостей и HTTP-сервер
// с graceful shutdown.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/pmishra-tech/document-tracker/internal/api/handlers"
	"github.com/pmishra-tech/document-tracker/internal/config"
	"github.com/pmishra-tech/document-tracker/internal/database"
	"github.com/pmishra-tech/document-tracker/internal/domain/model"
	"github.com/pmishra-tech/document-tracker/internal/server"
	"github.com/pmishra-tech/document-tracker/internal/service"
	"github.com/pmishra-tech/document-tracker/internal/store"
	"github.com/pmishra-tech/document-tracker/internal/store/memstore"
	"github.com/pmishra-tech/document-tracker/internal/store/pgstore"
	"github.com/pmishra-tech/document-tracker/internal/store/postgrest"
	uihandlers "github.com/pmishra-tech/document-tracker/internal/ui/handlers"
	"github.com/pmishra-tech/document-tracker/internal/ui/i18n"
	uimiddleware "github.com/pmishra-tech/document-tracker/internal/ui/middleware"
	"github.com/pmishra-tech/document-tracker/internal/ui/session"
)

const serviceName = "status-dashboard"

// backend — выбранное хранилище обеих таблиц.
type backend struct {
	drn     store.Table[model.DRNStatus]
	ucm     store.Table[model.UCMStatus]
	checker handlers.ReadinessChecker
	// dephealth — мониторинг зависимости (nil для memory)
	dephealth *service.DephealthService
	close     func()
}

func main() {
	// 1. Загрузка конфигурации: .env (опционально), затем переменные окружения
	if err := config.LoadEnvFile(".env"); err != nil {
		slog.Error("Ошибка чтения .env", slog.String("error", err.Error()))
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Status Dashboard запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("store_backend", cfg.StoreBackend),
	)

	// 3. Табличное хранилище
	ctx := context.Background()
	be, err := openBackend(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка инициализации хранилища", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer be.close()

	// 4. topologymetrics — мониторинг хранилища
	if be.dephealth != nil {
		if startErr := be.dephealth.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
		} else {
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 5. Рабочие пространства посетителей
	workspaces := service.NewWorkspaceService(
		store.Instrument(be.drn),
		store.Instrument(be.ucm),
		cfg.SessionMaxEntries,
		cfg.SessionTTL,
		logger,
	)

	// 6. UI: каталоги переводов, сессии, обработчики вкладок
	bundle := i18n.NewBundle(logger)
	if err := i18n.LoadFromEmbedFS(bundle, logger); err != nil {
		logger.Error("Ошибка загрузки переводов", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sessionMgr, err := session.NewManager(cfg.SessionSecret, cfg.SecureCookie, cfg.SessionTTL)
	if err != nil {
		logger.Error("Ошибка создания Session Manager", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.SessionSecret == "" {
		logger.Warn("SB_SESSION_SECRET не задан, сессии не сохраняются между рестартами")
	}
	if cfg.CSRFKey == "" {
		logger.Warn("SB_CSRF_KEY не задан, CSRF-токены не переживают рестарт")
	}

	ui := &server.UIComponents{
		Session: uimiddleware.NewSession(sessionMgr, workspaces, logger),
		Tabs: []server.TabRoutes{
			uihandlers.NewDRNHandler(bundle, logger),
			uihandlers.NewUCMHandler(bundle, logger),
		},
	}

	// 7. HTTP-сервер
	srv, err := server.New(cfg, logger, handlers.NewHealthHandler(be.checker, cfg.StoreBackend), ui)
	if err != nil {
		logger.Error("Ошибка создания HTTP-сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if be.dephealth != nil {
		be.dephealth.Stop()
	}
	logger.Info("Status Dashboard остановлен")
}

// openBackend создаёт таблицы выбранного бэкенда.
func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		return openPostgres(ctx, cfg, logger)
	case config.BackendMemory:
		logger.Warn("Данные хранятся в памяти процесса и теряются при рестарте")
		drn := memstore.New[model.DRNStatus](model.DRNTable)
		return &backend{
			drn:     drn,
			ucm:     memstore.New[model.UCMStatus](model.UCMTable),
			checker: store.NewReadinessChecker(drn),
			close:   func() {},
		}, nil
	default:
		return openPostgREST(cfg, logger), nil
	}
}

// openPostgREST — таблицы через REST API Supabase. Отсутствие URL или ключа
// не мешает старту: запросы будут завершаться ошибками в журнале.
func openPostgREST(cfg *config.Config, logger *slog.Logger) *backend {
	if cfg.SupabaseURL == "" {
		logger.Warn("SB_SUPABASE_URL не задан, запросы к хранилищу будут завершаться ошибкой")
	}
	if info, err := postgrest.DescribeKey(cfg.SupabaseAnonKey); err != nil {
		logger.Warn("SB_SUPABASE_ANON_KEY не распознан",
			slog.String("error", err.Error()),
		)
	} else {
		logger.Info("Ключ Supabase",
			slog.String("role", info.Role),
			slog.String("project_ref", info.ProjectRef),
		)
		if info.Expired(time.Now()) {
			logger.Warn("Срок действия SB_SUPABASE_ANON_KEY истёк",
				slog.Time("expires_at", info.ExpiresAt),
			)
		}
	}

	client := postgrest.New(cfg.SupabaseURL, cfg.SupabaseAnonKey,
		&http.Client{Timeout: cfg.StoreTimeout}, logger)
	logger.Info("Хранилище: PostgREST", slog.String("url", client.BaseURL()))

	be := &backend{
		drn:     postgrest.NewTable[model.DRNStatus](client, model.DRNTable),
		ucm:     postgrest.NewTable[model.UCMStatus](client, model.UCMTable),
		checker: store.NewReadinessChecker(client),
		close:   func() {},
	}

	if cfg.SupabaseURL != "" {
		dh, err := service.NewPostgRESTDephealth(serviceName, cfg.DephealthGroup,
			client.BaseURL(), cfg.StoreHealthPath, cfg.DephealthCheckInterval, logger)
		if err != nil {
			logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
				slog.String("error", err.Error()),
			)
		} else {
			be.dephealth = dh
		}
	}
	return be
}

// openPostgres — прямое подключение к PostgreSQL с применением миграций.
func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		return nil, err
	}

	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	// Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode)
	pgDB := stdlib.OpenDBFromPool(pool)

	be := &backend{
		drn:     pgstore.NewTable[model.DRNStatus](pool, model.DRNTable),
		ucm:     pgstore.NewTable[model.UCMStatus](pool, model.UCMTable),
		checker: database.NewReadinessChecker(pool),
		close:   closePostgres(pool, pgDB),
	}

	dh, err := service.NewPostgresDephealth(serviceName, cfg.DephealthGroup,
		pgDB, cfg.DatabaseURL(), cfg.DephealthCheckInterval, logger)
	if err != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", err.Error()),
		)
	} else {
		be.dephealth = dh
	}
	return be, nil
}

func closePostgres(pool *pgxpool.Pool, db *sql.DB) func() {
	return func() {
		_ = db.Close()
		pool.Close()
	}
}
