// Пакет server — HTTP-сервер Status Dashboard с graceful shutdown.
// Без TLS — TLS termination на ingress.
package server

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"

	"github.com/pmishra-tech/document-tracker/internal/api/handlers"
	"github.com/pmishra-tech/document-tracker/internal/api/middleware"
	"github.com/pmishra-tech/document-tracker/internal/config"
	uihandlers "github.com/pmishra-tech/document-tracker/internal/ui/handlers"
	"github.com/pmishra-tech/document-tracker/internal/ui/i18n"
	uimiddleware "github.com/pmishra-tech/document-tracker/internal/ui/middleware"
	"github.com/pmishra-tech/document-tracker/internal/ui/static"
)

// TabRoutes — обработчики одной вкладки UI.
type TabRoutes interface {
	// Tab возвращает ключ вкладки (префикс маршрутов).
	Tab() string
	// Routes регистрирует маршруты относительно /{tab}.
	Routes(r chi.Router)
}

// UIComponents — зависимости UI-маршрутов.
type UIComponents struct {
	// Session связывает запрос с рабочим пространством посетителя
	Session *uimiddleware.Session
	// Tabs — вкладки в порядке отображения
	Tabs []TabRoutes
}

// Server — HTTP-сервер Status Dashboard.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт HTTP-сервер с настроенными routes и middleware.
func New(cfg *config.Config, logger *slog.Logger, health *handlers.HealthHandler, ui *UIComponents) (*Server, error) {
	key, err := csrfKey(cfg.CSRFKey)
	if err != nil {
		return nil, err
	}
	logger = logger.With(slog.String("component", "server"))

	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	// Служебные endpoints — без сессии и CSRF
	router.Get("/health/live", health.HealthLive)
	router.Get("/health/ready", health.HealthReady)
	router.Get("/metrics", health.GetMetrics)
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(static.FileSystem())))

	router.Group(func(r chi.Router) {
		r.Use(i18n.Middleware())
		r.Use(csrfProtect(key, cfg.SecureCookie, logger))
		r.Use(ui.Session.Middleware())

		r.Get("/", uihandlers.HandleIndex)
		r.Post("/set-language", uihandlers.HandleSetLanguage)
		for _, tab := range ui.Tabs {
			r.Route("/"+tab.Tab(), tab.Routes)
		}
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}, nil
}

// Handler возвращает корневой обработчик (для httptest).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}

// csrfProtect — gorilla/csrf для всех изменяющих запросов UI.
// Без Secure cookie запрос помечается как plaintext HTTP, иначе
// проверка Referer отклоняет формы, отправленные по http.
func csrfProtect(key []byte, secure bool, logger *slog.Logger) func(http.Handler) http.Handler {
	protect := csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("Запрос отклонён проверкой CSRF",
				slog.String("path", r.URL.Path),
				slog.String("reason", errString(csrf.FailureReason(r))),
			)
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})),
	)

	return func(next http.Handler) http.Handler {
		protected := protect(next)
		if secure {
			return protected
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}

// csrfKey возвращает 32-байтовый ключ CSRF: SHA-256 секрета
// или случайный ключ, если секрет не задан.
func csrfKey(secret string) ([]byte, error) {
	if secret == "" {
		key := make([]byte, 32)
		if _, err := io.ReadFull(rand.Reader, key); err != nil {
			return nil, fmt.Errorf("ошибка генерации ключа CSRF: %w", err)
		}
		return key, nil
	}
	sum := sha256.Sum256([]byte(secret))
	return sum[:], nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
