// Пакет middleware — HTTP middleware для UI.
// session.go — сессия посетителя (зашифрованный cookie) и его рабочее пространство.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/pmishra-tech/document-tracker/internal/service"
	"github.com/pmishra-tech/document-tracker/internal/ui/session"
)

// contextKey — тип для ключей контекста UI.
type contextKey string

const (
	// ContextKeyWorkspace — рабочее пространство посетителя в контексте запроса.
	ContextKeyWorkspace contextKey = "ui_workspace"
)

// WorkspaceSource выдаёт рабочее пространство по идентификатору сессии.
type WorkspaceSource interface {
	Get(id string) *service.Workspace
}

// Session — middleware, связывающий запрос с рабочим пространством.
// Посетитель без cookie (или с повреждённым cookie) получает новую сессию.
type Session struct {
	manager    *session.Manager
	workspaces WorkspaceSource
	logger     *slog.Logger
}

// NewSession создаёт middleware сессий.
func NewSession(manager *session.Manager, workspaces WorkspaceSource, logger *slog.Logger) *Session {
	return &Session{
		manager:    manager,
		workspaces: workspaces,
		logger:     logger.With(slog.String("component", "ui_session_middleware")),
	}
}

// Middleware возвращает HTTP middleware.
func (s *Session) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := s.manager.FromRequest(r)
			if err != nil {
				s.logger.Debug("Ошибка чтения UI-сессии, выдаётся новая",
					slog.String("error", err.Error()),
					slog.String("remote_addr", r.RemoteAddr),
				)
				data = nil
			}

			if data == nil {
				data = session.NewData()
				if err := s.manager.SetCookie(w, data); err != nil {
					s.logger.Error("Ошибка установки session cookie",
						slog.String("error", err.Error()),
					)
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
			}

			ws := s.workspaces.Get(data.ID)
			next.ServeHTTP(w, r.WithContext(WithWorkspace(r.Context(), ws)))
		})
	}
}

// WithWorkspace помещает рабочее пространство в контекст.
func WithWorkspace(ctx context.Context, ws *service.Workspace) context.Context {
	return context.WithValue(ctx, ContextKeyWorkspace, ws)
}

// WorkspaceFromContext извлекает рабочее пространство из контекста.
// Возвращает nil, если middleware не применялся.
func WorkspaceFromContext(ctx context.Context) *service.Workspace {
	ws, _ := ctx.Value(ContextKeyWorkspace).(*service.Workspace)
	return ws
}
