// Пакет service — прикладные сервисы Status Dashboard.
// workspace.go — рабочие пространства посетителей: пара контроллеров
// DRN и UCM на сессию, в LRU-кэше с TTL (hashicorp/golang-lru/v2/expirable).
package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pmishra-tech/document-tracker/internal/controller"
	"github.com/pmishra-tech/document-tracker/internal/domain/model"
	"github.com/pmishra-tech/document-tracker/internal/store"
)

// Prometheus-метрики кэша рабочих пространств.
var (
	workspaceHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sb_session_cache_hits_total",
		Help: "Количество обращений к существующему рабочему пространству.",
	})
	workspaceMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sb_session_cache_misses_total",
		Help: "Количество созданий нового рабочего пространства.",
	})
)

// Workspace — независимые контроллеры двух таблиц одного посетителя.
type Workspace struct {
	DRN *controller.Table[model.DRNStatus]
	UCM *controller.Table[model.UCMStatus]
}

// WorkspaceService — кэш рабочих пространств по идентификатору сессии.
// Неактивное пространство вытесняется по TTL; посетитель получает новое
// (как после перезагрузки вкладки браузера).
type WorkspaceService struct {
	drn    store.Table[model.DRNStatus]
	ucm    store.Table[model.UCMStatus]
	logger *slog.Logger
	opts   []controller.Option

	// mu делает Get атомарным get-or-create
	mu    sync.Mutex
	cache *expirable.LRU[string, *Workspace]
}

// NewWorkspaceService создаёт кэш не более maxSize пространств с TTL ttl.
func NewWorkspaceService(
	drn store.Table[model.DRNStatus],
	ucm store.Table[model.UCMStatus],
	maxSize int,
	ttl time.Duration,
	logger *slog.Logger,
	opts ...controller.Option,
) *WorkspaceService {
	s := &WorkspaceService{
		drn:    drn,
		ucm:    ucm,
		logger: logger.With(slog.String("component", "workspace")),
		opts:   opts,
	}
	s.cache = expirable.NewLRU[string, *Workspace](maxSize, func(id string, _ *Workspace) {
		s.logger.Debug("Рабочее пространство вытеснено", slog.String("session_id", id))
	}, ttl)
	return s
}

// Get возвращает пространство сессии id, создавая его при отсутствии.
// Каждое обращение продлевает TTL.
func (s *WorkspaceService) Get(id string) *Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ws, ok := s.cache.Get(id); ok {
		workspaceHitsTotal.Inc()
		s.cache.Add(id, ws)
		return ws
	}
	workspaceMissesTotal.Inc()

	ws := &Workspace{
		DRN: controller.New(s.drn, model.NewDRNStatus, s.logger, s.opts...),
		UCM: controller.New(s.ucm, model.NewUCMStatus, s.logger, s.opts...),
	}
	s.cache.Add(id, ws)
	s.logger.Debug("Создано рабочее пространство", slog.String("session_id", id))
	return ws
}

// Len возвращает число хранимых пространств.
func (s *WorkspaceService) Len() int {
	return s.cache.Len()
}
