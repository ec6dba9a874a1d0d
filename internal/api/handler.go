package api

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shaiso/Synthflow/internal/backend"
	"github.com/shaiso/Synthflow/internal/domain"
	"github.com/shaiso/Synthflow/internal/engine"
	"github.com/shaiso/Synthflow/internal/mq"
	"github.com/shaiso/Synthflow/internal/repo"
)

// FlowReader — чтение зарегистрированных flows (flow.Registry).
type FlowReader interface {
	Get(id domain.FlowID) (*domain.FlowDefinition, error)
	Flows(backend string) []*domain.FlowDefinition
}

// PlanResolver — построение порядка выполнения (engine.Resolver).
type PlanResolver interface {
	Resolve(id domain.FlowID) ([]domain.FlowID, error)
	Plan(id domain.FlowID) (*engine.Plan, error)
}

// BuildReader — чтение истории сборок (repo.BuildRepo).
type BuildReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BuildRecord, error)
	List(ctx context.Context, filter repo.BuildFilter) ([]domain.BuildRecord, error)
}

// BackendLookup — поиск backend по имени (backend.Factory).
type BackendLookup interface {
	Get(name string) (backend.Backend, error)
}

// RequestPublisher — публикация запросов на сборку (mq.Publisher).
type RequestPublisher interface {
	PublishBuildRequested(ctx context.Context, payload mq.BuildRequestedPayload) error
}

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	flows     FlowReader
	resolver  PlanResolver
	builds    BuildReader
	backends  BackendLookup
	publisher RequestPublisher
	logger    *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Flows    FlowReader
	Resolver PlanResolver
	Builds   BuildReader
	Backends BackendLookup

	// Publisher опционален: без него POST /builds отвечает 503.
	Publisher RequestPublisher

	Logger *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Handler{
		flows:     cfg.Flows,
		resolver:  cfg.Resolver,
		builds:    cfg.Builds,
		backends:  cfg.Backends,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
	}
}
