package engine

import (
	"errors"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/shaiso/Synthflow/internal/domain"
	"github.com/shaiso/Synthflow/internal/flow"
	"github.com/shaiso/Synthflow/internal/telemetry"
)

// defaultCacheSize — сколько разрешённых порядков держать в кэше.
const defaultCacheSize = 256

// FlowSource — откуда резолвер берёт определения flows.
// Реализуется *flow.Registry.
type FlowSource interface {
	Get(id domain.FlowID) (*domain.FlowDefinition, error)
	Generation() uint64
}

// visitState — состояние узла при обходе в глубину.
type visitState int

const (
	unvisited visitState = iota
	visiting             // узел на текущем пути обхода
	visited              // узел и все его зависимости уже в порядке
)

type cacheKey struct {
	id         domain.FlowID
	generation uint64
}

// Resolver строит порядок выполнения flows.
type Resolver struct {
	flows  FlowSource
	cache  *lru.Cache[cacheKey, []domain.FlowID]
	logger *slog.Logger
}

// NewResolver создаёт резолвер поверх источника flows.
func NewResolver(flows FlowSource, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	// lru.New возвращает ошибку только для размера <= 0.
	cache, _ := lru.New[cacheKey, []domain.FlowID](defaultCacheSize)
	return &Resolver{
		flows:  flows,
		cache:  cache,
		logger: logger,
	}
}

// Resolve возвращает порядок выполнения для flow.
//
// Каждый flow стоит после всех своих (транзитивных) зависимостей и
// встречается ровно один раз, даже если достижим несколькими путями.
// Независимые flows идут в порядке объявления в requires. Целевой flow
// всегда последний.
//
// Ошибки:
//   - *CycleError (ErrCyclicDependency) — flow транзитивно требует сам себя
//   - *flow.NotFoundError (flow.ErrFlowNotFound) — ссылка на незарегистрированный flow
func (r *Resolver) Resolve(id domain.FlowID) ([]domain.FlowID, error) {
	key := cacheKey{id: id, generation: r.flows.Generation()}
	if order, ok := r.cache.Get(key); ok {
		telemetry.FlowResolutions.WithLabelValues(telemetry.ResultCached).Inc()
		return cloneIDs(order), nil
	}

	order, err := r.resolve(id)
	if err != nil {
		telemetry.FlowResolutions.WithLabelValues(resultLabel(err)).Inc()
		telemetry.WithFlowID(r.logger, id.String()).Warn("flow resolution failed", "error", err)
		return nil, err
	}

	r.cache.Add(key, order)
	telemetry.FlowResolutions.WithLabelValues(telemetry.ResultOK).Inc()
	telemetry.WithFlowID(r.logger, id.String()).Debug("flow resolved", "order", order)

	return cloneIDs(order), nil
}

// resolve выполняет обход в глубину с трёхцветной разметкой.
func (r *Resolver) resolve(target domain.FlowID) ([]domain.FlowID, error) {
	state := make(map[domain.FlowID]visitState)
	order := make([]domain.FlowID, 0)
	path := make([]domain.FlowID, 0)

	var visit func(id, requiredBy domain.FlowID) error
	visit = func(id, requiredBy domain.FlowID) error {
		switch state[id] {
		case visited:
			return nil
		case visiting:
			return &CycleError{Path: cyclePath(path, id)}
		}

		def, err := r.flows.Get(id)
		if err != nil {
			var nf *flow.NotFoundError
			if errors.As(err, &nf) {
				return &flow.NotFoundError{ID: id, RequiredBy: requiredBy}
			}
			return fmt.Errorf("get flow %s: %w", id, err)
		}

		state[id] = visiting
		path = append(path, id)

		// Повторная фильтрация: источник может не нормализовать requires.
		for _, dep := range domain.NormalizeRequires(def.Requires) {
			if err := visit(dep, id); err != nil {
				return err
			}
		}

		path = path[:len(path)-1]
		state[id] = visited
		order = append(order, id)
		return nil
	}

	if err := visit(target, ""); err != nil {
		return nil, err
	}
	return order, nil
}

// Purge сбрасывает кэш разрешённых порядков.
func (r *Resolver) Purge() {
	r.cache.Purge()
}

// cyclePath вырезает из текущего пути цикл, замкнутый на id.
func cyclePath(path []domain.FlowID, id domain.FlowID) []domain.FlowID {
	for i, p := range path {
		if p == id {
			cycle := make([]domain.FlowID, 0, len(path)-i+1)
			cycle = append(cycle, path[i:]...)
			return append(cycle, id)
		}
	}
	return []domain.FlowID{id, id}
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, ErrCyclicDependency):
		return telemetry.ResultCycle
	case errors.Is(err, flow.ErrFlowNotFound):
		return telemetry.ResultNotFound
	default:
		return telemetry.ResultError
	}
}

func cloneIDs(ids []domain.FlowID) []domain.FlowID {
	out := make([]domain.FlowID, len(ids))
	copy(out, ids)
	return out
}
