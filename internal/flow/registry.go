package flow

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/shaiso/Synthflow/internal/domain"
)

// Registry — таблица flows: (backend, name) → FlowDefinition.
//
// Заполняется при конструировании backend'ов и дальше только читается.
// Регистрация сериализована мьютексом, чтение безопасно из нескольких горутин.
type Registry struct {
	mu         sync.RWMutex
	flows      map[domain.FlowID]*domain.FlowDefinition
	generation uint64
	logger     *slog.Logger
}

// NewRegistry создаёт пустой реестр.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		flows:  make(map[domain.FlowID]*domain.FlowDefinition),
		logger: logger,
	}
}

// Register регистрирует flow и возвращает его идентификатор.
//
// Пустые ссылки в requires отбрасываются, повторы схлопываются.
// Если flow с таким ключом уже есть, он перезаписывается (last writer wins),
// остальные записи не затрагиваются.
func (r *Registry) Register(backend, name string, passes domain.PassSource, requires ...domain.FlowID) domain.FlowID {
	id := domain.NewFlowID(backend, name)
	def := &domain.FlowDefinition{
		ID:       id,
		Backend:  backend,
		Name:     name,
		Passes:   passes,
		Requires: domain.NormalizeRequires(requires),
	}

	r.mu.Lock()
	_, replaced := r.flows[id]
	r.flows[id] = def
	r.generation++
	r.mu.Unlock()

	r.logger.Debug("flow registered",
		"flow_id", id,
		"requires", def.Requires,
		"deferred", passes.IsDeferred(),
		"replaced", replaced,
	)

	return id
}

// Lookup возвращает flow по имени backend'а и имени flow.
func (r *Registry) Lookup(backend, name string) (*domain.FlowDefinition, error) {
	return r.Get(domain.NewFlowID(backend, name))
}

// Get возвращает flow по идентификатору.
// Возвращает *NotFoundError (ErrFlowNotFound), если flow не зарегистрирован.
func (r *Registry) Get(id domain.FlowID) (*domain.FlowDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.flows[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return def, nil
}

// Has проверяет, зарегистрирован ли flow.
func (r *Registry) Has(id domain.FlowID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.flows[id]
	return ok
}

// Flows возвращает flows backend'а, отсортированные по ID.
// Пустое имя backend'а — все flows.
func (r *Registry) Flows(backend string) []*domain.FlowDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	backend = strings.ToLower(backend)
	out := make([]*domain.FlowDefinition, 0, len(r.flows))
	for id, def := range r.flows {
		if backend != "" && id.Backend() != backend {
			continue
		}
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Backends возвращает отсортированный список backend'ов, у которых есть flows.
func (r *Registry) Backends() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for id := range r.flows {
		seen[id.Backend()] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for b := range seen {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}

// Count возвращает количество зарегистрированных flows.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.flows)
}

// Generation возвращает счётчик регистраций.
// Меняется при каждом вызове Register; используется кэшами разрешения.
func (r *Registry) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}
