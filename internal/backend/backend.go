// Package backend связывает реестр flows, каталог passes, поиск toolchain
// и оркестратор сборки в именованные backend'ы.
//
// Каждый backend при создании регистрирует свои flows в общем реестре.
// После создания реестр только читается.
package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/shaiso/Synthflow/internal/build"
	"github.com/shaiso/Synthflow/internal/catalog"
	"github.com/shaiso/Synthflow/internal/domain"
	"github.com/shaiso/Synthflow/internal/flow"
	"github.com/shaiso/Synthflow/internal/report"
	"github.com/shaiso/Synthflow/internal/toolchain"
)

// ErrUnknownBackend — backend с таким именем не зарегистрирован в Factory.
var ErrUnknownBackend = errors.New("unknown backend")

// Backend — целевая платформа генерации и синтеза.
type Backend interface {
	// Name возвращает имя backend (в нижнем регистре).
	Name() string

	// DefaultFlow возвращает flow, который строит IP.
	DefaultFlow() domain.FlowID

	// WriterFlow возвращает flow записи проекта.
	WriterFlow() domain.FlowID

	// CreateInitialConfig разрешает конфигурацию toolchain.
	CreateInitialConfig(opts toolchain.Options) (*domain.ToolchainConfig, error)

	// Build запускает синтез над каталогом проекта.
	Build(ctx context.Context, req domain.BuildRequest) (*domain.BuildReport, error)
}

// Deps — общие зависимости backend'ов.
type Deps struct {
	Registry *flow.Registry
	Catalog  catalog.PassCatalog
	Locator  *toolchain.Locator

	// Runner и Parser по умолчанию — exec и парсер отчётов Vivado.
	Runner build.Runner
	Parser build.ReportParser

	// Compiler — исполняемый файл для сборки (по умолчанию vivado_hls).
	Compiler string

	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Registry == nil {
		d.Registry = flow.NewRegistry(d.Logger)
	}
	if d.Catalog == nil {
		d.Catalog = catalog.DefaultCatalog()
	}
	if d.Locator == nil {
		d.Locator = toolchain.NewLocator(d.Logger)
	}
	if d.Parser == nil {
		d.Parser = report.NewVivadoParser()
	}
	return d
}

// fpga — общая часть FPGA backend'ов.
type fpga struct {
	name         string
	deps         Deps
	orchestrator *build.Orchestrator
	defaultFlow  domain.FlowID
	writerFlow   domain.FlowID
}

func newFPGA(name string, deps Deps) *fpga {
	deps = deps.withDefaults()
	name = strings.ToLower(name)

	orch := build.NewOrchestrator(build.Config{
		Backend:  name,
		Compiler: deps.Compiler,
		Stdout:   deps.Stdout,
		Stderr:   deps.Stderr,
	}, deps.Runner, deps.Parser, deps.Logger.With("backend", name))

	return &fpga{
		name:         name,
		deps:         deps,
		orchestrator: orch,
	}
}

func (b *fpga) Name() string               { return b.name }
func (b *fpga) DefaultFlow() domain.FlowID { return b.defaultFlow }
func (b *fpga) WriterFlow() domain.FlowID  { return b.writerFlow }

// register регистрирует flow этого backend.
func (b *fpga) register(name string, passes domain.PassSource, requires ...domain.FlowID) domain.FlowID {
	return b.deps.Registry.Register(b.name, name, passes, requires...)
}

// layerTemplates — шаблонные passes backend на момент вызова.
func (b *fpga) layerTemplates() []domain.PassRef {
	return catalog.Templates(b.deps.Catalog, b.name)
}

// CreateInitialConfig разрешает конфигурацию toolchain через Locator.
func (b *fpga) CreateInitialConfig(opts toolchain.Options) (*domain.ToolchainConfig, error) {
	cfg, err := b.deps.Locator.Resolve(opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.name, err)
	}
	return cfg, nil
}

// Build делегирует оркестратору.
func (b *fpga) Build(ctx context.Context, req domain.BuildRequest) (*domain.BuildReport, error) {
	return b.orchestrator.Build(ctx, req)
}

// Constructor создаёт backend поверх общих зависимостей.
type Constructor func(deps Deps) Backend

// Factory создаёт backend'ы по имени поверх общего реестра.
//
// Созданные backend'ы кешируются: flows каждого регистрируются один раз.
type Factory struct {
	deps         Deps
	constructors map[string]Constructor
	created      map[string]Backend
}

// NewFactory создаёт Factory со встроенными backend'ами.
func NewFactory(deps Deps) *Factory {
	f := &Factory{
		deps:         deps.withDefaults(),
		constructors: make(map[string]Constructor),
		created:      make(map[string]Backend),
	}
	f.Register(VivadoName, func(d Deps) Backend { return NewVivado(d) })
	f.Register(SymbolicExpressionName, func(d Deps) Backend { return NewSymbolicExpression(d) })
	return f
}

// Register добавляет конструктор backend.
func (f *Factory) Register(name string, ctor Constructor) {
	f.constructors[strings.ToLower(name)] = ctor
}

// Get возвращает backend по имени, создавая его (и его зависимости) при
// первом обращении.
func (f *Factory) Get(name string) (Backend, error) {
	key := strings.ToLower(name)
	if b, ok := f.created[key]; ok {
		return b, nil
	}

	ctor, ok := f.constructors[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownBackend, name, strings.Join(f.Names(), ", "))
	}

	// SymbolicExpression ссылается на vivado:ip.
	if key == SymbolicExpressionName {
		if _, err := f.Get(VivadoName); err != nil {
			return nil, err
		}
	}

	b := ctor(f.deps)
	f.created[key] = b
	return b, nil
}

// LoadAll создаёт все известные backend'ы.
func (f *Factory) LoadAll() ([]Backend, error) {
	names := f.Names()
	out := make([]Backend, 0, len(names))
	for _, name := range names {
		b, err := f.Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// Names возвращает имена известных backend'ов по алфавиту.
func (f *Factory) Names() []string {
	names := make([]string, 0, len(f.constructors))
	for name := range f.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Registry возвращает общий реестр flows.
func (f *Factory) Registry() *flow.Registry {
	return f.deps.Registry
}
