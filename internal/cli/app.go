package cli

import (
	"fmt"
	"log/slog"

	"github.com/shaiso/Synthflow/internal/backend"
	"github.com/shaiso/Synthflow/internal/catalog"
	"github.com/shaiso/Synthflow/internal/config"
	"github.com/shaiso/Synthflow/internal/engine"
	"github.com/shaiso/Synthflow/internal/flow"
	"github.com/shaiso/Synthflow/internal/flowfile"
	"github.com/shaiso/Synthflow/internal/toolchain"
)

// App — собранное ядро для команд CLI: реестр со всеми backend'ами,
// резолвер и поиск toolchain.
type App struct {
	Config   *config.Config
	Registry *flow.Registry
	Factory  *backend.Factory
	Resolver *engine.Resolver
	Locator  *toolchain.Locator
	Logger   *slog.Logger
}

// NewApp создаёт backend'ы и регистрирует flows из flow-файла (если задан).
func NewApp(cfg *config.Config, deps backend.Deps) (*App, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Registry == nil {
		deps.Registry = flow.NewRegistry(deps.Logger)
	}
	if deps.Catalog == nil {
		deps.Catalog = catalog.DefaultCatalog()
	}
	if deps.Locator == nil {
		deps.Locator = toolchain.NewLocator(deps.Logger)
	}
	if deps.Compiler == "" {
		deps.Compiler = cfg.Toolchain.Compiler
	}

	factory := backend.NewFactory(deps)
	if _, err := factory.LoadAll(); err != nil {
		return nil, err
	}

	if cfg.FlowFile != "" {
		ff, err := flowfile.Load(cfg.FlowFile)
		if err != nil {
			return nil, err
		}
		ids := ff.Register(deps.Registry)
		deps.Logger.Debug("registered flows from file", "file", cfg.FlowFile, "count", len(ids))
	}

	return &App{
		Config:   cfg,
		Registry: deps.Registry,
		Factory:  factory,
		Resolver: engine.NewResolver(deps.Registry, deps.Logger),
		Locator:  deps.Locator,
		Logger:   deps.Logger,
	}, nil
}

// Backend возвращает backend по имени.
func (a *App) Backend(name string) (backend.Backend, error) {
	b, err := a.Factory.Get(name)
	if err != nil {
		return nil, fmt.Errorf("backend %q: %w", name, err)
	}
	return b, nil
}
