// Package build запускает внешний инструмент синтеза над сгенерированным
// проектом и передаёт каталог проекта парсеру отчётов.
//
// Рабочий каталог задаётся самому процессу (exec.Cmd.Dir), текущий каталог
// вызывающего не меняется ни при каком исходе.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/shaiso/Synthflow/internal/domain"
	"github.com/shaiso/Synthflow/internal/telemetry"
	"github.com/shaiso/Synthflow/internal/toolchain"
)

// DefaultScript — Tcl-скрипт сборки в каталоге проекта.
const DefaultScript = "build_prj.tcl"

// ReportParser превращает каталог проекта в BuildReport.
type ReportParser interface {
	Parse(ctx context.Context, projectDir string) (*domain.BuildReport, error)
}

// Config — параметры оркестратора.
type Config struct {
	// Backend — имя backend для логов и метрик.
	Backend string

	// Compiler — исполняемый файл инструмента (по умолчанию vivado_hls).
	Compiler string

	// Script — Tcl-скрипт сборки (по умолчанию build_prj.tcl).
	Script string

	// Stdout/Stderr — куда направлять вывод инструмента (nil — отбросить).
	Stdout io.Writer
	Stderr io.Writer
}

// Orchestrator выполняет сборки. Вызовы Build сериализуются.
type Orchestrator struct {
	config Config
	runner Runner
	parser ReportParser
	logger *slog.Logger

	// LookPath и GOOS подменяются в тестах.
	LookPath func(file string) (string, error)
	GOOS     string

	mu sync.Mutex
}

// NewOrchestrator создаёт оркестратор.
func NewOrchestrator(cfg Config, runner Runner, parser ReportParser, logger *slog.Logger) *Orchestrator {
	if cfg.Compiler == "" {
		cfg.Compiler = toolchain.DefaultCompiler
	}
	if cfg.Script == "" {
		cfg.Script = DefaultScript
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		config:   cfg,
		runner:   runner,
		parser:   parser,
		logger:   logger,
		LookPath: exec.LookPath,
		GOOS:     runtime.GOOS,
	}
}

// Command строит вызов инструмента для запроса.
func (o *Orchestrator) Command(req domain.BuildRequest) Command {
	return Command{
		Name:   o.config.Compiler,
		Args:   []string{"-f", o.config.Script, req.Stages.Arg()},
		Dir:    req.ProjectDir,
		Stdout: o.config.Stdout,
		Stderr: o.config.Stderr,
	}
}

// Build запускает инструмент один раз и возвращает результат парсера.
//
// Код выхода инструмента не проверяется: сбои самого синтеза видны
// только через отчёт. Ошибкой считаются отсутствие компилятора,
// отсутствие каталога проекта и невозможность запустить процесс.
// Если процесс не запустился, каталог всё равно разбирается: найденный
// отчёт возвращается вместе с ErrToolStart.
func (o *Orchestrator) Build(ctx context.Context, req domain.BuildRequest) (*domain.BuildReport, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	logger := o.logger
	if l, ok := ctx.Value(telemetry.CtxLogger).(*slog.Logger); ok {
		logger = l
	}
	logger = logger.With("project_dir", req.ProjectDir)

	if err := o.checkPlatform(); err != nil {
		o.observe("error", 0)
		return nil, err
	}

	info, err := os.Stat(req.ProjectDir)
	if err != nil || !info.IsDir() {
		o.observe("error", 0)
		return nil, fmt.Errorf("%w: %s", ErrProjectDirNotFound, req.ProjectDir)
	}

	cmd := o.Command(req)
	logger.Info("starting synthesis",
		"compiler", cmd.Name,
		"stages", req.Stages.Enabled(),
	)

	start := time.Now()
	res, err := o.runner.Run(ctx, cmd)
	elapsed := time.Since(start)
	if err != nil {
		o.observe("error", elapsed)
		startErr := fmt.Errorf("%w: %s: %v", ErrToolStart, cmd.Name, err)
		// в каталоге могут остаться отчёты предыдущего запуска
		report, parseErr := o.parser.Parse(ctx, req.ProjectDir)
		if parseErr != nil {
			return nil, errors.Join(startErr, fmt.Errorf("parse report: %w", parseErr))
		}
		if report.Empty() {
			return nil, startErr
		}
		return report, startErr
	}

	status := "completed"
	if res.ExitCode != 0 {
		status = "exited_nonzero"
		logger.Warn("synthesis tool exited with non-zero status",
			"exit_code", res.ExitCode,
			"duration", elapsed,
		)
	} else {
		logger.Info("synthesis tool finished", "duration", elapsed)
	}

	report, err := o.parser.Parse(ctx, req.ProjectDir)
	if err != nil {
		o.observe("error", elapsed)
		return nil, fmt.Errorf("parse report: %w", err)
	}

	o.observe(status, elapsed)
	return report, nil
}

// checkPlatform проверяет наличие компилятора в PATH на linux.
func (o *Orchestrator) checkPlatform() error {
	if o.GOOS != "linux" {
		return nil
	}
	if _, err := o.LookPath(o.config.Compiler); err != nil {
		return &toolchain.NotFoundError{Executable: o.config.Compiler, Err: err}
	}
	return nil
}

func (o *Orchestrator) observe(status string, elapsed time.Duration) {
	telemetry.BuildsTotal.WithLabelValues(o.config.Backend, status).Inc()
	if elapsed > 0 {
		telemetry.BuildDuration.WithLabelValues(o.config.Backend).Observe(elapsed.Seconds())
	}
}
