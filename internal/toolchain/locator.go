package toolchain

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/shaiso/Synthflow/internal/domain"
)

// Значения по умолчанию для конфигурации toolchain.
const (
	DefaultPart        = "xcvu9p-flga2577-2-e"
	DefaultClockPeriod = 5.0
	DefaultIOType      = domain.IOParallel
	DefaultCompiler    = "vivado_hls"
)

// Маркеры установки: по ним проверяются выведенные каталоги.
const (
	includeMarker = "hls_math.h"
	libsMarker    = "lib/csim/libhlsmc++-GCC46.so"

	includeSibling = "include"
	libsSibling    = "lnx64"
)

// Options — то, что вызывающий может задать при создании конфигурации.
// Пустые значения заменяются значениями по умолчанию.
type Options struct {
	Part        string
	ClockPeriod float64
	IOType      domain.IOType
	Compiler    string

	// IncludePath и LibsPath задаются вместе или не задаются вовсе.
	IncludePath string
	LibsPath    string

	ToolOptions map[string]string
}

// Locator находит и проверяет установку компилятора HLS.
//
// Функции LookPath и Stat подменяются в тестах.
type Locator struct {
	LookPath func(file string) (string, error)
	Stat     func(name string) (os.FileInfo, error)
	Logger   *slog.Logger
}

// NewLocator создаёт Locator, работающий с реальной файловой системой.
func NewLocator(logger *slog.Logger) *Locator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Locator{
		LookPath: exec.LookPath,
		Stat:     os.Stat,
		Logger:   logger,
	}
}

// Resolve строит ToolchainConfig.
//
// Если заданы оба пути — они берутся как есть, файловая система не
// проверяется. Если не задан ни один — компилятор ищется в PATH, пути
// выводятся из его расположения и проверяются по файлам-маркерам.
// Ровно один заданный путь — ошибка ErrPartialPaths.
func (l *Locator) Resolve(opts Options) (*domain.ToolchainConfig, error) {
	cfg, err := applyDefaults(opts)
	if err != nil {
		return nil, err
	}

	hasInclude := opts.IncludePath != ""
	hasLibs := opts.LibsPath != ""

	switch {
	case hasInclude && hasLibs:
		cfg.IncludePath = opts.IncludePath
		cfg.LibsPath = opts.LibsPath
		return cfg, nil
	case hasInclude != hasLibs:
		return nil, fmt.Errorf("%w: include=%q libs=%q", ErrPartialPaths, opts.IncludePath, opts.LibsPath)
	}

	binPath, err := l.FindCompiler(cfg.Compiler)
	if err != nil {
		return nil, err
	}

	includePath, libsPath := DerivePaths(binPath, cfg.Compiler)

	if err := l.checkMarker("include", includePath, includeMarker, "/opt/Xilinx/Vivado/2020.1/include"); err != nil {
		return nil, err
	}
	if err := l.checkMarker("libs", libsPath, libsMarker, "/opt/Xilinx/Vivado/2020.1/lnx64"); err != nil {
		return nil, err
	}

	cfg.IncludePath = includePath
	cfg.LibsPath = libsPath

	l.Logger.Debug("toolchain located",
		"compiler", binPath,
		"include_path", includePath,
		"libs_path", libsPath,
	)

	return cfg, nil
}

// FindCompiler ищет исполняемый файл компилятора в PATH.
func (l *Locator) FindCompiler(compiler string) (string, error) {
	binPath, err := l.LookPath(compiler)
	if err != nil || binPath == "" {
		return "", &NotFoundError{Executable: compiler, Err: err}
	}
	return binPath, nil
}

// DerivePaths выводит каталоги include и libs из пути к компилятору:
// сегмент "/bin/<compiler>" заменяется на "/include" и "/lnx64".
func DerivePaths(binPath, compiler string) (includePath, libsPath string) {
	binPath = filepath.ToSlash(binPath)
	segment := "/bin/" + compiler
	includePath = strings.Replace(binPath, segment, "/"+includeSibling, 1)
	libsPath = strings.Replace(binPath, segment, "/"+libsSibling, 1)
	return includePath, libsPath
}

// checkMarker проверяет наличие файла-маркера в каталоге.
func (l *Locator) checkMarker(kind, dir, marker, example string) error {
	if _, err := l.Stat(filepath.Join(dir, marker)); err != nil {
		l.Logger.Debug("toolchain marker missing", "kind", kind, "dir", dir, "marker", marker, "error", err)
		return &ValidationError{Kind: kind, Dir: dir, Artifact: marker, Example: example}
	}
	return nil
}

// applyDefaults подставляет значения по умолчанию и проверяет опции.
func applyDefaults(opts Options) (*domain.ToolchainConfig, error) {
	cfg := &domain.ToolchainConfig{
		Part:        opts.Part,
		ClockPeriod: opts.ClockPeriod,
		IOType:      opts.IOType,
		Compiler:    opts.Compiler,
		ToolOptions: make(map[string]string, len(opts.ToolOptions)),
	}
	for k, v := range opts.ToolOptions {
		cfg.ToolOptions[k] = v
	}

	if cfg.Part == "" {
		cfg.Part = DefaultPart
	}
	if cfg.ClockPeriod == 0 {
		cfg.ClockPeriod = DefaultClockPeriod
	}
	if cfg.ClockPeriod < 0 {
		return nil, fmt.Errorf("%w: clock period must be positive, got %v", ErrInvalidOption, cfg.ClockPeriod)
	}
	if cfg.IOType == "" {
		cfg.IOType = DefaultIOType
	}
	if !cfg.IOType.Valid() {
		return nil, fmt.Errorf("%w: io type %q (expected %q or %q)", ErrInvalidOption, cfg.IOType, domain.IOParallel, domain.IOStream)
	}
	if cfg.Compiler == "" {
		cfg.Compiler = DefaultCompiler
	}

	return cfg, nil
}
