package build

import (
	"context"
	"errors"
	"io"
	"os/exec"
)

// Command — один вызов внешнего инструмента.
type Command struct {
	Name string   // исполняемый файл
	Args []string // аргументы
	Dir  string   // рабочий каталог процесса

	Stdout io.Writer
	Stderr io.Writer
}

// Result — итог запуска процесса.
type Result struct {
	ExitCode int
}

// Runner запускает внешний процесс и ждёт его завершения.
//
// Ошибка возвращается только если процесс не удалось запустить.
// Ненулевой код выхода — это Result.ExitCode, а не ошибка.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner — Runner на os/exec.
type ExecRunner struct{}

// Run запускает процесс с рабочим каталогом cmd.Dir.
func (ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	if err := cmd.Start(); err != nil {
		return Result{ExitCode: -1}, err
	}

	err := cmd.Wait()
	if err == nil {
		return Result{}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Result{ExitCode: exitErr.ExitCode()}, nil
	}
	return Result{ExitCode: -1}, err
}
