package toolchain

import (
	"errors"
	"fmt"
)

// Ошибки поиска и проверки toolchain.
var (
	// ErrToolchainNotFound — исполняемый файл компилятора не найден в PATH.
	ErrToolchainNotFound = errors.New("toolchain executable not found")

	// ErrToolchainValidation — в выведенном каталоге нет ожидаемого файла.
	ErrToolchainValidation = errors.New("toolchain validation failed")

	// ErrPartialPaths — задан только один из путей include/libs.
	ErrPartialPaths = errors.New("include and libs paths must be given together")

	// ErrInvalidOption — недопустимое значение опции конфигурации.
	ErrInvalidOption = errors.New("invalid toolchain option")
)

// NotFoundError — компилятор не найден.
type NotFoundError struct {
	Executable string // имя исполняемого файла
	Err        error  // ошибка поиска (exec.ErrNotFound и т.п.)
}

// Error реализует интерфейс error.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("executable not found: %q is not on PATH; install the toolchain or add its bin directory to PATH", e.Executable)
}

// Unwrap возвращает ErrToolchainNotFound и исходную ошибку поиска.
func (e *NotFoundError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrToolchainNotFound, e.Err}
	}
	return []error{ErrToolchainNotFound}
}

// ValidationError — выведенный каталог не содержит ожидаемого файла.
type ValidationError struct {
	Kind     string // "include" или "libs"
	Dir      string // проверенный каталог
	Artifact string // ожидаемый файл относительно Dir
	Example  string // пример правильного каталога
}

// Error реализует интерфейс error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s directory %q does not contain %q; pass the proper path to the %s directory explicitly (for example %q)",
		e.Kind, e.Dir, e.Artifact, e.Kind, e.Example)
}

// Unwrap возвращает ErrToolchainValidation.
func (e *ValidationError) Unwrap() error {
	return ErrToolchainValidation
}
