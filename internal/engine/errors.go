package engine

import (
	"errors"
	"strings"

	"github.com/shaiso/Synthflow/internal/domain"
)

// ErrCyclicDependency — обнаружен цикл в зависимостях flows.
var ErrCyclicDependency = errors.New("cyclic dependency detected")

// CycleError — цикл с путём, по которому он найден.
type CycleError struct {
	// Path — flows цикла; первый и последний элемент совпадают.
	Path []domain.FlowID
}

// Error реализует интерфейс error.
func (e *CycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = id.String()
	}
	return "cyclic dependency detected: " + strings.Join(parts, " -> ")
}

// Unwrap возвращает ErrCyclicDependency.
func (e *CycleError) Unwrap() error {
	return ErrCyclicDependency
}
