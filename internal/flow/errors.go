package flow

import (
	"errors"

	"github.com/shaiso/Synthflow/internal/domain"
)

// ErrFlowNotFound — flow не зарегистрирован.
var ErrFlowNotFound = errors.New("flow not found")

// NotFoundError — ошибка поиска flow с контекстом.
type NotFoundError struct {
	ID         domain.FlowID // запрошенный flow
	RequiredBy domain.FlowID // flow, который на него ссылается (может быть пустым)
}

// Error реализует интерфейс error.
func (e *NotFoundError) Error() string {
	if !e.RequiredBy.IsZero() {
		return "flow " + e.ID.String() + " (required by " + e.RequiredBy.String() + ") is not registered"
	}
	return "flow " + e.ID.String() + " is not registered"
}

// Unwrap возвращает ErrFlowNotFound.
func (e *NotFoundError) Unwrap() error {
	return ErrFlowNotFound
}
