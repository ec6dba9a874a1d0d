package worker

import "errors"

// Ошибки воркера.
var (
	// ErrUnexpectedMessage — в очередь запросов пришло сообщение другого типа.
	ErrUnexpectedMessage = errors.New("unexpected message type")

	// ErrInvalidRequest — запрос на сборку без backend или каталога проекта.
	ErrInvalidRequest = errors.New("invalid build request")
)
