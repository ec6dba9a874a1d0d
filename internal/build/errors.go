package build

import "errors"

// Ошибки оркестратора сборки.
var (
	// ErrProjectDirNotFound — каталог проекта не существует или не каталог.
	ErrProjectDirNotFound = errors.New("project directory not found")

	// ErrToolStart — внешний инструмент не удалось запустить.
	ErrToolStart = errors.New("failed to start synthesis tool")
)
