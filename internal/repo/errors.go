package repo

import "errors"

// ErrNotFound — запись о сборке не найдена в БД.
var ErrNotFound = errors.New("build not found")
