// Package flow содержит реестр flows.
//
// Flow — именованный упорядоченный набор passes плюс список flows,
// которые должны выполниться раньше. Ключ flow — пара (backend, name),
// идентификатор — строка "<backend>:<name>".
//
// Реестр — явный объект, которым владеет приложение и который передаётся
// каждому backend'у. Глобального состояния нет: два backend'а не мешают
// друг другу, потому что ключ всегда включает имя backend'а.
//
// Порядок выполнения строит пакет engine.
package flow
