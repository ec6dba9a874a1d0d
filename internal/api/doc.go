// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go       — Handler с DI (реестр, резолвер, история сборок, publisher)
//   - routes.go        — регистрация маршрутов
//   - middleware.go    — middleware (logging, recovery, metrics)
//   - response.go      — унифицированные JSON-ответы и обработка ошибок
//   - dto.go           — Data Transfer Objects (request/response)
//   - flow_handler.go  — обработчики для /flows
//   - build_handler.go — обработчики для /builds
//
// Flows доступны только на чтение: они регистрируются backend'ами и
// flow-файлом при старте. Сборки ставятся в очередь через RabbitMQ и
// читаются из истории в PostgreSQL.
package api
