// Package telemetry обеспечивает наблюдаемость Synthflow.
//
// Включает:
//   - logging.go — structured logging через slog, логгер в context.Context
//     и поля build_id, backend, flow_id
//   - metrics.go — Prometheus метрики: разрешения flows, сборки и их
//     длительность, запросы scheduler'а, HTTP-запросы API
//
// Демоны пишут JSON-логи в stdout и экспортируют метрики на /metrics;
// CLI пишет текстовые логи в stderr.
package telemetry
