// Package mq — обмен событиями сборок через RabbitMQ.
//
// Топология:
//
//	synthflow.builds (direct)
//	├── builds.requested [routing: requested]  → worker, DLQ: dlq.builds
//	└── builds.completed [routing: completed]  → внешние подписчики
//
//	synthflow.dlq (direct)
//	└── dlq.builds [routing: builds]           → ручной разбор
//
// Сообщения:
//   - build.requested — запрос на сборку проекта
//   - build.completed — сборка завершена (SUCCEEDED или FAILED)
package mq
