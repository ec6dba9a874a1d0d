// Package cli реализует инструмент командной строки Synthflow.
//
// # Обзор
//
// CLI собирает ядро в процессе (реестр flows, резолвер, backend'ы, поиск
// toolchain) и даёт к нему доступ из терминала. Сборки можно запускать
// локально или ставить в очередь для worker'а через RabbitMQ; история
// сборок читается из PostgreSQL.
//
// # Ключевые компоненты
//
// ## App
//
// Собранное ядро: все backend'ы из Factory зарегистрированы, flows из
// SYNTHFLOW_FLOW_FILE добавлены в реестр.
//
//	app, err := cli.NewApp(cfg, backend.Deps{})
//	order, err := app.Resolver.Resolve("symbolicexpression:write")
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: synthflow flow list --json | jq .
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - flow: list, show, resolve
//   - toolchain: locate
//   - build: run, request, list
//
// Каждая группа создаётся через фабричную функцию (NewFlowCmd и т.д.),
// принимающую appFn и outputFn — замыкания для ленивого создания
// App и Output после парсинга PersistentFlags.
package cli
