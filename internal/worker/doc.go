// Package worker выполняет сборки по запросам из очереди.
//
// # Обзор
//
// Worker — stateless компонент Synthflow. Он отвечает за:
//
//   - Получение запросов builds.requested из RabbitMQ
//   - Запуск синтеза через backend (один вызов внешнего инструмента)
//   - Ведение записи о сборке в PostgreSQL
//   - Выгрузку отчёта в хранилище артефактов (если настроено)
//   - Публикацию события builds.completed
//
// Workers масштабируются горизонтально — несколько экземпляров
// потребляют из одной очереди builds.requested.
//
// # Ключевые компоненты
//
// ## Worker
//
// Основная структура, управляющая жизненным циклом.
// Создаётся через New(cfg Config) и запускается методом Start(ctx).
//
//	w := worker.New(worker.Config{
//	    Builds:    repo.NewBuildRepo(pool),
//	    Backends:  factory,
//	    Publisher: publisher,
//	    Conn:      mqConn,
//	    Logger:    logger,
//	})
//
//	if err := w.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Stop()
//
// # Обработка запроса
//
//  1. Декодирование BuildRequestedPayload
//  2. Поиск backend по имени
//  3. Создание записи PENDING, перевод в RUNNING
//  4. Backend.Build — синтез и разбор отчётов
//  5. Успех → SUCCEEDED с отчётом, ошибка → FAILED с текстом ошибки
//  6. Выгрузка артефактов, publish BuildCompleted
//
// # Ошибки
//
// Повторов нет: ошибка сборки (toolchain не найден, каталог проекта
// отсутствует, инструмент не запустился) записывается в FAILED, сообщение
// подтверждается. Сообщение, которое нельзя разобрать, отклоняется без
// requeue и уходит в DLQ.
package worker
