// Package worker выполняет запросы на сборку из очереди builds.requested.
//
// Для каждого запроса: запись PENDING → RUNNING, сборка через backend,
// загрузка артефактов, запись SUCCEEDED/FAILED и событие
// build.completed. Повторных попыток нет: неудачная сборка фиксируется
// как FAILED и сообщение подтверждается.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/shaiso/Synthflow/internal/backend"
	"github.com/shaiso/Synthflow/internal/domain"
	"github.com/shaiso/Synthflow/internal/mq"
	"github.com/shaiso/Synthflow/internal/telemetry"
)

const defaultPrefetch = 1

// BuildStore — хранилище истории сборок (repo.BuildRepo).
type BuildStore interface {
	Create(ctx context.Context, b *domain.BuildRecord) error
	Update(ctx context.Context, b *domain.BuildRecord) error
}

// Backends выдаёт backend по имени (backend.Factory).
type Backends interface {
	Get(name string) (backend.Backend, error)
}

// EventPublisher публикует итоги сборок (mq.Publisher).
type EventPublisher interface {
	PublishBuildCompleted(ctx context.Context, payload mq.BuildCompletedPayload) error
}

// ArtifactUploader сохраняет артефакты сборки и возвращает ключ отчёта.
type ArtifactUploader func(ctx context.Context, rec *domain.BuildRecord) (string, error)

// Worker обрабатывает запросы на сборку.
type Worker struct {
	builds    BuildStore
	backends  Backends
	publisher EventPublisher
	upload    ArtifactUploader
	conn      *mq.Connection

	consumer   *mq.Consumer
	logger     *slog.Logger
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// Config — конфигурация Worker.
type Config struct {
	Builds   BuildStore
	Backends Backends

	// Publisher и Upload опциональны.
	Publisher EventPublisher
	Upload    ArtifactUploader

	// Conn — соединение для consumer. Без него Start ничего не потребляет.
	Conn *mq.Connection

	Logger *slog.Logger
}

// New создаёт новый Worker.
func New(cfg Config) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Worker{
		builds:    cfg.Builds,
		backends:  cfg.Backends,
		publisher: cfg.Publisher,
		upload:    cfg.Upload,
		conn:      cfg.Conn,
		logger:    logger,
	}
}

// Start запускает consumer очереди builds.requested.
func (w *Worker) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel

	if w.conn == nil {
		w.logger.Warn("no RabbitMQ connection, worker is idle")
		return nil
	}

	w.consumer = mq.NewConsumer(w.conn, w.logger, mq.ConsumerConfig{
		Queue:    mq.QueueBuildsRequested,
		Handler:  w.HandleBuildRequested,
		Prefetch: defaultPrefetch,
	})

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if err := w.consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error("build consumer error", "error", err)
		}
	}()

	w.logger.Info("worker started", "queue", mq.QueueBuildsRequested)
	return nil
}

// Stop останавливает Worker и ждёт текущую сборку.
func (w *Worker) Stop() {
	w.logger.Info("stopping worker...")

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	if w.consumer != nil {
		w.consumer.Stop()
	}
	w.wg.Wait()

	w.logger.Info("worker stopped")
}

// buildLogger добавляет к логгеру идентификаторы сборки.
func (w *Worker) buildLogger(id uuid.UUID, backendName string) *slog.Logger {
	return telemetry.WithBackend(telemetry.WithBuildID(w.logger, id.String()), backendName)
}
