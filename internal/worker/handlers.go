package worker

import (
	"context"
	"fmt"
	"strings"

	"github.com/shaiso/Synthflow/internal/domain"
	"github.com/shaiso/Synthflow/internal/mq"
	"github.com/shaiso/Synthflow/internal/telemetry"
)

// HandleBuildRequested обрабатывает сообщение build.requested.
//
// Ошибка возвращается только когда сообщение нельзя обработать
// (не тот тип, битый payload, неизвестный backend, сбой БД) — такое
// сообщение уходит в DLQ. Неудачная сборка ошибкой не считается.
func (w *Worker) HandleBuildRequested(ctx context.Context, msg *mq.Message) error {
	if msg.Type != mq.MessageTypeBuildRequested {
		return fmt.Errorf("%w: %s", ErrUnexpectedMessage, msg.Type)
	}

	payload, err := mq.ParsePayload[mq.BuildRequestedPayload](msg)
	if err != nil {
		return err
	}

	_, err = w.Process(ctx, payload.Backend, payload.Request)
	return err
}

// Process выполняет одну сборку и возвращает итоговую запись.
func (w *Worker) Process(ctx context.Context, backendName string, req domain.BuildRequest) (*domain.BuildRecord, error) {
	if strings.TrimSpace(backendName) == "" || strings.TrimSpace(req.ProjectDir) == "" {
		return nil, fmt.Errorf("%w: backend and project_dir are required", ErrInvalidRequest)
	}

	b, err := w.backends.Get(backendName)
	if err != nil {
		return nil, err
	}

	rec := domain.NewBuildRecord(b.Name(), req)
	logger := w.buildLogger(rec.ID, rec.Backend)
	ctx = telemetry.WithLogger(ctx, logger)

	if err := w.builds.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create build record: %w", err)
	}

	rec.MarkRunning()
	if err := w.builds.Update(ctx, rec); err != nil {
		err = fmt.Errorf("update build to running: %w", err)
		w.abandon(ctx, rec, err)
		return rec, err
	}
	logger.Info("build started", "project_dir", req.ProjectDir, "stages", req.Stages.Enabled())

	report, buildErr := b.Build(ctx, req)
	if buildErr != nil {
		rec.MarkFailed(buildErr.Error())
		rec.Report = report
		logger.Error("build failed", "error", buildErr)
	} else {
		rec.MarkSucceeded(report)
		logger.Info("build succeeded", "duration", rec.Duration())
	}

	var artifactKey string
	if w.upload != nil && rec.Report != nil && !rec.Report.Empty() {
		artifactKey, err = w.upload(ctx, rec)
		if err != nil {
			// артефакты вторичны: сборка уже выполнена
			logger.Warn("failed to upload artifacts", "error", err)
		}
	}

	if err := w.builds.Update(ctx, rec); err != nil {
		// сборка завершилась, подписчики должны узнать об этом даже без записи в БД
		w.publishCompleted(ctx, rec, artifactKey)
		return rec, fmt.Errorf("update build result: %w", err)
	}

	w.publishCompleted(ctx, rec, artifactKey)
	return rec, nil
}

// abandon переводит запись в FAILED, когда сборку нельзя продолжить.
// Запись в БД best-effort: исходная ошибка важнее.
func (w *Worker) abandon(ctx context.Context, rec *domain.BuildRecord, cause error) {
	logger := telemetry.FromContext(ctx)
	rec.MarkFailed(cause.Error())
	if err := w.builds.Update(ctx, rec); err != nil {
		logger.Error("failed to mark build as failed", "error", err)
	}
	w.publishCompleted(ctx, rec, "")
}

func (w *Worker) publishCompleted(ctx context.Context, rec *domain.BuildRecord, artifactKey string) {
	if w.publisher == nil || !rec.Status.IsTerminal() {
		return
	}

	err := w.publisher.PublishBuildCompleted(ctx, mq.BuildCompletedPayload{
		BuildID:     rec.ID,
		Backend:     rec.Backend,
		ProjectDir:  rec.ProjectDir,
		Status:      rec.Status,
		Error:       rec.Error,
		ArtifactKey: artifactKey,
	})
	if err != nil {
		telemetry.FromContext(ctx).Warn("failed to publish build.completed", "error", err)
	}
}
