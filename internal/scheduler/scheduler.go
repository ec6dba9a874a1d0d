package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/shaiso/Synthflow/internal/domain"
	"github.com/shaiso/Synthflow/internal/mq"
	"github.com/shaiso/Synthflow/internal/telemetry"
)

// RequestPublisher публикует запросы на сборку (mq.Publisher).
type RequestPublisher interface {
	PublishBuildRequested(ctx context.Context, payload mq.BuildRequestedPayload) error
}

// Elector решает, тикает ли этот экземпляр (repo.AdvisoryLeader).
type Elector interface {
	Check(ctx context.Context) bool
	Resign(ctx context.Context)
}

// Scheduler публикует запросы на сборку по расписаниям.
type Scheduler struct {
	publisher RequestPublisher
	elector   Elector
	logger    *slog.Logger
	now       func() time.Time

	mu        sync.Mutex
	schedules []*domain.Schedule
}

// Config — конфигурация Scheduler.
type Config struct {
	Schedules []domain.Schedule
	Publisher RequestPublisher
	Logger    *slog.Logger

	// Elector — выбор лидера; nil означает, что экземпляр всегда тикает.
	Elector Elector

	// Now подменяется в тестах.
	Now func() time.Time
}

// New проверяет расписания и вычисляет первое время запуска каждого.
func New(cfg Config) (*Scheduler, error) {
	s := &Scheduler{
		publisher: cfg.Publisher,
		elector:   cfg.Elector,
		logger:    cfg.Logger,
		now:       cfg.Now,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}

	now := s.now()
	for i := range cfg.Schedules {
		sched := cfg.Schedules[i]
		next, err := CalculateNextDue(&sched, now)
		if err != nil {
			return nil, err
		}
		sched.NextDueAt = &next
		s.schedules = append(s.schedules, &sched)
	}
	sort.Slice(s.schedules, func(i, j int) bool {
		return s.schedules[i].Name < s.schedules[j].Name
	})

	return s, nil
}

// Schedules возвращает копии расписаний с текущим состоянием.
func (s *Scheduler) Schedules() []domain.Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Schedule, 0, len(s.schedules))
	for _, sched := range s.schedules {
		out = append(out, *sched)
	}
	return out
}

// Tick публикует запросы для наступивших расписаний и сдвигает их
// следующее время. Возвращает число опубликованных запросов.
//
// Ошибка публикации одного расписания не блокирует остальные; такое
// расписание остаётся due и повторится на следующем тике.
func (s *Scheduler) Tick(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var published int
	var firstErr error

	for _, sched := range s.schedules {
		if !sched.IsDue(now) {
			continue
		}

		logger := s.logger.With("schedule", sched.Name, "backend", sched.Backend)
		err := s.publisher.PublishBuildRequested(ctx, mq.BuildRequestedPayload{
			Backend:  sched.Backend,
			Request:  sched.Request(),
			Schedule: sched.Name,
		})
		if err != nil {
			logger.Error("failed to publish build request", "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("schedule %q: %w", sched.Name, err)
			}
			continue
		}

		next, err := CalculateNextDue(sched, now)
		if err != nil {
			// проверено в New
			logger.Error("failed to calculate next due", "error", err)
			continue
		}
		sched.RecordRun(now, next)
		published++
		telemetry.BuildRequestsPublished.Inc()

		logger.Info("build requested", "project_dir", sched.ProjectDir, "next_due_at", next)
	}

	if published > 0 {
		s.logger.Debug("scheduler tick completed", "published", published)
	}
	return published, firstErr
}

// Run вызывает Tick с заданным интервалом до отмены ctx.
// При заданном Elector тик пропускается, пока экземпляр не лидер;
// на выходе лидерство освобождается.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	tk := time.NewTicker(interval)
	defer tk.Stop()

	if s.elector != nil {
		defer s.elector.Resign(context.WithoutCancel(ctx))
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			if s.elector != nil && !s.elector.Check(ctx) {
				continue
			}
			if _, err := s.Tick(ctx); err != nil {
				s.logger.Warn("scheduler tick finished with errors", "error", err)
			}
		}
	}
}
