package domain

import (
	"time"
)

// Schedule — расписание периодической сборки проекта.
//
// Schedules объявляются в flow-файле и обрабатываются scheduler'ом:
// когда наступает NextDueAt, публикуется запрос на сборку.
type Schedule struct {
	// Name — имя расписания (метка блока в flow-файле).
	Name string `json:"name"`

	// Backend — backend, который выполнит сборку.
	Backend string `json:"backend"`

	// ProjectDir — каталог проекта.
	ProjectDir string `json:"project_dir"`

	// CronExpr — cron-выражение.
	// Формат: "минуты часы дни месяцы дни_недели"
	// Примеры:
	//   "0 2 * * *"     — каждый день в 2:00
	//   "*/30 * * * *"  — каждые 30 минут
	CronExpr string `json:"cron_expr"`

	// Timezone — часовой пояс для вычисления времени. По умолчанию: "UTC".
	Timezone string `json:"timezone,omitempty"`

	// Stages — стадии для каждой сборки.
	Stages StageFlags `json:"stages"`

	// NextDueAt — время следующего запуска.
	NextDueAt *time.Time `json:"next_due_at,omitempty"`

	// LastRunAt — время последнего запроса на сборку.
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
}

// Request возвращает BuildRequest для расписания.
func (s *Schedule) Request() BuildRequest {
	return BuildRequest{ProjectDir: s.ProjectDir, Stages: s.Stages}
}

// IsDue возвращает true, если время запуска наступило.
func (s *Schedule) IsDue(now time.Time) bool {
	return s.NextDueAt != nil && !now.Before(*s.NextDueAt)
}

// RecordRun фиксирует запуск и следующее время.
func (s *Schedule) RecordRun(at, nextDue time.Time) {
	s.LastRunAt = &at
	s.NextDueAt = &nextDue
}
