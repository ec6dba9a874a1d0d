package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/shaiso/Synthflow/internal/domain"
)

// cronParser — парсер cron-выражений из пяти полей.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// CalculateNextDue вычисляет следующее время сборки после from.
// Время считается в часовом поясе расписания, результат в UTC.
func CalculateNextDue(sched *domain.Schedule, from time.Time) (time.Time, error) {
	loc := time.UTC
	if sched.Timezone != "" {
		l, err := time.LoadLocation(sched.Timezone)
		if err != nil {
			return time.Time{}, fmt.Errorf("schedule %q: load timezone %q: %w", sched.Name, sched.Timezone, err)
		}
		loc = l
	}

	spec, err := cronParser.Parse(sched.CronExpr)
	if err != nil {
		return time.Time{}, fmt.Errorf("schedule %q: parse cron expression %q: %w", sched.Name, sched.CronExpr, err)
	}

	return spec.Next(from.In(loc)).UTC(), nil
}

// ValidateCronExpr проверяет cron-выражение.
func ValidateCronExpr(expr string) error {
	if _, err := cronParser.Parse(expr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return nil
}
