package telemetry

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel разбирает уровень логирования без учёта регистра.
// Возможные значения: DEBUG, INFO, WARN (WARNING), ERROR.
// Пустое или неизвестное значение — INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogLevel определяет уровень логирования из переменной LOG_LEVEL.
func LogLevel() slog.Level {
	return ParseLevel(os.Getenv("LOG_LEVEL"))
}

// SetupLogger инициализирует глобальный логгер демонов: stdout,
// формат из LOG_FORMAT, уровень из LOG_LEVEL.
//
// Формат вывода:
//   - "json" (по умолчанию) — JSON формат для production
//   - "text" — человекочитаемый формат для разработки
func SetupLogger() *slog.Logger {
	return SetupLoggerTo(os.Stdout, os.Getenv("LOG_FORMAT"), LogLevel())
}

// SetupLoggerTo инициализирует глобальный логгер с явными writer, форматом
// и уровнем. CLI пишет логи в stderr, чтобы не смешивать их с выводом команд.
func SetupLoggerTo(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// Ключи контекста для передачи данных в логгер.
type ctxKey string

const (
	// CtxLogger — ключ для логгера в контексте.
	CtxLogger ctxKey = "logger"
)

// WithLogger добавляет логгер в контекст.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, CtxLogger, logger)
}

// FromContext извлекает логгер из контекста.
// Если логгер не найден, возвращает глобальный.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(CtxLogger).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithBuildID возвращает логгер с добавленным build_id.
func WithBuildID(logger *slog.Logger, buildID string) *slog.Logger {
	return logger.With("build_id", buildID)
}

// WithBackend возвращает логгер с добавленным backend.
func WithBackend(logger *slog.Logger, backend string) *slog.Logger {
	return logger.With("backend", backend)
}

// WithFlowID возвращает логгер с добавленным flow_id.
func WithFlowID(logger *slog.Logger, flowID string) *slog.Logger {
	return logger.With("flow_id", flowID)
}
