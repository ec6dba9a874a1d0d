package repo

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LockConn — выделенное соединение, на котором держится advisory lock.
// Реализуется *pgxpool.Conn.
type LockConn interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Release()
}

// AdvisoryLeader — выбор лидера через pg_try_advisory_lock.
//
// Advisory lock принадлежит сессии, поэтому лидер держит одно соединение
// всё время лидерства: захват, проверка и освобождение идут через него.
// Если соединение умирает, сессия вместе с lock'ом пропадает, и Check
// возвращает false до следующего успешного захвата.
//
// Не безопасен для конкурентного использования.
type AdvisoryLeader struct {
	acquire func(ctx context.Context) (LockConn, error)
	key     int64
	logger  *slog.Logger

	conn LockConn
}

// NewAdvisoryLeader создаёт лидера, берущего соединения из pool.
func NewAdvisoryLeader(pool *pgxpool.Pool, key int64, logger *slog.Logger) *AdvisoryLeader {
	return newAdvisoryLeader(func(ctx context.Context) (LockConn, error) {
		conn, err := pool.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}, key, logger)
}

func newAdvisoryLeader(acquire func(ctx context.Context) (LockConn, error), key int64, logger *slog.Logger) *AdvisoryLeader {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdvisoryLeader{
		acquire: acquire,
		key:     key,
		logger:  logger.With("lock_key", key),
	}
}

// IsLeader сообщает, удерживается ли lock сейчас.
func (l *AdvisoryLeader) IsLeader() bool {
	return l.conn != nil
}

// Check подтверждает лидерство или пытается его получить.
func (l *AdvisoryLeader) Check(ctx context.Context) bool {
	if l.conn != nil {
		err := l.conn.Ping(ctx)
		if err == nil {
			return true
		}
		l.logger.Warn("lost scheduler leadership", "error", err)
		l.drop(ctx)
	}

	conn, err := l.acquire(ctx)
	if err != nil {
		l.logger.Warn("failed to acquire connection for leader election", "error", err)
		return false
	}

	var ok bool
	if err := conn.QueryRow(ctx, "select pg_try_advisory_lock($1)", l.key).Scan(&ok); err != nil {
		conn.Release()
		l.logger.Warn("advisory lock failed", "error", err)
		return false
	}
	if !ok {
		conn.Release()
		return false
	}

	l.conn = conn
	l.logger.Info("acquired scheduler leadership")
	return true
}

// Resign освобождает lock и возвращает соединение в пул.
func (l *AdvisoryLeader) Resign(ctx context.Context) {
	if l.conn == nil {
		return
	}
	l.drop(ctx)
	l.logger.Info("released scheduler leadership")
}

// drop снимает lock на том же соединении и отпускает его.
// Если соединение сломано, unlock не пройдёт, и пул закроет его при Release.
func (l *AdvisoryLeader) drop(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if _, err := l.conn.Exec(ctx, "select pg_advisory_unlock($1)", l.key); err != nil {
		l.logger.Debug("advisory unlock failed", "error", err)
	}
	l.conn.Release()
	l.conn = nil
}
