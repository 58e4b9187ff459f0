package infra

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cycleLockKey is the advisory lock key guarding signal generation cycles.
const cycleLockKey int64 = 0x5157_4C4B // "QWLK"

// CycleLease serializes generation cycles across processes using a
// Postgres advisory lock. The lock is session-scoped, so the lease pins
// one pool connection for its lifetime.
type CycleLease struct {
	db  *pgxpool.Pool
	log zerolog.Logger

	mu   sync.Mutex
	conn *pgxpool.Conn
}

// NewCycleLease creates a new CycleLease.
func NewCycleLease(db *pgxpool.Pool, log zerolog.Logger) *CycleLease {
	return &CycleLease{db: db, log: log}
}

// Acquire attempts to take the cycle lock without blocking. It returns
// false when another cycle (in this or any other process) holds it.
func (l *CycleLease) Acquire(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn != nil {
		return false, nil
	}

	conn, err := l.db.Acquire(ctx)
	if err != nil {
		return false, err
	}

	var locked bool
	if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, cycleLockKey).Scan(&locked); err != nil {
		conn.Release()
		return false, err
	}
	if !locked {
		conn.Release()
		return false, nil
	}

	l.conn = conn
	return true, nil
}

// Release frees the cycle lock. Safe to call when the lease is not held.
func (l *CycleLease) Release(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn == nil {
		return
	}
	if _, err := l.conn.Exec(ctx, `SELECT pg_advisory_unlock($1)`, cycleLockKey); err != nil {
		l.log.Error().Err(err).Msg("failed to release cycle lease")
	}
	l.conn.Release()
	l.conn = nil
}
