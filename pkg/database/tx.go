package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// retryBackoff is the linear backoff unit between transaction attempts.
const retryBackoff = 250 * time.Millisecond

// TxFunc runs inside a transaction. All reads a transaction needs must happen
// before its writes; the Querier it receives is the open pgx.Tx.
type TxFunc func(ctx context.Context, q Querier) error

// TxRunner abstracts "run this function atomically" so services can be tested
// against an in-memory store instead of a live pool.
type TxRunner interface {
	RunInTx(ctx context.Context, name string, fn TxFunc) error
	RunInTxWithRetry(ctx context.Context, name string, maxRetries int, fn TxFunc) error
}

// TxManager runs TxFuncs on a pgx pool.
type TxManager struct {
	db  PgxIface
	log *zap.Logger
}

func NewTxManager(db PgxIface, log *zap.Logger) *TxManager {
	return &TxManager{
		db:  db,
		log: log.With(zap.String("component", "tx")),
	}
}

// RunInTx executes fn inside a single transaction. Any error from fn rolls the
// whole transaction back, so either every write lands or none does.
func (m *TxManager) RunInTx(ctx context.Context, name string, fn TxFunc) error {
	tx, err := m.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin %s: %w", name, err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit %s: %w", name, err)
	}

	return nil
}

// RunInTxWithRetry runs fn transactionally, retrying up to maxRetries extra
// attempts on transient failures (serialization conflicts, deadlocks) with
// linear backoff. Non-transient errors are returned immediately.
func (m *TxManager) RunInTxWithRetry(ctx context.Context, name string, maxRetries int, fn TxFunc) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * retryBackoff
			m.log.Warn("Retrying transaction",
				zap.String("name", name),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr),
			)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		lastErr = m.RunInTx(ctx, name, fn)
		if lastErr == nil {
			return nil
		}
		if !IsTransient(lastErr) {
			return lastErr
		}
	}

	return lastErr
}

// IsTransient reports whether err is a conflict the caller may retry:
// serialization failure (40001) or deadlock detected (40P01).
func IsTransient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
