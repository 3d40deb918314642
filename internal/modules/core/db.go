package core

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	pqSerializationFailure pq.ErrorCode = "40001"
	pqUniqueViolation      pq.ErrorCode = "23505"
)

type txConfig struct {
	options sql.TxOptions
	retries int
}

type TransactionOption func(*txConfig)

func WithIsolationLevel(isolationLevel sql.IsolationLevel) TransactionOption {
	return func(c *txConfig) {
		c.options.Isolation = isolationLevel
	}
}

// WithRetries reruns the whole transaction when postgres aborts it with a
// serialization failure.
func WithRetries(retries int) TransactionOption {
	return func(c *txConfig) {
		c.retries = retries
	}
}

// TxValue runs transaction and commits it, or rolls back when it fails.
// The value produced by transaction is returned, e.g. an id assigned by an
// INSERT ... RETURNING statement.
func TxValue[T any](
	ctx context.Context,
	db *sql.DB,
	transaction func(context.Context, *sql.Tx) (T, error),
	opts ...TransactionOption,
) (T, error) {
	var config txConfig
	for _, opt := range opts {
		opt(&config)
	}

	for attempt := 0; ; attempt++ {
		result, err := runTx(ctx, db, &config.options, transaction)
		if err == nil || attempt >= config.retries || !IsSerializationFailure(err) {
			return result, err
		}

		Logger(ctx).Debug("retrying serialization failure", zap.Int("attempt", attempt+1))
	}
}

func runTx[T any](
	ctx context.Context,
	db *sql.DB,
	options *sql.TxOptions,
	transaction func(context.Context, *sql.Tx) (T, error),
) (result T, err error) {
	tx, err := db.BeginTx(ctx, options)
	if err != nil {
		return result, errors.Wrap(err, "failed to begin transaction")
	}

	defer func() {
		if r := recover(); r != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				err = errors.Wrapf(rollbackErr, "transaction panicked with: %v", r)
			} else {
				err = fmt.Errorf("transaction panicked with: %v", r)
			}
		}
	}()

	result, err = transaction(ctx, tx)
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return result, fmt.Errorf("%s: %w", rollbackErr.Error(), err)
		}

		return result, err
	}

	if err := tx.Commit(); err != nil {
		return result, errors.Wrap(err, "failed to commit transaction")
	}

	return result, nil
}

func IsSerializationFailure(err error) bool {
	return hasPQCode(err, pqSerializationFailure)
}

func IsUniqueViolation(err error) bool {
	return hasPQCode(err, pqUniqueViolation)
}

func hasPQCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}
