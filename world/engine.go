// Package world implements the change-tracking engine over nouns, noun types,
// versioned data types, attribute types and attributes.
//
// Every mutating operation runs in its own storage transaction: integrity checks
// first, then the record write, then one history row holding textual diffs of the
// record's fields. Any failure rolls the whole transaction back.
package world

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/clwm/errors"
	"github.com/teranos/clwm/logger"
)

// DefaultChangeSource labels transactions when no source is configured.
const DefaultChangeSource = "clwm"

// Engine orchestrates integrity checks, writes and history for every operation.
type Engine struct {
	storage Storage
	logger  *zap.SugaredLogger
	source  string
}

// EngineOption configures optional dependencies of the engine
type EngineOption func(*Engine)

// WithLogger replaces the component logger.
func WithLogger(l *zap.SugaredLogger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithChangeSource sets the label recorded on every change set.
func WithChangeSource(source string) EngineOption {
	return func(e *Engine) {
		if source != "" {
			e.source = source
		}
	}
}

// NewEngine creates an engine over storage. The storage must already be initialised.
func NewEngine(storage Storage, opts ...EngineOption) *Engine {
	e := &Engine{
		storage: storage,
		logger:  logger.ComponentLogger("world"),
		source:  DefaultChangeSource,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// run is the mutation template: open a transaction, run fn, commit on success and
// roll back on any error. Errors from fn are returned unchanged.
func run[T any](ctx context.Context, e *Engine, op string, fn func(tx Transaction, log *zap.SugaredLogger) (T, error)) (T, error) {
	var zero T
	start := time.Now()

	tx, err := e.storage.CreateTransaction(ctx, e.source+":"+op)
	if err != nil {
		return zero, StorageError(err, "create transaction")
	}
	log := e.logger.With(logger.FieldOperation, op, logger.FieldChangeSet, tx.ChangeSetID())

	result, err := fn(tx, log)
	if err != nil {
		rollback(ctx, tx, log)
		log.Debugw("operation aborted", logger.FieldError, err)
		return zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return zero, StorageError(err, "commit "+op)
	}
	log.Infow("operation committed", logger.FieldDurationMS, time.Since(start).Milliseconds())
	return result, nil
}

// read runs fn in a transaction that is always rolled back.
func read[T any](ctx context.Context, e *Engine, op string, fn func(tx Transaction) (T, error)) (T, error) {
	var zero T
	tx, err := e.storage.CreateTransaction(ctx, e.source+":"+op)
	if err != nil {
		return zero, StorageError(err, "create transaction")
	}
	log := e.logger.With(logger.FieldOperation, op)
	defer rollback(ctx, tx, log)

	result, err := fn(tx)
	if err != nil {
		return zero, err
	}
	return result, nil
}

func rollback(ctx context.Context, tx Transaction, log *zap.SugaredLogger) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, ErrTransactionFinalized) {
		log.Warnw("rollback failed", logger.FieldError, err)
	}
}

func logHistory(log *zap.SugaredLogger, entity string, id int64, added, deleted int) {
	log.Debugw("history recorded",
		logger.FieldEntity, entity,
		logger.FieldEntityID, id,
		logger.FieldLinesAdded, added,
		logger.FieldLinesDeleted, deleted)
}
