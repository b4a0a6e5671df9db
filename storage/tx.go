package storage

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/clwm/internal/util"
	"github.com/teranos/clwm/logger"
	"github.com/teranos/clwm/world"
)

// sqlTx is a world.Transaction over one *sql.Tx. The mutex keeps a single
// statement in flight so concurrent tree population can share the handle.
type sqlTx struct {
	mu          sync.Mutex
	tx          *sql.Tx
	finalized   bool
	changeSetID int64
	now         func() time.Time
	logger      *zap.SugaredLogger
}

var _ world.Transaction = (*sqlTx)(nil)

func (t *sqlTx) ChangeSetID() int64 {
	return t.changeSetID
}

func (t *sqlTx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finalized {
		return world.ErrTransactionFinalized
	}
	t.finalized = true
	return world.StorageError(t.tx.Commit(), "commit")
}

func (t *sqlTx) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finalized {
		return world.ErrTransactionFinalized
	}
	t.finalized = true
	return world.StorageError(t.tx.Rollback(), "rollback")
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (t *sqlTx) exec(ctx context.Context, op, query string, args ...any) (sql.Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finalized {
		return nil, world.ErrTransactionFinalized
	}
	t.trace(op, query)
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, world.StorageError(err, op)
	}
	return res, nil
}

// insert runs an INSERT and returns the new row id.
func (t *sqlTx) insert(ctx context.Context, op, query string, args ...any) (int64, error) {
	res, err := t.exec(ctx, op, query, args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, world.StorageError(err, op)
	}
	return id, nil
}

// update runs an UPDATE and reports whether a row matched.
func (t *sqlTx) update(ctx context.Context, op, query string, args ...any) (bool, error) {
	res, err := t.exec(ctx, op, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, world.StorageError(err, op)
	}
	return n > 0, nil
}

// query runs a SELECT and calls scan for every row.
func (t *sqlTx) query(ctx context.Context, op, query string, scan func(scanner) error, args ...any) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finalized {
		return world.ErrTransactionFinalized
	}
	t.trace(op, query)
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return world.StorageError(err, op)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return world.StorageError(err, op)
		}
	}
	return world.StorageError(rows.Err(), op)
}

func (t *sqlTx) trace(op, query string) {
	if !logger.TraceSQL() {
		return
	}
	t.logger.Debugw("sql",
		logger.FieldOperation, op,
		logger.FieldChangeSet, t.changeSetID,
		logger.FieldQuery, strings.Join(strings.Fields(query), " "))
}

// queryAll collects every row of query.
func queryAll[T any](ctx context.Context, t *sqlTx, op, query string, scanRow func(scanner) (T, error), args ...any) ([]T, error) {
	out := []T{}
	err := t.query(ctx, op, query, func(row scanner) error {
		item, err := scanRow(row)
		if err != nil {
			return err
		}
		out = append(out, item)
		return nil
	}, args...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// queryOne returns the first row of query, or nil when there is none.
func queryOne[T any](ctx context.Context, t *sqlTx, op, query string, scanRow func(scanner) (T, error), args ...any) (*T, error) {
	all, err := queryAll(ctx, t, op, query, scanRow, args...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return &all[0], nil
}

// likePattern matches s as a literal substring.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func idPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	return util.Ptr(n.Int64)
}
