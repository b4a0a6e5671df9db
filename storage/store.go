// Package storage implements the world storage capability on SQLite.
package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/clwm/db"
	"github.com/teranos/clwm/errors"
	"github.com/teranos/clwm/logger"
	"github.com/teranos/clwm/world"
)

// Store is a world.Storage backed by a SQLite database.
type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for SQL tracing.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New wraps an open database. Call Init before use.
func New(database *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:     database,
		logger: logger.ComponentLogger("storage"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open opens the SQLite database at path.
func Open(path string, opts ...Option) (*Store, error) {
	s := New(nil, opts...)
	database, err := db.Open(path, s.logger)
	if err != nil {
		return nil, world.StorageError(err, "open world database")
	}
	s.db = database
	return s, nil
}

// Init applies pending migrations.
func (s *Store) Init(ctx context.Context) error {
	return world.StorageError(db.Migrate(ctx, s.db, s.logger), "init world database")
}

// CreateTransaction begins a transaction and records its change set.
func (s *Store) CreateTransaction(ctx context.Context, changeSource string) (world.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, world.StorageError(db.MarkClosed(err), "begin transaction")
	}

	ref := uuid.NewString()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO change_set (ref, source, created_at) VALUES (?, ?, ?)`,
		ref, changeSource, formatTime(s.now()))
	if err != nil {
		tx.Rollback()
		return nil, world.StorageError(err, "record change set")
	}
	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, world.StorageError(err, "record change set")
	}

	s.logger.Debugw("transaction opened",
		logger.FieldChangeSet, id,
		logger.FieldSource, changeSource,
		"ref", ref)

	return &sqlTx{
		tx:          tx,
		changeSetID: id,
		now:         s.now,
		logger:      s.logger,
	}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return errors.Wrap(err, "close world database")
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (*time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, errors.Wrapf(err, "parse timestamp %q", s)
	}
	return &t, nil
}
