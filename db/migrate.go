package db

import (
	"context"
	"database/sql"
	"embed"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/clwm/errors"
	"github.com/teranos/clwm/sym"
)

//go:embed sqlite/migrations/*.sql
var migrations embed.FS

const migrationsDir = "sqlite/migrations"

// Migrate brings a world database up to the embedded schema. Each migration
// runs in its own transaction and is recorded in schema_migrations. A nil logger
// keeps it silent.
func Migrate(ctx context.Context, db *sql.DB, logger *zap.SugaredLogger) error {
	names, err := migrationNames()
	if err != nil {
		return err
	}
	done, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	applied := 0
	for _, name := range names {
		version, _, _ := strings.Cut(name, "_")
		if done[version] {
			continue
		}
		if len(done) == 0 && version != "000" {
			return errors.Newf("fresh world database must start at migration 000, found %s", name)
		}
		if err := apply(ctx, db, name, version); err != nil {
			return err
		}
		done[version] = true
		applied++
		if logger != nil {
			logger.Infow("world schema migrated", "migration", name, "symbol", sym.DB)
		}
	}

	if logger != nil {
		logger.Debugw("world schema current",
			"symbol", sym.DB,
			"migrations", len(names),
			"applied", applied)
	}
	return nil
}

// appliedVersions reads schema_migrations. A database without that table has
// nothing applied.
func appliedVersions(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	done := map[string]bool{}
	var exists bool
	err := db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'schema_migrations')").Scan(&exists)
	if err != nil {
		return nil, errors.Wrap(MarkClosed(err), "check migrations")
	}
	if !exists {
		return done, nil
	}

	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, errors.Wrap(MarkClosed(err), "list migrations")
	}
	defer rows.Close()
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, errors.Wrap(err, "scan migration")
		}
		done[v] = true
	}
	return done, errors.Wrap(rows.Err(), "list migrations")
}

// migrationNames lists the embedded migrations in apply order.
func migrationNames() ([]string, error) {
	entries, err := migrations.ReadDir(migrationsDir)
	if err != nil {
		return nil, errors.Wrap(err, "read migrations")
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// apply runs one migration and records it in the same transaction.
func apply(ctx context.Context, db *sql.DB, filename, version string) error {
	sqlBytes, err := migrations.ReadFile(path.Join(migrationsDir, filename))
	if err != nil {
		return errors.Wrapf(err, "read %s", filename)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrapf(err, "begin tx for %s", filename)
	}

	if _, err := tx.ExecContext(ctx, string(sqlBytes)); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "execute %s", filename)
	}

	// Record migration (000 creates the table, then records itself)
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "record %s", filename)
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrapf(err, "commit %s", filename)
	}
	return nil
}
