package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/clwm/errors"
)

func TestOpenWithMigrations(t *testing.T) {
	ctx := context.Background()

	t.Run("successfully opens database and runs migrations", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")

		db, err := OpenWithMigrations(ctx, dbPath, zaptest.NewLogger(t).Sugar())
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		for _, table := range []string{
			"schema_migrations", "change_set", "noun_type", "noun", "data_type",
			"attribute_type", "attribute", "noun_type_history", "noun_history",
			"attribute_type_history", "attribute_history",
		} {
			var exists int
			err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&exists)
			require.NoError(t, err)
			assert.Equal(t, 1, exists, "%s table should exist after migrations", table)
		}
	})

	t.Run("seeds system data types", func(t *testing.T) {
		db, err := OpenWithMigrations(ctx, filepath.Join(t.TempDir(), "test.db"), nil)
		require.NoError(t, err)
		defer db.Close()

		rows, err := db.Query("SELECT name, definition FROM data_type WHERE system_defined = 1 AND version = 1 ORDER BY name")
		require.NoError(t, err)
		defer rows.Close()

		seeded := map[string]string{}
		for rows.Next() {
			var name, definition string
			require.NoError(t, rows.Scan(&name, &definition))
			seeded[name] = definition
		}
		require.NoError(t, rows.Err())
		assert.Equal(t, map[string]string{
			"Boolean":       `"Boolean"`,
			"Float":         `"Float"`,
			"Integer":       `"Integer"`,
			"LongText":      `"LongText"`,
			"NounReference": `"NounReference"`,
			"Text":          `"Text"`,
		}, seeded)
	})

	t.Run("migration errors include stack traces", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("directory permissions are not enforced for root")
		}
		tmpDir := t.TempDir()
		dbPath := filepath.Join(tmpDir, "test.db")

		firstDB, err := Open(dbPath, nil)
		require.NoError(t, err)
		firstDB.Close()

		// Make directory read-only so WAL mode will fail
		require.NoError(t, os.Chmod(tmpDir, 0555))
		defer os.Chmod(tmpDir, 0755) // Restore for cleanup

		db, err := OpenWithMigrations(ctx, dbPath, nil)
		require.Error(t, err)
		assert.Nil(t, db)

		assert.NotNil(t, errors.GetStack(err), "migration errors should have stack traces")
		detailed := fmt.Sprintf("%+v", err)
		assert.Contains(t, detailed, "connection.go", "stack should reference source file")
	})
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()

	t.Run("is idempotent", func(t *testing.T) {
		db, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
		require.NoError(t, err)
		defer db.Close()

		require.NoError(t, Migrate(ctx, db, nil))
		require.NoError(t, Migrate(ctx, db, nil), "running migrations multiple times should be safe")

		names, err := migrationNames()
		require.NoError(t, err)

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
		assert.Equal(t, len(names), count)

		var seeded int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM data_type").Scan(&seeded))
		assert.Equal(t, 6, seeded, "seed migration must not run twice")
	})

	t.Run("migrations are ordered with 000 first", func(t *testing.T) {
		names, err := migrationNames()
		require.NoError(t, err)
		require.NotEmpty(t, names)
		assert.Equal(t, "000_create_schema_migrations.sql", names[0])
	})

	t.Run("closed database is reported", func(t *testing.T) {
		db, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
		require.NoError(t, err)
		db.Close()

		err = Migrate(ctx, db, nil)
		require.Error(t, err)
		assert.True(t, IsDatabaseClosed(err))
	})
}

func TestAttributeParentCheck(t *testing.T) {
	db, err := OpenWithMigrations(context.Background(), filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`INSERT INTO attribute_type (last_changed, attribute_name, data_type) VALUES ('2026-01-01T00:00:00Z', 'age', 'Integer')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO attribute (last_changed, attribute_type_id, data, data_type_version) VALUES ('2026-01-01T00:00:00Z', 1, '"Null"', 1)`)
	assert.Error(t, err, "an attribute without a parent violates the check constraint")
}
