// Package databasetest opens throwaway SQLite databases for tests.
package databasetest

import (
	"path/filepath"
	"testing"
	"time"

	"blogapi/internal/adapters/database"
	"blogapi/internal/config"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// New returns a migrated database in a file under t.TempDir, closed when the
// test ends. A file is used instead of :memory: so every pooled connection
// sees the same data.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.InitDB(config.DatabaseConfig{
		Driver:          config.DriverSQLite,
		DSN:             filepath.Join(t.TempDir(), "blog.db"),
		MaxOpenConns:    4,
		MaxIdleConns:    4,
		ConnMaxLifetime: time.Minute,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = config.CloseDB(db) })

	require.NoError(t, database.Migrate(db))
	return db
}

// NewStore is New wrapped in the transactional store the services use.
func NewStore(t *testing.T) *database.Store {
	t.Helper()
	return database.NewStore(New(t))
}
