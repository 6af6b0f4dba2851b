package migration

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/invoicer/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMigrator_SQLiteUpDown(t *testing.T) {
	cfg := &config.DatabaseConfig{Driver: config.DriverSQLite, DBName: filepath.Join(t.TempDir(), "migrate.db")}
	db, err := Open(cfg)
	require.NoError(t, err)
	defer db.Close()

	m, err := New(db, config.DriverSQLite, filepath.Join("..", "..", "..", "migrations"), zap.NewNop())
	require.NoError(t, err)

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, dirty)

	require.NoError(t, m.Up())
	assertTableExists(t, db, "invoice_items", true)

	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	require.NoError(t, m.Up(), "second up is a no-op")
	require.NoError(t, m.Down())
	assertTableExists(t, db, "invoice_items", false)
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(nil, "oracle", "migrations", zap.NewNop())
	assert.Error(t, err)

	_, err = Open(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func assertTableExists(t *testing.T, db *sql.DB, table string, want bool) {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n))
	assert.Equal(t, want, n == 1)
}
