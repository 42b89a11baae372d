package database

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMigrationFilesKeepsUpScriptsSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000002_add_role.up.sql",
		"000001_create_users.up.sql",
		"000001_create_users.down.sql",
		"README.md",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "000003_dir.up.sql"), 0o755))

	assert.Equal(t, []string{"000001_create_users.up.sql", "000002_add_role.up.sql"}, listMigrationFiles(dir))
	assert.Nil(t, listMigrationFiles(filepath.Join(dir, "missing")))
}

func TestSelectBetween(t *testing.T) {
	files := []string{"000001_a.up.sql", "000002_b.up.sql", "000003_c.up.sql"}

	assert.Equal(t, []string{"000002_b.up.sql", "000003_c.up.sql"}, selectBetween(files, 1, 3))
	assert.Equal(t, []string{"000002_b.up.sql", "000003_c.up.sql"}, selectBetween(files, 3, 1))
	assert.Empty(t, selectBetween(files, 2, 2))
	assert.Equal(t, uint64(0), parseVersion("bogus.up.sql"))
}

func TestConfigNormalizeDefaults(t *testing.T) {
	cfg := Config{Host: " db ", Name: "nsk", User: "bot"}
	require.NoError(t, cfg.Normalize())

	assert.Equal(t, "db", cfg.Host)
	assert.Equal(t, "5432", cfg.Port)
	assert.Equal(t, "disable", cfg.SSLMode)
	assert.Equal(t, 5, cfg.MaxConnections)
	assert.Equal(t, "migrations", cfg.MigrationsDir)
	assert.Equal(t, 5*time.Second, cfg.ConnectTimeout)

	assert.Error(t, (&Config{Name: "nsk"}).Normalize())
	assert.Error(t, (&Config{Host: "db"}).Normalize())
}

func TestConfigDSNAndURL(t *testing.T) {
	cfg := Config{Host: "db", Port: "5433", User: "bot", Password: "p ss'w", Name: "nsk", SSLMode: "require"}

	assert.Equal(t, `user=bot password='p ss\'w' host=db port=5433 dbname=nsk sslmode=require`, cfg.DSN())
	assert.Equal(t, "postgres://bot:p%20ss%27w@db:5433/nsk?sslmode=require", cfg.URL())
}
