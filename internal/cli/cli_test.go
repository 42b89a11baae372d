package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coredatabase "github.com/dobryakk5/nsk/core/database"
)

func TestRootCommandTree(t *testing.T) {
	root := NewRootCommand()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"run", "migrate", "version"}, names)
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.RunE, "bare nskbot runs the bot")
}

func TestVersionCommand(t *testing.T) {
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "nskbot dev (local)\n", out.String())
}

func TestRunOptionsUseFlag(t *testing.T) {
	opts := runOptions(&RootOptions{ConfigPath: "/etc/nsk.yaml"})
	assert.Equal(t, "/etc/nsk.yaml", opts.ConfigPath)
	assert.Equal(t, DefaultConfigPath, opts.DefaultConfigPath)
}

func TestLoadMigrateConfigSkipsTelegram(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  host: db\n  name: nsk\n"), 0o600))

	cfg, err := loadMigrateConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, "migrations", cfg.Database.MigrationsDir)
}

func TestPrintStatus(t *testing.T) {
	var out bytes.Buffer
	printStatus(&out, coredatabase.MigrationStatus{From: 0, To: 1, Applied: []string{"000001_create_users.up.sql"}})
	assert.Equal(t, "schema version 0 -> 1\napplied: 000001_create_users.up.sql\n", out.String())

	out.Reset()
	printStatus(&out, coredatabase.MigrationStatus{From: 1, To: 1, Dirty: true})
	assert.Equal(t, "schema version 1 (dirty)\n", out.String())
}
