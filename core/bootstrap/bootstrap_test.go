package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/dobryakk5/nsk/core/config"
	coredatabase "github.com/dobryakk5/nsk/core/database"
)

func sqliteConnect(context.Context, coredatabase.Config) (*sqlx.DB, error) {
	return sqlx.Open("sqlite3", ":memory:")
}

func noLogger(*coreconfig.Config) error { return nil }

func TestRunOrdersMigrationsBeforeSeeders(t *testing.T) {
	var steps []string
	res, err := Run(context.Background(), Options{
		Config:     &coreconfig.Config{},
		LoggerInit: noLogger,
		Connect: func(ctx context.Context, cfg coredatabase.Config) (*sqlx.DB, error) {
			steps = append(steps, "connect")
			return sqliteConnect(ctx, cfg)
		},
		Migrate: func(context.Context, coredatabase.Config) (coredatabase.MigrationStatus, error) {
			steps = append(steps, "migrate")
			return coredatabase.MigrationStatus{}, nil
		},
		Seeders: []Seeder{SeederFunc{Label: "admins", Fn: func(ctx context.Context, db *sqlx.DB) error {
			steps = append(steps, "seed")
			return db.PingContext(ctx)
		}}},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.DB.Close() })

	assert.Equal(t, []string{"migrate", "connect", "seed"}, steps)
}

func TestRunSkipMigrations(t *testing.T) {
	res, err := Run(context.Background(), Options{
		Config:         &coreconfig.Config{},
		LoggerInit:     noLogger,
		SkipMigrations: true,
		Connect:        sqliteConnect,
		Migrate: func(context.Context, coredatabase.Config) (coredatabase.MigrationStatus, error) {
			t.Fatal("migrate must not run")
			return coredatabase.MigrationStatus{}, nil
		},
	})
	require.NoError(t, err)
	_ = res.DB.Close()
}

func TestRunSeederFailure(t *testing.T) {
	boom := errors.New("boom")
	_, err := Run(context.Background(), Options{
		Config:         &coreconfig.Config{},
		LoggerInit:     noLogger,
		SkipMigrations: true,
		Connect:        sqliteConnect,
		Seeders: []Seeder{SeederFunc{Label: "admins", Fn: func(context.Context, *sqlx.DB) error {
			return boom
		}}},
	})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "admins")
}

func TestRunRequiresConfig(t *testing.T) {
	_, err := Run(context.Background(), Options{})
	assert.Error(t, err)
}
