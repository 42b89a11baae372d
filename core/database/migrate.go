package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/dobryakk5/nsk/core/logger"
)

// MigrationStatus reports the schema version after a migration command.
type MigrationStatus struct {
	From    uint
	To      uint
	Dirty   bool
	Applied []string
}

// RunMigrations applies all pending up migrations from cfg.MigrationsDir.
func RunMigrations(ctx context.Context, cfg Config) (MigrationStatus, error) {
	return runMigrate(ctx, cfg, "up", func(m *migrate.Migrate) error { return m.Up() })
}

// RollbackMigrations reverts the last steps migrations. Zero steps reverts everything.
func RollbackMigrations(ctx context.Context, cfg Config, steps int) (MigrationStatus, error) {
	return runMigrate(ctx, cfg, "down", func(m *migrate.Migrate) error {
		if steps <= 0 {
			return m.Down()
		}
		return m.Steps(-steps)
	})
}

// MigrationVersion returns the currently applied schema version.
func MigrationVersion(ctx context.Context, cfg Config) (MigrationStatus, error) {
	return runMigrate(ctx, cfg, "version", func(*migrate.Migrate) error { return migrate.ErrNoChange })
}

func runMigrate(ctx context.Context, cfg Config, op string, apply func(*migrate.Migrate) error) (MigrationStatus, error) {
	var status MigrationStatus
	if err := WaitForPostgres(ctx, cfg.DSN(), 30*time.Second); err != nil {
		logger.MIG.Error("db not ready",
			slog.String("event", "db.migrate"),
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		return status, fmt.Errorf("database not ready: %w", err)
	}

	dir, err := filepath.Abs(cfg.MigrationsDir)
	if err != nil {
		return status, fmt.Errorf("resolve migrations dir: %w", err)
	}
	files := listMigrationFiles(dir)
	logger.MIG.Debug("migrations resolved",
		slog.String("event", "db.migrate.resolve"),
		slog.String("path", dir),
		slog.Int("count", len(files)),
		slog.String("files", logger.Summarize(files, 6)),
	)

	m, err := migrate.New("file://"+filepath.ToSlash(dir), cfg.URL())
	if err != nil {
		logger.MIG.Error("init failed",
			slog.String("event", "db.migrate"),
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		return status, fmt.Errorf("initialize migrations: %w", err)
	}
	defer m.Close()

	from, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return status, fmt.Errorf("read schema version: %w", err)
	}
	status.From = from

	start := time.Now()
	applyErr := apply(m)
	took := logger.Took(start)
	if applyErr != nil && !errors.Is(applyErr, migrate.ErrNoChange) {
		logger.MIG.Error("migration failed",
			slog.String("event", "db.migrate."+op),
			slog.String("status", "fail"),
			slog.Duration("duration", took),
			slog.String("err", applyErr.Error()),
		)
		return status, fmt.Errorf("migrate %s: %w", op, applyErr)
	}

	to, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return status, fmt.Errorf("read schema version: %w", err)
	}
	status.To, status.Dirty = to, dirty
	status.Applied = selectBetween(files, uint64(from), uint64(to))

	logger.MIG.Info("migrations summary",
		slog.String("event", "db.migrate."+op),
		slog.String("status", "ok"),
		slog.Uint64("from_ver", uint64(from)),
		slog.Uint64("to_ver", uint64(to)),
		slog.Bool("dirty", dirty),
		slog.Int("count", len(status.Applied)),
		slog.Duration("duration", took),
	)
	return status, nil
}

func listMigrationFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

func parseVersion(name string) uint64 {
	prefix, _, _ := strings.Cut(name, "_")
	v, _ := strconv.ParseUint(prefix, 10, 64)
	return v
}

// selectBetween returns files whose version lies in (lo, hi], in either direction.
func selectBetween(files []string, a, b uint64) []string {
	lo, hi := min(a, b), max(a, b)
	var out []string
	for _, f := range files {
		if v := parseVersion(f); v > lo && v <= hi {
			out = append(out, f)
		}
	}
	return out
}
