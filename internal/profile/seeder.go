package profile

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/dobryakk5/nsk/core/logger"
)

// AdminSeeder promotes the configured user ids on startup. Ids without a
// profile are skipped; they are picked up on the next start after the user
// has written to the bot.
type AdminSeeder struct {
	IDs []int64
}

// Name implements bootstrap.Seeder.
func (AdminSeeder) Name() string { return "profile.admins" }

// Seed implements bootstrap.Seeder.
func (a AdminSeeder) Seed(ctx context.Context, db *sqlx.DB) error {
	if len(a.IDs) == 0 {
		return nil
	}
	n, err := NewStore(db).PromoteAdmins(ctx, a.IDs)
	if err != nil {
		return err
	}
	logger.SEED.Info("admins promoted",
		slog.String("event", "seed.admins"),
		slog.String("status", "ok"),
		slog.Int("configured", len(a.IDs)),
		slog.Int64("promoted", n),
	)
	return nil
}
