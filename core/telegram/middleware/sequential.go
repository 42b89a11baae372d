package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dobryakk5/nsk/core/logger"
	tghelpers "github.com/dobryakk5/nsk/core/telegram/helpers"
	"github.com/dobryakk5/nsk/core/worker"

	tele "gopkg.in/telebot.v4"
)

// Sequential hands each update to the sender's lane so one user's updates are
// handled in arrival order while different users proceed in parallel.
// Updates without a sender run inline.
func Sequential(lanes *worker.Lanes) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if lanes == nil || user == nil {
				return next(c)
			}
			ctx := tghelpers.BuildContext(c)
			err := lanes.Submit(ctx, user.ID, func(context.Context) {
				if err := next(c); err != nil {
					logger.Error(ctx, "tg", "update.failed",
						slog.String("status", "fail"),
						slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
					)
				}
			})
			switch {
			case err == nil:
			case errors.Is(err, worker.ErrLaneFull):
				logger.Warn(ctx, "tg", "update.dropped",
					slog.String("status", "skip"),
					slog.String("reason", "lane_full"),
					slog.Int("pending", lanes.Pending(user.ID)),
				)
			case errors.Is(err, worker.ErrClosed):
				logger.Debug(ctx, "tg", "update.dropped",
					slog.String("status", "skip"),
					slog.String("reason", "shutdown"),
				)
			default:
				return err
			}
			return nil
		}
	}
}
