package telegram

import (
	"time"

	coreconfig "github.com/dobryakk5/nsk/core/config"
	"github.com/dobryakk5/nsk/core/telegram/middleware"
	"github.com/dobryakk5/nsk/core/worker"

	tele "gopkg.in/telebot.v4"
)

// DefaultMiddlewares returns the chain in the order it runs:
//
//	recover -> rate_limit -> sequential -> logger
//
// rate_limit is present only with a positive interval and sequential only
// with lanes. Past sequential every step runs on the sender's lane, so the
// logger measures handler time and not queueing time.
func DefaultMiddlewares(cfg *coreconfig.Config, lanes *worker.Lanes, onLimited tele.HandlerFunc) []Middleware {
	mws := []Middleware{{Name: "recover", Use: middleware.RecoverMiddleware}}

	if rl := rateLimit(cfg, onLimited); rl != nil {
		mws = append(mws, Middleware{Name: "rate_limit", Use: rl})
	}
	if lanes != nil {
		mws = append(mws, Middleware{Name: "sequential", Use: middleware.Sequential(lanes)})
	}
	return append(mws, Middleware{Name: "logger", Use: middleware.RequestLogger()})
}

func rateLimit(cfg *coreconfig.Config, onLimited tele.HandlerFunc) tele.MiddlewareFunc {
	if cfg == nil || cfg.RateLimit.IntervalMS <= 0 {
		return nil
	}
	// Normalize already lowercased and validated the names.
	exclude := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
	for _, kind := range cfg.RateLimit.ExcludeUpdates {
		exclude[kind] = struct{}{}
	}
	return middleware.RateLimitMiddleware(middleware.RateLimitOptions{
		Interval:  time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond,
		Exclude:   exclude,
		OnLimited: onLimited,
	})
}
