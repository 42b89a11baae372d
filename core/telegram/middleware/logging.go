package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dobryakk5/nsk/core/logger"
	tghelpers "github.com/dobryakk5/nsk/core/telegram/helpers"
	"github.com/dobryakk5/nsk/core/telegram/router"

	tele "gopkg.in/telebot.v4"
)

// dedupe remembers update ids for a while so webhook redeliveries are
// logged once.
type dedupe struct {
	mu   sync.Mutex
	seen map[int]time.Time
	ttl  time.Duration
	now  func() time.Time
}

func newDedupe(ttl time.Duration) *dedupe {
	return &dedupe{seen: make(map[int]time.Time), ttl: ttl, now: time.Now}
}

// first reports whether id has not been seen within ttl.
func (d *dedupe) first(id int) bool {
	now := d.now()
	d.mu.Lock()
	defer d.mu.Unlock()
	for k, ts := range d.seen {
		if now.Sub(ts) > d.ttl {
			delete(d.seen, k)
		}
	}
	if _, ok := d.seen[id]; ok {
		return false
	}
	d.seen[id] = now
	return true
}

// RequestLogger stamps the request id on the context and logs a sampled
// debug line when the update enters and leaves the handler.
func RequestLogger() tele.MiddlewareFunc {
	recent := newDedupe(10 * time.Second)
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			ctx := tghelpers.BuildContext(c)
			c.Set("rid", logger.RIDFrom(ctx))

			upd := c.Update()
			if !logger.ShouldSampleDebug() || !recent.first(upd.ID) {
				return next(c)
			}

			attrs := updateAttrs(upd)
			logger.Debug(ctx, "tg", "update.received", attrs...)

			start := time.Now()
			err := next(c)
			logger.Debug(ctx, "tg", "update.done",
				slog.String("status", logger.Status(err)),
				attrs[0],
				slog.Duration("duration", logger.Took(start)),
			)
			return err
		}
	}
}

// updateAttrs describes the update the way the router will see it. The
// first attr is always the kind.
func updateAttrs(upd tele.Update) []slog.Attr {
	ev, ok := router.EventFromUpdate(upd)
	if !ok {
		return []slog.Attr{slog.String("kind", "ignored"), slog.Int("update_id", upd.ID)}
	}
	attrs := []slog.Attr{
		slog.String("kind", ev.Kind.String()),
		slog.Int("update_id", upd.ID),
		slog.String("payload", logger.SanitizeLimit(ev.Payload(), 128)),
	}
	if ev.Username != "" {
		attrs = append(attrs, slog.String("username", logger.SanitizeLimit(ev.Username, 64)))
	}
	if ev.Args != "" {
		attrs = append(attrs, slog.String("args", logger.SanitizeLimit(ev.Args, 64)))
	}
	return attrs
}
