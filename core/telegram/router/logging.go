package router

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/dobryakk5/nsk/core/logger"
)

func logHandled(ctx context.Context, rule Rule, ev Event, out Outcome, reply Responder, err error, start time.Time) {
	attrs := []slog.Attr{
		slog.String("status", logger.Status(err)),
		slog.String("rule", rule.Name),
		slog.String("kind", ev.Kind.String()),
		slog.String("state_from", out.From.String()),
		slog.String("state_to", out.To.String()),
		slog.String("outcome", outcomeOf(err)),
		slog.Duration("duration", logger.Took(start)),
	}
	if c, ok := reply.(Counter); ok {
		msgs, kb := c.Counts()
		attrs = append(attrs, slog.Int("messages", msgs), slog.Bool("kb", kb))
	}
	level := slog.LevelInfo
	if err != nil {
		level = slog.LevelError
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", deriveErrorCode(err)),
			slog.String("cause", rule.Name),
		)
	}
	logger.Event(ctx, component, level, "handler.handled", attrs...)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	}
	return "fail"
}

// deriveErrorCode names an error for the err_code field: its Code() when it
// has one, else its innermost concrete type.
func deriveErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrHandlerPanic) {
		return "PANIC"
	}
	type coder interface{ Code() string }
	var c coder
	if errors.As(err, &c) {
		if code := strings.TrimSpace(c.Code()); code != "" {
			return strings.ToUpper(strings.ReplaceAll(code, " ", "_"))
		}
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != nil && t.Name() != "" {
		return strings.ToUpper(t.Name())
	}
	return "UNKNOWN_ERROR"
}
