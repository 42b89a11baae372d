package middleware

import (
	"fmt"
	"log/slog"

	"github.com/sourcegraph/conc/panics"

	"github.com/dobryakk5/nsk/core/logger"
	tghelpers "github.com/dobryakk5/nsk/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// RecoverMiddleware catches panics in handlers and prevents the bot from crashing.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) (err error) {
		var pc panics.Catcher
		pc.Try(func() { err = next(c) })
		if r := pc.Recovered(); r != nil {
			logger.Error(tghelpers.BuildContext(c), "tg", "tg.panic",
				slog.String("status", "fail"),
				slog.String("err", fmt.Sprint(r.Value)),
				slog.String("err_code", "PANIC"),
				slog.String("stack", string(r.Stack)),
			)
			return nil
		}
		return err
	}
}
