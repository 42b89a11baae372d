package helpers

import (
	"context"

	"github.com/dobryakk5/nsk/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// Send delivers what to the current chat through s, retrying transient failures.
// A nil sender sends once.
func Send(ctx context.Context, s *sender.Sender, c tele.Context, what any, opts ...any) error {
	run := func() error { return c.Send(what, opts...) }
	if s == nil {
		return run()
	}
	return s.Do(ctx, "send.text", "sendMessage", run)
}

// Respond answers the current callback query.
func Respond(ctx context.Context, s *sender.Sender, c tele.Context, resp ...*tele.CallbackResponse) error {
	if c.Callback() == nil {
		return nil
	}
	run := func() error { return c.Respond(resp...) }
	if s == nil {
		return run()
	}
	return s.Do(ctx, "callback.respond", "answerCallbackQuery", run)
}
