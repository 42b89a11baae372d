package router

import (
	"context"
	"strings"
	"sync"

	"github.com/dobryakk5/nsk/core/telegram/callbacks"
	"github.com/dobryakk5/nsk/core/telegram/format"
	tghelpers "github.com/dobryakk5/nsk/core/telegram/helpers"
	"github.com/dobryakk5/nsk/core/telegram/keyboard"
	"github.com/dobryakk5/nsk/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// EventFromUpdate converts a telebot update. ok is false for updates the
// router does not handle, such as media or updates without a sender.
func EventFromUpdate(u tele.Update) (Event, bool) {
	switch {
	case u.Callback != nil:
		cb := u.Callback
		if cb.Sender == nil {
			return Event{}, false
		}
		ev := Event{
			Kind:      KindButton,
			UpdateID:  u.ID,
			UserID:    cb.Sender.ID,
			ChatID:    cb.Sender.ID,
			Username:  cb.Sender.Username,
			FirstName: cb.Sender.FirstName,
			Data:      callbacks.Data(cb),
		}
		if cb.Message != nil && cb.Message.Chat != nil {
			ev.ChatID = cb.Message.Chat.ID
		}
		return ev, true

	case u.Message != nil:
		m := u.Message
		if m.Sender == nil || m.Text == "" {
			return Event{}, false
		}
		ev := Event{
			Kind:      KindText,
			UpdateID:  u.ID,
			UserID:    m.Sender.ID,
			ChatID:    m.Sender.ID,
			Username:  m.Sender.Username,
			FirstName: m.Sender.FirstName,
			Text:      m.Text,
		}
		if m.Chat != nil {
			ev.ChatID = m.Chat.ID
		}
		if cmd, args, ok := parseCommand(m.Text); ok {
			ev.Kind, ev.Command, ev.Args = KindCommand, cmd, args
		}
		return ev, true
	}
	return Event{}, false
}

// TeleHandler adapts the router to a telebot endpoint. Errors are logged by
// Dispatch and not returned, so telebot's OnError does not log them twice.
func (r *Router) TeleHandler(s *sender.Sender) tele.HandlerFunc {
	return func(c tele.Context) error {
		ev, ok := EventFromUpdate(c.Update())
		if !ok {
			return nil
		}
		ctx := tghelpers.BuildContext(c)
		_, _ = r.Dispatch(ctx, ev, NewTeleResponder(c, s))
		return nil
	}
}

// TeleResponder sends replies through a telebot context.
type TeleResponder struct {
	c    tele.Context
	send *sender.Sender

	mu       sync.Mutex
	messages int
	kb       bool
	acked    bool
}

// NewTeleResponder binds replies to c. s may be nil.
func NewTeleResponder(c tele.Context, s *sender.Sender) *TeleResponder {
	return &TeleResponder{c: c, send: s}
}

// Send delivers msg, splitting text longer than Telegram allows. The
// keyboard is attached to the last piece.
func (t *TeleResponder) Send(ctx context.Context, msg Message) error {
	chunks := format.Chunk(msg.Text, format.MaxMessageLen)
	for i, chunk := range chunks {
		opts := &tele.SendOptions{}
		if msg.Format == FormatMarkdown {
			opts.ParseMode = tele.ModeMarkdown
		}
		last := i == len(chunks)-1
		if last {
			opts.ReplyMarkup = markupOf(msg)
		}
		if err := tghelpers.Send(ctx, t.send, t.c, chunk, opts); err != nil {
			return err
		}
		t.count(last && msg.HasMarkup())
	}
	return nil
}

// Ack answers the callback once; later calls are no-ops.
func (t *TeleResponder) Ack(ctx context.Context) error {
	t.mu.Lock()
	if t.acked {
		t.mu.Unlock()
		return nil
	}
	t.acked = true
	t.mu.Unlock()
	return tghelpers.Respond(ctx, t.send, t.c)
}

// Counts reports how many messages were sent and whether any carried a keyboard.
func (t *TeleResponder) Counts() (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.messages, t.kb
}

func (t *TeleResponder) count(kb bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages++
	t.kb = t.kb || kb
}

func markupOf(msg Message) *tele.ReplyMarkup {
	switch {
	case len(msg.Inline) > 0:
		rows := make([][]keyboard.InlineBtn, len(msg.Inline))
		for i, row := range msg.Inline {
			rows[i] = make([]keyboard.InlineBtn, len(row))
			for j, b := range row {
				rows[i][j] = keyboard.InlineBtn{Text: b.Label, Data: b.Data}
			}
		}
		return keyboard.InlineButtonsRows(rows...)
	case len(msg.Keyboard) > 0:
		return keyboard.ReplyButtons(msg.Keyboard...)
	case msg.RemoveKeyboard:
		return keyboard.RemoveKeyboard()
	}
	return nil
}

// TeleCommands converts menu entries for Bot.SetCommands.
func TeleCommands(cmds []CommandInfo) []tele.Command {
	out := make([]tele.Command, len(cmds))
	for i, c := range cmds {
		out[i] = tele.Command{Text: strings.TrimPrefix(c.Command, "/"), Description: c.Description}
	}
	return out
}
