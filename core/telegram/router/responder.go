package router

import "context"

// Format selects how Telegram parses message text.
type Format int

const (
	// FormatPlain sends text as is.
	FormatPlain Format = iota
	// FormatMarkdown uses Telegram Markdown (bold, inline code).
	FormatMarkdown
)

// Button is an inline button carrying a data token.
type Button struct {
	Label string
	Data  string
}

// Message is one outbound reply. At most one of Inline, Keyboard and
// RemoveKeyboard should be set.
type Message struct {
	Text   string
	Format Format

	// Inline attaches an inline keyboard, one slice per row.
	Inline [][]Button
	// Keyboard attaches a persistent reply keyboard of text labels.
	Keyboard [][]string
	// RemoveKeyboard hides a previously shown reply keyboard.
	RemoveKeyboard bool
}

// HasMarkup reports whether the message carries any keyboard.
func (m Message) HasMarkup() bool {
	return len(m.Inline) > 0 || len(m.Keyboard) > 0 || m.RemoveKeyboard
}

// Responder delivers replies for the event being handled.
type Responder interface {
	Send(ctx context.Context, msg Message) error
	// Ack answers a button press so the client stops its spinner.
	Ack(ctx context.Context) error
}

// Counter is implemented by responders that count what they sent.
type Counter interface {
	Counts() (messages int, keyboard bool)
}

// Text builds a plain message.
func Text(text string) Message { return Message{Text: text} }

// Markdown builds a Markdown message.
func Markdown(text string) Message { return Message{Text: text, Format: FormatMarkdown} }
