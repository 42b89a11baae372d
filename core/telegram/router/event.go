package router

import "strings"

// Kind classifies an inbound event.
type Kind int

const (
	// KindCommand is a message whose text starts with "/".
	KindCommand Kind = iota + 1
	// KindText is any other text message, including reply keyboard labels.
	KindText
	// KindButton is an inline button press.
	KindButton
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindText:
		return "text"
	case KindButton:
		return "button"
	}
	return "unknown"
}

// Event is a transport-neutral inbound update.
type Event struct {
	Kind     Kind
	UpdateID int
	UserID   int64
	ChatID   int64

	Username  string
	FirstName string

	// Text is the full message text for commands and text messages.
	Text string
	// Command is the lowercased command name with its slash, bot suffix removed.
	Command string
	// Args holds text after the command name.
	Args string
	// Data is the raw button data token.
	Data string
}

// Payload is the string matchers are applied to.
func (e Event) Payload() string {
	switch e.Kind {
	case KindCommand:
		return e.Command
	case KindButton:
		return e.Data
	}
	return e.Text
}

// parseCommand splits "/start@nsk_bot foo" into "/start" and "foo".
func parseCommand(text string) (cmd, args string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") || len(text) < 2 {
		return "", "", false
	}
	head, rest, _ := strings.Cut(text, " ")
	head, _, _ = strings.Cut(head, "@")
	if len(head) < 2 {
		return "", "", false
	}
	return strings.ToLower(head), strings.TrimSpace(rest), true
}
