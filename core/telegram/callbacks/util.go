package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// ParseData splits callback data "key|payload". A leading "\f", which
// telebot adds to buttons built with a unique id, is dropped.
func ParseData(raw string) (key, payload string) {
	raw = strings.TrimPrefix(raw, "\f")
	key, payload, _ = strings.Cut(raw, "|")
	return strings.TrimSpace(key), payload
}

// Data returns the callback token as the client sent it, minus the "\f".
// telebot moves the unique part into Unique when it routes by it, so the
// two halves are joined back here.
func Data(cb *tele.Callback) string {
	if cb == nil {
		return ""
	}
	if cb.Unique != "" {
		if cb.Data == "" {
			return cb.Unique
		}
		return cb.Unique + "|" + cb.Data
	}
	return strings.TrimPrefix(cb.Data, "\f")
}
