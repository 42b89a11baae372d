package format

import (
	"strings"
	"unicode/utf8"
)

// MaxMessageLen is Telegram's limit for one text message.
const MaxMessageLen = 4096

// Chunk splits text into pieces of at most limit runes, breaking after a
// newline where possible. A single line longer than limit is cut hard.
func Chunk(text string, limit int) []string {
	if limit <= 0 {
		limit = MaxMessageLen
	}
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var (
		chunks []string
		cur    strings.Builder
		n      int
	)
	flush := func() {
		if cur.Len() > 0 {
			chunks = append(chunks, strings.TrimRight(cur.String(), "\n"))
			cur.Reset()
			n = 0
		}
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		size := utf8.RuneCountInString(line)
		if n+size > limit {
			flush()
		}
		for size > limit {
			r := []rune(line)
			chunks = append(chunks, string(r[:limit]))
			line = string(r[limit:])
			size -= limit
		}
		cur.WriteString(line)
		n += size
	}
	flush()
	return chunks
}
