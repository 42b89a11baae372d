package format

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkShortTextIsUntouched(t *testing.T) {
	assert.Equal(t, []string{"hello\nworld"}, Chunk("hello\nworld", 100))
	assert.Equal(t, []string{""}, Chunk("", 10))
}

func TestChunkBreaksOnLines(t *testing.T) {
	text := "aaaa\nbbbb\ncccc\n"
	assert.Equal(t, []string{"aaaa\nbbbb", "cccc"}, Chunk(text, 10))
}

func TestChunkRespectsLimitInRunes(t *testing.T) {
	line := strings.Repeat("я", 7) + "\n"
	text := strings.Repeat(line, 50)
	chunks := Chunk(text, 30)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 30)
	}
	assert.Equal(t, strings.TrimRight(text, "\n"), strings.Join(chunks, "\n"))
}

func TestChunkCutsLongLine(t *testing.T) {
	chunks := Chunk(strings.Repeat("x", 25), 10)
	assert.Equal(t, []string{"xxxxxxxxxx", "xxxxxxxxxx", "xxxxx"}, chunks)
}

func TestInt64OrDefault(t *testing.T) {
	n := int64(-5)
	assert.Equal(t, "-5", Int64OrDefault(&n, "none"))
	assert.Equal(t, "none", Int64OrDefault(nil, "none"))
}
