package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInlineButtonsRowsKeepsDataVerbatim(t *testing.T) {
	m := InlineButtonsRows(
		[]InlineBtn{{Text: "Energy", Data: "goal|energy"}, {Text: "Weight", Data: "goal|weight"}},
		[]InlineBtn{{Text: "Menu", Data: "main_menu"}},
	)
	require.Len(t, m.InlineKeyboard, 2)
	assert.Equal(t, "goal|energy", m.InlineKeyboard[0][0].Data)
	assert.Equal(t, "Weight", m.InlineKeyboard[0][1].Text)
	assert.Empty(t, m.InlineKeyboard[0][0].Unique)
	assert.Equal(t, "main_menu", m.InlineKeyboard[1][0].Data)
}

func TestReplyButtons(t *testing.T) {
	m := ReplyButtons([]string{"A", "B"}, []string{"C"})
	assert.True(t, m.ResizeKeyboard)
	require.Len(t, m.ReplyKeyboard, 2)
	assert.Equal(t, "B", m.ReplyKeyboard[0][1].Text)
	assert.Equal(t, "C", m.ReplyKeyboard[1][0].Text)
}

func TestChunk(t *testing.T) {
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, Chunk([]int{1, 2, 3, 4, 5}, 2))
	assert.Equal(t, [][]int{{1}, {2}}, Chunk([]int{1, 2}, 0))
	assert.Empty(t, Chunk([]int(nil), 3))
}
