package callbacks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

func TestParseData(t *testing.T) {
	cases := []struct {
		raw, key, payload string
	}{
		{"goal|energy", "goal", "energy"},
		{"\fgoal|weight", "goal", "weight"},
		{"my_data", "my_data", ""},
		{"a|b|c", "a", "b|c"},
		{"", "", ""},
	}
	for _, tc := range cases {
		key, payload := ParseData(tc.raw)
		assert.Equal(t, tc.key, key, tc.raw)
		assert.Equal(t, tc.payload, payload, tc.raw)
	}
}

func TestData(t *testing.T) {
	assert.Equal(t, "", Data(nil))
	assert.Equal(t, "support", Data(&tele.Callback{Data: "support"}))
	assert.Equal(t, "goal|sport", Data(&tele.Callback{Data: "\fgoal|sport"}))
	assert.Equal(t, "goal|beauty", Data(&tele.Callback{Unique: "goal", Data: "beauty"}))
	assert.Equal(t, "main_menu", Data(&tele.Callback{Unique: "main_menu"}))
}
