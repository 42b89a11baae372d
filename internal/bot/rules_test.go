package bot

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/dobryakk5/nsk/core/telegram/router"
	"github.com/dobryakk5/nsk/core/telegram/state"
)

func TestRulesGolden(t *testing.T) {
	table := Rules(NewHandlers(newFakeProfiles(), testSettings()))
	require.NoError(t, table.Validate())

	g := goldie.New(t)
	g.Assert(t, "rules", []byte(table.Describe()))
}

func TestRulesCaptureIsLastTextRule(t *testing.T) {
	rules := Rules(NewHandlers(newFakeProfiles(), testSettings())).Rules()
	last := rules[len(rules)-1]
	assert.Equal(t, "register.capture", last.Name)
	assert.Equal(t, router.KindText, last.On)
}

func TestRulesCaptureBeforeLabelIsRejected(t *testing.T) {
	h := NewHandlers(newFakeProfiles(), testSettings())
	rules := Rules(h).Rules()
	capture := rules[len(rules)-1]
	reordered := router.NewTable(append([]router.Rule{capture}, rules[:len(rules)-1]...)...)
	assert.ErrorIs(t, reordered.Validate(), router.ErrShadowed)
}

func TestRulesCommands(t *testing.T) {
	table := Rules(NewHandlers(newFakeProfiles(), testSettings()))
	assert.Equal(t, []tele.Command{
		{Text: "start", Description: "Начать регистрацию"},
		{Text: "menu", Description: "Главное меню"},
	}, router.TeleCommands(table.Commands()))
}

func TestRulesMatchLabelsInEveryState(t *testing.T) {
	table := Rules(NewHandlers(newFakeProfiles(), testSettings()))
	for _, label := range []string{LabelMyData, LabelSupport, LabelOrder, LabelGoals, LabelMainMenu, LabelRegister} {
		for _, st := range []state.State{state.Idle, StateAwaitingRegNumber} {
			rule, ok := table.Match(router.Event{Kind: router.KindText, Text: label}, st)
			require.True(t, ok, label)
			assert.NotEqual(t, "register.capture", rule.Name, label)
		}
	}
}
