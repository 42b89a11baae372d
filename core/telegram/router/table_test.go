package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/dobryakk5/nsk/core/telegram/state"
)

func noop(context.Context, *Request) (Transition, error) { return Stay(), nil }

func TestValidateAcceptsOrderedTable(t *testing.T) {
	require.NoError(t, testTable().Validate())
}

func TestValidateRejectsRuleBehindCatchAll(t *testing.T) {
	table := NewTable(
		Rule{Name: "capture", On: KindText, Match: AnyText(), When: InState(awaiting), Handler: noop},
		Rule{Name: "menu", On: KindText, Match: Exact("Menu"), When: AnyState(), Handler: noop},
	)
	err := table.Validate()
	require.ErrorIs(t, err, ErrShadowed)
	assert.Contains(t, err.Error(), "menu (rule 2)")
}

func TestValidateAllowsDisjointCatchAll(t *testing.T) {
	table := NewTable(
		Rule{Name: "capture", On: KindText, Match: AnyText(), When: InState(awaiting), Handler: noop},
		Rule{Name: "idle.text", On: KindText, Match: Exact("Menu"), When: InState(state.Idle), Handler: noop},
		Rule{Name: "button", On: KindButton, Match: Key("menu"), When: AnyState(), Handler: noop},
	)
	assert.NoError(t, table.Validate())
}

func TestValidateRejectsDuplicateMatcher(t *testing.T) {
	table := NewTable(
		Rule{Name: "support", On: KindButton, Match: Key("support"), When: AnyState(), Handler: noop},
		Rule{Name: "support.again", On: KindButton, Match: Key("support"), When: InState(awaiting), Handler: noop},
	)
	assert.ErrorIs(t, table.Validate(), ErrShadowed)
}

func TestValidateReportsMissingFields(t *testing.T) {
	table := NewTable(
		Rule{On: KindText, Match: AnyText(), When: AnyState(), Handler: noop},
		Rule{Name: "no-matcher", On: KindText, When: AnyState(), Handler: noop},
		Rule{Name: "no-when", On: KindText, Match: Exact("a"), Handler: noop},
		Rule{Name: "no-kind", Match: Exact("a"), When: AnyState(), Handler: noop},
	)
	err := table.Validate()
	require.ErrorIs(t, err, ErrInvalidRule)
	for _, want := range []string{"rule 1 has no name", "no-matcher has no matcher", "no-when has no state condition", "no-kind has unknown kind"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestDescribe(t *testing.T) {
	table := NewTable(
		Rule{Name: "start", On: KindCommand, Match: Exact("/start"), When: AnyState(), Description: "Start", Handler: noop},
		Rule{Name: "goal", On: KindButton, Match: Key("goal"), When: InState(state.Idle, awaiting), Handler: noop},
	)
	want := "01 start on=command match=exact:/start when=any desc=\"Start\"\n" +
		"02 goal on=button match=key:goal when=state:idle,awaiting_number\n"
	assert.Equal(t, want, table.Describe())
}

func TestCommands(t *testing.T) {
	table := testTable().Add(
		Rule{Name: "start.again", On: KindCommand, Match: Exact("/start"), When: AnyState(), Description: "Dup", Handler: noop},
		Rule{Name: "hidden", On: KindCommand, Match: Exact("/users"), When: AnyState(), Handler: noop},
	)
	assert.Equal(t, []CommandInfo{{Command: "/start", Description: "Start"}}, table.Commands())
	assert.Equal(t, []tele.Command{{Text: "start", Description: "Start"}}, TeleCommands(table.Commands()))
}

func TestMatchers(t *testing.T) {
	assert.True(t, Exact("a").Match("a"))
	assert.False(t, Exact("a").Match("A"))
	assert.True(t, OneOf("x", "y").Match("y"))
	assert.True(t, Key("goal").Match("goal|sport"))
	assert.True(t, Key("my_data").Match("my_data"))
	assert.False(t, Key("goal").Match("goals|x"))
	assert.True(t, AnyText().Match(""))
	assert.Equal(t, "one_of:x,y", OneOf("x", "y").String())
}

func TestConditions(t *testing.T) {
	assert.True(t, InState(state.Idle).Allows(""), "empty state counts as idle")
	assert.False(t, InState(awaiting).Allows(state.Idle))
	assert.True(t, AnyState().Allows(awaiting))
	assert.False(t, Condition{}.valid())
}
