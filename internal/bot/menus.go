package bot

import (
	"github.com/dobryakk5/nsk/core/telegram/keyboard"
	"github.com/dobryakk5/nsk/core/telegram/router"
)

// mainKeyboard is the persistent reply keyboard.
func mainKeyboard() [][]string {
	return [][]string{
		{LabelRegister},
		{LabelMyData, LabelSupport},
		{LabelOrder, LabelGoals},
		{LabelMainMenu},
	}
}

// followUpActions are the inline actions sent after the welcome.
func followUpActions() [][]router.Button {
	return [][]router.Button{
		{{Label: LabelRegister, Data: DataRegister}},
		{{Label: LabelMyData, Data: DataMyData}},
		{{Label: LabelSupport, Data: DataSupport}},
	}
}

func goalButtons() [][]router.Button {
	buttons := make([]router.Button, 0, len(Goals)+1)
	for _, g := range Goals {
		buttons = append(buttons, router.Button{Label: g.Label, Data: DataGoal + "|" + g.ID})
	}
	rows := keyboard.Chunk(buttons, 2)
	return append(rows, []router.Button{{Label: LabelMainMenu, Data: DataMainMenu}})
}
