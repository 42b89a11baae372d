package bot

import (
	"github.com/dobryakk5/nsk/core/telegram/router"
)

// Rules builds the routing table. Order matters: every literal label comes
// before the free-text capture, so menu taps while awaiting a number reach
// their own handler.
func Rules(h *Handlers) *router.Table {
	anyState := router.AnyState()
	return router.NewTable(
		router.Rule{Name: "start", On: router.KindCommand, Match: router.Exact("/start"), When: anyState, Description: "Начать регистрацию", Handler: h.Start},
		router.Rule{Name: "menu", On: router.KindCommand, Match: router.Exact("/menu"), When: anyState, Description: "Главное меню", Handler: h.MainMenu},
		router.Rule{Name: "users", On: router.KindCommand, Match: router.Exact("/users"), When: anyState, Handler: h.Users},

		router.Rule{Name: "menu.text", On: router.KindText, Match: router.Exact(LabelMainMenu), When: anyState, Handler: h.MainMenu},
		router.Rule{Name: "menu.button", On: router.KindButton, Match: router.Key(DataMainMenu), When: anyState, Handler: h.MainMenu},
		router.Rule{Name: "register.text", On: router.KindText, Match: router.Exact(LabelRegister), When: anyState, Handler: h.Register},
		router.Rule{Name: "register.button", On: router.KindButton, Match: router.Key(DataRegister), When: anyState, Handler: h.Register},
		router.Rule{Name: "my_data.text", On: router.KindText, Match: router.Exact(LabelMyData), When: anyState, Handler: h.MyData},
		router.Rule{Name: "my_data.button", On: router.KindButton, Match: router.Key(DataMyData), When: anyState, Handler: h.MyData},
		router.Rule{Name: "support.text", On: router.KindText, Match: router.Exact(LabelSupport), When: anyState, Handler: h.Support},
		router.Rule{Name: "support.button", On: router.KindButton, Match: router.Key(DataSupport), When: anyState, Handler: h.Support},
		router.Rule{Name: "order.text", On: router.KindText, Match: router.Exact(LabelOrder), When: anyState, Handler: h.Order},
		router.Rule{Name: "order.button", On: router.KindButton, Match: router.Key(DataOrder), When: anyState, Handler: h.Order},
		router.Rule{Name: "goals.text", On: router.KindText, Match: router.Exact(LabelGoals), When: anyState, Handler: h.GoalMenu},
		router.Rule{Name: "goals.button", On: router.KindButton, Match: router.Key(DataGoals), When: anyState, Handler: h.GoalMenu},
		router.Rule{Name: "goal.pick", On: router.KindButton, Match: router.Key(DataGoal), When: anyState, Handler: h.GoalPick},
		router.Rule{Name: "users.text", On: router.KindText, Match: router.OneOf(LabelUsers, "Пользователи"), When: anyState, Handler: h.Users},

		router.Rule{Name: "register.capture", On: router.KindText, Match: router.AnyText(), When: router.InState(StateAwaitingRegNumber), Handler: h.CaptureNumber},
	)
}
