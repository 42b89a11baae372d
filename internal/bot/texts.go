package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dobryakk5/nsk/core/telegram/format"
	"github.com/dobryakk5/nsk/internal/profile"
)

// Reply keyboard labels. They arrive as plain text and are matched verbatim.
const (
	LabelRegister = "🔢 Ввести регистрационный номер"
	LabelMyData   = "📋 Мои данные"
	LabelSupport  = "🆘 Поддержка"
	LabelOrder    = "🛒 Заказ продукции"
	LabelGoals    = "🎯 Цели"
	LabelMainMenu = "🏠 Главное меню"
	LabelUsers    = "👥 Пользователи"
)

// Inline button data tokens.
const (
	DataRegister = "enter_reg_number"
	DataMyData   = "my_data"
	DataSupport  = "support"
	DataOrder    = "order"
	DataGoals    = "goal_menu"
	DataMainMenu = "main_menu"
	// DataGoal prefixes a goal choice: "goal|<id>".
	DataGoal = "goal"
)

const (
	textFollowUp    = "После заполнения анкеты отправьте номер, полученный в анкете, или выберите действие:"
	textPrompt      = "Отправьте номер полученный в анкете"
	textRetry       = "Пожалуйста, отправьте только число - ваш регистрационный номер."
	textSaveFailed  = "Не удалось сохранить номер. Попробуйте отправить его ещё раз позже."
	textNoData      = "❌ Данные не найдены. Попробуйте зарегистрироваться заново."
	textUnavailable = "⚠️ Сервис временно недоступен. Попробуйте позже."
	textNotSet      = "Не указан"
	textMainMenu    = "🏠 Главное меню\n\nВыберите действие на клавиатуре ниже."
	textGoals       = "🎯 Выберите вашу цель:"
	textDenied      = "⛔ Эта команда доступна только администраторам."
	textNoUsers     = "Пользователей пока нет."
)

// Goal is one entry of the goal menu.
type Goal struct {
	ID    string
	Label string
}

// Goals lists the goal menu in display order.
var Goals = []Goal{
	{ID: "energy", Label: "⚡ Энергия и тонус"},
	{ID: "weight", Label: "⚖️ Контроль веса"},
	{ID: "beauty", Label: "✨ Красота и уход"},
	{ID: "sport", Label: "🏃 Спорт и восстановление"},
}

func findGoal(id string) (Goal, bool) {
	for _, g := range Goals {
		if g.ID == id {
			return g, true
		}
	}
	return Goal{}, false
}

// Texts renders user-facing replies from the bot settings.
type Texts struct {
	s Settings
}

// NewTexts binds texts to settings.
func NewTexts(s Settings) Texts { return Texts{s: s} }

func (t Texts) Welcome(firstName string) string {
	name := strings.TrimSpace(firstName)
	if name == "" {
		name = "друг"
	}
	return fmt.Sprintf("Привет, %s! 👋\n\nДобро пожаловать в наш бот!\n\n"+
		"Пожалуйста, прочтите инструкцию, перейдите по ссылке и заполните анкету:\n%s", name, t.s.FormURL)
}

func (t Texts) FormLink() string {
	return "Заполните анкету по ссылке:\n" + t.s.FormURL
}

func (t Texts) Saved(n int64) string {
	return fmt.Sprintf("Ваш регистрационный номер %d записан", n)
}

func (t Texts) Support() string {
	return fmt.Sprintf("🆘 Поддержка\n\nЕсли у вас возникли вопросы или проблемы, обратитесь к администратору:\n%s\n\n"+
		"Или напишите на почту: %s", t.s.SupportContact, t.s.SupportEmail)
}

func (t Texts) MyData(p profile.Profile) string {
	return fmt.Sprintf("📋 Мои данные\n\nРег номер куратора: %d\nМой рег номер: %s",
		t.s.CuratorRegNumber, format.Int64OrDefault(p.RegistrationNumber, textNotSet))
}

func (t Texts) Order() string {
	if t.s.ShopURL == "" {
		return fmt.Sprintf("🛒 Заказ продукции\n\nЧтобы оформить заказ, напишите куратору или в поддержку: %s", t.s.SupportContact)
	}
	return "🛒 Заказ продукции\n\nОформить заказ можно по ссылке:\n" + t.s.ShopURL
}

func (t Texts) GoalChosen(g Goal) string {
	return fmt.Sprintf("%s\n\nКуратор подберёт программу под эту цель. Напишите в поддержку: %s", g.Label, t.s.SupportContact)
}

// Users renders the admin listing in Markdown: bold header, handles in
// inline code.
func (t Texts) Users(rows []profile.Listing) string {
	if len(rows) == 0 {
		return textNoUsers
	}
	var b strings.Builder
	fmt.Fprintf(&b, "*Пользователи* (%d)\n", len(rows))
	for i, r := range rows {
		num := textNotSet
		if r.RegistrationNumber != nil {
			num = "*" + strconv.FormatInt(*r.RegistrationNumber, 10) + "*"
		}
		handle := strings.ReplaceAll(r.Username, "`", "'")
		fmt.Fprintf(&b, "\n%d. `@%s`: %s", i+1, handle, num)
	}
	return b.String()
}
