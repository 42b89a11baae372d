package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dobryakk5/nsk/core/telegram/callbacks"
	"github.com/dobryakk5/nsk/core/telegram/router"
	"github.com/dobryakk5/nsk/core/telegram/state"
	"github.com/dobryakk5/nsk/internal/profile"
)

// StateAwaitingRegNumber marks a user who was asked for the registration number.
const StateAwaitingRegNumber state.State = "awaiting_reg_number"

// Profiles is the part of profile.Store the handlers use.
type Profiles interface {
	UpsertOnFirstContact(ctx context.Context, c profile.Contact) (bool, error)
	SetRegistrationNumber(ctx context.Context, userID, number int64) error
	Get(ctx context.Context, userID int64) (profile.Profile, error)
	ListAll(ctx context.Context) ([]profile.Listing, error)
	IsAdmin(ctx context.Context, userID int64) bool
}

// Handlers implements every rule of the bot.
type Handlers struct {
	Profiles Profiles
	Texts    Texts
	// Delay separates the form link from the follow-up prompt.
	Delay time.Duration
}

// NewHandlers builds handlers from settings.
func NewHandlers(p Profiles, s Settings) *Handlers {
	return &Handlers{Profiles: p, Texts: NewTexts(s), Delay: s.FollowUpDelay}
}

// wait pauses for d or until ctx ends.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Start greets the user, then prompts for the registration number.
func (h *Handlers) Start(ctx context.Context, req *router.Request) (router.Transition, error) {
	welcome := router.Text(h.Texts.Welcome(req.Event.FirstName))
	welcome.Keyboard = mainKeyboard()
	if err := req.Reply.Send(ctx, welcome); err != nil {
		return router.Stay(), err
	}
	if err := wait(ctx, h.Delay); err != nil {
		return router.Stay(), err
	}
	follow := router.Text(textFollowUp)
	follow.Inline = followUpActions()
	if err := req.Reply.Send(ctx, follow); err != nil {
		return router.Stay(), err
	}
	return router.To(StateAwaitingRegNumber), nil
}

// MainMenu shows the reply keyboard and leaves any conversation.
func (h *Handlers) MainMenu(ctx context.Context, req *router.Request) (router.Transition, error) {
	msg := router.Text(textMainMenu)
	msg.Keyboard = mainKeyboard()
	return router.Clear(), req.Reply.Send(ctx, msg)
}

// Register resends the form link and asks for the number.
func (h *Handlers) Register(ctx context.Context, req *router.Request) (router.Transition, error) {
	if err := req.Reply.Send(ctx, router.Text(h.Texts.FormLink())); err != nil {
		return router.Stay(), err
	}
	if err := wait(ctx, h.Delay); err != nil {
		return router.Stay(), err
	}
	if err := req.Reply.Send(ctx, router.Text(textPrompt)); err != nil {
		return router.Stay(), err
	}
	return router.To(StateAwaitingRegNumber), nil
}

// CaptureNumber parses the awaited registration number. Anything that is not
// a base-10 integer keeps the user awaiting.
func (h *Handlers) CaptureNumber(ctx context.Context, req *router.Request) (router.Transition, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(req.Event.Text), 10, 64)
	if err != nil {
		return router.Stay(), req.Reply.Send(ctx, router.Text(textRetry))
	}
	if err := h.Profiles.SetRegistrationNumber(ctx, req.Event.UserID, n); err != nil {
		if sendErr := req.Reply.Send(ctx, router.Text(textSaveFailed)); sendErr != nil {
			err = errors.Join(err, sendErr)
		}
		return router.Stay(), fmt.Errorf("capture registration number: %w", err)
	}
	return router.Clear(), req.Reply.Send(ctx, router.Text(h.Texts.Saved(n)))
}

// MyData shows the curator number and the user's own number.
func (h *Handlers) MyData(ctx context.Context, req *router.Request) (router.Transition, error) {
	p, err := h.Profiles.Get(ctx, req.Event.UserID)
	switch {
	case errors.Is(err, profile.ErrNotFound):
		return router.Stay(), req.Reply.Send(ctx, router.Text(textNoData))
	case err != nil:
		if sendErr := req.Reply.Send(ctx, router.Text(textUnavailable)); sendErr != nil {
			err = errors.Join(err, sendErr)
		}
		return router.Stay(), fmt.Errorf("my data: %w", err)
	}
	return router.Stay(), req.Reply.Send(ctx, router.Text(h.Texts.MyData(p)))
}

func (h *Handlers) Support(ctx context.Context, req *router.Request) (router.Transition, error) {
	return router.Stay(), req.Reply.Send(ctx, router.Text(h.Texts.Support()))
}

func (h *Handlers) Order(ctx context.Context, req *router.Request) (router.Transition, error) {
	return router.Stay(), req.Reply.Send(ctx, router.Text(h.Texts.Order()))
}

func (h *Handlers) GoalMenu(ctx context.Context, req *router.Request) (router.Transition, error) {
	msg := router.Text(textGoals)
	msg.Inline = goalButtons()
	return router.Stay(), req.Reply.Send(ctx, msg)
}

// GoalPick answers a "goal|<id>" press. Unknown ids reopen the menu.
func (h *Handlers) GoalPick(ctx context.Context, req *router.Request) (router.Transition, error) {
	_, id := callbacks.ParseData(req.Event.Data)
	g, ok := findGoal(id)
	if !ok {
		return h.GoalMenu(ctx, req)
	}
	return router.Stay(), req.Reply.Send(ctx, router.Text(h.Texts.GoalChosen(g)))
}

// Users lists registered users to admins. Non-admins get a denial and no
// query runs.
func (h *Handlers) Users(ctx context.Context, req *router.Request) (router.Transition, error) {
	if !h.Profiles.IsAdmin(ctx, req.Event.UserID) {
		return router.Stay(), req.Reply.Send(ctx, router.Text(textDenied))
	}
	rows, err := h.Profiles.ListAll(ctx)
	if err != nil {
		if sendErr := req.Reply.Send(ctx, router.Text(textUnavailable)); sendErr != nil {
			err = errors.Join(err, sendErr)
		}
		return router.Stay(), fmt.Errorf("list users: %w", err)
	}
	if len(rows) == 0 {
		return router.Stay(), req.Reply.Send(ctx, router.Text(h.Texts.Users(rows)))
	}
	return router.Stay(), req.Reply.Send(ctx, router.Markdown(h.Texts.Users(rows)))
}
