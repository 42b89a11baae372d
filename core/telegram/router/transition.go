package router

import "github.com/dobryakk5/nsk/core/telegram/state"

type transitionKind int

const (
	transitionStay transitionKind = iota
	transitionTo
	transitionClear
)

// Transition is the state change a handler asks the router to apply.
type Transition struct {
	kind transitionKind
	to   state.State
}

// Stay keeps the current state.
func Stay() Transition { return Transition{kind: transitionStay} }

// To moves the user into st.
func To(st state.State) Transition { return Transition{kind: transitionTo, to: st} }

// Clear returns the user to idle.
func Clear() Transition { return Transition{kind: transitionClear} }

// next computes the resulting state from the current one.
func (t Transition) next(from state.State) state.State {
	switch t.kind {
	case transitionTo:
		if t.to.IsIdle() {
			return state.Idle
		}
		return t.to
	case transitionClear:
		return state.Idle
	}
	return from
}

func (t Transition) String() string {
	switch t.kind {
	case transitionTo:
		return "to:" + t.to.String()
	case transitionClear:
		return "clear"
	}
	return "stay"
}
