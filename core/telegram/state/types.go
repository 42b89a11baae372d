package state

import (
	"context"
	"strings"
)

// State identifies a conversation step.
type State string

// Idle means no conversation is in progress.
const Idle State = "idle"

// IsIdle reports whether s carries no conversation.
func (s State) IsIdle() bool {
	return s == "" || s == Idle
}

// String returns the state name, normalizing empty to idle.
func (s State) String() string {
	if s.IsIdle() {
		return string(Idle)
	}
	return string(s)
}

// Store keeps one State per user. Get returns Idle when nothing is stored.
type Store interface {
	Get(ctx context.Context, userID int64) (State, error)
	Set(ctx context.Context, userID int64, st State) error
	Clear(ctx context.Context, userID int64) error
}

func normalize(st State) State {
	st = State(strings.TrimSpace(string(st)))
	if st.IsIdle() {
		return Idle
	}
	return st
}
