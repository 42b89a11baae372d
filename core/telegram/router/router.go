// Package router maps inbound events to handlers through an ordered rule
// table and owns every write to the conversation state store.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sourcegraph/conc/panics"

	"github.com/dobryakk5/nsk/core/logger"
	"github.com/dobryakk5/nsk/core/telegram/state"
)

const component = "tg.router"

var (
	// ErrHandlerPanic wraps a panic recovered from a handler.
	ErrHandlerPanic = errors.New("router: handler panic")
	// ErrReply marks a reply the Responder failed to deliver.
	ErrReply = errors.New("router: reply failed")
)

// Handler reacts to an event and tells the router which state comes next.
// The transition is applied when err is nil or when err is only the failure
// to deliver a reply; any other error leaves the state unchanged.
type Handler func(ctx context.Context, req *Request) (Transition, error)

// Request is what a handler sees.
type Request struct {
	Event Event
	// State is the sender's state when the event was routed.
	State state.State
	Reply Responder
}

// ContactRecorder observes every event before routing, e.g. to create a
// profile on first contact.
type ContactRecorder interface {
	RecordContact(ctx context.Context, ev Event) error
}

// Outcome summarizes one dispatch.
type Outcome struct {
	Rule    string
	Matched bool
	From    state.State
	To      state.State
}

// Options configure a Router.
type Options struct {
	Table    *Table
	States   state.Store
	Contacts ContactRecorder
}

// Router dispatches events.
type Router struct {
	table    *Table
	states   state.Store
	contacts ContactRecorder
}

// New validates the table and builds a Router.
func New(opts Options) (*Router, error) {
	if opts.Table == nil {
		return nil, errors.New("router: nil table")
	}
	if opts.States == nil {
		return nil, errors.New("router: nil state store")
	}
	if err := opts.Table.Validate(); err != nil {
		return nil, err
	}
	return &Router{table: opts.Table, states: opts.States, contacts: opts.Contacts}, nil
}

// Table returns the routing table.
func (r *Router) Table() *Table { return r.table }

// Dispatch routes one event: record contact, read state, acknowledge a
// button press, run the first matching rule and apply its transition.
func (r *Router) Dispatch(ctx context.Context, ev Event, reply Responder) (Outcome, error) {
	start := time.Now()

	if r.contacts != nil {
		if err := r.contacts.RecordContact(ctx, ev); err != nil {
			logger.Warn(ctx, component, "contact.record",
				slog.String("status", "fail"),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
		}
	}

	from, err := r.states.Get(ctx, ev.UserID)
	if err != nil {
		logger.Warn(ctx, component, "state.read",
			slog.String("status", "fail"),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		from = state.Idle
	}
	out := Outcome{From: from, To: from}

	if ev.Kind == KindButton {
		if err := reply.Ack(ctx); err != nil {
			logger.Warn(ctx, component, "button.ack",
				slog.String("status", "fail"),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
		}
	}

	rule, ok := r.table.Match(ev, from)
	if !ok {
		logger.Info(ctx, component, "route.unmatched",
			slog.String("status", "skip"),
			slog.String("outcome", "unmatched"),
			slog.String("kind", ev.Kind.String()),
			slog.String("state", from.String()),
			slog.String("payload", logger.SanitizeLimit(ev.Payload(), 64)),
		)
		return out, nil
	}
	out.Rule, out.Matched = rule.Name, true

	ctx = logger.WithHandler(ctx, rule.Name)
	tr, err := runHandler(ctx, rule, &Request{Event: ev, State: from, Reply: markReplies{reply}})
	if err == nil || replyOnly(err) {
		out.To = tr.next(from)
		if out.To != from {
			if applyErr := r.apply(ctx, ev.UserID, out.To); applyErr != nil {
				out.To = from
				err = errors.Join(err, applyErr)
			}
		}
	}

	logHandled(ctx, rule, ev, out, reply, err, start)
	return out, err
}

func (r *Router) apply(ctx context.Context, userID int64, to state.State) error {
	var err error
	if to == state.Idle {
		err = r.states.Clear(ctx, userID)
	} else {
		err = r.states.Set(ctx, userID, to)
	}
	if err != nil {
		return fmt.Errorf("apply transition to %s: %w", to, err)
	}
	return nil
}

// replyError is a Send failure seen through markReplies.
type replyError struct{ err error }

func (e *replyError) Error() string   { return "router: reply failed: " + e.err.Error() }
func (e *replyError) Unwrap() []error { return []error{ErrReply, e.err} }
func (e *replyError) Code() string    { return "REPLY_FAILED" }

// markReplies tags Send errors so Dispatch can tell them from handler errors.
type markReplies struct{ Responder }

func (m markReplies) Send(ctx context.Context, msg Message) error {
	if err := m.Responder.Send(ctx, msg); err != nil {
		return &replyError{err: err}
	}
	return nil
}

// replyOnly reports whether err, through single wraps, is a reply failure.
// A joined error means something besides the reply failed.
func replyOnly(err error) bool {
	for err != nil {
		if _, ok := err.(*replyError); ok {
			return true
		}
		if _, joined := err.(interface{ Unwrap() []error }); joined {
			return false
		}
		err = errors.Unwrap(err)
	}
	return false
}

func runHandler(ctx context.Context, rule Rule, req *Request) (tr Transition, err error) {
	var pc panics.Catcher
	pc.Try(func() { tr, err = rule.Handler(ctx, req) })
	if rec := pc.Recovered(); rec != nil {
		logger.Error(ctx, component, "handler.panic",
			slog.String("status", "fail"),
			slog.String("rule", rule.Name),
			slog.String("err", fmt.Sprint(rec.Value)),
			slog.String("stack", string(rec.Stack)),
		)
		return Stay(), fmt.Errorf("%w in %s: %v", ErrHandlerPanic, rule.Name, rec.Value)
	}
	return tr, err
}
